package db

import "time"

// UserReportRow — строка отчёта по пользователям для /export и /api/stats.
type UserReportRow struct {
	UserID    int64
	Username  string
	ThreadID  int
	CreatedAt time.Time
	Relayed   int
}

// CountUsers возвращает число пользователей с открытым диалогом.
func (s *Store) CountUsers() (int, error) {
	var n int
	if err := s.DB.QueryRow(`SELECT COUNT(*) FROM users`).Scan(&n); err != nil {
		return 0, storageErr("count users", err)
	}
	return n, nil
}

// CountBotMessages возвращает общее число пересланных ботом сообщений.
func (s *Store) CountBotMessages() (int, error) {
	var n int
	if err := s.DB.QueryRow(`SELECT COUNT(*) FROM bot_messages`).Scan(&n); err != nil {
		return 0, storageErr("count bot messages", err)
	}
	return n, nil
}

// ListUsersWithMessageCounts возвращает всех пользователей с числом пересланных
// сообщений, новые сверху.
func (s *Store) ListUsersWithMessageCounts() ([]UserReportRow, error) {
	rows, err := s.DB.Query(
		`SELECT u.user_id, COALESCE(u.username, ''), u.thread_id, u.created_at,
		        COUNT(m.message_id)
		 FROM users u
		 LEFT JOIN bot_messages m ON m.user_id = u.user_id
		 GROUP BY u.user_id, u.username, u.thread_id, u.created_at
		 ORDER BY u.created_at DESC`,
	)
	if err != nil {
		return nil, storageErr("list users", err)
	}
	defer rows.Close()

	var result []UserReportRow
	for rows.Next() {
		var r UserReportRow
		if err := rows.Scan(&r.UserID, &r.Username, &r.ThreadID, &r.CreatedAt, &r.Relayed); err != nil {
			return nil, storageErr("list users scan", err)
		}
		result = append(result, r)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("list users rows", err)
	}
	return result, nil
}
