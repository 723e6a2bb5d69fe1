package db

import (
	"database/sql"
	"errors"

	"supportbot/internal/models"
)

func scanUser(row *sql.Row, op string) (*models.User, error) {
	var u models.User
	err := row.Scan(&u.UserID, &u.Username, &u.ThreadID, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, storageErr(op, err)
	}
	return &u, nil
}

// GetUser возвращает пользователя по Telegram ID, (nil, nil) если не найден.
func (s *Store) GetUser(userID int64) (*models.User, error) {
	row := s.DB.QueryRow(
		`SELECT user_id, username, thread_id, created_at FROM users WHERE user_id = $1`,
		userID,
	)
	return scanUser(row, "get user")
}

// GetUserByThread возвращает владельца топика, (nil, nil) если топик никому не принадлежит.
func (s *Store) GetUserByThread(threadID int) (*models.User, error) {
	row := s.DB.QueryRow(
		`SELECT user_id, username, thread_id, created_at FROM users WHERE thread_id = $1`,
		threadID,
	)
	return scanUser(row, "get user by thread")
}

// GetUserByBotMessage резолвит пользователя по ID сообщения бота в группе.
// Так определяется адресат, когда оператор отвечает на сообщение бота.
func (s *Store) GetUserByBotMessage(messageID int) (*models.User, error) {
	row := s.DB.QueryRow(
		`SELECT u.user_id, u.username, u.thread_id, u.created_at
		 FROM users u
		 JOIN bot_messages m ON m.user_id = u.user_id
		 WHERE m.message_id = $1`,
		messageID,
	)
	return scanUser(row, "get user by bot message")
}

// CreateUser сохраняет привязку пользователь-топик. Повторная вставка игнорируется.
func (s *Store) CreateUser(userID int64, username string, threadID int) error {
	_, err := s.DB.Exec(
		`INSERT INTO users (user_id, username, thread_id) VALUES ($1, $2, $3)
		 ON CONFLICT (user_id) DO NOTHING`,
		userID, username, threadID,
	)
	if err != nil {
		return storageErr("create user", err)
	}
	return nil
}
