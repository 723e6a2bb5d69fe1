package db

import (
	"database/sql"
	"errors"
)

// SaveBotMessage записывает сообщение, отправленное ботом, для резолва ответов.
func (s *Store) SaveBotMessage(messageID int, userID int64, threadID int) error {
	_, err := s.DB.Exec(
		`INSERT INTO bot_messages (message_id, user_id, thread_id) VALUES ($1, $2, $3)
		 ON CONFLICT (message_id) DO NOTHING`,
		messageID, userID, threadID,
	)
	if err != nil {
		return storageErr("save bot message", err)
	}
	return nil
}

// AddMessageMapping связывает сообщение оператора в группе с доставленной
// пользователю копией. Первая запись выигрывает, повторы игнорируются.
func (s *Store) AddMessageMapping(groupMessageID, userMessageID int, userID int64) error {
	_, err := s.DB.Exec(
		`INSERT INTO message_map (group_message_id, user_message_id, user_id)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (group_message_id, user_id) DO NOTHING`,
		groupMessageID, userMessageID, userID,
	)
	if err != nil {
		return storageErr("add message mapping", err)
	}
	return nil
}

// GetMessageMapping возвращает ID копии сообщения у пользователя, 0 если маппинга нет.
func (s *Store) GetMessageMapping(groupMessageID int, userID int64) (int, error) {
	var userMessageID int
	err := s.DB.QueryRow(
		`SELECT user_message_id FROM message_map
		 WHERE group_message_id = $1 AND user_id = $2`,
		groupMessageID, userID,
	).Scan(&userMessageID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, storageErr("get message mapping", err)
	}
	return userMessageID, nil
}

// MarkMediaGroupSeen помечает медиагруппу как отправленную.
func (s *Store) MarkMediaGroupSeen(mediaGroupID string) error {
	_, err := s.DB.Exec(
		`INSERT INTO media_groups (media_group_id) VALUES ($1)
		 ON CONFLICT (media_group_id) DO NOTHING`,
		mediaGroupID,
	)
	if err != nil {
		return storageErr("mark media group", err)
	}
	return nil
}

// CheckMediaGroup сообщает, была ли медиагруппа уже отправлена.
func (s *Store) CheckMediaGroup(mediaGroupID string) (bool, error) {
	var exists bool
	err := s.DB.QueryRow(
		`SELECT EXISTS(SELECT 1 FROM media_groups WHERE media_group_id = $1)`,
		mediaGroupID,
	).Scan(&exists)
	if err != nil {
		return false, storageErr("check media group", err)
	}
	return exists, nil
}
