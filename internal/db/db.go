package db

import (
	"database/sql"
	"fmt"
	"log"
	"time"

	_ "github.com/lib/pq" // Драйвер PostgreSQL
)

// StorageError оборачивает ошибку слоя хранения с именем операции.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

func storageErr(op string, err error) error {
	return &StorageError{Op: op, Err: err}
}

// Store инкапсулирует соединение с базой данных.
type Store struct {
	DB *sql.DB
}

// InitDB открывает пул соединений и создаёт схему, если её ещё нет.
func InitDB(databaseURL string) (*Store, error) {
	conn, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, storageErr("open", err)
	}

	// Настройки пула
	conn.SetMaxOpenConns(50)
	conn.SetMaxIdleConns(20)
	conn.SetConnMaxLifetime(5 * time.Minute)

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, storageErr("ping", err)
	}

	store := &Store{DB: conn}
	if err := store.createTables(); err != nil {
		conn.Close()
		return nil, err
	}

	log.Println("✅ База данных инициализирована")
	return store, nil
}

func (s *Store) createTables() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			user_id BIGINT PRIMARY KEY,
			username TEXT,
			thread_id INT UNIQUE NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS bot_messages (
			message_id BIGINT PRIMARY KEY,
			user_id BIGINT NOT NULL REFERENCES users(user_id),
			thread_id INT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS message_map (
			group_message_id BIGINT NOT NULL,
			user_message_id BIGINT NOT NULL,
			user_id BIGINT NOT NULL REFERENCES users(user_id),
			PRIMARY KEY (group_message_id, user_id)
		)`,
		`CREATE TABLE IF NOT EXISTS media_groups (
			media_group_id TEXT PRIMARY KEY,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_bot_messages_user_id ON bot_messages(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_message_map_user_id ON message_map(user_id)`,
	}

	for _, stmt := range stmts {
		if _, err := s.DB.Exec(stmt); err != nil {
			return storageErr("create tables", err)
		}
	}
	return nil
}

// Ping проверяет доступность базы (для healthcheck).
func (s *Store) Ping() error {
	if err := s.DB.Ping(); err != nil {
		return storageErr("ping", err)
	}
	return nil
}

// Close закрывает пул соединений.
func (s *Store) Close() {
	if err := s.DB.Close(); err != nil {
		log.Printf("Ошибка при закрытии базы данных: %v", err)
	}
}
