// internal/config/config.go
package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
)

// Лимиты размера вложений (в байтах). Проверяются до отправки, чтобы
// сообщить пользователю понятный предел, а не текст ошибки Telegram.
const (
	MaxFileSize  = 50 * 1024 * 1024 // документы
	MaxVoiceSize = 20 * 1024 * 1024 // голосовые сообщения и видеокружки
)

// Config хранит все конфигурационные параметры приложения.
type Config struct {
	TelegramToken string
	DatabaseURL   string
	AppEnv        string
	BotUsername   string
	GroupChatID   int64 // супергруппа операторов с топиками
	HTTPPort      string
}

// LoadConfig загружает конфигурацию из переменных окружения.
// Отсутствие обязательных параметров — ошибка: без токена, базы данных
// и группы операторов боту нечего делать, останавливаемся сразу.
// LoadConfig loads configuration from environment variables.
// Missing required parameters are a hard error: fail fast at startup.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		TelegramToken: os.Getenv("TELEGRAM_APITOKEN"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		AppEnv:        os.Getenv("ENV"),
		BotUsername:   os.Getenv("BOT_USERNAME"),
		HTTPPort:      os.Getenv("PORT"),
	}

	if cfg.TelegramToken == "" {
		return nil, fmt.Errorf("TELEGRAM_APITOKEN не установлен")
	}
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL не установлена")
	}

	var err error
	cfg.GroupChatID, err = strconv.ParseInt(os.Getenv("GROUP_CHAT_ID"), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("GROUP_CHAT_ID должен быть целым числом: %v", err)
	}

	if cfg.HTTPPort == "" {
		cfg.HTTPPort = "8080"
	}
	if cfg.BotUsername == "" {
		log.Println("Предупреждение: BOT_USERNAME не установлен. Команда /qr не будет работать.")
	}

	log.Println("Конфигурация загружена.")
	return cfg, nil
}
