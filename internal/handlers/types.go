package handlers

import (
	"supportbot/internal/config"
	"supportbot/internal/db"
	"supportbot/internal/mediagroup"
	"supportbot/internal/models"
	"supportbot/internal/relay"
)

// TelegramClient — операции Telegram, нужные обработчикам.
type TelegramClient interface {
	relay.Sender
	CreateForumTopic(chatID int64, name string) (int, error)
	SelfID() int64
}

// Storage — операции хранилища, нужные обработчикам.
type Storage interface {
	GetUser(userID int64) (*models.User, error)
	CreateUser(userID int64, username string, threadID int) error
	GetUserByBotMessage(messageID int) (*models.User, error)
	GetMessageMapping(groupMessageID int, userID int64) (int, error)
	AddMessageMapping(groupMessageID, userMessageID int, userID int64) error
	ListUsersWithMessageCounts() ([]db.UserReportRow, error)
}

// HandlerDependencies содержит зависимости обработчиков сообщений.
type HandlerDependencies struct {
	Config *config.Config
	Bot    TelegramClient
	Store  Storage
	Engine *relay.Engine
	Albums *mediagroup.Aggregator
}

// BotHandler обрабатывает входящие апдейты Telegram.
type BotHandler struct {
	Deps HandlerDependencies
}

// NewBotHandler создаёт обработчик. Отсутствие зависимости — ошибка программиста.
func NewBotHandler(deps HandlerDependencies) *BotHandler {
	if deps.Config == nil || deps.Bot == nil || deps.Store == nil || deps.Engine == nil || deps.Albums == nil {
		panic("handlers: все зависимости должны быть инициализированы")
	}
	return &BotHandler{Deps: deps}
}
