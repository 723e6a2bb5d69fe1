package telegram_api

import (
	"encoding/json"
	"fmt"
	"log"

	tgbotapi "github.com/OvyFlash/telegram-bot-api"
)

// BotClient — обёртка над Telegram Bot API.
type BotClient struct {
	api   *tgbotapi.BotAPI
	Debug bool
}

// InitBot авторизуется в Telegram и сбрасывает вебхук вместе с накопившимися
// апдейтами, чтобы бот работал через long polling с чистого листа.
func InitBot(token string, debug bool) (*BotClient, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram auth: %w", err)
	}
	api.Debug = debug

	if _, err := api.Request(tgbotapi.DeleteWebhookConfig{DropPendingUpdates: true}); err != nil {
		log.Printf("Не удалось удалить вебхук: %v", err)
	}

	log.Printf("✅ Авторизован как аккаунт %s", api.Self.UserName)
	return &BotClient{api: api, Debug: debug}, nil
}

// Send отправляет сообщение и возвращает результат Telegram.
func (c *BotClient) Send(msg tgbotapi.Chattable) (tgbotapi.Message, error) {
	return c.api.Send(msg)
}

// Request выполняет запрос без разбора сообщения в ответе.
func (c *BotClient) Request(msg tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	return c.api.Request(msg)
}

// MakeRequest выполняет произвольный метод Bot API с параметрами.
func (c *BotClient) MakeRequest(endpoint string, params tgbotapi.Params) (*tgbotapi.APIResponse, error) {
	return c.api.MakeRequest(endpoint, params)
}

// SendMediaGroup отправляет альбом одним запросом.
func (c *BotClient) SendMediaGroup(cfg tgbotapi.MediaGroupConfig) ([]tgbotapi.Message, error) {
	return c.api.SendMediaGroup(cfg)
}

// GetUpdatesChan возвращает канал апдейтов long polling.
func (c *BotClient) GetUpdatesChan(cfg tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel {
	return c.api.GetUpdatesChan(cfg)
}

// StopReceivingUpdates останавливает long polling.
func (c *BotClient) StopReceivingUpdates() {
	c.api.StopReceivingUpdates()
}

// SelfID возвращает ID аккаунта бота.
func (c *BotClient) SelfID() int64 {
	return c.api.Self.ID
}

// CreateForumTopic создаёт топик в супергруппе и возвращает его thread ID.
// В библиотеке нет типизированного конфига для этого метода, поэтому запрос
// собирается вручную через Params.
func (c *BotClient) CreateForumTopic(chatID int64, name string) (int, error) {
	params := tgbotapi.Params{}
	params.AddNonZero64("chat_id", chatID)
	params.AddNonEmpty("name", name)

	resp, err := c.MakeRequest("createForumTopic", params)
	if err != nil {
		return 0, fmt.Errorf("createForumTopic: %w", err)
	}

	var topic struct {
		MessageThreadID int `json:"message_thread_id"`
	}
	if err := json.Unmarshal(resp.Result, &topic); err != nil {
		return 0, fmt.Errorf("createForumTopic decode: %w", err)
	}
	return topic.MessageThreadID, nil
}
