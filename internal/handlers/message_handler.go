package handlers

import (
	"errors"
	"fmt"
	"log"

	tgbotapi "github.com/OvyFlash/telegram-bot-api"
	"github.com/google/uuid"

	"supportbot/internal/constants"
	"supportbot/internal/db"
	"supportbot/internal/relay"
)

// HandleMessage — точка входа обработки апдейта. Выполняется в отдельной
// горутине на каждый апдейт, паника внутри не роняет бота.
func (bh *BotHandler) HandleMessage(update tgbotapi.Update) {
	message := update.Message
	if message == nil || message.From == nil {
		return
	}

	// Короткий id для связывания строк лога одного апдейта
	evt := uuid.NewString()[:8]

	defer func() {
		if r := recover(); r != nil {
			log.Printf("[%s] ПАНИКА при обработке сообщения %d: %v", evt, message.MessageID, r)
		}
	}()

	switch {
	case message.IsCommand():
		bh.handleCommand(evt, message)
	case message.Chat.ID == bh.Deps.Config.GroupChatID:
		bh.handleGroupReply(evt, message)
	case message.Chat.IsPrivate():
		bh.handlePrivateMessage(evt, message)
	}
}

// handlePrivateMessage пересылает сообщение пользователя в его топик.
func (bh *BotHandler) handlePrivateMessage(evt string, message *tgbotapi.Message) {
	userID := message.From.ID

	user, err := bh.Deps.Store.GetUser(userID)
	if err != nil {
		log.Printf("[%s] Ошибка чтения пользователя %d: %v", evt, userID, err)
		bh.reply(message, constants.MsgSystemError)
		return
	}
	if user == nil {
		bh.reply(message, constants.MsgNoTopic)
		return
	}

	if message.MediaGroupID != "" {
		bh.Deps.Albums.Add(userID, user.ThreadID, message)
		return
	}

	if _, err := bh.Deps.Engine.RelayToOperator(message, userID, user.ThreadID); err != nil {
		log.Printf("[%s] Пересылка от пользователя %d не удалась: %v", evt, userID, err)
		bh.reportRelayError(message, err)
		return
	}
	log.Printf("[%s] Сообщение %d пользователя %d переслано в топик %d", evt, message.MessageID, userID, user.ThreadID)
}

// reportRelayError подбирает текст ошибки для пользователя по её типу.
func (bh *BotHandler) reportRelayError(message *tgbotapi.Message, err error) {
	var sizeErr *relay.SizeLimitError
	var valErr *relay.ValidationError
	var storeErr *db.StorageError
	switch {
	case errors.As(err, &sizeErr):
		bh.reply(message, fmt.Sprintf(constants.FileTooBigTemplate, sizeErr.LimitMiB))
	case errors.As(err, &valErr):
		bh.reply(message, constants.MsgUnsupported)
	case errors.As(err, &storeErr):
		bh.reply(message, constants.MsgSystemError)
	default:
		bh.reply(message, constants.MsgRelayFailed)
	}
}

// reply отправляет пользователю ответ на его же сообщение.
func (bh *BotHandler) reply(message *tgbotapi.Message, text string) {
	msg := tgbotapi.NewMessage(message.Chat.ID, text)
	msg.ReplyParameters.MessageID = message.MessageID
	if _, err := bh.Deps.Bot.Send(msg); err != nil {
		log.Printf("Не удалось ответить в чат %d: %v", message.Chat.ID, err)
	}
}
