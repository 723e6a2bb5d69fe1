package handlers

import (
	"errors"
	"log"

	tgbotapi "github.com/OvyFlash/telegram-bot-api"

	"supportbot/internal/constants"
	"supportbot/internal/models"
	"supportbot/internal/relay"
)

// handleGroupReply обрабатывает ответ оператора в топике. Пересылается только
// прямой ответ на сообщение бота; всё остальное — внутренняя переписка.
func (bh *BotHandler) handleGroupReply(evt string, message *tgbotapi.Message) {
	original := message.ReplyToMessage
	if original == nil {
		return
	}
	if message.Chat.ID != bh.Deps.Config.GroupChatID {
		return
	}
	if original.From == nil || original.From.ID != bh.Deps.Bot.SelfID() {
		return
	}
	// Служебное сообщение о создании топика висит первым в каждом топике,
	// ответ на него не адресован пользователю
	if original.ForumTopicCreated != nil {
		return
	}

	user, replyTo, err := bh.resolveReplyTarget(original)
	if err != nil {
		log.Printf("[%s] Резолв адресата для сообщения %d не удался: %v", evt, original.MessageID, err)
		var routeErr *relay.RoutingError
		if errors.As(err, &routeErr) {
			bh.reply(message, constants.MsgDialogNotFound)
		} else {
			bh.reply(message, constants.MsgSystemError)
		}
		return
	}

	sent, err := bh.Deps.Engine.RelayToUser(message, user.UserID, user.ThreadID, replyTo)
	if err != nil {
		log.Printf("[%s] Ответ оператора пользователю %d не доставлен: %v", evt, user.UserID, err)
		bh.reportRelayError(message, err)
		return
	}

	if err := bh.Deps.Store.AddMessageMapping(message.MessageID, sent.MessageID, user.UserID); err != nil {
		log.Printf("[%s] Не удалось записать маппинг %d -> %d: %v", evt, message.MessageID, sent.MessageID, err)
	}
	log.Printf("[%s] Ответ оператора %d доставлен пользователю %d", evt, message.MessageID, user.UserID)
}

// resolveReplyTarget определяет пользователя-адресата и сообщение, на которое
// нужно ответить в его чате. Отсутствие диалога — ошибка маршрутизации.
func (bh *BotHandler) resolveReplyTarget(original *tgbotapi.Message) (*models.User, int, error) {
	user, err := bh.Deps.Store.GetUserByBotMessage(original.MessageID)
	if err != nil {
		return nil, 0, err
	}
	if user == nil {
		return nil, 0, &relay.RoutingError{Reason: "диалог для сообщения не найден"}
	}

	// Если оператор отвечает на копию сообщения пользователя, ответ у
	// пользователя тоже оформляется как reply на его оригинал
	replyTo, err := bh.Deps.Store.GetMessageMapping(original.MessageID, user.UserID)
	if err != nil {
		return nil, 0, err
	}
	return user, replyTo, nil
}
