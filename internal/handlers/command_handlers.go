package handlers

import (
	"database/sql"
	"fmt"
	"log"
	"time"

	tgbotapi "github.com/OvyFlash/telegram-bot-api"

	"supportbot/internal/constants"
	"supportbot/internal/models"
	"supportbot/internal/reports"
	"supportbot/internal/utils"
)

// handleCommand маршрутизирует команды. /start и /rules доступны в личке,
// /export и /qr — только операторам в группе.
func (bh *BotHandler) handleCommand(evt string, message *tgbotapi.Message) {
	inGroup := message.Chat.ID == bh.Deps.Config.GroupChatID

	switch message.Command() {
	case "start":
		if message.Chat.IsPrivate() {
			bh.handleStart(evt, message)
		}
	case "rules":
		bh.handleRules(message)
	case "export":
		if inGroup {
			bh.handleExport(evt, message)
		}
	case "qr":
		if inGroup {
			bh.handleQR(evt, message)
		}
	default:
		if message.Chat.IsPrivate() {
			bh.reply(message, constants.UnknownCommandText)
		}
	}
}

// handleStart создаёт топик пользователя, если его ещё нет.
func (bh *BotHandler) handleStart(evt string, message *tgbotapi.Message) {
	userID := message.From.ID
	u := models.User{UserID: userID}
	if message.From.UserName != "" {
		u.Username = sql.NullString{String: message.From.UserName, Valid: true}
	}
	username := u.DisplayName()

	existing, err := bh.Deps.Store.GetUser(userID)
	if err != nil {
		log.Printf("[%s] Ошибка чтения пользователя %d: %v", evt, userID, err)
		bh.reply(message, constants.MsgSystemError)
		return
	}
	if existing != nil {
		bh.reply(message, constants.MsgDialogExists)
		return
	}

	threadID, err := bh.Deps.Bot.CreateForumTopic(bh.Deps.Config.GroupChatID, "Диалог с "+username)
	if err != nil {
		log.Printf("[%s] Не удалось создать топик для %d: %v", evt, userID, err)
		bh.reply(message, constants.MsgDialogCreateFailed)
		return
	}

	if err := bh.Deps.Store.CreateUser(userID, username, threadID); err != nil {
		log.Printf("[%s] Не удалось сохранить пользователя %d: %v", evt, userID, err)
		bh.reply(message, constants.MsgDialogCreateFailed)
		return
	}

	log.Printf("[%s] Создан диалог: пользователь %d, топик %d", evt, userID, threadID)
	bh.reply(message, constants.MsgDialogCreated)
}

// handleRules отправляет правила использования.
func (bh *BotHandler) handleRules(message *tgbotapi.Message) {
	msg := tgbotapi.NewMessage(message.Chat.ID, constants.RulesText)
	msg.ParseMode = tgbotapi.ModeMarkdown
	msg.MessageThreadID = message.MessageThreadID
	if _, err := bh.Deps.Bot.Send(msg); err != nil {
		log.Printf("Не удалось отправить правила в чат %d: %v", message.Chat.ID, err)
		bh.reply(message, constants.MsgRulesFailed)
	}
}

// handleExport выгружает отчёт по пользователям в xlsx.
func (bh *BotHandler) handleExport(evt string, message *tgbotapi.Message) {
	rows, err := bh.Deps.Store.ListUsersWithMessageCounts()
	if err != nil {
		log.Printf("[%s] Ошибка выборки отчёта: %v", evt, err)
		bh.reply(message, constants.MsgSystemError)
		return
	}

	data, err := reports.BuildUsersReport(rows)
	if err != nil {
		log.Printf("[%s] Ошибка формирования отчёта: %v", evt, err)
		bh.reply(message, constants.MsgSystemError)
		return
	}

	name := fmt.Sprintf("users_%s.xlsx", time.Now().Format("2006-01-02"))
	doc := tgbotapi.NewDocument(message.Chat.ID, tgbotapi.FileBytes{Name: name, Bytes: data})
	doc.MessageThreadID = message.MessageThreadID
	if _, err := bh.Deps.Bot.Send(doc); err != nil {
		log.Printf("[%s] Не удалось отправить отчёт: %v", evt, err)
	}
}

// handleQR отправляет QR-код со ссылкой на бота.
func (bh *BotHandler) handleQR(evt string, message *tgbotapi.Message) {
	username := bh.Deps.Config.BotUsername
	if username == "" {
		bh.reply(message, constants.MsgQRUnavailable)
		return
	}

	png, err := utils.BotLinkQR(username)
	if err != nil {
		log.Printf("[%s] Ошибка генерации QR: %v", evt, err)
		bh.reply(message, constants.MsgSystemError)
		return
	}

	photo := tgbotapi.NewPhoto(message.Chat.ID, tgbotapi.FileBytes{Name: "bot_link.png", Bytes: png})
	photo.Caption = "https://t.me/" + username
	photo.MessageThreadID = message.MessageThreadID
	if _, err := bh.Deps.Bot.Send(photo); err != nil {
		log.Printf("[%s] Не удалось отправить QR: %v", evt, err)
	}
}
