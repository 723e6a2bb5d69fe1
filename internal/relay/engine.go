// Package relay пересылает сообщения между личным чатом пользователя
// и его топиком в рабочей группе.
package relay

import (
	"fmt"
	"log"

	tgbotapi "github.com/OvyFlash/telegram-bot-api"

	"supportbot/internal/config"
	"supportbot/internal/constants"
	"supportbot/internal/mediagroup"
)

// Sender — минимальный интерфейс Telegram-клиента для пересылки.
type Sender interface {
	Send(msg tgbotapi.Chattable) (tgbotapi.Message, error)
	SendMediaGroup(cfg tgbotapi.MediaGroupConfig) ([]tgbotapi.Message, error)
}

// BindingStore хранит привязку отправленных ботом сообщений к пользователям.
type BindingStore interface {
	SaveBotMessage(messageID int, userID int64, threadID int) error
}

// Engine выполняет пересылку в обе стороны.
type Engine struct {
	Bot         Sender
	Store       BindingStore
	GroupChatID int64
}

// NewEngine создаёт движок пересылки.
func NewEngine(bot Sender, store BindingStore, groupChatID int64) *Engine {
	return &Engine{Bot: bot, Store: store, GroupChatID: groupChatID}
}

// RelayToOperator пересылает сообщение пользователя в его топик группы
// и записывает привязку отправленной копии.
func (e *Engine) RelayToOperator(msg *tgbotapi.Message, userID int64, threadID int) (tgbotapi.Message, error) {
	sent, err := e.send(Classify(msg), e.GroupChatID, threadID, 0)
	if err != nil {
		return tgbotapi.Message{}, err
	}
	if err := e.Store.SaveBotMessage(sent.MessageID, userID, threadID); err != nil {
		return sent, err
	}
	return sent, nil
}

// RelayToUser пересылает сообщение оператора в личный чат пользователя.
// replyTo > 0 превращает копию в ответ на прежнее сообщение пользователя.
func (e *Engine) RelayToUser(msg *tgbotapi.Message, userID int64, threadID int, replyTo int) (tgbotapi.Message, error) {
	sent, err := e.send(Classify(msg), userID, 0, replyTo)
	if err != nil {
		return tgbotapi.Message{}, err
	}
	if err := e.Store.SaveBotMessage(sent.MessageID, userID, threadID); err != nil {
		return sent, err
	}
	return sent, nil
}

func (e *Engine) send(c Content, chatID int64, msgThreadID, replyTo int) (tgbotapi.Message, error) {
	if c.Kind == KindNone {
		return tgbotapi.Message{}, &ValidationError{Reason: "unsupported message type"}
	}
	if err := checkSizeGate(c); err != nil {
		return tgbotapi.Message{}, err
	}

	sent, err := e.Bot.Send(buildSend(c, chatID, msgThreadID, replyTo))
	if err != nil {
		return tgbotapi.Message{}, &TransportError{Kind: c.Kind, Err: err}
	}
	return sent, nil
}

// checkSizeGate проверяет лимиты Bot API до отправки: 20MB для голосовых
// и видеосообщений, 50MB для документов.
func checkSizeGate(c Content) error {
	switch c.Kind {
	case KindVoice, KindVideoNote:
		if c.FileSize > config.MaxVoiceSize {
			return &SizeLimitError{Kind: c.Kind, LimitMiB: config.MaxVoiceSize / (1024 * 1024)}
		}
	case KindDocument:
		if c.FileSize > config.MaxFileSize {
			return &SizeLimitError{Kind: c.Kind, LimitMiB: config.MaxFileSize / (1024 * 1024)}
		}
	}
	return nil
}

func buildSend(c Content, chatID int64, msgThreadID, replyTo int) tgbotapi.Chattable {
	apply := func(base *tgbotapi.BaseChat) {
		base.MessageThreadID = msgThreadID
		if replyTo > 0 {
			base.ReplyParameters.MessageID = replyTo
		}
	}

	switch c.Kind {
	case KindAnimation:
		cfg := tgbotapi.NewAnimation(chatID, tgbotapi.FileID(c.FileID))
		cfg.Caption = c.Caption
		apply(&cfg.BaseChat)
		return cfg
	case KindVoice:
		cfg := tgbotapi.NewVoice(chatID, tgbotapi.FileID(c.FileID))
		cfg.Caption = c.Caption
		apply(&cfg.BaseChat)
		return cfg
	case KindSticker:
		cfg := tgbotapi.NewSticker(chatID, tgbotapi.FileID(c.FileID))
		apply(&cfg.BaseChat)
		return cfg
	case KindVideoNote:
		cfg := tgbotapi.NewVideoNote(chatID, c.Length, tgbotapi.FileID(c.FileID))
		apply(&cfg.BaseChat)
		return cfg
	case KindLocation:
		cfg := tgbotapi.NewLocation(chatID, c.Latitude, c.Longitude)
		if c.HorizontalAccuracy != 0 {
			cfg.HorizontalAccuracy = c.HorizontalAccuracy
		}
		if c.LivePeriod != 0 {
			cfg.LivePeriod = c.LivePeriod
		}
		apply(&cfg.BaseChat)
		return cfg
	case KindPhoto:
		cfg := tgbotapi.NewPhoto(chatID, tgbotapi.FileID(c.FileID))
		cfg.Caption = c.Caption
		apply(&cfg.BaseChat)
		return cfg
	case KindVideo:
		cfg := tgbotapi.NewVideo(chatID, tgbotapi.FileID(c.FileID))
		cfg.Caption = c.Caption
		apply(&cfg.BaseChat)
		return cfg
	case KindAudio:
		cfg := tgbotapi.NewAudio(chatID, tgbotapi.FileID(c.FileID))
		cfg.Caption = c.Caption
		cfg.Title = c.Title
		cfg.Performer = c.Performer
		apply(&cfg.BaseChat)
		return cfg
	case KindDocument:
		cfg := tgbotapi.NewDocument(chatID, tgbotapi.FileID(c.FileID))
		cfg.Caption = c.Caption
		apply(&cfg.BaseChat)
		return cfg
	default:
		cfg := tgbotapi.NewMessage(chatID, c.Text)
		apply(&cfg.BaseChat)
		return cfg
	}
}

// RelayAlbum пересылает собранный альбом в топик пользователя одним запросом.
// Подпись ставится только на первый элемент: Telegram показывает её под альбомом.
func (e *Engine) RelayAlbum(b *mediagroup.Batch) error {
	var media []tgbotapi.InputMedia
	for i := range b.Messages {
		c := Classify(&b.Messages[i])
		caption := ""
		if len(media) == 0 {
			caption = b.Caption
		}
		item := buildInputMedia(c, caption)
		if item == nil {
			log.Printf("Элемент %d медиагруппы %s пропущен: неподдерживаемый тип", b.Messages[i].MessageID, b.Key)
			continue
		}
		media = append(media, item)
	}

	if len(media) == 0 {
		return &ValidationError{Reason: "media group has no sendable items"}
	}

	group := tgbotapi.NewMediaGroup(e.GroupChatID, media)
	group.MessageThreadID = b.ThreadID

	sent, err := e.Bot.SendMediaGroup(group)
	if err != nil {
		notice := tgbotapi.NewMessage(b.UserID, constants.MsgAlbumFailed)
		if _, nerr := e.Bot.Send(notice); nerr != nil {
			log.Printf("Не удалось уведомить пользователя %d об ошибке альбома: %v", b.UserID, nerr)
		}
		return &TransportError{Kind: "media_group", Err: err}
	}

	for _, m := range sent {
		if err := e.Store.SaveBotMessage(m.MessageID, b.UserID, b.ThreadID); err != nil {
			return fmt.Errorf("album binding: %w", err)
		}
	}
	return nil
}

func buildInputMedia(c Content, caption string) tgbotapi.InputMedia {
	switch c.Kind {
	case KindPhoto:
		m := tgbotapi.NewInputMediaPhoto(tgbotapi.FileID(c.FileID))
		m.Caption = caption
		return &m
	case KindVideo:
		m := tgbotapi.NewInputMediaVideo(tgbotapi.FileID(c.FileID))
		m.Caption = caption
		return &m
	case KindDocument:
		m := tgbotapi.NewInputMediaDocument(tgbotapi.FileID(c.FileID))
		m.Caption = caption
		return &m
	case KindAudio:
		m := tgbotapi.NewInputMediaAudio(tgbotapi.FileID(c.FileID))
		m.Caption = caption
		return &m
	case KindAnimation:
		m := tgbotapi.NewInputMediaAnimation(tgbotapi.FileID(c.FileID))
		m.Caption = caption
		return &m
	}
	return nil
}
