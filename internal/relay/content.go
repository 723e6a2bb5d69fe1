package relay

import (
	tgbotapi "github.com/OvyFlash/telegram-bot-api"
)

// Kind — тип пересылаемого контента.
type Kind string

const (
	KindNone      Kind = ""
	KindAnimation Kind = "animation"
	KindVoice     Kind = "voice"
	KindSticker   Kind = "sticker"
	KindVideoNote Kind = "video_note"
	KindLocation  Kind = "location"
	KindPhoto     Kind = "photo"
	KindVideo     Kind = "video"
	KindAudio     Kind = "audio"
	KindDocument  Kind = "document"
	KindText      Kind = "text"
)

// Content — нормализованное содержимое сообщения, достаточное для пересылки.
type Content struct {
	Kind    Kind
	FileID  string
	Caption string
	Text    string

	FileSize int64

	// Аудио
	Title     string
	Performer string

	// Видеосообщение
	Length int

	// Геопозиция
	Latitude           float64
	Longitude          float64
	HorizontalAccuracy float64
	LivePeriod         int
}

// Classify определяет тип сообщения. Порядок проверок фиксированный:
// у сообщения с несколькими полями побеждает первый совпавший тип.
func Classify(msg *tgbotapi.Message) Content {
	switch {
	case msg.Animation != nil:
		return Content{
			Kind:     KindAnimation,
			FileID:   msg.Animation.FileID,
			Caption:  msg.Caption,
			FileSize: msg.Animation.FileSize,
		}
	case msg.Voice != nil:
		return Content{
			Kind:     KindVoice,
			FileID:   msg.Voice.FileID,
			Caption:  msg.Caption,
			FileSize: msg.Voice.FileSize,
		}
	case msg.Sticker != nil:
		return Content{
			Kind:   KindSticker,
			FileID: msg.Sticker.FileID,
		}
	case msg.VideoNote != nil:
		return Content{
			Kind:     KindVideoNote,
			FileID:   msg.VideoNote.FileID,
			FileSize: int64(msg.VideoNote.FileSize),
			Length:   msg.VideoNote.Length,
		}
	case msg.Location != nil:
		return Content{
			Kind:               KindLocation,
			Latitude:           msg.Location.Latitude,
			Longitude:          msg.Location.Longitude,
			HorizontalAccuracy: msg.Location.HorizontalAccuracy,
			LivePeriod:         msg.Location.LivePeriod,
		}
	case len(msg.Photo) > 0:
		// Последний размер — самый большой
		p := msg.Photo[len(msg.Photo)-1]
		return Content{
			Kind:    KindPhoto,
			FileID:  p.FileID,
			Caption: msg.Caption,
		}
	case msg.Video != nil:
		return Content{
			Kind:     KindVideo,
			FileID:   msg.Video.FileID,
			Caption:  msg.Caption,
			FileSize: msg.Video.FileSize,
		}
	case msg.Audio != nil:
		return Content{
			Kind:      KindAudio,
			FileID:    msg.Audio.FileID,
			Caption:   msg.Caption,
			FileSize:  msg.Audio.FileSize,
			Title:     msg.Audio.Title,
			Performer: msg.Audio.Performer,
		}
	case msg.Document != nil:
		return Content{
			Kind:     KindDocument,
			FileID:   msg.Document.FileID,
			Caption:  msg.Caption,
			FileSize: msg.Document.FileSize,
		}
	case msg.Text != "":
		return Content{Kind: KindText, Text: msg.Text}
	case msg.Caption != "":
		// Подпись без известного вложения пересылается как текст
		return Content{Kind: KindText, Text: msg.Caption}
	}
	return Content{Kind: KindNone}
}
