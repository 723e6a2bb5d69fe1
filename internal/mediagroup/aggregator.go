// Package mediagroup собирает части альбомов (media group) в один батч,
// который пересылается целиком после короткой паузы.
package mediagroup

import (
	"fmt"
	"log"
	"sync"
	"time"

	tgbotapi "github.com/OvyFlash/telegram-bot-api"
)

const (
	// DefaultFlushDelay — пауза после первой части альбома перед отправкой.
	DefaultFlushDelay = time.Second
	// DefaultMaxAge — возраст батча, после которого он считается протухшим.
	DefaultMaxAge = 120 * time.Second
)

// Batch — накопленные части одного альбома одного пользователя.
type Batch struct {
	Key      string
	UserID   int64
	ThreadID int
	Caption  string
	Messages []tgbotapi.Message
	Created  time.Time
}

// FlushFunc вызывается для готового батча. Выполняется вне мьютекса.
type FlushFunc func(*Batch)

// GroupMarker — долговременная отметка об уже отправленных альбомах,
// чтобы опоздавшие части после рестарта не превращались в новый батч.
type GroupMarker interface {
	MarkMediaGroupSeen(mediaGroupID string) error
	CheckMediaGroup(mediaGroupID string) (bool, error)
}

// Aggregator буферизует части альбомов по ключу пользователь+группа.
type Aggregator struct {
	mu      sync.Mutex
	groups  map[string]*Batch
	flushed map[string]time.Time

	flushDelay time.Duration
	maxAge     time.Duration
	marker     GroupMarker
	flush      FlushFunc
}

// New создаёт агрегатор. Неположительные интервалы заменяются значениями
// по умолчанию. marker может быть nil.
func New(flushDelay, maxAge time.Duration, marker GroupMarker, flush FlushFunc) *Aggregator {
	if flushDelay <= 0 {
		flushDelay = DefaultFlushDelay
	}
	if maxAge <= 0 {
		maxAge = DefaultMaxAge
	}
	return &Aggregator{
		groups:     make(map[string]*Batch),
		flushed:    make(map[string]time.Time),
		flushDelay: flushDelay,
		maxAge:     maxAge,
		marker:     marker,
		flush:      flush,
	}
}

// Add добавляет часть альбома. Первая часть взводит таймер отправки,
// остальные просто дописываются в батч в порядке прихода.
func (a *Aggregator) Add(userID int64, threadID int, msg *tgbotapi.Message) {
	key := fmt.Sprintf("%d_%s", userID, msg.MediaGroupID)

	a.mu.Lock()
	defer a.mu.Unlock()

	if b, ok := a.groups[key]; ok {
		b.Messages = append(b.Messages, *msg)
		if b.Caption == "" && msg.Caption != "" {
			b.Caption = msg.Caption
		}
		return
	}

	if a.seenLocked(key, msg.MediaGroupID) {
		// Опоздавшая часть уже отправленного альбома
		log.Printf("Медиагруппа %s уже отправлена, часть %d отброшена", msg.MediaGroupID, msg.MessageID)
		return
	}

	b := &Batch{
		Key:      key,
		UserID:   userID,
		ThreadID: threadID,
		Caption:  msg.Caption,
		Messages: []tgbotapi.Message{*msg},
		Created:  time.Now(),
	}
	a.groups[key] = b
	time.AfterFunc(a.flushDelay, func() { a.flushKey(key) })
}

func (a *Aggregator) seenLocked(key, mediaGroupID string) bool {
	if _, ok := a.flushed[key]; ok {
		return true
	}
	if a.marker == nil {
		return false
	}
	seen, err := a.marker.CheckMediaGroup(mediaGroupID)
	if err != nil {
		log.Printf("Ошибка проверки медиагруппы %s: %v", mediaGroupID, err)
		return false
	}
	return seen
}

func (a *Aggregator) flushKey(key string) {
	a.mu.Lock()
	b, ok := a.groups[key]
	delete(a.groups, key)
	now := time.Now()
	a.flushed[key] = now
	for k, t := range a.flushed {
		if now.Sub(t) > a.maxAge {
			delete(a.flushed, k)
		}
	}
	a.mu.Unlock()

	if !ok {
		return
	}

	if a.marker != nil {
		parts := splitKey(key)
		if err := a.marker.MarkMediaGroupSeen(parts); err != nil {
			log.Printf("Не удалось отметить медиагруппу %s: %v", parts, err)
		}
	}

	if time.Since(b.Created) > a.maxAge {
		log.Printf("Протухший батч %s отброшен (%d частей)", key, len(b.Messages))
		return
	}

	a.flush(b)
}

// splitKey отрезает префикс userID от ключа батча.
func splitKey(key string) string {
	for i := 0; i < len(key); i++ {
		if key[i] == '_' {
			return key[i+1:]
		}
	}
	return key
}

// Len возвращает число незакрытых батчей.
func (a *Aggregator) Len() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.groups)
}
