package handlers

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	tgbotapi "github.com/OvyFlash/telegram-bot-api"

	"supportbot/internal/config"
	"supportbot/internal/db"
	"supportbot/internal/mediagroup"
	"supportbot/internal/models"
	"supportbot/internal/relay"
)

const testGroupID = int64(-100500)

// fakeClient имитирует Telegram-клиент: запоминает отправленное и выдаёт
// последовательные ID сообщений и топиков.
type fakeClient struct {
	mu         sync.Mutex
	sent       []tgbotapi.Chattable
	albums     []tgbotapi.MediaGroupConfig
	topics     []string
	nextID     int
	nextThread int
	sendErr    error
	topicErr   error
}

func (f *fakeClient) Send(msg tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sendErr != nil {
		return tgbotapi.Message{}, f.sendErr
	}
	f.sent = append(f.sent, msg)
	f.nextID++
	return tgbotapi.Message{MessageID: f.nextID}, nil
}

func (f *fakeClient) SendMediaGroup(cfg tgbotapi.MediaGroupConfig) ([]tgbotapi.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sendErr != nil {
		return nil, f.sendErr
	}
	f.albums = append(f.albums, cfg)
	var out []tgbotapi.Message
	for range cfg.Media {
		f.nextID++
		out = append(out, tgbotapi.Message{MessageID: f.nextID})
	}
	return out, nil
}

// albumCount читает число отправленных альбомов под мьютексом.
func (f *fakeClient) albumCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.albums)
}

func (f *fakeClient) CreateForumTopic(chatID int64, name string) (int, error) {
	if f.topicErr != nil {
		return 0, f.topicErr
	}
	f.topics = append(f.topics, name)
	f.nextThread++
	return f.nextThread, nil
}

func (f *fakeClient) SelfID() int64 { return 777 }

// texts возвращает тексты всех отправленных MessageConfig.
func (f *fakeClient) texts() []string {
	var out []string
	for _, c := range f.sent {
		if m, ok := c.(tgbotapi.MessageConfig); ok {
			out = append(out, m.Text)
		}
	}
	return out
}

type mappingKey struct {
	groupMessageID int
	userID         int64
}

// fakeStore — хранилище в памяти с семантикой реального: (nil, nil)
// при отсутствии, первая запись маппинга выигрывает.
type fakeStore struct {
	users     map[int64]*models.User
	byMessage map[int]*models.User
	mappings  map[mappingKey]int
	bindings  []savedBinding
	getErr    error
}

type savedBinding struct {
	messageID int
	userID    int64
	threadID  int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:     make(map[int64]*models.User),
		byMessage: make(map[int]*models.User),
		mappings:  make(map[mappingKey]int),
	}
}

func (f *fakeStore) GetUser(userID int64) (*models.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.users[userID], nil
}

func (f *fakeStore) CreateUser(userID int64, username string, threadID int) error {
	if _, ok := f.users[userID]; ok {
		return nil
	}
	f.users[userID] = &models.User{
		UserID:    userID,
		Username:  sql.NullString{String: username, Valid: true},
		ThreadID:  threadID,
		CreatedAt: time.Now(),
	}
	return nil
}

func (f *fakeStore) GetUserByBotMessage(messageID int) (*models.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.byMessage[messageID], nil
}

func (f *fakeStore) GetMessageMapping(groupMessageID int, userID int64) (int, error) {
	return f.mappings[mappingKey{groupMessageID, userID}], nil
}

func (f *fakeStore) AddMessageMapping(groupMessageID, userMessageID int, userID int64) error {
	key := mappingKey{groupMessageID, userID}
	if _, ok := f.mappings[key]; ok {
		return nil
	}
	f.mappings[key] = userMessageID
	return nil
}

func (f *fakeStore) SaveBotMessage(messageID int, userID int64, threadID int) error {
	f.bindings = append(f.bindings, savedBinding{messageID, userID, threadID})
	u := f.users[userID]
	if u == nil {
		u = &models.User{UserID: userID, ThreadID: threadID}
	}
	f.byMessage[messageID] = u
	return nil
}

func (f *fakeStore) ListUsersWithMessageCounts() ([]db.UserReportRow, error) {
	var rows []db.UserReportRow
	for _, u := range f.users {
		rows = append(rows, db.UserReportRow{
			UserID:   u.UserID,
			Username: u.Username.String,
			ThreadID: u.ThreadID,
		})
	}
	return rows, nil
}

func newTestHandler(bot *fakeClient, store *fakeStore) *BotHandler {
	engine := relay.NewEngine(bot, store, testGroupID)
	albums := mediagroup.New(20*time.Millisecond, mediagroup.DefaultMaxAge, nil, func(b *mediagroup.Batch) {
		_ = engine.RelayAlbum(b)
	})
	return NewBotHandler(HandlerDependencies{
		Config: &config.Config{GroupChatID: testGroupID, BotUsername: "support_bot"},
		Bot:    bot,
		Store:  store,
		Engine: engine,
		Albums: albums,
	})
}

func privateMessage(userID int64, messageID int, text string) *tgbotapi.Message {
	return &tgbotapi.Message{
		MessageID: messageID,
		From:      &tgbotapi.User{ID: userID, UserName: fmt.Sprintf("user%d", userID)},
		Chat:      tgbotapi.Chat{ID: userID, Type: "private"},
		Text:      text,
	}
}

func groupReply(messageID int, original *tgbotapi.Message, text string) *tgbotapi.Message {
	return &tgbotapi.Message{
		MessageID:      messageID,
		From:           &tgbotapi.User{ID: 555, UserName: "operator"},
		Chat:           tgbotapi.Chat{ID: testGroupID, Type: "supergroup"},
		Text:           text,
		ReplyToMessage: original,
	}
}

func commandMessage(userID int64, chatID int64, chatType, cmd string) *tgbotapi.Message {
	text := "/" + cmd
	return &tgbotapi.Message{
		MessageID: 1,
		From:      &tgbotapi.User{ID: userID, UserName: "vasya"},
		Chat:      tgbotapi.Chat{ID: chatID, Type: chatType},
		Text:      text,
		Entities: []tgbotapi.MessageEntity{
			{Type: "bot_command", Offset: 0, Length: len(text)},
		},
	}
}
