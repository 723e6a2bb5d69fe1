package handlers

import (
	"testing"

	tgbotapi "github.com/OvyFlash/telegram-bot-api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"supportbot/internal/constants"
)

func TestStartCreatesTopicAndUser(t *testing.T) {
	bot := &fakeClient{}
	store := newFakeStore()
	bh := newTestHandler(bot, store)

	bh.HandleMessage(tgbotapi.Update{Message: commandMessage(42, 42, "private", "start")})

	require.Len(t, bot.topics, 1)
	assert.Equal(t, "Диалог с vasya", bot.topics[0])

	user := store.users[42]
	require.NotNil(t, user)
	assert.Equal(t, 1, user.ThreadID)

	require.Len(t, bot.texts(), 1)
	assert.Equal(t, constants.MsgDialogCreated, bot.texts()[0])
}

func TestStartFallbackDisplayName(t *testing.T) {
	bot := &fakeClient{}
	store := newFakeStore()
	bh := newTestHandler(bot, store)

	// У пользователя скрыт username — топик именуется запасным именем
	msg := commandMessage(42, 42, "private", "start")
	msg.From.UserName = ""
	bh.HandleMessage(tgbotapi.Update{Message: msg})

	require.Len(t, bot.topics, 1)
	assert.Equal(t, "Диалог с User_42", bot.topics[0])
}

func TestStartDuplicateDialog(t *testing.T) {
	bot := &fakeClient{}
	store := newFakeStore()
	bh := newTestHandler(bot, store)

	bh.HandleMessage(tgbotapi.Update{Message: commandMessage(42, 42, "private", "start")})
	bh.HandleMessage(tgbotapi.Update{Message: commandMessage(42, 42, "private", "start")})

	// Второй /start не создаёт новый топик
	assert.Len(t, bot.topics, 1)
	texts := bot.texts()
	require.Len(t, texts, 2)
	assert.Equal(t, constants.MsgDialogExists, texts[1])
}

func TestStartIgnoredInGroup(t *testing.T) {
	bot := &fakeClient{}
	store := newFakeStore()
	bh := newTestHandler(bot, store)

	bh.HandleMessage(tgbotapi.Update{Message: commandMessage(42, testGroupID, "supergroup", "start")})

	assert.Empty(t, bot.topics)
	assert.Empty(t, bot.sent)
}

func TestUnknownCommand(t *testing.T) {
	bot := &fakeClient{}
	store := newFakeStore()
	bh := newTestHandler(bot, store)

	bh.HandleMessage(tgbotapi.Update{Message: commandMessage(42, 42, "private", "help")})

	require.Len(t, bot.texts(), 1)
	assert.Equal(t, constants.UnknownCommandText, bot.texts()[0])
}

func TestRulesCommand(t *testing.T) {
	bot := &fakeClient{}
	store := newFakeStore()
	bh := newTestHandler(bot, store)

	bh.HandleMessage(tgbotapi.Update{Message: commandMessage(42, 42, "private", "rules")})

	require.Len(t, bot.sent, 1)
	cfg, ok := bot.sent[0].(tgbotapi.MessageConfig)
	require.True(t, ok)
	assert.Equal(t, constants.RulesText, cfg.Text)
	assert.Equal(t, tgbotapi.ModeMarkdown, cfg.ParseMode)
}

func TestExportSendsReport(t *testing.T) {
	bot := &fakeClient{}
	store := newFakeStore()
	bh := newTestHandler(bot, store)

	require.NoError(t, store.CreateUser(42, "vasya", 7))

	msg := commandMessage(555, testGroupID, "supergroup", "export")
	msg.MessageThreadID = 7
	bh.HandleMessage(tgbotapi.Update{Message: msg})

	require.Len(t, bot.sent, 1)
	doc, ok := bot.sent[0].(tgbotapi.DocumentConfig)
	require.True(t, ok)
	assert.Equal(t, 7, doc.MessageThreadID)
	file, ok := doc.File.(tgbotapi.FileBytes)
	require.True(t, ok)
	assert.Contains(t, file.Name, "users_")
	assert.NotEmpty(t, file.Bytes)
}

func TestQRCommand(t *testing.T) {
	bot := &fakeClient{}
	store := newFakeStore()
	bh := newTestHandler(bot, store)

	bh.HandleMessage(tgbotapi.Update{Message: commandMessage(555, testGroupID, "supergroup", "qr")})

	require.Len(t, bot.sent, 1)
	photo, ok := bot.sent[0].(tgbotapi.PhotoConfig)
	require.True(t, ok)
	assert.Equal(t, "https://t.me/support_bot", photo.Caption)
	file, ok := photo.File.(tgbotapi.FileBytes)
	require.True(t, ok)
	assert.NotEmpty(t, file.Bytes)
}
