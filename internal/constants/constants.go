package constants

// Тексты, которые бот отправляет пользователям и операторам.
// User-facing texts sent by the bot.
const (
	MsgNoTopic            = "❌ Сначала создайте топик через /start"
	MsgSystemError        = "💥 Системная ошибка"
	MsgDialogCreated      = "🎉 Диалог создан! Задавайте вопросы здесь."
	MsgDialogExists       = "🚫 У вас уже есть активный диалог!"
	MsgDialogCreateFailed = "💥 Ошибка при создании диалога"
	MsgRelayFailed        = "❌ Ошибка пересылки"
	MsgAlbumFailed        = "❌ Ошибка отправки медиагруппы"
	MsgDialogNotFound     = "❌ Диалог не существует"
	MsgUnsupported        = "❌ Неподдерживаемый тип сообщения"
	MsgRulesFailed        = "❌ Не удалось загрузить правила"
	MsgQRUnavailable      = "❌ BOT_USERNAME не настроен, ссылка недоступна"
)

// FileTooBigTemplate — шаблон сообщения о превышении лимита, %d — лимит в MB.
const FileTooBigTemplate = "❌ Файл слишком большой (максимум %dMB)"

// RulesText — правила использования бота (команда /rules).
const RulesText = `📜 *Правила использования бота:*

1. Запрещено спамить и флудить
2. Не нарушайте законодательство РФ
3. Отправляйте вложения по одному
4. Текст пишите отдельным сообщением
5. Ответ администратора может занять время
6. Запрещено требовать флаги/ответы`

// UnknownCommandText — ответ на неизвестную команду.
const UnknownCommandText = "❌ Неизвестная команда!\n" +
	"Доступные команды:\n" +
	"/start - Начать диалог\n" +
	"/rules - Правила использования"
