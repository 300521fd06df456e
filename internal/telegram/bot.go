package telegram

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"goal-path/internal/services"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// botAPI часть tgbotapi.BotAPI, которой пользуется бот
type botAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
}

type handlerFunc func(ctx context.Context, msg *tgbotapi.Message, args string)

type Bot struct {
	bot      botAPI
	username string
	chatID   int64
	services *services.ServiceManager
	handlers map[string]handlerFunc
}

func NewBot(token string, chatID int64, serviceManager *services.ServiceManager) (*Bot, error) {
	botAPI, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания бота: %w", err)
	}

	bot := newBot(botAPI, botAPI.Self.UserName, chatID, serviceManager)
	log.Printf("🤖 Бот инициализирован: %s", bot.username)
	return bot, nil
}

func newBot(api botAPI, username string, chatID int64, serviceManager *services.ServiceManager) *Bot {
	bot := &Bot{
		bot:      api,
		username: username,
		chatID:   chatID,
		services: serviceManager,
		handlers: make(map[string]handlerFunc),
	}
	bot.registerHandlers()
	return bot
}

func (b *Bot) registerHandlers() {
	b.handlers["/start"] = b.handleStart
	b.handlers["/help"] = b.handleHelp
	b.handlers["/today"] = b.handleToday
	b.handlers["/plan"] = b.handlePlan
	b.handlers["/week"] = b.handleWeek
	b.handlers["/add"] = b.handleAddTask
	b.handlers["/sub"] = b.handleAddSubtask
	b.handlers["/subs"] = b.handleSubtasks
	b.handlers["/done"] = b.handleToggle
	b.handlers["/status"] = b.handleStatus
	b.handlers["/postpone"] = b.handlePostpone
	b.handlers["/rm"] = b.handleDelete
	b.handlers["/goal"] = b.handleGoal
	b.handlers["/progress"] = b.handleProgress
	b.handlers["/reflect"] = b.handleReflect
	b.handlers["/quote"] = b.handleQuote
	b.handlers["/stats"] = b.handleStats
}

// SendMessage реализует services.NotificationSender
func (b *Bot) SendMessage(text string) error {
	msg := tgbotapi.NewMessage(b.chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	_, err := b.bot.Send(msg)
	return err
}

// sendWithKeyboard отправляет сообщение с кнопками под задачей
func (b *Bot) sendWithKeyboard(text, taskID string) error {
	msg := tgbotapi.NewMessage(b.chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.ReplyMarkup = b.createTaskKeyboard(taskID)
	_, err := b.bot.Send(msg)
	return err
}

// createTaskKeyboard создает клавиатуру для взаимодействия с задачей
func (b *Bot) createTaskKeyboard(taskID string) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ Выполнил", callbackToggle+taskID),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("⏳ На завтра", callbackPostpone+taskID),
			tgbotapi.NewInlineKeyboardButtonData("❌ Удалить", callbackDelete+taskID),
		),
	)
}

func (b *Bot) GetUsername() string {
	return b.username
}

func (b *Bot) Start(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := b.bot.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			return
		case update := <-updates:
			b.handleUpdate(ctx, update)
		}
	}
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	if update.CallbackQuery != nil {
		b.handleCallbackQuery(ctx, update.CallbackQuery)
		return
	}

	if update.Message == nil {
		return
	}

	if update.Message.Chat.ID != b.chatID {
		denied := tgbotapi.NewMessage(update.Message.Chat.ID, "⛔ Доступ запрещен")
		if _, err := b.bot.Send(denied); err != nil {
			log.Printf("⚠️ Ошибка отправки: %v", err)
		}
		return
	}

	b.handleMessage(ctx, update.Message)
}

// handleMessage обрабатывает текстовые сообщения
func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	text := strings.TrimSpace(msg.Text)
	if !strings.HasPrefix(text, "/") {
		return
	}

	command, args, _ := strings.Cut(text, " ")
	command, _, _ = strings.Cut(command, "@")

	handler, exists := b.handlers[command]
	if !exists {
		b.SendMessageOrLogError("❌ Неизвестная команда. Используйте /help")
		return
	}
	handler(ctx, msg, strings.TrimSpace(args))
}

const (
	callbackToggle   = "toggle_"
	callbackPostpone = "postpone_"
	callbackDelete   = "delete_"
)

func (b *Bot) handleCallbackQuery(ctx context.Context, callback *tgbotapi.CallbackQuery) {
	defer func() {
		if _, err := b.bot.Request(tgbotapi.NewCallback(callback.ID, "✅")); err != nil {
			log.Printf("⚠️ Ошибка ответа на callback: %v", err)
		}
	}()

	if callback.Message == nil || callback.Message.Chat.ID != b.chatID {
		return
	}

	data := callback.Data
	log.Printf("Received callback: %s", data)

	if id, ok := strings.CutPrefix(data, callbackToggle); ok {
		task, err := b.services.Task.Toggle(ctx, id)
		if err != nil {
			b.replyError(err)
			return
		}
		b.SendMessageOrLogError(taskLine(task))
		return
	}
	if id, ok := strings.CutPrefix(data, callbackPostpone); ok {
		task, err := b.services.Task.Postpone(ctx, id, tomorrowOf(b.services.Task.Today()))
		if err != nil {
			b.replyError(err)
			return
		}
		b.SendMessageOrLogError(fmt.Sprintf("⏳ Задача перенесена на %s", formatDate(task.Date)))
		return
	}
	if id, ok := strings.CutPrefix(data, callbackDelete); ok {
		if err := b.services.Task.Delete(ctx, id); err != nil {
			b.replyError(err)
			return
		}
		b.safeDeleteMessage(callback.Message.MessageID)
	}
}

// safeDeleteMessage вспомогательная функция для безопасного удаления сообщений
func (b *Bot) safeDeleteMessage(messageID int) {
	deleteConfig := tgbotapi.NewDeleteMessage(b.chatID, messageID)

	resp, err := b.bot.Request(deleteConfig)
	if err != nil {
		log.Printf("⚠️ Ошибка при удалении сообщения %d: %v", messageID, err)
		return
	}

	var ok bool
	if err := json.Unmarshal(resp.Result, &ok); err != nil {
		log.Printf("⚠️ Не удалось декодировать ответ при удалении сообщения %d: %v", messageID, err)
		return
	}
	if ok {
		log.Printf("✅ Сообщение %d успешно удалено", messageID)
	}
}
