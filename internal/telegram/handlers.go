package telegram

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"goal-path/internal/models"
	"goal-path/internal/services"
	"goal-path/internal/tasks"
	"goal-path/internal/utils"
	"goal-path/internal/views"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// handlers.go - обработчики команд Telegram бота

func (b *Bot) handleStart(ctx context.Context, msg *tgbotapi.Message, args string) {
	b.SendMessageOrLogError(b.services.Dashboard(ctx).HTML())
	b.SendMessageOrLogError(helpMessage + "\n\n" + utils.GetTimezoneInfo(b.services.Now()))
}

func (b *Bot) handleHelp(ctx context.Context, msg *tgbotapi.Message, args string) {
	b.SendMessageOrLogError(helpMessage)
}

func (b *Bot) handleToday(ctx context.Context, msg *tgbotapi.Message, args string) {
	b.SendMessageOrLogError(b.services.Dashboard(ctx).HTML())
}

func (b *Bot) handlePlan(ctx context.Context, msg *tgbotapi.Message, args string) {
	date := b.dateOrToday(args)
	plan, err := b.services.Task.DayPlan(ctx, date)
	if err != nil {
		b.replyError(err)
		return
	}
	b.SendMessageOrLogError(plan.HTML())
}

func (b *Bot) handleWeek(ctx context.Context, msg *tgbotapi.Message, args string) {
	week, err := b.services.Analytics.Week(ctx, b.dateOrToday(args))
	if err != nil {
		b.replyError(err)
		return
	}
	b.SendMessageOrLogError(week.HTML())
}

// handleAddTask /add [ГГГГ-ММ-ДД] название
func (b *Bot) handleAddTask(ctx context.Context, msg *tgbotapi.Message, args string) {
	date := b.services.Task.Today()
	if first, rest, ok := strings.Cut(args, " "); ok && models.ValidDate(first) {
		date, args = first, rest
	}
	if strings.TrimSpace(args) == "" {
		b.SendMessageOrLogError("❌ Формат: /add [ГГГГ-ММ-ДД] название задачи")
		return
	}

	task, err := b.services.Task.Add(ctx, date, args)
	if err != nil {
		b.replyError(err)
		return
	}
	b.sendTask(task)
}

// handleAddSubtask /sub ID_задачи название
func (b *Bot) handleAddSubtask(ctx context.Context, msg *tgbotapi.Message, args string) {
	parentID, title, ok := strings.Cut(args, " ")
	if !ok || strings.TrimSpace(title) == "" {
		b.SendMessageOrLogError("❌ Формат: /sub ID_задачи название подзадачи")
		return
	}

	task, err := b.services.Task.AddSubtask(ctx, parentID, title)
	if err != nil {
		b.replyError(err)
		return
	}
	b.sendTask(task)
}

func (b *Bot) handleSubtasks(ctx context.Context, msg *tgbotapi.Message, args string) {
	if args == "" {
		b.SendMessageOrLogError("❌ Формат: /subs ID_задачи")
		return
	}
	subtasks, err := b.services.Task.Subtasks(ctx, args)
	if err != nil {
		b.replyError(err)
		return
	}
	if len(subtasks) == 0 {
		b.SendMessageOrLogError("📭 Подзадач нет")
		return
	}

	var message strings.Builder
	message.WriteString("<b>Подзадачи</b>\n")
	for _, t := range subtasks {
		message.WriteString(taskLine(t) + "\n")
	}
	b.SendMessageOrLogError(message.String())
}

func (b *Bot) handleToggle(ctx context.Context, msg *tgbotapi.Message, args string) {
	if args == "" {
		b.SendMessageOrLogError("❌ Формат: /done ID_задачи")
		return
	}
	task, err := b.services.Task.Toggle(ctx, args)
	if err != nil {
		b.replyError(err)
		return
	}
	b.SendMessageOrLogError(taskLine(task))
}

// handleStatus /status ID_задачи статус
func (b *Bot) handleStatus(ctx context.Context, msg *tgbotapi.Message, args string) {
	id, value, ok := strings.Cut(args, " ")
	status, valid := utils.ParseStatus(value)
	if !ok || !valid {
		b.SendMessageOrLogError("❌ Формат: /status ID_задачи статус\n" + statusHelp())
		return
	}
	task, err := b.services.Task.SetStatus(ctx, id, status)
	if err != nil {
		b.replyError(err)
		return
	}
	b.SendMessageOrLogError(fmt.Sprintf("%s\n%s", taskLine(task), utils.GetStatusName(task.Status)))
}

// handlePostpone /postpone ID_задачи [ГГГГ-ММ-ДД], по умолчанию на завтра
func (b *Bot) handlePostpone(ctx context.Context, msg *tgbotapi.Message, args string) {
	id, date, _ := strings.Cut(args, " ")
	if id == "" {
		b.SendMessageOrLogError("❌ Формат: /postpone ID_задачи [ГГГГ-ММ-ДД]")
		return
	}
	date = strings.TrimSpace(date)
	if date == "" {
		date = tomorrowOf(b.services.Task.Today())
	}

	task, err := b.services.Task.Postpone(ctx, id, date)
	if err != nil {
		b.replyError(err)
		return
	}
	b.SendMessageOrLogError(fmt.Sprintf("⏳ Задача перенесена на %s\n%s", formatDate(task.Date), taskLine(task)))
}

func (b *Bot) handleDelete(ctx context.Context, msg *tgbotapi.Message, args string) {
	if args == "" {
		b.SendMessageOrLogError("❌ Формат: /rm ID_задачи")
		return
	}
	if err := b.services.Task.Delete(ctx, args); err != nil {
		b.replyError(err)
	}
}

// handleGoal без аргументов показывает цель, иначе /goal Название | Мотивация | ГГГГ-ММ-ДД
func (b *Bot) handleGoal(ctx context.Context, msg *tgbotapi.Message, args string) {
	if args == "" {
		card := views.NewGoalCard(b.services.Goal.Get(), utils.Now())
		b.SendMessageOrLogError(card.HTML())
		return
	}

	parts := splitFields(args, 3)
	title, motivation, deadline := parts[0], parts[1], parts[2]
	if deadline == "" && models.ValidDate(motivation) {
		motivation, deadline = "", motivation
	}

	goal, err := b.services.Goal.Save(title, motivation, deadline)
	if err != nil {
		// об ошибке уже сообщило уведомление
		return
	}
	b.SendMessageOrLogError(views.NewGoalCard(&goal, utils.Now()).HTML())
}

func (b *Bot) handleProgress(ctx context.Context, msg *tgbotapi.Message, args string) {
	progress, err := strconv.Atoi(strings.TrimSuffix(args, "%"))
	if err != nil {
		b.SendMessageOrLogError("❌ Формат: /progress 0-100")
		return
	}
	goal, err := b.services.Goal.UpdateProgress(progress)
	if err != nil {
		b.replyError(err)
		return
	}
	b.SendMessageOrLogError(views.ProgressBar(goal.Progress))
}

// handleReflect /reflect да|нет | что мешало | что улучшить | задача на завтра
func (b *Bot) handleReflect(ctx context.Context, msg *tgbotapi.Message, args string) {
	if args == "" {
		if r, ok := b.services.Reflection.Today(); ok {
			b.SendMessageOrLogError(reflectionHTML(r))
			return
		}
		b.SendMessageOrLogError(reflectHelp)
		return
	}

	parts := splitFields(args, 4)
	didImportant, ok := parseYesNo(parts[0])
	if !ok {
		b.SendMessageOrLogError(reflectHelp)
		return
	}

	_, err := b.services.Reflection.Submit(ctx, services.ReflectionInput{
		DidImportant: didImportant,
		Obstacles:    parts[1],
		Improvements: parts[2],
		TomorrowTask: parts[3],
	})
	if err != nil {
		b.replyError(err)
	}
}

func (b *Bot) handleQuote(ctx context.Context, msg *tgbotapi.Message, args string) {
	b.SendMessageOrLogError(views.MotivationHTML(b.services.Motivation.Current()))
}

func (b *Bot) handleStats(ctx context.Context, msg *tgbotapi.Message, args string) {
	stats, err := b.services.Task.Stats(ctx, b.dateOrToday(args))
	if err != nil {
		b.replyError(err)
		return
	}
	b.SendMessageOrLogError(views.StatsHTML(stats))
}

func (b *Bot) sendTask(task models.Task) {
	if err := b.sendWithKeyboard(taskLine(task), task.ID); err != nil {
		b.logSendError(err)
	}
}

// replyError сообщает об ошибке, если о ней ещё не сообщило уведомление
func (b *Bot) replyError(err error) {
	if errors.Is(err, tasks.ErrRemoteOperationFailed) {
		return
	}
	b.SendMessageOrLogError("❌ " + capitalize(err.Error()))
}

func (b *Bot) dateOrToday(args string) string {
	if args == "" {
		return b.services.Task.Today()
	}
	return args
}
