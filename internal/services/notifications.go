package services

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"goal-path/internal/models"
	"goal-path/internal/tasks"
	"goal-path/internal/utils"
	"goal-path/internal/views"
)

// NotificationSender интерфейс для отправки уведомлений
type NotificationSender interface {
	SendMessage(text string) error
}

// NotificationService получатель всплывающих уведомлений и утренних/вечерних напоминаний.
// Пока отправитель не задан, уведомления только пишутся в лог.
type NotificationService struct {
	now func() time.Time

	mu     sync.RWMutex
	sender NotificationSender

	tasks      *TaskService
	reflection *ReflectionService
}

func NewNotificationService(now func() time.Time) *NotificationService {
	return &NotificationService{now: now}
}

func (ns *NotificationService) attach(ts *TaskService, rs *ReflectionService) {
	ns.tasks = ts
	ns.reflection = rs
}

func (ns *NotificationService) SetSender(sender NotificationSender) {
	ns.mu.Lock()
	defer ns.mu.Unlock()
	ns.sender = sender
}

// Notify реализует tasks.Notifier
func (ns *NotificationService) Notify(n tasks.Notification) {
	text := "✅ " + n.Text
	if n.Level == tasks.Failure {
		text = "❌ " + n.Text
	}
	log.Printf("🔔 %s", text)
	ns.send(text)
}

func (ns *NotificationService) success(text string) {
	ns.Notify(tasks.Notification{Level: tasks.Success, Text: text})
}

func (ns *NotificationService) failure(text string) {
	ns.Notify(tasks.Notification{Level: tasks.Failure, Text: text})
}

func (ns *NotificationService) send(text string) {
	ns.mu.RLock()
	sender := ns.sender
	ns.mu.RUnlock()

	if sender == nil {
		return
	}
	if err := sender.SendMessage(text); err != nil {
		log.Printf("⚠️ Ошибка отправки уведомления: %v", err)
	}
}

// SendMorningPlan утреннее напоминание спланировать день
func (ns *NotificationService) SendMorningPlan(ctx context.Context) {
	now := ns.now()
	today := utils.DateOf(now)

	list, err := ns.tasks.Day(ctx, today)
	if err != nil {
		log.Printf("⚠️ Ошибка получения задач на %s: %v", today, err)
		return
	}

	prompt := views.NewReflectionPrompt(now, ns.reflection.Done(today))
	message := fmt.Sprintf("🌅 <b>Доброе утро!</b>\n\n%s", list.HTML())
	if text := prompt.HTML(); text != "" {
		message += "\n\n" + text
	}
	ns.send(message)
}

// SendEveningReflection вечернее напоминание, если рефлексия ещё не проведена
func (ns *NotificationService) SendEveningReflection() {
	now := ns.now()
	today := utils.DateOf(now)
	if ns.reflection.Done(today) {
		log.Printf("📝 Рефлексия за %s уже проведена", today)
		return
	}

	prompt := views.NewReflectionPrompt(now, false)
	ns.send(prompt.HTML() + "\n\n" +
		"/reflect да|нет | что мешало | что улучшить | задача на завтра")
}

// SendDailySummary отправляет итоги дня
func (ns *NotificationService) SendDailySummary(ctx context.Context) {
	today := utils.DateOf(ns.now())
	stats, err := ns.tasks.Stats(ctx, today)
	if err != nil {
		log.Printf("⚠️ Ошибка получения сводки дня: %v", err)
		return
	}
	ns.send(DailySummary(today, stats))
}

func (ns *NotificationService) SendMotivation(m models.DailyMotivation) {
	ns.send("☀️ <b>Цитата дня</b>\n\n" + views.MotivationHTML(m))
}

func DailySummary(date string, stats models.CompletionRate) string {
	header, err := utils.FormatLongDate(date)
	if err != nil {
		header = date
	}
	return fmt.Sprintf(
		"📊 <b>Итоги дня %s</b>\n\n"+
			"✅ Выполнено: %d/%d (%d%%)\n\n"+
			"Завтра будет новый день! 🌅",
		header,
		stats.CompletedTasks,
		stats.TotalTasks,
		stats.CompletionRate,
	)
}
