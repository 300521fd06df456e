// Package views собирает экраны трекера: данные для HTTP API и HTML для Telegram.
package views

import (
	"fmt"
	"log"
	"strings"
	"time"

	"goal-path/internal/models"
	"goal-path/internal/utils"
)

const (
	progressBarWidth = 10
	deadlineExpired  = "Срок истёк"
)

type GoalCard struct {
	Empty      bool   `json:"empty"`
	Title      string `json:"title,omitempty"`
	Motivation string `json:"motivation,omitempty"`
	Deadline   string `json:"deadline,omitempty"`
	DaysLeft   *int   `json:"days_left,omitempty"`
	Countdown  string `json:"countdown,omitempty"`
	Progress   int    `json:"progress"`
}

// NewGoalCard карточка цели. Если дедлайн не разбирается, показываем его как есть и без отсчёта.
func NewGoalCard(goal *models.Goal, now time.Time) GoalCard {
	if goal == nil {
		return GoalCard{Empty: true}
	}

	card := GoalCard{
		Title:      goal.Title,
		Motivation: goal.Motivation,
		Deadline:   goal.Deadline,
		Progress:   goal.Progress,
	}

	formatted, err := utils.FormatLongDate(goal.Deadline)
	if err != nil {
		log.Printf("⚠️ Неверный формат дедлайна %q: %v", goal.Deadline, err)
		return card
	}
	card.Deadline = formatted

	days, err := utils.DaysLeft(goal.Deadline, now)
	if err != nil {
		return card
	}
	card.DaysLeft = &days
	if days > 0 {
		card.Countdown = fmt.Sprintf("Осталось %d дней", days)
	} else {
		card.Countdown = deadlineExpired
	}
	return card
}

func (c GoalCard) HTML() string {
	if c.Empty {
		return "🎯 <b>Добавьте свою цель</b>\n\n" +
			"Создайте главную цель, которую хотите достичь, и отслеживайте прогресс.\n" +
			"/goal Название | Мотивация | ГГГГ-ММ-ДД"
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("🎯 <b>%s</b>\n", Escape(c.Title)))
	if c.Motivation != "" {
		b.WriteString(fmt.Sprintf("<i>%s</i>\n", Escape(c.Motivation)))
	}
	b.WriteString(fmt.Sprintf("\nПрогресс: %s\n", ProgressBar(c.Progress)))
	b.WriteString(fmt.Sprintf("📅 Дедлайн: %s", Escape(c.Deadline)))
	if c.Countdown != "" {
		b.WriteString(fmt.Sprintf("\n⏳ %s", c.Countdown))
	}
	return b.String()
}

// ProgressBar "▓▓▓░░░░░░░ 30%"
func ProgressBar(progress int) string {
	progress = max(0, min(progress, 100))
	filled := progress * progressBarWidth / 100
	return fmt.Sprintf("%s%s %d%%",
		strings.Repeat("▓", filled),
		strings.Repeat("░", progressBarWidth-filled),
		progress,
	)
}
