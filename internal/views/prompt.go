package views

import (
	"time"

	"goal-path/internal/utils"
)

// ReflectionPrompt приглашение к рефлексии; скрыто, если рефлексия за день уже проведена
type ReflectionPrompt struct {
	Visible bool   `json:"visible"`
	Evening bool   `json:"evening"`
	Title   string `json:"title,omitempty"`
	Text    string `json:"text,omitempty"`
	Action  string `json:"action,omitempty"`
}

func NewReflectionPrompt(now time.Time, done bool) ReflectionPrompt {
	if done {
		return ReflectionPrompt{}
	}
	if utils.IsEvening(now) {
		return ReflectionPrompt{
			Visible: true,
			Evening: true,
			Title:   "Вечерняя рефлексия",
			Text:    "Подведите итоги дня и проанализируйте свой прогресс к цели.",
			Action:  "Провести рефлексию",
		}
	}
	return ReflectionPrompt{
		Visible: true,
		Title:   "Планирование дня",
		Text:    "Спланируйте свой день для достижения цели.",
		Action:  "Спланировать день",
	}
}

func (p ReflectionPrompt) HTML() string {
	if !p.Visible {
		return ""
	}
	command := "/plan"
	if p.Evening {
		command = "/reflect"
	}
	return "📝 <b>" + p.Title + "</b>\n" + p.Text + "\n👉 " + p.Action + ": " + command
}
