package utils

import (
	"strings"

	"goal-path/internal/models"
)

// Вспомогательные функции для получения названий и эмодзи статусов
func GetStatusName(status models.Status) string {
	switch status {
	case models.NotStarted:
		return "Не начато"
	case models.InProgress:
		return "В процессе"
	case models.Completed:
		return "Завершено"
	case models.Postponed:
		return "Отложено"
	default:
		return string(status)
	}
}

func GetStatusEmoji(status models.Status) string {
	switch status {
	case models.NotStarted:
		return "⬜"
	case models.InProgress:
		return "🔄"
	case models.Completed:
		return "✅"
	case models.Postponed:
		return "⏳"
	default:
		return "📌"
	}
}

// ParseStatus принимает значение статуса или его русское название
func ParseStatus(s string) (models.Status, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if st := models.Status(s); st.Valid() {
		return st, true
	}
	for _, st := range models.Statuses {
		if strings.ReplaceAll(strings.ToLower(GetStatusName(st)), " ", "_") == strings.ReplaceAll(s, " ", "_") {
			return st, true
		}
	}
	return "", false
}
