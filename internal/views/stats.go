package views

import (
	"fmt"

	"goal-path/internal/models"
)

func StatsHTML(stats models.CompletionRate) string {
	return fmt.Sprintf(
		"📊 <b>Статистика за день</b>\n"+
			"Всего задач: %d\n"+
			"Выполнено: %d\n"+
			"Выполнение: %d%%",
		stats.TotalTasks,
		stats.CompletedTasks,
		stats.CompletionRate,
	)
}

func MotivationHTML(m models.DailyMotivation) string {
	if m.Author == "" {
		return fmt.Sprintf("💬 <i>%s</i>", Escape(m.Quote))
	}
	return fmt.Sprintf("💬 <i>%s</i>\n— %s", Escape(m.Quote), Escape(m.Author))
}
