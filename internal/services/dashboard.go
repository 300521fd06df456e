package services

import (
	"context"
	"log"

	"goal-path/internal/views"
)

// Dashboard главный экран. Ошибки загрузки задач и статистики уже показаны
// уведомлением, поэтому экран собирается из того, что удалось получить.
func (sm *ServiceManager) Dashboard(ctx context.Context) views.Dashboard {
	now := sm.now()
	today := sm.Task.Today()
	snap := sm.store.Snapshot()

	dashboard := views.Dashboard{
		Date:       today,
		Goal:       views.NewGoalCard(snap.Goal, now),
		Motivation: snap.DailyMotivation,
		Prompt:     views.NewReflectionPrompt(now, sm.Reflection.Done(today)),
	}

	list, err := sm.Task.Day(ctx, today)
	if err != nil {
		log.Printf("⚠️ Дашборд без задач: %v", err)
	}
	dashboard.Today = list

	stats, err := sm.Task.Stats(ctx, today)
	if err != nil {
		log.Printf("⚠️ Дашборд без статистики: %v", err)
	}
	dashboard.Stats = stats

	return dashboard
}
