package services

import (
	"context"
	"fmt"
	"strings"

	"goal-path/internal/models"
	"goal-path/internal/utils"
	"goal-path/internal/views"
)

type AnalyticsService struct {
	tasks      *TaskService
	reflection *ReflectionService
}

func NewAnalyticsService(ts *TaskService, rs *ReflectionService) *AnalyticsService {
	return &AnalyticsService{
		tasks:      ts,
		reflection: rs,
	}
}

// Week неделя, в которую попадает date, с понедельника
func (as *AnalyticsService) Week(ctx context.Context, date string) (views.WeekPlan, error) {
	if date == "" {
		date = as.tasks.Today()
	}
	dates, err := utils.WeekDates(date)
	if err != nil {
		return views.WeekPlan{}, models.ErrInvalidDate
	}

	week := views.WeekPlan{
		Start: dates[0],
		End:   dates[len(dates)-1],
		Days:  make([]views.WeekDay, 0, len(dates)),
	}

	total, completed := 0, 0
	for _, d := range dates {
		list, err := as.tasks.List(ctx, d)
		if err != nil {
			return views.WeekPlan{}, err
		}
		stats, err := as.tasks.Stats(ctx, d)
		if err != nil {
			return views.WeekPlan{}, err
		}
		header, _ := utils.FormatDayHeader(d)

		week.Days = append(week.Days, views.WeekDay{
			Date:   d,
			Header: header,
			Tasks:  list,
			Stats:  stats,
		})
		total += stats.TotalTasks
		completed += stats.CompletedTasks
	}

	week.Total = models.NewCompletionRate(total, completed)
	week.Insights = as.generateInsights(week)
	return week, nil
}

func (as *AnalyticsService) generateInsights(week views.WeekPlan) []string {
	if week.Total.TotalTasks == 0 {
		return []string{"📊 Данных для анализа недостаточно. Продолжайте заполнять трекер!"}
	}

	var insights []string

	rate := week.Total.CompletionRate
	if rate < 50 {
		insights = append(insights, "💪 Нужно больше фокуса на выполнении задач")
	} else if rate > 80 {
		insights = append(insights, "🎯 Отличная неделя! Продолжайте в том же духе")
	} else {
		insights = append(insights, "📈 Хороший прогресс, есть куда расти")
	}

	var missed []string
	postponed := 0
	for _, day := range week.Days {
		if day.Stats.TotalTasks > 0 && day.Stats.CompletedTasks == 0 {
			missed = append(missed, day.Header)
		}
		for _, t := range day.Tasks {
			if t.Status == models.Postponed {
				postponed++
			}
		}
	}
	if len(missed) > 0 {
		insights = append(insights, fmt.Sprintf("⚠️ Ни одной выполненной задачи: %s", strings.Join(missed, "; ")))
	}
	if postponed >= 3 {
		insights = append(insights, fmt.Sprintf("⏳ Отложенных задач: %d. Возможно, план слишком плотный", postponed))
	}

	reflections := 0
	for _, r := range as.reflection.List() {
		if r.Date >= week.Start && r.Date <= week.End {
			reflections++
		}
	}
	insights = append(insights, fmt.Sprintf("📝 Рефлексий за неделю: %d из 7", reflections))

	return insights
}
