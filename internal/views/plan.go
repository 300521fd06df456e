package views

import (
	"fmt"
	"strings"

	"goal-path/internal/models"
	"goal-path/internal/utils"
)

type PlanItem struct {
	models.Task
	Subtasks []models.Task `json:"subtasks"`
}

type DayPlan struct {
	Date   string                `json:"date"`
	Header string                `json:"header"`
	Items  []PlanItem            `json:"items"`
	Stats  models.CompletionRate `json:"stats"`
}

func (p DayPlan) HTML() string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("🗓 <b>%s</b>\n\n", p.Header))

	if len(p.Items) == 0 {
		b.WriteString("📭 На этот день задач нет\n")
	}
	for _, item := range p.Items {
		b.WriteString(TaskLine(item.Task) + "\n")
		for _, sub := range item.Subtasks {
			b.WriteString("    ↳ " + TaskLine(sub) + "\n")
		}
	}

	b.WriteString("\n" + StatsHTML(p.Stats))
	return b.String()
}

type WeekDay struct {
	Date   string                `json:"date"`
	Header string                `json:"header"`
	Tasks  []models.Task         `json:"tasks"`
	Stats  models.CompletionRate `json:"stats"`
}

// WeekPlan неделя с понедельника по воскресенье
type WeekPlan struct {
	Start    string                `json:"start"`
	End      string                `json:"end"`
	Days     []WeekDay             `json:"days"`
	Total    models.CompletionRate `json:"total"`
	Insights []string              `json:"insights"`
}

func (w WeekPlan) HTML() string {
	var b strings.Builder
	start, _ := utils.FormatShortDate(w.Start)
	end, _ := utils.FormatShortDate(w.End)
	b.WriteString(fmt.Sprintf("📅 <b>Неделя %s – %s</b>\n\n", start, end))

	for _, day := range w.Days {
		b.WriteString(fmt.Sprintf("<b>%s</b>", day.Header))
		if day.Stats.TotalTasks > 0 {
			b.WriteString(fmt.Sprintf(" (%d/%d)", day.Stats.CompletedTasks, day.Stats.TotalTasks))
		}
		b.WriteString("\n")
		if len(day.Tasks) == 0 {
			b.WriteString("Нет задач\n")
		}
		for _, t := range day.Tasks {
			b.WriteString(TaskLine(t) + "\n")
		}
		b.WriteString("\n")
	}

	b.WriteString(fmt.Sprintf("✅ Выполнено за неделю: %d/%d (%d%%)",
		w.Total.CompletedTasks, w.Total.TotalTasks, w.Total.CompletionRate))
	if len(w.Insights) > 0 {
		b.WriteString("\n\n💡 <b>Выводы:</b>\n" + strings.Join(w.Insights, "\n"))
	}
	return b.String()
}

type Dashboard struct {
	Date       string                 `json:"date"`
	Goal       GoalCard               `json:"goal"`
	Motivation models.DailyMotivation `json:"motivation"`
	Prompt     ReflectionPrompt       `json:"reflection_prompt"`
	Today      TaskList               `json:"today"`
	Stats      models.CompletionRate  `json:"stats"`
}

func (d Dashboard) HTML() string {
	header, err := utils.FormatLongDate(d.Date)
	if err != nil {
		header = d.Date
	}

	parts := []string{
		d.Goal.HTML(),
		MotivationHTML(d.Motivation),
	}
	if prompt := d.Prompt.HTML(); prompt != "" {
		parts = append(parts, prompt)
	}
	parts = append(parts,
		fmt.Sprintf("📋 <b>Задачи на сегодня, %s</b>\n%s", header, d.Today.HTML()),
		StatsHTML(d.Stats),
	)
	return strings.Join(parts, "\n\n")
}
