package views

import (
	"fmt"
	"strings"

	"goal-path/internal/models"
	"goal-path/internal/utils"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// TaskList задачи дня, разделённые на активные и завершённые
type TaskList struct {
	Date      string        `json:"date"`
	Active    []models.Task `json:"active"`
	Completed []models.Task `json:"completed"`
}

func NewTaskList(date string, tasks []models.Task) TaskList {
	list := TaskList{
		Date:      date,
		Active:    []models.Task{},
		Completed: []models.Task{},
	}
	for _, t := range tasks {
		if t.Done() {
			list.Completed = append(list.Completed, t)
		} else {
			list.Active = append(list.Active, t)
		}
	}
	return list
}

func (l TaskList) Empty() bool {
	return len(l.Active) == 0 && len(l.Completed) == 0
}

func (l TaskList) HTML() string {
	if l.Empty() {
		return "📭 На этот день задач нет"
	}

	var b strings.Builder
	for _, t := range l.Active {
		b.WriteString(TaskLine(t) + "\n")
	}
	if len(l.Completed) > 0 {
		if len(l.Active) > 0 {
			b.WriteString("\n")
		}
		b.WriteString("<b>Завершенные задачи</b>\n")
		for _, t := range l.Completed {
			b.WriteString(TaskLine(t) + "\n")
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

// TaskLine строка задачи; завершённые зачёркнуты
func TaskLine(t models.Task) string {
	title := Escape(t.Title)
	if t.Done() {
		title = "<s>" + title + "</s>"
	}
	return fmt.Sprintf("%s %s <code>%s</code>", utils.GetStatusEmoji(t.Status), title, Escape(t.ID))
}

// Escape экранирует пользовательский текст для HTML-разметки Telegram
func Escape(s string) string {
	return tgbotapi.EscapeText(tgbotapi.ModeHTML, s)
}
