package models

import (
	"errors"
	"strings"
	"time"
)

// DateLayout формат дня задачи, цели и рефлексии
const DateLayout = "2006-01-02"

type Status string

const (
	NotStarted Status = "not_started"
	InProgress Status = "in_progress"
	Completed  Status = "completed"
	Postponed  Status = "postponed"
)

var Statuses = []Status{NotStarted, InProgress, Completed, Postponed}

func (s Status) Valid() bool {
	switch s {
	case NotStarted, InProgress, Completed, Postponed:
		return true
	}
	return false
}

// Toggled возвращает статус после нажатия на чекбокс
func (s Status) Toggled() Status {
	if s == Completed {
		return NotStarted
	}
	return Completed
}

var (
	ErrEmptyTitle      = errors.New("пустое название задачи")
	ErrInvalidStatus   = errors.New("неизвестный статус задачи")
	ErrInvalidDate     = errors.New("неверный формат даты")
	ErrNestedSubtask   = errors.New("у подзадачи не может быть подзадач")
	ErrParentNotFound  = errors.New("родительская задача не найдена")
	ErrTaskNotFound    = errors.New("задача не найдена")
	ErrEmptyGoalTitle  = errors.New("пустое название цели")
	ErrMissingDeadline = errors.New("не указан дедлайн")
	ErrProgressRange   = errors.New("прогресс должен быть от 0 до 100")
)

type Task struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Status    Status    `json:"status"`
	Date      string    `json:"date"`
	ParentID  string    `json:"parent_id,omitempty"`
	IsSubtask bool      `json:"is_subtask"`
	CreatedAt time.Time `json:"created_at"`
}

func (t Task) Done() bool {
	return t.Status == Completed
}

// NewTask частичная строка для вставки; id и created_at назначает хранилище
type NewTask struct {
	Title    string `json:"title"`
	Status   Status `json:"status,omitempty"`
	Date     string `json:"date,omitempty"`
	ParentID string `json:"parent_id,omitempty"`
}

// Normalize обрезает пробелы, проставляет статус по умолчанию и проверяет поля
func (n NewTask) Normalize() (NewTask, error) {
	n.Title = strings.TrimSpace(n.Title)
	if n.Title == "" {
		return n, ErrEmptyTitle
	}
	if n.Status == "" {
		n.Status = NotStarted
	}
	if !n.Status.Valid() {
		return n, ErrInvalidStatus
	}
	if n.Date != "" && !ValidDate(n.Date) {
		return n, ErrInvalidDate
	}
	return n, nil
}

// TaskPatch частичное обновление; nil-поля не меняются
type TaskPatch struct {
	ID     string  `json:"id"`
	Title  *string `json:"title,omitempty"`
	Status *Status `json:"status,omitempty"`
	Date   *string `json:"date,omitempty"`
}

func (p TaskPatch) Validate() error {
	if p.Title != nil && strings.TrimSpace(*p.Title) == "" {
		return ErrEmptyTitle
	}
	if p.Status != nil && !p.Status.Valid() {
		return ErrInvalidStatus
	}
	if p.Date != nil && !ValidDate(*p.Date) {
		return ErrInvalidDate
	}
	return nil
}

// Apply накладывает патч на задачу
func (p TaskPatch) Apply(t Task) Task {
	if p.Title != nil {
		t.Title = strings.TrimSpace(*p.Title)
	}
	if p.Status != nil {
		t.Status = *p.Status
	}
	if p.Date != nil {
		t.Date = *p.Date
	}
	return t
}

// TaskFilter выборка задач: по ParentID (подзадачи) либо по Date (задачи верхнего уровня)
type TaskFilter struct {
	Date     string
	ParentID string
}

// Match повторяет семантику запроса к таблице tasks
func (f TaskFilter) Match(t Task) bool {
	if f.ParentID != "" {
		return t.ParentID == f.ParentID
	}
	if f.Date != "" {
		return t.Date == f.Date && t.ParentID == ""
	}
	return true
}

type CompletionRate struct {
	TotalTasks     int `json:"total_tasks"`
	CompletedTasks int `json:"completed_tasks"`
	CompletionRate int `json:"completion_rate"`
}

// NewCompletionRate считает процент с округлением до целого
func NewCompletionRate(total, completed int) CompletionRate {
	rate := 0
	if total > 0 {
		rate = (completed*200 + total) / (total * 2)
	}
	return CompletionRate{TotalTasks: total, CompletedTasks: completed, CompletionRate: rate}
}

type Goal struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Motivation string `json:"motivation"`
	Deadline   string `json:"deadline"`
	Progress   int    `json:"progress"`
}

type Reflection struct {
	ID           string `json:"id"`
	Date         string `json:"date"`
	DidImportant bool   `json:"did_important"`
	Obstacles    string `json:"obstacles"`
	Improvements string `json:"improvements"`
}

type DailyMotivation struct {
	Quote  string `json:"quote"`
	Author string `json:"author"`
}

func ValidDate(s string) bool {
	_, err := time.Parse(DateLayout, s)
	return err == nil
}
