package state

import (
	"errors"
	"slices"
	"strings"

	"goal-path/internal/models"
)

var (
	ErrReflectionExists = errors.New("рефлексия за этот день уже есть")
	ErrDuplicateID      = errors.New("id уже занят")
)

// Snapshot всё состояние приложения, сохраняемое одним JSON под ключом goalPathState
type Snapshot struct {
	Goal            *models.Goal           `json:"goal"`
	Tasks           []models.Task          `json:"tasks"`
	Reflections     []models.Reflection    `json:"reflections"`
	DailyMotivation models.DailyMotivation `json:"dailyMotivation"`
}

// Command переход состояния: старый снимок + команда = новый снимок.
// Переходы чистые и не меняют исходный снимок.
type Command interface {
	apply(s Snapshot) (Snapshot, error)
}

func Apply(s Snapshot, cmd Command) (Snapshot, error) {
	next, err := cmd.apply(s)
	if err != nil {
		return s, err
	}
	return next, nil
}

type SetGoal struct {
	Goal models.Goal
}

func (c SetGoal) apply(s Snapshot) (Snapshot, error) {
	goal := c.Goal
	goal.Title = strings.TrimSpace(goal.Title)
	if goal.Title == "" {
		return s, models.ErrEmptyGoalTitle
	}
	if goal.Deadline == "" {
		return s, models.ErrMissingDeadline
	}
	if !models.ValidDate(goal.Deadline) {
		return s, models.ErrInvalidDate
	}
	if goal.Progress < 0 || goal.Progress > 100 {
		return s, models.ErrProgressRange
	}
	s.Goal = &goal
	return s, nil
}

// UpdateProgress без цели ничего не меняет
type UpdateProgress struct {
	Progress int
}

func (c UpdateProgress) apply(s Snapshot) (Snapshot, error) {
	if c.Progress < 0 || c.Progress > 100 {
		return s, models.ErrProgressRange
	}
	if s.Goal == nil {
		return s, nil
	}
	goal := *s.Goal
	goal.Progress = c.Progress
	s.Goal = &goal
	return s, nil
}

// AddTask добавляет полностью сформированную задачу (id и created_at уже назначены)
type AddTask struct {
	Task models.Task
}

func (c AddTask) apply(s Snapshot) (Snapshot, error) {
	task := c.Task
	task.Title = strings.TrimSpace(task.Title)
	if task.Title == "" {
		return s, models.ErrEmptyTitle
	}
	if !task.Status.Valid() {
		return s, models.ErrInvalidStatus
	}
	if task.ParentID != "" {
		i := indexOf(s.Tasks, task.ParentID)
		if i < 0 {
			return s, models.ErrParentNotFound
		}
		if s.Tasks[i].ParentID != "" {
			return s, models.ErrNestedSubtask
		}
	}
	if !models.ValidDate(task.Date) {
		return s, models.ErrInvalidDate
	}
	if indexOf(s.Tasks, task.ID) >= 0 {
		return s, ErrDuplicateID
	}
	task.IsSubtask = task.ParentID != ""

	s.Tasks = append(slices.Clone(s.Tasks), task)
	return s, nil
}

type ToggleTask struct {
	ID string
}

func (c ToggleTask) apply(s Snapshot) (Snapshot, error) {
	i := indexOf(s.Tasks, c.ID)
	if i < 0 {
		return s, models.ErrTaskNotFound
	}
	s.Tasks = slices.Clone(s.Tasks)
	s.Tasks[i].Status = s.Tasks[i].Status.Toggled()
	return s, nil
}

type UpdateTask struct {
	Patch models.TaskPatch
}

func (c UpdateTask) apply(s Snapshot) (Snapshot, error) {
	if err := c.Patch.Validate(); err != nil {
		return s, err
	}
	i := indexOf(s.Tasks, c.Patch.ID)
	if i < 0 {
		return s, models.ErrTaskNotFound
	}
	s.Tasks = slices.Clone(s.Tasks)
	s.Tasks[i] = c.Patch.Apply(s.Tasks[i])
	return s, nil
}

// RemoveTask удаляет задачу вместе с её подзадачами
type RemoveTask struct {
	ID string
}

func (c RemoveTask) apply(s Snapshot) (Snapshot, error) {
	if indexOf(s.Tasks, c.ID) < 0 {
		return s, models.ErrTaskNotFound
	}
	kept := make([]models.Task, 0, len(s.Tasks))
	for _, t := range s.Tasks {
		if t.ID == c.ID || t.ParentID == c.ID {
			continue
		}
		kept = append(kept, t)
	}
	s.Tasks = kept
	return s, nil
}

// AddReflection не больше одной рефлексии на дату
type AddReflection struct {
	Reflection models.Reflection
}

func (c AddReflection) apply(s Snapshot) (Snapshot, error) {
	if !models.ValidDate(c.Reflection.Date) {
		return s, models.ErrInvalidDate
	}
	for _, r := range s.Reflections {
		if r.Date == c.Reflection.Date {
			return s, ErrReflectionExists
		}
	}
	s.Reflections = append(slices.Clone(s.Reflections), c.Reflection)
	return s, nil
}

type SetMotivation struct {
	Motivation models.DailyMotivation
}

func (c SetMotivation) apply(s Snapshot) (Snapshot, error) {
	s.DailyMotivation = c.Motivation
	return s, nil
}

func indexOf(tasks []models.Task, id string) int {
	return slices.IndexFunc(tasks, func(t models.Task) bool { return t.ID == id })
}

// ReflectionFor рефлексия за дату, если есть
func (s Snapshot) ReflectionFor(date string) (models.Reflection, bool) {
	for _, r := range s.Reflections {
		if r.Date == date {
			return r, true
		}
	}
	return models.Reflection{}, false
}

func (s Snapshot) clone() Snapshot {
	out := s
	if s.Goal != nil {
		goal := *s.Goal
		out.Goal = &goal
	}
	out.Tasks = slices.Clone(s.Tasks)
	out.Reflections = slices.Clone(s.Reflections)
	if out.Tasks == nil {
		out.Tasks = []models.Task{}
	}
	if out.Reflections == nil {
		out.Reflections = []models.Reflection{}
	}
	return out
}
