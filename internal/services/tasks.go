package services

import (
	"context"
	"errors"
	"time"

	"goal-path/internal/models"
	"goal-path/internal/tasks"
	"goal-path/internal/utils"
	"goal-path/internal/views"
)

var ErrNoGoal = errors.New("цель не задана")

// TaskService операции над задачами по их ID поверх слоя синхронизации
type TaskService struct {
	sync *tasks.Sync
	now  func() time.Time
}

func NewTaskService(sync *tasks.Sync, now func() time.Time) *TaskService {
	return &TaskService{
		sync: sync,
		now:  now,
	}
}

func (ts *TaskService) Today() string {
	return utils.DateOf(ts.now())
}

func (ts *TaskService) List(ctx context.Context, date string) ([]models.Task, error) {
	if !models.ValidDate(date) {
		return nil, models.ErrInvalidDate
	}
	return ts.sync.Scope(tasks.ByDate(date)).List(ctx)
}

func (ts *TaskService) Subtasks(ctx context.Context, parentID string) ([]models.Task, error) {
	return ts.sync.Scope(tasks.ByParent(parentID)).List(ctx)
}

// Day задачи дня, разделённые на активные и завершённые
func (ts *TaskService) Day(ctx context.Context, date string) (views.TaskList, error) {
	list, err := ts.List(ctx, date)
	if err != nil {
		return views.NewTaskList(date, nil), err
	}
	return views.NewTaskList(date, list), nil
}

// Create добавляет задачу в выдачу родителя, если он указан, иначе в выдачу дня
func (ts *TaskService) Create(ctx context.Context, newTask models.NewTask) (models.Task, error) {
	if newTask.ParentID != "" {
		return ts.sync.Scope(tasks.ByParent(newTask.ParentID)).Add(ctx, newTask)
	}
	if newTask.Date == "" {
		newTask.Date = ts.Today()
	}
	if !models.ValidDate(newTask.Date) {
		return models.Task{}, models.ErrInvalidDate
	}
	return ts.sync.Scope(tasks.ByDate(newTask.Date)).Add(ctx, newTask)
}

func (ts *TaskService) Add(ctx context.Context, date, title string) (models.Task, error) {
	return ts.Create(ctx, models.NewTask{Title: title, Date: date})
}

func (ts *TaskService) AddSubtask(ctx context.Context, parentID, title string) (models.Task, error) {
	return ts.Create(ctx, models.NewTask{Title: title, ParentID: parentID})
}

func (ts *TaskService) Get(ctx context.Context, id string) (models.Task, error) {
	task, _, err := ts.sync.Locate(ctx, id)
	return task, err
}

func (ts *TaskService) Update(ctx context.Context, patch models.TaskPatch) (models.Task, error) {
	if err := patch.Validate(); err != nil {
		return models.Task{}, err
	}
	task, scope, err := ts.sync.Locate(ctx, patch.ID)
	if err != nil {
		return models.Task{}, err
	}
	updated, err := scope.Update(ctx, patch)
	if err != nil {
		return models.Task{}, err
	}
	if updated.Date != task.Date && !updated.IsSubtask {
		ts.sync.Invalidate(tasks.ByDate(updated.Date))
	}
	return updated, nil
}

func (ts *TaskService) Toggle(ctx context.Context, id string) (models.Task, error) {
	task, scope, err := ts.sync.Locate(ctx, id)
	if err != nil {
		return models.Task{}, err
	}
	return scope.Toggle(ctx, task)
}

func (ts *TaskService) SetStatus(ctx context.Context, id string, status models.Status) (models.Task, error) {
	return ts.Update(ctx, models.TaskPatch{ID: id, Status: &status})
}

// Postpone переносит задачу; кэш новой даты тоже сбрасывается
func (ts *TaskService) Postpone(ctx context.Context, id, date string) (models.Task, error) {
	if !models.ValidDate(date) {
		return models.Task{}, models.ErrInvalidDate
	}
	_, scope, err := ts.sync.Locate(ctx, id)
	if err != nil {
		return models.Task{}, err
	}
	task, err := scope.Postpone(ctx, id, date)
	if err != nil {
		return models.Task{}, err
	}
	if !task.IsSubtask {
		ts.sync.Invalidate(tasks.ByDate(date))
	}
	return task, nil
}

func (ts *TaskService) Delete(ctx context.Context, id string) error {
	task, scope, err := ts.sync.Locate(ctx, id)
	if err != nil {
		return err
	}
	if err := scope.Delete(ctx, id); err != nil {
		return err
	}
	if !task.IsSubtask {
		ts.sync.Invalidate(tasks.ByParent(task.ID))
	}
	return nil
}

func (ts *TaskService) Stats(ctx context.Context, date string) (models.CompletionRate, error) {
	if !models.ValidDate(date) {
		return models.CompletionRate{}, models.ErrInvalidDate
	}
	return ts.sync.Stats(ctx, date)
}

// DayPlan задачи дня с подзадачами и статистикой
func (ts *TaskService) DayPlan(ctx context.Context, date string) (views.DayPlan, error) {
	header, err := utils.FormatLongDate(date)
	if err != nil {
		return views.DayPlan{}, models.ErrInvalidDate
	}

	list, err := ts.List(ctx, date)
	if err != nil {
		return views.DayPlan{}, err
	}

	plan := views.DayPlan{
		Date:   date,
		Header: header,
		Items:  make([]views.PlanItem, 0, len(list)),
	}
	for _, task := range list {
		subtasks, err := ts.Subtasks(ctx, task.ID)
		if err != nil {
			return views.DayPlan{}, err
		}
		plan.Items = append(plan.Items, views.PlanItem{Task: task, Subtasks: subtasks})
	}

	plan.Stats, err = ts.Stats(ctx, date)
	if err != nil {
		return views.DayPlan{}, err
	}
	return plan, nil
}
