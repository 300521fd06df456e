package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"goal-path/internal/models"
)

// createdAtLayout фиксированной ширины, чтобы сортировка строк совпадала с сортировкой времени
const createdAtLayout = "2006-01-02 15:04:05.000000000"

type Repository struct {
	Db  *Database
	now func() time.Time
}

func NewRepository(db *Database) *Repository {
	return &Repository{Db: db, now: time.Now}
}

const taskColumns = `id, title, date, status, parent_id, is_subtask, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (models.Task, error) {
	var (
		task      models.Task
		parentID  sql.NullString
		createdAt string
	)
	err := row.Scan(
		&task.ID,
		&task.Title,
		&task.Date,
		&task.Status,
		&parentID,
		&task.IsSubtask,
		&createdAt,
	)
	if err != nil {
		return models.Task{}, err
	}
	task.ParentID = parentID.String
	task.CreatedAt, err = time.Parse(createdAtLayout, createdAt)
	if err != nil {
		return models.Task{}, fmt.Errorf("неверный created_at %q: %w", createdAt, err)
	}
	return task, nil
}

// ListTasks возвращает подзадачи (ParentID) или задачи верхнего уровня на дату (Date)
func (r *Repository) ListTasks(ctx context.Context, filter models.TaskFilter) ([]models.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks`
	var args []any

	switch {
	case filter.ParentID != "":
		query += ` WHERE parent_id = ?`
		args = append(args, filter.ParentID)
	case filter.Date != "":
		query += ` WHERE date = ? AND parent_id IS NULL`
		args = append(args, filter.Date)
	}
	query += ` ORDER BY created_at, rowid`

	rows, err := r.Db.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tasks := []models.Task{}
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}

	return tasks, rows.Err()
}

func (r *Repository) GetTask(ctx context.Context, id string) (models.Task, error) {
	row := r.Db.db.QueryRowContext(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id)
	task, err := scanTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Task{}, models.ErrTaskNotFound
	}
	return task, err
}

// InsertTask вставляет задачу; id и created_at назначаются здесь.
// Подзадача наследует дату родителя, если своя не указана; вложенность не глубже одного уровня.
func (r *Repository) InsertTask(ctx context.Context, newTask models.NewTask) (models.Task, error) {
	newTask, err := newTask.Normalize()
	if err != nil {
		return models.Task{}, err
	}

	tx, err := r.Db.db.BeginTx(ctx, nil)
	if err != nil {
		return models.Task{}, err
	}
	defer tx.Rollback()

	if newTask.ParentID != "" {
		var (
			grandParent sql.NullString
			parentDate  string
		)
		err := tx.QueryRowContext(ctx,
			`SELECT parent_id, date FROM tasks WHERE id = ?`, newTask.ParentID,
		).Scan(&grandParent, &parentDate)
		if errors.Is(err, sql.ErrNoRows) {
			return models.Task{}, models.ErrParentNotFound
		}
		if err != nil {
			return models.Task{}, err
		}
		if grandParent.Valid {
			return models.Task{}, models.ErrNestedSubtask
		}
		if newTask.Date == "" {
			newTask.Date = parentDate
		}
	}
	if newTask.Date == "" {
		return models.Task{}, models.ErrInvalidDate
	}

	task := models.Task{
		ID:        uuid.NewString(),
		Title:     newTask.Title,
		Status:    newTask.Status,
		Date:      newTask.Date,
		ParentID:  newTask.ParentID,
		IsSubtask: newTask.ParentID != "",
		CreatedAt: r.now().UTC(),
	}

	var parentID sql.NullString
	if task.ParentID != "" {
		parentID = sql.NullString{String: task.ParentID, Valid: true}
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO tasks (id, title, date, status, parent_id, is_subtask, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, task.ID, task.Title, task.Date, task.Status, parentID, task.IsSubtask, task.CreatedAt.Format(createdAtLayout))
	if err != nil {
		return models.Task{}, err
	}

	if err := tx.Commit(); err != nil {
		return models.Task{}, err
	}
	return task, nil
}

// UpdateTask частично обновляет задачу по ID и возвращает строку после обновления
func (r *Repository) UpdateTask(ctx context.Context, patch models.TaskPatch) (models.Task, error) {
	if err := patch.Validate(); err != nil {
		return models.Task{}, err
	}

	var (
		sets []string
		args []any
	)
	if patch.Title != nil {
		sets = append(sets, "title = ?")
		args = append(args, strings.TrimSpace(*patch.Title))
	}
	if patch.Status != nil {
		sets = append(sets, "status = ?")
		args = append(args, *patch.Status)
	}
	if patch.Date != nil {
		sets = append(sets, "date = ?")
		args = append(args, *patch.Date)
	}
	if len(sets) == 0 {
		return r.GetTask(ctx, patch.ID)
	}

	args = append(args, patch.ID)
	res, err := r.Db.db.ExecContext(ctx,
		`UPDATE tasks SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...)
	if err != nil {
		return models.Task{}, err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return models.Task{}, models.ErrTaskNotFound
	}

	return r.GetTask(ctx, patch.ID)
}

func (r *Repository) DeleteTask(ctx context.Context, id string) error {
	res, err := r.Db.db.ExecContext(ctx, "DELETE FROM tasks WHERE id = ?", id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return models.ErrTaskNotFound
	}
	return nil
}

// DailyCompletionRate агрегат get_daily_completion_rate(date): все задачи дня, включая подзадачи
func (r *Repository) DailyCompletionRate(ctx context.Context, date string) (models.CompletionRate, error) {
	var stats models.CompletionRate
	err := r.Db.db.QueryRowContext(ctx, `
		SELECT
			COUNT(*) AS total_tasks,
			COALESCE(SUM(CASE WHEN status = 'completed' THEN 1 ELSE 0 END), 0) AS completed_tasks,
			CASE WHEN COUNT(*) = 0 THEN 0
				ELSE CAST(ROUND(100.0 * SUM(CASE WHEN status = 'completed' THEN 1 ELSE 0 END) / COUNT(*)) AS INTEGER)
			END AS completion_rate
		FROM tasks
		WHERE date = ?
	`, date).Scan(&stats.TotalTasks, &stats.CompletedTasks, &stats.CompletionRate)
	if err != nil {
		return models.CompletionRate{}, err
	}
	return stats, nil
}
