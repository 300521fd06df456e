// Package state хранит цель, локальные задачи, рефлексии и мотивацию дня
// в одном снимке и сохраняет его в локальное хранилище после каждой команды.
package state

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"slices"
	"sort"
	"strconv"
	"sync"
	"time"

	"goal-path/internal/localstore"
	"goal-path/internal/models"
)

type Store struct {
	kv  *localstore.Store
	now func() time.Time

	mu     sync.RWMutex
	snap   Snapshot
	lastID int64
}

// Load читает снимок из локального хранилища; если ключа нет, берёт снимок по умолчанию
func Load(kv *localstore.Store, motivation models.DailyMotivation) (*Store, error) {
	s := &Store{
		kv:  kv,
		now: time.Now,
		snap: Snapshot{
			Tasks:           []models.Task{},
			Reflections:     []models.Reflection{},
			DailyMotivation: motivation,
		},
	}

	raw, ok := kv.Get(localstore.StateKey)
	if !ok {
		return s, nil
	}

	var snap Snapshot
	if err := json.Unmarshal([]byte(raw), &snap); err != nil {
		return nil, fmt.Errorf("ошибка чтения состояния: %w", err)
	}
	s.snap = snap.clone()

	for _, t := range s.snap.Tasks {
		s.observeID(t.ID)
	}
	for _, r := range s.snap.Reflections {
		s.observeID(r.ID)
	}
	if s.snap.Goal != nil {
		s.observeID(s.snap.Goal.ID)
	}

	log.Printf("✅ Состояние загружено: задач=%d, рефлексий=%d", len(s.snap.Tasks), len(s.snap.Reflections))
	return s, nil
}

// Snapshot копия текущего состояния
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap.clone()
}

// Dispatch применяет команду и синхронно сохраняет результат.
// Если сохранить не удалось, состояние в памяти остаётся прежним.
func (s *Store) Dispatch(cmd Command) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dispatchLocked(cmd)
}

func (s *Store) dispatchLocked(cmd Command) (Snapshot, error) {
	next, err := Apply(s.snap, cmd)
	if err != nil {
		return s.snap.clone(), err
	}
	next = next.clone()

	data, err := json.Marshal(next)
	if err != nil {
		return s.snap.clone(), err
	}
	if err := s.kv.Set(localstore.StateKey, string(data)); err != nil {
		return s.snap.clone(), fmt.Errorf("ошибка сохранения состояния: %w", err)
	}

	s.snap = next
	return next.clone(), nil
}

// newIDLocked id из текущего времени в миллисекундах, уникальный в пределах снимка
func (s *Store) newIDLocked() string {
	id := s.now().UnixMilli()
	if id <= s.lastID {
		id = s.lastID + 1
	}
	s.lastID = id
	return strconv.FormatInt(id, 10)
}

func (s *Store) observeID(id string) {
	if n, err := strconv.ParseInt(id, 10, 64); err == nil && n > s.lastID {
		s.lastID = n
	}
}

// SetGoal сохраняет цель; id и прогресс существующей цели сохраняются
func (s *Store) SetGoal(goal models.Goal) (models.Goal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if current := s.snap.Goal; current != nil {
		if goal.ID == "" {
			goal.ID = current.ID
		}
	}
	if goal.ID == "" {
		goal.ID = s.newIDLocked()
	}

	snap, err := s.dispatchLocked(SetGoal{Goal: goal})
	if err != nil {
		return models.Goal{}, err
	}
	return *snap.Goal, nil
}

func (s *Store) UpdateProgress(progress int) error {
	_, err := s.Dispatch(UpdateProgress{Progress: progress})
	return err
}

func (s *Store) AddReflection(r models.Reflection) (models.Reflection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r.ID = s.newIDLocked()
	if _, err := s.dispatchLocked(AddReflection{Reflection: r}); err != nil {
		return models.Reflection{}, err
	}
	return r, nil
}

func (s *Store) ToggleTask(id string) (models.Task, error) {
	snap, err := s.Dispatch(ToggleTask{ID: id})
	if err != nil {
		return models.Task{}, err
	}
	return snap.Tasks[indexOf(snap.Tasks, id)], nil
}

func (s *Store) RemoveTask(id string) error {
	_, err := s.Dispatch(RemoveTask{ID: id})
	return err
}

// Ниже Store выступает локальным хранилищем задач для слоя синхронизации.

func (s *Store) ListTasks(ctx context.Context, filter models.TaskFilter) ([]models.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := []models.Task{}
	for _, t := range s.snap.Tasks {
		if filter.Match(t) {
			result = append(result, t)
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result, nil
}

func (s *Store) GetTask(ctx context.Context, id string) (models.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if i := indexOf(s.snap.Tasks, id); i >= 0 {
		return s.snap.Tasks[i], nil
	}
	return models.Task{}, models.ErrTaskNotFound
}

func (s *Store) InsertTask(ctx context.Context, newTask models.NewTask) (models.Task, error) {
	newTask, err := newTask.Normalize()
	if err != nil {
		return models.Task{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if newTask.ParentID != "" && newTask.Date == "" {
		if i := indexOf(s.snap.Tasks, newTask.ParentID); i >= 0 {
			newTask.Date = s.snap.Tasks[i].Date
		}
	}

	task := models.Task{
		ID:        s.newIDLocked(),
		Title:     newTask.Title,
		Status:    newTask.Status,
		Date:      newTask.Date,
		ParentID:  newTask.ParentID,
		CreatedAt: s.now().UTC(),
	}
	snap, err := s.dispatchLocked(AddTask{Task: task})
	if err != nil {
		return models.Task{}, err
	}
	return snap.Tasks[len(snap.Tasks)-1], nil
}

func (s *Store) UpdateTask(ctx context.Context, patch models.TaskPatch) (models.Task, error) {
	snap, err := s.Dispatch(UpdateTask{Patch: patch})
	if err != nil {
		return models.Task{}, err
	}
	return snap.Tasks[indexOf(snap.Tasks, patch.ID)], nil
}

func (s *Store) DeleteTask(ctx context.Context, id string) error {
	return s.RemoveTask(id)
}

func (s *Store) DailyCompletionRate(ctx context.Context, date string) (models.CompletionRate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	total, completed := 0, 0
	for _, t := range s.snap.Tasks {
		if t.Date != date {
			continue
		}
		total++
		if t.Done() {
			completed++
		}
	}
	return models.NewCompletionRate(total, completed), nil
}

// Reflections копия списка рефлексий, новые в конце
func (s *Store) Reflections() []models.Reflection {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.snap.Reflections)
}
