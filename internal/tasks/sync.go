// Package tasks синхронизирует задачи с хранилищем через кэш запросов,
// ключом которого служит Selector.
//
// Чтение отдаёт кэш, пока он свежий (StaleTime). Устаревшая запись
// возвращается сразу, а в фоне запускается одно повторное чтение.
// Успешная запись удаляет из кэша ровно запись своего селектора;
// неуспешная показывает уведомление и оставляет кэш как был.
package tasks

import (
	"context"
	"errors"
	"fmt"
	"log"
	"slices"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"goal-path/internal/models"
)

const DefaultStaleTime = time.Minute

// Backend контракт таблицы tasks и агрегата get_daily_completion_rate
type Backend interface {
	ListTasks(ctx context.Context, filter models.TaskFilter) ([]models.Task, error)
	GetTask(ctx context.Context, id string) (models.Task, error)
	InsertTask(ctx context.Context, task models.NewTask) (models.Task, error)
	UpdateTask(ctx context.Context, patch models.TaskPatch) (models.Task, error)
	DeleteTask(ctx context.Context, id string) error
	DailyCompletionRate(ctx context.Context, date string) (models.CompletionRate, error)
}

type Options struct {
	StaleTime time.Duration
	Now       func() time.Time
}

type entry struct {
	tasks      []models.Task
	fetchedAt  time.Time
	refreshing bool
}

type Sync struct {
	backend   Backend
	notifier  Notifier
	staleTime time.Duration
	now       func() time.Time

	mu          sync.Mutex
	entries     map[Selector]*entry
	generations map[Selector]uint64

	group      singleflight.Group
	background sync.WaitGroup
}

func New(backend Backend, notifier Notifier, opts Options) *Sync {
	if notifier == nil {
		notifier = LogNotifier
	}
	if opts.StaleTime <= 0 {
		opts.StaleTime = DefaultStaleTime
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Sync{
		backend:     backend,
		notifier:    notifier,
		staleTime:   opts.StaleTime,
		now:         opts.Now,
		entries:     make(map[Selector]*entry),
		generations: make(map[Selector]uint64),
	}
}

// Scope привязывает операции к селектору, активному в момент вызова
func (s *Sync) Scope(sel Selector) *Scope {
	return &Scope{sync: s, sel: sel}
}

// Invalidate сбрасывает ровно одну запись кэша
func (s *Sync) Invalidate(sel Selector) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, sel)
	s.generations[sel]++
}

// Wait дожидается фоновых обновлений кэша
func (s *Sync) Wait() {
	s.background.Wait()
}

func (s *Sync) list(ctx context.Context, sel Selector) ([]models.Task, error) {
	s.mu.Lock()
	if e, ok := s.entries[sel]; ok {
		tasks := slices.Clone(e.tasks)
		if s.now().Sub(e.fetchedAt) >= s.staleTime && !e.refreshing {
			e.refreshing = true
			s.revalidate(ctx, sel, e)
		}
		s.mu.Unlock()
		return tasks, nil
	}
	s.mu.Unlock()

	tasks, err := s.fetch(ctx, sel, true)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
			return nil, err
		}
		return nil, &RemoteError{Op: "list " + sel.String(), Err: err}
	}
	return slices.Clone(tasks), nil
}

// fetch читает селектор из хранилища и кладёт результат в кэш, если
// за время запроса запись не инвалидировали. Одинаковые запросы одного
// поколения склеиваются в один; общий запрос не зависит от отмены
// контекста отдельного вызывающего, а уведомление об ошибке он
// отправляет один раз.
func (s *Sync) fetch(ctx context.Context, sel Selector, notify bool) ([]models.Task, error) {
	s.mu.Lock()
	gen := s.generations[sel]
	s.mu.Unlock()

	shared := context.WithoutCancel(ctx)
	key := fmt.Sprintf("%s#%d", sel, gen)
	ch := s.group.DoChan(key, func() (any, error) {
		tasks, err := s.backend.ListTasks(shared, sel.Filter())
		if err != nil {
			if notify {
				log.Printf("⚠️ Ошибка загрузки %s: %v", sel, err)
				s.notifier.Notify(Notification{Level: Failure, Text: msgListFailed})
			}
			return nil, err
		}
		if tasks == nil {
			tasks = []models.Task{}
		}

		s.mu.Lock()
		if s.generations[sel] == gen {
			s.entries[sel] = &entry{tasks: tasks, fetchedAt: s.now()}
		}
		s.mu.Unlock()
		return tasks, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]models.Task), nil
	}
}

// revalidate вызывается под s.mu
func (s *Sync) revalidate(ctx context.Context, sel Selector, stale *entry) {
	s.background.Add(1)
	go func() {
		defer s.background.Done()
		if _, err := s.fetch(context.WithoutCancel(ctx), sel, false); err != nil {
			log.Printf("⚠️ Фоновое обновление %s не удалось: %v", sel, err)
			s.mu.Lock()
			stale.refreshing = false
			s.mu.Unlock()
		}
	}()
}

// Stats возвращает агрегат хранилища за день без изменений
func (s *Sync) Stats(ctx context.Context, date string) (models.CompletionRate, error) {
	stats, err := s.backend.DailyCompletionRate(ctx, date)
	if err != nil {
		log.Printf("⚠️ Ошибка получения статистики за %s: %v", date, err)
		s.notifier.Notify(Notification{Level: Failure, Text: msgStatsFailed})
		return models.CompletionRate{}, &RemoteError{Op: "get_daily_completion_rate", Err: err}
	}
	return stats, nil
}

// Locate находит задачу по ID и селектор, в выдаче которого она показывается
func (s *Sync) Locate(ctx context.Context, id string) (models.Task, *Scope, error) {
	task, err := s.backend.GetTask(ctx, id)
	if err != nil {
		log.Printf("⚠️ Ошибка поиска задачи %s: %v", id, err)
		s.notifier.Notify(Notification{Level: Failure, Text: msgLocateFailed})
		return models.Task{}, nil, &RemoteError{Op: "get " + id, Err: err}
	}
	return task, s.Scope(SelectorOf(task)), nil
}

type Scope struct {
	sync *Sync
	sel  Selector
}

func (sc *Scope) Selector() Selector {
	return sc.sel
}

// List задачи селектора в порядке создания
func (sc *Scope) List(ctx context.Context) ([]models.Task, error) {
	return sc.sync.list(ctx, sc.sel)
}

// Add вставляет задачу; дата или родитель по умолчанию берутся из селектора
func (sc *Scope) Add(ctx context.Context, newTask models.NewTask) (models.Task, error) {
	switch sc.sel.Kind {
	case KindParent:
		newTask.ParentID = sc.sel.Value
	case KindDate:
		if newTask.Date == "" {
			newTask.Date = sc.sel.Value
		}
	}

	newTask, err := newTask.Normalize()
	if err != nil {
		return models.Task{}, err
	}

	okText, failText := msgTaskAdded, msgAddTaskFailed
	if sc.sel.Subtasks() {
		okText, failText = msgSubtaskAdded, msgAddSubtaskFailed
	}

	task, err := sc.sync.backend.InsertTask(ctx, newTask)
	if err != nil {
		log.Printf("⚠️ Ошибка добавления задачи в %s: %v", sc.sel, err)
		sc.sync.notifier.Notify(Notification{Level: Failure, Text: failText})
		return models.Task{}, &RemoteError{Op: "insert", Err: err}
	}

	sc.sync.Invalidate(sc.sel)
	sc.sync.notifier.Notify(Notification{Level: Success, Text: okText})
	return task, nil
}

// Update частичное обновление без оптимистичной правки кэша
func (sc *Scope) Update(ctx context.Context, patch models.TaskPatch) (models.Task, error) {
	if err := patch.Validate(); err != nil {
		return models.Task{}, err
	}

	task, err := sc.sync.backend.UpdateTask(ctx, patch)
	if err != nil {
		log.Printf("⚠️ Ошибка обновления задачи %s: %v", patch.ID, err)
		sc.sync.notifier.Notify(Notification{Level: Failure, Text: msgUpdateFailed})
		return models.Task{}, &RemoteError{Op: "update " + patch.ID, Err: err}
	}

	sc.sync.Invalidate(sc.sel)
	return task, nil
}

// Toggle переключает задачу между completed и not_started
func (sc *Scope) Toggle(ctx context.Context, task models.Task) (models.Task, error) {
	status := task.Status.Toggled()
	return sc.Update(ctx, models.TaskPatch{ID: task.ID, Status: &status})
}

// Postpone переносит задачу на другую дату со статусом postponed
func (sc *Scope) Postpone(ctx context.Context, id, date string) (models.Task, error) {
	status := models.Postponed
	return sc.Update(ctx, models.TaskPatch{ID: id, Status: &status, Date: &date})
}

func (sc *Scope) Delete(ctx context.Context, id string) error {
	if err := sc.sync.backend.DeleteTask(ctx, id); err != nil {
		log.Printf("⚠️ Ошибка удаления задачи %s: %v", id, err)
		sc.sync.notifier.Notify(Notification{Level: Failure, Text: msgDeleteFailed})
		return &RemoteError{Op: "delete " + id, Err: err}
	}

	sc.sync.Invalidate(sc.sel)
	sc.sync.notifier.Notify(Notification{Level: Success, Text: msgTaskDeleted})
	return nil
}
