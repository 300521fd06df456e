package services

import (
	"time"

	"goal-path/internal/localstore"
	"goal-path/internal/motivation"
	"goal-path/internal/state"
	"goal-path/internal/tasks"
	"goal-path/internal/utils"
)

type Options struct {
	StaleTime time.Duration
	// Now часы в часовом поясе пользователя
	Now func() time.Time
}

type ServiceManager struct {
	Notification *NotificationService
	Analytics    *AnalyticsService
	Task         *TaskService
	Goal         *GoalService
	Reflection   *ReflectionService
	Motivation   *motivation.Rotator

	store *state.Store
	kv    *localstore.Store
	sync  *tasks.Sync
	now   func() time.Time
}

// NewServiceManager собирает сервисы вокруг одного хранилища задач.
// backend это либо SQLite-репозиторий, либо сам state.Store в локальном режиме.
func NewServiceManager(backend tasks.Backend, store *state.Store, kv *localstore.Store, opts Options) *ServiceManager {
	if opts.Now == nil {
		opts.Now = utils.Now
	}

	notification := NewNotificationService(opts.Now)
	taskSync := tasks.New(backend, notification, tasks.Options{
		StaleTime: opts.StaleTime,
		Now:       opts.Now,
	})

	sm := &ServiceManager{
		Notification: notification,
		Task:         NewTaskService(taskSync, opts.Now),
		Goal:         NewGoalService(store, notification),
		Reflection:   NewReflectionService(store, kv, taskSync, notification, opts.Now),
		Motivation:   motivation.NewRotator(kv, store),
		store:        store,
		kv:           kv,
		sync:         taskSync,
		now:          opts.Now,
	}
	sm.Analytics = NewAnalyticsService(sm.Task, sm.Reflection)
	notification.attach(sm.Task, sm.Reflection)

	return sm
}

func (sm *ServiceManager) SetNotificationSender(sender NotificationSender) {
	sm.Notification.SetSender(sender)
}

// Wait дожидается фоновых обновлений кэша задач
// Now текущее время по часам сервисов
func (sm *ServiceManager) Now() time.Time {
	return sm.now()
}

func (sm *ServiceManager) Wait() {
	sm.sync.Wait()
}
