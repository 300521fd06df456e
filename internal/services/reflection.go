package services

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"goal-path/internal/localstore"
	"goal-path/internal/models"
	"goal-path/internal/state"
	"goal-path/internal/tasks"
	"goal-path/internal/utils"
)

const (
	reflectionDone         = "done"
	msgReflectionSaved     = "Рефлексия сохранена"
	msgReflectionSaveError = "Не удалось сохранить рефлексию"
)

// ReflectionInput ответы вечерней рефлексии
type ReflectionInput struct {
	DidImportant bool   `json:"did_important"`
	Obstacles    string `json:"obstacles"`
	Improvements string `json:"improvements"`
	TomorrowTask string `json:"tomorrow_task"`
}

type ReflectionService struct {
	store    *state.Store
	kv       *localstore.Store
	sync     *tasks.Sync
	notifier *NotificationService
	now      func() time.Time
}

func NewReflectionService(store *state.Store, kv *localstore.Store, sync *tasks.Sync, notifier *NotificationService, now func() time.Time) *ReflectionService {
	return &ReflectionService{
		store:    store,
		kv:       kv,
		sync:     sync,
		notifier: notifier,
		now:      now,
	}
}

// Done проведена ли рефлексия за дату
func (rs *ReflectionService) Done(date string) bool {
	v, ok := rs.kv.Get(localstore.ReflectionKey(date))
	return ok && v == reflectionDone
}

func (rs *ReflectionService) List() []models.Reflection {
	return rs.store.Reflections()
}

func (rs *ReflectionService) Today() (models.Reflection, bool) {
	return rs.store.Snapshot().ReflectionFor(utils.DateOf(rs.now()))
}

// Submit сохраняет рефлексию за сегодня, если её ещё нет, добавляет задачу на завтра
// и отмечает день как отрефлексированный.
func (rs *ReflectionService) Submit(ctx context.Context, in ReflectionInput) (models.Reflection, error) {
	now := rs.now()
	today := utils.DateOf(now)

	reflection, exists := rs.store.Snapshot().ReflectionFor(today)
	if !exists {
		added, err := rs.store.AddReflection(models.Reflection{
			Date:         today,
			DidImportant: in.DidImportant,
			Obstacles:    strings.TrimSpace(in.Obstacles),
			Improvements: strings.TrimSpace(in.Improvements),
		})
		switch {
		case errors.Is(err, state.ErrReflectionExists):
			reflection, _ = rs.store.Snapshot().ReflectionFor(today)
		case err != nil:
			log.Printf("⚠️ Ошибка сохранения рефлексии: %v", err)
			rs.notifier.failure(msgReflectionSaveError)
			return models.Reflection{}, err
		default:
			reflection = added
		}
	}

	if title := strings.TrimSpace(in.TomorrowTask); title != "" {
		tomorrow := utils.DateOf(now.AddDate(0, 0, 1))
		if _, err := rs.sync.Scope(tasks.ByDate(tomorrow)).Add(ctx, models.NewTask{Title: title}); err != nil {
			log.Printf("⚠️ Ошибка добавления задачи на завтра: %v", err)
		}
	}

	if err := rs.kv.Set(localstore.ReflectionKey(today), reflectionDone); err != nil {
		log.Printf("⚠️ Ошибка сохранения отметки рефлексии: %v", err)
	}

	rs.notifier.success(msgReflectionSaved)
	return reflection, nil
}
