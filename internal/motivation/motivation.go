package motivation

import (
	"fmt"
	"log"
	"math/rand/v2"
	"time"

	"goal-path/internal/localstore"
	"goal-path/internal/models"
	"goal-path/internal/state"
)

const author = "Goal Path"

var Quotes = []models.DailyMotivation{
	{Quote: "Ты ближе, чем кажется", Author: author},
	{Quote: "Маленькие шаги каждый день приводят к большим результатам", Author: author},
	{Quote: "Не сравнивай себя с другими, сравнивай себя с собой вчерашним", Author: author},
	{Quote: "Важен не результат, а постоянное движение вперед", Author: author},
	{Quote: "Каждый день — это новая возможность стать лучше", Author: author},
}

// Random случайная цитата для снимка по умолчанию
func Random() models.DailyMotivation {
	return Quotes[rand.IntN(len(Quotes))]
}

type Rotator struct {
	kv     *localstore.Store
	store  *state.Store
	quotes []models.DailyMotivation
	pick   func(n int) int
}

func NewRotator(kv *localstore.Store, store *state.Store) *Rotator {
	return &Rotator{
		kv:     kv,
		store:  store,
		quotes: Quotes,
		pick:   rand.IntN,
	}
}

func (r *Rotator) Current() models.DailyMotivation {
	return r.store.Snapshot().DailyMotivation
}

// RotateIfNeeded меняет цитату не чаще раза в календарный день.
// now должен быть в часовом поясе пользователя.
func (r *Rotator) RotateIfNeeded(now time.Time) (models.DailyMotivation, bool, error) {
	today := now.Format(models.DateLayout)
	if last, ok := r.kv.Get(localstore.LastQuoteDateKey); ok && last == today {
		return r.Current(), false, nil
	}

	next := r.next(r.Current())
	if _, err := r.store.Dispatch(state.SetMotivation{Motivation: next}); err != nil {
		return r.Current(), false, fmt.Errorf("ошибка смены цитаты: %w", err)
	}
	if err := r.kv.Set(localstore.LastQuoteDateKey, today); err != nil {
		return next, true, fmt.Errorf("ошибка сохранения даты цитаты: %w", err)
	}

	log.Printf("💬 Цитата дня %s: %s", today, next.Quote)
	return next, true, nil
}

// next выбирает случайную цитату, отличную от текущей
func (r *Rotator) next(current models.DailyMotivation) models.DailyMotivation {
	candidates := make([]models.DailyMotivation, 0, len(r.quotes))
	for _, q := range r.quotes {
		if q != current {
			candidates = append(candidates, q)
		}
	}
	if len(candidates) == 0 {
		return current
	}
	return candidates[r.pick(len(candidates))]
}
