package services

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"goal-path/internal/models"
	"goal-path/internal/state"
)

const (
	msgGoalTitleRequired    = "Пожалуйста, введите название цели"
	msgGoalDeadlineRequired = "Пожалуйста, выберите дедлайн"
	msgGoalDeadlineInvalid  = "Неверный формат дедлайна, нужен ГГГГ-ММ-ДД"
	msgGoalSaved            = "Цель успешно сохранена"
	msgGoalSaveFailed       = "Не удалось сохранить цель"
	msgProgressFailed       = "Не удалось обновить прогресс"
)

type GoalService struct {
	store    *state.Store
	notifier *NotificationService
}

func NewGoalService(store *state.Store, notifier *NotificationService) *GoalService {
	return &GoalService{
		store:    store,
		notifier: notifier,
	}
}

func (gs *GoalService) Get() *models.Goal {
	return gs.store.Snapshot().Goal
}

// Save создаёт или редактирует цель. ID и прогресс существующей цели сохраняются.
func (gs *GoalService) Save(title, motivation, deadline string) (models.Goal, error) {
	title = strings.TrimSpace(title)
	deadline = strings.TrimSpace(deadline)

	if title == "" {
		gs.notifier.failure(msgGoalTitleRequired)
		return models.Goal{}, models.ErrEmptyGoalTitle
	}
	if deadline == "" {
		gs.notifier.failure(msgGoalDeadlineRequired)
		return models.Goal{}, models.ErrMissingDeadline
	}
	if !models.ValidDate(deadline) {
		gs.notifier.failure(msgGoalDeadlineInvalid)
		return models.Goal{}, models.ErrInvalidDate
	}

	goal := models.Goal{
		Title:      title,
		Motivation: strings.TrimSpace(motivation),
		Deadline:   deadline,
	}
	if current := gs.Get(); current != nil {
		goal.Progress = current.Progress
	}

	saved, err := gs.store.SetGoal(goal)
	if err != nil {
		log.Printf("⚠️ Ошибка сохранения цели: %v", err)
		gs.notifier.failure(msgGoalSaveFailed)
		return models.Goal{}, err
	}

	gs.notifier.success(msgGoalSaved)
	return saved, nil
}

func (gs *GoalService) UpdateProgress(progress int) (models.Goal, error) {
	if progress < 0 || progress > 100 {
		return models.Goal{}, models.ErrProgressRange
	}
	if gs.Get() == nil {
		return models.Goal{}, ErrNoGoal
	}

	if err := gs.store.UpdateProgress(progress); err != nil {
		log.Printf("⚠️ Ошибка обновления прогресса: %v", err)
		gs.notifier.failure(msgProgressFailed)
		return models.Goal{}, err
	}

	gs.notifier.success(fmt.Sprintf("Прогресс обновлен: %d%%", progress))
	return *gs.Get(), nil
}

// IsValidation ошибки ввода, о которых пользователю сообщает сама поверхность
func IsValidation(err error) bool {
	for _, target := range []error{
		models.ErrEmptyTitle, models.ErrInvalidStatus, models.ErrInvalidDate,
		models.ErrEmptyGoalTitle, models.ErrMissingDeadline, models.ErrProgressRange,
		models.ErrNestedSubtask, models.ErrParentNotFound,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
