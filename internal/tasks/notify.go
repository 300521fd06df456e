package tasks

import (
	"errors"
	"fmt"
	"log"
)

// ErrRemoteOperationFailed любая ошибка хранилища: сеть, ограничения, доступ.
// Пользователь видит одно и то же уведомление; исходная причина доступна через errors.Is.
var ErrRemoteOperationFailed = errors.New("remote operation failed")

type RemoteError struct {
	Op  string
	Err error
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *RemoteError) Unwrap() []error {
	return []error{ErrRemoteOperationFailed, e.Err}
}

type Level int

const (
	Success Level = iota
	Failure
)

type Notification struct {
	Level Level
	Text  string
}

// Notifier получатель всплывающих уведомлений
type Notifier interface {
	Notify(n Notification)
}

type NotifierFunc func(n Notification)

func (f NotifierFunc) Notify(n Notification) {
	f(n)
}

// LogNotifier пишет уведомления в лог, когда другого канала нет
var LogNotifier = NotifierFunc(func(n Notification) {
	if n.Level == Failure {
		log.Printf("❌ %s", n.Text)
		return
	}
	log.Printf("✅ %s", n.Text)
})

const (
	msgTaskAdded        = "Задача добавлена"
	msgSubtaskAdded     = "Подзадача добавлена"
	msgAddTaskFailed    = "Не удалось добавить задачу"
	msgAddSubtaskFailed = "Не удалось добавить подзадачу"
	msgUpdateFailed     = "Не удалось обновить задачу"
	msgTaskDeleted      = "Задача удалена"
	msgDeleteFailed     = "Не удалось удалить задачу"
	msgListFailed       = "Не удалось загрузить задачи"
	msgStatsFailed      = "Не удалось загрузить статистику"
	msgLocateFailed     = "Задача не найдена"
)
