package tasks

import "goal-path/internal/models"

type Kind int

const (
	KindDate Kind = iota + 1
	KindParent
)

// Selector ключ кэша и запроса: задачи верхнего уровня на дату либо подзадачи родителя.
// Сравнимое значение, поэтому инвалидация это точный поиск по ключу.
type Selector struct {
	Kind  Kind
	Value string
}

func ByDate(date string) Selector {
	return Selector{Kind: KindDate, Value: date}
}

func ByParent(id string) Selector {
	return Selector{Kind: KindParent, Value: id}
}

func (s Selector) Subtasks() bool {
	return s.Kind == KindParent
}

func (s Selector) Filter() models.TaskFilter {
	if s.Kind == KindParent {
		return models.TaskFilter{ParentID: s.Value}
	}
	return models.TaskFilter{Date: s.Value}
}

func (s Selector) String() string {
	if s.Kind == KindParent {
		return "subtasks/" + s.Value
	}
	return "tasks/" + s.Value
}

// SelectorOf селектор, в выдаче которого находится задача
func SelectorOf(t models.Task) Selector {
	if t.ParentID != "" {
		return ByParent(t.ParentID)
	}
	return ByDate(t.Date)
}
