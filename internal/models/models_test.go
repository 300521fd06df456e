package models

import "testing"

func TestStatusToggledTwice(t *testing.T) {
	for _, s := range []Status{NotStarted, Completed} {
		if got := s.Toggled().Toggled(); got != s {
			t.Errorf("Toggled twice from %s = %s", s, got)
		}
	}
	if got := InProgress.Toggled(); got != Completed {
		t.Errorf("InProgress.Toggled() = %s, want completed", got)
	}
}

func TestNewTaskNormalize(t *testing.T) {
	n, err := NewTask{Title: "  Stretch  ", Date: "2025-06-01"}.Normalize()
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if n.Title != "Stretch" {
		t.Errorf("Title = %q", n.Title)
	}
	if n.Status != NotStarted {
		t.Errorf("Status = %q, want not_started", n.Status)
	}

	tests := []struct {
		name string
		in   NewTask
		want error
	}{
		{"empty title", NewTask{Title: "   "}, ErrEmptyTitle},
		{"bad status", NewTask{Title: "x", Status: "done"}, ErrInvalidStatus},
		{"bad date", NewTask{Title: "x", Date: "01.06.2025"}, ErrInvalidDate},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tt.in.Normalize(); err != tt.want {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestTaskFilterMatch(t *testing.T) {
	top := Task{ID: "1", Date: "2025-06-01"}
	sub := Task{ID: "2", Date: "2025-06-01", ParentID: "1", IsSubtask: true}

	byDate := TaskFilter{Date: "2025-06-01"}
	if !byDate.Match(top) || byDate.Match(sub) {
		t.Error("date filter must match only top-level tasks of the day")
	}
	byParent := TaskFilter{ParentID: "1"}
	if byParent.Match(top) || !byParent.Match(sub) {
		t.Error("parent filter must match only subtasks of the parent")
	}
}

func TestNewCompletionRate(t *testing.T) {
	tests := []struct {
		total, completed, want int
	}{
		{0, 0, 0},
		{3, 1, 33},
		{3, 2, 67},
		{2, 1, 50},
		{4, 4, 100},
	}
	for _, tt := range tests {
		got := NewCompletionRate(tt.total, tt.completed)
		if got.CompletionRate != tt.want {
			t.Errorf("NewCompletionRate(%d, %d) = %d, want %d", tt.total, tt.completed, got.CompletionRate, tt.want)
		}
	}
}

func TestTaskPatchApply(t *testing.T) {
	status := Postponed
	date := "2025-06-02"
	p := TaskPatch{ID: "1", Status: &status, Date: &date}
	if err := p.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	got := p.Apply(Task{ID: "1", Title: "Stretch", Status: NotStarted, Date: "2025-06-01"})
	if got.Status != Postponed || got.Date != date || got.Title != "Stretch" {
		t.Errorf("Apply = %+v", got)
	}
}
