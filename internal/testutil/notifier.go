package testutil

import (
	"sync"

	"goal-path/internal/tasks"
)

// RecordingNotifier collects notifications for assertions.
type RecordingNotifier struct {
	mu    sync.Mutex
	items []tasks.Notification
}

// Notify implements tasks.Notifier.
func (r *RecordingNotifier) Notify(n tasks.Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, n)
}

// All returns a copy of the recorded notifications.
func (r *RecordingNotifier) All() []tasks.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]tasks.Notification, len(r.items))
	copy(out, r.items)
	return out
}

// Last returns the most recent notification, or a zero value.
func (r *RecordingNotifier) Last() tasks.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.items) == 0 {
		return tasks.Notification{}
	}
	return r.items[len(r.items)-1]
}
