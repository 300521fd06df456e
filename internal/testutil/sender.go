package testutil

import (
	"strings"
	"sync"
)

// RecordingSender collects outgoing chat messages.
type RecordingSender struct {
	mu       sync.Mutex
	messages []string

	// Err is returned from SendMessage when set.
	Err error
}

// SendMessage implements services.NotificationSender.
func (r *RecordingSender) SendMessage(text string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, text)
	return r.Err
}

// Messages returns a copy of the sent messages.
func (r *RecordingSender) Messages() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.messages))
	copy(out, r.messages)
	return out
}

// Contains reports whether any sent message contains substr.
func (r *RecordingSender) Contains(substr string) bool {
	for _, m := range r.Messages() {
		if strings.Contains(m, substr) {
			return true
		}
	}
	return false
}

// Reset drops recorded messages.
func (r *RecordingSender) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = nil
}
