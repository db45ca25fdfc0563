package testutil

import (
	"sync"

	"github.com/dom/libriverse/internal/domain"
	"github.com/google/uuid"
)

// Notification is one recorded activity delivery.
type Notification struct {
	Recipient uuid.UUID
	Event     domain.ActivityEvent
}

// RecordingNotifier captures activity events instead of delivering them.
type RecordingNotifier struct {
	mu     sync.Mutex
	events []Notification
}

func (n *RecordingNotifier) NotifyUser(userID uuid.UUID, event domain.ActivityEvent) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, Notification{Recipient: userID, Event: event})
}

func (n *RecordingNotifier) Events() []Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]Notification(nil), n.events...)
}

func (n *RecordingNotifier) Reset() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = nil
}
