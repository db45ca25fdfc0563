package service

import (
	"time"

	"github.com/dom/libriverse/internal/domain"
	"github.com/google/uuid"
)

// ActivityNotifier delivers activity events to a user. Implementations must
// not block the caller.
type ActivityNotifier interface {
	NotifyUser(userID uuid.UUID, event domain.ActivityEvent)
}

type discardNotifier struct{}

func (discardNotifier) NotifyUser(uuid.UUID, domain.ActivityEvent) {}

func notify(n ActivityNotifier, recipient uuid.UUID, eventType domain.ActivityType, actor domain.UserRef, subject *uuid.UUID) {
	if recipient == actor.ID {
		return
	}
	n.NotifyUser(recipient, domain.ActivityEvent{
		Type:      eventType,
		Actor:     actor,
		SubjectID: subject,
		CreatedAt: time.Now(),
	})
}
