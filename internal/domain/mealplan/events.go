package mealplan

import (
	"time"

	"github.com/google/uuid"
)

// GeneratedEvent is raised when the generator produces a plan
type GeneratedEvent struct {
	PlanID       uuid.UUID
	UserID       uuid.UUID
	DurationDays int
	Candidates   int
	GeneratedAt  time.Time
}

func (e GeneratedEvent) EventName() string {
	return "mealplan.generated"
}

func (e GeneratedEvent) OccurredAt() time.Time {
	return e.GeneratedAt
}

// StatusChangedEvent is raised when a plan is completed or cancelled
type StatusChangedEvent struct {
	PlanID    uuid.UUID
	UserID    uuid.UUID
	From      Status
	To        Status
	ChangedAt time.Time
}

func (e StatusChangedEvent) EventName() string {
	return "mealplan.status_changed"
}

func (e StatusChangedEvent) OccurredAt() time.Time {
	return e.ChangedAt
}
