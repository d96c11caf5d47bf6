package nutrition

import (
	"time"

	"github.com/google/uuid"
)

// MealLoggedEvent is raised for every meal added to a log
type MealLoggedEvent struct {
	LogID    uuid.UUID
	UserID   uuid.UUID
	Date     time.Time
	MealType MealType
	Calories float64
	LoggedAt time.Time
}

func (e MealLoggedEvent) EventName() string {
	return "nutrition.meal_logged"
}

func (e MealLoggedEvent) OccurredAt() time.Time {
	return e.LoggedAt
}
