package recipe

import (
	"time"

	"github.com/google/uuid"
)

// CreatedEvent is raised when a recipe is submitted
type CreatedEvent struct {
	RecipeID  uuid.UUID
	AuthorID  uuid.UUID
	Title     string
	CreatedAt time.Time
}

func (e CreatedEvent) EventName() string {
	return "recipe.created"
}

func (e CreatedEvent) OccurredAt() time.Time {
	return e.CreatedAt
}

// ModeratedEvent is raised when a moderator approves or rejects a recipe
type ModeratedEvent struct {
	RecipeID    uuid.UUID
	Status      Status
	ModeratedAt time.Time
}

func (e ModeratedEvent) EventName() string {
	return "recipe.moderated"
}

func (e ModeratedEvent) OccurredAt() time.Time {
	return e.ModeratedAt
}
