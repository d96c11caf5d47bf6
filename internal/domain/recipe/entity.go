// Package recipe contains the recipe catalog entry and its moderation lifecycle.
// Nutrition is computed from ingredients when a recipe is created or updated
// and is never recomputed lazily by readers.
package recipe

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nutriplan/backend/internal/domain/shared"
	apperrors "github.com/nutriplan/backend/pkg/errors"
)

// Status is the moderation state of a recipe
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// Difficulty of preparing a recipe
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Ingredient is one line of a recipe
type Ingredient struct {
	Name      string     `json:"name"`
	Quantity  float64    `json:"quantity"`
	Unit      string     `json:"unit,omitempty"`
	Category  string     `json:"category,omitempty"`
	Nutrition *Nutrition `json:"nutrition,omitempty"`
}

// Validate checks the ingredient name and quantity
func (i Ingredient) Validate() error {
	if strings.TrimSpace(i.Name) == "" {
		return apperrors.NewInvalidInputError("ingredients.name", "is required")
	}
	if i.Quantity < 0 {
		return apperrors.NewInvalidInputError("ingredients.quantity", "cannot be negative")
	}
	return nil
}

// Recipe is a catalog entry. Only approved recipes are eligible for meal
// plan generation and public listing.
type Recipe struct {
	shared.AggregateRoot

	ID              uuid.UUID    `json:"id"`
	Title           string       `json:"title"`
	Description     string       `json:"description"`
	AuthorID        uuid.UUID    `json:"author_id"`
	Ingredients     []Ingredient `json:"ingredients"`
	Instructions    []string     `json:"instructions"`
	Nutrition       Nutrition    `json:"nutrition"`
	DietaryTags     []string     `json:"dietary_tags"`
	Cuisine         string       `json:"cuisine"`
	PrepTimeMin     int          `json:"prep_time_min"`
	CookTimeMin     int          `json:"cook_time_min"`
	Servings        int          `json:"servings"`
	Difficulty      Difficulty   `json:"difficulty"`
	Status          Status       `json:"status"`
	RejectionReason string       `json:"rejection_reason,omitempty"`
	ModeratedBy     *uuid.UUID   `json:"moderated_by,omitempty"`
	CreatedAt       time.Time    `json:"created_at"`
	UpdatedAt       time.Time    `json:"updated_at"`
}

// Details are the author-editable fields of a recipe
type Details struct {
	Title        string
	Description  string
	Ingredients  []Ingredient
	Instructions []string
	DietaryTags  []string
	Cuisine      string
	PrepTimeMin  int
	CookTimeMin  int
	Servings     int
	Difficulty   Difficulty
}

// NewRecipe creates a pending recipe and computes its nutrition from the ingredients
func NewRecipe(authorID uuid.UUID, d Details) (*Recipe, error) {
	now := time.Now().UTC()
	r := &Recipe{
		ID:        uuid.New(),
		AuthorID:  authorID,
		Status:    StatusPending,
		CreatedAt: now,
	}
	if err := r.apply(d, now); err != nil {
		return nil, err
	}

	r.AddEvent(CreatedEvent{RecipeID: r.ID, AuthorID: authorID, Title: r.Title, CreatedAt: now})
	return r, nil
}

// Update replaces the editable fields. Any edit sends the recipe back to moderation.
func (r *Recipe) Update(d Details) error {
	now := time.Now().UTC()
	if err := r.apply(d, now); err != nil {
		return err
	}
	r.Status = StatusPending
	r.RejectionReason = ""
	r.ModeratedBy = nil
	return nil
}

// IsApproved reports whether the recipe passed moderation
func (r *Recipe) IsApproved() bool {
	return r.Status == StatusApproved
}

// HasTag reports whether the recipe carries the dietary tag (case-insensitive)
func (r *Recipe) HasTag(tag string) bool {
	for _, t := range r.DietaryTags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}

// ContainsIngredient reports whether an ingredient name matches exactly, ignoring case
func (r *Recipe) ContainsIngredient(name string) bool {
	name = strings.TrimSpace(name)
	for _, ing := range r.Ingredients {
		if strings.EqualFold(strings.TrimSpace(ing.Name), name) {
			return true
		}
	}
	return false
}

// Approve makes the recipe eligible for generation and public listing
func (r *Recipe) Approve(moderatorID uuid.UUID) error {
	if r.Status == StatusApproved {
		return apperrors.NewConflictError("recipe is already approved")
	}
	now := time.Now().UTC()
	r.Status = StatusApproved
	r.RejectionReason = ""
	r.ModeratedBy = &moderatorID
	r.UpdatedAt = now

	r.AddEvent(ModeratedEvent{RecipeID: r.ID, Status: r.Status, ModeratedAt: now})
	return nil
}

// Reject records a moderation rejection with a reason
func (r *Recipe) Reject(moderatorID uuid.UUID, reason string) error {
	if strings.TrimSpace(reason) == "" {
		return apperrors.NewInvalidInputError("reason", "is required")
	}
	now := time.Now().UTC()
	r.Status = StatusRejected
	r.RejectionReason = reason
	r.ModeratedBy = &moderatorID
	r.UpdatedAt = now

	r.AddEvent(ModeratedEvent{RecipeID: r.ID, Status: r.Status, ModeratedAt: now})
	return nil
}

func (r *Recipe) apply(d Details, now time.Time) error {
	if err := validateTitle(d.Title); err != nil {
		return err
	}
	if len(d.Description) > 2000 {
		return apperrors.NewInvalidInputError("description", "must not exceed 2000 characters")
	}
	if len(d.Ingredients) == 0 {
		return apperrors.NewInvalidInputError("ingredients", "must contain at least one ingredient")
	}
	for _, ing := range d.Ingredients {
		if err := ing.Validate(); err != nil {
			return err
		}
	}
	if d.PrepTimeMin < 0 {
		return apperrors.NewInvalidInputError("prep_time_min", "cannot be negative")
	}
	if d.CookTimeMin < 0 {
		return apperrors.NewInvalidInputError("cook_time_min", "cannot be negative")
	}

	servings := d.Servings
	if servings <= 0 {
		servings = 1
	}
	difficulty := d.Difficulty
	if difficulty == "" {
		difficulty = DifficultyMedium
	}

	r.Title = strings.TrimSpace(d.Title)
	r.Description = d.Description
	r.Ingredients = d.Ingredients
	r.Instructions = d.Instructions
	r.DietaryTags = normalizeTags(d.DietaryTags)
	r.Cuisine = strings.ToLower(strings.TrimSpace(d.Cuisine))
	r.PrepTimeMin = d.PrepTimeMin
	r.CookTimeMin = d.CookTimeMin
	r.Servings = servings
	r.Difficulty = difficulty
	r.Nutrition = SumIngredients(d.Ingredients).Rounded()
	r.UpdatedAt = now
	return nil
}

func validateTitle(title string) error {
	title = strings.TrimSpace(title)
	if len(title) < 3 {
		return apperrors.NewInvalidInputError("title", "must be at least 3 characters")
	}
	if len(title) > 200 {
		return apperrors.NewInvalidInputError("title", "must not exceed 200 characters")
	}
	return nil
}

func normalizeTags(tags []string) []string {
	seen := make(map[string]bool, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}
