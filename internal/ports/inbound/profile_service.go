package inbound

import (
	"context"

	"github.com/google/uuid"
	"github.com/nutriplan/backend/internal/domain/profile"
)

// ProfileService manages user profiles and their derived targets
type ProfileService interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*profile.Profile, error)
	UpdateProfile(ctx context.Context, cmd UpdateProfileCommand) (*profile.Profile, error)
	GetTargets(ctx context.Context, userID uuid.UUID) (*profile.Targets, error)
}

// UpdateProfileCommand carries the fields a user may change. Nil fields are
// left untouched.
type UpdateProfileCommand struct {
	UserID            uuid.UUID `json:"-"`
	Age               *int      `json:"age" validate:"omitempty,min=1,max=120"`
	Gender            *string   `json:"gender" validate:"omitempty,oneof=male female other"`
	HeightCm          *float64  `json:"height_cm" validate:"omitempty,min=50,max=250"`
	WeightKg          *float64  `json:"weight_kg" validate:"omitempty,min=20,max=300"`
	Goal              *string   `json:"goal" validate:"omitempty,oneof=weight_loss maintenance muscle_gain"`
	ActivityLevel     *string   `json:"activity_level" validate:"omitempty,oneof=sedentary light moderate active very_active"`
	DietaryPreference *string   `json:"dietary_preference" validate:"omitempty,oneof=vegetarian non-vegetarian vegan gluten-free none"`
	Allergies         *[]string `json:"allergies"`
	Restrictions      *[]string `json:"restrictions"`
}

// Metrics extracts the calculator inputs of the command
func (c UpdateProfileCommand) Metrics() profile.Metrics {
	m := profile.Metrics{
		Age:      c.Age,
		HeightCm: c.HeightCm,
		WeightKg: c.WeightKg,
	}
	if c.Gender != nil {
		g := profile.Gender(*c.Gender)
		m.Gender = &g
	}
	if c.Goal != nil {
		g := profile.Goal(*c.Goal)
		m.Goal = &g
	}
	if c.ActivityLevel != nil {
		a := profile.ActivityLevel(*c.ActivityLevel)
		m.ActivityLevel = &a
	}
	return m
}
