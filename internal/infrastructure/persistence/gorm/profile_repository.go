// Package gorm provides GORM-based repository implementations
package gorm

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/nutriplan/backend/internal/domain/profile"
	"github.com/nutriplan/backend/internal/ports/outbound"
	apperrors "github.com/nutriplan/backend/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProfileRepository implements the profile repository interface using GORM
type ProfileRepository struct {
	db *gorm.DB
}

// NewProfileRepository creates a new profile repository
func NewProfileRepository(db *gorm.DB) outbound.ProfileRepository {
	return &ProfileRepository{db: db}
}

// FindByUserID finds the profile of a user
func (r *ProfileRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*profile.Profile, error) {
	var model ProfileModel

	result := r.db.WithContext(ctx).First(&model, "user_id = ?", userID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFoundError("profile", userID.String())
		}
		return nil, apperrors.NewDatabaseError("find profile", result.Error)
	}

	return ModelToProfile(&model), nil
}

// Save inserts or replaces the profile, keeping the original creation time
func (r *ProfileRepository) Save(ctx context.Context, p *profile.Profile) error {
	model := ProfileToModel(p)

	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			UpdateAll: true,
		}).
		Create(model)
	if result.Error != nil {
		return apperrors.NewDatabaseError("save profile", result.Error)
	}

	return nil
}
