// Package profile provides the application layer for user profiles
package profile

import (
	"context"
	"strings"

	"github.com/google/uuid"
	domain "github.com/nutriplan/backend/internal/domain/profile"
	"github.com/nutriplan/backend/internal/infrastructure/monitoring"
	"github.com/nutriplan/backend/internal/ports/inbound"
	"github.com/nutriplan/backend/internal/ports/outbound"
	"github.com/nutriplan/backend/pkg/errors"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// ProfileService implements the profile use cases
type ProfileService struct {
	profiles outbound.ProfileRepository
	logger   *zap.Logger
}

// NewProfileService creates a new profile service
func NewProfileService(profiles outbound.ProfileRepository, logger *zap.Logger) inbound.ProfileService {
	return &ProfileService{
		profiles: profiles,
		logger:   logger.Named("profile-service"),
	}
}

// GetProfile returns the stored profile
func (s *ProfileService) GetProfile(ctx context.Context, userID uuid.UUID) (*domain.Profile, error) {
	return s.profiles.FindByUserID(ctx, userID)
}

// UpdateProfile applies the changed fields and recomputes targets when a
// calculator input changed. A user without a profile gets one created.
func (s *ProfileService) UpdateProfile(ctx context.Context, cmd inbound.UpdateProfileCommand) (p *domain.Profile, err error) {
	ctx, span := monitoring.StartSpan(ctx, "profile.UpdateProfile", attribute.String("user.id", cmd.UserID.String()))
	defer func() { monitoring.EndSpan(span, err) }()

	p, err = s.profiles.FindByUserID(ctx, cmd.UserID)
	if errors.Is(err, errors.CodeNotFound) {
		p, err = &domain.Profile{UserID: cmd.UserID, DietaryPreference: domain.DietNone}, nil
	}
	if err != nil {
		return nil, err
	}

	if cmd.DietaryPreference != nil {
		pref := domain.DietaryPreference(strings.ToLower(*cmd.DietaryPreference))
		if !pref.Valid() {
			return nil, errors.NewInvalidInputError("dietary_preference", "is not a known preference")
		}
		p.DietaryPreference = pref
	}
	if cmd.Allergies != nil {
		p.Allergies = *cmd.Allergies
	}
	if cmd.Restrictions != nil {
		p.Restrictions = *cmd.Restrictions
	}

	recomputed, err := p.ApplyMetrics(cmd.Metrics())
	if err != nil {
		return nil, err
	}

	if err := s.profiles.Save(ctx, p); err != nil {
		return nil, err
	}

	s.logger.Info("Profile updated",
		zap.String("user_id", p.UserID.String()),
		zap.Bool("targets_recomputed", recomputed),
		zap.Float64("daily_calories", p.Targets.DailyCalories),
	)
	return p, nil
}

// GetTargets returns the full calculator breakdown for the stored profile
func (s *ProfileService) GetTargets(ctx context.Context, userID uuid.UUID) (*domain.Targets, error) {
	p, err := s.profiles.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, errors.CodeNotFound) {
			return nil, errors.NewProfileIncompleteError()
		}
		return nil, err
	}
	if !p.Targets.IsSet() {
		return nil, errors.NewProfileIncompleteError()
	}

	targets, err := domain.ComputeTargets(*p)
	if err != nil {
		return nil, err
	}
	return &targets, nil
}
