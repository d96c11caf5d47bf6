package profile

import (
	"context"
	"testing"

	"github.com/google/uuid"
	domain "github.com/nutriplan/backend/internal/domain/profile"
	"github.com/nutriplan/backend/internal/ports/inbound"
	"github.com/nutriplan/backend/pkg/errors"
	"github.com/nutriplan/backend/test/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func ptr[T any](v T) *T { return &v }

func referenceCommand(userID uuid.UUID) inbound.UpdateProfileCommand {
	return inbound.UpdateProfileCommand{
		UserID:        userID,
		Age:           ptr(30),
		Gender:        ptr("male"),
		HeightCm:      ptr(180.0),
		WeightKg:      ptr(80.0),
		Goal:          ptr("maintenance"),
		ActivityLevel: ptr("sedentary"),
	}
}

func TestUpdateProfileCreatesMissingProfile(t *testing.T) {
	repo := new(testutils.MockProfileRepository)
	svc := NewProfileService(repo, zaptest.NewLogger(t))
	userID := uuid.New()

	repo.On("FindByUserID", mock.Anything, userID).Return(nil, errors.NewNotFoundError("profile", userID.String()))
	repo.On("Save", mock.Anything, mock.AnythingOfType("*profile.Profile")).Return(nil)

	p, err := svc.UpdateProfile(context.Background(), referenceCommand(userID))

	require.NoError(t, err)
	assert.Equal(t, userID, p.UserID)
	assert.Equal(t, 2136.0, p.Targets.DailyCalories)
	assert.Equal(t, 134.0, p.Targets.ProteinG)
	assert.Equal(t, domain.DietNone, p.DietaryPreference)
	repo.AssertExpectations(t)
}

func TestUpdateProfileKeepsTargetsWhenOnlyDietChanges(t *testing.T) {
	repo := new(testutils.MockProfileRepository)
	svc := NewProfileService(repo, zaptest.NewLogger(t))
	existing := testutils.NewCompleteProfile(uuid.New())
	before := existing.Targets

	repo.On("FindByUserID", mock.Anything, existing.UserID).Return(existing, nil)
	repo.On("Save", mock.Anything, existing).Return(nil)

	p, err := svc.UpdateProfile(context.Background(), inbound.UpdateProfileCommand{
		UserID:            existing.UserID,
		DietaryPreference: ptr("Vegan"),
		Allergies:         &[]string{"peanut"},
	})

	require.NoError(t, err)
	assert.Equal(t, domain.DietVegan, p.DietaryPreference)
	assert.Equal(t, []string{"peanut"}, p.Allergies)
	assert.Equal(t, before, p.Targets)
}

func TestUpdateProfileRecomputesOnWeightChange(t *testing.T) {
	repo := new(testutils.MockProfileRepository)
	svc := NewProfileService(repo, zaptest.NewLogger(t))
	userID := uuid.New()
	existing := &domain.Profile{UserID: userID}
	_, err := existing.ApplyMetrics(referenceCommand(userID).Metrics())
	require.NoError(t, err)

	repo.On("FindByUserID", mock.Anything, userID).Return(existing, nil)
	repo.On("Save", mock.Anything, existing).Return(nil)

	p, err := svc.UpdateProfile(context.Background(), inbound.UpdateProfileCommand{UserID: userID, WeightKg: ptr(70.0)})

	require.NoError(t, err)
	// BMR drops by 100 kcal, times the sedentary multiplier
	assert.Equal(t, 2016.0, p.Targets.DailyCalories)
}

func TestUpdateProfileRejectsInvalidInput(t *testing.T) {
	repo := new(testutils.MockProfileRepository)
	svc := NewProfileService(repo, zaptest.NewLogger(t))
	existing := testutils.NewCompleteProfile(uuid.New())

	repo.On("FindByUserID", mock.Anything, existing.UserID).Return(existing, nil)

	_, err := svc.UpdateProfile(context.Background(), inbound.UpdateProfileCommand{
		UserID:            existing.UserID,
		DietaryPreference: ptr("carnivore"),
	})
	assert.True(t, errors.Is(err, errors.CodeInvalidInput))

	_, err = svc.UpdateProfile(context.Background(), inbound.UpdateProfileCommand{
		UserID: existing.UserID,
		Age:    ptr(0),
	})
	assert.True(t, errors.Is(err, errors.CodeInvalidInput))

	repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestGetTargets(t *testing.T) {
	repo := new(testutils.MockProfileRepository)
	svc := NewProfileService(repo, zaptest.NewLogger(t))
	missing := uuid.New()
	complete := testutils.NewCompleteProfile(uuid.New())

	repo.On("FindByUserID", mock.Anything, missing).Return(nil, errors.NewNotFoundError("profile", missing.String()))
	repo.On("FindByUserID", mock.Anything, complete.UserID).Return(complete, nil)

	_, err := svc.GetTargets(context.Background(), missing)
	assert.True(t, errors.Is(err, errors.CodeProfileIncomplete))

	targets, err := svc.GetTargets(context.Background(), complete.UserID)
	require.NoError(t, err)
	assert.Equal(t, complete.Targets, targets.MacroTargets())
	assert.Greater(t, targets.BMI, 0.0)
}

func TestUpdateProfileSavesPreferencesBeforeMetrics(t *testing.T) {
	repo := new(testutils.MockProfileRepository)
	svc := NewProfileService(repo, zaptest.NewLogger(t))
	userID := uuid.New()

	repo.On("FindByUserID", mock.Anything, userID).Return(nil, errors.NewNotFoundError("profile", userID.String()))
	repo.On("Save", mock.Anything, mock.AnythingOfType("*profile.Profile")).Return(nil)

	p, err := svc.UpdateProfile(context.Background(), inbound.UpdateProfileCommand{
		UserID:            userID,
		DietaryPreference: ptr("vegetarian"),
		Allergies:         &[]string{"shellfish"},
	})

	require.NoError(t, err)
	assert.Equal(t, domain.DietVegetarian, p.DietaryPreference)
	assert.Equal(t, []string{"shellfish"}, p.Allergies)
	assert.False(t, p.Targets.IsSet())
	repo.AssertExpectations(t)
}

func TestGetTargetsForProfileWithoutMetrics(t *testing.T) {
	repo := new(testutils.MockProfileRepository)
	svc := NewProfileService(repo, zaptest.NewLogger(t))
	partial := &domain.Profile{UserID: uuid.New(), DietaryPreference: domain.DietVegan}

	repo.On("FindByUserID", mock.Anything, partial.UserID).Return(partial, nil)

	_, err := svc.GetTargets(context.Background(), partial.UserID)

	assert.True(t, errors.Is(err, errors.CodeProfileIncomplete))
}
