package gorm

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/nutriplan/backend/internal/domain/nutrition"
	"github.com/nutriplan/backend/internal/domain/profile"
	"github.com/nutriplan/backend/internal/domain/shared"
	"github.com/nutriplan/backend/internal/ports/outbound"
	apperrors "github.com/nutriplan/backend/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// NutritionLogRepository implements the nutrition log repository interface using GORM
type NutritionLogRepository struct {
	db *gorm.DB
}

// NewNutritionLogRepository creates a new nutrition log repository
func NewNutritionLogRepository(db *gorm.DB) outbound.NutritionLogRepository {
	return &NutritionLogRepository{db: db}
}

// GetOrCreate returns the user's log for the day. A missing row is inserted
// with the given targets; a concurrent insert loses to the unique
// (user_id, date) index and the winner's row is read back.
func (r *NutritionLogRepository) GetOrCreate(ctx context.Context, userID uuid.UUID, day time.Time, targets profile.MacroTargets) (*nutrition.Log, error) {
	day = shared.Day(day)

	var model NutritionLogModel
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("user_id = ? AND date = ?", userID, day).Limit(1).Find(&model)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected > 0 {
			return nil
		}

		seed := LogToModel(nutrition.NewLog(userID, day, targets))
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(seed).Error; err != nil {
			return err
		}
		return tx.Where("user_id = ? AND date = ?", userID, day).First(&model).Error
	})
	if err != nil {
		return nil, apperrors.NewDatabaseError("get or create nutrition log", err)
	}

	return ModelToLog(&model), nil
}

// FindByDate finds the user's log for the day
func (r *NutritionLogRepository) FindByDate(ctx context.Context, userID uuid.UUID, day time.Time) (*nutrition.Log, error) {
	day = shared.Day(day)

	var model NutritionLogModel
	result := r.db.WithContext(ctx).Where("user_id = ? AND date = ?", userID, day).First(&model)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFoundError("nutrition log", day.Format("2006-01-02"))
		}
		return nil, apperrors.NewDatabaseError("find nutrition log", result.Error)
	}

	return ModelToLog(&model), nil
}

// FindRange returns the logs between from and to inclusive, oldest first.
// Days without a log are absent from the result.
func (r *NutritionLogRepository) FindRange(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]*nutrition.Log, error) {
	var models []NutritionLogModel
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND date >= ? AND date <= ?", userID, shared.Day(from), shared.Day(to)).
		Order("date ASC").
		Find(&models)
	if result.Error != nil {
		return nil, apperrors.NewDatabaseError("find nutrition logs", result.Error)
	}

	logs := make([]*nutrition.Log, len(models))
	for i := range models {
		logs[i] = ModelToLog(&models[i])
	}
	return logs, nil
}

// Save persists the log's meals and derived fields
func (r *NutritionLogRepository) Save(ctx context.Context, log *nutrition.Log) error {
	result := r.db.WithContext(ctx).
		Model(&NutritionLogModel{ID: log.ID}).
		Select("meals", "daily_summary", "targets", "goals_met", "updated_at").
		Updates(LogToModel(log))
	if result.Error != nil {
		return apperrors.NewDatabaseError("save nutrition log", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.NewNotFoundError("nutrition log", log.ID.String())
	}
	return nil
}
