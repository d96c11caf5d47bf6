// Package tracker provides the nutrition journal use cases
package tracker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nutriplan/backend/internal/domain/nutrition"
	"github.com/nutriplan/backend/internal/domain/profile"
	"github.com/nutriplan/backend/internal/domain/recipe"
	"github.com/nutriplan/backend/internal/domain/shared"
	"github.com/nutriplan/backend/internal/infrastructure/monitoring"
	"github.com/nutriplan/backend/internal/ports/inbound"
	"github.com/nutriplan/backend/internal/ports/outbound"
	"github.com/nutriplan/backend/pkg/errors"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// MaxRangeDays bounds GetRange queries
const MaxRangeDays = 92

// CacheRecorder counts weekly summary cache lookups
type CacheRecorder interface {
	RecordCacheOperation(operation, result string)
}

// Config holds tracker settings
type Config struct {
	DefaultTargets  profile.MacroTargets
	SummaryCacheTTL time.Duration
}

// TrackerService implements the tracker use cases
type TrackerService struct {
	logs     outbound.NutritionLogRepository
	profiles outbound.ProfileRepository
	recipes  outbound.RecipeRepository
	cache    outbound.CacheRepository
	events   outbound.EventPublisher
	metrics  CacheRecorder
	config   Config
	now      func() time.Time
	logger   *zap.Logger
}

// NewTrackerService creates a new tracker service
func NewTrackerService(
	logs outbound.NutritionLogRepository,
	profiles outbound.ProfileRepository,
	recipes outbound.RecipeRepository,
	cache outbound.CacheRepository,
	events outbound.EventPublisher,
	metrics CacheRecorder,
	config Config,
	logger *zap.Logger,
) *TrackerService {
	if !config.DefaultTargets.IsSet() {
		config.DefaultTargets = nutrition.DefaultTargets
	}
	return &TrackerService{
		logs:     logs,
		profiles: profiles,
		recipes:  recipes,
		cache:    cache,
		events:   events,
		metrics:  metrics,
		config:   config,
		now:      time.Now,
		logger:   logger.Named("tracker-service"),
	}
}

var _ inbound.TrackerService = (*TrackerService)(nil)

// GetToday returns today's (UTC) log, creating it if needed
func (s *TrackerService) GetToday(ctx context.Context, userID uuid.UUID) (*inbound.DailyLogView, error) {
	return s.GetDay(ctx, userID, s.now())
}

// GetDay returns the log for a date, creating it if needed
func (s *TrackerService) GetDay(ctx context.Context, userID uuid.UUID, date time.Time) (*inbound.DailyLogView, error) {
	log, err := s.getOrCreateDay(ctx, userID, date)
	if err != nil {
		return nil, err
	}
	return view(log), nil
}

// GetRange returns the existing logs between two dates, inclusive
func (s *TrackerService) GetRange(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]*nutrition.Log, error) {
	from, to = shared.Day(from), shared.Day(to)
	if to.Before(from) {
		return nil, errors.NewInvalidInputError("end_date", "must not be before start_date")
	}
	if to.Sub(from) > MaxRangeDays*24*time.Hour {
		return nil, errors.NewInvalidInputError("end_date", fmt.Sprintf("range must not exceed %d days", MaxRangeDays))
	}
	return s.logs.FindRange(ctx, userID, from, to)
}

// LogMeal appends a meal to the day's log
func (s *TrackerService) LogMeal(ctx context.Context, cmd inbound.LogMealCommand) (v *inbound.DailyLogView, err error) {
	ctx, span := monitoring.StartSpan(ctx, "tracker.LogMeal",
		attribute.String("user.id", cmd.UserID.String()),
		attribute.String("meal.type", cmd.MealType),
	)
	defer func() { monitoring.EndSpan(span, err) }()

	src := cmd.Source()
	if err := src.Validate(); err != nil {
		return nil, err
	}

	lookup := recipe.NewIndex()
	if src.RecipeID != nil {
		r, err := s.recipes.FindByID(ctx, *src.RecipeID)
		if err != nil {
			return nil, err
		}
		lookup = recipe.NewIndex(r)
	}

	date := s.now()
	if cmd.Date != nil {
		date = *cmd.Date
	}
	log, err := s.getOrCreateDay(ctx, cmd.UserID, date)
	if err != nil {
		return nil, err
	}

	entry := nutrition.MealEntry{
		MealType: nutrition.MealType(cmd.MealType),
		Source:   src,
		Notes:    cmd.Notes,
	}
	if cmd.ConsumedAt != nil {
		entry.ConsumedAt = *cmd.ConsumedAt
	}
	meal, err := log.LogMeal(entry, lookup)
	if err != nil {
		return nil, err
	}

	if err := s.save(ctx, log); err != nil {
		return nil, err
	}

	s.logger.Info("Meal logged",
		zap.String("user_id", cmd.UserID.String()),
		zap.Time("date", log.Date),
		zap.String("meal_type", string(meal.MealType)),
		zap.Float64("calories", meal.Nutrition.Calories),
		zap.Float64("day_calories", log.DailySummary.Calories),
	)
	return view(log), nil
}

// RemoveMeal deletes a logged meal
func (s *TrackerService) RemoveMeal(ctx context.Context, userID uuid.UUID, date time.Time, mealID uuid.UUID) (*inbound.DailyLogView, error) {
	log, err := s.logs.FindByDate(ctx, userID, shared.Day(date))
	if err != nil {
		return nil, err
	}
	if err := log.RemoveMeal(mealID); err != nil {
		return nil, err
	}
	if err := s.save(ctx, log); err != nil {
		return nil, err
	}
	return view(log), nil
}

// UpdateWaterIntake sets the day's water intake
func (s *TrackerService) UpdateWaterIntake(ctx context.Context, userID uuid.UUID, date time.Time, amountMl float64) (*inbound.DailyLogView, error) {
	if amountMl < 0 {
		return nil, errors.NewInvalidInputError("amount_ml", "cannot be negative")
	}
	log, err := s.getOrCreateDay(ctx, userID, date)
	if err != nil {
		return nil, err
	}
	if err := log.UpdateWaterIntake(amountMl); err != nil {
		return nil, err
	}
	if err := s.save(ctx, log); err != nil {
		return nil, err
	}
	return view(log), nil
}

// GetWeeklySummary rolls up the Monday-based week containing weekStart.
// Summaries are cached until a log of that week changes.
func (s *TrackerService) GetWeeklySummary(ctx context.Context, userID uuid.UUID, weekStart time.Time) (ws *nutrition.WeeklySummary, err error) {
	start, end := nutrition.WeekWindow(weekStart)
	ctx, span := monitoring.StartSpan(ctx, "tracker.GetWeeklySummary",
		attribute.String("user.id", userID.String()),
		attribute.String("week.start", start.Format(time.DateOnly)),
	)
	defer func() { monitoring.EndSpan(span, err) }()

	key := weeklyKey(userID, start)
	if cached, ok := s.cachedSummary(ctx, key); ok {
		return cached, nil
	}

	logs, err := s.logs.FindRange(ctx, userID, start, end)
	if err != nil {
		return nil, err
	}
	summary := nutrition.Summarize(userID, start, logs)

	if data, err := json.Marshal(summary); err == nil {
		if err := s.cache.Set(ctx, key, data, s.config.SummaryCacheTTL); err != nil {
			s.logger.Warn("Failed to cache weekly summary", zap.String("key", key), zap.Error(err))
		}
	}
	return &summary, nil
}

func (s *TrackerService) cachedSummary(ctx context.Context, key string) (*nutrition.WeeklySummary, bool) {
	data, err := s.cache.Get(ctx, key)
	if err != nil {
		result := "miss"
		if err != outbound.ErrCacheMiss {
			result = "error"
			s.logger.Warn("Weekly summary cache lookup failed", zap.String("key", key), zap.Error(err))
		}
		s.metrics.RecordCacheOperation("weekly_summary", result)
		return nil, false
	}

	var summary nutrition.WeeklySummary
	if err := json.Unmarshal(data, &summary); err != nil {
		s.metrics.RecordCacheOperation("weekly_summary", "error")
		return nil, false
	}
	s.metrics.RecordCacheOperation("weekly_summary", "hit")
	return &summary, true
}

// getOrCreateDay reads the day's log, opening it with the user's current
// targets when absent. The profile is only read on creation.
func (s *TrackerService) getOrCreateDay(ctx context.Context, userID uuid.UUID, date time.Time) (*nutrition.Log, error) {
	day := shared.Day(date)
	log, err := s.logs.FindByDate(ctx, userID, day)
	if err == nil {
		return log, nil
	}
	if !errors.Is(err, errors.CodeNotFound) {
		return nil, err
	}

	targets := s.config.DefaultTargets
	p, err := s.profiles.FindByUserID(ctx, userID)
	switch {
	case err == nil:
		targets = nutrition.SeedTargets(p.Targets, s.config.DefaultTargets)
	case !errors.Is(err, errors.CodeNotFound):
		return nil, err
	}

	return s.logs.GetOrCreate(ctx, userID, day, targets)
}

func (s *TrackerService) save(ctx context.Context, log *nutrition.Log) error {
	if err := s.logs.Save(ctx, log); err != nil {
		return err
	}

	start, _ := nutrition.WeekWindow(log.Date)
	if err := s.cache.Delete(ctx, weeklyKey(log.UserID, start)); err != nil {
		s.logger.Warn("Failed to invalidate weekly summary", zap.Error(err))
	}

	if events := log.Events(); len(events) > 0 {
		if err := s.events.Publish(ctx, events...); err != nil {
			s.logger.Error("Failed to publish events", zap.Error(err))
		}
	}
	return nil
}

func weeklyKey(userID uuid.UUID, weekStart time.Time) string {
	return fmt.Sprintf("nutrition:weekly:%s:%s", userID, weekStart.Format(time.DateOnly))
}

func view(log *nutrition.Log) *inbound.DailyLogView {
	return &inbound.DailyLogView{Log: log, Progress: log.Progress()}
}
