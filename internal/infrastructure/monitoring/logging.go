package monitoring

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/nutriplan/backend/internal/domain/mealplan"
	"github.com/nutriplan/backend/internal/domain/nutrition"
	"github.com/nutriplan/backend/internal/domain/recipe"
	"github.com/nutriplan/backend/internal/domain/shared"
	"go.uber.org/zap"
)

type contextKey string

const (
	requestIDKey contextKey = "request_id"
	userIDKey    contextKey = "user_id"
)

// WithRequestID stores the request id for log correlation
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// RequestIDFromContext returns the request id, or ""
func RequestIDFromContext(ctx context.Context) string {
	if requestID, ok := ctx.Value(requestIDKey).(string); ok {
		return requestID
	}
	return ""
}

// WithUserID stores the authenticated user
func WithUserID(ctx context.Context, userID uuid.UUID) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// UserIDFromContext returns the authenticated user
func UserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	userID, ok := ctx.Value(userIDKey).(uuid.UUID)
	return userID, ok
}

// WithContext adds all available correlation fields to logger
func WithContext(ctx context.Context, logger *zap.Logger) *zap.Logger {
	if traceID := TraceIDFromContext(ctx); traceID != "" {
		logger = logger.With(zap.String("trace_id", traceID))
	}
	if requestID := RequestIDFromContext(ctx); requestID != "" {
		logger = logger.With(zap.String("request_id", requestID))
	}
	if userID, ok := UserIDFromContext(ctx); ok {
		logger = logger.With(zap.String("user_id", userID.String()))
	}
	return logger
}

// HTTPRequestLogger logs HTTP request details
func HTTPRequestLogger(ctx context.Context, logger *zap.Logger, method, path, clientIP string, statusCode int, duration time.Duration, size int) {
	logger = WithContext(ctx, logger)

	fields := []zap.Field{
		zap.String("method", method),
		zap.String("path", path),
		zap.String("client_ip", clientIP),
		zap.Int("status_code", statusCode),
		zap.Duration("duration", duration),
		zap.Int("response_size", size),
	}

	if statusCode >= 500 {
		logger.Error("HTTP request completed with server error", fields...)
	} else if statusCode >= 400 {
		logger.Warn("HTTP request completed with client error", fields...)
	} else {
		logger.Info("HTTP request completed", fields...)
	}
}

// BusinessEventLogger returns an event handler that logs domain events
func BusinessEventLogger(logger *zap.Logger) shared.EventHandler {
	logger = logger.Named("events")
	return func(ctx context.Context, event shared.DomainEvent) error {
		fields := []zap.Field{
			zap.String("event", event.EventName()),
			zap.Time("occurred_at", event.OccurredAt()),
		}

		switch e := event.(type) {
		case mealplan.GeneratedEvent:
			fields = append(fields,
				zap.String("plan_id", e.PlanID.String()),
				zap.Int("duration_days", e.DurationDays),
				zap.Int("candidates", e.Candidates),
			)
		case mealplan.StatusChangedEvent:
			fields = append(fields,
				zap.String("plan_id", e.PlanID.String()),
				zap.String("from", string(e.From)),
				zap.String("to", string(e.To)),
			)
		case nutrition.MealLoggedEvent:
			fields = append(fields,
				zap.String("log_id", e.LogID.String()),
				zap.String("meal_type", string(e.MealType)),
				zap.Float64("calories", e.Calories),
			)
		case recipe.CreatedEvent:
			fields = append(fields, zap.String("recipe_id", e.RecipeID.String()))
		case recipe.ModeratedEvent:
			fields = append(fields,
				zap.String("recipe_id", e.RecipeID.String()),
				zap.String("status", string(e.Status)),
			)
		}

		WithContext(ctx, logger).Info("Business event occurred", fields...)
		return nil
	}
}
