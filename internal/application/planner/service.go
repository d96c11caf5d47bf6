// Package planner provides the meal plan use cases
package planner

import (
	"context"

	"github.com/google/uuid"
	"github.com/nutriplan/backend/internal/domain/mealplan"
	"github.com/nutriplan/backend/internal/domain/shared"
	"github.com/nutriplan/backend/internal/infrastructure/monitoring"
	"github.com/nutriplan/backend/internal/ports/inbound"
	"github.com/nutriplan/backend/internal/ports/outbound"
	"github.com/nutriplan/backend/pkg/errors"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// FailureRecorder counts rejected generations
type FailureRecorder interface {
	RecordPlanFailure(code string)
}

// PlannerService implements the planner use cases
type PlannerService struct {
	profiles  outbound.ProfileRepository
	recipes   outbound.RecipeRepository
	plans     outbound.MealPlanRepository
	generator *mealplan.Generator
	events    outbound.EventPublisher
	failures  FailureRecorder
	logger    *zap.Logger
}

// NewPlannerService creates a new planner service
func NewPlannerService(
	profiles outbound.ProfileRepository,
	recipes outbound.RecipeRepository,
	plans outbound.MealPlanRepository,
	generator *mealplan.Generator,
	events outbound.EventPublisher,
	failures FailureRecorder,
	logger *zap.Logger,
) inbound.PlannerService {
	return &PlannerService{
		profiles:  profiles,
		recipes:   recipes,
		plans:     plans,
		generator: generator,
		events:    events,
		failures:  failures,
		logger:    logger.Named("planner-service"),
	}
}

// GeneratePlan builds a plan from the user's targets and persists it in one write
func (s *PlannerService) GeneratePlan(ctx context.Context, cmd inbound.GeneratePlanCommand) (plan *mealplan.MealPlan, err error) {
	ctx, span := monitoring.StartSpan(ctx, "planner.GeneratePlan",
		attribute.String("user.id", cmd.UserID.String()),
		attribute.Int("plan.duration_days", cmd.DurationDays),
	)
	defer func() { monitoring.EndSpan(span, err) }()

	p, err := s.profiles.FindByUserID(ctx, cmd.UserID)
	if err != nil {
		if errors.Is(err, errors.CodeNotFound) {
			return nil, s.rejected(errors.NewProfileIncompleteError())
		}
		return nil, err
	}

	if cmd.StartDate != nil {
		plan, err = s.generator.GenerateFrom(ctx, *cmd.StartDate, *p, cmd.DurationDays, cmd.Preferences, s.recipes)
	} else {
		plan, err = s.generator.Generate(ctx, *p, cmd.DurationDays, cmd.Preferences, s.recipes)
	}
	if err != nil {
		return nil, s.rejected(err)
	}

	if err := s.plans.Create(ctx, plan); err != nil {
		return nil, err
	}

	s.publish(ctx, plan.Events())
	s.logger.Info("Meal plan generated",
		zap.String("plan_id", plan.ID.String()),
		zap.String("user_id", plan.UserID.String()),
		zap.Int("duration_days", plan.DurationDays),
		zap.Float64("average_daily_calories", plan.NutritionSummary.AverageDailyCalories),
		zap.Float64("target_calories", p.Targets.DailyCalories),
	)
	return plan, nil
}

func (s *PlannerService) rejected(err error) error {
	code := errors.GetCode(err)
	s.failures.RecordPlanFailure(string(code))
	s.logger.Info("Meal plan generation rejected", zap.String("code", string(code)), zap.Error(err))
	return err
}

// GetPlan returns a plan owned by the user
func (s *PlannerService) GetPlan(ctx context.Context, ref inbound.PlanRef) (*mealplan.MealPlan, error) {
	return s.load(ctx, ref)
}

// ListPlans pages through a user's plans, newest first
func (s *PlannerService) ListPlans(ctx context.Context, userID uuid.UUID, params inbound.PaginationParams) (*inbound.MealPlanList, error) {
	offset, limit := params.Normalize()
	plans, total, err := s.plans.FindByUserID(ctx, userID, offset, limit)
	if err != nil {
		return nil, err
	}
	return &inbound.MealPlanList{Plans: plans, Total: total, Page: offset/limit + 1, PageSize: limit}, nil
}

// MarkMealConsumed toggles a slot and recomputes completion
func (s *PlannerService) MarkMealConsumed(ctx context.Context, cmd inbound.MarkMealCommand) (*mealplan.MealPlan, error) {
	return s.mutate(ctx, cmd.PlanRef, func(p *mealplan.MealPlan) error {
		return p.MarkConsumed(cmd.Ref(), cmd.Consumed)
	})
}

// RateMeal leaves feedback on a slot
func (s *PlannerService) RateMeal(ctx context.Context, cmd inbound.RateMealCommand) (*mealplan.MealPlan, error) {
	return s.mutate(ctx, cmd.PlanRef, func(p *mealplan.MealPlan) error {
		return p.Rate(cmd.Ref(), cmd.Rating, cmd.Comment)
	})
}

// ScheduleMeal sets a slot time
func (s *PlannerService) ScheduleMeal(ctx context.Context, cmd inbound.ScheduleMealCommand) (*mealplan.MealPlan, error) {
	return s.mutate(ctx, cmd.PlanRef, func(p *mealplan.MealPlan) error {
		return p.Schedule(cmd.Ref(), cmd.Time)
	})
}

// SetDayNotes replaces a day's notes
func (s *PlannerService) SetDayNotes(ctx context.Context, cmd inbound.DayNotesCommand) (*mealplan.MealPlan, error) {
	return s.mutate(ctx, cmd.PlanRef, func(p *mealplan.MealPlan) error {
		return p.SetNotes(cmd.DayNumber, cmd.Notes)
	})
}

// SetStatus completes or cancels an active plan
func (s *PlannerService) SetStatus(ctx context.Context, ref inbound.PlanRef, status mealplan.Status) (*mealplan.MealPlan, error) {
	return s.mutate(ctx, ref, func(p *mealplan.MealPlan) error {
		return p.SetStatus(status)
	})
}

// GetGroceryList returns the plan's consolidated list
func (s *PlannerService) GetGroceryList(ctx context.Context, ref inbound.PlanRef) ([]mealplan.GroceryLine, error) {
	plan, err := s.load(ctx, ref)
	if err != nil {
		return nil, err
	}
	return plan.GroceryList, nil
}

// SetGroceryPurchased toggles a line of the plan's list
func (s *PlannerService) SetGroceryPurchased(ctx context.Context, ref inbound.PlanRef, ingredient string, purchased bool) ([]mealplan.GroceryLine, error) {
	plan, err := s.mutate(ctx, ref, func(p *mealplan.MealPlan) error {
		return p.SetPurchased(ingredient, purchased)
	})
	if err != nil {
		return nil, err
	}
	return plan.GroceryList, nil
}

func (s *PlannerService) load(ctx context.Context, ref inbound.PlanRef) (*mealplan.MealPlan, error) {
	plan, err := s.plans.FindByID(ctx, ref.PlanID)
	if err != nil {
		return nil, err
	}
	if plan.UserID != ref.UserID {
		return nil, errors.NewForbiddenError("meal plan belongs to another user")
	}
	return plan, nil
}

// mutate loads, changes and saves a plan. The domain method recomputes the
// derived fields before the write.
func (s *PlannerService) mutate(ctx context.Context, ref inbound.PlanRef, change func(*mealplan.MealPlan) error) (*mealplan.MealPlan, error) {
	plan, err := s.load(ctx, ref)
	if err != nil {
		return nil, err
	}
	if err := change(plan); err != nil {
		return nil, err
	}
	if err := s.plans.Update(ctx, plan); err != nil {
		return nil, err
	}
	s.publish(ctx, plan.Events())
	return plan, nil
}

func (s *PlannerService) publish(ctx context.Context, events []shared.DomainEvent) {
	if len(events) == 0 {
		return
	}
	if err := s.events.Publish(ctx, events...); err != nil {
		s.logger.Error("Failed to publish events", zap.Error(err))
	}
}
