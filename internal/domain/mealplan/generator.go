package mealplan

import (
	"context"
	"encoding/binary"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nutriplan/backend/internal/domain/profile"
	"github.com/nutriplan/backend/internal/domain/recipe"
	apperrors "github.com/nutriplan/backend/pkg/errors"
)

const (
	DefaultCandidateLimit = 50
	DefaultMealsPerDay    = 4
)

// CandidateSource is the catalog query used by the generator. It must
// return at most limit recipes matching the criteria.
type CandidateSource interface {
	FindCandidates(ctx context.Context, criteria CandidateCriteria, limit int) ([]*recipe.Recipe, error)
}

// Generator turns a profile's targets and preferences into a draft plan
type Generator struct {
	candidateLimit int
	mealsPerDay    int
	maxDuration    int
	shuffle        func(n int, swap func(i, j int))
	seed           uint64
	now            func() time.Time
}

// Option configures a Generator
type Option func(*Generator)

// WithRand draws every plan from r. Access to r is serialized since
// rand.Rand is not safe for concurrent use.
func WithRand(r *rand.Rand) Option {
	return func(g *Generator) {
		if r == nil {
			return
		}
		var mu sync.Mutex
		g.shuffle = func(n int, swap func(i, j int)) {
			mu.Lock()
			defer mu.Unlock()
			r.Shuffle(n, swap)
		}
	}
}

// WithSeed makes generation reproducible: the same seed, user and start day
// always yield the same plan. Each generation gets its own source.
func WithSeed(seed uint64) Option {
	return func(g *Generator) {
		g.seed = seed
	}
}

// WithCandidateLimit caps the candidate pool
func WithCandidateLimit(n int) Option {
	return func(g *Generator) {
		if n > 0 {
			g.candidateLimit = n
		}
	}
}

// WithMealsPerDay sets how many recipes are drawn per day, bounded by the
// number of meal categories
func WithMealsPerDay(n int) Option {
	return func(g *Generator) {
		if n > 0 && n <= len(MealCategories) {
			g.mealsPerDay = n
		}
	}
}

// WithMaxDuration lowers the longest plan that may be generated
func WithMaxDuration(days int) Option {
	return func(g *Generator) {
		if days >= MinDurationDays && days <= MaxDurationDays {
			g.maxDuration = days
		}
	}
}

// WithClock overrides the clock used for the default start date
func WithClock(now func() time.Time) Option {
	return func(g *Generator) {
		if now != nil {
			g.now = now
		}
	}
}

// NewGenerator creates a generator. Selection uses the goroutine-safe
// package-level random source unless WithRand or WithSeed is given.
func NewGenerator(opts ...Option) *Generator {
	g := &Generator{
		candidateLimit: DefaultCandidateLimit,
		mealsPerDay:    DefaultMealsPerDay,
		maxDuration:    MaxDurationDays,
		shuffle:        rand.Shuffle,
		now:            time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate builds a plan starting today (UTC)
func (g *Generator) Generate(ctx context.Context, p profile.Profile, durationDays int, prefs Preferences, src CandidateSource) (*MealPlan, error) {
	return g.GenerateFrom(ctx, g.now(), p, durationDays, prefs, src)
}

// GenerateFrom builds a draft plan whose first day is start. The draft is
// not persisted; the caller saves it in one write.
func (g *Generator) GenerateFrom(ctx context.Context, start time.Time, p profile.Profile, durationDays int, prefs Preferences, src CandidateSource) (*MealPlan, error) {
	if !p.Targets.IsSet() {
		return nil, apperrors.NewProfileIncompleteError()
	}
	if durationDays < MinDurationDays || durationDays > g.maxDuration {
		return nil, apperrors.NewInvalidInputError("duration_days", "is out of range")
	}

	plan, err := NewMealPlan(p.UserID, durationDays, start, prefs)
	if err != nil {
		return nil, err
	}

	criteria := BuildCriteria(p, prefs)
	found, err := src.FindCandidates(ctx, criteria, g.candidateLimit)
	if err != nil {
		return nil, err
	}
	pool := criteria.Filter(found, g.candidateLimit)
	if len(pool) == 0 {
		return nil, apperrors.NewNoMatchingRecipesError()
	}

	index := recipe.NewIndex(pool...)
	shuffle := g.shufflerFor(plan.UserID, plan.StartDate)
	for i := range plan.Days {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		fillDay(&plan.Days[i], pool, g.mealsPerDay, shuffle)
		plan.Days[i].RecomputeNutrition(index)
	}

	plan.Recompute()
	plan.GroceryList = Consolidate(plan.Days, index)
	plan.AddEvent(GeneratedEvent{
		PlanID:       plan.ID,
		UserID:       plan.UserID,
		DurationDays: plan.DurationDays,
		Candidates:   len(pool),
		GeneratedAt:  plan.CreatedAt,
	})
	return plan, nil
}

// shufflerFor returns the shuffle for one generation
func (g *Generator) shufflerFor(userID uuid.UUID, start time.Time) func(n int, swap func(i, j int)) {
	if g.seed == 0 {
		return g.shuffle
	}
	stream := binary.BigEndian.Uint64(userID[:8]) ^ uint64(start.Unix())
	return rand.New(rand.NewPCG(g.seed, stream)).Shuffle
}

// fillDay draws up to mealsPerDay distinct recipes and assigns them to the
// categories in order. Categories beyond the draw stay empty.
func fillDay(day *DayPlan, pool []*recipe.Recipe, mealsPerDay int, shuffle func(n int, swap func(i, j int))) {
	drawn := make([]*recipe.Recipe, len(pool))
	copy(drawn, pool)
	shuffle(len(drawn), func(i, j int) {
		drawn[i], drawn[j] = drawn[j], drawn[i]
	})
	if len(drawn) > mealsPerDay {
		drawn = drawn[:mealsPerDay]
	}

	day.Meals = Meals{}
	for i, r := range drawn {
		id := r.ID
		_ = day.Meals.Add(MealCategories[i], MealSlot{RecipeID: &id})
	}
}
