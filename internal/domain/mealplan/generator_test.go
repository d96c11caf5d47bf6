package mealplan

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/nutriplan/backend/internal/domain/profile"
	"github.com/nutriplan/backend/internal/domain/recipe"
	apperrors "github.com/nutriplan/backend/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type stubSource struct {
	recipes  []*recipe.Recipe
	err      error
	criteria CandidateCriteria
	limit    int
	calls    int
}

func (s *stubSource) FindCandidates(_ context.Context, c CandidateCriteria, limit int) ([]*recipe.Recipe, error) {
	s.calls++
	s.criteria = c
	s.limit = limit
	return s.recipes, s.err
}

// readOnlySource is safe to share between goroutines
type readOnlySource []*recipe.Recipe

func (s readOnlySource) FindCandidates(context.Context, CandidateCriteria, int) ([]*recipe.Recipe, error) {
	return s, nil
}

func approvedRecipe(t *testing.T, title string, calories float64, tags ...string) *recipe.Recipe {
	t.Helper()
	r, err := recipe.NewRecipe(uuid.New(), recipe.Details{
		Title: title,
		Ingredients: []recipe.Ingredient{
			{Name: "Egg", Quantity: 2, Unit: "piece", Category: "dairy",
				Nutrition: &recipe.Nutrition{Calories: calories, Protein: 10, Carbs: 20, Fats: 5}},
		},
		DietaryTags: tags,
		Cuisine:     "italian",
		PrepTimeMin: 10,
		CookTimeMin: 20,
	})
	require.NoError(t, err)
	require.NoError(t, r.Approve(uuid.New()))
	r.Events()
	return r
}

func readyProfile() profile.Profile {
	return profile.Profile{
		UserID:            uuid.New(),
		DietaryPreference: profile.DietNone,
		Targets:           profile.MacroTargets{DailyCalories: 2000, ProteinG: 150, CarbsG: 250, FatsG: 67},
	}
}

// GeneratorTestSuite asserts counts and membership only; selection is random
type GeneratorTestSuite struct {
	suite.Suite
	pool  []*recipe.Recipe
	start time.Time
}

func (suite *GeneratorTestSuite) SetupTest() {
	suite.pool = nil
	for i := 0; i < 6; i++ {
		suite.pool = append(suite.pool, approvedRecipe(suite.T(), "Recipe "+string(rune('A'+i)), float64(100*(i+1))))
	}
	suite.start = time.Date(2026, 10, 12, 15, 30, 0, 0, time.UTC)
}

func (suite *GeneratorTestSuite) TestGenerateProducesSequentialDays() {
	src := &stubSource{recipes: suite.pool}
	gen := NewGenerator()

	plan, err := gen.GenerateFrom(context.Background(), suite.start, readyProfile(), 7, Preferences{}, src)

	require.NoError(suite.T(), err)
	require.Len(suite.T(), plan.Days, 7)
	assert.Equal(suite.T(), 1, src.calls, "one bulk candidate read")
	assert.Equal(suite.T(), DefaultCandidateLimit, src.limit)
	assert.Equal(suite.T(), time.Date(2026, 10, 12, 0, 0, 0, 0, time.UTC), plan.StartDate)
	assert.Equal(suite.T(), time.Date(2026, 10, 18, 0, 0, 0, 0, time.UTC), plan.EndDate)
	assert.Equal(suite.T(), StatusActive, plan.Status)

	members := recipe.NewIndex(suite.pool...)
	for i, day := range plan.Days {
		assert.Equal(suite.T(), i+1, day.DayNumber)
		assert.Equal(suite.T(), plan.StartDate.AddDate(0, 0, i), day.Date)

		seen := map[uuid.UUID]bool{}
		var calories float64
		for _, c := range MealCategories {
			require.Len(suite.T(), day.Meals[c], 1, "category %s", c)
			id := *day.Meals[c][0].RecipeID
			r, ok := members.Recipe(id)
			require.True(suite.T(), ok, "recipe must come from the pool")
			assert.False(suite.T(), seen[id], "drawn without replacement")
			seen[id] = true
			calories += r.Nutrition.Calories
		}
		assert.Equal(suite.T(), calories, day.Nutrition.Calories)
	}
}

func (suite *GeneratorTestSuite) TestSmallPoolUsesEveryRecipe() {
	src := &stubSource{recipes: suite.pool[:2]}

	plan, err := NewGenerator().GenerateFrom(context.Background(), suite.start, readyProfile(), 3, Preferences{}, src)

	require.NoError(suite.T(), err)
	for _, day := range plan.Days {
		assert.Len(suite.T(), day.Meals[Breakfast], 1)
		assert.Len(suite.T(), day.Meals[Lunch], 1)
		assert.Empty(suite.T(), day.Meals[Dinner])
		assert.Empty(suite.T(), day.Meals[Snacks])

		got := []uuid.UUID{*day.Meals[Breakfast][0].RecipeID, *day.Meals[Lunch][0].RecipeID}
		assert.ElementsMatch(suite.T(), []uuid.UUID{suite.pool[0].ID, suite.pool[1].ID}, got)
	}
}

func (suite *GeneratorTestSuite) TestNutritionSummary() {
	src := &stubSource{recipes: suite.pool}

	plan, err := NewGenerator().GenerateFrom(context.Background(), suite.start, readyProfile(), 5, Preferences{}, src)
	require.NoError(suite.T(), err)

	var total float64
	for _, day := range plan.Days {
		total += day.Nutrition.Calories
	}
	assert.Equal(suite.T(), total, plan.NutritionSummary.TotalCalories)
	assert.Equal(suite.T(), math.Round(total/5), plan.NutritionSummary.AverageDailyCalories)
	assert.Equal(suite.T(), 0.0, plan.CompletionRate)
	assert.NotEmpty(suite.T(), plan.GroceryList)
}

func (suite *GeneratorTestSuite) TestSeededGeneratorsAgree() {
	first, err := NewGenerator(WithRand(rand.New(rand.NewPCG(7, 11)))).
		GenerateFrom(context.Background(), suite.start, readyProfile(), 4, Preferences{}, &stubSource{recipes: suite.pool})
	require.NoError(suite.T(), err)
	second, err := NewGenerator(WithRand(rand.New(rand.NewPCG(7, 11)))).
		GenerateFrom(context.Background(), suite.start, readyProfile(), 4, Preferences{}, &stubSource{recipes: suite.pool})
	require.NoError(suite.T(), err)

	for i := range first.Days {
		assert.Equal(suite.T(), first.Days[i].Meals, second.Days[i].Meals)
	}
}

func (suite *GeneratorTestSuite) TestSeedIsPerUserAndStart() {
	p := readyProfile()
	generate := func(gen *Generator, p profile.Profile, start time.Time) *MealPlan {
		plan, err := gen.GenerateFrom(context.Background(), start, p, 5, Preferences{}, readOnlySource(suite.pool))
		require.NoError(suite.T(), err)
		return plan
	}

	reused := NewGenerator(WithSeed(42))
	generate(reused, readyProfile(), suite.start)
	first := generate(reused, p, suite.start)
	second := generate(NewGenerator(WithSeed(42)), p, suite.start)

	for i := range first.Days {
		assert.Equal(suite.T(), first.Days[i].Meals, second.Days[i].Meals)
	}
}

func (suite *GeneratorTestSuite) TestConcurrentGeneration() {
	generators := map[string]*Generator{
		"package source": NewGenerator(),
		"shared rand":    NewGenerator(WithRand(rand.New(rand.NewPCG(7, 7)))),
		"seed":           NewGenerator(WithSeed(7)),
	}

	for name, gen := range generators {
		suite.Run(name, func() {
			var wg sync.WaitGroup
			errs := make(chan error, 8)
			for i := 0; i < 8; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					plan, err := gen.GenerateFrom(context.Background(), suite.start, readyProfile(), 7, Preferences{}, readOnlySource(suite.pool))
					if err == nil && len(plan.Days) != 7 {
						err = errors.New("wrong number of days")
					}
					errs <- err
				}()
			}
			wg.Wait()
			close(errs)

			for err := range errs {
				assert.NoError(suite.T(), err)
			}
		})
	}
}

func (suite *GeneratorTestSuite) TestEmptyPool() {
	src := &stubSource{recipes: []*recipe.Recipe{}}

	_, err := NewGenerator().GenerateFrom(context.Background(), suite.start, readyProfile(), 7, Preferences{}, src)

	assert.True(suite.T(), apperrors.Is(err, apperrors.CodeNoMatchingRecipes))
}

func (suite *GeneratorTestSuite) TestUnapprovedRecipesNeverSelected() {
	pending, err := recipe.NewRecipe(uuid.New(), recipe.Details{
		Title:       "Pending dish",
		Ingredients: []recipe.Ingredient{{Name: "Rice", Quantity: 1}},
	})
	require.NoError(suite.T(), err)

	_, err = NewGenerator().GenerateFrom(context.Background(), suite.start, readyProfile(), 1, Preferences{},
		&stubSource{recipes: []*recipe.Recipe{pending}})

	assert.True(suite.T(), apperrors.Is(err, apperrors.CodeNoMatchingRecipes))
}

func (suite *GeneratorTestSuite) TestPreconditions() {
	suite.Run("ProfileWithoutTargets", func() {
		p := readyProfile()
		p.Targets = profile.MacroTargets{}

		_, err := NewGenerator().Generate(context.Background(), p, 7, Preferences{}, &stubSource{recipes: suite.pool})

		assert.True(suite.T(), apperrors.Is(err, apperrors.CodeProfileIncomplete))
	})

	suite.Run("DurationOutOfRange", func() {
		for _, d := range []int{0, 31} {
			_, err := NewGenerator().Generate(context.Background(), readyProfile(), d, Preferences{}, &stubSource{recipes: suite.pool})
			assert.True(suite.T(), apperrors.Is(err, apperrors.CodeInvalidInput), "duration %d", d)
		}
	})

	suite.Run("SourceFailureIsReturned", func() {
		boom := errors.New("catalog unavailable")

		_, err := NewGenerator().Generate(context.Background(), readyProfile(), 2, Preferences{}, &stubSource{err: boom})

		assert.ErrorIs(suite.T(), err, boom)
	})
}

func (suite *GeneratorTestSuite) TestClockDrivesDefaultStart() {
	clock := func() time.Time { return time.Date(2026, 3, 1, 23, 59, 0, 0, time.UTC) }

	plan, err := NewGenerator(WithClock(clock)).Generate(context.Background(), readyProfile(), 1, Preferences{}, &stubSource{recipes: suite.pool})

	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), plan.StartDate)
	events := plan.Events()
	require.Len(suite.T(), events, 1)
	assert.Equal(suite.T(), "mealplan.generated", events[0].EventName())
}

func TestGeneratorTestSuite(t *testing.T) {
	suite.Run(t, new(GeneratorTestSuite))
}

func TestBuildCriteria(t *testing.T) {
	p := readyProfile()
	p.DietaryPreference = profile.DietVegan

	c := BuildCriteria(p, Preferences{Cuisine: []string{" Italian "}, ExcludedIngredients: []string{"Peanut", ""}})
	assert.Equal(t, "vegan", c.DietaryTag)
	assert.Equal(t, []string{"italian"}, c.Cuisines)
	assert.Equal(t, []string{"peanut"}, c.ExcludedIngredients)

	c = BuildCriteria(p, Preferences{DietaryPreference: "gluten-free"})
	assert.Equal(t, "gluten-free", c.DietaryTag)

	c = BuildCriteria(p, Preferences{DietaryPreference: "none"})
	assert.Empty(t, c.DietaryTag)
}

func TestCriteriaMatches(t *testing.T) {
	r := approvedRecipe(t, "Vegan bowl", 400, "vegan")
	five, fifteen := 5, 15

	cases := []struct {
		name     string
		criteria CandidateCriteria
		want     bool
	}{
		{"NoFilters", CandidateCriteria{}, true},
		{"TagPresent", CandidateCriteria{DietaryTag: "vegan"}, true},
		{"TagMissing", CandidateCriteria{DietaryTag: "gluten-free"}, false},
		{"CuisineListed", CandidateCriteria{Cuisines: []string{"mexican", "italian"}}, true},
		{"CuisineNotListed", CandidateCriteria{Cuisines: []string{"mexican"}}, false},
		{"ExcludedIngredient", CandidateCriteria{ExcludedIngredients: []string{"egg"}}, false},
		{"ExcludedOther", CandidateCriteria{ExcludedIngredients: []string{"eggplant"}}, true},
		{"PrepTooLong", CandidateCriteria{MaxPrepTimeMin: &five}, false},
		{"PrepWithinCap", CandidateCriteria{MaxPrepTimeMin: &fifteen}, true},
		{"CookTooLong", CandidateCriteria{MaxCookTimeMin: &fifteen}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.criteria.Matches(r))
		})
	}
}

func TestCriteriaFilterCapsPool(t *testing.T) {
	var recipes []*recipe.Recipe
	for i := 0; i < 5; i++ {
		recipes = append(recipes, approvedRecipe(t, "Dish number", 100))
	}

	assert.Len(t, CandidateCriteria{}.Filter(recipes, 3), 3)
	assert.Len(t, CandidateCriteria{}.Filter(recipes, 0), 5)
}
