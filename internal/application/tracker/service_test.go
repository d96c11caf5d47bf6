package tracker

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/nutriplan/backend/internal/domain/nutrition"
	"github.com/nutriplan/backend/internal/domain/profile"
	"github.com/nutriplan/backend/internal/domain/recipe"
	"github.com/nutriplan/backend/internal/ports/inbound"
	"github.com/nutriplan/backend/internal/ports/outbound"
	"github.com/nutriplan/backend/pkg/errors"
	"github.com/nutriplan/backend/test/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap/zaptest"
)

type cacheCounter map[string]int

func (c cacheCounter) RecordCacheOperation(operation, result string) {
	c[operation+":"+result]++
}

// TrackerServiceTestSuite covers the nutrition journal use cases
type TrackerServiceTestSuite struct {
	suite.Suite
	logs     *testutils.MockNutritionLogRepository
	profiles *testutils.MockProfileRepository
	recipes  *testutils.MockRecipeRepository
	cache    *testutils.MockCacheRepository
	events   *testutils.MockEventPublisher
	counts   cacheCounter
	service  *TrackerService

	userID uuid.UUID
	today  time.Time
}

func (suite *TrackerServiceTestSuite) SetupTest() {
	suite.logs = new(testutils.MockNutritionLogRepository)
	suite.profiles = new(testutils.MockProfileRepository)
	suite.recipes = new(testutils.MockRecipeRepository)
	suite.cache = new(testutils.MockCacheRepository)
	suite.events = new(testutils.MockEventPublisher)
	suite.events.On("Publish", mock.Anything, mock.Anything).Return(nil)
	suite.counts = cacheCounter{}

	suite.service = NewTrackerService(
		suite.logs, suite.profiles, suite.recipes, suite.cache, suite.events, suite.counts,
		Config{SummaryCacheTTL: time.Hour},
		zaptest.NewLogger(suite.T()),
	)
	// Thursday
	suite.today = time.Date(2026, 10, 15, 18, 45, 0, 0, time.UTC)
	suite.service.now = func() time.Time { return suite.today }
	suite.userID = uuid.New()
}

func (suite *TrackerServiceTestSuite) day() time.Time {
	return time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC)
}

func (suite *TrackerServiceTestSuite) weekKey() string {
	return "nutrition:weekly:" + suite.userID.String() + ":2026-10-12"
}

func (suite *TrackerServiceTestSuite) TestGetTodaySeedsFromProfile() {
	p := testutils.NewCompleteProfile(suite.userID)
	log := nutrition.NewLog(suite.userID, suite.day(), p.Targets)
	suite.logs.On("FindByDate", mock.Anything, suite.userID, suite.day()).Return(nil, errors.NewNotFoundError("nutrition log", ""))
	suite.profiles.On("FindByUserID", mock.Anything, suite.userID).Return(p, nil)
	suite.logs.On("GetOrCreate", mock.Anything, suite.userID, suite.day(), p.Targets).Return(log, nil)

	v, err := suite.service.GetToday(context.Background(), suite.userID)

	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), p.Targets, v.Log.Targets)
	assert.Equal(suite.T(), 0, v.Progress[nutrition.NutrientCalories])
	suite.logs.AssertExpectations(suite.T())
}

func (suite *TrackerServiceTestSuite) TestGetDayFallsBackToDefaultTargets() {
	log := nutrition.NewLog(suite.userID, suite.day(), nutrition.DefaultTargets)
	suite.logs.On("FindByDate", mock.Anything, suite.userID, suite.day()).Return(nil, errors.NewNotFoundError("nutrition log", ""))
	suite.profiles.On("FindByUserID", mock.Anything, suite.userID).Return(nil, errors.NewNotFoundError("profile", ""))
	suite.logs.On("GetOrCreate", mock.Anything, suite.userID, suite.day(), nutrition.DefaultTargets).Return(log, nil)

	v, err := suite.service.GetDay(context.Background(), suite.userID, suite.today)

	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), 2000.0, v.Log.Targets.DailyCalories)
}

func (suite *TrackerServiceTestSuite) TestExistingDayKeepsItsTargets() {
	frozen := profile.MacroTargets{DailyCalories: 1800, ProteinG: 120, CarbsG: 200, FatsG: 60}
	log := nutrition.NewLog(suite.userID, suite.day(), frozen)
	suite.logs.On("FindByDate", mock.Anything, suite.userID, suite.day()).Return(log, nil)

	v, err := suite.service.GetDay(context.Background(), suite.userID, suite.today)

	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), frozen, v.Log.Targets)
	suite.profiles.AssertNotCalled(suite.T(), "FindByUserID", mock.Anything, mock.Anything)
}

func (suite *TrackerServiceTestSuite) TestLogRecipeMeal() {
	r := testutils.NewRecipeBuilder().Approved().Build()
	log := nutrition.NewLog(suite.userID, suite.day(), nutrition.DefaultTargets)
	suite.recipes.On("FindByID", mock.Anything, r.ID).Return(r, nil)
	suite.logs.On("FindByDate", mock.Anything, suite.userID, suite.day()).Return(log, nil)
	suite.logs.On("Save", mock.Anything, log).Return(nil)
	suite.cache.On("Delete", mock.Anything, []string{suite.weekKey()}).Return(nil)

	v, err := suite.service.LogMeal(context.Background(), inbound.LogMealCommand{
		UserID:   suite.userID,
		MealType: "lunch",
		RecipeID: &r.ID,
	})

	require.NoError(suite.T(), err)
	require.Len(suite.T(), v.Log.Meals, 1)
	assert.Equal(suite.T(), r.Nutrition, v.Log.Meals[0].Nutrition)
	assert.Equal(suite.T(), r.Nutrition.Calories, v.Log.DailySummary.Calories)
	assert.Equal(suite.T(), []string{"nutrition.meal_logged"}, suite.events.EventNames())
	suite.cache.AssertExpectations(suite.T())
}

func (suite *TrackerServiceTestSuite) TestLogCustomMeal() {
	log := nutrition.NewLog(suite.userID, suite.day(), nutrition.DefaultTargets)
	suite.logs.On("FindByDate", mock.Anything, suite.userID, suite.day()).Return(log, nil)
	suite.logs.On("Save", mock.Anything, log).Return(nil)
	suite.cache.On("Delete", mock.Anything, mock.Anything).Return(nil)

	v, err := suite.service.LogMeal(context.Background(), inbound.LogMealCommand{
		UserID:   suite.userID,
		MealType: "snack",
		CustomMeal: &inbound.CustomMealInput{
			Name: "Apple and peanut butter",
			Ingredients: []inbound.IngredientInput{
				{Name: "apple", Quantity: 1, Nutrition: &recipe.Nutrition{Calories: 95, Carbs: 25}},
				{Name: "peanut butter", Quantity: 16, Unit: "g", Nutrition: &recipe.Nutrition{Calories: 94, Protein: 4, Fats: 8}},
			},
		},
	})

	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), 189.0, v.Log.DailySummary.Calories)
	assert.Equal(suite.T(), 9, v.Progress[nutrition.NutrientCalories])
	suite.recipes.AssertNotCalled(suite.T(), "FindByID", mock.Anything, mock.Anything)
}

func (suite *TrackerServiceTestSuite) TestLogMealSourceMustBeExclusive() {
	id := uuid.New()

	_, err := suite.service.LogMeal(context.Background(), inbound.LogMealCommand{
		UserID:     suite.userID,
		MealType:   "dinner",
		RecipeID:   &id,
		CustomMeal: &inbound.CustomMealInput{Name: "soup"},
	})
	assert.True(suite.T(), errors.Is(err, errors.CodeInvalidMealSource))

	_, err = suite.service.LogMeal(context.Background(), inbound.LogMealCommand{UserID: suite.userID, MealType: "dinner"})
	assert.True(suite.T(), errors.Is(err, errors.CodeInvalidMealSource))

	suite.logs.AssertNotCalled(suite.T(), "Save", mock.Anything, mock.Anything)
}

func (suite *TrackerServiceTestSuite) TestLogMealUnknownRecipe() {
	id := uuid.New()
	suite.recipes.On("FindByID", mock.Anything, id).Return(nil, errors.NewNotFoundError("recipe", id.String()))

	_, err := suite.service.LogMeal(context.Background(), inbound.LogMealCommand{UserID: suite.userID, MealType: "dinner", RecipeID: &id})

	assert.True(suite.T(), errors.Is(err, errors.CodeNotFound))
}

func (suite *TrackerServiceTestSuite) TestRemoveMeal() {
	log := nutrition.NewLog(suite.userID, suite.day(), nutrition.DefaultTargets)
	meal, err := log.LogMeal(nutrition.MealEntry{
		MealType: nutrition.MealBreakfast,
		Source:   nutrition.MealSource{Custom: &nutrition.CustomMeal{Name: "toast", Ingredients: []recipe.Ingredient{{Name: "bread", Quantity: 2, Nutrition: &recipe.Nutrition{Calories: 160}}}}},
	}, recipe.NewIndex())
	require.NoError(suite.T(), err)
	mealID := meal.ID
	log.Events()

	suite.logs.On("FindByDate", mock.Anything, suite.userID, suite.day()).Return(log, nil)
	suite.logs.On("Save", mock.Anything, log).Return(nil)
	suite.cache.On("Delete", mock.Anything, mock.Anything).Return(nil)

	v, err := suite.service.RemoveMeal(context.Background(), suite.userID, suite.today, mealID)
	require.NoError(suite.T(), err)
	assert.Empty(suite.T(), v.Log.Meals)
	assert.Equal(suite.T(), 0.0, v.Log.DailySummary.Calories)

	_, err = suite.service.RemoveMeal(context.Background(), suite.userID, suite.today, mealID)
	assert.True(suite.T(), errors.Is(err, errors.CodeNotFound))
}

func (suite *TrackerServiceTestSuite) TestUpdateWaterIntake() {
	log := nutrition.NewLog(suite.userID, suite.day(), nutrition.DefaultTargets)
	suite.logs.On("FindByDate", mock.Anything, suite.userID, suite.day()).Return(log, nil)
	suite.logs.On("Save", mock.Anything, log).Return(nil)
	suite.cache.On("Delete", mock.Anything, []string{suite.weekKey()}).Return(nil)

	v, err := suite.service.UpdateWaterIntake(context.Background(), suite.userID, suite.today, 1500)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), 1500.0, v.Log.DailySummary.WaterIntake)

	_, err = suite.service.UpdateWaterIntake(context.Background(), suite.userID, suite.today, -1)
	assert.True(suite.T(), errors.Is(err, errors.CodeInvalidInput))
	assert.Empty(suite.T(), suite.events.Published)
}

func (suite *TrackerServiceTestSuite) TestGetRangeValidation() {
	from := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 10, 7, 0, 0, 0, 0, time.UTC)
	suite.logs.On("FindRange", mock.Anything, suite.userID, from, to).Return([]*nutrition.Log{}, nil)

	_, err := suite.service.GetRange(context.Background(), suite.userID, to, from)
	assert.True(suite.T(), errors.Is(err, errors.CodeInvalidInput))

	_, err = suite.service.GetRange(context.Background(), suite.userID, from, from.AddDate(1, 0, 0))
	assert.True(suite.T(), errors.Is(err, errors.CodeInvalidInput))

	logs, err := suite.service.GetRange(context.Background(), suite.userID, from.Add(5*time.Hour), to.Add(20*time.Hour))
	require.NoError(suite.T(), err)
	assert.Empty(suite.T(), logs)
}

func (suite *TrackerServiceTestSuite) TestWeeklySummaryComputesAndCaches() {
	monday := time.Date(2026, 10, 12, 0, 0, 0, 0, time.UTC)
	sunday := monday.AddDate(0, 0, 6)
	var logs []*nutrition.Log
	for i, kcal := range []float64{1800, 2200} {
		l := nutrition.NewLog(suite.userID, monday.AddDate(0, 0, i), nutrition.DefaultTargets)
		_, err := l.LogMeal(nutrition.MealEntry{
			MealType: nutrition.MealDinner,
			Source:   nutrition.MealSource{Custom: &nutrition.CustomMeal{Name: "plate", Ingredients: []recipe.Ingredient{{Name: "food", Quantity: 1, Nutrition: &recipe.Nutrition{Calories: kcal}}}}},
		}, recipe.NewIndex())
		require.NoError(suite.T(), err)
		logs = append(logs, l)
	}

	suite.cache.On("Get", mock.Anything, suite.weekKey()).Return(nil, outbound.ErrCacheMiss)
	suite.logs.On("FindRange", mock.Anything, suite.userID, monday, sunday).Return(logs, nil)
	suite.cache.On("Set", mock.Anything, suite.weekKey(), mock.Anything, time.Hour).Return(nil)

	ws, err := suite.service.GetWeeklySummary(context.Background(), suite.userID, suite.today)

	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), monday, ws.WeekStart)
	assert.Equal(suite.T(), 2, ws.DaysCompleted)
	assert.Equal(suite.T(), 4000.0, ws.Totals.Calories)
	assert.Equal(suite.T(), 2000.0, ws.AverageCalories)
	assert.Equal(suite.T(), 1, suite.counts["weekly_summary:miss"])
	suite.cache.AssertExpectations(suite.T())
}

func (suite *TrackerServiceTestSuite) TestWeeklySummaryCacheHit() {
	monday := time.Date(2026, 10, 12, 0, 0, 0, 0, time.UTC)
	cached := nutrition.Summarize(suite.userID, monday, nil)
	cached.DaysCompleted = 5
	data, err := json.Marshal(cached)
	require.NoError(suite.T(), err)
	suite.cache.On("Get", mock.Anything, suite.weekKey()).Return(data, nil)

	ws, err := suite.service.GetWeeklySummary(context.Background(), suite.userID, monday.AddDate(0, 0, 3))

	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), 5, ws.DaysCompleted)
	assert.Equal(suite.T(), 1, suite.counts["weekly_summary:hit"])
	suite.logs.AssertNotCalled(suite.T(), "FindRange", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestTrackerServiceTestSuite(t *testing.T) {
	suite.Run(t, new(TrackerServiceTestSuite))
}
