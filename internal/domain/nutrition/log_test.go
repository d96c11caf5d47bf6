package nutrition

import (
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

type LogTestSuite struct {
	suite.Suite
	recipe *recipe.Recipe
	log    *Log
}

func (suite *LogTestSuite) SetupTest() {
	r, err := recipe.NewRecipe(uuid.New(), recipe.Details{
		Title: "Chicken rice",
		Ingredients: []recipe.Ingredient{
			{Name: "Chicken", Quantity: 150, Unit: "g",
				Nutrition: &recipe.Nutrition{Calories: 250, Protein: 45, Fats: 6}},
			{Name: "Rice", Quantity: 100, Unit: "g",
				Nutrition: &recipe.Nutrition{Calories: 350, Protein: 7, Carbs: 78, Fats: 1, Fiber: 1.5}},
		},
	})
	require.NoError(suite.T(), err)
	suite.recipe = r
	suite.log = NewLog(uuid.New(), time.Date(2026, 10, 14, 18, 45, 0, 0, time.UTC), DefaultTargets)
}

func (suite *LogTestSuite) TestNewLogTruncatesToUTCDay() {
	loc := time.FixedZone("UTC+9", 9*3600)
	l := NewLog(uuid.New(), time.Date(2026, 10, 15, 3, 0, 0, 0, loc), DefaultTargets)

	assert.Equal(suite.T(), time.Date(2026, 10, 14, 0, 0, 0, 0, time.UTC), l.Date)
	assert.Empty(suite.T(), l.Meals)
	assert.Equal(suite.T(), GoalsMet{}, l.GoalsMet)
}

func (suite *LogTestSuite) TestLogRecipeMealSnapshotsNutrition() {
	id := suite.recipe.ID

	meal, err := suite.log.LogMeal(MealEntry{MealType: MealLunch, Source: MealSource{RecipeID: &id}}, recipe.NewIndex(suite.recipe))

	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), suite.recipe.Nutrition, meal.Nutrition)
	assert.Equal(suite.T(), 600.0, suite.log.DailySummary.Calories)
	assert.Equal(suite.T(), 52.0, suite.log.DailySummary.Protein)

	suite.recipe.Nutrition.Calories = 9999
	assert.Equal(suite.T(), 600.0, suite.log.Meals[0].Nutrition.Calories, "snapshot is frozen")

	events := suite.log.Events()
	require.Len(suite.T(), events, 1)
	assert.Equal(suite.T(), "nutrition.meal_logged", events[0].EventName())
}

func (suite *LogTestSuite) TestLogCustomMealDefaultsMissingNutrition() {
	custom := &CustomMeal{Name: "Snack plate", Ingredients: []recipe.Ingredient{
		{Name: "Apple", Quantity: 1, Nutrition: &recipe.Nutrition{Calories: 95, Carbs: 25}},
		{Name: "Tea", Quantity: 1},
	}}

	meal, err := suite.log.LogMeal(MealEntry{MealType: MealSnack, Source: MealSource{Custom: custom}}, recipe.NewIndex())

	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), recipe.Nutrition{Calories: 95, Carbs: 25}, meal.Nutrition)
	assert.Nil(suite.T(), meal.RecipeID)
}

func (suite *LogTestSuite) TestMealSourceMustBeExclusive() {
	id := suite.recipe.ID
	lookup := recipe.NewIndex(suite.recipe)

	_, err := suite.log.LogMeal(MealEntry{MealType: MealDinner}, lookup)
	assert.True(suite.T(), apperrors.Is(err, apperrors.CodeInvalidMealSource))

	_, err = suite.log.LogMeal(MealEntry{MealType: MealDinner, Source: MealSource{RecipeID: &id, Custom: &CustomMeal{Name: "x"}}}, lookup)
	assert.True(suite.T(), apperrors.Is(err, apperrors.CodeInvalidMealSource))

	unknown := uuid.New()
	_, err = suite.log.LogMeal(MealEntry{MealType: MealDinner, Source: MealSource{RecipeID: &unknown}}, lookup)
	assert.True(suite.T(), apperrors.Is(err, apperrors.CodeNotFound))

	_, err = suite.log.LogMeal(MealEntry{MealType: "brunch", Source: MealSource{RecipeID: &id}}, lookup)
	assert.True(suite.T(), apperrors.Is(err, apperrors.CodeInvalidInput))

	assert.Empty(suite.T(), suite.log.Meals)
}

func (suite *LogTestSuite) TestRemoveMealRecomputes() {
	id := suite.recipe.ID
	lookup := recipe.NewIndex(suite.recipe)
	first, err := suite.log.LogMeal(MealEntry{MealType: MealLunch, Source: MealSource{RecipeID: &id}}, lookup)
	require.NoError(suite.T(), err)
	firstID := first.ID
	_, err = suite.log.LogMeal(MealEntry{MealType: MealDinner, Source: MealSource{RecipeID: &id}}, lookup)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), 1200.0, suite.log.DailySummary.Calories)

	require.NoError(suite.T(), suite.log.RemoveMeal(firstID))

	assert.Len(suite.T(), suite.log.Meals, 1)
	assert.Equal(suite.T(), 600.0, suite.log.DailySummary.Calories)
	assert.True(suite.T(), apperrors.Is(suite.log.RemoveMeal(firstID), apperrors.CodeNotFound))
}

func (suite *LogTestSuite) TestWaterIntake() {
	assert.True(suite.T(), apperrors.Is(suite.log.UpdateWaterIntake(-1), apperrors.CodeInvalidInput))
	require.NoError(suite.T(), suite.log.UpdateWaterIntake(1500))
	assert.True(suite.T(), suite.log.HasEntries())

	suite.log.Recompute()
	assert.Equal(suite.T(), 1500.0, suite.log.DailySummary.WaterIntake, "recompute keeps water")
}

func TestLogTestSuite(t *testing.T) {
	suite.Run(t, new(LogTestSuite))
}

func TestSeedTargets(t *testing.T) {
	own := profile.MacroTargets{DailyCalories: 2136, ProteinG: 134, CarbsG: 267, FatsG: 59}

	assert.Equal(t, own, SeedTargets(own, DefaultTargets))
	assert.Equal(t, DefaultTargets, SeedTargets(profile.MacroTargets{}, DefaultTargets))
}

func TestCaloriesGoalBand(t *testing.T) {
	targets := profile.MacroTargets{DailyCalories: 2000}

	cases := map[float64]bool{
		1799: false,
		1800: true,
		2000: true,
		2200: true,
		2201: false,
		2400: false,
	}
	for actual, want := range cases {
		got := EvaluateGoals(DailySummary{Calories: actual}, targets)
		assert.Equal(t, want, got.Calories, "actual %v", actual)
	}
}

func TestMacroGoalsAreFloors(t *testing.T) {
	targets := profile.MacroTargets{ProteinG: 150, CarbsG: 250, FatsG: 60}

	got := EvaluateGoals(DailySummary{Protein: 135, Carbs: 400, Fats: 53.9}, targets)

	assert.True(t, got.Protein)
	assert.True(t, got.Carbs, "no upper bound for macros")
	assert.False(t, got.Fats)
	assert.False(t, got.Calories, "missing target is never met")
}

func TestProgress(t *testing.T) {
	p := Progress(DailySummary{Calories: 1000, Protein: 200, Carbs: 83}, profile.MacroTargets{DailyCalories: 2000, ProteinG: 150, CarbsG: 250})

	assert.Equal(t, map[Nutrient]int{
		NutrientCalories: 50,
		NutrientProtein:  100,
		NutrientCarbs:    33,
	}, p)
}
