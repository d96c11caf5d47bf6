package nutrition

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/nutriplan/backend/internal/domain/recipe"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func logWithCalories(t *testing.T, userID uuid.UUID, date time.Time, calories float64) *Log {
	t.Helper()
	l := NewLog(userID, date, DefaultTargets)
	_, err := l.LogMeal(MealEntry{
		MealType: MealDinner,
		Source: MealSource{Custom: &CustomMeal{Name: "Dinner", Ingredients: []recipe.Ingredient{
			{Name: "Food", Quantity: 1, Nutrition: &recipe.Nutrition{Calories: calories, Protein: 140}},
		}}},
	}, recipe.NewIndex())
	require.NoError(t, err)
	return l
}

func TestWeeklySummaryCountsPopulatedDays(t *testing.T) {
	userID := uuid.New()
	monday := time.Date(2026, 10, 12, 0, 0, 0, 0, time.UTC)

	logs := []*Log{
		logWithCalories(t, userID, monday, 1900),
		logWithCalories(t, userID, monday.AddDate(0, 0, 2), 2500),
		logWithCalories(t, userID, monday.AddDate(0, 0, 6), 1600),
		NewLog(userID, monday.AddDate(0, 0, 3), DefaultTargets),
		logWithCalories(t, userID, monday.AddDate(0, 0, 7), 3000),
	}

	ws := Summarize(userID, monday.AddDate(0, 0, 4), logs)

	assert.Equal(t, monday, ws.WeekStart)
	assert.Equal(t, monday.AddDate(0, 0, 6), ws.WeekEnd)
	assert.Equal(t, 3, ws.DaysCompleted)
	assert.Equal(t, 6000.0, ws.Totals.Calories)
	assert.Equal(t, 2000.0, ws.AverageCalories)
	assert.Equal(t, 1, ws.GoalDays.Calories)
	assert.Equal(t, 3, ws.GoalDays.Protein)
	assert.Len(t, ws.Days, 3)
}

func TestWeeklyAverageIsNotRounded(t *testing.T) {
	userID := uuid.New()
	monday := time.Date(2026, 10, 12, 0, 0, 0, 0, time.UTC)
	logs := []*Log{
		logWithCalories(t, userID, monday, 1900),
		logWithCalories(t, userID, monday.AddDate(0, 0, 1), 2500),
		logWithCalories(t, userID, monday.AddDate(0, 0, 2), 1601),
	}

	ws := Summarize(userID, monday, logs)

	assert.Equal(t, 6001.0, ws.Totals.Calories)
	assert.InDelta(t, 6001.0/3, ws.AverageCalories, 1e-9)
}

func TestWeeklySummaryEmptyWeek(t *testing.T) {
	ws := Summarize(uuid.New(), time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC), nil)

	assert.Equal(t, time.Date(2026, 10, 12, 0, 0, 0, 0, time.UTC), ws.WeekStart)
	assert.Zero(t, ws.DaysCompleted)
	assert.Zero(t, ws.AverageCalories)
	assert.Empty(t, ws.Days)
}

func TestWaterOnlyDayCountsAsCompleted(t *testing.T) {
	userID := uuid.New()
	l := NewLog(userID, time.Date(2026, 10, 13, 0, 0, 0, 0, time.UTC), DefaultTargets)
	require.NoError(t, l.UpdateWaterIntake(800))

	ws := Summarize(userID, l.Date, []*Log{l})

	assert.Equal(t, 1, ws.DaysCompleted)
	assert.Zero(t, ws.AverageCalories)
}
