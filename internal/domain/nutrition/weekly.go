package nutrition

import (
	"time"

	"github.com/google/uuid"
	"github.com/nutriplan/backend/internal/domain/shared"
)

// Totals of the four tracked nutrients
type Totals struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fats     float64 `json:"fats"`
}

// GoalDays counts, per nutrient, the days whose goal was met
type GoalDays struct {
	Calories int `json:"calories"`
	Protein  int `json:"protein"`
	Carbs    int `json:"carbs"`
	Fats     int `json:"fats"`
}

// DayBreakdown is one populated day of a weekly summary
type DayBreakdown struct {
	Date     time.Time    `json:"date"`
	Summary  DailySummary `json:"summary"`
	GoalsMet GoalsMet     `json:"goals_met"`
	Meals    int          `json:"meals"`
}

// WeeklySummary rolls up Monday..Sunday
type WeeklySummary struct {
	UserID          uuid.UUID      `json:"user_id"`
	WeekStart       time.Time      `json:"week_start"`
	WeekEnd         time.Time      `json:"week_end"`
	Totals          Totals         `json:"totals"`
	DaysCompleted   int            `json:"days_completed"`
	GoalDays        GoalDays       `json:"goal_days"`
	AverageCalories float64        `json:"average_calories"`
	Days            []DayBreakdown `json:"days"`
}

// WeekWindow returns the Monday of the week containing t and the Sunday that ends it
func WeekWindow(t time.Time) (start, end time.Time) {
	start = shared.WeekStart(t)
	return start, start.AddDate(0, 0, 6)
}

// Summarize aggregates the logs that fall inside the week of weekStart.
// A day counts as completed when it has a logged meal or water intake;
// averageCalories divides by completed days only.
func Summarize(userID uuid.UUID, weekStart time.Time, logs []*Log) WeeklySummary {
	start, end := WeekWindow(weekStart)
	ws := WeeklySummary{
		UserID:    userID,
		WeekStart: start,
		WeekEnd:   end,
		Days:      []DayBreakdown{},
	}

	for _, l := range logs {
		if l == nil {
			continue
		}
		day := shared.Day(l.Date)
		if day.Before(start) || day.After(end) || !l.HasEntries() {
			continue
		}

		ws.DaysCompleted++
		ws.Totals.Calories += l.DailySummary.Calories
		ws.Totals.Protein += l.DailySummary.Protein
		ws.Totals.Carbs += l.DailySummary.Carbs
		ws.Totals.Fats += l.DailySummary.Fats

		if l.GoalsMet.Calories {
			ws.GoalDays.Calories++
		}
		if l.GoalsMet.Protein {
			ws.GoalDays.Protein++
		}
		if l.GoalsMet.Carbs {
			ws.GoalDays.Carbs++
		}
		if l.GoalsMet.Fats {
			ws.GoalDays.Fats++
		}

		ws.Days = append(ws.Days, DayBreakdown{
			Date:     day,
			Summary:  l.DailySummary,
			GoalsMet: l.GoalsMet,
			Meals:    len(l.Meals),
		})
	}

	if ws.DaysCompleted > 0 {
		ws.AverageCalories = ws.Totals.Calories / float64(ws.DaysCompleted)
	}
	return ws
}
