// Package gorm provides mapping between domain entities and GORM models
package gorm

import (
	"github.com/nutriplan/backend/internal/domain/grocery"
	"github.com/nutriplan/backend/internal/domain/mealplan"
	"github.com/nutriplan/backend/internal/domain/nutrition"
	"github.com/nutriplan/backend/internal/domain/profile"
	"github.com/nutriplan/backend/internal/domain/recipe"
)

// ProfileToModel converts a domain profile to a GORM model
func ProfileToModel(p *profile.Profile) *ProfileModel {
	return &ProfileModel{
		UserID:            p.UserID,
		Age:               p.Age,
		Gender:            string(p.Gender),
		HeightCm:          p.HeightCm,
		WeightKg:          p.WeightKg,
		Goal:              string(p.Goal),
		ActivityLevel:     string(p.ActivityLevel),
		DietaryPreference: string(p.DietaryPreference),
		Allergies:         p.Allergies,
		Restrictions:      p.Restrictions,
		DailyCalories:     p.Targets.DailyCalories,
		ProteinG:          p.Targets.ProteinG,
		CarbsG:            p.Targets.CarbsG,
		FatsG:             p.Targets.FatsG,
		UpdatedAt:         p.UpdatedAt,
	}
}

// ModelToProfile converts a GORM model to a domain profile
func ModelToProfile(model *ProfileModel) *profile.Profile {
	return &profile.Profile{
		UserID:            model.UserID,
		Age:               model.Age,
		Gender:            profile.Gender(model.Gender),
		HeightCm:          model.HeightCm,
		WeightKg:          model.WeightKg,
		Goal:              profile.Goal(model.Goal),
		ActivityLevel:     profile.ActivityLevel(model.ActivityLevel),
		DietaryPreference: profile.DietaryPreference(model.DietaryPreference),
		Allergies:         []string(model.Allergies),
		Restrictions:      []string(model.Restrictions),
		Targets: profile.MacroTargets{
			DailyCalories: model.DailyCalories,
			ProteinG:      model.ProteinG,
			CarbsG:        model.CarbsG,
			FatsG:         model.FatsG,
		},
		UpdatedAt: model.UpdatedAt,
	}
}

// RecipeToModel converts a domain recipe to a GORM model
func RecipeToModel(r *recipe.Recipe) *RecipeModel {
	return &RecipeModel{
		ID:              r.ID,
		Title:           r.Title,
		Description:     r.Description,
		AuthorID:        r.AuthorID,
		Ingredients:     r.Ingredients,
		Instructions:    r.Instructions,
		Calories:        r.Nutrition.Calories,
		Protein:         r.Nutrition.Protein,
		Carbs:           r.Nutrition.Carbs,
		Fats:            r.Nutrition.Fats,
		Fiber:           r.Nutrition.Fiber,
		DietaryTags:     r.DietaryTags,
		Cuisine:         r.Cuisine,
		Difficulty:      string(r.Difficulty),
		PrepTimeMinutes: r.PrepTimeMin,
		CookTimeMinutes: r.CookTimeMin,
		Servings:        r.Servings,
		Status:          string(r.Status),
		RejectionReason: r.RejectionReason,
		ModeratedBy:     r.ModeratedBy,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}
}

// ModelToRecipe converts a GORM model to a domain recipe
func ModelToRecipe(model *RecipeModel) *recipe.Recipe {
	return &recipe.Recipe{
		ID:           model.ID,
		Title:        model.Title,
		Description:  model.Description,
		AuthorID:     model.AuthorID,
		Ingredients:  model.Ingredients,
		Instructions: []string(model.Instructions),
		Nutrition: recipe.Nutrition{
			Calories: model.Calories,
			Protein:  model.Protein,
			Carbs:    model.Carbs,
			Fats:     model.Fats,
			Fiber:    model.Fiber,
		},
		DietaryTags:     []string(model.DietaryTags),
		Cuisine:         model.Cuisine,
		PrepTimeMin:     model.PrepTimeMinutes,
		CookTimeMin:     model.CookTimeMinutes,
		Servings:        model.Servings,
		Difficulty:      recipe.Difficulty(model.Difficulty),
		Status:          recipe.Status(model.Status),
		RejectionReason: model.RejectionReason,
		ModeratedBy:     model.ModeratedBy,
		CreatedAt:       model.CreatedAt,
		UpdatedAt:       model.UpdatedAt,
	}
}

// MealPlanToModel converts a domain meal plan to a GORM model
func MealPlanToModel(p *mealplan.MealPlan) *MealPlanModel {
	return &MealPlanModel{
		ID:               p.ID,
		UserID:           p.UserID,
		DurationDays:     p.DurationDays,
		StartDate:        p.StartDate,
		EndDate:          p.EndDate,
		Preferences:      p.Preferences,
		Days:             p.Days,
		GroceryList:      p.GroceryList,
		NutritionSummary: p.NutritionSummary,
		Status:           string(p.Status),
		CompletionRate:   p.CompletionRate,
		CreatedAt:        p.CreatedAt,
		UpdatedAt:        p.UpdatedAt,
	}
}

// ModelToMealPlan converts a GORM model to a domain meal plan. Missing
// meal maps are restored so slot mutations never hit a nil map.
func ModelToMealPlan(model *MealPlanModel) *mealplan.MealPlan {
	days := model.Days
	for i := range days {
		if days[i].Meals == nil {
			days[i].Meals = mealplan.Meals{}
		}
		days[i].Date = days[i].Date.UTC()
	}
	lines := model.GroceryList
	if lines == nil {
		lines = []mealplan.GroceryLine{}
	}
	return &mealplan.MealPlan{
		ID:               model.ID,
		UserID:           model.UserID,
		DurationDays:     model.DurationDays,
		StartDate:        model.StartDate.UTC(),
		EndDate:          model.EndDate.UTC(),
		Preferences:      model.Preferences,
		Days:             days,
		GroceryList:      lines,
		NutritionSummary: model.NutritionSummary,
		Status:           mealplan.Status(model.Status),
		CompletionRate:   model.CompletionRate,
		CreatedAt:        model.CreatedAt,
		UpdatedAt:        model.UpdatedAt,
	}
}

// LogToModel converts a domain nutrition log to a GORM model
func LogToModel(l *nutrition.Log) *NutritionLogModel {
	return &NutritionLogModel{
		ID:           l.ID,
		UserID:       l.UserID,
		Date:         l.Date,
		Meals:        l.Meals,
		DailySummary: l.DailySummary,
		Targets:      l.Targets,
		GoalsMet:     l.GoalsMet,
		CreatedAt:    l.CreatedAt,
		UpdatedAt:    l.UpdatedAt,
	}
}

// ModelToLog converts a GORM model to a domain nutrition log
func ModelToLog(model *NutritionLogModel) *nutrition.Log {
	meals := model.Meals
	if meals == nil {
		meals = []nutrition.LoggedMeal{}
	}
	return &nutrition.Log{
		ID:           model.ID,
		UserID:       model.UserID,
		Date:         model.Date.UTC(),
		Meals:        meals,
		DailySummary: model.DailySummary,
		Targets:      model.Targets,
		GoalsMet:     model.GoalsMet,
		CreatedAt:    model.CreatedAt,
		UpdatedAt:    model.UpdatedAt,
	}
}

// GroceryListToModel converts a domain grocery list to a GORM model
func GroceryListToModel(l *grocery.List) *GroceryListModel {
	return &GroceryListModel{
		ID:         l.ID,
		UserID:     l.UserID,
		MealPlanID: l.MealPlanID,
		Name:       l.Name,
		Items:      l.Items,
		CreatedAt:  l.CreatedAt,
		UpdatedAt:  l.UpdatedAt,
	}
}

// ModelToGroceryList converts a GORM model to a domain grocery list
func ModelToGroceryList(model *GroceryListModel) *grocery.List {
	items := model.Items
	if items == nil {
		items = []mealplan.GroceryLine{}
	}
	return &grocery.List{
		ID:         model.ID,
		UserID:     model.UserID,
		MealPlanID: model.MealPlanID,
		Name:       model.Name,
		Items:      items,
		CreatedAt:  model.CreatedAt,
		UpdatedAt:  model.UpdatedAt,
	}
}
