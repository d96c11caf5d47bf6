// Package sqlite provides SQLite database setup and configuration
package sqlite

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/nutriplan/backend/internal/domain/recipe"
	gormrepo "github.com/nutriplan/backend/internal/infrastructure/persistence/gorm"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SetupDatabase opens the SQLite database at dbPath and migrates the schema.
// An empty path opens a private in-memory database.
func SetupDatabase(dbPath string, log logger.Interface) (*gorm.DB, error) {
	inMemory := dbPath == "" || strings.Contains(dbPath, ":memory:")
	if dbPath == "" {
		dbPath = ":memory:"
	}
	if !inMemory && !strings.Contains(dbPath, "?") {
		dbPath += "?_busy_timeout=5000&_journal_mode=WAL"
	}

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{Logger: log})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Every connection to ":memory:" is a separate database
	if inMemory {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
		}
		sqlDB.SetMaxOpenConns(1)
	}

	if err := db.AutoMigrate(gormrepo.AllModels()...); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return db, nil
}

// demoAuthor owns the seeded recipes
var demoAuthor = uuid.MustParse("00000000-0000-4000-8000-000000000001")

// SeedDatabase populates an empty catalog with approved demo recipes
func SeedDatabase(ctx context.Context, db *gorm.DB) error {
	var count int64
	if err := db.WithContext(ctx).Model(&gormrepo.RecipeModel{}).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to count recipes: %w", err)
	}
	if count > 0 {
		return nil // Already seeded
	}

	repo := gormrepo.NewRecipeRepository(db)
	for _, details := range demoRecipes() {
		r, err := recipe.NewRecipe(demoAuthor, details)
		if err != nil {
			return fmt.Errorf("invalid demo recipe %q: %w", details.Title, err)
		}
		if err := r.Approve(demoAuthor); err != nil {
			return err
		}
		if err := repo.Create(ctx, r); err != nil {
			return fmt.Errorf("failed to create demo recipe: %w", err)
		}
	}

	return nil
}

func per(cal, protein, carbs, fats, fiber float64) *recipe.Nutrition {
	return &recipe.Nutrition{Calories: cal, Protein: protein, Carbs: carbs, Fats: fats, Fiber: fiber}
}

func demoRecipes() []recipe.Details {
	return []recipe.Details{
		{
			Title:       "Overnight Oats",
			Description: "Rolled oats soaked in milk with berries",
			Ingredients: []recipe.Ingredient{
				{Name: "Rolled oats", Quantity: 50, Unit: "g", Category: "grains", Nutrition: per(190, 6.5, 33, 3.5, 5)},
				{Name: "Milk", Quantity: 200, Unit: "ml", Category: "dairy", Nutrition: per(100, 7, 10, 3.5, 0)},
				{Name: "Blueberries", Quantity: 80, Unit: "g", Category: "produce", Nutrition: per(45, 0.5, 11, 0.3, 2)},
			},
			Instructions: []string{"Mix oats and milk in a jar", "Refrigerate overnight", "Top with blueberries"},
			DietaryTags:  []string{"vegetarian"},
			Cuisine:      "american",
			PrepTimeMin:  5,
			Servings:     1,
			Difficulty:   recipe.DifficultyEasy,
		},
		{
			Title:       "Chicken Quinoa Bowl",
			Description: "Grilled chicken over quinoa with roasted vegetables",
			Ingredients: []recipe.Ingredient{
				{Name: "Chicken breast", Quantity: 150, Unit: "g", Category: "meat", Nutrition: per(250, 46, 0, 5.5, 0)},
				{Name: "Quinoa", Quantity: 75, Unit: "g", Category: "grains", Nutrition: per(270, 10, 48, 4.5, 5)},
				{Name: "Bell pepper", Quantity: 1, Unit: "piece", Category: "produce", Nutrition: per(30, 1, 7, 0.3, 2.5)},
				{Name: "Olive oil", Quantity: 10, Unit: "ml", Category: "pantry", Nutrition: per(90, 0, 0, 10, 0)},
			},
			Instructions: []string{"Cook the quinoa", "Grill the chicken", "Roast the pepper", "Assemble the bowl"},
			DietaryTags:  []string{"gluten-free", "high-protein"},
			Cuisine:      "mediterranean",
			PrepTimeMin:  15,
			CookTimeMin:  25,
			Servings:     1,
			Difficulty:   recipe.DifficultyMedium,
		},
		{
			Title:       "Lentil Curry",
			Description: "Red lentils simmered with tomato and spices",
			Ingredients: []recipe.Ingredient{
				{Name: "Red lentils", Quantity: 100, Unit: "g", Category: "grains", Nutrition: per(350, 24, 60, 1, 11)},
				{Name: "Chopped tomatoes", Quantity: 200, Unit: "g", Category: "produce", Nutrition: per(40, 2, 7, 0.4, 2)},
				{Name: "Coconut milk", Quantity: 100, Unit: "ml", Category: "pantry", Nutrition: per(180, 2, 3, 18, 0)},
			},
			Instructions: []string{"Rinse the lentils", "Simmer everything for 25 minutes"},
			DietaryTags:  []string{"vegan", "vegetarian", "gluten-free"},
			Cuisine:      "indian",
			PrepTimeMin:  10,
			CookTimeMin:  25,
			Servings:     2,
			Difficulty:   recipe.DifficultyEasy,
		},
		{
			Title:       "Greek Yogurt Parfait",
			Description: "Layers of yogurt, honey and walnuts",
			Ingredients: []recipe.Ingredient{
				{Name: "Greek yogurt", Quantity: 170, Unit: "g", Category: "dairy", Nutrition: per(100, 17, 6, 0.7, 0)},
				{Name: "Honey", Quantity: 15, Unit: "g", Category: "pantry", Nutrition: per(45, 0, 12, 0, 0)},
				{Name: "Walnuts", Quantity: 15, Unit: "g", Category: "pantry", Nutrition: per(100, 2.3, 2, 10, 1)},
			},
			Instructions: []string{"Layer yogurt, honey and walnuts in a glass"},
			DietaryTags:  []string{"vegetarian", "gluten-free"},
			Cuisine:      "greek",
			PrepTimeMin:  5,
			Servings:     1,
			Difficulty:   recipe.DifficultyEasy,
		},
	}
}
