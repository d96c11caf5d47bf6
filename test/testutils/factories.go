// Package testutils provides test data factories for consistent test data generation
package testutils

import (
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
	"github.com/nutriplan/backend/internal/domain/profile"
	"github.com/nutriplan/backend/internal/domain/recipe"
)

// RecipeBuilder provides a fluent interface for building test recipes
type RecipeBuilder struct {
	faker    *gofakeit.Faker
	authorID uuid.UUID
	details  recipe.Details
	approved bool
}

// NewRecipeBuilder creates a new recipe builder with fake but valid values
func NewRecipeBuilder() *RecipeBuilder {
	faker := gofakeit.New(time.Now().UnixNano())

	return &RecipeBuilder{
		faker:    faker,
		authorID: uuid.New(),
		details: recipe.Details{
			Title:       faker.Lunch(),
			Description: faker.Sentence(8),
			Ingredients: []recipe.Ingredient{
				fakeIngredient(faker, faker.Vegetable()),
				fakeIngredient(faker, faker.Fruit()),
			},
			Instructions: []string{faker.Sentence(5), faker.Sentence(6)},
			Cuisine:      "italian",
			PrepTimeMin:  faker.Number(5, 20),
			CookTimeMin:  faker.Number(5, 40),
			Servings:     faker.Number(1, 4),
			Difficulty:   recipe.DifficultyEasy,
		},
	}
}

func fakeIngredient(faker *gofakeit.Faker, name string) recipe.Ingredient {
	return recipe.Ingredient{
		Name:     name,
		Quantity: float64(faker.Number(1, 300)),
		Unit:     faker.RandomString([]string{"g", "ml", "piece"}),
		Category: "produce",
		Nutrition: &recipe.Nutrition{
			Calories: float64(faker.Number(20, 400)),
			Protein:  float64(faker.Number(0, 30)),
			Carbs:    float64(faker.Number(0, 60)),
			Fats:     float64(faker.Number(0, 20)),
		},
	}
}

// WithTitle sets the recipe title
func (rb *RecipeBuilder) WithTitle(title string) *RecipeBuilder {
	rb.details.Title = title
	return rb
}

// WithAuthor sets the author
func (rb *RecipeBuilder) WithAuthor(authorID uuid.UUID) *RecipeBuilder {
	rb.authorID = authorID
	return rb
}

// WithIngredients replaces the ingredient list
func (rb *RecipeBuilder) WithIngredients(ingredients ...recipe.Ingredient) *RecipeBuilder {
	rb.details.Ingredients = ingredients
	return rb
}

// WithTags sets the dietary tags
func (rb *RecipeBuilder) WithTags(tags ...string) *RecipeBuilder {
	rb.details.DietaryTags = tags
	return rb
}

// WithCuisine sets the cuisine
func (rb *RecipeBuilder) WithCuisine(cuisine string) *RecipeBuilder {
	rb.details.Cuisine = cuisine
	return rb
}

// WithTimes sets prep and cook minutes
func (rb *RecipeBuilder) WithTimes(prep, cook int) *RecipeBuilder {
	rb.details.PrepTimeMin = prep
	rb.details.CookTimeMin = cook
	return rb
}

// Approved marks the built recipe as approved
func (rb *RecipeBuilder) Approved() *RecipeBuilder {
	rb.approved = true
	return rb
}

// Details returns the raw input
func (rb *RecipeBuilder) Details() recipe.Details {
	return rb.details
}

// Build creates the recipe, panicking on invalid input. Pending events are cleared.
func (rb *RecipeBuilder) Build() *recipe.Recipe {
	r, err := recipe.NewRecipe(rb.authorID, rb.details)
	if err != nil {
		panic(err)
	}
	if rb.approved {
		if err := r.Approve(uuid.New()); err != nil {
			panic(err)
		}
	}
	r.Events()
	return r
}

// ApprovedRecipes builds n approved recipes
func ApprovedRecipes(n int) []*recipe.Recipe {
	out := make([]*recipe.Recipe, n)
	for i := range out {
		out[i] = NewRecipeBuilder().Approved().Build()
	}
	return out
}

// NewCompleteProfile returns a profile with valid metrics and computed targets
func NewCompleteProfile(userID uuid.UUID) *profile.Profile {
	faker := gofakeit.New(time.Now().UnixNano())
	p := &profile.Profile{
		UserID:            userID,
		Age:               faker.Number(18, 80),
		Gender:            profile.Gender(faker.RandomString([]string{"male", "female", "other"})),
		HeightCm:          float64(faker.Number(150, 200)),
		WeightKg:          float64(faker.Number(50, 120)),
		Goal:              profile.Goal(faker.RandomString([]string{"weight_loss", "maintenance", "muscle_gain"})),
		ActivityLevel:     profile.ActivityLevel(faker.RandomString([]string{"sedentary", "light", "moderate", "active", "very_active"})),
		DietaryPreference: profile.DietNone,
	}
	targets, err := profile.ComputeTargets(*p)
	if err != nil {
		panic(err)
	}
	p.Targets = targets.MacroTargets()
	return p
}
