package gorm_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/nutriplan/backend/internal/domain/grocery"
	"github.com/nutriplan/backend/internal/domain/mealplan"
	"github.com/nutriplan/backend/internal/domain/nutrition"
	"github.com/nutriplan/backend/internal/domain/recipe"
	gormrepo "github.com/nutriplan/backend/internal/infrastructure/persistence/gorm"
	"github.com/nutriplan/backend/internal/ports/outbound"
	"github.com/nutriplan/backend/pkg/errors"
	"github.com/nutriplan/backend/test/testutils"
	"github.com/stretchr/testify/suite"
)

type RepositorySuite struct {
	suite.Suite
	ctx      context.Context
	profiles outbound.ProfileRepository
	recipes  outbound.RecipeRepository
	plans    outbound.MealPlanRepository
	logs     outbound.NutritionLogRepository
	lists    outbound.GroceryListRepository
}

func TestRepositorySuite(t *testing.T) {
	suite.Run(t, new(RepositorySuite))
}

func (s *RepositorySuite) SetupTest() {
	db := testutils.NewTestDB(s.T())
	s.ctx = context.Background()
	s.profiles = gormrepo.NewProfileRepository(db)
	s.recipes = gormrepo.NewRecipeRepository(db)
	s.plans = gormrepo.NewMealPlanRepository(db)
	s.logs = gormrepo.NewNutritionLogRepository(db)
	s.lists = gormrepo.NewGroceryListRepository(db)
}

func (s *RepositorySuite) TestProfileUpsert() {
	userID := uuid.New()

	_, err := s.profiles.FindByUserID(s.ctx, userID)
	s.True(errors.Is(err, errors.CodeNotFound))

	p := testutils.NewCompleteProfile(userID)
	p.Allergies = []string{"peanut"}
	s.Require().NoError(s.profiles.Save(s.ctx, p))

	p.WeightKg = 64
	p.Targets.DailyCalories = 1900
	s.Require().NoError(s.profiles.Save(s.ctx, p))

	found, err := s.profiles.FindByUserID(s.ctx, userID)
	s.Require().NoError(err)
	s.Equal(64.0, found.WeightKg)
	s.Equal(1900.0, found.Targets.DailyCalories)
	s.Equal([]string{"peanut"}, found.Allergies)
	s.Equal(p.Gender, found.Gender)
}

func (s *RepositorySuite) TestRecipeRoundTrip() {
	r := testutils.NewRecipeBuilder().WithTags("Vegan", "gluten-free").Build()
	s.Require().NoError(s.recipes.Create(s.ctx, r))

	found, err := s.recipes.FindByID(s.ctx, r.ID)
	s.Require().NoError(err)
	s.Equal(r.Title, found.Title)
	s.Equal(r.Ingredients, found.Ingredients)
	s.Equal([]string{"vegan", "gluten-free"}, found.DietaryTags)
	s.Equal(r.Nutrition, found.Nutrition)
	s.Equal(recipe.StatusPending, found.Status)
	s.Nil(found.ModeratedBy)

	moderator := uuid.New()
	s.Require().NoError(found.Approve(moderator))
	s.Require().NoError(s.recipes.Update(s.ctx, found))

	approved, err := s.recipes.FindByID(s.ctx, r.ID)
	s.Require().NoError(err)
	s.Equal(recipe.StatusApproved, approved.Status)
	s.Require().NotNil(approved.ModeratedBy)
	s.Equal(moderator, *approved.ModeratedBy)
}

func (s *RepositorySuite) TestRecipeNotFound() {
	_, err := s.recipes.FindByID(s.ctx, uuid.New())
	s.True(errors.Is(err, errors.CodeNotFound))

	err = s.recipes.Update(s.ctx, testutils.NewRecipeBuilder().Build())
	s.True(errors.Is(err, errors.CodeNotFound))
}

func (s *RepositorySuite) TestFindByIDsSkipsUnknown() {
	a := testutils.NewRecipeBuilder().Build()
	b := testutils.NewRecipeBuilder().Build()
	s.Require().NoError(s.recipes.Create(s.ctx, a))
	s.Require().NoError(s.recipes.Create(s.ctx, b))

	found, err := s.recipes.FindByIDs(s.ctx, []uuid.UUID{a.ID, uuid.New(), b.ID})
	s.Require().NoError(err)
	s.Len(found, 2)

	none, err := s.recipes.FindByIDs(s.ctx, nil)
	s.Require().NoError(err)
	s.Empty(none)
}

func (s *RepositorySuite) TestListFiltersAndPages() {
	author := uuid.New()
	base := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		b := testutils.NewRecipeBuilder().WithAuthor(author)
		if i%2 == 0 {
			b = b.Approved()
		}
		r := b.Build()
		r.CreatedAt = base.Add(time.Duration(i) * time.Hour)
		s.Require().NoError(s.recipes.Create(s.ctx, r))
	}
	s.Require().NoError(s.recipes.Create(s.ctx, testutils.NewRecipeBuilder().Approved().Build()))

	approved := recipe.StatusApproved
	page, total, err := s.recipes.List(s.ctx, outbound.RecipeFilter{Status: &approved, AuthorID: &author, Limit: 2})
	s.Require().NoError(err)
	s.Equal(3, total)
	s.Require().Len(page, 2)
	s.Equal(base.Add(4*time.Hour), page[0].CreatedAt.UTC())
	s.Equal(base.Add(2*time.Hour), page[1].CreatedAt.UTC())

	rest, total, err := s.recipes.List(s.ctx, outbound.RecipeFilter{Status: &approved, AuthorID: &author, Offset: 2, Limit: 2})
	s.Require().NoError(err)
	s.Equal(3, total)
	s.Require().Len(rest, 1)
	s.Equal(base, rest[0].CreatedAt.UTC())

	_, all, err := s.recipes.List(s.ctx, outbound.RecipeFilter{Limit: 10})
	s.Require().NoError(err)
	s.Equal(6, all)
}

func (s *RepositorySuite) TestFindCandidates() {
	peanut := recipe.Ingredient{Name: "Peanut butter", Quantity: 30, Unit: "g"}
	oats := recipe.Ingredient{Name: "Oats", Quantity: 50, Unit: "g"}

	fits := testutils.NewRecipeBuilder().WithTags("vegan").WithCuisine("Thai").WithTimes(10, 20).Approved().Build()
	slow := testutils.NewRecipeBuilder().WithTags("vegan").WithCuisine("thai").WithTimes(10, 90).Approved().Build()
	wrongTag := testutils.NewRecipeBuilder().WithTags("vegetarian").WithCuisine("thai").WithTimes(5, 5).Approved().Build()
	allergen := testutils.NewRecipeBuilder().WithTags("vegan").WithCuisine("thai").WithTimes(5, 5).
		WithIngredients(oats, peanut).Approved().Build()
	pending := testutils.NewRecipeBuilder().WithTags("vegan").WithCuisine("thai").WithTimes(5, 5).Build()
	for _, r := range []*recipe.Recipe{fits, slow, wrongTag, allergen, pending} {
		s.Require().NoError(s.recipes.Create(s.ctx, r))
	}

	maxCook := 30
	criteria := mealplan.CandidateCriteria{
		DietaryTag:          "vegan",
		Cuisines:            []string{"thai"},
		ExcludedIngredients: []string{"peanut butter"},
		MaxCookTimeMin:      &maxCook,
	}

	found, err := s.recipes.FindCandidates(s.ctx, criteria, 10)
	s.Require().NoError(err)
	s.Require().Len(found, 1)
	s.Equal(fits.ID, found[0].ID)

	capped, err := s.recipes.FindCandidates(s.ctx, mealplan.CandidateCriteria{}, 2)
	s.Require().NoError(err)
	s.Len(capped, 2)

	none, err := s.recipes.FindCandidates(s.ctx, mealplan.CandidateCriteria{}, 0)
	s.Require().NoError(err)
	s.Empty(none)
}

func (s *RepositorySuite) TestFindCandidatesReadsPastFilteredPage() {
	peanut := recipe.Ingredient{Name: "Peanut butter", Quantity: 30, Unit: "g"}
	oats := recipe.Ingredient{Name: "Oats", Quantity: 50, Unit: "g"}
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	// newest first, so the only match is on the second page
	for i := 0; i < 120; i++ {
		r := testutils.NewRecipeBuilder().WithIngredients(peanut).Approved().Build()
		r.CreatedAt = base.Add(time.Duration(i+1) * time.Minute)
		s.Require().NoError(s.recipes.Create(s.ctx, r))
	}
	clean := testutils.NewRecipeBuilder().WithIngredients(oats).Approved().Build()
	clean.CreatedAt = base
	s.Require().NoError(s.recipes.Create(s.ctx, clean))

	found, err := s.recipes.FindCandidates(s.ctx, mealplan.CandidateCriteria{
		ExcludedIngredients: []string{"peanut butter"},
	}, 10)
	s.Require().NoError(err)
	s.Require().Len(found, 1)
	s.Equal(clean.ID, found[0].ID)
}

func (s *RepositorySuite) TestMealPlanRoundTrip() {
	r := testutils.NewRecipeBuilder().Approved().Build()
	userID := uuid.New()
	start := time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)

	plan, err := mealplan.NewMealPlan(userID, 2, start, mealplan.Preferences{Cuisine: []string{"italian"}})
	s.Require().NoError(err)
	id := r.ID
	s.Require().NoError(plan.Days[0].Meals.Add(mealplan.Breakfast, mealplan.MealSlot{RecipeID: &id}))
	plan.RecomputeNutrition(recipe.NewIndex(r))
	plan.GroceryList = mealplan.Consolidate(plan.Days, recipe.NewIndex(r))
	s.Require().NoError(s.plans.Create(s.ctx, plan))

	found, err := s.plans.FindByID(s.ctx, plan.ID)
	s.Require().NoError(err)
	s.Equal(start, found.StartDate)
	s.Equal(start.AddDate(0, 0, 1), found.EndDate)
	s.Equal([]string{"italian"}, found.Preferences.Cuisine)
	s.Require().Len(found.Days, 2)
	s.Equal(id, *found.Days[0].Meals[mealplan.Breakfast][0].RecipeID)
	s.NotNil(found.Days[1].Meals)
	s.Equal(plan.NutritionSummary, found.NutritionSummary)
	s.Len(found.GroceryList, len(plan.GroceryList))

	s.Require().NoError(found.MarkConsumed(mealplan.SlotRef{DayNumber: 1, Category: mealplan.Breakfast, Index: 0}, true))
	s.Require().NoError(s.plans.Update(s.ctx, found))

	updated, err := s.plans.FindByID(s.ctx, plan.ID)
	s.Require().NoError(err)
	s.True(updated.Days[0].Meals[mealplan.Breakfast][0].Consumed)
	s.Equal(100.0, updated.CompletionRate)

	_, err = s.plans.FindByID(s.ctx, uuid.New())
	s.True(errors.Is(err, errors.CodeNotFound))
}

func (s *RepositorySuite) TestMealPlansByUser() {
	userID := uuid.New()
	base := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		plan, err := mealplan.NewMealPlan(userID, 1, base.AddDate(0, 0, i), mealplan.Preferences{})
		s.Require().NoError(err)
		plan.CreatedAt = base.Add(time.Duration(i) * time.Hour)
		s.Require().NoError(s.plans.Create(s.ctx, plan))
	}
	other, err := mealplan.NewMealPlan(uuid.New(), 1, base, mealplan.Preferences{})
	s.Require().NoError(err)
	s.Require().NoError(s.plans.Create(s.ctx, other))

	plans, total, err := s.plans.FindByUserID(s.ctx, userID, 0, 2)
	s.Require().NoError(err)
	s.Equal(3, total)
	s.Require().Len(plans, 2)
	s.Equal(base.AddDate(0, 0, 2), plans[0].StartDate)
	s.Equal(base.AddDate(0, 0, 1), plans[1].StartDate)
}

func (s *RepositorySuite) TestNutritionLogGetOrCreateIsIdempotent() {
	userID := uuid.New()
	day := time.Date(2026, 10, 15, 18, 30, 0, 0, time.UTC)

	first, err := s.logs.GetOrCreate(s.ctx, userID, day, nutrition.DefaultTargets)
	s.Require().NoError(err)
	s.Equal(time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC), first.Date)
	s.Equal(nutrition.DefaultTargets, first.Targets)
	s.Empty(first.Meals)

	other := nutrition.DefaultTargets
	other.DailyCalories = 2500
	second, err := s.logs.GetOrCreate(s.ctx, userID, day.Add(-10*time.Hour), other)
	s.Require().NoError(err)
	s.Equal(first.ID, second.ID)
	s.Equal(nutrition.DefaultTargets, second.Targets)
}

func (s *RepositorySuite) TestNutritionLogSaveAndRange() {
	userID := uuid.New()
	monday := time.Date(2026, 10, 12, 0, 0, 0, 0, time.UTC)

	log, err := s.logs.GetOrCreate(s.ctx, userID, monday, nutrition.DefaultTargets)
	s.Require().NoError(err)
	_, err = log.LogMeal(nutrition.MealEntry{
		MealType: nutrition.MealLunch,
		Source: nutrition.MealSource{Custom: &nutrition.CustomMeal{
			Name: "Salad",
			Ingredients: []recipe.Ingredient{
				{Name: "Lettuce", Quantity: 100, Nutrition: &recipe.Nutrition{Calories: 15, Protein: 1.4, Carbs: 2.9, Fats: 0.2}},
			},
		}},
	}, recipe.NewIndex())
	s.Require().NoError(err)
	s.Require().NoError(log.UpdateWaterIntake(750))
	s.Require().NoError(s.logs.Save(s.ctx, log))

	_, err = s.logs.GetOrCreate(s.ctx, userID, monday.AddDate(0, 0, 3), nutrition.DefaultTargets)
	s.Require().NoError(err)
	_, err = s.logs.GetOrCreate(s.ctx, uuid.New(), monday.AddDate(0, 0, 1), nutrition.DefaultTargets)
	s.Require().NoError(err)

	found, err := s.logs.FindByDate(s.ctx, userID, monday.Add(9*time.Hour))
	s.Require().NoError(err)
	s.Require().Len(found.Meals, 1)
	s.Equal("Salad", found.Meals[0].CustomMeal.Name)
	s.Equal(15.0, found.DailySummary.Calories)
	s.Equal(750.0, found.DailySummary.WaterIntake)

	week, err := s.logs.FindRange(s.ctx, userID, monday, monday.AddDate(0, 0, 6))
	s.Require().NoError(err)
	s.Require().Len(week, 2)
	s.Equal(monday, week[0].Date)
	s.Equal(monday.AddDate(0, 0, 3), week[1].Date)

	_, err = s.logs.FindByDate(s.ctx, userID, monday.AddDate(0, 0, 1))
	s.True(errors.Is(err, errors.CodeNotFound))
}

func (s *RepositorySuite) TestGroceryLists() {
	userID := uuid.New()

	list, err := grocery.NewList(userID, "Weekend")
	s.Require().NoError(err)
	_, err = list.AddItem("Rice", 500, "g", "grains")
	s.Require().NoError(err)
	s.Require().NoError(s.lists.Create(s.ctx, list))

	s.Require().NoError(list.SetPurchased("rice", true))
	s.Require().NoError(s.lists.Update(s.ctx, list))

	found, err := s.lists.FindByID(s.ctx, list.ID)
	s.Require().NoError(err)
	s.Equal("Weekend", found.Name)
	s.Require().Len(found.Items, 1)
	s.True(found.Items[0].Purchased)
	s.Nil(found.MealPlanID)

	second, err := grocery.NewList(userID, "Later")
	s.Require().NoError(err)
	second.CreatedAt = list.CreatedAt.Add(time.Minute)
	s.Require().NoError(s.lists.Create(s.ctx, second))

	lists, err := s.lists.FindByUserID(s.ctx, userID)
	s.Require().NoError(err)
	s.Require().Len(lists, 2)
	s.Equal(second.ID, lists[0].ID)

	_, err = s.lists.FindByID(s.ctx, uuid.New())
	s.True(errors.Is(err, errors.CodeNotFound))
}
