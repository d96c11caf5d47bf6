package mealplan

import (
	"strings"

	"github.com/nutriplan/backend/internal/domain/profile"
	"github.com/nutriplan/backend/internal/domain/recipe"
)

// CandidateCriteria is the filter applied to the recipe catalog when
// building a generation pool. All set fields are ANDed; only approved
// recipes ever match.
type CandidateCriteria struct {
	DietaryTag          string
	Cuisines            []string
	ExcludedIngredients []string
	MaxPrepTimeMin      *int
	MaxCookTimeMin      *int
}

// BuildCriteria derives the catalog filter from a profile and preferences.
// The preferences' dietary preference wins over the profile's; "none" skips
// the tag filter.
func BuildCriteria(p profile.Profile, prefs Preferences) CandidateCriteria {
	diet := strings.ToLower(strings.TrimSpace(prefs.DietaryPreference))
	if diet == "" {
		diet = string(p.DietaryPreference)
	}
	if diet == string(profile.DietNone) {
		diet = ""
	}

	return CandidateCriteria{
		DietaryTag:          diet,
		Cuisines:            normalizeAll(prefs.Cuisine),
		ExcludedIngredients: normalizeAll(prefs.ExcludedIngredients),
		MaxPrepTimeMin:      prefs.MaxPrepTimeMin,
		MaxCookTimeMin:      prefs.MaxCookTimeMin,
	}
}

// Matches evaluates the criteria against a single recipe
func (c CandidateCriteria) Matches(r *recipe.Recipe) bool {
	if r == nil || !r.IsApproved() {
		return false
	}
	if c.DietaryTag != "" && !r.HasTag(c.DietaryTag) {
		return false
	}
	if len(c.Cuisines) > 0 && !contains(c.Cuisines, strings.ToLower(r.Cuisine)) {
		return false
	}
	for _, excluded := range c.ExcludedIngredients {
		if r.ContainsIngredient(excluded) {
			return false
		}
	}
	if c.MaxPrepTimeMin != nil && r.PrepTimeMin > *c.MaxPrepTimeMin {
		return false
	}
	if c.MaxCookTimeMin != nil && r.CookTimeMin > *c.MaxCookTimeMin {
		return false
	}
	return true
}

// Filter keeps matching recipes in order, stopping at limit (limit <= 0 means no cap)
func (c CandidateCriteria) Filter(recipes []*recipe.Recipe, limit int) []*recipe.Recipe {
	out := make([]*recipe.Recipe, 0, len(recipes))
	for _, r := range recipes {
		if limit > 0 && len(out) == limit {
			break
		}
		if c.Matches(r) {
			out = append(out, r)
		}
	}
	return out
}

func normalizeAll(values []string) []string {
	var out []string
	for _, v := range values {
		if v = strings.ToLower(strings.TrimSpace(v)); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func contains(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}
