package recipe

import "github.com/google/uuid"

// Lookup resolves a recipe reference. Implementations return false for
// unknown ids.
type Lookup interface {
	Recipe(id uuid.UUID) (*Recipe, bool)
}

// Index is an in-memory Lookup over a loaded set of recipes
type Index map[uuid.UUID]*Recipe

// NewIndex indexes recipes by id
func NewIndex(recipes ...*Recipe) Index {
	idx := make(Index, len(recipes))
	for _, r := range recipes {
		if r != nil {
			idx[r.ID] = r
		}
	}
	return idx
}

// Recipe implements Lookup
func (idx Index) Recipe(id uuid.UUID) (*Recipe, bool) {
	r, ok := idx[id]
	return r, ok
}
