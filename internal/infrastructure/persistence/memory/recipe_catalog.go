package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/fitplate/engine/internal/domain/recipe"
	"github.com/fitplate/engine/internal/ports/outbound"
	"github.com/google/uuid"
)

// RecipeCatalog implements an in-memory recipe catalog with full filter
// support. Search results are sorted by name so callers see a stable
// order.
type RecipeCatalog struct {
	recipes map[uuid.UUID]recipe.Recipe
	mutex   sync.RWMutex
}

// NewRecipeCatalog creates an empty in-memory catalog.
func NewRecipeCatalog() *RecipeCatalog {
	return &RecipeCatalog{
		recipes: make(map[uuid.UUID]recipe.Recipe),
	}
}

// Add stores a recipe in the catalog, replacing any previous version.
func (c *RecipeCatalog) Add(r recipe.Recipe) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.recipes[r.ID] = r
}

// AddAll stores a batch of recipes.
func (c *RecipeCatalog) AddAll(recipes []recipe.Recipe) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	for _, r := range recipes {
		c.recipes[r.ID] = r
	}
}

// Search returns recipes matching every non-zero filter dimension.
func (c *RecipeCatalog) Search(ctx context.Context, filter outbound.CatalogFilter) ([]recipe.Recipe, error) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	var matched []recipe.Recipe
	for _, r := range c.recipes {
		if matches(r, filter) {
			matched = append(matched, r)
		}
	}

	sort.Slice(matched, func(i, j int) bool { return matched[i].Name < matched[j].Name })

	if filter.Limit > 0 && len(matched) > filter.Limit {
		matched = matched[:filter.Limit]
	}
	return matched, nil
}

func matches(r recipe.Recipe, f outbound.CatalogFilter) bool {
	if f.ApprovedOnly && !r.Approved {
		return false
	}
	if f.MealType != "" && !r.SupportsMealType(f.MealType) {
		return false
	}
	for _, tag := range f.DietaryTags {
		if !r.HasTag(tag) {
			return false
		}
	}
	if f.Cuisine != "" && r.Cuisine != f.Cuisine {
		return false
	}
	if f.Season != "" && !r.InSeason(f.Season) {
		return false
	}
	if f.Difficulty != "" && r.Difficulty != f.Difficulty {
		return false
	}
	if f.MaxCalories != nil && r.Nutrition.Calories > *f.MaxCalories {
		return false
	}
	if f.MinProtein != nil && r.Nutrition.Protein < *f.MinProtein {
		return false
	}
	for _, excluded := range f.ExcludeIngredients {
		if r.ContainsIngredient(strings.TrimSpace(excluded)) {
			return false
		}
	}
	return true
}
