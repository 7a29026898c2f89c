// Package recipes resolves nutrition facts from the locally maintained
// recipe dataset. Lookups are pure and in-memory; "no match" is the normal
// outcome for items the installation has no recipe card for.
package recipes

import (
	"strings"

	"github.com/dfac-tools/menubuilder/models"
	"github.com/dfac-tools/menubuilder/textmatch"
)

// Recipe-card names drift less than menu spellings, so near matches need a
// much tighter floor than the external search.
const defaultNameFloor = 0.7

// Store indexes the recipe dataset by recipe code and normalized name.
type Store struct {
	byID      map[string]*models.RecipeNutrition
	byName    map[string]*models.RecipeNutrition
	names     []string // insertion order, for deterministic near-match ties
	nameFloor float64
}

// NewStore indexes the given recipe rows. Later rows never displace earlier
// ones on key collision.
func NewStore(rows []models.RecipeNutrition) *Store {
	s := &Store{
		byID:      make(map[string]*models.RecipeNutrition, len(rows)),
		byName:    make(map[string]*models.RecipeNutrition, len(rows)),
		nameFloor: defaultNameFloor,
	}
	for i := range rows {
		row := &rows[i]
		dropNegativeFields(row)
		if id := strings.ToUpper(strings.TrimSpace(row.RecipeID)); id != "" {
			if _, dup := s.byID[id]; !dup {
				s.byID[id] = row
			}
		}
		if key := textmatch.Normalize(row.Name); key != "" {
			if _, dup := s.byName[key]; !dup {
				s.byName[key] = row
				s.names = append(s.names, key)
			}
		}
	}
	return s
}

// dropNegativeFields clears nutrient values below zero. Hand-maintained
// seed rows occasionally carry sentinel values like -1; absence is the
// honest representation, and it keeps a bad row from tagging its item as
// recipe-sourced.
func dropNegativeFields(row *models.RecipeNutrition) {
	slots := []**float64{
		&row.Calories, &row.ProteinG, &row.CarbsG, &row.FatG,
		&row.FiberG, &row.SodiumMg, &row.SugarG,
	}
	for _, f := range slots {
		if *f != nil && **f < 0 {
			*f = nil
		}
	}
}

// Len reports how many recipe rows are indexed by name.
func (s *Store) Len() int {
	return len(s.names)
}

// Lookup returns the recipe facts for an item: recipe code first, then
// exact normalized name, then the closest name at or above the floor.
// ok is false when the dataset simply has nothing for this item.
func (s *Store) Lookup(item models.MenuItem) (*models.NutritionFacts, bool) {
	if id := strings.ToUpper(strings.TrimSpace(item.RecipeID)); id != "" {
		if row, ok := s.byID[id]; ok {
			facts := row.Facts()
			return &facts, true
		}
	}

	key := textmatch.Normalize(item.Name)
	if key == "" {
		return nil, false
	}
	if row, ok := s.byName[key]; ok {
		facts := row.Facts()
		return &facts, true
	}

	var bestRow *models.RecipeNutrition
	bestScore := 0.0
	for _, name := range s.names {
		score := textmatch.Similarity(key, name)
		if score >= s.nameFloor && score > bestScore {
			bestScore = score
			bestRow = s.byName[name]
		}
	}
	if bestRow == nil {
		return nil, false
	}
	facts := bestRow.Facts()
	return &facts, true
}
