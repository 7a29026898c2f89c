// Package records assembles the final per-day record set: validation,
// dedup-by-preference, stable ordering, and output-precision rounding.
package records

import (
	"fmt"
	"math"
	"sort"

	"github.com/dfac-tools/menubuilder/models"
	"github.com/dfac-tools/menubuilder/textmatch"
)

// ValidationError marks a malformed assembled record. Fatal for the run.
type ValidationError struct {
	Date string
	Meal string
	Item string
	Msg  string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid record (date=%s meal=%s item=%q): %s", e.Date, e.Meal, e.Item, e.Msg)
}

// Resolved is one item with its merged nutrition, ready for assembly.
type Resolved struct {
	Item   models.MenuItem
	Facts  models.NutritionFacts
	Source models.NutritionSource
}

// Assemble validates, deduplicates and orders a run's resolved items into
// the final DailyMenuRecord sequence.
//
// Identity is (date, meal, normalized name). Of duplicate records the one
// with more populated nutrition fields survives; a tie keeps the first
// encountered. Output is ordered by meal (Breakfast < Lunch < Dinner),
// then by original parse order within the meal.
func Assemble(resolved []Resolved) ([]models.DailyMenuRecord, error) {
	type slot struct {
		rec       models.DailyMenuRecord
		populated int
		order     int
	}

	index := make(map[string]int)
	var slots []slot

	for i, res := range resolved {
		it := res.Item
		if it.Name == "" {
			return nil, &ValidationError{Date: it.Date, Meal: it.Meal.String(), Msg: "empty item name"}
		}
		if !it.Meal.Valid() {
			return nil, &ValidationError{Date: it.Date, Meal: it.Meal.String(), Item: it.Name, Msg: "unrecognized meal"}
		}

		itemKey := textmatch.Normalize(it.Name)
		rec := models.DailyMenuRecord{
			MenuDate: it.Date,
			Meal:     it.Meal.String(),
			Item:     it.Name,
			ItemKey:  itemKey,
			Source:   res.Source,
			RecipeID: it.RecipeID,
		}
		facts := roundFacts(res.Facts)
		rec.SetFacts(facts)
		populated := facts.PopulatedCount()

		key := fmt.Sprintf("%s|%d|%s", it.Date, it.Meal, itemKey)
		if at, seen := index[key]; seen {
			if populated > slots[at].populated {
				order := slots[at].order
				slots[at] = slot{rec: rec, populated: populated, order: order}
			}
			continue
		}
		index[key] = len(slots)
		slots = append(slots, slot{rec: rec, populated: populated, order: i})
	}

	sort.SliceStable(slots, func(a, b int) bool {
		if slots[a].rec.Meal != slots[b].rec.Meal {
			return mealRank(slots[a].rec.Meal) < mealRank(slots[b].rec.Meal)
		}
		return slots[a].order < slots[b].order
	})

	out := make([]models.DailyMenuRecord, 0, len(slots))
	for _, s := range slots {
		out = append(out, s.rec)
	}
	return out, nil
}

func mealRank(meal string) int {
	m, _ := models.ParseMeal(meal)
	return int(m)
}

// roundFacts applies the documented output precision: two decimals for
// macros, fiber and sugar; whole milligrams for sodium; whole calories.
// Negative values are dropped; no nutrient can be less than zero, so a
// negative field is bad source data, not a measurement.
func roundFacts(n models.NutritionFacts) models.NutritionFacts {
	return models.NutritionFacts{
		Calories: roundTo(n.Calories, 0),
		ProteinG: roundTo(n.ProteinG, 2),
		CarbsG:   roundTo(n.CarbsG, 2),
		FatG:     roundTo(n.FatG, 2),
		FiberG:   roundTo(n.FiberG, 2),
		SodiumMg: roundTo(n.SodiumMg, 0),
		SugarG:   roundTo(n.SugarG, 2),
	}
}

func roundTo(v *float64, decimals int) *float64 {
	if v == nil || *v < 0 {
		return nil
	}
	scale := math.Pow(10, float64(decimals))
	r := math.Round(*v*scale) / scale
	return &r
}
