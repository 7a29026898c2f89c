package models

import (
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
)

// Meal identifies the meal period an item belongs to. The numeric order
// (Breakfast < Lunch < Dinner) is the output ordering.
type Meal int

const (
	Breakfast Meal = iota
	Lunch
	Dinner
)

func (m Meal) String() string {
	switch m {
	case Breakfast:
		return "Breakfast"
	case Lunch:
		return "Lunch"
	case Dinner:
		return "Dinner"
	}
	return fmt.Sprintf("Meal(%d)", int(m))
}

// Valid reports whether m is one of the three known meal periods.
func (m Meal) Valid() bool {
	return m >= Breakfast && m <= Dinner
}

// ParseMeal maps a meal label (or the single-letter filename token used by
// the DFAC exports: B, L, D) to a Meal.
func ParseMeal(s string) (Meal, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "B", "BREAKFAST":
		return Breakfast, true
	case "L", "LUNCH":
		return Lunch, true
	case "D", "DINNER":
		return Dinner, true
	}
	return 0, false
}

// NutritionSource records which origin populated a record's nutrition
// fields. Empty means no source populated anything.
type NutritionSource string

const (
	SourceNone   NutritionSource = ""
	SourceRecipe NutritionSource = "Recipe"
	SourceUSDA   NutritionSource = "USDA"
	SourceMixed  NutritionSource = "Mixed"
)

// NutritionFacts holds the seven tracked nutrients. Nil means the value is
// unknown, which is distinct from zero.
type NutritionFacts struct {
	Calories *float64 `json:"Calories"`
	ProteinG *float64 `json:"Protein_g"`
	CarbsG   *float64 `json:"Carbs_g"`
	FatG     *float64 `json:"Fat_g"`
	FiberG   *float64 `json:"Fiber_g"`
	SodiumMg *float64 `json:"Sodium_mg"`
	SugarG   *float64 `json:"Sugar_g"`
}

// Fields returns pointers to the seven nutrient slots in the fixed output
// column order, so callers can iterate instead of spelling each field out.
func (n *NutritionFacts) Fields() []**float64 {
	return []**float64{&n.Calories, &n.ProteinG, &n.CarbsG, &n.FatG, &n.FiberG, &n.SodiumMg, &n.SugarG}
}

// FieldNames lists the output column names matching Fields order.
func FieldNames() []string {
	return []string{"Calories", "Protein_g", "Carbs_g", "Fat_g", "Fiber_g", "Sodium_mg", "Sugar_g"}
}

// PopulatedCount reports how many of the seven fields are present.
func (n *NutritionFacts) PopulatedCount() int {
	count := 0
	for _, f := range n.Fields() {
		if *f != nil {
			count++
		}
	}
	return count
}

// Complete reports whether every field is present.
func (n *NutritionFacts) Complete() bool {
	return n.PopulatedCount() == 7
}

// MenuItem is one parsed menu line: what is served, at which meal, on which
// date. Nutrition is attached later by the resolvers.
type MenuItem struct {
	Date     string `json:"date"` // YYYY-MM-DD
	Meal     Meal   `json:"meal"`
	Name     string `json:"name"`
	RecipeID string `json:"recipe_id,omitempty"`
	Category string `json:"category,omitempty"`
}

// DailyMenuRecord is the final output row handed to serialization and to
// the accumulated record table. ItemKey is the normalized item name; the
// unique identity across appended batches is (MenuDate, Meal, ItemKey).
type DailyMenuRecord struct {
	ID       uint   `gorm:"primaryKey" json:"-"`
	MenuDate string `gorm:"size:10;not null;uniqueIndex:idx_menu_record_key" json:"MenuDate"`
	Meal     string `gorm:"size:16;not null;uniqueIndex:idx_menu_record_key" json:"Meal"`
	Item     string `gorm:"size:255;not null" json:"Item"`
	ItemKey  string `gorm:"size:255;not null;uniqueIndex:idx_menu_record_key" json:"-"`

	Calories *float64 `json:"Calories"`
	ProteinG *float64 `json:"Protein_g"`
	CarbsG   *float64 `json:"Carbs_g"`
	FatG     *float64 `json:"Fat_g"`
	FiberG   *float64 `json:"Fiber_g"`
	SodiumMg *float64 `json:"Sodium_mg"`
	SugarG   *float64 `json:"Sugar_g"`

	Source   NutritionSource `gorm:"size:16" json:"Source"`
	RecipeID string          `gorm:"size:32" json:"RecipeId"`

	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

// Facts views the record's nutrient columns as NutritionFacts.
func (r *DailyMenuRecord) Facts() NutritionFacts {
	return NutritionFacts{
		Calories: r.Calories,
		ProteinG: r.ProteinG,
		CarbsG:   r.CarbsG,
		FatG:     r.FatG,
		FiberG:   r.FiberG,
		SodiumMg: r.SodiumMg,
		SugarG:   r.SugarG,
	}
}

// SetFacts copies facts into the record's nutrient columns.
func (r *DailyMenuRecord) SetFacts(n NutritionFacts) {
	r.Calories = n.Calories
	r.ProteinG = n.ProteinG
	r.CarbsG = n.CarbsG
	r.FatG = n.FatG
	r.FiberG = n.FiberG
	r.SodiumMg = n.SodiumMg
	r.SugarG = n.SugarG
}

// RecipeNutrition is one row of the locally maintained recipe dataset,
// keyed by the installation's recipe code (e.g. R20480).
type RecipeNutrition struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	RecipeID string `gorm:"size:32;uniqueIndex;not null" json:"recipe_id"`
	Name     string `gorm:"size:255;index;not null" json:"name"`

	Calories *float64 `json:"calories"`
	ProteinG *float64 `json:"protein_g"`
	CarbsG   *float64 `json:"carbs_g"`
	FatG     *float64 `json:"fat_g"`
	FiberG   *float64 `json:"fiber_g"`
	SodiumMg *float64 `json:"sodium_mg"`
	SugarG   *float64 `json:"sugar_g"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// Facts views the row's nutrient columns as NutritionFacts.
func (r *RecipeNutrition) Facts() NutritionFacts {
	return NutritionFacts{
		Calories: r.Calories,
		ProteinG: r.ProteinG,
		CarbsG:   r.CarbsG,
		FatG:     r.FatG,
		FiberG:   r.FiberG,
		SodiumMg: r.SodiumMg,
		SugarG:   r.SugarG,
	}
}
