package records

import (
	"errors"
	"testing"

	"github.com/dfac-tools/menubuilder/models"
)

func fptr(v float64) *float64 { return &v }

func item(meal models.Meal, name string) models.MenuItem {
	return models.MenuItem{Date: "2025-08-19", Meal: meal, Name: name}
}

func TestAssembleDedupPrefersMorePopulated(t *testing.T) {
	recs, err := Assemble([]Resolved{
		{Item: item(models.Lunch, "Grilled Chicken"), Facts: models.NutritionFacts{Calories: fptr(165)}, Source: models.SourceUSDA},
		{Item: item(models.Lunch, "Grilled Chicken"), Facts: models.NutritionFacts{Calories: fptr(160), ProteinG: fptr(31)}, Source: models.SourceUSDA},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(recs) != 1 {
		t.Fatalf("expected 1 deduplicated record, got %d", len(recs))
	}
	if recs[0].ProteinG == nil || *recs[0].ProteinG != 31 {
		t.Errorf("dedup must keep the record with more populated fields: %+v", recs[0])
	}
}

func TestAssembleDedupTieKeepsFirst(t *testing.T) {
	recs, err := Assemble([]Resolved{
		{Item: item(models.Lunch, "Grilled Chicken"), Facts: models.NutritionFacts{Calories: fptr(165)}},
		{Item: item(models.Lunch, "grilled  chicken"), Facts: models.NutritionFacts{Calories: fptr(900)}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(recs) != 1 || *recs[0].Calories != 165 {
		t.Fatalf("tie must keep the first-encountered record, got %+v", recs)
	}
}

func TestAssembleMealThenParseOrder(t *testing.T) {
	recs, err := Assemble([]Resolved{
		{Item: item(models.Dinner, "Baked Ziti")},
		{Item: item(models.Breakfast, "Scrambled Eggs")},
		{Item: item(models.Lunch, "Grilled Chicken")},
		{Item: item(models.Breakfast, "Hash Browns Casserole")},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"Scrambled Eggs", "Hash Browns Casserole", "Grilled Chicken", "Baked Ziti"}
	if len(recs) != len(want) {
		t.Fatalf("expected %d records, got %d", len(want), len(recs))
	}
	for i, name := range want {
		if recs[i].Item != name {
			t.Errorf("position %d: got %q, want %q", i, recs[i].Item, name)
		}
	}
}

func TestAssembleSameNameDifferentMealsKept(t *testing.T) {
	recs, err := Assemble([]Resolved{
		{Item: item(models.Lunch, "Grilled Chicken")},
		{Item: item(models.Dinner, "Grilled Chicken")},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("identity includes the meal; expected 2 records, got %d", len(recs))
	}
}

func TestAssembleEmptyNameIsValidationError(t *testing.T) {
	_, err := Assemble([]Resolved{{Item: item(models.Lunch, "")}})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *ValidationError, got %v", err)
	}
}

func TestAssembleUnknownMealIsValidationError(t *testing.T) {
	_, err := Assemble([]Resolved{{Item: models.MenuItem{Date: "2025-08-19", Meal: models.Meal(7), Name: "Mystery Dish"}}})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *ValidationError, got %v", err)
	}
	if verr.Item != "Mystery Dish" {
		t.Errorf("validation error missing item context: %+v", verr)
	}
}

func TestAssembleRoundsToOutputPrecision(t *testing.T) {
	recs, err := Assemble([]Resolved{{
		Item: item(models.Lunch, "Grilled Chicken"),
		Facts: models.NutritionFacts{
			Calories: fptr(164.63),
			ProteinG: fptr(31.016),
			SodiumMg: fptr(74.4),
			SugarG:   fptr(0.005),
		},
		Source: models.SourceUSDA,
	}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	r := recs[0]
	if *r.Calories != 165 {
		t.Errorf("calories must round to integer, got %v", *r.Calories)
	}
	if *r.ProteinG != 31.02 {
		t.Errorf("protein must round to 2 decimals, got %v", *r.ProteinG)
	}
	if *r.SodiumMg != 74 {
		t.Errorf("sodium must round to whole mg, got %v", *r.SodiumMg)
	}
	if *r.SugarG != 0.01 {
		t.Errorf("sugar must round to 2 decimals, got %v", *r.SugarG)
	}
	if r.FatG != nil {
		t.Errorf("absent fields must stay absent after rounding, got %v", *r.FatG)
	}
}

func TestAssembleDropsNegativeValues(t *testing.T) {
	recs, err := Assemble([]Resolved{{
		Item: item(models.Lunch, "Beef Stew"),
		Facts: models.NutritionFacts{
			Calories: fptr(-50),
			ProteinG: fptr(18),
		},
		Source: models.SourceRecipe,
	}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if recs[0].Calories != nil {
		t.Errorf("negative calories must be dropped, got %v", *recs[0].Calories)
	}
	if recs[0].ProteinG == nil || *recs[0].ProteinG != 18 {
		t.Errorf("valid fields must survive: %+v", recs[0])
	}
}

func TestAssembleEmptyRecordStillEmitted(t *testing.T) {
	recs, err := Assemble([]Resolved{{Item: item(models.Dinner, "Chef Choice Entree"), Source: models.SourceNone}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(recs) != 1 {
		t.Fatal("records without nutrition must still be emitted")
	}
	if recs[0].Source != models.SourceNone {
		t.Errorf("source must stay unset, got %q", recs[0].Source)
	}
	facts := recs[0].Facts()
	if facts.PopulatedCount() != 0 {
		t.Errorf("expected all fields absent, got %+v", recs[0])
	}
}

func TestAssembleDeterministic(t *testing.T) {
	input := []Resolved{
		{Item: item(models.Lunch, "Grilled Chicken"), Facts: models.NutritionFacts{Calories: fptr(165)}},
		{Item: item(models.Lunch, "Rice Pilaf"), Facts: models.NutritionFacts{Calories: fptr(210)}},
		{Item: item(models.Breakfast, "Scrambled Eggs")},
	}
	a, err := Assemble(input)
	if err != nil {
		t.Fatal(err)
	}
	b, err := Assemble(input)
	if err != nil {
		t.Fatal(err)
	}
	if len(a) != len(b) {
		t.Fatal("assembly is not deterministic")
	}
	for i := range a {
		if a[i].Item != b[i].Item || a[i].Meal != b[i].Meal {
			t.Errorf("record %d differs between runs: %+v vs %+v", i, a[i], b[i])
		}
	}
}
