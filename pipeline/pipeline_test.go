package pipeline

import (
	"context"
	"reflect"
	"sync/atomic"
	"testing"

	"github.com/dfac-tools/menubuilder/config"
	"github.com/dfac-tools/menubuilder/extractor"
	"github.com/dfac-tools/menubuilder/menuparse"
	"github.com/dfac-tools/menubuilder/models"
	"github.com/dfac-tools/menubuilder/recipes"
)

func fptr(v float64) *float64 { return &v }

// fakeExternal resolves from a fixed table keyed by normalized-ish name and
// counts lookups, so tests can assert cache behavior.
type fakeExternal struct {
	table   map[string]*models.NutritionFacts
	lookups int64
}

func (f *fakeExternal) Lookup(_ context.Context, name string) (*models.NutritionFacts, bool) {
	atomic.AddInt64(&f.lookups, 1)
	facts, ok := f.table[name]
	return facts, ok
}

func sourcesFor(lines []string) []menuparse.Source {
	return []menuparse.Source{{Doc: extractor.FromLines("menu.pdf", lines)}}
}

func TestRunEndToEnd(t *testing.T) {
	store := recipes.NewStore([]models.RecipeNutrition{
		{RecipeID: "R102", Name: "Grilled Chicken", Calories: fptr(500)},
	})
	external := &fakeExternal{table: map[string]*models.NutritionFacts{
		"Grilled Chicken": {Calories: fptr(480), ProteinG: fptr(20)},
		"Scrambled Eggs":  {Calories: fptr(182.5)},
	}}
	deps := Deps{Config: config.Default(), Recipes: store, External: external}

	recs, err := Run(context.Background(), deps, "2025-08-19", sourcesFor([]string{
		"BREAKFAST",
		"Scrambled Eggs",
		"BEVERAGES",
		"Orange Juice",
		"LUNCH",
		"Grilled Chicken #R102",
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("expected 2 records, got %d: %+v", len(recs), recs)
	}

	eggs := recs[0]
	if eggs.Item != "Scrambled Eggs" || eggs.Meal != "Breakfast" {
		t.Fatalf("unexpected first record: %+v", eggs)
	}
	if eggs.Source != models.SourceUSDA || eggs.Calories == nil || *eggs.Calories != 183 {
		t.Errorf("eggs should be USDA-sourced and rounded: %+v", eggs)
	}

	chicken := recs[1]
	if chicken.Item != "Grilled Chicken" || chicken.RecipeID != "R102" {
		t.Fatalf("unexpected second record: %+v", chicken)
	}
	// Recipe calories win; external protein fills the gap.
	if chicken.Source != models.SourceMixed || *chicken.Calories != 500 || *chicken.ProteinG != 20 {
		t.Errorf("chicken merge incorrect: %+v", chicken)
	}
}

func TestRunCompleteRecipeSkipsExternal(t *testing.T) {
	store := recipes.NewStore([]models.RecipeNutrition{{
		RecipeID: "R10020", Name: "Beef Stew",
		Calories: fptr(235), ProteinG: fptr(18), CarbsG: fptr(20), FatG: fptr(8),
		FiberG: fptr(3), SodiumMg: fptr(480), SugarG: fptr(4),
	}})
	external := &fakeExternal{table: map[string]*models.NutritionFacts{}}
	deps := Deps{Config: config.Default(), Recipes: store, External: external}

	recs, err := Run(context.Background(), deps, "2025-08-19", sourcesFor([]string{"DINNER", "Beef Stew R10020"}))
	if err != nil {
		t.Fatal(err)
	}
	if recs[0].Source != models.SourceRecipe {
		t.Errorf("expected Recipe source, got %q", recs[0].Source)
	}
	if n := atomic.LoadInt64(&external.lookups); n != 0 {
		t.Errorf("complete recipe facts must skip the external lookup, got %d lookups", n)
	}
}

func TestRunCachesRepeatedNames(t *testing.T) {
	external := &fakeExternal{table: map[string]*models.NutritionFacts{
		"Grilled Chicken": {Calories: fptr(165)},
	}}
	deps := Deps{Config: config.Default(), External: external}

	// The same dish shows up at lunch and dinner; the external source must
	// only be asked once per distinct name.
	_, err := Run(context.Background(), deps, "2025-08-19", sourcesFor([]string{
		"LUNCH", "Grilled Chicken", "DINNER", "Grilled Chicken", "Rice Pilaf",
	}))
	if err != nil {
		t.Fatal(err)
	}
	if n := atomic.LoadInt64(&external.lookups); n != 2 {
		t.Errorf("expected 2 distinct lookups (chicken, rice), got %d", n)
	}
}

func TestRunNoMatchAnywhereEmitsEmptyRecord(t *testing.T) {
	deps := Deps{Config: config.Default(), External: &fakeExternal{table: map[string]*models.NutritionFacts{}}}

	recs, err := Run(context.Background(), deps, "2025-08-19", sourcesFor([]string{"LUNCH", "Chef Choice Entree"}))
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 1 {
		t.Fatalf("expected the unresolved item to be emitted, got %d records", len(recs))
	}
	if recs[0].Source != models.SourceNone {
		t.Errorf("source must stay unset, got %q", recs[0].Source)
	}
	facts := recs[0].Facts()
	if facts.PopulatedCount() != 0 {
		t.Errorf("expected all nutrition fields absent: %+v", recs[0])
	}
}

func TestRunParseErrorAbortsRun(t *testing.T) {
	deps := Deps{Config: config.Default(), External: &fakeExternal{}}
	_, err := Run(context.Background(), deps, "2025-08-19", sourcesFor([]string{"Mystery Item Line"}))
	if err == nil {
		t.Fatal("expected the run to abort on unparseable structure")
	}
}

func TestRunDeterministicAcrossWorkerCounts(t *testing.T) {
	lines := []string{
		"BREAKFAST", "Scrambled Eggs", "Biscuits and Gravy",
		"LUNCH", "Grilled Chicken", "Rice Pilaf", "Green Beans Almondine",
		"DINNER", "Baked Ziti", "Garlic Bread Sticks",
	}
	table := map[string]*models.NutritionFacts{
		"Scrambled Eggs":  {Calories: fptr(182)},
		"Grilled Chicken": {Calories: fptr(165), ProteinG: fptr(31)},
		"Baked Ziti":      {Calories: fptr(300)},
	}

	var outputs [][]models.DailyMenuRecord
	for _, workers := range []int{1, 4, 16} {
		cfg := config.Default()
		cfg.Workers = workers
		deps := Deps{Config: cfg, External: &fakeExternal{table: table}}
		recs, err := Run(context.Background(), deps, "2025-08-19", sourcesFor(lines))
		if err != nil {
			t.Fatal(err)
		}
		outputs = append(outputs, recs)
	}
	for i := 1; i < len(outputs); i++ {
		if !reflect.DeepEqual(outputs[0], outputs[i]) {
			t.Errorf("output differs between worker counts: %+v vs %+v", outputs[0], outputs[i])
		}
	}
}
