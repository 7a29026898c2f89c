// Package pipeline wires one extraction-and-enrichment run end to end:
// parse the day's documents, resolve nutrition per item, merge, and
// assemble the final record set.
package pipeline

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/dfac-tools/menubuilder/config"
	"github.com/dfac-tools/menubuilder/logger"
	"github.com/dfac-tools/menubuilder/menuparse"
	"github.com/dfac-tools/menubuilder/models"
	"github.com/dfac-tools/menubuilder/nutrition"
	"github.com/dfac-tools/menubuilder/recipes"
	"github.com/dfac-tools/menubuilder/records"
	"github.com/dfac-tools/menubuilder/textmatch"
	"github.com/dfac-tools/menubuilder/usda"
)

// ExternalResolver is what the pipeline needs from the external nutrition
// source; satisfied by *usda.Resolver and by test fakes.
type ExternalResolver interface {
	Lookup(ctx context.Context, name string) (*models.NutritionFacts, bool)
}

// Deps carries a run's collaborators. Recipes and External may each be nil;
// a missing source simply contributes no fields.
type Deps struct {
	Config   *config.RunConfig
	Recipes  *recipes.Store
	External ExternalResolver
}

var _ ExternalResolver = (*usda.Resolver)(nil)

// Run executes one full pipeline pass for a date. Fatal errors (parse or
// validation) abort the run; per-item lookup failures only leave gaps in
// that item's nutrition fields.
func Run(ctx context.Context, deps Deps, date string, sources []menuparse.Source) ([]models.DailyMenuRecord, error) {
	runID := uuid.NewString()
	logger.Info("pipeline run starting", "run_id", runID, "date", date, "documents", len(sources))

	items, err := menuparse.New(deps.Config).ParseAll(date, sources)
	if err != nil {
		return nil, err
	}
	logger.Info("parsed menu items", "run_id", runID, "items", len(items))

	resolved := resolveAll(ctx, deps, items)

	out, err := records.Assemble(resolved)
	if err != nil {
		return nil, err
	}
	logger.Info("pipeline run complete", "run_id", runID, "records", len(out))
	return out, nil
}

// resolveAll enriches every item through a bounded worker pool. Results are
// keyed by item position, so completion order never affects the output.
func resolveAll(ctx context.Context, deps Deps, items []models.MenuItem) []records.Resolved {
	resolved := make([]records.Resolved, len(items))
	cache := newLookupCache()

	workers := deps.Config.Workers
	if workers > len(items) {
		workers = len(items)
	}
	if workers < 1 {
		workers = 1
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				resolved[idx] = resolveItem(ctx, deps, cache, items[idx])
			}
		}()
	}
	for idx := range items {
		jobs <- idx
	}
	close(jobs)
	wg.Wait()

	return resolved
}

// resolveItem runs the multi-source priority scheme for one item: recipe
// data first, external lookup only for the fields the recipe left open.
func resolveItem(ctx context.Context, deps Deps, cache *lookupCache, item models.MenuItem) records.Resolved {
	var recipeFacts *models.NutritionFacts
	if deps.Recipes != nil {
		if facts, ok := deps.Recipes.Lookup(item); ok {
			recipeFacts = facts
		}
	}

	var externalFacts *models.NutritionFacts
	if deps.External != nil && (recipeFacts == nil || !recipeFacts.Complete()) {
		key := textmatch.Normalize(item.Name)
		externalFacts, _ = cache.get(key, func() (*models.NutritionFacts, bool) {
			return deps.External.Lookup(ctx, item.Name)
		})
	}

	facts, source := nutrition.Merge(recipeFacts, externalFacts)
	if source == models.SourceNone {
		logger.Debug("no nutrition found for item", "item", item.Name, "meal", item.Meal.String())
	}
	return records.Resolved{Item: item, Facts: facts, Source: source}
}
