package usda

import (
	"context"

	"github.com/dfac-tools/menubuilder/config"
	"github.com/dfac-tools/menubuilder/logger"
	"github.com/dfac-tools/menubuilder/models"
	"github.com/dfac-tools/menubuilder/textmatch"
)

// CandidateMatch is a scored search hit. It only lives for the duration of
// one Lookup.
type CandidateMatch struct {
	Tier       int
	Candidate  Candidate
	Similarity float64
}

// Resolver runs the priority-tier search against a FoodSource. Network and
// server failures never escape Lookup; they degrade the item to "no
// external match".
type Resolver struct {
	source   FoodSource
	priority [][]string
	floor    float64
}

func NewResolver(source FoodSource, cfg *config.RunConfig) *Resolver {
	return &Resolver{
		source:   source,
		priority: cfg.DataTypePriority,
		floor:    cfg.SimilarityFloor,
	}
}

// Lookup finds the best nutrition facts for an item name. Tiers are tried
// in priority order and the first tier with a candidate at or above the
// similarity floor wins; later tiers are never queried. Returns (nil,
// false) when nothing matches anywhere.
func (r *Resolver) Lookup(ctx context.Context, name string) (*models.NutritionFacts, bool) {
	query := textmatch.Normalize(name)
	if query == "" {
		return nil, false
	}

	for tier, bucket := range r.priority {
		best, ok := r.searchTier(ctx, tier, bucket, name, query)
		if !ok {
			continue
		}

		facts, err := r.source.FetchDetail(ctx, best.Candidate.FDCID)
		if err != nil {
			logger.Warn("USDA detail fetch failed, item left unenriched",
				"item", name, "fdcId", best.Candidate.FDCID, "error", err)
			return nil, false
		}
		logger.Debug("USDA match",
			"item", name, "match", best.Candidate.Description,
			"dataType", best.Candidate.DataType, "similarity", best.Similarity, "tier", tier)
		return facts, true
	}
	return nil, false
}

// searchTier queries every data type of one priority bucket and picks the
// highest-similarity candidate at or above the floor. Ties keep the
// earliest hit in response order, so reruns are deterministic.
func (r *Resolver) searchTier(ctx context.Context, tier int, bucket []string, name, query string) (CandidateMatch, bool) {
	var best CandidateMatch
	found := false

	for _, dataType := range bucket {
		hits, err := r.source.Search(ctx, query, dataType)
		if err != nil {
			logger.Warn("USDA search failed, trying next data type",
				"item", name, "dataType", dataType, "error", err)
			continue
		}
		for _, hit := range hits {
			score := textmatch.Similarity(query, hit.Description)
			if score < r.floor {
				continue
			}
			if !found || score > best.Similarity {
				best = CandidateMatch{Tier: tier, Candidate: hit, Similarity: score}
				found = true
			}
		}
	}
	return best, found
}
