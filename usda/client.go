// Package usda resolves nutrition facts through the USDA FoodData Central
// API: a tiered candidate search, fuzzy name ranking, and a detail fetch
// mapped into the typed NutritionFacts model.
package usda

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/dfac-tools/menubuilder/models"
)

const defaultBaseURL = "https://api.nal.usda.gov/fdc/v1"

const searchPageSize = 5

// ConfigError is a fatal configuration problem (missing API credential),
// detected before any lookups begin.
type ConfigError struct {
	Msg string
}

func (e *ConfigError) Error() string {
	return "usda: " + e.Msg
}

// Candidate is one food returned by the search endpoint.
type Candidate struct {
	FDCID       int64  `json:"fdcId"`
	Description string `json:"description"`
	DataType    string `json:"dataType"`
}

// FoodSource is the narrow capability the resolver needs. The production
// implementation is Client; tests supply deterministic fakes.
type FoodSource interface {
	Search(ctx context.Context, query, dataType string) ([]Candidate, error)
	FetchDetail(ctx context.Context, fdcID int64) (*models.NutritionFacts, error)
}

// Client talks to the FoodData Central HTTP API.
type Client struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// NewClient builds a FoodData Central client. A missing API key is a
// ConfigError: the caller should abort before doing any work.
func NewClient(apiKey string, timeout time.Duration) (*Client, error) {
	if apiKey == "" {
		return nil, &ConfigError{Msg: "USDA_API_KEY not configured"}
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		client:  &http.Client{Timeout: timeout},
	}, nil
}

// WithBaseURL points the client at a different API root. Used by tests.
func (c *Client) WithBaseURL(base string) *Client {
	c.baseURL = base
	return c
}

// Search queries one data type for foods matching the query.
func (c *Client) Search(ctx context.Context, query, dataType string) ([]Candidate, error) {
	params := url.Values{}
	params.Set("api_key", c.apiKey)
	params.Set("query", query)
	params.Set("pageSize", strconv.Itoa(searchPageSize))
	params.Set("dataType", dataType)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/foods/search?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create search request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search returned status %d for dataType %s", resp.StatusCode, dataType)
	}

	var result struct {
		Foods []Candidate `json:"foods"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode search response: %w", err)
	}
	return result.Foods, nil
}

// Nutrient ids (and their legacy "number" aliases) for the seven tracked
// fields: energy kcal, protein, carbs, fat, fiber, sodium mg, total sugars.
var nutrientFieldIndex = map[string]int{
	"1008": 0, "208": 0,
	"1003": 1, "203": 1,
	"1005": 2, "205": 2,
	"1004": 3, "204": 3,
	"1079": 4, "291": 4,
	"1093": 5, "307": 5,
	"2000": 6, "269": 6,
}

// FetchDetail retrieves the full nutrient record of a food and maps it to
// NutritionFacts. Nutrients the source does not report stay nil; codes not
// in the mapping table are ignored.
func (c *Client) FetchDetail(ctx context.Context, fdcID int64) (*models.NutritionFacts, error) {
	params := url.Values{}
	params.Set("api_key", c.apiKey)

	reqURL := fmt.Sprintf("%s/food/%d?%s", c.baseURL, fdcID, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create detail request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("detail request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("detail returned status %d for fdcId %d", resp.StatusCode, fdcID)
	}

	var food struct {
		FoodNutrients []struct {
			Nutrient struct {
				ID     json.Number `json:"id"`
				Number string      `json:"number"`
			} `json:"nutrient"`
			Amount *float64 `json:"amount"`
		} `json:"foodNutrients"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&food); err != nil {
		return nil, fmt.Errorf("failed to decode detail response: %w", err)
	}

	facts := &models.NutritionFacts{}
	slots := facts.Fields()
	for _, n := range food.FoodNutrients {
		idx, ok := nutrientFieldIndex[n.Nutrient.ID.String()]
		if !ok {
			idx, ok = nutrientFieldIndex[n.Nutrient.Number]
		}
		if !ok || n.Amount == nil || *n.Amount < 0 {
			continue
		}
		if *slots[idx] == nil {
			v := *n.Amount
			*slots[idx] = &v
		}
	}
	return facts, nil
}
