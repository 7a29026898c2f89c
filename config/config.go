package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"

	"github.com/dfac-tools/menubuilder/logger"
)

// Duration lets YAML carry values like "30s" or "2m".
type Duration time.Duration

func (d *Duration) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(v)
	return nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// GetEnv returns the value of an environment variable or a fallback.
func GetEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// LoadEnv loads a .env file if one exists. Missing files are fine; real
// deployments set variables in the environment.
func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		logger.Debug("No .env file found, using system env vars")
	}
}

// RunConfig is the per-installation configuration threaded through one
// pipeline run. It is built once by Load and never mutated afterwards.
type RunConfig struct {
	// ExcludedCategories are static category headings whose items never
	// make it into the output (beverages, condiment stations, themed bars).
	ExcludedCategories []string `yaml:"excluded_categories"`

	// CategoryKeywords are headings that group items without excluding
	// them; a matching line sets the category for the lines below it.
	CategoryKeywords []string `yaml:"category_keywords"`

	// NoiseKeywords mark report chrome that is never an item.
	NoiseKeywords []string `yaml:"noise_keywords"`

	// MealAliases maps extra section headers onto a meal, e.g. BRUNCH: Lunch.
	MealAliases map[string]string `yaml:"meal_aliases"`

	// RolloverDinner replays lunch items as dinner when the dinner section
	// parsed empty. Off by default: dinner runs its own menu.
	RolloverDinner bool `yaml:"rollover_dinner"`

	// DataTypePriority is the ordered list of FDC data-type buckets tried
	// during external lookup. Each bucket's types are queried individually.
	DataTypePriority [][]string `yaml:"data_type_priority"`

	// SimilarityFloor is the minimum name-similarity score for an external
	// candidate to be considered at all.
	SimilarityFloor float64 `yaml:"similarity_floor"`

	// Workers bounds concurrent external lookups.
	Workers int `yaml:"workers"`

	// RequestTimeout applies per external HTTP request.
	RequestTimeout Duration `yaml:"request_timeout"`
}

// Default returns the configuration the installation ships with.
func Default() *RunConfig {
	return &RunConfig{
		ExcludedCategories: []string{
			"BEVERAGE", "BEVERAGES", "CONDIMENT", "CONDIMENTS", "DESSERT",
			"SALAD BAR", "SANDWICH BAR", "BURGER BAR", "PASTA BAR", "WING BAR", "BURRITO BAR",
		},
		CategoryKeywords: []string{
			"STARCHES", "HOT VEGETABLES", "LEAN PROTEINS", "SHORT ORDER",
			"NON-STARCHY", "STARCHY",
		},
		NoiseKeywords: []string{
			"MEAL", "WEEK", "INSTRUCTIONS", "REPORT", "PROJECTED HC", "ASSIGN", "DATE PRINTED",
		},
		MealAliases:    map[string]string{},
		RolloverDinner: false,
		DataTypePriority: [][]string{
			{"Foundation", "SR Legacy"},
			{"Branded"},
			{"Survey (FNDDS)"},
		},
		SimilarityFloor: 0.4,
		Workers:         4,
		RequestTimeout:  Duration(30 * time.Second),
	}
}

// Load reads a YAML run configuration, filling anything the file leaves out
// with the defaults. An empty path returns the defaults unchanged.
func Load(path string) (*RunConfig, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("unable to read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("unable to unmarshal config YAML: %w", err)
	}
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *RunConfig) applyDefaults() {
	def := Default()
	if len(c.DataTypePriority) == 0 {
		c.DataTypePriority = def.DataTypePriority
	}
	if c.SimilarityFloor == 0 {
		c.SimilarityFloor = def.SimilarityFloor
	}
	if c.Workers <= 0 {
		c.Workers = def.Workers
	}
	if c.RequestTimeout <= 0 {
		c.RequestTimeout = def.RequestTimeout
	}
	if c.MealAliases == nil {
		c.MealAliases = map[string]string{}
	}
}

// Validate ensures critical configuration values are sane.
func (c *RunConfig) Validate() error {
	if c.SimilarityFloor < 0 || c.SimilarityFloor > 1 {
		return fmt.Errorf("similarity_floor must be within [0,1], got %v", c.SimilarityFloor)
	}
	if c.Workers <= 0 {
		return fmt.Errorf("workers must be positive, got %d", c.Workers)
	}
	for i, bucket := range c.DataTypePriority {
		if len(bucket) == 0 {
			return fmt.Errorf("data_type_priority bucket %d is empty", i)
		}
	}
	return nil
}
