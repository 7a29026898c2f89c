// seedrecipes loads a recipe nutrition dataset from a JSON file (optionally
// gzip-compressed) and upserts it into the recipe table. Re-running with an
// updated export refreshes existing rows in place.
package main

import (
	"compress/gzip"
	"encoding/json"
	"flag"
	"io"
	"os"
	"strings"

	"gorm.io/gorm/clause"

	"github.com/dfac-tools/menubuilder/config"
	"github.com/dfac-tools/menubuilder/database"
	"github.com/dfac-tools/menubuilder/logger"
	"github.com/dfac-tools/menubuilder/models"
)

type seedRecipe struct {
	RecipeID string   `json:"recipe_id"`
	Name     string   `json:"name"`
	Calories *float64 `json:"calories"`
	ProteinG *float64 `json:"protein_g"`
	CarbsG   *float64 `json:"carbs_g"`
	FatG     *float64 `json:"fat_g"`
	FiberG   *float64 `json:"fiber_g"`
	SodiumMg *float64 `json:"sodium_mg"`
	SugarG   *float64 `json:"sugar_g"`
}

func main() {
	seedPath := flag.String("seed", "seeds/recipes.json.gz", "recipe seed file (.json or .json.gz)")
	flag.Parse()

	logger.Init()
	config.LoadEnv()

	db, err := database.Open()
	if err != nil {
		logger.Error("Database connection failed", "error", err)
		os.Exit(1)
	}

	f, err := os.Open(*seedPath)
	if err != nil {
		logger.Error("Failed to open seed file", "path", *seedPath, "error", err)
		os.Exit(1)
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(*seedPath, ".gz") {
		gr, err := gzip.NewReader(f)
		if err != nil {
			logger.Error("Failed to read gzip seed", "path", *seedPath, "error", err)
			os.Exit(1)
		}
		defer gr.Close()
		r = gr
	}

	var seeds []seedRecipe
	if err := json.NewDecoder(r).Decode(&seeds); err != nil {
		logger.Error("Failed to decode seed file", "path", *seedPath, "error", err)
		os.Exit(1)
	}

	rows := make([]models.RecipeNutrition, 0, len(seeds))
	skipped := 0
	for _, s := range seeds {
		id := strings.ToUpper(strings.TrimSpace(s.RecipeID))
		name := strings.TrimSpace(s.Name)
		if id == "" || name == "" {
			skipped++
			continue
		}
		rows = append(rows, models.RecipeNutrition{
			RecipeID: id,
			Name:     name,
			Calories: s.Calories,
			ProteinG: s.ProteinG,
			CarbsG:   s.CarbsG,
			FatG:     s.FatG,
			FiberG:   s.FiberG,
			SodiumMg: s.SodiumMg,
			SugarG:   s.SugarG,
		})
	}

	if len(rows) == 0 {
		logger.Error("Seed file contained no usable recipes", "path", *seedPath, "skipped", skipped)
		os.Exit(1)
	}

	err = db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "recipe_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"name", "calories", "protein_g", "carbs_g", "fat_g",
			"fiber_g", "sodium_mg", "sugar_g", "updated_at",
		}),
	}).CreateInBatches(&rows, 200).Error
	if err != nil {
		logger.Error("Failed to upsert recipes", "error", err)
		os.Exit(1)
	}

	logger.Info("Recipe seed complete", "upserted", len(rows), "skipped", skipped)
}
