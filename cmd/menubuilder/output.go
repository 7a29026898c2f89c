package main

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"

	"github.com/dfac-tools/menubuilder/models"
)

var csvHeader = append([]string{"MenuDate", "Meal", "Item"},
	append(models.FieldNames(), "Source", "RecipeId")...)

// writeCSV emits the fixed-schema CSV. Absent nutrients stay empty cells;
// the values themselves were already rounded by the assembler.
func writeCSV(path string, recs []models.DailyMenuRecord) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, r := range recs {
		row := []string{r.MenuDate, r.Meal, r.Item,
			cell(r.Calories, 0), cell(r.ProteinG, 2), cell(r.CarbsG, 2), cell(r.FatG, 2),
			cell(r.FiberG, 2), cell(r.SodiumMg, 0), cell(r.SugarG, 2),
			string(r.Source), r.RecipeID,
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}
	w.Flush()
	return w.Error()
}

func writeJSON(path string, recs []models.DailyMenuRecord) error {
	data, err := json.MarshalIndent(recs, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal records: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

func cell(v *float64, decimals int) string {
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%.*f", decimals, *v)
}

// appendCSV appends a run's rows to a master CSV, writing the header only
// when the file starts empty. No dedup happens here; the Postgres append
// mode is the loss-free path.
func appendCSV(path string, recs []models.DailyMenuRecord) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", path, err)
	}

	w := csv.NewWriter(f)
	if info.Size() == 0 {
		if err := w.Write(csvHeader); err != nil {
			return fmt.Errorf("failed to write CSV header: %w", err)
		}
	}
	for _, r := range recs {
		row := []string{r.MenuDate, r.Meal, r.Item,
			cell(r.Calories, 0), cell(r.ProteinG, 2), cell(r.CarbsG, 2), cell(r.FatG, 2),
			cell(r.FiberG, 2), cell(r.SodiumMg, 0), cell(r.SugarG, 2),
			string(r.Source), r.RecipeID,
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("failed to append CSV row: %w", err)
		}
	}
	w.Flush()
	return w.Error()
}
