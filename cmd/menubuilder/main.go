package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gorm.io/gorm"

	"github.com/dfac-tools/menubuilder/config"
	"github.com/dfac-tools/menubuilder/database"
	"github.com/dfac-tools/menubuilder/extractor"
	"github.com/dfac-tools/menubuilder/logger"
	"github.com/dfac-tools/menubuilder/menuparse"
	"github.com/dfac-tools/menubuilder/models"
	"github.com/dfac-tools/menubuilder/pipeline"
	"github.com/dfac-tools/menubuilder/recipes"
	"github.com/dfac-tools/menubuilder/usda"
)

func main() {
	date := flag.String("date", "", "menu date, e.g. 2025-08-19 (required)")
	pdfDir := flag.String("pdf-dir", "", "folder containing the DFAC PDFs (required)")
	outDir := flag.String("out", "out", "output folder")
	cfgPath := flag.String("config", "", "optional YAML run configuration")
	appendDB := flag.Bool("append-db", false, "upsert this run's records into the Postgres master table")
	appendCSVPath := flag.String("append-csv", "", "optional master CSV to append this run's rows to")
	useDB := flag.Bool("recipes-db", false, "load the recipe nutrition dataset from Postgres")
	flag.Parse()

	logger.Init()
	config.LoadEnv()

	if *date == "" || *pdfDir == "" {
		flag.Usage()
		os.Exit(2)
	}

	if err := run(*date, *pdfDir, *outDir, *cfgPath, *appendCSVPath, *useDB, *appendDB); err != nil {
		logger.Error("run aborted", "error", err)
		os.Exit(1)
	}
}

func run(date, pdfDir, outDir, cfgPath, appendCSVPath string, useDB, appendDB bool) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}

	client, err := usda.NewClient(config.GetEnv("USDA_API_KEY", ""), cfg.RequestTimeout.Std())
	if err != nil {
		return err
	}

	deps := pipeline.Deps{
		Config:   cfg,
		External: usda.NewResolver(client, cfg),
	}

	var db *gorm.DB
	if useDB || appendDB {
		if db, err = database.Open(); err != nil {
			return err
		}
	}
	if useDB {
		rows, err := database.LoadRecipes(db)
		if err != nil {
			return err
		}
		deps.Recipes = recipes.NewStore(rows)
		logger.Info("loaded recipe dataset", "rows", len(rows))
	}

	sources, err := collectSources(pdfDir)
	if err != nil {
		return err
	}
	if len(sources) == 0 {
		return fmt.Errorf("no menu PDFs found in %s", pdfDir)
	}

	recs, err := pipeline.Run(context.Background(), deps, date, sources)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output folder: %w", err)
	}
	csvPath := filepath.Join(outDir, fmt.Sprintf("menu_%s.csv", date))
	jsonPath := filepath.Join(outDir, fmt.Sprintf("menu_%s.json", date))
	if err := writeCSV(csvPath, recs); err != nil {
		return err
	}
	if err := writeJSON(jsonPath, recs); err != nil {
		return err
	}
	logger.Info("wrote outputs", "csv", csvPath, "json", jsonPath, "rows", len(recs))

	if appendCSVPath != "" {
		if err := appendCSV(appendCSVPath, recs); err != nil {
			return err
		}
		logger.Info("appended to master CSV", "path", appendCSVPath, "rows", len(recs))
	}
	if appendDB {
		if err := database.AppendRecords(db, recs); err != nil {
			return err
		}
	}
	return nil
}

// collectSources scans the PDF folder and builds parser sources. DFAC
// exports encode the meal as a _B_/_L_/_D_ filename token; production
// schedule reports go first so their spellings win dedup ties.
func collectSources(pdfDir string) ([]menuparse.Source, error) {
	entries, err := os.ReadDir(pdfDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read PDF folder: %w", err)
	}

	type candidate struct {
		path       string
		meal       models.Meal
		hasMeal    bool
		production bool
	}
	var cands []candidate

	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".pdf") {
			continue
		}
		lower := strings.ToLower(e.Name())
		if strings.Contains(lower, "recipe") {
			// Recipe card PDFs carry nutrition tables we read from the
			// database instead.
			continue
		}
		c := candidate{
			path:       filepath.Join(pdfDir, e.Name()),
			production: strings.Contains(lower, "production"),
		}
		for _, tok := range []struct {
			token string
			meal  models.Meal
		}{{"_b_", models.Breakfast}, {"_l_", models.Lunch}, {"_d_", models.Dinner}} {
			if strings.Contains(lower, tok.token) {
				c.meal = tok.meal
				c.hasMeal = true
				break
			}
		}
		cands = append(cands, c)
	}

	sort.SliceStable(cands, func(a, b int) bool {
		if cands[a].production != cands[b].production {
			return cands[a].production
		}
		return cands[a].path < cands[b].path
	})

	var sources []menuparse.Source
	for _, c := range cands {
		doc, err := extractor.ReadPDF(c.path)
		if err != nil {
			return nil, err
		}
		logger.Info("extracted PDF", "file", doc.Name, "pages", len(doc.Pages))
		sources = append(sources, menuparse.Source{Doc: doc, DefaultMeal: c.meal, HasDefault: c.hasMeal})
	}
	return sources, nil
}
