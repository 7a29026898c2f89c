// Package database backs the recipe dataset and the accumulated multi-day
// record table with Postgres through gorm.
package database

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/dfac-tools/menubuilder/config"
	"github.com/dfac-tools/menubuilder/logger"
	"github.com/dfac-tools/menubuilder/models"
)

// Open connects using the DB_* environment variables and migrates the
// schema.
func Open() (*gorm.DB, error) {
	host := config.GetEnv("DB_HOST", "localhost")
	user := config.GetEnv("DB_USER", "postgres")
	password := config.GetEnv("DB_PASSWORD", "password")
	dbname := config.GetEnv("DB_NAME", "menubuilder")
	port := config.GetEnv("DB_PORT", "5432")
	sslmode := config.GetEnv("DB_SSLMODE", "disable")

	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		host, user, password, dbname, port, sslmode)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	logger.Info("Database connection established", "host", host, "db", dbname)

	if err := db.AutoMigrate(&models.RecipeNutrition{}, &models.DailyMenuRecord{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return db, nil
}

// LoadRecipes reads the whole recipe dataset. It is small (one row per
// recipe card) and the resolver wants pure in-memory lookups.
func LoadRecipes(db *gorm.DB) ([]models.RecipeNutrition, error) {
	var rows []models.RecipeNutrition
	if err := db.Order("id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to load recipe nutrition rows: %w", err)
	}
	return rows, nil
}

// AppendRecords upserts a run's records into the accumulated table. The
// conflict key is (menu_date, meal, item_key), so re-running a day or
// appending further days is loss-free.
func AppendRecords(db *gorm.DB, recs []models.DailyMenuRecord) error {
	if len(recs) == 0 {
		return nil
	}
	err := db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "menu_date"}, {Name: "meal"}, {Name: "item_key"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"item", "calories", "protein_g", "carbs_g", "fat_g",
			"fiber_g", "sodium_mg", "sugar_g", "source", "recipe_id", "updated_at",
		}),
	}).Create(&recs).Error
	if err != nil {
		return fmt.Errorf("failed to append records: %w", err)
	}
	logger.Info("Appended records to master table", "rows", len(recs))
	return nil
}
