package database

import (
	"fmt"
	"time"
)

// TrainingRun records one offline training invocation and its held-out
// metrics, one row per fitted artifact.
type TrainingRun struct {
	ID           uint   `gorm:"primaryKey"`
	Model        string `gorm:"index"`
	Samples      int
	TestSize     float64
	MAE          float64
	RMSE         float64
	R2           float64
	MAPE         float64
	ArtifactPath string
	CreatedAt    time.Time
}

func (d *Database) RunMigrations() error {
	// Create the training dataset tables if the database is fresh
	_, err := d.db.Exec(`
		CREATE TABLE IF NOT EXISTS properties (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			sqft INTEGER,
			bedrooms INTEGER,
			bathrooms REAL,
			year_built INTEGER,
			lot_size INTEGER,
			stories INTEGER,
			garage INTEGER,
			property_type TEXT,
			latitude REAL,
			longitude REAL,
			price INTEGER,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);
	`)
	if err != nil {
		return fmt.Errorf("failed to create properties table: %v", err)
	}

	_, err = d.db.Exec(`
		CREATE TABLE IF NOT EXISTS market_snapshots (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			zip_code TEXT,
			median_price REAL,
			inventory REAL,
			days_on_market_avg REAL,
			mortgage_rate REAL,
			population_growth REAL,
			appreciation_1y REAL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);
	`)
	if err != nil {
		return fmt.Errorf("failed to create market_snapshots table: %v", err)
	}

	if err := d.gorm.AutoMigrate(&TrainingRun{}); err != nil {
		return fmt.Errorf("failed to migrate training_runs table: %v", err)
	}

	return nil
}

// RecordTrainingRun appends a run to the registry.
func (d *Database) RecordTrainingRun(run *TrainingRun) error {
	if err := d.gorm.Create(run).Error; err != nil {
		return fmt.Errorf("failed to record training run: %v", err)
	}
	return nil
}

// RecentTrainingRuns returns the latest runs, newest first.
func (d *Database) RecentTrainingRuns(limit int) ([]TrainingRun, error) {
	if limit <= 0 {
		limit = 10
	}
	var runs []TrainingRun
	err := d.gorm.Order("created_at DESC").Limit(limit).Find(&runs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query training runs: %v", err)
	}
	return runs, nil
}
