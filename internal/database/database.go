package database

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"propertyiq/server/internal/training"
)

// Database wraps the SQLite training dataset. Row loading goes through
// database/sql; the training-run registry uses gorm.
type Database struct {
	db   *sql.DB
	gorm *gorm.DB
}

func NewDatabase(dbPath string) (*Database, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	// Enable foreign keys
	_, err = db.Exec("PRAGMA foreign_keys = ON")
	if err != nil {
		return nil, err
	}

	gormDB, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open gorm connection: %v", err)
	}

	return &Database{db: db, gorm: gormDB}, nil
}

// LoadTrainingProperties reads sold properties with known prices as training
// rows for the price model.
func (d *Database) LoadTrainingProperties() ([]training.PropertyRow, error) {
	rows, err := d.db.Query(`
        SELECT
            sqft,
            bedrooms,
            bathrooms,
            year_built,
            lot_size,
            stories,
            garage,
            property_type,
            latitude,
            longitude,
            price
        FROM properties
        WHERE price IS NOT NULL
        AND sqft IS NOT NULL
        AND sqft > 0
    `)
	if err != nil {
		return nil, fmt.Errorf("failed to query training properties: %v", err)
	}
	defer rows.Close()

	var properties []training.PropertyRow
	for rows.Next() {
		var p training.PropertyRow
		var bedrooms sql.NullInt64
		var bathrooms sql.NullFloat64
		var yearBuilt, lotSize, stories, garage sql.NullInt64
		var propertyType sql.NullString
		var latitude, longitude sql.NullFloat64

		err := rows.Scan(
			&p.Sqft,
			&bedrooms,
			&bathrooms,
			&yearBuilt,
			&lotSize,
			&stories,
			&garage,
			&propertyType,
			&latitude,
			&longitude,
			&p.Price,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan property row: %v", err)
		}

		if bedrooms.Valid {
			p.Bedrooms = int(bedrooms.Int64)
		}
		if bathrooms.Valid {
			p.Bathrooms = bathrooms.Float64
		}
		if yearBuilt.Valid {
			yb := int(yearBuilt.Int64)
			p.YearBuilt = &yb
		}
		if lotSize.Valid {
			ls := int(lotSize.Int64)
			p.LotSize = &ls
		}
		if stories.Valid {
			st := int(stories.Int64)
			p.Stories = &st
		}
		if garage.Valid {
			g := int(garage.Int64)
			p.Garage = &g
		}
		if propertyType.Valid {
			p.PropertyType = propertyType.String
		}
		if latitude.Valid {
			p.Latitude = latitude.Float64
		}
		if longitude.Valid {
			p.Longitude = longitude.Float64
		}

		properties = append(properties, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating training properties: %v", err)
	}

	return properties, nil
}

// MarketSnapshotFeatureNames is the indicator layout for appreciation rows.
var MarketSnapshotFeatureNames = []string{
	"median_price",
	"inventory",
	"days_on_market_avg",
	"mortgage_rate",
	"population_growth",
}

// LoadMarketSnapshots reads market indicator rows and their observed 12-month
// appreciation for the appreciation model.
func (d *Database) LoadMarketSnapshots() ([][]float64, []float64, error) {
	rows, err := d.db.Query(`
        SELECT
            median_price,
            inventory,
            days_on_market_avg,
            mortgage_rate,
            population_growth,
            appreciation_1y
        FROM market_snapshots
        WHERE appreciation_1y IS NOT NULL
    `)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query market snapshots: %v", err)
	}
	defer rows.Close()

	var features [][]float64
	var targets []float64
	for rows.Next() {
		var medianPrice, inventory, daysOnMarket, mortgageRate, populationGrowth sql.NullFloat64
		var appreciation float64

		err := rows.Scan(
			&medianPrice,
			&inventory,
			&daysOnMarket,
			&mortgageRate,
			&populationGrowth,
			&appreciation,
		)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan market snapshot: %v", err)
		}

		features = append(features, []float64{
			medianPrice.Float64,
			inventory.Float64,
			daysOnMarket.Float64,
			mortgageRate.Float64,
			populationGrowth.Float64,
		})
		targets = append(targets, appreciation)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating market snapshots: %v", err)
	}

	return features, targets, nil
}

func (d *Database) Close() error {
	return d.db.Close()
}

func (d *Database) GetDB() *sql.DB {
	return d.db
}
