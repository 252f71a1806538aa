package database

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDatabase(t *testing.T) *Database {
	t.Helper()

	db, err := NewDatabase(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, db.RunMigrations())
	return db
}

func TestLoadTrainingProperties(t *testing.T) {
	db := testDatabase(t)

	_, err := db.GetDB().Exec(`
		INSERT INTO properties (sqft, bedrooms, bathrooms, year_built, lot_size, property_type, latitude, longitude, price)
		VALUES
			(1500, 3, 2.0, 1995, 5000, 'SINGLE_FAMILY', 37.77, -122.41, 450000),
			(900, 2, 1.0, NULL, NULL, 'CONDO', 37.78, -122.40, 350000),
			(NULL, 2, 1.0, 2000, 3000, 'CONDO', 37.79, -122.39, 300000),
			(1200, 2, 1.5, 2010, 4000, 'TOWNHOUSE', 37.80, -122.38, NULL)
	`)
	require.NoError(t, err)

	rows, err := db.LoadTrainingProperties()
	require.NoError(t, err)
	// Rows without price or sqft are excluded.
	require.Len(t, rows, 2)

	first := rows[0]
	assert.Equal(t, 1500, first.Sqft)
	assert.Equal(t, 3, first.Bedrooms)
	assert.Equal(t, 2.0, first.Bathrooms)
	require.NotNil(t, first.YearBuilt)
	assert.Equal(t, 1995, *first.YearBuilt)
	assert.Equal(t, 450000, first.Price)

	second := rows[1]
	assert.Nil(t, second.YearBuilt, "NULL columns stay unset for the defaults policy")
	assert.Nil(t, second.LotSize)
	assert.Equal(t, "CONDO", second.PropertyType)
}

func TestLoadMarketSnapshots(t *testing.T) {
	db := testDatabase(t)

	_, err := db.GetDB().Exec(`
		INSERT INTO market_snapshots (zip_code, median_price, inventory, days_on_market_avg, mortgage_rate, population_growth, appreciation_1y)
		VALUES
			('94110', 900000, 120, 35, 6.5, 1.2, 4.8),
			('94110', 880000, 140, 40, 6.8, 1.1, NULL)
	`)
	require.NoError(t, err)

	features, targets, err := db.LoadMarketSnapshots()
	require.NoError(t, err)
	// Snapshots without an observed appreciation are excluded.
	require.Len(t, features, 1)
	require.Len(t, targets, 1)

	assert.Equal(t, []float64{900000, 120, 35, 6.5, 1.2}, features[0])
	assert.Equal(t, 4.8, targets[0])
	assert.Len(t, MarketSnapshotFeatureNames, len(features[0]))
}

func TestTrainingRunRegistry(t *testing.T) {
	db := testDatabase(t)

	require.NoError(t, db.RecordTrainingRun(&TrainingRun{
		Model:        "price_predictor",
		Samples:      120,
		TestSize:     0.2,
		MAE:          25000,
		RMSE:         40000,
		R2:           0.82,
		MAPE:         6.1,
		ArtifactPath: "models/price_model.json",
	}))
	require.NoError(t, db.RecordTrainingRun(&TrainingRun{
		Model:   "appreciation_model",
		Samples: 300,
	}))

	runs, err := db.RecentTrainingRuns(10)
	require.NoError(t, err)
	require.Len(t, runs, 2)

	byModel := map[string]TrainingRun{}
	for _, run := range runs {
		byModel[run.Model] = run
	}
	assert.Equal(t, 120, byModel["price_predictor"].Samples)
	assert.Equal(t, 0.82, byModel["price_predictor"].R2)
	assert.Equal(t, 300, byModel["appreciation_model"].Samples)
}

func TestMigrationsAreIdempotent(t *testing.T) {
	db := testDatabase(t)
	assert.NoError(t, db.RunMigrations())
}
