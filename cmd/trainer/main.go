package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"propertyiq/server/config"
	"propertyiq/server/internal/database"
	"propertyiq/server/internal/prediction"
	"propertyiq/server/internal/training"
)

var logger = logrus.New()

func main() {
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.WithError(err).Fatal("Failed to load configuration")
	}

	app := &cli.App{
		Name:  "trainer",
		Usage: "Offline training for PropertyIQ valuation models",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "db",
				Usage: "Path to the SQLite training dataset",
				Value: cfg.Trainer.DatabasePath,
			},
			&cli.StringFlag{
				Name:  "model-dir",
				Usage: "Directory to write model artifacts into",
				Value: cfg.Models.Dir,
			},
			&cli.Float64Flag{
				Name:  "test-size",
				Usage: "Held-out fraction for evaluation",
				Value: 0.2,
			},
			&cli.Int64Flag{
				Name:  "seed",
				Usage: "Random seed for the train/test split",
				Value: 42,
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "price",
				Usage:  "Fit the two-regressor price ensemble and save its artifact",
				Action: trainPrice(cfg),
			},
			{
				Name:   "appreciation",
				Usage:  "Fit the appreciation regressor and save its artifact",
				Action: trainAppreciation(cfg),
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		logger.WithError(err).Fatal("Training failed")
	}
}

func openDatabase(c *cli.Context) (*database.Database, error) {
	db, err := database.NewDatabase(c.String("db"))
	if err != nil {
		return nil, fmt.Errorf("failed to open training database: %w", err)
	}
	if err := db.RunMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return db, nil
}

func fitOptions(c *cli.Context) training.FitOptions {
	return training.FitOptions{
		TestSize: c.Float64("test-size"),
		Seed:     c.Int64("seed"),
	}
}

func trainPrice(cfg *config.Config) cli.ActionFunc {
	return func(c *cli.Context) error {
		db, err := openDatabase(c)
		if err != nil {
			return err
		}
		defer db.Close()

		rows, err := db.LoadTrainingProperties()
		if err != nil {
			return err
		}
		logger.WithField("samples", len(rows)).Info("Loaded price training dataset")

		predictor := training.NewPricePredictor()
		opts := fitOptions(c)
		metrics, err := predictor.Fit(rows, opts)
		if err != nil {
			return err
		}

		logger.WithFields(logrus.Fields{
			"mae":  metrics.MAE,
			"rmse": metrics.RMSE,
			"r2":   metrics.R2,
			"mape": metrics.MAPE,
		}).Info("Price model training complete")

		importance, err := predictor.FeatureImportance()
		if err == nil {
			logger.WithField("feature_importance", importance).Info("Price model feature importance")
		}

		artifactPath, err := saveArtifact(c, cfg.Models.PriceFile, predictor.Save)
		if err != nil {
			return err
		}

		return db.RecordTrainingRun(&database.TrainingRun{
			Model:        prediction.PriceModelName,
			Samples:      len(rows),
			TestSize:     opts.TestSize,
			MAE:          metrics.MAE,
			RMSE:         metrics.RMSE,
			R2:           metrics.R2,
			MAPE:         metrics.MAPE,
			ArtifactPath: artifactPath,
		})
	}
}

func trainAppreciation(cfg *config.Config) cli.ActionFunc {
	return func(c *cli.Context) error {
		db, err := openDatabase(c)
		if err != nil {
			return err
		}
		defer db.Close()

		features, targets, err := db.LoadMarketSnapshots()
		if err != nil {
			return err
		}
		logger.WithField("samples", len(features)).Info("Loaded appreciation training dataset")

		predictor := training.NewAppreciationPredictor(database.MarketSnapshotFeatureNames)
		opts := fitOptions(c)
		metrics, err := predictor.Fit(features, targets, opts)
		if err != nil {
			return err
		}

		logger.WithFields(logrus.Fields{
			"mae":  metrics.MAE,
			"rmse": metrics.RMSE,
			"r2":   metrics.R2,
		}).Info("Appreciation model training complete")

		artifactPath, err := saveArtifact(c, cfg.Models.AppreciationFile, predictor.Save)
		if err != nil {
			return err
		}

		return db.RecordTrainingRun(&database.TrainingRun{
			Model:        prediction.AppreciationModelName,
			Samples:      len(features),
			TestSize:     opts.TestSize,
			MAE:          metrics.MAE,
			RMSE:         metrics.RMSE,
			R2:           metrics.R2,
			MAPE:         metrics.MAPE,
			ArtifactPath: artifactPath,
		})
	}
}

func saveArtifact(c *cli.Context, fileName string, save func(string) error) (string, error) {
	modelDir := c.String("model-dir")
	if err := os.MkdirAll(modelDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create model directory: %w", err)
	}

	path := filepath.Join(modelDir, fileName)
	if err := save(path); err != nil {
		return "", fmt.Errorf("failed to save artifact: %w", err)
	}

	logger.WithField("path", path).Info("Saved model artifact")
	return path, nil
}
