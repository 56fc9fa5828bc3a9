// Package store persists models, ledgers and predictions, and loads the
// historical game datasets they are built from.
package store

import (
	"context"

	"github.com/yourusername/matchday/internal/models"
)

// Store is the persistence surface for everything the predictor owns. Sport
// keys the per-league artifacts so the two leagues never share state.
type Store interface {
	LoadModel(ctx context.Context, sport models.Sport) ([]byte, error)
	SaveModel(ctx context.Context, sport models.Sport, data []byte) error

	LoadLedger(ctx context.Context, sport models.Sport) ([]byte, error)
	SaveLedger(ctx context.Context, sport models.Sport, data []byte) error

	LoadPredictions(ctx context.Context, sport models.Sport) ([]models.Prediction, error)
	SavePredictions(ctx context.Context, sport models.Sport, preds []models.Prediction) error
}

// DatasetSource loads the historical game records used for training,
// feature computation and offline backfill.
type DatasetSource interface {
	LoadDataset(ctx context.Context, sport models.Sport) ([]models.GameRecord, error)
}

// DatasetSink additionally accepts new records, for ingest paths that keep
// the dataset current.
type DatasetSink interface {
	DatasetSource
	SaveDataset(ctx context.Context, sport models.Sport, games []models.GameRecord) error
}
