package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/matchday/internal/models"
)

// FileStore persists everything as JSON files under a single data directory.
// Writes go through a temp file and rename so a crash mid-write never leaves
// a truncated artifact behind.
type FileStore struct {
	dir string
	log *logrus.Logger
}

// NewFileStore creates the data directory if needed.
func NewFileStore(dir string, log *logrus.Logger) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	return &FileStore{dir: dir, log: log}, nil
}

func (s *FileStore) path(kind string, sport models.Sport) string {
	return filepath.Join(s.dir, fmt.Sprintf("%s_%s.json", sport, kind))
}

// LoadModel reads the serialized model state for a sport.
func (s *FileStore) LoadModel(_ context.Context, sport models.Sport) ([]byte, error) {
	return s.read(s.path("model", sport))
}

// SaveModel writes the serialized model state atomically.
func (s *FileStore) SaveModel(_ context.Context, sport models.Sport, data []byte) error {
	return s.write(s.path("model", sport), data)
}

// LoadLedger reads the serialized accuracy ledger for a sport.
func (s *FileStore) LoadLedger(_ context.Context, sport models.Sport) ([]byte, error) {
	return s.read(s.path("ledger", sport))
}

// SaveLedger writes the serialized accuracy ledger atomically.
func (s *FileStore) SaveLedger(_ context.Context, sport models.Sport, data []byte) error {
	return s.write(s.path("ledger", sport), data)
}

// LoadPredictions reads the current prediction set for a sport. A missing
// file yields an empty set, not an error.
func (s *FileStore) LoadPredictions(_ context.Context, sport models.Sport) ([]models.Prediction, error) {
	data, err := s.read(s.path("predictions", sport))
	if errors.Is(err, models.ErrStateNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var preds []models.Prediction
	if err := json.Unmarshal(data, &preds); err != nil {
		return nil, fmt.Errorf("predictions file: %v: %w", err, models.ErrCorruptState)
	}
	return preds, nil
}

// SavePredictions writes the full prediction set atomically, replacing any
// earlier set for the sport.
func (s *FileStore) SavePredictions(_ context.Context, sport models.Sport, preds []models.Prediction) error {
	if preds == nil {
		preds = []models.Prediction{}
	}
	data, err := json.MarshalIndent(preds, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode predictions: %w", err)
	}
	return s.write(s.path("predictions", sport), data)
}

// LoadDataset reads the historical games file for a sport.
func (s *FileStore) LoadDataset(_ context.Context, sport models.Sport) ([]models.GameRecord, error) {
	data, err := s.read(s.path("games", sport))
	if err != nil {
		return nil, err
	}
	var games []models.GameRecord
	if err := json.Unmarshal(data, &games); err != nil {
		return nil, fmt.Errorf("games file: %v: %w", err, models.ErrCorruptState)
	}
	return games, nil
}

// SaveDataset writes the historical games file atomically.
func (s *FileStore) SaveDataset(_ context.Context, sport models.Sport, games []models.GameRecord) error {
	if games == nil {
		games = []models.GameRecord{}
	}
	data, err := json.MarshalIndent(games, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode games: %w", err)
	}
	return s.write(s.path("games", sport), data)
}

func (s *FileStore) read(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), models.ErrStateNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", filepath.Base(path), err)
	}
	return data, nil
}

func (s *FileStore) write(path string, data []byte) error {
	tmp, err := os.CreateTemp(s.dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write %s: %w", filepath.Base(path), err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace %s: %w", filepath.Base(path), err)
	}

	s.log.WithFields(logrus.Fields{
		"file":  filepath.Base(path),
		"bytes": len(data),
	}).Debug("State persisted")
	return nil
}
