package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/yourusername/matchday/internal/models"
)

// MemoryStore is an in-memory Store and DatasetSink used in tests and
// throwaway runs.
type MemoryStore struct {
	mu     sync.RWMutex
	blobs  map[string][]byte
	preds  map[models.Sport][]models.Prediction
	games  map[models.Sport][]models.GameRecord
	failed bool
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		blobs: make(map[string][]byte),
		preds: make(map[models.Sport][]models.Prediction),
		games: make(map[models.Sport][]models.GameRecord),
	}
}

// FailWrites makes every subsequent write return an error.
func (s *MemoryStore) FailWrites() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failed = true
}

func (s *MemoryStore) get(key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.blobs[key]
	if !ok {
		return nil, fmt.Errorf("%s: %w", key, models.ErrStateNotFound)
	}
	return append([]byte(nil), data...), nil
}

func (s *MemoryStore) put(key string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failed {
		return fmt.Errorf("write %s: store unavailable", key)
	}
	s.blobs[key] = append([]byte(nil), data...)
	return nil
}

func (s *MemoryStore) LoadModel(_ context.Context, sport models.Sport) ([]byte, error) {
	return s.get(string(sport) + "_model")
}

func (s *MemoryStore) SaveModel(_ context.Context, sport models.Sport, data []byte) error {
	return s.put(string(sport)+"_model", data)
}

func (s *MemoryStore) LoadLedger(_ context.Context, sport models.Sport) ([]byte, error) {
	return s.get(string(sport) + "_ledger")
}

func (s *MemoryStore) SaveLedger(_ context.Context, sport models.Sport, data []byte) error {
	return s.put(string(sport)+"_ledger", data)
}

func (s *MemoryStore) LoadPredictions(_ context.Context, sport models.Sport) ([]models.Prediction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Prediction(nil), s.preds[sport]...), nil
}

func (s *MemoryStore) SavePredictions(_ context.Context, sport models.Sport, preds []models.Prediction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failed {
		return fmt.Errorf("write %s predictions: store unavailable", sport)
	}
	s.preds[sport] = append([]models.Prediction(nil), preds...)
	return nil
}

func (s *MemoryStore) LoadDataset(_ context.Context, sport models.Sport) ([]models.GameRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	games, ok := s.games[sport]
	if !ok {
		return nil, fmt.Errorf("%s games: %w", sport, models.ErrStateNotFound)
	}
	return append([]models.GameRecord(nil), games...), nil
}

func (s *MemoryStore) SaveDataset(_ context.Context, sport models.Sport, games []models.GameRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failed {
		return fmt.Errorf("write %s games: store unavailable", sport)
	}
	s.games[sport] = append([]models.GameRecord(nil), games...)
	return nil
}
