package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/matchday/internal/models"
)

func newTestStore(t *testing.T) *FileStore {
	t.Helper()
	log := logrus.New()
	log.SetOutput(os.Stderr)
	log.SetLevel(logrus.ErrorLevel)

	s, err := NewFileStore(t.TempDir(), log)
	if err != nil {
		t.Fatalf("new file store: %v", err)
	}
	return s
}

func TestModelRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	payload := []byte(`{"weights":[1,2,3]}`)
	if err := s.SaveModel(ctx, models.SportFootball, payload); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := s.LoadModel(ctx, models.SportFootball)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if string(got) != string(payload) {
		t.Fatalf("round trip mismatch: %s", got)
	}
}

func TestMissingStateError(t *testing.T) {
	s := newTestStore(t)

	_, err := s.LoadModel(context.Background(), models.SportBasketball)
	if !errors.Is(err, models.ErrStateNotFound) {
		t.Fatalf("expected ErrStateNotFound, got %v", err)
	}
	_, err = s.LoadDataset(context.Background(), models.SportBasketball)
	if !errors.Is(err, models.ErrStateNotFound) {
		t.Fatalf("expected ErrStateNotFound for dataset, got %v", err)
	}
}

func TestMissingPredictionsYieldEmptySet(t *testing.T) {
	s := newTestStore(t)

	preds, err := s.LoadPredictions(context.Background(), models.SportBasketball)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(preds) != 0 {
		t.Fatalf("expected empty set, got %d", len(preds))
	}
}

func TestPredictionsReplaceOnSave(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	first := []models.Prediction{{HomeTeam: "LAL", AwayTeam: "BOS", Date: "2025-01-10", Winner: "LAL"}}
	second := []models.Prediction{{HomeTeam: "NYK", AwayTeam: "CHI", Date: "2025-01-11", Winner: "NYK"}}

	if err := s.SavePredictions(ctx, models.SportBasketball, first); err != nil {
		t.Fatalf("save first: %v", err)
	}
	if err := s.SavePredictions(ctx, models.SportBasketball, second); err != nil {
		t.Fatalf("save second: %v", err)
	}

	preds, err := s.LoadPredictions(ctx, models.SportBasketball)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(preds) != 1 || preds[0].HomeTeam != "NYK" {
		t.Fatalf("expected save to replace earlier set, got %+v", preds)
	}
}

func TestCorruptFileError(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	path := s.path("games", models.SportFootball)
	if err := os.WriteFile(path, []byte("{truncated"), 0o644); err != nil {
		t.Fatalf("seed corrupt file: %v", err)
	}

	_, err := s.LoadDataset(ctx, models.SportFootball)
	if !errors.Is(err, models.ErrCorruptState) {
		t.Fatalf("expected ErrCorruptState, got %v", err)
	}
}

func TestWriteLeavesNoTempFiles(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.SaveLedger(ctx, models.SportBasketball, []byte(`{}`)); err != nil {
		t.Fatalf("save: %v", err)
	}

	matches, err := filepath.Glob(filepath.Join(s.dir, "*.tmp-*"))
	if err != nil {
		t.Fatalf("glob: %v", err)
	}
	if len(matches) != 0 {
		t.Fatalf("temp files left behind: %v", matches)
	}
}

func TestDatasetRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	hs, as := 110, 102
	games := []models.GameRecord{
		{
			Date: "2025-01-09", HomeTeam: "LAL", AwayTeam: "BOS",
			Status: models.GameCompleted, Winner: "LAL",
			HomeScore: &hs, AwayScore: &as,
			Box: []models.PlayerLine{{Player: "J. Doe", Team: "LAL", Points: 31}},
		},
	}
	if err := s.SaveDataset(ctx, models.SportBasketball, games); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := s.LoadDataset(ctx, models.SportBasketball)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got) != 1 || got[0].Winner != "LAL" || len(got[0].Box) != 1 {
		t.Fatalf("dataset round trip mismatch: %+v", got)
	}
}
