package ledger

import (
	"encoding/json"
	"fmt"

	"github.com/yourusername/matchday/internal/models"
)

func marshalSnapshot(s snapshot) ([]byte, error) {
	if s.PredictionsHistory == nil {
		s.PredictionsHistory = []Entry{}
	}
	return json.MarshalIndent(s, "", "  ")
}

func unmarshalSnapshot(data []byte) (*snapshot, error) {
	var s snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("ledger snapshot: %v: %w", err, models.ErrCorruptState)
	}
	for i := range s.PredictionsHistory {
		e := &s.PredictionsHistory[i]
		if e.Prediction.HomeTeam == "" || e.Prediction.AwayTeam == "" {
			return nil, fmt.Errorf("ledger entry %d missing teams: %w", i, models.ErrCorruptState)
		}
	}
	return &s, nil
}
