package provider

import (
	"context"

	"github.com/yourusername/matchday/internal/models"
	"github.com/yourusername/matchday/internal/store"
)

// DatasetProvider serves slates from the stored historical dataset. It backs
// offline backfills and acts as the fallback when the live feed is down.
// Injury reports are not part of the dataset, so FetchInjuries always
// returns an empty report.
type DatasetProvider struct {
	source store.DatasetSource
}

// NewDatasetProvider wraps a dataset source as a Provider.
func NewDatasetProvider(source store.DatasetSource) *DatasetProvider {
	return &DatasetProvider{source: source}
}

// Name returns the provider name.
func (p *DatasetProvider) Name() string { return "dataset" }

// FetchSchedule returns the dataset games for the slate that have not
// completed yet.
func (p *DatasetProvider) FetchSchedule(ctx context.Context, slate Slate) ([]models.GameRecord, error) {
	games, err := p.slateGames(ctx, slate)
	if err != nil {
		return nil, err
	}
	var scheduled []models.GameRecord
	for _, g := range games {
		if !g.Completed() {
			scheduled = append(scheduled, g)
		}
	}
	return scheduled, nil
}

// FetchResults returns the completed dataset games for the slate.
func (p *DatasetProvider) FetchResults(ctx context.Context, slate Slate) ([]models.GameRecord, error) {
	games, err := p.slateGames(ctx, slate)
	if err != nil {
		return nil, err
	}
	var completed []models.GameRecord
	for _, g := range games {
		if g.Completed() {
			completed = append(completed, g)
		}
	}
	return completed, nil
}

// FetchInjuries always reports a clean sheet.
func (p *DatasetProvider) FetchInjuries(_ context.Context, _ models.Sport, _ string) ([]models.InjuryEntry, error) {
	return nil, nil
}

func (p *DatasetProvider) slateGames(ctx context.Context, slate Slate) ([]models.GameRecord, error) {
	games, err := p.source.LoadDataset(ctx, slate.Sport)
	if err != nil {
		return nil, NewProviderError(p.Name(), ErrCodeNotFound, "dataset unavailable", err)
	}

	var out []models.GameRecord
	for _, g := range games {
		if slate.Week != nil {
			if g.Week != nil && *g.Week == *slate.Week {
				out = append(out, g)
			}
			continue
		}
		if slate.Date == "" || g.Date == slate.Date {
			out = append(out, g)
		}
	}
	return out, nil
}
