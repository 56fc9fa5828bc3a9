// Package service orchestrates prediction generation, reconciliation and
// accuracy reporting across both leagues.
package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/matchday/internal/config"
	"github.com/yourusername/matchday/internal/features"
	"github.com/yourusername/matchday/internal/ledger"
	"github.com/yourusername/matchday/internal/metrics"
	"github.com/yourusername/matchday/internal/models"
	"github.com/yourusername/matchday/internal/outcome"
	"github.com/yourusername/matchday/internal/provider"
	"github.com/yourusername/matchday/internal/store"
)

// Predictor owns the per-sport models, ledgers and prediction sets, and
// drives them from provider slates. One instance serves both leagues.
type Predictor struct {
	cfg      *config.Config
	log      *logrus.Logger
	store    store.Store
	dataset  store.DatasetSource
	live     provider.Provider
	fallback provider.Provider

	basketball *outcome.BasketballModel
	football   *outcome.FootballModel
	ledgers    map[models.Sport]*ledger.Ledger
}

// NewPredictor wires the predictor. live may be nil for offline use, in
// which case every fetch goes to the dataset provider.
func NewPredictor(cfg *config.Config, log *logrus.Logger, st store.Store, dataset store.DatasetSource, live provider.Provider) *Predictor {
	p := &Predictor{
		cfg:      cfg,
		log:      log,
		store:    st,
		dataset:  dataset,
		live:     live,
		fallback: provider.NewDatasetProvider(dataset),
		basketball: outcome.NewBasketballModel(outcome.ForestConfig{
			Trees:    cfg.Model.Trees,
			MaxDepth: cfg.Model.MaxDepth,
			MinLeaf:  cfg.Model.MinLeaf,
			Seed:     cfg.Model.Seed,
		}),
		football: outcome.NewFootballModel(cfg.Model.Seed),
		ledgers: map[models.Sport]*ledger.Ledger{
			models.SportBasketball: ledger.New(),
			models.SportFootball:   ledger.New(),
		},
	}
	return p
}

// RestoreState loads persisted models and ledgers. Missing state is normal
// on first run. Corrupt state is fatal only for that load: the ledger starts
// fresh and the model stays untrained until the next training run, rather
// than refusing to boot.
func (p *Predictor) RestoreState(ctx context.Context) error {
	for _, sport := range []models.Sport{models.SportBasketball, models.SportFootball} {
		data, err := p.store.LoadLedger(ctx, sport)
		switch {
		case errors.Is(err, models.ErrStateNotFound):
		case err != nil:
			return fmt.Errorf("load %s ledger: %w", sport, err)
		default:
			if err := p.ledgers[sport].Restore(data); err != nil {
				if !errors.Is(err, models.ErrCorruptState) {
					return fmt.Errorf("restore %s ledger: %w", sport, err)
				}
				p.ledgers[sport] = ledger.New()
				p.log.WithFields(logrus.Fields{"sport": sport, "error": err}).Warn("Corrupt ledger state discarded, starting fresh")
			}
		}

		data, err = p.store.LoadModel(ctx, sport)
		switch {
		case errors.Is(err, models.ErrStateNotFound):
			continue
		case err != nil:
			return fmt.Errorf("load %s model: %w", sport, err)
		}
		if sport == models.SportBasketball {
			err = p.basketball.UnmarshalState(data)
		} else {
			err = p.football.UnmarshalState(data)
		}
		if err != nil {
			if !errors.Is(err, models.ErrCorruptState) {
				return fmt.Errorf("restore %s model: %w", sport, err)
			}
			p.log.WithFields(logrus.Fields{"sport": sport, "error": err}).Warn("Corrupt model state discarded, model needs retraining")
			continue
		}
		p.log.WithField("sport", sport).Info("Model state restored")
	}
	return nil
}

// Train fits the sport's model from the stored dataset and persists the
// fitted state.
func (p *Predictor) Train(ctx context.Context, sport models.Sport) (*outcome.TrainReport, error) {
	start := time.Now()
	history, err := p.dataset.LoadDataset(ctx, sport)
	if err != nil {
		return nil, fmt.Errorf("load %s dataset: %w", sport, err)
	}

	var report *outcome.TrainReport
	if sport == models.SportBasketball {
		report, err = p.basketball.Train(history, p.cfg.Model.HoldoutFraction)
	} else {
		report, err = p.football.Train(history, p.cfg.Model.HoldoutFraction)
	}
	if err != nil {
		return nil, fmt.Errorf("train %s model: %w", sport, err)
	}

	var state []byte
	if sport == models.SportBasketball {
		state, err = p.basketball.MarshalState()
	} else {
		state, err = p.football.MarshalState()
	}
	if err != nil {
		return nil, fmt.Errorf("serialize %s model: %w", sport, err)
	}
	if err := p.store.SaveModel(ctx, sport, state); err != nil {
		return nil, fmt.Errorf("persist %s model: %w", sport, err)
	}

	metrics.RecordTrainingRun(string(sport), time.Since(start).Seconds())
	p.log.WithFields(logrus.Fields{
		"sport":    sport,
		"examples": report.Examples,
		"accuracy": report.Accuracy,
		"mse":      report.MSE,
	}).Info("Model trained")
	return report, nil
}

// GeneratePredictions predicts every matchup on a slate. A matchup that
// cannot be predicted (unknown team, too little history) is skipped and
// counted without failing the run. Regenerating a slate supersedes the
// earlier predictions for the same matchups.
func (p *Predictor) GeneratePredictions(ctx context.Context, slate provider.Slate) ([]models.Prediction, error) {
	start := time.Now()
	sport := slate.Sport
	if !sport.Valid() {
		return nil, fmt.Errorf("unsupported sport %q", sport)
	}
	defer func() {
		metrics.RecordGenerationDuration(string(sport), time.Since(start).Seconds())
	}()

	schedule, err := p.fetchSchedule(ctx, slate)
	if err != nil {
		return nil, err
	}
	if len(schedule) == 0 {
		p.log.WithFields(logrus.Fields{"sport": sport, "date": slate.Date}).Info("No games on slate")
		return nil, nil
	}

	history, err := p.dataset.LoadDataset(ctx, sport)
	if err != nil && !errors.Is(err, models.ErrStateNotFound) {
		return nil, fmt.Errorf("load %s dataset: %w", sport, err)
	}

	p.ensureTrained(ctx, sport, history)

	// The method is decided once per run: the trained model when one exists,
	// the heuristic for the whole slate otherwise. A matchup the model cannot
	// serve is skipped, never silently downgraded.
	trained := p.trained(sport)

	var preds []models.Prediction
	for _, g := range schedule {
		pred, err := p.predictGame(ctx, sport, trained, &g, history)
		if err != nil {
			metrics.RecordSkipped(string(sport))
			p.log.WithFields(logrus.Fields{
				"sport": sport,
				"home":  g.HomeTeam,
				"away":  g.AwayTeam,
				"error": err,
			}).Warn("Skipping matchup")
			continue
		}
		preds = append(preds, *pred)
		p.ledgers[sport].Record(*pred)
	}

	if err := p.persist(ctx, slate, preds); err != nil {
		return nil, err
	}

	p.log.WithFields(logrus.Fields{
		"sport":     sport,
		"scheduled": len(schedule),
		"predicted": len(preds),
	}).Info("Predictions generated")
	return preds, nil
}

// predictGame predicts one matchup. With no trained model the heuristic
// serves it; with one, any model error (unknown team, too little history)
// skips the matchup by propagating the error to the caller.
func (p *Predictor) predictGame(ctx context.Context, sport models.Sport, trained bool, g *models.GameRecord, history []models.GameRecord) (*models.Prediction, error) {
	pred := &models.Prediction{
		ID:       uuid.New(),
		HomeTeam: g.HomeTeam,
		AwayTeam: g.AwayTeam,
		Date:     g.Date,
		Week:     g.Week,
		Season:   g.Season,
	}

	if sport == models.SportBasketball {
		homeAvail := features.RosterAvailability(g.HomeTeam, g.Date, history)
		awayAvail := features.RosterAvailability(g.AwayTeam, g.Date, history)
		pred.HomeAvailability = homeAvail
		pred.AwayAvailability = awayAvail

		if !trained {
			p.applyHeuristic(pred, sport, g, history)
			return pred, nil
		}

		out, err := p.basketball.Predict(g.HomeTeam, g.AwayTeam, homeAvail, awayAvail)
		if err != nil {
			return nil, err
		}
		pred.Winner = out.Winner
		pred.Confidence = out.Confidence
		pred.HomeWinProb = out.HomeWinProb
		pred.AwayWinProb = out.AwayWinProb
		metrics.RecordPrediction(string(sport), "model")
		return pred, nil
	}

	homeAvail := p.footballAvailability(ctx, g.HomeTeam)
	awayAvail := p.footballAvailability(ctx, g.AwayTeam)
	pred.HomeAvailability = homeAvail
	pred.AwayAvailability = awayAvail

	if !trained {
		p.applyHeuristic(pred, sport, g, history)
		return pred, nil
	}

	out, err := p.football.Predict(g.HomeTeam, g.AwayTeam, g.Date, history, homeAvail, awayAvail)
	if err != nil {
		return nil, err
	}
	pred.Winner = out.Winner
	pred.Confidence = out.Confidence
	pred.HomeWinProb = out.HomeWinProb
	pred.AwayWinProb = out.AwayWinProb
	diff := out.PointDiff
	pred.PointDiff = &diff
	home, away := out.PredictedHome, out.PredictedAway
	pred.PredictedHome = &home
	pred.PredictedAway = &away
	metrics.RecordPrediction(string(sport), "model")
	return pred, nil
}

// applyHeuristic fills a prediction from the rule-based fallback.
func (p *Predictor) applyHeuristic(pred *models.Prediction, sport models.Sport, g *models.GameRecord, history []models.GameRecord) {
	out := outcome.NewHeuristic(sport).Predict(g.HomeTeam, g.AwayTeam, g.Date, history)
	pred.Winner = out.Winner
	pred.Confidence = out.Confidence
	pred.HomeWinProb = out.HomeWinProb
	pred.AwayWinProb = out.AwayWinProb
	metrics.RecordPrediction(string(sport), "heuristic")
}

// footballAvailability fetches the injury report and turns it into the
// availability factor. A failed fetch fails open to full strength.
func (p *Predictor) footballAvailability(ctx context.Context, team string) float64 {
	if p.live == nil {
		return 1.0
	}
	entries, err := p.live.FetchInjuries(ctx, models.SportFootball, team)
	if err != nil {
		p.log.WithFields(logrus.Fields{"team": team, "error": err}).Debug("Injury report unavailable")
		return 1.0
	}
	return features.InjuryAvailability(entries)
}

// Reconcile fetches results for a slate and settles matching pending ledger
// entries. Safe to run repeatedly.
func (p *Predictor) Reconcile(ctx context.Context, slate provider.Slate) (int, error) {
	sport := slate.Sport
	results, err := p.fetchResults(ctx, slate)
	if err != nil {
		return 0, err
	}

	settled := p.ledgers[sport].Reconcile(results)
	if settled > 0 {
		data, err := p.ledgers[sport].Snapshot()
		if err != nil {
			return settled, fmt.Errorf("snapshot %s ledger: %w", sport, err)
		}
		if err := p.store.SaveLedger(ctx, sport, data); err != nil {
			return settled, fmt.Errorf("persist %s ledger: %w", sport, err)
		}
	}

	stats := p.ledgers[sport].Stats()
	metrics.RecordReconciliations(string(sport), settled)
	metrics.UpdateAccuracy(string(sport), stats.Accuracy)
	metrics.UpdatePending(string(sport), len(p.ledgers[sport].Pending()))

	p.log.WithFields(logrus.Fields{
		"sport":   sport,
		"settled": settled,
		"record":  stats.Record,
	}).Info("Ledger reconciled")
	return settled, nil
}

// ReconcilePending reconciles every slate that still has a pending entry.
func (p *Predictor) ReconcilePending(ctx context.Context, sport models.Sport) (int, error) {
	pending := p.ledgers[sport].Pending()
	if len(pending) == 0 {
		return 0, nil
	}

	seen := make(map[string]bool)
	total := 0
	for _, e := range pending {
		slate := provider.Slate{Sport: sport, Date: e.Prediction.Date, Week: e.Prediction.Week, Season: e.Prediction.Season}
		key := fmt.Sprintf("%s|%v", slate.Date, slate.Week)
		if seen[key] {
			continue
		}
		seen[key] = true

		settled, err := p.Reconcile(ctx, slate)
		if err != nil {
			p.log.WithFields(logrus.Fields{"sport": sport, "date": slate.Date, "error": err}).Warn("Reconcile slate failed")
			continue
		}
		total += settled
	}
	return total, nil
}

// Backfill replays historical slates through the deterministic heuristic and
// settles them immediately against the known results. Rebuilding the ledger
// from the same dataset always produces the same record.
func (p *Predictor) Backfill(ctx context.Context, sport models.Sport, from, to string) (models.Stats, error) {
	history, err := p.dataset.LoadDataset(ctx, sport)
	if err != nil {
		return models.Stats{}, fmt.Errorf("load %s dataset: %w", sport, err)
	}

	led := p.ledgers[sport]
	for i := range history {
		g := &history[i]
		if !g.Completed() {
			continue
		}
		if from != "" && g.Date < from {
			continue
		}
		if to != "" && g.Date > to {
			continue
		}

		pred := models.Prediction{
			HomeTeam: g.HomeTeam,
			AwayTeam: g.AwayTeam,
			Date:     g.Date,
			Week:     g.Week,
			Season:   g.Season,
		}
		// Content-derived ID: replaying the same dataset writes the same bytes.
		pred.ID = uuid.NewSHA1(uuid.NameSpaceOID, []byte(string(sport)+":"+pred.Key()))
		out := outcome.NewHeuristic(sport).Predict(g.HomeTeam, g.AwayTeam, g.Date, history)
		pred.Winner = out.Winner
		pred.Confidence = out.Confidence
		pred.HomeWinProb = out.HomeWinProb
		pred.AwayWinProb = out.AwayWinProb

		led.Record(pred)
		metrics.RecordPrediction(string(sport), "heuristic")
	}

	settled := led.Reconcile(history)
	metrics.RecordReconciliations(string(sport), settled)

	data, err := led.Snapshot()
	if err != nil {
		return models.Stats{}, fmt.Errorf("snapshot %s ledger: %w", sport, err)
	}
	if err := p.store.SaveLedger(ctx, sport, data); err != nil {
		return models.Stats{}, fmt.Errorf("persist %s ledger: %w", sport, err)
	}

	stats := led.Stats()
	metrics.UpdateAccuracy(string(sport), stats.Accuracy)
	p.log.WithFields(logrus.Fields{
		"sport":   sport,
		"settled": settled,
		"record":  stats.Record,
	}).Info("Backfill complete")
	return stats, nil
}

// Stats returns the accuracy summary for a sport.
func (p *Predictor) Stats(sport models.Sport) models.Stats {
	return p.ledgers[sport].Stats()
}

// Predictions returns the stored prediction set for a sport.
func (p *Predictor) Predictions(ctx context.Context, sport models.Sport) ([]models.Prediction, error) {
	return p.store.LoadPredictions(ctx, sport)
}

// History returns the full ledger history for a sport.
func (p *Predictor) History(sport models.Sport) []ledger.Entry {
	return p.ledgers[sport].Entries()
}

// trained reports whether the sport's model can serve predictions.
func (p *Predictor) trained(sport models.Sport) bool {
	if sport == models.SportFootball {
		return p.football.Trained()
	}
	return p.basketball.Trained()
}

// ensureTrained attempts an on-demand training run when the sport's model
// has no usable state yet. Failure is not fatal; the run falls back to the
// heuristic.
func (p *Predictor) ensureTrained(ctx context.Context, sport models.Sport, history []models.GameRecord) {
	if p.trained(sport) || len(history) == 0 {
		return
	}
	if _, err := p.Train(ctx, sport); err != nil {
		p.log.WithFields(logrus.Fields{"sport": sport, "error": err}).Warn("On-demand training failed, falling back to heuristic")
	}
}

// persist merges the slate's predictions into the stored set. Predictions
// for the same slate are superseded; other dates and weeks are kept.
// Football sets stay sorted newest week first.
func (p *Predictor) persist(ctx context.Context, slate provider.Slate, preds []models.Prediction) error {
	sport := slate.Sport
	if len(preds) > 0 {
		existing, err := p.store.LoadPredictions(ctx, sport)
		if err != nil && !errors.Is(err, models.ErrStateNotFound) {
			return fmt.Errorf("load %s predictions: %w", sport, err)
		}

		merged := make([]models.Prediction, 0, len(existing)+len(preds))
		for _, old := range existing {
			if sameSlate(&old, slate) {
				continue
			}
			merged = append(merged, old)
		}
		merged = append(merged, preds...)
		if sport == models.SportFootball {
			sortFootball(merged)
		}

		if err := p.store.SavePredictions(ctx, sport, merged); err != nil {
			return fmt.Errorf("persist %s predictions: %w", sport, err)
		}
	}
	data, err := p.ledgers[sport].Snapshot()
	if err != nil {
		return fmt.Errorf("snapshot %s ledger: %w", sport, err)
	}
	if err := p.store.SaveLedger(ctx, sport, data); err != nil {
		return fmt.Errorf("persist %s ledger: %w", sport, err)
	}
	metrics.UpdatePending(string(sport), len(p.ledgers[sport].Pending()))
	return nil
}

// sameSlate reports whether a stored prediction belongs to the slate being
// regenerated.
func sameSlate(p *models.Prediction, slate provider.Slate) bool {
	if slate.Week != nil {
		return p.Week != nil && *p.Week == *slate.Week
	}
	return p.Date == slate.Date
}

// sortFootball orders predictions newest season and week first.
func sortFootball(preds []models.Prediction) {
	sort.SliceStable(preds, func(i, j int) bool {
		si, sj := 0, 0
		if preds[i].Season != nil {
			si = *preds[i].Season
		}
		if preds[j].Season != nil {
			sj = *preds[j].Season
		}
		if si != sj {
			return si > sj
		}
		wi, wj := 0, 0
		if preds[i].Week != nil {
			wi = *preds[i].Week
		}
		if preds[j].Week != nil {
			wj = *preds[j].Week
		}
		return wi > wj
	})
}

// fetchSchedule prefers the live feed and falls back to the stored dataset
// when the feed is down.
func (p *Predictor) fetchSchedule(ctx context.Context, slate provider.Slate) ([]models.GameRecord, error) {
	if p.live != nil {
		games, err := p.live.FetchSchedule(ctx, slate)
		if err == nil {
			return games, nil
		}
		metrics.RecordProviderFallback(string(slate.Sport))
		p.log.WithFields(logrus.Fields{"sport": slate.Sport, "error": err}).Warn("Live schedule unavailable, using dataset")
	}
	return p.fallback.FetchSchedule(ctx, slate)
}

func (p *Predictor) fetchResults(ctx context.Context, slate provider.Slate) ([]models.GameRecord, error) {
	if p.live != nil {
		games, err := p.live.FetchResults(ctx, slate)
		if err == nil {
			return games, nil
		}
		metrics.RecordProviderFallback(string(slate.Sport))
		p.log.WithFields(logrus.Fields{"sport": slate.Sport, "error": err}).Warn("Live results unavailable, using dataset")
	}
	return p.fallback.FetchResults(ctx, slate)
}
