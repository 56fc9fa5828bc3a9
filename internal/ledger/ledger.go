// Package ledger tracks every prediction made and reconciles it against the
// final result once one is known, yielding the running accuracy record.
package ledger

import (
	"fmt"
	"sort"
	"sync"

	"github.com/yourusername/matchday/internal/models"
)

// Actual is the realized result attached to a reconciled entry.
type Actual struct {
	Winner    string `json:"winner"`
	HomeScore *int   `json:"home_score,omitempty"`
	AwayScore *int   `json:"away_score,omitempty"`
}

// Entry pairs a prediction with its eventual result. Actual stays nil while
// the game is pending and is written exactly once at reconciliation.
type Entry struct {
	Prediction models.Prediction `json:"prediction"`
	Actual     *Actual           `json:"actual,omitempty"`
	Correct    *bool             `json:"correct,omitempty"`
}

// Pending reports whether the entry still awaits a result.
func (e *Entry) Pending() bool {
	return e.Actual == nil
}

// Ledger is the append-and-reconcile accuracy log for one sport. Safe for
// concurrent use.
type Ledger struct {
	mu      sync.RWMutex
	entries []Entry
}

// New returns an empty ledger.
func New() *Ledger {
	return &Ledger{}
}

// snapshot is the persisted JSON form.
type snapshot struct {
	TotalPredictions   int     `json:"total_predictions"`
	CorrectPredictions int     `json:"correct_predictions"`
	PredictionsHistory []Entry `json:"predictions_history"`
}

// Record adds a prediction to the ledger. A pending entry occupying the same
// matchup slot is replaced in place; a settled entry makes the call a no-op,
// so regenerating or replaying predictions can neither rewrite settled
// history nor enter the same matchup twice.
func (l *Ledger) Record(p models.Prediction) {
	l.mu.Lock()
	defer l.mu.Unlock()

	key := p.Key()
	for i := range l.entries {
		if l.entries[i].Prediction.Key() != key {
			continue
		}
		if l.entries[i].Pending() {
			l.entries[i].Prediction = p
		}
		return
	}
	l.entries = append(l.entries, Entry{Prediction: p})
}

// Reconcile matches pending entries against completed results and fills in
// the actual outcome exactly once. Matching ignores home/away orientation,
// so a feed that swaps the designations still settles the entry. Running
// reconcile again with the same results is a no-op. Returns the number of
// entries settled.
func (l *Ledger) Reconcile(results []models.GameRecord) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	settled := 0
	for i := range l.entries {
		e := &l.entries[i]
		if !e.Pending() {
			continue
		}
		for _, g := range results {
			if !g.Completed() || !matches(&e.Prediction, &g) {
				continue
			}
			e.Actual = &Actual{Winner: g.Winner, HomeScore: g.HomeScore, AwayScore: g.AwayScore}
			correct := e.Prediction.Winner == g.Winner
			e.Correct = &correct
			settled++
			break
		}
	}
	return settled
}

// matches reports whether a completed game settles the given prediction.
// Football predictions carry a week and match on it; everything else matches
// on date. Team comparison is orientation independent.
func matches(p *models.Prediction, g *models.GameRecord) bool {
	sameTeams := (p.HomeTeam == g.HomeTeam && p.AwayTeam == g.AwayTeam) ||
		(p.HomeTeam == g.AwayTeam && p.AwayTeam == g.HomeTeam)
	if !sameTeams {
		return false
	}
	if p.Week != nil {
		return g.Week != nil && *p.Week == *g.Week
	}
	return p.Date == g.Date
}

// Stats derives the accuracy summary over reconciled entries only. Pending
// entries never count toward the denominator.
func (l *Ledger) Stats() models.Stats {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var total, correct int
	for i := range l.entries {
		if l.entries[i].Pending() {
			continue
		}
		total++
		if l.entries[i].Correct != nil && *l.entries[i].Correct {
			correct++
		}
	}

	s := models.Stats{
		TotalPredictions:   total,
		CorrectPredictions: correct,
		Record:             fmt.Sprintf("%d-%d", correct, total-correct),
	}
	if total > 0 {
		s.Accuracy = float64(correct) / float64(total)
	}
	return s
}

// Pending returns the entries still awaiting results, oldest first.
func (l *Ledger) Pending() []Entry {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var out []Entry
	for i := range l.entries {
		if l.entries[i].Pending() {
			out = append(out, l.entries[i])
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Prediction.Date < out[j].Prediction.Date
	})
	return out
}

// Entries returns a copy of the full history in insertion order.
func (l *Ledger) Entries() []Entry {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Len reports the number of entries, pending included.
func (l *Ledger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}

// Snapshot produces the persistable form of the ledger. The counters cover
// reconciled entries only, matching Stats; pending entries live in the
// history but never inflate the totals.
func (l *Ledger) Snapshot() ([]byte, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var total, correct int
	for i := range l.entries {
		if l.entries[i].Pending() {
			continue
		}
		total++
		if l.entries[i].Correct != nil && *l.entries[i].Correct {
			correct++
		}
	}
	return marshalSnapshot(snapshot{
		TotalPredictions:   total,
		CorrectPredictions: correct,
		PredictionsHistory: append([]Entry(nil), l.entries...),
	})
}

// Restore replaces the ledger contents from a persisted snapshot.
func (l *Ledger) Restore(data []byte) error {
	snap, err := unmarshalSnapshot(data)
	if err != nil {
		return err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = snap.PredictionsHistory
	return nil
}
