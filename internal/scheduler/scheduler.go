// Package scheduler runs the recurring prediction and reconciliation jobs.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/matchday/internal/config"
	"github.com/yourusername/matchday/internal/models"
	"github.com/yourusername/matchday/internal/provider"
	"github.com/yourusername/matchday/internal/service"
)

// Scheduler manages the recurring prediction jobs. All schedules run in UTC.
type Scheduler struct {
	cron            *cron.Cron
	predictor       *service.Predictor
	log             *logrus.Logger
	mu              sync.RWMutex
	isRunning       bool
	jobIDs          []cron.EntryID
	gracefulTimeout time.Duration
}

// NewScheduler creates a new scheduler around the predictor.
func NewScheduler(predictor *service.Predictor, log *logrus.Logger) *Scheduler {
	return &Scheduler{
		cron:            cron.New(cron.WithLocation(time.UTC)),
		predictor:       predictor,
		log:             log,
		jobIDs:          make([]cron.EntryID, 0),
		gracefulTimeout: 30 * time.Second,
	}
}

// ScheduleFromConfig registers the standard jobs: daily basketball slate,
// weekly football slate and the reconciliation sweep.
func (s *Scheduler) ScheduleFromConfig(cfg *config.SchedulerConfig) error {
	if err := s.ScheduleBasketballDaily(cfg.BasketballDaily); err != nil {
		return err
	}
	if err := s.ScheduleFootballWeekly(cfg.FootballWeekly); err != nil {
		return err
	}
	return s.ScheduleReconciliation(cfg.ReconcileInterval)
}

// ScheduleBasketballDaily schedules prediction generation for the current
// day's basketball slate.
func (s *Scheduler) ScheduleBasketballDaily(cronExpression string) error {
	return s.addJob(cronExpression, "basketball_daily", func(ctx context.Context) {
		slate := provider.Slate{
			Sport: models.SportBasketball,
			Date:  time.Now().UTC().Format(models.DateLayout),
		}
		if _, err := s.predictor.GeneratePredictions(ctx, slate); err != nil {
			s.log.WithError(err).Error("Scheduled basketball predictions failed")
		}
	})
}

// ScheduleFootballWeekly schedules prediction generation for the current
// football week. The slate carries no explicit week so the feed's current
// scoreboard decides.
func (s *Scheduler) ScheduleFootballWeekly(cronExpression string) error {
	return s.addJob(cronExpression, "football_weekly", func(ctx context.Context) {
		slate := provider.Slate{Sport: models.SportFootball}
		if _, err := s.predictor.GeneratePredictions(ctx, slate); err != nil {
			s.log.WithError(err).Error("Scheduled football predictions failed")
		}
	})
}

// ScheduleReconciliation schedules the sweep that settles pending ledger
// entries for both sports.
func (s *Scheduler) ScheduleReconciliation(cronExpression string) error {
	return s.addJob(cronExpression, "reconcile", func(ctx context.Context) {
		for _, sport := range []models.Sport{models.SportBasketball, models.SportFootball} {
			settled, err := s.predictor.ReconcilePending(ctx, sport)
			if err != nil {
				s.log.WithError(err).WithField("sport", sport).Error("Scheduled reconciliation failed")
				continue
			}
			if settled > 0 {
				s.log.WithFields(logrus.Fields{"sport": sport, "settled": settled}).Info("Scheduled reconciliation settled entries")
			}
		}
	})
}

func (s *Scheduler) addJob(cronExpression, name string, job func(context.Context)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("cannot schedule job while scheduler is running")
	}

	entryID, err := s.cron.AddFunc(cronExpression, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Minute)
		defer cancel()
		s.log.WithField("job", name).Debug("Scheduled job starting")
		job(ctx)
	})
	if err != nil {
		return fmt.Errorf("failed to add %s job: %w", name, err)
	}

	s.jobIDs = append(s.jobIDs, entryID)
	s.log.WithFields(logrus.Fields{"job": name, "cron": cronExpression}).Info("Job scheduled")
	return nil
}

// Start starts the scheduler.
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("scheduler is already running")
	}
	if len(s.jobIDs) == 0 {
		return fmt.Errorf("no jobs scheduled")
	}

	s.cron.Start()
	s.isRunning = true
	s.log.WithField("jobs", len(s.jobIDs)).Info("Scheduler started")
	return nil
}

// Stop gracefully stops the scheduler, waiting for running jobs.
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.gracefulTimeout)
	defer cancel()

	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
		s.log.Warn("Scheduler stop timed out with jobs still running")
	}
	s.isRunning = false
	s.log.Info("Scheduler stopped")
	return nil
}

// IsRunning returns whether the scheduler is currently running.
func (s *Scheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// GetNextRun returns the time of the next scheduled job run.
func (s *Scheduler) GetNextRun() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning || len(s.jobIDs) == 0 {
		return time.Time{}
	}

	nextRun := time.Time{}
	for _, jobID := range s.jobIDs {
		entry := s.cron.Entry(jobID)
		if entry.Valid() {
			if nextRun.IsZero() || entry.Next.Before(nextRun) {
				nextRun = entry.Next
			}
		}
	}
	return nextRun
}
