// Package sweep implements the periodic retention sweep: log rows older
// than the retention window are deleted on a cron schedule.
package sweep

import (
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/loggate/loggate/internal/notify"
	"github.com/loggate/loggate/internal/servicelog"
	"github.com/loggate/loggate/internal/store"
)

// Sweeper deletes log rows older than the retention window. The trigger
// is the trusted in-process scheduler, never an inbound request, so there
// is no auth gate. Overlapping sweeps are possible and harmless: deleting
// already-deleted rows is a no-op.
type Sweeper struct {
	repo      *servicelog.Repo
	mirror    *notify.Mirror
	retention time.Duration
	cron      *cron.Cron

	// test hook: overrides the clock when set.
	now func() time.Time
}

// Config configures a Sweeper.
type Config struct {
	Repo      *servicelog.Repo
	Mirror    *notify.Mirror
	Retention time.Duration // default 7 days
	Schedule  string        // cron expression, default "@hourly"
}

// NewSweeper creates a Sweeper and registers its cron entry.
func NewSweeper(cfg Config) *Sweeper {
	if cfg.Retention <= 0 {
		cfg.Retention = 7 * 24 * time.Hour
	}
	if cfg.Schedule == "" {
		cfg.Schedule = "@hourly"
	}

	s := &Sweeper{
		repo:      cfg.Repo,
		mirror:    cfg.Mirror,
		retention: cfg.Retention,
		cron:      cron.New(),
		now:       time.Now,
	}

	if _, err := s.cron.AddFunc(cfg.Schedule, func() { s.Sweep() }); err != nil {
		log.Printf("[sweep] invalid cron expression %q: %v", cfg.Schedule, err)
	}

	return s
}

// Start launches the cron scheduler.
func (s *Sweeper) Start() {
	s.cron.Start()
}

// Stop stops the scheduler. A sweep already in flight runs to completion.
func (s *Sweeper) Stop() {
	s.cron.Stop()
}

// Sweep deletes all rows older than the retention window and returns the
// number deleted. Failure is logged locally and never propagated — the
// scheduler has no response channel to report to.
func (s *Sweeper) Sweep() int64 {
	cutoff := s.now().UTC().Add(-s.retention)

	n, err := s.repo.DeleteBefore(cutoff)
	if err != nil {
		log.Printf("[sweep] retention sweep failed: %v", err)
		return 0
	}

	s.mirror.Logf("retention sweep deleted %d rows older than %s", n, cutoff.Format(store.TimeLayout))
	return n
}
