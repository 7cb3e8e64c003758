package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

const persistTimeout = 30 * time.Second

// Scheduler runs polling cycles and cooldown persistence on a schedule.
type Scheduler struct {
	cron   *cron.Cron
	engine *Engine
	log    *slog.Logger

	// ctx is canceled by Stop so in-flight cycles abort.
	ctx    context.Context
	cancel context.CancelFunc
	extra  sync.WaitGroup

	cycleEntryID   cron.EntryID
	persistEntryID cron.EntryID
}

// NewScheduler creates a Scheduler that runs a cycle every checkInterval
// and persists cooldowns every persistInterval.
func NewScheduler(
	eng *Engine,
	checkInterval time.Duration,
	persistInterval time.Duration,
	log *slog.Logger,
) (*Scheduler, error) {
	if checkInterval <= 0 || persistInterval <= 0 {
		return nil, fmt.Errorf("scheduler intervals must be positive (check %s, persist %s)",
			checkInterval, persistInterval)
	}
	if log == nil {
		log = slog.Default()
	}

	// SkipIfStillRunning keeps a slow cycle from queueing the next one.
	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))

	ctx, cancel := context.WithCancel(context.Background())
	s := &Scheduler{
		cron:   c,
		engine: eng,
		log:    log,
		ctx:    ctx,
		cancel: cancel,
	}

	var err error
	s.cycleEntryID, err = c.AddFunc("@every "+checkInterval.String(), s.runCycle)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("scheduling cycle: %w", err)
	}

	s.persistEntryID, err = c.AddFunc("@every "+persistInterval.String(), s.runPersist)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("scheduling persistence: %w", err)
	}

	return s, nil
}

// Start begins running scheduled tasks.
func (s *Scheduler) Start() {
	s.log.Info("scheduler started")
	s.cron.Start()
}

// RunNow starts one cycle outside the schedule. Stop cancels and waits for
// it like a scheduled one.
func (s *Scheduler) RunNow() {
	s.extra.Go(s.runCycle)
}

// Stop cancels in-flight cycles, waits for running jobs, and persists
// cooldowns one final time. The final persist runs even when ctx expires
// before the jobs return.
func (s *Scheduler) Stop(ctx context.Context) error {
	s.log.Info("scheduler stopping")
	s.cancel()

	done := make(chan struct{})
	go func() {
		<-s.cron.Stop().Done()
		s.extra.Wait()
		close(done)
	}()

	var errs []error
	select {
	case <-done:
	case <-ctx.Done():
		errs = append(errs, fmt.Errorf("waiting for running jobs: %w", ctx.Err()))
	}

	persistCtx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()
	if err := s.engine.PersistAll(persistCtx); err != nil {
		errs = append(errs, fmt.Errorf("final cooldown persist: %w", err))
	}
	if err := errors.Join(errs...); err != nil {
		return err
	}
	s.log.Info("scheduler stopped")
	return nil
}

// Entries returns the registered cron entries for inspection.
func (s *Scheduler) Entries() []cron.Entry {
	return s.cron.Entries()
}

// NextCycle returns when the next cycle is due, zero before Start.
func (s *Scheduler) NextCycle() time.Time {
	return s.cron.Entry(s.cycleEntryID).Next
}

func (s *Scheduler) runCycle() {
	s.log.Debug("scheduled cycle starting")
	reports, _ := s.engine.RunCycle(s.ctx)
	for i := range reports {
		s.logReport(&reports[i])
	}
	if len(reports) < len(s.engine.stores) {
		s.log.Info("cycle stopped early", "ran", len(reports), "stores", len(s.engine.stores))
	}
}

func (s *Scheduler) logReport(r *CycleReport) {
	switch r.Outcome {
	case OutcomeOK:
		s.log.Debug("store cycle finished", "store", r.Store, "items", r.Items, "notified", r.Notified)
	case OutcomeBusy:
		s.log.Info("store skipped, cycle already running", "store", r.Store)
	case OutcomeCanceled:
		s.log.Info("store cycle canceled", "store", r.Store)
	default:
		s.log.Error("store cycle failed", "store", r.Store, "outcome", r.Outcome, "error", r.Error)
	}
}

func (s *Scheduler) runPersist() {
	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()
	if err := s.engine.PersistAll(ctx); err != nil {
		s.log.Error("scheduled cooldown persist failed", "error", err)
	}
}
