package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/kojiurata-bit/reading-tracker/internal/tasks"
)

// BackfillScheduler enqueues a metadata backfill task on a cron schedule.
// The task queue executes the pass; this type only decides when.
type BackfillScheduler struct {
	tasks    *tasks.Client
	schedule string

	cron       *cron.Cron
	entryID    cron.EntryID
	mu         sync.RWMutex
	isRunning  bool
	cancelFunc context.CancelFunc
}

// NewBackfillScheduler creates a scheduler firing on a five-field cron
// schedule, e.g. "30 5 * * *" for daily at 05:30.
func NewBackfillScheduler(taskClient *tasks.Client, schedule string) *BackfillScheduler {
	return &BackfillScheduler{
		tasks:    taskClient,
		schedule: schedule,
		cron:     cron.New(cron.WithParser(cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow))),
	}
}

// Start begins the scheduler. It returns an error when the configured
// schedule does not parse.
func (s *BackfillScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	entryID, err := s.cron.AddFunc(s.schedule, func() {
		s.enqueue("cron")
	})
	if err != nil {
		return fmt.Errorf("invalid backfill schedule '%s': %w", s.schedule, err)
	}
	s.entryID = entryID

	// Create cancellable context
	var cancelCtx context.Context
	cancelCtx, s.cancelFunc = context.WithCancel(ctx)

	s.cron.Start()
	s.isRunning = true

	if sched, perr := cron.ParseStandard(s.schedule); perr == nil {
		log.Printf("Backfill scheduler: started with schedule '%s'. Next run: %v",
			s.schedule, sched.Next(time.Now()))
	}

	// Monitor for context cancellation
	go func() {
		<-cancelCtx.Done()
		s.Stop()
	}()

	return nil
}

// Stop gracefully stops the scheduler
func (s *BackfillScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	// Stop accepting new jobs and wait for running jobs to complete
	ctx := s.cron.Stop()
	<-ctx.Done()

	s.isRunning = false
	s.cancelFunc = nil

	log.Printf("Backfill scheduler: stopped")
}

// RunNow enqueues an immediate pass outside the schedule. The runner's own
// cooldown still applies, so a pass that ran recently skips itself.
func (s *BackfillScheduler) RunNow() error {
	return s.enqueue("api")
}

// IsRunning returns whether the scheduler is active
func (s *BackfillScheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// GetNextRunTime returns when the next scheduled pass will be enqueued,
// or nil while the scheduler is stopped.
func (s *BackfillScheduler) GetNextRunTime() *time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning {
		return nil
	}

	entries := s.cron.Entries()
	for _, entry := range entries {
		if entry.ID == s.entryID {
			t := entry.Next
			return &t
		}
	}
	return nil
}

// enqueue hands one pass to the task queue.
func (s *BackfillScheduler) enqueue(trigger string) error {
	ids, err := s.tasks.Add(tasks.BackfillTask{Trigger: trigger}).Save()
	if err != nil {
		log.Printf("Backfill scheduler: failed to enqueue pass: %v", err)
		return err
	}
	log.Printf("Backfill scheduler: enqueued pass %s (trigger=%s)", ids[0], trigger)
	return nil
}
