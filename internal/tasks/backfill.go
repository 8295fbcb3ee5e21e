package tasks

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/kojiurata-bit/reading-tracker/internal/backfill"
	"github.com/mikestefanello/backlite"
)

// BackfillTask runs one metadata backfill pass over the whole library.
type BackfillTask struct {
	// Trigger records what enqueued the pass ("cron" or "api").
	Trigger string `json:"trigger,omitempty"`
}

// Config returns the queue configuration for backfill tasks.
func (t BackfillTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "metadata_backfill",
		MaxAttempts: 1, // the next scheduled pass is the retry
		Backoff:     time.Minute,
		Timeout:     30 * time.Minute, // paced searches make a full pass slow
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// StatusStore records the outcome of the most recent backfill pass so the
// API can report it without digging through the task tables.
type StatusStore interface {
	SetLastStatus(status, message string) error
}

// BackfillProcessor creates a processor function for BackfillTask.
func BackfillProcessor(runner *backfill.Runner, status StatusStore) backlite.QueueProcessor[BackfillTask] {
	return func(ctx context.Context, task BackfillTask) error {
		if runner == nil {
			return fmt.Errorf("backfill runner not configured")
		}

		res, err := runner.Run(ctx)
		if err != nil {
			if serr := status.SetLastStatus("failed", err.Error()); serr != nil {
				log.Printf("[TASK ERROR] Recording backfill failure: %v", serr)
			}
			return fmt.Errorf("metadata backfill: %w", err)
		}

		if !res.Ran {
			log.Printf("[TASK] Metadata backfill skipped (trigger=%s): ran within the last day", task.Trigger)
			return nil
		}

		if serr := status.SetLastStatus("success", res.String()); serr != nil {
			log.Printf("[TASK ERROR] Recording backfill result: %v", serr)
		}
		log.Printf("[TASK] Metadata backfill complete (trigger=%s): %s", task.Trigger, res)
		return nil
	}
}

// NewBackfillQueue creates a backlite queue for metadata backfill tasks.
func NewBackfillQueue(runner *backfill.Runner, status StatusStore) backlite.Queue {
	return backlite.NewQueue(BackfillProcessor(runner, status))
}
