package http

import (
	"github.com/kojiurata-bit/reading-tracker/internal/database"
)

// RouterConfig contains all dependencies and configuration needed
// to create the HTTP router.
type RouterConfig struct {
	// Core dependencies
	Database *database.Database

	// Backfill state (read side) and trigger. Scheduler stays nil when the
	// task queue is disabled; the run endpoint then reports unavailable.
	BackfillState BackfillStateReader
	Scheduler     RunScheduler

	// Application info
	Version string
}
