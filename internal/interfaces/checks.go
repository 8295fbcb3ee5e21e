package interfaces

// This file contains compile-time interface implementation checks.
// These ensure that concrete types satisfy their interfaces at compile time,
// catching missing methods before runtime.
//
// To verify all checks pass: go build ./internal/interfaces/...

import (
	"github.com/kojiurata-bit/reading-tracker/internal/backfill"
	"github.com/kojiurata-bit/reading-tracker/internal/database"
	"github.com/kojiurata-bit/reading-tracker/internal/http"
	"github.com/kojiurata-bit/reading-tracker/internal/metadata"
	"github.com/kojiurata-bit/reading-tracker/internal/scheduler"
	"github.com/kojiurata-bit/reading-tracker/internal/tasks"
)

// =============================================================================
// Data Access Layer
// =============================================================================

// Backfill store implementations
var _ backfill.RecordStore = (*database.BackfillStore)(nil)
var _ backfill.StateStore = (*database.BackfillState)(nil)

// BookStore implementations
var _ http.BookStore = (*database.Database)(nil)

// Backfill state, read side
var _ http.BackfillStateReader = (*database.BackfillState)(nil)
var _ tasks.StatusStore = (*database.BackfillState)(nil)

// =============================================================================
// External Services
// =============================================================================

// Provider implementations
var _ metadata.RegistryProvider = (*metadata.OpenBDClient)(nil)
var _ metadata.SearchProvider = (*metadata.GoogleBooksClient)(nil)

// Merge engine and search feed the backfill runner
var _ backfill.Lookuper = (*metadata.ISBNLookup)(nil)
var _ backfill.Searcher = (*metadata.GoogleBooksClient)(nil)

// =============================================================================
// Scheduling
// =============================================================================

var _ http.RunScheduler = (*scheduler.BackfillScheduler)(nil)
