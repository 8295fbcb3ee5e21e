// Package interfaces documents the core abstractions used throughout the
// application and pins them with compile-time checks.
//
// # Interface Categories
//
// ## Data Access Interfaces
//
//   - http.BookStore: book CRUD for the REST API (internal/http/books.go)
//   - backfill.RecordStore: list/patch access for the backfill pass
//     (internal/backfill/runner.go)
//   - backfill.StateStore: durable scheduling state — last-run timestamp and
//     negative-result cache (internal/backfill/runner.go)
//   - http.BackfillStateReader: read side of the same state for the status
//     endpoint (internal/http/backfill.go)
//
// ## External Service Interfaces
//
//   - metadata.RegistryProvider: ISBN-keyed bibliographic registry
//     (internal/metadata/lookup.go)
//   - metadata.SearchProvider: keyword/ISBN search with quota signalling
//     (internal/metadata/lookup.go)
//   - backfill.Lookuper / backfill.Searcher: what the runner consumes from
//     the providers (internal/backfill/runner.go)
//
// # Adding a New Metadata Provider
//
// Implement metadata.RegistryProvider (or SearchProvider when the source is
// quota-limited and searchable), return nil BookInfo for not-found, and a
// *metadata.RateLimitError when the provider says stop. Wire it into
// metadata.NewISBNLookup in internal/entrypoint.
package interfaces
