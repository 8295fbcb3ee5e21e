package backfill

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/kojiurata-bit/reading-tracker/internal/entities"
	"github.com/kojiurata-bit/reading-tracker/internal/metadata"
	"github.com/kojiurata-bit/reading-tracker/internal/ratelimit"
)

const (
	// runCooldown is the minimum spacing between two whole passes.
	runCooldown = 24 * time.Hour

	// searchPacing spaces keyword searches so a pass stays well under
	// the provider's request quota.
	searchPacing = 500 * time.Millisecond
)

// RecordStore is the record boundary the pass reads and patches. The pass
// never creates or deletes records.
type RecordStore interface {
	ListBooks() ([]entities.Book, error)
	PatchBook(id uint, fields map[string]any) (*entities.Book, error)
}

// StateStore persists scheduling state between runs: the last-run
// timestamp and the negative-result cache.
type StateStore interface {
	LastRunAt() (time.Time, error) // zero time when never run
	SetLastRunAt(t time.Time) error
	NegativeCache() (map[uint]int64, error)
	SetNegativeCache(cache map[uint]int64) error
}

// Lookuper merges both providers' views of one ISBN.
type Lookuper interface {
	Lookup(ctx context.Context, isbn string) (*metadata.BookInfo, error)
}

// Searcher runs keyword queries against the quota-limited provider.
type Searcher interface {
	Search(ctx context.Context, query string) ([]*metadata.BookInfo, error)
}

// Result summarizes one backfill pass.
type Result struct {
	Ran         bool `json:"ran"` // false when the cooldown short-circuited
	Checked     int  `json:"checked"`
	Updated     int  `json:"updated"`
	Cached      int  `json:"cached"`       // fresh negative-cache entries
	RateLimited bool `json:"rate_limited"` // stopped early on provider quota
}

func (r *Result) String() string {
	if !r.Ran {
		return "skipped (cooldown active)"
	}
	s := fmt.Sprintf("%d checked, %d updated, %d cached", r.Checked, r.Updated, r.Cached)
	if r.RateLimited {
		s += ", stopped early: search quota exhausted"
	}
	return s
}

// Runner drives one metadata backfill pass over the record store. It fills
// gaps in two phases: exact ISBN lookups for records with an ISBN-bearing
// purchase URL, then paced keyword searches for whatever still lacks data.
type Runner struct {
	records RecordStore
	state   StateStore
	lookup  Lookuper
	search  Searcher
	pacer   *ratelimit.Limiter
	now     func() time.Time
}

// NewRunner creates a backfill runner over the given stores and providers.
func NewRunner(records RecordStore, state StateStore, lookup Lookuper, search Searcher) *Runner {
	return &Runner{
		records: records,
		state:   state,
		lookup:  lookup,
		search:  search,
		pacer:   ratelimit.New("Google Books", searchPacing),
		now:     time.Now,
	}
}

// Run executes one pass. Within the cooldown window since the last recorded
// run it returns immediately without touching anything. Otherwise both
// phases execute and the scheduling state is persisted even when a phase
// stopped early, so partial progress survives.
func (r *Runner) Run(ctx context.Context) (*Result, error) {
	now := r.now()

	lastRun, err := r.state.LastRunAt()
	if err != nil {
		return nil, fmt.Errorf("load last run time: %w", err)
	}
	if !lastRun.IsZero() && now.Sub(lastRun) < runCooldown {
		log.Printf("Backfill: skipped, last run was %s ago", now.Sub(lastRun).Round(time.Minute))
		return &Result{Ran: false}, nil
	}

	cache, err := r.state.NegativeCache()
	if err != nil {
		return nil, fmt.Errorf("load negative cache: %w", err)
	}
	purgeExpired(cache, now)

	res := &Result{Ran: true}
	r.runISBNPhase(ctx, cache, res)
	if !res.RateLimited {
		r.runSearchPhase(ctx, cache, res)
	}

	if err := r.state.SetNegativeCache(cache); err != nil {
		return res, fmt.Errorf("save negative cache: %w", err)
	}
	if err := r.state.SetLastRunAt(now); err != nil {
		return res, fmt.Errorf("save last run time: %w", err)
	}

	log.Printf("Backfill: pass complete: %s", res)
	return res, nil
}

// runISBNPhase resolves records whose purchase URL names an ISBN through
// the two-provider merge engine.
func (r *Runner) runISBNPhase(ctx context.Context, cache map[uint]int64, res *Result) {
	books, err := r.records.ListBooks()
	if err != nil {
		log.Printf("Backfill: list records: %v", err)
		return
	}

	candidates := isbnCandidates(books, cache, r.now())
	if len(candidates) == 0 {
		return
	}
	log.Printf("Backfill: phase 1 looking up %d record(s) by ISBN", len(candidates))

	for i := range candidates {
		if ctx.Err() != nil {
			log.Printf("Backfill: interrupted, stopping early")
			return
		}
		cand := &candidates[i]

		res.Checked++
		info, err := r.lookup.Lookup(ctx, cand.isbn)
		if err != nil {
			if metadata.IsRateLimit(err) {
				// The quota is shared with phase 2, so the whole run
				// stops spending search requests.
				log.Printf("Backfill: %v, stopping lookups for this run", err)
				res.RateLimited = true
				return
			}
			log.Printf("Backfill: lookup %s for record %d: %v", cand.isbn, cand.book.ID, err)
			continue
		}

		if info == nil {
			cache[cand.book.ID] = r.now().UnixMilli()
			res.Cached++
			continue
		}
		r.applyPatch(&cand.book, info, cache, res)
	}
}

// runSearchPhase covers records the ISBN phase could not help, searching
// by title and author under a fixed pacing delay.
func (r *Runner) runSearchPhase(ctx context.Context, cache map[uint]int64, res *Result) {
	// Relist so records completed in phase 1 drop out.
	books, err := r.records.ListBooks()
	if err != nil {
		log.Printf("Backfill: list records: %v", err)
		return
	}

	candidates := searchCandidates(books, cache, r.now())
	if len(candidates) == 0 {
		return
	}
	log.Printf("Backfill: phase 2 searching for %d record(s)", len(candidates))

	for i := range candidates {
		if ctx.Err() != nil {
			log.Printf("Backfill: interrupted, stopping early")
			return
		}
		b := &candidates[i]

		if err := r.pacer.Wait(ctx); err != nil {
			return
		}

		res.Checked++
		infos, err := r.search.Search(ctx, searchQuery(b))
		if err != nil {
			if metadata.IsRateLimit(err) {
				log.Printf("Backfill: %v, stopping searches for this run", err)
				res.RateLimited = true
				return
			}
			log.Printf("Backfill: search for record %d: %v", b.ID, err)
			continue
		}

		if len(infos) == 0 {
			cache[b.ID] = r.now().UnixMilli()
			res.Cached++
			continue
		}
		// Results come back in relevance order; the top hit is the match.
		r.applyPatch(b, infos[0], cache, res)
	}
}

// applyPatch writes whatever the lookup taught us. A result that fills
// nothing is as futile as no result, so it earns a negative-cache entry.
func (r *Runner) applyPatch(b *entities.Book, info *metadata.BookInfo, cache map[uint]int64, res *Result) {
	patch := buildPatch(b, info)
	if len(patch) == 0 {
		cache[b.ID] = r.now().UnixMilli()
		res.Cached++
		return
	}

	if _, err := r.records.PatchBook(b.ID, patch); err != nil {
		log.Printf("Backfill: update record %d: %v", b.ID, err)
		return
	}
	res.Updated++
}

// searchQuery builds the keyword query for a record.
func searchQuery(b *entities.Book) string {
	return strings.TrimSpace(b.Title + " " + b.Author)
}
