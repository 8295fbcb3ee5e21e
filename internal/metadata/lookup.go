package metadata

import (
	"context"
	"log"
	"sync"
)

// RegistryProvider looks up bibliographic records keyed by ISBN.
type RegistryProvider interface {
	LookupISBN(ctx context.Context, isbn string) (*BookInfo, error)
}

// SearchProvider answers keyword and exact-ISBN queries against a
// quota-limited search index.
type SearchProvider interface {
	Search(ctx context.Context, query string) ([]*BookInfo, error)
	SearchISBN(ctx context.Context, isbn string) (*BookInfo, error)
}

// ISBNLookup merges both providers' views of one ISBN. The registry result
// forms the base record; the search result only fills fields the registry
// left empty.
type ISBNLookup struct {
	registry RegistryProvider
	search   SearchProvider
}

// NewISBNLookup creates a merge engine over the two providers.
func NewISBNLookup(registry RegistryProvider, search SearchProvider) *ISBNLookup {
	return &ISBNLookup{
		registry: registry,
		search:   search,
	}
}

// Lookup queries both providers concurrently and merges the results with
// registry precedence. A provider failure counts as no result from that
// side, except a rate-limit condition from the search side: that is held
// and returned once the registry also has nothing, so callers still see
// the registry data when there is any.
func (l *ISBNLookup) Lookup(ctx context.Context, isbn string) (*BookInfo, error) {
	var (
		wg        sync.WaitGroup
		registry  *BookInfo
		search    *BookInfo
		rateLimit error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		info, err := l.registry.LookupISBN(ctx, isbn)
		if err != nil {
			log.Printf("Metadata: registry lookup for %s failed: %v", isbn, err)
			return
		}
		registry = info
	}()
	go func() {
		defer wg.Done()
		info, err := l.search.SearchISBN(ctx, isbn)
		if err != nil {
			if IsRateLimit(err) {
				rateLimit = err
				return
			}
			log.Printf("Metadata: search lookup for %s failed: %v", isbn, err)
			return
		}
		search = info
	}()
	wg.Wait()

	if registry != nil {
		mergeInfo(registry, search)
		return registry, nil
	}
	if search != nil {
		return search, nil
	}
	if rateLimit != nil {
		return nil, rateLimit
	}
	return nil, nil
}

// mergeInfo supplements empty fields of base from sup. The published date
// is also replaced when the base value has year-only precision, since a
// full date is strictly more useful.
func mergeInfo(base, sup *BookInfo) {
	if sup == nil {
		return
	}
	if base.Title == "" {
		base.Title = sup.Title
	}
	if len(base.Authors) == 0 {
		base.Authors = sup.Authors
	}
	if len(base.Categories) == 0 {
		base.Categories = sup.Categories
	}
	if sup.PublishedDate != "" && len(base.PublishedDate) <= 4 {
		base.PublishedDate = sup.PublishedDate
	}
	if base.PageCount == 0 {
		base.PageCount = sup.PageCount
	}
	if base.Thumbnail == "" {
		base.Thumbnail = sup.Thumbnail
	}
	if base.Description == "" {
		base.Description = sup.Description
	}
}
