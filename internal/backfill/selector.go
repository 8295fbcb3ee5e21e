package backfill

import (
	"time"

	"github.com/kojiurata-bit/reading-tracker/internal/entities"
	"github.com/kojiurata-bit/reading-tracker/internal/retailer"
)

const (
	// negativeCacheTTL is how long a futile lookup suppresses further
	// provider queries for a record.
	negativeCacheTTL = 7 * 24 * time.Hour

	// searchCandidateLimit caps how many keyword searches one run may
	// spend against the quota-limited provider.
	searchCandidateLimit = 30
)

// isbnCandidate pairs a record with the ISBN pulled from its purchase URL.
type isbnCandidate struct {
	book entities.Book
	isbn string
}

// needsMetadata reports whether a record still lacks a field the providers
// could supply. A year-only published date counts as lacking.
func needsMetadata(b *entities.Book) bool {
	return b.PageCount == 0 ||
		len(b.PublishedDate) <= 4 ||
		b.Thumbnail == "" ||
		b.Description == ""
}

// isSuppressed reports whether the negative cache holds a fresh entry for
// the record.
func isSuppressed(cache map[uint]int64, id uint, now time.Time) bool {
	ts, ok := cache[id]
	if !ok {
		return false
	}
	return now.UnixMilli()-ts < negativeCacheTTL.Milliseconds()
}

// purgeExpired drops negative-cache entries whose TTL has lapsed, so the
// records become eligible again and the stored map does not grow forever.
func purgeExpired(cache map[uint]int64, now time.Time) {
	for id, ts := range cache {
		if now.UnixMilli()-ts >= negativeCacheTTL.Milliseconds() {
			delete(cache, id)
		}
	}
}

// isbnCandidates selects records whose purchase URL carries an ISBN-shaped
// product identifier and that still need metadata.
func isbnCandidates(books []entities.Book, cache map[uint]int64, now time.Time) []isbnCandidate {
	var out []isbnCandidate
	for i := range books {
		b := &books[i]
		if !needsMetadata(b) || isSuppressed(cache, b.ID, now) {
			continue
		}
		id := retailer.ProductID(b.PurchaseURL)
		if !retailer.IsISBNCandidate(id) {
			continue
		}
		out = append(out, isbnCandidate{book: *b, isbn: id})
	}
	return out
}

// searchCandidates selects records for the keyword-search phase: a
// non-empty title to search by, metadata still missing, no fresh negative
// entry. The list is truncated to searchCandidateLimit.
func searchCandidates(books []entities.Book, cache map[uint]int64, now time.Time) []entities.Book {
	var out []entities.Book
	for i := range books {
		b := &books[i]
		if b.Title == "" {
			continue
		}
		if !needsMetadata(b) || isSuppressed(cache, b.ID, now) {
			continue
		}
		out = append(out, *b)
		if len(out) == searchCandidateLimit {
			break
		}
	}
	return out
}
