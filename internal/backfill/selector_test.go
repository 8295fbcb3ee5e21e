package backfill

import (
	"testing"
	"time"

	"github.com/kojiurata-bit/reading-tracker/internal/entities"
)

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func completeBook(id uint) entities.Book {
	return entities.Book{
		ID:            id,
		Title:         "タイトル",
		Author:        "著者",
		Genre:         "Technology",
		PublishedDate: "2010-04-08",
		PageCount:     288,
		Thumbnail:     "https://example.com/t.jpg",
		Description:   "desc",
	}
}

func TestNeedsMetadata(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*entities.Book)
		expected bool
	}{
		{"complete record", func(b *entities.Book) {}, false},
		{"missing page count", func(b *entities.Book) { b.PageCount = 0 }, true},
		{"missing published date", func(b *entities.Book) { b.PublishedDate = "" }, true},
		{"year-only published date", func(b *entities.Book) { b.PublishedDate = "2010" }, true},
		{"month precision is enough", func(b *entities.Book) { b.PublishedDate = "2010-04" }, false},
		{"missing thumbnail", func(b *entities.Book) { b.Thumbnail = "" }, true},
		{"missing description", func(b *entities.Book) { b.Description = "" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := completeBook(1)
			tt.mutate(&b)
			if got := needsMetadata(&b); got != tt.expected {
				t.Errorf("needsMetadata() = %v, expected %v", got, tt.expected)
			}
		})
	}
}

func TestIsSuppressed(t *testing.T) {
	cache := map[uint]int64{
		1: testNow.Add(-time.Hour).UnixMilli(),
		2: testNow.Add(-8 * 24 * time.Hour).UnixMilli(),
	}

	if !isSuppressed(cache, 1, testNow) {
		t.Error("entry one hour old must suppress")
	}
	if isSuppressed(cache, 2, testNow) {
		t.Error("entry past the TTL must not suppress")
	}
	if isSuppressed(cache, 3, testNow) {
		t.Error("absent entry must not suppress")
	}
}

func TestPurgeExpired(t *testing.T) {
	cache := map[uint]int64{
		1: testNow.Add(-time.Hour).UnixMilli(),
		2: testNow.Add(-8 * 24 * time.Hour).UnixMilli(),
		3: testNow.Add(-negativeCacheTTL).UnixMilli(), // exactly at the boundary
	}

	purgeExpired(cache, testNow)

	if _, ok := cache[1]; !ok {
		t.Error("fresh entry must survive the purge")
	}
	if _, ok := cache[2]; ok {
		t.Error("expired entry must be purged")
	}
	if _, ok := cache[3]; ok {
		t.Error("entry exactly at the TTL must be purged")
	}
}

func TestISBNCandidates(t *testing.T) {
	missing := completeBook(1)
	missing.Description = ""
	missing.PurchaseURL = "https://www.amazon.co.jp/dp/4774142042"

	complete := completeBook(2)
	complete.PurchaseURL = "https://www.amazon.co.jp/dp/4062748681"

	kindle := completeBook(3)
	kindle.Description = ""
	kindle.PurchaseURL = "https://www.amazon.co.jp/dp/B00J48GMXQ"

	noURL := completeBook(4)
	noURL.Description = ""

	suppressed := completeBook(5)
	suppressed.Description = ""
	suppressed.PurchaseURL = "https://www.amazon.co.jp/dp/4873115655"

	books := []entities.Book{missing, complete, kindle, noURL, suppressed}
	cache := map[uint]int64{5: testNow.Add(-time.Hour).UnixMilli()}

	got := isbnCandidates(books, cache, testNow)

	if len(got) != 1 {
		t.Fatalf("expected 1 candidate, got %d", len(got))
	}
	if got[0].book.ID != 1 || got[0].isbn != "4774142042" {
		t.Errorf("unexpected candidate %+v", got[0])
	}
}

func TestSearchCandidates(t *testing.T) {
	withTitle := completeBook(1)
	withTitle.Description = ""

	untitled := completeBook(2)
	untitled.Title = ""
	untitled.Description = ""

	complete := completeBook(3)

	suppressed := completeBook(4)
	suppressed.Description = ""

	books := []entities.Book{withTitle, untitled, complete, suppressed}
	cache := map[uint]int64{4: testNow.Add(-time.Hour).UnixMilli()}

	got := searchCandidates(books, cache, testNow)

	if len(got) != 1 {
		t.Fatalf("expected 1 candidate, got %d", len(got))
	}
	if got[0].ID != 1 {
		t.Errorf("unexpected candidate %+v", got[0])
	}
}

func TestSearchCandidates_Cap(t *testing.T) {
	var books []entities.Book
	for i := 1; i <= searchCandidateLimit+5; i++ {
		b := completeBook(uint(i))
		b.Description = ""
		books = append(books, b)
	}

	got := searchCandidates(books, map[uint]int64{}, testNow)

	if len(got) != searchCandidateLimit {
		t.Errorf("expected the cap of %d candidates, got %d", searchCandidateLimit, len(got))
	}
	// Earlier records win the capped slots.
	if got[0].ID != 1 || got[len(got)-1].ID != searchCandidateLimit {
		t.Errorf("expected the first %d records, got IDs %d..%d", searchCandidateLimit, got[0].ID, got[len(got)-1].ID)
	}
}
