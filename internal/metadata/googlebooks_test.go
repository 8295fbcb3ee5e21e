package metadata

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestGoogleBooksClient(serverURL, apiKey string) *GoogleBooksClient {
	return &GoogleBooksClient{
		httpClient: &http.Client{Timeout: 5 * time.Second},
		baseURL:    serverURL,
		apiKey:     apiKey,
		language:   "ja",
	}
}

const volumesPayload = `{
	"totalItems": 2,
	"items": [
		{
			"id": "zyTCAlFPjgYC",
			"volumeInfo": {
				"title": "リーダブルコード",
				"authors": ["Dustin Boswell", "Trevor Foucher"],
				"categories": ["Computers"],
				"publishedDate": "2012-06-23",
				"pageCount": 260,
				"description": "より良いコードを書くための実践的なテクニック。",
				"imageLinks": {
					"smallThumbnail": "https://example.com/small.jpg",
					"thumbnail": "https://example.com/thumb.jpg"
				}
			}
		},
		{
			"id": "abc123",
			"volumeInfo": {
				"title": "Second Result",
				"imageLinks": {"smallThumbnail": "https://example.com/small2.jpg"}
			}
		}
	]
}`

func TestGoogleBooksSearch(t *testing.T) {
	var gotQuery map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/volumes" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		q := r.URL.Query()
		gotQuery = map[string]string{
			"q":            q.Get("q"),
			"maxResults":   q.Get("maxResults"),
			"printType":    q.Get("printType"),
			"langRestrict": q.Get("langRestrict"),
			"key":          q.Get("key"),
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(volumesPayload))
	}))
	defer server.Close()

	client := newTestGoogleBooksClient(server.URL, "test-key")

	infos, err := client.Search(context.Background(), "リーダブルコード")
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}

	if gotQuery["q"] != "リーダブルコード" {
		t.Errorf("unexpected query %q", gotQuery["q"])
	}
	if gotQuery["maxResults"] != "8" {
		t.Errorf("expected maxResults=8, got %q", gotQuery["maxResults"])
	}
	if gotQuery["printType"] != "books" {
		t.Errorf("expected printType=books, got %q", gotQuery["printType"])
	}
	if gotQuery["langRestrict"] != "ja" {
		t.Errorf("expected langRestrict=ja, got %q", gotQuery["langRestrict"])
	}
	if gotQuery["key"] != "test-key" {
		t.Errorf("expected API key in query, got %q", gotQuery["key"])
	}

	if len(infos) != 2 {
		t.Fatalf("expected 2 results, got %d", len(infos))
	}

	first := infos[0]
	if first.Title != "リーダブルコード" {
		t.Errorf("unexpected title %q", first.Title)
	}
	if len(first.Authors) != 2 || first.Authors[0] != "Dustin Boswell" {
		t.Errorf("unexpected authors %v", first.Authors)
	}
	if first.PageCount != 260 {
		t.Errorf("unexpected page count %d", first.PageCount)
	}
	if first.Thumbnail != "https://example.com/thumb.jpg" {
		t.Errorf("expected the larger thumbnail, got %q", first.Thumbnail)
	}
	if first.SourceID != "googlebooks:zyTCAlFPjgYC" {
		t.Errorf("unexpected source ID %q", first.SourceID)
	}

	second := infos[1]
	if second.Thumbnail != "https://example.com/small2.jpg" {
		t.Errorf("expected small thumbnail fallback, got %q", second.Thumbnail)
	}
	if second.Authors == nil || second.Categories == nil {
		t.Error("list fields must default to empty, not nil")
	}
}

func TestGoogleBooksSearch_NoAPIKey(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, present := r.URL.Query()["key"]; present {
			t.Error("key parameter must be omitted when no API key is configured")
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"totalItems": 0}`))
	}))
	defer server.Close()

	client := newTestGoogleBooksClient(server.URL, "")

	infos, err := client.Search(context.Background(), "anything")
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(infos) != 0 {
		t.Errorf("expected no results, got %d", len(infos))
	}
}

func TestGoogleBooksSearch_EmptyQuery(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("empty query must not reach the API")
	}))
	defer server.Close()

	client := newTestGoogleBooksClient(server.URL, "")

	infos, err := client.Search(context.Background(), "   ")
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if infos != nil {
		t.Errorf("expected nil results, got %v", infos)
	}
}

func TestGoogleBooksSearch_RateLimited(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := newTestGoogleBooksClient(server.URL, "")

	_, err := client.Search(context.Background(), "anything")
	if err == nil {
		t.Fatal("expected rate limit error")
	}
	if !IsRateLimit(err) {
		t.Errorf("expected RateLimitError, got %T: %v", err, err)
	}
}

func TestGoogleBooksSearch_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := newTestGoogleBooksClient(server.URL, "")

	infos, err := client.Search(context.Background(), "anything")
	if err != nil {
		t.Fatalf("a server error should resolve to no results, got: %v", err)
	}
	if len(infos) != 0 {
		t.Errorf("expected no results, got %d", len(infos))
	}
}

func TestGoogleBooksSearchISBN(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if got := q.Get("q"); got != "isbn:9784774142043" {
			t.Errorf("expected isbn: query, got %q", got)
		}
		if got := q.Get("maxResults"); got != "1" {
			t.Errorf("expected maxResults=1, got %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(volumesPayload))
	}))
	defer server.Close()

	client := newTestGoogleBooksClient(server.URL, "")

	info, err := client.SearchISBN(context.Background(), "978-4-7741-4204-3")
	if err != nil {
		t.Fatalf("SearchISBN failed: %v", err)
	}
	if info == nil || info.Title != "リーダブルコード" {
		t.Fatalf("expected the first match, got %+v", info)
	}
}

func TestGoogleBooksSearchISBN_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"totalItems": 0}`))
	}))
	defer server.Close()

	client := newTestGoogleBooksClient(server.URL, "")

	info, err := client.SearchISBN(context.Background(), "9784774142043")
	if err != nil {
		t.Fatalf("SearchISBN failed: %v", err)
	}
	if info != nil {
		t.Errorf("expected no result, got %+v", info)
	}
}

func TestGoogleBooksSearchISBN_InvalidISBN(t *testing.T) {
	client := NewGoogleBooksClient("", "ja")

	if _, err := client.SearchISBN(context.Background(), "junk"); err == nil {
		t.Error("expected error for invalid ISBN")
	}
}
