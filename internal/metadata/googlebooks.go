package metadata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// searchResultLimit caps how many volumes one keyword query returns.
const searchResultLimit = 8

// GoogleBooksClient queries the Google Books volumes API. The API enforces
// a daily quota; exhaustion surfaces as a *RateLimitError so callers can
// stop spending requests for the rest of the run.
type GoogleBooksClient struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	language   string
}

// NewGoogleBooksClient creates a new Google Books API client. The API key
// is optional: anonymous requests work against a much smaller quota.
// language restricts results, e.g. "ja".
func NewGoogleBooksClient(apiKey, language string) *GoogleBooksClient {
	return &GoogleBooksClient{
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		baseURL:  "https://www.googleapis.com/books/v1",
		apiKey:   apiKey,
		language: language,
	}
}

// Search runs a keyword query and returns up to searchResultLimit results
// in relevance order. An empty query short-circuits to no results without
// spending a request.
func (c *GoogleBooksClient) Search(ctx context.Context, query string) ([]*BookInfo, error) {
	if strings.TrimSpace(query) == "" {
		return nil, nil
	}
	return c.volumes(ctx, query, searchResultLimit)
}

// SearchISBN runs an exact-ISBN query and returns the single best match,
// or (nil, nil) when the API knows nothing about the ISBN.
func (c *GoogleBooksClient) SearchISBN(ctx context.Context, isbn string) (*BookInfo, error) {
	isbn = normalizeISBN(isbn)
	if isbn == "" {
		return nil, fmt.Errorf("invalid ISBN")
	}

	infos, err := c.volumes(ctx, "isbn:"+isbn, 1)
	if err != nil {
		return nil, err
	}
	if len(infos) == 0 {
		return nil, nil
	}
	return infos[0], nil
}

func (c *GoogleBooksClient) volumes(ctx context.Context, query string, limit int) ([]*BookInfo, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("maxResults", strconv.Itoa(limit))
	params.Set("printType", "books")
	if c.language != "" {
		params.Set("langRestrict", c.language)
	}
	if c.apiKey != "" {
		params.Set("key", c.apiKey)
	}

	reqURL := fmt.Sprintf("%s/volumes?%s", c.baseURL, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", "ReadingTracker/1.0 (https://github.com/kojiurata-bit/reading-tracker)")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search volumes: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, &RateLimitError{Provider: "Google Books"}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, nil
	}

	var result googleBooksVolumes
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, nil
	}

	infos := make([]*BookInfo, 0, len(result.Items))
	for i := range result.Items {
		infos = append(infos, convertVolume(&result.Items[i]))
	}
	return infos, nil
}

func convertVolume(item *googleBooksVolume) *BookInfo {
	v := &item.VolumeInfo
	info := &BookInfo{
		SourceID:      "googlebooks:" + item.ID,
		Title:         v.Title,
		Authors:       v.Authors,
		Categories:    v.Categories,
		PublishedDate: v.PublishedDate,
		PageCount:     v.PageCount,
		Description:   v.Description,
	}

	if info.Authors == nil {
		info.Authors = []string{}
	}
	if info.Categories == nil {
		info.Categories = []string{}
	}

	// Prefer the larger rendition when both image links are present.
	if v.ImageLinks != nil {
		if v.ImageLinks.Thumbnail != "" {
			info.Thumbnail = v.ImageLinks.Thumbnail
		} else {
			info.Thumbnail = v.ImageLinks.SmallThumbnail
		}
	}

	return info
}

// Google Books API response types (internal)

type googleBooksVolumes struct {
	TotalItems int                 `json:"totalItems"`
	Items      []googleBooksVolume `json:"items"`
}

type googleBooksVolume struct {
	ID         string `json:"id"`
	VolumeInfo struct {
		Title         string   `json:"title"`
		Authors       []string `json:"authors"`
		Categories    []string `json:"categories"`
		PublishedDate string   `json:"publishedDate"`
		PageCount     int      `json:"pageCount"`
		Description   string   `json:"description"`
		ImageLinks    *struct {
			SmallThumbnail string `json:"smallThumbnail"`
			Thumbnail      string `json:"thumbnail"`
		} `json:"imageLinks"`
	} `json:"volumeInfo"`
}
