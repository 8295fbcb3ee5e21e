package metadata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"golang.org/x/net/html"
)

// ONIX codes used by the openBD payload.
const (
	onixExtentTypePages    = "11" // content page count
	onixTextTypeShort      = "03" // short description
	onixTextTypeLong       = "23" // full-length description
	onixSubjectSchemeCCode = "78" // Japanese C-code
)

// OpenBDClient fetches book metadata from the openBD bibliographic registry.
// The registry is keyed strictly by ISBN and enforces no request quota.
type OpenBDClient struct {
	httpClient *http.Client
	baseURL    string
}

// NewOpenBDClient creates a new openBD API client.
func NewOpenBDClient() *OpenBDClient {
	return &OpenBDClient{
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		baseURL: "https://api.openbd.jp/v1",
	}
}

// LookupISBN fetches the registry entry for an ISBN. ISBN-10 input is
// converted to ISBN-13 first since the registry only indexes the 13-digit
// form. A missing, empty, or malformed entry resolves to (nil, nil).
func (c *OpenBDClient) LookupISBN(ctx context.Context, isbn string) (*BookInfo, error) {
	isbn13 := toISBN13(normalizeISBN(isbn))
	if isbn13 == "" {
		return nil, fmt.Errorf("invalid ISBN: %q", isbn)
	}

	url := fmt.Sprintf("%s/get?isbn=%s", c.baseURL, isbn13)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", "ReadingTracker/1.0 (https://github.com/kojiurata-bit/reading-tracker)")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch registry entry: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, nil
	}

	// The registry answers with one array slot per requested ISBN,
	// null when it has no record.
	var entries []*openBDEntry
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		return nil, nil
	}
	if len(entries) == 0 || entries[0] == nil {
		return nil, nil
	}

	info := convertOpenBDEntry(entries[0], isbn13)
	if info.Title == "" {
		return nil, nil
	}

	return info, nil
}

func convertOpenBDEntry(entry *openBDEntry, isbn13 string) *BookInfo {
	info := &BookInfo{
		SourceID:      "openbd:" + isbn13,
		Title:         entry.Summary.Title,
		Authors:       []string{},
		Categories:    []string{},
		PublishedDate: formatPubdate(entry.Summary.Pubdate),
		Thumbnail:     entry.Summary.Cover,
	}

	if entry.Summary.Author != "" {
		info.Authors = []string{entry.Summary.Author}
	}

	// Page count lives in the ONIX extent list.
	for _, ext := range entry.Onix.DescriptiveDetail.Extent {
		if ext.ExtentType != onixExtentTypePages {
			continue
		}
		if n, err := strconv.Atoi(ext.ExtentValue); err == nil && n > 0 {
			info.PageCount = n
			break
		}
	}

	info.Description = pickDescription(entry.Onix.CollateralDetail.TextContent)

	// The C-code doubles as both a category label and a genre hint.
	for _, subj := range entry.Onix.DescriptiveDetail.Subject {
		if subj.SubjectSchemeIdentifier != onixSubjectSchemeCCode || subj.SubjectCode == "" {
			continue
		}
		if genre := GenreFromCCode(subj.SubjectCode); genre != "" {
			info.Categories = append(info.Categories, genre)
		}
		break
	}

	return info
}

// pickDescription prefers the full-length text block over the short
// annotation and strips the markup openBD embeds in either.
func pickDescription(blocks []openBDTextContent) string {
	var short string
	for _, tc := range blocks {
		switch tc.TextType {
		case onixTextTypeLong:
			if tc.Text != "" {
				return stripMarkup(tc.Text)
			}
		case onixTextTypeShort:
			if short == "" {
				short = tc.Text
			}
		}
	}
	return stripMarkup(short)
}

// stripMarkup flattens embedded HTML to plain text, decoding entities.
func stripMarkup(s string) string {
	if !strings.ContainsAny(s, "<&") {
		return strings.TrimSpace(s)
	}

	var b strings.Builder
	z := html.NewTokenizer(strings.NewReader(s))
	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			break
		}
		if tt == html.TextToken {
			b.Write(z.Text())
		}
	}
	return strings.TrimSpace(b.String())
}

// formatPubdate rewrites the registry's compact date into hyphenated form:
// YYYYMMDD becomes YYYY-MM-DD, YYYYMM becomes YYYY-MM, anything else
// passes through unchanged.
func formatPubdate(s string) string {
	switch len(s) {
	case 8:
		return s[:4] + "-" + s[4:6] + "-" + s[6:]
	case 6:
		return s[:4] + "-" + s[4:]
	default:
		return s
	}
}

// openBD API response types (internal)

type openBDEntry struct {
	Onix    openBDOnix    `json:"onix"`
	Summary openBDSummary `json:"summary"`
}

// openBDSummary is the registry's flattened convenience block.
type openBDSummary struct {
	ISBN      string `json:"isbn"`
	Title     string `json:"title"`
	Author    string `json:"author"`
	Publisher string `json:"publisher"`
	Pubdate   string `json:"pubdate"`
	Cover     string `json:"cover"`
}

// openBDOnix carries the subset of the ONIX record the converter reads.
type openBDOnix struct {
	DescriptiveDetail struct {
		Extent  []openBDExtent  `json:"Extent"`
		Subject []openBDSubject `json:"Subject"`
	} `json:"DescriptiveDetail"`
	CollateralDetail struct {
		TextContent []openBDTextContent `json:"TextContent"`
	} `json:"CollateralDetail"`
}

type openBDExtent struct {
	ExtentType  string `json:"ExtentType"`
	ExtentValue string `json:"ExtentValue"`
	ExtentUnit  string `json:"ExtentUnit"`
}

type openBDSubject struct {
	SubjectSchemeIdentifier string `json:"SubjectSchemeIdentifier"`
	SubjectCode             string `json:"SubjectCode"`
}

type openBDTextContent struct {
	TextType        string `json:"TextType"`
	ContentAudience string `json:"ContentAudience"`
	Text            string `json:"Text"`
}
