package metadata

// BookInfo contains normalized book metadata from an external source.
// String and numeric fields are zero-valued when the source did not
// supply them; list fields are empty, never nil.
type BookInfo struct {
	SourceID      string   `json:"source_id,omitempty"`
	Title         string   `json:"title,omitempty"`
	Authors       []string `json:"authors,omitempty"`
	Categories    []string `json:"categories,omitempty"`
	PublishedDate string   `json:"published_date,omitempty"`
	PageCount     int      `json:"page_count,omitempty"`
	Thumbnail     string   `json:"thumbnail,omitempty"`
	Description   string   `json:"description,omitempty"`
}

// Author returns the primary author, or "" when none is known.
func (b *BookInfo) Author() string {
	if len(b.Authors) == 0 {
		return ""
	}
	return b.Authors[0]
}
