package backfill

import (
	"github.com/kojiurata-bit/reading-tracker/internal/entities"
	"github.com/kojiurata-bit/reading-tracker/internal/metadata"
)

// patchRule declares, for one enrichable column, when the stored value
// counts as missing and which provider value may fill it. Values only ever
// fill gaps: a field the owner already populated stays untouched, which is
// why title and author never appear here.
type patchRule struct {
	column string
	// missing reports whether the record still lacks this field.
	missing func(*entities.Book) bool
	// value extracts the provider value and whether it is usable against
	// the current record state.
	value func(*entities.Book, *metadata.BookInfo) (any, bool)
}

var patchRules = []patchRule{
	{
		column:  "page_count",
		missing: func(b *entities.Book) bool { return b.PageCount == 0 },
		value: func(_ *entities.Book, info *metadata.BookInfo) (any, bool) {
			return info.PageCount, info.PageCount > 0
		},
	},
	{
		// A year-only date is treated as missing, but it is only replaced
		// by something strictly more precise.
		column:  "published_date",
		missing: func(b *entities.Book) bool { return len(b.PublishedDate) <= 4 },
		value: func(b *entities.Book, info *metadata.BookInfo) (any, bool) {
			return info.PublishedDate, len(info.PublishedDate) > len(b.PublishedDate)
		},
	},
	{
		column:  "thumbnail",
		missing: func(b *entities.Book) bool { return b.Thumbnail == "" },
		value: func(_ *entities.Book, info *metadata.BookInfo) (any, bool) {
			return info.Thumbnail, info.Thumbnail != ""
		},
	},
	{
		column:  "description",
		missing: func(b *entities.Book) bool { return b.Description == "" },
		value: func(_ *entities.Book, info *metadata.BookInfo) (any, bool) {
			return info.Description, info.Description != ""
		},
	},
	{
		column:  "genre",
		missing: func(b *entities.Book) bool { return b.Genre == "" },
		value: func(_ *entities.Book, info *metadata.BookInfo) (any, bool) {
			genre := metadata.ClassifyCategories(info.Categories)
			return genre, genre != ""
		},
	},
}

// buildPatch returns the column updates a lookup result earns for a record.
// An empty map means the result taught us nothing new.
func buildPatch(b *entities.Book, info *metadata.BookInfo) map[string]any {
	patch := make(map[string]any)
	for _, rule := range patchRules {
		if !rule.missing(b) {
			continue
		}
		if v, ok := rule.value(b, info); ok {
			patch[rule.column] = v
		}
	}
	return patch
}
