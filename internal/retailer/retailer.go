// Package retailer extracts product identifiers from bookstore URLs.
package retailer

import "regexp"

// Amazon product pages carry the item identifier in a /dp/, /gp/product/,
// or /ASIN/ path segment. Print editions use their ISBN-10 as the
// identifier; digital editions use a letter-prefixed ASIN.
var productIDPattern = regexp.MustCompile(`(?:/dp/|/gp/product/|/ASIN/)([0-9A-Za-z]{10})(?:[^0-9A-Za-z]|$)`)

// ProductID extracts the 10-character product identifier from a retailer
// URL, or "" when the URL has no recognizable product segment.
func ProductID(rawURL string) string {
	m := productIDPattern.FindStringSubmatch(rawURL)
	if m == nil {
		return ""
	}
	return m[1]
}

// IsISBNCandidate reports whether a product identifier looks like an
// ISBN-10. Digit-leading identifiers are ISBNs; letter-leading ASINs
// belong to digital editions that have none.
func IsISBNCandidate(id string) bool {
	return id != "" && id[0] >= '0' && id[0] <= '9'
}
