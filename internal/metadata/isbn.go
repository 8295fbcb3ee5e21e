package metadata

import "strings"

// normalizeISBN removes hyphens and spaces from an ISBN.
func normalizeISBN(isbn string) string {
	isbn = strings.ReplaceAll(isbn, "-", "")
	isbn = strings.ReplaceAll(isbn, " ", "")
	isbn = strings.TrimSpace(isbn)

	// Basic validation: ISBN-10 or ISBN-13
	if len(isbn) != 10 && len(isbn) != 13 {
		return ""
	}

	return isbn
}

// toISBN13 converts a normalized ISBN-10 to its ISBN-13 form by prefixing
// the 978 group and recomputing the check digit. ISBN-13 input passes
// through unchanged; anything else yields "".
func toISBN13(isbn string) string {
	if len(isbn) == 13 {
		return isbn
	}
	if len(isbn) != 10 {
		return ""
	}

	// The ISBN-10 check digit is dropped; only the first nine digits carry over.
	body := "978" + isbn[:9]

	sum := 0
	for i := 0; i < len(body); i++ {
		d := int(body[i] - '0')
		if d < 0 || d > 9 {
			return ""
		}
		if i%2 == 1 {
			d *= 3
		}
		sum += d
	}
	check := (10 - sum%10) % 10

	return body + string(rune('0'+check))
}
