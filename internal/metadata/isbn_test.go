package metadata

import "testing"

func TestNormalizeISBN(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"978-4-7741-4204-3", "9784774142043"},
		{"4-7741-4204-2", "4774142042"},
		{"978 4 7741 4204 3", "9784774142043"},
		{"9784774142043", "9784774142043"},
		{"4774142042", "4774142042"},
		{"123", ""},            // Too short
		{"12345678901234", ""}, // Too long
		{"", ""},
		{"  978-4-7741-4204-3  ", "9784774142043"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result := normalizeISBN(tt.input)
			if result != tt.expected {
				t.Errorf("normalizeISBN(%q) = %q, expected %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestToISBN13(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"4774142042", "9784774142043"},
		{"4062748681", "9784062748681"},
		{"9784774142043", "9784774142043"}, // Already ISBN-13
		{"477414204X", "9784774142043"},    // Check digit dropped anyway
		{"47741", ""},
		{"", ""},
		{"47X4142042", ""}, // Non-digit in the carried body
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result := toISBN13(tt.input)
			if result != tt.expected {
				t.Errorf("toISBN13(%q) = %q, expected %q", tt.input, result, tt.expected)
			}
		})
	}
}

// TestToISBN13_ChecksumHolds recomputes the EAN-13 checksum of a converted
// ISBN to make sure the generated check digit is self-consistent.
func TestToISBN13_ChecksumHolds(t *testing.T) {
	for _, isbn10 := range []string{"4774142042", "4062748681", "0134685997"} {
		isbn13 := toISBN13(isbn10)
		if len(isbn13) != 13 {
			t.Fatalf("toISBN13(%q) = %q, expected 13 digits", isbn10, isbn13)
		}

		sum := 0
		for i := 0; i < 13; i++ {
			d := int(isbn13[i] - '0')
			if i%2 == 1 {
				d *= 3
			}
			sum += d
		}
		if sum%10 != 0 {
			t.Errorf("toISBN13(%q) = %q fails its own checksum (sum %d)", isbn10, isbn13, sum)
		}
	}
}
