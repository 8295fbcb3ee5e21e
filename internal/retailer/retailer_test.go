package retailer

import "testing"

func TestProductID(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		expected string
	}{
		{"dp segment", "https://www.amazon.co.jp/dp/4774142042", "4774142042"},
		{"dp with title slug", "https://www.amazon.co.jp/Webを支える技術/dp/4774142042/ref=sr_1_1", "4774142042"},
		{"dp with query", "https://www.amazon.co.jp/dp/4774142042?tag=x-22", "4774142042"},
		{"gp product segment", "https://www.amazon.com/gp/product/0134685997", "0134685997"},
		{"ASIN segment", "https://www.amazon.co.jp/exec/obidos/ASIN/4774142042/", "4774142042"},
		{"kindle asin", "https://www.amazon.co.jp/dp/B00J48GMXQ", "B00J48GMXQ"},
		{"fragment boundary", "https://www.amazon.co.jp/dp/4774142042#reviews", "4774142042"},
		{"identifier too short", "https://www.amazon.co.jp/dp/12345", ""},
		{"identifier too long", "https://www.amazon.co.jp/dp/477414204299", ""},
		{"no product segment", "https://books.rakuten.co.jp/rb/12107436/", ""},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ProductID(tt.url); got != tt.expected {
				t.Errorf("ProductID(%q) = %q, expected %q", tt.url, got, tt.expected)
			}
		})
	}
}

func TestIsISBNCandidate(t *testing.T) {
	tests := []struct {
		id       string
		expected bool
	}{
		{"4774142042", true},
		{"0134685997", true},
		{"B00J48GMXQ", false}, // Kindle ASIN
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			if got := IsISBNCandidate(tt.id); got != tt.expected {
				t.Errorf("IsISBNCandidate(%q) = %v, expected %v", tt.id, got, tt.expected)
			}
		})
	}
}
