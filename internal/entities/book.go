package entities

import (
	"time"
)

// Book is one record in the personal library. Metadata fields left empty
// by the owner are fair game for the backfill pass; everything the owner
// typed in stays untouched.
type Book struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	Title         string     `gorm:"index;size:512" json:"title"`
	Author        string     `gorm:"index;size:256" json:"author"`
	Genre         string     `gorm:"size:100" json:"genre"`
	PublishedDate string     `gorm:"size:32" json:"published_date"` // YYYY, YYYY-MM, or YYYY-MM-DD
	PageCount     int        `json:"page_count"`                    // 0 = unknown
	Rating        int        `json:"rating"`                        // 0 = unrated, 1-5 otherwise
	Memo          string     `gorm:"type:text" json:"memo"`
	Description   string     `gorm:"type:text" json:"description"`
	Thumbnail     string     `gorm:"size:2048" json:"thumbnail"`
	PurchaseURL   string     `gorm:"size:2048" json:"purchase_url"`
	CompletedAt   *time.Time `json:"completed_at"` // null while unfinished
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

func (Book) TableName() string {
	return "books"
}
