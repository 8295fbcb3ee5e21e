package entities

import (
	"time"
)

type Setting struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Key       string    `gorm:"uniqueIndex;size:100" json:"key"`
	Value     string    `gorm:"type:text" json:"value"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Setting) TableName() string {
	return "settings"
}

// Known setting keys
const (
	// Metadata backfill scheduling state
	SettingKeyBackfillLastRunAt     = "backfill_last_run_at"    // epoch millis as text
	SettingKeyBackfillNegativeCache = "backfill_negative_cache" // JSON map of record ID to epoch millis
	SettingKeyBackfillLastStatus    = "backfill_last_status"
	SettingKeyBackfillLastMessage   = "backfill_last_message"
)
