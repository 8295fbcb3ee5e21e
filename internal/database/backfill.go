package database

import (
	"encoding/json"
	"log"
	"strconv"
	"time"

	"gorm.io/gorm"

	"github.com/kojiurata-bit/reading-tracker/internal/entities"
)

// BackfillStore wraps the Database to implement the backfill.RecordStore
// interface.
type BackfillStore struct {
	db *Database
}

// NewBackfillStore creates a BackfillStore wrapping the given database.
func NewBackfillStore(db *Database) *BackfillStore {
	return &BackfillStore{db: db}
}

// ListBooks delegates to the underlying database.
func (s *BackfillStore) ListBooks() ([]entities.Book, error) {
	return s.db.GetAllBooks()
}

// PatchBook delegates to the underlying database.
func (s *BackfillStore) PatchBook(id uint, fields map[string]any) (*entities.Book, error) {
	return s.db.PatchBook(id, fields)
}

// BackfillState persists the backfill pass's scheduling state in the
// settings table, implementing the backfill.StateStore interface. The
// last-run timestamp is stored as epoch millis in text form, the negative
// cache as a JSON map of record ID to epoch millis.
type BackfillState struct {
	db *Database
}

// NewBackfillState creates a BackfillState wrapping the given database.
func NewBackfillState(db *Database) *BackfillState {
	return &BackfillState{db: db}
}

// LastRunAt returns when the last pass ran, or the zero time when no pass
// has ever recorded itself.
func (s *BackfillState) LastRunAt() (time.Time, error) {
	setting, err := s.db.GetSetting(entities.SettingKeyBackfillLastRunAt)
	if err == gorm.ErrRecordNotFound {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, err
	}

	millis, err := strconv.ParseInt(setting.Value, 10, 64)
	if err != nil {
		// An unreadable timestamp is treated as never run rather than
		// wedging the scheduler forever.
		log.Printf("Backfill state: unreadable last-run value %q, ignoring", setting.Value)
		return time.Time{}, nil
	}
	return time.UnixMilli(millis), nil
}

// SetLastRunAt records when a pass ran.
func (s *BackfillState) SetLastRunAt(t time.Time) error {
	return s.db.SetSetting(entities.SettingKeyBackfillLastRunAt, strconv.FormatInt(t.UnixMilli(), 10))
}

// NegativeCache loads the futile-lookup suppression map. A missing or
// corrupted value yields an empty map.
func (s *BackfillState) NegativeCache() (map[uint]int64, error) {
	setting, err := s.db.GetSetting(entities.SettingKeyBackfillNegativeCache)
	if err == gorm.ErrRecordNotFound {
		return map[uint]int64{}, nil
	}
	if err != nil {
		return nil, err
	}

	var cache map[uint]int64
	if err := json.Unmarshal([]byte(setting.Value), &cache); err != nil {
		log.Printf("Backfill state: unreadable negative cache, starting fresh: %v", err)
		return map[uint]int64{}, nil
	}
	if cache == nil {
		cache = map[uint]int64{}
	}
	return cache, nil
}

// SetNegativeCache stores the suppression map.
func (s *BackfillState) SetNegativeCache(cache map[uint]int64) error {
	data, err := json.Marshal(cache)
	if err != nil {
		return err
	}
	return s.db.SetSetting(entities.SettingKeyBackfillNegativeCache, string(data))
}

// SetLastStatus records the outcome of the most recent pass for the
// status endpoint.
func (s *BackfillState) SetLastStatus(status, message string) error {
	if err := s.db.SetSetting(entities.SettingKeyBackfillLastStatus, status); err != nil {
		return err
	}
	return s.db.SetSetting(entities.SettingKeyBackfillLastMessage, message)
}

// LastStatus returns the recorded outcome of the most recent pass.
func (s *BackfillState) LastStatus() (status, message string) {
	status = s.db.GetSettingValue(entities.SettingKeyBackfillLastStatus, "")
	message = s.db.GetSettingValue(entities.SettingKeyBackfillLastMessage, "")
	return status, message
}
