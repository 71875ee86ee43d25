package srchoice

import (
	"errors"
	"time"
	"unicode/utf8"
)

// Notes caps. The history mirror keeps a shorter excerpt than the live row.
const (
	MaxNotesLength    = 128
	MaxLogNotesLength = 96
)

// Choice is a player's soft reserve for one week: at most one row per
// (week, player). The primary mutable entity of the system.
type Choice struct {
	ID         int64
	WeekID     int64
	PlayerID   int64
	LootItemID *int64
	BossID     *int64
	IsTier     bool // always derived, never client-supplied
	Locked     bool // officer-controlled only
	Notes      string
	Received   bool
	UpdatedAt  time.Time
}

// Validate checks if the Choice has valid data.
// PRE: Choice struct is initialized; IsTier was derived by the eligibility rules
// POST: Returns error if validation fails, nil otherwise
func (c *Choice) Validate() error {
	if c.WeekID <= 0 {
		return errors.New("choice must belong to a week")
	}
	if c.PlayerID <= 0 {
		return errors.New("choice must belong to a player")
	}
	if utf8.RuneCountInString(c.Notes) > MaxNotesLength {
		return errors.New("notes too long")
	}
	if c.LootItemID == nil && c.IsTier {
		return errors.New("a cleared choice cannot be tier")
	}
	return nil
}

// IsClear reports whether the choice reserves nothing.
func (c Choice) IsClear() bool {
	return c.LootItemID == nil
}

// LogEntry is the denormalized per-week-per-player history mirror of a
// choice. Upserted whenever an item is reserved, deleted when the
// reservation is cleared.
type LogEntry struct {
	ID         int64
	WeekID     int64
	PlayerID   int64
	LootItemID int64
	BossID     *int64
	IsTier     bool
	Notes      string
	UpdatedAt  time.Time
}

// MirrorOf builds the log mirror for a choice. ok is false when the choice
// is cleared, meaning any existing mirror row should be deleted instead.
func MirrorOf(c Choice) (entry LogEntry, ok bool) {
	if c.LootItemID == nil {
		return LogEntry{}, false
	}
	return LogEntry{
		WeekID:     c.WeekID,
		PlayerID:   c.PlayerID,
		LootItemID: *c.LootItemID,
		BossID:     c.BossID,
		IsTier:     c.IsTier,
		Notes:      truncateRunes(c.Notes, MaxLogNotesLength),
		UpdatedAt:  c.UpdatedAt,
	}, true
}

func truncateRunes(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return string(runes[:max])
}
