package week

import (
	"errors"
	"strings"
	"time"

	// The weekly anchor is defined in a fixed zone; embed the zone database so
	// hosts without /usr/share/zoneinfo still resolve it.
	_ "time/tzdata"
)

// Weeks begin on Tuesday at local midnight in US Eastern time.
const (
	AnchorWeekday = time.Tuesday
	ZoneName      = "America/New_York"
	labelPrefix   = "Week of "
	labelDate     = "Jan 2, 2006"
)

var zone = mustLoadZone()

func mustLoadZone() *time.Location {
	loc, err := time.LoadLocation(ZoneName)
	if err != nil {
		panic("week: load zone " + ZoneName + ": " + err.Error())
	}
	return loc
}

// Zone returns the fixed time zone all week math is computed in.
func Zone() *time.Location {
	return zone
}

// Week is one weekly cycle of a raid. Exactly one week is "current" at any
// instant, identified by its label — never by a stored flag.
type Week struct {
	ID        int64
	RaidID    int64
	Label     string
	StartDate time.Time
}

// Validate checks if the Week has valid data.
// PRE: Week struct is initialized
// POST: Returns error if validation fails, nil otherwise
func (w *Week) Validate() error {
	if w.RaidID <= 0 {
		return errors.New("week must belong to a raid")
	}
	if strings.TrimSpace(w.Label) == "" {
		return errors.New("week label cannot be empty")
	}
	if w.StartDate.IsZero() {
		return errors.New("week start date must be set")
	}
	return nil
}

// CurrentStart returns the local midnight of the most recent anchor weekday
// at or before now. The canonical delta formula is
// (weekday - Tuesday + 7) mod 7 with Go weekday numbering (Sun=0..Sat=6),
// so the exact anchor boundary instant (Tuesday 00:00 local) belongs to the
// week it opens.
func CurrentStart(now time.Time) time.Time {
	local := now.In(zone)
	delta := (int(local.Weekday()) - int(AnchorWeekday) + 7) % 7
	d := local.AddDate(0, 0, -delta)
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, zone)
}

// NextStart returns the start of the week after the given start: seven days
// later, truncated to local midnight. Chaining from a stored start (rather
// than the wall clock) keeps rollover deterministic even when triggered late.
func NextStart(start time.Time) time.Time {
	d := start.In(zone).AddDate(0, 0, 7)
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, zone)
}

// LabelFor derives the canonical human-readable label for a week start.
// The label, not a stored flag, is the lookup key for "the current week".
func LabelFor(start time.Time) string {
	return labelPrefix + start.In(zone).Format(labelDate)
}

// CurrentLabel is shorthand for LabelFor(CurrentStart(now)).
func CurrentLabel(now time.Time) string {
	return LabelFor(CurrentStart(now))
}
