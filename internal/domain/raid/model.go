package raid

import (
	"errors"
	"strings"
)

// Raid is the root of a boss roster. Effectively immutable after creation.
type Raid struct {
	ID   int64
	Name string
}

// Validate checks if the Raid has valid data.
func (r *Raid) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return errors.New("raid name cannot be empty")
	}
	return nil
}

// Boss belongs to exactly one raid; its name is unique within that raid.
// Static reference data.
type Boss struct {
	ID     int64
	RaidID int64
	Name   string
}

// Validate checks if the Boss has valid data.
func (b *Boss) Validate() error {
	if b.RaidID <= 0 {
		return errors.New("boss must belong to a raid")
	}
	if strings.TrimSpace(b.Name) == "" {
		return errors.New("boss name cannot be empty")
	}
	return nil
}

// Kill is the per-week kill status for one boss. A missing row means "not
// killed"; rows are created lazily on the first toggle.
type Kill struct {
	ID     int64
	WeekID int64
	BossID int64
	Killed bool
}
