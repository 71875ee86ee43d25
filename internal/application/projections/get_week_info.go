package projections

import (
	"context"
	"time"

	"softres/internal/domain/raid"
	"softres/internal/domain/week"
)

// WeekInfoStore defines the week lookups for the week projections.
type WeekInfoStore interface {
	GetByLabel(ctx context.Context, label string) (week.Week, bool, error)
	List(ctx context.Context) ([]week.Week, error)
}

// WeekInfoRaidStore resolves the raid a week belongs to.
type WeekInfoRaidStore interface {
	GetRaidByID(ctx context.Context, id int64) (raid.Raid, error)
}

// GetWeekInfoDeps holds dependencies for the current-week projection.
type GetWeekInfoDeps struct {
	WeekStore WeekInfoStore
	RaidStore WeekInfoRaidStore
	Now       func() time.Time
}

// WeekInfo describes the raid week containing now. Exists reports whether
// the week row has been materialized; the label and start are computed
// either way so the boundary can always render a header.
type WeekInfo struct {
	WeekID   int64  `json:"weekId,omitempty"`
	Label    string `json:"label"`
	Start    string `json:"start"`
	Exists   bool   `json:"exists"`
	RaidName string `json:"raidName,omitempty"`
}

// WeekListRow is one row of the week history.
type WeekListRow struct {
	WeekID int64  `json:"weekId"`
	Label  string `json:"label"`
	Start  string `json:"start"`
}

// QueryGetCurrentWeek reports the week containing now, whether or not a
// row for it exists yet.
func QueryGetCurrentWeek(ctx context.Context, deps GetWeekInfoDeps) (WeekInfo, error) {
	now := deps.Now()
	info := WeekInfo{
		Label: week.CurrentLabel(now),
		Start: week.CurrentStart(now).Format(time.RFC3339),
	}

	w, found, err := deps.WeekStore.GetByLabel(ctx, info.Label)
	if err != nil {
		return WeekInfo{}, err
	}
	if !found {
		return info, nil
	}

	info.WeekID = w.ID
	info.Exists = true
	r, err := deps.RaidStore.GetRaidByID(ctx, w.RaidID)
	if err != nil {
		return WeekInfo{}, err
	}
	info.RaidName = r.Name
	return info, nil
}

// QueryListWeeks returns the week history, newest first.
func QueryListWeeks(ctx context.Context, deps GetWeekInfoDeps) ([]WeekListRow, error) {
	weeks, err := deps.WeekStore.List(ctx)
	if err != nil {
		return nil, err
	}
	rows := make([]WeekListRow, 0, len(weeks))
	for _, w := range weeks {
		rows = append(rows, WeekListRow{
			WeekID: w.ID,
			Label:  w.Label,
			Start:  w.StartDate.Format(time.RFC3339),
		})
	}
	return rows, nil
}
