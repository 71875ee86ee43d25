package projections

import (
	"context"
	"time"

	"softres/internal/domain/raid"
	"softres/internal/domain/week"
)

// KillBoardWeekStore defines the week lookup for the kill board.
type KillBoardWeekStore interface {
	GetByLabel(ctx context.Context, label string) (week.Week, bool, error)
}

// KillBoardKillStore defines the kill lookup for the kill board.
type KillBoardKillStore interface {
	ListByWeek(ctx context.Context, weekID int64) ([]raid.Kill, error)
}

// KillBoardBossStore defines the boss lookup for the kill board.
type KillBoardBossStore interface {
	ListBossesByRaid(ctx context.Context, raidID int64) ([]raid.Boss, error)
}

// GetKillBoardDeps holds dependencies for the kill board projection.
type GetKillBoardDeps struct {
	WeekStore KillBoardWeekStore
	KillStore KillBoardKillStore
	BossStore KillBoardBossStore
	Now       func() time.Time
}

// KillBoardRow is one boss with its per-week kill state. A boss that was
// never toggled shows killed: false.
type KillBoardRow struct {
	BossID   int64  `json:"bossId"`
	BossName string `json:"bossName"`
	Killed   bool   `json:"killed"`
}

// KillBoard is the current week's encounter checklist.
type KillBoard struct {
	WeekID int64          `json:"weekId"`
	Label  string         `json:"label"`
	Exists bool           `json:"exists"`
	Bosses []KillBoardRow `json:"bosses"`
}

// QueryGetKillBoard assembles the kill checklist for the current week.
// A missing week row yields the label and an empty list; the board never
// creates state.
// POST: Bosses in seed (encounter) order
func QueryGetKillBoard(ctx context.Context, deps GetKillBoardDeps) (KillBoard, error) {
	label := week.CurrentLabel(deps.Now())
	w, found, err := deps.WeekStore.GetByLabel(ctx, label)
	if err != nil {
		return KillBoard{}, err
	}
	if !found {
		return KillBoard{Label: label, Bosses: []KillBoardRow{}}, nil
	}

	bosses, err := deps.BossStore.ListBossesByRaid(ctx, w.RaidID)
	if err != nil {
		return KillBoard{}, err
	}
	kills, err := deps.KillStore.ListByWeek(ctx, w.ID)
	if err != nil {
		return KillBoard{}, err
	}
	killed := make(map[int64]bool, len(kills))
	for _, k := range kills {
		killed[k.BossID] = k.Killed
	}

	rows := make([]KillBoardRow, 0, len(bosses))
	for _, b := range bosses {
		rows = append(rows, KillBoardRow{BossID: b.ID, BossName: b.Name, Killed: killed[b.ID]})
	}

	return KillBoard{WeekID: w.ID, Label: w.Label, Exists: true, Bosses: rows}, nil
}
