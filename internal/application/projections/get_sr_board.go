package projections

import (
	"context"
	"time"

	"softres/internal/adapters/storage/player"
	"softres/internal/domain/loot"
	playerdomain "softres/internal/domain/player"
	"softres/internal/domain/raid"
	"softres/internal/domain/srchoice"
	"softres/internal/domain/week"
)

// SRBoardWeekStore defines the week lookups for the board.
type SRBoardWeekStore interface {
	GetByID(ctx context.Context, id int64) (week.Week, error)
	GetByLabel(ctx context.Context, label string) (week.Week, bool, error)
}

// SRBoardPlayerStore defines the roster lookup for the board.
type SRBoardPlayerStore interface {
	List(ctx context.Context, filter player.ListFilter) ([]playerdomain.Player, error)
}

// SRBoardChoiceStore defines the choice lookup for the board.
type SRBoardChoiceStore interface {
	ListByWeek(ctx context.Context, weekID int64) ([]srchoice.Choice, error)
}

// SRBoardLootStore defines the catalog lookup for the board.
type SRBoardLootStore interface {
	ListItems(ctx context.Context) ([]loot.Item, error)
}

// SRBoardBossStore defines the boss lookup for the board.
type SRBoardBossStore interface {
	ListBossesByRaid(ctx context.Context, raidID int64) ([]raid.Boss, error)
}

// GetSRBoardInput selects the week. A nil WeekID means the current week.
type GetSRBoardInput struct {
	WeekID *int64
}

// GetSRBoardDeps holds dependencies for the SR board projection.
type GetSRBoardDeps struct {
	WeekStore   SRBoardWeekStore
	PlayerStore SRBoardPlayerStore
	ChoiceStore SRBoardChoiceStore
	LootStore   SRBoardLootStore
	BossStore   SRBoardBossStore
	Now         func() time.Time
}

// SRBoardRow is one active player with whatever they have reserved.
type SRBoardRow struct {
	PlayerID   int64      `json:"playerId"`
	PlayerName string     `json:"playerName"`
	Role       string     `json:"role"`
	ClassID    int64      `json:"classId"`
	LootItemID *int64     `json:"lootItemId"`
	ItemName   string     `json:"itemName,omitempty"`
	BossID     *int64     `json:"bossId"`
	BossName   string     `json:"bossName,omitempty"`
	IsTier     bool       `json:"isTier"`
	Locked     bool       `json:"locked"`
	Notes      string     `json:"notes,omitempty"`
	Received   bool       `json:"received"`
	UpdatedAt  *time.Time `json:"updatedAt,omitempty"`
}

// SRBoard is the weekly reserve sheet: every active player, reserved or not.
type SRBoard struct {
	WeekID int64        `json:"weekId"`
	Label  string       `json:"label"`
	Exists bool         `json:"exists"`
	Rows   []SRBoardRow `json:"rows"`
}

// QueryGetSRBoard assembles the reserve sheet for one week. A week with no
// row yet (rollover not run) still renders: every active player, nothing
// reserved. The board never creates state.
// POST: Rows sorted by player name; one row per active player
func QueryGetSRBoard(ctx context.Context, input GetSRBoardInput, deps GetSRBoardDeps) (SRBoard, error) {
	board := SRBoard{}

	if input.WeekID != nil {
		w, err := deps.WeekStore.GetByID(ctx, *input.WeekID)
		if err != nil {
			return SRBoard{}, err
		}
		board.WeekID = w.ID
		board.Label = w.Label
		board.Exists = true
		return fillBoard(ctx, board, w, deps)
	}

	label := week.CurrentLabel(deps.Now())
	w, found, err := deps.WeekStore.GetByLabel(ctx, label)
	if err != nil {
		return SRBoard{}, err
	}
	board.Label = label
	if !found {
		// Roster only; there is nothing reserved in a week with no row.
		rows, err := rosterRows(ctx, deps)
		if err != nil {
			return SRBoard{}, err
		}
		board.Rows = rows
		return board, nil
	}
	board.WeekID = w.ID
	board.Exists = true
	return fillBoard(ctx, board, w, deps)
}

func rosterRows(ctx context.Context, deps GetSRBoardDeps) ([]SRBoardRow, error) {
	active := true
	players, err := deps.PlayerStore.List(ctx, player.ListFilter{Active: &active})
	if err != nil {
		return nil, err
	}
	rows := make([]SRBoardRow, 0, len(players))
	for _, p := range players {
		rows = append(rows, SRBoardRow{
			PlayerID:   p.ID,
			PlayerName: p.Name,
			Role:       string(p.Role),
			ClassID:    p.ClassID,
		})
	}
	return rows, nil
}

func fillBoard(ctx context.Context, board SRBoard, w week.Week, deps GetSRBoardDeps) (SRBoard, error) {
	rows, err := rosterRows(ctx, deps)
	if err != nil {
		return SRBoard{}, err
	}

	choices, err := deps.ChoiceStore.ListByWeek(ctx, w.ID)
	if err != nil {
		return SRBoard{}, err
	}
	byPlayer := make(map[int64]srchoice.Choice, len(choices))
	for _, c := range choices {
		byPlayer[c.PlayerID] = c
	}

	items, err := deps.LootStore.ListItems(ctx)
	if err != nil {
		return SRBoard{}, err
	}
	itemNames := make(map[int64]string, len(items))
	for _, it := range items {
		itemNames[it.ID] = it.Name
	}

	bosses, err := deps.BossStore.ListBossesByRaid(ctx, w.RaidID)
	if err != nil {
		return SRBoard{}, err
	}
	bossNames := make(map[int64]string, len(bosses))
	for _, b := range bosses {
		bossNames[b.ID] = b.Name
	}

	for i := range rows {
		c, ok := byPlayer[rows[i].PlayerID]
		if !ok {
			continue
		}
		rows[i].LootItemID = c.LootItemID
		rows[i].BossID = c.BossID
		rows[i].IsTier = c.IsTier
		rows[i].Locked = c.Locked
		rows[i].Notes = c.Notes
		rows[i].Received = c.Received
		updated := c.UpdatedAt
		rows[i].UpdatedAt = &updated
		if c.LootItemID != nil {
			rows[i].ItemName = itemNames[*c.LootItemID]
		}
		if c.BossID != nil {
			rows[i].BossName = bossNames[*c.BossID]
		}
	}

	board.Rows = rows
	return board, nil
}
