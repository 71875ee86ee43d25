package projections

import (
	"context"

	"softres/internal/adapters/storage/player"
	"softres/internal/domain/apperr"
	"softres/internal/domain/class"
	"softres/internal/domain/identity"
	playerdomain "softres/internal/domain/player"
)

// RosterPlayerStore defines the roster lookup for the projection.
type RosterPlayerStore interface {
	List(ctx context.Context, filter player.ListFilter) ([]playerdomain.Player, error)
}

// RosterClassStore defines the class lookup for the projection.
type RosterClassStore interface {
	List(ctx context.Context) ([]class.Class, error)
}

// GetRosterInput carries raw roster filters from the boundary.
type GetRosterInput struct {
	Actor   identity.Identity
	Query   string
	Role    string
	ClassID *int64
	Active  *bool
}

// GetRosterDeps holds dependencies for the roster projection.
type GetRosterDeps struct {
	PlayerStore RosterPlayerStore
	ClassStore  RosterClassStore
}

// RosterRow is one roster member with their class resolved.
type RosterRow struct {
	PlayerID  int64  `json:"playerId"`
	Name      string `json:"name"`
	Role      string `json:"role"`
	ClassID   int64  `json:"classId"`
	ClassName string `json:"className"`
	Active    bool   `json:"active"`
}

// QueryGetRoster lists roster members with optional filters. Officer-only:
// the roster view exposes inactive members and management state.
// POST: Rows sorted by name
func QueryGetRoster(ctx context.Context, input GetRosterInput, deps GetRosterDeps) ([]RosterRow, error) {
	if !input.Actor.IsOfficer() {
		return nil, apperr.New(apperr.KindOfficerOnly, "only officers may read the roster")
	}

	filter := player.ListFilter{Query: input.Query, ClassID: input.ClassID, Active: input.Active}
	if input.Role != "" {
		role, err := playerdomain.ParseRole(input.Role)
		if err != nil {
			return nil, apperr.New(apperr.KindBadRequest, err.Error())
		}
		filter.Role = &role
	}

	players, err := deps.PlayerStore.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	classes, err := deps.ClassStore.List(ctx)
	if err != nil {
		return nil, err
	}
	classNames := make(map[int64]string, len(classes))
	for _, c := range classes {
		classNames[c.ID] = c.Name
	}

	rows := make([]RosterRow, 0, len(players))
	for _, p := range players {
		rows = append(rows, RosterRow{
			PlayerID:  p.ID,
			Name:      p.Name,
			Role:      string(p.Role),
			ClassID:   p.ClassID,
			ClassName: classNames[p.ClassID],
			Active:    p.Active,
		})
	}
	return rows, nil
}
