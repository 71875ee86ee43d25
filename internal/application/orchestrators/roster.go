package orchestrators

import (
	"context"
	"log/slog"
	"time"

	"softres/internal/domain/apperr"
	auditdomain "softres/internal/domain/audit"
	"softres/internal/domain/class"
	"softres/internal/domain/identity"
	"softres/internal/domain/player"
)

// PlayerStoreForRoster defines the player persistence needed by roster management.
type PlayerStoreForRoster interface {
	GetByID(ctx context.Context, id int64) (player.Player, error)
	SetActive(ctx context.Context, id int64, active bool, entry auditdomain.Entry) error
	SetActiveAll(ctx context.Context, ids []int64, active bool, entries []auditdomain.Entry) error
	UpdateProfile(ctx context.Context, id int64, role player.Role, classID int64, entry auditdomain.Entry) error
}

// ClassStoreForRoster defines the class lookup needed by profile edits.
type ClassStoreForRoster interface {
	GetByID(ctx context.Context, id int64) (class.Class, error)
}

// TogglePlayerActiveInput carries input for the roster toggle.
type TogglePlayerActiveInput struct {
	Actor    identity.Identity
	PlayerID int64
	Active   bool
}

// TogglePlayerActiveDeps holds dependencies for ExecuteTogglePlayerActive.
type TogglePlayerActiveDeps struct {
	PlayerStore PlayerStoreForRoster
	Now         func() time.Time
}

// ExecuteTogglePlayerActive soft-deletes or restores a roster member.
// Officer-only. Setting the flag to its current value is a no-op and
// appends no audit entry.
// PRE: input.Actor was built by the identity middleware
// POST: Flag and audit entry committed atomically, or nothing on a no-op
func ExecuteTogglePlayerActive(ctx context.Context, input TogglePlayerActiveInput, deps TogglePlayerActiveDeps) (player.Player, error) {
	if !input.Actor.IsOfficer() {
		return player.Player{}, apperr.New(apperr.KindOfficerOnly, "only officers may manage the roster")
	}
	if input.PlayerID <= 0 {
		return player.Player{}, apperr.New(apperr.KindBadRequest, "player id is required")
	}

	p, err := deps.PlayerStore.GetByID(ctx, input.PlayerID)
	if err != nil {
		return player.Player{}, apperr.New(apperr.KindInvalidPlayer, "unknown player")
	}
	if p.Active == input.Active {
		return p, nil
	}

	action := auditdomain.ActionPlayerDeactivated
	if input.Active {
		action = auditdomain.ActionPlayerReactivated
	}
	entry := auditdomain.NewEntry(action, auditdomain.TargetPlayer, auditdomain.PlayerTarget(p.ID), input.Actor.Display()).
		WithBefore(map[string]bool{"active": p.Active}).
		WithAfter(map[string]bool{"active": input.Active})
	entry.CreatedAt = deps.Now()

	if err := deps.PlayerStore.SetActive(ctx, p.ID, input.Active, entry); err != nil {
		return player.Player{}, err
	}
	p.Active = input.Active

	slog.Info("sr_event",
		"event", "player_active_toggled",
		"player_id", p.ID,
		"active", p.Active,
		"actor", input.Actor.Display(),
	)
	return p, nil
}

// UpdatePlayerInput carries input for a roster profile edit. A nil field is
// left unchanged; at least one must be set.
type UpdatePlayerInput struct {
	Actor    identity.Identity
	PlayerID int64
	Role     *string
	ClassID  *int64
}

// UpdatePlayerDeps holds dependencies for ExecuteUpdatePlayer.
type UpdatePlayerDeps struct {
	PlayerStore PlayerStoreForRoster
	ClassStore  ClassStoreForRoster
	Now         func() time.Time
}

// UpdatePlayerResult reports the edit. NoChange is true when the requested
// values already matched; nothing was written or audited in that case.
type UpdatePlayerResult struct {
	Player   player.Player
	NoChange bool
}

// ExecuteUpdatePlayer changes a roster member's role and/or class.
// Officer-only. Names are fixed at claim time and are not editable here.
// Submitting the current values is a no-op and appends no audit entry.
// PRE: input.Actor was built by the identity middleware
// POST: Profile and audit entry committed atomically, or nothing on a no-op
func ExecuteUpdatePlayer(ctx context.Context, input UpdatePlayerInput, deps UpdatePlayerDeps) (UpdatePlayerResult, error) {
	if !input.Actor.IsOfficer() {
		return UpdatePlayerResult{}, apperr.New(apperr.KindOfficerOnly, "only officers may manage the roster")
	}
	if input.PlayerID <= 0 {
		return UpdatePlayerResult{}, apperr.New(apperr.KindBadRequest, "player id is required")
	}
	if input.Role == nil && input.ClassID == nil {
		return UpdatePlayerResult{}, apperr.New(apperr.KindBadRequest, "nothing to update")
	}

	p, err := deps.PlayerStore.GetByID(ctx, input.PlayerID)
	if err != nil {
		return UpdatePlayerResult{}, apperr.New(apperr.KindInvalidPlayer, "unknown player")
	}

	next := p
	if input.Role != nil {
		role, err := player.ParseRole(*input.Role)
		if err != nil {
			return UpdatePlayerResult{}, apperr.New(apperr.KindBadRequest, err.Error())
		}
		next.Role = role
	}
	if input.ClassID != nil {
		if _, err := deps.ClassStore.GetByID(ctx, *input.ClassID); err != nil {
			return UpdatePlayerResult{}, apperr.New(apperr.KindBadRequest, "unknown class")
		}
		next.ClassID = *input.ClassID
	}

	if next.Role == p.Role && next.ClassID == p.ClassID {
		return UpdatePlayerResult{Player: p, NoChange: true}, nil
	}

	entry := auditdomain.NewEntry(auditdomain.ActionPlayerUpdated, auditdomain.TargetPlayer, auditdomain.PlayerTarget(p.ID), input.Actor.Display()).
		WithBefore(map[string]any{"role": p.Role, "classId": p.ClassID}).
		WithAfter(map[string]any{"role": next.Role, "classId": next.ClassID}).
		WithMeta(map[string]string{"playerName": p.Name})
	entry.CreatedAt = deps.Now()

	if err := deps.PlayerStore.UpdateProfile(ctx, p.ID, next.Role, next.ClassID, entry); err != nil {
		return UpdatePlayerResult{}, err
	}

	slog.Info("sr_event",
		"event", "player_updated",
		"player_id", p.ID,
		"role", next.Role,
		"class_id", next.ClassID,
		"actor", input.Actor.Display(),
	)
	return UpdatePlayerResult{Player: next}, nil
}

// BulkTogglePlayersInput carries input for a bulk activate/deactivate.
type BulkTogglePlayersInput struct {
	Actor     identity.Identity
	PlayerIDs []int64
	Active    bool
}

// BulkTogglePlayersDeps holds dependencies for ExecuteBulkTogglePlayers.
type BulkTogglePlayersDeps struct {
	PlayerStore PlayerStoreForRoster
	Now         func() time.Time
}

// BulkToggleResult breaks a bulk toggle down: Changed players were flipped
// and audited, Skipped already held the target state, Missing ids matched
// no player.
type BulkToggleResult struct {
	Requested int
	Changed   int
	Skipped   int
	Missing   int
}

// ExecuteBulkTogglePlayers soft-deletes or restores a batch of roster
// members in one transaction. Officer-only. Players already in the target
// state are skipped without an audit entry; unknown ids are counted, not
// fatal.
// PRE: input.Actor was built by the identity middleware
// POST: Every changed flag and its audit entry committed together, or none
func ExecuteBulkTogglePlayers(ctx context.Context, input BulkTogglePlayersInput, deps BulkTogglePlayersDeps) (BulkToggleResult, error) {
	if !input.Actor.IsOfficer() {
		return BulkToggleResult{}, apperr.New(apperr.KindOfficerOnly, "only officers may manage the roster")
	}
	if len(input.PlayerIDs) == 0 {
		return BulkToggleResult{}, apperr.New(apperr.KindBadRequest, "player ids are required")
	}

	action := auditdomain.ActionPlayerDeactivated
	if input.Active {
		action = auditdomain.ActionPlayerReactivated
	}
	now := deps.Now()

	result := BulkToggleResult{Requested: len(input.PlayerIDs)}
	var ids []int64
	var entries []auditdomain.Entry
	seen := make(map[int64]bool, len(input.PlayerIDs))
	for _, id := range input.PlayerIDs {
		if seen[id] {
			result.Skipped++
			continue
		}
		seen[id] = true

		p, err := deps.PlayerStore.GetByID(ctx, id)
		if err != nil {
			result.Missing++
			continue
		}
		if p.Active == input.Active {
			result.Skipped++
			continue
		}

		entry := auditdomain.NewEntry(action, auditdomain.TargetPlayer, auditdomain.PlayerTarget(p.ID), input.Actor.Display()).
			WithBefore(map[string]bool{"active": p.Active}).
			WithAfter(map[string]bool{"active": input.Active}).
			WithMeta(map[string]string{"playerName": p.Name})
		entry.CreatedAt = now
		ids = append(ids, p.ID)
		entries = append(entries, entry)
	}

	if len(ids) > 0 {
		if err := deps.PlayerStore.SetActiveAll(ctx, ids, input.Active, entries); err != nil {
			return BulkToggleResult{}, err
		}
	}
	result.Changed = len(ids)

	slog.Info("sr_event",
		"event", "players_bulk_toggled",
		"active", input.Active,
		"requested", result.Requested,
		"changed", result.Changed,
		"skipped", result.Skipped,
		"missing", result.Missing,
		"actor", input.Actor.Display(),
	)
	return result, nil
}
