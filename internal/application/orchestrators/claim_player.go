package orchestrators

import (
	"context"
	"crypto/subtle"
	"log/slog"
	"strings"
	"time"

	"softres/internal/domain/apperr"
	auditdomain "softres/internal/domain/audit"
	"softres/internal/domain/class"
	"softres/internal/domain/player"
)

// PlayerStoreForClaim defines the player persistence needed by the claim flow.
type PlayerStoreForClaim interface {
	GetByName(ctx context.Context, name string) (player.Player, bool, error)
	Create(ctx context.Context, value player.Player, entryFor func(id int64) auditdomain.Entry) (int64, error)
}

// ClassStoreForClaim defines the class lookup needed by the claim flow.
type ClassStoreForClaim interface {
	GetByID(ctx context.Context, id int64) (class.Class, error)
}

// ClaimPlayerInput carries input for the invite claim.
type ClaimPlayerInput struct {
	Token   string
	Name    string
	Role    string
	ClassID int64
}

// ClaimPlayerDeps holds dependencies for ExecuteClaimPlayer.
type ClaimPlayerDeps struct {
	InviteToken string
	PlayerStore PlayerStoreForClaim
	ClassStore  ClassStoreForClaim
	Now         func() time.Time
}

// ExecuteClaimPlayer turns an invite token into a roster spot. Anonymous by
// design; the audit entry records the claim with the anonymous actor. Names
// are unique case-insensitively.
// PRE: deps.InviteToken is the configured shared secret
// POST: Player row and INVITE_CLAIMED audit entry committed atomically
func ExecuteClaimPlayer(ctx context.Context, input ClaimPlayerInput, deps ClaimPlayerDeps) (player.Player, error) {
	if deps.InviteToken == "" ||
		subtle.ConstantTimeCompare([]byte(input.Token), []byte(deps.InviteToken)) != 1 {
		return player.Player{}, apperr.New(apperr.KindBadRequest, "invalid invite token")
	}

	role, err := player.ParseRole(input.Role)
	if err != nil {
		return player.Player{}, apperr.New(apperr.KindBadRequest, err.Error())
	}

	p := player.Player{
		Name:    strings.TrimSpace(input.Name),
		Role:    role,
		ClassID: input.ClassID,
		Active:  true,
	}
	if err := p.Validate(); err != nil {
		return player.Player{}, apperr.New(apperr.KindBadRequest, err.Error())
	}

	if _, err := deps.ClassStore.GetByID(ctx, p.ClassID); err != nil {
		return player.Player{}, apperr.New(apperr.KindBadRequest, "unknown class")
	}

	if _, taken, err := deps.PlayerStore.GetByName(ctx, p.Name); err != nil {
		return player.Player{}, err
	} else if taken {
		return player.Player{}, apperr.New(apperr.KindNameTaken, "that name is already claimed")
	}

	now := deps.Now()
	id, err := deps.PlayerStore.Create(ctx, p, func(id int64) auditdomain.Entry {
		entry := auditdomain.NewEntry(auditdomain.ActionInviteClaimed, auditdomain.TargetPlayer, auditdomain.PlayerTarget(id), "anonymous").
			WithAfter(map[string]any{"name": p.Name, "role": string(p.Role), "classId": p.ClassID})
		entry.CreatedAt = now
		return entry
	})
	if err != nil {
		return player.Player{}, err
	}
	p.ID = id

	slog.Info("sr_event", "event", "invite_claimed", "player_id", id, "name", p.Name, "role", string(p.Role))
	return p, nil
}
