package audit

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// Action is the closed set of audited administrative and player actions.
type Action string

const (
	ActionSRChoiceSet            Action = "SR_CHOICE_SET"
	ActionSRReceivedToggled      Action = "SR_ITEM_RECEIVED_TOGGLED"
	ActionBossKillToggled        Action = "BOSS_KILL_TOGGLED"
	ActionSRLocked               Action = "SR_LOCKED"
	ActionSRUnlocked             Action = "SR_UNLOCKED"
	ActionSRUnlockedExceptKilled Action = "SR_UNLOCKED_EXCEPT_KILLED"
	ActionWeekReset              Action = "WEEK_RESET"
	ActionInviteClaimed          Action = "INVITE_CLAIMED"
	ActionPlayerDeactivated      Action = "PLAYER_DEACTIVATED"
	ActionPlayerReactivated      Action = "PLAYER_REACTIVATED"
	ActionPlayerUpdated          Action = "PLAYER_UPDATED"
)

var actions = map[Action]bool{
	ActionSRChoiceSet:            true,
	ActionSRReceivedToggled:      true,
	ActionBossKillToggled:        true,
	ActionSRLocked:               true,
	ActionSRUnlocked:             true,
	ActionSRUnlockedExceptKilled: true,
	ActionWeekReset:              true,
	ActionInviteClaimed:          true,
	ActionPlayerDeactivated:      true,
	ActionPlayerReactivated:      true,
	ActionPlayerUpdated:          true,
}

// ValidAction reports whether a raw string names a known action.
func ValidAction(a Action) bool { return actions[a] }

// TargetType is the closed set of entities an audit entry can point at.
type TargetType string

const (
	TargetSRChoice TargetType = "SR_CHOICE"
	TargetBossKill TargetType = "BOSS_KILL"
	TargetWeek     TargetType = "WEEK"
	TargetPlayer   TargetType = "PLAYER"
)

var targetTypes = map[TargetType]bool{
	TargetSRChoice: true,
	TargetBossKill: true,
	TargetWeek:     true,
	TargetPlayer:   true,
}

// ValidTargetType reports whether a raw string names a known target type.
func ValidTargetType(t TargetType) bool { return targetTypes[t] }

// Composite target-id helpers. The convention "<kind>:<id>[/<kind>:<id>]"
// lets downstream consumers parse targets generically.

// WeekPlayerTarget builds the target id for a per-week player row.
func WeekPlayerTarget(weekID, playerID int64) string {
	return fmt.Sprintf("week:%d/player:%d", weekID, playerID)
}

// WeekBossTarget builds the target id for a per-week boss row.
func WeekBossTarget(weekID, bossID int64) string {
	return fmt.Sprintf("week:%d/boss:%d", weekID, bossID)
}

// WeekTarget builds the target id for a week.
func WeekTarget(weekID int64) string { return fmt.Sprintf("week:%d", weekID) }

// PlayerTarget builds the target id for a player.
func PlayerTarget(playerID int64) string { return fmt.Sprintf("player:%d", playerID) }

// Entry is a single append-only audit record. Before/After/Meta are opaque
// structured snapshots; the recorder is schema-agnostic.
type Entry struct {
	ID           int64
	Action       Action
	TargetType   TargetType
	TargetID     string
	WeekID       *int64
	Before       json.RawMessage
	After        json.RawMessage
	ActorDisplay string
	Meta         json.RawMessage
	CreatedAt    time.Time
}

// NewEntry creates an audit entry for an action against a target.
// PRE: action and targetType are declared constants; actorDisplay is non-empty
// POST: Returns an Entry ready for the With* builders
func NewEntry(action Action, targetType TargetType, targetID, actorDisplay string) Entry {
	return Entry{
		Action:       action,
		TargetType:   targetType,
		TargetID:     targetID,
		ActorDisplay: actorDisplay,
	}
}

// WithWeek attaches the week the entry belongs to.
func (e Entry) WithWeek(weekID int64) Entry {
	e.WeekID = &weekID
	return e
}

// WithBefore attaches the pre-state snapshot.
// PRE: v marshals to JSON
func (e Entry) WithBefore(v any) Entry {
	e.Before = marshal(v)
	return e
}

// WithAfter attaches the post-state snapshot.
// PRE: v marshals to JSON
func (e Entry) WithAfter(v any) Entry {
	e.After = marshal(v)
	return e
}

// WithMeta attaches optional structured metadata.
// PRE: v marshals to JSON
func (e Entry) WithMeta(v any) Entry {
	e.Meta = marshal(v)
	return e
}

// Validate checks if the Entry has valid data. A failing entry must abort
// the surrounding transaction: an audit row is a mandatory side effect of
// every state transition.
func (e *Entry) Validate() error {
	if !ValidAction(e.Action) {
		return fmt.Errorf("unknown audit action %q", e.Action)
	}
	if !ValidTargetType(e.TargetType) {
		return fmt.Errorf("unknown audit target type %q", e.TargetType)
	}
	if e.TargetID == "" {
		return errors.New("audit entry must have a target id")
	}
	if e.ActorDisplay == "" {
		return errors.New("audit entry must have an actor display")
	}
	return nil
}

func marshal(v any) json.RawMessage {
	if v == nil {
		return nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		// Snapshots are plain maps and structs; Validate and tests catch a
		// value that cannot marshal.
		return nil
	}
	return b
}
