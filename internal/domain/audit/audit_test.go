package audit

import (
	"strings"
	"testing"
)

// TestNewEntry_Builders tests the entry builder chain.
func TestNewEntry_Builders(t *testing.T) {
	e := NewEntry(ActionSRChoiceSet, TargetSRChoice, WeekPlayerTarget(3, 7), "player:Skullblaster").
		WithWeek(3).
		WithBefore(map[string]any{"lootItemId": nil}).
		WithAfter(map[string]any{"lootItemId": 42, "isTier": true}).
		WithMeta(map[string]any{"display": "SR: Skullblaster"})

	if err := e.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e.TargetID != "week:3/player:7" {
		t.Errorf("target id = %q", e.TargetID)
	}
	if e.WeekID == nil || *e.WeekID != 3 {
		t.Error("expected week id 3")
	}
	if !strings.Contains(string(e.After), "\"isTier\":true") {
		t.Errorf("after snapshot = %s", e.After)
	}
	if e.Before == nil || e.Meta == nil {
		t.Error("expected before and meta snapshots")
	}
}

// TestEntry_Validate_Rejects tests that malformed entries fail validation,
// which must abort the surrounding transaction.
func TestEntry_Validate_Rejects(t *testing.T) {
	cases := []struct {
		name string
		e    Entry
	}{
		{"unknown action", NewEntry("SOMETHING_ELSE", TargetWeek, "week:1", "officer")},
		{"unknown target type", NewEntry(ActionWeekReset, "RAID", "week:1", "officer")},
		{"empty target id", NewEntry(ActionWeekReset, TargetWeek, "", "officer")},
		{"empty actor", NewEntry(ActionWeekReset, TargetWeek, "week:1", "")},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.e.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

// TestTargetHelpers tests the composite target-id convention.
func TestTargetHelpers(t *testing.T) {
	if got := WeekBossTarget(2, 9); got != "week:2/boss:9" {
		t.Errorf("WeekBossTarget = %q", got)
	}
	if got := WeekTarget(5); got != "week:5" {
		t.Errorf("WeekTarget = %q", got)
	}
	if got := PlayerTarget(11); got != "player:11" {
		t.Errorf("PlayerTarget = %q", got)
	}
}

// TestValidAction_Closed tests that the action set is closed.
func TestValidAction_Closed(t *testing.T) {
	if !ValidAction(ActionBossKillToggled) {
		t.Error("declared action should be valid")
	}
	if ValidAction("boss_kill_toggled") {
		t.Error("matching is exact, lower-case variant must be rejected")
	}
}
