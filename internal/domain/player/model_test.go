package player

import (
	"strings"
	"testing"
)

// TestPlayer_Validate_Valid tests that a well-formed player passes validation.
func TestPlayer_Validate_Valid(t *testing.T) {
	p := Player{Name: "Skullblaster", Role: RoleRDPS, ClassID: 1, Active: true}
	if err := p.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

// TestPlayer_Validate_NameLength tests the claimed-name length limits.
func TestPlayer_Validate_NameLength(t *testing.T) {
	p := Player{Name: "x", Role: RoleTank, ClassID: 1}
	if err := p.Validate(); err == nil {
		t.Error("expected error for one-character name")
	}
	p.Name = strings.Repeat("a", MaxNameLength+1)
	if err := p.Validate(); err == nil {
		t.Error("expected error for over-long name")
	}
}

// TestPlayer_Validate_Role tests that the role must be a declared constant.
func TestPlayer_Validate_Role(t *testing.T) {
	p := Player{Name: "Skullblaster", Role: "SUPPORT", ClassID: 1}
	if err := p.Validate(); err == nil {
		t.Error("expected error for unknown role")
	}
}

// TestParseRole tests boundary validation of raw role strings.
func TestParseRole(t *testing.T) {
	got, err := ParseRole(" healer ")
	if err != nil || got != RoleHealer {
		t.Errorf("ParseRole(healer) = %v, %v", got, err)
	}
	if _, err := ParseRole("dps"); err == nil {
		t.Error("expected error for unknown role")
	}
}
