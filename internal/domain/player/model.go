package player

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// Name length limits for claimed character names.
const (
	MinNameLength = 2
	MaxNameLength = 24
)

// Role is the closed set of raid roles.
type Role string

const (
	RoleTank   Role = "TANK"
	RoleHealer Role = "HEALER"
	RoleMDPS   Role = "MDPS"
	RoleRDPS   Role = "RDPS"
)

// ParseRole validates a raw role string at the boundary.
func ParseRole(s string) (Role, error) {
	switch Role(strings.ToUpper(strings.TrimSpace(s))) {
	case RoleTank:
		return RoleTank, nil
	case RoleHealer:
		return RoleHealer, nil
	case RoleMDPS:
		return RoleMDPS, nil
	case RoleRDPS:
		return RoleRDPS, nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}

// Player is a roster member. Deactivation is a soft delete: inactive players
// drop out of current-week views but keep their full history.
type Player struct {
	ID      int64
	Name    string
	Role    Role
	ClassID int64
	Active  bool
}

// Validate checks if the Player has valid data.
// PRE: Player struct is initialized
// POST: Returns error if validation fails, nil otherwise
// INVARIANT: Name uniqueness (case-insensitive) is enforced by the claim flow
func (p *Player) Validate() error {
	name := strings.TrimSpace(p.Name)
	if n := utf8.RuneCountInString(name); n < MinNameLength || n > MaxNameLength {
		return fmt.Errorf("player name must be %d-%d characters", MinNameLength, MaxNameLength)
	}
	if _, err := ParseRole(string(p.Role)); err != nil {
		return err
	}
	if p.ClassID <= 0 {
		return errors.New("player must have a class")
	}
	return nil
}
