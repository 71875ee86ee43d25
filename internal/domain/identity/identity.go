package identity

import "fmt"

// Kind represents who is acting: a privileged officer, an authenticated
// player, or nobody at all.
type Kind string

const (
	KindOfficer   Kind = "officer"
	KindPlayer    Kind = "player"
	KindAnonymous Kind = "anonymous"
)

// Identity is the explicit actor context passed into every stateful
// operation. Business logic never reads identity from ambient state.
type Identity struct {
	Kind     Kind
	PlayerID int64  // set when Kind is KindPlayer
	Name     string // display name; empty for anonymous
}

// Officer creates an officer identity with an optional display name.
func Officer(name string) Identity {
	return Identity{Kind: KindOfficer, Name: name}
}

// Player creates a player identity.
// PRE: playerID > 0, name is the player's character name
func Player(playerID int64, name string) Identity {
	return Identity{Kind: KindPlayer, PlayerID: playerID, Name: name}
}

// Anonymous creates the unauthenticated identity.
func Anonymous() Identity {
	return Identity{Kind: KindAnonymous}
}

// IsOfficer reports whether the actor may perform administrative mutations.
// INVARIANT: Identity fields are not mutated
func (id Identity) IsOfficer() bool {
	return id.Kind == KindOfficer
}

// Display returns the audit-trail actor string:
// "officer:<name>", "player:<name>", or "anonymous".
// An officer without a name displays as plain "officer".
func (id Identity) Display() string {
	switch id.Kind {
	case KindOfficer:
		if id.Name == "" {
			return "officer"
		}
		return fmt.Sprintf("officer:%s", id.Name)
	case KindPlayer:
		if id.Name == "" {
			return fmt.Sprintf("player:%d", id.PlayerID)
		}
		return fmt.Sprintf("player:%s", id.Name)
	default:
		return "anonymous"
	}
}
