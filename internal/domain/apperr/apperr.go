package apperr

import "errors"

// Kind is the closed set of operation error kinds surfaced to callers.
type Kind string

const (
	KindBadRequest         Kind = "bad_request"
	KindOfficerOnly        Kind = "officer_only"
	KindInvalidPlayer      Kind = "invalid_player"
	KindInvalidItem        Kind = "invalid_item"
	KindInvalidBoss        Kind = "invalid_boss"
	KindItemNotUsable      Kind = "item_not_usable_by_class"
	KindBossDoesNotDrop    Kind = "boss_does_not_drop_item"
	KindLocked             Kind = "locked"
	KindCurrentWeekMissing Kind = "current_week_missing"
	KindNameTaken          Kind = "name_taken"
	KindInternal           Kind = "internal"
)

// Error is a structured operation error: a kind the caller can branch on
// plus a human-readable message.
type Error struct {
	Kind    Kind
	Message string
}

// Error implements the error interface.
// INVARIANT: Kind and Message are not mutated
func (e *Error) Error() string {
	if e.Message == "" {
		return string(e.Kind)
	}
	return string(e.Kind) + ": " + e.Message
}

// New creates a structured error with the given kind and message.
// PRE: kind is one of the declared Kind constants
// POST: Returns a non-nil *Error
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// KindOf extracts the Kind from an error chain.
// Unrecognized errors map to KindInternal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}
