package projections

import (
	"context"
	"time"

	auditstore "softres/internal/adapters/storage/audit"
	"softres/internal/domain/apperr"
	auditdomain "softres/internal/domain/audit"
	"softres/internal/domain/identity"
)

// AuditTrailStore defines the trail listing for the projection.
type AuditTrailStore interface {
	List(ctx context.Context, filter auditstore.Filter, cursor int64, limit int) ([]auditdomain.Entry, int64, error)
}

// GetAuditTrailInput carries raw filter values as received from the
// boundary; validation happens here.
type GetAuditTrailInput struct {
	Actor      identity.Identity
	Action     string
	TargetType string
	WeekID     *int64
	ActorQuery string
	From       *time.Time
	To         *time.Time
	Cursor     int64
	Limit      int
}

// GetAuditTrailDeps holds dependencies for the trail projection.
type GetAuditTrailDeps struct {
	AuditStore AuditTrailStore
}

// AuditTrailPage is one page of the trail, newest first.
type AuditTrailPage struct {
	Entries    []auditdomain.Entry `json:"entries"`
	NextCursor int64               `json:"nextCursor"`
}

// QueryGetAuditTrail lists the trail with validated filters. Officer-only.
// Unknown action or target type names are rejected rather than silently
// matching nothing.
// POST: At most the clamped limit of entries, ordered (created_at, id) desc
func QueryGetAuditTrail(ctx context.Context, input GetAuditTrailInput, deps GetAuditTrailDeps) (AuditTrailPage, error) {
	if !input.Actor.IsOfficer() {
		return AuditTrailPage{}, apperr.New(apperr.KindOfficerOnly, "only officers may read the audit trail")
	}

	var filter auditstore.Filter
	if input.Action != "" {
		action := auditdomain.Action(input.Action)
		if !auditdomain.ValidAction(action) {
			return AuditTrailPage{}, apperr.New(apperr.KindBadRequest, "unknown action filter")
		}
		filter.Action = &action
	}
	if input.TargetType != "" {
		targetType := auditdomain.TargetType(input.TargetType)
		if !auditdomain.ValidTargetType(targetType) {
			return AuditTrailPage{}, apperr.New(apperr.KindBadRequest, "unknown target type filter")
		}
		filter.TargetType = &targetType
	}
	if input.WeekID != nil {
		filter.WeekID = input.WeekID
	}
	if input.ActorQuery != "" {
		filter.ActorContains = &input.ActorQuery
	}
	if input.From != nil {
		filter.From = input.From
	}
	if input.To != nil {
		filter.To = input.To
	}
	if input.From != nil && input.To != nil && input.To.Before(*input.From) {
		return AuditTrailPage{}, apperr.New(apperr.KindBadRequest, "time range is inverted")
	}

	entries, next, err := deps.AuditStore.List(ctx, filter, input.Cursor, input.Limit)
	if err != nil {
		return AuditTrailPage{}, err
	}
	if entries == nil {
		entries = []auditdomain.Entry{}
	}
	return AuditTrailPage{Entries: entries, NextCursor: next}, nil
}
