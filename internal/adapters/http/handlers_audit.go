package web

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"softres/internal/adapters/http/middleware"
	"softres/internal/application/projections"
	"softres/internal/domain/apperr"
	auditDomain "softres/internal/domain/audit"
)

// auditEntryResponse is the wire shape of one trail entry.
type auditEntryResponse struct {
	ID         int64           `json:"id"`
	Action     string          `json:"action"`
	TargetType string          `json:"targetType"`
	TargetID   string          `json:"targetId"`
	WeekID     *int64          `json:"weekId,omitempty"`
	Before     json.RawMessage `json:"before,omitempty"`
	After      json.RawMessage `json:"after,omitempty"`
	Actor      string          `json:"actor"`
	Meta       json.RawMessage `json:"meta,omitempty"`
	CreatedAt  time.Time       `json:"createdAt"`
}

func toAuditEntryResponse(e auditDomain.Entry) auditEntryResponse {
	return auditEntryResponse{
		ID:         e.ID,
		Action:     string(e.Action),
		TargetType: string(e.TargetType),
		TargetID:   e.TargetID,
		WeekID:     e.WeekID,
		Before:     e.Before,
		After:      e.After,
		Actor:      e.ActorDisplay,
		Meta:       e.Meta,
		CreatedAt:  e.CreatedAt,
	}
}

// handleGetAuditTrail lists the audit trail (GET /api/audit). Officer-only.
// Filters: action, targetType, weekId, actor, from, to; cursor + limit.
func handleGetAuditTrail(w http.ResponseWriter, r *http.Request) {
	weekID, ok := queryInt64(r, "weekId")
	if !ok {
		badRequest(w, r, "weekId must be an integer")
		return
	}
	from, ok := queryTime(r, "from")
	if !ok {
		badRequest(w, r, "from must be RFC3339")
		return
	}
	to, ok := queryTime(r, "to")
	if !ok {
		badRequest(w, r, "to must be RFC3339")
		return
	}

	var cursor int64
	if raw := r.URL.Query().Get("cursor"); raw != "" {
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			badRequest(w, r, "cursor must be an integer")
			return
		}
		cursor = v
	}
	var limit int
	if raw := r.URL.Query().Get("limit"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			badRequest(w, r, "limit must be an integer")
			return
		}
		limit = v
	}

	page, err := projections.QueryGetAuditTrail(r.Context(), projections.GetAuditTrailInput{
		Actor:      middleware.IdentityFromContext(r.Context()),
		Action:     r.URL.Query().Get("action"),
		TargetType: r.URL.Query().Get("targetType"),
		WeekID:     weekID,
		ActorQuery: r.URL.Query().Get("actor"),
		From:       from,
		To:         to,
		Cursor:     cursor,
		Limit:      limit,
	}, projections.GetAuditTrailDeps{AuditStore: stores.AuditStore})
	if err != nil {
		writeError(w, r, err)
		return
	}

	entries := make([]auditEntryResponse, 0, len(page.Entries))
	for _, e := range page.Entries {
		entries = append(entries, toAuditEntryResponse(e))
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"entries":    entries,
		"nextCursor": page.NextCursor,
	})
}

// handleGetPerf reports request and query timing percentiles
// (GET /api/perf). Officer-only.
func handleGetPerf(w http.ResponseWriter, r *http.Request) {
	if !middleware.IdentityFromContext(r.Context()).IsOfficer() {
		writeError(w, r, apperr.New(apperr.KindOfficerOnly, "only officers may read performance stats"))
		return
	}
	if perfCollector == nil {
		writeJSON(w, http.StatusOK, map[string]any{})
		return
	}
	since := timeNow().Add(-time.Hour)
	writeJSON(w, http.StatusOK, perfCollector.Snapshot(since, 10))
}
