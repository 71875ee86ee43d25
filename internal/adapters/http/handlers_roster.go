package web

import (
	"net/http"

	"softres/internal/adapters/http/middleware"
	"softres/internal/application/orchestrators"
	"softres/internal/application/projections"
)

// handleGetRoster lists roster members with filters (GET /api/roster).
// Officer-only.
func handleGetRoster(w http.ResponseWriter, r *http.Request) {
	classID, ok := queryInt64(r, "classId")
	if !ok {
		badRequest(w, r, "classId must be an integer")
		return
	}
	active, ok := queryBool(r, "active")
	if !ok {
		badRequest(w, r, "active must be a boolean")
		return
	}

	rows, err := projections.QueryGetRoster(r.Context(), projections.GetRosterInput{
		Actor:   middleware.IdentityFromContext(r.Context()),
		Query:   r.URL.Query().Get("q"),
		Role:    r.URL.Query().Get("role"),
		ClassID: classID,
		Active:  active,
	}, projections.GetRosterDeps{
		PlayerStore: stores.PlayerStore,
		ClassStore:  stores.ClassStore,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

// handleTogglePlayerActive soft-deletes or restores a roster member
// (POST /api/roster/toggle). Officer-only.
func handleTogglePlayerActive(w http.ResponseWriter, r *http.Request) {
	var body struct {
		PlayerID int64 `json:"playerId"`
		Active   bool  `json:"active"`
	}
	if err := strictDecode(r, &body); err != nil {
		badRequest(w, r, "malformed request body")
		return
	}

	p, err := orchestrators.ExecuteTogglePlayerActive(r.Context(), orchestrators.TogglePlayerActiveInput{
		Actor:    middleware.IdentityFromContext(r.Context()),
		PlayerID: body.PlayerID,
		Active:   body.Active,
	}, orchestrators.TogglePlayerActiveDeps{
		PlayerStore: stores.PlayerStore,
		Now:         timeNow,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"playerId": p.ID,
		"name":     p.Name,
		"active":   p.Active,
	})
}

// handleUpdatePlayer edits a roster member's role and/or class
// (PATCH /api/roster/player). Officer-only.
func handleUpdatePlayer(w http.ResponseWriter, r *http.Request) {
	var body struct {
		PlayerID int64   `json:"playerId"`
		Role     *string `json:"role"`
		ClassID  *int64  `json:"classId"`
	}
	if err := strictDecode(r, &body); err != nil {
		badRequest(w, r, "malformed request body")
		return
	}

	result, err := orchestrators.ExecuteUpdatePlayer(r.Context(), orchestrators.UpdatePlayerInput{
		Actor:    middleware.IdentityFromContext(r.Context()),
		PlayerID: body.PlayerID,
		Role:     body.Role,
		ClassID:  body.ClassID,
	}, orchestrators.UpdatePlayerDeps{
		PlayerStore: stores.PlayerStore,
		ClassStore:  stores.ClassStore,
		Now:         timeNow,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"playerId": result.Player.ID,
		"name":     result.Player.Name,
		"role":     result.Player.Role,
		"classId":  result.Player.ClassID,
		"noChange": result.NoChange,
	})
}

// handleBulkTogglePlayers soft-deletes or restores a batch of roster members
// (POST /api/roster/toggle-bulk). Officer-only.
func handleBulkTogglePlayers(w http.ResponseWriter, r *http.Request) {
	var body struct {
		PlayerIDs []int64 `json:"playerIds"`
		Active    bool    `json:"active"`
	}
	if err := strictDecode(r, &body); err != nil {
		badRequest(w, r, "malformed request body")
		return
	}

	result, err := orchestrators.ExecuteBulkTogglePlayers(r.Context(), orchestrators.BulkTogglePlayersInput{
		Actor:     middleware.IdentityFromContext(r.Context()),
		PlayerIDs: body.PlayerIDs,
		Active:    body.Active,
	}, orchestrators.BulkTogglePlayersDeps{
		PlayerStore: stores.PlayerStore,
		Now:         timeNow,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"requested": result.Requested,
		"changed":   result.Changed,
		"skipped":   result.Skipped,
		"missing":   result.Missing,
	})
}
