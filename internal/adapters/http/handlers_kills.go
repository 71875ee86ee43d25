package web

import (
	"net/http"

	"softres/internal/adapters/http/middleware"
	"softres/internal/application/orchestrators"
	"softres/internal/application/projections"
)

// handleToggleKill flips a boss's kill state for the current week
// (POST /api/boss-kill/toggle). Officer-only.
func handleToggleKill(w http.ResponseWriter, r *http.Request) {
	var body struct {
		BossID int64 `json:"bossId"`
	}
	if err := strictDecode(r, &body); err != nil {
		badRequest(w, r, "malformed request body")
		return
	}

	kill, err := orchestrators.ExecuteToggleKill(r.Context(), orchestrators.ToggleKillInput{
		Actor:  middleware.IdentityFromContext(r.Context()),
		BossID: body.BossID,
	}, orchestrators.ToggleKillDeps{
		WeekStore: stores.WeekStore,
		BossStore: stores.RaidStore,
		KillStore: stores.KillStore,
		Now:       timeNow,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"weekId": kill.WeekID,
		"bossId": kill.BossID,
		"killed": kill.Killed,
	})
}

// handleGetKillBoard lists the current week's bosses with kill flags
// (GET /api/kills).
func handleGetKillBoard(w http.ResponseWriter, r *http.Request) {
	board, err := projections.QueryGetKillBoard(r.Context(), projections.GetKillBoardDeps{
		WeekStore: stores.WeekStore,
		KillStore: stores.KillStore,
		BossStore: stores.RaidStore,
		Now:       timeNow,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, board)
}
