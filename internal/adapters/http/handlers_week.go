package web

import (
	"net/http"

	"softres/internal/adapters/http/middleware"
	"softres/internal/application/listutil"
	"softres/internal/application/orchestrators"
	"softres/internal/application/projections"
)

// handleGetCurrentWeek reports the week containing now (GET /api/week/current).
func handleGetCurrentWeek(w http.ResponseWriter, r *http.Request) {
	info, err := projections.QueryGetCurrentWeek(r.Context(), projections.GetWeekInfoDeps{
		WeekStore: stores.WeekStore,
		RaidStore: stores.RaidStore,
		Now:       timeNow,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, info)
}

// handleListWeeks lists the week history, paginated: weeks accumulate one
// row per cycle forever (GET /api/weeks?page=&per_page=).
func handleListWeeks(w http.ResponseWriter, r *http.Request) {
	rows, err := projections.QueryListWeeks(r.Context(), projections.GetWeekInfoDeps{
		WeekStore: stores.WeekStore,
		RaidStore: stores.RaidStore,
		Now:       timeNow,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	page, info := listutil.Page(rows, listutil.ParsePageParams(r.URL.Query()))
	writeJSON(w, http.StatusOK, map[string]any{"items": page, "page": info})
}

// handleGetSRBoard renders the reserve sheet (GET /api/sr?weekId=).
func handleGetSRBoard(w http.ResponseWriter, r *http.Request) {
	weekID, ok := queryInt64(r, "weekId")
	if !ok {
		badRequest(w, r, "weekId must be an integer")
		return
	}

	board, err := projections.QueryGetSRBoard(r.Context(), projections.GetSRBoardInput{WeekID: weekID},
		projections.GetSRBoardDeps{
			WeekStore:   stores.WeekStore,
			PlayerStore: stores.PlayerStore,
			ChoiceStore: stores.ChoiceStore,
			LootStore:   stores.LootStore,
			BossStore:   stores.RaidStore,
			Now:         timeNow,
		})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, board)
}

// handleResetWeek opens the next weekly cycle (POST /api/reset-week).
// Officer-only; idempotent.
func handleResetWeek(w http.ResponseWriter, r *http.Request) {
	result, err := orchestrators.ExecuteResetWeek(r.Context(), orchestrators.ResetWeekInput{
		Actor: middleware.IdentityFromContext(r.Context()),
	}, orchestrators.ResetWeekDeps{
		WeekStore:   stores.WeekStore,
		ChoiceStore: stores.ChoiceStore,
		KillStore:   stores.KillStore,
		Digest:      digest,
		Now:         timeNow,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"currentWeekId": result.CurrentWeekID,
		"currentLabel":  result.CurrentLabel,
		"nextWeekId":    result.NextWeekID,
		"nextLabel":     result.NextLabel,
		"created":       result.Created,
		"closedChoices": result.ClosedChoices,
		"closedKills":   result.ClosedKills,
	})
}
