package web

import (
	"net/http"

	"softres/internal/adapters/http/middleware"
	"softres/internal/application/orchestrators"
)

// handleSetLock locks or unlocks every reserve of the current week
// (POST /api/lock). Officer-only. An absent lock field means lock.
func handleSetLock(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Lock *bool `json:"lock"`
	}
	if err := strictDecode(r, &body); err != nil {
		badRequest(w, r, "malformed request body")
		return
	}
	lock := true
	if body.Lock != nil {
		lock = *body.Lock
	}

	affected, err := orchestrators.ExecuteSetLockAll(r.Context(), orchestrators.SetLockAllInput{
		Actor: middleware.IdentityFromContext(r.Context()),
		Lock:  lock,
	}, orchestrators.SetLockAllDeps{
		WeekStore: stores.WeekStore,
		LockStore: stores.ChoiceStore,
		Now:       timeNow,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"locked": lock, "affected": affected})
}

// handleUnlockExceptKilled unlocks everything not pinned to a killed boss
// (POST /api/lock/except-killed). Officer-only.
func handleUnlockExceptKilled(w http.ResponseWriter, r *http.Request) {
	affected, err := orchestrators.ExecuteUnlockExceptKilled(r.Context(), orchestrators.UnlockExceptKilledInput{
		Actor: middleware.IdentityFromContext(r.Context()),
	}, orchestrators.UnlockExceptKilledDeps{
		WeekStore: stores.WeekStore,
		LockStore: stores.ChoiceStore,
		KillStore: stores.KillStore,
		Now:       timeNow,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"unlocked": affected})
}
