package web

import (
	"net/http"

	"softres/internal/adapters/http/middleware"
	"softres/internal/application/orchestrators"
)

// handleSetChoice sets, changes or clears a reservation (POST /api/sr-choice).
// Players act on their own row; officers on anyone's.
func handleSetChoice(w http.ResponseWriter, r *http.Request) {
	var body struct {
		PlayerID   int64  `json:"playerId"`
		LootItemID *int64 `json:"lootItemId"`
		BossID     *int64 `json:"bossId"`
		Notes      string `json:"notes"`
	}
	if err := strictDecode(r, &body); err != nil {
		badRequest(w, r, "malformed request body")
		return
	}

	choice, err := orchestrators.ExecuteSetChoice(r.Context(), orchestrators.SetChoiceInput{
		Actor:      middleware.IdentityFromContext(r.Context()),
		PlayerID:   body.PlayerID,
		LootItemID: body.LootItemID,
		BossID:     body.BossID,
		Notes:      body.Notes,
	}, orchestrators.SetChoiceDeps{
		WeekStore:   stores.WeekStore,
		PlayerStore: stores.PlayerStore,
		ClassStore:  stores.ClassStore,
		LootStore:   stores.LootStore,
		BossStore:   stores.RaidStore,
		ChoiceStore: stores.ChoiceStore,
		Now:         timeNow,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toChoiceResponse(choice))
}

// handleSetReceived flips the handed-out flag (POST /api/sr-choice/received).
// Officer-only.
func handleSetReceived(w http.ResponseWriter, r *http.Request) {
	var body struct {
		PlayerID int64 `json:"playerId"`
		Received bool  `json:"received"`
	}
	if err := strictDecode(r, &body); err != nil {
		badRequest(w, r, "malformed request body")
		return
	}

	choice, err := orchestrators.ExecuteSetReceived(r.Context(), orchestrators.SetReceivedInput{
		Actor:    middleware.IdentityFromContext(r.Context()),
		PlayerID: body.PlayerID,
		Received: body.Received,
	}, orchestrators.SetReceivedDeps{
		WeekStore:   stores.WeekStore,
		PlayerStore: stores.PlayerStore,
		ChoiceStore: stores.ChoiceStore,
		Now:         timeNow,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toChoiceResponse(choice))
}
