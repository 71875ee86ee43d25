package web

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"softres/internal/domain/srchoice"
)

// timeNow is a variable for testability.
var timeNow = time.Now

// choiceResponse is the wire shape of a reservation.
type choiceResponse struct {
	WeekID     int64     `json:"weekId"`
	PlayerID   int64     `json:"playerId"`
	LootItemID *int64    `json:"lootItemId"`
	BossID     *int64    `json:"bossId"`
	IsTier     bool      `json:"isTier"`
	Locked     bool      `json:"locked"`
	Notes      string    `json:"notes,omitempty"`
	Received   bool      `json:"received"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

func toChoiceResponse(c srchoice.Choice) choiceResponse {
	return choiceResponse{
		WeekID:     c.WeekID,
		PlayerID:   c.PlayerID,
		LootItemID: c.LootItemID,
		BossID:     c.BossID,
		IsTier:     c.IsTier,
		Locked:     c.Locked,
		Notes:      c.Notes,
		Received:   c.Received,
		UpdatedAt:  c.UpdatedAt,
	}
}

// pathID parses the {id} route parameter.
func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	return id, err == nil && id > 0
}

// queryInt64 parses an optional integer query parameter.
func queryInt64(r *http.Request, name string) (*int64, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, true
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, false
	}
	return &v, true
}

// queryBool parses an optional boolean query parameter.
func queryBool(r *http.Request, name string) (*bool, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, true
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, false
	}
	return &v, true
}

// queryTime parses an optional RFC3339 query parameter.
func queryTime(r *http.Request, name string) (*time.Time, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, true
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, false
	}
	return &t, true
}
