package web

import (
	"log/slog"
	"net/http"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"softres/internal/adapters/http/middleware"
	"softres/internal/application/orchestrators"
	"softres/internal/domain/apperr"
	"softres/internal/domain/identity"
)

// handleClaimPlayer turns an invite token into a roster spot and a player
// session (POST /api/invite/claim). Anonymous.
func handleClaimPlayer(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Token   string `json:"token"`
		Name    string `json:"name"`
		Role    string `json:"role"`
		ClassID int64  `json:"classId"`
	}
	if err := strictDecode(r, &body); err != nil {
		badRequest(w, r, "malformed request body")
		return
	}

	p, err := orchestrators.ExecuteClaimPlayer(r.Context(), orchestrators.ClaimPlayerInput{
		Token:   body.Token,
		Name:    body.Name,
		Role:    body.Role,
		ClassID: body.ClassID,
	}, orchestrators.ClaimPlayerDeps{
		InviteToken: config.InviteToken,
		PlayerStore: stores.PlayerStore,
		ClassStore:  stores.ClassStore,
		Now:         timeNow,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	token, err := middleware.IssuePlayerToken(config.SessionSecret, p.ID, p.Name, timeNow())
	if err != nil {
		writeError(w, r, err)
		return
	}
	middleware.SetSessionCookie(w, middleware.PlayerCookieName, token, middleware.PlayerSessionTTL)

	writeJSON(w, http.StatusCreated, map[string]any{
		"playerId": p.ID,
		"name":     p.Name,
		"role":     string(p.Role),
		"classId":  p.ClassID,
	})
}

// handleOfficerLogin checks the shared officer key against its bcrypt hash
// and issues an officer session (POST /api/officer/login). The optional
// name becomes the audit-trail alias.
func handleOfficerLogin(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Key  string `json:"key"`
		Name string `json:"name"`
	}
	if err := strictDecode(r, &body); err != nil {
		badRequest(w, r, "malformed request body")
		return
	}

	if config.OfficerKeyHash == "" ||
		bcrypt.CompareHashAndPassword([]byte(config.OfficerKeyHash), []byte(body.Key)) != nil {
		slog.Warn("officer_login_failed", "remote", r.RemoteAddr)
		writeError(w, r, apperr.New(apperr.KindOfficerOnly, "invalid officer key"))
		return
	}

	name := strings.TrimSpace(body.Name)
	token, err := middleware.IssueOfficerToken(config.SessionSecret, name, timeNow())
	if err != nil {
		writeError(w, r, err)
		return
	}
	middleware.SetSessionCookie(w, middleware.OfficerCookieName, token, middleware.OfficerSessionTTL)

	slog.Info("sr_event", "event", "officer_login", "name", name)
	writeJSON(w, http.StatusOK, map[string]any{"kind": "officer", "name": name})
}

// handleOfficerLogout drops the officer session (POST /api/officer/logout).
func handleOfficerLogout(w http.ResponseWriter, r *http.Request) {
	middleware.ClearSessionCookie(w, middleware.OfficerCookieName)
	writeJSON(w, http.StatusOK, map[string]any{"kind": "anonymous"})
}

// handleMe reports who the session belongs to (GET /api/me).
func handleMe(w http.ResponseWriter, r *http.Request) {
	actor := middleware.IdentityFromContext(r.Context())
	resp := map[string]any{"kind": string(actor.Kind)}
	if actor.Kind == identity.KindPlayer {
		resp["playerId"] = actor.PlayerID
	}
	if actor.Name != "" {
		resp["name"] = actor.Name
	}
	writeJSON(w, http.StatusOK, resp)
}
