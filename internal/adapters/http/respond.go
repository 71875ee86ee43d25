package web

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"softres/internal/adapters/http/middleware"
	"softres/internal/domain/apperr"
)

// statusFor maps error kinds onto HTTP status codes. Validation kinds are
// client errors; authorization kinds are forbidden; a missing player or
// week is a missing resource.
func statusFor(kind apperr.Kind) int {
	switch kind {
	case apperr.KindBadRequest,
		apperr.KindInvalidItem,
		apperr.KindInvalidBoss,
		apperr.KindItemNotUsable,
		apperr.KindBossDoesNotDrop,
		apperr.KindNameTaken:
		return http.StatusBadRequest
	case apperr.KindOfficerOnly, apperr.KindLocked:
		return http.StatusForbidden
	case apperr.KindInvalidPlayer, apperr.KindCurrentWeekMissing:
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// writeJSON writes v with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("write_response_failed", "error", err.Error())
	}
}

// writeError maps an operation error onto the wire. Internal errors are
// logged with the request id and never leak details to the client.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	kind := apperr.KindOf(err)
	status := statusFor(kind)
	body := errorBody{Error: string(kind)}
	if status == http.StatusInternalServerError {
		slog.Error("internal_error",
			"error", err.Error(),
			"path", r.URL.Path,
			"request_id", middleware.RequestIDFromContext(r.Context()),
		)
	} else {
		var e *apperr.Error
		if errors.As(err, &e) {
			body.Message = e.Message
		}
	}
	writeJSON(w, status, body)
}

// strictDecode decodes JSON from the request body, rejecting unknown fields.
func strictDecode(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// badRequest writes a bad_request error with a message.
func badRequest(w http.ResponseWriter, r *http.Request, message string) {
	writeError(w, r, apperr.New(apperr.KindBadRequest, message))
}
