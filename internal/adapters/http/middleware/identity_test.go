package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"softres/internal/domain/identity"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

// TestSessionTokenRoundTrip issues against the real clock: expiry is
// validated against wall time on parse, so a fixed issue date would rot.
func TestSessionTokenRoundTrip(t *testing.T) {
	now := time.Now()

	playerToken, err := IssuePlayerToken(testSecret, 7, "Kaelys", now)
	if err != nil {
		t.Fatalf("issue player token: %v", err)
	}
	actor, err := ParseSessionToken(testSecret, playerToken)
	if err != nil {
		t.Fatalf("parse player token: %v", err)
	}
	if actor.Kind != identity.KindPlayer || actor.PlayerID != 7 || actor.Name != "Kaelys" {
		t.Errorf("actor = %+v", actor)
	}

	officerToken, err := IssueOfficerToken(testSecret, "Kelthas", now)
	if err != nil {
		t.Fatalf("issue officer token: %v", err)
	}
	actor, err = ParseSessionToken(testSecret, officerToken)
	if err != nil {
		t.Fatalf("parse officer token: %v", err)
	}
	if !actor.IsOfficer() || actor.Name != "Kelthas" {
		t.Errorf("actor = %+v", actor)
	}
}

func TestSessionTokenExpiry(t *testing.T) {
	issued := time.Now().Add(-OfficerSessionTTL - time.Hour)
	token, err := IssueOfficerToken(testSecret, "Kelthas", issued)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	if _, err := ParseSessionToken(testSecret, token); err == nil {
		t.Fatal("expected expired token to fail")
	}
}

func TestSessionTokenTamper(t *testing.T) {
	token, err := IssuePlayerToken(testSecret, 7, "Kaelys", time.Now())
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	if _, err := ParseSessionToken([]byte("not-the-signing-secret-at-all!!!"), token); err == nil {
		t.Fatal("expected wrong-secret verification to fail")
	}
	if _, err := ParseSessionToken(testSecret, token+"x"); err == nil {
		t.Fatal("expected mangled token to fail")
	}
	if _, err := ParseSessionToken(testSecret, "not-a-jwt"); err == nil {
		t.Fatal("expected garbage token to fail")
	}
}

// recordIdentity captures the actor the Identity middleware resolved.
func recordIdentity(got *identity.Identity) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*got = IdentityFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
}

func TestIdentityMiddlewareAnonymousByDefault(t *testing.T) {
	var got identity.Identity
	handler := Identity(testSecret)(recordIdentity(&got))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if got.Kind != identity.KindAnonymous {
		t.Errorf("kind = %q, want anonymous", got.Kind)
	}
}

func TestIdentityMiddlewareOfficerOutranksPlayer(t *testing.T) {
	now := time.Now()
	playerToken, _ := IssuePlayerToken(testSecret, 7, "Kaelys", now)
	officerToken, _ := IssueOfficerToken(testSecret, "Kelthas", now)

	var got identity.Identity
	handler := Identity(testSecret)(recordIdentity(&got))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: PlayerCookieName, Value: playerToken})
	req.AddCookie(&http.Cookie{Name: OfficerCookieName, Value: officerToken})
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if !got.IsOfficer() {
		t.Errorf("actor = %+v, want officer", got)
	}
}

func TestIdentityMiddlewareInvalidCookieIsAnonymous(t *testing.T) {
	var got identity.Identity
	handler := Identity(testSecret)(recordIdentity(&got))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: PlayerCookieName, Value: "garbage"})
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if got.Kind != identity.KindAnonymous {
		t.Errorf("kind = %q, want anonymous", got.Kind)
	}
}

func TestRequestIDGeneratedAndEchoed(t *testing.T) {
	var seen string
	handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestIDFromContext(r.Context())
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if seen == "" {
		t.Fatal("expected a generated request id in context")
	}
	if got := rec.Header().Get("X-Request-Id"); got != seen {
		t.Errorf("header = %q, context = %q", got, seen)
	}
}

func TestRequestIDPreservesIncoming(t *testing.T) {
	var seen string
	handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestIDFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-Id", "abc-123")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if seen != "abc-123" {
		t.Errorf("request id = %q, want abc-123", seen)
	}
}
