package middleware

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"softres/internal/domain/identity"
)

// Session cookie names and lifetimes. Player sessions are long-lived by
// design: a claimed character is the player's identity for the whole tier.
const (
	PlayerCookieName  = "sr_player"
	OfficerCookieName = "sr_officer"

	PlayerSessionTTL  = 90 * 24 * time.Hour
	OfficerSessionTTL = 7 * 24 * time.Hour
)

// SecureCookies controls the Secure flag on session cookies. Set to true in
// production.
var SecureCookies = false

const identityContextKey contextKey = "identity"

type sessionClaims struct {
	Kind     string `json:"kind"`
	PlayerID int64  `json:"playerId,omitempty"`
	Name     string `json:"name,omitempty"`
	jwt.RegisteredClaims
}

// IssuePlayerToken signs a player session token.
// PRE: playerID > 0, secret is non-empty
// POST: Returns an HMAC-signed JWT valid for PlayerSessionTTL
func IssuePlayerToken(secret []byte, playerID int64, name string, now time.Time) (string, error) {
	claims := sessionClaims{
		Kind:     string(identity.KindPlayer),
		PlayerID: playerID,
		Name:     name,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(PlayerSessionTTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

// IssueOfficerToken signs an officer session token. The name is an optional
// alias shown in the audit trail.
func IssueOfficerToken(secret []byte, name string, now time.Time) (string, error) {
	claims := sessionClaims{
		Kind: string(identity.KindOfficer),
		Name: name,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(OfficerSessionTTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

// ParseSessionToken verifies a session token and rebuilds the identity.
// Expired or tampered tokens fail; an unknown kind fails.
func ParseSessionToken(secret []byte, token string) (identity.Identity, error) {
	var claims sessionClaims
	_, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return identity.Anonymous(), err
	}

	switch identity.Kind(claims.Kind) {
	case identity.KindOfficer:
		return identity.Officer(claims.Name), nil
	case identity.KindPlayer:
		if claims.PlayerID <= 0 {
			return identity.Anonymous(), errors.New("player token without player id")
		}
		return identity.Player(claims.PlayerID, claims.Name), nil
	}
	return identity.Anonymous(), errors.New("unknown session kind")
}

// Identity extracts the actor from the session cookies and sets it in the
// request context. An officer cookie outranks a player cookie. Requests
// without a valid session proceed as anonymous; authorization is decided
// per operation, not here.
func Identity(secret []byte) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor := identity.Anonymous()
			for _, name := range []string{OfficerCookieName, PlayerCookieName} {
				cookie, err := r.Cookie(name)
				if err != nil || cookie.Value == "" {
					continue
				}
				if id, err := ParseSessionToken(secret, cookie.Value); err == nil {
					actor = id
					break
				}
			}
			ctx := context.WithValue(r.Context(), identityContextKey, actor)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// IdentityFromContext returns the actor set by Identity, or anonymous.
func IdentityFromContext(ctx context.Context) identity.Identity {
	if id, ok := ctx.Value(identityContextKey).(identity.Identity); ok {
		return id
	}
	return identity.Anonymous()
}

// ContextWithIdentity returns a context with the given actor set.
// Intended for use in tests.
func ContextWithIdentity(ctx context.Context, actor identity.Identity) context.Context {
	return context.WithValue(ctx, identityContextKey, actor)
}

// SetSessionCookie sets a session cookie on the response.
func SetSessionCookie(w http.ResponseWriter, name, token string, ttl time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    token,
		HttpOnly: true,
		Secure:   SecureCookies,
		SameSite: http.SameSiteLaxMode,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
	})
}

// ClearSessionCookie removes a session cookie.
func ClearSessionCookie(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		HttpOnly: true,
		Secure:   SecureCookies,
		SameSite: http.SameSiteLaxMode,
		Path:     "/",
		MaxAge:   -1,
	})
}
