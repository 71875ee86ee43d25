package web

import (
	"crypto/rand"
	"encoding/hex"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/gorilla/csrf"

	"softres/internal/adapters/http/middleware"
	"softres/internal/adapters/http/perf"
	auditStore "softres/internal/adapters/storage/audit"
	bossKillStore "softres/internal/adapters/storage/bosskill"
	classStore "softres/internal/adapters/storage/class"
	lootStore "softres/internal/adapters/storage/loot"
	playerStore "softres/internal/adapters/storage/player"
	raidStore "softres/internal/adapters/storage/raid"
	srChoiceStore "softres/internal/adapters/storage/srchoice"
	weekStore "softres/internal/adapters/storage/week"
	"softres/internal/application/orchestrators"
)

// Stores holds all storage dependencies.
type Stores struct {
	RaidStore   raidStore.Store
	ClassStore  classStore.Store
	LootStore   lootStore.Store
	PlayerStore playerStore.Store
	WeekStore   weekStore.Store
	ChoiceStore srChoiceStore.Store
	KillStore   bossKillStore.Store
	AuditStore  auditStore.Store
}

// Config carries the boundary secrets and deployment knobs.
type Config struct {
	SessionSecret  []byte
	InviteToken    string
	OfficerKeyHash string // bcrypt hash of the shared officer key
	CORSOrigins    []string
	Env            string
}

// Global instances (set by NewRouter)
var (
	stores *Stores
	config Config
	digest orchestrators.DigestSender
)

// ClaimRatePerMinute limits invite claims and officer logins per IP.
// Tests can increase this.
var ClaimRatePerMinute = 10

// Global perf collector (set by NewRouter)
var perfCollector *perf.Collector

// SetDigestSender sets the rollover digest sender. May stay unset; the
// rollover then skips the digest.
func SetDigestSender(d orchestrators.DigestSender) {
	digest = d
}

// loadCSRFKey reads the CSRF secret from SOFTRES_CSRF_KEY (hex-encoded, 32 bytes).
// In production, the key MUST be set. In development, a random key is generated per startup.
func loadCSRFKey() []byte {
	if keyHex := os.Getenv("SOFTRES_CSRF_KEY"); keyHex != "" {
		key, err := hex.DecodeString(keyHex)
		if err != nil || len(key) != 32 {
			log.Fatal("SOFTRES_CSRF_KEY must be 64 hex characters (32 bytes)")
		}
		return key
	}
	if os.Getenv("SOFTRES_ENV") == "production" {
		log.Fatal("SOFTRES_CSRF_KEY is required in production")
	}
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		log.Fatalf("failed to generate CSRF key: %v", err)
	}
	log.Println("WARNING: using random CSRF key (sessions won't survive restart). Set SOFTRES_CSRF_KEY for production.")
	return key
}

// NewRouter wires the API routes with request-ID, access-log, CORS and
// identity middleware. CSRF wrapping lives in NewMux so tests can exercise
// the routes directly.
func NewRouter(cfg Config, s *Stores, collector *perf.Collector) *chi.Mux {
	stores = s
	config = cfg
	perfCollector = collector
	middleware.SecureCookies = cfg.Env == "production"

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.AccessLog)
	r.Use(middleware.Timing(collector))
	r.Use(middleware.SecurityHeaders)
	if len(cfg.CORSOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   cfg.CORSOrigins,
			AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE"},
			AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-Id"},
			AllowCredentials: true,
		}))
	}
	r.Use(middleware.Identity(cfg.SessionSecret))

	limiter := middleware.NewRateLimiter(ClaimRatePerMinute, time.Minute)

	r.Route("/api", func(r chi.Router) {
		r.Get("/week/current", handleGetCurrentWeek)
		r.Get("/weeks", handleListWeeks)
		r.Get("/sr", handleGetSRBoard)
		r.Get("/kills", handleGetKillBoard)
		r.Get("/classes", handleListClasses)
		r.Get("/bosses", handleListBosses)
		r.Get("/bosses/{id}/loot", handleLootForBoss)
		r.Get("/loot", handleListLoot)
		r.Get("/loot/labels", handleLootLabels)
		r.Get("/loot/{id}/bosses", handleBossesForItem)

		r.Post("/sr-choice", handleSetChoice)
		r.Post("/sr-choice/received", handleSetReceived)
		r.Post("/boss-kill/toggle", handleToggleKill)
		r.Post("/lock", handleSetLock)
		r.Post("/lock/except-killed", handleUnlockExceptKilled)
		r.Post("/reset-week", handleResetWeek)

		r.Get("/roster", handleGetRoster)
		r.Post("/roster/toggle", handleTogglePlayerActive)
		r.Post("/roster/toggle-bulk", handleBulkTogglePlayers)
		r.Patch("/roster/player", handleUpdatePlayer)
		r.Get("/audit", handleGetAuditTrail)
		r.Get("/perf", handleGetPerf)

		r.Get("/me", handleMe)
		r.With(middleware.RateLimit(limiter)).Post("/invite/claim", handleClaimPlayer)
		r.With(middleware.RateLimit(limiter)).Post("/officer/login", handleOfficerLogin)
		r.Post("/officer/logout", handleOfficerLogout)
	})

	return r
}

// NewMux wires the full handler chain for the server binary: the router
// wrapped in CSRF protection for cookie-authed form submissions. JSON
// requests are exempt; a cross-site form cannot send application/json.
func NewMux(cfg Config, s *Stores, collector *perf.Collector) http.Handler {
	router := NewRouter(cfg, s, collector)

	csrfProtect := csrf.Protect(
		loadCSRFKey(),
		csrf.Secure(cfg.Env == "production"),
		csrf.Path("/"),
	)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
			router.ServeHTTP(w, r)
			return
		}
		csrfProtect(router).ServeHTTP(w, r)
	})
}
