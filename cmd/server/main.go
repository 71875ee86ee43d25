package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	_ "modernc.org/sqlite"

	emailPkg "softres/internal/adapters/email"
	web "softres/internal/adapters/http"
	"softres/internal/adapters/http/perf"
	"softres/internal/adapters/storage"
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

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	// WAL mode, foreign keys and a busy timeout keep concurrent readers
	// happy with a single writer.
	dbPath := envOrDefault("SOFTRES_DB", "softres.db")
	dsn := dbPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(ON)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	// Connection pool settings for WAL mode
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)

	if err := db.Ping(); err != nil {
		log.Fatalf("database unreachable: %v", err)
	}
	if err := storage.InitDB(db); err != nil {
		log.Fatalf("failed to initialize schema: %v", err)
	}

	// Performance instrumentation: wrap DB with timing, create collector
	collector := perf.NewCollector(perf.DefaultRingSize)
	timedDB := storage.NewTimedDB(db, collector)

	rStore := raidStore.NewSQLiteStore(timedDB)
	cStore := classStore.NewSQLiteStore(timedDB)
	wStore := weekStore.NewSQLiteStore(timedDB)
	stores := &web.Stores{
		RaidStore:   rStore,
		ClassStore:  cStore,
		LootStore:   lootStore.NewSQLiteStore(timedDB),
		PlayerStore: playerStore.NewSQLiteStore(timedDB),
		WeekStore:   wStore,
		ChoiceStore: srChoiceStore.NewSQLiteStore(timedDB),
		KillStore:   bossKillStore.NewSQLiteStore(timedDB),
		AuditStore:  auditStore.NewSQLiteStore(timedDB),
	}

	// Reference data: raid, bosses, classes and the current week row.
	// Idempotent, safe on every startup.
	seedDeps := orchestrators.SeedDeps{
		RaidStore:  rStore,
		ClassStore: cStore,
		WeekStore:  wStore,
		Now:        time.Now,
	}
	seeded, err := orchestrators.ExecuteSeedReference(context.Background(), seedDeps)
	if err != nil {
		log.Fatalf("failed to seed reference data: %v", err)
	}
	log.Printf("Reference data ready: %d bosses, %d classes, week %q", seeded.Bosses, seeded.Classes, seeded.WeekLabel)

	// Rollover digest email
	digestTo := os.Getenv("SOFTRES_DIGEST_TO")
	digestFrom := envOrDefault("SOFTRES_RESEND_FROM", "Soft Reserves <noreply@example.com>")
	resendKey := os.Getenv("SOFTRES_RESEND_KEY")
	if digestTo != "" {
		var sender emailPkg.Sender
		if resendKey != "" {
			sender = emailPkg.NewResendSender(resendKey, digestFrom)
			log.Println("Digest sender configured (Resend)")
		} else {
			sender = emailPkg.NewNoopSender()
			log.Println("Digest sender configured (noop; set SOFTRES_RESEND_KEY for real delivery)")
		}
		web.SetDigestSender(emailPkg.NewDigestMailer(sender, digestFrom, strings.Split(digestTo, ",")))
	} else {
		log.Println("SOFTRES_DIGEST_TO not set — rollover digest disabled")
	}

	sessionSecret := os.Getenv("SOFTRES_SESSION_SECRET")
	if sessionSecret == "" {
		log.Fatal("SOFTRES_SESSION_SECRET is required")
	}
	inviteToken := os.Getenv("SOFTRES_INVITE_TOKEN")
	if inviteToken == "" {
		log.Println("WARNING: SOFTRES_INVITE_TOKEN is not set — invite claims are disabled")
	}
	officerKeyHash := os.Getenv("SOFTRES_OFFICER_KEY_HASH")
	if officerKeyHash == "" {
		log.Println("WARNING: SOFTRES_OFFICER_KEY_HASH is not set — officer login is disabled")
	}

	cfg := web.Config{
		SessionSecret:  []byte(sessionSecret),
		InviteToken:    inviteToken,
		OfficerKeyHash: officerKeyHash,
		Env:            envOrDefault("SOFTRES_ENV", "development"),
	}
	if origins := os.Getenv("SOFTRES_CORS_ORIGINS"); origins != "" {
		cfg.CORSOrigins = strings.Split(origins, ",")
	}

	mux := web.NewMux(cfg, stores, collector)

	addr := envOrDefault("SOFTRES_ADDR", ":8080")
	log.Printf("softres %s starting on %s (env=%s)", version, addr, cfg.Env)

	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
