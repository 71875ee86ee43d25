package cli

import (
	"database/sql"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	_ "modernc.org/sqlite"

	"softres/internal/adapters/storage"
)

// openDB opens the tracker database named by SOFTRES_DB (default softres.db)
// and ensures the schema exists. The CLI talks to the same file the server
// runs against, so the pragma set matches cmd/server.
func openDB() (*sql.DB, error) {
	_ = godotenv.Load()

	path := os.Getenv("SOFTRES_DB")
	if path == "" {
		path = "softres.db"
	}
	dsn := path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(ON)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("database unreachable: %w", err)
	}
	if err := storage.InitDB(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}
	return db, nil
}
