package database

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	migrate "github.com/rubenv/sql-migrate"
	_ "modernc.org/sqlite"
)

var migrations = &migrate.MemoryMigrationSource{
	Migrations: []*migrate.Migration{
		{
			Id: "1_create_chat_store",
			Up: []string{`
				CREATE TABLE IF NOT EXISTS chat_store (
					key   TEXT PRIMARY KEY,
					value TEXT NOT NULL
				);
			`},
			Down: []string{`DROP TABLE chat_store;`},
		},
	},
}

// NewSQLite opens (creating if necessary) the single store file shared by
// the chat config table and the user-group link table, and applies schema
// migrations.
func NewSQLite(path string) (*sql.DB, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating store directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening store file: %w", err)
	}

	// The store is guarded by a process-wide mutex; a single connection
	// keeps sqlite's own locking out of the picture.
	db.SetMaxOpenConns(1)

	if _, err := migrate.Exec(db, "sqlite3", migrations, migrate.Up); err != nil {
		db.Close()
		return nil, fmt.Errorf("applying migrations: %w", err)
	}

	return db, nil
}
