package sqlite

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// DB wraps a SQLite database connection
type DB struct {
	*sql.DB
}

// New creates a new SQLite database connection
func New(dataSourceName string) (*DB, error) {
	db, err := sql.Open("sqlite", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// :memory: databases are per connection
	if dataSourceName == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set busy timeout: %w", err)
	}

	return &DB{db}, nil
}

// RunMigrations creates the schema if it does not exist yet.
func (db *DB) RunMigrations() error {
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

const schema = `
-- Notifications raised by connection attempts and refreshes
CREATE TABLE IF NOT EXISTS activity_log (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    notification_id TEXT NOT NULL UNIQUE,
    attempt_id TEXT NOT NULL DEFAULT '',
    activity_type TEXT NOT NULL,
    level TEXT NOT NULL CHECK(level IN ('info', 'warning')),
    title TEXT NOT NULL,
    summary TEXT NOT NULL,
    details TEXT NOT NULL DEFAULT '[]',
    created_at TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_activity_attempt ON activity_log(attempt_id);
CREATE INDEX IF NOT EXISTS idx_activity_created_at ON activity_log(created_at);

-- API keys for the HTTP surfaces
CREATE TABLE IF NOT EXISTS api_keys (
    key_hash TEXT PRIMARY KEY,
    owner TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    last_used TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_api_keys_owner ON api_keys(owner);
`
