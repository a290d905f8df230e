package db

import (
	"database/sql"
	"fmt"
)

// schema is the full database schema. Book ids are 24-character hex object
// ids, so ordering by id is ordering by creation.
const schema = `
CREATE TABLE IF NOT EXISTS books (
    id     TEXT PRIMARY KEY CHECK (length(id) = 24),
    title  TEXT NOT NULL DEFAULT '',
    author TEXT NOT NULL DEFAULT '',
    type   TEXT NOT NULL DEFAULT '',
    price  REAL NOT NULL DEFAULT 0,
    image  TEXT NOT NULL,
    time   DATETIME
);
`

// EnsureSchema creates all tables and indexes if they don't already exist.
func EnsureSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}
