package client

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/parceltrack/console/internal/client/migrations"
	_ "modernc.org/sqlite" // pure-Go SQLite driver
)

// InitDatabase opens (creating if needed) the local SQLite file at dsn and
// brings its schema up to date.
func InitDatabase(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := migrations.Up(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}
