package database

import (
	"context"
	"database/sql"
	"fmt"
)

// Schema is the DDL for the two tables the dashboard owns.  Rows are
// replaced wholesale on every write, so there are no secondary indexes.
var Schema = []string{
	`CREATE TABLE IF NOT EXISTS tickets (
		ticket_id     VARCHAR(16)  NOT NULL PRIMARY KEY,
		type          VARCHAR(32)  NOT NULL,
		category      VARCHAR(128) NOT NULL,
		admit         INT          NOT NULL DEFAULT 1,
		seq           DOUBLE       NULL,
		sold          TINYINT(1)   NOT NULL DEFAULT 0,
		customer      VARCHAR(255) NOT NULL DEFAULT '',
		visited       TINYINT(1)   NOT NULL DEFAULT 0,
		visitor_seats INT          NOT NULL DEFAULT 0,
		ts            VARCHAR(40)  NULL
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS menu (
		position       INT          NOT NULL PRIMARY KEY,
		type           VARCHAR(32)  NOT NULL,
		category       VARCHAR(128) NOT NULL,
		series         VARCHAR(32)  NOT NULL,
		admit          INT          NOT NULL DEFAULT 1,
		seq            DOUBLE       NULL,
		alloc          INT          NOT NULL DEFAULT 0,
		total_capacity INT          NOT NULL DEFAULT 0
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}

// EnsureSchema creates missing tables.  Existing tables are left as they
// are.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for i, stmt := range Schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("schema statement %d: %w", i+1, err)
		}
	}
	return nil
}
