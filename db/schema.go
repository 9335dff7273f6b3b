package db

import (
	"database/sql"
	"fmt"
)

type migration struct {
	id   int
	name string
	sql  string
}

var migrations = []migration{
	{
		id:   1,
		name: "users",
		sql: `
			CREATE TABLE IF NOT EXISTS users (
				id UUID PRIMARY KEY,
				username TEXT NOT NULL CONSTRAINT users_username_key UNIQUE,
				email TEXT CONSTRAINT users_email_key UNIQUE,
				password TEXT NOT NULL,
				created_at TIMESTAMPTZ NOT NULL DEFAULT now()
			);
		`,
	},
	{
		id:   2,
		name: "stats",
		sql: `
			CREATE TABLE IF NOT EXISTS stats (
				player_id UUID PRIMARY KEY REFERENCES users(id) ON DELETE CASCADE,
				wins INTEGER NOT NULL DEFAULT 0,
				losses INTEGER NOT NULL DEFAULT 0,
				shots INTEGER NOT NULL DEFAULT 0,
				hits INTEGER NOT NULL DEFAULT 0,
				elo INTEGER NOT NULL DEFAULT 1500,
				updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
			);
			CREATE INDEX IF NOT EXISTS idx_stats_elo ON stats(elo DESC);
		`,
	},
}

// Migrate applies every migration that has not run yet.
func Migrate(conn *sql.DB) error {
	_, err := conn.Exec(`
		CREATE TABLE IF NOT EXISTS migrations (
			id INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	for _, m := range migrations {
		var count int
		if err := conn.QueryRow("SELECT COUNT(*) FROM migrations WHERE id = $1", m.id).Scan(&count); err != nil {
			return fmt.Errorf("failed to check migration %d: %w", m.id, err)
		}
		if count > 0 {
			continue
		}
		if err := runMigration(conn, m); err != nil {
			return fmt.Errorf("migration %d (%s) failed: %w", m.id, m.name, err)
		}
	}
	return nil
}

func runMigration(conn *sql.DB, m migration) error {
	tx, err := conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(m.sql); err != nil {
		return err
	}
	if _, err := tx.Exec("INSERT INTO migrations (id, name) VALUES ($1, $2)", m.id, m.name); err != nil {
		return err
	}
	return tx.Commit()
}
