// Package database implements the resource store on SQLite.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3" // sqlite3 driver
	"github.com/rs/zerolog"
)

// DB wraps the sql.DB handle for the reservation store.
type DB struct {
	*sql.DB
	logger *zerolog.Logger
}

// NewDB opens the database at path, runs migrations and seeds reference data.
// Transactions start IMMEDIATE so the overlap re-check inside SaveReservation
// serializes against concurrent writers.
func NewDB(path string, logger *zerolog.Logger) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	dsn := path + "?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000&_txlock=immediate"
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	instance := &DB{DB: db, logger: logger}
	if err := instance.createTables(); err != nil {
		return nil, fmt.Errorf("create tables: %w", err)
	}
	if err := instance.seedOffices(context.Background()); err != nil {
		return nil, fmt.Errorf("seed offices: %w", err)
	}

	logger.Info().Str("path", path).Msg("database initialized")
	return instance, nil
}

func (db *DB) createTables() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS offices (
			id INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			capacity INTEGER NOT NULL,
			description TEXT,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE TABLE IF NOT EXISTS reservations (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			office_id INTEGER NOT NULL,
			user_name TEXT NOT NULL,
			user_email TEXT NOT NULL,
			user_phone TEXT NOT NULL,
			start_time DATETIME NOT NULL,
			end_time DATETIME NOT NULL,
			status TEXT NOT NULL DEFAULT 'pending',
			reminder_sent INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (office_id) REFERENCES offices(id)
		)`,

		`CREATE INDEX IF NOT EXISTS idx_reservations_office_times
			ON reservations(office_id, start_time, end_time)`,
		`CREATE INDEX IF NOT EXISTS idx_reservations_status ON reservations(status)`,
	}

	for _, q := range queries {
		if _, err := db.Exec(q); err != nil {
			return fmt.Errorf("exec migration: %w", err)
		}
	}
	return nil
}

// seedOffices inserts the reference offices once, when the table is empty.
func (db *DB) seedOffices(ctx context.Context) error {
	var count int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM offices").Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	seed := []struct {
		id          int64
		name        string
		capacity    int
		description string
	}{
		{1, "Conference Room A", 10, "Large conference room with projector"},
		{2, "Meeting Room B", 6, "Medium meeting room with whiteboard"},
		{3, "Small Meeting Room C", 4, "Small room for focused discussions"},
		{4, "Executive Suite", 8, "Premium meeting space with video conferencing"},
		{5, "Collaboration Space", 12, "Open collaboration area with multiple zones"},
	}

	for _, o := range seed {
		_, err := db.ExecContext(ctx,
			"INSERT INTO offices (id, name, capacity, description) VALUES (?, ?, ?, ?)",
			o.id, o.name, o.capacity, o.description,
		)
		if err != nil {
			return err
		}
	}
	db.logger.Info().Int("offices", len(seed)).Msg("seeded reference offices")
	return nil
}
