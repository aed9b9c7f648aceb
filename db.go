package main

import (
	"database/sql"
	"log"

	_ "modernc.org/sqlite"
)

var db *sql.DB

// openDatabase opens the SQLite file and creates the schema if missing.
// Document-shaped payloads (telemetry, string lists) live in JSON TEXT
// columns.
func openDatabase(path string) (*sql.DB, error) {
	d, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// Concurrent handler goroutines share one connection pool; the busy
	// timeout keeps writers from failing fast under contention.
	if _, err := d.Exec(`PRAGMA busy_timeout = 5000`); err != nil {
		return nil, err
	}

	for _, stmt := range schema {
		if _, err := d.Exec(stmt); err != nil {
			return nil, err
		}
	}
	return d, nil
}

func initDatabase(path string) {
	var err error
	db, err = openDatabase(path)
	if err != nil {
		log.Fatal("Failed to open database:", err)
	}
	log.Printf("SQLite database ready at %s", path)
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS contacts (
		id            TEXT PRIMARY KEY,
		name          TEXT NOT NULL,
		email         TEXT NOT NULL,
		subject       TEXT,
		message       TEXT NOT NULL,
		status        TEXT NOT NULL DEFAULT 'new',
		ip_address    TEXT,
		tracking_data TEXT,
		created_at    DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at    DATETIME DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE INDEX IF NOT EXISTS idx_contacts_status ON contacts(status, created_at)`,
	`CREATE INDEX IF NOT EXISTS idx_contacts_email ON contacts(email)`,

	`CREATE TABLE IF NOT EXISTS projects (
		id                TEXT PRIMARY KEY,
		title             TEXT NOT NULL,
		short_description TEXT NOT NULL,
		full_description  TEXT NOT NULL,
		category          TEXT NOT NULL,
		tech_stack        TEXT NOT NULL,
		github_link       TEXT NOT NULL,
		live_link         TEXT,
		image_url         TEXT,
		featured          INTEGER NOT NULL DEFAULT 0,
		sort_order        INTEGER NOT NULL DEFAULT 0,
		created_at        DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at        DATETIME DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE INDEX IF NOT EXISTS idx_projects_category ON projects(category, featured, sort_order)`,

	`CREATE TABLE IF NOT EXISTS blogs (
		id           TEXT PRIMARY KEY,
		title        TEXT NOT NULL,
		slug         TEXT NOT NULL UNIQUE,
		excerpt      TEXT NOT NULL,
		content      TEXT NOT NULL,
		cover_image  TEXT,
		tags         TEXT NOT NULL DEFAULT '[]',
		read_time    INTEGER NOT NULL DEFAULT 5,
		published    INTEGER NOT NULL DEFAULT 0,
		published_at DATETIME,
		views        INTEGER NOT NULL DEFAULT 0,
		created_at   DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at   DATETIME DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE INDEX IF NOT EXISTS idx_blogs_published ON blogs(published, published_at)`,

	`CREATE TABLE IF NOT EXISTS experiences (
		id           TEXT PRIMARY KEY,
		type         TEXT NOT NULL,
		title        TEXT NOT NULL,
		organization TEXT NOT NULL,
		location     TEXT,
		start_date   DATETIME NOT NULL,
		end_date     DATETIME,
		description  TEXT NOT NULL,
		achievements TEXT NOT NULL DEFAULT '[]',
		skills       TEXT NOT NULL DEFAULT '[]',
		sort_order   INTEGER NOT NULL DEFAULT 0,
		created_at   DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at   DATETIME DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE INDEX IF NOT EXISTS idx_experiences_type ON experiences(type, start_date)`,

	`CREATE TABLE IF NOT EXISTS visitors (
		id        INTEGER PRIMARY KEY AUTOINCREMENT,
		hashed_ip TEXT NOT NULL,
		user_agent TEXT,
		path      TEXT,
		timestamp DATETIME DEFAULT CURRENT_TIMESTAMP,
		country   TEXT
	)`,
}
