package database

import (
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/aziis98/striplines/internal/block"
	_ "github.com/mattn/go-sqlite3"
)

// executor defines an interface for executing SQL queries, compatible with *sql.DB and *sql.Tx.
type executor interface {
	Exec(query string, args ...interface{}) (sql.Result, error)
}

// DB wraps sql.DB with our application-specific methods
type DB struct {
	*sql.DB
	verbose bool
}

// Failure is a cached check that did not pass
type Failure struct {
	Path        string
	Message     string
	LastChecked time.Time
}

// New creates a new database connection and initializes the schema
func New(dbPath string, verbose bool) (*DB, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening database at %s: %w", dbPath, err)
	}

	dbWrapper := &DB{
		DB:      db,
		verbose: verbose,
	}

	if err := dbWrapper.createTable(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing database schema: %w", err)
	}

	return dbWrapper, nil
}

// createTable creates the checks table using the provided executor.
func (db *DB) createTable(exec executor) error {
	if db.verbose {
		log.Println("Ensuring table checks exists...")
	}
	query := `
		CREATE TABLE IF NOT EXISTS checks (
			path TEXT PRIMARY KEY,
			hash TEXT NOT NULL,
			ok INTEGER NOT NULL,
			prefix TEXT NOT NULL DEFAULT '',
			message TEXT NOT NULL DEFAULT '',
			last_checked TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_checks_ok ON checks (ok);
	`
	if _, err := exec.Exec(query); err != nil {
		return fmt.Errorf("creating checks table: %w", err)
	}
	return nil
}

// GetStoredHash retrieves the hash recorded by the last check of a file
func (db *DB) GetStoredHash(filePath string) (string, error) {
	var storedHash string
	err := db.QueryRow("SELECT hash FROM checks WHERE path = ?", filePath).Scan(&storedHash)
	if err != nil {
		if err == sql.ErrNoRows {
			return "", nil // No hash stored, treat as no error but empty string
		}
		return "", fmt.Errorf("querying stored hash for %s: %w", filePath, err)
	}
	return storedHash, nil
}

// UpsertCheck records the outcome of a check
func (db *DB) UpsertCheck(res block.Result) error {
	if db.verbose {
		log.Printf("Upserting check for: %s (ok: %t)", res.Path, res.OK())
	}

	var message string
	if res.Err != nil {
		message = res.Err.Error()
	}

	_, err := db.Exec(`
		INSERT INTO checks (path, hash, ok, prefix, message, last_checked)
		VALUES (?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT (path) DO UPDATE SET
			hash = excluded.hash,
			ok = excluded.ok,
			prefix = excluded.prefix,
			message = excluded.message,
			last_checked = excluded.last_checked
	`, res.Path, res.Hash, res.OK(), res.Prefix, message)
	if err != nil {
		return fmt.Errorf("storing check for %s: %w", res.Path, err)
	}
	return nil
}

// Failures lists every cached failing check ordered by path
func (db *DB) Failures() ([]Failure, error) {
	rows, err := db.Query(`
		SELECT path, message, last_checked FROM checks WHERE ok = 0 ORDER BY path;
	`)
	if err != nil {
		return nil, fmt.Errorf("querying failures: %w", err)
	}
	defer rows.Close()

	var failures []Failure
	for rows.Next() {
		var f Failure
		if err := rows.Scan(&f.Path, &f.Message, &f.LastChecked); err != nil {
			return nil, fmt.Errorf("scanning failure row: %w", err)
		}
		failures = append(failures, f)
	}
	return failures, rows.Err()
}

// Reset drops and recreates the checks table
func (db *DB) Reset() error {
	if db.verbose {
		log.Println("Resetting check cache...")
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() // Rollback if commit is not successful

	if _, err := tx.Exec("DROP TABLE IF EXISTS checks;"); err != nil {
		return fmt.Errorf("dropping checks table: %w", err)
	}

	if err := db.createTable(tx); err != nil {
		return err // Error already formatted by helper
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing reset transaction: %w", err)
	}
	return nil
}
