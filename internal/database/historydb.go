package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/nao1215/aisearch/internal/model"
)

// HistoryDB stores one record per extraction run.
//
// Design decision: We use a single database file for all queries rather
// than per-query files. History is read far more often across queries
// ("what did I ask last week") than within one, and a single file keeps
// backup trivial.
type HistoryDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures HistoryDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging for better concurrent
	// performance. Recommended for most use cases.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates a HistoryDB in the given directory.
// If CreateIfNotExists is false and the database doesn't exist, an error
// is returned instead of silently creating an empty history.
func Open(dbDir string, opts Options) (*HistoryDB, error) {
	dbPath := filepath.Join(dbDir, "aisearch.db")

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("history database not found at %s", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// modernc.org/sqlite DSN: mode=rw prevents creating new files,
	// mode=rwc allows creation.
	dsn := dbPath + "?mode=rw"
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite supports only one writer; a single pooled connection avoids
	// SQLITE_BUSY churn entirely.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	hdb := &HistoryDB{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := hdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return hdb, nil
}

// Close closes the database connection.
func (hdb *HistoryDB) Close() error {
	return hdb.db.Close()
}

// createTables creates the database schema if it doesn't exist.
func (hdb *HistoryDB) createTables() error {
	schema := `
	-- Extraction records store one row per run, failed runs included
	CREATE TABLE IF NOT EXISTS extractions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		query TEXT NOT NULL,
		source_url TEXT,
		timestamp DATETIME DEFAULT CURRENT_TIMESTAMP,
		success INTEGER NOT NULL,
		error_kind TEXT,
		message TEXT,
		markdown TEXT,
		sources TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_extractions_query ON extractions(query);
	CREATE INDEX IF NOT EXISTS idx_extractions_timestamp ON extractions(timestamp);
	`

	_, err := hdb.db.ExecContext(context.Background(), schema)
	return err
}

// Record is one stored extraction run.
type Record struct {
	// ID is the unique identifier of the run in the database.
	ID int64

	// Query is the search query the run was made with.
	Query string

	// SourceURL is the navigation target the content came from.
	SourceURL string

	// Timestamp is when the run was recorded.
	Timestamp time.Time

	// Success reports whether the run produced a document.
	Success bool

	// ErrorKind and Message classify failed runs. Empty on success.
	ErrorKind model.ErrorKind
	Message   string

	// Markdown is the final document. Empty on failure.
	Markdown string

	// Sources is the embedded source list. Empty on failure.
	Sources []model.SourceRef
}

// Save records a completed run.
func (hdb *HistoryDB) Save(ctx context.Context, result *model.ExtractionResult) (int64, error) {
	sourcesJSON, err := json.Marshal(result.Sources)
	if err != nil {
		return 0, fmt.Errorf("failed to serialize sources: %w", err)
	}

	query := `
	INSERT INTO extractions (query, source_url, success, error_kind, message, markdown, sources)
	VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	res, err := hdb.db.ExecContext(ctx, query,
		result.Query,
		result.SourceURL,
		result.Success,
		string(result.Error),
		result.Message,
		result.Markdown,
		string(sourcesJSON),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to save extraction: %w", err)
	}

	return res.LastInsertId()
}

// List returns the most recent runs, newest first, up to limit.
// A non-empty queryFilter restricts the list to queries containing it.
func (hdb *HistoryDB) List(ctx context.Context, queryFilter string, limit int) ([]Record, error) {
	query := `
	SELECT id, query, source_url, timestamp, success, error_kind, message
	FROM extractions
	`
	args := make([]any, 0, 2)

	if queryFilter != "" {
		query += " WHERE query LIKE ?"
		args = append(args, "%"+queryFilter+"%")
	}

	query += " ORDER BY timestamp DESC, id DESC"
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := hdb.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list extractions: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var rec Record
		var timestamp string
		var errorKind, message, sourceURL sql.NullString

		if err := rows.Scan(&rec.ID, &rec.Query, &sourceURL, &timestamp, &rec.Success, &errorKind, &message); err != nil {
			return nil, fmt.Errorf("failed to scan extraction: %w", err)
		}

		rec.SourceURL = sourceURL.String
		rec.Timestamp = parseTimestamp(timestamp)
		rec.ErrorKind = model.ErrorKind(errorKind.String)
		rec.Message = message.String
		records = append(records, rec)
	}

	return records, rows.Err()
}

// Get retrieves one full record, including the stored document, by ID.
// Returns (nil, nil) when the ID is unknown.
func (hdb *HistoryDB) Get(ctx context.Context, id int64) (*Record, error) {
	query := `
	SELECT id, query, source_url, timestamp, success, error_kind, message, markdown, sources
	FROM extractions
	WHERE id = ?
	`

	var rec Record
	var timestamp string
	var errorKind, message, sourceURL, markdown, sourcesJSON sql.NullString

	err := hdb.db.QueryRowContext(ctx, query, id).Scan(
		&rec.ID,
		&rec.Query,
		&sourceURL,
		&timestamp,
		&rec.Success,
		&errorKind,
		&message,
		&markdown,
		&sourcesJSON,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get extraction: %w", err)
	}

	rec.SourceURL = sourceURL.String
	rec.Timestamp = parseTimestamp(timestamp)
	rec.ErrorKind = model.ErrorKind(errorKind.String)
	rec.Message = message.String
	rec.Markdown = markdown.String

	if sourcesJSON.Valid && sourcesJSON.String != "" {
		if err := json.Unmarshal([]byte(sourcesJSON.String), &rec.Sources); err != nil {
			return nil, fmt.Errorf("failed to parse sources: %w", err)
		}
	}

	return &rec, nil
}

// Latest returns the most recent run for an exact query string, or
// (nil, nil) when the query was never run.
func (hdb *HistoryDB) Latest(ctx context.Context, queryText string) (*Record, error) {
	query := `
	SELECT id FROM extractions
	WHERE query = ?
	ORDER BY timestamp DESC, id DESC
	LIMIT 1
	`

	var id int64
	err := hdb.db.QueryRowContext(ctx, query, queryText).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up latest extraction: %w", err)
	}
	return hdb.Get(ctx, id)
}

// timestampFormats contains the timestamp formats that SQLite may return.
// The order matters: more specific formats should come first.
var timestampFormats = []string{
	"2006-01-02 15:04:05",     // SQLite default datetime format
	"2006-01-02T15:04:05Z",    // ISO 8601 with Z suffix
	"2006-01-02T15:04:05",     // ISO 8601 without timezone
	time.RFC3339,              // Full RFC3339 format
	time.RFC3339Nano,          // RFC3339 with nanoseconds
	"2006-01-02 15:04:05.999", // SQLite with milliseconds
}

// parseTimestamp attempts to parse a timestamp string using multiple
// formats. SQLite may return timestamps in different formats depending on
// configuration. Returns zero time when nothing matches.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
