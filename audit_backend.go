// audit_backend.go: Storage backends for the Talaria audit system
//
// This file defines the pluggable backend architecture for audit logging,
// supporting SQLite (unified system-wide database) and JSONL (append-only
// log files) with automatic selection and graceful fallback.
//
// Copyright (c) 2025 AGILira
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package talaria

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3" // SQLite driver registration
)

// auditBackend abstracts the audit storage mechanism so SQLite and JSONL
// can be swapped without changing the logger API.
//
// The createAuditBackend function implements graceful degradation:
// SQLite → JSONL → error. Audit logging must never prevent a process from
// starting; the fallback keeps capturing data when SQLite is unavailable.
type auditBackend interface {
	// Write persists a batch of audit events. Implementations must handle
	// concurrent writes safely.
	Write(events []AuditEvent) error

	// Flush ensures all pending writes are committed to storage.
	Flush() error

	// Close releases all resources. The backend must not be used after.
	Close() error

	// Maintenance performs backend-specific upkeep (retention cleanup,
	// checkpointing).
	Maintenance() error

	// GetStats returns statistics about the audit store.
	GetStats() (*AuditDatabaseStats, error)
}

// createAuditBackend selects the backend for a configuration: an explicit
// .jsonl OutputFile forces JSONL, everything else tries the SQLite unified
// backend first and falls back to JSONL.
func createAuditBackend(config AuditConfig) (auditBackend, error) {
	if config.OutputFile != "" && filepath.Ext(config.OutputFile) == ".jsonl" {
		return newJSONLBackend(config)
	}

	backend, err := newSQLiteBackend(config)
	if err == nil {
		return backend, nil
	}

	jsonlBackend, jsonlErr := newJSONLBackend(config)
	if jsonlErr != nil {
		return nil, fmt.Errorf("all audit backends failed - SQLite: %w, JSONL: %v", err, jsonlErr)
	}
	return jsonlBackend, nil
}

// UnifiedAuditPath returns the standard path of the unified SQLite audit
// database that consolidates events from every Talaria-using process on
// the host.
func UnifiedAuditPath() string {
	return filepath.Join(os.TempDir(), "talaria", "system-audit.db")
}

// sqliteAuditBackend implements auditBackend on a SQLite database.
type sqliteAuditBackend struct {
	db         *sql.DB
	dbPath     string
	sourceFile string // Original OutputFile for source tracking
	insertStmt *sql.Stmt
	mu         sync.RWMutex
	closed     bool
}

// newSQLiteBackend opens (or creates) the audit database, initializes the
// schema, prepares the batch insert statement, and runs initial retention
// maintenance.
func newSQLiteBackend(config AuditConfig) (*sqliteAuditBackend, error) {
	dbPath := UnifiedAuditPath()
	if config.OutputFile != "" && filepath.Ext(config.OutputFile) == ".db" {
		dbPath = config.OutputFile
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0750); err != nil {
		return nil, fmt.Errorf("failed to create audit database directory: %w", err)
	}

	db, err := openSQLiteDatabase(dbPath)
	if err != nil {
		return nil, err
	}

	backend := &sqliteAuditBackend{
		db:         db,
		dbPath:     dbPath,
		sourceFile: config.OutputFile,
	}

	if err := backend.initializeSchema(); err != nil {
		_ = backend.Close()
		return nil, fmt.Errorf("failed to initialize audit database schema: %w", err)
	}
	if err := backend.prepareStatements(); err != nil {
		_ = backend.Close()
		return nil, fmt.Errorf("failed to prepare audit database statements: %w", err)
	}
	// Maintenance failure is not fatal on startup
	_ = backend.Maintenance()

	return backend, nil
}

// openSQLiteDatabase opens the database with pragmas tuned for audit
// workloads: WAL so writers never block readers, a 5s busy timeout for
// multi-process deployments, NORMAL sync as the durability/performance
// balance, and a modest page cache.
func openSQLiteDatabase(dbPath string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", fmt.Sprintf("%s?_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL&_cache_size=1000", dbPath))
	if err != nil {
		return nil, fmt.Errorf("failed to open audit database: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping audit database: %w", err)
	}
	return db, nil
}

// initializeSchema creates the audit table and its indexes.
func (s *sqliteAuditBackend) initializeSchema() error {
	createTableSQL := `
	CREATE TABLE IF NOT EXISTS audit_events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		timestamp TEXT NOT NULL,
		level TEXT NOT NULL,
		event TEXT NOT NULL,
		component TEXT NOT NULL,

		-- Source tracking for backward compatibility
		original_output_file TEXT NOT NULL,

		-- Argument and result information
		argument TEXT,
		result_code INTEGER NOT NULL DEFAULT 0,

		-- Process and correlation tracking
		process_id INTEGER NOT NULL,
		process_name TEXT NOT NULL,

		-- Additional context
		context TEXT, -- JSON blob for flexible metadata
		checksum TEXT,

		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);`

	if _, err := s.db.Exec(createTableSQL); err != nil {
		return fmt.Errorf("failed to create audit_events table: %w", err)
	}

	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_audit_timestamp ON audit_events(timestamp)",
		"CREATE INDEX IF NOT EXISTS idx_audit_level ON audit_events(level)",
		"CREATE INDEX IF NOT EXISTS idx_audit_event ON audit_events(event)",
		"CREATE INDEX IF NOT EXISTS idx_audit_argument ON audit_events(argument)",
		"CREATE INDEX IF NOT EXISTS idx_audit_created_at ON audit_events(created_at)",
		"CREATE INDEX IF NOT EXISTS idx_audit_event_time ON audit_events(event, timestamp)",
	}
	for _, indexSQL := range indexes {
		if _, err := s.db.Exec(indexSQL); err != nil {
			return fmt.Errorf("failed to create audit index: %w", err)
		}
	}
	return nil
}

// prepareStatements prepares the insert statement used for batch writes.
func (s *sqliteAuditBackend) prepareStatements() error {
	insertSQL := `
	INSERT INTO audit_events (
		timestamp, level, event, component,
		original_output_file, process_id, process_name,
		argument, result_code, context, checksum
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	stmt, err := s.db.Prepare(insertSQL)
	if err != nil {
		return fmt.Errorf("failed to prepare insert statement: %w", err)
	}
	s.insertStmt = stmt
	return nil
}

// Write persists a batch of audit events within a single transaction.
func (s *sqliteAuditBackend) Write(events []AuditEvent) error {
	s.mu.RLock()
	if s.closed {
		s.mu.RUnlock()
		return fmt.Errorf("cannot write to closed SQLite audit backend")
	}
	s.mu.RUnlock()

	if len(events) == 0 {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin audit transaction: %w", err)
	}

	stmt := tx.Stmt(s.insertStmt)
	for _, event := range events {
		if err := s.insertEvent(stmt, event); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to insert audit event: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit audit transaction: %w", err)
	}
	return nil
}

// insertEvent executes the prepared insert for one event.
func (s *sqliteAuditBackend) insertEvent(stmt *sql.Stmt, event AuditEvent) error {
	contextJSON := ""
	if event.Context != nil {
		data, err := json.Marshal(event.Context)
		if err != nil {
			return fmt.Errorf("failed to serialize context: %w", err)
		}
		contextJSON = string(data)
	}

	_, err := stmt.Exec(
		event.Timestamp.Format(time.RFC3339Nano),
		event.Level.String(),
		event.Event,
		event.Component,
		s.sourceFile, // Track original output file configuration
		event.ProcessID,
		event.ProcessName,
		event.Argument,
		event.ResultCode,
		contextJSON,
		event.Checksum,
	)
	return err
}

// Flush forces a WAL checkpoint so recent transactions are durable.
func (s *sqliteAuditBackend) Flush() error {
	s.mu.RLock()
	if s.closed {
		s.mu.RUnlock()
		return nil
	}
	s.mu.RUnlock()

	if _, err := s.db.Exec("PRAGMA wal_checkpoint(TRUNCATE)"); err != nil {
		return fmt.Errorf("failed to checkpoint audit database: %w", err)
	}
	return nil
}

// Maintenance cleans events beyond the retention window and refreshes
// query-planner statistics.
func (s *sqliteAuditBackend) Maintenance() error {
	const defaultRetentionDays = 90

	cleanupSQL := `
		DELETE FROM audit_events
		WHERE created_at < datetime('now', '-' || ? || ' days')
	`
	if _, err := s.db.Exec(cleanupSQL, defaultRetentionDays); err != nil {
		return fmt.Errorf("failed to cleanup old audit events: %w", err)
	}

	for _, task := range []string{"PRAGMA optimize", "PRAGMA wal_checkpoint(FULL)"} {
		if _, err := s.db.Exec(task); err != nil {
			continue
		}
	}
	return nil
}

// AuditDatabaseStats represents statistics about the audit store.
type AuditDatabaseStats struct {
	TotalEvents   int64            `json:"total_events"`
	EventsByLevel map[string]int64 `json:"events_by_level"`
	EventsByType  map[string]int64 `json:"events_by_type"`
	OldestEvent   *time.Time       `json:"oldest_event"`
	NewestEvent   *time.Time       `json:"newest_event"`
	DatabaseSize  int64            `json:"database_size_bytes"`
}

// GetStats retrieves statistics about the audit database.
func (s *sqliteAuditBackend) GetStats() (*AuditDatabaseStats, error) {
	stats := &AuditDatabaseStats{
		EventsByLevel: make(map[string]int64),
		EventsByType:  make(map[string]int64),
	}

	if err := s.db.QueryRow("SELECT COUNT(*) FROM audit_events").Scan(&stats.TotalEvents); err != nil {
		return nil, fmt.Errorf("failed to get total events count: %w", err)
	}
	if err := s.countGrouped("level", stats.EventsByLevel); err != nil {
		return nil, err
	}
	if err := s.countGrouped("event", stats.EventsByType); err != nil {
		return nil, err
	}
	if err := s.getEventTimeRange(stats); err != nil {
		return nil, err
	}
	if info, err := os.Stat(s.dbPath); err == nil {
		stats.DatabaseSize = info.Size()
	}
	return stats, nil
}

// countGrouped fills dest with event counts grouped by the given column.
func (s *sqliteAuditBackend) countGrouped(column string, dest map[string]int64) error {
	// column is one of the fixed identifiers above, never user input
	rows, err := s.db.Query(fmt.Sprintf("SELECT %s, COUNT(*) FROM audit_events GROUP BY %s", column, column))
	if err != nil {
		return fmt.Errorf("failed to get events by %s: %w", column, err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var key string
		var count int64
		if err := rows.Scan(&key, &count); err != nil {
			return fmt.Errorf("failed to scan %s stats: %w", column, err)
		}
		dest[key] = count
	}
	return rows.Err()
}

// getEventTimeRange gets the oldest and newest event timestamps.
func (s *sqliteAuditBackend) getEventTimeRange(stats *AuditDatabaseStats) error {
	var oldestStr, newestStr sql.NullString
	err := s.db.QueryRow(`
		SELECT MIN(created_at), MAX(created_at) FROM audit_events
	`).Scan(&oldestStr, &newestStr)
	if err != nil && err != sql.ErrNoRows {
		return fmt.Errorf("failed to get event time range: %w", err)
	}

	if oldestStr.Valid {
		if oldest, err := time.Parse("2006-01-02 15:04:05", oldestStr.String); err == nil {
			stats.OldestEvent = &oldest
		}
	}
	if newestStr.Valid {
		if newest, err := time.Parse("2006-01-02 15:04:05", newestStr.String); err == nil {
			stats.NewestEvent = &newest
		}
	}
	return nil
}

// Close releases the prepared statement and the database handle. Safe to
// call multiple times.
func (s *sqliteAuditBackend) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true

	if s.insertStmt != nil {
		_ = s.insertStmt.Close()
	}
	if s.db != nil {
		if err := s.db.Close(); err != nil {
			return fmt.Errorf("failed to close audit database: %w", err)
		}
	}
	return nil
}

// AuditQueryFilter narrows an audit event query.
type AuditQueryFilter struct {
	Since    time.Duration // 0 means no time bound
	Event    string        // "" means any event type
	Argument string        // "" means any argument
	Limit    int           // 0 means 100
}

// QueryAuditEvents reads events from a SQLite audit database, newest first.
// Used by the CLI's audit query command. A database that does not exist yet
// is treated as empty rather than an error.
func QueryAuditEvents(dbPath string, filter AuditQueryFilter) ([]AuditEvent, error) {
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		return nil, nil
	}

	db, err := openSQLiteDatabase(dbPath)
	if err != nil {
		return nil, err
	}
	defer func() { _ = db.Close() }()

	query := `
		SELECT timestamp, level, event, component, argument, result_code,
		       process_id, process_name, context, checksum
		FROM audit_events WHERE 1=1`
	args := []interface{}{}

	if filter.Since > 0 {
		query += " AND created_at >= datetime('now', '-' || ? || ' seconds')"
		args = append(args, int64(filter.Since.Seconds()))
	}
	if filter.Event != "" {
		query += " AND event = ?"
		args = append(args, filter.Event)
	}
	if filter.Argument != "" {
		query += " AND argument = ?"
		args = append(args, filter.Argument)
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	query += " ORDER BY id DESC LIMIT ?"
	args = append(args, limit)

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query audit events: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var events []AuditEvent
	for rows.Next() {
		var (
			event           AuditEvent
			tsStr, levelStr string
			contextJSON     sql.NullString
		)
		if err := rows.Scan(&tsStr, &levelStr, &event.Event, &event.Component,
			&event.Argument, &event.ResultCode, &event.ProcessID,
			&event.ProcessName, &contextJSON, &event.Checksum); err != nil {
			return nil, fmt.Errorf("failed to scan audit event: %w", err)
		}
		if ts, err := time.Parse(time.RFC3339Nano, tsStr); err == nil {
			event.Timestamp = ts
		}
		if level, ok := ParseAuditLevel(levelStr); ok {
			event.Level = level
		}
		if contextJSON.Valid && contextJSON.String != "" {
			_ = json.Unmarshal([]byte(contextJSON.String), &event.Context)
		}
		events = append(events, event)
	}
	return events, rows.Err()
}

// CleanupAuditEvents deletes events older than the given age from a SQLite
// audit database, returning the number of affected rows. With dryRun set it
// only counts. A database that does not exist yet is treated as empty.
func CleanupAuditEvents(dbPath string, olderThan time.Duration, dryRun bool) (int64, error) {
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		return 0, nil
	}

	db, err := openSQLiteDatabase(dbPath)
	if err != nil {
		return 0, err
	}
	defer func() { _ = db.Close() }()

	seconds := int64(olderThan.Seconds())
	if dryRun {
		var count int64
		err := db.QueryRow(
			"SELECT COUNT(*) FROM audit_events WHERE created_at < datetime('now', '-' || ? || ' seconds')",
			seconds,
		).Scan(&count)
		if err != nil {
			return 0, fmt.Errorf("failed to count old audit events: %w", err)
		}
		return count, nil
	}

	result, err := db.Exec(
		"DELETE FROM audit_events WHERE created_at < datetime('now', '-' || ? || ' seconds')",
		seconds,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to delete old audit events: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count deleted audit events: %w", err)
	}
	return affected, nil
}

// jsonlAuditBackend implements auditBackend on an append-only JSONL file.
// Human-readable, grep-able, and easily shipped to log aggregators.
type jsonlAuditBackend struct {
	file       *os.File
	sourceFile string
	mu         sync.Mutex
	closed     bool
}

// newJSONLBackend opens the JSONL audit file with owner-only permissions.
func newJSONLBackend(config AuditConfig) (*jsonlAuditBackend, error) {
	if config.OutputFile == "" {
		return nil, fmt.Errorf("JSONL backend requires OutputFile to be specified")
	}
	if err := os.MkdirAll(filepath.Dir(config.OutputFile), 0750); err != nil {
		return nil, fmt.Errorf("failed to create JSONL audit log directory: %w", err)
	}

	file, err := os.OpenFile(config.OutputFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return nil, fmt.Errorf("failed to open JSONL audit log file: %w", err)
	}
	return &jsonlAuditBackend{
		file:       file,
		sourceFile: config.OutputFile,
	}, nil
}

// Write appends each event as a single JSON line.
func (j *jsonlAuditBackend) Write(events []AuditEvent) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.closed {
		return fmt.Errorf("cannot write to closed JSONL audit backend")
	}

	for _, event := range events {
		data, err := json.Marshal(event)
		if err != nil {
			return fmt.Errorf("failed to serialize audit event: %w", err)
		}
		if _, err := j.file.Write(append(data, '\n')); err != nil {
			return fmt.Errorf("failed to write audit event to JSONL: %w", err)
		}
	}
	return nil
}

// Flush fsyncs the JSONL file.
func (j *jsonlAuditBackend) Flush() error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.closed {
		return nil
	}
	if err := j.file.Sync(); err != nil {
		return fmt.Errorf("failed to sync JSONL audit file: %w", err)
	}
	return nil
}

// Maintenance is a no-op; JSONL files are self-maintaining.
func (j *jsonlAuditBackend) Maintenance() error {
	return nil
}

// GetStats returns basic file statistics. Counting events would require
// scanning the whole file, so only size is reported.
func (j *jsonlAuditBackend) GetStats() (*AuditDatabaseStats, error) {
	stats := &AuditDatabaseStats{
		EventsByLevel: make(map[string]int64),
		EventsByType:  make(map[string]int64),
	}
	if info, err := os.Stat(j.sourceFile); err == nil {
		stats.DatabaseSize = info.Size()
	}
	return stats, nil
}

// Close closes the file handle. Safe to call multiple times.
func (j *jsonlAuditBackend) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.closed {
		return nil
	}
	j.closed = true

	if j.file != nil {
		if err := j.file.Close(); err != nil {
			return fmt.Errorf("failed to close JSONL audit file: %w", err)
		}
	}
	return nil
}
