// audit.go: Audit trail system for Talaria
//
// This provides audit logging for argument parsing and action execution,
// giving operators an answer to "which arguments ran, with what result,
// and when" after the process is gone.
//
// Features:
// - Immutable audit logs with tamper detection
// - Buffered writes with background flushing
// - Pluggable storage backends (SQLite unified, JSONL fallback)
//
// Copyright (c) 2025 AGILira
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package talaria

import (
	"crypto/sha256"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/agilira/go-timecache"
)

// AuditLevel represents the severity of audit events
type AuditLevel int

const (
	AuditInfo AuditLevel = iota
	AuditWarn
	AuditCritical
	AuditSecurity
)

func (al AuditLevel) String() string {
	switch al {
	case AuditInfo:
		return "INFO"
	case AuditWarn:
		return "WARN"
	case AuditCritical:
		return "CRITICAL"
	case AuditSecurity:
		return "SECURITY"
	default:
		return "UNKNOWN"
	}
}

// ParseAuditLevel converts a level name to an AuditLevel. Unknown names
// report false.
func ParseAuditLevel(name string) (AuditLevel, bool) {
	switch name {
	case "info", "INFO":
		return AuditInfo, true
	case "warn", "WARN":
		return AuditWarn, true
	case "critical", "CRITICAL":
		return AuditCritical, true
	case "security", "SECURITY":
		return AuditSecurity, true
	default:
		return AuditInfo, false
	}
}

// AuditEvent represents a single auditable event
type AuditEvent struct {
	Timestamp   time.Time              `json:"timestamp"`
	Level       AuditLevel             `json:"level"`
	Event       string                 `json:"event"`
	Component   string                 `json:"component"`
	Argument    string                 `json:"argument,omitempty"`
	ResultCode  int                    `json:"result_code"`
	ProcessID   int                    `json:"process_id"`
	ProcessName string                 `json:"process_name"`
	Context     map[string]interface{} `json:"context,omitempty"`
	Checksum    string                 `json:"checksum"` // For tamper detection
}

// AuditConfig configures the audit system
type AuditConfig struct {
	Enabled       bool          `json:"enabled"`
	OutputFile    string        `json:"output_file"`
	MinLevel      AuditLevel    `json:"min_level"`
	BufferSize    int           `json:"buffer_size"`
	FlushInterval time.Duration `json:"flush_interval"`
}

// DefaultAuditConfig returns the default audit configuration with unified
// SQLite storage.
//
// An empty OutputFile selects the unified SQLite backend, consolidating
// audit events from every Talaria-using process on the host into a single
// queryable database. For JSONL output, set OutputFile with a .jsonl
// extension.
func DefaultAuditConfig() AuditConfig {
	return AuditConfig{
		Enabled:       true,
		OutputFile:    "", // Empty triggers unified SQLite backend
		MinLevel:      AuditInfo,
		BufferSize:    1000,
		FlushInterval: 5 * time.Second,
	}
}

// AuditLogger provides buffered audit logging with pluggable backends.
//
// The logger buffers events and flushes them in batches, either when the
// buffer fills or on a background ticker, so audit overhead stays off the
// parse and execute hot paths. Backend selection prefers the unified SQLite
// database and falls back to JSONL.
type AuditLogger struct {
	config      AuditConfig
	backend     auditBackend
	buffer      []AuditEvent
	bufferMu    sync.Mutex
	flushTicker *time.Ticker
	stopCh      chan struct{}
	processID   int
	processName string
}

// NewAuditLogger creates an audit logger with automatic backend selection:
// SQLite unified backend when available, JSONL otherwise. An error is
// returned only when both backends fail to initialize.
func NewAuditLogger(config AuditConfig) (*AuditLogger, error) {
	backend, err := createAuditBackend(config)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize audit backend: %w", err)
	}

	logger := &AuditLogger{
		config:      config,
		backend:     backend,
		buffer:      make([]AuditEvent, 0, config.BufferSize),
		stopCh:      make(chan struct{}),
		processID:   os.Getpid(),
		processName: processName(),
	}

	if config.FlushInterval > 0 {
		logger.flushTicker = time.NewTicker(config.FlushInterval)
		go logger.flushLoop()
	}

	return logger, nil
}

// Log records an audit event. A nil logger, a disabled config, or a level
// below the configured minimum all make this a no-op.
func (al *AuditLogger) Log(level AuditLevel, event, argument string, resultCode int, context map[string]interface{}) {
	if al == nil || al.backend == nil || !al.config.Enabled || level < al.config.MinLevel {
		return
	}

	// Cached timestamp keeps audit overhead off the hot path
	auditEvent := AuditEvent{
		Timestamp:   timecache.CachedTime(),
		Level:       level,
		Event:       event,
		Component:   "talaria",
		Argument:    argument,
		ResultCode:  resultCode,
		ProcessID:   al.processID,
		ProcessName: al.processName,
		Context:     context,
	}
	auditEvent.Checksum = al.generateChecksum(auditEvent)

	al.bufferMu.Lock()
	al.buffer = append(al.buffer, auditEvent)
	if len(al.buffer) >= al.config.BufferSize {
		_ = al.flushBufferUnsafe() // Ignore flush errors during buffering to maintain performance
	}
	al.bufferMu.Unlock()
}

// LogParse logs the outcome of a parse pass: how many raw tokens were
// scanned and how many declared arguments matched.
func (al *AuditLogger) LogParse(tokenCount, matchCount int) {
	al.Log(AuditInfo, "parse", "", 0, map[string]interface{}{
		"tokens":  tokenCount,
		"matched": matchCount,
	})
}

// LogActionExecuted logs a single action invocation and its result code.
func (al *AuditLogger) LogActionExecuted(argument string, resultCode int) {
	al.Log(AuditInfo, "action_executed", argument, resultCode, nil)
}

// LogExecute logs the completion of an execution pass with its final
// result code.
func (al *AuditLogger) LogExecute(resultCode int) {
	level := AuditInfo
	if resultCode != 0 {
		level = AuditWarn
	}
	al.Log(level, "execute", "", resultCode, nil)
}

// LogValidation logs the outcome of a strict validation pass.
func (al *AuditLogger) LogValidation(result ValidationResult) {
	level := AuditInfo
	if !result.Valid {
		level = AuditCritical
	}
	al.Log(level, "validation", "", 0, map[string]interface{}{
		"valid":    result.Valid,
		"errors":   len(result.Errors),
		"warnings": len(result.Warnings),
	})
}

// Flush immediately writes all buffered events
func (al *AuditLogger) Flush() error {
	al.bufferMu.Lock()
	defer al.bufferMu.Unlock()
	return al.flushBufferUnsafe()
}

// Close gracefully shuts down the audit logger
func (al *AuditLogger) Close() error {
	close(al.stopCh)
	if al.flushTicker != nil {
		al.flushTicker.Stop()
	}

	if err := al.Flush(); err != nil {
		return fmt.Errorf("failed to flush audit logger during close: %w", err)
	}
	if al.backend != nil {
		if err := al.backend.Close(); err != nil {
			return fmt.Errorf("failed to close audit backend: %w", err)
		}
	}
	return nil
}

// Stats returns statistics about the underlying audit store.
func (al *AuditLogger) Stats() (*AuditDatabaseStats, error) {
	if al == nil || al.backend == nil {
		return nil, fmt.Errorf("audit backend not initialized")
	}
	return al.backend.GetStats()
}

// flushLoop runs the background flush process
func (al *AuditLogger) flushLoop() {
	for {
		select {
		case <-al.flushTicker.C:
			_ = al.Flush() // Ignore flush errors in background process to maintain performance
		case <-al.stopCh:
			return
		}
	}
}

// flushBufferUnsafe writes the buffer to backend storage (caller must hold
// bufferMu).
func (al *AuditLogger) flushBufferUnsafe() error {
	if len(al.buffer) == 0 {
		return nil
	}
	if err := al.backend.Write(al.buffer); err != nil {
		return fmt.Errorf("failed to write audit events to backend: %w", err)
	}
	al.buffer = al.buffer[:0]
	return nil
}

// generateChecksum creates a tamper-detection checksum using SHA-256
func (al *AuditLogger) generateChecksum(event AuditEvent) string {
	data := fmt.Sprintf("%s:%s:%s:%d",
		event.Timestamp.Format(time.RFC3339Nano),
		event.Event, event.Argument, event.ResultCode)
	hash := sha256.Sum256([]byte(data))
	return fmt.Sprintf("%x", hash)
}

func processName() string {
	return "talaria" // Could read from /proc/self/comm
}
