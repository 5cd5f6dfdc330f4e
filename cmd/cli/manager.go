// Package cli provides the command-line interface for Talaria argument
// manifest management.
//
// This package implements the CLI using the Orpheus framework, providing
// git-style subcommands for manifest validation, inspection, conversion,
// dry-run parsing, and audit log management.
//
// Architecture:
// - Manager: Core CLI orchestration and command routing
// - Handlers: Individual command implementations
// - Utils: Shared utilities for manifest loading and handler stubs
//
// Copyright (c) 2025 AGILira
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0
package cli

import (
	"github.com/agilira/orpheus/pkg/orpheus"
	"github.com/agilira/talaria"
)

// Manager provides CLI operations for Talaria argument manifests.
// Built on top of the Orpheus framework.
type Manager struct {
	app         *orpheus.App
	auditLogger *talaria.AuditLogger // Optional audit integration
}

// NewManager creates a new CLI manager powered by Orpheus, with the full
// command structure registered.
func NewManager() *Manager {
	app := orpheus.New("talaria").
		SetDescription("Command-line argument registry with dependency-gated actions").
		SetVersion("1.0.0")

	manager := &Manager{
		app: app,
	}

	manager.setupManifestCommands()
	manager.setupRunCommand()
	manager.setupUtilityCommands()

	return manager
}

// WithAudit enables audit logging for all CLI operations.
func (m *Manager) WithAudit(auditLogger *talaria.AuditLogger) *Manager {
	m.auditLogger = auditLogger
	return m
}

// Run executes the CLI application with the provided arguments.
func (m *Manager) Run(args []string) error {
	return m.app.Run(args)
}

// Command Setup Methods

// setupManifestCommands configures the 'manifest' command group for
// declarative argument manifest operations.
func (m *Manager) setupManifestCommands() {
	manifestCmd := orpheus.NewCommand("manifest", "Argument manifest operations")

	// manifest validate <file>
	validateCmd := manifestCmd.Subcommand("validate", "Validate an argument manifest", m.handleManifestValidate)
	validateCmd.AddBoolFlag("strict", "s", false, "Treat warnings as errors")

	// manifest list <file>
	manifestCmd.Subcommand("list", "List declared arguments", m.handleManifestList)

	// manifest convert <input> <output>
	manifestCmd.Subcommand("convert", "Convert a manifest between YAML and JSON", m.handleManifestConvert)

	m.app.AddCommand(manifestCmd)
}

// setupRunCommand configures the 'run' command for dry-run parsing of raw
// tokens against a manifest.
func (m *Manager) setupRunCommand() {
	runCmd := orpheus.NewCommand("run", "Parse tokens against a manifest")
	runCmd.SetHandler(m.handleRun)
	runCmd.AddFlag("tokens", "t", "", "Raw token list, whitespace separated")
	runCmd.AddBoolFlag("exec", "e", false, "Execute stub handlers after parsing")
	m.app.AddCommand(runCmd)
}

// setupUtilityCommands configures audit management and diagnostics.
func (m *Manager) setupUtilityCommands() {
	// audit command group
	auditCmd := orpheus.NewCommand("audit", "Audit log management")

	queryCmd := auditCmd.Subcommand("query", "Query audit logs", m.handleAuditQuery)
	queryCmd.AddFlag("since", "s", "24h", "Time range (Go duration, e.g. 24h)")
	queryCmd.AddFlag("event", "e", "", "Event type filter (parse|action_executed|execute|validation)")
	queryCmd.AddFlag("argument", "a", "", "Argument name filter")
	queryCmd.AddIntFlag("limit", "l", 100, "Maximum results")
	queryCmd.AddFlag("db", "d", "", "Audit database path (default: unified system database)")

	cleanupCmd := auditCmd.Subcommand("cleanup", "Cleanup old audit logs", m.handleAuditCleanup)
	cleanupCmd.AddFlag("older-than", "o", "720h", "Delete entries older than (Go duration)")
	cleanupCmd.AddBoolFlag("dry-run", "n", false, "Show what would be deleted")
	cleanupCmd.AddFlag("db", "d", "", "Audit database path (default: unified system database)")

	m.app.AddCommand(auditCmd)

	// info command
	infoCmd := orpheus.NewCommand("info", "System information and diagnostics")
	infoCmd.SetHandler(m.handleInfo)
	infoCmd.AddBoolFlag("verbose", "v", false, "Verbose system information")
	m.app.AddCommand(infoCmd)
}
