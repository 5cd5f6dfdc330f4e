// Command handlers for the Talaria CLI
//
// This file contains all command handler implementations for the
// Orpheus-powered CLI.
//
// Copyright (c) 2025 AGILira
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/agilira/go-errors"
	"github.com/agilira/orpheus/pkg/orpheus"
	"github.com/agilira/talaria"
)

// Command Handlers

// handleManifestValidate loads a manifest and runs the strict validation
// pass over its declared argument space.
func (m *Manager) handleManifestValidate(ctx *orpheus.Context) error {
	filePath := ctx.GetArg(0)
	strict := ctx.GetFlagBool("strict")

	registry, err := loadManifestWithStubs(filePath)
	if err != nil {
		return errors.Wrap(err, talaria.ErrCodeInvalidManifest, "failed to load manifest")
	}

	result := registry.ValidateDetailed()
	if m.auditLogger != nil {
		m.auditLogger.LogValidation(result)
	}

	for _, e := range result.Errors {
		fmt.Printf("error: %s\n", e)
	}
	for _, w := range result.Warnings {
		fmt.Printf("warning: %s\n", w)
	}
	fmt.Println(result.String())

	if !result.Valid {
		return errors.New(talaria.ErrCodeInvalidArgument, "manifest validation failed")
	}
	if strict && len(result.Warnings) > 0 {
		return errors.New(talaria.ErrCodeAliasCollision, "manifest validation produced warnings in strict mode")
	}
	return nil
}

// handleManifestList prints the declared argument space of a manifest.
func (m *Manager) handleManifestList(ctx *orpheus.Context) error {
	filePath := ctx.GetArg(0)

	registry, err := loadManifestWithStubs(filePath)
	if err != nil {
		return errors.Wrap(err, talaria.ErrCodeInvalidManifest, "failed to load manifest")
	}

	fmt.Printf("%-16s %-6s %-10s %-24s %s\n", "NAME", "ALIAS", "DEFAULT", "DEPENDENCIES", "DESCRIPTION")
	for _, a := range registry.Arguments() {
		deps := strings.Join(a.Dependencies(), ",")
		if deps == "" {
			deps = "-"
		}
		alias := a.Alias()
		if alias == "" {
			alias = "-"
		}
		value := a.Value()
		if value == "" {
			value = "-"
		}
		fmt.Printf("%-16s %-6s %-10s %-24s %s\n", a.Name(), alias, value, deps, a.Description())
	}
	fmt.Printf("%d argument(s)\n", registry.Len())
	return nil
}

// handleManifestConvert converts a manifest between YAML and JSON, detecting
// both formats from file extensions.
func (m *Manager) handleManifestConvert(ctx *orpheus.Context) error {
	inputPath := ctx.GetArg(0)
	outputPath := ctx.GetArg(1)

	manifest, err := talaria.ReadManifest(inputPath)
	if err != nil {
		return errors.Wrap(err, talaria.ErrCodeInvalidManifest, "failed to load input manifest")
	}

	if err := talaria.SaveManifest(manifest, outputPath); err != nil {
		return errors.Wrap(err, talaria.ErrCodeIOError, "failed to write output manifest")
	}

	fmt.Printf("Converted %s (%s) -> %s (%s)\n",
		inputPath, talaria.DetectFormat(inputPath).String(),
		outputPath, talaria.DetectFormat(outputPath).String())
	return nil
}

// handleRun parses a raw token list against a manifest and reports what
// matched. Handler ids resolve to echo stubs; with --exec the stubs run
// through the normal dependency-gated execution pass.
func (m *Manager) handleRun(ctx *orpheus.Context) error {
	filePath := ctx.GetArg(0)
	tokens := strings.Fields(ctx.GetFlagString("tokens"))
	execute := ctx.GetFlagBool("exec")

	registry, err := loadManifestWithStubs(filePath)
	if err != nil {
		return errors.Wrap(err, talaria.ErrCodeInvalidManifest, "failed to load manifest")
	}
	if m.auditLogger != nil {
		registry.WithAudit(m.auditLogger)
	}

	registry.Parse(tokens)

	fmt.Printf("%-16s %-8s %-10s %s\n", "NAME", "EXISTS", "DEPS OK", "VALUE")
	for _, a := range registry.Arguments() {
		fmt.Printf("%-16s %-8v %-10v %s\n",
			a.Name(), a.Exists(), registry.DependenciesSatisfied(a), a.Value())
	}

	if execute {
		code := registry.Execute()
		fmt.Printf("execution result: %d\n", code)
	}
	return nil
}

// handleAuditQuery reads events from the SQLite audit database.
func (m *Manager) handleAuditQuery(ctx *orpheus.Context) error {
	since, err := time.ParseDuration(ctx.GetFlagString("since"))
	if err != nil {
		return errors.New(talaria.ErrCodeInvalidConfig, "invalid --since duration")
	}

	dbPath := ctx.GetFlagString("db")
	if dbPath == "" {
		dbPath = talaria.UnifiedAuditPath()
	}

	events, err := talaria.QueryAuditEvents(dbPath, talaria.AuditQueryFilter{
		Since:    since,
		Event:    ctx.GetFlagString("event"),
		Argument: ctx.GetFlagString("argument"),
		Limit:    ctx.GetFlagInt("limit"),
	})
	if err != nil {
		return errors.Wrap(err, talaria.ErrCodeAuditUnavailable, "failed to query audit database")
	}

	for _, e := range events {
		argument := e.Argument
		if argument == "" {
			argument = "-"
		}
		fmt.Printf("%s  %-8s  %-16s  %-16s  code=%d\n",
			e.Timestamp.Format(time.RFC3339), e.Level.String(), e.Event, argument, e.ResultCode)
	}
	fmt.Printf("%d event(s)\n", len(events))
	return nil
}

// handleAuditCleanup removes old audit log entries.
func (m *Manager) handleAuditCleanup(ctx *orpheus.Context) error {
	olderThan, err := time.ParseDuration(ctx.GetFlagString("older-than"))
	if err != nil {
		return errors.New(talaria.ErrCodeInvalidConfig, "invalid --older-than duration")
	}

	dbPath := ctx.GetFlagString("db")
	if dbPath == "" {
		dbPath = talaria.UnifiedAuditPath()
	}
	dryRun := ctx.GetFlagBool("dry-run")

	affected, err := talaria.CleanupAuditEvents(dbPath, olderThan, dryRun)
	if err != nil {
		return errors.Wrap(err, talaria.ErrCodeAuditUnavailable, "failed to cleanup audit database")
	}

	if dryRun {
		fmt.Printf("%d event(s) would be deleted\n", affected)
	} else {
		fmt.Printf("%d event(s) deleted\n", affected)
	}
	return nil
}

// handleInfo displays system information and diagnostics.
func (m *Manager) handleInfo(ctx *orpheus.Context) error {
	verbose := ctx.GetFlagBool("verbose")

	fmt.Printf("Talaria Argument Registry\n")
	fmt.Printf("Version: 1.0.0\n")
	fmt.Printf("Framework: Orpheus\n")

	if verbose {
		fmt.Printf("\nSystem Details:\n")
		fmt.Printf("Manifest formats: YAML, JSON\n")
		fmt.Printf("Default prefix characters: / -\n")
		fmt.Printf("Audit logging: %v\n", m.auditLogger != nil)
		fmt.Printf("Unified audit database: %s\n", talaria.UnifiedAuditPath())
	}
	return nil
}
