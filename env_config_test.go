// env_config_test.go: Environment configuration tests
//
// Copyright (c) 2025 AGILira
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package talaria

import (
	"path/filepath"
	"testing"
	"time"
)

func TestLoadConfigFromEnvDefaults(t *testing.T) {
	config, err := LoadConfigFromEnv()
	if err != nil {
		t.Fatalf("Unexpected error with clean environment: %v", err)
	}
	if string(config.PrefixChars) != "/-" {
		t.Errorf("Expected default prefix chars, got %q", string(config.PrefixChars))
	}
	if config.DisableAutoHelp {
		t.Error("Auto-help must default to enabled")
	}
	if config.Audit != nil {
		t.Error("Audit must stay nil unless explicitly enabled")
	}
}

func TestLoadConfigFromEnvCore(t *testing.T) {
	t.Setenv("TALARIA_PREFIX_CHARS", "+~")
	t.Setenv("TALARIA_AUTO_HELP", "false")

	config, err := LoadConfigFromEnv()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if string(config.PrefixChars) != "+~" {
		t.Errorf("Expected prefix chars '+~', got %q", string(config.PrefixChars))
	}
	if !config.DisableAutoHelp {
		t.Error("TALARIA_AUTO_HELP=false must disable auto-help")
	}
}

func TestLoadConfigFromEnvAudit(t *testing.T) {
	t.Setenv("TALARIA_AUDIT_ENABLED", "true")
	t.Setenv("TALARIA_AUDIT_OUTPUT_FILE", "/tmp/talaria-audit.jsonl")
	t.Setenv("TALARIA_AUDIT_MIN_LEVEL", "warn")
	t.Setenv("TALARIA_AUDIT_BUFFER_SIZE", "50")
	t.Setenv("TALARIA_AUDIT_FLUSH_INTERVAL", "10s")

	config, err := LoadConfigFromEnv()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if config.Audit == nil {
		t.Fatal("Expected audit config")
	}
	if config.Audit.OutputFile != "/tmp/talaria-audit.jsonl" {
		t.Errorf("Unexpected output file: %q", config.Audit.OutputFile)
	}
	if config.Audit.MinLevel != AuditWarn {
		t.Errorf("Expected warn level, got %v", config.Audit.MinLevel)
	}
	if config.Audit.BufferSize != 50 {
		t.Errorf("Expected buffer size 50, got %d", config.Audit.BufferSize)
	}
	if config.Audit.FlushInterval != 10*time.Second {
		t.Errorf("Expected 10s flush interval, got %v", config.Audit.FlushInterval)
	}
}

func TestLoadConfigFromEnvInvalidValues(t *testing.T) {
	testCases := []struct {
		name  string
		key   string
		value string
	}{
		{"invalid_auto_help", "TALARIA_AUTO_HELP", "maybe"},
		{"invalid_audit_enabled", "TALARIA_AUDIT_ENABLED", "yes please"},
		{"invalid_min_level", "TALARIA_AUDIT_MIN_LEVEL", "loud"},
		{"invalid_buffer_size", "TALARIA_AUDIT_BUFFER_SIZE", "-5"},
		{"invalid_flush_interval", "TALARIA_AUDIT_FLUSH_INTERVAL", "soon"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if tc.key != "TALARIA_AUDIT_ENABLED" && tc.key != "TALARIA_AUTO_HELP" {
				t.Setenv("TALARIA_AUDIT_ENABLED", "true")
			}
			t.Setenv(tc.key, tc.value)

			if _, err := LoadConfigFromEnv(); err == nil {
				t.Errorf("Expected error for %s=%s", tc.key, tc.value)
			}
		})
	}
}

func TestLoadConfigMultiSource(t *testing.T) {
	t.Run("manifest_settings_apply", func(t *testing.T) {
		path := writeTempManifest(t, "args.yml", `
prefix_chars: "+"
auto_help: false
arguments:
  - name: port
`)
		config, err := LoadConfigMultiSource(path)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if string(config.PrefixChars) != "+" {
			t.Errorf("Expected manifest prefix chars, got %q", string(config.PrefixChars))
		}
		if !config.DisableAutoHelp {
			t.Error("Manifest auto_help: false must apply")
		}
	})

	t.Run("env_overrides_manifest", func(t *testing.T) {
		path := writeTempManifest(t, "args.yml", `
prefix_chars: "+"
arguments:
  - name: port
`)
		t.Setenv("TALARIA_PREFIX_CHARS", "~")

		config, err := LoadConfigMultiSource(path)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if string(config.PrefixChars) != "~" {
			t.Errorf("Environment must override manifest, got %q", string(config.PrefixChars))
		}
	})

	t.Run("empty_manifest_path", func(t *testing.T) {
		config, err := LoadConfigMultiSource("")
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if string(config.PrefixChars) != "/-" {
			t.Errorf("Expected defaults, got %q", string(config.PrefixChars))
		}
	})

	t.Run("missing_manifest_fails", func(t *testing.T) {
		if _, err := LoadConfigMultiSource(filepath.Join(t.TempDir(), "missing.yml")); err == nil {
			t.Error("Missing manifest file must fail")
		}
	})
}
