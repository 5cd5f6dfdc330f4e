// manifest_test.go: Declarative manifest tests
//
// Copyright (c) 2025 AGILira
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package talaria

import (
	"os"
	"path/filepath"
	"testing"
)

const testManifestYAML = `
prefix_chars: "/-"
arguments:
  - name: help
    description: show usage
  - name: verbose
    alias: vb
    default: "false"
  - name: run
    description: run the workload
    dependencies: [verbose]
    action: run_workload
    last_action: true
`

func TestLoadManifestYAML(t *testing.T) {
	path := writeTempManifest(t, "args.yml", testManifestYAML)

	executed := false
	actions := NewActionRegistry().Register("run_workload", func(args []*Argument) int {
		executed = true
		return 42
	})

	reg, err := LoadManifest(path, actions)
	if err != nil {
		t.Fatalf("Failed to load manifest: %v", err)
	}
	if reg.Len() != 3 {
		t.Fatalf("Expected 3 arguments, got %d", reg.Len())
	}

	verbose := reg.GetArgument("verbose")
	if verbose == nil || verbose.Alias() != "vb" || verbose.Value() != "false" {
		t.Errorf("Manifest fields not applied to verbose argument")
	}
	if !verbose.Exists() {
		t.Error("Non-empty manifest default must mark the argument as existing")
	}

	run := reg.GetArgument("run")
	if run == nil || !run.LastAction() || len(run.Dependencies()) != 1 {
		t.Fatal("Manifest run argument incomplete")
	}

	// verbose exists via default, so run's action is gated open once matched
	reg.Parse([]string{"-run"})
	if got := reg.Execute(); got != 42 {
		t.Errorf("Expected handler result 42, got %d", got)
	}
	if !executed {
		t.Error("Registered handler did not run")
	}
}

func TestLoadManifestJSON(t *testing.T) {
	content := `{
		"arguments": [
			{"name": "port", "alias": "p", "default": "8080"},
			{"name": "host"}
		]
	}`
	path := writeTempManifest(t, "args.json", content)

	reg, err := LoadManifest(path, nil)
	if err != nil {
		t.Fatalf("Failed to load JSON manifest: %v", err)
	}
	if port := reg.GetArgument("port"); port == nil || port.Value() != "8080" {
		t.Error("JSON manifest default not applied")
	}
}

func TestLoadManifestErrors(t *testing.T) {
	t.Run("unknown_handler", func(t *testing.T) {
		path := writeTempManifest(t, "args.yml", `
arguments:
  - name: run
    action: nonexistent
`)
		if _, err := LoadManifest(path, NewActionRegistry()); err == nil {
			t.Error("Unregistered handler id must fail the load")
		}
	})

	t.Run("empty_argument_name", func(t *testing.T) {
		path := writeTempManifest(t, "args.yml", `
arguments:
  - alias: x
`)
		if _, err := LoadManifest(path, nil); err == nil {
			t.Error("Manifest argument without a name must fail the load")
		}
	})

	t.Run("missing_file", func(t *testing.T) {
		if _, err := LoadManifest(filepath.Join(t.TempDir(), "missing.yml"), nil); err == nil {
			t.Error("Missing manifest must fail")
		}
	})

	t.Run("unknown_extension", func(t *testing.T) {
		path := writeTempManifest(t, "args.toml", "whatever")
		if _, err := LoadManifest(path, nil); err == nil {
			t.Error("Unsupported extension must fail")
		}
	})

	t.Run("malformed_yaml", func(t *testing.T) {
		path := writeTempManifest(t, "args.yml", "arguments: [unclosed")
		if _, err := LoadManifest(path, nil); err == nil {
			t.Error("Malformed YAML must fail")
		}
	})
}

func TestManifestConfig(t *testing.T) {
	t.Run("custom_prefix_chars", func(t *testing.T) {
		path := writeTempManifest(t, "args.yml", `
prefix_chars: "+"
arguments:
  - name: port
`)
		reg, err := LoadManifest(path, nil)
		if err != nil {
			t.Fatalf("Failed to load manifest: %v", err)
		}
		reg.Parse([]string{"+port", "9090"})
		if reg.GetArgument("port").Value() != "9090" {
			t.Error("Manifest prefix chars not applied to parsing")
		}
	})

	t.Run("auto_help_disabled", func(t *testing.T) {
		path := writeTempManifest(t, "args.yml", `
auto_help: false
arguments:
  - name: help
`)
		reg, err := LoadManifest(path, nil)
		if err != nil {
			t.Fatalf("Failed to load manifest: %v", err)
		}
		reg.Parse([]string{})
		if reg.GetArgument("help").Exists() {
			t.Error("auto_help: false must suppress the synthetic help entry")
		}
	})
}

func TestDetectFormat(t *testing.T) {
	testCases := []struct {
		path string
		want ManifestFormat
	}{
		{"args.yml", FormatYAML},
		{"args.yaml", FormatYAML},
		{"ARGS.YAML", FormatYAML},
		{"args.json", FormatJSON},
		{"args.toml", FormatUnknown},
		{"args", FormatUnknown},
	}

	for _, tc := range testCases {
		if got := DetectFormat(tc.path); got != tc.want {
			t.Errorf("DetectFormat(%q) = %s, want %s", tc.path, got, tc.want)
		}
	}
}

func TestManifestRoundTrip(t *testing.T) {
	yamlPath := writeTempManifest(t, "args.yml", testManifestYAML)

	manifest, err := ReadManifest(yamlPath)
	if err != nil {
		t.Fatalf("Failed to read manifest: %v", err)
	}

	jsonPath := filepath.Join(t.TempDir(), "args.json")
	if err := SaveManifest(manifest, jsonPath); err != nil {
		t.Fatalf("Failed to save JSON manifest: %v", err)
	}

	reloaded, err := ReadManifest(jsonPath)
	if err != nil {
		t.Fatalf("Failed to reload converted manifest: %v", err)
	}
	if len(reloaded.Arguments) != len(manifest.Arguments) {
		t.Fatalf("Round trip lost arguments: %d vs %d",
			len(reloaded.Arguments), len(manifest.Arguments))
	}
	for i, a := range manifest.Arguments {
		b := reloaded.Arguments[i]
		if a.Name != b.Name || a.Alias != b.Alias || a.Default != b.Default ||
			a.Action != b.Action || a.LastAction != b.LastAction {
			t.Errorf("Round trip changed argument %d: %+v vs %+v", i, a, b)
		}
	}
}

func TestManifestFromRegistry(t *testing.T) {
	reg := NewRegistry(
		New("run").WithAlias("r").WithDefault("now").
			WithDependencies("check").
			WithAction(func(args []*Argument) int { return 0 }),
		New("check"),
	)

	manifest := ManifestFromRegistry(reg, map[string]string{"run": "run_handler"})
	if len(manifest.Arguments) != 2 {
		t.Fatalf("Expected 2 manifest arguments, got %d", len(manifest.Arguments))
	}
	if manifest.Arguments[0].Action != "run_handler" {
		t.Errorf("Handler id not captured, got %q", manifest.Arguments[0].Action)
	}
	if manifest.Arguments[1].Action != "" {
		t.Error("Argument without action must have no handler id")
	}
}

// writeTempManifest writes a manifest file into a temp directory.
func writeTempManifest(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write test manifest: %v", err)
	}
	return path
}
