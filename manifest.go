// manifest.go: Declarative argument manifests for Talaria
//
// This file lets an argument space be declared in YAML or JSON instead of
// code. Actions cannot live in a data file, so manifests carry handler ids
// resolved through an ActionRegistry dispatch table at load time.
//
// Copyright (c) 2025 AGILira
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package talaria

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/agilira/go-errors"
	"go.yaml.in/yaml/v3"
)

// ManifestFormat represents supported manifest file formats for
// auto-detection.
type ManifestFormat int

const (
	FormatYAML ManifestFormat = iota
	FormatJSON
	FormatUnknown
)

// String returns the format name
func (mf ManifestFormat) String() string {
	switch mf {
	case FormatYAML:
		return "yaml"
	case FormatJSON:
		return "json"
	default:
		return "unknown"
	}
}

// DetectFormat detects the manifest format from a file extension.
func DetectFormat(filePath string) ManifestFormat {
	lower := strings.ToLower(filePath)
	switch {
	case strings.HasSuffix(lower, ".yml"), strings.HasSuffix(lower, ".yaml"):
		return FormatYAML
	case strings.HasSuffix(lower, ".json"):
		return FormatJSON
	default:
		return FormatUnknown
	}
}

// ActionRegistry is a dispatch table from handler id to ActionFunc. Manifest
// entries reference handlers by id; the registry resolves them at load time.
type ActionRegistry struct {
	handlers map[string]ActionFunc
}

// NewActionRegistry creates an empty handler dispatch table.
func NewActionRegistry() *ActionRegistry {
	return &ActionRegistry{handlers: make(map[string]ActionFunc)}
}

// Register binds a handler id to an action. Re-registering an id replaces
// the previous handler.
func (ar *ActionRegistry) Register(id string, action ActionFunc) *ActionRegistry {
	ar.handlers[id] = action
	return ar
}

// Lookup returns the action bound to id, or nil.
func (ar *ActionRegistry) Lookup(id string) ActionFunc {
	if ar == nil {
		return nil
	}
	return ar.handlers[id]
}

// Manifest is the on-disk declaration of an argument space.
type Manifest struct {
	// PrefixChars is the flag prefix set as a string, e.g. "/-".
	// Empty means the default set.
	PrefixChars string `yaml:"prefix_chars,omitempty" json:"prefix_chars,omitempty"`

	// AutoHelp controls the synthetic help entry for empty token lists.
	// Nil means enabled (the library default).
	AutoHelp *bool `yaml:"auto_help,omitempty" json:"auto_help,omitempty"`

	Arguments []ManifestArgument `yaml:"arguments" json:"arguments"`
}

// ManifestArgument is one declared argument in a manifest.
type ManifestArgument struct {
	Name         string   `yaml:"name" json:"name"`
	Alias        string   `yaml:"alias,omitempty" json:"alias,omitempty"`
	Description  string   `yaml:"description,omitempty" json:"description,omitempty"`
	Default      string   `yaml:"default,omitempty" json:"default,omitempty"`
	Dependencies []string `yaml:"dependencies,omitempty" json:"dependencies,omitempty"`

	// Action is a handler id resolved through the ActionRegistry passed
	// to LoadManifest/ParseManifest. Empty means no action.
	Action string `yaml:"action,omitempty" json:"action,omitempty"`

	LastAction bool `yaml:"last_action,omitempty" json:"last_action,omitempty"`
}

// LoadManifest reads an argument manifest from disk, auto-detecting the
// format from the file extension, and builds a registry with actions
// resolved through the given dispatch table. A nil actions registry is
// accepted when the manifest declares no handlers.
func LoadManifest(filePath string, actions *ActionRegistry) (*Registry, error) {
	manifest, err := ReadManifest(filePath)
	if err != nil {
		return nil, err
	}
	return manifest.Build(actions)
}

// ReadManifest reads and decodes a manifest file without building a
// registry, auto-detecting the format from the file extension. Useful for
// tooling that inspects or rewrites manifests.
func ReadManifest(filePath string) (*Manifest, error) {
	format := DetectFormat(filePath)
	if format == FormatUnknown {
		return nil, errors.New(ErrCodeUnknownFormat,
			fmt.Sprintf("unsupported manifest format for file: %s", filePath))
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(err, ErrCodeManifestNotFound,
				fmt.Sprintf("manifest file does not exist: %s", filePath))
		}
		return nil, errors.Wrap(err, ErrCodeIOError, "failed to read manifest file")
	}

	return decodeManifest(data, format)
}

// ParseManifest builds a registry from raw manifest bytes in the given
// format, resolving handler ids through the dispatch table.
func ParseManifest(data []byte, format ManifestFormat, actions *ActionRegistry) (*Registry, error) {
	manifest, err := decodeManifest(data, format)
	if err != nil {
		return nil, err
	}
	return manifest.Build(actions)
}

// decodeManifest unmarshals raw bytes into a Manifest.
func decodeManifest(data []byte, format ManifestFormat) (*Manifest, error) {
	var manifest Manifest
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &manifest); err != nil {
			return nil, errors.Wrap(err, ErrCodeInvalidManifest, "failed to parse YAML manifest")
		}
	case FormatJSON:
		if err := json.Unmarshal(data, &manifest); err != nil {
			return nil, errors.Wrap(err, ErrCodeInvalidManifest, "failed to parse JSON manifest")
		}
	default:
		return nil, errors.New(ErrCodeUnknownFormat, "unknown manifest format")
	}
	return &manifest, nil
}

// Build constructs a registry from the manifest, resolving handler ids. An
// id with no registered handler is a coded error: a manifest that names a
// handler expects it to run, and silently dropping it would hide the
// mistake until execution.
func (m *Manifest) Build(actions *ActionRegistry) (*Registry, error) {
	config := Config{}
	if m.PrefixChars != "" {
		config.PrefixChars = []rune(m.PrefixChars)
	}
	if m.AutoHelp != nil && !*m.AutoHelp {
		config.DisableAutoHelp = true
	}

	args := make([]*Argument, 0, len(m.Arguments))
	for _, ma := range m.Arguments {
		if ma.Name == "" {
			return nil, errors.New(ErrCodeInvalidManifest, "manifest argument with empty name")
		}

		a := New(ma.Name).
			WithAlias(ma.Alias).
			WithDescription(ma.Description)
		if ma.Default != "" {
			a.WithDefault(ma.Default)
		}
		if len(ma.Dependencies) > 0 {
			a.WithDependencies(ma.Dependencies...)
		}
		if ma.Action != "" {
			action := actions.Lookup(ma.Action)
			if action == nil {
				return nil, errors.New(ErrCodeUnknownHandler,
					fmt.Sprintf("manifest argument %q references unregistered handler %q", ma.Name, ma.Action))
			}
			a.WithAction(action)
		}
		if ma.LastAction {
			a.WithLastAction()
		}
		args = append(args, a)
	}

	return NewRegistryWithConfig(config, args...), nil
}

// ManifestFromRegistry captures a registry's declared space back into a
// Manifest. Actions cannot be serialized; handler ids must be supplied via
// handlerIDs (argument name → id), and arguments whose action has no entry
// are written without one.
func ManifestFromRegistry(r *Registry, handlerIDs map[string]string) *Manifest {
	manifest := &Manifest{
		PrefixChars: string(r.config.PrefixChars),
	}
	if r.config.DisableAutoHelp {
		enabled := false
		manifest.AutoHelp = &enabled
	}

	for _, a := range r.args {
		ma := ManifestArgument{
			Name:         a.name,
			Alias:        a.alias,
			Description:  a.description,
			Default:      a.value,
			Dependencies: a.dependencies,
			LastAction:   a.lastAction,
		}
		if a.action != nil {
			ma.Action = handlerIDs[a.name]
		}
		manifest.Arguments = append(manifest.Arguments, ma)
	}
	return manifest
}

// Encode marshals the manifest in the given format.
func (m *Manifest) Encode(format ManifestFormat) ([]byte, error) {
	switch format {
	case FormatYAML:
		data, err := yaml.Marshal(m)
		if err != nil {
			return nil, errors.Wrap(err, ErrCodeInvalidManifest, "failed to encode YAML manifest")
		}
		return data, nil
	case FormatJSON:
		data, err := json.MarshalIndent(m, "", "  ")
		if err != nil {
			return nil, errors.Wrap(err, ErrCodeInvalidManifest, "failed to encode JSON manifest")
		}
		return data, nil
	default:
		return nil, errors.New(ErrCodeUnknownFormat, "unknown manifest format")
	}
}

// SaveManifest writes the manifest to disk, auto-detecting the format from
// the target extension.
func SaveManifest(m *Manifest, filePath string) error {
	format := DetectFormat(filePath)
	if format == FormatUnknown {
		return errors.New(ErrCodeUnknownFormat,
			fmt.Sprintf("unsupported manifest format for file: %s", filePath))
	}

	data, err := m.Encode(format)
	if err != nil {
		return err
	}
	if err := os.WriteFile(filePath, data, 0600); err != nil {
		return errors.Wrap(err, ErrCodeIOError, "failed to write manifest file")
	}
	return nil
}
