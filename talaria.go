// talaria.go: Argument registry core for Talaria
//
// This file defines the registry configuration, the ordered argument
// collection with its name index, and the lookup helpers. The parse and
// execute passes live in parser.go and executor.go.
//
// Copyright (c) 2025 AGILira
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package talaria

// Error codes for the Talaria library following AGILira error handling standards
const (
	ErrCodeInvalidArgument   = "TALARIA_INVALID_ARGUMENT"
	ErrCodeDuplicateName     = "TALARIA_DUPLICATE_NAME"
	ErrCodeAliasCollision    = "TALARIA_ALIAS_COLLISION"
	ErrCodeUnknownDependency = "TALARIA_UNKNOWN_DEPENDENCY"
	ErrCodeSelfDependency    = "TALARIA_SELF_DEPENDENCY"
	ErrCodeInvalidConfig     = "TALARIA_INVALID_CONFIG"
	ErrCodeInvalidManifest   = "TALARIA_INVALID_MANIFEST"
	ErrCodeManifestNotFound  = "TALARIA_MANIFEST_NOT_FOUND"
	ErrCodeUnknownFormat     = "TALARIA_UNKNOWN_FORMAT"
	ErrCodeUnknownHandler    = "TALARIA_UNKNOWN_HANDLER"
	ErrCodeAuditUnavailable  = "TALARIA_AUDIT_UNAVAILABLE"
	ErrCodeIOError           = "TALARIA_IO_ERROR"
)

// DefaultPrefixChars are the characters that mark a token as a flag when no
// explicit prefix set is configured.
var DefaultPrefixChars = []rune{'/', '-'}

// Config controls registry parsing behavior and optional audit integration.
//
// The zero value is usable: WithDefaults fills the prefix set and auto-help
// stays enabled unless DisableAutoHelp is set.
type Config struct {
	// PrefixChars is the set of characters that mark a token as an
	// argument flag. Empty means DefaultPrefixChars ('/' and '-').
	PrefixChars []rune

	// DisableAutoHelp turns off the synthetic "help" entry produced when
	// Parse receives an empty token list.
	DisableAutoHelp bool

	// Audit optionally configures an audit trail for parse/execute
	// activity. Nil means no auditing.
	Audit *AuditConfig
}

// WithDefaults returns a config with default values applied for any unset field
func (c *Config) WithDefaults() *Config {
	if len(c.PrefixChars) == 0 {
		c.PrefixChars = append([]rune(nil), DefaultPrefixChars...)
	}
	return c
}

// isPrefixChar reports whether r marks a token as a flag under this config.
func (c *Config) isPrefixChar(r rune) bool {
	for _, p := range c.PrefixChars {
		if p == r {
			return true
		}
	}
	return false
}

// Registry holds the declared argument space: an ordered sequence of
// Argument records plus a name index for exact-name lookups. The same
// registry flows through both phases of a run: Parse mutates the records in
// place, Execute reads them in declaration order.
//
// A registry is intended for one logical invocation (one process run) and
// must not be shared across concurrent parse/execute cycles.
type Registry struct {
	args        []*Argument
	index       map[string]int
	config      *Config
	auditLogger *AuditLogger
}

// NewRegistry creates a registry over the given arguments with default
// configuration. Declaration order is execution order.
func NewRegistry(args ...*Argument) *Registry {
	return NewRegistryWithConfig(Config{}, args...)
}

// NewRegistryWithConfig creates a registry with explicit configuration.
func NewRegistryWithConfig(config Config, args ...*Argument) *Registry {
	r := &Registry{
		args:   args,
		config: config.WithDefaults(),
	}
	r.rebuildIndex()
	return r
}

// WithAudit attaches an audit logger to the registry. Parse and Execute log
// events through it; auditing never alters parse or execute semantics.
func (r *Registry) WithAudit(logger *AuditLogger) *Registry {
	r.auditLogger = logger
	return r
}

// Add appends arguments to the declared space, preserving order.
func (r *Registry) Add(args ...*Argument) *Registry {
	for _, a := range args {
		r.args = append(r.args, a)
		if _, taken := r.index[a.name]; !taken {
			r.index[a.name] = len(r.args) - 1
		}
	}
	return r
}

// Arguments returns the ordered argument sequence. The slice is the
// registry's own backing store, matching the in-place mutation model.
func (r *Registry) Arguments() []*Argument {
	return r.args
}

// Len returns the number of declared arguments.
func (r *Registry) Len() int {
	return len(r.args)
}

// Config returns the registry configuration.
func (r *Registry) Config() *Config {
	return r.config
}

// rebuildIndex recomputes the name index. On duplicate names the first
// declaration wins, matching GetArgument's first-match contract.
func (r *Registry) rebuildIndex() {
	r.index = make(map[string]int, len(r.args))
	for i, a := range r.args {
		if _, taken := r.index[a.name]; !taken {
			r.index[a.name] = i
		}
	}
}

// GetArgument returns the first argument whose name exactly matches, or nil
// when absent. Aliases never participate in lookup.
func (r *Registry) GetArgument(name string) *Argument {
	if i, ok := r.index[name]; ok {
		return r.args[i]
	}
	return nil
}

// HasArgument reports whether an argument with the exact name exists in the
// registry AND was matched (exists flag set). Returns false for an empty
// name or an empty registry.
func (r *Registry) HasArgument(name string) bool {
	if name == "" || len(r.args) == 0 {
		return false
	}
	a := r.GetArgument(name)
	return a != nil && a.exists
}

// HasActionArgument reports whether any declared argument carries an action
// and was matched. Useful for callers that want to fall back to help output
// when no actionable argument was provided.
func (r *Registry) HasActionArgument() bool {
	return HasActionArgument(r.args)
}

// Package-level helpers for callers that manage a bare argument slice
// without a Registry. The registry methods delegate to the same semantics.

// GetArgument returns the first argument in args whose name exactly matches,
// or nil when absent.
func GetArgument(name string, args []*Argument) *Argument {
	for _, a := range args {
		if a.name == name {
			return a
		}
	}
	return nil
}

// HasArgument reports whether args contains an exact-name match that exists.
// Returns false for an empty name or an empty sequence.
func HasArgument(name string, args []*Argument) bool {
	if name == "" || len(args) == 0 {
		return false
	}
	a := GetArgument(name, args)
	return a != nil && a.exists
}

// HasActionArgument reports whether any argument in args has both an action
// and the exists flag set.
func HasActionArgument(args []*Argument) bool {
	for _, a := range args {
		if a.action != nil && a.exists {
			return true
		}
	}
	return false
}
