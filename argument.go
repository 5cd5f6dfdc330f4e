// argument.go: Argument data model for Talaria
//
// Copyright (c) 2025 AGILira
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package talaria

// ActionFunc is the work attached to an argument. It receives the full
// declared argument sequence (including mutations made by earlier actions in
// the same execution pass) and returns an integer result code. By convention
// 0 means success; the library echoes codes without interpreting them.
type ActionFunc func(args []*Argument) int

// Argument is a single declared command-line argument: a named record the
// parser populates in place and the executor reads in declaration order.
//
// Instances are constructed once to declare the possible argument space,
// before parsing. The parser mutates Value/Exists on matched instances; no
// instances are created or destroyed during parsing or execution.
type Argument struct {
	name         string
	alias        string
	description  string
	value        string
	exists       bool
	dependencies []string
	action       ActionFunc
	lastAction   bool
}

// New creates an argument with the given name. The name is the primary match
// key; its first rune also acts as an implicit short alias during parsing.
// Uniqueness within a registry is the caller's responsibility (see
// Registry.Validate for an explicit check).
func New(name string) *Argument {
	return &Argument{name: name}
}

// WithAlias sets an explicit short-form alias used during parser matching.
func (a *Argument) WithAlias(alias string) *Argument {
	a.alias = alias
	return a
}

// WithDescription sets free-form help text. Descriptions never affect
// control flow.
func (a *Argument) WithDescription(description string) *Argument {
	a.description = description
	return a
}

// WithDefault assigns a default value at construction time. The default
// flows through SetValue, so a non-empty default marks the argument as
// existing before any parsing happens.
func (a *Argument) WithDefault(value string) *Argument {
	a.SetValue(value)
	return a
}

// WithDependencies declares the names of other arguments that must all exist
// for this argument's action to run. Dependencies are matched by exact name,
// never by alias. A dependency name that matches no declared argument is
// silently treated as satisfied.
func (a *Argument) WithDependencies(names ...string) *Argument {
	a.dependencies = append(a.dependencies, names...)
	return a
}

// WithAction attaches the action invoked by Execute when this argument
// exists and its dependencies are satisfied.
func (a *Argument) WithAction(action ActionFunc) *Argument {
	a.action = action
	return a
}

// WithLastAction marks this argument as terminal: when its action runs,
// execution stops and no later argument is considered.
func (a *Argument) WithLastAction() *Argument {
	a.lastAction = true
	return a
}

// SetValue assigns the argument's string payload. Assigning a non-empty
// value marks the argument as existing; this is the invariant that lets a
// constructed default behave like a matched argument. Assigning an empty
// value never clears the exists flag.
func (a *Argument) SetValue(value string) {
	a.value = value
	if value != "" {
		a.exists = true
	}
}

// markExists flags the argument as matched regardless of value emptiness.
// Used by the parser for pure switch arguments.
func (a *Argument) markExists() {
	a.exists = true
}

// Name returns the argument's primary identifier.
func (a *Argument) Name() string { return a.name }

// Alias returns the explicit short-form alias, or "" if none was declared.
func (a *Argument) Alias() string { return a.alias }

// Description returns the help text.
func (a *Argument) Description() string { return a.description }

// Value returns the current string payload (default or parsed).
func (a *Argument) Value() string { return a.value }

// Exists reports whether the argument was matched during parsing or ever
// assigned a non-empty value.
func (a *Argument) Exists() bool { return a.exists }

// Dependencies returns the declared dependency names in declaration order.
func (a *Argument) Dependencies() []string { return a.dependencies }

// Action returns the attached action, or nil.
func (a *Argument) Action() ActionFunc { return a.action }

// LastAction reports whether this argument terminates execution after its
// action runs.
func (a *Argument) LastAction() bool { return a.lastAction }

// implicitAlias returns the first rune of the name as a string, or "" for an
// empty name. This alias participates in matching but is never stored.
func (a *Argument) implicitAlias() string {
	if a.name == "" {
		return ""
	}
	for _, r := range a.name {
		return string(r)
	}
	return ""
}
