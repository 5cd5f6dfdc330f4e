// talaria_test.go: Registry and lookup helper tests
//
// Copyright (c) 2025 AGILira
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package talaria

import (
	"testing"
)

func TestGetArgument(t *testing.T) {
	a := New("alpha")
	b := New("bravo")
	reg := NewRegistry(a, b)

	if got := reg.GetArgument("bravo"); got != b {
		t.Error("Expected exact-name lookup to return the declared instance")
	}
	if got := reg.GetArgument("missing"); got != nil {
		t.Error("Absent name must return the nil sentinel, not an error")
	}

	t.Run("alias_never_participates", func(t *testing.T) {
		c := New("charlie").WithAlias("ch")
		reg := NewRegistry(c)
		if reg.GetArgument("ch") != nil {
			t.Error("GetArgument must match by name only, never by alias")
		}
	})

	t.Run("first_declaration_wins_on_duplicates", func(t *testing.T) {
		first := New("dup")
		second := New("dup")
		reg := NewRegistry(first, second)
		if reg.GetArgument("dup") != first {
			t.Error("Duplicate names resolve to the first declaration")
		}
	})
}

func TestHasArgument(t *testing.T) {
	testCases := []struct {
		name     string
		lookup   string
		args     []*Argument
		expected bool
	}{
		{"empty_name", "", []*Argument{New("alpha").WithDefault("x")}, false},
		{"empty_registry", "alpha", nil, false},
		{"declared_but_not_existing", "alpha", []*Argument{New("alpha")}, false},
		{"declared_and_existing", "alpha", []*Argument{New("alpha").WithDefault("x")}, true},
		{"unknown_name", "ghost", []*Argument{New("alpha").WithDefault("x")}, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			reg := NewRegistry(tc.args...)
			if got := reg.HasArgument(tc.lookup); got != tc.expected {
				t.Errorf("HasArgument(%q) = %v, want %v", tc.lookup, got, tc.expected)
			}
			if got := HasArgument(tc.lookup, tc.args); got != tc.expected {
				t.Errorf("package HasArgument(%q) = %v, want %v", tc.lookup, got, tc.expected)
			}
		})
	}
}

func TestHasActionArgument(t *testing.T) {
	noop := func(args []*Argument) int { return 0 }

	t.Run("action_without_exists", func(t *testing.T) {
		reg := NewRegistry(New("alpha").WithAction(noop))
		if reg.HasActionArgument() {
			t.Error("Non-existing argument with action must not count")
		}
	})

	t.Run("exists_without_action", func(t *testing.T) {
		reg := NewRegistry(New("alpha").WithDefault("x"))
		if reg.HasActionArgument() {
			t.Error("Existing argument without action must not count")
		}
	})

	t.Run("action_and_exists", func(t *testing.T) {
		reg := NewRegistry(New("alpha").WithDefault("x").WithAction(noop))
		if !reg.HasActionArgument() {
			t.Error("Existing argument with action must count")
		}
	})
}

func TestRegistryAdd(t *testing.T) {
	reg := NewRegistry(New("alpha"))
	reg.Add(New("bravo"), New("charlie"))

	if reg.Len() != 3 {
		t.Errorf("Expected 3 arguments, got %d", reg.Len())
	}
	if reg.GetArgument("charlie") == nil {
		t.Error("Added arguments must be indexed")
	}
}

func TestConfigWithDefaults(t *testing.T) {
	c := (&Config{}).WithDefaults()
	if len(c.PrefixChars) != 2 || c.PrefixChars[0] != '/' || c.PrefixChars[1] != '-' {
		t.Errorf("Expected default prefix chars '/' and '-', got %q", string(c.PrefixChars))
	}
	if c.DisableAutoHelp {
		t.Error("Auto-help must be enabled by default")
	}

	custom := (&Config{PrefixChars: []rune{'+'}}).WithDefaults()
	if string(custom.PrefixChars) != "+" {
		t.Errorf("Explicit prefix chars must be preserved, got %q", string(custom.PrefixChars))
	}
}
