// argument_test.go: Argument data model tests
//
// Copyright (c) 2025 AGILira
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package talaria

import (
	"testing"
)

func TestArgumentExistenceInvariant(t *testing.T) {
	t.Run("non_empty_value_sets_exists", func(t *testing.T) {
		a := New("alpha")
		a.SetValue("something")
		if !a.Exists() {
			t.Error("Non-empty value must mark the argument as existing")
		}
	})

	t.Run("empty_value_does_not_set_exists", func(t *testing.T) {
		a := New("alpha")
		a.SetValue("")
		if a.Exists() {
			t.Error("Empty value must not mark the argument as existing")
		}
	})

	t.Run("empty_value_does_not_clear_exists", func(t *testing.T) {
		a := New("alpha").WithDefault("x")
		a.SetValue("")
		if !a.Exists() {
			t.Error("Assigning an empty value must never clear the exists flag")
		}
	})
}

func TestArgumentDefaultValue(t *testing.T) {
	t.Run("non_empty_default_exists_before_parse", func(t *testing.T) {
		a := New("level").WithDefault("info")
		if a.Value() != "info" {
			t.Errorf("Expected default 'info', got %q", a.Value())
		}
		if !a.Exists() {
			t.Error("Non-empty default flows through SetValue and must set exists")
		}
	})

	t.Run("default_retained_when_unmatched", func(t *testing.T) {
		a := New("level").WithDefault("info")
		NewRegistry(a).Parse([]string{"-other", "x"})
		if a.Value() != "info" {
			t.Errorf("Unmatched argument must retain its default, got %q", a.Value())
		}
	})

	t.Run("empty_default_does_not_exist", func(t *testing.T) {
		a := New("level").WithDefault("")
		if a.Exists() {
			t.Error("Empty default must leave the argument non-existing")
		}
	})
}

func TestArgumentFluentConstruction(t *testing.T) {
	ran := false
	a := New("deploy").
		WithAlias("d").
		WithDescription("deploy the thing").
		WithDependencies("build", "test").
		WithAction(func(args []*Argument) int {
			ran = true
			return 0
		}).
		WithLastAction()

	if a.Name() != "deploy" || a.Alias() != "d" || a.Description() != "deploy the thing" {
		t.Errorf("Builder fields not applied: %q %q %q", a.Name(), a.Alias(), a.Description())
	}
	if len(a.Dependencies()) != 2 {
		t.Errorf("Expected 2 dependencies, got %d", len(a.Dependencies()))
	}
	if !a.LastAction() {
		t.Error("Expected last-action flag set")
	}
	if a.Action() == nil {
		t.Fatal("Expected action attached")
	}
	a.Action()(nil)
	if !ran {
		t.Error("Attached action not invocable")
	}
}

func TestArgumentImplicitAlias(t *testing.T) {
	testCases := []struct {
		name string
		want string
	}{
		{"verbose", "v"},
		{"x", "x"},
		{"", ""},
		{"über", "ü"}, // first rune, not first byte
	}

	for _, tc := range testCases {
		a := New(tc.name)
		if got := a.implicitAlias(); got != tc.want {
			t.Errorf("implicitAlias(%q) = %q, want %q", tc.name, got, tc.want)
		}
	}
}
