// validation.go: Strict validation of the declared argument space
//
// The parse and execute passes are deliberately permissive: duplicate names,
// alias collisions and dangling dependency references degrade to silent
// no-ops. This module offers the strict counterpart as an explicit opt-in,
// so callers can surface declaration mistakes before parsing.
//
// Copyright (c) 2025 AGILira
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package talaria

import (
	"fmt"

	"github.com/agilira/go-errors"
)

// ValidationResult contains the result of registry validation with detailed
// feedback. Errors make the registry invalid; warnings flag latent risks
// (such as two arguments sharing an implicit first-rune alias) that the
// permissive parser will resolve by last-match-wins.
type ValidationResult struct {
	Valid    bool     `json:"valid"`
	Errors   []string `json:"errors,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
}

// String returns a human-readable representation of validation results
func (vr ValidationResult) String() string {
	if vr.Valid {
		if len(vr.Warnings) == 0 {
			return "Argument registry is valid"
		}
		return fmt.Sprintf("Argument registry is valid with %d warning(s)", len(vr.Warnings))
	}
	return fmt.Sprintf("Argument registry is invalid: %d error(s), %d warning(s)",
		len(vr.Errors), len(vr.Warnings))
}

// Validate performs strict validation of the declared argument space.
// Returns a coded error describing the first failure, or nil when the
// registry is valid. Warnings never fail validation; use ValidateDetailed
// to inspect them.
func (r *Registry) Validate() error {
	result := r.ValidateDetailed()
	if result.Valid {
		return nil
	}
	return errors.New(ErrCodeInvalidArgument, result.Errors[0])
}

// ValidateDetailed performs strict validation and returns comprehensive
// results including warnings for latent collision risks.
func (r *Registry) ValidateDetailed() ValidationResult {
	result := ValidationResult{Valid: true}

	r.validateNames(&result)
	r.validateAliases(&result)
	r.validateDependencies(&result)

	result.Valid = len(result.Errors) == 0
	return result
}

// validateNames checks for empty and duplicate argument names.
func (r *Registry) validateNames(result *ValidationResult) {
	seen := make(map[string]bool, len(r.args))
	for _, a := range r.args {
		if a.name == "" {
			result.Errors = append(result.Errors, "argument with empty name declared")
			continue
		}
		if seen[a.name] {
			result.Errors = append(result.Errors,
				fmt.Sprintf("duplicate argument name %q", a.name))
		}
		seen[a.name] = true
	}
}

// validateAliases checks explicit aliases against other names and aliases,
// and warns on implicit first-rune collisions between argument names. The
// implicit alias is an observable matching behavior, so two names sharing a
// first rune make short-form matching ambiguous.
func (r *Registry) validateAliases(result *ValidationResult) {
	explicit := make(map[string]string, len(r.args))
	implicit := make(map[string]string, len(r.args))

	for _, a := range r.args {
		if a.alias != "" {
			if owner, taken := explicit[a.alias]; taken {
				result.Errors = append(result.Errors,
					fmt.Sprintf("alias %q of %q already declared by %q", a.alias, a.name, owner))
			} else {
				explicit[a.alias] = a.name
			}
			if other := r.GetArgument(a.alias); other != nil && other.name != a.name {
				result.Errors = append(result.Errors,
					fmt.Sprintf("alias %q of %q collides with argument name %q", a.alias, a.name, other.name))
			}
		}

		if short := a.implicitAlias(); short != "" {
			if owner, taken := implicit[short]; taken {
				result.Warnings = append(result.Warnings,
					fmt.Sprintf("arguments %q and %q share implicit alias %q; a short-form token matches both", owner, a.name, short))
			} else {
				implicit[short] = a.name
			}
		}
	}
}

// validateDependencies checks that dependency names resolve to declared
// arguments and that no argument depends on itself. The executor treats
// unresolved names as satisfied, so these are declaration mistakes that
// would otherwise hide silently.
func (r *Registry) validateDependencies(result *ValidationResult) {
	for _, a := range r.args {
		for _, dep := range a.dependencies {
			if dep == a.name {
				result.Errors = append(result.Errors,
					fmt.Sprintf("argument %q depends on itself", a.name))
				continue
			}
			if r.GetArgument(dep) == nil {
				result.Errors = append(result.Errors,
					fmt.Sprintf("argument %q depends on undeclared argument %q", a.name, dep))
			}
		}
	}
}
