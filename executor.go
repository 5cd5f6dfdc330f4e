// executor.go: Dependency-gated sequential action execution for Talaria
//
// Copyright (c) 2025 AGILira
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package talaria

// Execute walks the declared arguments in order and runs each attached
// action whose argument exists and whose dependencies are all satisfied.
// Each action receives the full argument sequence, including mutations made
// by earlier actions in the same pass; the library imposes no isolation
// between actions.
//
// The return value is the result code of the last action that ran, or 0
// when no action ran. An argument marked as last action stops the walk
// immediately after its action returns.
//
// Panics raised by actions are not recovered; they propagate to the caller.
func (r *Registry) Execute() int {
	result := 0
	for _, a := range r.args {
		if a.action == nil || !a.exists || !r.DependenciesSatisfied(a) {
			continue
		}

		result = a.action(r.args)

		if r.auditLogger != nil {
			r.auditLogger.LogActionExecuted(a.name, result)
		}
		if a.lastAction {
			break
		}
	}

	if r.auditLogger != nil {
		r.auditLogger.LogExecute(result)
	}
	return result
}

// DependenciesSatisfied reports whether every declared dependency of arg,
// when found in the registry by exact name, has been matched. An empty
// dependency list is vacuously satisfied. A dependency name that matches no
// declared argument is silently treated as satisfied; strictness over such
// names is available through Validate, never applied here.
func (r *Registry) DependenciesSatisfied(arg *Argument) bool {
	for _, name := range arg.dependencies {
		dep := r.GetArgument(name)
		if dep != nil && !dep.exists {
			return false
		}
	}
	return true
}

// Execute runs the dependency-gated execution pass over a bare argument
// slice, mirroring Registry.Execute for callers without a Registry.
func Execute(args []*Argument) int {
	result := 0
	for _, a := range args {
		if a.action == nil || !a.exists || !DependenciesSatisfied(a, args) {
			continue
		}
		result = a.action(args)
		if a.lastAction {
			break
		}
	}
	return result
}

// DependenciesSatisfied mirrors Registry.DependenciesSatisfied over a bare
// argument slice.
func DependenciesSatisfied(arg *Argument, args []*Argument) bool {
	for _, name := range arg.dependencies {
		dep := GetArgument(name, args)
		if dep != nil && !dep.exists {
			return false
		}
	}
	return true
}
