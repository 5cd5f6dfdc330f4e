// Package talaria provides an ordered command-line argument registry with
// dependency-gated action execution for Go applications.
//
// # Philosophy: Arguments as a Declared, Ordered Space
//
// Talaria treats the command line as a declared space of possible arguments
// rather than an ad-hoc token soup. The caller declares every argument once,
// in order, with its alias, default value, dependencies, and an optional
// action. Parsing populates that space in place; execution walks it in
// declaration order, running each action only when its argument was matched
// and all of its dependencies were matched too.
//
// # Architecture Overview
//
// Talaria consists of four integrated subsystems:
//  1. **Argument Registry**: Ordered argument records with a name index,
//     parsed and executed in a single pass each
//  2. **Manifest Loading**: Declarative YAML/JSON argument manifests with a
//     handler dispatch table for actions
//  3. **Validation Layer**: Opt-in strict checking of the declared space
//     (duplicate names, alias collisions, unknown dependencies)
//  4. **Audit Trail**: Optional buffered audit logging of parse and execute
//     activity with SQLite and JSONL backends
//
// # Quick Start
//
// Declare, parse, execute:
//
//	verbose := talaria.New("verbose").
//		WithAlias("v").
//		WithDescription("enable verbose output")
//
//	run := talaria.New("run").
//		WithDependencies("verbose").
//		WithAction(func(args []*talaria.Argument) int {
//			// do the work
//			return 0
//		})
//
//	reg := talaria.NewRegistry(verbose, run)
//	reg.Parse(os.Args[1:])
//	code := reg.Execute()
//
// Tokens use `/` or `-` prefixes by default; a flag token binds at most the
// single following non-flag token as its value. An argument matches by full
// name, by the first rune of its name, or by its explicit alias.
//
// # Declarative Manifests
//
// The same argument space can be declared in YAML or JSON and bound to
// registered handlers:
//
//	actions := talaria.NewActionRegistry()
//	actions.Register("run", runHandler)
//
//	reg, err := talaria.LoadManifest("args.yml", actions)
//	if err != nil {
//		log.Fatal(err)
//	}
//
// # Design Notes
//
// Parsing and execution return no errors: unmatched tokens, duplicate keys,
// and unknown dependency names degrade to no-ops. The Validate method offers
// strict checking as an explicit opt-in for callers that want collisions and
// dangling dependencies surfaced before parsing.
//
// Copyright (c) 2025 AGILira
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0
package talaria
