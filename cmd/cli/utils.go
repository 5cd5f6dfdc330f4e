// Utility functions for the Talaria CLI
//
// This file provides helpers for loading manifests with stub handlers so
// tooling can inspect and dry-run argument spaces whose real actions live
// in the embedding program.
//
// Copyright (c) 2025 AGILira
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package cli

import (
	"fmt"

	"github.com/agilira/talaria"
)

// loadManifestWithStubs loads a manifest and resolves every referenced
// handler id to an echo stub. The real handlers belong to the embedding
// program; for CLI inspection and dry-runs a stub that announces itself and
// returns 0 preserves the execution shape (ordering, dependency gating,
// last-action cutoff) without doing the work.
func loadManifestWithStubs(filePath string) (*talaria.Registry, error) {
	manifest, err := talaria.ReadManifest(filePath)
	if err != nil {
		return nil, err
	}

	actions := talaria.NewActionRegistry()
	for _, a := range manifest.Arguments {
		if a.Action == "" {
			continue
		}
		actions.Register(a.Action, stubHandler(a.Action))
	}

	return manifest.Build(actions)
}

// stubHandler builds an echo action for the given handler id.
func stubHandler(id string) talaria.ActionFunc {
	return func(args []*talaria.Argument) int {
		fmt.Printf("would execute handler %q\n", id)
		return 0
	}
}
