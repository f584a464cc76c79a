// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Implements: prd002-snapshot R2 (role detection).
package source

import (
	"sort"
	"strings"
)

// Role names used when weighting per-file metrics into project scores.
const (
	RoleDefault   = "default"
	RoleTest      = "test"
	RoleConfig    = "config"
	RoleVendor    = "vendor"
	RoleGenerated = "generated"
)

// detectRole classifies a file by path heuristics. Test files weigh
// less in aggregation, generated files not at all.
func detectRole(relPath string) string {
	base := relPath
	if i := strings.LastIndex(relPath, "/"); i >= 0 {
		base = relPath[i+1:]
	}

	switch {
	case strings.HasSuffix(base, "_test.go"):
		return RoleTest
	case strings.HasSuffix(base, ".pb.go") || strings.HasSuffix(base, "_gen.go") ||
		strings.HasSuffix(base, ".gen.go") || strings.HasPrefix(base, "zz_generated"):
		return RoleGenerated
	case strings.Contains(relPath, "vendor/") || strings.Contains(relPath, "third_party/"):
		return RoleVendor
	case base == "config.go" || base == "settings.go" || strings.Contains(relPath, "config/"):
		return RoleConfig
	default:
		return RoleDefault
	}
}

// sortSnapshot puts files and parse errors into path order so that
// downstream stages never depend on discovery order.
func sortSnapshot(snap *Snapshot) {
	sort.Slice(snap.Files, func(i, j int) bool {
		return snap.Files[i].Path < snap.Files[j].Path
	})
	sort.Slice(snap.Errors, func(i, j int) bool {
		return snap.Errors[i].FilePath < snap.Errors[j].FilePath
	})
}
