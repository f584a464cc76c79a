// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package archcheck extracts the repository import graph and checks it
// against a declared layering model (reflexion analysis).
// Implements: prd006-architecture R1 (import graph), R2 (reflexion);
//
//	docs/ARCHITECTURE § Architecture Conformance Checker.
package archcheck

import (
	"sort"
	"strings"

	"github.com/petar-djukic/cq/internal/normalize"
)

// Location is one import statement realizing an edge.
type Location struct {
	File string
	Line int
}

// Edge is a directed import-uses relation between two modules,
// aggregated over every import statement that realizes it. Boundary
// edges target packages outside the repository and are never
// layer-classified.
type Edge struct {
	From      string // Source module (package directory)
	To        string // Target module, or the import path for boundary edges
	Boundary  bool
	Locations []Location // Sorted by (file, line)
}

// Graph is the whole-repository module dependency graph.
type Graph struct {
	Modules []string // In-repository modules, sorted
	Edges   []Edge   // Sorted by (from, to)
}

// BuildGraph resolves every file's imports to in-repository module
// identifiers and aggregates them into directed edges. An import path
// under modulePath resolves to the package directory it names; any
// candidate ambiguity is settled by lexical path order, and targets
// that resolve to no scanned module become boundary nodes.
func BuildGraph(files []normalize.FileTokens, modulePath string) *Graph {
	moduleSet := make(map[string]bool)
	for _, f := range files {
		moduleSet[f.Module] = true
	}

	type edgeKey struct {
		from, to string
		boundary bool
	}
	edges := make(map[edgeKey]*Edge)

	for _, f := range files {
		for _, imp := range f.Imports {
			target, inRepo := resolveImport(imp.Path, modulePath, moduleSet)
			if inRepo && target == f.Module {
				continue // Intra-module imports cannot occur in Go; guard anyway.
			}
			key := edgeKey{from: f.Module, to: target, boundary: !inRepo}
			e, ok := edges[key]
			if !ok {
				e = &Edge{From: f.Module, To: target, Boundary: !inRepo}
				edges[key] = e
			}
			e.Locations = append(e.Locations, Location{File: f.Path, Line: imp.Line})
		}
	}

	g := &Graph{}
	for m := range moduleSet {
		g.Modules = append(g.Modules, m)
	}
	sort.Strings(g.Modules)

	for _, e := range edges {
		sort.Slice(e.Locations, func(i, j int) bool {
			if e.Locations[i].File != e.Locations[j].File {
				return e.Locations[i].File < e.Locations[j].File
			}
			return e.Locations[i].Line < e.Locations[j].Line
		})
		g.Edges = append(g.Edges, *e)
	}
	sort.Slice(g.Edges, func(i, j int) bool {
		if g.Edges[i].From != g.Edges[j].From {
			return g.Edges[i].From < g.Edges[j].From
		}
		return g.Edges[i].To < g.Edges[j].To
	})

	return g
}

// resolveImport maps an import path to an in-repository module
// identifier. The second result is false for boundary targets.
func resolveImport(importPath, modulePath string, modules map[string]bool) (string, bool) {
	if modulePath == "" {
		return importPath, false
	}
	if importPath == modulePath {
		if modules["."] {
			return ".", true
		}
		return importPath, false
	}
	prefix := modulePath + "/"
	if !strings.HasPrefix(importPath, prefix) {
		return importPath, false
	}
	rel := strings.TrimPrefix(importPath, prefix)
	if modules[rel] {
		return rel, true
	}
	return importPath, false
}
