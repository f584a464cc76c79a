// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Implements: prd006-architecture R2-R5.
package archcheck

import (
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/petar-djukic/cq/pkg/types"
)

// Result is the reflexion comparison between the declared model and
// the actual import graph.
type Result struct {
	Score        float64     // Non-divergent edges / classifiable edges
	Convergent   int         // Edges matching an allowed relation
	Divergent    int         // Edges forbidden or unspecified by the model
	Classifiable int         // Edges with both endpoints layer-classified
	Absent       [][2]string // Declared relations with no matching edge
	Findings     []types.Finding
}

// ValidateRules rejects models whose relations reference undeclared
// layers or whose layers have no membership patterns.
func ValidateRules(rules []types.LayerRule) error {
	declared := make(map[string]bool, len(rules))
	for _, r := range rules {
		if r.Name == "" {
			return fmt.Errorf("layer rule with empty name")
		}
		if declared[r.Name] {
			return fmt.Errorf("layer %q declared twice", r.Name)
		}
		if len(r.Patterns) == 0 {
			return fmt.Errorf("layer %q has no module patterns", r.Name)
		}
		declared[r.Name] = true
	}
	for _, r := range rules {
		for _, ref := range append(append([]string{}, r.Allow...), r.Forbid...) {
			if !declared[ref] {
				return fmt.Errorf("layer %q references undefined layer %q", r.Name, ref)
			}
		}
	}
	return nil
}

// Check classifies every non-boundary edge of the graph against the
// declared model. Divergent edges are reported once per module pair;
// the finding carries the occurrence count and the first source
// location. Modules matching no layer pattern each yield one warning.
func Check(g *Graph, rules []types.LayerRule) Result {
	var result Result

	layerOf := make(map[string]string, len(g.Modules))
	for _, m := range g.Modules {
		if layer, ok := classify(m, rules); ok {
			layerOf[m] = layer
		} else {
			result.Findings = append(result.Findings, types.Finding{
				File:     m,
				Category: types.CategoryUnclassified,
				Severity: types.SeverityWarning,
				Message:  fmt.Sprintf("module %q matches no declared layer pattern", m),
			})
		}
	}

	// Track which declared allow relations are realized by some edge.
	realized := make(map[[2]string]bool)

	for _, e := range g.Edges {
		if e.Boundary {
			continue
		}
		fromLayer, okFrom := layerOf[e.From]
		toLayer, okTo := layerOf[e.To]
		if !okFrom || !okTo {
			continue // Unclassified endpoints are excluded, reported above.
		}

		result.Classifiable++
		rule := ruleByName(rules, fromLayer)

		switch {
		case contains(rule.Forbid, toLayer):
			result.Divergent++
			result.Findings = append(result.Findings, divergentFinding(e, fromLayer, toLayer,
				fmt.Sprintf("%s forbids %s", fromLayer, toLayer)))
		case fromLayer == toLayer || contains(rule.Allow, toLayer):
			result.Convergent++
			realized[[2]string{fromLayer, toLayer}] = true
		default:
			result.Divergent++
			result.Findings = append(result.Findings, divergentFinding(e, fromLayer, toLayer,
				fmt.Sprintf("%s does not allow %s", fromLayer, toLayer)))
		}
	}

	// Declared relations with zero matching edges are informational.
	for _, r := range rules {
		for _, to := range r.Allow {
			rel := [2]string{r.Name, to}
			if realized[rel] {
				continue
			}
			result.Absent = append(result.Absent, rel)
			result.Findings = append(result.Findings, types.Finding{
				File:     r.Name,
				Category: types.CategoryAbsentEdge,
				Severity: types.SeverityInfo,
				Message:  fmt.Sprintf("declared relation %s -> %s has no matching import", r.Name, to),
			})
		}
	}
	sort.Slice(result.Absent, func(i, j int) bool {
		if result.Absent[i][0] != result.Absent[j][0] {
			return result.Absent[i][0] < result.Absent[j][0]
		}
		return result.Absent[i][1] < result.Absent[j][1]
	})

	if result.Classifiable > 0 {
		result.Score = float64(result.Convergent) / float64(result.Classifiable)
	} else {
		result.Score = 1.0
	}

	return result
}

// divergentFinding builds the single per-module-pair finding for a
// divergent edge. Edge locations are pre-sorted, so the first one is
// the lexically smallest occurrence.
func divergentFinding(e Edge, fromLayer, toLayer, rule string) types.Finding {
	loc := Location{File: e.From}
	if len(e.Locations) > 0 {
		loc = e.Locations[0]
	}
	return types.Finding{
		File:     loc.File,
		Line:     loc.Line,
		Category: types.CategoryArchitecture,
		Severity: types.SeverityError,
		Message: fmt.Sprintf("forbidden dependency %s -> %s (%s, %d occurrence(s))",
			e.From, e.To, rule, len(e.Locations)),
	}
}

// classify finds the layer of a module: rules are checked in declared
// order, a module belongs to the first rule with a matching pattern.
// Patterns match as path prefixes or path.Match globs.
func classify(module string, rules []types.LayerRule) (string, bool) {
	for _, r := range rules {
		for _, pattern := range r.Patterns {
			if matchModule(module, pattern) {
				return r.Name, true
			}
		}
	}
	return "", false
}

func matchModule(module, pattern string) bool {
	if module == pattern || strings.HasPrefix(module, pattern+"/") {
		return true
	}
	matched, err := path.Match(pattern, module)
	return err == nil && matched
}

func ruleByName(rules []types.LayerRule, name string) types.LayerRule {
	for _, r := range rules {
		if r.Name == name {
			return r
		}
	}
	return types.LayerRule{}
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
