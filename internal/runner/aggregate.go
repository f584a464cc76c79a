// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Implements: prd010-runner R2 (pillar aggregation), R3 (ordering).
package runner

import (
	"sort"

	"github.com/petar-djukic/cq/internal/archcheck"
	"github.com/petar-djukic/cq/internal/dupes"
	"github.com/petar-djukic/cq/internal/source"
	"github.com/petar-djukic/cq/internal/toolrunner"
	"github.com/petar-djukic/cq/pkg/types"
)

// pillarScores folds the per-file metrics into the five normalized
// pillar scores. File contributions are weighted by role weight times
// line count, so tests and generated code count less (or not at all).
func pillarScores(
	snap *source.Snapshot,
	fileReports []types.FileReport,
	dupResult dupes.Result,
	archResult archcheck.Result,
	archAvailable bool,
	lintResult, typeResult toolrunner.Result,
	cfg Config,
) map[types.Pillar]types.PillarScore {
	pillars := make(map[types.Pillar]types.PillarScore, len(types.Pillars))

	var dupSum, complexSum, parsedWeight float64
	var lintSum, typeSum, allWeight float64
	for _, fr := range fileReports {
		factor := roleWeight(cfg.RoleWeights, fr.Role) * float64(fr.LOC)
		if factor == 0 {
			continue
		}
		allWeight += factor
		lintSum += fr.Metrics.LintScore / 100 * factor
		typeSum += fr.Metrics.TypingScore / 100 * factor
		if fr.Parsed {
			parsedWeight += factor
			dupSum += (1 - fr.Metrics.DuplicationRatio) * factor
			complexSum += fr.Metrics.ComplexityScore / 100 * factor
		}
	}

	if parsedWeight > 0 {
		pillars[types.PillarDuplication] = types.PillarScore{Score: dupSum / parsedWeight, Available: true}
		pillars[types.PillarComplexity] = types.PillarScore{Score: complexSum / parsedWeight, Available: true}
	} else {
		pillars[types.PillarDuplication] = types.PillarScore{Reason: "no parseable files"}
		pillars[types.PillarComplexity] = types.PillarScore{Reason: "no parseable files"}
	}

	if archAvailable {
		pillars[types.PillarArchitecture] = types.PillarScore{Score: archResult.Score, Available: true}
	} else {
		pillars[types.PillarArchitecture] = types.PillarScore{Reason: "no layer model declared"}
	}

	if lintResult.Available && allWeight > 0 {
		pillars[types.PillarLint] = types.PillarScore{Score: lintSum / allWeight, Available: true}
	} else {
		pillars[types.PillarLint] = types.PillarScore{Reason: unavailableReason(lintResult, allWeight)}
	}
	if typeResult.Available && allWeight > 0 {
		pillars[types.PillarTyping] = types.PillarScore{Score: typeSum / allWeight, Available: true}
	} else {
		pillars[types.PillarTyping] = types.PillarScore{Reason: unavailableReason(typeResult, allWeight)}
	}

	return pillars
}

func unavailableReason(r toolrunner.Result, weight float64) string {
	if !r.Available {
		return r.Reason
	}
	if weight == 0 {
		return "no weighted files"
	}
	return ""
}

func roleWeight(weights map[string]float64, role string) float64 {
	if w, ok := weights[role]; ok {
		return w
	}
	if w, ok := weights[source.RoleDefault]; ok {
		return w
	}
	return 1.0
}

// overallScore computes the weighted overall on the 0-100 scale. The
// weight of each unavailable pillar is redistributed proportionally
// across the available ones; the second result reports partiality.
func overallScore(pillars map[types.Pillar]types.PillarScore, weights map[types.Pillar]float64) (float64, bool) {
	var availableWeight float64
	partial := false
	for _, p := range types.Pillars {
		if pillars[p].Available {
			availableWeight += weights[p]
		} else {
			partial = true
		}
	}

	if availableWeight == 0 {
		return 0, true
	}

	var overall float64
	for _, p := range types.Pillars {
		ps := pillars[p]
		if !ps.Available {
			continue
		}
		overall += weights[p] / availableWeight * ps.Score * 100
	}
	return overall, partial
}

// sortFindings orders findings by (file, line, severity) with category
// and message as final tie-breakers so output is fully deterministic.
func sortFindings(findings []types.Finding) {
	sort.Slice(findings, func(i, j int) bool {
		a, b := findings[i], findings[j]
		if a.File != b.File {
			return a.File < b.File
		}
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		if a.Severity != b.Severity {
			return a.Severity < b.Severity
		}
		if a.Category != b.Category {
			return a.Category < b.Category
		}
		return a.Message < b.Message
	})
}
