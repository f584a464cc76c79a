// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Implements: prd007-complexity R4 (score normalization).
package cogcomplex

import (
	"sort"
)

// Scale normalizes raw complexity into a 0-100 score. A file at or
// above HardCap scores zero outright; below it the score falls
// linearly as complexity per line approaches TargetPerLOC.
type Scale struct {
	TargetPerLOC float64 // Complexity per source line considered fully penalized
	HardCap      int     // Raw complexity that zeroes the score
	Percentile   float64 // File aggregation percentile over functions; 0 means sum
}

// FileRaw selects the per-file raw value: the sum over functions, or
// the configured percentile of function scores.
func FileRaw(fs FileScore, scale Scale) int {
	if scale.Percentile <= 0 || len(fs.Funcs) == 0 {
		return fs.Total
	}

	scores := make([]int, len(fs.Funcs))
	for i, f := range fs.Funcs {
		scores[i] = f.Score
	}
	sort.Ints(scores)

	idx := int(scale.Percentile * float64(len(scores)-1))
	return scores[idx]
}

// Score maps a raw complexity and line count to 0-100.
func Score(raw, loc int, scale Scale) float64 {
	if raw >= scale.HardCap {
		return 0
	}
	if loc < 1 {
		loc = 1
	}
	target := scale.TargetPerLOC
	if target <= 0 {
		target = 1e-6
	}
	ratio := float64(raw) / float64(loc) / target
	if ratio > 1 {
		ratio = 1
	}
	return 100 * (1 - ratio)
}
