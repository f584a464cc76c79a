// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Implements: prd009-tool-adapters R4 (metric derivation).
package toolrunner

// LintScore maps a file's diagnostic count to a 0-100 score, deducting
// weight points per diagnostic.
func LintScore(count int, weight float64) float64 {
	if weight <= 0 {
		weight = 1.0
	}
	score := 100.0 - weight*float64(count)
	if score < 0 {
		return 0
	}
	return score
}

// TypingScore maps a file's type-error count and size to a 0-100
// score: the score falls linearly with error density per thousand
// lines and reaches zero at zeroDensity.
func TypingScore(errCount, loc int, zeroDensity float64) float64 {
	if zeroDensity <= 0 {
		zeroDensity = 20
	}
	if loc < 1 {
		loc = 1
	}
	density := float64(errCount) * 1000 / float64(loc)
	if density >= zeroDensity {
		return 0
	}
	return 100 - 100/zeroDensity*density
}
