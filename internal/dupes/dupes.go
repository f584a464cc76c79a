// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package dupes detects duplicated code via winnowing fingerprints
// over normalized token streams.
// Implements: prd005-duplication R1-R6;
//
//	docs/ARCHITECTURE § Duplication Detector.
package dupes

import (
	"fmt"
	"sort"

	"github.com/petar-djukic/cq/internal/normalize"
	"github.com/petar-djukic/cq/pkg/types"
)

// Config parameterizes the detector.
type Config struct {
	K         int // k-gram length in tokens
	W         int // Winnowing window size in k-grams
	MinTokens int // Minimum merged clone length L in tokens
}

// Result is the detector output for a whole repository.
type Result struct {
	Pairs     []ClonePair
	Ratios    map[string]float64 // Per-file covered-token ratio
	RepoRatio float64            // Token-count-weighted mean ratio
	Findings  []types.Finding
}

// Analyze fingerprints every file, builds the global index, and
// derives merged clone pairs, coverage ratios, and findings. Input
// files must already be sorted by path; fingerprint extraction per
// file is pure, so callers may normalize in parallel, but the index
// build here is the synchronization barrier.
func Analyze(files []normalize.FileTokens, cfg Config) Result {
	fileFingerprints := make([][]Fingerprint, len(files))
	totals := make(map[string]int, len(files))
	for i, f := range files {
		fileFingerprints[i] = winnow(f.Path, f.Tokens, cfg.K, cfg.W)
		totals[f.Path] = len(f.Tokens)
	}

	idx := buildIndex(fileFingerprints)
	pairs := idx.clonePairs(cfg.MinTokens, cfg.K)

	result := Result{
		Pairs:  pairs,
		Ratios: coverage(files, pairs, totals),
	}

	var coveredSum, totalSum float64
	for _, f := range files {
		coveredSum += result.Ratios[f.Path] * float64(totals[f.Path])
		totalSum += float64(totals[f.Path])
	}
	if totalSum > 0 {
		result.RepoRatio = coveredSum / totalSum
	}

	for _, p := range pairs {
		result.Findings = append(result.Findings, types.Finding{
			File:     p.A.File,
			Line:     p.A.StartLine,
			Category: types.CategoryDuplication,
			Severity: types.SeverityWarning,
			Message: fmt.Sprintf("duplicated block of %d tokens (lines %d-%d) also at %s:%d-%d",
				p.Tokens, p.A.StartLine, p.A.EndLine, p.B.File, p.B.StartLine, p.B.EndLine),
		})
	}

	return result
}

// coverage computes, per file, the fraction of tokens covered by at
// least one side of a surviving clone pair.
func coverage(files []normalize.FileTokens, pairs []ClonePair, totals map[string]int) map[string]float64 {
	intervals := make(map[string][][2]int)
	for _, p := range pairs {
		intervals[p.A.File] = append(intervals[p.A.File], [2]int{p.A.Start, p.A.End})
		intervals[p.B.File] = append(intervals[p.B.File], [2]int{p.B.Start, p.B.End})
	}

	ratios := make(map[string]float64, len(files))
	for _, f := range files {
		total := totals[f.Path]
		if total == 0 {
			ratios[f.Path] = 0
			continue
		}
		ratios[f.Path] = float64(unionLength(intervals[f.Path])) / float64(total)
	}
	return ratios
}

// unionLength sums the length of the union of half-open intervals.
func unionLength(ivs [][2]int) int {
	if len(ivs) == 0 {
		return 0
	}
	sort.Slice(ivs, func(i, j int) bool { return ivs[i][0] < ivs[j][0] })

	length := 0
	start, end := ivs[0][0], ivs[0][1]
	for _, iv := range ivs[1:] {
		if iv[0] > end {
			length += end - start
			start, end = iv[0], iv[1]
			continue
		}
		if iv[1] > end {
			end = iv[1]
		}
	}
	return length + (end - start)
}
