// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package report renders a Report value as JSON or Markdown. Rendering
// never mutates the report; field order and list order come from the
// aggregator's canonical sorting.
// Implements: prd011-reporting R1, R2;
//
//	docs/ARCHITECTURE § Report Rendering.
package report

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/petar-djukic/cq/pkg/types"
)

const topN = 10

// JSON renders the report as indented JSON. Go serializes map keys in
// sorted order, so the output is byte-stable for a given report.
func JSON(r *types.Report) ([]byte, error) {
	out, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling report: %w", err)
	}
	return append(out, '\n'), nil
}

// Markdown renders the human-facing summary.
func Markdown(r *types.Report) string {
	var b strings.Builder

	b.WriteString("# Code Quotient Report\n\n")
	fmt.Fprintf(&b, "Overall score: **%.1f/100**", r.OverallScore)
	if r.Partial {
		b.WriteString(" (partial)")
	}
	b.WriteString("\n\n")

	b.WriteString("## Pillars\n\n")
	b.WriteString("| Pillar | Score | Available |\n")
	b.WriteString("| --- | --- | --- |\n")
	for _, p := range types.Pillars {
		ps := r.PillarScores[p]
		if ps.Available {
			fmt.Fprintf(&b, "| %s | %.3f | yes |\n", p, ps.Score)
		} else {
			fmt.Fprintf(&b, "| %s | - | no (%s) |\n", p, ps.Reason)
		}
	}
	fmt.Fprintf(&b, "\nGrade confidence interval: %.2f-%.2f at level %.2f\n\n",
		r.Confidence.IntervalLow, r.Confidence.IntervalHigh, r.Confidence.Level)

	b.WriteString("## Findings\n\n")
	if len(r.Findings) == 0 {
		b.WriteString("- None detected\n")
	}
	for _, f := range r.Findings {
		if f.Line > 0 {
			fmt.Fprintf(&b, "- `%s:%d` [%s/%s] %s\n", f.File, f.Line, f.Category, f.Severity, f.Message)
		} else {
			fmt.Fprintf(&b, "- `%s` [%s/%s] %s\n", f.File, f.Category, f.Severity, f.Message)
		}
	}
	b.WriteString("\n")

	writeTopSection(&b, "Top Duplication", r.Files,
		func(f types.FileReport) float64 { return f.Metrics.DuplicationRatio },
		func(f types.FileReport) string {
			return fmt.Sprintf("- `%s` (ratio %.2f)", f.Path, f.Metrics.DuplicationRatio)
		})
	writeTopSection(&b, "Top Cognitive Complexity", r.Files,
		func(f types.FileReport) float64 { return f.Metrics.ComplexityPerLOC },
		func(f types.FileReport) string {
			return fmt.Sprintf("- `%s` (complexity %d, per LOC %.2f)",
				f.Path, f.Metrics.CognitiveComplexity, f.Metrics.ComplexityPerLOC)
		})

	b.WriteString("## Meta\n\n")
	fmt.Fprintf(&b, "- cq version: %s\n", r.Meta.Version)
	if r.Meta.GeneratedAt != "" {
		fmt.Fprintf(&b, "- generated: %s\n", r.Meta.GeneratedAt)
	}
	fmt.Fprintf(&b, "- files analyzed: %d\n", r.Meta.FileCount)
	if r.Meta.LintCmd != "" {
		fmt.Fprintf(&b, "- lint: `%s`\n", r.Meta.LintCmd)
	}
	if r.Meta.TypeCmd != "" {
		fmt.Fprintf(&b, "- typing: `%s`\n", r.Meta.TypeCmd)
	}
	if r.Meta.Commit != "" {
		dirty := ""
		if r.Meta.Dirty {
			dirty = " (dirty)"
		}
		fmt.Fprintf(&b, "- commit: %s%s\n", r.Meta.Commit, dirty)
	}

	return b.String()
}

// writeTopSection lists the highest-valued files for one metric,
// breaking value ties by path so the rendering is deterministic.
func writeTopSection(b *strings.Builder, title string, files []types.FileReport,
	value func(types.FileReport) float64, line func(types.FileReport) string) {

	ranked := make([]types.FileReport, len(files))
	copy(ranked, files)
	sort.Slice(ranked, func(i, j int) bool {
		vi, vj := value(ranked[i]), value(ranked[j])
		if vi != vj {
			return vi > vj
		}
		return ranked[i].Path < ranked[j].Path
	})
	if len(ranked) > topN {
		ranked = ranked[:topN]
	}

	fmt.Fprintf(b, "## %s\n\n", title)
	wrote := false
	for _, f := range ranked {
		if value(f) == 0 {
			continue
		}
		b.WriteString(line(f))
		b.WriteString("\n")
		wrote = true
	}
	if !wrote {
		b.WriteString("- None\n")
	}
	b.WriteString("\n")
}
