// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package report

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petar-djukic/cq/pkg/types"
)

func sampleReport() *types.Report {
	return &types.Report{
		Meta: types.Meta{
			Version:     "0.1.0",
			GeneratedAt: "2026-01-01T00:00:00Z",
			Root:        "/tmp/fixture",
			FileCount:   2,
			LintCmd:     "go vet ./...",
			Commit:      "abc123",
			Dirty:       true,
		},
		OverallScore: 87.5,
		Partial:      true,
		PillarScores: map[types.Pillar]types.PillarScore{
			types.PillarDuplication:  {Score: 0.9, Available: true},
			types.PillarArchitecture: {Reason: "no layer model declared"},
			types.PillarLint:         {Score: 1.0, Available: true},
			types.PillarTyping:       {Score: 1.0, Available: true},
			types.PillarComplexity:   {Score: 0.7, Available: true},
		},
		Confidence: types.ConfidenceInterval{IntervalLow: 80.1, IntervalHigh: 93.4, Level: 0.90},
		Findings: []types.Finding{
			{File: "a/a.go", Line: 3, Category: types.CategoryDuplication,
				Severity: types.SeverityWarning, Message: "duplicated block of 40 tokens"},
		},
		Files: []types.FileReport{
			{Path: "a/a.go", LOC: 14, Role: "default", Parsed: true,
				Metrics: types.FileMetrics{DuplicationRatio: 0.8, CognitiveComplexity: 3, ComplexityPerLOC: 0.21},
				Grade:   78.0},
			{Path: "b/b.go", LOC: 5, Role: "default", Parsed: true, Grade: 100.0},
		},
	}
}

func TestJSON_RoundTrips(t *testing.T) {
	out, err := JSON(sampleReport())
	require.NoError(t, err)

	assert.Equal(t, byte('\n'), out[len(out)-1], "output ends with a newline")

	var decoded types.Report
	require.NoError(t, json.Unmarshal(out, &decoded))
	assert.Equal(t, 87.5, decoded.OverallScore)
	assert.True(t, decoded.Partial)
	assert.Len(t, decoded.Files, 2)
}

func TestJSON_Stable(t *testing.T) {
	a, err := JSON(sampleReport())
	require.NoError(t, err)
	b, err := JSON(sampleReport())
	require.NoError(t, err)

	assert.Equal(t, a, b)
}

func TestJSON_SeverityRendersAsName(t *testing.T) {
	out, err := JSON(sampleReport())
	require.NoError(t, err)

	assert.Contains(t, string(out), `"severity": "warning"`)
}

func TestMarkdown_Sections(t *testing.T) {
	md := Markdown(sampleReport())

	assert.Contains(t, md, "# Code Quotient Report")
	assert.Contains(t, md, "Overall score: **87.5/100** (partial)")
	assert.Contains(t, md, "| duplication | 0.900 | yes |")
	assert.Contains(t, md, "| architecture | - | no (no layer model declared) |")
	assert.Contains(t, md, "Grade confidence interval: 80.10-93.40 at level 0.90")
	assert.Contains(t, md, "- `a/a.go:3` [duplication/warning] duplicated block of 40 tokens")
	assert.Contains(t, md, "## Top Duplication")
	assert.Contains(t, md, "- `a/a.go` (ratio 0.80)")
	assert.Contains(t, md, "## Top Cognitive Complexity")
	assert.Contains(t, md, "- `a/a.go` (complexity 3, per LOC 0.21)")
	assert.Contains(t, md, "- generated: 2026-01-01T00:00:00Z")
	assert.Contains(t, md, "- commit: abc123 (dirty)")
	assert.Contains(t, md, "- lint: `go vet ./...`")
}

func TestMarkdown_EmptyFindings(t *testing.T) {
	r := sampleReport()
	r.Findings = nil
	r.Files = nil

	md := Markdown(r)

	assert.Contains(t, md, "- None detected")
	assert.Contains(t, md, "## Top Duplication\n\n- None\n")
}
