// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package runner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petar-djukic/cq/internal/archcheck"
	"github.com/petar-djukic/cq/internal/dupes"
	"github.com/petar-djukic/cq/internal/source"
	"github.com/petar-djukic/cq/internal/toolrunner"
	"github.com/petar-djukic/cq/pkg/types"
)

func defaultWeights() map[types.Pillar]float64 {
	return map[types.Pillar]float64{
		types.PillarDuplication:  0.20,
		types.PillarArchitecture: 0.20,
		types.PillarLint:         0.25,
		types.PillarTyping:       0.15,
		types.PillarComplexity:   0.20,
	}
}

func available(score float64) types.PillarScore {
	return types.PillarScore{Score: score, Available: true}
}

func TestOverallScore_AllAvailable(t *testing.T) {
	pillars := map[types.Pillar]types.PillarScore{
		types.PillarDuplication:  available(1.0),
		types.PillarArchitecture: available(1.0),
		types.PillarLint:         available(0.8),
		types.PillarTyping:       available(1.0),
		types.PillarComplexity:   available(0.5),
	}

	overall, partial := overallScore(pillars, defaultWeights())

	assert.False(t, partial)
	// 0.2*1 + 0.2*1 + 0.25*0.8 + 0.15*1 + 0.2*0.5, times 100.
	assert.InDelta(t, 85.0, overall, 1e-9)
}

func TestOverallScore_RedistributesUnavailableWeight(t *testing.T) {
	pillars := map[types.Pillar]types.PillarScore{
		types.PillarDuplication:  available(1.0),
		types.PillarArchitecture: {Reason: "no layer model declared"},
		types.PillarLint:         available(1.0),
		types.PillarTyping:       {Reason: "typing unavailable"},
		types.PillarComplexity:   available(0.5),
	}

	overall, partial := overallScore(pillars, defaultWeights())

	assert.True(t, partial)
	// Available weight is 0.65; each remaining pillar is scaled by 1/0.65.
	want := (0.20*1.0 + 0.25*1.0 + 0.20*0.5) / 0.65 * 100
	assert.InDelta(t, want, overall, 1e-9)
}

func TestOverallScore_NothingAvailable(t *testing.T) {
	pillars := map[types.Pillar]types.PillarScore{}
	for _, p := range types.Pillars {
		pillars[p] = types.PillarScore{Reason: "unavailable"}
	}

	overall, partial := overallScore(pillars, defaultWeights())

	assert.Equal(t, 0.0, overall)
	assert.True(t, partial)
}

func TestRoleWeight_FallbackChain(t *testing.T) {
	weights := map[string]float64{
		source.RoleTest:    0.35,
		source.RoleDefault: 1.0,
	}

	assert.Equal(t, 0.35, roleWeight(weights, source.RoleTest))
	assert.Equal(t, 1.0, roleWeight(weights, "mystery"), "unknown roles use the default weight")
	assert.Equal(t, 1.0, roleWeight(nil, "anything"), "no table at all means weight 1")
}

func TestPillarScores_RoleWeighting(t *testing.T) {
	cfg := Config{
		RoleWeights: map[string]float64{
			source.RoleDefault:   1.0,
			source.RoleGenerated: 0.0,
		},
		PillarWeights: defaultWeights(),
	}
	snap := &source.Snapshot{}
	fileReports := []types.FileReport{
		{
			Path: "core/a.go", LOC: 100, Role: source.RoleDefault, Parsed: true,
			Metrics: types.FileMetrics{
				DuplicationRatio: 0.5, ComplexityScore: 80,
				LintScore: 100, TypingScore: 100,
			},
		},
		{
			Path: "gen/b.pb.go", LOC: 4000, Role: source.RoleGenerated, Parsed: true,
			Metrics: types.FileMetrics{
				DuplicationRatio: 1.0, ComplexityScore: 0,
				LintScore: 0, TypingScore: 0,
			},
		},
	}

	pillars := pillarScores(snap, fileReports, dupes.Result{}, archcheck.Result{}, false,
		toolrunner.Result{Available: true}, toolrunner.Result{Available: true}, cfg)

	// The generated file carries zero weight, so only core/a.go counts.
	assert.InDelta(t, 0.5, pillars[types.PillarDuplication].Score, 1e-9)
	assert.InDelta(t, 0.8, pillars[types.PillarComplexity].Score, 1e-9)
	assert.InDelta(t, 1.0, pillars[types.PillarLint].Score, 1e-9)
	assert.InDelta(t, 1.0, pillars[types.PillarTyping].Score, 1e-9)

	arch := pillars[types.PillarArchitecture]
	assert.False(t, arch.Available)
	assert.Equal(t, "no layer model declared", arch.Reason)
}

func TestPillarScores_UnavailableTools(t *testing.T) {
	cfg := Config{PillarWeights: defaultWeights()}
	fileReports := []types.FileReport{
		{Path: "a.go", LOC: 10, Role: source.RoleDefault, Parsed: true},
	}

	pillars := pillarScores(&source.Snapshot{}, fileReports, dupes.Result{}, archcheck.Result{}, false,
		toolrunner.Result{Reason: "lint timed out"}, toolrunner.Result{Reason: "no command configured"}, cfg)

	assert.False(t, pillars[types.PillarLint].Available)
	assert.Equal(t, "lint timed out", pillars[types.PillarLint].Reason)
	assert.False(t, pillars[types.PillarTyping].Available)
	assert.Equal(t, "no command configured", pillars[types.PillarTyping].Reason)
	assert.True(t, pillars[types.PillarDuplication].Available)
}

func TestPillarScores_NoParseableFiles(t *testing.T) {
	cfg := Config{PillarWeights: defaultWeights()}
	fileReports := []types.FileReport{
		{Path: "broken.go", LOC: 10, Role: source.RoleDefault, Parsed: false,
			Metrics: types.FileMetrics{LintScore: 100, TypingScore: 100}},
	}

	pillars := pillarScores(&source.Snapshot{}, fileReports, dupes.Result{}, archcheck.Result{}, false,
		toolrunner.Result{Available: true}, toolrunner.Result{Available: true}, cfg)

	assert.False(t, pillars[types.PillarDuplication].Available)
	assert.Equal(t, "no parseable files", pillars[types.PillarDuplication].Reason)
	assert.False(t, pillars[types.PillarComplexity].Available)
	assert.True(t, pillars[types.PillarLint].Available, "lint still covers unparsed files")
}

func TestSortFindings(t *testing.T) {
	findings := []types.Finding{
		{File: "b.go", Line: 1, Severity: types.SeverityInfo, Message: "later file"},
		{File: "a.go", Line: 9, Severity: types.SeverityError, Message: "later line"},
		{File: "a.go", Line: 2, Severity: types.SeverityWarning, Message: "warning"},
		{File: "a.go", Line: 2, Severity: types.SeverityInfo, Message: "info first"},
	}

	sortFindings(findings)

	require.Len(t, findings, 4)
	assert.Equal(t, "info first", findings[0].Message)
	assert.Equal(t, "warning", findings[1].Message)
	assert.Equal(t, "later line", findings[2].Message)
	assert.Equal(t, "later file", findings[3].Message)
}
