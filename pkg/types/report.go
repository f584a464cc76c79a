// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Implements: prd003-report-model R1, R3, R4;
//
//	docs/ARCHITECTURE § Report Model.
package types

// Pillar names the five quality pillars.
type Pillar string

const (
	PillarDuplication  Pillar = "duplication"
	PillarArchitecture Pillar = "architecture"
	PillarLint         Pillar = "lint"
	PillarTyping       Pillar = "typing"
	PillarComplexity   Pillar = "complexity"
)

// Pillars lists all pillar names in canonical report order.
var Pillars = []Pillar{
	PillarDuplication,
	PillarArchitecture,
	PillarLint,
	PillarTyping,
	PillarComplexity,
}

// PillarScore is a normalized quality score in [0,1] plus an
// availability flag. Unavailable pillars carry a reason and a zero
// score that never enters the weighted overall.
type PillarScore struct {
	Score     float64 `json:"score"`
	Available bool    `json:"available"`
	Reason    string  `json:"reason,omitempty"`
}

// ConfidenceInterval is a two-sided bootstrap interval over the
// per-file grade distribution, on the 0-100 grade scale.
type ConfidenceInterval struct {
	IntervalLow  float64 `json:"interval_low"`
	IntervalHigh float64 `json:"interval_high"`
	Level        float64 `json:"level"`
}

// FileMetrics holds the per-file raw metric values.
type FileMetrics struct {
	DuplicationRatio    float64 `json:"duplication_ratio"`
	LintDiagnostics     int     `json:"lint_diagnostics"`
	LintScore           float64 `json:"lint_score"`
	TypingErrors        int     `json:"typing_errors"`
	TypingScore         float64 `json:"typing_score"`
	CognitiveComplexity int     `json:"cognitive_complexity"`
	ComplexityPerLOC    float64 `json:"complexity_per_loc"`
	ComplexityScore     float64 `json:"complexity_score"`
}

// FileReport is the per-file section of the report. Confidence in
// (0,1] discounts the grade of small, unparsed, or tool-degraded
// files; it grows with the logarithm of the file size.
type FileReport struct {
	Path       string      `json:"path"`
	LOC        int         `json:"loc"`
	Role       string      `json:"role"`
	Parsed     bool        `json:"parsed"`
	Metrics    FileMetrics `json:"metrics"`
	Grade      float64     `json:"grade"`
	Confidence float64     `json:"confidence"`
}

// Meta records provenance for a report.
type Meta struct {
	Version     string `json:"cq_version"`
	GeneratedAt string `json:"generated_at,omitempty"`
	Root        string `json:"root"`
	FileCount   int    `json:"file_count"`
	LintCmd     string `json:"lint_cmd,omitempty"`
	TypeCmd     string `json:"type_cmd,omitempty"`
	Commit      string `json:"commit,omitempty"`
	Dirty       bool   `json:"dirty,omitempty"`
}

// Report is the complete analysis result. It is owned by the
// aggregator, immutable once produced, and consumed by the renderers.
type Report struct {
	Meta         Meta                   `json:"meta"`
	OverallScore float64                `json:"overall_score"`
	Partial      bool                   `json:"partial"`
	PillarScores map[Pillar]PillarScore `json:"pillars"`
	Confidence   ConfidenceInterval     `json:"confidence"`
	Findings     []Finding              `json:"findings"`
	Files        []FileReport           `json:"files"`
}
