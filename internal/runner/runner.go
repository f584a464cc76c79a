// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package runner orchestrates the analysis pipeline: normalization,
// duplication, complexity, architecture conformance, external tools,
// confidence estimation, and aggregation into one Report.
// Implements: prd010-runner R1-R4;
//
//	docs/ARCHITECTURE § Aggregator, Lifecycle.
package runner

import (
	"context"
	"math"
	"runtime"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/petar-djukic/cq/internal/archcheck"
	"github.com/petar-djukic/cq/internal/bootstrap"
	"github.com/petar-djukic/cq/internal/cogcomplex"
	"github.com/petar-djukic/cq/internal/dupes"
	"github.com/petar-djukic/cq/internal/normalize"
	"github.com/petar-djukic/cq/internal/source"
	"github.com/petar-djukic/cq/internal/toolrunner"
	"github.com/petar-djukic/cq/pkg/types"
)

// Config holds the fully resolved settings the runner needs. The
// public package validates and defaults before building this.
type Config struct {
	Version string

	Duplication dupes.Config
	Bootstrap   bootstrap.Config
	Layers      []types.LayerRule

	RoleWeights   map[string]float64
	PillarWeights map[types.Pillar]float64

	LintTool          toolrunner.Tool
	TypeTool          toolrunner.Tool
	LintWeight        float64 // Score deduction per lint diagnostic
	TypingZeroDensity float64 // Type errors per 1k LOC that zero the score

	ComplexityScale cogcomplex.Scale

	Concurrency int
	Log         *logrus.Logger
	Now         func() time.Time // Report timestamp source; nil means time.Now
}

// Run executes the full pipeline over a scanned snapshot. The snapshot
// must contain at least one file; the caller enforces that.
func Run(ctx context.Context, snap *source.Snapshot, cfg Config) (*types.Report, error) {
	log := cfg.Log
	if log == nil {
		log = logrus.StandardLogger()
	}
	concurrency := cfg.Concurrency
	if concurrency <= 0 {
		concurrency = runtime.NumCPU()
	}

	var findings []types.Finding
	for _, pe := range snap.Errors {
		findings = append(findings, types.Finding{
			File:     pe.FilePath,
			Category: types.CategoryParse,
			Severity: types.SeverityWarning,
			Message:  "parse failed, file excluded from duplication and complexity: " + pe.Err.Error(),
		})
	}

	// Per-file normalization and complexity scoring are pure functions
	// of the file; fan out with positional result slots so output never
	// depends on scheduling. Files are already path-sorted.
	parsed := parsedFiles(snap)
	tokens := make([]normalize.FileTokens, len(parsed))
	complexities := make([]cogcomplex.FileScore, len(parsed))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for i, f := range parsed {
		i, f := i, f
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			tokens[i] = normalize.Normalize(snap.FileSet, f.Path, f.AST)
			complexities[i] = cogcomplex.File(snap.FileSet, f.Path, f.AST)
			return nil
		})
	}

	// External tools run alongside normalization; they only read the
	// working tree.
	var lintResult, typeResult toolrunner.Result
	g.Go(func() error {
		lintResult = toolrunner.Run(gctx, snap.Root, cfg.LintTool)
		return nil
	})
	g.Go(func() error {
		typeResult = toolrunner.Run(gctx, snap.Root, cfg.TypeTool)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if !lintResult.Available {
		log.WithField("reason", lintResult.Reason).Warn("lint pillar unavailable")
	}
	if !typeResult.Available {
		log.WithField("reason", typeResult.Reason).Warn("typing pillar unavailable")
	}

	// Barrier 1: the fingerprint index needs every file's tokens.
	dupResult := dupes.Analyze(tokens, cfg.Duplication)
	findings = append(findings, dupResult.Findings...)

	// Barrier 2: the import graph needs every file's imports.
	var archResult archcheck.Result
	archAvailable := len(cfg.Layers) > 0
	if archAvailable {
		graph := archcheck.BuildGraph(tokens, snap.ModulePath)
		archResult = archcheck.Check(graph, cfg.Layers)
		findings = append(findings, archResult.Findings...)
	}

	lintCounts := toolrunner.CountByFile(lintResult.Diagnostics)
	typeCounts := toolrunner.CountByFile(typeResult.Diagnostics)

	fileReports := buildFileReports(snap, parsed, dupResult, complexities,
		lintResult, typeResult, lintCounts, typeCounts, cfg)

	var samples []types.MetricSample
	for _, fr := range fileReports {
		samples = append(samples, types.MetricSample{Path: fr.Path, Value: fr.Grade})
	}
	interval := bootstrap.Estimate(samples, cfg.Bootstrap)

	pillars := pillarScores(snap, fileReports, dupResult, archResult, archAvailable,
		lintResult, typeResult, cfg)
	overall, partial := overallScore(pillars, cfg.PillarWeights)

	sortFindings(findings)

	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	report := &types.Report{
		Meta: types.Meta{
			Version:     cfg.Version,
			GeneratedAt: now().UTC().Format(time.RFC3339),
			Root:        snap.Root,
			FileCount:   len(snap.Files),
			LintCmd:     cfg.LintTool.Command,
			TypeCmd:     cfg.TypeTool.Command,
			Commit:      snap.Commit,
			Dirty:       snap.Dirty,
		},
		OverallScore: overall,
		Partial:      partial,
		PillarScores: pillars,
		Confidence: types.ConfidenceInterval{
			IntervalLow:  interval.Low,
			IntervalHigh: interval.High,
			Level:        interval.Level,
		},
		Findings: findings,
		Files:    fileReports,
	}

	log.WithFields(logrus.Fields{
		"files":   len(snap.Files),
		"overall": overall,
		"partial": partial,
	}).Info("analysis complete")

	return report, nil
}

// parsedFiles filters the snapshot down to successfully parsed files,
// preserving path order.
func parsedFiles(snap *source.Snapshot) []source.File {
	var out []source.File
	for _, f := range snap.Files {
		if f.Parsed && f.AST != nil {
			out = append(out, f)
		}
	}
	return out
}

// buildFileReports assembles the per-file metric section. Unparsed
// files carry zero duplication/complexity metrics and are excluded
// from those pillars; lint and typing still cover them.
func buildFileReports(
	snap *source.Snapshot,
	parsed []source.File,
	dupResult dupes.Result,
	complexities []cogcomplex.FileScore,
	lintResult, typeResult toolrunner.Result,
	lintCounts, typeCounts map[string]int,
	cfg Config,
) []types.FileReport {
	complexityByPath := make(map[string]cogcomplex.FileScore, len(complexities))
	for _, c := range complexities {
		complexityByPath[c.Path] = c
	}

	reports := make([]types.FileReport, 0, len(snap.Files))
	for _, f := range snap.Files {
		fr := types.FileReport{
			Path:   f.Path,
			LOC:    f.LOC,
			Role:   f.Role,
			Parsed: f.Parsed,
		}

		var gradeSum, weightSum float64
		w := cfg.PillarWeights

		if f.Parsed {
			ratio := dupResult.Ratios[f.Path]
			fr.Metrics.DuplicationRatio = ratio
			gradeSum += (1 - ratio) * 100 * w[types.PillarDuplication]
			weightSum += w[types.PillarDuplication]

			raw := cogcomplex.FileRaw(complexityByPath[f.Path], cfg.ComplexityScale)
			fr.Metrics.CognitiveComplexity = raw
			if f.LOC > 0 {
				fr.Metrics.ComplexityPerLOC = float64(raw) / float64(f.LOC)
			}
			fr.Metrics.ComplexityScore = cogcomplex.Score(raw, f.LOC, cfg.ComplexityScale)
			gradeSum += fr.Metrics.ComplexityScore * w[types.PillarComplexity]
			weightSum += w[types.PillarComplexity]
		}

		if lintResult.Available {
			fr.Metrics.LintDiagnostics = lintCounts[f.Path]
			fr.Metrics.LintScore = toolrunner.LintScore(lintCounts[f.Path], cfg.LintWeight)
			gradeSum += fr.Metrics.LintScore * w[types.PillarLint]
			weightSum += w[types.PillarLint]
		}
		if typeResult.Available {
			fr.Metrics.TypingErrors = typeCounts[f.Path]
			fr.Metrics.TypingScore = toolrunner.TypingScore(typeCounts[f.Path], f.LOC, cfg.TypingZeroDensity)
			gradeSum += fr.Metrics.TypingScore * w[types.PillarTyping]
			weightSum += w[types.PillarTyping]
		}

		if weightSum > 0 {
			fr.Grade = gradeSum / weightSum
		}
		fr.Confidence = fileConfidence(f, lintResult.Available, typeResult.Available)
		reports = append(reports, fr)
	}
	return reports
}

// fileConfidence estimates how much the file's grade can be trusted.
// The base grows with the logarithm of the file size and saturates at
// 1.0 around a thousand lines; parse failures and degraded tools
// discount it multiplicatively.
func fileConfidence(f source.File, lintOK, typeOK bool) float64 {
	conf := math.Log10(float64(f.LOC)+1) / 3
	if conf > 1 {
		conf = 1
	}
	if !f.Parsed {
		conf *= 0.5
	}
	if !lintOK {
		conf *= 0.85
	}
	if !typeOK {
		conf *= 0.85
	}
	return conf
}
