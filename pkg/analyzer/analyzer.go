// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package analyzer defines the public interface for cq, a weighted
// code-quality analyzer producing deterministic reports.
// Implements: prd001-analyzer-interface R1, R2, R6;
//
//	docs/ARCHITECTURE § Analyzer Interface.
package analyzer

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/petar-djukic/cq/internal/runner"
	"github.com/petar-djukic/cq/internal/source"
	"github.com/petar-djukic/cq/pkg/types"
)

// Version is the cq release version stamped into report metadata.
const Version = "0.1.0"

// Error types for the analyzer API.
//
// Implements: prd001-analyzer-interface R6.1-R6.2.
var (
	// ErrInvalidConfig is returned before any file is analyzed when the
	// configuration fails validation.
	ErrInvalidConfig = errors.New("invalid config")

	// ErrEmptyRepository is returned when the snapshot contains no Go
	// files at all; distinct from a partial report.
	ErrEmptyRepository = errors.New("repository contains no Go files")
)

// Analyze scans the repository rooted at dir and runs the full
// pipeline: normalization, duplication detection, architecture
// conformance, complexity scoring, external lint/typing tools,
// confidence estimation, and aggregation. The same directory content,
// configuration, and seed always produce an identical Report.
//
// Configuration problems fail fast with ErrInvalidConfig before any
// analysis starts; an unreadable or file-less repository yields
// ErrEmptyRepository. Unavailable external tools degrade the report
// to partial instead of failing.
func Analyze(ctx context.Context, dir string, cfg Config) (*types.Report, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	applyDefaults(&cfg)

	snap, err := source.Scan(dir, cfg.Concurrency)
	if err != nil {
		return nil, fmt.Errorf("scanning repository: %w", err)
	}
	if len(snap.Files) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyRepository, snap.Root)
	}

	return runner.Run(ctx, snap, runnerConfig(cfg))
}

// runnerConfig converts the public Config into the runner's resolved
// form.
func runnerConfig(cfg Config) runner.Config {
	log := cfg.Logger
	if log == nil {
		log = logrus.New()
		log.SetLevel(logrus.WarnLevel)
	}

	return runner.Config{
		Version:     Version,
		Duplication: cfg.Duplication.engine(),
		Bootstrap:   cfg.Bootstrap.engine(),
		Layers:      cfg.Layers,
		RoleWeights: cfg.Roles,
		PillarWeights: map[types.Pillar]float64{
			types.PillarDuplication:  cfg.Weights.Duplication,
			types.PillarArchitecture: cfg.Weights.Architecture,
			types.PillarLint:         cfg.Weights.Lint,
			types.PillarTyping:       cfg.Weights.Typing,
			types.PillarComplexity:   cfg.Weights.Complexity,
		},
		LintTool:          cfg.Lint.tool("lint"),
		TypeTool:          cfg.Typing.tool("typing"),
		LintWeight:        cfg.Scoring.LintDiagnosticWeight,
		TypingZeroDensity: cfg.Scoring.TypingZeroDensity,
		ComplexityScale:   cfg.Scoring.complexityScale(),
		Concurrency:       cfg.Concurrency,
		Log:               log,
		Now:               cfg.Clock,
	}
}
