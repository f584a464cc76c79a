// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Implements: prd001-analyzer-interface R3, R4 (configuration).
package analyzer

import (
	"fmt"
	"math"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/petar-djukic/cq/internal/archcheck"
	"github.com/petar-djukic/cq/internal/bootstrap"
	"github.com/petar-djukic/cq/internal/cogcomplex"
	"github.com/petar-djukic/cq/internal/dupes"
	"github.com/petar-djukic/cq/internal/toolrunner"
	"github.com/petar-djukic/cq/pkg/types"
)

// weightEpsilon bounds how far pillar weights may drift from 1.0.
const weightEpsilon = 1e-6

// Weights are the per-pillar weights of the overall score. They must
// sum to 1.0 within a small epsilon.
type Weights struct {
	Duplication  float64 `mapstructure:"duplication" yaml:"duplication"`
	Architecture float64 `mapstructure:"architecture" yaml:"architecture"`
	Lint         float64 `mapstructure:"lint" yaml:"lint"`
	Typing       float64 `mapstructure:"typing" yaml:"typing"`
	Complexity   float64 `mapstructure:"complexity" yaml:"complexity"`
}

func (w Weights) sum() float64 {
	return w.Duplication + w.Architecture + w.Lint + w.Typing + w.Complexity
}

// DuplicationConfig parameterizes the winnowing detector.
type DuplicationConfig struct {
	K         int `mapstructure:"k" yaml:"k"`                   // k-gram length in tokens
	W         int `mapstructure:"w" yaml:"w"`                   // Winnowing window in k-grams
	MinTokens int `mapstructure:"min_tokens" yaml:"min_tokens"` // Minimum clone length L
}

func (c DuplicationConfig) engine() dupes.Config {
	return dupes.Config{K: c.K, W: c.W, MinTokens: c.MinTokens}
}

// BootstrapConfig parameterizes the confidence estimator.
type BootstrapConfig struct {
	Resamples int     `mapstructure:"resamples" yaml:"resamples"`
	Level     float64 `mapstructure:"level" yaml:"level"`
	Seed      int64   `mapstructure:"seed" yaml:"seed"`
}

func (c BootstrapConfig) engine() bootstrap.Config {
	return bootstrap.Config{Resamples: c.Resamples, Level: c.Level, Seed: c.Seed}
}

// ToolConfig describes one external tool invocation.
type ToolConfig struct {
	Command        string `mapstructure:"command" yaml:"command"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds" yaml:"timeout_seconds"`
}

func (c ToolConfig) tool(name string) toolrunner.Tool {
	return toolrunner.Tool{
		Name:    name,
		Command: c.Command,
		Timeout: time.Duration(c.TimeoutSeconds) * time.Second,
	}
}

// ScoringConfig tunes how raw metrics map to 0-100 scores.
type ScoringConfig struct {
	ComplexityTargetPerLOC float64 `mapstructure:"complexity_target_per_loc" yaml:"complexity_target_per_loc"`
	ComplexityHardCap      int     `mapstructure:"complexity_hard_cap" yaml:"complexity_hard_cap"`
	ComplexityPercentile   float64 `mapstructure:"complexity_percentile" yaml:"complexity_percentile"`
	LintDiagnosticWeight   float64 `mapstructure:"lint_diagnostic_weight" yaml:"lint_diagnostic_weight"`
	TypingZeroDensity      float64 `mapstructure:"typing_zero_density" yaml:"typing_zero_density"`
}

func (c ScoringConfig) complexityScale() cogcomplex.Scale {
	return cogcomplex.Scale{
		TargetPerLOC: c.ComplexityTargetPerLOC,
		HardCap:      c.ComplexityHardCap,
		Percentile:   c.ComplexityPercentile,
	}
}

// Config configures an analysis run.
//
// Implements: prd001-analyzer-interface R3.1-R3.9.
type Config struct {
	Weights     Weights            `mapstructure:"weights" yaml:"weights"`
	Duplication DuplicationConfig  `mapstructure:"duplication" yaml:"duplication"`
	Bootstrap   BootstrapConfig    `mapstructure:"bootstrap" yaml:"bootstrap"`
	Layers      []types.LayerRule  `mapstructure:"layers" yaml:"layers"`
	Roles       map[string]float64 `mapstructure:"roles" yaml:"roles"`
	Lint        ToolConfig         `mapstructure:"lint" yaml:"lint"`
	Typing      ToolConfig         `mapstructure:"typing" yaml:"typing"`
	Scoring     ScoringConfig      `mapstructure:"scoring" yaml:"scoring"`
	Concurrency int                `mapstructure:"concurrency" yaml:"concurrency"`

	// Logger receives pipeline progress; nil means warnings only.
	Logger *logrus.Logger `mapstructure:"-" yaml:"-"`

	// Clock stamps report metadata; nil means time.Now. Tests inject a
	// fixed clock to get byte-identical reports.
	Clock func() time.Time `mapstructure:"-" yaml:"-"`
}

// Default returns the documented default configuration. The defaults
// carry no layer model; architecture conformance activates once rules
// are declared.
func Default() Config {
	return Config{
		Weights: Weights{
			Duplication:  0.20,
			Architecture: 0.20,
			Lint:         0.25,
			Typing:       0.15,
			Complexity:   0.20,
		},
		Duplication: DuplicationConfig{K: 5, W: 4, MinTokens: 10},
		Bootstrap:   BootstrapConfig{Resamples: 100, Level: 0.90, Seed: 1337},
		Roles: map[string]float64{
			"default":   1.0,
			"test":      0.35,
			"config":    0.35,
			"vendor":    0.2,
			"generated": 0.0,
		},
		Lint:   ToolConfig{Command: "go vet ./...", TimeoutSeconds: 90},
		Typing: ToolConfig{Command: "go build ./...", TimeoutSeconds: 120},
		Scoring: ScoringConfig{
			ComplexityTargetPerLOC: 0.25,
			ComplexityHardCap:      50,
			LintDiagnosticWeight:   1.0,
			TypingZeroDensity:      20,
		},
	}
}

// validateConfig rejects malformed configuration before any analysis
// runs. No partial report is ever produced for these cases.
func validateConfig(cfg Config) error {
	if diff := math.Abs(cfg.Weights.sum() - 1.0); diff > weightEpsilon {
		return fmt.Errorf("pillar weights sum to %v, want 1.0", cfg.Weights.sum())
	}
	if cfg.Duplication.K <= 0 {
		return fmt.Errorf("duplication k must be positive, got %d", cfg.Duplication.K)
	}
	if cfg.Duplication.W <= 0 {
		return fmt.Errorf("duplication w must be positive, got %d", cfg.Duplication.W)
	}
	if cfg.Duplication.MinTokens <= 0 {
		return fmt.Errorf("duplication min_tokens must be positive, got %d", cfg.Duplication.MinTokens)
	}
	if cfg.Bootstrap.Resamples <= 0 {
		return fmt.Errorf("bootstrap resamples must be positive, got %d", cfg.Bootstrap.Resamples)
	}
	if cfg.Bootstrap.Level <= 0 || cfg.Bootstrap.Level >= 1 {
		return fmt.Errorf("bootstrap level must be in (0,1), got %v", cfg.Bootstrap.Level)
	}
	for role, w := range cfg.Roles {
		if w < 0 {
			return fmt.Errorf("role weight for %q is negative", role)
		}
	}
	if err := archcheck.ValidateRules(cfg.Layers); err != nil {
		return fmt.Errorf("layer model: %v", err)
	}
	return nil
}

// applyDefaults fills zero-value scoring knobs so a hand-built Config
// with only weights and duplication settings still behaves sensibly.
func applyDefaults(cfg *Config) {
	def := Default()
	if cfg.Scoring.ComplexityTargetPerLOC == 0 {
		cfg.Scoring.ComplexityTargetPerLOC = def.Scoring.ComplexityTargetPerLOC
	}
	if cfg.Scoring.ComplexityHardCap == 0 {
		cfg.Scoring.ComplexityHardCap = def.Scoring.ComplexityHardCap
	}
	if cfg.Scoring.LintDiagnosticWeight == 0 {
		cfg.Scoring.LintDiagnosticWeight = def.Scoring.LintDiagnosticWeight
	}
	if cfg.Scoring.TypingZeroDensity == 0 {
		cfg.Scoring.TypingZeroDensity = def.Scoring.TypingZeroDensity
	}
	if cfg.Roles == nil {
		cfg.Roles = def.Roles
	}
}
