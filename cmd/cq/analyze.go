// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Implements: prd012-cli R2 (analyze command).
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/petar-djukic/cq/internal/report"
	"github.com/petar-djukic/cq/pkg/analyzer"
	"github.com/petar-djukic/cq/pkg/types"
)

// newAnalyzeCmd creates the "analyze" command.
func newAnalyzeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "analyze",
		Short: "Analyze a repository and emit the quality report",
		Long: "Analyze scans the working directory, runs the five-pillar analysis, " +
			"and writes the report in the requested formats.",
		RunE: runAnalyze,
	}
}

// loadConfig resolves the analyzer configuration from v, layered over
// the documented defaults.
func loadConfig(v *viper.Viper) (analyzer.Config, error) {
	cfg := analyzer.Default()
	if err := v.Unmarshal(&cfg); err != nil {
		return analyzer.Config{}, fmt.Errorf("reading configuration: %w", err)
	}
	return cfg, nil
}

// runAnalyze executes the analysis and writes the report.
func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(viper.GetViper())
	if err != nil {
		return err
	}
	cfg.Logger = newLogger(viper.GetString("log_level"))

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	rep, err := analyzer.Analyze(ctx, viper.GetString("workdir"), cfg)
	if err != nil {
		if errors.Is(err, analyzer.ErrInvalidConfig) || errors.Is(err, analyzer.ErrEmptyRepository) {
			return err
		}
		return fmt.Errorf("analysis failed: %w", err)
	}

	outDir := viper.GetString("report.out_dir")
	for _, format := range viper.GetStringSlice("report.format") {
		if err := writeReport(rep, format, outDir); err != nil {
			return err
		}
	}
	return nil
}

// writeReport renders one format to the output directory, or to
// stdout when no directory is configured.
func writeReport(rep *types.Report, format, outDir string) error {
	var data []byte
	var name string

	switch format {
	case "json":
		out, err := report.JSON(rep)
		if err != nil {
			return err
		}
		data, name = out, "cq-report.json"
	case "md":
		data, name = []byte(report.Markdown(rep)), "cq-report.md"
	default:
		return fmt.Errorf("unknown report format %q", format)
	}

	if outDir == "" {
		_, err := os.Stdout.Write(data)
		return err
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	path := filepath.Join(outDir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

func newLogger(level string) *logrus.Logger {
	log := logrus.New()
	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		log.Warnf("invalid log level %q, using warn", level)
		parsed = logrus.WarnLevel
	}
	log.SetLevel(parsed)
	log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	log.SetOutput(os.Stderr)
	return log
}
