// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Command cq analyzes a Go repository and produces a weighted
// code-quality report.
// Implements: prd012-cli R1-R5;
//
//	docs/ARCHITECTURE § Project Structure.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/petar-djukic/cq/pkg/analyzer"
)

func main() {
	rootCmd := newRootCmd()
	configureViper(viper.GetViper(), rootCmd.PersistentFlags())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// newRootCmd creates the cq root command with its global flags and
// subcommands.
func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "cq",
		Short: "Deterministic weighted code-quality reports for Go repositories",
		Long: "cq analyzes a repository across five pillars (duplication, architecture, " +
			"lint, typing, cognitive complexity) and produces a reproducible weighted report.",
	}

	rootCmd.PersistentFlags().String("workdir", ".", "Repository root directory")
	rootCmd.PersistentFlags().String("out-dir", "", "Directory for report files (stdout if empty)")
	rootCmd.PersistentFlags().StringSlice("format", []string{"json"}, "Report formats: json, md")
	rootCmd.PersistentFlags().String("log-level", "warn", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("lint-cmd", "", "Override lint tool command")
	rootCmd.PersistentFlags().String("type-cmd", "", "Override typing tool command")
	rootCmd.PersistentFlags().Int64("seed", 0, "Override bootstrap seed")

	rootCmd.AddCommand(newAnalyzeCmd())
	rootCmd.AddCommand(newInitConfigCmd())
	rootCmd.AddCommand(newVersionCmd())
	return rootCmd
}

// configureViper wires flags, environment variables, and the optional
// .cq.yaml config file into v. The tool-command and seed keys are
// seeded through SetDefault: viper resolves an unchanged bound flag
// after its defaults map, so loadConfig keeps the documented defaults
// unless the flag, an env var, or the config file overrides them.
func configureViper(v *viper.Viper, flags *pflag.FlagSet) {
	def := analyzer.Default()
	v.SetDefault("lint.command", def.Lint.Command)
	v.SetDefault("typing.command", def.Typing.Command)
	v.SetDefault("bootstrap.seed", def.Bootstrap.Seed)

	v.BindPFlag("workdir", flags.Lookup("workdir"))
	v.BindPFlag("report.out_dir", flags.Lookup("out-dir"))
	v.BindPFlag("report.format", flags.Lookup("format"))
	v.BindPFlag("log_level", flags.Lookup("log-level"))
	v.BindPFlag("lint.command", flags.Lookup("lint-cmd"))
	v.BindPFlag("typing.command", flags.Lookup("type-cmd"))
	v.BindPFlag("bootstrap.seed", flags.Lookup("seed"))

	// Env vars: CQ_WORKDIR, CQ_LOG_LEVEL, etc.
	v.SetEnvPrefix("CQ")
	v.AutomaticEnv()

	v.SetConfigName(".cq")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.ReadInConfig() // Ignore error; config file is optional.
}

// newVersionCmd creates the "version" command.
func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print cq version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("cq %s\n", analyzer.Version)
		},
	}
}

// newInitConfigCmd creates the "init-config" command, which dumps the
// default configuration as YAML for use as a .cq.yaml starting point.
func newInitConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init-config",
		Short: "Print the default configuration as YAML",
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := yaml.Marshal(analyzer.Default())
			if err != nil {
				return fmt.Errorf("marshaling default config: %w", err)
			}
			fmt.Print(string(out))
			return nil
		},
	}
}
