// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package runner

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petar-djukic/cq/internal/bootstrap"
	"github.com/petar-djukic/cq/internal/cogcomplex"
	"github.com/petar-djukic/cq/internal/dupes"
	"github.com/petar-djukic/cq/internal/source"
	"github.com/petar-djukic/cq/pkg/types"
)

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return log
}

func testRunnerConfig() Config {
	return Config{
		Version:     "test",
		Duplication: dupes.Config{K: 5, W: 4, MinTokens: 10},
		Bootstrap:   bootstrap.Config{Resamples: 100, Level: 0.90, Seed: 1337},
		RoleWeights: map[string]float64{
			source.RoleDefault: 1.0,
			source.RoleTest:    0.35,
		},
		PillarWeights: defaultWeights(),
		ComplexityScale: cogcomplex.Scale{
			TargetPerLOC: 0.25,
			HardCap:      50,
		},
		LintWeight:        1.0,
		TypingZeroDensity: 20,
		Log:               quietLogger(),
		Now:               func() time.Time { return time.Unix(1767225600, 0) },
	}
}

func scanTree(t *testing.T, files map[string]string) *source.Snapshot {
	t.Helper()
	root := t.TempDir()
	for path, content := range files {
		full := filepath.Join(root, filepath.FromSlash(path))
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
	}
	snap, err := source.Scan(root, 0)
	require.NoError(t, err)
	return snap
}

const dupFixtureA = `package a

func process(items []int) int {
	total := 0
	for _, item := range items {
		if item > 0 {
			total += item
		} else {
			total -= item
		}
	}
	total *= 2
	total += 7
	return total
}
`

const dupFixtureB = `package b

func tally(rows []int) int {
	sum := 0
	for _, row := range rows {
		if row > 10 {
			sum += row
		} else {
			sum -= row
		}
	}
	sum *= 99
	sum += 3
	return sum
}
`

func TestRun_DuplicatedPairReported(t *testing.T) {
	snap := scanTree(t, map[string]string{
		"go.mod":    "module example.com/fixture\n",
		"a/a.go":    dupFixtureA,
		"b/b.go":    dupFixtureB,
		"c/main.go": "package main\n\nfunc main() {}\n",
	})

	rep, err := Run(context.Background(), snap, testRunnerConfig())
	require.NoError(t, err)

	var dupFindings []types.Finding
	for _, f := range rep.Findings {
		if f.Category == types.CategoryDuplication {
			dupFindings = append(dupFindings, f)
		}
	}
	require.Len(t, dupFindings, 1, "the renamed clone is reported exactly once")
	assert.Equal(t, "a/a.go", dupFindings[0].File)
	assert.Contains(t, dupFindings[0].Message, "b/b.go")

	dup := rep.PillarScores[types.PillarDuplication]
	require.True(t, dup.Available)
	assert.Less(t, dup.Score, 1.0, "duplication lowers the pillar score")
	assert.Greater(t, dup.Score, 0.0)
}

func TestRun_PartialWithoutTools(t *testing.T) {
	snap := scanTree(t, map[string]string{
		"main.go": "package main\n\nfunc main() {}\n",
	})

	rep, err := Run(context.Background(), snap, testRunnerConfig())
	require.NoError(t, err)

	assert.True(t, rep.Partial)
	assert.False(t, rep.PillarScores[types.PillarLint].Available)
	assert.Equal(t, "no command configured", rep.PillarScores[types.PillarLint].Reason)
	assert.False(t, rep.PillarScores[types.PillarTyping].Available)
	assert.False(t, rep.PillarScores[types.PillarArchitecture].Available)
	assert.Equal(t, "no layer model declared", rep.PillarScores[types.PillarArchitecture].Reason)

	assert.True(t, rep.PillarScores[types.PillarDuplication].Available)
	assert.True(t, rep.PillarScores[types.PillarComplexity].Available)
	assert.Greater(t, rep.OverallScore, 0.0)
}

func TestRun_ArchitectureViolation(t *testing.T) {
	snap := scanTree(t, map[string]string{
		"go.mod": "module example.com/fixture\n",
		"api/handler.go": `package api

import "example.com/fixture/storage"

var _ = storage.Open
`,
		"storage/store.go": `package storage

func Open() {}
`,
	})

	cfg := testRunnerConfig()
	cfg.Layers = []types.LayerRule{
		{Name: "api", Patterns: []string{"api"}, Forbid: []string{"storage"}},
		{Name: "storage", Patterns: []string{"storage"}},
	}

	rep, err := Run(context.Background(), snap, cfg)
	require.NoError(t, err)

	arch := rep.PillarScores[types.PillarArchitecture]
	require.True(t, arch.Available)
	assert.Equal(t, 0.0, arch.Score, "the only classifiable edge is forbidden")

	var archFindings []types.Finding
	for _, f := range rep.Findings {
		if f.Category == types.CategoryArchitecture {
			archFindings = append(archFindings, f)
		}
	}
	require.Len(t, archFindings, 1)
	assert.Equal(t, "api/handler.go", archFindings[0].File)
	assert.Equal(t, types.SeverityError, archFindings[0].Severity)
}

func TestRun_ParseFailureBecomesFinding(t *testing.T) {
	snap := scanTree(t, map[string]string{
		"good.go":   "package a\n\nfunc ok() {}\n",
		"broken.go": "package a\n\nfunc oops( {\n",
	})

	rep, err := Run(context.Background(), snap, testRunnerConfig())
	require.NoError(t, err)

	var parseFindings []types.Finding
	for _, f := range rep.Findings {
		if f.Category == types.CategoryParse {
			parseFindings = append(parseFindings, f)
		}
	}
	require.Len(t, parseFindings, 1)
	assert.Equal(t, "broken.go", parseFindings[0].File)
	assert.Equal(t, types.SeverityWarning, parseFindings[0].Severity)

	require.Len(t, rep.Files, 2)
	assert.False(t, rep.Files[0].Parsed, "broken.go sorts first and is marked unparsed")
	assert.True(t, rep.Files[1].Parsed)
}

func TestRun_Deterministic(t *testing.T) {
	files := map[string]string{
		"go.mod": "module example.com/fixture\n",
		"a/a.go": dupFixtureA,
		"b/b.go": dupFixtureB,
	}
	cfg := testRunnerConfig()

	first, err := Run(context.Background(), scanTree(t, files), cfg)
	require.NoError(t, err)
	second, err := Run(context.Background(), scanTree(t, files), cfg)
	require.NoError(t, err)

	// Roots differ between the two temp trees; everything else is
	// a pure function of content and configuration.
	first.Meta.Root = ""
	second.Meta.Root = ""
	assert.Equal(t, first, second)
}

func TestRun_MetaCarriesSettings(t *testing.T) {
	snap := scanTree(t, map[string]string{
		"main.go": "package main\n\nfunc main() {}\n",
	})

	cfg := testRunnerConfig()
	cfg.LintTool.Command = "echo lint"
	cfg.TypeTool.Command = "echo type"

	rep, err := Run(context.Background(), snap, cfg)
	require.NoError(t, err)

	assert.Equal(t, "test", rep.Meta.Version)
	assert.Equal(t, "2026-01-01T00:00:00Z", rep.Meta.GeneratedAt)
	assert.Equal(t, 1, rep.Meta.FileCount)
	assert.Equal(t, "echo lint", rep.Meta.LintCmd)
	assert.Equal(t, "echo type", rep.Meta.TypeCmd)
	assert.True(t, rep.PillarScores[types.PillarLint].Available)
	assert.True(t, rep.PillarScores[types.PillarTyping].Available)
	assert.True(t, rep.Partial, "no layer model keeps the report partial")
}
