// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package source

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeTree lays out a repository fixture under a temp root.
func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for path, content := range files {
		full := filepath.Join(root, filepath.FromSlash(path))
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
	}
	return root
}

func TestScan_ParsesAndSorts(t *testing.T) {
	root := writeTree(t, map[string]string{
		"go.mod":         "module example.com/app\n\ngo 1.25\n",
		"main.go":        "package main\n\nfunc main() {}\n",
		"core/core.go":   "package core\n\nfunc Work() int { return 1 }\n",
		"core/extra.txt": "not Go\n",
	})

	snap, err := Scan(root, 2)
	require.NoError(t, err)

	assert.Equal(t, "example.com/app", snap.ModulePath)
	require.Len(t, snap.Files, 2)
	assert.Equal(t, "core/core.go", snap.Files[0].Path, "files come back path-sorted")
	assert.Equal(t, "main.go", snap.Files[1].Path)
	for _, f := range snap.Files {
		assert.True(t, f.Parsed, f.Path)
		assert.NotNil(t, f.AST, f.Path)
		assert.Equal(t, 3, f.LOC, f.Path)
	}
	assert.Empty(t, snap.Errors)
}

func TestScan_CollectsParseErrors(t *testing.T) {
	root := writeTree(t, map[string]string{
		"good.go":   "package a\n",
		"broken.go": "package a\n\nfunc oops( {\n",
	})

	snap, err := Scan(root, 1)
	require.NoError(t, err, "a parse failure does not abort the scan")

	require.Len(t, snap.Files, 2)
	assert.Equal(t, "broken.go", snap.Files[0].Path)
	assert.False(t, snap.Files[0].Parsed)
	assert.True(t, snap.Files[1].Parsed)

	require.Len(t, snap.Errors, 1)
	assert.Equal(t, "broken.go", snap.Errors[0].FilePath)
}

func TestScan_SkipsVendorAndTestdata(t *testing.T) {
	root := writeTree(t, map[string]string{
		"main.go":            "package main\n",
		"vendor/dep/dep.go":  "package dep\n",
		"testdata/fixture.go": "package fixture\n",
		".git/objects/x.go":  "not even Go\n",
	})

	snap, err := Scan(root, 0)
	require.NoError(t, err)

	require.Len(t, snap.Files, 1)
	assert.Equal(t, "main.go", snap.Files[0].Path)
}

func TestScan_RespectsGitignore(t *testing.T) {
	root := writeTree(t, map[string]string{
		".gitignore":      "generated_output\n*.tmp.go\n",
		"main.go":         "package main\n",
		"x.tmp.go":        "package main\n",
		"generated_output/gen.go": "package gen\n",
	})

	snap, err := Scan(root, 0)
	require.NoError(t, err)

	require.Len(t, snap.Files, 1)
	assert.Equal(t, "main.go", snap.Files[0].Path)
}

func TestScan_EmptyDir(t *testing.T) {
	snap, err := Scan(t.TempDir(), 0)
	require.NoError(t, err)
	assert.Empty(t, snap.Files)
	assert.Equal(t, "", snap.ModulePath)
}

func TestScan_NotADirectory(t *testing.T) {
	root := writeTree(t, map[string]string{"file.go": "package a\n"})

	_, err := Scan(filepath.Join(root, "file.go"), 0)
	assert.Error(t, err)
}

func TestDetectRole(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"internal/runner/runner.go", RoleDefault},
		{"internal/runner/runner_test.go", RoleTest},
		{"api/service.pb.go", RoleGenerated},
		{"api/types_gen.go", RoleGenerated},
		{"api/zz_generated_deepcopy.go", RoleGenerated},
		{"third_party/lib/lib.go", RoleVendor},
		{"config.go", RoleConfig},
		{"internal/config/load.go", RoleConfig},
		{"settings.go", RoleConfig},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, detectRole(tt.path))
		})
	}
}

func TestCountLines(t *testing.T) {
	assert.Equal(t, 0, countLines(nil))
	assert.Equal(t, 1, countLines([]byte("no trailing newline")))
	assert.Equal(t, 2, countLines([]byte("a\nb\n")))
	assert.Equal(t, 3, countLines([]byte("a\n\nb")))
}
