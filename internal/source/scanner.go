// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package source discovers and parses the Go files of a repository
// snapshot. Implements: prd002-snapshot R1 (File Scanner), R2 (Roles);
//
//	docs/ARCHITECTURE.md § Source Loader.
package source

import (
	"bytes"
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
)

// skipDirs contains directory names that Scan skips by default.
var skipDirs = map[string]bool{
	"vendor":       true,
	".git":         true,
	"testdata":     true,
	"node_modules": true,
}

// File is one discovered source file with its parse outcome.
type File struct {
	Path   string    // Path relative to the snapshot root
	LOC    int       // Source line count
	Role   string    // Role classification (default, test, config, ...)
	AST    *ast.File // Parsed AST; nil only when ParseErr is set
	Parsed bool      // False when the parser rejected the file
}

// ParseError records a parse failure for a single file.
type ParseError struct {
	FilePath string
	Err      error
}

func (e ParseError) Error() string {
	return fmt.Sprintf("%s: %v", e.FilePath, e.Err)
}

// Snapshot holds the parsed repository handed to the analysis engine.
type Snapshot struct {
	Root       string
	ModulePath string // Module path from go.mod, empty if absent
	FileSet    *token.FileSet
	Files      []File       // Sorted by path
	Errors     []ParseError // Parse failures, sorted by path
	Commit     string       // HEAD commit hash, empty outside git
	Dirty      bool         // Uncommitted changes present
}

// Scan walks the directory tree rooted at dir, finds all .go files,
// and parses them in parallel using a bounded worker pool.
//
// It skips vendor/, .git/, and testdata/ directories and respects
// .gitignore patterns found in the root directory. Parse errors for
// individual files are collected in Snapshot.Errors but do not abort
// the scan. The concurrency parameter controls the number of parallel
// parser goroutines; if <= 0 it defaults to runtime.NumCPU().
func Scan(dir string, concurrency int) (*Snapshot, error) {
	if concurrency <= 0 {
		concurrency = runtime.NumCPU()
	}

	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving directory: %w", err)
	}

	info, err := os.Stat(absDir)
	if err != nil {
		return nil, fmt.Errorf("stat directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", absDir)
	}

	ignorer := loadGitignore(absDir)

	var paths []string
	err = filepath.WalkDir(absDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // skip inaccessible entries
		}
		if d.IsDir() {
			if skipDirs[d.Name()] && path != absDir {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(d.Name(), ".go") {
			return nil
		}
		relPath, relErr := filepath.Rel(absDir, path)
		if relErr != nil {
			relPath = path
		}
		if ignorer.isIgnored(relPath) {
			return nil
		}
		paths = append(paths, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking directory: %w", err)
	}

	snap := &Snapshot{
		Root:       absDir,
		ModulePath: readModulePath(absDir),
		FileSet:    token.NewFileSet(),
	}
	readGitMeta(snap)

	if len(paths) == 0 {
		return snap, nil
	}

	type parseResult struct {
		path string
		src  []byte
		file *ast.File
		err  error
	}

	jobs := make(chan string, len(paths))
	results := make(chan parseResult, len(paths))

	var wg sync.WaitGroup
	for i := 0; i < concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for path := range jobs {
				src, readErr := os.ReadFile(path)
				if readErr != nil {
					results <- parseResult{path: path, err: readErr}
					continue
				}
				f, parseErr := parser.ParseFile(snap.FileSet, path, src, parser.ParseComments)
				results <- parseResult{path: path, src: src, file: f, err: parseErr}
			}
		}()
	}

	for _, p := range paths {
		jobs <- p
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
	}()

	for pr := range results {
		relPath, relErr := filepath.Rel(absDir, pr.path)
		if relErr != nil {
			relPath = pr.path
		}
		relPath = filepath.ToSlash(relPath)

		file := File{
			Path:   relPath,
			LOC:    countLines(pr.src),
			Role:   detectRole(relPath),
			AST:    pr.file,
			Parsed: pr.err == nil,
		}
		if pr.err != nil {
			snap.Errors = append(snap.Errors, ParseError{FilePath: relPath, Err: pr.err})
		}
		snap.Files = append(snap.Files, file)
	}

	sortSnapshot(snap)
	return snap, nil
}

// countLines counts source lines, treating a trailing newline as the
// end of the last line rather than an extra empty one.
func countLines(src []byte) int {
	if len(src) == 0 {
		return 0
	}
	n := bytes.Count(src, []byte{'\n'})
	if src[len(src)-1] != '\n' {
		n++
	}
	return n
}

// readModulePath extracts the module path from go.mod at root, if any.
func readModulePath(root string) string {
	data, err := os.ReadFile(filepath.Join(root, "go.mod"))
	if err != nil {
		return ""
	}
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "module ") {
			return strings.TrimSpace(strings.TrimPrefix(line, "module "))
		}
	}
	return ""
}

// gitignorer provides simple .gitignore matching.
type gitignorer struct {
	patterns []string
}

// loadGitignore reads .gitignore from the root directory. If no .gitignore
// exists or it cannot be read, returns an ignorer that matches nothing.
func loadGitignore(root string) gitignorer {
	data, err := os.ReadFile(filepath.Join(root, ".gitignore"))
	if err != nil {
		return gitignorer{}
	}
	var patterns []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		patterns = append(patterns, line)
	}
	return gitignorer{patterns: patterns}
}

// isIgnored checks whether a relative path matches any .gitignore pattern.
// This implements a simplified subset of gitignore: directory prefixes and
// simple glob patterns via filepath.Match.
func (g gitignorer) isIgnored(relPath string) bool {
	for _, pattern := range g.patterns {
		dirPattern := strings.TrimSuffix(pattern, "/")

		parts := strings.Split(relPath, string(filepath.Separator))
		for _, part := range parts {
			if matched, _ := filepath.Match(dirPattern, part); matched {
				return true
			}
		}

		if matched, _ := filepath.Match(pattern, relPath); matched {
			return true
		}
	}
	return false
}
