// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package toolrunner invokes external lint and typing tools as
// isolated subprocess calls with bounded timeouts and parses their
// diagnostics. A tool that cannot run marks its pillar unavailable
// instead of failing the analysis; no retries are performed here.
// Implements: prd009-tool-adapters R1-R3;
//
//	docs/ARCHITECTURE § Lint/Typing Adapter.
package toolrunner

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const defaultTimeout = 120 * time.Second

// Diagnostic is a single parsed tool message.
type Diagnostic struct {
	File    string // Source file path as reported by the tool
	Line    int    // Line number (1-based)
	Column  int    // Column number (1-based, 0 if not reported)
	Message string // Message text
}

// Result is the availability-aware outcome of one tool invocation.
// Available(diagnostics) or Unavailable(reason); consumers only ever
// see this type, never a raised error.
type Result struct {
	Available   bool
	Reason      string // Why the tool is unavailable
	Diagnostics []Diagnostic
	Output      string // Raw combined output
}

// Tool describes one external tool invocation.
type Tool struct {
	Name    string        // Pillar name, for logging
	Command string        // Command template, split on whitespace
	Timeout time.Duration // Bound on the subprocess (default 120s)
}

// diagRegex matches compiler-style diagnostics:
// file.go:10:5: message
// file.go:10: message
var diagRegex = regexp.MustCompile(`^(.+?\.go):(\d+)(?::(\d+))?: (.+)$`)

// Run executes the tool in workDir and parses its output. A nonzero
// exit is normal for tools that found problems; only a missing binary,
// a timeout, or a start failure makes the result unavailable.
func Run(ctx context.Context, workDir string, tool Tool) Result {
	if strings.TrimSpace(tool.Command) == "" {
		return Result{Reason: "no command configured"}
	}

	timeout := tool.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}
	cmdCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	parts := strings.Fields(tool.Command)
	cmd := exec.CommandContext(cmdCtx, parts[0], parts[1:]...)
	cmd.Dir = workDir

	var buf bytes.Buffer
	cmd.Stdout = &buf
	cmd.Stderr = &buf

	err := cmd.Run()
	out := buf.String()

	if cmdCtx.Err() == context.DeadlineExceeded {
		return Result{Reason: tool.Name + " timed out", Output: out}
	}
	if err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			// The process never ran (binary missing, permission, ...).
			return Result{Reason: tool.Name + " unavailable: " + err.Error(), Output: out}
		}
	}

	return Result{
		Available:   true,
		Diagnostics: ParseDiagnostics(out),
		Output:      out,
	}
}

// ParseDiagnostics extracts compiler-style diagnostics from tool output.
func ParseDiagnostics(output string) []Diagnostic {
	var diags []Diagnostic
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		matches := diagRegex.FindStringSubmatch(line)
		if matches == nil {
			continue
		}

		lineNum, _ := strconv.Atoi(matches[2])
		colNum := 0
		if matches[3] != "" {
			colNum, _ = strconv.Atoi(matches[3])
		}

		diags = append(diags, Diagnostic{
			File:    strings.TrimPrefix(matches[1], "./"),
			Line:    lineNum,
			Column:  colNum,
			Message: matches[4],
		})
	}
	return diags
}

// CountByFile tallies diagnostics per reported file path.
func CountByFile(diags []Diagnostic) map[string]int {
	counts := make(map[string]int)
	for _, d := range diags {
		counts[d.File]++
	}
	return counts
}
