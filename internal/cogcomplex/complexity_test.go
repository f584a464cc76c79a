// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package cogcomplex

import (
	"go/ast"
	"go/parser"
	"go/token"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseFunc(t *testing.T, body string) (*token.FileSet, *ast.File) {
	t.Helper()
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, "sample.go", "package sample\n\n"+body, 0)
	require.NoError(t, err)
	return fset, file
}

func scoreOf(t *testing.T, body string) int {
	t.Helper()
	_, file := parseFunc(t, body)
	for _, decl := range file.Decls {
		if fn, ok := decl.(*ast.FuncDecl); ok {
			return Func(fn)
		}
	}
	t.Fatal("no function declaration in source")
	return 0
}

func TestFunc_NoBranching(t *testing.T) {
	src := `func straight(a, b int) int {
	c := a + b
	c *= 2
	return c
}`
	assert.Equal(t, 0, scoreOf(t, src))
}

func TestFunc_ConditionalInLoop(t *testing.T) {
	// Loop costs 1, conditional inside it costs 1+1.
	src := `func f(xs []int) int {
	n := 0
	for _, x := range xs {
		if x > 0 {
			n++
		}
	}
	return n
}`
	assert.Equal(t, 3, scoreOf(t, src))
}

func TestFunc_LogicalChainsFlat(t *testing.T) {
	// Conditional costs 1; the two extra && / || operators cost 1 each
	// regardless of depth.
	src := `func f(a, b, c bool) bool {
	if a && b || c {
		return true
	}
	return false
}`
	assert.Equal(t, 3, scoreOf(t, src))
}

func TestFunc_ElseIfStaysAtSameDepth(t *testing.T) {
	src := `func f(x int) int {
	if x > 10 {
		return 2
	} else if x > 5 {
		return 1
	} else {
		return 0
	}
}`
	// Both conditionals cost 1 each; the chained form does not nest.
	assert.Equal(t, 2, scoreOf(t, src))
}

func TestFunc_NestedConditionalInElse(t *testing.T) {
	src := `func f(x int) int {
	if x > 10 {
		return 2
	} else {
		if x > 5 {
			return 1
		}
	}
	return 0
}`
	// The inner conditional sits one level deeper than the chained form.
	assert.Equal(t, 3, scoreOf(t, src))
}

func TestFunc_DirectRecursion(t *testing.T) {
	src := `func fib(n int) int {
	if n < 2 {
		return n
	}
	return fib(n-1) + fib(n-2)
}`
	// Conditional 1, two recursive calls 1 each.
	assert.Equal(t, 3, scoreOf(t, src))
}

func TestFunc_MethodRecursionThroughReceiver(t *testing.T) {
	src := `type node struct{ next *node }

func (n *node) depth() int {
	if n.next == nil {
		return 1
	}
	return 1 + n.next.depth()
}`
	// n.next.depth() is not a self-call: the receiver is n, not n.next.
	assert.Equal(t, 1, scoreOf(t, src))
}

func TestFunc_EarlyExitsFree(t *testing.T) {
	src := `func f(xs []int) int {
	for _, x := range xs {
		if x < 0 {
			continue
		}
		if x > 100 {
			break
		}
	}
	return 0
}`
	// Loop 1, each conditional 2; break/continue cost nothing.
	assert.Equal(t, 5, scoreOf(t, src))
}

func TestFunc_SwitchAndDeepNesting(t *testing.T) {
	src := `func f(xs []int) int {
	n := 0
	for _, x := range xs {
		switch {
		case x > 0:
			if x%2 == 0 {
				n++
			}
		}
	}
	return n
}`
	// Loop 1, switch 2, conditional in a case body 1+2.
	assert.Equal(t, 6, scoreOf(t, src))
}

func TestFunc_FuncLitDeepensNesting(t *testing.T) {
	src := `func f(xs []int) func() int {
	return func() int {
		n := 0
		for _, x := range xs {
			if x > 0 {
				n++
			}
		}
		return n
	}
}`
	// The literal itself is free; its loop scores at depth 1 and the
	// conditional at depth 2.
	assert.Equal(t, 5, scoreOf(t, src))
}

func TestFile_SumsFunctionScores(t *testing.T) {
	fset, file := parseFunc(t, `func a(x int) int {
	if x > 0 {
		return x
	}
	return 0
}

func b(xs []int) int {
	n := 0
	for range xs {
		n++
	}
	return n
}`)
	fs := File(fset, "sample.go", file)

	require.Len(t, fs.Funcs, 2)
	assert.Equal(t, "a", fs.Funcs[0].Name)
	assert.Equal(t, 1, fs.Funcs[0].Score)
	assert.Equal(t, "b", fs.Funcs[1].Name)
	assert.Equal(t, 1, fs.Funcs[1].Score)
	assert.Equal(t, 2, fs.Total)
}

func TestFileRaw_PercentileSelection(t *testing.T) {
	fs := FileScore{
		Total: 18,
		Funcs: []FuncScore{
			{Name: "a", Score: 10},
			{Name: "b", Score: 3},
			{Name: "c", Score: 5},
		},
	}

	assert.Equal(t, 18, FileRaw(fs, Scale{Percentile: 0}), "zero percentile selects the sum")
	assert.Equal(t, 10, FileRaw(fs, Scale{Percentile: 1.0}))
	assert.Equal(t, 5, FileRaw(fs, Scale{Percentile: 0.5}))
}

func TestScore_Normalization(t *testing.T) {
	scale := Scale{TargetPerLOC: 0.25, HardCap: 50}

	assert.Equal(t, 100.0, Score(0, 100, scale))
	assert.Equal(t, 0.0, Score(50, 1000, scale), "hard cap zeroes the score")
	assert.Equal(t, 0.0, Score(80, 1000, scale))

	// 10 complexity over 100 lines is 0.1 per line, 40% of target.
	assert.InDelta(t, 60.0, Score(10, 100, scale), 1e-9)

	// At or beyond target density the score floors at zero.
	assert.Equal(t, 0.0, Score(25, 100, scale))
	assert.Equal(t, 0.0, Score(40, 100, scale))
}
