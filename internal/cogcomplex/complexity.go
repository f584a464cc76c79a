// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package cogcomplex computes cognitive complexity: a structural
// metric that penalizes nested control flow more than flat control
// flow. Branching constructs cost 1 plus the current nesting depth,
// extra boolean-operator terms and direct recursion cost 1 flat, and
// early exits cost nothing.
// Implements: prd007-complexity R1-R3;
//
//	docs/ARCHITECTURE § Cognitive Complexity Scorer.
package cogcomplex

import (
	"go/ast"
	"go/token"
)

// FuncScore is the complexity of one function or method body.
type FuncScore struct {
	Name  string
	Line  int
	Score int
}

// FileScore aggregates the function scores of one file.
type FileScore struct {
	Path  string
	Total int // Sum over functions (percentile selection happens in scoring)
	Funcs []FuncScore
}

// File scores every function declaration in a parsed file.
func File(fset *token.FileSet, relPath string, file *ast.File) FileScore {
	fs := FileScore{Path: relPath}
	for _, decl := range file.Decls {
		fn, ok := decl.(*ast.FuncDecl)
		if !ok || fn.Body == nil {
			continue
		}
		score := Func(fn)
		fs.Funcs = append(fs.Funcs, FuncScore{
			Name:  fn.Name.Name,
			Line:  fset.Position(fn.Pos()).Line,
			Score: score,
		})
		fs.Total += score
	}
	return fs
}

// Func computes the cognitive complexity of a single function body.
func Func(fn *ast.FuncDecl) int {
	s := &scorer{selfName: fn.Name.Name}
	if fn.Recv != nil && len(fn.Recv.List) > 0 && len(fn.Recv.List[0].Names) > 0 {
		s.recvName = fn.Recv.List[0].Names[0].Name
	}
	s.walkStmt(fn.Body, 0)
	return s.score
}

type scorer struct {
	score    int
	selfName string // Function name, for direct-recursion detection
	recvName string // Receiver name, for method self-calls
}

func (s *scorer) walkStmt(stmt ast.Stmt, nesting int) {
	switch st := stmt.(type) {
	case *ast.BlockStmt:
		for _, child := range st.List {
			s.walkStmt(child, nesting)
		}
	case *ast.IfStmt:
		s.score += 1 + nesting
		if st.Init != nil {
			s.walkStmt(st.Init, nesting)
		}
		s.walkExpr(st.Cond, nesting)
		s.walkStmt(st.Body, nesting+1)
		switch el := st.Else.(type) {
		case *ast.IfStmt:
			// else-if chains stay at the same depth.
			s.walkStmt(el, nesting)
		case *ast.BlockStmt:
			s.walkStmt(el, nesting+1)
		}
	case *ast.ForStmt:
		s.score += 1 + nesting
		if st.Init != nil {
			s.walkStmt(st.Init, nesting)
		}
		if st.Cond != nil {
			s.walkExpr(st.Cond, nesting)
		}
		if st.Post != nil {
			s.walkStmt(st.Post, nesting)
		}
		s.walkStmt(st.Body, nesting+1)
	case *ast.RangeStmt:
		s.score += 1 + nesting
		s.walkExpr(st.X, nesting)
		s.walkStmt(st.Body, nesting+1)
	case *ast.SwitchStmt:
		s.score += 1 + nesting
		if st.Init != nil {
			s.walkStmt(st.Init, nesting)
		}
		if st.Tag != nil {
			s.walkExpr(st.Tag, nesting)
		}
		s.walkStmt(st.Body, nesting+1)
	case *ast.TypeSwitchStmt:
		s.score += 1 + nesting
		if st.Init != nil {
			s.walkStmt(st.Init, nesting)
		}
		s.walkStmt(st.Assign, nesting)
		s.walkStmt(st.Body, nesting+1)
	case *ast.SelectStmt:
		s.score += 1 + nesting
		s.walkStmt(st.Body, nesting+1)
	case *ast.CaseClause:
		for _, e := range st.List {
			s.walkExpr(e, nesting)
		}
		for _, child := range st.Body {
			s.walkStmt(child, nesting)
		}
	case *ast.CommClause:
		if st.Comm != nil {
			s.walkStmt(st.Comm, nesting)
		}
		for _, child := range st.Body {
			s.walkStmt(child, nesting)
		}
	case *ast.ReturnStmt:
		// Early exits cost nothing; expressions may still contain
		// logical chains or recursive calls.
		for _, e := range st.Results {
			s.walkExpr(e, nesting)
		}
	case *ast.BranchStmt:
		// break/continue/goto cost nothing.
	case *ast.LabeledStmt:
		s.walkStmt(st.Stmt, nesting)
	case *ast.AssignStmt:
		for _, e := range st.Lhs {
			s.walkExpr(e, nesting)
		}
		for _, e := range st.Rhs {
			s.walkExpr(e, nesting)
		}
	case *ast.ExprStmt:
		s.walkExpr(st.X, nesting)
	case *ast.DeclStmt:
		if gd, ok := st.Decl.(*ast.GenDecl); ok {
			for _, spec := range gd.Specs {
				if vs, ok := spec.(*ast.ValueSpec); ok {
					for _, v := range vs.Values {
						s.walkExpr(v, nesting)
					}
				}
			}
		}
	case *ast.DeferStmt:
		s.walkExpr(st.Call, nesting)
	case *ast.GoStmt:
		s.walkExpr(st.Call, nesting)
	case *ast.SendStmt:
		s.walkExpr(st.Chan, nesting)
		s.walkExpr(st.Value, nesting)
	case *ast.IncDecStmt:
		s.walkExpr(st.X, nesting)
	}
}

func (s *scorer) walkExpr(expr ast.Expr, nesting int) {
	switch e := expr.(type) {
	case *ast.BinaryExpr:
		if e.Op == token.LAND || e.Op == token.LOR {
			// Each additional term of a logical chain costs 1 flat,
			// independent of nesting.
			s.score++
		}
		s.walkExpr(e.X, nesting)
		s.walkExpr(e.Y, nesting)
	case *ast.ParenExpr:
		s.walkExpr(e.X, nesting)
	case *ast.UnaryExpr:
		s.walkExpr(e.X, nesting)
	case *ast.StarExpr:
		s.walkExpr(e.X, nesting)
	case *ast.CallExpr:
		if s.isSelfCall(e) {
			s.score++
		}
		s.walkExpr(e.Fun, nesting)
		for _, arg := range e.Args {
			s.walkExpr(arg, nesting)
		}
	case *ast.SelectorExpr:
		s.walkExpr(e.X, nesting)
	case *ast.IndexExpr:
		s.walkExpr(e.X, nesting)
		s.walkExpr(e.Index, nesting)
	case *ast.SliceExpr:
		s.walkExpr(e.X, nesting)
		for _, bound := range []ast.Expr{e.Low, e.High, e.Max} {
			if bound != nil {
				s.walkExpr(bound, nesting)
			}
		}
	case *ast.TypeAssertExpr:
		s.walkExpr(e.X, nesting)
	case *ast.CompositeLit:
		for _, elt := range e.Elts {
			s.walkExpr(elt, nesting)
		}
	case *ast.KeyValueExpr:
		s.walkExpr(e.Key, nesting)
		s.walkExpr(e.Value, nesting)
	case *ast.FuncLit:
		// A nested function body deepens nesting but costs nothing
		// itself; its control flow is scored against the outer total.
		s.walkStmt(e.Body, nesting+1)
	}
}

// isSelfCall reports whether a call invokes the function being scored:
// either its plain name or a method call through its own receiver.
func (s *scorer) isSelfCall(call *ast.CallExpr) bool {
	switch fun := call.Fun.(type) {
	case *ast.Ident:
		return s.recvName == "" && fun.Name == s.selfName
	case *ast.SelectorExpr:
		if s.recvName == "" || fun.Sel.Name != s.selfName {
			return false
		}
		recv, ok := fun.X.(*ast.Ident)
		return ok && recv.Name == s.recvName
	}
	return false
}
