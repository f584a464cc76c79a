// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Implements: prd004-normalizer R2 (token emission order).
package normalize

import (
	"go/ast"
	"go/token"

	"golang.org/x/tools/go/ast/astutil"

	"github.com/petar-djukic/cq/pkg/types"
)

// walker emits normalized tokens in source order. params tracks the
// parameter and receiver names of the function currently being walked;
// it shadows the file-level role index.
type walker struct {
	fset   *token.FileSet
	path   string
	roles  map[string]types.IdentRole
	params map[string]bool
	tokens []types.NormalizedToken
}

func (w *walker) emit(kind types.TokenKind, role types.IdentRole, node ast.Node) {
	start := w.fset.Position(node.Pos())
	end := w.fset.Position(node.End())
	w.tokens = append(w.tokens, types.NormalizedToken{
		Kind:      kind,
		Role:      role,
		File:      w.path,
		StartLine: start.Line,
		EndLine:   end.Line,
	})
}

func (w *walker) emitDecl(decl ast.Decl) {
	switch d := decl.(type) {
	case *ast.FuncDecl:
		w.emit(types.KindFunc, types.RoleNone, d)
		saved := w.params
		w.params = paramNames(d.Recv, d.Type)
		w.emitFieldIdents(d.Recv)
		w.emitFieldIdents(d.Type.Params)
		w.emitFieldIdents(d.Type.Results)
		if d.Body != nil {
			w.emitStmt(d.Body)
		}
		w.params = saved
	case *ast.GenDecl:
		w.emit(types.KindDecl, types.RoleNone, d)
		for _, spec := range d.Specs {
			switch s := spec.(type) {
			case *ast.TypeSpec:
				w.emit(types.KindIdent, types.RoleType, s.Name)
				w.emitTypeExpr(s.Type)
			case *ast.ValueSpec:
				role := types.RoleVar
				if d.Tok == token.CONST {
					role = types.RoleConst
				}
				for _, name := range s.Names {
					w.emit(types.KindIdent, role, name)
				}
				if s.Type != nil {
					w.emitTypeExpr(s.Type)
				}
				for _, v := range s.Values {
					w.emitExpr(v)
				}
			}
		}
	}
}

// paramNames collects receiver, parameter, and named result identifiers.
func paramNames(recv *ast.FieldList, ft *ast.FuncType) map[string]bool {
	names := make(map[string]bool)
	collect := func(fl *ast.FieldList) {
		if fl == nil {
			return
		}
		for _, field := range fl.List {
			for _, name := range field.Names {
				names[name.Name] = true
			}
		}
	}
	collect(recv)
	collect(ft.Params)
	collect(ft.Results)
	return names
}

// emitFieldIdents emits parameter-role tokens for a field list.
func (w *walker) emitFieldIdents(fl *ast.FieldList) {
	if fl == nil {
		return
	}
	for _, field := range fl.List {
		for _, name := range field.Names {
			w.emit(types.KindIdent, types.RoleParam, name)
		}
		w.emitTypeExpr(field.Type)
	}
}

func (w *walker) emitStmt(stmt ast.Stmt) {
	switch s := stmt.(type) {
	case *ast.BlockStmt:
		w.emit(types.KindBlock, types.RoleNone, s)
		for _, child := range s.List {
			w.emitStmt(child)
		}
		w.emit(types.KindEndBlock, types.RoleNone, s)
	case *ast.IfStmt:
		w.emit(types.KindIf, types.RoleNone, s)
		if s.Init != nil {
			w.emitStmt(s.Init)
		}
		w.emitExpr(s.Cond)
		w.emitStmt(s.Body)
		if s.Else != nil {
			w.emit(types.KindElse, types.RoleNone, s.Else)
			w.emitStmt(s.Else)
		}
	case *ast.ForStmt:
		w.emit(types.KindFor, types.RoleNone, s)
		if s.Init != nil {
			w.emitStmt(s.Init)
		}
		if s.Cond != nil {
			w.emitExpr(s.Cond)
		}
		if s.Post != nil {
			w.emitStmt(s.Post)
		}
		w.emitStmt(s.Body)
	case *ast.RangeStmt:
		w.emit(types.KindFor, types.RoleNone, s)
		if s.Key != nil {
			w.emitExpr(s.Key)
		}
		if s.Value != nil {
			w.emitExpr(s.Value)
		}
		w.emitExpr(s.X)
		w.emitStmt(s.Body)
	case *ast.SwitchStmt:
		w.emit(types.KindSwitch, types.RoleNone, s)
		if s.Init != nil {
			w.emitStmt(s.Init)
		}
		if s.Tag != nil {
			w.emitExpr(s.Tag)
		}
		w.emitStmt(s.Body)
	case *ast.TypeSwitchStmt:
		w.emit(types.KindSwitch, types.RoleNone, s)
		if s.Init != nil {
			w.emitStmt(s.Init)
		}
		w.emitStmt(s.Assign)
		w.emitStmt(s.Body)
	case *ast.SelectStmt:
		w.emit(types.KindSwitch, types.RoleNone, s)
		w.emitStmt(s.Body)
	case *ast.CaseClause:
		w.emit(types.KindCase, types.RoleNone, s)
		for _, e := range s.List {
			w.emitExpr(e)
		}
		for _, child := range s.Body {
			w.emitStmt(child)
		}
	case *ast.CommClause:
		w.emit(types.KindCase, types.RoleNone, s)
		if s.Comm != nil {
			w.emitStmt(s.Comm)
		}
		for _, child := range s.Body {
			w.emitStmt(child)
		}
	case *ast.ReturnStmt:
		w.emit(types.KindReturn, types.RoleNone, s)
		for _, e := range s.Results {
			w.emitExpr(e)
		}
	case *ast.BranchStmt:
		w.emit(types.KindBranch, types.RoleNone, s)
		if s.Label != nil {
			w.emit(types.KindIdent, types.RoleLabel, s.Label)
		}
	case *ast.LabeledStmt:
		w.emit(types.KindIdent, types.RoleLabel, s.Label)
		w.emitStmt(s.Stmt)
	case *ast.AssignStmt:
		w.emit(types.KindAssign, types.RoleNone, s)
		for _, e := range s.Lhs {
			w.emitExpr(e)
		}
		for _, e := range s.Rhs {
			w.emitExpr(e)
		}
	case *ast.DeclStmt:
		w.emitDecl(s.Decl)
	case *ast.ExprStmt:
		w.emitExpr(s.X)
	case *ast.DeferStmt:
		w.emit(types.KindDefer, types.RoleNone, s)
		w.emitExpr(s.Call)
	case *ast.GoStmt:
		w.emit(types.KindGo, types.RoleNone, s)
		w.emitExpr(s.Call)
	case *ast.SendStmt:
		w.emit(types.KindSend, types.RoleNone, s)
		w.emitExpr(s.Chan)
		w.emitExpr(s.Value)
	case *ast.IncDecStmt:
		w.emit(types.KindUnaryOp, types.RoleNone, s)
		w.emitExpr(s.X)
	case *ast.EmptyStmt:
		// No token.
	}
}

func (w *walker) emitExpr(expr ast.Expr) {
	expr = astutil.Unparen(expr)
	switch e := expr.(type) {
	case *ast.Ident:
		w.emit(types.KindIdent, w.roleOf(e.Name), e)
	case *ast.BasicLit:
		w.emit(litKind(e.Kind), types.RoleNone, e)
	case *ast.BinaryExpr:
		kind := types.KindBinaryOp
		if e.Op == token.LAND || e.Op == token.LOR {
			kind = types.KindLogicalOp
		}
		w.emit(kind, types.RoleNone, e)
		w.emitExpr(e.X)
		w.emitExpr(e.Y)
	case *ast.UnaryExpr:
		if e.Op == token.ARROW {
			w.emit(types.KindRecv, types.RoleNone, e)
		} else {
			w.emit(types.KindUnaryOp, types.RoleNone, e)
		}
		w.emitExpr(e.X)
	case *ast.StarExpr:
		w.emit(types.KindStar, types.RoleNone, e)
		w.emitExpr(e.X)
	case *ast.CallExpr:
		w.emit(types.KindCall, types.RoleNone, e)
		w.emitExpr(e.Fun)
		for _, arg := range e.Args {
			w.emitExpr(arg)
		}
	case *ast.SelectorExpr:
		w.emit(types.KindSelector, types.RoleNone, e)
		w.emitExpr(e.X)
		w.emit(types.KindIdent, types.RoleField, e.Sel)
	case *ast.IndexExpr:
		w.emit(types.KindIndex, types.RoleNone, e)
		w.emitExpr(e.X)
		w.emitExpr(e.Index)
	case *ast.IndexListExpr:
		w.emit(types.KindIndex, types.RoleNone, e)
		w.emitExpr(e.X)
		for _, idx := range e.Indices {
			w.emitExpr(idx)
		}
	case *ast.SliceExpr:
		w.emit(types.KindIndex, types.RoleNone, e)
		w.emitExpr(e.X)
		for _, bound := range []ast.Expr{e.Low, e.High, e.Max} {
			if bound != nil {
				w.emitExpr(bound)
			}
		}
	case *ast.TypeAssertExpr:
		w.emit(types.KindIndex, types.RoleNone, e)
		w.emitExpr(e.X)
		if e.Type != nil {
			w.emitTypeExpr(e.Type)
		}
	case *ast.CompositeLit:
		w.emit(types.KindComposite, types.RoleNone, e)
		if e.Type != nil {
			w.emitTypeExpr(e.Type)
		}
		for _, elt := range e.Elts {
			w.emitExpr(elt)
		}
	case *ast.KeyValueExpr:
		w.emitExpr(e.Key)
		w.emitExpr(e.Value)
	case *ast.FuncLit:
		w.emit(types.KindFuncLit, types.RoleNone, e)
		saved := w.params
		merged := make(map[string]bool, len(saved))
		for name := range saved {
			merged[name] = true
		}
		for name := range paramNames(nil, e.Type) {
			merged[name] = true
		}
		w.params = merged
		w.emitFieldIdents(e.Type.Params)
		w.emitFieldIdents(e.Type.Results)
		w.emitStmt(e.Body)
		w.params = saved
	case *ast.ArrayType, *ast.MapType, *ast.ChanType, *ast.StructType,
		*ast.InterfaceType, *ast.FuncType, *ast.Ellipsis:
		w.emitTypeExpr(e)
	}
}

// emitTypeExpr walks a type expression, emitting only the named
// identifiers it mentions with RoleType. The structural shape of types
// contributes little to clone identity beyond the names involved.
func (w *walker) emitTypeExpr(expr ast.Expr) {
	ast.Inspect(expr, func(n ast.Node) bool {
		if id, ok := n.(*ast.Ident); ok {
			w.emit(types.KindIdent, types.RoleType, id)
		}
		return true
	})
}

// roleOf resolves an identifier's role: current function parameters
// shadow file-scope declarations; anything unknown is a variable.
func (w *walker) roleOf(name string) types.IdentRole {
	if w.params[name] {
		return types.RoleParam
	}
	if role, ok := w.roles[name]; ok {
		return role
	}
	return types.RoleVar
}

// litKind maps a literal token to its abstracted kind.
func litKind(tok token.Token) types.TokenKind {
	switch tok {
	case token.INT:
		return types.KindLitInt
	case token.FLOAT:
		return types.KindLitFloat
	case token.CHAR:
		return types.KindLitChar
	case token.IMAG:
		return types.KindLitImag
	default:
		return types.KindLitString
	}
}
