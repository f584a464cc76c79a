// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package normalize converts parsed Go files into canonical token
// streams. Identifiers are grouped by syntactic role rather than
// spelling, and literal values are abstracted to their kind, so two
// clones differing only in naming normalize to the same sequence.
// Implements: prd004-normalizer R1-R4;
//
//	docs/ARCHITECTURE § AST Normalizer.
package normalize

import (
	"go/ast"
	"go/token"
	"path"
	"strconv"

	"golang.org/x/tools/go/ast/astutil"

	"github.com/petar-djukic/cq/pkg/types"
)

// Import is one import target with its source location.
type Import struct {
	Path string
	Line int
}

// FileTokens is the normalizer output for one file: the ordered token
// stream plus the file's module identifier and import targets.
type FileTokens struct {
	Path    string
	Module  string   // Module identifier (package directory, "." for root)
	Imports []Import // Import targets, in source order
	Tokens  []types.NormalizedToken
}

// Normalize produces the canonical token stream for a parsed file.
// relPath must be slash-separated and relative to the snapshot root.
func Normalize(fset *token.FileSet, relPath string, file *ast.File) FileTokens {
	ft := FileTokens{
		Path:   relPath,
		Module: ModuleOf(relPath),
	}

	for _, group := range astutil.Imports(fset, file) {
		for _, spec := range group {
			if p, err := strconv.Unquote(spec.Path.Value); err == nil {
				ft.Imports = append(ft.Imports, Import{
					Path: p,
					Line: fset.Position(spec.Pos()).Line,
				})
			}
		}
	}

	w := &walker{
		fset:   fset,
		path:   relPath,
		roles:  fileRoles(file),
		params: map[string]bool{},
	}
	for _, decl := range file.Decls {
		w.emitDecl(decl)
	}
	ft.Tokens = w.tokens
	return ft
}

// ModuleOf maps a file path to its module identifier: the package
// directory, with "." naming the repository root package.
func ModuleOf(relPath string) string {
	return path.Dir(relPath)
}

// fileRoles indexes the identifier roles declared at file scope.
// Lookup during the walk prefers function parameters over these.
func fileRoles(file *ast.File) map[string]types.IdentRole {
	roles := make(map[string]types.IdentRole)

	for _, spec := range file.Imports {
		name := ""
		if spec.Name != nil {
			name = spec.Name.Name
		} else if p, err := strconv.Unquote(spec.Path.Value); err == nil {
			name = path.Base(p)
		}
		if name != "" && name != "_" && name != "." {
			roles[name] = types.RolePkg
		}
	}

	for _, decl := range file.Decls {
		switch d := decl.(type) {
		case *ast.FuncDecl:
			if d.Recv == nil {
				roles[d.Name.Name] = types.RoleFunc
			}
		case *ast.GenDecl:
			for _, spec := range d.Specs {
				switch s := spec.(type) {
				case *ast.TypeSpec:
					roles[s.Name.Name] = types.RoleType
				case *ast.ValueSpec:
					role := types.RoleVar
					if d.Tok == token.CONST {
						role = types.RoleConst
					}
					for _, name := range s.Names {
						roles[name.Name] = role
					}
				}
			}
		}
	}

	return roles
}
