// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package types defines shared types used across cq packages.
// Implements: prd001-analyzer-interface R5 (shared types).
package types

// TokenKind identifies the structural kind of a normalized AST token.
// The set is closed: every node the normalizer emits maps to exactly one
// of these constants, and hashing operates on (Kind, Role) alone.
type TokenKind int

const (
	KindIdent      TokenKind = iota // User identifier (role-canonicalized)
	KindLitInt                      // Integer literal, value discarded
	KindLitFloat                    // Float literal, value discarded
	KindLitString                   // String literal, value discarded
	KindLitChar                     // Rune literal, value discarded
	KindLitImag                     // Imaginary literal, value discarded
	KindFunc                        // Function or method declaration
	KindReturn                      // Return statement
	KindIf                          // If statement
	KindElse                        // Else branch
	KindFor                         // For or range statement
	KindSwitch                      // Switch, type switch, or select
	KindCase                        // Case or communication clause
	KindBranch                      // break/continue/goto/fallthrough
	KindAssign                      // Assignment or short declaration
	KindDecl                        // var/const/type declaration
	KindCall                        // Call expression
	KindIndex                       // Index or slice expression
	KindSelector                    // Selector expression
	KindStar                        // Pointer deref or pointer type
	KindUnaryOp                     // Unary operator
	KindBinaryOp                    // Binary operator (non-logical)
	KindLogicalOp                   // && or ||
	KindComposite                   // Composite literal
	KindFuncLit                     // Function literal
	KindDefer                       // Defer statement
	KindGo                          // Go statement
	KindSend                        // Channel send
	KindRecv                        // Channel receive
	KindBlock                       // Block open
	KindEndBlock                    // Block close
)

// String returns the human-readable name of the token kind.
func (k TokenKind) String() string {
	names := [...]string{
		"Ident", "LitInt", "LitFloat", "LitString", "LitChar", "LitImag",
		"Func", "Return", "If", "Else", "For", "Switch", "Case", "Branch",
		"Assign", "Decl", "Call", "Index", "Selector", "Star", "UnaryOp",
		"BinaryOp", "LogicalOp", "Composite", "FuncLit", "Defer", "Go",
		"Send", "Recv", "Block", "EndBlock",
	}
	if int(k) < 0 || int(k) >= len(names) {
		return "Unknown"
	}
	return names[k]
}

// IdentRole is the canonicalized syntactic role of a user identifier.
// Two clones that differ only in identifier spelling normalize to the
// same (KindIdent, role) sequence.
type IdentRole int

const (
	RoleNone  IdentRole = iota // Not an identifier token
	RoleVar                    // Local or package variable
	RoleFunc                   // Function name
	RoleParam                  // Parameter or receiver
	RoleType                   // Type name
	RoleConst                  // Constant name
	RoleField                  // Struct field or method selector
	RolePkg                    // Imported package name
	RoleLabel                  // Statement label
)

// String returns the human-readable name of the identifier role.
func (r IdentRole) String() string {
	names := [...]string{"NONE", "VAR", "FUNC", "PARAM", "TYPE", "CONST", "FIELD", "PKG", "LABEL"}
	if int(r) < 0 || int(r) >= len(names) {
		return "Unknown"
	}
	return names[r]
}

// NormalizedToken is one element of a file's canonical token stream.
// The span is a back-reference for reporting and never participates in
// hashing.
type NormalizedToken struct {
	Kind      TokenKind // Structural kind
	Role      IdentRole // Identifier role (RoleNone for non-identifiers)
	File      string    // Source file path (relative to repo root)
	StartLine int       // First source line covered (1-based)
	EndLine   int       // Last source line covered (1-based)
}

// MetricSample is a named numeric value attached to a file or module,
// the unit consumed by the confidence estimator.
type MetricSample struct {
	Path  string  // File or module path (canonical sort key)
	Value float64 // Sampled metric value
}
