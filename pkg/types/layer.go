// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Implements: prd006-architecture R1 (declared model).
package types

// LayerRule declares one named layer of the architecture model: a set
// of module patterns that select its members and the explicit relations
// to other layers. A dependency between two classified layers is
// conformant only when the source layer allows it; relations not listed
// in Allow are violations, and Forbid makes the violation explicit in
// the reported rule name. Same-layer dependencies are implicitly
// allowed unless the layer forbids itself.
type LayerRule struct {
	Name     string   `json:"name" yaml:"name" mapstructure:"name"`
	Patterns []string `json:"patterns" yaml:"patterns" mapstructure:"patterns"`
	Allow    []string `json:"allow,omitempty" yaml:"allow" mapstructure:"allow"`
	Forbid   []string `json:"forbid,omitempty" yaml:"forbid" mapstructure:"forbid"`
}
