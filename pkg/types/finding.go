// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Implements: prd003-report-model R2 (findings).
package types

// Severity ranks findings. The numeric order is the sort order used
// when findings share a file and line.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
)

// String returns the lowercase severity name used in reports.
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler so severities render as
// their names in JSON output.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Finding categories emitted by the analysis engine.
const (
	CategoryParse        = "parse"
	CategoryDuplication  = "duplication"
	CategoryArchitecture = "architecture"
	CategoryUnclassified = "architecture/unclassified"
	CategoryAbsentEdge   = "architecture/absent"
)

// Finding is the atomic unit of a reported problem: a severity-tagged
// record pointing at a source location.
type Finding struct {
	File     string   `json:"file"`
	Line     int      `json:"line"`
	Category string   `json:"category"`
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
}
