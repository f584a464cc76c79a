// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Implements: prd005-duplication R3 (global index), R4 (cluster merge).
package dupes

import (
	"sort"
)

// Span is one side of a clone pair: a token range within a file.
type Span struct {
	File      string
	Start     int // First token index
	End       int // One past the last token index
	StartLine int
	EndLine   int
}

// less orders spans by (path, start line, start token), the canonical
// clone ordering.
func (s Span) less(o Span) bool {
	if s.File != o.File {
		return s.File < o.File
	}
	if s.StartLine != o.StartLine {
		return s.StartLine < o.StartLine
	}
	return s.Start < o.Start
}

// ClonePair is two spans judged duplicate. A is always the canonically
// smaller side, so a duplication between two files is reported exactly
// once regardless of scan order.
type ClonePair struct {
	A, B   Span
	Tokens int // Merged span length in tokens (A side)
}

// index is the global fingerprint index. It is fully populated in one
// barrier phase and read-only afterwards.
type index struct {
	byHash map[uint64][]Fingerprint
	hashes []uint64 // Sorted key list for deterministic iteration
}

// buildIndex inserts every fingerprint of every file, in the provided
// (path-sorted) file order, into the hash index.
func buildIndex(fileFingerprints [][]Fingerprint) *index {
	idx := &index{byHash: make(map[uint64][]Fingerprint)}
	for _, fps := range fileFingerprints {
		for _, fp := range fps {
			idx.byHash[fp.Hash] = append(idx.byHash[fp.Hash], fp)
		}
	}
	for h := range idx.byHash {
		idx.hashes = append(idx.hashes, h)
	}
	sort.Slice(idx.hashes, func(i, j int) bool { return idx.hashes[i] < idx.hashes[j] })
	return idx
}

// pairKey identifies the file pair a raw match belongs to.
type pairKey struct {
	fileA, fileB string
}

// rawMatch is one fingerprint collision before span merging.
type rawMatch struct {
	a, b Span
}

// clonePairs groups index occurrences by identical hash, merges
// adjacent or overlapping matches within each file pair into maximal
// spans, and discards merged spans shorter than minTokens. k bounds
// the alignment drift tolerated when coalescing matches.
func (idx *index) clonePairs(minTokens, k int) []ClonePair {
	groups := make(map[pairKey][]rawMatch)

	for _, h := range idx.hashes {
		occs := idx.byHash[h]
		if len(occs) < 2 {
			continue
		}
		for i := 0; i < len(occs); i++ {
			for j := i + 1; j < len(occs); j++ {
				a, b := spanOf(occs[i]), spanOf(occs[j])
				if a.File == b.File && overlaps(a, b) {
					continue // The same physical region, not a clone.
				}
				if b.less(a) {
					a, b = b, a
				}
				key := pairKey{fileA: a.File, fileB: b.File}
				groups[key] = append(groups[key], rawMatch{a: a, b: b})
			}
		}
	}

	keys := make([]pairKey, 0, len(groups))
	for key := range groups {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].fileA != keys[j].fileA {
			return keys[i].fileA < keys[j].fileA
		}
		return keys[i].fileB < keys[j].fileB
	})

	var pairs []ClonePair
	for _, key := range keys {
		for _, merged := range mergeMatches(groups[key], k) {
			if merged.a.End-merged.a.Start < minTokens {
				continue
			}
			pairs = append(pairs, ClonePair{
				A:      merged.a,
				B:      merged.b,
				Tokens: merged.a.End - merged.a.Start,
			})
		}
	}

	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].A != pairs[j].A {
			return pairs[i].A.less(pairs[j].A)
		}
		return pairs[i].B.less(pairs[j].B)
	})
	return pairs
}

// mergeMatches coalesces matches of one file pair whose ranges are
// adjacent or overlapping on both sides into maximal spans. Two
// matches belong to the same clone only when their side offsets agree
// within k tokens; a repeated short pattern matching across unrelated
// alignments must not stitch into or split a real clone.
func mergeMatches(matches []rawMatch, k int) []rawMatch {
	sort.Slice(matches, func(i, j int) bool {
		if matches[i].a.Start != matches[j].a.Start {
			return matches[i].a.Start < matches[j].a.Start
		}
		return matches[i].b.Start < matches[j].b.Start
	})

	var merged []rawMatch
	for _, m := range matches {
		offset := m.b.Start - m.a.Start
		absorbed := false
		for i := len(merged) - 1; i >= 0; i-- {
			cur := &merged[i]
			drift := offset - (cur.b.Start - cur.a.Start)
			if drift > k || drift < -k {
				continue
			}
			if m.a.Start <= cur.a.End && m.b.Start <= cur.b.End && m.b.End >= cur.b.Start {
				extendSpan(&cur.a, m.a)
				extendSpan(&cur.b, m.b)
				absorbed = true
				break
			}
		}
		if !absorbed {
			merged = append(merged, m)
		}
	}
	return merged
}

func extendSpan(dst *Span, src Span) {
	if src.Start < dst.Start {
		dst.Start = src.Start
	}
	if src.End > dst.End {
		dst.End = src.End
	}
	if src.StartLine < dst.StartLine {
		dst.StartLine = src.StartLine
	}
	if src.EndLine > dst.EndLine {
		dst.EndLine = src.EndLine
	}
}

func spanOf(fp Fingerprint) Span {
	return Span{
		File:      fp.File,
		Start:     fp.Start,
		End:       fp.End,
		StartLine: fp.StartLine,
		EndLine:   fp.EndLine,
	}
}

func overlaps(a, b Span) bool {
	return a.Start < b.End && b.Start < a.End
}
