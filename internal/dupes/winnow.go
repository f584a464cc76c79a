// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Implements: prd005-duplication R2 (winnowing selection).
package dupes

import (
	"github.com/petar-djukic/cq/pkg/types"
)

// Fingerprint is a selected (hash, file, token-range) triple. The range
// is half-open over token indices; the line span is carried for
// reporting only.
type Fingerprint struct {
	Hash      uint64
	File      string
	Start     int // First token index of the k-gram
	End       int // One past the last token index
	StartLine int
	EndLine   int
}

// winnow selects fingerprints from a file's token stream: within every
// window of w consecutive k-gram hashes the minimum hash is selected,
// ties broken by earliest k-gram start, and a selection is recorded
// once even when it remains the minimum across successive windows.
// Files shorter than k tokens yield one whole-stream fingerprint.
func winnow(path string, tokens []types.NormalizedToken, k, w int) []Fingerprint {
	if len(tokens) == 0 {
		return nil
	}
	if len(tokens) < k {
		return []Fingerprint{{
			Hash:      wholeStreamHash(tokens),
			File:      path,
			Start:     0,
			End:       len(tokens),
			StartLine: tokens[0].StartLine,
			EndLine:   tokens[len(tokens)-1].EndLine,
		}}
	}

	hashes := kgramHashes(tokens, k)

	var selected []Fingerprint
	lastPos := -1
	// The first w-1 iterations winnow truncated head windows, sampling
	// the stream start more densely than the one-per-full-window rule.
	for windowEnd := 0; windowEnd < len(hashes); windowEnd++ {
		windowStart := windowEnd - w + 1
		if windowStart < 0 {
			windowStart = 0
		}

		minPos := windowStart
		for i := windowStart + 1; i <= windowEnd; i++ {
			if hashes[i] < hashes[minPos] {
				minPos = i
			}
		}

		if minPos == lastPos {
			continue
		}
		lastPos = minPos
		selected = append(selected, Fingerprint{
			Hash:      hashes[minPos],
			File:      path,
			Start:     minPos,
			End:       minPos + k,
			StartLine: tokens[minPos].StartLine,
			EndLine:   tokens[minPos+k-1].EndLine,
		})
	}
	return selected
}
