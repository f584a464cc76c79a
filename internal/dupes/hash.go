// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Implements: prd005-duplication R1 (k-gram hashing).
package dupes

import (
	"github.com/petar-djukic/cq/pkg/types"
)

// hashBase is the multiplier of the polynomial rolling hash. Arithmetic
// is mod 2^64 via natural uint64 wraparound, so sliding the window is
// one subtraction, one multiply, and one add.
const hashBase uint64 = 1099511628211

// tokenValue maps a normalized token to the value hashed for it. Only
// (Kind, Role) participate; spans never do. The splitmix64 finalizer
// spreads the small input domain across the hash space so window
// minima are not biased toward low-numbered kinds.
func tokenValue(t types.NormalizedToken) uint64 {
	x := uint64(t.Kind)<<8 | uint64(t.Role)
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	return x ^ (x >> 31)
}

// kgramHashes returns the polynomial hash of every k-gram in the token
// stream, computed with a rolling update. Returns nil when the stream
// is shorter than k.
func kgramHashes(tokens []types.NormalizedToken, k int) []uint64 {
	if len(tokens) < k {
		return nil
	}

	// b^(k-1) for removing the outgoing token.
	top := uint64(1)
	for i := 0; i < k-1; i++ {
		top *= hashBase
	}

	hashes := make([]uint64, 0, len(tokens)-k+1)
	var h uint64
	for i := 0; i < k; i++ {
		h = h*hashBase + tokenValue(tokens[i])
	}
	hashes = append(hashes, h)

	for i := k; i < len(tokens); i++ {
		h = (h - tokenValue(tokens[i-k])*top) * hashBase
		h += tokenValue(tokens[i])
		hashes = append(hashes, h)
	}
	return hashes
}

// wholeStreamHash hashes an entire short stream (< k tokens) as one
// fingerprint so tiny files still participate in the index.
func wholeStreamHash(tokens []types.NormalizedToken) uint64 {
	var h uint64
	for _, t := range tokens {
		h = h*hashBase + tokenValue(t)
	}
	return h
}
