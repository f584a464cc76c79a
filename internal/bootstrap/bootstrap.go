// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package bootstrap estimates percentile confidence intervals by
// seeded resampling. Resample index arrays are generated up front from
// one deterministic sequence, so the result is bit-identical for a
// given (samples, B, level, seed) regardless of execution parallelism
// or sample arrival order.
// Implements: prd008-confidence R1-R3;
//
//	docs/ARCHITECTURE § Confidence Estimator.
package bootstrap

import (
	"math/rand"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/petar-djukic/cq/pkg/types"
)

// Config parameterizes the estimator.
type Config struct {
	Resamples int     // B: number of bootstrap resamples
	Level     float64 // Two-sided confidence level in (0,1)
	Seed      int64   // PRNG seed
}

// Interval is the estimated two-sided interval plus the point estimate.
type Interval struct {
	Low   float64
	High  float64
	Mean  float64
	Level float64
}

// Estimate computes the percentile bootstrap interval over the sample
// values. Samples are first sorted into canonical (path, value) order
// so that arrival order never influences the resample sequence; then
// all B index arrays are drawn from the seeded generator before any
// parallel work starts. Empty input yields a zero interval.
func Estimate(samples []types.MetricSample, cfg Config) Interval {
	iv := Interval{Level: cfg.Level}
	if len(samples) == 0 || cfg.Resamples <= 0 {
		return iv
	}

	sorted := make([]types.MetricSample, len(samples))
	copy(sorted, samples)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Path != sorted[j].Path {
			return sorted[i].Path < sorted[j].Path
		}
		return sorted[i].Value < sorted[j].Value
	})

	values := make([]float64, len(sorted))
	var sum float64
	for i, s := range sorted {
		values[i] = s.Value
		sum += s.Value
	}
	iv.Mean = sum / float64(len(values))

	// Index generation happens before any goroutine is started: the
	// generator is advanced in one fixed, enumerable order.
	rng := rand.New(rand.NewSource(cfg.Seed))
	indices := make([][]int, cfg.Resamples)
	for b := range indices {
		row := make([]int, len(values))
		for i := range row {
			row[i] = rng.Intn(len(values))
		}
		indices[b] = row
	}

	// Per-resample evaluation is embarrassingly parallel; each worker
	// writes its mean into a pre-sized slot, preserving the
	// pre-generated ordering for the reduction.
	means := make([]float64, cfg.Resamples)
	var g errgroup.Group
	g.SetLimit(runtime.NumCPU())
	for b := range indices {
		b := b
		g.Go(func() error {
			var s float64
			for _, idx := range indices[b] {
				s += values[idx]
			}
			means[b] = s / float64(len(values))
			return nil
		})
	}
	_ = g.Wait() // Workers never return errors.

	sort.Float64s(means)
	alpha := (1 - cfg.Level) / 2
	n := len(means)
	lowerIdx := int(alpha * float64(n-1))
	upperIdx := int((1 - alpha) * float64(n-1))
	if lowerIdx < 0 {
		lowerIdx = 0
	}
	if upperIdx > n-1 {
		upperIdx = n - 1
	}
	iv.Low = means[lowerIdx]
	iv.High = means[upperIdx]
	return iv
}
