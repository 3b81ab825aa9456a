// Copyright 2025 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package config holds the orchestrator's runtime knobs. Callers pass a
// *Config or nil; a nil Config is equivalent to Default().
package config

import "time"

// Config holds the tunable constants the spec calls out as configuration
// knobs rather than hard-coded behavior.
type Config struct {
	// TokenizerContextWindow bounds how much combined content the
	// summarizer is allowed to consider.
	TokenizerContextWindow int

	// MinTrimChunk is the smallest chunk size trimming will cut a body
	// down to.
	MinTrimChunk int

	// PerContentTrimSize is the maximum character length of a single
	// scraped page's markdown before it is trimmed.
	PerContentTrimSize int

	// QuickPassBreadth and QuickPassDepth are fixed, not user-tunable by
	// the orchestrator's inputs, but live here so a test can override
	// them.
	QuickPassBreadth int
	QuickPassDepth   int

	// FallbackQueryMaxWords bounds the simplified retry query built when a
	// search returns no usable content.
	FallbackQueryMaxWords int

	// SaturationComponentThreshold is the coverage percentage at or above
	// which a component is considered saturated.
	SaturationComponentThreshold int
	// SaturationMidDepthThreshold is the coverage percentage at or above
	// which a depth iteration inside the deep-research sub-routine exits
	// early.
	SaturationMidDepthThreshold int

	// MinimalIterationGate is the fraction (0-1) of planned iterations
	// below which the Saturation Evaluator short-circuits to "no coverage
	// yet" without calling the LLM.
	MinimalIterationGate float64

	// SearchTimeout is the per-call timeout enforced on the search
	// service.
	SearchTimeout time.Duration
}

// Default returns the configuration named in the external interfaces
// section: tokenizer window 120000, min trim chunk 140, per-content trim
// size 25000, quick-pass breadth 2 / depth 1, fallback-query max words 4,
// saturation thresholds 75%/65%, minimal-iteration gate 10%, search
// timeout 15s.
func Default() *Config {
	return &Config{
		TokenizerContextWindow:       120_000,
		MinTrimChunk:                 140,
		PerContentTrimSize:           25_000,
		QuickPassBreadth:             2,
		QuickPassDepth:               1,
		FallbackQueryMaxWords:        4,
		SaturationComponentThreshold: 75,
		SaturationMidDepthThreshold:  65,
		MinimalIterationGate:         0.10,
		SearchTimeout:                15 * time.Second,
	}
}

// OrDefault returns cfg if non-nil, otherwise Default().
func OrDefault(cfg *Config) *Config {
	if cfg != nil {
		return cfg
	}
	return Default()
}
