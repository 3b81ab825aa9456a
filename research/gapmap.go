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

package research

import (
	"iter"

	"rsc.io/omap"
)

// Reserved neutral gap-description values.
const (
	GapNoCoverageYet     = "No coverage yet"
	GapInitial           = "Initial gap"
	GapUnknownContinuing = "Unknown gap; continuing"
)

// GapMap maps a success criterion to a description of what's still
// missing. It is rebuilt by every saturation evaluation. Backed by
// rsc.io/omap so criteria iterate in a deterministic, sorted order
// regardless of map insertion order — important because the gap map feeds
// directly into sub-query generation prompts, and non-deterministic
// ordering there makes golden-output tests and reproduction of a run
// impossible. string satisfies cmp.Ordered, so Map's natural ordering is
// used directly; no custom comparator is needed.
type GapMap struct {
	m *omap.Map[string, string]
}

// NewGapMap returns a GapMap with every criterion set to the neutral
// "no coverage yet" description.
func NewGapMap(criteria []string) GapMap {
	g := GapMap{m: &omap.Map[string, string]{}}
	for _, c := range criteria {
		g.m.Set(c, GapNoCoverageYet)
	}
	return g
}

// Set records the gap description for a criterion.
func (g GapMap) Set(criterion, gap string) {
	g.m.Set(criterion, gap)
}

// Get returns the gap description for a criterion and whether it is
// tracked at all.
func (g GapMap) Get(criterion string) (string, bool) {
	return g.m.Get(criterion)
}

// All iterates criteria in sorted order.
func (g GapMap) All() iter.Seq2[string, string] {
	return g.m.All()
}

// NonNeutral returns every criterion whose gap description is not one of
// the reserved neutral values, in sorted order. The sub-query generator
// biases its queries toward these.
func (g GapMap) NonNeutral() []string {
	var out []string
	for criterion, gap := range g.All() {
		if gap != GapNoCoverageYet && gap != GapInitial && gap != GapUnknownContinuing {
			out = append(out, criterion)
		}
	}
	return out
}

// Len returns the number of tracked criteria. omap.Map has no size method of
// its own, so this counts by iterating.
func (g GapMap) Len() int {
	n := 0
	for range g.All() {
		n++
	}
	return n
}
