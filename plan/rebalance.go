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

package plan

import "sort"

const (
	minMultiplier = 0.5
	maxMultiplier = 2.0
)

// Rebalance reorders plan.Sequencing by descending importance score (ties
// keep their relative order, satisfying the stability requirement that
// equal scores leave sequencing unchanged) and returns a depth multiplier
// per component.
//
// The multiplier is computed against the EQUAL-ALLOCATION mean (100/n), not
// the mean of the scores actually returned by the scorer: a scorer that
// returns a skewed or non-normalized set of scores must not silently change
// how aggressively components get rebalanced relative to a clean baseline.
// Caller-supplied overrides replace the computed multiplier for the named
// component outright.
func Rebalance(p *ResearchPlan, scores map[string]float64, overrides map[string]float64) map[string]float64 {
	sort.SliceStable(p.Sequencing, func(i, j int) bool {
		return scores[p.Sequencing[i]] > scores[p.Sequencing[j]]
	})

	n := len(p.Components)
	multipliers := make(map[string]float64, n)
	if n == 0 {
		return multipliers
	}
	meanScore := 100.0 / float64(n)

	for _, c := range p.Components {
		if ov, ok := overrides[c.Name]; ok {
			multipliers[c.Name] = ov
			continue
		}
		m := 0.5 + (scores[c.Name]/meanScore)*0.75
		multipliers[c.Name] = clamp(m, minMultiplier, maxMultiplier)
	}
	return multipliers
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
