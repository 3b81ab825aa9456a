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
	"context"
	"fmt"
	"math"
	"strings"

	"deepresearch.dev/orchestrator/internal/config"
	"deepresearch.dev/orchestrator/internal/fallback"
	"deepresearch.dev/orchestrator/llmclient"
)

const saturationSystemPrompt = `You assess how thoroughly a set of success criteria has been covered by the
research learnings gathered so far. Classify every criterion as covered or remaining, estimate overall
coverage as an integer percentage 0-100, and explain any remaining gaps.`

// EvaluateSaturation implements the Saturation Evaluator (§4.10). If fewer
// than cfg.MinimalIterationGate of the planned iterations have completed,
// it short-circuits without calling the LLM: there isn't enough signal yet
// to claim coverage, so every criterion is reported as uncovered.
func EvaluateSaturation(ctx context.Context, llm llmclient.Client, cfg *config.Config, successCriteria []string, learnings []string, completedIterations, plannedIterations int) (SaturationResult, GapMap) {
	cfg = config.OrDefault(cfg)
	gaps := NewGapMap(successCriteria)

	minIterations := int(math.Ceil(cfg.MinimalIterationGate * float64(plannedIterations)))
	if completedIterations < minIterations {
		return SaturationResult{
			IsSaturated:        false,
			CoveragePercentage: 0,
			RemainingCriteria:  append([]string(nil), successCriteria...),
		}, gaps
	}

	resp, err := llmclient.Generate[saturationResponse](ctx, llm, saturationSchema(), saturationSystemPrompt, buildSaturationPrompt(successCriteria, learnings))
	if err != nil {
		return fallback.Value(SaturationResult{
			IsSaturated:        false,
			CoveragePercentage: 0,
			RemainingCriteria:  append([]string(nil), successCriteria...),
		}, "research: evaluate saturation", err), gaps
	}

	coverage := resp.CoveragePercentage
	if coverage < 0 {
		coverage = 0
	}
	if coverage > 100 {
		coverage = 100
	}

	for criterion, gap := range resp.GapDetails {
		gaps.Set(criterion, gap)
	}
	for _, c := range resp.CoveredCriteria {
		if _, tracked := gaps.Get(c); tracked {
			if _, hasGap := resp.GapDetails[c]; !hasGap {
				gaps.Set(c, GapUnknownContinuing)
			}
		}
	}

	return SaturationResult{
		IsSaturated:        resp.IsSaturated,
		CoveragePercentage: coverage,
		CoveredCriteria:    resp.CoveredCriteria,
		RemainingCriteria:  resp.RemainingCriteria,
		Reasoning:          resp.Reasoning,
		GapDetails:         resp.GapDetails,
	}, gaps
}

func buildSaturationPrompt(successCriteria, learnings []string) string {
	var b strings.Builder
	b.WriteString("Success criteria:\n")
	for _, c := range successCriteria {
		fmt.Fprintf(&b, "- %s\n", c)
	}
	b.WriteString("\nLearnings so far:\n")
	for _, l := range learnings {
		fmt.Fprintf(&b, "- %s\n", l)
	}
	return b.String()
}
