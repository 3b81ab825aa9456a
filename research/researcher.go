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
	"time"

	"deepresearch.dev/orchestrator/internal/config"
	"deepresearch.dev/orchestrator/internal/fallback"
	"deepresearch.dev/orchestrator/llmclient"
	"deepresearch.dev/orchestrator/plan"
	"deepresearch.dev/orchestrator/progress"
	"deepresearch.dev/orchestrator/search"
)

const componentSummarySystemPrompt = `Write a concise, factual summary of what was learned about a research
component, based solely on the learnings provided. Do not introduce information not present in them.`

// ComponentResearcher runs the full per-component research loop: §4.6 over
// sub-questions, §4.7 deep research per sub-question, §4.10 saturation, and
// §4.11 quality follow-up.
type ComponentResearcher struct {
	LLM       llmclient.Client
	Search    search.Service
	Config    *config.Config
	Sink      progress.Sink
	MainTopic string
}

// Run researches comp, starting from a ComponentResult that may already
// hold a quick-pass learning for the component's first sub-question (which
// Run will skip re-asking). breadth/depth are the caller's configured
// defaults, before the component's rebalance multiplier is applied to
// depth.
func (r *ComponentResearcher) Run(ctx context.Context, comp plan.Component, seed ComponentResult, breadth, depth int, depthMultiplier float64, remainingTime time.Duration, plannedIterations int) ComponentResult {
	cfg := config.OrDefault(r.Config)
	result := seed

	subQuestions := comp.SubQuestions
	if len(subQuestions) > 1 {
		subQuestions = subQuestions[1:] // first was consumed by the quick pass
	} else {
		subQuestions = nil
	}

	completedIterations := 0
	gaps := NewGapMap(comp.SuccessCriteria)

	for i, sq := range subQuestions {
		remainingSubQCount := len(subQuestions) - i
		timePerQ := remainingTime / time.Duration(remainingSubQCount)

		effBreadth, effDepth := degradeBreadthDepth(timePerQ, breadth, depth, depthMultiplier)

		if remainingTime < 20*time.Second {
			break
		}

		iterStart := time.Now()
		dr := DeepResearch(ctx, r.LLM, r.Search, cfg, search.Options{Timeout: cfg.SearchTimeout, Limit: 5}, DeepResearchParams{
			Query:               sq,
			Breadth:             effBreadth,
			Depth:               effDepth,
			MainTopic:           r.MainTopic,
			ComponentName:       comp.Name,
			Gaps:                gaps,
			SuccessCriteria:     comp.SuccessCriteria,
			CompletedIterations: completedIterations,
			PlannedIterations:   plannedIterations,
			RemainingTime:       remainingTime,
		})
		iterDuration := time.Since(iterStart)
		remainingTime -= iterDuration
		completedIterations++
		result.IterationTimes = append(result.IterationTimes, iterDuration)

		result.Learnings = append(result.Learnings, dr.Learnings...)
		result.VisitedURLs = append(result.VisitedURLs, dr.VisitedURLs...)

		emit(r.Sink, progress.TypeProgress, fmt.Sprintf("researched sub-question for %s", comp.Name), nil)

		sat, satGaps := EvaluateSaturation(ctx, r.LLM, cfg, comp.SuccessCriteria, result.Learnings, completedIterations, plannedIterations)
		gaps = satGaps
		if sat.IsSaturated || sat.CoveragePercentage >= cfg.SaturationComponentThreshold {
			emit(r.Sink, progress.TypeSaturation, fmt.Sprintf("%s reached saturation", comp.Name), sat)
			break
		}
	}

	result.Summary = r.summarize(ctx, comp, result)
	for _, d := range result.IterationTimes {
		result.TimeSpent += d
	}
	return result
}

func (r *ComponentResearcher) summarize(ctx context.Context, comp plan.Component, result ComponentResult) string {
	user := fmt.Sprintf("Component: %s\n\nLearnings:\n", comp.Name)
	for _, l := range result.Learnings {
		user += fmt.Sprintf("- %s\n", l)
	}
	resp, err := llmclient.Generate[summaryTextResponse](ctx, r.LLM, componentSummarySchema(), componentSummarySystemPrompt, user)
	if err != nil {
		return fallback.Value(fmt.Sprintf("Findings for %s", comp.Name), "research: component summary", err)
	}
	return resp.Summary
}

// degradeBreadthDepth implements §4.6's breadth/depth degradation table.
func degradeBreadthDepth(timePerQ time.Duration, breadth, depth int, multiplier float64) (int, int) {
	switch {
	case timePerQ < 30*time.Second:
		return 1, 1
	case timePerQ < 60*time.Second:
		b := breadth / 2
		if b < 1 {
			b = 1
		}
		return b, 1
	default:
		d := int(float64(depth)*multiplier + 0.5)
		if d < 1 {
			d = 1
		}
		return breadth, d
	}
}

func emit(sink progress.Sink, typ progress.Type, content string, data any) {
	if sink == nil {
		return
	}
	sink.Emit(progress.Event{Type: typ, Content: content, Data: data})
}
