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

package orchestrator

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"deepresearch.dev/orchestrator/budget"
	"deepresearch.dev/orchestrator/llmclient"
	"deepresearch.dev/orchestrator/plan"
	"deepresearch.dev/orchestrator/progress"
	"deepresearch.dev/orchestrator/quickpass"
	"deepresearch.dev/orchestrator/reportgen"
	"deepresearch.dev/orchestrator/research"
)

// Run drives the full pipeline: plan, score, quick pass, rebalance, the
// sequential component research loop gated by the time-state machine, and
// report assembly. Individual stage failures degrade locally (see each
// stage's own fallback policy); Run itself returns an error only when the
// caller's input cannot be used at all (e.g. a nil LLM).
func Run(ctx context.Context, opts Options) (*Result, error) {
	if opts.LLM == nil {
		return nil, fmt.Errorf("orchestrator: LLM is required")
	}

	if opts.TestAnthropicMode {
		return runSmokeTest(ctx, opts)
	}

	ctx, cancel := context.WithTimeout(ctx, opts.maxDuration())
	defer cancel()

	sink := opts.Progress
	if sink == nil {
		sink = progress.Nop{}
	}

	researchPlan, err := plan.NewPlanner(opts.LLM).CreatePlan(ctx, opts.Query, opts.FeedbackResponses)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: create plan: %w", err)
	}
	emit(sink, progress.TypePlanRevision, fmt.Sprintf("planned %d components", len(researchPlan.Components)), researchPlan)

	scores := plan.NewImportanceScorer(opts.LLM).Score(ctx, researchPlan)

	qp := &quickpass.Runner{LLM: opts.LLM, Search: opts.Search}
	componentResults := qp.Run(ctx, researchPlan)
	emit(sink, progress.TypeMidComponentResult, "quick pass complete", componentResults)

	multipliers := plan.Rebalance(researchPlan, scores, opts.ComponentDepthMultipliers)
	emit(sink, progress.TypePlanRevision, "rebalanced sequencing", researchPlan.Sequencing)

	state := budget.Init(researchPlan.Sequencing, opts.maxDuration(), time.Now())
	state.RunID = uuid.NewString()
	stats := budget.ResearchStats{}

	researcher := &research.ComponentResearcher{
		LLM:       opts.LLM,
		Search:    opts.Search,
		Sink:      sink,
		MainTopic: researchPlan.MainObjective,
	}

	var skippedNames []string
	var completedNames []string

	for len(state.Remaining) > 0 {
		if ctx.Err() != nil {
			emit(sink, progress.TypeError, "aborted: deadline exceeded", nil)
			break
		}

		state = budget.Tick(state, time.Now())
		name := state.InProgress
		comp := researchPlan.ComponentByName(name)
		if comp == nil {
			// Defensive: sequencing is validated to be a permutation of
			// component names, so this should be unreachable.
			state = budget.Complete(state, name, 0)
			continue
		}

		decision := budget.ShouldContinueComponent(ctx, opts.LLM, state, stats, len(comp.SubQuestions))
		emit(sink, progress.TypeTimeDecision, decision.Reasoning, decision)

		if !decision.Continue {
			skippedNames = append(skippedNames, name)
			state = budget.Complete(state, name, 0)
			continue
		}

		breadth, depth := opts.breadth(), opts.depth()
		if decision.Minimal {
			breadth, depth = 1, 1
		}
		multiplier := multipliers[name]
		if multiplier <= 0 {
			multiplier = 1.0
		}

		seed := componentResults[name]
		result := researcher.Run(ctx, *comp, seed, breadth, depth, multiplier, state.RemainingTime, len(comp.SubQuestions))
		result = researcher.RunQualityPass(ctx, *comp, result, state.RemainingTime-result.TimeSpent)
		componentResults[name] = result

		for _, d := range result.IterationTimes {
			stats = budget.RecordIteration(stats, d)
		}
		stats = budget.RecordComponent(stats, result.TimeSpent)

		emit(sink, progress.TypeComponentTiming, fmt.Sprintf("%s took %s", name, result.TimeSpent), result.TimeSpent)

		state = budget.Complete(state, name, result.TimeSpent)
		completedNames = append(completedNames, name)
	}

	learnings, visitedURLs := mergeResults(opts, componentResults)

	sections := reportgen.BuildSections(ctx, opts.LLM, researchPlan, componentResults, completedNames)
	assembler := &reportgen.Assembler{Primary: opts.LLM, Synthesis: opts.SynthesisLLM, Sink: sink}
	report := assembler.Synthesize(ctx, researchPlan, sections, visitedURLs)
	emit(sink, progress.TypeResult, "report complete", nil)

	return &Result{
		Learnings:        learnings,
		VisitedURLs:      visitedURLs,
		ResearchPlan:     researchPlan,
		ComponentResults: componentResults,
		TimeStats: TimeStats{
			TotalTime:            state.ElapsedTime,
			ComponentTimes:       state.ComponentTimes,
			CompletedComponents:  completedNames,
			SkippedComponents:    skippedNames,
			AverageIterationTime: stats.AverageIterationTime,
		},
		Report: report,
	}, nil
}

// runSmokeTest implements Options.TestAnthropicMode: a single streamed call
// against the synthesis model (falling back to the primary LLM when no
// synthesis model is configured), with no planning or searching. Unlike
// Assembler.Synthesize, a stream failure here is reported as a failed
// APITestResult rather than silently recovered by a fallback — the whole
// point of this mode is to surface whether the configured API works.
func runSmokeTest(ctx context.Context, opts Options) (*Result, error) {
	client := opts.SynthesisLLM
	if client == nil {
		client = opts.LLM
	}
	sink := opts.Progress
	if sink == nil {
		sink = progress.Nop{}
	}

	var report string
	for chunk, err := range client.StreamText(ctx, llmclient.Request{
		System: "Reply with a brief one-sentence acknowledgment.",
		User:   "connectivity smoke test",
	}) {
		if err != nil {
			return &Result{APITestResult: &APITestResult{Success: false, Message: err.Error()}}, nil
		}
		report += chunk
		emit(sink, progress.TypeResult, chunk, nil)
	}

	if report == "" {
		return &Result{APITestResult: &APITestResult{Success: false, Message: "synthesis call produced no content"}}, nil
	}
	return &Result{
		Report:        report,
		APITestResult: &APITestResult{Success: true, Message: "synthesis call succeeded"},
	}, nil
}

// mergeResults combines every component's learnings/URLs with the caller's
// existing ones into deduplicated, order-preserving slices.
func mergeResults(opts Options, results map[string]research.ComponentResult) ([]string, []string) {
	seenLearnings := make(map[string]bool)
	seenURLs := make(map[string]bool)
	var learnings, urls []string

	appendUnique := func(dst []string, seen map[string]bool, items []string) []string {
		for _, item := range items {
			if item == "" || seen[item] {
				continue
			}
			seen[item] = true
			dst = append(dst, item)
		}
		return dst
	}

	learnings = appendUnique(learnings, seenLearnings, opts.ExistingLearnings)
	urls = appendUnique(urls, seenURLs, opts.ExistingVisitedURLs)

	for _, name := range sortedKeys(results) {
		r := results[name]
		learnings = appendUnique(learnings, seenLearnings, r.Learnings)
		urls = appendUnique(urls, seenURLs, r.VisitedURLs)
	}
	return learnings, urls
}

func sortedKeys(m map[string]research.ComponentResult) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func emit(sink progress.Sink, typ progress.Type, content string, data any) {
	sink.Emit(progress.Event{Type: typ, Content: content, Data: data})
}
