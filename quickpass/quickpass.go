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

// Package quickpass runs the initial shallow, concurrent investigation of
// every plan component used to seed learnings ahead of the sequential deep
// research pass and inform the rebalancer.
package quickpass

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"deepresearch.dev/orchestrator/internal/config"
	"deepresearch.dev/orchestrator/llmclient"
	"deepresearch.dev/orchestrator/plan"
	"deepresearch.dev/orchestrator/research"
	"deepresearch.dev/orchestrator/search"
)

// Runner executes the quick pass: one deep-research query per component at
// breadth=2, depth=1, all launched concurrently and awaited jointly.
type Runner struct {
	LLM    llmclient.Client
	Search search.Service
	Config *config.Config
}

// Run researches the first sub-question of every component in p
// concurrently. Each worker owns an independent accumulator; a failure or
// panic-free error in one component never aborts the others — on any
// internal error the worker's result holds whatever it gathered (possibly
// no learnings, with a placeholder summary) rather than being omitted, so
// the caller always gets one result per component.
func (r *Runner) Run(ctx context.Context, p *plan.ResearchPlan) map[string]research.ComponentResult {
	cfg := config.OrDefault(r.Config)
	results := make([]research.ComponentResult, len(p.Components))

	var g errgroup.Group
	for i, comp := range p.Components {
		i, comp := i, comp
		g.Go(func() error {
			results[i] = r.runOne(ctx, cfg, p.MainObjective, comp)
			return nil
		})
	}
	// g.Wait's error is always nil: runOne never returns an error to the
	// group, it captures failures into the ComponentResult itself.
	_ = g.Wait()

	merged := make(map[string]research.ComponentResult, len(p.Components))
	for i, comp := range p.Components {
		merged[comp.Name] = results[i]
	}
	return merged
}

func (r *Runner) runOne(ctx context.Context, cfg *config.Config, mainTopic string, comp plan.Component) research.ComponentResult {
	if len(comp.SubQuestions) == 0 {
		return research.ComponentResult{}
	}

	dr := research.DeepResearch(ctx, r.LLM, r.Search, cfg, search.Options{Timeout: cfg.SearchTimeout, Limit: 5}, research.DeepResearchParams{
		Query:             comp.SubQuestions[0],
		Breadth:           cfg.QuickPassBreadth,
		Depth:             cfg.QuickPassDepth,
		MainTopic:         mainTopic,
		ComponentName:     comp.Name,
		Gaps:              research.NewGapMap(comp.SuccessCriteria),
		SuccessCriteria:   comp.SuccessCriteria,
		PlannedIterations: 1,
		RemainingTime:     cfg.SearchTimeout * 4,
	})

	result := research.ComponentResult{
		Learnings:   dr.Learnings,
		VisitedURLs: dr.VisitedURLs,
	}
	if len(result.Learnings) == 0 {
		result.Summary = fmt.Sprintf("No quick-pass findings yet for %s", comp.Name)
	}
	return result
}
