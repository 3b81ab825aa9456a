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
	"time"

	"deepresearch.dev/orchestrator/internal/config"
	"deepresearch.dev/orchestrator/llmclient"
	"deepresearch.dev/orchestrator/search"
)

// DeepResearchParams configures one invocation of the deep-research
// sub-routine.
type DeepResearchParams struct {
	Query         string
	Breadth       int
	Depth         int
	MainTopic     string
	ComponentName string
	Gaps          GapMap
	// SuccessCriteria and iteration accounting, used by the mid-depth
	// saturation check.
	SuccessCriteria     []string
	CompletedIterations int
	PlannedIterations   int
	// RemainingTime is refreshed by the caller before each call; the
	// sub-routine breaks early once it drops below 20s.
	RemainingTime time.Duration
}

// DeepResearchResult is what one sub-question's worth of deep research
// produced.
type DeepResearchResult struct {
	Learnings   []string
	VisitedURLs []string
}

// DeepResearch implements §4.7: run up to params.Depth iterations, each
// generating up to params.Breadth sub-queries, searching, summarizing, and
// analyzing; stopping on time exhaustion, an Analyze "stop" signal, or
// mid-depth saturation.
func DeepResearch(ctx context.Context, llm llmclient.Client, svc search.Service, cfg *config.Config, searchOpts search.Options, params DeepResearchParams) DeepResearchResult {
	cfg = config.OrDefault(cfg)
	var result DeepResearchResult

	query := params.Query
	remaining := params.RemainingTime

	for iter := 0; iter < params.Depth; iter++ {
		// 1. Break early if remaining <20s.
		if remaining < 20*time.Second {
			break
		}

		// 2. Generate up to breadth sub-queries.
		queries := GenerateSubQueries(ctx, llm, SubQueryParams{
			Query:           query,
			Count:           params.Breadth,
			RecentLearnings: lastN(result.Learnings, 7),
			MainTopic:       params.MainTopic,
			ComponentName:   params.ComponentName,
			Gaps:            params.Gaps,
		})

		// 3. Run each sub-query, with a single fallback retry on empty
		// content.
		var pages []search.Page
		for _, sq := range queries {
			start := time.Now()
			found := searchOne(ctx, svc, searchOpts, sq.Query)
			if !hasUsableContent(pageBodies(found)) {
				retryQuery := fallbackQuery(sq.Query, cfg.FallbackQueryMaxWords)
				if retryQuery != "" && retryQuery != sq.Query {
					found = searchOne(ctx, svc, searchOpts, retryQuery)
				}
			}
			if hasUsableContent(pageBodies(found)) {
				pages = append(pages, found...)
				for _, p := range found {
					result.VisitedURLs = append(result.VisitedURLs, p.URL)
				}
			}
			remaining -= time.Since(start)
		}

		// 4. Summarize into <=5 learnings.
		learnings, _ := Summarize(ctx, llm, cfg, query, pages)
		result.Learnings = append(result.Learnings, learnings...)

		// 5. Analysis & Plan.
		analysis := Analyze(ctx, llm, query, learnings)
		if !analysis.ShouldContinue {
			return result
		}
		if analysis.NextSearchTopic != "" {
			query = analysis.NextSearchTopic
		}

		// 6. Mid-depth saturation check, past the first iteration.
		if iter > 0 {
			sat, _ := EvaluateSaturation(ctx, llm, cfg, params.SuccessCriteria, result.Learnings, params.CompletedIterations+iter, params.PlannedIterations)
			if sat.IsSaturated || sat.CoveragePercentage >= cfg.SaturationMidDepthThreshold {
				break
			}
		}
	}

	return result
}

func searchOne(ctx context.Context, svc search.Service, opts search.Options, query string) []search.Page {
	pages, err := svc.Search(ctx, query, opts)
	if err != nil {
		return nil
	}
	return pages
}

func pageBodies(pages []search.Page) []string {
	out := make([]string, len(pages))
	for i, p := range pages {
		out[i] = p.Markdown
	}
	return out
}

func lastN(s []string, n int) []string {
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}
