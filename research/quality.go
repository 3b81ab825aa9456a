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
	"log"
	"strings"
	"time"

	"deepresearch.dev/orchestrator/internal/config"
	"deepresearch.dev/orchestrator/llmclient"
	"deepresearch.dev/orchestrator/plan"
	"deepresearch.dev/orchestrator/search"
)

const qualitySystemPrompt = `You review whether a research component's gathered learnings meet its success
criteria. If they do not, suggest up to 2 highly targeted follow-up queries and list what's missing.`

const qualityMinRemainingTime = 3 * time.Minute
const maxQualityFollowUps = 2

// RunQualityPass implements §4.11: skipped entirely when remainingTime is
// below the 3-minute floor. Otherwise asks the LLM whether the component's
// success criteria are met; if not, runs up to 2 additional deep-research
// queries biased by the missing elements and folds their learnings back
// into result, refreshing the summary.
func (r *ComponentResearcher) RunQualityPass(ctx context.Context, comp plan.Component, result ComponentResult, remainingTime time.Duration) ComponentResult {
	if remainingTime < qualityMinRemainingTime {
		return result
	}
	cfg := config.OrDefault(r.Config)

	resp, err := llmclient.Generate[qualityResponse](ctx, r.LLM, qualitySchema(), qualitySystemPrompt, buildQualityPrompt(comp, result))
	if err != nil {
		log.Printf("research: quality evaluation: falling back: %v", err)
		return result
	}
	if resp.MeetsQuality {
		return result
	}

	gaps := NewGapMap(comp.SuccessCriteria)
	for _, m := range resp.MissingElements {
		gaps.Set(m, m)
	}

	queries := resp.AdditionalQueries
	if len(queries) > maxQualityFollowUps {
		queries = queries[:maxQualityFollowUps]
	}

	for _, q := range queries {
		dr := DeepResearch(ctx, r.LLM, r.Search, cfg, search.Options{Timeout: cfg.SearchTimeout, Limit: 5}, DeepResearchParams{
			Query:           q,
			Breadth:         2,
			Depth:           1,
			MainTopic:       r.MainTopic,
			ComponentName:   comp.Name,
			Gaps:            gaps,
			SuccessCriteria: comp.SuccessCriteria,
			RemainingTime:   remainingTime,
		})
		result.Learnings = append(result.Learnings, dr.Learnings...)
		result.VisitedURLs = append(result.VisitedURLs, dr.VisitedURLs...)
	}

	result.Summary = r.summarize(ctx, comp, result)
	return result
}

func buildQualityPrompt(comp plan.Component, result ComponentResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Component: %s\n\nSuccess criteria:\n", comp.Name)
	for _, c := range comp.SuccessCriteria {
		fmt.Fprintf(&b, "- %s\n", c)
	}
	b.WriteString("\nLearnings:\n")
	for _, l := range result.Learnings {
		fmt.Fprintf(&b, "- %s\n", l)
	}
	return b.String()
}
