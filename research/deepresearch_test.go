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
	"strings"
	"testing"
	"time"

	"deepresearch.dev/orchestrator/internal/config"
	"deepresearch.dev/orchestrator/llmclient"
	"deepresearch.dev/orchestrator/llmclient/llmtest"
	"deepresearch.dev/orchestrator/search"
	"deepresearch.dev/orchestrator/search/searchtest"
)

func TestDeepResearch_EmptySearchResultsNeverThrows(t *testing.T) {
	fakeSearch := &searchtest.Fake{Pages: []search.Page{{URL: "https://x", Markdown: ""}}}
	fakeLLM := &llmtest.Fake{
		GenerateFunc: func(ctx context.Context, req llmclient.Request) (*llmclient.Response, error) {
			switch {
			case strings.Contains(req.System, "generate focused web search"):
				return &llmclient.Response{JSON: []byte(`{"queries": [{"query": "four day workweek", "reasoning": "r"}]}`)}, nil
			case strings.Contains(req.System, "extract factual learnings"):
				return &llmclient.Response{JSON: []byte(`{"learnings": []}`)}, nil
			case strings.Contains(req.System, "analyze"):
				return &llmclient.Response{JSON: []byte(`{"summary": "", "valuable": false, "shouldContinue": true, "gaps": [], "nextSearchTopic": "four workweek basics"}`)}, nil
			default:
				return &llmclient.Response{JSON: []byte(`{}`)}, nil
			}
		},
	}

	got := DeepResearch(context.Background(), fakeLLM, fakeSearch, config.Default(), search.Options{}, DeepResearchParams{
		Query:             "four day workweek impact",
		Breadth:           2,
		Depth:             2,
		SuccessCriteria:   []string{"c1"},
		PlannedIterations: 10,
		RemainingTime:     2 * time.Minute,
	})

	if len(got.Learnings) != 0 {
		t.Errorf("Learnings = %v, want empty for all-empty search results", got.Learnings)
	}
	if len(got.VisitedURLs) != 0 {
		t.Errorf("VisitedURLs = %v, want empty", got.VisitedURLs)
	}
}

func TestDeepResearch_StopsOnAnalyzeSignal(t *testing.T) {
	fakeSearch := &searchtest.Fake{Pages: []search.Page{{URL: "https://x", Markdown: strings.Repeat("real content ", 20)}}}
	callCount := 0
	fakeLLM := &llmtest.Fake{
		GenerateFunc: func(ctx context.Context, req llmclient.Request) (*llmclient.Response, error) {
			switch {
			case strings.Contains(req.System, "generate focused web search"):
				return &llmclient.Response{JSON: []byte(`{"queries": [{"query": "some query", "reasoning": "r"}]}`)}, nil
			case strings.Contains(req.System, "extract factual learnings"):
				callCount++
				return &llmclient.Response{JSON: []byte(`{"learnings": ["fact one about the topic, long enough to be analyzed", "fact two about the topic, long enough to be analyzed"]}`)}, nil
			case strings.Contains(req.System, "analyze"):
				return &llmclient.Response{JSON: []byte(`{"summary": "s", "valuable": true, "shouldContinue": false, "gaps": [], "nextSearchTopic": ""}`)}, nil
			default:
				return &llmclient.Response{JSON: []byte(`{}`)}, nil
			}
		},
	}

	got := DeepResearch(context.Background(), fakeLLM, fakeSearch, config.Default(), search.Options{}, DeepResearchParams{
		Query:             "topic",
		Breadth:           2,
		Depth:             3,
		SuccessCriteria:   []string{"c1"},
		PlannedIterations: 10,
		RemainingTime:     5 * time.Minute,
	})

	if callCount != 1 {
		t.Errorf("summarizer called %d times, want 1 (should stop after first shouldContinue=false)", callCount)
	}
	if len(got.Learnings) != 2 {
		t.Errorf("Learnings = %v, want 2 entries from the single iteration", got.Learnings)
	}
}

func TestDeepResearch_BreaksWhenTimeExhausted(t *testing.T) {
	fakeSearch := &searchtest.Fake{}
	fakeLLM := &llmtest.Fake{}

	got := DeepResearch(context.Background(), fakeLLM, fakeSearch, config.Default(), search.Options{}, DeepResearchParams{
		Query:         "topic",
		Breadth:       2,
		Depth:         3,
		RemainingTime: 5 * time.Second,
	})

	if len(fakeSearch.SeenQueries()) != 0 {
		t.Errorf("search called %d times, want 0 when remaining time < 20s", len(fakeSearch.SeenQueries()))
	}
	if len(got.Learnings) != 0 {
		t.Errorf("Learnings = %v, want empty", got.Learnings)
	}
}
