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
	"encoding/json"
	"errors"
	"iter"
	"strings"
	"testing"
	"time"

	"deepresearch.dev/orchestrator/llmclient"
	"deepresearch.dev/orchestrator/llmclient/llmtest"
	"deepresearch.dev/orchestrator/progress"
	"deepresearch.dev/orchestrator/search"
	"deepresearch.dev/orchestrator/search/searchtest"
)

// happyPathLLM routes every call by a substring of its system prompt,
// matching the wording each package actually uses.
func happyPathLLM() *llmtest.Fake {
	return &llmtest.Fake{
		GenerateFunc: func(ctx context.Context, req llmclient.Request) (*llmclient.Response, error) {
			switch {
			case strings.Contains(req.System, "research strategist"):
				return &llmclient.Response{JSON: []byte(`{
					"main_objective": "understand the four-day workweek",
					"components": [
						{"name": "Productivity", "description": "d", "sub_questions": ["q1", "q2"], "success_criteria": ["c1"]},
						{"name": "Wellbeing", "description": "d", "sub_questions": ["q3", "q4"], "success_criteria": ["c2"]},
						{"name": "Adoption", "description": "d", "sub_questions": ["q5", "q6"], "success_criteria": ["c3"]}
					],
					"sequencing": ["Productivity", "Wellbeing", "Adoption"],
					"potential_pivots": []
				}`)}, nil
			case strings.Contains(req.System, "allocating research effort"):
				return &llmclient.Response{JSON: []byte(`{"scores": [
					{"name": "Productivity", "score": 50},
					{"name": "Wellbeing", "score": 30},
					{"name": "Adoption", "score": 20}
				]}`)}, nil
			case strings.Contains(req.System, "generate focused web search"):
				return &llmclient.Response{JSON: []byte(`{"queries": [{"query": "workweek topic", "reasoning": "r"}]}`)}, nil
			case strings.Contains(req.System, "extract factual learnings"):
				return &llmclient.Response{JSON: []byte(`{"learnings": ["a relevant learning about the topic"]}`)}, nil
			case strings.Contains(req.System, "analyze summarized"):
				return &llmclient.Response{JSON: []byte(`{"summary": "s", "valuable": true, "shouldContinue": false, "gaps": [], "nextSearchTopic": ""}`)}, nil
			case strings.Contains(req.System, "assess how thoroughly"):
				return &llmclient.Response{JSON: []byte(`{"isSaturated": true, "coveragePercentage": 80, "coveredCriteria": [], "remainingCriteria": [], "reasoning": "done"}`)}, nil
			case strings.Contains(req.System, "review whether"):
				return &llmclient.Response{JSON: []byte(`{"meetsQuality": true, "missingElements": [], "additionalQueries": []}`)}, nil
			case strings.Contains(req.System, "deciding whether to continue"):
				return &llmclient.Response{JSON: []byte(`{"shouldContinue": true, "reasoning": "plenty of budget"}`)}, nil
			case strings.Contains(req.System, "write one markdown section"):
				return &llmclient.Response{JSON: []byte(`{"sectionContent": "## section\ncontent\n"}`)}, nil
			case strings.Contains(req.System, "concise, factual summary"):
				return &llmclient.Response{JSON: []byte(`{"summary": "a component summary"}`)}, nil
			case strings.Contains(req.System, "complete markdown research report"):
				// Echo the bundle (sections and sources) back as the report.
				raw, err := json.Marshal(map[string]string{"reportMarkdown": req.User})
				if err != nil {
					return nil, err
				}
				return &llmclient.Response{JSON: raw}, nil
			default:
				return &llmclient.Response{JSON: []byte(`{}`)}, nil
			}
		},
	}
}

func happyPathSearch() *searchtest.Fake {
	return &searchtest.Fake{
		SearchFunc: func(ctx context.Context, query string, opts search.Options) ([]search.Page, error) {
			return []search.Page{{URL: "https://example.com/" + query, Markdown: strings.Repeat("relevant content ", 30)}}, nil
		},
	}
}

func TestRun_FullPassProducesReportAndPerComponentResults(t *testing.T) {
	collector := &progress.Collector{}
	opts := Options{
		Query:       "impact of four-day workweek on productivity",
		Breadth:     3,
		Depth:       2,
		MaxDuration: 10 * time.Minute,
		LLM:         happyPathLLM(),
		Search:      happyPathSearch(),
		Progress:    collector,
	}

	got, err := Run(context.Background(), opts)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if len(got.ResearchPlan.Components) < 3 {
		t.Errorf("plan has %d components, want >= 3", len(got.ResearchPlan.Components))
	}
	if len(got.ComponentResults) != len(got.ResearchPlan.Components) {
		t.Errorf("got %d component results, want %d", len(got.ComponentResults), len(got.ResearchPlan.Components))
	}
	for _, name := range got.ResearchPlan.Sequencing {
		if _, ok := got.ComponentResults[name]; !ok {
			t.Errorf("missing component result for %q", name)
		}
	}
	if !strings.Contains(got.Report, "section") {
		t.Errorf("Report = %q, want generated section content", got.Report)
	}
	if len(collector.All()) == 0 {
		t.Error("expected progress events to be emitted")
	}
	if len(got.TimeStats.CompletedComponents) == 0 {
		t.Error("expected at least one completed component")
	}
}

func TestRun_TightBudgetSkipsAtLeastOneComponent(t *testing.T) {
	llm := happyPathLLM()
	routed := llm.GenerateFunc
	// With a one-minute budget and three components, no stats yet and the
	// 60s default iteration estimate, every decision before the last
	// component falls through to the LLM step (under 60s per remaining
	// component); the LLM here answers "skip".
	llm.GenerateFunc = func(ctx context.Context, req llmclient.Request) (*llmclient.Response, error) {
		if strings.Contains(req.System, "deciding whether to continue") {
			return &llmclient.Response{JSON: []byte(`{"shouldContinue": false, "reasoning": "not enough time"}`)}, nil
		}
		return routed(ctx, req)
	}
	opts := Options{
		Query:       "X",
		MaxDuration: 1 * time.Minute,
		LLM:         llm,
		Search:      happyPathSearch(),
	}

	got, err := Run(context.Background(), opts)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if got.Report == "" {
		t.Error("expected a report from completed components even when some are skipped")
	}
	if len(got.TimeStats.SkippedComponents) == 0 {
		t.Error("expected at least one skipped component under a one-minute budget")
	}
	total := len(got.TimeStats.CompletedComponents) + len(got.TimeStats.SkippedComponents)
	if total == 0 {
		t.Error("expected at least one component to be processed")
	}
}

func TestRun_RequiresLLM(t *testing.T) {
	_, err := Run(context.Background(), Options{Query: "q"})
	if err == nil {
		t.Fatal("Run() with nil LLM: want error, got nil")
	}
}

func streamChunks(chunks ...string) func(context.Context, llmclient.Request) iter.Seq2[string, error] {
	return func(context.Context, llmclient.Request) iter.Seq2[string, error] {
		return func(yield func(string, error) bool) {
			for _, c := range chunks {
				if !yield(c, nil) {
					return
				}
			}
		}
	}
}

func TestRun_TestAnthropicModeSkipsPlanningAndSearching(t *testing.T) {
	planner := &llmtest.Fake{GenerateFunc: func(context.Context, llmclient.Request) (*llmclient.Response, error) {
		t.Fatal("planning/searching LLM call made during TestAnthropicMode")
		return nil, nil
	}}
	synth := &llmtest.Fake{StreamFunc: streamChunks("ack")}
	noSearch := &searchtest.Fake{SearchFunc: func(context.Context, string, search.Options) ([]search.Page, error) {
		t.Fatal("search call made during TestAnthropicMode")
		return nil, nil
	}}

	got, err := Run(context.Background(), Options{
		LLM:               planner,
		SynthesisLLM:      synth,
		Search:            noSearch,
		TestAnthropicMode: true,
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if got.APITestResult == nil || !got.APITestResult.Success {
		t.Fatalf("APITestResult = %+v, want success", got.APITestResult)
	}
	if got.Report == "" {
		t.Error("want non-empty report from smoke test")
	}
}

func TestRun_TestAnthropicModeReportsStreamFailure(t *testing.T) {
	synth := &llmtest.Fake{StreamFunc: func(context.Context, llmclient.Request) iter.Seq2[string, error] {
		return func(yield func(string, error) bool) {
			yield("", errors.New("unreachable"))
		}
	}}

	got, err := Run(context.Background(), Options{
		LLM:               synth,
		TestAnthropicMode: true,
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if got.APITestResult == nil || got.APITestResult.Success {
		t.Fatalf("APITestResult = %+v, want failure", got.APITestResult)
	}
}
