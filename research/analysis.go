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
	"strings"

	"deepresearch.dev/orchestrator/internal/fallback"
	"deepresearch.dev/orchestrator/llmclient"
)

const analysisSystemPrompt = `You analyze summarized search learnings against the query they were meant to
answer. Decide whether the learnings are valuable, whether research should continue, and if so what the
next search topic should be.`

// Analyze implements Analysis & Plan (§4.8). When every learning is empty
// or effectively content-free, it short-circuits locally instead of
// calling the LLM: the model has nothing to analyze.
func Analyze(ctx context.Context, llm llmclient.Client, query string, learnings []string) AnalysisResult {
	if allEmptyOrTiny(learnings) {
		return AnalysisResult{
			ShouldContinue:  true,
			NextSearchTopic: firstWords(query, 3) + " basics",
		}
	}

	resp, err := llmclient.Generate[analysisResponse](ctx, llm, analysisSchema(), analysisSystemPrompt, buildAnalysisPrompt(query, learnings))
	if err != nil {
		return fallback.Value(AnalysisResult{
			ShouldContinue:  true,
			NextSearchTopic: firstWords(query, 3) + " basics",
		}, "research: analyze", err)
	}

	result := AnalysisResult{
		Summary:         resp.Summary,
		Valuable:        resp.Valuable,
		Gaps:            resp.Gaps,
		ShouldContinue:  resp.ShouldContinue,
		NextSearchTopic: resp.NextSearchTopic,
	}
	if !result.Valuable {
		result.ShouldContinue = true
		if result.NextSearchTopic == "" {
			result.NextSearchTopic = fallbackQuery(query, 4)
		}
	}
	return result
}

func allEmptyOrTiny(learnings []string) bool {
	for _, l := range learnings {
		if len(strings.TrimSpace(l)) >= 50 {
			return false
		}
	}
	return true
}

func buildAnalysisPrompt(query string, learnings []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Query: %s\n\nLearnings:\n", query)
	for _, l := range learnings {
		fmt.Fprintf(&b, "- %s\n", l)
	}
	return b.String()
}
