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

const subQuerySystemPrompt = `You generate focused web search queries for a research sub-question.
Each query must be 2-5 words, contain no quoted strings, and use no search operators except
site:reddit.com or site:quora.com. Prefer queries that close the gaps described below over
queries that repeat ground already covered.`

// SubQueryParams bundles the inputs the generator conditions on.
type SubQueryParams struct {
	Query           string
	Count           int
	RecentLearnings []string
	MainTopic       string
	ComponentName   string
	Gaps            GapMap
}

// GenerateSubQueries asks the LLM for up to params.Count search queries. On
// LLM failure it falls back to a single query: params.Query itself, lightly
// cleaned of disallowed operators.
func GenerateSubQueries(ctx context.Context, llm llmclient.Client, params SubQueryParams) []SubQuery {
	resp, err := llmclient.Generate[subQueriesResponse](ctx, llm, subQueriesSchema(), subQuerySystemPrompt, buildSubQueryPrompt(params))
	if err != nil {
		return fallback.Value([]SubQuery{{Query: stripOperators(params.Query), Reasoning: "fallback: LLM unavailable"}}, "research: generate sub-queries", err)
	}

	out := make([]SubQuery, 0, len(resp.Queries))
	for _, q := range resp.Queries {
		if len(out) >= params.Count {
			break
		}
		out = append(out, SubQuery{Query: sanitizeQuery(q.Query), Reasoning: q.Reasoning})
	}
	if len(out) == 0 {
		return []SubQuery{{Query: stripOperators(params.Query), Reasoning: "fallback: empty LLM response"}}
	}
	return out
}

// sanitizeQuery strips quotes and disallowed operators and keeps at most 5
// words, even if the LLM drifts from instructions. A query shorter than 2
// words is returned as it is, not lengthened.
func sanitizeQuery(q string) string {
	q = stripOperators(q)
	fields := strings.Fields(q)
	if len(fields) > 5 {
		fields = fields[:5]
	}
	return strings.Join(fields, " ")
}

func buildSubQueryPrompt(p SubQueryParams) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Current query: %s\n", p.Query)
	fmt.Fprintf(&b, "Generate up to %d search queries.\n", p.Count)
	if p.ComponentName != "" {
		fmt.Fprintf(&b, "Component: %s\n", p.ComponentName)
	}
	if p.MainTopic != "" && !strings.Contains(strings.ToLower(p.Query), strings.ToLower(p.MainTopic)) {
		fmt.Fprintf(&b, "Make sure queries include the main topic: %s\n", p.MainTopic)
	}
	if len(p.RecentLearnings) > 0 {
		b.WriteString("Recent learnings:\n")
		for _, l := range p.RecentLearnings {
			fmt.Fprintf(&b, "- %s\n", l)
		}
	}
	if nonNeutral := p.Gaps.NonNeutral(); len(nonNeutral) > 0 {
		b.WriteString("Prioritize closing these gaps:\n")
		for _, c := range nonNeutral {
			gap, _ := p.Gaps.Get(c)
			fmt.Fprintf(&b, "- %s: %s\n", c, gap)
		}
	}
	return b.String()
}

// fallbackQuery builds the simplified retry query used when a search
// returns no usable content: strip operators/quotes and keep only the
// first maxWords words.
func fallbackQuery(query string, maxWords int) string {
	return firstWords(stripOperators(query), maxWords)
}
