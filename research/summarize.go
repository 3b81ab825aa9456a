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

	"deepresearch.dev/orchestrator/internal/config"
	"deepresearch.dev/orchestrator/internal/fallback"
	"deepresearch.dev/orchestrator/llmclient"
	"deepresearch.dev/orchestrator/search"
)

const summarizerSystemPrompt = `You extract factual learnings from web search results relevant to a query.
Produce at most 5 concise, standalone factual learnings. Do not include opinions or speculation that
isn't attributable to the source text.`

// Summarize trims each page to cfg.PerContentTrimSize, bounds the combined
// content to cfg.TokenizerContextWindow characters, and asks the LLM for up
// to 5 learnings. On LLM failure it returns no learnings rather than
// fabricating them.
func Summarize(ctx context.Context, llm llmclient.Client, cfg *config.Config, query string, pages []search.Page) ([]string, error) {
	cfg = config.OrDefault(cfg)

	var b strings.Builder
	budget := cfg.TokenizerContextWindow
	for _, p := range pages {
		body := trim(p.Markdown, cfg.PerContentTrimSize, cfg.MinTrimChunk)
		if len(body) > budget {
			body = trim(body, budget, cfg.MinTrimChunk)
		}
		if body == "" {
			continue
		}
		fmt.Fprintf(&b, "Source: %s\n%s\n\n", p.URL, body)
		budget -= len(body)
		if budget <= 0 {
			break
		}
	}

	user := fmt.Sprintf("Query: %s\n\nSearch results:\n%s", query, b.String())
	resp, err := llmclient.Generate[summaryResponse](ctx, llm, summarizerSchema(), summarizerSystemPrompt, user)
	if err != nil {
		return fallback.Value[[]string](nil, "research: summarize", err), nil
	}

	learnings := resp.Learnings
	if len(learnings) > 5 {
		learnings = learnings[:5]
	}
	return learnings, nil
}
