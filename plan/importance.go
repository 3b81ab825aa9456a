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

package plan

import (
	"context"
	"fmt"
	"strings"

	"deepresearch.dev/orchestrator/internal/fallback"
	"deepresearch.dev/orchestrator/llmclient"
)

const importanceSystemPrompt = `You are allocating research effort across the components of a plan.
Assign each component a relative importance score from 0 to 100 reflecting how much of the total
research budget it deserves. Scores should sum to approximately 100. A component central to the
main objective should score higher than a peripheral one.`

// ImportanceScorer assigns each component a relative importance score used
// to rebalance time allocation across the plan.
type ImportanceScorer struct {
	LLM llmclient.Client
}

// NewImportanceScorer returns an ImportanceScorer backed by llm.
func NewImportanceScorer(llm llmclient.Client) *ImportanceScorer {
	return &ImportanceScorer{LLM: llm}
}

// Score returns a map of component name to importance score. On any LLM
// failure, or if the response omits a score for any component, Score falls
// back to equalAllocation.
func (s *ImportanceScorer) Score(ctx context.Context, p *ResearchPlan) map[string]float64 {
	resp, err := llmclient.Generate[importanceResponse](ctx, s.LLM, importanceSchema(), importanceSystemPrompt, buildImportanceUserPrompt(p))
	if err != nil {
		return fallback.Value(equalAllocation(p), "plan: score importance", err)
	}

	scores := make(map[string]float64, len(resp.Scores))
	for _, e := range resp.Scores {
		scores[e.Name] = e.Score
	}

	for _, c := range p.Components {
		if _, ok := scores[c.Name]; !ok {
			return fallback.Value(equalAllocation(p), "plan: score importance", fmt.Errorf("missing score for component %q", c.Name))
		}
	}
	return scores
}

func buildImportanceUserPrompt(p *ResearchPlan) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Main objective: %s\n\nComponents:\n", p.MainObjective)
	for _, c := range p.Components {
		fmt.Fprintf(&b, "- %s: %s\n", c.Name, c.Description)
	}
	return b.String()
}

// equalAllocation assigns every component an equal share of 100.
func equalAllocation(p *ResearchPlan) map[string]float64 {
	n := len(p.Components)
	scores := make(map[string]float64, n)
	if n == 0 {
		return scores
	}
	share := 100.0 / float64(n)
	for _, c := range p.Components {
		scores[c.Name] = share
	}
	return scores
}
