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

package budget

import (
	"context"
	"fmt"
	"time"

	"github.com/google/jsonschema-go/jsonschema"

	"deepresearch.dev/orchestrator/internal/fallback"
	"deepresearch.dev/orchestrator/llmclient"
)

// Decision is the outcome of a scheduling check: whether to continue
// researching the current component, and if so, whether to fall back to a
// minimal research pass.
type Decision struct {
	Continue  bool
	Minimal   bool
	Reasoning string
}

const schedulerSystemPrompt = `You are deciding whether to continue researching the current component of a
time-budgeted research plan or move on. Weigh the numbers given against the value of additional
research. Default to continuing when genuinely uncertain.`

type schedulerResponse struct {
	ShouldContinue     bool   `json:"shouldContinue"`
	Reasoning          string `json:"reasoning"`
	RecommendedBreadth int    `json:"recommendedBreadth"`
	RecommendedDepth   int    `json:"recommendedDepth"`
}

func schedulerSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"shouldContinue":     {Type: "boolean"},
			"reasoning":          {Type: "string"},
			"recommendedBreadth": {Type: "integer"},
			"recommendedDepth":   {Type: "integer"},
		},
		Required: []string{"shouldContinue", "reasoning"},
	}
}

// ShouldContinueComponent implements the seven-step scheduling decision.
// subQuestionCount is the number of sub-questions in the current
// component's plan.
func ShouldContinueComponent(ctx context.Context, llm llmclient.Client, s ResearchState, stats ResearchStats, subQuestionCount int) Decision {
	// 1. Plenty of time left: always continue.
	if s.RemainingTime > 5*time.Minute {
		return Decision{Continue: true, Reasoning: "more than 5 minutes remain"}
	}

	// 2. Nothing to save time for: continue regardless of estimate.
	remainingCount := len(s.Remaining)
	if remainingCount <= 1 {
		return Decision{Continue: true, Reasoning: "last remaining component"}
	}

	// 3-4. Estimate per-iteration and per-component time.
	recent := recentIterationTime(stats)
	estimatedComponentTime := stats.AverageComponentTime
	if estimatedComponentTime <= 0 {
		n := subQuestionCount
		if n > 3 {
			n = 3
		}
		if n < 1 {
			n = 1
		}
		estimatedComponentTime = recent * time.Duration(n)
	}

	// 5. Reserve time for the other remaining components.
	reserve := time.Duration(remainingCount-1) * recent
	if s.RemainingTime >= estimatedComponentTime+reserve {
		return Decision{Continue: true, Reasoning: "budget covers this component plus reserve for remaining components"}
	}

	// 6. Tight but evenly splittable: continue with a minimal pass.
	if s.RemainingTime/time.Duration(remainingCount) >= recent {
		return Decision{Continue: true, Minimal: true, Reasoning: "remaining time divides evenly but leaves no slack; continuing minimally"}
	}

	// 7. Ask the LLM, defaulting to continue on failure.
	user := fmt.Sprintf(
		"Remaining time: %s. Components still remaining (including current): %d. Recent average iteration time: %s. "+
			"Estimated time for this component: %s. Should research continue on the current component?",
		s.RemainingTime, remainingCount, recent, estimatedComponentTime,
	)
	resp, err := llmclient.Generate[schedulerResponse](ctx, llm, schedulerSchema(), schedulerSystemPrompt, user)
	if err != nil {
		return fallback.Value(Decision{Continue: true, Reasoning: "LLM scheduling call failed, defaulting to continue"}, "budget: scheduling decision", err)
	}
	return Decision{Continue: resp.ShouldContinue, Reasoning: resp.Reasoning}
}
