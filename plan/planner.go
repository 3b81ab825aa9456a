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

	"github.com/google/uuid"

	"deepresearch.dev/orchestrator/internal/fallback"
	"deepresearch.dev/orchestrator/llmclient"
)

const plannerSystemPrompt = `You are a research strategist. Your job is to decompose a research query
into a small number of independently researchable components, not to answer the query yourself.

Each component must have its own sub-questions and success criteria, and the plan must include a
sequencing of component names (most foundational first) and a short list of potential pivots the
research might reveal.

Respond only with the structured plan. Do not research the topic yourself.`

// Planner turns a query (and any prior clarifying feedback) into a
// ResearchPlan.
type Planner struct {
	LLM llmclient.Client
}

// NewPlanner returns a Planner backed by llm.
func NewPlanner(llm llmclient.Client) *Planner {
	return &Planner{LLM: llm}
}

// CreatePlan asks the LLM to decompose query into a ResearchPlan. On any
// LLM failure, or if the LLM's plan fails validation, CreatePlan falls back
// to a single-component minimal plan rather than failing the caller.
func (p *Planner) CreatePlan(ctx context.Context, query string, feedback []FeedbackResponse) (*ResearchPlan, error) {
	user := buildPlannerUserPrompt(query, feedback)

	resp, err := llmclient.Generate[planResponse](ctx, p.LLM, planSchema(), plannerSystemPrompt, user)
	if err != nil {
		return fallback.Value(minimalPlan(query), "plan: create plan", err), nil
	}

	plan := resp.toPlan()
	if err := plan.Validate(); err != nil {
		return fallback.Value(minimalPlan(query), "plan: validate generated plan", err), nil
	}
	assignComponentIDs(plan)
	return plan, nil
}

// assignComponentIDs stamps every component with a fresh stable identifier.
// A plan's Name is LLM-authored free text and may collide across runs (or,
// in principle, within one); ID never does.
func assignComponentIDs(p *ResearchPlan) {
	for i := range p.Components {
		p.Components[i].ID = uuid.NewString()
	}
}

func buildPlannerUserPrompt(query string, feedback []FeedbackResponse) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Research query: %s\n", query)
	if len(feedback) > 0 {
		b.WriteString("\nClarifying feedback gathered so far:\n")
		for _, f := range feedback {
			fmt.Fprintf(&b, "Q: %s\nA: %s\n", f.Question, f.Response)
		}
	}
	return b.String()
}

// minimalPlan is the degraded fallback used when planning fails entirely:
// a single component whose sub-question is the original query verbatim.
func minimalPlan(query string) *ResearchPlan {
	const name = "Basic Research"
	return &ResearchPlan{
		MainObjective: query,
		Components: []Component{
			{
				ID:              uuid.NewString(),
				Name:            name,
				Description:     "Directly research the query as a single unit.",
				SubQuestions:    []string{query},
				SuccessCriteria: []string{"The query is answered with supporting evidence."},
			},
		},
		Sequencing: []string{name},
	}
}
