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
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"deepresearch.dev/orchestrator/llmclient"
	"deepresearch.dev/orchestrator/llmclient/llmtest"
)

func TestCreatePlan_Success(t *testing.T) {
	fake := &llmtest.Fake{
		GenerateFunc: llmtest.JSONGenerator(`{
			"main_objective": "Understand X",
			"components": [
				{"name": "A", "description": "d", "sub_questions": ["q1"], "success_criteria": ["c1"]},
				{"name": "B", "description": "d", "sub_questions": ["q2"], "success_criteria": ["c2"]}
			],
			"sequencing": ["A", "B"],
			"potential_pivots": ["P"]
		}`),
	}

	p := NewPlanner(fake)
	got, err := p.CreatePlan(context.Background(), "Understand X", nil)
	if err != nil {
		t.Fatalf("CreatePlan() error = %v", err)
	}

	want := &ResearchPlan{
		MainObjective: "Understand X",
		Components: []Component{
			{Name: "A", Description: "d", SubQuestions: []string{"q1"}, SuccessCriteria: []string{"c1"}},
			{Name: "B", Description: "d", SubQuestions: []string{"q2"}, SuccessCriteria: []string{"c2"}},
		},
		Sequencing:      []string{"A", "B"},
		PotentialPivots: []string{"P"},
	}
	// Component.ID is assigned fresh on every call; compare everything else.
	if diff := cmp.Diff(want, got, cmpopts.IgnoreFields(Component{}, "ID")); diff != "" {
		t.Errorf("CreatePlan() mismatch (-want +got):\n%s", diff)
	}
	for _, c := range got.Components {
		if c.ID == "" {
			t.Errorf("component %q has empty ID", c.Name)
		}
	}
}

func TestCreatePlan_FallsBackOnLLMError(t *testing.T) {
	fake := &llmtest.Fake{
		GenerateFunc: func(context.Context, llmclient.Request) (*llmclient.Response, error) {
			return nil, errors.New("boom")
		},
	}

	p := NewPlanner(fake)
	got, err := p.CreatePlan(context.Background(), "some query", nil)
	if err != nil {
		t.Fatalf("CreatePlan() error = %v", err)
	}
	if err := got.Validate(); err != nil {
		t.Errorf("fallback plan failed Validate(): %v", err)
	}
	if len(got.Components) != 1 || got.Components[0].SubQuestions[0] != "some query" {
		t.Errorf("CreatePlan() fallback = %+v, want single component with original query", got)
	}
}

func TestCreatePlan_FallsBackOnInvalidPlan(t *testing.T) {
	fake := &llmtest.Fake{
		// Sequencing references a component that doesn't exist.
		GenerateFunc: llmtest.JSONGenerator(`{
			"main_objective": "X",
			"components": [{"name": "A", "description": "d", "sub_questions": ["q"], "success_criteria": ["c"]}],
			"sequencing": ["nonexistent"]
		}`),
	}

	p := NewPlanner(fake)
	got, err := p.CreatePlan(context.Background(), "query", nil)
	if err != nil {
		t.Fatalf("CreatePlan() error = %v", err)
	}
	if err := got.Validate(); err != nil {
		t.Errorf("fallback plan failed Validate(): %v", err)
	}
}

func TestCreatePlan_IncludesFeedbackInPrompt(t *testing.T) {
	fake := &llmtest.Fake{GenerateFunc: llmtest.JSONGenerator(`{
		"main_objective": "X",
		"components": [{"name": "A", "description": "d", "sub_questions": ["q"], "success_criteria": ["c"]}],
		"sequencing": ["A"]
	}`)}

	p := NewPlanner(fake)
	_, err := p.CreatePlan(context.Background(), "query", []FeedbackResponse{
		{Question: "Scope?", Response: "Narrow to 2024"},
	})
	if err != nil {
		t.Fatalf("CreatePlan() error = %v", err)
	}

	calls := fake.Calls()
	if len(calls) != 1 {
		t.Fatalf("got %d calls, want 1", len(calls))
	}
	if !strings.Contains(calls[0].User, "Scope?") || !strings.Contains(calls[0].User, "Narrow to 2024") {
		t.Errorf("prompt %q does not include feedback", calls[0].User)
	}
}
