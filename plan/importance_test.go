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
	"testing"

	"github.com/google/go-cmp/cmp"

	"deepresearch.dev/orchestrator/llmclient"
	"deepresearch.dev/orchestrator/llmclient/llmtest"
)

func testPlan() *ResearchPlan {
	return &ResearchPlan{
		Components: []Component{
			{Name: "A", SubQuestions: []string{"q"}, SuccessCriteria: []string{"c"}},
			{Name: "B", SubQuestions: []string{"q"}, SuccessCriteria: []string{"c"}},
		},
		Sequencing: []string{"A", "B"},
	}
}

func TestScore_Success(t *testing.T) {
	fake := &llmtest.Fake{GenerateFunc: llmtest.JSONGenerator(`{
		"scores": [{"name": "A", "score": 70}, {"name": "B", "score": 30}]
	}`)}

	s := NewImportanceScorer(fake)
	got := s.Score(context.Background(), testPlan())

	want := map[string]float64{"A": 70, "B": 30}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Score() mismatch (-want +got):\n%s", diff)
	}
}

func TestScore_FallsBackOnLLMError(t *testing.T) {
	fake := &llmtest.Fake{
		GenerateFunc: func(context.Context, llmclient.Request) (*llmclient.Response, error) {
			return nil, errors.New("boom")
		},
	}

	s := NewImportanceScorer(fake)
	got := s.Score(context.Background(), testPlan())

	want := map[string]float64{"A": 50, "B": 50}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Score() mismatch (-want +got):\n%s", diff)
	}
}

func TestScore_FallsBackOnMissingComponent(t *testing.T) {
	fake := &llmtest.Fake{GenerateFunc: llmtest.JSONGenerator(`{
		"scores": [{"name": "A", "score": 70}]
	}`)}

	s := NewImportanceScorer(fake)
	got := s.Score(context.Background(), testPlan())

	want := map[string]float64{"A": 50, "B": 50}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Score() mismatch (-want +got):\n%s", diff)
	}
}

func TestEqualAllocation_Empty(t *testing.T) {
	got := equalAllocation(&ResearchPlan{})
	if len(got) != 0 {
		t.Errorf("equalAllocation(empty) = %v, want empty map", got)
	}
}
