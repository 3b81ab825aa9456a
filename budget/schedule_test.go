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
	"errors"
	"testing"
	"time"

	"deepresearch.dev/orchestrator/llmclient"
	"deepresearch.dev/orchestrator/llmclient/llmtest"
)

func TestShouldContinueComponent_AmpleTime(t *testing.T) {
	s := ResearchState{RemainingTime: 10 * time.Minute, Remaining: []string{"A", "B"}}
	got := ShouldContinueComponent(context.Background(), &llmtest.Fake{}, s, ResearchStats{}, 3)
	if !got.Continue {
		t.Errorf("Continue = false, want true when remainingTime > 5m")
	}
}

func TestShouldContinueComponent_LastComponent(t *testing.T) {
	s := ResearchState{RemainingTime: time.Minute, Remaining: []string{"A"}}
	got := ShouldContinueComponent(context.Background(), &llmtest.Fake{}, s, ResearchStats{}, 3)
	if !got.Continue {
		t.Errorf("Continue = false, want true when only one component remains")
	}
}

func TestShouldContinueComponent_ReserveCovered(t *testing.T) {
	s := ResearchState{RemainingTime: 4 * time.Minute, Remaining: []string{"A", "B"}}
	stats := ResearchStats{IterationTimes: []time.Duration{30 * time.Second}, TotalIterationsTime: 30 * time.Second, CompletedIterations: 1}
	got := ShouldContinueComponent(context.Background(), &llmtest.Fake{}, s, stats, 3)
	if !got.Continue {
		t.Errorf("Continue = false, want true: 4m remaining covers 90s estimate (3 x 30s) + 30s reserve")
	}
}

func TestShouldContinueComponent_MinimalWhenTight(t *testing.T) {
	// recent=60s (no stats, fallback), subQuestionCount=3 so
	// estimatedComponentTime=60*3=180s, remainingCount=3.
	// Step 5: reserve=(3-1)*60=120s; need 180+120=300s > 200s -> fails.
	// Step 6: 200/3=66.6s >= 60s -> continue minimally.
	s := ResearchState{RemainingTime: 200 * time.Second, Remaining: []string{"A", "B", "C"}}
	got := ShouldContinueComponent(context.Background(), &llmtest.Fake{}, s, ResearchStats{}, 3)
	if !got.Continue || !got.Minimal {
		t.Errorf("got %+v, want Continue=true Minimal=true", got)
	}
}

func TestShouldContinueComponent_AsksLLMWhenTooTight(t *testing.T) {
	s := ResearchState{RemainingTime: 50 * time.Second, Remaining: []string{"A", "B", "C"}}
	fake := &llmtest.Fake{GenerateFunc: llmtest.JSONGenerator(`{"shouldContinue": false, "reasoning": "not worth it"}`)}
	got := ShouldContinueComponent(context.Background(), fake, s, ResearchStats{}, 3)
	if got.Continue {
		t.Errorf("Continue = true, want false per LLM response")
	}
	if len(fake.Calls()) != 1 {
		t.Errorf("got %d LLM calls, want 1", len(fake.Calls()))
	}
}

func TestShouldContinueComponent_DefaultsToContinueOnLLMError(t *testing.T) {
	s := ResearchState{RemainingTime: 50 * time.Second, Remaining: []string{"A", "B", "C"}}
	fake := &llmtest.Fake{GenerateFunc: func(context.Context, llmclient.Request) (*llmclient.Response, error) {
		return nil, errors.New("boom")
	}}
	got := ShouldContinueComponent(context.Background(), fake, s, ResearchStats{}, 3)
	if !got.Continue {
		t.Errorf("Continue = false, want true (default on LLM error)")
	}
}
