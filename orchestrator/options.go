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

// Package orchestrator wires the planner, importance scorer, quick pass,
// rebalancer, time-state machine, component researcher and report
// assembler into the single entry point: Run.
package orchestrator

import (
	"time"

	"deepresearch.dev/orchestrator/llmclient"
	"deepresearch.dev/orchestrator/plan"
	"deepresearch.dev/orchestrator/progress"
	"deepresearch.dev/orchestrator/research"
	"deepresearch.dev/orchestrator/search"
)

const (
	defaultBreadth     = 3
	defaultDepth       = 2
	defaultMaxDuration = 30 * time.Minute
)

// Options configures one call to Run.
type Options struct {
	Query string

	// Breadth defaults to 3 (range 1-5), Depth to 2 (range 1-3).
	Breadth int
	Depth   int

	// MaxDuration defaults to 30 minutes.
	MaxDuration time.Duration

	// ComponentDepthMultipliers overrides the rebalancer's computed
	// multiplier for named components.
	ComponentDepthMultipliers map[string]float64

	// ExistingLearnings and ExistingVisitedURLs seed a continuation run;
	// they are merged into the returned Learnings/VisitedURLs only and are
	// not passed to component research or sub-query generation.
	ExistingLearnings   []string
	ExistingVisitedURLs []string

	FeedbackResponses []plan.FeedbackResponse

	Progress progress.Sink
	LLM      llmclient.Client
	// SynthesisLLM is optional; when nil, report synthesis falls back to
	// LLM directly producing {reportMarkdown}.
	SynthesisLLM llmclient.Client
	Search       search.Service

	// TestAnthropicMode runs a synthesis smoke test and returns
	// immediately, without planning or searching.
	TestAnthropicMode bool
}

func (o Options) breadth() int {
	if o.Breadth > 0 {
		return o.Breadth
	}
	return defaultBreadth
}

func (o Options) depth() int {
	if o.Depth > 0 {
		return o.Depth
	}
	return defaultDepth
}

func (o Options) maxDuration() time.Duration {
	if o.MaxDuration > 0 {
		return o.MaxDuration
	}
	return defaultMaxDuration
}

// TimeStats summarizes the run's time usage for the caller.
type TimeStats struct {
	TotalTime            time.Duration
	ComponentTimes       map[string]time.Duration
	CompletedComponents  []string
	SkippedComponents    []string
	AverageIterationTime time.Duration
}

// APITestResult is populated only when Options.TestAnthropicMode is set.
type APITestResult struct {
	Success bool
	Message string
}

// Result is the full output of a Run call.
type Result struct {
	Learnings    []string
	VisitedURLs  []string
	ResearchPlan *plan.ResearchPlan
	// ComponentResults is keyed by component name, matching plan's own
	// name-keyed addressing (plan.ComponentByName).
	ComponentResults map[string]research.ComponentResult
	TimeStats        TimeStats
	Report           string
	APITestResult    *APITestResult
}
