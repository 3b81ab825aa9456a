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

// Package research implements the deep-research loop: the Component
// Researcher, the deep-research sub-routine, sub-query generation, and the
// Saturation and Quality evaluators.
package research

import "time"

// ComponentResult accumulates everything learned about one plan component.
type ComponentResult struct {
	Learnings   []string
	VisitedURLs []string
	Summary     string
	TimeSpent   time.Duration

	// IterationTimes records the wall-clock duration of each sub-question
	// iteration run for this component, in order. The orchestrator folds
	// these into its rolling ResearchStats so the time-state machine's
	// scheduling decision for the *next* component sees genuine
	// per-iteration timing rather than one lump sum.
	IterationTimes []time.Duration
}

// SaturationResult is the per-iteration output of the Saturation Evaluator.
type SaturationResult struct {
	IsSaturated        bool
	CoveragePercentage int
	CoveredCriteria    []string
	RemainingCriteria  []string
	Reasoning          string
	GapDetails         map[string]string
}

// AnalysisResult is the output of the Analysis & Plan step run after each
// depth iteration's summarization.
type AnalysisResult struct {
	Summary         string
	Valuable        bool
	Gaps            []string
	ShouldContinue  bool
	NextSearchTopic string
}

// QualityResult is the output of the post-component Quality Evaluator.
type QualityResult struct {
	MeetsQuality      bool
	MissingElements   []string
	AdditionalQueries []string
}

// SubQuery is one generated search query with the reasoning behind it.
type SubQuery struct {
	Query     string
	Reasoning string
}
