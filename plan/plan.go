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

// Package plan defines the research plan data model and the agents that
// create, score and rebalance it: the Planner, the Importance Scorer and
// the Rebalancer.
package plan

import "fmt"

// Component is a named slice of the research plan with its own
// sub-questions and success criteria. ID is a unique identifier (distinct
// from Name, which an LLM-authored plan may repeat across runs) assigned
// after planning; it is not attached to progress events.
type Component struct {
	ID              string
	Name            string
	Description     string
	SubQuestions    []string
	SuccessCriteria []string
}

// ResearchPlan is the Planner's output: a main objective decomposed into
// components, an initial sequencing, and candidate pivot directions.
type ResearchPlan struct {
	MainObjective   string
	Components      []Component
	Sequencing      []string
	PotentialPivots []string
}

// FeedbackResponse is one clarifying question/answer pair supplied by the
// caller ahead of planning.
type FeedbackResponse struct {
	Question string
	Response string
}

// ComponentByName returns the component with the given name, or nil.
func (p *ResearchPlan) ComponentByName(name string) *Component {
	for i := range p.Components {
		if p.Components[i].Name == name {
			return &p.Components[i]
		}
	}
	return nil
}

// Validate checks the invariants named in the data model: sequencing is a
// permutation of component names, names are unique, and every component
// has at least one sub-question and one success criterion.
func (p *ResearchPlan) Validate() error {
	if len(p.Components) == 0 {
		return fmt.Errorf("plan: must have at least one component")
	}

	seen := make(map[string]bool, len(p.Components))
	for _, c := range p.Components {
		if c.Name == "" {
			return fmt.Errorf("plan: component has empty name")
		}
		if seen[c.Name] {
			return fmt.Errorf("plan: duplicate component name %q", c.Name)
		}
		seen[c.Name] = true
		if len(c.SubQuestions) == 0 {
			return fmt.Errorf("plan: component %q has no sub-questions", c.Name)
		}
		if len(c.SuccessCriteria) == 0 {
			return fmt.Errorf("plan: component %q has no success criteria", c.Name)
		}
	}

	if len(p.Sequencing) != len(p.Components) {
		return fmt.Errorf("plan: sequencing has %d entries, want %d", len(p.Sequencing), len(p.Components))
	}
	seqSeen := make(map[string]bool, len(p.Sequencing))
	for _, name := range p.Sequencing {
		if !seen[name] {
			return fmt.Errorf("plan: sequencing references unknown component %q", name)
		}
		if seqSeen[name] {
			return fmt.Errorf("plan: sequencing repeats component %q", name)
		}
		seqSeen[name] = true
	}

	return nil
}
