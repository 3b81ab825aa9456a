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

import "testing"

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		plan    ResearchPlan
		wantErr bool
	}{
		{
			name: "valid",
			plan: ResearchPlan{
				Components: []Component{
					{Name: "A", SubQuestions: []string{"q"}, SuccessCriteria: []string{"c"}},
					{Name: "B", SubQuestions: []string{"q"}, SuccessCriteria: []string{"c"}},
				},
				Sequencing: []string{"B", "A"},
			},
		},
		{
			name:    "no components",
			plan:    ResearchPlan{},
			wantErr: true,
		},
		{
			name: "duplicate name",
			plan: ResearchPlan{
				Components: []Component{
					{Name: "A", SubQuestions: []string{"q"}, SuccessCriteria: []string{"c"}},
					{Name: "A", SubQuestions: []string{"q"}, SuccessCriteria: []string{"c"}},
				},
				Sequencing: []string{"A", "A"},
			},
			wantErr: true,
		},
		{
			name: "sequencing not a permutation",
			plan: ResearchPlan{
				Components: []Component{
					{Name: "A", SubQuestions: []string{"q"}, SuccessCriteria: []string{"c"}},
				},
				Sequencing: []string{"B"},
			},
			wantErr: true,
		},
		{
			name: "sequencing wrong length",
			plan: ResearchPlan{
				Components: []Component{
					{Name: "A", SubQuestions: []string{"q"}, SuccessCriteria: []string{"c"}},
					{Name: "B", SubQuestions: []string{"q"}, SuccessCriteria: []string{"c"}},
				},
				Sequencing: []string{"A"},
			},
			wantErr: true,
		},
		{
			name: "missing sub-questions",
			plan: ResearchPlan{
				Components: []Component{
					{Name: "A", SuccessCriteria: []string{"c"}},
				},
				Sequencing: []string{"A"},
			},
			wantErr: true,
		},
		{
			name: "missing success criteria",
			plan: ResearchPlan{
				Components: []Component{
					{Name: "A", SubQuestions: []string{"q"}},
				},
				Sequencing: []string{"A"},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.plan.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestComponentByName(t *testing.T) {
	p := &ResearchPlan{
		Components: []Component{
			{Name: "A"},
			{Name: "B"},
		},
	}

	if got := p.ComponentByName("B"); got == nil || got.Name != "B" {
		t.Errorf("ComponentByName(%q) = %v, want component B", "B", got)
	}
	if got := p.ComponentByName("missing"); got != nil {
		t.Errorf("ComponentByName(%q) = %v, want nil", "missing", got)
	}
}
