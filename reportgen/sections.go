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

// Package reportgen assembles a markdown report from researched
// components: one section per component, then a synthesis pass that
// stitches them into a cohesive whole.
package reportgen

import (
	"context"
	"fmt"
	"strings"

	"deepresearch.dev/orchestrator/internal/fallback"
	"deepresearch.dev/orchestrator/llmclient"
	"deepresearch.dev/orchestrator/plan"
	"deepresearch.dev/orchestrator/research"
)

const sectionSystemPrompt = `You write one markdown section of a research report for a single component.
Reference the component's success criteria and weave in its learnings as supporting evidence. Use a level-2
markdown heading for the section title.`

// BuildSections produces one markdown section per completed component, in
// plan.Sequencing order. completed names the components the scheduler
// actually ran to a result; results may hold additional quick-pass-only
// entries for components the scheduler skipped, and those must not get a
// section. A per-component LLM failure falls back to a mechanical section
// built from the summary and bullet learnings rather than omitting the
// component.
func BuildSections(ctx context.Context, llm llmclient.Client, p *plan.ResearchPlan, results map[string]research.ComponentResult, completed []string) []string {
	isCompleted := make(map[string]bool, len(completed))
	for _, name := range completed {
		isCompleted[name] = true
	}

	sections := make([]string, 0, len(completed))
	for _, name := range p.Sequencing {
		if !isCompleted[name] {
			continue
		}
		result, ok := results[name]
		if !ok {
			continue
		}
		comp := p.ComponentByName(name)
		if comp == nil {
			continue
		}
		sections = append(sections, buildSection(ctx, llm, *comp, result))
	}
	return sections
}

func buildSection(ctx context.Context, llm llmclient.Client, comp plan.Component, result research.ComponentResult) string {
	resp, err := llmclient.Generate[sectionResponse](ctx, llm, sectionSchema(), sectionSystemPrompt, buildSectionPrompt(comp, result))
	if err != nil {
		return fallback.Value(mechanicalSection(comp, result), "reportgen: build section", err)
	}
	return resp.SectionContent
}

func buildSectionPrompt(comp plan.Component, result research.ComponentResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Component: %s\nDescription: %s\n\nSuccess criteria:\n", comp.Name, comp.Description)
	for _, c := range comp.SuccessCriteria {
		fmt.Fprintf(&b, "- %s\n", c)
	}
	b.WriteString("\nLearnings:\n")
	for _, l := range result.Learnings {
		fmt.Fprintf(&b, "- %s\n", l)
	}
	return b.String()
}

func mechanicalSection(comp plan.Component, result research.ComponentResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "## %s\n\n%s\n\n", comp.Name, result.Summary)
	for _, l := range result.Learnings {
		fmt.Fprintf(&b, "- %s\n", l)
	}
	return b.String()
}
