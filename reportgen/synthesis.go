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

package reportgen

import (
	"context"
	"fmt"
	"log"
	"strings"

	"deepresearch.dev/orchestrator/llmclient"
	"deepresearch.dev/orchestrator/plan"
	"deepresearch.dev/orchestrator/progress"
)

const synthesisSystemPrompt = `You are stitching per-component research sections into one cohesive markdown
research report. Preserve every section's content and headings. Add a brief introduction tying the sections
to the main objective, and end with a "## Sources" section listing every URL, one per line.`

const fallbackReportSystemPrompt = `Produce the complete markdown research report by combining the given
sections with a brief introduction and a closing "## Sources" section listing the given URLs.`

// Assembler turns built sections into a final report.
type Assembler struct {
	// Primary is used for the one-shot fallback report when Synthesis is
	// nil or fails.
	Primary llmclient.Client
	// Synthesis is the streaming synthesis model. May be nil.
	Synthesis llmclient.Client
	Sink      progress.Sink
}

// Synthesize implements §4.12 stage 2. When Synthesis is configured, its
// streamed output is forwarded to the sink one event per chunk, as the
// model sends it (chunks are not split or merged), and the full
// text is returned. On any error, or when Synthesis is nil, it falls back
// to a one-shot structured call against Primary; if that also fails, it
// falls back to a mechanical concatenation of the sections and sources.
func (a *Assembler) Synthesize(ctx context.Context, p *plan.ResearchPlan, sections []string, visitedURLs []string) string {
	bundle := buildBundle(p, sections, visitedURLs)

	if a.Synthesis != nil {
		if report, ok := a.streamSynthesis(ctx, bundle); ok {
			return report
		}
	}

	if a.Primary != nil {
		resp, err := llmclient.Generate[fallbackReportResponse](ctx, a.Primary, fallbackReportSchema(), fallbackReportSystemPrompt, bundle)
		if err == nil {
			return resp.ReportMarkdown
		}
		log.Printf("reportgen: fallback report generation failed: %v", err)
	}

	return mechanicalReport(sections, visitedURLs)
}

func (a *Assembler) streamSynthesis(ctx context.Context, bundle string) (string, bool) {
	var b strings.Builder
	for chunk, err := range a.Synthesis.StreamText(ctx, llmclient.Request{System: synthesisSystemPrompt, User: bundle}) {
		if err != nil {
			log.Printf("reportgen: synthesis stream failed: %v", err)
			return "", false
		}
		b.WriteString(chunk)
		emit(a.Sink, chunk)
	}
	if b.Len() == 0 {
		return "", false
	}
	return b.String(), true
}

func emit(sink progress.Sink, chunk string) {
	if sink == nil {
		return
	}
	sink.Emit(progress.Event{Type: progress.TypeResult, Content: chunk})
}

func buildBundle(p *plan.ResearchPlan, sections []string, visitedURLs []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Main objective: %s\n\n", p.MainObjective)
	for _, s := range sections {
		b.WriteString(s)
		b.WriteString("\n\n")
	}
	b.WriteString("Sources:\n")
	for _, u := range visitedURLs {
		fmt.Fprintf(&b, "- %s\n", u)
	}
	return b.String()
}

func mechanicalReport(sections []string, visitedURLs []string) string {
	var b strings.Builder
	for _, s := range sections {
		b.WriteString(s)
		b.WriteString("\n\n")
	}
	b.WriteString("## Sources\n\n")
	for _, u := range visitedURLs {
		fmt.Fprintf(&b, "- %s\n", u)
	}
	return b.String()
}
