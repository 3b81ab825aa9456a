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

// Command research is a reference CLI and HTTP server for the deep
// research orchestrator. It wires real Anthropic/Gemini credentials and a
// search backend from the environment and either runs a single research
// pass to completion on stdout, or serves runs over HTTP with progress
// streamed as SSE.
//
// Run with:
//
//	ANTHROPIC_API_KEY=your-key go run ./cmd/research run --query "impact of remote work on cities"
//	ANTHROPIC_API_KEY=your-key go run ./cmd/research serve --addr :8080
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/spf13/cobra"

	"deepresearch.dev/orchestrator/llmclient"
	"deepresearch.dev/orchestrator/orchestrator"
	"deepresearch.dev/orchestrator/progress"
	"deepresearch.dev/orchestrator/search"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		log.Fatal(err)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "research",
		Short: "Run or serve the deep research orchestrator",
	}
	root.AddCommand(newRunCmd(), newServeCmd())
	return root
}

func newRunCmd() *cobra.Command {
	var (
		query          string
		breadth        int
		depth          int
		maxDuration    string
		testAnthropic  bool
		synthesisModel string
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a single research pass and print the report",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := buildOptions(query, breadth, depth, maxDuration, testAnthropic, synthesisModel)
			if err != nil {
				return err
			}
			opts.Progress = progress.NewWriterSink(os.Stderr)

			result, err := orchestrator.Run(cmd.Context(), opts)
			if err != nil {
				return fmt.Errorf("run: %w", err)
			}
			if result.APITestResult != nil {
				fmt.Printf("api test: success=%v message=%s\n", result.APITestResult.Success, result.APITestResult.Message)
				if !result.APITestResult.Success {
					os.Exit(1)
				}
				return nil
			}
			fmt.Println(result.Report)
			return nil
		},
	}

	cmd.Flags().StringVar(&query, "query", "", "research question (required)")
	cmd.Flags().IntVar(&breadth, "breadth", 0, "search breadth per sub-question, 1-5 (default 3)")
	cmd.Flags().IntVar(&depth, "depth", 0, "iterative research depth per sub-question, 1-3 (default 2)")
	cmd.Flags().StringVar(&maxDuration, "max-duration", "30m", "maximum wall-clock time for the run")
	cmd.Flags().BoolVar(&testAnthropic, "test-anthropic", false, "run a synthesis API connectivity smoke test instead of a full pass")
	cmd.Flags().StringVar(&synthesisModel, "synthesis-model", "", "Gemini model name for report synthesis (falls back to the primary model when empty)")
	cmd.MarkFlagRequired("query")

	return cmd
}

func newServeCmd() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve research runs over HTTP with progress streamed as SSE",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context(), addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", ":8080", "address to listen on")
	return cmd
}

// buildOptions wires an orchestrator.Options from flags and the process
// environment. The primary model is always Anthropic; SynthesisLLM is
// Gemini when synthesisModel is set, matching the split the report
// assembler expects between a planning/research model and a synthesis
// model.
func buildOptions(query string, breadth, depth int, maxDuration string, testAnthropic bool, synthesisModel string) (orchestrator.Options, error) {
	dur, err := time.ParseDuration(maxDuration)
	if err != nil {
		return orchestrator.Options{}, fmt.Errorf("parse --max-duration: %w", err)
	}

	primary, err := llmclient.NewAnthropic(anthropic.ModelClaudeSonnet4_20250514, nil)
	if err != nil {
		return orchestrator.Options{}, fmt.Errorf("build anthropic client: %w", err)
	}

	var synthesis llmclient.Client
	if synthesisModel != "" {
		synthesis, err = llmclient.NewGemini(context.Background(), synthesisModel, nil)
		if err != nil {
			return orchestrator.Options{}, fmt.Errorf("build gemini client: %w", err)
		}
	}

	searchEndpoint := os.Getenv("SEARCH_ENDPOINT")
	searchAPIKey := os.Getenv("SEARCH_API_KEY")
	var svc search.Service
	if searchEndpoint != "" {
		svc = search.NewHTTPService(searchEndpoint, searchAPIKey)
	}

	return orchestrator.Options{
		Query:             query,
		Breadth:           breadth,
		Depth:             depth,
		MaxDuration:       dur,
		LLM:               primary,
		SynthesisLLM:      synthesis,
		Search:            svc,
		TestAnthropicMode: testAnthropic,
	}, nil
}
