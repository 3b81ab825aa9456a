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

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"deepresearch.dev/orchestrator/orchestrator"
	"deepresearch.dev/orchestrator/progress"
)

// sseSink adapts progress.Sink to a text/event-stream HTTP response,
// flushing after every event so a client sees progress as it happens
// rather than buffered until the handler returns.
type sseSink struct {
	w       http.ResponseWriter
	flusher http.Flusher
}

func (s *sseSink) Emit(e progress.Event) bool {
	data, err := json.Marshal(e)
	if err != nil {
		log.Printf("serve: marshal event: %v", err)
		return false
	}
	if _, err := fmt.Fprintf(s.w, "event: %s\ndata: %s\n\n", e.Type, data); err != nil {
		log.Printf("serve: write event: %v", err)
		return false
	}
	s.flusher.Flush()
	return true
}

type runRequest struct {
	Query       string `json:"query"`
	Breadth     int    `json:"breadth"`
	Depth       int    `json:"depth"`
	MaxDuration string `json:"maxDuration"`
}

// serve starts an HTTP server exposing POST /research, which streams a
// single research run's progress as SSE and ends with the final result as
// a "result" event.
func serve(ctx context.Context, addr string) error {
	router := mux.NewRouter()
	router.HandleFunc("/research", handleResearch).Methods(http.MethodPost)
	router.HandleFunc("/healthz", handleHealthz).Methods(http.MethodGet)

	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	log.Printf("serve: listening on %s", addr)
	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	}
}

func handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func handleResearch(w http.ResponseWriter, r *http.Request) {
	var req runRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("decode request: %v", err), http.StatusBadRequest)
		return
	}
	if req.Query == "" {
		http.Error(w, "query is required", http.StatusBadRequest)
		return
	}

	opts, err := buildOptions(req.Query, req.Breadth, req.Depth, requestDuration(req.MaxDuration), false, "")
	if err != nil {
		http.Error(w, fmt.Sprintf("build options: %v", err), http.StatusInternalServerError)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	opts.Progress = &sseSink{w: w, flusher: flusher}

	result, err := orchestrator.Run(r.Context(), opts)
	if err != nil {
		opts.Progress.Emit(progress.Event{Type: progress.TypeError, Content: err.Error()})
		return
	}
	opts.Progress.Emit(progress.Event{Type: progress.TypeResult, Content: "done", Data: result})
}

func requestDuration(s string) string {
	if s == "" {
		return "30m"
	}
	return s
}
