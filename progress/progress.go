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

// Package progress defines the orchestrator's progress sink: a writable
// stream of opaque events that callers must tolerate unknown tags from.
// Writes to a sink may fail (client disconnect); the orchestrator never
// aborts on a sink failure, so every Sink implementation swallows its own
// write errors and only reports success/failure to the caller.
package progress

import (
	"encoding/json"
	"io"
	"log"
	"sync"
)

// Type tags an Event. It is a plain string, not a closed enum, so callers
// can introduce new tags without a breaking change.
type Type string

// Known event types. Receivers must tolerate tags not in this list.
const (
	TypeProgress           Type = "progress"
	TypePlanRevision       Type = "plan_revision"
	TypeMidComponentResult Type = "mid_component_results"
	TypeSaturation         Type = "research_saturation"
	TypeComponentTiming    Type = "component_timing"
	TypeTimeDecision       Type = "time_decision"
	TypeResult             Type = "result"
	TypeError              Type = "error"
)

// Event is an opaque progress payload.
type Event struct {
	Type    Type   `json:"type"`
	Content string `json:"content"`
	Data    any    `json:"data,omitempty"`
}

// Sink accepts progress events. Emit returns false when the write failed;
// callers must not treat that as fatal.
type Sink interface {
	Emit(Event) bool
}

// Nop discards every event. Useful when the caller has no transport.
type Nop struct{}

// Emit implements Sink.
func (Nop) Emit(Event) bool { return true }

// WriterSink writes each event as a JSON line to an underlying io.Writer,
// guarded by a mutex so concurrent emitters (quick pass workers) never
// interleave partial writes on a shared connection.
type WriterSink struct {
	mu sync.Mutex
	w  io.Writer
}

// NewWriterSink wraps w as a Sink.
func NewWriterSink(w io.Writer) *WriterSink {
	return &WriterSink{w: w}
}

// Emit implements Sink. A marshal or write failure is logged and swallowed.
func (s *WriterSink) Emit(e Event) bool {
	data, err := json.Marshal(e)
	if err != nil {
		log.Printf("progress: marshal event: %v", err)
		return false
	}
	data = append(data, '\n')

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.w.Write(data); err != nil {
		log.Printf("progress: write failed, dropping event: %v", err)
		return false
	}
	return true
}

// Collector records every event it receives, for tests and for callers
// that want the full event log rather than a live stream.
type Collector struct {
	mu     sync.Mutex
	Events []Event
}

// Emit implements Sink.
func (c *Collector) Emit(e Event) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Events = append(c.Events, e)
	return true
}

// All returns a copy of every event recorded so far.
func (c *Collector) All() []Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Event, len(c.Events))
	copy(out, c.Events)
	return out
}
