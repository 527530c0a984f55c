package monitoring

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Level classifies an Event by the log stream it belongs to.
type Level string

const (
	LevelOps   Level = "ops"   // Lifecycle and clinically relevant events
	LevelDiag  Level = "diag"  // State transitions and tuning context
	LevelTrace Level = "trace" // High-frequency per-frame telemetry
)

// Event is a structured diagnostic record emitted by the processing
// pipeline. Events are values: the pipeline returns them alongside each
// frame's output and never writes them anywhere itself.
type Event struct {
	TimestampMs int64              `json:"timestamp_ms"`
	Level       Level              `json:"level"`
	Source      string             `json:"source"` // Emitting layer, e.g. "presence"
	Name        string             `json:"name"`   // Event kind, e.g. "presence_on"
	Fields      map[string]float64 `json:"fields,omitempty"`
}

// String renders the event as a single key=value line with sorted fields.
func (e Event) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "t=%d %s/%s", e.TimestampMs, e.Source, e.Name)
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, " %s=%g", k, e.Fields[k])
	}
	return b.String()
}

// Sink receives events from a running session.
type Sink interface {
	Emit(e Event)
}

// SinkFunc adapts an ordinary function to the Sink interface.
type SinkFunc func(e Event)

// Emit calls f(e).
func (f SinkFunc) Emit(e Event) { f(e) }

// LogSink routes events to the Ops/Diag/Trace streams by level.
type LogSink struct{}

// Emit writes e to the stream matching its level.
func (LogSink) Emit(e Event) {
	switch e.Level {
	case LevelOps:
		Opsf("%s", e)
	case LevelDiag:
		Diagf("%s", e)
	default:
		Tracef("%s", e)
	}
}

// Collector is a Sink that keeps every event in memory. It is safe for
// concurrent use and intended for tests and short replays.
type Collector struct {
	mu     sync.Mutex
	events []Event
}

// Emit appends e.
func (c *Collector) Emit(e Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, e)
}

// Events returns a copy of the collected events.
func (c *Collector) Events() []Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Event, len(c.events))
	copy(out, c.events)
	return out
}

// Named returns the collected events with the given name.
func (c *Collector) Named(name string) []Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []Event
	for _, e := range c.events {
		if e.Name == name {
			out = append(out, e)
		}
	}
	return out
}
