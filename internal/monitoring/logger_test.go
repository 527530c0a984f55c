package monitoring

import (
	"bytes"
	"strings"
	"testing"
)

func TestSetLogger(t *testing.T) {
	original := Logf
	defer func() { Logf = original }()

	called := false
	SetLogger(func(format string, v ...interface{}) {
		called = true
	})
	Logf("test message")
	if !called {
		t.Error("Custom logger was not called")
	}

	// Setting nil installs a no-op logger that must not panic.
	called = false
	SetLogger(nil)
	Logf("test message")
	if called {
		t.Error("No-op logger should not have triggered callback")
	}
}

func TestLogWriters(t *testing.T) {
	defer SetLogWriters(LogWriters{})

	var ops, diag bytes.Buffer
	SetLogWriters(LogWriters{Ops: &ops, Diag: &diag})

	Opsf("session %s started", "abc")
	Diagf("presence on")
	Tracef("dropped: trace stream disabled")

	// The stdlib flags put a timestamp between the prefix and the message.
	if !strings.HasPrefix(ops.String(), "[ppg] ") {
		t.Errorf("ops stream missing prefix: %q", ops.String())
	}
	if !strings.HasSuffix(ops.String(), " session abc started\n") {
		t.Errorf("ops stream = %q", ops.String())
	}
	if !strings.Contains(diag.String(), "presence on") {
		t.Errorf("diag stream = %q", diag.String())
	}
	if strings.Contains(ops.String()+diag.String(), "dropped") {
		t.Error("trace output leaked into another stream")
	}
}

func TestLogSinkRoutesByLevel(t *testing.T) {
	defer SetLogWriters(LogWriters{})

	var ops, diag, trace bytes.Buffer
	SetLogWriters(LogWriters{Ops: &ops, Diag: &diag, Trace: &trace})

	sink := LogSink{}
	sink.Emit(Event{TimestampMs: 10, Level: LevelOps, Source: "arrhythmia", Name: "arrhythmia_confirmed"})
	sink.Emit(Event{TimestampMs: 20, Level: LevelDiag, Source: "presence", Name: "presence_on"})
	sink.Emit(Event{TimestampMs: 30, Level: LevelTrace, Source: "beats", Name: "peak"})

	if !strings.Contains(ops.String(), "arrhythmia/arrhythmia_confirmed") {
		t.Errorf("ops stream = %q", ops.String())
	}
	if !strings.Contains(diag.String(), "presence/presence_on") {
		t.Errorf("diag stream = %q", diag.String())
	}
	if !strings.Contains(trace.String(), "beats/peak") {
		t.Errorf("trace stream = %q", trace.String())
	}
}

func TestEventString(t *testing.T) {
	e := Event{
		TimestampMs: 1500,
		Level:       LevelDiag,
		Source:      "presence",
		Name:        "presence_off",
		Fields:      map[string]float64{"bad": 4, "confidence": 0.25},
	}
	want := "t=1500 presence/presence_off bad=4 confidence=0.25"
	if got := e.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestCollector(t *testing.T) {
	var c Collector
	var sink Sink = &c
	sink.Emit(Event{Name: "a"})
	sink.Emit(Event{Name: "b"})
	sink.Emit(Event{Name: "a"})

	if got := len(c.Events()); got != 3 {
		t.Fatalf("len(Events()) = %d, want 3", got)
	}
	if got := len(c.Named("a")); got != 2 {
		t.Errorf("len(Named(a)) = %d, want 2", got)
	}

	var seen []string
	SinkFunc(func(e Event) { seen = append(seen, e.Name) }).Emit(Event{Name: "x"})
	if len(seen) != 1 || seen[0] != "x" {
		t.Errorf("SinkFunc did not forward event: %v", seen)
	}
}
