package pipeline

import (
	"context"

	"github.com/banshee-data/pulse.report/internal/monitoring"
	"github.com/banshee-data/pulse.report/internal/ppg/l1frames"
)

// Session drives a Processor from a frame channel on a single goroutine.
// Exactly one frame is processed at a time.
type Session struct {
	proc *Processor
	sink monitoring.Sink
}

// NewSession wraps proc. sink may be nil; when set it receives every
// event the processor produces plus session start and end markers.
func NewSession(proc *Processor, sink monitoring.Sink) *Session {
	return &Session{proc: proc, sink: sink}
}

// Processor returns the wrapped processor. Read it only after the channel
// returned by Run has been closed.
func (s *Session) Processor() *Processor { return s.proc }

// Run consumes frames until the channel closes or ctx is cancelled, then
// closes the returned channel. The caller must drain the output channel
// or cancel ctx.
func (s *Session) Run(ctx context.Context, frames <-chan l1frames.FrameSample) <-chan Output {
	out := make(chan Output)
	go func() {
		defer close(out)
		s.lifecycle(EventSessionStart, 0)
		var lastTs int64
		defer func() { s.lifecycle(EventSessionEnd, lastTs) }()

		for {
			select {
			case <-ctx.Done():
				return
			case f, ok := <-frames:
				if !ok {
					return
				}
				o := s.proc.Process(f)
				lastTs = o.TimestampMs
				if s.sink != nil {
					for _, e := range o.Events {
						s.sink.Emit(e)
					}
				}
				select {
				case out <- o:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out
}

func (s *Session) lifecycle(name string, tsMs int64) {
	if s.sink == nil {
		return
	}
	e := monitoring.Event{
		TimestampMs: tsMs,
		Level:       monitoring.LevelOps,
		Source:      SourceSession,
		Name:        name,
	}
	if name == EventSessionEnd {
		e.Fields = map[string]float64{"frames": float64(s.proc.frames)}
	}
	s.sink.Emit(e)
}
