package synth

import (
	"context"
	"time"

	"github.com/banshee-data/pulse.report/internal/ppg/l1frames"
	"github.com/banshee-data/pulse.report/internal/timeutil"
)

// Stream delivers frames on the returned channel at fps, paced by clock.
// The channel is closed after the last frame or when ctx is cancelled.
func Stream(ctx context.Context, clock timeutil.Clock, frames []l1frames.FrameSample, fps float64) <-chan l1frames.FrameSample {
	out := make(chan l1frames.FrameSample)
	if fps <= 0 {
		fps = 30
	}
	period := time.Duration(float64(time.Second) / fps)

	go func() {
		defer close(out)
		ticker := clock.NewTicker(period)
		defer ticker.Stop()

		for _, f := range frames {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C():
			}
			select {
			case <-ctx.Done():
				return
			case out <- f:
			}
		}
	}()
	return out
}
