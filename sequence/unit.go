package sequence

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	mandel "github.com/marben/mandelmovie"
	"github.com/marben/mandelmovie/events"
)

// errAborted marks the unit event of a unit stopped before its last frame.
const errAborted = "aborted"

// Unit renders a range of frames one after another in the calling goroutine.
type Unit struct {
	RunID string
	// Job derives the job of a frame from its index.
	Job    func(frame int) mandel.Job
	Frames mandel.FrameRenderer
	Store  mandel.Persister
	Log    *slog.Logger
}

// Run renders frames r.Start..r.End-1 in order. A frame that fails to render
// or persist is reported and skipped; the unit carries on with the next one.
// Cancelling ctx stops the unit before its next frame.
func (u Unit) Run(ctx context.Context, unit int, r mandel.FrameRange, sink events.Sink) Report {
	log := u.Log
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	log = log.With("unit", unit)

	var rep Report
	for frame := r.Start; frame < r.End; frame++ {
		if ctx.Err() != nil {
			log.Warn("unit aborted", "next", frame, "error", context.Cause(ctx))
			rep.Aborted = true
			break
		}

		start := time.Now()
		err := u.frame(frame, log)
		ev := events.Event{
			Kind:   events.KindFrame,
			RunID:  u.RunID,
			Unit:   unit,
			Time:   time.Now(),
			Frame:  frame,
			Path:   u.Store.Path(frame),
			Millis: time.Since(start).Milliseconds(),
		}
		if err != nil {
			rep.Failed++
			ev.Err = err.Error()
			log.Error("frame failed", "frame", frame, "error", err)
		} else {
			rep.Rendered++
		}
		if err := sink.Publish(ctx, ev); err != nil {
			log.Warn("publish frame event", "frame", frame, "error", err)
		}
	}

	done := events.Event{
		Kind:     events.KindUnit,
		RunID:    u.RunID,
		Unit:     unit,
		Time:     time.Now(),
		Start:    r.Start,
		End:      r.End,
		Rendered: rep.Rendered,
		Failed:   rep.Failed,
	}
	if rep.Aborted {
		done.Err = errAborted
	}
	if err := sink.Publish(context.WithoutCancel(ctx), done); err != nil {
		log.Warn("publish unit event", "error", err)
	}
	return rep
}

// frame renders and stores one frame. The image is dropped on return.
func (u Unit) frame(frame int, log *slog.Logger) error {
	job := u.Job(frame)
	img, err := u.Frames.RenderFrame(job)
	if err != nil {
		return fmt.Errorf("render frame %d: %w", frame, err)
	}
	if err := u.Store.Save(frame, img); err != nil {
		return fmt.Errorf("persist frame %d: %w", frame, err)
	}
	log.Info("generated frame",
		"frame", frame,
		"xscale", job.Region.Xmax-job.Region.Xmin,
		"yscale", job.Region.Ymax-job.Region.Ymin,
		"outfile", u.Store.Path(frame),
	)
	return nil
}

// InProcess runs every unit as a goroutine of the current process.
type InProcess struct {
	Unit Unit
}

func (p InProcess) Launch(ctx context.Context, unit int, r mandel.FrameRange, sink events.Sink) (Report, error) {
	return p.Unit.Run(ctx, unit, r, sink), nil
}
