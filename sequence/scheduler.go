// Package sequence spreads the frames of a movie over independent units.
//
// The frame indices are split into one contiguous range per unit; every unit
// renders its range in ascending order and persists each frame on its own.
// Units share nothing but the final barrier, so frames of different units
// finish in no particular order.
package sequence

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	mandel "github.com/marben/mandelmovie"
	"github.com/marben/mandelmovie/events"
)

// Report is what a unit tells the scheduler after walking its range.
type Report struct {
	Rendered int
	Failed   int
	// Aborted is set when the unit stopped early because the run was cancelled.
	Aborted bool
}

// Launcher starts the unit for one frame range and blocks until it has
// terminated. Progress is published to sink while the unit runs.
//
// A *LaunchError means the unit could not be started at all and aborts the
// whole run. Any other error fails only that unit.
type Launcher interface {
	Launch(ctx context.Context, unit int, r mandel.FrameRange, sink events.Sink) (Report, error)
}

// LaunchError reports a unit that could not be started.
type LaunchError struct {
	Unit  int
	Range mandel.FrameRange
	Err   error
}

func (e *LaunchError) Error() string {
	return fmt.Sprintf("launch unit %d (%s): %v", e.Unit, e.Range, e.Err)
}

func (e *LaunchError) Unwrap() error { return e.Err }

// Summary aggregates the reports of all units.
type Summary struct {
	Rendered    int
	Failed      int
	FailedUnits []int
	Aborted     bool
}

// OK reports whether every frame was rendered and persisted.
func (s Summary) OK() bool {
	return s.Failed == 0 && len(s.FailedUnits) == 0 && !s.Aborted
}

type Scheduler struct {
	Frames   int
	Units    int
	Launcher Launcher
	Events   events.Sink
	Log      *slog.Logger
}

// Run splits the frames over the units, launches all of them and waits for
// every one to terminate. It only returns an error when a unit failed to
// launch; frame failures are counted in the Summary.
func (s *Scheduler) Run(ctx context.Context) (Summary, error) {
	if s.Frames < 1 || s.Units < 1 {
		return Summary{}, fmt.Errorf("%w schedule: %d frames over %d units", mandel.ErrInvalid, s.Frames, s.Units)
	}
	log := s.Log
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	sink := s.Events
	if sink == nil {
		sink = events.Discard
	}

	ranges := mandel.SplitFrames(s.Frames, s.Units)
	tr := &tracker{sink: sink, log: log, total: s.Frames}

	g, ctx := errgroup.WithContext(ctx)
	for i, r := range ranges {
		g.Go(func() error {
			tr.incActiveUnits()
			defer tr.decActiveUnits()

			log.Debug("launching unit", "unit", i, "range", r.String())
			rep, err := s.Launcher.Launch(ctx, i, r, tr)

			var le *LaunchError
			if errors.As(err, &le) {
				log.Error("unit failed to launch", "unit", i, "range", r.String(), "error", err)
				return err
			}
			tr.unitDone(i, r, rep, err)
			return nil
		})
	}
	err := g.Wait()
	return tr.summary(), err
}

// tracker sits between the units and the configured sink, keeping the
// counts for the summary and logging overall progress.
type tracker struct {
	sink  events.Sink
	log   *slog.Logger
	total int

	finishedFrames atomic.Int64
	units          atomic.Int64

	m   sync.Mutex
	sum Summary
}

func (t *tracker) Publish(ctx context.Context, e events.Event) error {
	if e.Kind == events.KindFrame {
		n := t.finishedFrames.Add(1)
		t.log.Info("progress", "finished", fmt.Sprintf("%.1f%%", 100*float64(n)/float64(t.total)))
	}
	if err := t.sink.Publish(ctx, e); err != nil {
		t.log.Warn("publishing event", "kind", e.Kind, "frame", e.Frame, "error", err)
	}
	return nil
}

func (t *tracker) Close() error { return nil }

func (t *tracker) incActiveUnits() {
	t.log.Debug("units running", "units", t.units.Add(1))
}

func (t *tracker) decActiveUnits() {
	t.log.Debug("units running", "units", t.units.Add(-1))
}

func (t *tracker) unitDone(unit int, r mandel.FrameRange, rep Report, err error) {
	t.m.Lock()
	defer t.m.Unlock()

	t.sum.Rendered += rep.Rendered
	t.sum.Failed += rep.Failed
	t.sum.Aborted = t.sum.Aborted || rep.Aborted
	if err != nil {
		t.sum.FailedUnits = append(t.sum.FailedUnits, unit)
		t.log.Error("unit failed", "unit", unit, "range", r.String(), "error", err)
		return
	}
	t.log.Info("unit finished", "unit", unit, "range", r.String(), "rendered", rep.Rendered, "failed", rep.Failed)
}

func (t *tracker) summary() Summary {
	t.m.Lock()
	defer t.m.Unlock()
	sum := t.sum
	sum.FailedUnits = slices.Sorted(slices.Values(t.sum.FailedUnits))
	return sum
}
