package sequence

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strconv"
	"sync"
	"time"

	"github.com/marben/irpc"

	mandel "github.com/marben/mandelmovie"
	"github.com/marben/mandelmovie/events"
)

// Exec runs every unit as a child process. The child gets its range and the
// run id as arguments (see UnitArgs) and talks to a Coordinator served on its
// stdin and stdout: it fetches the configuration and reports every frame.
type Exec struct {
	// Path of the binary to start, the running executable if empty.
	Path string
	// Args come before the unit arguments.
	Args   []string
	RunID  string
	Config []byte
	Stderr io.Writer
	Log    *slog.Logger
}

// UnitArgs are the arguments that select child mode for one range.
func UnitArgs(runID string, unit int, r mandel.FrameRange) []string {
	return []string{
		"-unit", fmt.Sprintf("%d:%d", r.Start, r.End),
		"-unit-id", strconv.Itoa(unit),
		"-run-id", runID,
	}
}

func (x Exec) Launch(ctx context.Context, unit int, r mandel.FrameRange, sink events.Sink) (Report, error) {
	log := x.Log
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	path := x.Path
	if path == "" {
		exe, err := os.Executable()
		if err != nil {
			return Report{}, &LaunchError{Unit: unit, Range: r, Err: err}
		}
		path = exe
	}

	args := append(append([]string(nil), x.Args...), UnitArgs(x.RunID, unit, r)...)
	cmd := exec.CommandContext(ctx, path, args...)
	cmd.Stderr = x.Stderr
	if cmd.Stderr == nil {
		cmd.Stderr = os.Stderr
	}
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return Report{}, &LaunchError{Unit: unit, Range: r, Err: err}
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return Report{}, &LaunchError{Unit: unit, Range: r, Err: err}
	}
	if err := cmd.Start(); err != nil {
		return Report{}, &LaunchError{Unit: unit, Range: r, Err: err}
	}
	log.Debug("unit process started", "unit", unit, "pid", cmd.Process.Pid)

	c := &coordinator{runID: x.RunID, unit: unit, r: r, config: x.Config, sink: sink, log: log}
	ep := irpc.NewEndpoint(Conn{Reader: stdout, Writer: stdin}, irpc.WithEndpointServices(NewCoordinatorIrpcService(c)))

	// The endpoint ends once the child closes its side, exits or speaks
	// garbage; in the last case closing our side unblocks its writes.
	// Wait closes stdout, so it must not run while the endpoint still reads.
	<-ep.Context().Done()
	waitErr := cmd.Wait()
	cause := context.Cause(ep.Context())

	rep, reported := c.report()
	switch {
	case ctx.Err() != nil:
		rep.Aborted = true
		return rep, nil
	case waitErr != nil && !reported:
		return rep, fmt.Errorf("unit process: %w", waitErr)
	case !reported:
		return rep, fmt.Errorf("unit process exited without a report: %w", cause)
	}
	// A unit exits non-zero when frames failed; those are already counted.
	return rep, nil
}

// coordinator is the parent's side of one unit process.
type coordinator struct {
	runID  string
	unit   int
	r      mandel.FrameRange
	config []byte
	sink   events.Sink
	log    *slog.Logger

	mu       sync.Mutex
	rep      Report
	reported bool
}

var _ Coordinator = (*coordinator)(nil)

func (c *coordinator) Config(context.Context) ([]byte, error) {
	return c.config, nil
}

func (c *coordinator) FrameDone(ctx context.Context, unit, frame int, path string, millis int64, errMsg string) error {
	if unit != c.unit || frame < c.r.Start || frame >= c.r.End {
		return fmt.Errorf("%w frame %d from unit %d, expected unit %d %s", mandel.ErrInvalid, frame, unit, c.unit, c.r)
	}
	c.publish(ctx, events.Event{
		Kind:   events.KindFrame,
		RunID:  c.runID,
		Unit:   unit,
		Time:   time.Now(),
		Frame:  frame,
		Path:   path,
		Millis: millis,
		Err:    errMsg,
	})
	return nil
}

func (c *coordinator) UnitDone(ctx context.Context, unit, rendered, failed int, aborted bool) error {
	if unit != c.unit {
		return fmt.Errorf("%w report from unit %d, expected %d", mandel.ErrInvalid, unit, c.unit)
	}
	c.mu.Lock()
	c.rep = Report{Rendered: rendered, Failed: failed, Aborted: aborted}
	c.reported = true
	c.mu.Unlock()

	e := events.Event{
		Kind:     events.KindUnit,
		RunID:    c.runID,
		Unit:     unit,
		Time:     time.Now(),
		Start:    c.r.Start,
		End:      c.r.End,
		Rendered: rendered,
		Failed:   failed,
	}
	if aborted {
		e.Err = errAborted
	}
	c.publish(ctx, e)
	return nil
}

func (c *coordinator) publish(ctx context.Context, e events.Event) {
	if err := c.sink.Publish(ctx, e); err != nil {
		c.log.Warn("publish unit event", "unit", c.unit, "kind", e.Kind, "error", err)
	}
}

func (c *coordinator) report() (Report, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.rep, c.reported
}

// Reporter is the sink of a unit process: it forwards the unit's events to
// the parent's Coordinator.
type Reporter struct {
	Coordinator Coordinator
}

func (r Reporter) Publish(ctx context.Context, e events.Event) error {
	switch e.Kind {
	case events.KindFrame:
		return r.Coordinator.FrameDone(ctx, e.Unit, e.Frame, e.Path, e.Millis, e.Err)
	case events.KindUnit:
		return r.Coordinator.UnitDone(ctx, e.Unit, e.Rendered, e.Failed, e.Err == errAborted)
	}
	return fmt.Errorf("%w event kind %q", mandel.ErrInvalid, e.Kind)
}

func (Reporter) Close() error { return nil }

// Conn joins the two one-way streams of a process into the connection an
// irpc endpoint runs on. Close closes whichever side can be closed.
type Conn struct {
	io.Reader
	io.Writer
}

func (c Conn) Close() error {
	var errs []error
	if cl, ok := c.Reader.(io.Closer); ok {
		errs = append(errs, cl.Close())
	}
	if cl, ok := c.Writer.(io.Closer); ok {
		errs = append(errs, cl.Close())
	}
	return errors.Join(errs...)
}
