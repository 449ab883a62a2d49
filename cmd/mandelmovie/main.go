// Command mandelmovie renders a zoom into the Mandelbrot set, one image file
// per frame, spreading the frames over units and every frame over threads.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/gops/agent"
	"github.com/google/uuid"
	"github.com/marben/irpc"

	mandel "github.com/marben/mandelmovie"
	"github.com/marben/mandelmovie/config"
	"github.com/marben/mandelmovie/persist"
	"github.com/marben/mandelmovie/render"
	"github.com/marben/mandelmovie/sequence"
)

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "mandelmovie: %v\n", err)
		os.Exit(1)
	}
}

var errFramesFailed = errors.New("not all frames were generated")

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	opts, err := parseArgs(args, stderr)
	if err != nil {
		return err
	}
	if opts.unit != nil {
		return runUnit(ctx, opts, stdin, stdout, stderr)
	}

	cfg := opts.cfg
	log := newLogger(cfg, stderr)

	if cfg.Gops {
		if err := agent.Listen(agent.Options{}); err != nil {
			return fmt.Errorf("gops agent: %w", err)
		}
		defer agent.Close()
	}

	runID := uuid.NewString()
	log = log.With("run", runID)

	sink, closeSinks, err := openSinks(cfg, log)
	if err != nil {
		return err
	}
	defer closeSinks()

	store := newStore(cfg)
	var launcher sequence.Launcher
	if cfg.Isolate {
		b, err := sonic.Marshal(unitConfig(cfg))
		if err != nil {
			return fmt.Errorf("encode unit config: %w", err)
		}
		launcher = sequence.Exec{RunID: runID, Config: b, Stderr: stderr, Log: log}
	} else {
		launcher = sequence.InProcess{Unit: newUnit(cfg, runID, store, log)}
	}

	sched := &sequence.Scheduler{
		Frames:   cfg.Frames,
		Units:    cfg.Units,
		Launcher: launcher,
		Events:   sink,
		Log:      log,
	}
	log.Info("rendering",
		"frames", cfg.Frames,
		"units", cfg.Units,
		"threads", cfg.Threads,
		"isolate", cfg.Isolate,
		"size", fmt.Sprintf("%dx%d", cfg.Width, cfg.Height),
	)
	start := time.Now()
	sum, err := sched.Run(ctx)
	if err != nil {
		return err
	}
	log.Info("run finished",
		"rendered", sum.Rendered,
		"failed", sum.Failed,
		"failedUnits", sum.FailedUnits,
		"elapsed", time.Since(start).Round(time.Millisecond),
	)

	if cfg.Animation != "" {
		paths := make([]string, cfg.Frames)
		for i := range paths {
			paths[i] = store.Path(i)
		}
		if _, err := persist.Assemble(log, paths, cfg.Animation, cfg.AnimationWidth); err != nil {
			return fmt.Errorf("animation: %w", err)
		}
	}

	if !sum.OK() {
		return fmt.Errorf("%w: %d failed, %d units failed", errFramesFailed, sum.Failed, len(sum.FailedUnits))
	}
	log.Info("All images generated successfully.")
	return nil
}

// runUnit is the body of a unit process started by sequence.Exec. The parent
// serves a sequence.Coordinator on stdin and stdout.
func runUnit(ctx context.Context, opts options, stdin io.Reader, stdout, stderr io.Writer) error {
	ep := irpc.NewEndpoint(sequence.Conn{Reader: stdin, Writer: stdout})
	defer ep.Close()

	parent, err := sequence.NewCoordinatorIrpcClient(ep)
	if err != nil {
		return fmt.Errorf("coordinator client: %w", err)
	}
	b, err := parent.Config(ctx)
	if err != nil {
		return fmt.Errorf("fetch unit config: %w", err)
	}
	cfg, err := config.LoadJSON(b)
	if err != nil {
		return err
	}
	if cfg, err = cfg.Normalize(); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	log := newLogger(cfg, stderr).With("run", opts.runID)
	u := newUnit(cfg, opts.runID, newStore(cfg), log)
	rep := u.Run(ctx, opts.unitID, *opts.unit, sequence.Reporter{Coordinator: parent})
	if rep.Failed > 0 {
		return fmt.Errorf("%w: %d of %s", errFramesFailed, rep.Failed, opts.unit)
	}
	return nil
}

func newLogger(cfg config.Config, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.Level()}
	if cfg.LogJSON {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func newStore(cfg config.Config) persist.Writer {
	return persist.Writer{
		Dir:     cfg.OutDir,
		Prefix:  cfg.Prefix,
		Format:  cfg.Format,
		Quality: cfg.Quality,
	}
}

func newUnit(cfg config.Config, runID string, store mandel.Persister, log *slog.Logger) sequence.Unit {
	return sequence.Unit{
		RunID: runID,
		Job:   cfg.Trajectory().Job,
		Frames: render.Frames{
			Workers: cfg.Threads,
			Renderer: render.Renderer{OnTileRender: func(tile mandel.Tile) {
				log.Debug("rendering tile", "tile", tile.String())
			}},
		},
		Store: store,
		Log:   log,
	}
}

// unitConfig strips what only the parent process acts on.
func unitConfig(cfg config.Config) config.Config {
	cfg.Isolate = false
	cfg.Watch = ""
	cfg.KafkaBrokers = []string{}
	cfg.Animation = ""
	cfg.Gops = false
	cfg.EventLog = ""
	return cfg
}
