package main

import (
	"flag"
	"fmt"
	"io"

	mandel "github.com/marben/mandelmovie"
	"github.com/marben/mandelmovie/config"
)

// options is the parsed command line. In unit mode the configuration is not
// parsed here but fetched from the parent process.
type options struct {
	cfg config.Config

	unit   *mandel.FrameRange
	unitID int
	runID  string
}

func parseArgs(args []string, stderr io.Writer) (options, error) {
	cfg := config.Default()

	fs := flag.NewFlagSet("mandelmovie", flag.ContinueOnError)
	fs.SetOutput(stderr)
	cfg.RegisterFlags(fs)
	path := fs.String("c", "", "config file (json, yaml or toml); flags override it")
	unit := fs.String("unit", "", "internal: render frames start:end for the parent on stdin and stdout")
	unitID := fs.Int("unit-id", 0, "internal: number of the unit")
	runID := fs.String("run-id", "", "internal: id of the run the unit belongs to")
	fs.Usage = func() { usage(fs) }

	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	if fs.NArg() > 0 {
		return options{}, fmt.Errorf("unexpected arguments %q", fs.Args())
	}

	if *unit != "" {
		var r mandel.FrameRange
		if _, err := fmt.Sscanf(*unit, "%d:%d", &r.Start, &r.End); err != nil || r.Start < 0 || r.End < r.Start {
			return options{}, fmt.Errorf("%w unit range %q", mandel.ErrInvalid, *unit)
		}
		return options{unit: &r, unitID: *unitID, runID: *runID}, nil
	}

	if *path != "" {
		fileCfg, err := config.Load(*path)
		if err != nil {
			return options{}, err
		}
		over := flag.NewFlagSet("override", flag.ContinueOnError)
		fileCfg.RegisterFlags(over)
		var setErr error
		fs.Visit(func(f *flag.Flag) {
			if over.Lookup(f.Name) == nil {
				return
			}
			if err := over.Set(f.Name, f.Value.String()); err != nil && setErr == nil {
				setErr = err
			}
		})
		if setErr != nil {
			return options{}, setErr
		}
		cfg = fileCfg
	}

	cfg, err := cfg.Normalize()
	if err != nil {
		return options{}, err
	}
	if err := cfg.Validate(); err != nil {
		return options{}, err
	}
	return options{cfg: cfg}, nil
}

func usage(fs *flag.FlagSet) {
	w := fs.Output()
	fmt.Fprintln(w, "Use: mandelmovie [options]")
	fmt.Fprintln(w, "Renders a zoom into the Mandelbrot set as numbered frames.")
	fmt.Fprintln(w, "Where options are:")
	fs.PrintDefaults()
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Some examples are:")
	fmt.Fprintln(w, "mandelmovie -x -0.5 -y -0.5 -s 0.2")
	fmt.Fprintln(w, "mandelmovie -x -.38 -y -.665 -s .05 -m 100 -n 4 -t 8")
	fmt.Fprintln(w, "mandelmovie -x 0.286932 -y 0.014287 -s .0005 -m 1000 -zoom 0.8")
	fmt.Fprintln(w, "mandelmovie -region seahorse -f 120 -apng seahorse.png -watch :8080")
}
