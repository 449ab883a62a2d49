// Package config holds the run configuration of mandelmovie. Defaults live
// in the struct tags, a file can override them, and flags override the file.
package config

import (
	"flag"
	"fmt"
	"log/slog"
	"math"
	"slices"
	"strings"

	"github.com/zeromicro/go-zero/core/conf"

	mandel "github.com/marben/mandelmovie"
	"github.com/marben/mandelmovie/render"
)

// Formats accepted for frame output.
var Formats = []string{"jpeg", "png", "bmp"}

// Config is built once at startup and treated as read-only afterwards.
type Config struct {
	CenterX float64 `json:"centerX,default=0"`
	CenterY float64 `json:"centerY,default=0"`
	Scale   float64 `json:"scale,default=4"`
	Region  string  `json:"region,optional"`
	Decay   float64 `json:"decay,default=0.9"`

	Width   int `json:"width,default=1000"`
	Height  int `json:"height,default=1000"`
	MaxIter int `json:"maxIter,default=1000"`
	Frames  int `json:"frames,default=50"`

	Units   int  `json:"units,default=1"`
	Threads int  `json:"threads,default=1"`
	Isolate bool `json:"isolate,optional"`

	OutDir  string `json:"outDir,default=."`
	Prefix  string `json:"prefix,default=mandel"`
	Format  string `json:"format,default=jpeg"`
	Quality int    `json:"quality,default=90"`

	Animation      string `json:"animation,optional"`
	AnimationWidth int    `json:"animationWidth,default=320"`

	Watch        string   `json:"watch,optional"`
	KafkaBrokers []string `json:"kafkaBrokers,optional"`
	KafkaTopic   string   `json:"kafkaTopic,default=mandelmovie.frames"`
	EventLog     string   `json:"eventLog,optional"`
	Gops         bool     `json:"gops,optional"`

	LogLevel string `json:"logLevel,default=info"`
	LogJSON  bool   `json:"logJSON,optional"`
}

// Default returns the configuration used when nothing is given.
func Default() Config {
	var c Config
	if err := conf.FillDefault(&c); err != nil {
		panic(fmt.Sprintf("config defaults: %v", err))
	}
	return c
}

// rawConfig has the fields of Config and none of its methods. conf.Load
// calls Validate on its target, which must wait until Normalize has run.
type rawConfig Config

// Load reads a json, yaml or toml file; unset keys keep their defaults.
func Load(path string) (Config, error) {
	var c rawConfig
	if err := conf.Load(path, &c); err != nil {
		return Config{}, fmt.Errorf("load config %q: %w", path, err)
	}
	return Config(c), nil
}

// LoadJSON decodes a configuration from raw json, as sent to unit processes.
func LoadJSON(b []byte) (Config, error) {
	var c rawConfig
	if err := conf.LoadFromJsonBytes(b, &c); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	return Config(c), nil
}

// ClampThreads limits the per-frame worker count to [1, render.MaxWorkers].
func ClampThreads(n int) int {
	return min(max(n, 1), render.MaxWorkers)
}

// Normalize applies the region preset and clamps the thread count.
func (c Config) Normalize() (Config, error) {
	c.Threads = ClampThreads(c.Threads)
	if c.Region != "" {
		r, ok := mandel.Landmarks[c.Region]
		if !ok {
			return c, fmt.Errorf("%w region %q, known: %s", mandel.ErrInvalid, c.Region, strings.Join(landmarkNames(), ", "))
		}
		c.CenterX, c.CenterY = r.Center()
		c.Scale = r.Width()
	}
	c.KafkaBrokers = slices.DeleteFunc(c.KafkaBrokers, func(s string) bool { return strings.TrimSpace(s) == "" })
	return c, nil
}

// Validate rejects configurations that would render garbage.
func (c Config) Validate() error {
	switch {
	case c.Width < 1 || c.Height < 1:
		return fmt.Errorf("%w image size %dx%d", mandel.ErrInvalid, c.Width, c.Height)
	case c.MaxIter < 1:
		return fmt.Errorf("%w max iterations %d", mandel.ErrInvalid, c.MaxIter)
	case c.Frames < 1:
		return fmt.Errorf("%w frame count %d", mandel.ErrInvalid, c.Frames)
	case c.Units < 1:
		return fmt.Errorf("%w process count %d", mandel.ErrInvalid, c.Units)
	case c.Threads < 1 || c.Threads > render.MaxWorkers:
		return fmt.Errorf("%w thread count %d", mandel.ErrInvalid, c.Threads)
	case !(c.Scale > 0) || math.IsInf(c.Scale, 0):
		return fmt.Errorf("%w scale %g", mandel.ErrInvalid, c.Scale)
	case !(c.Decay > 0 && c.Decay <= 1):
		return fmt.Errorf("%w zoom decay %g, want (0,1]", mandel.ErrInvalid, c.Decay)
	case math.IsNaN(c.CenterX) || math.IsInf(c.CenterX, 0) || math.IsNaN(c.CenterY) || math.IsInf(c.CenterY, 0):
		return fmt.Errorf("%w center (%g,%g)", mandel.ErrInvalid, c.CenterX, c.CenterY)
	case !slices.Contains(Formats, c.Format):
		return fmt.Errorf("%w format %q, want one of %s", mandel.ErrInvalid, c.Format, strings.Join(Formats, ", "))
	case c.Quality < 1 || c.Quality > 100:
		return fmt.Errorf("%w jpeg quality %d", mandel.ErrInvalid, c.Quality)
	case c.Prefix == "":
		return fmt.Errorf("%w empty file prefix", mandel.ErrInvalid)
	case c.Animation != "" && c.AnimationWidth < 1:
		return fmt.Errorf("%w animation width %d", mandel.ErrInvalid, c.AnimationWidth)
	case len(c.KafkaBrokers) > 0 && c.KafkaTopic == "":
		return fmt.Errorf("%w kafka brokers without topic", mandel.ErrInvalid)
	}
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return fmt.Errorf("%w log level: %v", mandel.ErrInvalid, err)
	}
	return nil
}

// Trajectory is the zoom path the frames follow.
func (c Config) Trajectory() mandel.Trajectory {
	return mandel.Trajectory{
		CenterX: c.CenterX,
		CenterY: c.CenterY,
		Scale:   c.Scale,
		Decay:   c.Decay,
		Width:   c.Width,
		Height:  c.Height,
		MaxIter: c.MaxIter,
	}
}

// Level returns the slog level named by LogLevel, info if it is unknown.
func (c Config) Level() slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return lvl
}

func landmarkNames() []string {
	names := make([]string, 0, len(mandel.Landmarks))
	for n := range mandel.Landmarks {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}

// RegisterFlags binds every field to fs, using the current values as defaults.
// Single letter names follow the classic mandel tool.
func (c *Config) RegisterFlags(fs *flag.FlagSet) {
	fs.Float64Var(&c.CenterX, "x", c.CenterX, "X coordinate of image center point")
	fs.Float64Var(&c.CenterY, "y", c.CenterY, "Y coordinate of image center point")
	fs.Float64Var(&c.Scale, "s", c.Scale, "Scale of the first frame in Mandelbrot coordinates (X-axis)")
	fs.StringVar(&c.Region, "region", c.Region, "named landmark overriding -x -y -s ("+strings.Join(landmarkNames(), ", ")+")")
	fs.Float64Var(&c.Decay, "zoom", c.Decay, "scale factor applied per frame, in (0,1]")
	fs.IntVar(&c.Width, "W", c.Width, "Width of the image in pixels")
	fs.IntVar(&c.Height, "H", c.Height, "Height of the image in pixels")
	fs.IntVar(&c.MaxIter, "m", c.MaxIter, "The maximum number of iterations per point")
	fs.IntVar(&c.Frames, "f", c.Frames, "Number of frames to render")
	fs.IntVar(&c.Units, "n", c.Units, "Number of units (processes) sharing the frames")
	fs.IntVar(&c.Threads, "t", c.Threads, "Number of threads per frame, clamped to [1,20]")
	fs.BoolVar(&c.Isolate, "isolate", c.Isolate, "run every unit as a separate process")
	fs.StringVar(&c.OutDir, "o", c.OutDir, "Output directory for frames")
	fs.StringVar(&c.Prefix, "prefix", c.Prefix, "frame file name prefix")
	fs.StringVar(&c.Format, "format", c.Format, "frame encoding ("+strings.Join(Formats, ", ")+")")
	fs.IntVar(&c.Quality, "quality", c.Quality, "jpeg quality, 1-100")
	fs.StringVar(&c.Animation, "apng", c.Animation, "also assemble all frames into this animated png")
	fs.IntVar(&c.AnimationWidth, "apng-width", c.AnimationWidth, "width of animation frames in pixels")
	fs.StringVar(&c.Watch, "watch", c.Watch, "serve live progress on this address (websocket at /ws)")
	fs.Var((*listValue)(&c.KafkaBrokers), "kafka", "comma separated kafka brokers receiving frame events")
	fs.StringVar(&c.KafkaTopic, "kafka-topic", c.KafkaTopic, "kafka topic for frame events")
	fs.StringVar(&c.EventLog, "events", c.EventLog, "append progress events as json lines to this file")
	fs.BoolVar(&c.Gops, "gops", c.Gops, "start the gops diagnostics agent")
	fs.StringVar(&c.LogLevel, "log-level", c.LogLevel, "debug, info, warn or error")
	fs.BoolVar(&c.LogJSON, "log-json", c.LogJSON, "log as json")
}

type listValue []string

func (l *listValue) String() string {
	if l == nil {
		return ""
	}
	return strings.Join(*l, ",")
}

func (l *listValue) Set(s string) error {
	*l = nil
	for _, v := range strings.Split(s, ",") {
		if v = strings.TrimSpace(v); v != "" {
			*l = append(*l, v)
		}
	}
	return nil
}
