package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	mandel "github.com/marben/mandelmovie"
)

func TestDefaults(t *testing.T) {
	c := Default()
	if c.Scale != 4 || c.Width != 1000 || c.Height != 1000 || c.MaxIter != 1000 {
		t.Errorf("unexpected view defaults: %+v", c)
	}
	if c.Frames != 50 || c.Units != 1 || c.Threads != 1 {
		t.Errorf("unexpected scheduling defaults: %+v", c)
	}
	if c.Format != "jpeg" || c.Prefix != "mandel" || c.Quality != 90 {
		t.Errorf("unexpected output defaults: %+v", c)
	}
	if err := c.Validate(); err != nil {
		t.Fatalf("defaults do not validate: %v", err)
	}
}

// TestClampThreads checks the thread count is clamped, never rejected.
func TestClampThreads(t *testing.T) {
	tests := []struct{ in, want int }{
		{25, 20},
		{0, 1},
		{-3, 1},
		{1, 1},
		{20, 20},
		{7, 7},
	}
	for _, tt := range tests {
		if got := ClampThreads(tt.in); got != tt.want {
			t.Errorf("ClampThreads(%d) = %d, expected %d", tt.in, got, tt.want)
		}
		c := Default()
		c.Threads = tt.in
		n, err := c.Normalize()
		if err != nil {
			t.Fatalf("Normalize failed: %v", err)
		}
		if n.Threads != tt.want {
			t.Errorf("Normalize threads %d = %d, expected %d", tt.in, n.Threads, tt.want)
		}
	}
}

func TestNormalizeRegion(t *testing.T) {
	c := Default()
	c.Region = "seahorse"
	n, err := c.Normalize()
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	x, y := mandel.SeahorseValley.Center()
	if n.CenterX != x || n.CenterY != y || n.Scale != mandel.SeahorseValley.Width() {
		t.Errorf("region not applied: center (%g,%g) scale %g", n.CenterX, n.CenterY, n.Scale)
	}

	c.Region = "atlantis"
	if _, err := c.Normalize(); !errors.Is(err, mandel.ErrInvalid) {
		t.Errorf("unknown region: expected ErrInvalid, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"zero width", func(c *Config) { c.Width = 0 }},
		{"negative height", func(c *Config) { c.Height = -5 }},
		{"zero iterations", func(c *Config) { c.MaxIter = 0 }},
		{"zero frames", func(c *Config) { c.Frames = 0 }},
		{"zero units", func(c *Config) { c.Units = 0 }},
		{"unclamped threads", func(c *Config) { c.Threads = 21 }},
		{"zero scale", func(c *Config) { c.Scale = 0 }},
		{"growing zoom", func(c *Config) { c.Decay = 1.5 }},
		{"zero zoom", func(c *Config) { c.Decay = 0 }},
		{"gif", func(c *Config) { c.Format = "gif" }},
		{"quality", func(c *Config) { c.Quality = 101 }},
		{"prefix", func(c *Config) { c.Prefix = "" }},
		{"log level", func(c *Config) { c.LogLevel = "loud" }},
		{"kafka without topic", func(c *Config) { c.KafkaBrokers = []string{"k:9092"}; c.KafkaTopic = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Default()
			tt.modify(&c)
			if err := c.Validate(); !errors.Is(err, mandel.ErrInvalid) {
				t.Errorf("expected ErrInvalid, got %v", err)
			}
		})
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mandel.json")
	body := `{"centerX": -0.5, "width": 320, "height": 200, "threads": 25, "format": "png", "kafkaBrokers": ["a:9092", "b:9092"]}`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if c.CenterX != -0.5 || c.Width != 320 || c.Height != 200 || c.Format != "png" {
		t.Errorf("file values not applied: %+v", c)
	}
	if c.MaxIter != 1000 || c.Frames != 50 || c.Prefix != "mandel" {
		t.Errorf("defaults not kept: %+v", c)
	}
	if len(c.KafkaBrokers) != 2 {
		t.Errorf("brokers = %v", c.KafkaBrokers)
	}

	n, err := c.Normalize()
	if err != nil {
		t.Fatal(err)
	}
	if n.Threads != 20 {
		t.Errorf("threads from file not clamped: %d", n.Threads)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Fatal("missing file accepted")
	}
}

func TestLoadJSON(t *testing.T) {
	c, err := LoadJSON([]byte(`{"frames": 7, "units": 3}`))
	if err != nil {
		t.Fatalf("LoadJSON failed: %v", err)
	}
	if c.Frames != 7 || c.Units != 3 || c.Width != 1000 {
		t.Errorf("unexpected config %+v", c)
	}
}

// TestLoadLeavesThreadsToNormalize checks out-of-range thread counts survive
// decoding so Normalize can clamp them.
func TestLoadLeavesThreadsToNormalize(t *testing.T) {
	for in, want := range map[int]int{0: 1, 25: 20, -3: 1} {
		c, err := LoadJSON([]byte(fmt.Sprintf(`{"threads": %d}`, in)))
		if err != nil {
			t.Fatalf("threads %d: LoadJSON failed: %v", in, err)
		}
		n, err := c.Normalize()
		if err != nil {
			t.Fatal(err)
		}
		if n.Threads != want {
			t.Errorf("threads %d: got %d, expected %d", in, n.Threads, want)
		}
		if err := n.Validate(); err != nil {
			t.Errorf("threads %d: normalized config rejected: %v", in, err)
		}
	}
}

func TestRegisterFlags(t *testing.T) {
	c := Default()
	fs := flag.NewFlagSet("mandelmovie", flag.ContinueOnError)
	c.RegisterFlags(fs)

	args := []string{"-x", "-0.38", "-y", "-0.665", "-s", ".05", "-m", "100", "-n", "4", "-t", "8", "-kafka", "a:1, b:2", "-format", "bmp"}
	if err := fs.Parse(args); err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if c.CenterX != -0.38 || c.CenterY != -0.665 || c.Scale != 0.05 || c.MaxIter != 100 {
		t.Errorf("view flags not applied: %+v", c)
	}
	if c.Units != 4 || c.Threads != 8 || c.Format != "bmp" {
		t.Errorf("scheduling flags not applied: %+v", c)
	}
	if len(c.KafkaBrokers) != 2 || c.KafkaBrokers[1] != "b:2" {
		t.Errorf("brokers = %q", c.KafkaBrokers)
	}
	if c.Width != 1000 {
		t.Errorf("unset flag changed width to %d", c.Width)
	}
}
