package render

import (
	"errors"
	"sync/atomic"
	"testing"

	mandel "github.com/marben/mandelmovie"
)

func centeredJob(width, height, maxIter int, scale float64) mandel.Job {
	return mandel.Trajectory{
		Scale:   scale,
		Decay:   1,
		Width:   width,
		Height:  height,
		MaxIter: maxIter,
	}.Job(0)
}

// TestRenderFrameCenterInSet renders the classic full view; the origin sits
// at the center pixel and must never escape.
func TestRenderFrameCenterInSet(t *testing.T) {
	job := centeredJob(100, 100, 100, 4)
	img, err := Frames{Workers: 4}.RenderFrame(job)
	if err != nil {
		t.Fatalf("RenderFrame failed: %v", err)
	}

	x := job.Region.Xmin + 50*(job.Region.Xmax-job.Region.Xmin)/100
	y := job.Region.Ymin + 50*(job.Region.Ymax-job.Region.Ymin)/100
	if x != 0 || y != 0 {
		t.Fatalf("center pixel maps to (%g,%g), expected origin", x, y)
	}
	if n := Iterations(x, y, job.MaxIter); n != job.MaxIter {
		t.Errorf("origin escaped after %d iterations", n)
	}
	if got := img.Pixel(50, 50); got != BaseColor {
		t.Errorf("center pixel = %#x, expected %#x", got, BaseColor)
	}
	if got := img.Pixel(0, 0); got == BaseColor {
		t.Errorf("corner (-2,-2) reported as inside the set")
	}
}

// TestRenderFrameDeterministic renders the same job repeatedly with different
// worker counts; concurrency must not change a single pixel.
func TestRenderFrameDeterministic(t *testing.T) {
	job := mandel.Job{
		Width:   97,
		Height:  53,
		Region:  mandel.RegionAround(-0.75, 0.1, 0.5, 0.5*53/97),
		MaxIter: 200,
	}

	want, err := Frames{Workers: 1}.RenderFrame(job)
	if err != nil {
		t.Fatalf("RenderFrame failed: %v", err)
	}
	for _, workers := range []int{1, 2, 7, 20, 97} {
		for range 2 {
			got, err := Frames{Workers: workers}.RenderFrame(job)
			if err != nil {
				t.Fatalf("workers=%d: RenderFrame failed: %v", workers, err)
			}
			if !got.Equal(want) {
				t.Fatalf("workers=%d: image differs from single-worker render", workers)
			}
		}
	}
}

type countingRenderer struct {
	width  int
	writes []int32
	tiles  atomic.Int32
}

func (c *countingRenderer) RenderTile(img *mandel.Image, job mandel.Job, tile mandel.Tile) error {
	c.tiles.Add(1)
	for col := tile.X0; col < tile.X1; col++ {
		for row := 0; row < job.Height; row++ {
			atomic.AddInt32(&c.writes[row*c.width+col], 1)
			img.SetPixel(col, row, 1)
		}
	}
	return nil
}

// TestRenderFrameWritesEveryPixelOnce checks the tile split, including
// degenerate tiles for images narrower than the worker count.
func TestRenderFrameWritesEveryPixelOnce(t *testing.T) {
	tests := []struct {
		width, height, workers int
	}{
		{1, 1, 1},
		{1, 9, 4},
		{9, 1, 4},
		{3, 5, 8},
		{100, 10, 7},
		{64, 64, 20},
	}
	for _, tt := range tests {
		c := &countingRenderer{width: tt.width, writes: make([]int32, tt.width*tt.height)}
		job := centeredJob(tt.width, tt.height, 10, 4)

		img, err := Frames{Workers: tt.workers, Renderer: c}.RenderFrame(job)
		if err != nil {
			t.Fatalf("%dx%d/%d: RenderFrame failed: %v", tt.width, tt.height, tt.workers, err)
		}
		if got := int(c.tiles.Load()); got != tt.workers {
			t.Errorf("%dx%d/%d: rendered %d tiles", tt.width, tt.height, tt.workers, got)
		}
		for i, n := range c.writes {
			if n != 1 {
				t.Fatalf("%dx%d/%d: pixel %d written %d times", tt.width, tt.height, tt.workers, i, n)
			}
		}
		if img.Width() != tt.width || img.Height() != tt.height {
			t.Errorf("image is %dx%d", img.Width(), img.Height())
		}
	}
}

// TestRenderFrameSingleIteration checks the max=1 boundary: every pixel is
// either 0 or BaseColor.
func TestRenderFrameSingleIteration(t *testing.T) {
	job := centeredJob(31, 17, 1, 4)
	img, err := Frames{Workers: 3}.RenderFrame(job)
	if err != nil {
		t.Fatalf("RenderFrame failed: %v", err)
	}
	for row := 0; row < job.Height; row++ {
		for col := 0; col < job.Width; col++ {
			if c := img.Pixel(col, row); c != 0 && c != BaseColor {
				t.Fatalf("(%d,%d) = %#x, expected 0 or BaseColor", col, row, c)
			}
		}
	}
}

type failingRenderer struct{ failAt int }

var errBroken = errors.New("broken tile")

func (f failingRenderer) RenderTile(img *mandel.Image, job mandel.Job, tile mandel.Tile) error {
	if tile.X0 <= f.failAt && f.failAt < tile.X1 {
		return errBroken
	}
	return Renderer{}.RenderTile(img, job, tile)
}

func TestRenderFrameFailingTile(t *testing.T) {
	img, err := Frames{Workers: 4, Renderer: failingRenderer{failAt: 5}}.RenderFrame(centeredJob(16, 4, 10, 4))
	if !errors.Is(err, errBroken) {
		t.Fatalf("expected tile error, got %v", err)
	}
	if img != nil {
		t.Error("partial image returned with error")
	}
}

func TestRenderFrameRejectsBadInput(t *testing.T) {
	if _, err := (Frames{Workers: 0}).RenderFrame(centeredJob(4, 4, 4, 4)); !errors.Is(err, mandel.ErrInvalid) {
		t.Errorf("zero workers: expected ErrInvalid, got %v", err)
	}
	if _, err := (Frames{Workers: 2}).RenderFrame(centeredJob(4, 4, 0, 4)); !errors.Is(err, mandel.ErrInvalid) {
		t.Errorf("zero iterations: expected ErrInvalid, got %v", err)
	}
	if _, err := (Frames{Workers: 2}).RenderFrame(centeredJob(0, 4, 4, 4)); !errors.Is(err, mandel.ErrInvalid) {
		t.Errorf("zero width: expected ErrInvalid, got %v", err)
	}
}
