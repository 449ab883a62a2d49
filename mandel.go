package mandel

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalid is wrapped by every validation failure in this module.
var ErrInvalid = errors.New("invalid")

// Region within the Mandelbrot set
type Region struct {
	Xmin, Xmax float64
	Ymin, Ymax float64
}

// RegionAround returns the window of size xscale × yscale centered on (cx, cy).
func RegionAround(cx, cy, xscale, yscale float64) Region {
	return Region{
		Xmin: cx - xscale/2,
		Xmax: cx + xscale/2,
		Ymin: cy - yscale/2,
		Ymax: cy + yscale/2,
	}
}

func (r Region) Validate() error {
	for _, v := range []float64{r.Xmin, r.Xmax, r.Ymin, r.Ymax} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w region %v: non-finite bound", ErrInvalid, r)
		}
	}
	if !(r.Xmax > r.Xmin) || !(r.Ymax > r.Ymin) {
		return fmt.Errorf("%w region %v: empty window", ErrInvalid, r)
	}
	return nil
}

// Center and Width describe the region the way the command line does.
func (r Region) Center() (x, y float64) { return (r.Xmin + r.Xmax) / 2, (r.Ymin + r.Ymax) / 2 }
func (r Region) Width() float64         { return r.Xmax - r.Xmin }

// Classic regions / landmarks in the Mandelbrot set
var (
	// Seahorse Valley – dense filaments and repeating “seahorse” curls
	SeahorseValley = Region{
		Xmin: -0.8,
		Xmax: -0.7,
		Ymin: 0.05,
		Ymax: 0.15,
	}

	// Elephant Valley – large bulb with trunk-like tendrils
	ElephantValley = Region{
		Xmin: -1.85,
		Xmax: -1.75,
		Ymin: -0.10,
		Ymax: -0.02,
	}

	// Spiral Minibrot – small Mandelbrot copy with tight spiral arms
	SpiralMinibrot = Region{
		Xmin: -0.7435,
		Xmax: -0.7420,
		Ymin: 0.1310,
		Ymax: 0.1325,
	}

	// Triple Spiral – threefold symmetric spiral structure
	TripleSpiral = Region{
		Xmin: -0.7480,
		Xmax: -0.7450,
		Ymin: 0.0950,
		Ymax: 0.0980,
	}

	// Valley of the Dragon – deep, highly detailed spiral filaments
	ValleyOfTheDragon = Region{
		Xmin: -0.7400,
		Xmax: -0.7350,
		Ymin: 0.1800,
		Ymax: 0.1850,
	}

	// Minibrot in a Mini-Spiral – self-similar Mandelbrot copy inside a spiral arm
	MinibrotInMiniSpiral = Region{
		Xmin: -1.7390,
		Xmax: -1.7375,
		Ymin: -0.0235,
		Ymax: -0.0220,
	}
)

// Landmarks maps the names accepted by -region to the regions above.
var Landmarks = map[string]Region{
	"seahorse":      SeahorseValley,
	"elephant":      ElephantValley,
	"spiral":        SpiralMinibrot,
	"triple-spiral": TripleSpiral,
	"dragon":        ValleyOfTheDragon,
	"minibrot":      MinibrotInMiniSpiral,
}

// Job holds everything needed to render one complete frame.
type Job struct {
	Width, Height int
	Region        Region
	MaxIter       int
}

func (j Job) Validate() error {
	if j.Width < 1 || j.Height < 1 {
		return fmt.Errorf("%w job: image %dx%d", ErrInvalid, j.Width, j.Height)
	}
	if j.MaxIter < 1 {
		return fmt.Errorf("%w job: max iterations %d", ErrInvalid, j.MaxIter)
	}
	return j.Region.Validate()
}

// Tile is a range of columns [X0, X1) spanning the full image height.
type Tile struct {
	X0, X1 int
}

func (t Tile) Len() int       { return t.X1 - t.X0 }
func (t Tile) String() string { return fmt.Sprintf("cols[%d,%d)", t.X0, t.X1) }

// FrameRange is a range of frame indices [Start, End) handled by one unit.
type FrameRange struct {
	Start, End int
}

func (r FrameRange) Len() int       { return r.End - r.Start }
func (r FrameRange) String() string { return fmt.Sprintf("frames[%d,%d)", r.Start, r.End) }

// Split cuts [0, total) into n contiguous ranges of total/n elements.
// The last range absorbs the remainder, so when total < n every range but
// the last is empty.
func Split(total, n int) [][2]int {
	if n < 1 {
		panic("split count must be positive")
	}
	if total < 0 {
		panic("split total must not be negative")
	}

	size := total / n
	parts := make([][2]int, n)
	for i := range n {
		start := i * size
		end := start + size
		if i == n-1 {
			end = total
		}
		parts[i] = [2]int{start, end}
	}
	return parts
}

// SplitColumns partitions the columns of a width-wide image into workers tiles.
func SplitColumns(width, workers int) []Tile {
	parts := Split(width, workers)
	tiles := make([]Tile, len(parts))
	for i, p := range parts {
		tiles[i] = Tile{X0: p[0], X1: p[1]}
	}
	return tiles
}

// SplitFrames partitions frame indices [0, frames) into units ranges.
func SplitFrames(frames, units int) []FrameRange {
	parts := Split(frames, units)
	ranges := make([]FrameRange, len(parts))
	for i, p := range parts {
		ranges[i] = FrameRange{Start: p[0], End: p[1]}
	}
	return ranges
}

// Trajectory derives every frame's window from a fixed center and a
// geometrically shrinking scale: frame i covers Scale·Decay^i horizontally.
type Trajectory struct {
	CenterX, CenterY float64
	Scale            float64
	Decay            float64
	Width, Height    int
	MaxIter          int
}

// ScaleAt returns the horizontal and vertical extent of frame i.
func (t Trajectory) ScaleAt(frame int) (xscale, yscale float64) {
	xscale = t.Scale * math.Pow(t.Decay, float64(frame))
	yscale = xscale * float64(t.Height) / float64(t.Width)
	return xscale, yscale
}

func (t Trajectory) Job(frame int) Job {
	xs, ys := t.ScaleAt(frame)
	return Job{
		Width:   t.Width,
		Height:  t.Height,
		Region:  RegionAround(t.CenterX, t.CenterY, xs, ys),
		MaxIter: t.MaxIter,
	}
}
