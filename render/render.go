// Package render turns plane coordinates into pixels: escape-time iteration,
// the grayscale mapping, per-tile rendering and the per-frame tile scheduler.
package render

import (
	"fmt"

	mandel "github.com/marben/mandelmovie"
)

// BaseColor is the color of a point that never escapes. Every other point
// scales it linearly by iterations/max.
const BaseColor uint32 = 0xF0F0FF

// Black is the background a frame is filled with before rendering.
const Black uint32 = 0

// Iterations returns how many steps of z ← z² + c the orbit of c = (x0, y0)
// stays within radius 2, capped at maxIter.
func Iterations(x0, y0 float64, maxIter int) int {
	x, y := x0, y0
	iter := 0
	for x*x+y*y <= 4 && iter < maxIter {
		x, y = x*x-y*y+x0, 2*x*y+y0
		iter++
	}
	return iter
}

// Color maps an iteration count onto [0, BaseColor]. Points inside the set
// (iter == maxIter) get BaseColor itself, not a separate interior color.
func Color(iter, maxIter int) uint32 {
	return uint32(float64(BaseColor) * float64(iter) / float64(maxIter))
}

// Renderer is the CPU implementation of mandel.Renderer.
type Renderer struct {
	// OnTileRender, if set, is called before each tile is rendered.
	OnTileRender func(tile mandel.Tile)
}

func (r Renderer) RenderTile(img *mandel.Image, job mandel.Job, tile mandel.Tile) error {
	if img.Width() != job.Width || img.Height() != job.Height {
		return fmt.Errorf("image %dx%d does not match job %dx%d", img.Width(), img.Height(), job.Width, job.Height)
	}
	if tile.X0 < 0 || tile.X1 > job.Width || tile.X0 > tile.X1 {
		return fmt.Errorf("tile %s outside image width %d", tile, job.Width)
	}
	if r.OnTileRender != nil {
		r.OnTileRender(tile)
	}

	reg := job.Region
	w, h := float64(job.Width), float64(job.Height)

	for py := 0; py < job.Height; py++ {
		yf := reg.Ymin + float64(py)*(reg.Ymax-reg.Ymin)/h

		for px := tile.X0; px < tile.X1; px++ {
			xf := reg.Xmin + float64(px)*(reg.Xmax-reg.Xmin)/w

			iters := Iterations(xf, yf, job.MaxIter)
			img.SetPixel(px, py, Color(iters, job.MaxIter))
		}
	}
	return nil
}

var _ mandel.Renderer = Renderer{}
