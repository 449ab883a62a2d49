package render

import (
	"fmt"

	"golang.org/x/sync/errgroup"

	mandel "github.com/marben/mandelmovie"
)

// MaxWorkers is the most tiles a frame is ever split into.
const MaxWorkers = 20

// Frames renders whole frames by splitting them into Workers column tiles
// and rendering every tile on its own goroutine.
type Frames struct {
	Workers int
	// Renderer renders single tiles. Defaults to Renderer{}.
	Renderer mandel.Renderer
}

// RenderFrame returns a fully rendered image for job. Tiles share the image
// but never a column, so they write without locking; the image is only
// returned after every tile has finished.
// A failing tile fails the whole frame.
func (f Frames) RenderFrame(job mandel.Job) (*mandel.Image, error) {
	if err := job.Validate(); err != nil {
		return nil, err
	}
	if f.Workers < 1 {
		return nil, fmt.Errorf("%w worker count %d", mandel.ErrInvalid, f.Workers)
	}
	r := f.Renderer
	if r == nil {
		r = Renderer{}
	}

	img := mandel.NewImage(job.Width, job.Height)
	img.Fill(Black)

	var g errgroup.Group
	for _, tile := range mandel.SplitColumns(job.Width, f.Workers) {
		g.Go(func() error {
			if err := r.RenderTile(img, job, tile); err != nil {
				return fmt.Errorf("tile %s: %w", tile, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return img, nil
}

var _ mandel.FrameRenderer = Frames{}
