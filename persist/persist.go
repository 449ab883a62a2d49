// Package persist writes finished frames to disk and assembles them into an
// animation once every unit is done.
package persist

import (
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"

	"golang.org/x/image/bmp"

	mandel "github.com/marben/mandelmovie"
)

// Writer stores frame i as <Dir>/<Prefix><i>.<ext>.
type Writer struct {
	Dir     string
	Prefix  string
	Format  string // jpeg, png or bmp
	Quality int    // jpeg only
}

func (w Writer) ext() string {
	switch w.Format {
	case "png":
		return "png"
	case "bmp":
		return "bmp"
	default:
		return "jpg"
	}
}

func (w Writer) Path(frame int) string {
	return filepath.Join(w.Dir, fmt.Sprintf("%s%d.%s", w.Prefix, frame, w.ext()))
}

// Save encodes img to the frame's file, replacing any previous one.
func (w Writer) Save(frame int, img *mandel.Image) (err error) {
	if w.Dir != "" {
		if err := os.MkdirAll(w.Dir, 0o755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}

	path := w.Path(frame)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create frame file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close %q: %w", path, cerr)
		}
	}()

	if err := w.encode(f, img); err != nil {
		return fmt.Errorf("encode %q: %w", path, err)
	}
	return nil
}

func (w Writer) encode(out io.Writer, img image.Image) error {
	switch w.Format {
	case "", "jpeg":
		q := w.Quality
		if q == 0 {
			q = jpeg.DefaultQuality
		}
		return jpeg.Encode(out, img, &jpeg.Options{Quality: q})
	case "png":
		return png.Encode(out, img)
	case "bmp":
		return bmp.Encode(out, img)
	default:
		return errors.New("unsupported format " + w.Format)
	}
}

var _ mandel.Persister = Writer{}
