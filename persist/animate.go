package persist

import (
	"errors"
	"fmt"
	"image"
	"log/slog"
	"os"

	"github.com/setanarut/apng"
	xdraw "golang.org/x/image/draw"
)

// frameDelay is the per-frame display time handed to the apng encoder.
const frameDelay = 7

// ErrNoFrames is returned when none of the frames could be read back.
var ErrNoFrames = errors.New("no frames to animate")

// Assemble reads the frames at paths in order, scales each to width pixels
// and writes them as one animated png to out. Unreadable frames are skipped.
// It returns the number of frames in the animation.
func Assemble(log *slog.Logger, paths []string, out string, width int) (int, error) {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	if width < 1 {
		return 0, fmt.Errorf("animation width %d", width)
	}

	frames := make([]image.Image, 0, len(paths))
	for _, p := range paths {
		img, err := decodeFile(p)
		if err != nil {
			log.Warn("skipping frame in animation", "path", p, "error", err)
			continue
		}
		frames = append(frames, Thumbnail(img, width))
	}
	if len(frames) == 0 {
		return 0, ErrNoFrames
	}

	// apng.Save reports no errors; whatever is at out afterwards must be its work.
	if err := os.Remove(out); err != nil && !errors.Is(err, os.ErrNotExist) {
		return 0, fmt.Errorf("remove old animation: %w", err)
	}
	apng.Save(out, frames, frameDelay)
	fi, err := os.Stat(out)
	if err != nil {
		return 0, fmt.Errorf("write animation: %w", err)
	}
	if fi.Size() == 0 {
		return 0, fmt.Errorf("write animation %s: empty file", out)
	}
	log.Info("animation written", "path", out, "frames", len(frames))
	return len(frames), nil
}

// Thumbnail scales img to the given width, keeping its aspect ratio.
func Thumbnail(img image.Image, width int) *image.RGBA {
	b := img.Bounds()
	height := max(1, b.Dy()*width/max(1, b.Dx()))
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, b, xdraw.Src, nil)
	return dst
}

func decodeFile(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return img, nil
}
