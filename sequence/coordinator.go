package sequence

import "context"

//go:generate go run github.com/marben/irpc/cmd/irpc@v0.0.0-20260109104542-2d3fde99869b

// Coordinator is what a unit process sees of its parent. The parent serves it
// over the child's stdin and stdout.
type Coordinator interface {
	// Config returns the json configuration the unit renders with.
	Config(ctx context.Context) ([]byte, error)
	// FrameDone reports one frame. errMsg is empty when the frame was written.
	FrameDone(ctx context.Context, unit int, frame int, path string, millis int64, errMsg string) error
	// UnitDone is the last call of a unit.
	UnitDone(ctx context.Context, unit int, rendered int, failed int, aborted bool) error
}
