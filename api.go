package mandel

// Renderer fills one column tile of img for job.
// Implementations must write only inside tile.
type Renderer interface {
	RenderTile(img *Image, job Job, tile Tile) error
}

// FrameRenderer produces a complete frame for job.
type FrameRenderer interface {
	RenderFrame(job Job) (*Image, error)
}

// Persister stores a finished frame under its index.
type Persister interface {
	Save(frame int, img *Image) error
	Path(frame int) string
}
