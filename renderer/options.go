package renderer

type Options struct {
	// Frame dims.
	FrameW uint32
	FrameH uint32

	// Number of render workers. Values < 1 select runtime.NumCPU().
	NumWorkers int
}
