package renderer

import (
	"image"
	"image/color"
	"image/png"
	"io"
	"runtime"
	"sync"
	"time"

	"github.com/rigeltrace/rigel/geom"
	"github.com/rigeltrace/rigel/log"
	"github.com/rigeltrace/rigel/scene"
)

var logger = log.New("renderer")

type Renderer interface {
	// Render frame.
	Render() (*image.RGBA, error)

	// Get render statistics for the last frame.
	Stats() FrameStats
}

// A CPU-based preview renderer. It shoots one primary ray per pixel and
// shades hits by their surface normal so the scene geometry can be inspected
// without a GPU device. Frame rows are split into one block per worker and
// traced concurrently; the scene is never mutated while a frame is in
// flight.
type previewRenderer struct {
	scene   *scene.Scene
	options Options
	stats   FrameStats
}

// Create a new preview renderer for the supplied scene.
func NewPreview(sc *scene.Scene, opts Options) (Renderer, error) {
	if sc == nil {
		return nil, ErrSceneNotDefined
	}
	if sc.Camera == nil {
		return nil, ErrCameraNotDefined
	}
	if opts.FrameW == 0 || opts.FrameH == 0 {
		return nil, ErrInvalidFrameDims
	}
	if opts.NumWorkers < 1 {
		opts.NumWorkers = runtime.NumCPU()
	}
	if uint32(opts.NumWorkers) > opts.FrameH {
		opts.NumWorkers = int(opts.FrameH)
	}

	sc.Camera.SetupProjection(float32(opts.FrameW) / float32(opts.FrameH))

	return &previewRenderer{
		scene:   sc,
		options: opts,
	}, nil
}

func (r *previewRenderer) Render() (*image.RGBA, error) {
	var (
		frameW = int(r.options.FrameW)
		frameH = int(r.options.FrameH)
		img    = image.NewRGBA(image.Rect(0, 0, frameW, frameH))
		start  = time.Now()
	)

	// Split frame rows into equal-height blocks, one per worker; any
	// leftover rows go to the first block
	blockH := frameH / r.options.NumWorkers
	r.stats = FrameStats{Workers: make([]WorkerStat, r.options.NumWorkers)}

	var wg sync.WaitGroup
	rowStart := 0
	for workerId := 0; workerId < r.options.NumWorkers; workerId++ {
		rows := blockH
		if workerId == 0 {
			rows += frameH % r.options.NumWorkers
		}

		wg.Add(1)
		go func(workerId, rowStart, rows int) {
			defer wg.Done()
			blockStart := time.Now()
			for y := rowStart; y < rowStart+rows; y++ {
				for x := 0; x < frameW; x++ {
					ray := r.scene.Camera.PrimaryRay(x, y, frameW, frameH)
					img.SetRGBA(x, y, r.shade(ray))
				}
			}
			r.stats.Workers[workerId] = WorkerStat{
				Id:           workerId,
				BlockH:       uint32(rows),
				FramePercent: 100 * float32(rows) / float32(frameH),
				RenderTime:   time.Since(blockStart),
			}
		}(workerId, rowStart, rows)

		rowStart += rows
	}
	wg.Wait()

	r.stats.RenderTime = time.Since(start)
	logger.Debugf("rendered %dx%d frame in %d ms", frameW, frameH, r.stats.RenderTime.Milliseconds())

	return img, nil
}

func (r *previewRenderer) Stats() FrameStats {
	return r.stats
}

// Map an intersection to a preview color. Hits are colored by their world
// normal remapped to [0, 1]; misses produce black.
func (r *previewRenderer) shade(ray geom.Ray) color.RGBA {
	hit := r.scene.Intersect(ray)
	if !hit.Hit() {
		return color.RGBA{A: 255}
	}

	return color.RGBA{
		R: uint8(255 * (0.5 + 0.5*hit.Normal[0])),
		G: uint8(255 * (0.5 + 0.5*hit.Normal[1])),
		B: uint8(255 * (0.5 + 0.5*hit.Normal[2])),
		A: 255,
	}
}

// WritePNG encodes a rendered frame as PNG.
func WritePNG(w io.Writer, img image.Image) error {
	return png.Encode(w, img)
}
