package cmd

import (
	"os"
	"time"

	"github.com/rigeltrace/rigel/renderer"
	"github.com/urfave/cli"
)

// Render a still preview frame of the scene.
func RenderFrame(ctx *cli.Context) error {
	setupLogging(ctx)

	sc, err := loadScene(ctx)
	if err != nil {
		return err
	}

	// Position the camera
	sc.Camera.FOV = float32(ctx.Float64("fov"))
	if sc.Camera.Position, err = parseVec3(ctx.String("eye")); err != nil {
		return err
	}
	if sc.Camera.LookAt, err = parseVec3(ctx.String("look")); err != nil {
		return err
	}

	opts := renderer.Options{
		FrameW:     uint32(ctx.Int("width")),
		FrameH:     uint32(ctx.Int("height")),
		NumWorkers: ctx.Int("workers"),
	}

	r, err := renderer.NewPreview(sc, opts)
	if err != nil {
		return err
	}

	logger.Notice("rendering frame")
	frame, err := r.Render()
	if err != nil {
		return err
	}
	logger.Noticef("frame statistics\n%s", r.Stats())

	// Export PNG
	imgFile := ctx.String("out")
	f, err := os.Create(imgFile)
	if err != nil {
		return err
	}
	defer f.Close()

	start := time.Now()
	if err = renderer.WritePNG(f, frame); err != nil {
		return err
	}
	logger.Noticef("wrote frame to %s in %d ms", imgFile, time.Since(start).Milliseconds())

	return nil
}
