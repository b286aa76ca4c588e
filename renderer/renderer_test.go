package renderer

import (
	"bytes"
	"testing"

	"github.com/rigeltrace/rigel/geom"
	"github.com/rigeltrace/rigel/scene"
	"github.com/rigeltrace/rigel/types"
)

func testScene() *scene.Scene {
	sc := scene.NewScene()
	sc.Geoms = append(sc.Geoms, geom.NewGeom(geom.SphereShape, types.Vec3{0, 0, 0}, types.QuatIdent(), types.Vec3{1, 1, 1}))
	sc.Camera = scene.NewCamera(45)
	sc.Camera.Position = types.Vec3{0, 0, 3}
	sc.Camera.LookAt = types.Vec3{0, 0, 0}
	return sc
}

func TestNewPreviewValidation(t *testing.T) {
	type spec struct {
		sc       *scene.Scene
		opts     Options
		expError error
	}

	noCamera := scene.NewScene()
	noCamera.Camera = nil

	specs := []spec{
		{nil, Options{FrameW: 8, FrameH: 8}, ErrSceneNotDefined},
		{noCamera, Options{FrameW: 8, FrameH: 8}, ErrCameraNotDefined},
		{testScene(), Options{FrameW: 0, FrameH: 8}, ErrInvalidFrameDims},
		{testScene(), Options{FrameW: 8, FrameH: 0}, ErrInvalidFrameDims},
	}

	for idx, s := range specs {
		_, err := NewPreview(s.sc, s.opts)
		if err != s.expError {
			t.Fatalf("[spec %d] expected error %v; got %v", idx, s.expError, err)
		}
	}
}

func TestRenderFrame(t *testing.T) {
	r, err := NewPreview(testScene(), Options{FrameW: 32, FrameH: 32, NumWorkers: 4})
	if err != nil {
		t.Fatal(err)
	}

	img, err := r.Render()
	if err != nil {
		t.Fatal(err)
	}

	// The center pixel sees the sphere front face; its normal points back
	// at the camera so the blue channel saturates
	center := img.RGBAAt(16, 16)
	if center.B < 250 {
		t.Fatalf("expected center pixel to be shaded by a camera-facing normal; got %v", center)
	}

	// The corner pixels miss the sphere
	corner := img.RGBAAt(0, 0)
	if corner.R != 0 || corner.G != 0 || corner.B != 0 || corner.A != 255 {
		t.Fatalf("expected opaque black corner pixel; got %v", corner)
	}

	stats := r.Stats()
	if len(stats.Workers) != 4 {
		t.Fatalf("expected stats for 4 workers; got %d", len(stats.Workers))
	}
	var rows uint32
	for _, w := range stats.Workers {
		rows += w.BlockH
	}
	if rows != 32 {
		t.Fatalf("expected worker blocks to cover all 32 rows; got %d", rows)
	}
}

func TestRenderDeterministic(t *testing.T) {
	r, err := NewPreview(testScene(), Options{FrameW: 16, FrameH: 16, NumWorkers: 3})
	if err != nil {
		t.Fatal(err)
	}

	first, err := r.Render()
	if err != nil {
		t.Fatal(err)
	}
	second, err := r.Render()
	if err != nil {
		t.Fatal(err)
	}

	if !bytes.Equal(first.Pix, second.Pix) {
		t.Fatal("expected repeated renders of an unchanged scene to produce identical frames")
	}
}

func TestWritePNG(t *testing.T) {
	r, err := NewPreview(testScene(), Options{FrameW: 8, FrameH: 8, NumWorkers: 1})
	if err != nil {
		t.Fatal(err)
	}

	img, err := r.Render()
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err = WritePNG(&buf, img); err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("\x89PNG")) {
		t.Fatalf("expected PNG magic in encoded output; got % x", buf.Bytes()[:8])
	}
}
