package scene

import (
	"math"
	"strings"
	"testing"

	"github.com/rigeltrace/rigel/geom"
	"github.com/rigeltrace/rigel/types"
)

func floatsNear(a, b, eps float32) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d <= eps
}

func TestSceneIntersectNearest(t *testing.T) {
	sc := NewScene()

	// Unit sphere at the origin and a unit box behind it
	sc.Geoms = append(sc.Geoms,
		geom.NewGeom(geom.SphereShape, types.Vec3{0, 0, 0}, types.QuatIdent(), types.Vec3{1, 1, 1}),
		geom.NewGeom(geom.BoxShape, types.Vec3{0, 0, 3}, types.QuatIdent(), types.Vec3{1, 1, 1}),
	)

	mesh, err := geom.NewMesh(types.Translate4(types.Vec3{0, 0, 6}),
		[]float32{-1, -1, 0, 1, -1, 0, 0, 1, 0},
		[]uint32{0, 1, 2},
	)
	if err != nil {
		t.Fatal(err)
	}
	sc.Meshes = append(sc.Meshes, mesh)

	r := geom.New(types.Vec3{0, 0, -5}, types.Vec3{0, 0, 1})
	hit := sc.Intersect(r)
	if !hit.Hit() {
		t.Fatal("expected ray through all three objects to hit")
	}
	// Sphere front face is nearest
	if !floatsNear(hit.Distance, 4.4999, 1e-3) {
		t.Fatalf("expected nearest hit on the sphere at distance 4.4999; got %f", hit.Distance)
	}

	// A ray that only reaches the mesh
	r = geom.New(types.Vec3{0, 0, 4}, types.Vec3{0, 0, 1})
	hit = sc.Intersect(r)
	if !hit.Hit() || !floatsNear(hit.Distance, 2.0, 1e-3) {
		t.Fatalf("expected mesh hit at distance 2; got %v", hit)
	}

	// A ray that misses everything
	hit = sc.Intersect(geom.New(types.Vec3{0, 50, 0}, types.Vec3{0, 1, 0}))
	if hit.Hit() {
		t.Fatalf("expected miss; got distance %f", hit.Distance)
	}
}

func TestSceneStats(t *testing.T) {
	sc := NewScene()
	sc.Geoms = append(sc.Geoms, geom.NewGeom(geom.SphereShape, types.Vec3{}, types.QuatIdent(), types.Vec3{1, 1, 1}))

	stats := sc.Stats()
	for _, heading := range []string{"Asset Type", "Meshes", "Octrees", "Primitives", "Total"} {
		if !strings.Contains(stats, heading) {
			t.Fatalf("expected stats table to contain %q; got:\n%s", heading, stats)
		}
	}
}

func TestCameraPrimaryRays(t *testing.T) {
	camera := NewCamera(45)
	camera.Position = types.Vec3{0, 0, 5}
	camera.LookAt = types.Vec3{0, 0, 0}
	camera.SetupProjection(1.0)

	// The center pixel of an odd-sized frame looks straight down -Z
	r := camera.PrimaryRay(50, 50, 101, 101)
	if !floatsNear(r.Dir[0], 0, 1e-3) || !floatsNear(r.Dir[1], 0, 1e-3) || !floatsNear(r.Dir[2], -1, 1e-3) {
		t.Fatalf("expected center ray direction (0, 0, -1); got %v", r.Dir)
	}
	if r.Origin != camera.Position {
		t.Fatalf("expected ray origin at the camera position; got %v", r.Origin)
	}

	// Corner rays diverge symmetrically around the view axis
	tl := camera.PrimaryRay(0, 0, 100, 100)
	br := camera.PrimaryRay(99, 99, 100, 100)
	if !floatsNear(tl.Dir[0], -br.Dir[0], 1e-4) || !floatsNear(tl.Dir[1], -br.Dir[1], 1e-4) {
		t.Fatalf("expected symmetric corner rays; got %v and %v", tl.Dir, br.Dir)
	}

	// All corner rays fall inside the field of view
	halfFov := float64(45) * math.Pi / 360.0
	cosLimit := float32(math.Cos(2 * halfFov))
	axis := types.Vec3{0, 0, -1}
	for corner, v := range camera.Frustrum {
		dir := v.Vec3().Normalize()
		if dir.Dot(axis) < cosLimit {
			t.Fatalf("[corner %d] frustrum ray %v falls outside the field of view", corner, dir)
		}
	}
}

func TestCameraPitchYaw(t *testing.T) {
	camera := NewCamera(60)
	camera.Position = types.Vec3{0, 0, 5}
	camera.LookAt = types.Vec3{0, 0, 0}
	camera.Yaw = float32(math.Pi / 2)
	camera.SetupProjection(1.0)

	dir := camera.LookAt.Sub(camera.Position).Normalize()
	if !floatsNear(abs32(dir[0]), 1, 1e-3) || !floatsNear(dir[2], 0, 1e-3) {
		t.Fatalf("expected a quarter yaw to rotate the view direction into the X axis; got %v", dir)
	}
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
