package geom

import (
	"testing"

	"github.com/rigeltrace/rigel/types"
)

func floatsNear(a, b, tolerance float32) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d <= tolerance
}

func vec3Near(a, b types.Vec3, tolerance float32) bool {
	return floatsNear(a[0], b[0], tolerance) &&
		floatsNear(a[1], b[1], tolerance) &&
		floatsNear(a[2], b[2], tolerance)
}

func unitGeom(shape Shape) Geom {
	return NewGeomFromTransform(shape, types.Ident4())
}

func TestBoxIntersect(t *testing.T) {
	box := unitGeom(BoxShape)

	type spec struct {
		origin      types.Vec3
		dir         types.Vec3
		expHit      bool
		expDistance float32
		expNormal   types.Vec3
		expOutside  bool
	}
	specs := []spec{
		// Axis-aligned hit on the near face
		{types.Vec3{0, 0, -5}, types.Vec3{0, 0, 1}, true, 4.4999, types.Vec3{0, 0, -1}, true},
		// Origin inside: far face is reported and outside is false. The
		// candidate normal keeps the slab entry sign, so it points along
		// -Z even though the exit face is at +Z.
		{types.Vec3{0, 0, 0}, types.Vec3{0, 0, 1}, true, 0.4999, types.Vec3{0, 0, -1}, false},
		// Ray pointing away from the box
		{types.Vec3{0, 0, -5}, types.Vec3{0, 0, -1}, false, 0, types.Vec3{}, false},
		// Parallel ray outside the slab
		{types.Vec3{0, 2, -5}, types.Vec3{0, 0, 1}, false, 0, types.Vec3{}, false},
		// Oblique hit through a corner region
		{types.Vec3{-2, -2, -2}, types.Vec3{1, 1, 1}, true, 2.5980, types.Vec3{}, true},
	}

	for index, s := range specs {
		hit := IntersectBox(&box, New(s.origin, s.dir))
		if hit.Hit() != s.expHit {
			t.Fatalf("[spec %d] expected hit=%v; got %v", index, s.expHit, hit.Hit())
		}
		if !s.expHit {
			continue
		}
		if !floatsNear(hit.Distance, s.expDistance, 1e-3) {
			t.Fatalf("[spec %d] expected distance %f; got %f", index, s.expDistance, hit.Distance)
		}
		if hit.Outside != s.expOutside {
			t.Fatalf("[spec %d] expected outside=%v; got %v", index, s.expOutside, hit.Outside)
		}
		if s.expNormal.Len() > 0 && !vec3Near(hit.Normal, s.expNormal, 1e-4) {
			t.Fatalf("[spec %d] expected normal %v; got %v", index, s.expNormal, hit.Normal)
		}
	}
}

func TestBoxIntersectScenario(t *testing.T) {
	// Unit box at origin, ray from (0,0,-5) towards +Z
	box := unitGeom(BoxShape)
	hit := IntersectBox(&box, New(types.Vec3{0, 0, -5}, types.Vec3{0, 0, 1}))

	if !hit.Hit() {
		t.Fatal("expected ray to hit the box")
	}
	if !vec3Near(hit.Point, types.Vec3{0, 0, -0.5}, 1e-3) {
		t.Fatalf("expected world hit point near (0, 0, -0.5); got %v", hit.Point)
	}
	if !vec3Near(hit.Normal, types.Vec3{0, 0, -1}, 1e-4) {
		t.Fatalf("expected normal (0, 0, -1); got %v", hit.Normal)
	}
	if !hit.Outside {
		t.Fatal("expected outside=true for an external ray origin")
	}
	// 5 - 0.5 - surface bias
	if !floatsNear(hit.Distance, 4.4999, 1e-3) {
		t.Fatalf("expected distance near 4.4999; got %f", hit.Distance)
	}
}

func TestBoxIntersectTransformed(t *testing.T) {
	// A 2x2x2 box shifted one unit along +X: faces at x=0 and x=2
	box := NewGeom(BoxShape, types.Vec3{1, 0, 0}, types.QuatIdent(), types.Vec3{2, 2, 2})

	hit := IntersectBox(&box, New(types.Vec3{-3, 0, 0}, types.Vec3{1, 0, 0}))
	if !hit.Hit() {
		t.Fatal("expected ray to hit the transformed box")
	}
	if !floatsNear(hit.Distance, 3, 1e-3) {
		t.Fatalf("expected distance near 3; got %f", hit.Distance)
	}
	if !vec3Near(hit.Normal, types.Vec3{-1, 0, 0}, 1e-4) {
		t.Fatalf("expected normal (-1, 0, 0); got %v", hit.Normal)
	}
	if !hit.Outside {
		t.Fatal("expected outside=true")
	}
}

func TestBoxIdentityMatchesLocalFormulas(t *testing.T) {
	// With an identity transform the world-space result must reproduce the
	// local-space slab solution directly.
	box := unitGeom(BoxShape)
	r := New(types.Vec3{0.25, 0.1, -3}, types.Vec3{0, 0, 1})

	hit := IntersectBox(&box, r)
	if !hit.Hit() {
		t.Fatal("expected hit")
	}
	localT := float32(3 - 0.5)
	if !floatsNear(hit.Distance, localT-surfaceBias, 1e-4) {
		t.Fatalf("expected distance %f; got %f", localT-surfaceBias, hit.Distance)
	}
	if !vec3Near(hit.Point, r.PointAt(localT), 1e-5) {
		t.Fatalf("expected point %v; got %v", r.PointAt(localT), hit.Point)
	}
}
