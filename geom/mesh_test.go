package geom

import (
	"strings"
	"testing"

	"github.com/rigeltrace/rigel/types"
)

func singleTriangleMesh(t *testing.T, transform types.Mat4) *Mesh {
	t.Helper()
	mesh, err := NewMesh(transform,
		[]float32{
			0, 0, 0,
			1, 0, 0,
			0, 1, 0,
		},
		[]uint32{0, 1, 2},
	)
	if err != nil {
		t.Fatal(err)
	}
	return mesh
}

func TestMeshValidation(t *testing.T) {
	type spec struct {
		vertices []float32
		indices  []uint32
		expError string
	}
	specs := []spec{
		{[]float32{0, 0}, []uint32{}, "vertex array length 2 is not a multiple of 3"},
		{[]float32{0, 0, 0}, []uint32{0, 0}, "index array length 2 is not a multiple of 3"},
		{[]float32{0, 0, 0}, []uint32{0, 1, 0}, "index 1 at offset 1 exceeds vertex count 1"},
	}

	for index, s := range specs {
		_, err := NewMesh(types.Ident4(), s.vertices, s.indices)
		if err == nil || !strings.Contains(err.Error(), s.expError) {
			t.Fatalf("[spec %d] expected error containing %q; got %v", index, s.expError, err)
		}
	}
}

func TestMeshIntersectScenario(t *testing.T) {
	// Triangle (0,0,0), (1,0,0), (0,1,0); ray from (0.25, 0.25, -1) along +Z
	mesh := singleTriangleMesh(t, types.Ident4())
	hit := mesh.Intersect(New(types.Vec3{0.25, 0.25, -1}, types.Vec3{0, 0, 1}))

	if !hit.Hit() {
		t.Fatal("expected ray to hit the triangle")
	}
	// 1 minus the surface bias
	if !floatsNear(hit.Distance, 1-surfaceBias, 1e-4) {
		t.Fatalf("expected distance near %f; got %f", 1-surfaceBias, hit.Distance)
	}
	// With this winding the face normal points along +Z, away from the
	// incoming ray, so it is flipped and the hit reported as a back face.
	if !vec3Near(hit.Normal, types.Vec3{0, 0, -1}, 1e-4) {
		t.Fatalf("expected normal (0, 0, -1); got %v", hit.Normal)
	}
	if hit.Outside {
		t.Fatal("expected outside=false for a hit on the face pointing away")
	}
}

func TestMeshIntersectFrontFace(t *testing.T) {
	mesh := singleTriangleMesh(t, types.Ident4())
	hit := mesh.Intersect(New(types.Vec3{0.25, 0.25, 1}, types.Vec3{0, 0, -1}))

	if !hit.Hit() {
		t.Fatal("expected ray to hit the triangle")
	}
	if !vec3Near(hit.Normal, types.Vec3{0, 0, 1}, 1e-4) {
		t.Fatalf("expected normal (0, 0, 1); got %v", hit.Normal)
	}
	if !hit.Outside {
		t.Fatal("expected outside=true for a hit facing the ray")
	}
}

func TestMeshIntersectMiss(t *testing.T) {
	mesh := singleTriangleMesh(t, types.Ident4())

	misses := []Ray{
		New(types.Vec3{1, 1, -1}, types.Vec3{0, 0, 1}),        // outside the triangle
		New(types.Vec3{0.25, 0.25, 0}, types.Vec3{1, 0, 0}),   // parallel to the plane
		New(types.Vec3{0.25, 0.25, -1}, types.Vec3{0, 0, -1}), // pointing away
	}
	for index, r := range misses {
		if hit := mesh.Intersect(r); hit.Hit() {
			t.Fatalf("[ray %d] expected miss; got hit at distance %f", index, hit.Distance)
		}
	}
}

func TestMeshIntersectClosestTriangle(t *testing.T) {
	// Two parallel triangles at z=1 and z=2; the nearer one must win
	mesh, err := NewMesh(types.Ident4(),
		[]float32{
			0, 0, 1, 1, 0, 1, 0, 1, 1,
			0, 0, 2, 1, 0, 2, 0, 1, 2,
		},
		[]uint32{3, 4, 5, 0, 1, 2},
	)
	if err != nil {
		t.Fatal(err)
	}

	hit := mesh.Intersect(New(types.Vec3{0.25, 0.25, 0}, types.Vec3{0, 0, 1}))
	if !hit.Hit() {
		t.Fatal("expected hit")
	}
	if !floatsNear(hit.Distance, 1-surfaceBias, 1e-4) {
		t.Fatalf("expected the nearer triangle at distance %f; got %f", 1-surfaceBias, hit.Distance)
	}
}

func TestMeshIntersectTransformed(t *testing.T) {
	// Same triangle shifted 2 units along +Z
	mesh := singleTriangleMesh(t, types.Translate4(types.Vec3{0, 0, 2}))

	hit := mesh.Intersect(New(types.Vec3{0.25, 0.25, 0}, types.Vec3{0, 0, 1}))
	if !hit.Hit() {
		t.Fatal("expected hit on the translated mesh")
	}
	if !floatsNear(hit.Distance, 2-surfaceBias, 1e-3) {
		t.Fatalf("expected distance near 2; got %f", hit.Distance)
	}
	if !vec3Near(hit.Point, types.Vec3{0.25, 0.25, 2}, 1e-3) {
		t.Fatalf("expected hit point near (0.25, 0.25, 2); got %v", hit.Point)
	}
}

func TestTriangleOverlapsBox(t *testing.T) {
	tri := Triangle{
		V0: types.Vec3{0, 0, 0},
		V1: types.Vec3{1, 0, 0},
		V2: types.Vec3{0, 1, 0},
	}

	type spec struct {
		min, max   types.Vec3
		expOverlap bool
	}
	specs := []spec{
		// Box containing the triangle
		{types.Vec3{-1, -1, -1}, types.Vec3{2, 2, 2}, true},
		// Box far away
		{types.Vec3{5, 5, 5}, types.Vec3{6, 6, 6}, false},
		// Box clipping a corner
		{types.Vec3{-0.1, -0.1, -0.1}, types.Vec3{0.1, 0.1, 0.1}, true},
		// Box overlapping the triangle AABB but separated by the plane axis
		{types.Vec3{0.8, 0.8, -0.1}, types.Vec3{1.2, 1.2, 0.1}, false},
		// Box separated along Z only
		{types.Vec3{0, 0, 0.5}, types.Vec3{1, 1, 1}, false},
	}

	for index, s := range specs {
		if got := tri.OverlapsBox(s.min, s.max); got != s.expOverlap {
			t.Fatalf("[spec %d] expected overlap=%v; got %v", index, s.expOverlap, got)
		}
	}
}
