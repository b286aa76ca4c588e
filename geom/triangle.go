package geom

import "github.com/rigeltrace/rigel/types"

// Determinant threshold below which a ray is treated as parallel to the
// triangle plane.
const triEpsilon = 1e-7

// Triangle carries its three vertex positions inline. Octree leaves store
// triangles in this form so traversal never dereferences back into the
// source mesh vertex/index arrays.
type Triangle struct {
	V0 types.Vec3
	V1 types.Vec3
	V2 types.Vec3
}

// The triangle plane normal: the normalized cross product of the two edge
// vectors. Flat per-face shading; winding decides the sign.
func (tr Triangle) Normal() types.Vec3 {
	return tr.V1.Sub(tr.V0).Cross(tr.V2.Sub(tr.V0)).Normalize()
}

// The triangle axis-aligned bounding box.
func (tr Triangle) BBox() [2]types.Vec3 {
	return [2]types.Vec3{
		types.MinVec3(tr.V0, types.MinVec3(tr.V1, tr.V2)),
		types.MaxVec3(tr.V0, types.MaxVec3(tr.V1, tr.V2)),
	}
}

// The triangle centroid.
func (tr Triangle) Center() types.Vec3 {
	return tr.V0.Add(tr.V1).Add(tr.V2).Mul(1.0 / 3.0)
}

// Run the Moller-Trumbore intersection test against a local-space ray. On a
// hit the barycentric u/v weights and the ray parameter t are reported.
// Back-facing triangles are not culled; t must be strictly positive.
func intersectRayTriangle(ro, rd, v0, v1, v2 types.Vec3) (u, v, t float32, hit bool) {
	e1 := v1.Sub(v0)
	e2 := v2.Sub(v0)

	p := rd.Cross(e2)
	det := e1.Dot(p)
	if det > -triEpsilon && det < triEpsilon {
		return 0, 0, 0, false
	}
	invDet := 1.0 / det

	s := ro.Sub(v0)
	u = s.Dot(p) * invDet
	if u < 0 || u > 1 {
		return 0, 0, 0, false
	}

	q := s.Cross(e1)
	v = rd.Dot(q) * invDet
	if v < 0 || u+v > 1 {
		return 0, 0, 0, false
	}

	t = e2.Dot(q) * invDet
	if t <= 0 {
		return 0, 0, 0, false
	}
	return u, v, t, true
}

// OverlapsBox reports whether the triangle intersects the axis-aligned box
// [min, max] using the separating axis theorem: the box face normals, the
// triangle plane normal and the nine face/edge cross products are tried in
// turn until one separates the two shapes.
func (tr Triangle) OverlapsBox(min, max types.Vec3) bool {
	center := min.Add(max).Mul(0.5)
	half := max.Sub(min).Mul(0.5)

	v0 := tr.V0.Sub(center)
	v1 := tr.V1.Sub(center)
	v2 := tr.V2.Sub(center)

	f0 := v1.Sub(v0)
	f1 := v2.Sub(v1)
	f2 := v0.Sub(v2)

	axes := [13]types.Vec3{
		{1, 0, 0},
		{0, 1, 0},
		{0, 0, 1},
		f0.Cross(f1),
		{0, -f0[2], f0[1]},
		{0, -f1[2], f1[1]},
		{0, -f2[2], f2[1]},
		{f0[2], 0, -f0[0]},
		{f1[2], 0, -f1[0]},
		{f2[2], 0, -f2[0]},
		{-f0[1], f0[0], 0},
		{-f1[1], f1[0], 0},
		{-f2[1], f2[0], 0},
	}

	for _, axis := range axes {
		if separatingAxis(axis, v0, v1, v2, half) {
			return false
		}
	}
	return true
}

// separatingAxis reports whether the projections of the triangle and the
// origin-centered box with the given half extents are disjoint along axis.
func separatingAxis(axis, v0, v1, v2, half types.Vec3) bool {
	p0 := v0.Dot(axis)
	p1 := v1.Dot(axis)
	p2 := v2.Dot(axis)

	minP, maxP := p0, p0
	if p1 < minP {
		minP = p1
	}
	if p1 > maxP {
		maxP = p1
	}
	if p2 < minP {
		minP = p2
	}
	if p2 > maxP {
		maxP = p2
	}

	radius := half[0]*abs32(axis[0]) + half[1]*abs32(axis[1]) + half[2]*abs32(axis[2])
	return minP > radius || maxP < -radius
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
