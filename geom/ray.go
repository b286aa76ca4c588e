package geom

import "github.com/rigeltrace/rigel/types"

// Offset subtracted from the hit parameter before evaluating the hit point.
// It pulls reported hit points slightly towards the ray origin so that
// follow-up rays spawned at the hit do not re-intersect the same surface.
const surfaceBias = 1e-4

// A ray described by its origin and direction.
type Ray struct {
	Origin types.Vec3
	Dir    types.Vec3
}

// Create a new ray. The direction is normalized so that parameters measured
// along the ray correspond to euclidean distances.
func New(origin, dir types.Vec3) Ray {
	return Ray{
		Origin: origin,
		Dir:    dir.Normalize(),
	}
}

// Evaluate the ray at parameter t, pulled back by the surface bias.
func (r Ray) PointAt(t float32) types.Vec3 {
	return r.Origin.Add(r.Dir.Mul(t - surfaceBias))
}

// Map the ray into the space described by an inverse transform. The origin
// transforms as a point, the direction as a vector; the direction is
// re-normalized as the transform may scale it.
func (r Ray) transformed(inv types.Mat4) Ray {
	return Ray{
		Origin: TransformPoint(inv, r.Origin),
		Dir:    TransformVec(inv, r.Dir).Normalize(),
	}
}

// Apply a 4x4 transform to a point (w=1) and clip the result to 3 components.
func TransformPoint(m types.Mat4, p types.Vec3) types.Vec3 {
	return m.Mul4x1(p.Vec4(1)).Vec3()
}

// Apply a 4x4 transform to a direction (w=0); the translation part of the
// transform does not participate. Used for directions and normals.
func TransformVec(m types.Mat4, v types.Vec3) types.Vec3 {
	return m.Mul4x1(v.Vec4(0)).Vec3()
}
