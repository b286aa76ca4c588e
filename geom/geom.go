package geom

import "github.com/rigeltrace/rigel/types"

type Shape uint32

const (
	BoxShape Shape = iota
	SphereShape
)

// Geom places a canonical unit shape in the scene. In local space the box
// spans [-0.5, 0.5] on each axis and the sphere has radius 0.5, both centered
// at the origin; the world placement lives entirely in the transform
// matrices. Geoms are immutable once constructed and safe to share between
// concurrent ray tests.
type Geom struct {
	Shape Shape

	Transform    types.Mat4
	InvTransform types.Mat4
	InvTranspose types.Mat4
}

// Create a geom by positioning the canonical shape with a translation, a
// rotation and a per-axis scale.
func NewGeom(shape Shape, translate types.Vec3, rotate types.Quat, scale types.Vec3) Geom {
	m := types.Translate4(translate).Mul4(rotate.Mat4()).Mul4(types.Scale4(scale))
	return NewGeomFromTransform(shape, m)
}

// Create a geom from an explicit local-to-world transform. The inverse and
// inverse-transpose are derived once up front so the per-ray path never
// inverts a matrix.
func NewGeomFromTransform(shape Shape, transform types.Mat4) Geom {
	inv := transform.Inv()
	return Geom{
		Shape:        shape,
		Transform:    transform,
		InvTransform: inv,
		InvTranspose: inv.Transpose(),
	}
}

// Intersect dispatches the ray to the canonical shape test.
func (g *Geom) Intersect(r Ray) Intersection {
	if g.Shape == SphereShape {
		return IntersectSphere(g, r)
	}
	return IntersectBox(g, r)
}
