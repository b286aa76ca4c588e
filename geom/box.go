package geom

import (
	"math"

	"github.com/rigeltrace/rigel/types"
)

// Test a ray against a transformed box using the slab method. The ray is
// mapped into the box's local space where the box spans [-0.5, 0.5] on each
// axis: for every axis the two slab boundary parameters are intersected into
// a running [tmin, tmax] interval, remembering which axis produced each
// bound as the candidate face normal.
//
// A hit exists iff tmax >= tmin and tmax > 0. When tmin <= 0 the ray origin
// is inside the box; the far intersection is reported with Outside=false.
func IntersectBox(box *Geom, r Ray) Intersection {
	q := r.transformed(box.InvTransform)

	var (
		tmin  float32 = -math.MaxFloat32
		tmax  float32 = math.MaxFloat32
		tminN types.Vec3
		tmaxN types.Vec3
	)

	for axis := 0; axis < 3; axis++ {
		t1 := (-0.5 - q.Origin[axis]) / q.Dir[axis]
		t2 := (0.5 - q.Origin[axis]) / q.Dir[axis]

		ta, tb := t1, t2
		if tb < ta {
			ta, tb = tb, ta
		}

		var n types.Vec3
		if t2 < t1 {
			n[axis] = 1
		} else {
			n[axis] = -1
		}

		if ta > 0 && ta > tmin {
			tmin = ta
			tminN = n
		}
		if tb < tmax {
			tmax = tb
			tmaxN = n
		}
	}

	if tmax < tmin || tmax <= 0 {
		return NoHit
	}

	outside := true
	if tmin <= 0 {
		tmin = tmax
		tminN = tmaxN
		outside = false
	}

	point := TransformPoint(box.Transform, q.PointAt(tmin))
	normal := TransformVec(box.InvTranspose, tminN).Normalize()

	return Intersection{
		Distance: r.Origin.Sub(point).Len(),
		Point:    point,
		Normal:   normal,
		Outside:  outside,
	}
}
