package geom

import "math"

// Test a ray against a transformed sphere. The ray is mapped into the
// sphere's local space where the sphere has radius 0.5 and is centered at
// the origin, reducing the test to the quadratic |ro + t*rd|^2 = r^2.
//
// With both roots positive the origin is outside and the nearer root is the
// hit; with mixed signs the origin is inside, the positive root is the exit
// point and the reported normal is reversed so it still faces the ray.
func IntersectSphere(sphere *Geom, r Ray) Intersection {
	const radius = 0.5

	q := r.transformed(sphere.InvTransform)

	b := q.Origin.Dot(q.Dir)
	radicand := b*b - (q.Origin.Dot(q.Origin) - radius*radius)
	if radicand < 0 {
		return NoHit
	}

	root := float32(math.Sqrt(float64(radicand)))
	t1 := -b + root
	t2 := -b - root

	var t float32
	outside := true
	switch {
	case t1 < 0 && t2 < 0:
		return NoHit
	case t1 > 0 && t2 > 0:
		t = t1
		if t2 < t1 {
			t = t2
		}
	default:
		t = t1
		if t2 > t1 {
			t = t2
		}
		outside = false
	}

	local := q.PointAt(t)
	point := TransformPoint(sphere.Transform, local)
	normal := TransformVec(sphere.InvTranspose, local).Normalize()
	if !outside {
		normal = normal.Neg()
	}

	return Intersection{
		Distance: r.Origin.Sub(point).Len(),
		Point:    point,
		Normal:   normal,
		Outside:  outside,
	}
}
