package geom

import "github.com/rigeltrace/rigel/types"

// Intersection is the result of a ray test. A negative distance signals a
// miss; the remaining fields are only meaningful for hits.
type Intersection struct {
	// Distance from the ray origin to the world-space hit point.
	Distance float32

	// The world-space hit point and surface normal at the hit.
	Point  types.Vec3
	Normal types.Vec3

	// For box and sphere tests: whether the ray origin lies outside the
	// shape. For mesh and octree tests: whether the hit surface faces the
	// incoming ray.
	Outside bool
}

// The value returned when a ray misses.
var NoHit = Intersection{Distance: -1}

// Hit reports whether the intersection describes an actual surface hit.
func (it Intersection) Hit() bool {
	return it.Distance >= 0
}
