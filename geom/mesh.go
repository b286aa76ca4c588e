package geom

import (
	"fmt"

	"github.com/rigeltrace/rigel/types"
)

// Mesh is indexed triangle geometry: a flat array of vertex coordinates
// (3 floats per vertex) and a flat array of vertex indices (3 per triangle).
// World placement lives in the transform matrices, exactly as for Geom.
// Meshes are immutable after construction and safe for concurrent ray tests.
type Mesh struct {
	Transform    types.Mat4
	InvTransform types.Mat4
	InvTranspose types.Mat4

	Vertices []float32
	Indices  []uint32
}

// Create a mesh from flat vertex and index arrays. The arrays are validated
// here so the per-ray path can index them without bounds concerns: both
// lengths must be multiples of 3 and every index must address a vertex.
func NewMesh(transform types.Mat4, vertices []float32, indices []uint32) (*Mesh, error) {
	if len(vertices)%3 != 0 {
		return nil, fmt.Errorf("geom: vertex array length %d is not a multiple of 3", len(vertices))
	}
	if len(indices)%3 != 0 {
		return nil, fmt.Errorf("geom: index array length %d is not a multiple of 3", len(indices))
	}

	vertexCount := uint32(len(vertices) / 3)
	for offset, index := range indices {
		if index >= vertexCount {
			return nil, fmt.Errorf("geom: index %d at offset %d exceeds vertex count %d", index, offset, vertexCount)
		}
	}

	inv := transform.Inv()
	return &Mesh{
		Transform:    transform,
		InvTransform: inv,
		InvTranspose: inv.Transpose(),
		Vertices:     vertices,
		Indices:      indices,
	}, nil
}

// TriangleCount returns the number of indexed triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// Triangle resolves the i-th index triple into a self-contained triangle
// with local-space vertex positions.
func (m *Mesh) Triangle(i int) Triangle {
	return Triangle{
		V0: m.vertex(m.Indices[i*3]),
		V1: m.vertex(m.Indices[i*3+1]),
		V2: m.vertex(m.Indices[i*3+2]),
	}
}

func (m *Mesh) vertex(index uint32) types.Vec3 {
	return types.Vec3{
		m.Vertices[index*3],
		m.Vertices[index*3+1],
		m.Vertices[index*3+2],
	}
}

// Intersect tests the ray against every triangle in the mesh and keeps the
// closest hit, measured in local space from the local ray origin. Ties keep
// the first triangle encountered in index order, which makes repeated runs
// with identical rays select identical triangles.
func (m *Mesh) Intersect(r Ray) Intersection {
	q := r.transformed(m.InvTransform)

	var (
		best       float32 = -1
		bestPoint  types.Vec3
		bestNormal types.Vec3
	)

	for i := 0; i < len(m.Indices); i += 3 {
		tri := Triangle{
			V0: m.vertex(m.Indices[i]),
			V1: m.vertex(m.Indices[i+1]),
			V2: m.vertex(m.Indices[i+2]),
		}

		_, _, t, hit := intersectRayTriangle(q.Origin, q.Dir, tri.V0, tri.V1, tri.V2)
		if !hit || (best >= 0 && t >= best) {
			continue
		}

		best = t
		bestPoint = q.PointAt(t)
		bestNormal = tri.Normal()
	}

	if best < 0 {
		return NoHit
	}
	return finishLocalHit(m.Transform, m.InvTranspose, r, q, bestPoint, bestNormal)
}

// finishLocalHit maps a local-space hit back to world space. Unlike the box
// and sphere tests the outside flag is derived from facing: when the surface
// normal does not oppose the incoming local direction the normal is flipped
// and the hit is reported as a back-face hit (Outside=false).
func finishLocalHit(transform, invTranspose types.Mat4, r, q Ray, localPoint, localNormal types.Vec3) Intersection {
	point := TransformPoint(transform, localPoint)
	normal := TransformVec(invTranspose, localNormal).Normalize()

	outside := normal.Dot(q.Dir) < 0
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
