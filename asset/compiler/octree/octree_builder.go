// Package octree compiles a triangle mesh into the flattened octree layout
// consumed by the ray traversal code.
package octree

import (
	"fmt"
	"time"

	"github.com/rigeltrace/rigel/geom"
	"github.com/rigeltrace/rigel/log"
	"github.com/rigeltrace/rigel/types"
)

const (
	// Subdivision stops once a cell holds this many triangles or fewer.
	DefaultMinLeafItems = 8

	// Hard ceiling on subdivision depth. Together with the recorded actual
	// depth this bounds the traversal stack at build time.
	DefaultMaxDepth = 8

	// Node bounding boxes are padded by this fraction of their longest side
	// so triangles lying exactly on a box face still pass the slab test.
	bboxPad float32 = 1e-3

	// Floor for bounding box side lengths. Keeps perfectly flat geometry
	// from producing non-invertible box transforms.
	minSideLength float32 = 1e-3
)

// Build options.
type Options struct {
	// Minimum number of triangles required before a cell is subdivided.
	// Values < 1 select DefaultMinLeafItems.
	MinLeafItems int

	// Maximum subdivision depth. Values < 1 select DefaultMaxDepth.
	MaxDepth int
}

type stats struct {
	nodes           int
	leafs           int
	storedTriangles int
	maxDepth        int
}

type builder struct {
	logger log.Logger
	opts   Options

	// The flattened tree under construction. Node bounding boxes are kept
	// in mesh local space and converted to world-space box geoms once the
	// partitioning is done.
	nodes      []geom.OctreeNode
	nodeBounds [][2]types.Vec3
	dataStarts []int32
	triangles  []geom.Triangle

	stats stats
}

// Construct an octree over the triangles of a mesh. Triangles are assigned
// to every spatial cell they overlap, so a triangle spanning a cell boundary
// is copied into each overlapping leaf; node bounding boxes are grown to
// enclose their assigned triangles, which keeps the leaf containment
// contract intact for spanning triangles.
//
// The returned tree is validated before it is published: a tree that fails
// its depth or range invariants is reported here as a build error rather
// than surfacing as a fault during rendering.
func Build(mesh *geom.Mesh, opts Options) (*geom.Octree, error) {
	if opts.MinLeafItems < 1 {
		opts.MinLeafItems = DefaultMinLeafItems
	}
	if opts.MaxDepth < 1 {
		opts.MaxDepth = DefaultMaxDepth
	}

	triCount := mesh.TriangleCount()
	if triCount == 0 {
		return nil, fmt.Errorf("octree: mesh contains no triangles")
	}

	workList := make([]geom.Triangle, triCount)
	for i := 0; i < triCount; i++ {
		workList[i] = mesh.Triangle(i)
	}

	b := &builder{
		logger: log.New("octree"),
		opts:   opts,
	}

	start := time.Now()
	rootCell := boundsOf(workList)
	root := b.partition(workList, rootCell, 0)
	b.dataStarts = append(b.dataStarts, int32(len(b.triangles)))

	tree := &geom.Octree{
		Transform:    mesh.Transform,
		InvTransform: mesh.InvTransform,
		InvTranspose: mesh.InvTranspose,
		Nodes:        b.nodes,
		Bounds:       make([]geom.Geom, len(b.nodes)),
		DataStarts:   b.dataStarts,
		Triangles:    b.triangles,
		Root:         root,
		MaxDepth:     b.stats.maxDepth,
	}
	for i, bounds := range b.nodeBounds {
		tree.Bounds[i] = cellGeom(mesh.Transform, bounds)
	}

	if err := tree.Validate(); err != nil {
		return nil, fmt.Errorf("octree: built tree failed validation: %s", err)
	}

	b.logger.Debugf(
		"octree build time: %d ms, maxDepth: %d, nodes: %d, leafs: %d, stored triangles: %d (%d source)",
		time.Since(start).Nanoseconds()/1e6,
		b.stats.maxDepth, b.stats.nodes, b.stats.leafs, b.stats.storedTriangles, triCount,
	)
	return tree, nil
}

// Partition a work list within a spatial cell and return the node index.
func (b *builder) partition(workList []geom.Triangle, cell [2]types.Vec3, depth int) int32 {
	if depth > b.stats.maxDepth {
		b.stats.maxDepth = depth
	}

	bounds := boundsOf(workList)

	if len(workList) <= b.opts.MinLeafItems || depth >= b.opts.MaxDepth {
		return b.createLeaf(bounds, workList)
	}

	// Split the cell into its 8 octants and hand each triangle to every
	// octant it overlaps.
	center := cell[0].Add(cell[1]).Mul(0.5)
	var childLists [8][]geom.Triangle
	var childCells [8][2]types.Vec3
	for oct := 0; oct < 8; oct++ {
		childCells[oct] = octantCell(cell, center, oct)
	}
	for _, tri := range workList {
		for oct := 0; oct < 8; oct++ {
			if tri.OverlapsBox(childCells[oct][0], childCells[oct][1]) {
				childLists[oct] = append(childLists[oct], tri)
			}
		}
	}

	// Subdivision that cannot separate the work list buys nothing but
	// duplicated triangles; collapse to a leaf instead.
	separated := false
	for oct := 0; oct < 8; oct++ {
		if len(childLists[oct]) > 0 && len(childLists[oct]) < len(workList) {
			separated = true
			break
		}
	}
	if !separated {
		return b.createLeaf(bounds, workList)
	}

	nodeIndex := b.appendNode(false, bounds)
	for oct := 0; oct < 8; oct++ {
		if len(childLists[oct]) == 0 {
			continue
		}
		childIndex := b.partition(childLists[oct], childCells[oct], depth+1)
		b.nodes[nodeIndex].Children[oct] = childIndex
	}
	return nodeIndex
}

// Set up a leaf owning a copy of every triangle in the work list.
func (b *builder) createLeaf(bounds [2]types.Vec3, workList []geom.Triangle) int32 {
	index := b.appendNode(true, bounds)
	b.triangles = append(b.triangles, workList...)

	b.stats.leafs++
	b.stats.storedTriangles += len(workList)
	return index
}

// Append a node to the flat table, recording the start of its triangle
// range. Nodes are appended before their children, so the ranges written
// here are consecutive and cover the triangle array exactly once.
func (b *builder) appendNode(leaf bool, bounds [2]types.Vec3) int32 {
	index := int32(len(b.nodes))

	node := geom.OctreeNode{Leaf: leaf}
	for i := range node.Children {
		node.Children[i] = geom.NoChild
	}
	b.nodes = append(b.nodes, node)
	b.nodeBounds = append(b.nodeBounds, bounds)
	b.dataStarts = append(b.dataStarts, int32(len(b.triangles)))

	b.stats.nodes++
	return index
}

// Calculate the AABB enclosing a set of triangles.
func boundsOf(workList []geom.Triangle) [2]types.Vec3 {
	bounds := workList[0].BBox()
	for _, tri := range workList[1:] {
		triBounds := tri.BBox()
		bounds[0] = types.MinVec3(bounds[0], triBounds[0])
		bounds[1] = types.MaxVec3(bounds[1], triBounds[1])
	}
	return bounds
}

// Calculate the AABB of one of the 8 octants of a cell. Bit 0 of oct selects
// the X half, bit 1 the Y half, bit 2 the Z half.
func octantCell(cell [2]types.Vec3, center types.Vec3, oct int) [2]types.Vec3 {
	out := [2]types.Vec3{cell[0], center}
	for axis := 0; axis < 3; axis++ {
		if oct&(1<<axis) != 0 {
			out[0][axis] = center[axis]
			out[1][axis] = cell[1][axis]
		}
	}
	return out
}

// Convert a local-space AABB into a world-space box geom by scaling and
// translating the canonical unit box, then applying the mesh transform.
func cellGeom(meshTransform types.Mat4, bounds [2]types.Vec3) geom.Geom {
	center := bounds[0].Add(bounds[1]).Mul(0.5)
	side := bounds[1].Sub(bounds[0])

	pad := side[0]
	if side[1] > pad {
		pad = side[1]
	}
	if side[2] > pad {
		pad = side[2]
	}
	pad *= bboxPad

	for axis := 0; axis < 3; axis++ {
		side[axis] += 2 * pad
		if side[axis] < minSideLength {
			side[axis] = minSideLength
		}
	}

	m := meshTransform.Mul4(types.Translate4(center)).Mul4(types.Scale4(side))
	return geom.NewGeomFromTransform(geom.BoxShape, m)
}
