package geom

import (
	"fmt"

	"github.com/rigeltrace/rigel/types"
)

// Marks an absent child slot in an octree node.
const NoChild int32 = -1

// OctreeNode is either an internal node carrying up to 8 child indices or a
// leaf owning a contiguous range of the octree triangle array. The range of
// node i is [DataStarts[i], DataStarts[i+1]); internal nodes own an empty
// range.
type OctreeNode struct {
	Children [8]int32
	Leaf     bool
}

// Octree is a flattened spatial index over a triangle set. It is built once
// at scene-load time and never mutated afterwards, so ray tests may run
// against it concurrently without synchronization.
//
// Each node carries a world-space bounding box expressed as a box Geom; the
// traversal tests those boxes with the original world ray while triangles
// are tested with the ray mapped into the octree's local space.
type Octree struct {
	Transform    types.Mat4
	InvTransform types.Mat4
	InvTranspose types.Mat4

	Nodes      []OctreeNode
	Bounds     []Geom
	DataStarts []int32
	Triangles  []Triangle
	Root       int32

	// Longest root-to-leaf path measured in edges, recorded at build
	// time. The traversal stack capacity is derived from it.
	MaxDepth int
}

// StackBound returns the traversal stack capacity guaranteed sufficient by
// Validate: a DFS pop removes one entry and pushes at most 8 children, so
// the stack grows by at most 7 entries per tree level.
func (t *Octree) StackBound() int {
	return 7*t.MaxDepth + 8
}

// Validate checks the construction-time contract so the per-ray path can
// stay branch-light: table sizes, leaf/internal range ownership, child index
// bounds, single-parent reachability and the recorded depth bound. Builders
// must call this before publishing a tree; traversal does not re-verify.
func (t *Octree) Validate() error {
	nodeCount := len(t.Nodes)
	if nodeCount == 0 {
		return fmt.Errorf("geom: octree has no nodes")
	}
	if t.Root < 0 || int(t.Root) >= nodeCount {
		return fmt.Errorf("geom: octree root %d out of range [0, %d)", t.Root, nodeCount)
	}
	if len(t.Bounds) != nodeCount {
		return fmt.Errorf("geom: octree has %d bounding boxes for %d nodes", len(t.Bounds), nodeCount)
	}
	if len(t.DataStarts) != nodeCount+1 {
		return fmt.Errorf("geom: octree data range table has %d entries; want %d", len(t.DataStarts), nodeCount+1)
	}
	if t.DataStarts[0] != 0 || int(t.DataStarts[nodeCount]) != len(t.Triangles) {
		return fmt.Errorf("geom: octree data ranges do not cover the triangle array")
	}
	for i := 0; i < nodeCount; i++ {
		if t.DataStarts[i] > t.DataStarts[i+1] {
			return fmt.Errorf("geom: octree data range of node %d is decreasing", i)
		}
	}

	type frame struct {
		node  int32
		depth int
	}

	visited := make([]bool, nodeCount)
	maxDepth := 0
	stack := []frame{{node: t.Root, depth: 0}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if visited[f.node] {
			return fmt.Errorf("geom: octree node %d has more than one parent", f.node)
		}
		visited[f.node] = true
		if f.depth > maxDepth {
			maxDepth = f.depth
		}

		node := &t.Nodes[f.node]
		start, end := t.DataStarts[f.node], t.DataStarts[f.node+1]

		if node.Leaf {
			if start >= end {
				return fmt.Errorf("geom: octree leaf %d owns an empty triangle range", f.node)
			}
			continue
		}

		if start != end {
			return fmt.Errorf("geom: octree internal node %d owns triangles directly", f.node)
		}
		childCount := 0
		for _, child := range node.Children {
			if child == NoChild {
				continue
			}
			if child < 0 || int(child) >= nodeCount {
				return fmt.Errorf("geom: octree node %d references child %d out of range", f.node, child)
			}
			stack = append(stack, frame{node: child, depth: f.depth + 1})
			childCount++
		}
		if childCount == 0 {
			return fmt.Errorf("geom: octree internal node %d has no children", f.node)
		}
	}

	for i, seen := range visited {
		if !seen {
			return fmt.Errorf("geom: octree node %d is unreachable from the root", i)
		}
	}
	if maxDepth > t.MaxDepth {
		return fmt.Errorf("geom: octree depth %d exceeds the recorded bound %d", maxDepth, t.MaxDepth)
	}
	return nil
}

// Intersect walks the tree depth-first with an explicit stack, testing node
// bounding boxes with the original world ray and pruning every subtree whose
// box is missed. Leaf triangles run the same inline test as the brute-force
// mesh path, tracking the globally closest hit by local-space distance with
// first-encountered tie breaking.
//
// Subtrees whose box entry distance exceeds the current best hit distance
// are skipped as well; both distances are world space, so the comparison is
// valid under arbitrary node transforms. The skip only applies when the box
// test reports Outside=true: for a box containing the ray origin the
// reported distance is the exit point, which bounds nothing from below.
func (t *Octree) Intersect(r Ray) Intersection {
	q := r.transformed(t.InvTransform)

	var (
		best       float32 = -1
		bestWorld  float32
		bestPoint  types.Vec3
		bestNormal types.Vec3
	)

	stack := make([]int32, 0, t.StackBound())
	stack = append(stack, t.Root)
	for len(stack) > 0 {
		nodeIndex := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		boxHit := IntersectBox(&t.Bounds[nodeIndex], r)
		if !boxHit.Hit() {
			continue
		}
		if best >= 0 && boxHit.Outside && boxHit.Distance-2*surfaceBias > bestWorld {
			continue
		}

		node := &t.Nodes[nodeIndex]
		if !node.Leaf {
			for _, child := range node.Children {
				if child != NoChild {
					stack = append(stack, child)
				}
			}
			continue
		}

		for i := t.DataStarts[nodeIndex]; i < t.DataStarts[nodeIndex+1]; i++ {
			tri := &t.Triangles[i]

			_, _, tt, hit := intersectRayTriangle(q.Origin, q.Dir, tri.V0, tri.V1, tri.V2)
			if !hit || (best >= 0 && tt >= best) {
				continue
			}

			best = tt
			bestPoint = q.PointAt(tt)
			bestNormal = tri.Normal()
			bestWorld = r.Origin.Sub(TransformPoint(t.Transform, bestPoint)).Len()
		}
	}

	if best < 0 {
		return NoHit
	}
	return finishLocalHit(t.Transform, t.InvTranspose, r, q, bestPoint, bestNormal)
}
