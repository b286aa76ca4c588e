package scene

import (
	"bytes"
	"fmt"
	"reflect"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/rigeltrace/rigel/geom"
)

// A Scene contains the world geometry visible to the ray tracer together
// with the camera used to generate primary rays. Analytic primitives, raw
// triangle meshes and octree-accelerated meshes can coexist in the same
// scene; Intersect always reports the nearest hit across all of them.
type Scene struct {
	Geoms   []geom.Geom
	Meshes  []*geom.Mesh
	Octrees []*geom.Octree

	// The scene camera.
	Camera *Camera
}

func NewScene() *Scene {
	return &Scene{
		Camera: NewCamera(45),
	}
}

// Intersect tests the ray against every object in the scene and returns the
// intersection with the smallest world-space distance. If nothing is hit it
// returns geom.NoHit.
func (sc *Scene) Intersect(r geom.Ray) geom.Intersection {
	best := geom.NoHit

	for i := range sc.Geoms {
		if hit := sc.Geoms[i].Intersect(r); hit.Hit() && (!best.Hit() || hit.Distance < best.Distance) {
			best = hit
		}
	}
	for _, m := range sc.Meshes {
		if hit := m.Intersect(r); hit.Hit() && (!best.Hit() || hit.Distance < best.Distance) {
			best = hit
		}
	}
	for _, tree := range sc.Octrees {
		if hit := tree.Intersect(r); hit.Hit() && (!best.Hit() || hit.Distance < best.Distance) {
			best = hit
		}
	}

	return best
}

// TriangleCount returns the total number of triangles stored by the scene
// meshes and octrees. Octree leafs may store the same source triangle more
// than once.
func (sc *Scene) TriangleCount() int {
	var count int
	for _, m := range sc.Meshes {
		count += m.TriangleCount()
	}
	for _, tree := range sc.Octrees {
		count += len(tree.Triangles)
	}
	return count
}

// Build a tabular representation of scene statistics.
func (sc *Scene) Stats() string {
	var (
		octNodes, octTris  []interface{}
		totalNodeBytes     = make([]interface{}, 0, len(sc.Octrees)*3)
		meshVerts, meshIdx []interface{}
	)
	for _, tree := range sc.Octrees {
		octNodes = append(octNodes, tree.Nodes)
		octTris = append(octTris, tree.Triangles)
		totalNodeBytes = append(totalNodeBytes, tree.Nodes, tree.Triangles, tree.DataStarts)
	}
	for _, m := range sc.Meshes {
		meshVerts = append(meshVerts, m.Vertices)
		meshIdx = append(meshIdx, m.Indices)
	}

	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetAutoFormatHeaders(false)
	table.SetHeader([]string{"Asset Type", "Asset", "Size"})
	table.Append([]string{"Meshes", "---", fmtSize(append(meshVerts, meshIdx...)...)})
	table.Append([]string{"", "Vertices", fmtSize(meshVerts...)})
	table.Append([]string{"", "Indices", fmtSize(meshIdx...)})
	table.Append([]string{" ", " ", " "})
	table.Append([]string{"Octrees", "---", fmtSize(totalNodeBytes...)})
	table.Append([]string{"", "Nodes", fmtSize(octNodes...)})
	table.Append([]string{"", "Triangles", fmtSize(octTris...)})
	table.Append([]string{" ", " ", " "})
	table.Append([]string{"Primitives", "---", fmtSize(sc.Geoms)})
	table.SetFooter([]string{"Total", " ", strings.TrimLeft(fmtSize(append(append(totalNodeBytes, meshVerts...), append(meshIdx, sc.Geoms)...)...), " ")})

	table.Render()
	return buf.String()
}

// Sum the total space used by a set of slices and return back a formatted
// value with the appropriate byte/kb/mb unit.
func fmtSize(items ...interface{}) string {
	var totalBytes float32 = 0.0
	for _, item := range items {
		t := reflect.TypeOf(item)
		v := reflect.ValueOf(item)
		if v.Len() == 0 {
			continue
		}

		totalBytes += float32(int(t.Elem().Size()) * v.Len())
	}

	if totalBytes < 1e3 {
		return fmt.Sprintf("%3d bytes", int(totalBytes))
	} else if totalBytes < 1e6 {
		return fmt.Sprintf("%3.1f kb", totalBytes/1e3)
	}
	return fmt.Sprintf("%5.1f mb", totalBytes/1e6)
}
