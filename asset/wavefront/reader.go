// Package wavefront loads triangle geometry from Wavefront OBJ files. Only
// the vertex and face statements are interpreted; materials, normals and
// texture coordinates are skipped as shading is out of scope for this core.
package wavefront

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rigeltrace/rigel/asset"
	"github.com/rigeltrace/rigel/geom"
	"github.com/rigeltrace/rigel/log"
	"github.com/rigeltrace/rigel/types"
)

type reader struct {
	logger log.Logger

	// Flat vertex coordinates (3 per vertex) and triangle indices.
	vertices []float32
	indices  []uint32
}

// Read a mesh from a local path or http/https URL, placing it in the scene
// with the supplied local-to-world transform.
func ReadMesh(pathToMesh string, transform types.Mat4) (*geom.Mesh, error) {
	res, err := asset.NewResource(pathToMesh, nil)
	if err != nil {
		return nil, err
	}
	defer res.Close()

	return Decode(res, transform)
}

// Decode a mesh from an open resource.
func Decode(res *asset.Resource, transform types.Mat4) (*geom.Mesh, error) {
	r := &reader{
		logger: log.New("wavefront"),
	}

	start := time.Now()
	if err := r.parse(res); err != nil {
		return nil, err
	}
	r.logger.Infof("parsed %s in %d ms", res.Path(), time.Since(start).Nanoseconds()/1e6)

	mesh, err := geom.NewMesh(transform, r.vertices, r.indices)
	if err != nil {
		return nil, fmt.Errorf("wavefront: %s contains invalid geometry: %s", res.Path(), err)
	}
	if mesh.TriangleCount() == 0 {
		return nil, fmt.Errorf("wavefront: %s defines no faces", res.Path())
	}
	return mesh, nil
}

func (r *reader) parse(res *asset.Resource) error {
	scanner := bufio.NewScanner(res)

	var lineNum int
	for scanner.Scan() {
		lineNum++
		lineTokens := strings.Fields(scanner.Text())
		if len(lineTokens) == 0 || strings.HasPrefix(lineTokens[0], "#") {
			continue
		}

		var err error
		switch lineTokens[0] {
		case "v":
			err = r.parseVertex(lineTokens)
		case "f":
			err = r.parseFace(lineTokens)
		default:
			// vn/vt/usemtl/o/g/s and friends carry no geometry we need
			continue
		}
		if err != nil {
			return fmt.Errorf("wavefront: [%s: %d] %s", res.Path(), lineNum, err)
		}
	}
	return scanner.Err()
}

// Parse a "v x y z" statement. Additional components (w, vertex colors) are
// ignored.
func (r *reader) parseVertex(tokens []string) error {
	if len(tokens) < 4 {
		return fmt.Errorf("unsupported syntax for 'v'; expected at least 3 arguments; got %d", len(tokens)-1)
	}

	for _, token := range tokens[1:4] {
		coord, err := strconv.ParseFloat(token, 32)
		if err != nil {
			return fmt.Errorf("could not parse vertex coordinate '%s'", token)
		}
		r.vertices = append(r.vertices, float32(coord))
	}
	return nil
}

// Parse a "f v1 v2 v3 ..." statement. Faces with more than 3 vertices are
// triangulated as a fan around the first vertex. Each vertex reference may
// be any of the v, v/vt, v//vn or v/vt/vn forms; negative references count
// back from the most recently defined vertex.
func (r *reader) parseFace(tokens []string) error {
	refs := tokens[1:]
	if len(refs) < 3 {
		return fmt.Errorf("unsupported syntax for 'f'; expected at least 3 arguments; got %d", len(refs))
	}

	indices := make([]uint32, len(refs))
	for i, ref := range refs {
		vertexRef := strings.SplitN(ref, "/", 2)[0]
		index, err := strconv.ParseInt(vertexRef, 10, 32)
		if err != nil || index == 0 {
			return fmt.Errorf("could not parse vertex reference '%s'", ref)
		}

		vertexCount := int64(len(r.vertices) / 3)
		if index < 0 {
			index += vertexCount
		} else {
			index--
		}
		if index < 0 || index >= vertexCount {
			return fmt.Errorf("vertex reference '%s' is out of range", ref)
		}
		indices[i] = uint32(index)
	}

	for i := 1; i < len(indices)-1; i++ {
		r.indices = append(r.indices, indices[0], indices[i], indices[i+1])
	}
	return nil
}
