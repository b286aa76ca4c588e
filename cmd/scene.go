package cmd

import (
	"fmt"
	"strings"

	"github.com/rigeltrace/rigel/asset/compiler/octree"
	"github.com/rigeltrace/rigel/asset/wavefront"
	"github.com/rigeltrace/rigel/scene"
	"github.com/rigeltrace/rigel/types"
	"github.com/urfave/cli"
)

// Load the wavefront obj files passed as command arguments, build an octree
// for each mesh and assemble a scene around them.
func loadScene(ctx *cli.Context) (*scene.Scene, error) {
	if ctx.NArg() == 0 {
		return nil, fmt.Errorf("missing scene file argument")
	}

	opts := octree.Options{
		MinLeafItems: ctx.Int("min-leaf-items"),
		MaxDepth:     ctx.Int("max-depth"),
	}

	sc := scene.NewScene()
	for idx := 0; idx < ctx.NArg(); idx++ {
		sceneFile := ctx.Args().Get(idx)
		if !strings.HasSuffix(sceneFile, ".obj") {
			logger.Warningf("skipping unsupported file %s", sceneFile)
			continue
		}

		logger.Noticef("parsing scene file: %s", sceneFile)
		mesh, err := wavefront.ReadMesh(sceneFile, types.Ident4())
		if err != nil {
			return nil, err
		}

		tree, err := octree.Build(mesh, opts)
		if err != nil {
			return nil, err
		}
		sc.Octrees = append(sc.Octrees, tree)
	}

	if len(sc.Octrees) == 0 {
		return nil, fmt.Errorf("no .obj files in argument list")
	}
	return sc, nil
}

// Parse a comma-separated "x,y,z" triplet.
func parseVec3(val string) (types.Vec3, error) {
	var v types.Vec3
	if _, err := fmt.Sscanf(val, "%f,%f,%f", &v[0], &v[1], &v[2]); err != nil {
		return types.Vec3{}, fmt.Errorf("invalid vector %q; expected x,y,z", val)
	}
	return v, nil
}

// Display information about the scene defined by a set of obj files.
func SceneInfo(ctx *cli.Context) error {
	setupLogging(ctx)

	sc, err := loadScene(ctx)
	if err != nil {
		return err
	}

	for idx, tree := range sc.Octrees {
		logger.Noticef(
			"octree %d: %d nodes, max depth %d, %d stored triangles",
			idx, len(tree.Nodes), tree.MaxDepth, len(tree.Triangles),
		)
	}
	logger.Noticef("scene information:\n%s", sc.Stats())

	return nil
}
