package main

import (
	"os"

	"github.com/rigeltrace/rigel/cmd"
	"github.com/urfave/cli"
)

func main() {
	cli.VersionFlag = cli.BoolFlag{
		Name:  "version",
		Usage: "print only the version",
	}

	app := cli.NewApp()
	app.Name = "rigel"
	app.Usage = "trace rays against obj scenes and render preview frames"
	app.Version = "0.0.1"
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "v",
			Usage: "enable verbose logging",
		},
		cli.BoolFlag{
			Name:  "vv",
			Usage: "enable even more verbose logging",
		},
	}

	octreeFlags := []cli.Flag{
		cli.IntFlag{
			Name:  "min-leaf-items",
			Value: 0,
			Usage: "stop subdividing octree cells below this triangle count (0 selects the default)",
		},
		cli.IntFlag{
			Name:  "max-depth",
			Value: 0,
			Usage: "maximum octree subdivision depth (0 selects the default)",
		},
	}

	app.Commands = []cli.Command{
		{
			Name:  "info",
			Usage: "display geometry and octree statistics for a scene",
			Description: `
Parse one or more wavefront obj files, build an octree for each mesh and
print size statistics for the resulting acceleration structures.`,
			ArgsUsage: "scene_file1.obj scene_file2.obj ...",
			Flags:     octreeFlags,
			Action:    cmd.SceneInfo,
		},
		{
			Name:        "render",
			Usage:       "render a preview frame of the scene",
			Description: `Render a single normal-shaded preview frame and save it as a PNG image.`,
			ArgsUsage:   "scene_file1.obj scene_file2.obj ...",
			Flags: append([]cli.Flag{
				cli.IntFlag{
					Name:  "width",
					Value: 512,
					Usage: "frame width",
				},
				cli.IntFlag{
					Name:  "height",
					Value: 512,
					Usage: "frame height",
				},
				cli.Float64Flag{
					Name:  "fov",
					Value: 45.0,
					Usage: "camera field of view in degrees",
				},
				cli.StringFlag{
					Name:  "eye",
					Value: "0,0,2",
					Usage: "camera position as x,y,z",
				},
				cli.StringFlag{
					Name:  "look",
					Value: "0,0,0",
					Usage: "camera look-at target as x,y,z",
				},
				cli.IntFlag{
					Name:  "workers",
					Value: 0,
					Usage: "number of render workers (0 selects the CPU count)",
				},
				cli.StringFlag{
					Name:  "out, o",
					Value: "frame.png",
					Usage: "image filename for the rendered frame",
				},
			}, octreeFlags...),
			Action: cmd.RenderFrame,
		},
	}

	app.Run(os.Args)
}
