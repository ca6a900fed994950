package main

import (
	"os"
	"strings"

	"github.com/Jacobs-University/eyden-tracer-03/bsp"
	"github.com/Jacobs-University/eyden-tracer-03/cmd"
	"github.com/Jacobs-University/eyden-tracer-03/log"
	"github.com/Jacobs-University/eyden-tracer-03/scene"
	"github.com/urfave/cli"
)

var materialFlag = cli.StringFlag{
	Name:  "material",
	Value: scene.EyelightMaterial.String(),
	Usage: "material type (flat or eyelight) for shapes loaded from wavefront obj files",
}

// Flags shared by all commands that build a BSP tree.
var treeFlags = []cli.Flag{
	materialFlag,
	cli.IntFlag{
		Name:  "max-depth",
		Value: bsp.DefaultMaxDepth,
		Usage: "maximum BSP tree depth",
	},
	cli.IntFlag{
		Name:  "min-prims",
		Value: bsp.DefaultMinPrimitives,
		Usage: "nodes with this many primitives or less become leafs",
	},
	cli.StringFlag{
		Name:  "split",
		Value: bsp.SplitMidpoint.String(),
		Usage: "split plane selection policy (midpoint or median)",
	},
	cli.StringFlag{
		Name:  "demo",
		Usage: "use a built-in demo scene (" + strings.Join(scene.DemoScenes(), ", ") + ") instead of a scene file",
	},
}

func main() {
	cli.VersionFlag = cli.BoolFlag{
		Name:  "version",
		Usage: "print only the version",
	}

	app := cli.NewApp()
	app.Name = "eyden-tracer"
	app.Usage = "ray trace scenes using a BSP tree for ray intersection queries"
	app.Version = "0.3.0"
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "v",
			Usage: "enable verbose logging",
		},
		cli.BoolFlag{
			Name:  "vv",
			Usage: "enable even more verbose logging",
		},
		cli.StringFlag{
			Name:  "log-level",
			Usage: "comma separated log levels (debug, info, notice, warning, error), optionally per module (e.g. notice,bsp=debug)",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:  "render",
			Usage: "render a single frame",
			Description: `
Load a wavefront obj file, a compiled scene or a built-in demo scene, build a
BSP tree over its shapes and render a frame using a pool of CPU tracers.

The frame is written as png, bmp or tiff depending on the output extension.`,
			ArgsUsage: "[scene_file]",
			Flags: append([]cli.Flag{
				cli.IntFlag{
					Name:  "width",
					Value: 800,
					Usage: "frame width",
				},
				cli.IntFlag{
					Name:  "height",
					Value: 600,
					Usage: "frame height",
				},
				cli.IntFlag{
					Name:  "workers, w",
					Usage: "number of CPU tracers (0 = one per CPU)",
				},
				cli.BoolFlag{
					Name:  "brute-force",
					Usage: "skip the BSP tree and test every ray against every shape",
				},
				cli.StringFlag{
					Name:  "scheduler",
					Value: "naive",
					Usage: "block scheduler (naive or perfect)",
				},
				cli.IntFlag{
					Name:  "frames",
					Value: 1,
					Usage: "number of frames to render; only the last one is saved",
				},
				cli.StringFlag{
					Name:  "out, o",
					Value: "frame.png",
					Usage: "image filename for the rendered frame",
				},
			}, treeFlags...),
			Action: cmd.RenderFrame,
		},
		{
			Name:  "compile",
			Usage: "compile text scene representation into a binary compressed format",
			Description: `
Parse a scene definition from a wavefront obj file and write its shapes,
materials and camera to a compressed file which can be supplied as an
argument to the render command.`,
			ArgsUsage: "scene_file1.obj scene_file2.obj ...",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "format, f",
					Value: "zstd",
					Usage: "compression format (zstd or snappy)",
				},
				materialFlag,
			},
			Action: cmd.CompileScene,
		},
		{
			Name:      "info",
			Usage:     "build the BSP tree for a scene and print its statistics",
			ArgsUsage: "[scene_file]",
			Flags:     treeFlags,
			Action:    cmd.ShowSceneInfo,
		},
		{
			Name:  "bench",
			Usage: "compare BSP tree and brute-force ray intersection",
			Description: `
Trace primary rays through random pixels using both the BSP tree and a
brute-force scan over all shapes. The command fails if the two disagree on
any ray.`,
			ArgsUsage: "[scene_file]",
			Flags: append([]cli.Flag{
				cli.IntFlag{
					Name:  "rays",
					Value: 100000,
					Usage: "number of rays to trace",
				},
				cli.Int64Flag{
					Name:  "seed",
					Value: 1,
					Usage: "random seed for selecting pixels",
				},
				cli.IntFlag{
					Name:  "width",
					Value: 800,
					Usage: "frame width",
				},
				cli.IntFlag{
					Name:  "height",
					Value: 600,
					Usage: "frame height",
				},
			}, treeFlags...),
			Action: cmd.BenchIntersectors,
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.New(app.Name).Error(err)
		os.Exit(1)
	}
}
