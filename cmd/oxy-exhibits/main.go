package main

import (
	"os"

	"github.com/urfave/cli"
)

func main() {
	app := newApp()
	if err := app.Run(os.Args); err != nil {
		logger.Errorf("%v", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	cli.VersionFlag = cli.BoolFlag{
		Name:  "version",
		Usage: "print only the version",
	}

	app := cli.NewApp()
	app.Name = "oxy-exhibits"
	app.Usage = "walk through a gallery of shader exhibits rendered with chained passes"
	app.Version = "0.1.0"
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
	app.Commands = []cli.Command{
		{
			Name:  "run",
			Usage: "open the window and run the scene",
			Description: `
Open a window and render the exhibit hall. Hold the right mouse button to look around,
W/A/S/D/Q/E to move, 1-9 to jump to a camera preset, R to reset the camera and F1-F8
to switch exhibits on and off. B, N and O toggle the bead's specular and diffuse terms
and the cloud obstacle.`,
			Flags: []cli.Flag{
				configFlag,
				cli.IntFlag{
					Name:  "width",
					Usage: "window width, overrides the config",
				},
				cli.IntFlag{
					Name:  "height",
					Usage: "window height, overrides the config",
				},
				cli.BoolFlag{
					Name:  "vsync",
					Usage: "present on vertical sync, overrides the config (--vsync=false to uncap)",
				},
				cli.BoolFlag{
					Name:  "profile",
					Usage: "log frame rate, passes per frame and memory once per second",
				},
				cli.BoolFlag{
					Name:  "software",
					Usage: "render on the CPU fallback adapter (needs lavapipe or SwiftShader)",
				},
				cli.Float64Flag{
					Name:  "frame-limit",
					Usage: "cap the render loop at this many frames per second (0 = uncapped)",
				},
			},
			Action: runScene,
		},
		{
			Name:        "order",
			Usage:       "print the exhibit draw order for a camera position",
			Description: `Sort the exhibits farthest first from the given position without opening a window.`,
			Flags: []cli.Flag{
				configFlag,
				cli.Float64Flag{
					Name:  "x",
					Usage: "camera x, defaults to the config start position",
				},
				cli.Float64Flag{
					Name:  "y",
					Usage: "camera y, defaults to the config start position",
				},
				cli.Float64Flag{
					Name:  "z",
					Usage: "camera z, defaults to the config start position",
				},
			},
			Action: printOrder,
		},
		{
			Name:   "config",
			Usage:  "print the effective configuration as TOML",
			Flags:  []cli.Flag{configFlag},
			Action: printConfig,
		},
	}
	return app
}
