package main

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-exhibits/engine"
	"github.com/Carmen-Shannon/oxy-exhibits/engine/config"
	"github.com/Carmen-Shannon/oxy-exhibits/engine/frame"
	"github.com/Carmen-Shannon/oxy-exhibits/engine/renderer"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"
)

var configFlag = cli.StringFlag{
	Name:  "config, c",
	Usage: "load a .toml or .yaml config layered over the defaults",
}

// loadConfig returns the defaults, or the file named by --config layered over them.
func loadConfig(ctx *cli.Context) (config.Config, error) {
	path := ctx.String("config")
	if path == "" {
		return config.Default(), nil
	}
	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, err
	}
	logger.Infof("loaded config from %s", path)
	return cfg, nil
}

// Open the window and render until it is closed.
func runScene(ctx *cli.Context) error {
	setupLogging(ctx)

	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	if ctx.IsSet("width") {
		cfg.Window.Width = ctx.Int("width")
	}
	if ctx.IsSet("height") {
		cfg.Window.Height = ctx.Int("height")
	}
	if ctx.IsSet("vsync") {
		cfg.Window.VSync = ctx.Bool("vsync")
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	e, err := engine.NewEngine(cfg,
		engine.WithProfiling(ctx.Bool("profile")),
		engine.WithRenderFrameLimit(ctx.Float64("frame-limit")),
		engine.WithRendererOptions(renderer.WithSoftwareAdapter(ctx.Bool("software"))),
	)
	if err != nil {
		return err
	}
	e.Run()
	return nil
}

// Print the farthest-first draw order seen from a camera position.
func printOrder(ctx *cli.Context) error {
	setupLogging(ctx)

	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}

	pos := cfg.Camera.Position.Mgl()
	for i, axis := range []string{"x", "y", "z"} {
		if ctx.IsSet(axis) {
			pos[i] = float32(ctx.Float64(axis))
		}
	}

	items := frame.NewRegistry(cfg)
	order := frame.ComputeOrder(items, pos)

	table := tablewriter.NewWriter(ctx.App.Writer)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetHeader([]string{"#", "Exhibit", "Key", "Distance", "Enabled"})
	for rank, idx := range order {
		item := items[idx]
		table.Append([]string{
			fmt.Sprintf("%d", rank+1),
			item.Exhibit.Name(),
			fmt.Sprintf("F%d", idx+1),
			fmt.Sprintf("%.3f", item.Distance),
			fmt.Sprintf("%t", item.Enabled),
		})
	}
	table.SetFooter([]string{"", "", "", "CAMERA", formatVec(pos)})
	table.Render()
	return nil
}

// Print the effective configuration.
func printConfig(ctx *cli.Context) error {
	setupLogging(ctx)

	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	data, err := cfg.EncodeTOML()
	if err != nil {
		return err
	}
	_, err = ctx.App.Writer.Write(data)
	return err
}

func formatVec(v mgl32.Vec3) string {
	return fmt.Sprintf("(%.2f, %.2f, %.2f)", v[0], v[1], v[2])
}
