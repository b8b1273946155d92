// wadgfx extracts graphics from Doom WAD files.
package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/Faultbox/wadgfx/internal/assets"
	"github.com/Faultbox/wadgfx/internal/config"
	"github.com/Faultbox/wadgfx/internal/logger"
)

var (
	cfg *config.Config
	mgr *assets.Manager
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	app := cli.NewApp()
	app.Name = "wadgfx"
	app.Usage = "Extract graphics from Doom WAD files"
	app.Version = "1.0.0"

	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:  "config",
			Usage: "path to config file",
		},
		&cli.StringSliceFlag{
			Name:    "wad",
			Aliases: []string{"w"},
			EnvVars: []string{"WADGFX_WAD"},
			Usage:   "WAD archive to mount (repeatable; later mounts override earlier)",
		},
		&cli.IntFlag{
			Name:    "palette",
			Aliases: []string{"p"},
			Usage:   "which palette bank to use (0-13)",
		},
		&cli.IntFlag{
			Name:    "colormap",
			Aliases: []string{"c"},
			Usage:   "which colormap bank to use (0-33)",
		},
		&cli.IntFlag{
			Name:    "scale",
			Aliases: []string{"s"},
			Usage:   "scale with beautiful nearest neighbor filtering",
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "output directory",
		},
		&cli.BoolFlag{
			Name:  "preview",
			Usage: "print the result in the terminal instead of writing a file",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "increase verbosity",
		},
	}

	app.Before = setup
	app.After = teardown

	app.Commands = []*cli.Command{
		flatCommand(),
		spriteCommand(),
		textureCommand(),
		pnamesCommand(),
		lumpsCommand(),
		configCommand(),
		serveCommand(),
	}

	return app
}

// setup loads the config, overlays global flags and initializes
// logging. Archives are mounted lazily by the commands that need them.
func setup(c *cli.Context) error {
	var err error
	cfg, err = config.Load(c.String("config"))
	if err != nil {
		return err
	}

	if c.IsSet("wad") {
		cfg.Data.WADPaths = c.StringSlice("wad")
	}
	if c.IsSet("palette") {
		cfg.Render.Palette = c.Int("palette")
	}
	if c.IsSet("colormap") {
		cfg.Render.Colormap = c.Int("colormap")
	}
	if c.IsSet("scale") {
		cfg.Render.Scale = c.Int("scale")
	}
	if c.IsSet("output") {
		cfg.Output.Dir = c.String("output")
	}

	if cfg.Render.Scale < 1 {
		return fmt.Errorf("scale must be at least 1, got %d", cfg.Render.Scale)
	}

	level := cfg.Logging.Level
	if c.Bool("verbose") {
		level = "debug"
	}
	return logger.Init(level, cfg.Logging.LogFile)
}

func teardown(c *cli.Context) error {
	if mgr != nil {
		mgr.Close()
	}
	logger.Sync()
	return nil
}

// openAssets mounts the configured archives into the global manager.
func openAssets() error {
	if len(cfg.Data.WADPaths) == 0 {
		return fmt.Errorf("no WAD archives configured; use --wad")
	}

	mgr = assets.NewManager()
	for _, path := range cfg.Data.WADPaths {
		if err := mgr.Mount(path); err != nil {
			return err
		}
		logger.Sugar.Debugw("mounted archive", "path", path)
	}
	return nil
}
