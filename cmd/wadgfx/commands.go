package main

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/Faultbox/wadgfx/internal/logger"
	"github.com/Faultbox/wadgfx/internal/preview"
	"github.com/Faultbox/wadgfx/internal/web"
	"github.com/Faultbox/wadgfx/pkg/gfx"
	"github.com/Faultbox/wadgfx/pkg/render"
)

const previewWidth = 512

func flatCommand() *cli.Command {
	return &cli.Command{
		Name:      "flat",
		Usage:     "extract a floor/ceiling flat",
		ArgsUsage: "<name>",
		Action: func(c *cli.Context) error {
			name := c.Args().First()
			if name == "" {
				return fmt.Errorf("flat: lump name required")
			}
			if err := openAssets(); err != nil {
				return err
			}

			pal, table, err := renderTables()
			if err != nil {
				return err
			}
			data, err := mgr.Read(name)
			if err != nil {
				return err
			}

			img, err := render.RenderFlat(data, render.FlatOptions{
				Palette:  pal,
				Colormap: table,
				Scale:    cfg.Render.Scale,
			})
			if err != nil {
				return err
			}
			return emit(c, name, img)
		},
	}
}

func spriteCommand() *cli.Command {
	return &cli.Command{
		Name:      "sprite",
		Usage:     "extract a sprite or other picture-format lump",
		ArgsUsage: "<name>",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "info",
				Aliases: []string{"I"},
				Usage:   "print information about the sprite instead of rendering it",
			},
			&cli.StringFlag{
				Name:  "canvas",
				Usage: "canvas size WIDTHxHEIGHT (default: the sprite's own size)",
			},
			&cli.StringFlag{
				Name:  "pos",
				Usage: "place the hotspot at X,Y on the canvas (default: the sprite's origin)",
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "output format: full, indexed or mask",
			},
			&cli.IntFlag{
				Name:    "background",
				Aliases: []string{"b"},
				Usage:   "background palette index for the indexed format",
			},
			&cli.BoolFlag{
				Name:    "anamorphic",
				Aliases: []string{"a"},
				Usage:   "keep pixels square instead of stretching for the 320x200 aspect",
			},
		},
		Action: func(c *cli.Context) error {
			name := c.Args().First()
			if name == "" {
				return fmt.Errorf("sprite: lump name required")
			}
			if err := openAssets(); err != nil {
				return err
			}

			data, err := mgr.Read(name)
			if err != nil {
				return err
			}
			if c.Bool("info") {
				return spriteInfo(name, data)
			}

			opts, err := spriteOptions(c)
			if err != nil {
				return err
			}
			img, err := render.RenderSprite(data, opts)
			if err != nil {
				return err
			}
			return emit(c, name, img)
		},
	}
}

func textureCommand() *cli.Command {
	return &cli.Command{
		Name:      "texture",
		Usage:     "assemble a composite texture from its patches",
		ArgsUsage: "<name>",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "list",
				Usage: "list all textures instead of rendering one",
			},
			&cli.BoolFlag{
				Name:  "eager",
				Usage: "decode every patch in PNAMES up front",
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "output format: full, indexed or mask",
			},
			&cli.IntFlag{
				Name:    "background",
				Aliases: []string{"b"},
				Usage:   "background palette index for the indexed format",
			},
			&cli.BoolFlag{
				Name:    "anamorphic",
				Aliases: []string{"a"},
				Usage:   "keep pixels square instead of stretching for the 320x200 aspect",
			},
		},
		Action: func(c *cli.Context) error {
			if err := openAssets(); err != nil {
				return err
			}

			if c.Bool("list") {
				dirs, err := mgr.TextureDirs()
				if err != nil {
					return err
				}
				for _, dir := range dirs {
					for _, tex := range dir.Textures {
						fmt.Printf("%-8s %4d x %-4d %d patches\n",
							tex.Name, tex.Width, tex.Height, len(tex.Patches))
					}
				}
				return nil
			}

			name := c.Args().First()
			if name == "" {
				return fmt.Errorf("texture: name required (or use --list)")
			}

			tex, err := mgr.FindTexture(name)
			if err != nil {
				return err
			}
			resolver, err := mgr.Resolver(c.Bool("eager"))
			if err != nil {
				return err
			}
			composite, err := gfx.RenderTexture(tex, resolver)
			if err != nil {
				return err
			}

			opts, err := spriteOptions(c)
			if err != nil {
				return err
			}
			img, err := render.RenderSprite(composite, opts)
			if err != nil {
				return err
			}
			return emit(c, name, img)
		},
	}
}

func pnamesCommand() *cli.Command {
	return &cli.Command{
		Name:  "pnames",
		Usage: "list the patch name table",
		Action: func(c *cli.Context) error {
			if err := openAssets(); err != nil {
				return err
			}
			names, err := mgr.PNames()
			if err != nil {
				return err
			}
			for id, name := range names.Names() {
				fmt.Printf("%5d %s\n", id, name)
			}
			return nil
		},
	}
}

func lumpsCommand() *cli.Command {
	return &cli.Command{
		Name:  "lumps",
		Usage: "list the lump directory of the mounted archives",
		Action: func(c *cli.Context) error {
			if err := openAssets(); err != nil {
				return err
			}
			for i, e := range mgr.List() {
				fmt.Printf("%5d %8d %s\n", i, e.Size, e.Name)
			}
			return nil
		},
	}
}

func configCommand() *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "inspect or write the active configuration",
		Subcommands: []*cli.Command{
			{
				Name:  "show",
				Usage: "print the active configuration as YAML",
				Action: func(c *cli.Context) error {
					data, err := yaml.Marshal(cfg)
					if err != nil {
						return err
					}
					fmt.Print(string(data))
					return nil
				},
			},
			{
				Name:  "save",
				Usage: "write the active configuration to disk",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "path",
						Usage: "write here instead of the user config directory",
					},
				},
				Action: func(c *cli.Context) error {
					path := c.String("path")
					if path != "" {
						if err := cfg.SaveTo(path); err != nil {
							return err
						}
					} else {
						var err error
						if path, err = cfg.Save(); err != nil {
							return err
						}
					}
					fmt.Println("wrote", path)
					return nil
				},
			},
		},
	}
}

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "serve rendered graphics over HTTP",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "listen",
				Aliases: []string{"l"},
				Usage:   "listen address",
			},
		},
		Action: func(c *cli.Context) error {
			if err := openAssets(); err != nil {
				return err
			}
			addr := cfg.Server.Listen
			if c.IsSet("listen") {
				addr = c.String("listen")
			}
			return web.New(mgr, cfg.Render).ListenAndServe(addr)
		},
	}
}

// renderTables resolves the configured palette and colormap banks.
func renderTables() (*gfx.Palette, []byte, error) {
	playpal, err := mgr.Playpal()
	if err != nil {
		return nil, nil, err
	}
	pal, err := playpal.Bank(cfg.Render.Palette)
	if err != nil {
		return nil, nil, err
	}

	colormaps, err := mgr.Colormap()
	if err != nil {
		return nil, nil, err
	}
	table, err := colormaps.Bank(cfg.Render.Colormap)
	if err != nil {
		return nil, nil, err
	}
	return pal, table, nil
}

// spriteOptions merges command flags over the configured render
// defaults for the sprite and texture commands.
func spriteOptions(c *cli.Context) (render.SpriteOptions, error) {
	pal, table, err := renderTables()
	if err != nil {
		return render.SpriteOptions{}, err
	}

	formatName := cfg.Render.Format
	if c.IsSet("format") {
		formatName = c.String("format")
	}
	format, err := render.ParseFormat(formatName)
	if err != nil {
		return render.SpriteOptions{}, err
	}

	opts := render.SpriteOptions{
		Palette:    pal,
		Colormap:   table,
		Scale:      cfg.Render.Scale,
		Format:     format,
		Background: uint8(c.Int("background")),
		Anamorphic: cfg.Render.Anamorphic || c.Bool("anamorphic"),
	}

	if v := c.String("canvas"); v != "" {
		if opts.CanvasWidth, opts.CanvasHeight, err = parsePair(v, "x"); err != nil {
			return render.SpriteOptions{}, fmt.Errorf("bad --canvas: %w", err)
		}
	}
	if v := c.String("pos"); v != "" {
		if opts.PosX, opts.PosY, err = parsePair(v, ","); err != nil {
			return render.SpriteOptions{}, fmt.Errorf("bad --pos: %w", err)
		}
		opts.HasPos = true
	}
	return opts, nil
}

// parsePair splits a "AsepB" argument into two integers.
func parsePair(s, sep string) (int, int, error) {
	parts := strings.SplitN(s, sep, 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("expected two values separated by %q, got %q", sep, s)
	}
	a, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, 0, err
	}
	b, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, 0, err
	}
	return a, b, nil
}

// spriteInfo prints the header fields and post statistics of a
// picture lump.
func spriteInfo(name string, data []byte) error {
	sprite, err := gfx.ParseSprite(data)
	if err != nil {
		return err
	}

	w, h := sprite.Size()
	left, top := sprite.Origin()

	posts, pixels := 0, 0
	for x := 0; x < w; x++ {
		col := sprite.Column(x)
		for col.Next() {
			posts++
			pixels += len(col.Span().Pixels)
		}
		if err := col.Err(); err != nil {
			return err
		}
	}

	fmt.Printf("%s: %d x %d, origin (%d, %d)\n", strings.ToUpper(name), w, h, left, top)
	fmt.Printf("  %d bytes, %d posts, %d opaque pixels\n", len(data), posts, pixels)
	return nil
}

// emit writes the rendered image to the output directory, or prints it
// in the terminal when --preview is set.
func emit(c *cli.Context, name string, img image.Image) error {
	if c.Bool("preview") {
		return preview.Show(img, previewWidth)
	}

	if err := os.MkdirAll(cfg.Output.Dir, 0o755); err != nil {
		return err
	}
	path := filepath.Join(cfg.Output.Dir, strings.ToLower(name)+".png")
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		return err
	}
	logger.Info("wrote image",
		zap.String("path", path),
		zap.Int("width", img.Bounds().Dx()),
		zap.Int("height", img.Bounds().Dy()))
	return nil
}
