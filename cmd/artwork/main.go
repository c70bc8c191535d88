package main

import (
	"github.com/katana-project/artwork/item"
	"github.com/katana-project/artwork/placeholder"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
	"os"
)

// imageFlags are the flags describing a requested image.
func imageFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "the configuration path, can be empty if --base-url is set",
		},
		&cli.StringFlag{
			Name:  "base-url",
			Usage: "the base URL of the media server, overrides the configuration",
		},
		&cli.Float64Flag{
			Name:  "pixel-ratio",
			Usage: "the device pixel ratio, overrides the configuration",
		},
		&cli.StringFlag{
			Name:    "type",
			Aliases: []string{"t"},
			Usage:   "the image type, such as Primary, Backdrop or Logo",
			Value:   item.ImageTypePrimary.String(),
		},
		&cli.StringFlag{
			Name:    "item-id",
			Aliases: []string{"i"},
			Usage:   "the ID of the item",
		},
		&cli.StringFlag{
			Name:  "tag",
			Usage: "the image tag",
		},
		&cli.Float64Flag{
			Name:  "max-width",
			Usage: "the maximum width of the image in CSS pixels",
		},
		&cli.Float64Flag{
			Name:  "max-height",
			Usage: "the maximum height of the image in CSS pixels",
		},
		&cli.IntFlag{
			Name:  "quality",
			Usage: "the image quality (1-100), defaults to the configured quality",
		},
		&cli.BoolFlag{
			Name:  "limit-by-width",
			Usage: "bound the image by --max-width instead of --max-height",
		},
		&cli.IntFlag{
			Name:  "index",
			Usage: "the index of the backdrop image",
		},
	}
}

// main is the application entrypoint.
func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	appCtx := &appContext{
		logger: logger,
	}
	app := &cli.App{
		Name:  "artwork",
		Usage: "CLI interface for resolving media server images",
		Commands: []*cli.Command{
			{
				Name:  "server",
				Usage: "launches the server",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "the configuration path, defaults to config.toml",
						Value:   "config.toml",
					},
					&cli.BoolFlag{
						Name:    "watch",
						Aliases: []string{"w"},
						Usage:   "reload the configuration when it changes",
					},
				},
				Action: appCtx.handleServer,
			},
			{
				Name:  "config",
				Usage: "generates an example configuration file",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "the configuration path, defaults to config.toml",
						Value:   "config.toml",
					},
				},
				Action: appCtx.handleConfig,
			},
			{
				Name:   "url",
				Usage:  "prints the URL of an item image",
				Flags:  imageFlags(),
				Action: appCtx.handleURL,
			},
			{
				Name:  "fetch",
				Usage: "downloads an item image, the file extension is detected from its contents",
				Flags: append(imageFlags(), &cli.StringFlag{
					Name:    "out",
					Aliases: []string{"o"},
					Usage:   "the output path without an extension, defaults to <item-id>-<type>",
				}),
				Action: appCtx.handleFetch,
			},
			{
				Name:  "placeholder",
				Usage: "renders a blurhash into an image",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "hash",
						Usage:    "the blurhash",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "width",
						Usage: "the width of the image in pixels",
						Value: placeholder.DefaultSize,
					},
					&cli.IntFlag{
						Name:  "height",
						Usage: "the height of the image in pixels",
						Value: placeholder.DefaultSize,
					},
					&cli.IntFlag{
						Name:  "punch",
						Usage: "the contrast multiplier",
						Value: placeholder.DefaultPunch,
					},
					&cli.StringFlag{
						Name:    "out",
						Aliases: []string{"o"},
						Usage:   "the output path, its extension selects the format",
						Value:   "placeholder.png",
					},
				},
				Action: appCtx.handlePlaceholder,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		logger.Fatal("failed to run cli", zap.Error(err))
	}
}
