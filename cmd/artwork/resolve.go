package main

import (
	"fmt"
	"github.com/go-faster/errors"
	"github.com/katana-project/artwork/config"
	"github.com/katana-project/artwork/item"
	"github.com/katana-project/artwork/placeholder"
	"github.com/katana-project/artwork/remote"
	"github.com/katana-project/artwork/resolver"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
	"os"
	"path/filepath"
)

// imageOptions reads the common image flags.
func imageOptions(cCtx *cli.Context) (item.ImageType, *resolver.Options, error) {
	type_, err := item.ParseImageType(cCtx.String("type"))
	if err != nil {
		return "", nil, err
	}

	return type_, &resolver.Options{
		ItemID:        cCtx.String("item-id"),
		Tag:           cCtx.String("tag"),
		MaxWidth:      cCtx.Float64("max-width"),
		MaxHeight:     cCtx.Float64("max-height"),
		Quality:       cCtx.Int("quality"),
		LimitByWidth:  cCtx.Bool("limit-by-width"),
		BackdropIndex: cCtx.Int("index"),
	}, nil
}

// loadResolverConfig reads the resolver configuration from the config file, if set, overridden by flags.
func loadResolverConfig(cCtx *cli.Context) (*config.Config, error) {
	cfg := &config.Config{}
	if path := cCtx.String("config"); path != "" {
		var err error
		if cfg, err = config.Parse(path); err != nil {
			return nil, errors.Wrap(err, "failed to load config")
		}
	}

	if cCtx.IsSet("base-url") {
		cfg.Server.BaseURL = cCtx.String("base-url")
	}
	if cCtx.IsSet("pixel-ratio") {
		cfg.Server.PixelRatio = cCtx.Float64("pixel-ratio")
	}

	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// handleURL handles the url sub-command.
func (ac *appContext) handleURL(cCtx *cli.Context) error {
	cfg, err := loadResolverConfig(cCtx)
	if err != nil {
		return err
	}

	r, err := resolver.New(cfg.Server.Resolver())
	if err != nil {
		return errors.Wrap(err, "failed to create resolver")
	}

	type_, opts, err := imageOptions(cCtx)
	if err != nil {
		return err
	}

	u, err := r.ImageURL(type_, opts)
	if err != nil {
		return errors.Wrap(err, "failed to build image url")
	}

	_, err = fmt.Fprintln(cCtx.App.Writer, u)
	return err
}

// handleFetch handles the fetch sub-command.
func (ac *appContext) handleFetch(cCtx *cli.Context) error {
	cfg, err := loadResolverConfig(cCtx)
	if err != nil {
		return err
	}
	if !cfg.Remote.Enabled() {
		return errors.New("fetching requires a remote token in the config")
	}

	r, err := resolver.New(cfg.Server.Resolver())
	if err != nil {
		return errors.Wrap(err, "failed to create resolver")
	}

	client, err := remote.NewClient(cfg.Server.BaseURL, remote.Options{
		Token:    cfg.Remote.Token,
		UserID:   cfg.Remote.UserID,
		CacheExp: cfg.Remote.CacheExpDuration(),
		Timeout:  cfg.Remote.TimeoutDuration(),
	}, ac.logger)
	if err != nil {
		return errors.Wrap(err, "failed to create remote client")
	}

	type_, opts, err := imageOptions(cCtx)
	if err != nil {
		return err
	}

	opts.Item, err = client.Item(cCtx.Context, opts.ItemID)
	if err != nil {
		return errors.Wrap(err, "failed to look up item")
	}

	u, err := r.ImageURL(type_, opts)
	if err != nil {
		return errors.Wrap(err, "failed to build image url")
	}

	data, mime, err := client.Fetch(cCtx.Context, u)
	if err != nil {
		return err
	}

	out := cCtx.String("out")
	if out == "" {
		out = fmt.Sprintf("%s-%s", opts.ItemID, type_)
	}
	out = filepath.Clean(out + mime.Extension())

	if err := os.WriteFile(out, data, 0o644); err != nil {
		return errors.Wrap(err, "failed to save image")
	}

	ac.logger.Info(
		"image saved successfully",
		zap.String("url", u),
		zap.String("path", out),
		zap.String("type", mime.String()),
	)
	return nil
}

// handlePlaceholder handles the placeholder sub-command.
func (ac *appContext) handlePlaceholder(cCtx *cli.Context) (err error) {
	out := filepath.Clean(cCtx.String("out"))

	format, err := placeholder.ParseFormat(filepath.Ext(out))
	if err != nil {
		return err
	}

	img, err := placeholder.Render(cCtx.String("hash"), placeholder.Options{
		Width:  cCtx.Int("width"),
		Height: cCtx.Int("height"),
		Punch:  cCtx.Int("punch"),
	})
	if err != nil {
		return err
	}

	f, err := os.Create(out)
	if err != nil {
		return errors.Wrap(err, "failed to create placeholder file")
	}
	defer func() {
		if err0 := f.Close(); err0 != nil && err == nil {
			err = errors.Wrap(err0, "failed to close placeholder file")
		}
	}()

	if err := placeholder.Encode(f, img, format); err != nil {
		return err
	}

	ac.logger.Info("placeholder saved successfully", zap.String("path", out))
	return nil
}
