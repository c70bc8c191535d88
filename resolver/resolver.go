package resolver

import (
	"github.com/katana-project/artwork/item"
	"math"
	"net/url"
	"strconv"
	"strings"
)

const (
	// DefaultQuality is the image quality requested when none is configured.
	DefaultQuality = 90
	// DefaultPixelRatio is the device pixel ratio used when none is configured.
	DefaultPixelRatio = 1.0
)

// Config is the environment of a Resolver.
type Config struct {
	// BaseURL is the absolute base URL of the media server, such as "http://localhost:8096".
	BaseURL string
	// PixelRatio is the device pixel ratio requested sizes are scaled by, defaults to DefaultPixelRatio.
	PixelRatio float64
	// Quality is the default image quality (1-100), defaults to DefaultQuality.
	Quality int
}

// Element is a rendered rectangle whose size bounds the requested image, in CSS pixels.
type Element interface {
	// Width returns the rendered width of the element.
	Width() float64
	// Height returns the rendered height of the element.
	Height() float64
}

// Rect is a static Element.
type Rect struct {
	W, H float64
}

func (r Rect) Width() float64 {
	return r.W
}
func (r Rect) Height() float64 {
	return r.H
}

// Options are the parameters of an image URL.
type Options struct {
	// Item is the item to request the image for, its tag overrides Tag.
	Item item.Subject
	// Element provides MaxWidth and MaxHeight when they are zero.
	Element Element
	// Tag is the image tag, used only if Item is nil.
	Tag string
	// ItemID is the ID of the item, defaults to the ID of Item.
	ItemID string
	// MaxWidth is the maximum width of the image in CSS pixels, zero means unbounded.
	MaxWidth float64
	// MaxHeight is the maximum height of the image in CSS pixels, zero means unbounded.
	MaxHeight float64
	// Quality is the image quality (1-100), zero means the resolver's default.
	Quality int
	// LimitByWidth bounds the image by MaxWidth instead of MaxHeight.
	LimitByWidth bool
	// BackdropIndex is the index of the backdrop image, used only for item.ImageTypeBackdrop.
	BackdropIndex int
}

// Resolver builds image URLs for a media server, it is immutable and safe for concurrent use.
type Resolver struct {
	baseURL    string
	pixelRatio float64
	quality    int
}

// New creates a Resolver from configuration.
func New(cfg Config) (*Resolver, error) {
	u, err := url.Parse(cfg.BaseURL)
	if err != nil || !u.IsAbs() || u.Host == "" {
		return nil, &ErrInvalidArgument{Argument: "baseURL", Reason: "expected an absolute URL, got " + strconv.Quote(cfg.BaseURL)}
	}

	pixelRatio := cfg.PixelRatio
	if pixelRatio == 0 { // zero value
		pixelRatio = DefaultPixelRatio
	}
	if pixelRatio < 0 || math.IsNaN(pixelRatio) || math.IsInf(pixelRatio, 0) {
		return nil, &ErrInvalidArgument{Argument: "pixelRatio", Reason: "expected a positive number, got " + strconv.FormatFloat(pixelRatio, 'g', -1, 64)}
	}

	quality := cfg.Quality
	if quality == 0 { // zero value
		quality = DefaultQuality
	}
	if quality < 1 || quality > 100 {
		return nil, &ErrInvalidArgument{Argument: "quality", Reason: "expected a number between 1 and 100, got " + strconv.Itoa(quality)}
	}

	return &Resolver{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		pixelRatio: pixelRatio,
		quality:    quality,
	}, nil
}

// BaseURL returns the base URL of the media server, without a trailing slash.
func (r *Resolver) BaseURL() string {
	return r.baseURL
}

// PixelRatio returns the device pixel ratio.
func (r *Resolver) PixelRatio() float64 {
	return r.pixelRatio
}

// Quality returns the default image quality.
func (r *Resolver) Quality() int {
	return r.quality
}

// ImageURL builds the URL of an image of the supplied type,
// in the form <base URL>/Items/<item ID>/Images/<type>?tag=<tag>&quality=<quality>[&maxWidth=<n>|&maxHeight=<n>].
//
// Either opts.Item or opts.ItemID must be supplied, an *ErrInvalidArgument is returned otherwise
// or if opts.Item does not have an image of the supplied type.
func (r *Resolver) ImageURL(type_ item.ImageType, opts *Options) (string, error) {
	if opts == nil {
		opts = &Options{}
	}

	var (
		tag    = opts.Tag
		itemID = opts.ItemID
	)
	if opts.Item != nil {
		var ok bool
		if tag, ok = ImageTag(opts.Item, type_, opts.BackdropIndex); !ok {
			return "", &ErrInvalidArgument{
				Argument: "item",
				Reason:   "item doesn't have a valid tag for image type " + type_.String(),
			}
		}
		if itemID == "" {
			itemID = opts.Item.ItemID()
		}
	}
	if itemID == "" {
		return "", &ErrInvalidArgument{
			Argument: "itemId",
			Reason:   "must not be empty when the item does not carry an ID",
		}
	}

	maxWidth, maxHeight := opts.MaxWidth, opts.MaxHeight
	if opts.Element != nil {
		if maxWidth == 0 {
			maxWidth = opts.Element.Width()
		}
		if maxHeight == 0 {
			maxHeight = opts.Element.Height()
		}
	}

	if err := r.checkSize("maxWidth", maxWidth); err != nil {
		return "", err
	}
	if err := r.checkSize("maxHeight", maxHeight); err != nil {
		return "", err
	}

	quality := opts.Quality
	if quality == 0 {
		quality = r.quality
	}

	var q query
	q.add("tag", tag)
	q.add("quality", strconv.Itoa(quality))
	if opts.LimitByWidth && maxWidth > 0 {
		q.add("maxWidth", r.scale(maxWidth))
	} else if maxHeight > 0 {
		q.add("maxHeight", r.scale(maxHeight))
	}

	var b strings.Builder
	b.WriteString(r.baseURL)
	b.WriteString("/Items/")
	b.WriteString(url.PathEscape(itemID))
	b.WriteString("/Images/")
	b.WriteString(url.PathEscape(type_.String()))
	if s := q.encode(); s != "" {
		b.WriteByte('?')
		b.WriteString(s)
	}

	return b.String(), nil
}

// checkSize checks that a size is finite and fits an int32 once scaled.
func (r *Resolver) checkSize(argument string, size float64) error {
	if math.IsNaN(size) || math.IsInf(size, 0) || size*r.pixelRatio > math.MaxInt32 {
		return &ErrInvalidArgument{
			Argument: argument,
			Reason:   "expected a finite size up to " + strconv.Itoa(math.MaxInt32) + " device pixels, got " + strconv.FormatFloat(size, 'g', -1, 64),
		}
	}

	return nil
}

// scale converts a size in CSS pixels to device pixels, rounded to the nearest integer.
func (r *Resolver) scale(size float64) string {
	return strconv.FormatInt(int64(math.Round(size*r.pixelRatio)), 10)
}
