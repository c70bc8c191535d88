package placeholder

import (
	"fmt"
	"github.com/bbrks/go-blurhash"
	"github.com/disintegration/imaging"
	"github.com/katana-project/artwork/internal/errors"
	"image"
	"io"
)

const (
	// DefaultSize is the default width and height of a placeholder.
	DefaultSize = 32
	// MaxSize is the maximum width and height of a placeholder.
	MaxSize = 1024
	// DefaultPunch is the default contrast multiplier of a placeholder.
	DefaultPunch = 1

	// decodeSize is the largest dimension a blurhash is decoded at, larger placeholders are upscaled.
	decodeSize = 32
)

// ErrInvalidSize is an error about placeholder dimensions out of bounds.
type ErrInvalidSize struct {
	// Width is the requested width.
	Width int
	// Height is the requested height.
	Height int
}

// Error returns the string representation of the error.
func (eis *ErrInvalidSize) Error() string {
	return fmt.Sprintf("invalid placeholder size %dx%d, expected dimensions between 1 and %d", eis.Width, eis.Height, MaxSize)
}

// Options are the rendering options of a placeholder, zero values are replaced with defaults.
type Options struct {
	// Width is the width of the placeholder in pixels.
	Width int
	// Height is the height of the placeholder in pixels.
	Height int
	// Punch is the contrast multiplier of the placeholder.
	Punch int
}

// Render decodes a blurhash into an image of the requested size.
func Render(hash string, opts Options) (image.Image, error) {
	width, height, punch := opts.Width, opts.Height, opts.Punch
	if width == 0 {
		width = DefaultSize
	}
	if height == 0 {
		height = DefaultSize
	}
	if punch <= 0 {
		punch = DefaultPunch
	}
	if width < 0 || height < 0 || width > MaxSize || height > MaxSize {
		return nil, &ErrInvalidSize{Width: width, Height: height}
	}

	decodeWidth, decodeHeight := width, height
	if decodeWidth > decodeSize || decodeHeight > decodeSize {
		if decodeWidth >= decodeHeight {
			decodeHeight = max1(decodeHeight * decodeSize / decodeWidth)
			decodeWidth = decodeSize
		} else {
			decodeWidth = max1(decodeWidth * decodeSize / decodeHeight)
			decodeHeight = decodeSize
		}
	}

	img, err := blurhash.Decode(hash, decodeWidth, decodeHeight, punch)
	if err != nil {
		return nil, errors.Wrap(err, "failed to decode blurhash")
	}
	if decodeWidth != width || decodeHeight != height {
		return imaging.Resize(img, width, height, imaging.Linear), nil
	}

	return img, nil
}

// ParseFormat parses an image format from its name or file extension, such as "png" or ".jpg".
func ParseFormat(name string) (imaging.Format, error) {
	f, err := imaging.FormatFromExtension(name)
	if err != nil {
		return f, errors.Wrapf(err, "unknown placeholder format %s", name)
	}

	return f, nil
}

// Encode writes an image in the supplied format.
func Encode(w io.Writer, img image.Image, format imaging.Format) error {
	if err := imaging.Encode(w, img, format, imaging.JPEGQuality(80)); err != nil {
		return errors.Wrapf(err, "failed to encode placeholder as %s", format)
	}

	return nil
}

func max1(n int) int {
	if n < 1 {
		return 1
	}
	return n
}
