package convert

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"io"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/kolesa-team/go-webp/encoder"
	"github.com/kolesa-team/go-webp/webp"
	_ "golang.org/x/image/webp"

	"github.com/sumanbiswas123/image-converter/pkg/hexcolor"
)

// Format is an output image format.
type Format string

const (
	FormatJPEG Format = "jpg"
	FormatPNG  Format = "png"
	FormatWebP Format = "webp"
)

const (
	DefaultJPEGQuality = 90
	DefaultWebPQuality = 75
)

var (
	// ErrUnsupportedFormat is returned for output formats the engine cannot
	// produce.
	ErrUnsupportedFormat = errors.New("unsupported output format")

	// ErrNeedsBackground is returned for jpg output when the source has
	// transparent pixels and no background color was provided.
	ErrNeedsBackground = errors.New("image has transparency and needs a background color")
)

// ParseFormat normalizes a user-supplied format name.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "jpg", "jpeg":
		return FormatJPEG, nil
	case "png":
		return FormatPNG, nil
	case "webp":
		return FormatWebP, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
}

// Ext returns the output file extension, without the dot.
func (f Format) Ext() string {
	return string(f)
}

// Options control a single conversion.
type Options struct {
	Format Format

	// Background is the flatten target for jpg output of transparent
	// sources. When nil and the source has alpha, Encode fails unless
	// WhiteIfMissing is set.
	Background     *hexcolor.RGB
	WhiteIfMissing bool

	JPEGQuality int     // 1..100, 0 means DefaultJPEGQuality
	WebPQuality float32 // 1..100, 0 means DefaultWebPQuality
}

// Process decodes src and re-encodes it per opts.
func Process(src []byte, opts Options) ([]byte, error) {
	img, err := Decode(bytes.NewReader(src))
	if err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return Encode(img, opts)
}

// Decode reads an image and bakes its EXIF orientation into the pixels.
// Re-encoding never carries metadata over, so the orientation viewers would
// rotate by has to be applied here.
func Decode(r io.Reader) (image.Image, error) {
	return imaging.Decode(r, imaging.AutoOrientation(true))
}

// Encode renders img in the requested output format.
func Encode(img image.Image, opts Options) ([]byte, error) {
	var buf bytes.Buffer

	switch opts.Format {
	case FormatJPEG:
		out := img
		if HasAlpha(img) {
			bg := opts.Background
			if bg == nil {
				if !opts.WhiteIfMissing {
					return nil, ErrNeedsBackground
				}
				bg = &hexcolor.RGB{R: 0xff, G: 0xff, B: 0xff}
			}
			out = Flatten(img, *bg)
		}
		q := opts.JPEGQuality
		if q <= 0 {
			q = DefaultJPEGQuality
		}
		if err := imaging.Encode(&buf, out, imaging.JPEG, imaging.JPEGQuality(q)); err != nil {
			return nil, err
		}
	case FormatPNG:
		if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
			return nil, err
		}
	case FormatWebP:
		q := opts.WebPQuality
		if q <= 0 {
			q = DefaultWebPQuality
		}
		encOpts, err := encoder.NewLossyEncoderOptions(encoder.PresetDefault, q)
		if err != nil {
			return nil, err
		}
		if err := webp.Encode(&buf, img, encOpts); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, string(opts.Format))
	}

	return buf.Bytes(), nil
}

// HasAlpha reports whether any pixel is less than fully opaque.
func HasAlpha(img image.Image) bool {
	switch im := img.(type) {
	case *image.NRGBA:
		return pixHasAlpha(im.Pix, im.Rect, im.Stride)
	case *image.RGBA:
		return pixHasAlpha(im.Pix, im.Rect, im.Stride)
	}

	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if _, _, _, a := img.At(x, y).RGBA(); a != 0xffff {
				return true
			}
		}
	}
	return false
}

func pixHasAlpha(pix []uint8, rect image.Rectangle, stride int) bool {
	w := rect.Dx()
	for y := 0; y < rect.Dy(); y++ {
		row := pix[y*stride : y*stride+w*4]
		for i := 3; i < len(row); i += 4 {
			if row[i] != 0xff {
				return true
			}
		}
	}
	return false
}

// Flatten composites img over a uniform background, discarding transparency.
func Flatten(img image.Image, bg hexcolor.RGB) *image.NRGBA {
	b := img.Bounds()
	out := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	fill := image.NewUniform(color.NRGBA{R: bg.R, G: bg.G, B: bg.B, A: 0xff})
	draw.Draw(out, out.Bounds(), fill, image.Point{}, draw.Src)
	draw.Draw(out, out.Bounds(), img, b.Min, draw.Over)
	return out
}
