package export

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/anthonynsimon/bild/blend"
	"github.com/anthonynsimon/bild/clone"
	"github.com/anthonynsimon/bild/imgio"
	"github.com/anthonynsimon/bild/transform"
)

// ErrEncode wraps any failure of the image encoder.
var ErrEncode = errors.New("encode export")

// NeutralGray is the backdrop used when no background image is loaded.
var NeutralGray = color.RGBA{R: 0xc8, G: 0xc8, B: 0xc8, A: 0xff}

// Compositor flattens the paint layer over a background into a small
// JPEG. Paint is multiplied onto the background so it tints the wall
// instead of covering it.
type Compositor struct {
	MaxDim     int
	Quality    int
	Background image.Image
}

func NewCompositor(maxDim, quality int) *Compositor {
	return &Compositor{MaxDim: maxDim, Quality: quality}
}

// Size returns the output dimensions for a w×h source: scaled down so
// neither side exceeds MaxDim, aspect ratio kept.
func (c *Compositor) Size(w, h int) (int, int) {
	ratio := 1.0
	if c.MaxDim > 0 {
		ratio = math.Min(1, float64(c.MaxDim)/float64(max(w, h)))
	}
	return max(1, int(math.Floor(float64(w)*ratio))), max(1, int(math.Floor(float64(h)*ratio)))
}

// Composite returns the flattened image.
func (c *Compositor) Composite(layer image.Image) *image.RGBA {
	b := layer.Bounds()
	w, h := c.Size(b.Dx(), b.Dy())

	var scaled *image.RGBA
	if w == b.Dx() && h == b.Dy() {
		scaled = clone.AsRGBA(layer)
	} else {
		scaled = transform.Resize(layer, w, h, transform.Linear)
	}
	return blend.Multiply(c.backdrop(w, h), flatten(scaled))
}

// flatten lays premultiplied paint over opaque white. blend reads raw
// channel bytes, so the layer it multiplies must not carry alpha.
func flatten(layer *image.RGBA) *image.RGBA {
	dst := image.NewRGBA(layer.Bounds())
	draw.Draw(dst, dst.Bounds(), image.White, image.Point{}, draw.Src)
	draw.Draw(dst, dst.Bounds(), layer, layer.Bounds().Min, draw.Over)
	return dst
}

// Encode composites the layer and encodes it as JPEG.
func (c *Compositor) Encode(layer image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := imgio.JPEGEncoder(c.Quality)(&buf, c.Composite(layer)); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncode, err)
	}
	return buf.Bytes(), nil
}

func (c *Compositor) backdrop(w, h int) *image.RGBA {
	if c.Background == nil || c.Background.Bounds().Empty() {
		dst := image.NewRGBA(image.Rect(0, 0, w, h))
		draw.Draw(dst, dst.Bounds(), image.NewUniform(NeutralGray), image.Point{}, draw.Src)
		return dst
	}
	return cover(c.Background, w, h)
}

// cover scales src to fully cover w×h and crops the centered window.
func cover(src image.Image, w, h int) *image.RGBA {
	sb := src.Bounds()
	scale := math.Max(float64(w)/float64(sb.Dx()), float64(h)/float64(sb.Dy()))
	sw := max(w, int(math.Ceil(float64(sb.Dx())*scale)))
	sh := max(h, int(math.Ceil(float64(sb.Dy())*scale)))
	scaled := transform.Resize(src, sw, sh, transform.Linear)
	x0, y0 := (sw-w)/2, (sh-h)/2
	return transform.Crop(scaled, image.Rect(x0, y0, x0+w, y0+h))
}

// LoadBackground opens a JPEG or PNG to use as the wall behind the paint.
func LoadBackground(path string) (image.Image, error) {
	img, err := imgio.Open(path)
	if err != nil {
		return nil, fmt.Errorf("load background %s: %w", path, err)
	}
	return img, nil
}
