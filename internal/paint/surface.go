package paint

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/anthonynsimon/bild/clone"
	"golang.org/x/image/vector"
)

// ErrSnapshotTooLarge is returned when a snapshot would exceed the
// surface's snapshot budget.
var ErrSnapshotTooLarge = errors.New("surface too large to snapshot")

// kappa places cubic control points so four curves approximate a circle.
const kappa = 0.5522847498

// Surface is the raster the paint lands on. It starts fully transparent.
type Surface struct {
	img *image.RGBA
	ras *vector.Rasterizer

	// MaxSnapshotPixels caps the size of a snapshot, 0 means unlimited.
	MaxSnapshotPixels int
}

func NewSurface(width, height int) *Surface {
	return &Surface{
		img: image.NewRGBA(image.Rect(0, 0, width, height)),
		ras: &vector.Rasterizer{},
	}
}

func (s *Surface) Image() *image.RGBA      { return s.img }
func (s *Surface) Bounds() image.Rectangle { return s.img.Bounds() }
func (s *Surface) Width() int              { return s.img.Bounds().Dx() }
func (s *Surface) Height() int             { return s.img.Bounds().Dy() }

// Clear makes every pixel transparent again.
func (s *Surface) Clear() {
	clear(s.img.Pix)
}

// Snapshot copies the whole raster.
func (s *Surface) Snapshot() (*image.RGBA, error) {
	b := s.img.Bounds()
	if s.MaxSnapshotPixels > 0 && b.Dx()*b.Dy() > s.MaxSnapshotPixels {
		return nil, fmt.Errorf("%dx%d: %w", b.Dx(), b.Dy(), ErrSnapshotTooLarge)
	}
	return clone.AsRGBA(s.img), nil
}

// Restore puts a snapshot back onto the surface.
func (s *Surface) Restore(snap *image.RGBA) {
	if snap.Bounds() == s.img.Bounds() {
		copy(s.img.Pix, snap.Pix)
		return
	}
	s.Clear()
	draw.Draw(s.img, s.img.Bounds(), snap, snap.Bounds().Min, draw.Src)
}

// Dot fills a circle.
func (s *Surface) Dot(x, y, radius float64, c color.NRGBA) {
	s.Capsule(x, y, x, y, radius, c)
}

// Capsule fills a round-capped line of half-width radius from (x0,y0)
// to (x1,y1). A zero-length capsule is a circle.
func (s *Surface) Capsule(x0, y0, x1, y1, radius float64, c color.NRGBA) {
	if radius <= 0 || c.A == 0 {
		return
	}
	bounds := image.Rect(
		int(math.Floor(math.Min(x0, x1)-radius)),
		int(math.Floor(math.Min(y0, y1)-radius)),
		int(math.Ceil(math.Max(x0, x1)+radius))+1,
		int(math.Ceil(math.Max(y0, y1)+radius))+1,
	).Intersect(s.img.Bounds())
	if bounds.Empty() {
		return
	}

	dx, dy := x1-x0, y1-y0
	length := math.Hypot(dx, dy)
	ux, uy := 1.0, 0.0
	if length > 1e-6 {
		ux, uy = dx/length, dy/length
	}
	nx, ny := -uy, ux

	ox, oy := float64(bounds.Min.X), float64(bounds.Min.Y)
	s.ras.Reset(bounds.Dx(), bounds.Dy())
	s.ras.DrawOp = draw.Over
	s.ras.MoveTo(float32(x1+nx*radius-ox), float32(y1+ny*radius-oy))
	s.quarter(x1-ox, y1-oy, nx, ny, ux, uy, radius)
	s.quarter(x1-ox, y1-oy, ux, uy, -nx, -ny, radius)
	s.ras.LineTo(float32(x0-nx*radius-ox), float32(y0-ny*radius-oy))
	s.quarter(x0-ox, y0-oy, -nx, -ny, -ux, -uy, radius)
	s.quarter(x0-ox, y0-oy, -ux, -uy, nx, ny, radius)
	s.ras.ClosePath()
	s.ras.Draw(s.img, bounds, image.NewUniform(c), image.Point{})
}

// quarter appends a quarter arc around (cx,cy) from direction u to v.
// The pen must already sit at c+r*u.
func (s *Surface) quarter(cx, cy, ux, uy, vx, vy, r float64) {
	k := kappa * r
	s.ras.CubeTo(
		float32(cx+ux*r+vx*k), float32(cy+uy*r+vy*k),
		float32(cx+vx*r+ux*k), float32(cy+vy*r+uy*k),
		float32(cx+vx*r), float32(cy+vy*r),
	)
}
