package paint

import (
	"errors"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSurfaceCapsule(t *testing.T) {
	s := NewSurface(200, 100)
	s.Capsule(40, 50, 160, 50, 10, color.NRGBA{R: 255, A: 255})

	img := s.Image()
	for _, x := range []int{40, 100, 160} {
		assert.Equal(t, uint8(255), img.RGBAAt(x, 50).A, "x=%d on the centerline", x)
		assert.Equal(t, uint8(255), img.RGBAAt(x, 50).R)
	}
	// Round caps reach past the endpoints.
	assert.NotZero(t, img.RGBAAt(33, 50).A)
	assert.NotZero(t, img.RGBAAt(167, 50).A)
	// Nothing beyond the radius.
	assert.Zero(t, img.RGBAAt(100, 35).A)
	assert.Zero(t, img.RGBAAt(100, 65).A)
	assert.Zero(t, img.RGBAAt(25, 50).A)
}

func TestSurfaceDotAndClip(t *testing.T) {
	s := NewSurface(50, 50)
	s.Dot(25, 25, 5, color.NRGBA{B: 200, A: 255})
	assert.Equal(t, uint8(200), s.Image().RGBAAt(25, 25).B)
	assert.Zero(t, s.Image().RGBAAt(25, 35).A)

	assert.NotPanics(t, func() {
		s.Dot(-100, -100, 5, color.NRGBA{A: 255})
		s.Capsule(-10, 25, 80, 25, 3, color.NRGBA{A: 255})
		s.Dot(10, 10, 0, color.NRGBA{A: 255})
	})
	assert.Equal(t, uint8(255), s.Image().RGBAAt(0, 25).A)
}

func TestSurfaceTranslucentPaint(t *testing.T) {
	s := NewSurface(20, 20)
	s.Dot(10, 10, 6, color.NRGBA{R: 255, A: 128})
	a := s.Image().RGBAAt(10, 10).A
	assert.InDelta(t, 128, int(a), 2)

	s.Dot(10, 10, 6, color.NRGBA{R: 255, A: 128})
	assert.Greater(t, s.Image().RGBAAt(10, 10).A, a, "paint builds up")
}

func TestSurfaceSnapshotRestore(t *testing.T) {
	s := NewSurface(64, 64)
	s.Dot(32, 32, 8, color.NRGBA{G: 255, A: 255})

	snap, err := s.Snapshot()
	require.NoError(t, err)
	require.Equal(t, s.Bounds(), snap.Bounds())

	s.Capsule(0, 0, 64, 64, 4, color.NRGBA{R: 255, A: 255})
	assert.NotEqual(t, snap.Pix, s.Image().Pix)

	s.Restore(snap)
	assert.Equal(t, snap.Pix, s.Image().Pix)

	s.Clear()
	for _, v := range s.Image().Pix {
		require.Zero(t, v)
	}
}

func TestSurfaceSnapshotBudget(t *testing.T) {
	s := NewSurface(100, 100)
	s.MaxSnapshotPixels = 5000

	_, err := s.Snapshot()
	assert.True(t, errors.Is(err, ErrSnapshotTooLarge))

	s.MaxSnapshotPixels = 10000
	_, err = s.Snapshot()
	assert.NoError(t, err)
}
