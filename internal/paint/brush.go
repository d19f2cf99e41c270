package paint

import (
	"math"
	"time"
)

const (
	// MinRadius is the smallest stroke radius, unless the cap itself is smaller.
	MinRadius = 2.0

	speckleAlpha = 0.18

	wetHold        = 220 * time.Millisecond
	cooldownCutoff = 1300 * time.Millisecond
	dripCooldown   = 1200 * time.Millisecond
	dripBaseGap    = 70 * time.Millisecond
	dripWetGap     = 180 * time.Millisecond
)

// Stroke is everything the brush needs to paint one segment.
type Stroke struct {
	Segment
	Pressure float64       // smoothed pressure
	Hold     time.Duration // time spent stationary
	At       time.Duration
	Color    Color
}

// Brush paints stroke segments onto a surface as an opaque capsule with
// a speckled rim, and decides when paint starts to drip.
type Brush struct {
	CapRadius   float64
	DeviceScale float64

	surf  *Surface
	drips *DripSim
	rng   Random

	lastDrip      time.Duration
	dripped       bool
	cooldownUntil time.Duration
}

func NewBrush(surf *Surface, drips *DripSim, rng Random, capRadius, deviceScale float64) *Brush {
	return &Brush{
		CapRadius:   capRadius,
		DeviceScale: deviceScale,
		surf:        surf,
		drips:       drips,
		rng:         rng,
	}
}

// Base is the largest radius the brush can ever produce.
func (b *Brush) Base() float64 {
	return b.CapRadius * b.DeviceScale
}

// Radius computes the stroke radius for a pressure and speed. It never
// exceeds Base.
func (b *Brush) Radius(pressure, speed float64) float64 {
	base := b.Base()
	pressure = clamp(pressure, 0, 1)
	r := base * (0.6 + pressure*0.4) * (0.9 + (1-SpeedNorm(speed))*0.1)
	return clamp(r, math.Min(MinRadius, base), base)
}

// Paint renders one stroke and returns the radius used.
func (b *Brush) Paint(s Stroke) float64 {
	radius := b.Radius(s.Pressure, s.Speed)
	if radius <= 0 {
		return 0
	}
	alpha := clamp(0.86+s.Pressure*0.14, 0.86, 1)
	b.surf.Capsule(s.From.X, s.From.Y, s.To.X, s.To.Y, radius, s.Color.NRGBA(alpha))
	b.speckle(s, radius)
	b.maybeDrip(s, radius)
	return radius
}

// Cooling reports whether drips are currently suppressed.
func (b *Brush) Cooling(at time.Duration) bool {
	return at < b.cooldownUntil
}

// Reset forgets drip timing.
func (b *Brush) Reset() {
	b.lastDrip = 0
	b.dripped = false
	b.cooldownUntil = 0
}

// speckle scatters faint daubs along both edges of the segment.
func (b *Brush) speckle(s Stroke, radius float64) {
	dx, dy := s.To.X-s.From.X, s.To.Y-s.From.Y
	length := math.Hypot(dx, dy)
	speedN := SpeedNorm(s.Speed)
	density := int(math.Round((radius*0.9 + length*0.25) * (1 - speedN*0.4)))
	fill := s.Color.NRGBA(speckleAlpha)

	for range density {
		var nx, ny float64
		if length > 1e-6 {
			nx, ny = -dy/length, dx/length
			if b.rng.Float64() < 0.5 {
				nx, ny = -nx, -ny
			}
		} else {
			ang := b.rng.Float64() * 2 * math.Pi
			nx, ny = math.Cos(ang), math.Sin(ang)
		}
		t := b.rng.Float64()
		off := between(b.rng, 0.75, 1.25) * radius
		jx := (b.rng.Float64() - 0.5) * radius * 0.08
		jy := (b.rng.Float64() - 0.5) * radius * 0.08
		x := s.From.X + dx*t + nx*off + jx
		y := s.From.Y + dy*t + ny*off + jy
		b.surf.Dot(x, y, b.rng.Float64()*radius*0.09+0.6, fill)
	}
}

// maybeDrip spawns a cluster of drips near the lower edge of the stroke
// when the paint is wet enough.
func (b *Brush) maybeDrip(s Stroke, radius float64) {
	// A long hold keeps renewing the cooldown until the pointer moves.
	if s.Hold > cooldownCutoff && !b.Cooling(s.At) {
		b.cooldownUntil = s.At + dripCooldown
		return
	}
	if b.Cooling(s.At) {
		return
	}

	wet := s.Pressure * (1 - SpeedNorm(s.Speed))
	if s.Hold > wetHold {
		wet += 0.4
	}
	gap := dripBaseGap + time.Duration(float64(dripWetGap)*(1-clamp(wet, 0, 1)))
	if b.dripped && s.At-b.lastDrip < gap {
		return
	}
	if b.drips.Live() >= MaxLiveDrips {
		return
	}
	if b.rng.Float64() >= clamp(0.02+wet*0.25, 0, 0.35) {
		return
	}

	dx, dy := s.To.X-s.From.X, s.To.Y-s.From.Y
	ux, uy, nx, ny := 1.0, 0.0, 0.0, 1.0
	if length := math.Hypot(dx, dy); length > 1e-6 {
		ux, uy = dx/length, dy/length
		nx, ny = -uy, ux
		if ny < 0 {
			nx, ny = -nx, -ny
		}
	}

	count := min(3, 1+int(b.rng.Float64()*3))
	for range count {
		if b.drips.Live() >= MaxLiveDrips {
			break
		}
		r := radius * between(b.rng, 0.16, 0.40)
		off := radius * between(b.rng, 0.5, 0.9)
		along := (b.rng.Float64() - 0.5) * radius * 0.5
		b.drips.Spawn(s.To.X+nx*off+ux*along, s.To.Y+ny*off+uy*along, r, s.Color)
	}
	b.lastDrip = s.At
	b.dripped = true
}
