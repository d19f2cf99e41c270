package paint

import "math"

const (
	// MaxLiveDrips caps how many drips may run at once.
	MaxLiveDrips = 48
	// purgeThreshold is the collection size at which dead drips are dropped.
	purgeThreshold = 100
	minDripRadius  = 0.4
)

// Drip is a run of paint sliding down the surface.
type Drip struct {
	X             float64
	Y, PrevY      float64
	Radius        float64
	InitialRadius float64
	VelocityY     float64
	AccelerationY float64
	Travelled     float64
	MaxTravel     float64
	Color         Color
	Alive         bool
}

// Progress is how far along its run the drip is, in [0,1].
func (d *Drip) Progress() float64 {
	if d.MaxTravel <= 0 {
		return 1
	}
	return clamp(d.Travelled/d.MaxTravel, 0, 1)
}

// DripSim owns every drip and advances them one frame at a time.
type DripSim struct {
	rng   Random
	drips []*Drip
	live  int
}

func NewDripSim(rng Random) *DripSim {
	return &DripSim{rng: rng}
}

// Spawn starts a drip of the given radius at (x,y). Gravity, initial
// fall speed and run length are randomized so drips don't look uniform.
func (s *DripSim) Spawn(x, y, radius float64, c Color) *Drip {
	d := &Drip{
		X:             x,
		Y:             y,
		PrevY:         y,
		Radius:        radius,
		InitialRadius: radius,
		VelocityY:     between(s.rng, 10, 40),
		AccelerationY: between(s.rng, 1200, 1600),
		MaxTravel:     radius * between(s.rng, 6, 20),
		Color:         c,
		Alive:         true,
	}
	s.drips = append(s.drips, d)
	s.live++
	return d
}

// Step advances every live drip by dt seconds and paints the distance
// each one covered.
func (s *DripSim) Step(dt float64, surf *Surface) {
	if len(s.drips) == 0 {
		return
	}
	height := float64(surf.Height())
	for _, d := range s.drips {
		if !d.Alive {
			continue
		}
		d.VelocityY += d.AccelerationY * dt
		d.PrevY = d.Y
		d.Y += d.VelocityY * dt
		d.Travelled = min(d.MaxTravel, d.Travelled+math.Abs(d.Y-d.PrevY))
		t := d.Progress()
		d.Radius = min(d.Radius, max(minDripRadius, d.InitialRadius*(1-t*0.9)))

		surf.Capsule(d.X, d.PrevY, d.X, d.Y, d.Radius, d.Color.NRGBA(0.9*(1-t*0.4)))

		if t >= 1 || d.Y > height {
			d.Alive = false
			s.live--
		}
	}
	if len(s.drips) > purgeThreshold {
		s.purge()
	}
}

func (s *DripSim) purge() {
	kept := s.drips[:0]
	for _, d := range s.drips {
		if d.Alive {
			kept = append(kept, d)
		}
	}
	clear(s.drips[len(kept):])
	s.drips = kept
}

// Live counts drips still running.
func (s *DripSim) Live() int { return s.live }

// Len counts every drip still held, dead ones included.
func (s *DripSim) Len() int { return len(s.drips) }

// Drips exposes the drip collection for inspection.
func (s *DripSim) Drips() []*Drip { return s.drips }

// Reset drops all drips.
func (s *DripSim) Reset() {
	s.drips = nil
	s.live = 0
}
