package paint

import (
	"math"
	"time"
)

const (
	// StationarySpeed is the speed (px/s) below which the pointer counts as held still.
	StationarySpeed = 20.0
	// HoldCeiling bounds the hold accumulator so long holds cannot make
	// the brush arbitrarily wet.
	HoldCeiling = 2000 * time.Millisecond
	// DefaultSmoothing is the pressure average a fresh session starts from.
	DefaultSmoothing = 0.6

	speedScale = 600.0
	holdScale  = 900 * time.Millisecond
)

// Point is a pointer sample in surface coordinates. Pressure is in [0,1],
// with 0 meaning the device reported nothing.
type Point struct {
	X, Y     float64
	Pressure float64
}

// Segment is the piece of stroke between two consecutive samples.
type Segment struct {
	From, To Point
	Speed    float64 // px/s
}

// Motion describes one pointer move as seen by the Estimator.
type Motion struct {
	Distance float64
	Elapsed  time.Duration
	Speed    float64
}

// SpeedNorm maps a speed in px/s onto [0,1].
func SpeedNorm(speed float64) float64 {
	return clamp(speed/speedScale, 0, 1)
}

// HoldNorm maps the hold accumulator onto [0,1].
func HoldNorm(hold time.Duration) float64 {
	return clamp(float64(hold)/float64(holdScale), 0, 1)
}

// Estimator derives speed, hold time and a smoothed pressure from raw
// pointer samples. Touch screens usually report no pressure at all, so
// pressure is synthesized from slowness and dwell time when missing.
type Estimator struct {
	Speed    float64
	Hold     time.Duration
	Smoothed float64
	LastTime time.Duration
}

func NewEstimator() Estimator {
	return Estimator{Smoothed: DefaultSmoothing}
}

// Begin starts a gesture at the given time.
func (e *Estimator) Begin(at time.Duration) {
	e.LastTime = at
	e.Hold = 0
	e.Speed = 0
}

// Move accounts for a pointer move from one sample to the next.
func (e *Estimator) Move(from, to Point, at time.Duration) Motion {
	dist := math.Hypot(to.X-from.X, to.Y-from.Y)
	elapsed := max(time.Millisecond, at-e.LastTime)
	speed := math.Max(dist, 1) / elapsed.Seconds()
	e.advance(speed, elapsed, at)
	return Motion{Distance: dist, Elapsed: elapsed, Speed: speed}
}

// Stationary accounts for time spent without any pointer movement.
func (e *Estimator) Stationary(at time.Duration) {
	e.advance(0, max(time.Millisecond, at-e.LastTime), at)
}

func (e *Estimator) advance(speed float64, elapsed, at time.Duration) {
	e.Speed = speed
	e.LastTime = at
	if speed < StationarySpeed {
		e.Hold = min(HoldCeiling, e.Hold+elapsed)
	} else {
		e.Hold = 0
	}
}

// Effective returns the instantaneous pressure for a sample. A genuine
// device reading wins; otherwise it is estimated from speed and hold.
func (e *Estimator) Effective(native float64) float64 {
	if native > 0 {
		return clamp(native, 0, 1)
	}
	p := 0.25 + (1-SpeedNorm(e.Speed))*0.55 + HoldNorm(e.Hold)*0.2
	return clamp(p, 0.05, 1)
}

// Pressure folds the sample into the running average and returns it.
func (e *Estimator) Pressure(native float64) float64 {
	e.Smoothed = e.Smoothed*0.7 + e.Effective(native)*0.3
	return e.Smoothed
}
