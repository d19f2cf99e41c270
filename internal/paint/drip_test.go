package paint

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const frame = 1.0 / 60

func TestDripLifecycle(t *testing.T) {
	surf := NewSurface(200, 2000)
	sim := NewDripSim(NewRandom(42))
	d := sim.Spawn(100, 50, 5, Color{R: 200})

	require.True(t, d.Alive)
	assert.GreaterOrEqual(t, d.AccelerationY, 1200.0)
	assert.Less(t, d.AccelerationY, 1600.0)
	assert.GreaterOrEqual(t, d.VelocityY, 10.0)
	assert.Less(t, d.VelocityY, 40.0)
	assert.GreaterOrEqual(t, d.MaxTravel, 5*6.0)
	assert.Less(t, d.MaxTravel, 5*20.0)

	prev := d.Radius
	steps := 0
	for d.Alive {
		sim.Step(frame, surf)
		steps++
		require.Less(t, steps, 1000, "drip never died")

		assert.LessOrEqual(t, d.Radius, prev, "radius never grows")
		assert.Greater(t, d.Radius, 0.0)
		assert.GreaterOrEqual(t, d.Travelled, 0.0)
		assert.LessOrEqual(t, d.Travelled, d.MaxTravel)
		prev = d.Radius
	}
	assert.Equal(t, d.MaxTravel, d.Travelled)
	assert.InDelta(t, 0.5, d.Radius, 1e-9, "tapers to a tenth")
	assert.Equal(t, 0, sim.Live())

	// The run is painted below the spawn point.
	assert.NotZero(t, surf.Image().RGBAAt(100, 55).A)
}

func TestDripFallsOffTheBottom(t *testing.T) {
	surf := NewSurface(100, 100)
	sim := NewDripSim(NewRandom(3))
	d := sim.Spawn(50, 95, 30, Color{})

	for range 100 {
		sim.Step(frame, surf)
		if !d.Alive {
			break
		}
	}
	assert.False(t, d.Alive)
	assert.Greater(t, d.Y, 100.0)
	assert.Less(t, d.Travelled, d.MaxTravel)
}

func TestDripTinyRadiusStaysMonotonic(t *testing.T) {
	surf := NewSurface(100, 1000)
	sim := NewDripSim(NewRandom(9))
	d := sim.Spawn(50, 0, 0.3, Color{})

	for d.Alive {
		sim.Step(frame, surf)
		assert.LessOrEqual(t, d.Radius, 0.3)
	}
}

func TestDripPurge(t *testing.T) {
	surf := NewSurface(100, 100)
	sim := NewDripSim(NewRandom(5))
	for range purgeThreshold {
		sim.Spawn(10, 500, 2, Color{})
	}
	sim.Step(frame, surf)
	assert.Equal(t, 0, sim.Live())
	assert.Equal(t, purgeThreshold, sim.Len(), "dead drips linger below the threshold")

	sim.Spawn(10, 500, 2, Color{})
	keep := sim.Spawn(10, 10, 2, Color{})
	sim.Step(frame, surf)
	assert.Equal(t, 1, sim.Live())
	assert.Equal(t, []*Drip{keep}, sim.Drips())

	sim.Reset()
	assert.Equal(t, 0, sim.Len())
}

func TestDripDeterministic(t *testing.T) {
	run := func() []float64 {
		surf := NewSurface(100, 1000)
		sim := NewDripSim(NewRandom(11))
		d := sim.Spawn(50, 10, 4, Color{})
		var ys []float64
		for d.Alive {
			sim.Step(frame, surf)
			ys = append(ys, d.Y)
		}
		return ys
	}
	assert.Equal(t, run(), run())
}
