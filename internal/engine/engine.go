package engine

import (
	"errors"
	"image"
	"io"
	"log"
	"math"
	"time"

	"SprayBoard/internal/config"
	"SprayBoard/internal/export"
	"SprayBoard/internal/paint"
	"SprayBoard/internal/state"
)

const (
	// SampleStep is the largest distance painted as a single segment.
	SampleStep = 2.0
	// HoldRepaint is how long the pointer must rest before the frame loop
	// repaints at the resting point.
	HoldRepaint = 70 * time.Millisecond

	minFrameDt = 0.001
	maxFrameDt = 0.05
)

// ErrNothingPainted is returned by exports before any paint landed.
var ErrNothingPainted = errors.New("nothing painted yet")

// Engine turns pointer events into spray paint on a surface. It is not
// safe for concurrent use; callers serialize access.
type Engine struct {
	session    *state.Session
	surface    *paint.Surface
	drips      *paint.DripSim
	brush      *paint.Brush
	history    state.History
	compositor *export.Compositor

	lastFrame time.Duration
	framed    bool
	unlocked  bool
	signals   Signals

	// OnChange is called whenever the signals change.
	OnChange func(Signals)
	// OnUnlock is called once, the first time an undo succeeds after painting.
	OnUnlock func()
}

// New builds an engine from a configuration. rng drives every random
// decision; pass a seeded source for reproducible output.
func New(cfg config.Config, rng paint.Random) *Engine {
	cfg.Clamp()
	surface := paint.NewSurface(cfg.Width, cfg.Height)
	drips := paint.NewDripSim(rng)
	e := &Engine{
		session:    state.NewSession(cfg.Color, float64(cfg.BrushSize)),
		surface:    surface,
		drips:      drips,
		brush:      paint.NewBrush(surface, drips, rng, float64(cfg.BrushSize), cfg.DeviceScale),
		compositor: export.NewCompositor(cfg.ExportMaxDim, cfg.ExportQuality),
	}
	log.Printf("[ENGINE] Session %s started (%dx%d)", e.session.ID, cfg.Width, cfg.Height)
	return e
}

func (e *Engine) Surface() *paint.Surface        { return e.surface }
func (e *Engine) Drips() *paint.DripSim          { return e.drips }
func (e *Engine) Brush() *paint.Brush            { return e.brush }
func (e *Engine) Session() *state.Session        { return e.session }
func (e *Engine) Compositor() *export.Compositor { return e.compositor }

// SetColor changes the current paint color.
func (e *Engine) SetColor(spec string) {
	e.session.SetColor(spec)
}

// SetBrushSize changes the brush cap radius, clamped to the slider range.
func (e *Engine) SetBrushSize(size int) {
	size = config.ClampBrush(size)
	e.session.CapRadius = float64(size)
	e.brush.CapRadius = float64(size)
}

// SetDeviceScale changes the per-device radius multiplier.
func (e *Engine) SetDeviceScale(scale float64) {
	e.brush.DeviceScale = config.ClampScale(scale)
}

// SetBackground sets the image exports are composited over.
func (e *Engine) SetBackground(img image.Image) {
	e.compositor.Background = img
}

// HandlePointer applies one pointer event and returns how many stroke
// segments it painted.
func (e *Engine) HandlePointer(ev PointerEvent) int {
	p := paint.Point{X: ev.X, Y: ev.Y, Pressure: ev.Pressure}
	var painted int
	switch ev.Type {
	case Down:
		painted = e.down(p, ev.Time)
	case Move:
		painted = e.move(p, ev.Time)
	case Up, Cancel:
		e.session.PointerDown = false
	}
	e.changed()
	return painted
}

func (e *Engine) down(p paint.Point, at time.Duration) int {
	gesture := e.session.BeginGesture(p)
	e.snapshot(gesture)
	e.session.Motion.Begin(at)
	e.stroke(p, p, at)
	return 1
}

func (e *Engine) move(p paint.Point, at time.Duration) int {
	if !e.session.PointerDown {
		return 0
	}
	from := e.session.LastPoint
	m := e.session.Motion.Move(from, p, at)

	steps := 1
	if m.Distance > SampleStep {
		steps = int(math.Ceil(m.Distance / SampleStep))
	}
	prev := from
	for i := 1; i <= steps; i++ {
		t := float64(i) / float64(steps)
		next := paint.Point{
			X:        from.X + (p.X-from.X)*t,
			Y:        from.Y + (p.Y-from.Y)*t,
			Pressure: p.Pressure,
		}
		e.stroke(prev, next, at)
		prev = next
	}
	e.session.LastPoint = p
	return steps
}

func (e *Engine) stroke(from, to paint.Point, at time.Duration) {
	motion := &e.session.Motion
	pressure := motion.Pressure(to.Pressure)
	e.brush.Paint(paint.Stroke{
		Segment:  paint.Segment{From: from, To: to, Speed: motion.Speed},
		Pressure: pressure,
		Hold:     motion.Hold,
		At:       at,
		Color:    e.session.Color,
	})
	e.session.HasPainted = true
}

// snapshot pushes the surface onto the history. A failed snapshot is
// skipped; undo then simply has less to restore.
func (e *Engine) snapshot(gesture string) {
	snap, err := e.surface.Snapshot()
	if err != nil {
		log.Printf("[HISTORY] Snapshot for %s skipped: %v", gesture, err)
		return
	}
	e.history.Push(snap)
}

// Tick advances the frame loop to now: drips move, and a pointer held
// still keeps spraying at its resting point.
func (e *Engine) Tick(now time.Duration) {
	dt := minFrameDt
	if e.framed {
		dt = math.Min(maxFrameDt, math.Max(minFrameDt, (now-e.lastFrame).Seconds()))
	}
	e.lastFrame = now
	e.framed = true

	e.drips.Step(dt, e.surface)

	if e.session.PointerDown && now-e.session.Motion.LastTime >= HoldRepaint {
		e.session.Motion.Stationary(now)
		p := e.session.LastPoint
		e.stroke(p, p, now)
		e.changed()
	}
}

// Undo restores the surface to how it was before the last gesture. It
// reports whether anything was undone.
func (e *Engine) Undo() bool {
	snap, ok := e.history.Pop()
	if !ok {
		return false
	}
	e.surface.Restore(snap)
	e.drips.Reset()
	if !e.unlocked && e.session.HasPainted {
		e.unlocked = true
		log.Printf("[ENGINE] Session %s unlocked", e.session.ID)
		if e.OnUnlock != nil {
			e.OnUnlock()
		}
	}
	e.changed()
	return true
}

// Clear wipes the surface and the history. This is not undoable.
func (e *Engine) Clear() {
	e.surface.Clear()
	e.history.Clear()
	e.drips.Reset()
	e.brush.Reset()
	e.session.Reset()
	e.changed()
}

// Signals returns the current control flags.
func (e *Engine) Signals() Signals {
	return Signals{
		HasPainted: e.session.HasPainted,
		CanUndo:    e.history.Len() > 0,
		Unlocked:   e.unlocked,
	}
}

func (e *Engine) HasPainted() bool { return e.session.HasPainted }
func (e *Engine) CanUndo() bool    { return e.history.Len() > 0 }
func (e *Engine) Unlocked() bool   { return e.unlocked }
func (e *Engine) Drawing() bool    { return e.session.PointerDown }

func (e *Engine) changed() {
	s := e.Signals()
	if s == e.signals {
		return
	}
	e.signals = s
	if e.OnChange != nil {
		e.OnChange(s)
	}
}

// Export returns the composited surface as JPEG bytes.
func (e *Engine) Export() ([]byte, error) {
	if !e.session.HasPainted {
		return nil, ErrNothingPainted
	}
	data, err := e.compositor.Encode(e.surface.Image())
	if err != nil {
		log.Printf("[EXPORT] Failed: %v", err)
		return nil, err
	}
	return data, nil
}

// ExportPDF writes the exported image on an A4 page.
func (e *Engine) ExportPDF(out io.Writer) error {
	data, err := e.Export()
	if err != nil {
		return err
	}
	w, h := e.compositor.Size(e.surface.Width(), e.surface.Height())
	return export.PDF(out, data, w, h)
}
