package ui

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"io"
	"log"
	"sync"
	"time"

	"SprayBoard/internal/engine"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
)

const frameInterval = time.Second / 60

// BoardWidget shows the spray surface and feeds it pointer input. A board
// built without an engine is a remote brush: it forwards input through
// OnPointer and shows previews pushed by the host.
type BoardWidget struct {
	widget.BaseWidget
	mu        sync.Mutex
	engine    *engine.Engine
	image     *canvas.Image
	surface   image.Point
	drawing   bool
	start     time.Time
	listeners []func(engine.Signals)
	signals   engine.Signals
	statusBar *widget.Label

	// Clock returns the time stamped on pointer events.
	Clock func() time.Duration

	OnPointer func(ev engine.PointerEvent)
	OnColor   func(spec string)
	OnUndo    func()
	OnClear   func()
	// OnSettle is called after a gesture ends, an undo, or a clear.
	OnSettle func()
	OnUnlock func()
}

var _ fyne.Widget = (*BoardWidget)(nil)
var _ fyne.Draggable = (*BoardWidget)(nil)
var _ desktop.Mouseable = (*BoardWidget)(nil)

// NewBoardWidget wraps a local engine.
func NewBoardWidget(eng *engine.Engine) *BoardWidget {
	surf := eng.Surface()
	b := newBoard(surf.Width(), surf.Height())
	b.engine = eng
	b.image.Image = surf.Image()
	eng.OnChange = b.notify
	eng.OnUnlock = func() {
		if b.OnUnlock != nil {
			b.OnUnlock()
		}
	}
	return b
}

// NewRemoteBoard creates a board that drives a host's engine.
func NewRemoteBoard(width, height int) *BoardWidget {
	b := newBoard(width, height)
	b.image.Image = image.NewRGBA(image.Rect(0, 0, width, height))
	return b
}

func newBoard(width, height int) *BoardWidget {
	b := &BoardWidget{
		surface:   image.Pt(width, height),
		start:     time.Now(),
		statusBar: widget.NewLabel("Ready"),
		image:     &canvas.Image{FillMode: canvas.ImageFillStretch, ScaleMode: canvas.ImageScaleFastest},
	}
	b.Clock = func() time.Duration { return time.Since(b.start) }
	b.image.SetMinSize(fyne.NewSize(float32(width)/2, float32(height)/2))
	b.ExtendBaseWidget(b)
	return b
}

// Remote reports whether this board forwards to a host.
func (b *BoardWidget) Remote() bool { return b.engine == nil }

// Subscribe registers fn for signal changes and calls it once right away.
func (b *BoardWidget) Subscribe(fn func(engine.Signals)) {
	b.mu.Lock()
	b.listeners = append(b.listeners, fn)
	s := b.signals
	b.mu.Unlock()
	fn(s)
}

// Signals returns the last known signals.
func (b *BoardWidget) Signals() engine.Signals {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.signals
}

// notify runs with b.mu held, from inside an engine call.
func (b *BoardWidget) notify(s engine.Signals) {
	b.signals = s
	listeners := append([]func(engine.Signals){}, b.listeners...)
	fyne.Do(func() {
		for _, fn := range listeners {
			fn(s)
		}
	})
}

// SetRemoteSignals records signals reported by the host.
func (b *BoardWidget) SetRemoteSignals(s engine.Signals) {
	b.mu.Lock()
	b.notify(s)
	b.mu.Unlock()
}

func (b *BoardWidget) SetStatus(text string) {
	fyne.Do(func() {
		b.statusBar.SetText(text)
	})
}

func (b *BoardWidget) SetColor(spec string) {
	if b.engine == nil {
		if b.OnColor != nil {
			b.OnColor(spec)
		}
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.engine.SetColor(spec)
}

func (b *BoardWidget) SetBrushSize(size int) {
	if b.engine == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.engine.SetBrushSize(size)
}

// --- Pointer input ---

func (b *BoardWidget) MouseDown(e *desktop.MouseEvent) {
	if e.Button != desktop.MouseButtonPrimary {
		return
	}
	b.drawing = true
	b.pointer(engine.Down, e.Position)
}

func (b *BoardWidget) Dragged(e *fyne.DragEvent) {
	if b.drawing {
		b.pointer(engine.Move, e.Position)
	}
}

func (b *BoardWidget) MouseUp(e *desktop.MouseEvent) {
	if e.Button == desktop.MouseButtonPrimary && b.drawing {
		b.drawing = false
		b.pointer(engine.Up, e.Position)
	}
}

func (b *BoardWidget) DragEnd() {
	if b.drawing {
		b.drawing = false
		b.pointer(engine.Up, fyne.Position{})
	}
}

func (b *BoardWidget) pointer(t engine.EventType, pos fyne.Position) {
	x, y := b.toSurface(pos)
	ev := engine.PointerEvent{Type: t, X: x, Y: y, Time: b.Clock()}
	if b.engine == nil {
		if b.OnPointer != nil {
			b.OnPointer(ev)
		}
		return
	}
	b.apply(ev)
}

// toSurface maps widget coordinates onto surface pixels.
func (b *BoardWidget) toSurface(pos fyne.Position) (float64, float64) {
	size := b.Size()
	if size.Width <= 0 || size.Height <= 0 {
		return float64(pos.X), float64(pos.Y)
	}
	return float64(pos.X) * float64(b.surface.X) / float64(size.Width),
		float64(pos.Y) * float64(b.surface.Y) / float64(size.Height)
}

// ApplyRemote applies an event from a remote brush, re-stamped with the
// local clock so it shares a timeline with local input.
func (b *BoardWidget) ApplyRemote(ev engine.PointerEvent) {
	ev.Time = b.Clock()
	fyne.Do(func() { b.apply(ev) })
}

func (b *BoardWidget) apply(ev engine.PointerEvent) {
	b.mu.Lock()
	wasDrawing := b.engine.Drawing()
	b.engine.HandlePointer(ev)
	b.mu.Unlock()
	b.image.Refresh()

	if wasDrawing && (ev.Type == engine.Up || ev.Type == engine.Cancel) && b.OnSettle != nil {
		b.OnSettle()
	}
}

// Async runs fn on the UI goroutine, where the engine is driven.
func (b *BoardWidget) Async(fn func()) {
	fyne.Do(fn)
}

// --- Commands ---

func (b *BoardWidget) Undo() {
	if b.engine == nil {
		if b.OnUndo != nil {
			b.OnUndo()
		}
		return
	}
	b.mu.Lock()
	undone := b.engine.Undo()
	b.mu.Unlock()
	if undone {
		b.image.Refresh()
		if b.OnSettle != nil {
			b.OnSettle()
		}
	}
}

func (b *BoardWidget) Clear() {
	if b.engine == nil {
		if b.OnClear != nil {
			b.OnClear()
		}
		return
	}
	b.mu.Lock()
	b.engine.Clear()
	b.mu.Unlock()
	b.image.Refresh()
	if b.OnSettle != nil {
		b.OnSettle()
	}
}

// Export returns the composited JPEG.
func (b *BoardWidget) Export() ([]byte, error) {
	if b.engine == nil {
		return nil, fmt.Errorf("remote boards cannot export")
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.engine.Export()
}

// ExportPDF writes the composited image as a one page PDF.
func (b *BoardWidget) ExportPDF(w io.Writer) error {
	if b.engine == nil {
		return fmt.Errorf("remote boards cannot export")
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.engine.ExportPDF(w)
}

// SetPreview shows a JPEG pushed by the host. An empty preview means
// the host's wall is blank.
func (b *BoardWidget) SetPreview(data []byte) {
	var img image.Image = image.NewRGBA(image.Rectangle{Max: b.surface})
	if len(data) > 0 {
		decoded, err := jpeg.Decode(bytes.NewReader(data))
		if err != nil {
			log.Printf("[UI] Bad preview: %v", err)
			return
		}
		img = decoded
	}
	fyne.Do(func() {
		b.image.Image = img
		b.image.Refresh()
	})
}

// --- Frame loop ---

// Run ticks the engine at display rate until ctx is done.
func (b *BoardWidget) Run(ctx context.Context) {
	if b.engine == nil {
		return
	}
	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			fyne.Do(b.Tick)
		}
	}
}

// Tick advances the engine one frame and redraws if anything moved.
func (b *BoardWidget) Tick() {
	b.mu.Lock()
	busy := b.engine.Drawing() || b.engine.Drips().Live() > 0
	b.engine.Tick(b.Clock())
	b.mu.Unlock()
	if busy {
		b.image.Refresh()
	}
}

func (b *BoardWidget) CreateRenderer() fyne.WidgetRenderer {
	background := canvas.NewRectangle(color.White)
	return widget.NewSimpleRenderer(container.NewStack(background, b.image))
}

func (b *BoardWidget) MouseIn(*desktop.MouseEvent)    {}
func (b *BoardWidget) MouseOut()                      {}
func (b *BoardWidget) MouseMoved(*desktop.MouseEvent) {}
