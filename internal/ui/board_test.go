package ui

import (
	"bytes"
	"image"
	"image/jpeg"
	"strings"
	"testing"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"SprayBoard/internal/config"
	"SprayBoard/internal/engine"
	"SprayBoard/internal/paint"
)

func newLocalBoard(t *testing.T) (*BoardWidget, *engine.Engine) {
	t.Helper()
	test.NewTempApp(t)
	cfg := config.Default()
	cfg.Width, cfg.Height = 480, 320
	eng := engine.New(cfg, paint.NewRandom(1))
	b := NewBoardWidget(eng)
	var now time.Duration
	b.Clock = func() time.Duration {
		now += 16 * time.Millisecond
		return now
	}
	return b, eng
}

func press(x, y float32) *desktop.MouseEvent {
	return &desktop.MouseEvent{
		PointEvent: fyne.PointEvent{Position: fyne.NewPos(x, y)},
		Button:     desktop.MouseButtonPrimary,
	}
}

func drag(x, y float32) *fyne.DragEvent {
	return &fyne.DragEvent{PointEvent: fyne.PointEvent{Position: fyne.NewPos(x, y)}}
}

func TestLocalBoardPaints(t *testing.T) {
	b, eng := newLocalBoard(t)
	settled := 0
	b.OnSettle = func() { settled++ }

	b.MouseDown(press(50, 50))
	b.Dragged(drag(120, 50))
	b.Dragged(drag(160, 80))
	b.MouseUp(press(160, 80))

	assert.True(t, eng.HasPainted())
	assert.True(t, eng.CanUndo())
	assert.False(t, eng.Drawing())
	assert.Equal(t, 1, settled)
	assert.Equal(t, engine.Signals{HasPainted: true, CanUndo: true}, b.Signals())
	assert.NotZero(t, eng.Surface().Image().RGBAAt(100, 50).A)

	// A drag ending after the button came up is not a second gesture.
	b.DragEnd()
	assert.Equal(t, 1, settled)

	b.Undo()
	assert.Equal(t, 2, settled)
	assert.False(t, eng.CanUndo())
	assert.True(t, eng.Unlocked())

	b.Clear()
	assert.Equal(t, 3, settled)
	assert.False(t, eng.HasPainted())
}

func TestLocalBoardIgnoresSecondaryButton(t *testing.T) {
	b, eng := newLocalBoard(t)
	b.MouseDown(&desktop.MouseEvent{
		PointEvent: fyne.PointEvent{Position: fyne.NewPos(50, 50)},
		Button:     desktop.MouseButtonSecondary,
	})
	b.Dragged(drag(80, 50))
	assert.False(t, eng.HasPainted())
}

func TestLocalBoardSettings(t *testing.T) {
	b, eng := newLocalBoard(t)
	b.SetColor("#e63946")
	b.SetBrushSize(999)
	assert.Equal(t, "#e63946", eng.Session().ColorSpec)
	assert.Equal(t, float64(config.MaxBrushSize), eng.Brush().CapRadius)

	b.MouseDown(press(200, 200))
	b.Tick()
	b.DragEnd()
	data, err := b.Export()
	require.NoError(t, err)
	cfg, err := jpeg.DecodeConfig(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 480, cfg.Width)

	var pdf bytes.Buffer
	require.NoError(t, b.ExportPDF(&pdf))
	assert.True(t, bytes.HasPrefix(pdf.Bytes(), []byte("%PDF")))
}

func TestRemoteBoardForwards(t *testing.T) {
	test.NewTempApp(t)
	b := NewRemoteBoard(480, 320)
	require.True(t, b.Remote())

	var events []engine.PointerEvent
	var colors []string
	undos, clears := 0, 0
	b.OnPointer = func(ev engine.PointerEvent) { events = append(events, ev) }
	b.OnColor = func(spec string) { colors = append(colors, spec) }
	b.OnUndo = func() { undos++ }
	b.OnClear = func() { clears++ }

	b.MouseDown(press(10, 20))
	b.Dragged(drag(30, 20))
	b.DragEnd()
	b.SetColor("#3498db")
	b.Undo()
	b.Clear()

	require.Len(t, events, 3)
	assert.Equal(t, engine.Down, events[0].Type)
	assert.Equal(t, engine.Move, events[1].Type)
	assert.Equal(t, 30.0, events[1].X)
	assert.Equal(t, engine.Up, events[2].Type)
	assert.Equal(t, []string{"#3498db"}, colors)
	assert.Equal(t, 1, undos)
	assert.Equal(t, 1, clears)

	_, err := b.Export()
	assert.Error(t, err)
	assert.Error(t, b.ExportPDF(&bytes.Buffer{}))
}

func TestRemoteBoardPreview(t *testing.T) {
	test.NewTempApp(t)
	b := NewRemoteBoard(480, 320)

	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 240, 160)), nil))
	b.SetPreview(buf.Bytes())
	assert.Eventually(t, func() bool {
		return b.image.Image.Bounds() == image.Rect(0, 0, 240, 160)
	}, time.Second, 10*time.Millisecond)

	b.SetPreview(nil)
	assert.Eventually(t, func() bool {
		return b.image.Image.Bounds() == image.Rect(0, 0, 480, 320)
	}, time.Second, 10*time.Millisecond)

	b.SetPreview([]byte("garbage"))
	assert.Equal(t, image.Rect(0, 0, 480, 320), b.image.Image.Bounds())
}

func TestToolbarFollowsSignals(t *testing.T) {
	b, _ := newLocalBoard(t)
	_, controls := NewToolbar(b, nil, 16)
	require.NotNil(t, controls.ExportJPG)
	assert.True(t, controls.Undo.Disabled())
	assert.True(t, controls.ExportJPG.Disabled())
	assert.True(t, controls.ExportPDF.Disabled())
	assert.False(t, controls.Clear.Disabled())

	b.MouseDown(press(50, 50))
	b.MouseUp(press(50, 50))
	assert.Eventually(t, func() bool {
		return !controls.Undo.Disabled() && !controls.ExportJPG.Disabled()
	}, time.Second, 10*time.Millisecond)

	b.Undo()
	assert.Eventually(t, func() bool { return controls.Undo.Disabled() }, time.Second, 10*time.Millisecond)
	assert.False(t, controls.ExportPDF.Disabled(), "undo keeps the painted flag")
}

func TestRemoteToolbar(t *testing.T) {
	test.NewTempApp(t)
	b := NewRemoteBoard(480, 320)
	_, controls := NewToolbar(b, nil, 16)
	assert.Nil(t, controls.ExportJPG)
	assert.True(t, controls.Undo.Disabled())

	b.SetRemoteSignals(engine.Signals{HasPainted: true, CanUndo: true})
	assert.Eventually(t, func() bool { return !controls.Undo.Disabled() }, time.Second, 10*time.Millisecond)
}

func TestExportName(t *testing.T) {
	jpg := exportName(false)
	assert.True(t, strings.HasPrefix(jpg, "graffiti-"))
	assert.True(t, strings.HasSuffix(jpg, ".jpg"))
	assert.Len(t, jpg, len("graffiti-")+8+len(".jpg"))
	assert.True(t, strings.HasSuffix(exportName(true), ".pdf"))
	assert.NotEqual(t, jpg, exportName(false))
}
