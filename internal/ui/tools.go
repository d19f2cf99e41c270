package ui

import (
	"image/color"

	"SprayBoard/internal/config"
	"SprayBoard/internal/engine"
	"SprayBoard/internal/paint"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

// Palette is the set of cans on offer.
var Palette = []string{"#111111", "#e63946", "#f1c40f", "#2ecc71", "#3498db", "#ffffff"}

// --- Custom Widget for Color Swatches ---
type colorSwatch struct {
	widget.BaseWidget
	Spec     string
	OnTapped func(spec string)
}

func newColorSwatch(spec string, tapped func(string)) *colorSwatch {
	s := &colorSwatch{Spec: spec, OnTapped: tapped}
	s.ExtendBaseWidget(s)
	return s
}

func (s *colorSwatch) CreateRenderer() fyne.WidgetRenderer {
	c := paint.ParseColor(s.Spec)
	rect := canvas.NewRectangle(color.NRGBA{R: c.R, G: c.G, B: c.B, A: 255})
	rect.SetMinSize(fyne.NewSize(32, 32))

	border := canvas.NewRectangle(color.Transparent)
	border.StrokeColor = color.Gray{Y: 150}
	border.StrokeWidth = 1

	return widget.NewSimpleRenderer(container.NewStack(rect, border))
}

func (s *colorSwatch) Tapped(_ *fyne.PointEvent) {
	if s.OnTapped != nil {
		s.OnTapped(s.Spec)
	}
}

// Controls are the toolbar buttons whose state follows the board signals.
type Controls struct {
	Undo      *widget.Button
	Clear     *widget.Button
	ExportJPG *widget.Button
	ExportPDF *widget.Button
}

// Update enables or disables the buttons for s.
func (c *Controls) Update(s engine.Signals) {
	setEnabled(c.Undo, s.CanUndo)
	setEnabled(c.ExportJPG, s.HasPainted)
	setEnabled(c.ExportPDF, s.HasPainted)
}

func setEnabled(b *widget.Button, on bool) {
	if b == nil {
		return
	}
	if on {
		b.Enable()
	} else {
		b.Disable()
	}
}

// --- The Main Toolbar ---
func NewToolbar(board *BoardWidget, win fyne.Window, brushSize int) (fyne.CanvasObject, *Controls) {
	controls := &Controls{
		Undo:  widget.NewButtonWithIcon("Undo", theme.ContentUndoIcon(), board.Undo),
		Clear: widget.NewButtonWithIcon("Clear", theme.ContentClearIcon(), board.Clear),
	}

	swatches := container.NewHBox()
	for _, spec := range Palette {
		swatches.Add(newColorSwatch(spec, board.SetColor))
	}

	items := []fyne.CanvasObject{
		widget.NewLabel("Color:"),
		swatches,
		widget.NewSeparator(),
	}
	if !board.Remote() {
		sizeSlider := widget.NewSlider(config.MinBrushSize, config.MaxBrushSize)
		sizeSlider.Step = 1
		sizeSlider.SetValue(float64(brushSize))
		sizeSlider.OnChanged = func(val float64) {
			board.SetBrushSize(int(val))
		}
		sliderContainer := container.New(layout.NewGridWrapLayout(fyne.NewSize(150, 35)), sizeSlider)
		items = append(items, widget.NewLabel("Size:"), sliderContainer, widget.NewSeparator())
	}
	items = append(items, controls.Undo, controls.Clear)
	if !board.Remote() {
		controls.ExportJPG = widget.NewButtonWithIcon("JPEG", theme.DocumentSaveIcon(), func() {
			SaveExport(win, board, false)
		})
		controls.ExportPDF = widget.NewButtonWithIcon("PDF", theme.DocumentPrintIcon(), func() {
			SaveExport(win, board, true)
		})
		items = append(items, controls.ExportJPG, controls.ExportPDF)
	}
	items = append(items, layout.NewSpacer())

	board.Subscribe(controls.Update)
	return container.NewHBox(items...), controls
}
