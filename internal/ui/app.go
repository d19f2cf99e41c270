package ui

import (
	"context"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
)

// RunApp opens the main window around board and blocks until it closes.
func RunApp(board *BoardWidget, brushSize int, shareLink string) {
	myApp := app.NewWithID("io.sprayboard.app")
	myWindow := myApp.NewWindow("SprayBoard")
	myWindow.Resize(fyne.NewSize(1024, 800))

	toolbar, _ := NewToolbar(board, myWindow, brushSize)

	bottom := container.NewVBox(board.statusBar)
	if shareLink != "" {
		link := widget.NewEntry()
		link.SetText(shareLink)
		bottom.Add(container.NewBorder(nil, nil, widget.NewLabel("Share:"), nil, link))
	}

	board.OnUnlock = func() {
		fyne.Do(func() {
			dialog.ShowInformation("Unlocked", "Nice save. The rest of the wall is yours.", myWindow)
		})
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go board.Run(ctx)

	myWindow.SetContent(container.NewBorder(toolbar, bottom, nil, nil, board))
	myWindow.ShowAndRun()
}
