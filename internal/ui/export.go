package ui

import (
	"fmt"
	"log"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"
	"github.com/google/uuid"
)

// SaveExport asks for a destination and writes the board there as JPEG
// or PDF.
func SaveExport(win fyne.Window, board *BoardWidget, asPDF bool) {
	save := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil {
			dialog.ShowError(err, win)
			return
		}
		if writer == nil {
			return // cancelled
		}
		defer func() {
			if err := writer.Close(); err != nil {
				log.Printf("[UI] Error closing writer: %v", err)
			}
		}()

		if asPDF {
			err = board.ExportPDF(writer)
		} else {
			var data []byte
			if data, err = board.Export(); err == nil {
				_, err = writer.Write(data)
			}
		}
		if err != nil {
			log.Printf("[EXPORT] Saving %s failed: %v", writer.URI().Name(), err)
			dialog.ShowError(err, win)
			return
		}
		board.SetStatus(fmt.Sprintf("Saved %s", writer.URI().Name()))
	}, win)
	save.SetFileName(exportName(asPDF))
	save.Show()
}

func exportName(asPDF bool) string {
	ext := ".jpg"
	if asPDF {
		ext = ".pdf"
	}
	return "graffiti-" + uuid.NewString()[:8] + ext
}
