package export

import (
	"bytes"
	"fmt"
	"io"

	"github.com/jung-kurt/gofpdf"
)

const pdfMargin = 10.0 // mm

// PDF places an exported JPEG of w×h pixels on a single A4 page, scaled
// to fit inside the margins.
func PDF(out io.Writer, jpegData []byte, w, h int) error {
	orientation := "P"
	if w > h {
		orientation = "L"
	}
	p := gofpdf.New(orientation, "mm", "A4", "")
	p.SetTitle("SprayBoard export", true)
	p.AddPage()

	pageW, pageH := p.GetPageSize()
	boxW, boxH := pageW-2*pdfMargin, pageH-2*pdfMargin
	scale := min(boxW/float64(w), boxH/float64(h))
	drawW, drawH := float64(w)*scale, float64(h)*scale

	opt := gofpdf.ImageOptions{ImageType: "JPG"}
	p.RegisterImageOptionsReader("graffiti", opt, bytes.NewReader(jpegData))
	p.ImageOptions("graffiti", (pageW-drawW)/2, (pageH-drawH)/2, drawW, drawH, false, opt, 0, "")

	if err := p.Output(out); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}
