package render

import "image"

// PDF pages are A4 portrait: 210mm x 297mm. Documents render to HTML at
// 96dpi, so one page of content is a fixed pixel window on the rasterized
// capture and tall documents slice vertically into as many pages as needed.
const (
	PageWidthMM  = 210.0
	PageHeightMM = 297.0

	renderDPI = 96.0
	mmPerInch = 25.4

	// A4 at 96dpi.
	PageWidthPx  = 794
	PageHeightPx = 1123
)

// PageCount returns how many pages a capture of the given pixel height
// fills. Zero-height captures still produce one blank page.
func PageCount(captureHeightPx int) int {
	if captureHeightPx <= 0 {
		return 1
	}
	pages := captureHeightPx / PageHeightPx
	if captureHeightPx%PageHeightPx != 0 {
		pages++
	}
	return pages
}

// PageSlices returns the crop rectangle of each page in capture pixel
// coordinates. The final slice may be shorter than a full page; the PDF
// assembler letterboxes it against a white page.
func PageSlices(captureWidthPx, captureHeightPx int) []image.Rectangle {
	count := PageCount(captureHeightPx)
	slices := make([]image.Rectangle, 0, count)
	for i := 0; i < count; i++ {
		top := i * PageHeightPx
		bottom := top + PageHeightPx
		if bottom > captureHeightPx {
			bottom = captureHeightPx
		}
		if bottom <= top {
			bottom = top + 1
		}
		slices = append(slices, image.Rect(0, top, captureWidthPx, bottom))
	}
	return slices
}

// PxToMM converts capture pixels to millimetres on the PDF page.
func PxToMM(px int) float64 {
	return float64(px) / renderDPI * mmPerInch
}
