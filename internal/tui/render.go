package tui

import (
	"image"
	"strings"

	"github.com/charmbracelet/lipgloss"
	xdraw "golang.org/x/image/draw"
)

// RenderHalfBlocks renders an image as terminal text, two pixel rows per
// text row using the upper half block: the top pixel colors the foreground,
// the bottom pixel the background.
func RenderHalfBlocks(img image.Image, cols, rows int) string {
	if cols <= 0 || rows <= 0 {
		return ""
	}

	scaled := image.NewNRGBA(image.Rect(0, 0, cols, rows*2))
	xdraw.ApproxBiLinear.Scale(scaled, scaled.Bounds(), img, img.Bounds(), xdraw.Src, nil)

	var out strings.Builder
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			top := scaled.NRGBAAt(x, y*2)
			bottom := scaled.NRGBAAt(x, y*2+1)
			cell := lipgloss.NewStyle().
				Foreground(lipgloss.Color(hexColor(top.R, top.G, top.B))).
				Background(lipgloss.Color(hexColor(bottom.R, bottom.G, bottom.B)))
			out.WriteString(cell.Render("▀"))
		}
		if y < rows-1 {
			out.WriteByte('\n')
		}
	}
	return out.String()
}

const hexDigits = "0123456789abcdef"

func hexColor(r, g, b uint8) string {
	buf := [7]byte{'#',
		hexDigits[r>>4], hexDigits[r&0xf],
		hexDigits[g>>4], hexDigits[g&0xf],
		hexDigits[b>>4], hexDigits[b&0xf],
	}
	return string(buf[:])
}
