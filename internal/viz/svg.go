package viz

import (
	"bufio"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

// WriteSVG draws every lit dot of the canvas as a circle, scale pixels per
// dot, in fg over a bg background.
func (c *Canvas) WriteSVG(w io.Writer, scale float64, fg, bg lipgloss.Color) error {
	if scale <= 0 {
		return fmt.Errorf("svg: scale must be positive, got %g", scale)
	}
	width := float64(2*c.Width) * scale
	height := float64(4*c.Height) * scale

	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="%s"/>
<g fill="%s">
`, width, height, width, height, bg, fg)

	r := scale * 0.4
	for row := 0; row < c.Height; row++ {
		for col := 0; col < c.Width; col++ {
			bits := c.cells[row*c.Width+col] - brailleBlank
			if bits == 0 {
				continue
			}
			for dy := 0; dy < 4; dy++ {
				for dx := 0; dx < 2; dx++ {
					if bits&dotBits[dy][dx] == 0 {
						continue
					}
					cx := (float64(2*col+dx) + 0.5) * scale
					cy := (float64(4*row+dy) + 0.5) * scale
					fmt.Fprintf(bw, "<circle cx=\"%.1f\" cy=\"%.1f\" r=\"%.1f\"/>\n", cx, cy, r)
				}
			}
		}
	}
	bw.WriteString("</g>\n</svg>\n")
	return bw.Flush()
}
