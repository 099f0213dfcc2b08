package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/flowsynth/internal/augment"
	"github.com/san-kum/flowsynth/internal/field"
)

type HeatmapOptions struct {
	MaxWidth  int
	MaxHeight int
	Colormap  Colormap
	// Lo and Hi fix the colour range. Equal values mean the slice range.
	Lo, Hi float64
}

func DefaultHeatmapOptions() HeatmapOptions {
	return HeatmapOptions{MaxWidth: 64, MaxHeight: 32, Colormap: CmapDiverging}
}

// Heatmap renders slice t of f with x to the right and y upwards. Large
// grids are strided down to fit the options; sensors in the original frame
// are drawn as ◆ in the cell that contains them.
func Heatmap(f *field.Field, t int, sensors []augment.Coord, opts HeatmapOptions) string {
	if t < 0 || t >= f.T || f.Nx == 0 || f.Ny == 0 {
		return ""
	}
	if opts.MaxWidth <= 0 || opts.MaxHeight <= 0 {
		d := DefaultHeatmapOptions()
		opts.MaxWidth, opts.MaxHeight = d.MaxWidth, d.MaxHeight
	}
	if len(opts.Colormap.Stops) == 0 {
		opts.Colormap = CmapDiverging
	}

	slice := f.Slice(t)
	lo, hi := opts.Lo, opts.Hi
	if lo == hi {
		lo, hi = floats.Min(slice), floats.Max(slice)
	}
	norm := normalizer(lo, hi)

	sx := ceilDiv(f.Nx, opts.MaxWidth)
	sy := ceilDiv(f.Ny, opts.MaxHeight)
	cols, rows := ceilDiv(f.Nx, sx), ceilDiv(f.Ny, sy)

	marked := make(map[[2]int]bool, len(sensors))
	for _, s := range sensors {
		if s.Row >= 0 && s.Row < f.Nx && s.Col >= 0 && s.Col < f.Ny {
			marked[[2]int{s.Row / sx, s.Col / sy}] = true
		}
	}

	var b strings.Builder
	for r := rows - 1; r >= 0; r-- {
		j := r * sy
		for c := 0; c < cols; c++ {
			i := c * sx
			colour := opts.Colormap.At(norm(slice[i*f.Ny+j]))
			if marked[[2]int{c, r}] {
				b.WriteString(sensorStyle.Background(colour).Render("◆"))
				continue
			}
			b.WriteString(lipgloss.NewStyle().Foreground(colour).Render("█"))
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func ceilDiv(a, b int) int {
	if b <= 0 {
		return a
	}
	return (a + b - 1) / b
}
