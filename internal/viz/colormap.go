package viz

import (
	"image/color"
	"math"
	"strconv"

	"github.com/charmbracelet/lipgloss"
)

// Colormap maps [0, 1] onto a piecewise linear ramp through Stops.
type Colormap struct {
	Name  string
	Stops []lipgloss.Color
}

var (
	CmapOcean = Colormap{
		Name:  "ocean",
		Stops: []lipgloss.Color{"#001a33", "#0077be", "#00a8cc", "#e0f0ff"},
	}

	CmapSunset = Colormap{
		Name:  "sunset",
		Stops: []lipgloss.Color{"#2d1b2e", "#ff6b6b", "#feca57", "#fff5f5"},
	}

	CmapDiverging = Colormap{
		Name:  "diverging",
		Stops: []lipgloss.Color{"#3b4cc0", "#dddddd", "#b40426"},
	}

	CmapGray = Colormap{
		Name:  "gray",
		Stops: []lipgloss.Color{"#000000", "#ffffff"},
	}

	Colormaps = []Colormap{CmapDiverging, CmapOcean, CmapSunset, CmapGray}
)

// GetColormap returns a colormap by name, falling back to diverging.
func GetColormap(name string) Colormap {
	for _, c := range Colormaps {
		if c.Name == name {
			return c
		}
	}
	return CmapDiverging
}

func ColormapNames() []string {
	names := make([]string, len(Colormaps))
	for i, c := range Colormaps {
		names[i] = c.Name
	}
	return names
}

// RGB returns the colour at v, clamped to [0, 1]. NaN maps to 0.
func (c Colormap) RGB(v float64) color.RGBA {
	if len(c.Stops) == 0 {
		return color.RGBA{A: 255}
	}
	if math.IsNaN(v) || v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}
	if len(c.Stops) == 1 {
		return parseHex(string(c.Stops[0]))
	}
	pos := v * float64(len(c.Stops)-1)
	k := int(pos)
	if k >= len(c.Stops)-1 {
		k = len(c.Stops) - 2
	}
	frac := pos - float64(k)
	a, b := parseHex(string(c.Stops[k])), parseHex(string(c.Stops[k+1]))
	lerp := func(x, y uint8) uint8 {
		return uint8(math.Round(float64(x) + frac*(float64(y)-float64(x))))
	}
	return color.RGBA{R: lerp(a.R, b.R), G: lerp(a.G, b.G), B: lerp(a.B, b.B), A: 255}
}

func (c Colormap) At(v float64) lipgloss.Color {
	return lipgloss.Color(hexColor(c.RGB(v)))
}

// Palette samples n colours evenly.
func (c Colormap) Palette(n int) color.Palette {
	p := make(color.Palette, n)
	for i := range p {
		v := 0.0
		if n > 1 {
			v = float64(i) / float64(n-1)
		}
		p[i] = c.RGB(v)
	}
	return p
}

func parseHex(hex string) color.RGBA {
	if len(hex) != 7 || hex[0] != '#' {
		return color.RGBA{R: 255, G: 255, B: 255, A: 255}
	}
	v, err := strconv.ParseUint(hex[1:], 16, 32)
	if err != nil {
		return color.RGBA{R: 255, G: 255, B: 255, A: 255}
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}
}

func hexColor(c color.RGBA) string {
	const hex = "0123456789abcdef"
	b := []byte{'#', 0, 0, 0, 0, 0, 0}
	for i, v := range []uint8{c.R, c.G, c.B} {
		b[1+2*i] = hex[v>>4]
		b[2+2*i] = hex[v&0xf]
	}
	return string(b)
}

// normalizer maps values in [lo, hi] to [0, 1]; a flat range maps to 0.5.
func normalizer(lo, hi float64) func(float64) float64 {
	rng := hi - lo
	if rng == 0 || math.IsNaN(rng) || math.IsInf(rng, 0) {
		return func(float64) float64 { return 0.5 }
	}
	return func(v float64) float64 { return (v - lo) / rng }
}
