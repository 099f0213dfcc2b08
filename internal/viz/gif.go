package viz

import (
	"image"
	"image/gif"
	"io"

	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/flowsynth/internal/field"
)

// SaveGIF encodes every slice of f as one frame, scale pixels per grid point,
// with a colour range shared across frames. delay is in 1/100 s.
func SaveGIF(w io.Writer, f *field.Field, cm Colormap, scale, delay int) error {
	if f.T == 0 || f.Nx == 0 || f.Ny == 0 {
		return field.ErrDegenerateGrid
	}
	scale = max(scale, 1)
	pal := cm.Palette(256)
	norm := normalizer(floats.Min(f.Data), floats.Max(f.Data))

	imgW, imgH := f.Nx*scale, f.Ny*scale
	anim := gif.GIF{LoopCount: 0}
	for t := 0; t < f.T; t++ {
		img := image.NewPaletted(image.Rect(0, 0, imgW, imgH), pal)
		slice := f.Slice(t)
		for i := 0; i < f.Nx; i++ {
			for j := 0; j < f.Ny; j++ {
				v := norm(slice[i*f.Ny+j])
				if v != v {
					v = 0
				}
				idx := uint8(max(0, min(255, int(v*255+0.5))))
				// y grows upwards in the image
				baseX, baseY := i*scale, (f.Ny-1-j)*scale
				for py := 0; py < scale; py++ {
					for px := 0; px < scale; px++ {
						img.SetColorIndex(baseX+px, baseY+py, idx)
					}
				}
			}
		}
		anim.Image = append(anim.Image, img)
		anim.Delay = append(anim.Delay, delay)
	}
	return gif.EncodeAll(w, &anim)
}
