package render

import (
	"fmt"
	"image"
	"image/color"
	_ "image/png"
	"os"

	"golang.org/x/image/vector"
)

// iconSize is the pixel size of the built-in attachment glyph. At zoom .18
// it comes out near 19px on a 75 dpi canvas, like the bundled icon art.
const iconSize = 100

// PaperclipIcon draws the built-in attachment glyph: two nested capsule
// outlines in col on a transparent background.
func PaperclipIcon(col color.Color) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, iconSize, iconSize))
	ras := vector.NewRasterizer(iconSize, iconSize)

	const stroke = 7.0
	capsule := func(x0, y0, x1, y1 float64) {
		r := (x1 - x0) / 2
		outer := roundRect(x0-stroke/2, y0-stroke/2, x1+stroke/2, y1+stroke/2, r+stroke/2)
		inner := reversed(roundRect(x0+stroke/2, y0+stroke/2, x1-stroke/2, y1-stroke/2, r-stroke/2))
		for _, p := range [][]pt{outer, inner} {
			ras.MoveTo(float32(p[0].x), float32(p[0].y))
			for _, q := range p[1:] {
				ras.LineTo(float32(q.x), float32(q.y))
			}
			ras.ClosePath()
		}
	}
	capsule(30, 8, 70, 92)
	capsule(42, 24, 58, 74)

	ras.Draw(img, img.Bounds(), image.NewUniform(col), image.Point{})
	return img
}

// LoadIcon decodes an attachment icon from a PNG file.
func LoadIcon(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open icon: %w", err)
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode icon %s: %w", path, err)
	}
	return img, nil
}
