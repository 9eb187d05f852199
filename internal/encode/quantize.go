package encode

import (
	"cmp"
	"image"
	"image/color"
	"image/draw"
	"slices"
)

const maxColors = 256

// Quantize maps img onto a palette of at most 256 colours. Images with few
// enough distinct colours are converted exactly. Otherwise the most
// frequent colours form the palette and every pixel takes the nearest entry,
// which keeps the flat UI fills exact and only shifts anti-aliased edges.
func Quantize(img image.Image) *image.Paletted {
	src := toRGBA(img)
	b := src.Bounds()

	counts := make(map[uint32]int)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		row := src.Pix[src.PixOffset(b.Min.X, y):src.PixOffset(b.Max.X, y)]
		for i := 0; i < len(row); i += 4 {
			counts[pack(row[i:i+4])]++
		}
	}

	keys := make([]uint32, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, func(a, b uint32) int {
		if c := cmp.Compare(counts[b], counts[a]); c != 0 {
			return c
		}
		return cmp.Compare(a, b)
	})
	if len(keys) > maxColors {
		keys = keys[:maxColors]
	}

	pal := make(color.Palette, len(keys))
	index := make(map[uint32]uint8, len(counts))
	for i, k := range keys {
		pal[i] = unpack(k)
		index[k] = uint8(i)
	}

	dst := image.NewPaletted(b, pal)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		row := src.Pix[src.PixOffset(b.Min.X, y):src.PixOffset(b.Max.X, y)]
		out := dst.Pix[dst.PixOffset(b.Min.X, y):]
		for i, j := 0, 0; i < len(row); i, j = i+4, j+1 {
			k := pack(row[i : i+4])
			idx, ok := index[k]
			if !ok {
				idx = nearest(keys, k)
				index[k] = idx
			}
			out[j] = idx
		}
	}
	return dst
}

func toRGBA(img image.Image) *image.RGBA {
	if r, ok := img.(*image.RGBA); ok {
		return r
	}
	r := image.NewRGBA(img.Bounds())
	draw.Draw(r, r.Bounds(), img, img.Bounds().Min, draw.Src)
	return r
}

func pack(p []uint8) uint32 {
	return uint32(p[0])<<24 | uint32(p[1])<<16 | uint32(p[2])<<8 | uint32(p[3])
}

func unpack(k uint32) color.RGBA {
	return color.RGBA{uint8(k >> 24), uint8(k >> 16), uint8(k >> 8), uint8(k)}
}

func nearest(keys []uint32, k uint32) uint8 {
	c := unpack(k)
	best, bestD := 0, -1
	for i, pk := range keys {
		p := unpack(pk)
		dr := int(c.R) - int(p.R)
		dg := int(c.G) - int(p.G)
		db := int(c.B) - int(p.B)
		da := int(c.A) - int(p.A)
		d := dr*dr + dg*dg + db*db + da*da
		if bestD < 0 || d < bestD {
			best, bestD = i, d
		}
	}
	return uint8(best)
}
