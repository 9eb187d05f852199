// Package render draws timeline frames. Compose turns a frame into a
// depth-ordered display list, and a Canvas paints that list into an RGBA
// image at a chosen pixel density.
package render

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"strings"
	"sync"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"
)

// Logical extent of every scene. The origin is bottom-left, y grows up.
const (
	LogicalWidth  = 1400
	LogicalHeight = 700
)

// lineSpacing is the baseline-to-baseline distance of multi-line text,
// as a multiple of the font size.
const lineSpacing = 1.2

// Font selects a typeface.
type Font int

const (
	FontRegular Font = iota
	FontBold
	FontMonoBold
)

// HAlign is horizontal text anchoring.
type HAlign int

const (
	AlignLeft HAlign = iota
	AlignCenter
	AlignRight
)

// VAlign is vertical text anchoring.
type VAlign int

const (
	AlignBaseline VAlign = iota
	AlignMiddle
	AlignTop
)

// TextStyle describes how a string is drawn. Size is in points.
type TextStyle struct {
	Font   Font
	Size   float64
	Color  color.RGBA
	HAlign HAlign
	VAlign VAlign

	// Background, when opaque, fills a box around the text extended by
	// Pad times the font size on every side.
	Background color.RGBA
	Pad        float64
}

// Point is a logical coordinate.
type Point struct {
	X, Y float64
}

var loadFonts = sync.OnceValues(func() (map[Font]*opentype.Font, error) {
	sources := map[Font][]byte{
		FontRegular:  goregular.TTF,
		FontBold:     gobold.TTF,
		FontMonoBold: gomonobold.TTF,
	}
	fonts := make(map[Font]*opentype.Font, len(sources))
	for k, ttf := range sources {
		f, err := opentype.Parse(ttf)
		if err != nil {
			return nil, fmt.Errorf("parse font: %w", err)
		}
		fonts[k] = f
	}
	return fonts, nil
})

type faceKey struct {
	font Font
	size float64
}

type scaledKey struct {
	src  image.Image
	w, h int
}

// Canvas is an explicit render target. It maps the logical extent onto a
// pixel image and caches font faces between frames. A Canvas is not safe
// for concurrent use.
type Canvas struct {
	img    *image.RGBA
	dpi    float64
	sx, sy float64
	ras    *vector.Rasterizer
	fonts  map[Font]*opentype.Font
	faces  map[faceKey]font.Face
	scaled map[scaledKey]*image.RGBA
}

// NewCanvas creates a canvas of widthIn x heightIn inches at dpi.
func NewCanvas(widthIn, heightIn, dpi float64) (*Canvas, error) {
	w := int(math.Round(widthIn * dpi))
	h := int(math.Round(heightIn * dpi))
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("canvas size %dx%d is empty", w, h)
	}
	fonts, err := loadFonts()
	if err != nil {
		return nil, err
	}
	return &Canvas{
		img:    image.NewRGBA(image.Rect(0, 0, w, h)),
		dpi:    dpi,
		sx:     float64(w) / LogicalWidth,
		sy:     float64(h) / LogicalHeight,
		ras:    vector.NewRasterizer(w, h),
		fonts:  fonts,
		faces:  make(map[faceKey]font.Face),
		scaled: make(map[scaledKey]*image.RGBA),
	}, nil
}

// Image returns the backing image. It is overwritten by the next Reset.
func (c *Canvas) Image() *image.RGBA { return c.img }

// Size returns the pixel dimensions.
func (c *Canvas) Size() (int, int) {
	b := c.img.Bounds()
	return b.Dx(), b.Dy()
}

// Reset clears the canvas to bg.
func (c *Canvas) Reset(bg color.Color) {
	draw.Draw(c.img, c.img.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)
}

// Close releases cached font faces.
func (c *Canvas) Close() error {
	for k, f := range c.faces {
		f.Close()
		delete(c.faces, k)
	}
	return nil
}

func (c *Canvas) px(x float64) float64 { return x * c.sx }
func (c *Canvas) py(y float64) float64 { return (LogicalHeight - y) * c.sy }

// points converts a typographic length to pixels.
func (c *Canvas) points(pt float64) float64 { return pt * c.dpi / 72 }

// radius converts a logical length to pixels for shapes that must stay
// round when the axes scale differently.
func (c *Canvas) radius(r float64) float64 { return r * min(c.sx, c.sy) }

type pt struct{ x, y float64 }

func (c *Canvas) fill(col color.Color, paths ...[]pt) {
	if _, _, _, a := col.RGBA(); a == 0 {
		return
	}
	b := c.img.Bounds()
	c.ras.Reset(b.Dx(), b.Dy())
	for _, p := range paths {
		if len(p) < 3 {
			continue
		}
		c.ras.MoveTo(float32(p[0].x), float32(p[0].y))
		for _, q := range p[1:] {
			c.ras.LineTo(float32(q.x), float32(q.y))
		}
		c.ras.ClosePath()
	}
	c.ras.Draw(c.img, b, image.NewUniform(col), image.Point{})
}

// pixelRect converts a logical rectangle to pixel corners, top-left first.
func (c *Canvas) pixelRect(x, y, w, h float64) (x0, y0, x1, y1 float64) {
	return c.px(x), c.py(y + h), c.px(x + w), c.py(y)
}

// FillRect fills an axis-aligned rectangle with its lower-left corner at (x, y).
func (c *Canvas) FillRect(x, y, w, h float64, col color.Color) {
	x0, y0, x1, y1 := c.pixelRect(x, y, w, h)
	c.fill(col, roundRect(x0, y0, x1, y1, 0))
}

// StrokeRect outlines a rectangle with a line lw points wide, centred on
// the edge.
func (c *Canvas) StrokeRect(x, y, w, h, lw float64, col color.Color) {
	c.StrokeRoundRect(x, y, w, h, 0, lw, col)
}

// FillRoundRect fills a rectangle with corners of radius r.
func (c *Canvas) FillRoundRect(x, y, w, h, r float64, col color.Color) {
	x0, y0, x1, y1 := c.pixelRect(x, y, w, h)
	c.fill(col, roundRect(x0, y0, x1, y1, c.radius(r)))
}

// StrokeRoundRect outlines a rounded rectangle.
func (c *Canvas) StrokeRoundRect(x, y, w, h, r, lw float64, col color.Color) {
	if lw <= 0 {
		return
	}
	x0, y0, x1, y1 := c.pixelRect(x, y, w, h)
	rad := c.radius(r)
	half := c.points(lw) / 2
	outerR := rad
	if rad > 0 {
		outerR += half
	}
	outer := roundRect(x0-half, y0-half, x1+half, y1+half, outerR)
	if x1-x0 <= 2*half || y1-y0 <= 2*half {
		c.fill(col, outer)
		return
	}
	inner := roundRect(x0+half, y0+half, x1-half, y1-half, max(rad-half, 0))
	c.fill(col, outer, reversed(inner))
}

// FillCircle fills a circle centred on (cx, cy).
func (c *Canvas) FillCircle(cx, cy, r float64, col color.Color) {
	rad := c.radius(r)
	n := max(24, int(rad*2))
	p := make([]pt, n)
	for i := range p {
		a := 2 * math.Pi * float64(i) / float64(n)
		p[i] = pt{c.px(cx) + rad*math.Cos(a), c.py(cy) + rad*math.Sin(a)}
	}
	c.fill(col, p)
}

// FillPolygon fills a closed polygon.
func (c *Canvas) FillPolygon(points []Point, col color.Color) {
	p := make([]pt, len(points))
	for i, q := range points {
		p[i] = pt{c.px(q.X), c.py(q.Y)}
	}
	c.fill(col, p)
}

// Line draws a straight segment lw points wide.
func (c *Canvas) Line(x1, y1, x2, y2, lw float64, col color.Color) {
	a := pt{c.px(x1), c.py(y1)}
	b := pt{c.px(x2), c.py(y2)}
	dx, dy := b.x-a.x, b.y-a.y
	l := math.Hypot(dx, dy)
	if l == 0 {
		return
	}
	half := c.points(lw) / 2
	nx, ny := -dy/l*half, dx/l*half
	c.fill(col, []pt{
		{a.x + nx, a.y + ny},
		{b.x + nx, b.y + ny},
		{b.x - nx, b.y - ny},
		{a.x - nx, a.y - ny},
	})
}

func (c *Canvas) face(f Font, size float64) (font.Face, error) {
	k := faceKey{f, size}
	if face, ok := c.faces[k]; ok {
		return face, nil
	}
	face, err := opentype.NewFace(c.fonts[f], &opentype.FaceOptions{
		Size:    size,
		DPI:     c.dpi,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("font face %d@%vpt: %w", f, size, err)
	}
	c.faces[k] = face
	return face, nil
}

// MeasureText returns the advance width of s in logical units. Multi-line
// strings report their widest line.
func (c *Canvas) MeasureText(s string, st TextStyle) (float64, error) {
	face, err := c.face(st.Font, st.Size)
	if err != nil {
		return 0, err
	}
	widest := 0.0
	for line := range strings.SplitSeq(s, "\n") {
		widest = max(widest, fixedFloat(font.MeasureString(face, line)))
	}
	return widest / c.sx, nil
}

// Text draws s anchored at (x, y). Newlines start new lines below.
func (c *Canvas) Text(x, y float64, s string, st TextStyle) error {
	face, err := c.face(st.Font, st.Size)
	if err != nil {
		return err
	}
	m := face.Metrics()
	ascent := fixedFloat(m.Ascent)
	descent := fixedFloat(m.Descent)
	step := c.points(st.Size) * lineSpacing

	lines := strings.Split(s, "\n")
	widths := make([]float64, len(lines))
	widest := 0.0
	for i, line := range lines {
		widths[i] = fixedFloat(font.MeasureString(face, line))
		widest = max(widest, widths[i])
	}
	blockH := ascent + descent + step*float64(len(lines)-1)

	ax, ay := c.px(x), c.py(y)
	var top float64
	switch st.VAlign {
	case AlignTop:
		top = ay
	case AlignMiddle:
		top = ay - blockH/2
	default:
		top = ay - ascent
	}
	left := ax
	switch st.HAlign {
	case AlignCenter:
		left = ax - widest/2
	case AlignRight:
		left = ax - widest
	}

	if _, _, _, a := st.Background.RGBA(); a > 0 {
		pad := c.points(st.Pad * st.Size)
		c.fill(st.Background, roundRect(left-pad, top-pad, left+widest+pad, top+blockH+pad, 0))
	}

	d := font.Drawer{Dst: c.img, Src: image.NewUniform(st.Color), Face: face}
	for i, line := range lines {
		lx := left
		switch st.HAlign {
		case AlignCenter:
			lx = ax - widths[i]/2
		case AlignRight:
			lx = ax - widths[i]
		}
		d.Dot = fixed.Point26_6{
			X: floatFixed(lx),
			Y: floatFixed(top + ascent + step*float64(i)),
		}
		d.DrawString(line)
	}
	return nil
}

// DrawImage draws img centred on (cx, cy). zoom scales the image's pixels
// as if it were laid out at 72 dpi.
func (c *Canvas) DrawImage(img image.Image, cx, cy, zoom float64) {
	sb := img.Bounds()
	w := int(math.Round(float64(sb.Dx()) * zoom * c.dpi / 72))
	h := int(math.Round(float64(sb.Dy()) * zoom * c.dpi / 72))
	if w <= 0 || h <= 0 {
		return
	}
	k := scaledKey{img, w, h}
	dst, ok := c.scaled[k]
	if !ok {
		dst = image.NewRGBA(image.Rect(0, 0, w, h))
		draw.BiLinear.Scale(dst, dst.Bounds(), img, sb, draw.Src, nil)
		c.scaled[k] = dst
	}
	x0 := int(math.Round(c.px(cx) - float64(w)/2))
	y0 := int(math.Round(c.py(cy) - float64(h)/2))
	draw.Draw(c.img, image.Rect(x0, y0, x0+w, y0+h), dst, image.Point{}, draw.Over)
}

// roundRect returns a closed outline in pixel space. Corners with r > 0
// are approximated by short segments.
func roundRect(x0, y0, x1, y1, r float64) []pt {
	r = min(r, (x1-x0)/2, (y1-y0)/2)
	if r <= 0 {
		return []pt{{x0, y0}, {x1, y0}, {x1, y1}, {x0, y1}}
	}
	const seg = 8
	corners := []struct {
		cx, cy, a0 float64
	}{
		{x1 - r, y0 + r, -math.Pi / 2},
		{x1 - r, y1 - r, 0},
		{x0 + r, y1 - r, math.Pi / 2},
		{x0 + r, y0 + r, math.Pi},
	}
	p := make([]pt, 0, 4*(seg+1))
	for _, k := range corners {
		for i := 0; i <= seg; i++ {
			a := k.a0 + math.Pi/2*float64(i)/seg
			p = append(p, pt{k.cx + r*math.Cos(a), k.cy + r*math.Sin(a)})
		}
	}
	return p
}

func reversed(p []pt) []pt {
	out := make([]pt, len(p))
	for i, q := range p {
		out[len(p)-1-i] = q
	}
	return out
}

func fixedFloat(v fixed.Int26_6) float64 { return float64(v) / 64 }

func floatFixed(v float64) fixed.Int26_6 { return fixed.Int26_6(math.Round(v * 64)) }
