package render

import (
	"image/color"
	"testing"
)

var (
	red   = color.RGBA{255, 0, 0, 255}
	green = color.RGBA{0, 255, 0, 255}
	blue  = color.RGBA{0, 0, 255, 255}
	white = color.RGBA{255, 255, 255, 255}
)

func newTestCanvas(t *testing.T) *Canvas {
	t.Helper()
	// 140x70 pixels: one pixel per ten logical units.
	c, err := NewCanvas(1.4, 0.7, 100)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { c.Close() })
	c.Reset(white)
	return c
}

func TestNewCanvasSize(t *testing.T) {
	tests := []struct {
		w, h, dpi    float64
		wantW, wantH int
	}{
		{8, 4, 75, 600, 300},
		{8, 4, 150, 1200, 600},
		{12, 6, 100, 1200, 600},
	}
	for _, tt := range tests {
		c, err := NewCanvas(tt.w, tt.h, tt.dpi)
		if err != nil {
			t.Fatal(err)
		}
		if w, h := c.Size(); w != tt.wantW || h != tt.wantH {
			t.Errorf("NewCanvas(%v, %v, %v) = %dx%d, want %dx%d", tt.w, tt.h, tt.dpi, w, h, tt.wantW, tt.wantH)
		}
	}

	if _, err := NewCanvas(0, 4, 75); err == nil {
		t.Error("expected error for empty canvas")
	}
}

func TestFillRectUsesBottomLeftOrigin(t *testing.T) {
	c := newTestCanvas(t)
	c.FillRect(0, 0, 700, 350, red)

	img := c.Image()
	if got := img.RGBAAt(10, 60); got != red {
		t.Errorf("lower-left pixel = %v, want red", got)
	}
	if got := img.RGBAAt(10, 10); got != white {
		t.Errorf("upper-left pixel = %v, want white", got)
	}
	if got := img.RGBAAt(100, 60); got != white {
		t.Errorf("lower-right pixel = %v, want white", got)
	}
}

func TestStrokeRectLeavesInteriorEmpty(t *testing.T) {
	c := newTestCanvas(t)
	c.StrokeRect(200, 200, 1000, 300, 2, blue)

	img := c.Image()
	if got := img.RGBAAt(70, 35); got != white {
		t.Errorf("interior pixel = %v, want white", got)
	}
	// The left edge runs along x = 20px.
	if got := img.RGBAAt(20, 35); got.B == 0 {
		t.Errorf("edge pixel = %v, want blue coverage", got)
	}
}

func TestFillCircle(t *testing.T) {
	c := newTestCanvas(t)
	c.FillCircle(700, 350, 200, green)

	img := c.Image()
	if got := img.RGBAAt(70, 35); got != green {
		t.Errorf("centre = %v, want green", got)
	}
	if got := img.RGBAAt(70+25, 35); got != white {
		t.Errorf("outside = %v, want white", got)
	}
}

func TestTextDrawsInk(t *testing.T) {
	c, err := NewCanvas(8, 4, 75)
	if err != nil {
		t.Fatal(err)
	}
	c.Reset(white)
	black := color.RGBA{0, 0, 0, 255}
	if err := c.Text(700, 350, "Enterprise Value", TextStyle{Size: 13, Color: black, HAlign: AlignCenter, VAlign: AlignMiddle}); err != nil {
		t.Fatal(err)
	}

	img := c.Image()
	inked := 0
	for y := 130; y < 170; y++ {
		for x := 200; x < 400; x++ {
			if img.RGBAAt(x, y) != white {
				inked++
			}
		}
	}
	if inked == 0 {
		t.Error("no text pixels drawn around the anchor")
	}
}

func TestMeasureText(t *testing.T) {
	c, err := NewCanvas(8, 4, 75)
	if err != nil {
		t.Fatal(err)
	}
	st := TextStyle{Font: FontMonoBold, Size: 9}
	one, err := c.MeasureText("C", st)
	if err != nil {
		t.Fatal(err)
	}
	ten, _ := c.MeasureText("CCCCCCCCCC", st)
	if one <= 0 || ten < 9.9*one || ten > 10.1*one {
		t.Errorf("monospace widths: one=%v ten=%v", one, ten)
	}
	multi, _ := c.MeasureText("C\nCCCCCCCCCC", st)
	if multi != ten {
		t.Errorf("multi-line width = %v, want widest line %v", multi, ten)
	}
}

func TestDrawImageCentred(t *testing.T) {
	c := newTestCanvas(t)
	icon := PaperclipIcon(red)
	// 100px at zoom .18 and 100 dpi is 25px wide.
	c.DrawImage(icon, 700, 350, 0.18)

	img := c.Image()
	inked := false
	for y := 22; y < 48 && !inked; y++ {
		for x := 57; x < 83; x++ {
			if img.RGBAAt(x, y) != white {
				inked = true
				break
			}
		}
	}
	if !inked {
		t.Error("icon not drawn near the anchor")
	}
	if got := img.RGBAAt(5, 5); got != white {
		t.Errorf("corner = %v, want untouched", got)
	}
}

func TestColumnName(t *testing.T) {
	tests := map[int]string{0: "A", 2: "C", 6: "G", 25: "Z", 26: "AA", 27: "AB", 701: "ZZ", 702: "AAA"}
	for i, want := range tests {
		if got := ColumnName(i); got != want {
			t.Errorf("ColumnName(%d) = %q, want %q", i, got, want)
		}
	}
}
