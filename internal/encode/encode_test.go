package encode

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/gif"
	"image/png"
	"testing"
)

func solid(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = c.R, c.G, c.B, c.A
	}
	return img
}

func TestDelay(t *testing.T) {
	tests := map[int]int{15: 7, 25: 4, 10: 10, 30: 3, 200: 1, 0: 0}
	for fps, want := range tests {
		if got := Delay(fps); got != want {
			t.Errorf("Delay(%d) = %d, want %d", fps, got, want)
		}
	}
}

func TestQuantizeExactForFewColours(t *testing.T) {
	img := solid(4, 4, color.RGBA{0xf0, 0xf4, 0xf8, 0xff})
	img.SetRGBA(1, 1, color.RGBA{0x0d, 0x6e, 0xfd, 0xff})

	p := Quantize(img)
	if len(p.Palette) != 2 {
		t.Fatalf("palette has %d colours, want 2", len(p.Palette))
	}
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			if got, want := color.RGBAModel.Convert(p.At(x, y)), img.At(x, y); got != want {
				t.Errorf("pixel (%d,%d) = %v, want %v", x, y, got, want)
			}
		}
	}
	// The most frequent colour takes index 0.
	if p.Palette[0] != (color.RGBA{0xf0, 0xf4, 0xf8, 0xff}) {
		t.Errorf("palette[0] = %v", p.Palette[0])
	}
}

func TestQuantizeLimitsPalette(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 64, 64))
	for y := 0; y < 64; y++ {
		for x := 0; x < 64; x++ {
			img.SetRGBA(x, y, color.RGBA{uint8(x * 4), uint8(y * 4), 0x80, 0xff})
		}
	}
	// A dominant flat colour must survive exactly.
	bg := color.RGBA{0xff, 0xff, 0xff, 0xff}
	for y := 0; y < 32; y++ {
		for x := 0; x < 64; x++ {
			img.SetRGBA(x, y, bg)
		}
	}

	p := Quantize(img)
	if len(p.Palette) != 256 {
		t.Fatalf("palette has %d colours, want 256", len(p.Palette))
	}
	if got := color.RGBAModel.Convert(p.At(0, 0)); got != bg {
		t.Errorf("background = %v, want %v", got, bg)
	}
	// Pixels outside the palette map to something close.
	got := color.RGBAModel.Convert(p.At(63, 63)).(color.RGBA)
	if d := int(got.R) - 252; d < -64 || d > 64 {
		t.Errorf("far pixel mapped to %v", got)
	}
}

func TestQuantizeKeepsSmallFlatFills(t *testing.T) {
	// Thousands of one-off edge colours around a small accent fill, like a
	// send button drawn over anti-aliased text.
	img := image.NewRGBA(image.Rect(0, 0, 64, 64))
	for y := 0; y < 64; y++ {
		for x := 0; x < 64; x++ {
			img.SetRGBA(x, y, color.RGBA{uint8(x*4 + 1), uint8(y*4 + 1), 0xf0, 0xff})
		}
	}
	accent := color.RGBA{0x0d, 0x6e, 0xfd, 0xff}
	for y := 10; y < 15; y++ {
		for x := 10; x < 18; x++ {
			img.SetRGBA(x, y, accent)
		}
	}

	p := Quantize(img)
	if got := color.RGBAModel.Convert(p.At(12, 12)); got != accent {
		t.Errorf("accent = %v, want %v", got, accent)
	}
}

func TestQuantizeDeterministic(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 40, 40))
	for i := range img.Pix {
		img.Pix[i] = uint8(i * 7)
	}
	a, b := Quantize(img), Quantize(img)
	if !bytes.Equal(a.Pix, b.Pix) {
		t.Error("quantising the same image twice differs")
	}
}

func TestGIFWriter(t *testing.T) {
	var buf bytes.Buffer
	g := NewGIF(&buf, 15)
	red := solid(8, 4, color.RGBA{255, 0, 0, 255})
	blue := solid(8, 4, color.RGBA{0, 0, 255, 255})

	g.Add(red)
	g.Repeat()
	g.Add(blue)
	if g.Len() != 3 {
		t.Fatalf("Len = %d, want 3", g.Len())
	}
	if err := g.Close(); err != nil {
		t.Fatal(err)
	}

	anim, err := gif.DecodeAll(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if len(anim.Image) != 3 {
		t.Fatalf("decoded %d frames, want 3", len(anim.Image))
	}
	if anim.LoopCount != 0 {
		t.Errorf("LoopCount = %d, want 0 (forever)", anim.LoopCount)
	}
	for i, d := range anim.Delay {
		if d != 7 {
			t.Errorf("frame %d delay = %d, want 7", i, d)
		}
	}
	if c := color.RGBAModel.Convert(anim.Image[1].At(0, 0)); c != (color.RGBA{255, 0, 0, 255}) {
		t.Errorf("repeated frame = %v, want red", c)
	}
	if c := color.RGBAModel.Convert(anim.Image[2].At(0, 0)); c != (color.RGBA{0, 0, 255, 255}) {
		t.Errorf("last frame = %v, want blue", c)
	}
}

func TestGIFWriterEmpty(t *testing.T) {
	var buf bytes.Buffer
	g := NewGIF(&buf, 15)
	g.Repeat()
	if err := g.Close(); !errors.Is(err, ErrNoFrames) {
		t.Errorf("Close() = %v, want ErrNoFrames", err)
	}
	if err := g.Close(); err != nil {
		t.Errorf("second Close() = %v", err)
	}
}

func TestWritePNG(t *testing.T) {
	img := solid(3, 2, color.RGBA{0x1e, 0x5a, 0x96, 0xff})
	var buf bytes.Buffer
	if err := WritePNG(&buf, img); err != nil {
		t.Fatal(err)
	}
	got, err := png.Decode(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if got.Bounds() != img.Bounds() {
		t.Errorf("bounds = %v", got.Bounds())
	}
	if c := color.RGBAModel.Convert(got.At(2, 1)); c != img.At(2, 1) {
		t.Errorf("pixel = %v", c)
	}
}
