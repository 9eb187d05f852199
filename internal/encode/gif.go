// Package encode turns rendered frames into the output artifacts: a looping
// GIF animation and a PNG still.
package encode

import (
	"errors"
	"fmt"
	"image"
	"image/gif"
	"image/png"
	"io"
	"math"
)

// ErrNoFrames is returned when closing an animation nothing was added to.
var ErrNoFrames = errors.New("animation has no frames")

// GIFWriter collects frames and writes them as one looping animation on
// Close. Frames are quantised as they are added, so the source image may be
// reused for the next frame.
type GIFWriter struct {
	w      io.Writer
	delay  int
	anim   gif.GIF
	closed bool
}

// NewGIF returns a writer producing an animation at fps frames per second.
// GIF delays are whole hundredths of a second, so the rate is rounded.
func NewGIF(w io.Writer, fps int) *GIFWriter {
	return &GIFWriter{
		w:     w,
		delay: Delay(fps),
		anim:  gif.GIF{LoopCount: 0},
	}
}

// Delay converts a frame rate to a GIF frame delay in centiseconds.
func Delay(fps int) int {
	if fps <= 0 {
		return 0
	}
	return max(1, int(math.Round(100/float64(fps))))
}

// Add quantises img and appends it.
func (g *GIFWriter) Add(img image.Image) {
	g.append(Quantize(img))
}

// Repeat appends the previous frame again without quantising. It is a
// no-op before the first Add.
func (g *GIFWriter) Repeat() {
	if n := len(g.anim.Image); n > 0 {
		g.append(g.anim.Image[n-1])
	}
}

func (g *GIFWriter) append(p *image.Paletted) {
	g.anim.Image = append(g.anim.Image, p)
	g.anim.Delay = append(g.anim.Delay, g.delay)
}

// Len returns the number of frames added so far.
func (g *GIFWriter) Len() int { return len(g.anim.Image) }

// Close encodes the animation to the underlying writer.
func (g *GIFWriter) Close() error {
	if g.closed {
		return nil
	}
	g.closed = true
	if len(g.anim.Image) == 0 {
		return ErrNoFrames
	}
	if err := gif.EncodeAll(g.w, &g.anim); err != nil {
		return fmt.Errorf("encode gif: %w", err)
	}
	return nil
}

// WritePNG encodes img as a PNG.
func WritePNG(w io.Writer, img image.Image) error {
	enc := png.Encoder{CompressionLevel: png.BestCompression}
	if err := enc.Encode(w, img); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}
