// Package preview shows rendered frames inline in terminals that speak the
// kitty or sixel graphics protocols.
package preview

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/png"
	"os"
	"strings"

	"github.com/charmbracelet/x/ansi"
	"github.com/charmbracelet/x/ansi/sixel"
	"golang.org/x/image/draw"
)

// ErrNoGraphics is returned when the terminal supports no image protocol.
var ErrNoGraphics = errors.New("terminal has no graphics protocol")

// Protocol is a terminal image protocol.
type Protocol int

const (
	None Protocol = iota
	Sixel
	Kitty
)

func (p Protocol) String() string {
	switch p {
	case Sixel:
		return "sixel"
	case Kitty:
		return "kitty"
	default:
		return "none"
	}
}

// ParseProtocol maps a flag value to a Protocol. "auto" and "" detect.
func ParseProtocol(s string) (Protocol, error) {
	switch strings.ToLower(s) {
	case "", "auto":
		return Detect(), nil
	case "kitty":
		return Kitty, nil
	case "sixel":
		return Sixel, nil
	case "none":
		return None, nil
	}
	return None, fmt.Errorf("unknown graphics protocol %q", s)
}

// Detect guesses the protocol from the environment.
func Detect() Protocol {
	term := os.Getenv("TERM")
	termProgram := os.Getenv("TERM_PROGRAM")

	if strings.Contains(term, "kitty") || os.Getenv("KITTY_WINDOW_ID") != "" {
		return Kitty
	}
	switch termProgram {
	case "kitty", "ghostty", "WezTerm":
		return Kitty
	case "iTerm.app", "foot", "mlterm", "contour":
		return Sixel
	}
	if strings.Contains(term, "xterm") {
		return Sixel
	}
	return None
}

// Fit scales img down to at most maxWidth pixels wide, keeping the aspect
// ratio. Narrower images and a non-positive maxWidth return img unchanged.
func Fit(img image.Image, maxWidth int) image.Image {
	b := img.Bounds()
	if maxWidth <= 0 || b.Dx() <= maxWidth {
		return img
	}
	h := max(1, b.Dy()*maxWidth/b.Dx())
	dst := image.NewRGBA(image.Rect(0, 0, maxWidth, h))
	draw.BiLinear.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}

// Encode returns the escape sequence that displays img with protocol p.
func Encode(img image.Image, p Protocol, maxWidth int) (string, error) {
	img = Fit(img, maxWidth)
	switch p {
	case Kitty:
		return encodeKitty(img)
	case Sixel:
		return encodeSixel(img)
	default:
		return "", ErrNoGraphics
	}
}

// kittyChunk is the largest payload the kitty protocol accepts per escape.
const kittyChunk = 4096

func encodeKitty(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", fmt.Errorf("png encode: %w", err)
	}
	data := base64.StdEncoding.EncodeToString(buf.Bytes())

	var out strings.Builder
	for i := 0; i < len(data); i += kittyChunk {
		end := min(i+kittyChunk, len(data))
		var opts []string
		if i == 0 {
			// transmit and display a PNG sent inline
			opts = append(opts, "a=T", "f=100", "t=d")
		}
		if end < len(data) {
			opts = append(opts, "m=1")
		} else {
			opts = append(opts, "m=0")
		}
		out.WriteString(ansi.KittyGraphics([]byte(data[i:end]), opts...))
	}
	return out.String(), nil
}

func encodeSixel(img image.Image) (string, error) {
	var buf bytes.Buffer
	enc := sixel.Encoder{}
	if err := enc.Encode(&buf, img); err != nil {
		return "", fmt.Errorf("sixel encode: %w", err)
	}
	return ansi.SixelGraphics(0, 1, 0, buf.Bytes()), nil
}
