package render

import (
	"cmp"
	"image"
	"image/color"
	"slices"
)

// OpKind identifies a drawing primitive.
type OpKind string

const (
	OpRect      OpKind = "rect"
	OpRoundRect OpKind = "round_rect"
	OpCircle    OpKind = "circle"
	OpPolygon   OpKind = "polygon"
	OpLine      OpKind = "line"
	OpText      OpKind = "text"
	OpImage     OpKind = "image"
)

// Op is one primitive of a display list. Geometry is logical: X, Y is the
// lower-left corner of boxes, the centre of circles and images, the anchor
// of text, and the first endpoint of lines (X2, Y2 is the second).
type Op struct {
	Kind  OpKind
	Depth int

	X, Y, W, H float64
	X2, Y2     float64
	R          float64 // corner or circle radius
	Points     []Point

	Fill      color.RGBA // zero alpha means no fill
	Stroke    color.RGBA // zero alpha means no outline
	LineWidth float64    // points

	Text  string
	Style TextStyle

	Image image.Image
	Zoom  float64
}

// Scene is the display list of one frame.
type Scene struct {
	Ops []Op
}

func (s *Scene) add(op Op) { s.Ops = append(s.Ops, op) }

// Paint draws the ops in ascending depth. Ops of equal depth keep the order
// they were added in, so later ones cover earlier ones.
func (s *Scene) Paint(c *Canvas) error {
	ops := slices.Clone(s.Ops)
	slices.SortStableFunc(ops, func(a, b Op) int { return cmp.Compare(a.Depth, b.Depth) })
	for _, op := range ops {
		if err := paint(c, op); err != nil {
			return err
		}
	}
	return nil
}

func paint(c *Canvas, op Op) error {
	switch op.Kind {
	case OpRect:
		c.FillRect(op.X, op.Y, op.W, op.H, op.Fill)
		if op.Stroke.A > 0 {
			c.StrokeRect(op.X, op.Y, op.W, op.H, op.LineWidth, op.Stroke)
		}
	case OpRoundRect:
		c.FillRoundRect(op.X, op.Y, op.W, op.H, op.R, op.Fill)
		if op.Stroke.A > 0 {
			c.StrokeRoundRect(op.X, op.Y, op.W, op.H, op.R, op.LineWidth, op.Stroke)
		}
	case OpCircle:
		c.FillCircle(op.X, op.Y, op.R, op.Fill)
	case OpPolygon:
		c.FillPolygon(op.Points, op.Fill)
	case OpLine:
		c.Line(op.X, op.Y, op.X2, op.Y2, op.LineWidth, op.Stroke)
	case OpText:
		return c.Text(op.X, op.Y, op.Text, op.Style)
	case OpImage:
		if op.Image != nil {
			c.DrawImage(op.Image, op.X, op.Y, op.Zoom)
		}
	}
	return nil
}

// Texts returns the text ops in insertion order.
func (s *Scene) Texts() []Op {
	return s.Filter(func(op Op) bool { return op.Kind == OpText })
}

// FindText returns the first text op whose string is text.
func (s *Scene) FindText(text string) (Op, bool) {
	for _, op := range s.Ops {
		if op.Kind == OpText && op.Text == text {
			return op, true
		}
	}
	return Op{}, false
}

// Filter returns the ops matching keep, in insertion order.
func (s *Scene) Filter(keep func(Op) bool) []Op {
	var out []Op
	for _, op := range s.Ops {
		if keep(op) {
			out = append(out, op)
		}
	}
	return out
}
