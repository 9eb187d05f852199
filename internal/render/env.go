package render

import (
	"errors"
	"fmt"
	"image"
	"image/color"

	"github.com/wethinkt/go-demoreel/internal/formula"
	"github.com/wethinkt/go-demoreel/internal/scenario"
	"github.com/wethinkt/go-demoreel/internal/theme"
	"github.com/wethinkt/go-demoreel/internal/timeline"
)

// ErrFrameIndex is returned for a frame index outside the timeline.
var ErrFrameIndex = errors.New("frame index out of range")

// Labels are the translatable strings of the mock UI chrome.
type Labels struct {
	Subtitle     string
	User         string
	FileUploaded string
}

// DefaultLabels returns the English chrome labels.
func DefaultLabels() Labels {
	return Labels{
		Subtitle:     "AI Chat",
		User:         "User",
		FileUploaded: "File Uploaded:",
	}
}

// Env is everything besides the frame itself that drawing depends on.
// It is read-only once built and may be shared between goroutines.
type Env struct {
	Scenario scenario.Scenario
	Palette  theme.Palette
	Labels   Labels
	Icon     image.Image
	Formula  formula.Table

	refColors map[string]color.RGBA
}

// NewEnv resolves the theme, parses the formula and loads the attachment
// icon. A configured icon that cannot be read is an error.
func NewEnv(sc scenario.Scenario, th theme.Theme, labels Labels) (*Env, error) {
	pal, err := th.Resolve()
	if err != nil {
		return nil, fmt.Errorf("theme %s: %w", th.Name, err)
	}

	env := &Env{
		Scenario:  sc,
		Palette:   pal,
		Labels:    labels,
		Formula:   formula.Parse(sc.Sheet.Formula, sc.Sheet.ReferenceColors),
		refColors: make(map[string]color.RGBA),
	}
	for _, s := range env.Formula.Spans {
		c, err := theme.ParseHex(s.Color)
		if err != nil {
			return nil, fmt.Errorf("reference %s: %w", s.Ref.Name, err)
		}
		env.refColors[s.Color] = c
	}

	if sc.Chat.AttachmentIcon != "" {
		if env.Icon, err = LoadIcon(sc.Chat.AttachmentIcon); err != nil {
			return nil, err
		}
	} else {
		env.Icon = PaperclipIcon(pal.Text)
	}
	return env, nil
}

// FrameAt returns frames[i]. Negative indices count back from the end, so
// -1 is the last frame.
func FrameAt(frames []timeline.Frame, i int) (timeline.Frame, error) {
	if i < 0 {
		i += len(frames)
	}
	if i < 0 || i >= len(frames) {
		return timeline.Frame{}, fmt.Errorf("%w: %d of %d", ErrFrameIndex, i, len(frames))
	}
	return frames[i], nil
}

// Draw clears the canvas and paints one frame onto it.
func Draw(c *Canvas, f timeline.Frame, env *Env) error {
	c.Reset(env.Palette.Background)
	return Compose(f, env).Paint(c)
}
