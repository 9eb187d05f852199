package scenario

import (
	"errors"
	"fmt"
	"maps"
	"os"
	"slices"

	"github.com/wethinkt/go-demoreel/internal/formula"
	"github.com/wethinkt/go-demoreel/internal/theme"
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("invalid scenario")

type timingField struct {
	name  string
	value int
}

// Validate checks the scenario and reports every problem at once.
func (s Scenario) Validate() error {
	var errs []error
	bad := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalid}, args...)...))
	}

	if s.Name == "" {
		bad("name is empty")
	}

	o := s.Output
	if o.Animation == "" || o.Still == "" {
		bad("output.animation and output.still are required")
	}
	if o.FPS <= 0 {
		bad("output.fps must be positive, got %d", o.FPS)
	}
	if o.WidthIn <= 0 || o.HeightIn <= 0 || o.DPI <= 0 || o.StillDPI <= 0 {
		bad("output size and dpi must be positive")
	}

	if s.Chat.Prompt == "" {
		bad("chat.prompt is empty")
	}
	for i, r := range s.Chat.Responses {
		if r == "" {
			bad("chat.responses[%d] is empty", i)
		}
	}
	if s.Chat.BubbleHeight < 0 {
		bad("chat.bubble_height must not be negative")
	}
	if s.Chat.AttachmentIcon != "" {
		if _, err := os.Stat(s.Chat.AttachmentIcon); err != nil {
			bad("chat.attachment_icon: %v", err)
		}
	}

	t := s.Timing
	for _, f := range []timingField{
		{"input_stride", t.InputStride},
		{"response_stride", t.ResponseStride},
		{"formula_stride", t.FormulaStride},
	} {
		if f.value <= 0 {
			bad("timing.%s must be positive, got %d", f.name, f.value)
		}
	}
	for _, f := range []timingField{
		{"input_pause", t.InputPause},
		{"message_sent", t.MessageSent},
		{"response_hold", t.ResponseHold},
		{"assumption_pause", t.AssumptionPause},
		{"assumptions_hold", t.AssumptionsHold},
		{"projections_hold", t.ProjectionsHold},
		{"formula_values_hold", t.FormulaValuesHold},
		{"formula_read_hold", t.FormulaReadHold},
		{"formula_collapse_hold", t.FormulaCollapseHold},
		{"final_hold", t.FinalHold},
	} {
		if f.value < 0 {
			bad("timing.%s must not be negative, got %d", f.name, f.value)
		}
	}
	if t.FormulaIntroSteps < 0 || t.FormulaIntroSteps > 5 {
		bad("timing.formula_intro_steps must be within 0..5, got %d", t.FormulaIntroSteps)
	}
	if t.FinalSteps < 0 || t.FinalSteps > 2 {
		bad("timing.final_steps must be within 0..2, got %d", t.FinalSteps)
	}

	sh := s.Sheet
	if len(sh.Assumptions) == 0 {
		bad("sheet.assumptions is empty")
	}
	if len(sh.Years) == 0 {
		bad("sheet.years is empty")
	}
	if len(sh.Revenue) != len(sh.Years) || len(sh.FCF) != len(sh.Years) {
		bad("sheet.revenue and sheet.fcf need one value per year (%d)", len(sh.Years))
	}
	if len(sh.Years)+2 > s.Layout.Columns {
		bad("%d years do not fit in %d columns", len(sh.Years), s.Layout.Columns)
	}
	if sh.Formula == "" {
		bad("sheet.formula is empty")
	}
	for _, ref := range slices.Sorted(maps.Keys(sh.ReferenceColors)) {
		if _, err := theme.ParseHex(sh.ReferenceColors[ref]); err != nil {
			bad("sheet.reference_colors[%s]: %v", ref, err)
		}
	}
	for _, span := range formula.Parse(sh.Formula, sh.ReferenceColors).Spans {
		if span.Ref.To.Col >= s.Layout.Columns || span.Ref.To.Row >= s.Layout.Rows {
			bad("formula reference %s is outside the %dx%d grid", span.Ref.Name, s.Layout.Columns, s.Layout.Rows)
		}
	}

	l := s.Layout
	if l.CellWidth <= 0 || l.CellHeight <= 0 || l.Columns <= 0 || l.Rows <= 0 {
		bad("layout cell metrics must be positive")
	}
	if l.WrapWidth <= 0 {
		bad("layout.wrap_width must be positive")
	}
	if l.FormulaCharWidth <= 0 {
		bad("layout.formula_char_width must be positive")
	}
	if l.Stack != StackNewestFirst && l.Stack != StackOldestFirst {
		bad("layout.stack must be %q or %q, got %q", StackNewestFirst, StackOldestFirst, l.Stack)
	}

	return errors.Join(errs...)
}
