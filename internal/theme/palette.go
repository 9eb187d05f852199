package theme

import (
	"errors"
	"fmt"
	"image/color"
)

// Palette is a Theme with every colour parsed, ready for painting.
type Palette struct {
	Background      color.RGBA
	SheetBackground color.RGBA
	PanelFill       color.RGBA
	PanelBorder     color.RGBA
	HeaderFill      color.RGBA
	TitleText       color.RGBA
	SubtitleText    color.RGBA
	InputFill       color.RGBA
	InputBorder     color.RGBA
	Accent          color.RGBA
	AccentText      color.RGBA

	Text             color.RGBA
	UserBubble       color.RGBA
	UserBubbleBorder color.RGBA
	BotBubble        color.RGBA

	AttachmentFill   color.RGBA
	AttachmentBorder color.RGBA
	AttachmentLabel  color.RGBA

	GridHeader       color.RGBA
	GridHeaderBorder color.RGBA
	GridLine         color.RGBA
	ColumnDivider    color.RGBA
	CellBackground   color.RGBA
	YearHeader       color.RGBA
	YearHeaderText   color.RGBA
	InputValue       color.RGBA
}

// Resolve parses every colour of the theme. Empty fields fall back to the
// default theme; all parse failures are reported together.
func (t Theme) Resolve() (Palette, error) {
	def := DefaultTheme()
	var (
		p    Palette
		errs []error
	)
	set := func(dst *color.RGBA, name, v, fallback string) {
		if v == "" {
			v = fallback
		}
		c, err := ParseHex(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
			return
		}
		*dst = c
	}

	set(&p.Background, "background", t.Background, def.Background)
	set(&p.SheetBackground, "sheet_background", t.SheetBackground, def.SheetBackground)
	set(&p.PanelFill, "panel_fill", t.PanelFill, def.PanelFill)
	set(&p.PanelBorder, "panel_border", t.PanelBorder, def.PanelBorder)
	set(&p.HeaderFill, "header_fill", t.HeaderFill, def.HeaderFill)
	set(&p.TitleText, "title_text", t.TitleText, def.TitleText)
	set(&p.SubtitleText, "subtitle_text", t.SubtitleText, def.SubtitleText)
	set(&p.InputFill, "input_fill", t.InputFill, def.InputFill)
	set(&p.InputBorder, "input_border", t.InputBorder, def.InputBorder)
	set(&p.Accent, "accent", t.Accent, def.Accent)
	set(&p.AccentText, "accent_text", t.AccentText, def.AccentText)
	set(&p.Text, "text", t.Text, def.Text)
	set(&p.UserBubble, "user_bubble", t.UserBubble, def.UserBubble)
	set(&p.UserBubbleBorder, "user_bubble_border", t.UserBubbleBorder, def.UserBubbleBorder)
	set(&p.BotBubble, "bot_bubble", t.BotBubble, def.BotBubble)
	set(&p.AttachmentFill, "attachment_fill", t.AttachmentFill, def.AttachmentFill)
	set(&p.AttachmentBorder, "attachment_border", t.AttachmentBorder, def.AttachmentBorder)
	set(&p.AttachmentLabel, "attachment_label", t.AttachmentLabel, def.AttachmentLabel)
	set(&p.GridHeader, "grid_header", t.GridHeader, def.GridHeader)
	set(&p.GridHeaderBorder, "grid_header_border", t.GridHeaderBorder, def.GridHeaderBorder)
	set(&p.GridLine, "grid_line", t.GridLine, def.GridLine)
	set(&p.ColumnDivider, "column_divider", t.ColumnDivider, def.ColumnDivider)
	set(&p.CellBackground, "cell_background", t.CellBackground, def.CellBackground)
	set(&p.YearHeader, "year_header", t.YearHeader, def.YearHeader)
	set(&p.YearHeaderText, "year_header_text", t.YearHeaderText, def.YearHeaderText)
	set(&p.InputValue, "input_value", t.InputValue, def.InputValue)

	return p, errors.Join(errs...)
}
