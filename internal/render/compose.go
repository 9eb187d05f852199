package render

import (
	"cmp"
	"image/color"
	"slices"
	"strconv"
	"strings"

	"github.com/wethinkt/go-demoreel/internal/scenario"
	"github.com/wethinkt/go-demoreel/internal/theme"
	"github.com/wethinkt/go-demoreel/internal/timeline"
)

// Fixed geometry of the mock UI, in logical units.
const (
	sheetX, sheetY, sheetW, sheetH = 20, 20, 700, 620
	chatX, chatY, chatW, chatH     = 750, 20, 630, 620

	headerH = 50
	inputH  = 60

	// gridLeft and gridTop place the first data row. The row gutter sits
	// left of gridLeft.
	gridLeft = sheetX + 50
	gridTop  = sheetY + sheetH - headerH - 25
	gutterW  = 40

	// chatTop is the lower edge of the first chat bubble.
	chatTop = chatY + chatH - headerH - 90

	cellPad = 0.4
)

// Depths. Equal depths paint in insertion order.
const (
	depthSheet       = 0
	depthCellBox     = 2
	depthCellText    = 3
	depthFormulaText = 4
	depthHighlight   = 5
	depthGridHeader  = 6
	depthGridLabel   = 7
	depthPanel       = 10
	depthInputText   = 15
	depthPill        = 15
	depthAttachment  = 16
	depthHeaderCover = 50
	depthTitle       = 51
	depthSendButton  = 52
	depthSendGlyph   = 53
	depthBubble      = 60
	depthBubbleText  = 61
)

// Compose builds the display list for one frame. It has no side effects
// and the same inputs always produce the same scene.
func Compose(f timeline.Frame, env *Env) *Scene {
	c := &composer{
		env: env,
		pal: env.Palette,
		lay: env.Scenario.Layout,
		s:   &Scene{},
	}
	c.chrome()
	if f.InputText != "" {
		c.input(f.InputText, f.Cursor)
	}
	if f.Attachment {
		c.attachment()
	}
	c.chat(f.Messages)
	c.grid()
	c.blocks(f.Blocks)
	return c.s
}

type composer struct {
	env *Env
	pal theme.Palette
	lay scenario.Layout
	s   *Scene
}

func (c *composer) text(depth int, x, y float64, s string, st TextStyle) {
	c.s.add(Op{Kind: OpText, Depth: depth, X: x, Y: y, Text: s, Style: st})
}

func (c *composer) style(f Font, size float64, col color.RGBA) TextStyle {
	return TextStyle{Font: f, Size: size, Color: col}
}

func (c *composer) chrome() {
	p := c.pal
	c.s.add(Op{Kind: OpRect, Depth: depthSheet, X: sheetX, Y: sheetY, W: sheetW, H: sheetH, Fill: p.SheetBackground})

	c.s.add(Op{Kind: OpRoundRect, Depth: depthPanel, X: chatX, Y: chatY, W: chatW, H: chatH, R: 15,
		Fill: p.PanelFill, Stroke: p.PanelBorder, LineWidth: 2})
	c.s.add(Op{Kind: OpRoundRect, Depth: depthPanel, X: chatX, Y: chatY + chatH - headerH, W: chatW, H: headerH, R: 15,
		Fill: p.HeaderFill, Stroke: p.PanelBorder, LineWidth: 2})
	// Square off the header's lower corners where it meets the body.
	c.s.add(Op{Kind: OpRect, Depth: depthHeaderCover, X: chatX + 2, Y: chatY + chatH - headerH, W: chatW - 4, H: headerH / 2,
		Fill: p.HeaderFill})

	titleY := float64(chatY + chatH - headerH/2)
	title := c.style(FontBold, 13, p.TitleText)
	title.VAlign = AlignMiddle
	c.text(depthTitle, chatX+20, titleY, c.env.Scenario.Brand, title)
	sub := c.style(FontRegular, 10, p.SubtitleText)
	sub.HAlign, sub.VAlign = AlignRight, AlignMiddle
	c.text(depthTitle, chatX+chatW-20, titleY, c.env.Labels.Subtitle, sub)

	c.s.add(Op{Kind: OpRoundRect, Depth: depthPanel, X: chatX + 15, Y: chatY + 15, W: chatW - 30, H: inputH, R: 20,
		Fill: p.InputFill, Stroke: p.InputBorder, LineWidth: 1.5})

	const bx, by = chatX + chatW - 45, chatY + 45
	c.s.add(Op{Kind: OpCircle, Depth: depthSendButton, X: bx, Y: by, R: 18, Fill: p.Accent})
	c.s.add(Op{Kind: OpPolygon, Depth: depthSendGlyph, Fill: p.AccentText, Points: []Point{
		{bx - 4, by + 7}, {bx - 4, by - 7}, {bx + 8, by},
	}})
}

func (c *composer) input(text string, cursor bool) {
	if cursor {
		text += "|"
	}
	c.text(depthInputText, chatX+30, chatY+40, text, c.style(FontRegular, 11, c.pal.Text))
}

func (c *composer) attachment() {
	const (
		baseX = chatX + 25
		baseY = chatY + 85
		pillH = 28
		pillX = baseX + 175
		pillW = 220
		midY  = baseY + pillH/2
	)
	c.s.add(Op{Kind: OpImage, Depth: depthAttachment, X: baseX + 12, Y: midY, Image: c.env.Icon, Zoom: 0.18})

	label := c.style(FontRegular, 8, c.pal.AttachmentLabel)
	label.VAlign = AlignMiddle
	c.text(depthAttachment, baseX+28, midY, c.env.Labels.FileUploaded, label)

	c.s.add(Op{Kind: OpRoundRect, Depth: depthPill, X: pillX, Y: baseY, W: pillW, H: pillH, R: 8,
		Fill: c.pal.AttachmentFill, Stroke: c.pal.AttachmentBorder, LineWidth: 1})
	name := c.style(FontRegular, 8, c.pal.Accent)
	name.VAlign = AlignMiddle
	c.text(depthAttachment, pillX+10, midY, c.env.Scenario.Chat.AttachmentName, name)
}

// chat stacks the bubbles downward from chatTop.
func (c *composer) chat(msgs []timeline.ChatMessage) {
	ordered := slices.Clone(msgs)
	slices.SortStableFunc(ordered, func(a, b timeline.ChatMessage) int {
		if c.lay.Stack == scenario.StackOldestFirst {
			return cmp.Compare(a.Order, b.Order)
		}
		return cmp.Compare(b.Order, a.Order)
	})

	y := float64(chatTop)
	for _, m := range ordered {
		if m.Role == timeline.RoleUser {
			c.userBubble(m.Text, y)
			y -= c.lay.UserAdvance
			continue
		}
		h := m.Height
		if h == 0 {
			h = timeline.EstimateBubbleHeight(m.Text)
		}
		c.botBubble(m.Text, y, h)
		y -= h + c.lay.BotSpacing
	}
}

func (c *composer) userBubble(text string, y float64) {
	w, h := c.lay.UserBubbleWidth, c.lay.UserBubbleHeight
	x := chatX + chatW - w - 20
	c.s.add(Op{Kind: OpRoundRect, Depth: depthBubble, X: x, Y: y, W: w, H: h, R: 15,
		Fill: c.pal.UserBubble, Stroke: c.pal.UserBubbleBorder, LineWidth: 1})
	c.text(depthBubbleText, x+15, y+h-25, c.env.Labels.User, c.style(FontBold, 8, c.pal.Text))
	body := c.style(FontRegular, 13, c.pal.Text)
	body.VAlign = AlignTop
	c.text(depthBubbleText, x+15, y+h-36, text, body)
}

func (c *composer) botBubble(text string, y, h float64) {
	w := c.lay.BotBubbleWidth
	x := float64(chatX + 20)
	c.s.add(Op{Kind: OpRoundRect, Depth: depthBubble, X: x, Y: y, W: w, H: h, R: 15, Fill: c.pal.BotBubble})
	c.text(depthBubbleText, x+10, y+h-18, c.env.Scenario.Brand, c.style(FontBold, 7, c.pal.Accent))
	body := c.style(FontRegular, 13, c.pal.Text)
	body.VAlign = AlignTop
	c.text(depthBubbleText, x+15, y+h-32, strings.Join(Wrap(text, c.lay.WrapWidth), "\n"), body)
}

// rowY returns the lower edge of grid row r, counted from zero.
func (c *composer) rowY(r int) float64 {
	return gridTop - float64(r)*(c.lay.CellHeight+1)
}

func (c *composer) grid() {
	cw, ch := c.lay.CellWidth, c.lay.CellHeight
	cols, rows := c.lay.Columns, c.lay.Rows
	width := float64(cols) * cw
	p := c.pal

	c.s.add(Op{Kind: OpRect, Depth: depthGridHeader, X: gridLeft, Y: gridTop + ch, W: width, H: ch,
		Fill: p.GridHeader, Stroke: p.GridHeaderBorder, LineWidth: 1})
	label := c.style(FontBold, 8, p.Text)
	label.HAlign, label.VAlign = AlignCenter, AlignMiddle
	for i := range cols {
		x := gridLeft + float64(i)*cw
		c.text(depthGridLabel, x+cw/2, gridTop+ch+ch/2, ColumnName(i), label)
		if i > 0 {
			c.s.add(Op{Kind: OpLine, Depth: depthGridLabel, X: x, Y: gridTop + ch, X2: x, Y2: gridTop + 2*ch,
				Stroke: p.ColumnDivider, LineWidth: 1})
		}
	}

	num := c.style(FontBold, 7, p.Text)
	num.HAlign, num.VAlign = AlignCenter, AlignMiddle
	for r := range rows {
		y := c.rowY(r)
		c.s.add(Op{Kind: OpRect, Depth: depthGridHeader, X: gridLeft - gutterW, Y: y, W: gutterW, H: ch,
			Fill: p.GridHeader, Stroke: p.GridHeaderBorder, LineWidth: 1})
		c.text(depthGridLabel, gridLeft-gutterW/2, y+ch/2, strconv.Itoa(r+1), num)
	}

	for i := 0; i <= cols; i++ {
		x := gridLeft + float64(i)*cw
		for r := range rows {
			y := c.rowY(r)
			c.s.add(Op{Kind: OpLine, Depth: depthSheet, X: x, Y: y, X2: x, Y2: y + ch, Stroke: p.GridLine, LineWidth: 0.5})
		}
	}
	for r := range rows {
		y := c.rowY(r)
		c.s.add(Op{Kind: OpLine, Depth: depthSheet, X: gridLeft, Y: y, X2: gridLeft + width, Y2: y, Stroke: p.GridLine, LineWidth: 0.5})
	}
}

// cell draws cell text on a box that hides the gridlines behind it.
func (c *composer) cell(col int, y float64, text string, st TextStyle) {
	if text == "" {
		return
	}
	cw, ch := c.lay.CellWidth, c.lay.CellHeight
	x := gridLeft + float64(col)*cw
	st.VAlign = AlignMiddle
	st.Background, st.Pad = c.pal.CellBackground, cellPad
	tx := x + cw/2
	switch st.HAlign {
	case AlignLeft:
		tx = x + 5
	case AlignRight:
		tx = x + cw - 5
	}
	c.text(depthCellText, tx, y+ch/2, text, st)
}

func (c *composer) label(size float64, bold bool) TextStyle {
	f := FontRegular
	if bold {
		f = FontBold
	}
	return c.style(f, size, c.pal.Text)
}

func (c *composer) value(size float64, bold bool) TextStyle {
	st := c.label(size, bold)
	st.HAlign = AlignCenter
	return st
}

// blocks lays the content blocks out top-down, one grid row at a time.
func (c *composer) blocks(blocks []timeline.Block) {
	row := 0
	for _, b := range blocks {
		switch b.Kind {
		case timeline.BlockAssumptions:
			row = c.assumptions(b, row)
		case timeline.BlockProjections:
			row = c.projections(b, row)
		case timeline.BlockFormulas:
			row = c.formulas(b, row)
		case timeline.BlockFinal:
			row = c.final(row)
		}
	}
}

func (c *composer) assumptions(b timeline.Block, row int) int {
	sh := c.env.Scenario.Sheet
	row++ // blank
	c.cell(0, c.rowY(row), sh.AssumptionsTitle, c.label(8, true))
	row++

	shown := min(b.Rows, len(sh.Assumptions))
	for _, a := range sh.Assumptions[:shown] {
		y := c.rowY(row)
		c.cell(0, y, a.Label, c.label(8, false))
		v := c.value(9, false)
		v.Color = c.pal.InputValue
		c.cell(2, y, a.Value, v)
		row++
	}
	if shown == len(sh.Assumptions) && shown > 0 {
		row += 2 // spacing before the next section
	}
	return row
}

func (c *composer) projections(b timeline.Block, row int) int {
	sh := c.env.Scenario.Sheet
	cw, ch := c.lay.CellWidth, c.lay.CellHeight
	y := c.rowY(row)

	head := c.label(8, true)
	head.VAlign = AlignMiddle
	c.text(depthCellText, gridLeft+5, y+ch/2, sh.ProjectionsTitle, head)

	year := c.style(FontBold, 9, c.pal.YearHeaderText)
	year.HAlign, year.VAlign = AlignCenter, AlignMiddle
	for i := range min(b.YearCount, len(sh.Years)) {
		x := gridLeft + float64(2+i)*cw
		c.s.add(Op{Kind: OpRect, Depth: depthSheet, X: x, Y: y, W: cw, H: ch, Fill: c.pal.YearHeader})
		c.text(depthCellText, x+cw/2, y+ch/2, sh.Years[i], year)
	}
	row++

	if b.DataRows >= 1 {
		row = c.series(row, sh.RevenueLabel, sh.Revenue, b.RevenueCells)
	}
	if b.DataRows >= 2 {
		row = c.series(row, sh.FCFLabel, sh.FCF, b.FCFCells)
	}
	return row
}

func (c *composer) series(row int, label string, values []string, shown int) int {
	y := c.rowY(row)
	c.cell(0, y, label, c.label(8, false))
	for i, v := range values[:min(shown, len(values))] {
		c.cell(2+i, y, v, c.value(8, false))
	}
	return row + 1
}

func (c *composer) formulas(b timeline.Block, row int) int {
	sh := c.env.Scenario.Sheet
	row += 2
	if b.Step < 3 {
		return row
	}
	y := c.rowY(row)
	c.cell(0, y, sh.ResultLabel, c.label(8, true))

	switch {
	case b.Step == 6:
		c.typedFormula(y, b.Progress)
	case b.Step >= 7:
		c.cell(2, y, sh.Result, c.value(10, true))
	}
	return row + 1
}

func (c *composer) final(row int) int {
	sh := c.env.Scenario.Sheet
	row += 2
	y := c.rowY(row)
	c.cell(0, y, sh.ResultLabel, c.label(8, true))
	c.cell(2, y, sh.Result, c.value(10, true))
	return row + 1
}

// typedFormula draws the revealed formula prefix one character at a time.
// A reference is coloured, and its cells outlined, only once all of its
// characters are visible.
func (c *composer) typedFormula(y float64, progress int) {
	cw, ch := c.lay.CellWidth, c.lay.CellHeight
	tbl := c.env.Formula
	x0 := gridLeft + 2*cw

	c.s.add(Op{Kind: OpRect, Depth: depthCellBox, X: x0, Y: y, W: float64(c.lay.Columns-2) * cw, H: ch,
		Fill: c.pal.CellBackground})

	for i, r := range []rune(tbl.Prefix(progress)) {
		st := c.style(FontMonoBold, 9, c.pal.Text)
		st.VAlign = AlignMiddle
		if key := tbl.ColorAt(i, progress); key != "" {
			st.Color = c.env.refColors[key]
		}
		c.text(depthFormulaText, x0+5+float64(i)*c.lay.FormulaCharWidth, y+ch/2, string(r), st)
	}

	for _, s := range tbl.Complete(progress) {
		first, last := s.Ref.Cells()
		c.s.add(Op{
			Kind:      OpRect,
			Depth:     depthHighlight,
			X:         gridLeft + float64(first.Col)*cw,
			Y:         c.rowY(last.Row),
			W:         float64(last.Col-first.Col+1) * cw,
			H:         float64(last.Row-first.Row)*(ch+1) + ch,
			Stroke:    c.env.refColors[s.Color],
			LineWidth: 1.5,
		})
	}
}

// ColumnName returns the spreadsheet letters of a zero-based column.
func ColumnName(i int) string {
	name := ""
	for i++; i > 0; i = (i - 1) / 26 {
		name = string(rune('A'+(i-1)%26)) + name
	}
	return name
}
