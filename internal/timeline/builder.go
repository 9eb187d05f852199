package timeline

import (
	"slices"
	"strings"

	"github.com/wethinkt/go-demoreel/internal/scenario"
)

// Build expands a validated scenario into its frames. The result is
// deterministic and no two frames share a slice.
func Build(sc scenario.Scenario) []Frame {
	b := &builder{sc: sc}
	b.typeInput()
	b.send()
	b.respond(0)
	b.assumptions()
	b.respond(1)
	b.projections()
	b.respond(2)
	b.formulas()
	for i := 3; i < len(sc.Chat.Responses); i++ {
		b.respond(i)
	}
	b.final()
	return b.frames
}

type builder struct {
	sc     scenario.Scenario
	frames []Frame

	input      string
	cursor     bool
	attachment bool
	messages   []ChatMessage
	blocks     []Block
}

func (b *builder) emit(phase Phase) {
	b.frames = append(b.frames, Frame{
		Phase:      phase,
		InputText:  b.input,
		Cursor:     b.cursor,
		Attachment: b.attachment,
		Messages:   slices.Clone(b.messages),
		Blocks:     slices.Clone(b.blocks),
	})
}

func (b *builder) hold(phase Phase, n int) {
	for range n {
		b.emit(phase)
	}
}

// setBlock replaces the last block, or appends one when the last block is
// of another kind.
func (b *builder) setBlock(blk Block) {
	if n := len(b.blocks); n > 0 && b.blocks[n-1].Kind == blk.Kind {
		b.blocks[n-1] = blk
		return
	}
	b.blocks = append(b.blocks, blk)
}

func (b *builder) typeInput() {
	prompt := []rune(b.sc.Chat.Prompt)
	showAt := triggerEnd(b.sc.Chat.Prompt, b.sc.Chat.AttachmentTrigger)
	hasAttachment := b.sc.Chat.AttachmentName != ""

	for i := 0; i <= len(prompt); i += b.sc.Timing.InputStride {
		b.input = string(prompt[:i])
		b.cursor = i < len(prompt)
		b.attachment = hasAttachment && i >= showAt
		b.emit(PhaseInputTyping)
	}

	b.input = string(prompt)
	b.cursor = false
	b.attachment = hasAttachment
	b.hold(PhaseInputPause, b.sc.Timing.InputPause)
}

// triggerEnd returns the rune index just past the first case-insensitive
// match of trigger in prompt. Without a match the attachment appears once
// the whole prompt is typed.
func triggerEnd(prompt, trigger string) int {
	p := []rune(strings.ToLower(prompt))
	t := []rune(strings.ToLower(trigger))
	if len(t) == 0 {
		return len(p)
	}
	for i := 0; i+len(t) <= len(p); i++ {
		if slices.Equal(p[i:i+len(t)], t) {
			return i + len(t)
		}
	}
	return len(p)
}

func (b *builder) send() {
	b.input = ""
	b.messages = append(b.messages, ChatMessage{Text: b.sc.Chat.Prompt, Role: RoleUser, Order: 0})
	b.hold(PhaseMessageSent, b.sc.Timing.MessageSent)
}

// respond streams response i, if the scenario has one.
func (b *builder) respond(i int) {
	if i >= len(b.sc.Chat.Responses) {
		return
	}
	text := []rune(b.sc.Chat.Responses[i])
	height := b.sc.Chat.BubbleHeight
	if height == 0 {
		height = EstimateBubbleHeight(string(text))
	}

	b.messages = append(b.messages, ChatMessage{Role: RoleBot, Order: i + 1, Height: height})
	last := len(b.messages) - 1

	stride := b.sc.Timing.ResponseStride
	for n := stride; n <= len(text); n += stride {
		b.messages[last].Text = string(text[:n])
		b.emit(PhaseBotResponding)
	}

	b.messages[last].Text = string(text)
	b.hold(PhaseBotComplete, b.sc.Timing.ResponseHold)
}

func (b *builder) assumptions() {
	t := b.sc.Timing
	rows := len(b.sc.Sheet.Assumptions)
	for r := 1; r <= rows; r++ {
		b.setBlock(Assumptions(r - 1))
		b.emit(PhaseExcelAssumptions)
		b.setBlock(Assumptions(r))
		b.emit(PhaseExcelAssumptions)
		if r < rows {
			b.hold(PhaseExcelAssumptions, t.AssumptionPause)
		} else {
			b.hold(PhaseExcelAssumptions, t.AssumptionsHold)
		}
	}
}

func (b *builder) projections() {
	years := len(b.sc.Sheet.Years)
	for y := 0; y <= years; y++ {
		b.setBlock(Projections(y, 0, 0, 0))
		b.emit(PhaseExcelProjections)
	}
	for v := 0; v <= years; v++ {
		b.setBlock(Projections(years, 1, v, 0))
		b.emit(PhaseExcelProjections)
	}
	for v := 0; v <= years; v++ {
		b.setBlock(Projections(years, 2, years, v))
		b.emit(PhaseExcelProjections)
	}
	b.hold(PhaseExcelComplete, b.sc.Timing.ProjectionsHold)
}

func (b *builder) formulas() {
	t := b.sc.Timing
	for s := range t.FormulaIntroSteps {
		b.setBlock(Formulas(s, 0))
		b.emit(PhaseExcelFormulas)
	}

	b.setBlock(Formulas(5, 0))
	b.hold(PhaseExcelFormulas, t.FormulaValuesHold)

	n := len([]rune(b.sc.Sheet.Formula))
	for p := 0; p <= n; p += t.FormulaStride {
		b.setBlock(Formulas(6, p))
		b.emit(PhaseExcelFormulas)
	}

	b.setBlock(Formulas(6, n))
	b.hold(PhaseExcelFormulas, t.FormulaReadHold)

	b.setBlock(Formulas(7, 0))
	b.hold(PhaseExcelFormulas, t.FormulaCollapseHold)
}

func (b *builder) final() {
	// The settled value replaces the formulas block.
	if n := len(b.blocks); n > 0 && b.blocks[n-1].Kind == BlockFormulas {
		b.blocks = b.blocks[:n-1]
	}
	for s := range b.sc.Timing.FinalSteps {
		b.setBlock(Final(s))
		b.emit(PhaseExcelFinal)
	}
	b.setBlock(Final(2))
	b.hold(PhaseHold, b.sc.Timing.FinalHold)
}
