// Package timeline expands a scenario into the ordered list of frame
// descriptors the renderer draws. Every frame restates the full cumulative
// content of the scene, so any frame can be rendered on its own.
package timeline

import (
	"slices"
)

// Phase labels what a frame is showing. It is descriptive metadata only;
// nothing branches on it when drawing.
type Phase string

const (
	PhaseInputTyping      Phase = "input_typing"
	PhaseInputPause       Phase = "input_pause"
	PhaseMessageSent      Phase = "message_sent"
	PhaseBotResponding    Phase = "bot_responding"
	PhaseBotComplete      Phase = "bot_complete"
	PhaseExcelAssumptions Phase = "excel_assumptions"
	PhaseExcelProjections Phase = "excel_projections"
	PhaseExcelComplete    Phase = "excel_complete"
	PhaseExcelFormulas    Phase = "excel_formulas"
	PhaseExcelFinal       Phase = "excel_final"
	PhaseHold             Phase = "hold"
)

// Phases lists every phase in the order a full timeline visits them.
var Phases = []Phase{
	PhaseInputTyping,
	PhaseInputPause,
	PhaseMessageSent,
	PhaseBotResponding,
	PhaseBotComplete,
	PhaseExcelAssumptions,
	PhaseExcelProjections,
	PhaseExcelComplete,
	PhaseExcelFormulas,
	PhaseExcelFinal,
	PhaseHold,
}

// Role identifies who sent a chat message.
type Role string

const (
	RoleUser Role = "user"
	RoleBot  Role = "bot"
)

// ChatMessage is one bubble in the chat panel.
type ChatMessage struct {
	Text  string `json:"text"`
	Role  Role   `json:"role"`
	Order int    `json:"order"` // unique within a frame; lower is older

	// Height fixes the bubble height for the whole stream so the layout
	// does not jump while text arrives. Zero means not fixed.
	Height float64 `json:"height,omitempty"`
}

// BlockKind tags a spreadsheet content block.
type BlockKind string

const (
	BlockAssumptions BlockKind = "assumptions"
	BlockProjections BlockKind = "projections"
	BlockFormulas    BlockKind = "formulas"
	BlockFinal       BlockKind = "final"
)

// Block is a tagged section of spreadsheet content. Only the fields of its
// Kind are meaningful.
type Block struct {
	Kind BlockKind `json:"kind"`

	// Assumptions
	Rows int `json:"rows,omitempty"`

	// Projections
	YearCount    int `json:"year_count,omitempty"`
	DataRows     int `json:"data_rows,omitempty"`
	RevenueCells int `json:"revenue_cells,omitempty"`
	FCFCells     int `json:"fcf_cells,omitempty"`

	// Formulas and final
	Step     int `json:"step,omitempty"`
	Progress int `json:"progress,omitempty"` // formula characters revealed at step 6
}

// Assumptions returns an assumptions block showing the first rows rows.
func Assumptions(rows int) Block {
	return Block{Kind: BlockAssumptions, Rows: rows}
}

// Projections returns a projections block with the given reveal counters.
func Projections(years, dataRows, revenue, fcf int) Block {
	return Block{Kind: BlockProjections, YearCount: years, DataRows: dataRows, RevenueCells: revenue, FCFCells: fcf}
}

// Formulas returns a formulas block at step with progress characters typed.
func Formulas(step, progress int) Block {
	return Block{Kind: BlockFormulas, Step: step, Progress: progress}
}

// Final returns the settled result block.
func Final(step int) Block {
	return Block{Kind: BlockFinal, Step: step}
}

// Frame is an immutable description of one animation frame.
type Frame struct {
	Phase      Phase         `json:"phase"`
	InputText  string        `json:"input_text"`
	Cursor     bool          `json:"cursor"`
	Attachment bool          `json:"attachment"`
	Messages   []ChatMessage `json:"messages"`
	Blocks     []Block       `json:"blocks"`
}

// Equal reports whether two frames draw the same picture. Phase is ignored.
func (f Frame) Equal(o Frame) bool {
	return f.InputText == o.InputText &&
		f.Cursor == o.Cursor &&
		f.Attachment == o.Attachment &&
		slices.Equal(f.Messages, o.Messages) &&
		slices.Equal(f.Blocks, o.Blocks)
}

// Block returns the first block of the given kind.
func (f Frame) Block(kind BlockKind) (Block, bool) {
	for _, b := range f.Blocks {
		if b.Kind == kind {
			return b, true
		}
	}
	return Block{}, false
}

// EstimateBubbleHeight sizes a bot bubble from its text when no height is
// configured: one extra 20-unit line per 35 characters, at least 60.
func EstimateBubbleHeight(text string) float64 {
	n := len([]rune(text))
	return float64(max(60, n/35*20+40))
}
