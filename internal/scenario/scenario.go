// Package scenario defines the configuration record a demo animation is
// generated from: chat text, reveal timing, sheet contents, layout metrics and
// output settings. Scenarios are TOML files; two presets are embedded.
package scenario

// Stacking orders for chat bubbles.
const (
	StackNewestFirst = "newest-first"
	StackOldestFirst = "oldest-first"
)

// Scenario is one fully specified demo.
type Scenario struct {
	Name        string `toml:"name" json:"name"`
	Description string `toml:"description" json:"description,omitempty"`
	Brand       string `toml:"brand" json:"brand"`

	Output Output `toml:"output" json:"output"`
	Chat   Chat   `toml:"chat" json:"chat"`
	Timing Timing `toml:"timing" json:"timing"`
	Sheet  Sheet  `toml:"sheet" json:"sheet"`
	Layout Layout `toml:"layout" json:"layout"`
}

// Output controls the rendered artifacts.
type Output struct {
	Animation string  `toml:"animation" json:"animation"` // GIF file name
	Still     string  `toml:"still" json:"still"`         // PNG file name
	FPS       int     `toml:"fps" json:"fps"`
	WidthIn   float64 `toml:"width_in" json:"width_in"`
	HeightIn  float64 `toml:"height_in" json:"height_in"`
	DPI       float64 `toml:"dpi" json:"dpi"`
	StillDPI  float64 `toml:"still_dpi" json:"still_dpi"`
}

// Chat holds the scripted conversation.
type Chat struct {
	Prompt            string   `toml:"prompt" json:"prompt"`
	AttachmentTrigger string   `toml:"attachment_trigger" json:"attachment_trigger,omitempty"`
	AttachmentName    string   `toml:"attachment_name" json:"attachment_name,omitempty"`
	AttachmentIcon    string   `toml:"attachment_icon" json:"attachment_icon,omitempty"` // PNG path; empty uses the built-in glyph
	Responses         []string `toml:"responses" json:"responses"`
	BubbleHeight      float64  `toml:"bubble_height" json:"bubble_height,omitempty"` // 0 estimates from the text
}

// Timing holds the reveal strides and pause-block lengths, in frames.
type Timing struct {
	InputStride    int `toml:"input_stride" json:"input_stride"`
	ResponseStride int `toml:"response_stride" json:"response_stride"`
	FormulaStride  int `toml:"formula_stride" json:"formula_stride"`

	InputPause   int `toml:"input_pause" json:"input_pause"`
	MessageSent  int `toml:"message_sent" json:"message_sent"`
	ResponseHold int `toml:"response_hold" json:"response_hold"`

	AssumptionPause int `toml:"assumption_pause" json:"assumption_pause"`
	AssumptionsHold int `toml:"assumptions_hold" json:"assumptions_hold"`
	ProjectionsHold int `toml:"projections_hold" json:"projections_hold"`

	FormulaIntroSteps   int `toml:"formula_intro_steps" json:"formula_intro_steps"`
	FormulaValuesHold   int `toml:"formula_values_hold" json:"formula_values_hold"`
	FormulaReadHold     int `toml:"formula_read_hold" json:"formula_read_hold"`
	FormulaCollapseHold int `toml:"formula_collapse_hold" json:"formula_collapse_hold"`

	FinalSteps int `toml:"final_steps" json:"final_steps"`
	FinalHold  int `toml:"final_hold" json:"final_hold"`
}

// Row is a labelled assumption row.
type Row struct {
	Label string `toml:"label" json:"label"`
	Value string `toml:"value" json:"value"`
}

// Sheet holds the spreadsheet contents revealed during the demo.
type Sheet struct {
	AssumptionsTitle string `toml:"assumptions_title" json:"assumptions_title"`
	Assumptions      []Row  `toml:"assumptions" json:"assumptions"`

	ProjectionsTitle string   `toml:"projections_title" json:"projections_title"`
	Years            []string `toml:"years" json:"years"`
	RevenueLabel     string   `toml:"revenue_label" json:"revenue_label"`
	Revenue          []string `toml:"revenue" json:"revenue"`
	FCFLabel         string   `toml:"fcf_label" json:"fcf_label"`
	FCF              []string `toml:"fcf" json:"fcf"`

	ResultLabel     string            `toml:"result_label" json:"result_label"`
	Formula         string            `toml:"formula" json:"formula"`
	Result          string            `toml:"result" json:"result"`
	ReferenceColors map[string]string `toml:"reference_colors" json:"reference_colors,omitempty"`
}

// Layout holds the metrics the renderer places cells and bubbles with.
// Units are logical coordinates of the 1400x700 scene.
type Layout struct {
	CellWidth  float64 `toml:"cell_width" json:"cell_width"`
	CellHeight float64 `toml:"cell_height" json:"cell_height"`
	Columns    int     `toml:"columns" json:"columns"`
	Rows       int     `toml:"rows" json:"rows"`

	WrapWidth        int     `toml:"wrap_width" json:"wrap_width"`
	UserBubbleWidth  float64 `toml:"user_bubble_width" json:"user_bubble_width"`
	UserBubbleHeight float64 `toml:"user_bubble_height" json:"user_bubble_height"`
	UserAdvance      float64 `toml:"user_advance" json:"user_advance"`
	BotBubbleWidth   float64 `toml:"bot_bubble_width" json:"bot_bubble_width"`
	BotSpacing       float64 `toml:"bot_spacing" json:"bot_spacing"`
	FormulaCharWidth float64 `toml:"formula_char_width" json:"formula_char_width"`
	Stack            string  `toml:"stack" json:"stack"`
}

// Default returns a scenario with every field set. Files are decoded over it,
// so a scenario file only needs to state what differs.
func Default() Scenario {
	return Scenario{
		Name:  "custom",
		Brand: "HyperPerfect",
		Output: Output{
			Animation: "demo.gif",
			Still:     "demo_final.png",
			FPS:       15,
			WidthIn:   8,
			HeightIn:  4,
			DPI:       75,
			StillDPI:  150,
		},
		Chat: Chat{
			Prompt:            "Do a quick Apple valuation",
			AttachmentTrigger: "apple",
			AttachmentName:    "Apple Financials.pdf",
			Responses: []string{
				"Researching assumptions online",
				"Adding financials from PDF",
				"Building Excel formulas",
			},
			BubbleHeight: 55,
		},
		Timing: Timing{
			InputStride:         1,
			ResponseStride:      5,
			FormulaStride:       5,
			InputPause:          3,
			MessageSent:         5,
			ResponseHold:        20,
			AssumptionPause:     3,
			AssumptionsHold:     25,
			ProjectionsHold:     25,
			FormulaIntroSteps:   4,
			FormulaValuesHold:   8,
			FormulaReadHold:     25,
			FormulaCollapseHold: 50,
			FinalSteps:          2,
			FinalHold:           50,
		},
		Sheet: Sheet{
			AssumptionsTitle: "Major Assumptions",
			Assumptions: []Row{
				{Label: "Terminal Multiple", Value: "10x"},
				{Label: "Discount Rate", Value: "8%"},
			},
			ProjectionsTitle: "Projections",
			Years:            []string{"2025A", "2026E", "2027E", "2028E", "2029E"},
			RevenueLabel:     "Revenue",
			Revenue:          []string{"394B", "412B", "430B", "445B", "459B"},
			FCFLabel:         "FCF",
			FCF:              []string{"126B", "135B", "142B", "148B", "154B"},
			ResultLabel:      "Enterprise Value",
			Formula:          "=PV(C4, 5, 0, -G9 * C3) + NPV(C4, C9:G9)",
			Result:           "$2.1T",
			ReferenceColors: map[string]string{
				"C4":    "#0d6efd",
				"G9":    "#dc3545",
				"C3":    "#6f42c1",
				"C9:G9": "#198754",
			},
		},
		Layout: Layout{
			CellWidth:        100,
			CellHeight:       38,
			Columns:          7,
			Rows:             15,
			WrapWidth:        38,
			UserBubbleWidth:  480,
			UserBubbleHeight: 75,
			UserAdvance:      105,
			BotBubbleWidth:   380,
			BotSpacing:       40,
			FormulaCharWidth: 11,
			Stack:            StackNewestFirst,
		},
	}
}
