package timeline

import (
	"testing"

	"github.com/wethinkt/go-demoreel/internal/scenario"
)

func loadPreset(t *testing.T, name string) scenario.Scenario {
	t.Helper()
	sc, err := scenario.LoadPreset(name)
	if err != nil {
		t.Fatalf("LoadPreset(%s): %v", name, err)
	}
	return sc
}

func TestBuildDCFFrameCount(t *testing.T) {
	sc := loadPreset(t, "dcf")
	frames := Build(sc)
	if len(frames) != 333 {
		t.Fatalf("dcf frames = %d, want 333", len(frames))
	}

	want := Counts{
		PhaseInputTyping:      27,
		PhaseInputPause:       3,
		PhaseMessageSent:      5,
		PhaseBotResponding:    15,
		PhaseBotComplete:      60,
		PhaseExcelAssumptions: 32,
		PhaseExcelProjections: 18,
		PhaseExcelComplete:    25,
		PhaseExcelFormulas:    96,
		PhaseExcelFinal:       2,
		PhaseHold:             50,
	}
	got := make(Counts)
	for _, f := range frames {
		got[f.Phase]++
	}
	for _, p := range Phases {
		if got[p] != want[p] {
			t.Errorf("phase %s: %d frames, want %d", p, got[p], want[p])
		}
	}
}

func TestPlanCountsMatchesBuild(t *testing.T) {
	for _, name := range scenario.Presets() {
		t.Run(name, func(t *testing.T) {
			sc := loadPreset(t, name)
			frames := Build(sc)
			plan := PlanCounts(sc)
			if plan.Total() != len(frames) {
				t.Fatalf("plan total = %d, built %d", plan.Total(), len(frames))
			}
			got := make(Counts)
			for _, f := range frames {
				got[f.Phase]++
			}
			for _, p := range Phases {
				if got[p] != plan[p] {
					t.Errorf("phase %s: built %d, planned %d", p, got[p], plan[p])
				}
			}
		})
	}
}

func TestPlanCountsVariedTiming(t *testing.T) {
	sc := scenario.Default()
	sc.Chat.Responses = append(sc.Chat.Responses, "Summarising the valuation for you", "Done")
	sc.Timing.InputStride = 4
	sc.Timing.ResponseStride = 3
	sc.Timing.FormulaStride = 7
	sc.Timing.FormulaIntroSteps = 0
	sc.Timing.FinalSteps = 1
	sc.Sheet.Assumptions = append(sc.Sheet.Assumptions, scenario.Row{Label: "Tax Rate", Value: "15%"})

	if got, want := PlanCounts(sc).Total(), len(Build(sc)); got != want {
		t.Errorf("plan total = %d, built %d", got, want)
	}
}

func TestInputTyping(t *testing.T) {
	sc := loadPreset(t, "dcf")
	frames := Build(sc)
	prompt := sc.Chat.Prompt
	showAt := len("Do a quick Apple")

	for i := 0; i <= len(prompt); i++ {
		f := frames[i]
		if f.Phase != PhaseInputTyping {
			t.Fatalf("frame %d phase = %s", i, f.Phase)
		}
		if f.InputText != prompt[:i] {
			t.Errorf("frame %d input = %q, want %q", i, f.InputText, prompt[:i])
		}
		if f.Cursor != (i < len(prompt)) {
			t.Errorf("frame %d cursor = %v", i, f.Cursor)
		}
		if f.Attachment != (i >= showAt) {
			t.Errorf("frame %d attachment = %v, want %v", i, f.Attachment, i >= showAt)
		}
	}

	// Once shown, the attachment stays for the rest of the animation.
	for i := showAt; i < len(frames); i++ {
		if !frames[i].Attachment {
			t.Fatalf("frame %d lost the attachment", i)
		}
	}
}

func TestTriggerEnd(t *testing.T) {
	tests := []struct {
		prompt, trigger string
		want            int
	}{
		{"Do a quick Apple valuation", "apple", 16},
		{"Do a quick Apple valuation", "APPLE", 16},
		{"Do a quick Apple valuation", "", 26},
		{"Do a quick Apple valuation", "pear", 26},
		{"Äpfel und Birnen", "äpfel", 5},
	}
	for _, tt := range tests {
		if got := triggerEnd(tt.prompt, tt.trigger); got != tt.want {
			t.Errorf("triggerEnd(%q, %q) = %d, want %d", tt.prompt, tt.trigger, got, tt.want)
		}
	}
}

func TestBotStreamingKeepsHeight(t *testing.T) {
	sc := loadPreset(t, "dcf")
	for i, f := range Build(sc) {
		for _, m := range f.Messages {
			if m.Role == RoleBot && m.Height != sc.Chat.BubbleHeight {
				t.Fatalf("frame %d: bot bubble height %v, want %v", i, m.Height, sc.Chat.BubbleHeight)
			}
		}
	}

	sc.Chat.BubbleHeight = 0
	want := EstimateBubbleHeight(sc.Chat.Responses[0])
	for i, f := range Build(sc) {
		if len(f.Messages) > 1 && f.Messages[1].Height != want {
			t.Fatalf("frame %d: estimated height %v, want %v", i, f.Messages[1].Height, want)
		}
	}
}

func TestMessageOrdersUnique(t *testing.T) {
	sc := loadPreset(t, "dcf")
	for i, f := range Build(sc) {
		seen := make(map[int]bool)
		for _, m := range f.Messages {
			if seen[m.Order] {
				t.Fatalf("frame %d: duplicate order %d", i, m.Order)
			}
			seen[m.Order] = true
		}
	}
}

func TestProjectionCountersMonotonic(t *testing.T) {
	sc := loadPreset(t, "dcf")
	var prev Block
	started := false
	for i, f := range Build(sc) {
		b, ok := f.Block(BlockProjections)
		if !ok {
			if started {
				t.Fatalf("frame %d: projections disappeared", i)
			}
			continue
		}
		if started && (b.YearCount < prev.YearCount || b.DataRows < prev.DataRows ||
			b.RevenueCells < prev.RevenueCells || b.FCFCells < prev.FCFCells) {
			t.Fatalf("frame %d: counters went backwards: %+v after %+v", i, b, prev)
		}
		prev, started = b, true
	}
	years := len(sc.Sheet.Years)
	if prev != Projections(years, 2, years, years) {
		t.Errorf("final projections = %+v", prev)
	}
}

func TestFormulaProgress(t *testing.T) {
	sc := loadPreset(t, "dcf")
	var progress []int
	for _, f := range Build(sc) {
		if b, ok := f.Block(BlockFormulas); ok && b.Step == 6 {
			progress = append(progress, b.Progress)
		}
	}
	// 0..40 in fives, then 25 read-hold frames at 40.
	if len(progress) != 9+25 {
		t.Fatalf("step 6 frames = %d, want 34", len(progress))
	}
	for i := 0; i < 9; i++ {
		if progress[i] != i*5 {
			t.Errorf("typing frame %d progress = %d, want %d", i, progress[i], i*5)
		}
	}
	for _, p := range progress[9:] {
		if p != 40 {
			t.Fatalf("read hold progress = %d, want 40", p)
		}
	}
}

func TestFinalFramesDropFormulas(t *testing.T) {
	sc := loadPreset(t, "dcf")
	frames := Build(sc)
	last := frames[len(frames)-1]
	if last.Phase != PhaseHold {
		t.Errorf("last phase = %s", last.Phase)
	}
	if _, ok := last.Block(BlockFormulas); ok {
		t.Error("final frame still has a formulas block")
	}
	if b, ok := last.Block(BlockFinal); !ok || b.Step != 2 {
		t.Errorf("final block = %+v, %v", b, ok)
	}
	if len(last.Blocks) != 3 {
		t.Errorf("final frame has %d blocks, want 3", len(last.Blocks))
	}
	if len(last.Messages) != 4 {
		t.Errorf("final frame has %d messages, want 4", len(last.Messages))
	}
}

func TestExtraResponsesFollowFormulas(t *testing.T) {
	sc := scenario.Default()
	sc.Chat.Responses = append(sc.Chat.Responses, "Valuation complete")
	frames := Build(sc)

	first := -1
	for i, f := range frames {
		if len(f.Messages) == 5 {
			first = i
			break
		}
	}
	if first < 0 {
		t.Fatal("fourth response never streamed")
	}
	b, ok := frames[first].Block(BlockFormulas)
	if !ok || b.Step != 7 {
		t.Errorf("fourth response starts alongside %+v, want formulas at step 7", b)
	}
}

func TestFramesShareNoSlices(t *testing.T) {
	sc := loadPreset(t, "dcf")
	frames := Build(sc)
	before := Build(sc)

	for i := range frames {
		for j := range frames[i].Messages {
			frames[i].Messages[j].Text = "mutated"
		}
		for j := range frames[i].Blocks {
			frames[i].Blocks[j].Rows = -1
		}
		if i+1 < len(frames) && !frames[i+1].Equal(before[i+1]) {
			t.Fatalf("mutating frame %d changed frame %d", i, i+1)
		}
	}
}

func TestRuns(t *testing.T) {
	sc := loadPreset(t, "dcf")
	frames := Build(sc)
	runs := Runs(frames)

	total := 0
	for i, r := range runs {
		if r.Start != total {
			t.Errorf("run %d starts at %d, want %d", i, r.Start, total)
		}
		if i > 0 && runs[i-1].Phase == r.Phase {
			t.Errorf("runs %d and %d share phase %s", i-1, i, r.Phase)
		}
		total += r.Count
	}
	if total != len(frames) {
		t.Errorf("runs cover %d frames, want %d", total, len(frames))
	}
	if runs[0].Phase != PhaseInputTyping || runs[len(runs)-1].Phase != PhaseHold {
		t.Errorf("runs = %+v", runs)
	}
}

func TestFrameEqual(t *testing.T) {
	a := Frame{Phase: PhaseHold, Messages: []ChatMessage{{Text: "x", Role: RoleUser}}, Blocks: []Block{Final(2)}}
	b := a
	b.Phase = PhaseExcelFinal
	if !a.Equal(b) {
		t.Error("frames differing only in phase should be equal")
	}
	b.Blocks = []Block{Final(1)}
	if a.Equal(b) {
		t.Error("frames with different blocks should differ")
	}
}

func TestEstimateBubbleHeight(t *testing.T) {
	tests := []struct {
		n    int
		want float64
	}{
		{0, 60},
		{34, 60},
		{70, 80},
		{105, 100},
	}
	for _, tt := range tests {
		text := make([]rune, tt.n)
		for i := range text {
			text[i] = 'x'
		}
		if got := EstimateBubbleHeight(string(text)); got != tt.want {
			t.Errorf("EstimateBubbleHeight(%d chars) = %v, want %v", tt.n, got, tt.want)
		}
	}
}
