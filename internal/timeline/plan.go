package timeline

import (
	"github.com/wethinkt/go-demoreel/internal/scenario"
)

// Counts maps each phase to the number of frames it occupies.
type Counts map[Phase]int

// Total returns the number of frames across all phases.
func (c Counts) Total() int {
	n := 0
	for _, v := range c {
		n += v
	}
	return n
}

// PlanCounts computes how many frames Build produces per phase without
// building them.
func PlanCounts(sc scenario.Scenario) Counts {
	t := sc.Timing
	c := make(Counts, len(Phases))

	c[PhaseInputTyping] = steps(0, runeLen(sc.Chat.Prompt), t.InputStride)
	c[PhaseInputPause] = t.InputPause
	c[PhaseMessageSent] = t.MessageSent

	for _, r := range sc.Chat.Responses {
		c[PhaseBotResponding] += steps(t.ResponseStride, runeLen(r), t.ResponseStride)
		c[PhaseBotComplete] += t.ResponseHold
	}

	if rows := len(sc.Sheet.Assumptions); rows > 0 {
		c[PhaseExcelAssumptions] = 2*rows + (rows-1)*t.AssumptionPause + t.AssumptionsHold
	}

	c[PhaseExcelProjections] = 3 * (len(sc.Sheet.Years) + 1)
	c[PhaseExcelComplete] = t.ProjectionsHold

	c[PhaseExcelFormulas] = t.FormulaIntroSteps + t.FormulaValuesHold +
		steps(0, runeLen(sc.Sheet.Formula), t.FormulaStride) +
		t.FormulaReadHold + t.FormulaCollapseHold

	c[PhaseExcelFinal] = t.FinalSteps
	c[PhaseHold] = t.FinalHold
	return c
}

// Run is a maximal stretch of consecutive frames in one phase.
type Run struct {
	Phase Phase `json:"phase"`
	Start int   `json:"start"`
	Count int   `json:"count"`
}

// Runs groups consecutive frames by phase.
func Runs(frames []Frame) []Run {
	var runs []Run
	for i, f := range frames {
		if n := len(runs); n > 0 && runs[n-1].Phase == f.Phase {
			runs[n-1].Count++
			continue
		}
		runs = append(runs, Run{Phase: f.Phase, Start: i, Count: 1})
	}
	return runs
}

// steps counts from, from+stride, ... up to and including to.
func steps(from, to, stride int) int {
	if stride <= 0 || to < from {
		return 0
	}
	return (to-from)/stride + 1
}

func runeLen(s string) int { return len([]rune(s)) }
