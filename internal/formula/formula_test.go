package formula

import (
	"errors"
	"testing"
)

const dcfFormula = "=PV(C4, 5, 0, -G9 * C3) + NPV(C4, C9:G9)"

var dcfColors = map[string]string{
	"C4":    "#0d6efd",
	"G9":    "#dc3545",
	"C3":    "#6f42c1",
	"C9:G9": "#198754",
}

func TestParseCell(t *testing.T) {
	tests := []struct {
		in   string
		want Cell
	}{
		{"A1", Cell{0, 0}},
		{"C4", Cell{2, 3}},
		{"G9", Cell{6, 8}},
		{"Z10", Cell{25, 9}},
		{"AA1", Cell{26, 0}},
	}
	for _, tt := range tests {
		got, err := ParseCell(tt.in)
		if err != nil {
			t.Errorf("ParseCell(%q) error: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseCell(%q) = %+v, want %+v", tt.in, got, tt.want)
		}
	}

	for _, bad := range []string{"", "4C", "C", "C0", "c4", "C4x", "ABCD1"} {
		if _, err := ParseCell(bad); !errors.Is(err, ErrBadReference) {
			t.Errorf("ParseCell(%q) error = %v, want ErrBadReference", bad, err)
		}
	}
}

func TestParseRefNormalisesRange(t *testing.T) {
	r, err := ParseRef("G9:C9")
	if err != nil {
		t.Fatal(err)
	}
	if r.From != (Cell{2, 8}) || r.To != (Cell{6, 8}) {
		t.Errorf("ParseRef(G9:C9) = %+v", r)
	}
	if !r.IsRange() {
		t.Error("expected a range")
	}
}

func TestParseDCFSpans(t *testing.T) {
	tbl := Parse(dcfFormula, dcfColors)
	if tbl.Len() != 40 {
		t.Fatalf("formula length = %d, want 40", tbl.Len())
	}

	want := []struct {
		name       string
		start, end int
	}{
		{"C4", 4, 6},
		{"G9", 15, 17},
		{"C3", 20, 22},
		{"C4", 30, 32},
		{"C9:G9", 34, 39},
	}
	if len(tbl.Spans) != len(want) {
		t.Fatalf("got %d spans, want %d: %+v", len(tbl.Spans), len(want), tbl.Spans)
	}
	for i, w := range want {
		s := tbl.Spans[i]
		if s.Ref.Name != w.name || s.Start != w.start || s.End != w.end {
			t.Errorf("span %d = %s [%d,%d), want %s [%d,%d)", i, s.Ref.Name, s.Start, s.End, w.name, w.start, w.end)
		}
		if s.Color != dcfColors[w.name] {
			t.Errorf("span %d color = %s, want %s", i, s.Color, dcfColors[w.name])
		}
	}
}

func TestColorBoundary(t *testing.T) {
	tbl := Parse(dcfFormula, dcfColors)
	for _, s := range tbl.Spans {
		for i := s.Start; i < s.End; i++ {
			if got := tbl.ColorAt(i, s.End-1); got != DefaultColor {
				t.Errorf("%s char %d at L=%d coloured %q before the reference is complete", s.Ref.Name, i, s.End-1, got)
			}
			if got := tbl.ColorAt(i, s.End); got != s.Color {
				t.Errorf("%s char %d at L=%d = %q, want %q", s.Ref.Name, i, s.End, got, s.Color)
			}
		}
	}
	if got := tbl.ColorAt(0, tbl.Len()); got != DefaultColor {
		t.Errorf("'=' coloured %q", got)
	}
}

func TestCompleteDeduplicates(t *testing.T) {
	tbl := Parse(dcfFormula, dcfColors)

	tests := []struct {
		revealed int
		want     []string
	}{
		{0, nil},
		{5, nil},
		{6, []string{"C4"}},
		{17, []string{"C4", "G9"}},
		{22, []string{"C4", "G9", "C3"}},
		{38, []string{"C4", "G9", "C3"}},
		{39, []string{"C4", "G9", "C3", "C9:G9"}},
		{40, []string{"C4", "G9", "C3", "C9:G9"}},
	}
	for _, tt := range tests {
		got := tbl.Complete(tt.revealed)
		if len(got) != len(tt.want) {
			t.Errorf("Complete(%d) = %d refs, want %v", tt.revealed, len(got), tt.want)
			continue
		}
		for i, s := range got {
			if s.Ref.Name != tt.want[i] {
				t.Errorf("Complete(%d)[%d] = %s, want %s", tt.revealed, i, s.Ref.Name, tt.want[i])
			}
		}
	}
}

func TestParseFallbackColors(t *testing.T) {
	tbl := Parse("=SUM(A1:A3)*B2+A1:A3", nil)
	if len(tbl.Spans) != 3 {
		t.Fatalf("got %d spans, want 3: %+v", len(tbl.Spans), tbl.Spans)
	}
	if tbl.Spans[0].Color == tbl.Spans[1].Color {
		t.Error("distinct references should get distinct fallback colours")
	}
	if tbl.Spans[0].Color != tbl.Spans[2].Color {
		t.Error("repeated reference should reuse its colour")
	}
}

func TestPrefixClamps(t *testing.T) {
	tbl := Parse(dcfFormula, nil)
	if got := tbl.Prefix(-3); got != "" {
		t.Errorf("Prefix(-3) = %q", got)
	}
	if got := tbl.Prefix(4); got != "=PV(" {
		t.Errorf("Prefix(4) = %q", got)
	}
	if got := tbl.Prefix(99); got != dcfFormula {
		t.Errorf("Prefix(99) = %q", got)
	}
}
