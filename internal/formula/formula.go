// Package formula locates A1-style cell references inside a spreadsheet
// formula and answers which of them are fully visible for a typed prefix.
package formula

import (
	"errors"
	"fmt"
	"strings"
)

// ErrBadReference is returned for strings that are not A1 cell references.
var ErrBadReference = errors.New("bad cell reference")

// DefaultColor is the colour key for characters outside any complete reference.
const DefaultColor = ""

// fallbackColors are assigned, in order of first appearance, to references
// without an explicit colour.
var fallbackColors = []string{"#0d6efd", "#dc3545", "#6f42c1", "#198754", "#fd7e14", "#20c997"}

// Cell is a zero-based grid position: C4 is {Col: 2, Row: 3}.
type Cell struct {
	Col int
	Row int
}

// Ref is a single cell or a rectangular range.
type Ref struct {
	Name string // as written, e.g. "C9:G9"
	From Cell
	To   Cell
}

// IsRange reports whether the reference spans more than one cell.
func (r Ref) IsRange() bool { return r.From != r.To }

// Cells returns the first and last cell of the reference.
func (r Ref) Cells() (first, last Cell) { return r.From, r.To }

// Span is one occurrence of a reference in the formula, [Start, End) in runes.
type Span struct {
	Ref   Ref
	Start int
	End   int
	Color string
}

// Table is the span table of one formula, built once.
type Table struct {
	Formula string
	Spans   []Span
}

// ParseCell parses "C4" into {2, 3}.
func ParseCell(s string) (Cell, error) {
	col, row, n := scanCell(s, 0)
	if n == 0 || n != len(s) {
		return Cell{}, fmt.Errorf("%w: %q", ErrBadReference, s)
	}
	return Cell{Col: col, Row: row}, nil
}

// ParseRef parses "C4" or "C9:G9". Ranges are normalised so From is the
// top-left corner.
func ParseRef(s string) (Ref, error) {
	from, to, ok := strings.Cut(s, ":")
	a, err := ParseCell(from)
	if err != nil {
		return Ref{}, err
	}
	b := a
	if ok {
		if b, err = ParseCell(to); err != nil {
			return Ref{}, err
		}
	}
	return Ref{
		Name: s,
		From: Cell{Col: min(a.Col, b.Col), Row: min(a.Row, b.Row)},
		To:   Cell{Col: max(a.Col, b.Col), Row: max(a.Row, b.Row)},
	}, nil
}

// Parse scans the formula for references. colors maps a reference name to
// its colour; names without an entry get a fallback colour.
func Parse(formula string, colors map[string]string) Table {
	runes := []rune(formula)
	t := Table{Formula: formula}
	assigned := make(map[string]string)
	next := 0

	for i := 0; i < len(runes); {
		if !isUpper(runes[i]) || (i > 0 && isWord(runes[i-1])) {
			i++
			continue
		}
		_, _, n := scanCell(string(runes[i:]), 0)
		if n == 0 {
			for i < len(runes) && isWord(runes[i]) {
				i++
			}
			continue
		}
		end := i + n
		if end < len(runes) && runes[end] == ':' {
			if _, _, m := scanCell(string(runes[end+1:]), 0); m > 0 {
				end += 1 + m
			}
		}
		if end < len(runes) && (isWord(runes[end]) || runes[end] == '(') {
			i = end
			continue
		}

		name := string(runes[i:end])
		ref, err := ParseRef(name)
		if err != nil {
			i = end
			continue
		}
		c, ok := assigned[name]
		if !ok {
			if c, ok = colors[name]; !ok {
				c = fallbackColors[next%len(fallbackColors)]
				next++
			}
			assigned[name] = c
		}
		t.Spans = append(t.Spans, Span{Ref: ref, Start: i, End: end, Color: c})
		i = end
	}
	return t
}

// Len returns the formula length in runes.
func (t Table) Len() int { return len([]rune(t.Formula)) }

// Prefix returns the first n runes of the formula.
func (t Table) Prefix(n int) string {
	runes := []rune(t.Formula)
	n = max(0, min(n, len(runes)))
	return string(runes[:n])
}

// ColorAt returns the colour of character i when the first revealed
// characters are visible. A reference is coloured only once its last
// character is visible; until then it keeps DefaultColor.
func (t Table) ColorAt(i, revealed int) string {
	for _, s := range t.Spans {
		if s.Start <= i && i < s.End {
			if revealed >= s.End {
				return s.Color
			}
			return DefaultColor
		}
	}
	return DefaultColor
}

// Complete returns the distinct references fully visible for the prefix
// length, in order of first appearance.
func (t Table) Complete(revealed int) []Span {
	var out []Span
	seen := make(map[string]bool)
	for _, s := range t.Spans {
		if revealed < s.End || seen[s.Ref.Name] {
			continue
		}
		seen[s.Ref.Name] = true
		out = append(out, s)
	}
	return out
}

// scanCell reads column letters followed by row digits starting at i and
// returns the zero-based position and the number of bytes consumed.
func scanCell(s string, i int) (col, row, n int) {
	j := i
	for j < len(s) && isUpper(rune(s[j])) {
		col = col*26 + int(s[j]-'A'+1)
		j++
	}
	if j == i || j-i > 3 {
		return 0, 0, 0
	}
	k := j
	for k < len(s) && s[k] >= '0' && s[k] <= '9' {
		row = row*10 + int(s[k]-'0')
		k++
	}
	if k == j || row == 0 {
		return 0, 0, 0
	}
	return col - 1, row - 1, k - i
}

func isUpper(r rune) bool { return r >= 'A' && r <= 'Z' }

func isWord(r rune) bool {
	return isUpper(r) || (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_'
}
