package render

import (
	"strings"
	"unicode/utf8"
)

// Wrap breaks text into lines of at most width characters at word
// boundaries. Words longer than width get a line of their own and are
// never split. Wrapping the joined result again yields the same lines.
func Wrap(text string, width int) []string {
	var (
		lines []string
		cur   strings.Builder
		n     int
	)
	for _, word := range strings.Fields(text) {
		wn := utf8.RuneCountInString(word)
		if n+wn+1 <= width {
			if n > 0 {
				cur.WriteByte(' ')
				n++
			}
			cur.WriteString(word)
			n += wn
			continue
		}
		if n > 0 {
			lines = append(lines, cur.String())
		}
		cur.Reset()
		cur.WriteString(word)
		n = wn
	}
	if n > 0 {
		lines = append(lines, cur.String())
	}
	return lines
}
