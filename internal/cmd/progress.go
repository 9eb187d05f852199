package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"golang.org/x/term"
)

// ProgressReporter draws a single updating progress line on a terminal and
// stays silent elsewhere.
type ProgressReporter struct {
	w         io.Writer
	fd        int
	startTime time.Time
	isTTY     bool
}

// NewProgressReporter creates a new progress reporter writing to w.
func NewProgressReporter(w io.Writer) *ProgressReporter {
	pr := &ProgressReporter{w: w, fd: -1, startTime: time.Now()}
	if f, ok := w.(*os.File); ok {
		pr.fd = int(f.Fd())
		pr.isTTY = term.IsTerminal(pr.fd)
	}
	return pr
}

// getWidth returns the current terminal width, checking on each call to handle resizes
func (pr *ProgressReporter) getWidth() int {
	if !pr.isTTY {
		return 80
	}
	if w, _, err := term.GetSize(pr.fd); err == nil && w > 0 {
		return w
	}
	return 80
}

// ShouldShowProgress returns true if progress should be displayed
func (pr *ProgressReporter) ShouldShowProgress(quiet, verbose bool) bool {
	// If quiet is set, never show (takes precedence over verbose)
	if quiet {
		return false
	}
	if verbose {
		return true
	}
	return pr.isTTY
}

// FormatProgress formats a progress line with elapsed time on the right if in TTY
func (pr *ProgressReporter) FormatProgress(message string) string {
	if !pr.isTTY {
		return message
	}
	return pr.layout(message, pr.getWidth(), time.Since(pr.startTime))
}

func (pr *ProgressReporter) layout(message string, width int, elapsed time.Duration) string {
	elapsedStr := formatElapsed(elapsed)

	// 3 for " | "
	availableWidth := width - len(elapsedStr) - 3
	if availableWidth < 20 {
		return message
	}

	displayMsg := message
	if len(message) > availableWidth {
		displayMsg = message[:availableWidth-3] + "..."
	}

	padding := max(0, width-len(displayMsg)-len(elapsedStr)-3)
	return fmt.Sprintf("%s%s | %s", displayMsg, strings.Repeat(" ", padding), elapsedStr)
}

// Frames reports frame progress for one scenario.
func (pr *ProgressReporter) Frames(name string, done, total int) {
	// Redrawing every frame floods slow terminals.
	if done != total && done%10 != 0 {
		return
	}
	pr.Print(fmt.Sprintf("%s %s", name, renderBar(done, total, 24)))
}

// Print prints a progress line with carriage return and clear to end of line
func (pr *ProgressReporter) Print(message string) {
	if pr.isTTY {
		fmt.Fprintf(pr.w, "\r\x1b[K%s", pr.FormatProgress(message))
	} else {
		fmt.Fprintln(pr.w, message)
	}
}

// Finish prints a final newline if in TTY mode
func (pr *ProgressReporter) Finish() {
	if pr.isTTY {
		fmt.Fprintln(pr.w)
	}
}

// renderBar draws "[=====     ] 120/333".
func renderBar(done, total, width int) string {
	filled := 0
	if total > 0 {
		filled = min(width, done*width/total)
	}
	return fmt.Sprintf("[%s%s] %d/%d", strings.Repeat("=", filled), strings.Repeat(" ", width-filled), done, total)
}

// formatElapsed formats a duration as elapsed time (e.g., "1m 23s", "45s", "1.2s")
func formatElapsed(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}

	seconds := int(d.Seconds())
	if seconds < 60 {
		return fmt.Sprintf("%ds", seconds)
	}

	minutes := seconds / 60
	seconds = seconds % 60
	if minutes < 60 {
		return fmt.Sprintf("%dm %ds", minutes, seconds)
	}

	hours := minutes / 60
	minutes = minutes % 60
	return fmt.Sprintf("%dh %dm", hours, minutes)
}
