package i18n

import (
	"time"
)

// Duration formats an elapsed time for CLI summaries: milliseconds below
// one second, tenths of seconds below a minute, then minutes and seconds.
func Duration(d time.Duration) string {
	switch {
	case d < time.Second:
		return Tf("common.duration.ms", "%d ms", d.Milliseconds())
	case d < time.Minute:
		return Tf("common.duration.seconds", "%.1f s", d.Seconds())
	default:
		m := int(d.Minutes())
		s := int(d.Seconds()) - 60*m
		return Tf("common.duration.minutes", "%d min %d s", m, s)
	}
}
