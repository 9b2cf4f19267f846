// ABOUTME: Cell renderers shared by the entity pages.
// ABOUTME: Currency and date formatting for table columns.

package pages

import (
	"strconv"
	"strings"
	"time"
)

// money formats an amount as "$1,234.50".
func money(v float64) string {
	neg := v < 0
	if neg {
		v = -v
	}
	s := strconv.FormatFloat(v, 'f', 2, 64)
	whole, frac, _ := strings.Cut(s, ".")

	var sb strings.Builder
	if neg {
		sb.WriteByte('-')
	}
	sb.WriteByte('$')
	for i, c := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			sb.WriteByte(',')
		}
		sb.WriteRune(c)
	}
	sb.WriteByte('.')
	sb.WriteString(frac)
	return sb.String()
}

// day renders a timestamp as YYYY-MM-DD; the zero time renders empty.
func day(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}

// dateOnly trims an ISO date or timestamp string to its date part.
func dateOnly(s string) string {
	if len(s) > 10 {
		return s[:10]
	}
	return s
}
