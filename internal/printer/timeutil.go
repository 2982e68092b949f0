package printer

import (
	"fmt"
	"time"
)

// FormatDay returns a formatted calendar day string.
// Format: "2006-01-02".
func FormatDay(t time.Time) string {
	return t.UTC().Format(time.DateOnly)
}

// Percent formats a ratio in [0.0, 1.0] as a percentage string.
func Percent(r float64) string {
	return fmt.Sprintf("%.0f%%", r*100)
}
