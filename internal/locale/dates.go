package locale

import (
	"fmt"
	"time"
)

// Polish long dates use the genitive month form ("16 października 2026").
var polishMonths = [12]string{
	"stycznia", "lutego", "marca", "kwietnia", "maja", "czerwca",
	"lipca", "sierpnia", "września", "października", "listopada", "grudnia",
}

// FormatLongDate renders the calendar date of t without the time of day.
func FormatLongDate(t time.Time, lang Language) string {
	switch lang {
	case Polish:
		return fmt.Sprintf("%d %s %d", t.Day(), polishMonths[t.Month()-1], t.Year())
	default:
		return t.Format("January 2, 2006")
	}
}
