// Package locale renders the long-form date captions shown under post
// headings. Captions exist for the two site languages; any other code
// yields an empty caption.
package locale

import (
	"fmt"
	"time"
)

// Name tables are Monday-first and January-first.
var (
	daysFR   = [7]string{"Lundi", "Mardi", "Mercredi", "Jeudi", "Vendredi", "Samedi", "Dimanche"}
	monthsFR = [12]string{"janvier", "février", "mars", "avril", "mai", "juin", "juillet", "août", "septembre", "octobre", "novembre", "décembre"}

	daysEN   = [7]string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}
	monthsEN = [12]string{"January", "February", "March", "April", "May", "June", "July", "August", "September", "October", "November", "December"}
)

// Caption formats a date in the long form of the given language code.
// Codes other than "fr" and "en" produce the empty string.
func Caption(lang string, t time.Time) string {
	switch lang {
	case "fr":
		return fmt.Sprintf("%s, %d %s %d", daysFR[mondayIndex(t)], t.Day(), monthsFR[t.Month()-1], t.Year())
	case "en":
		return fmt.Sprintf("%s, %s %d, %d", daysEN[mondayIndex(t)], monthsEN[t.Month()-1], t.Day(), t.Year())
	default:
		return ""
	}
}

// mondayIndex maps time.Weekday, which counts from Sunday, onto the
// Monday-first tables.
func mondayIndex(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}
