package post

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var dateToken = regexp.MustCompile(`^(\d{4})-(\d{1,2})-(\d{1,2})`)

// DateParseError reports a leading token shaped like a date that names no
// real calendar day.
type DateParseError struct {
	Token string
}

func (e *DateParseError) Error() string {
	return fmt.Sprintf("invalid post date %q", e.Token)
}

// ExtractDate pops an optional leading YYYY-M-D token off text, which must
// already be trimmed. On a match the token and surrounding whitespace are
// consumed; a token that is not a real calendar day is a DateParseError.
// Without a token the text comes back unchanged, the date defaults to now
// and a date-missing warning is recorded.
func ExtractDate(text string, now time.Time, diags *Diagnostics) (time.Time, string, error) {
	m := dateToken.FindStringSubmatch(text)
	if m == nil {
		diags.add(WarnDateMissing, "Can't parse post date, will use today's.")
		return now, text, nil
	}
	year, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	day, _ := strconv.Atoi(m[3])
	date := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if date.Year() != year || date.Month() != time.Month(month) || date.Day() != day {
		return time.Time{}, "", &DateParseError{Token: m[0]}
	}
	return date, strings.TrimSpace(text[len(m[0]):]), nil
}
