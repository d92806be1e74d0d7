package news

import (
	"strings"
	"time"
)

// dateLayout yields e.g. 05-Mar-2025; the month is lowercased afterwards.
const dateLayout = "02-Jan-2006"

// DatePair is the reporting window of one summary: yesterday through today.
type DatePair struct {
	Today     string
	Yesterday string
}

// FormatDate renders t as DD-mon-YYYY with a lowercase month abbreviation.
func FormatDate(t time.Time) string {
	return strings.ToLower(t.Format(dateLayout))
}

// NewDatePair computes the date pair for the calendar day of now, in now's location.
func NewDatePair(now time.Time) DatePair {
	return DatePair{
		Today:     FormatDate(now),
		Yesterday: FormatDate(now.AddDate(0, 0, -1)),
	}
}
