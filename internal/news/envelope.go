package news

import (
	"time"
	"unicode/utf8"
)

// MaxDescriptionLength is the longest embed description Discord renders.
const MaxDescriptionLength = 4096

// AccentColor is the embed side-bar color.
const AccentColor = 0x0099FF

// Envelope is the display form of one summary, handed to a chat client once and discarded.
type Envelope struct {
	Title       string
	Description string
	Color       int
	Timestamp   time.Time
	Footer      string
	// Truncated reports whether Description was cut to MaxDescriptionLength.
	Truncated bool
}

// Truncate returns s cut to at most maxChars characters and whether it was cut.
// Characters are Unicode code points; a multi-byte sequence is never split.
func Truncate(s string, maxChars int) (string, bool) {
	if maxChars < 0 {
		maxChars = 0
	}
	if utf8.RuneCountInString(s) <= maxChars {
		return s, false
	}

	n := 0
	for i := range s {
		if n == maxChars {
			return s[:i], true
		}
		n++
	}
	return s, false
}
