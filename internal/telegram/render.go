package telegram

import (
	"html"
	"strings"
	"unicode/utf8"

	"github.com/edgard/newsbot/internal/news"
)

// MaxMessageLength is the longest text Telegram accepts, counted after entity parsing.
const MaxMessageLength = 4096

const timestampLayout = "02 Jan 2006 15:04 MST"

// renderHTML formats env as an HTML message whose visible text fits
// MaxMessageLength. Only the body is shortened.
func renderHTML(env *news.Envelope) string {
	footer := env.Footer
	if !env.Timestamp.IsZero() {
		stamp := env.Timestamp.Format(timestampLayout)
		if footer != "" {
			footer += " • " + stamp
		} else {
			footer = stamp
		}
	}

	overhead := utf8.RuneCountInString(env.Title) + utf8.RuneCountInString(footer)
	if env.Title != "" {
		overhead += 2
	}
	if footer != "" {
		overhead += 2
	}
	body, _ := news.Truncate(env.Description, max(MaxMessageLength-overhead, 0))

	var sb strings.Builder
	if env.Title != "" {
		sb.WriteString("<b>")
		sb.WriteString(html.EscapeString(env.Title))
		sb.WriteString("</b>\n\n")
	}
	sb.WriteString(html.EscapeString(body))
	if footer != "" {
		sb.WriteString("\n\n<i>")
		sb.WriteString(html.EscapeString(footer))
		sb.WriteString("</i>")
	}
	return sb.String()
}
