package notes

import (
	"html"
	"regexp"
	"strings"
)

var (
	boldPattern   = regexp.MustCompile(`\*\*(.+?)\*\*`)
	italicPattern = regexp.MustCompile(`\*(.+?)\*`)
)

// RenderHTML converts the markdown subset used by Synthesize (headers 1-3,
// bold, italic, "- " list items) to HTML. Text is escaped before any tag is
// inserted, so transcript content can never inject markup. Blank lines are
// dropped and consecutive list items share one <ul>.
func RenderHTML(markdown string) string {
	var b strings.Builder
	inList := false
	closeList := func() {
		if inList {
			b.WriteString("</ul>\n")
			inList = false
		}
	}

	for _, raw := range strings.Split(markdown, "\n") {
		if strings.TrimSpace(raw) == "" {
			continue
		}
		switch {
		case strings.HasPrefix(raw, "### "):
			closeList()
			b.WriteString(`<h3 class="text-lg font-semibold mb-2">` + inline(raw[4:]) + "</h3>\n")
		case strings.HasPrefix(raw, "## "):
			closeList()
			b.WriteString(`<h2 class="text-xl font-bold mb-4">` + inline(raw[3:]) + "</h2>\n")
		case strings.HasPrefix(raw, "# "):
			closeList()
			b.WriteString(`<h1 class="text-2xl font-bold mb-6">` + inline(raw[2:]) + "</h1>\n")
		case strings.HasPrefix(raw, "- "):
			if !inList {
				b.WriteString("<ul>")
				inList = true
			}
			b.WriteString(`<li class="mb-1">` + inline(raw[2:]) + "</li>")
		default:
			closeList()
			b.WriteString(inline(raw) + "\n")
		}
	}
	closeList()
	return b.String()
}

func inline(s string) string {
	s = html.EscapeString(s)
	s = boldPattern.ReplaceAllString(s, "<strong>$1</strong>")
	return italicPattern.ReplaceAllString(s, "<em>$1</em>")
}
