package notes

import (
	"fmt"
	"html"
	"strings"
	"time"
)

type Format string

const (
	FormatMarkdown Format = "md"
	FormatHTML     Format = "html"
)

// ParseFormat accepts "md", "markdown" or "html"; empty means markdown.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "md", "markdown":
		return FormatMarkdown, nil
	case "html":
		return FormatHTML, nil
	}
	return "", fmt.Errorf("unsupported export format %q", s)
}

func (f Format) ContentType() string {
	if f == FormatHTML {
		return "text/html; charset=utf-8"
	}
	return "text/markdown; charset=utf-8"
}

// FileName is the download name for notes exported on day.
func FileName(day time.Time, f Format) string {
	return fmt.Sprintf("tuitionly-session-notes-%s.%s", day.Format("2006-01-02"), f)
}

// Export returns the body for doc in format f.
func Export(doc Document, f Format) []byte {
	if f == FormatHTML {
		var b strings.Builder
		b.WriteString("<!DOCTYPE html>\n<html>\n<head><meta charset=\"utf-8\"><title>")
		b.WriteString(html.EscapeString(doc.TutorName))
		b.WriteString(" Session Notes</title></head>\n<body>\n")
		b.WriteString(RenderHTML(doc.Markdown))
		b.WriteString("</body>\n</html>\n")
		return []byte(b.String())
	}
	return []byte(doc.Markdown)
}
