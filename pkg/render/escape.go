package render

import (
	"io"
	"strings"
)

var (
	textEscaper = strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		`"`, "&quot;",
		"'", "&#39;",
	)

	// Attribute values also escape whitespace a parser would normalize.
	attrEscaper = strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		`"`, "&quot;",
		"'", "&#39;",
		"\n", "&#10;",
		"\r", "&#13;",
		"\t", "&#9;",
	)
)

func escapeHTML(s string) string { return textEscaper.Replace(s) }

func escapeAttr(s string) string { return attrEscaper.Replace(s) }

// writeText writes escaped text content. Write errors surface from the
// buffered writer's Flush.
func writeText(w io.Writer, s string) {
	_, _ = textEscaper.WriteString(w, s)
}

func writeAttrValue(w io.Writer, s string) {
	_, _ = attrEscaper.WriteString(w, s)
}
