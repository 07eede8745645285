package render

func set(names ...string) map[string]bool {
	m := make(map[string]bool, len(names))
	for _, n := range names {
		m[n] = true
	}
	return m
}

// Void elements have no closing tag and never hold children.
var voidElements = set(
	"area", "base", "br", "col", "embed", "hr", "img", "input",
	"link", "meta", "param", "source", "track", "wbr",
)

// Inline elements keep their children on one line in pretty output.
var inlineElements = set(
	"a", "abbr", "b", "bdi", "bdo", "br", "cite", "code", "data", "dfn",
	"em", "i", "kbd", "label", "mark", "q", "s", "samp", "small", "span",
	"strong", "sub", "sup", "time", "u", "var", "wbr",
)

// Boolean attributes render as a bare name when set.
var booleanAttrs = set(
	"allowfullscreen", "async", "autofocus", "autoplay", "checked",
	"controls", "default", "defer", "disabled", "formnovalidate", "hidden",
	"inert", "ismap", "itemscope", "loop", "multiple", "muted", "nomodule",
	"novalidate", "open", "playsinline", "readonly", "required", "reversed",
	"selected",
)

func isVoidElement(tag string) bool { return voidElements[tag] }

func isInlineElement(tag string) bool { return inlineElements[tag] }
