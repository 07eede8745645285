package render

import (
	"bufio"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/vango-dev/vpatch/pkg/native/memdom"
)

// RendererConfig configures the HTML renderer.
type RendererConfig struct {
	// Pretty enables indented output with one block element per line.
	Pretty bool

	// Indent is the indentation string used in pretty mode. Defaults to two
	// spaces.
	Indent string

	// SkipProps leaves node properties out of the output. By default scalar
	// properties are serialized as attributes so they show up in dumps.
	SkipProps bool
}

// Renderer serializes memdom trees to HTML.
type Renderer struct {
	config RendererConfig
}

// NewRenderer creates a new renderer with the given config.
func NewRenderer(config RendererConfig) *Renderer {
	if config.Indent == "" {
		config.Indent = "  "
	}
	return &Renderer{config: config}
}

// HTML renders n with the given config and returns the markup.
func HTML(n *memdom.Node, config RendererConfig) string {
	s, _ := NewRenderer(config).RenderToString(n)
	return s
}

// RenderToString renders a node to an HTML string.
func (r *Renderer) RenderToString(n *memdom.Node) (string, error) {
	var sb strings.Builder
	if err := r.RenderToWriter(&sb, n); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// RenderToWriter renders a node to w.
func (r *Renderer) RenderToWriter(w io.Writer, n *memdom.Node) error {
	bw := bufio.NewWriter(w)
	r.renderNode(bw, n, 0)
	return bw.Flush()
}

func (r *Renderer) renderNode(w *bufio.Writer, n *memdom.Node, depth int) {
	if n == nil {
		return
	}
	if n.Type == memdom.TextNode {
		r.writeIndent(w, depth)
		writeText(w, n.Data)
		r.writeNewline(w)
		return
	}

	r.writeIndent(w, depth)
	if r.openTag(w, n) {
		r.writeNewline(w)
		return
	}

	if !r.config.Pretty || compact(n) {
		for _, c := range n.Children() {
			r.renderInline(w, c)
		}
	} else {
		w.WriteByte('\n')
		for _, c := range n.Children() {
			r.renderNode(w, c, depth+1)
		}
		r.writeIndent(w, depth)
	}

	w.WriteString("</")
	w.WriteString(n.Tag)
	w.WriteByte('>')
	r.writeNewline(w)
}

// renderInline writes a subtree without any whitespace.
func (r *Renderer) renderInline(w *bufio.Writer, n *memdom.Node) {
	if n.Type == memdom.TextNode {
		writeText(w, n.Data)
		return
	}
	if r.openTag(w, n) {
		return
	}
	for _, c := range n.Children() {
		r.renderInline(w, c)
	}
	w.WriteString("</")
	w.WriteString(n.Tag)
	w.WriteByte('>')
}

// compact reports whether an element's children stay on its line in pretty
// mode: inline elements and elements holding only text.
func compact(n *memdom.Node) bool {
	if isInlineElement(n.Tag) {
		return true
	}
	for _, c := range n.Children() {
		if c.Type != memdom.TextNode {
			return false
		}
	}
	return true
}

// openTag writes the start tag and reports whether the element is already
// closed: HTML void elements, and childless elements in a foreign namespace
// which self-close.
func (r *Renderer) openTag(w *bufio.Writer, n *memdom.Node) (closed bool) {
	w.WriteByte('<')
	w.WriteString(n.Tag)
	if n.Namespace != "" && (n.Parent() == nil || n.Parent().Namespace != n.Namespace) {
		w.WriteString(` xmlns="`)
		writeAttrValue(w, n.Namespace)
		w.WriteByte('"')
	}

	attrs := r.collectAttrs(n)
	for _, name := range memdom.SortedKeys(attrs) {
		value := attrs[name]
		w.WriteByte(' ')
		w.WriteString(name)
		if value == nil {
			continue
		}
		w.WriteString(`="`)
		writeAttrValue(w, *value)
		w.WriteByte('"')
	}

	if n.Namespace != "" && len(n.Children()) == 0 {
		w.WriteString("/>")
		return true
	}
	w.WriteByte('>')
	return n.Namespace == "" && isVoidElement(n.Tag)
}

// collectAttrs merges properties, attributes and style into one attribute
// set. Attributes win over properties of the same name and the style map
// wins over a style attribute. A nil value renders the bare name.
func (r *Renderer) collectAttrs(n *memdom.Node) map[string]*string {
	attrs := make(map[string]*string, len(n.Attrs)+len(n.Props)+1)

	if !r.config.SkipProps {
		for name, v := range n.Props {
			name = propToAttr(name)
			switch v := v.(type) {
			case bool:
				if !v {
					continue
				}
				if booleanAttrs[name] {
					attrs[name] = nil
				} else {
					s := "true"
					attrs[name] = &s
				}
			default:
				if s, ok := attrToString(v); ok {
					attrs[name] = &s
				}
			}
		}
	}

	for name, v := range n.Attrs {
		v := v
		if booleanAttrs[name] && (v == "" || v == "true" || v == name) {
			attrs[name] = nil
			continue
		}
		attrs[name] = &v
	}

	if len(n.Style) > 0 {
		var sb strings.Builder
		for i, name := range memdom.SortedKeys(n.Style) {
			if i > 0 {
				sb.WriteString("; ")
			}
			sb.WriteString(name)
			sb.WriteString(": ")
			sb.WriteString(n.Style[name])
		}
		s := sb.String()
		attrs["style"] = &s
	}
	return attrs
}

// propToAttr maps DOM property names to their attribute names.
func propToAttr(name string) string {
	switch name {
	case "className":
		return "class"
	case "htmlFor":
		return "for"
	default:
		return strings.ToLower(name)
	}
}

// attrToString converts scalar property values. Maps, slices and functions
// have no attribute form.
func attrToString(v any) (string, bool) {
	switch val := v.(type) {
	case string:
		return val, true
	case int:
		return strconv.Itoa(val), true
	case int64:
		return strconv.FormatInt(val, 10), true
	case int32:
		return strconv.FormatInt(int64(val), 10), true
	case uint:
		return strconv.FormatUint(uint64(val), 10), true
	case uint64:
		return strconv.FormatUint(val, 10), true
	case float64:
		if math.IsNaN(val) || math.IsInf(val, 0) {
			return "", false
		}
		return strconv.FormatFloat(val, 'g', -1, 64), true
	case float32:
		return strconv.FormatFloat(float64(val), 'g', -1, 32), true
	default:
		return "", false
	}
}

func (r *Renderer) writeIndent(w *bufio.Writer, depth int) {
	if !r.config.Pretty {
		return
	}
	for i := 0; i < depth; i++ {
		w.WriteString(r.config.Indent)
	}
}

func (r *Renderer) writeNewline(w *bufio.Writer) {
	if r.config.Pretty {
		w.WriteByte('\n')
	}
}
