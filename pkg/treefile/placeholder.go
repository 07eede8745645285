package treefile

import (
	"github.com/vango-dev/vpatch/pkg/native"
	"github.com/vango-dev/vpatch/pkg/vdom"
)

// WidgetAttr is the attribute carrying a placeholder's id.
const WidgetAttr = "data-widget"

// Placeholder stands in for a widget named by a document. It renders an
// empty element and never changes it on update.
type Placeholder struct {
	ID  string
	Tag string
}

// Init implements vdom.Widget.
func (p *Placeholder) Init(d native.Driver) native.Node {
	tag := p.Tag
	if tag == "" {
		tag = "div"
	}
	n := d.CreateElement(tag, "")
	d.SetAttribute(n, WidgetAttr, p.ID)
	return n
}

// Update implements vdom.Widget.
func (p *Placeholder) Update(prev vdom.Widget, node native.Node) native.Node {
	return nil
}

// WidgetID implements vdom.Identifier.
func (p *Placeholder) WidgetID() string { return p.ID }
