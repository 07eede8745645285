package dom

import (
	vperrors "github.com/vango-dev/vpatch/internal/errors"
	"github.com/vango-dev/vpatch/pkg/native"
	"github.com/vango-dev/vpatch/pkg/vdom"
)

// Create renders n into new native nodes and returns the root. Thunks are
// resolved; widgets build their own node through Init. A nil tree creates
// nothing.
func Create(d native.Driver, n vdom.Node, opts ...Option) (native.Node, error) {
	return newPatcher(d, opts).create(n)
}

// patcher carries the driver and options through create and apply.
type patcher struct {
	d native.Driver
	options
}

func newPatcher(d native.Driver, opts []Option) *patcher {
	p := &patcher{d: d, options: defaultOptions()}
	for _, opt := range opts {
		opt(&p.options)
	}
	return p
}

func (p *patcher) create(n vdom.Node) (native.Node, error) {
	n, err := vdom.Resolve(n)
	if err != nil {
		return nil, vperrors.New("E101").Wrap(err)
	}

	switch v := n.(type) {
	case *vdom.WidgetNode:
		if v == nil {
			return nil, nil
		}
		return v.Widget().Init(p.d), nil

	case *vdom.VText:
		if v == nil {
			return nil, nil
		}
		return p.d.CreateTextNode(v.Text()), nil

	case *vdom.VNode:
		if v == nil {
			return nil, nil
		}
		el := p.d.CreateElement(v.Tag(), v.Namespace())
		p.applyProperties(el, v.Props(), nil)
		for _, child := range v.Children() {
			c, err := p.create(child)
			if err != nil {
				return nil, err
			}
			if c != nil {
				p.d.AppendChild(el, c)
			}
		}
		return el, nil
	}

	return nil, nil
}
