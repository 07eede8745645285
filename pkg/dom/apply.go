package dom

import (
	"fmt"

	vperrors "github.com/vango-dev/vpatch/internal/errors"
	"github.com/vango-dev/vpatch/pkg/native"
	"github.com/vango-dev/vpatch/pkg/vdom"
)

// Apply executes ps against the live tree rooted at root, which must have
// been built from ps.Old. Positions are applied in ascending order and the
// patches at a position in the order they were recorded. Positions without a
// live node are skipped.
//
// Apply returns the live root after patching. It differs from root only
// when a patch replaced or removed the root itself.
func Apply(d native.Driver, root native.Node, ps *vdom.PatchSet, opts ...Option) (native.Node, error) {
	return newPatcher(d, opts).apply(root, ps)
}

func (p *patcher) apply(root native.Node, ps *vdom.PatchSet) (native.Node, error) {
	positions := ps.Positions()
	if len(positions) == 0 {
		return root, nil
	}

	index := Index(p.d, root, ps.Old, positions)

	for _, pos := range positions {
		live, ok := index[pos]
		if !ok {
			if p.onSkip != nil {
				p.onSkip(pos)
			}
			continue
		}

		for _, patch := range ps.At(pos) {
			next, err := p.applyPatch(live, patch)
			if err != nil {
				return root, fmt.Errorf("position %d %s: %w", pos, patch.Op, err)
			}
			// Only structural replacement of the live root moves it.
			// Patches that mutate the old root in place return it unchanged.
			if live == root && next != live {
				root = next
			}
		}
	}

	return root, nil
}

func (p *patcher) applyPatch(live native.Node, patch vdom.Patch) (native.Node, error) {
	switch patch.Op {
	case vdom.PatchRemove:
		return p.removeNode(live, patch.VNode), nil

	case vdom.PatchInsert:
		return p.insertNode(live, patch.Node)

	case vdom.PatchVText:
		return p.stringPatch(live, patch.Node)

	case vdom.PatchWidget:
		return p.widgetPatch(live, patch.VNode, patch.Node)

	case vdom.PatchVNode:
		return p.vNodePatch(live, patch.Node)

	case vdom.PatchOrder:
		p.reorderChildren(live, patch.Moves)
		return live, nil

	case vdom.PatchProps:
		p.applyProperties(live, patch.Props, propsOf(patch.VNode))
		return live, nil

	case vdom.PatchThunk:
		next, err := p.apply(live, patch.Thunk)
		if err != nil {
			return live, err
		}
		p.replaceRoot(live, next)
		return next, nil

	case vdom.PatchNone:
		return live, nil
	}

	return live, vperrors.Newf(vperrors.CategoryApply, "unknown patch op %d", patch.Op)
}

func (p *patcher) removeNode(live native.Node, old vdom.Node) native.Node {
	if parent := p.d.ParentOf(live); parent != nil {
		p.d.RemoveChild(parent, live)
	}
	destroyWidget(live, old)
	return nil
}

// insertNode appends a new child; live is the parent.
func (p *patcher) insertNode(live native.Node, n vdom.Node) (native.Node, error) {
	child, err := p.create(n)
	if err != nil {
		return live, err
	}
	if live != nil && child != nil {
		p.d.AppendChild(live, child)
	}
	return live, nil
}

func (p *patcher) stringPatch(live native.Node, n vdom.Node) (native.Node, error) {
	text, ok := n.(*vdom.VText)
	if !ok {
		return live, vperrors.Newf(vperrors.CategoryApply, "VTEXT patch carries %T", n)
	}

	if p.d.IsText(live) {
		p.d.SetText(live, text.Text())
		return live, nil
	}

	next, err := p.create(text)
	if err != nil {
		return live, err
	}
	p.replace(live, next)
	return next, nil
}

func (p *patcher) widgetPatch(live native.Node, old, n vdom.Node) (native.Node, error) {
	widget, ok := n.(*vdom.WidgetNode)
	if !ok {
		return live, vperrors.Newf(vperrors.CategoryApply, "WIDGET patch carries %T", n)
	}

	updating := vdom.Compatible(old, n)

	var next native.Node
	if updating {
		next = widget.Widget().Update(old.(*vdom.WidgetNode).Widget(), live)
		if next == nil {
			next = live
		}
	} else {
		created, err := p.create(widget)
		if err != nil {
			return live, err
		}
		next = created
	}

	if next != live {
		p.replace(live, next)
	}
	if !updating {
		destroyWidget(live, old)
	}
	return next, nil
}

func (p *patcher) vNodePatch(live native.Node, n vdom.Node) (native.Node, error) {
	next, err := p.create(n)
	if err != nil {
		return live, err
	}
	if next != live {
		p.replace(live, next)
	}
	return next, nil
}

// replace swaps live for next under live's parent, if it has one.
func (p *patcher) replace(live, next native.Node) {
	if next == nil {
		return
	}
	if parent := p.d.ParentOf(live); parent != nil {
		p.d.ReplaceChild(parent, live, next)
	}
}

func (p *patcher) replaceRoot(oldRoot, newRoot native.Node) {
	if oldRoot != nil && newRoot != nil && oldRoot != newRoot {
		p.replace(oldRoot, newRoot)
	}
}

// reorderChildren runs the removes against the live child list, remembering
// keyed children, then reinserts them at their target indices.
func (p *patcher) reorderChildren(parent native.Node, moves *vdom.Moves) {
	if moves == nil {
		return
	}

	children := p.d.ChildNodes(parent)
	keyMap := make(map[string]native.Node, len(moves.Removes))

	for _, r := range moves.Removes {
		if r.From < 0 || r.From >= len(children) {
			continue
		}
		node := children[r.From]
		if r.Key != "" {
			keyMap[r.Key] = node
		}
		p.d.RemoveChild(parent, node)
		children = append(children[:r.From:r.From], children[r.From+1:]...)
	}

	for _, in := range moves.Inserts {
		node, ok := keyMap[in.Key]
		if !ok {
			continue
		}
		var ref native.Node
		to := in.To
		if to < len(children) {
			ref = children[to]
		} else {
			to = len(children)
		}
		p.d.InsertBefore(parent, node, ref)
		children = append(children[:to:to], append([]native.Node{node}, children[to:]...)...)
	}
}

func destroyWidget(live native.Node, old vdom.Node) {
	w, ok := old.(*vdom.WidgetNode)
	if !ok || w == nil {
		return
	}
	if d, ok := w.Widget().(vdom.Destroyer); ok {
		d.Destroy(live)
	}
}

func propsOf(n vdom.Node) vdom.Props {
	if v, ok := n.(*vdom.VNode); ok && v != nil {
		return v.Props()
	}
	return nil
}
