package dom

import (
	"sort"

	"github.com/vango-dev/vpatch/pkg/native"
	"github.com/vango-dev/vpatch/pkg/vdom"
)

// Index maps each requested pre-order position of tree to its live node
// under root. Subtrees that contain no requested position are skipped using
// the descendant counts, so the cost is bounded by the patched region rather
// than the tree size. Positions with no live counterpart are absent from the
// result.
func Index(d native.Driver, root native.Node, tree vdom.Node, positions []int) map[int]native.Node {
	nodes := make(map[int]native.Node, len(positions))
	if len(positions) == 0 || root == nil {
		return nodes
	}

	indices := append([]int(nil), positions...)
	sort.Ints(indices)

	recurse(d, root, tree, indices, nodes, 0)
	return nodes
}

func recurse(d native.Driver, live native.Node, tree vdom.Node, indices []int, nodes map[int]native.Node, rootIndex int) {
	if live == nil {
		return
	}

	if indexInRange(indices, rootIndex, rootIndex) {
		nodes[rootIndex] = live
	}

	v, ok := tree.(*vdom.VNode)
	if !ok || len(v.Children()) == 0 {
		return
	}

	childNodes := d.ChildNodes(live)
	for i, vChild := range v.Children() {
		rootIndex++
		nextIndex := rootIndex + vdom.CountOf(vChild)

		// Skip recursion down the tree if there are no nodes down here
		if i < len(childNodes) && indexInRange(indices, rootIndex, nextIndex) {
			recurse(d, childNodes[i], vChild, indices, nodes, rootIndex)
		}

		rootIndex = nextIndex
	}
}

// indexInRange reports whether any sorted index falls in [left, right].
func indexInRange(indices []int, left, right int) bool {
	i := sort.SearchInts(indices, left)
	return i < len(indices) && indices[i] <= right
}
