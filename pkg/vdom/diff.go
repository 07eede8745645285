package vdom

// Diff compares the previous tree a with the next tree b and returns the
// patches that transform a native tree built from a into one matching b.
//
// Patches are keyed by the pre-order position of their target in a. Diff
// resolves thunks in both trees; the only error it returns is a thunk that
// renders an invalid node.
func Diff(a, b Node) (*PatchSet, error) {
	if isNil(a) {
		a = nil
	}
	if isNil(b) {
		b = nil
	}
	ps := NewPatchSet(a)
	if err := walk(a, b, ps, 0); err != nil {
		return nil, err
	}
	return ps, nil
}

func walk(a, b Node, ps *PatchSet, index int) error {
	if a == b {
		return nil
	}

	if isThunk(a) || isThunk(b) {
		return thunks(a, b, ps, index)
	}

	if b == nil {
		// Widgets tear themselves down when the REMOVE is applied.
		if _, ok := a.(*WidgetNode); !ok {
			if err := clearState(a, ps, index); err != nil {
				return err
			}
		}
		ps.Append(index, Patch{Op: PatchRemove, VNode: a})
		return nil
	}

	applyClear := false

	switch next := b.(type) {
	case *VNode:
		prev, ok := a.(*VNode)
		if ok && prev.tag == next.tag && prev.namespace == next.namespace && prev.key == next.key {
			if delta := DiffProps(prev.props, next.props); delta != nil {
				ps.Append(index, Patch{Op: PatchProps, VNode: a, Props: delta})
			}
			if err := diffChildren(prev, next, ps, index); err != nil {
				return err
			}
		} else {
			ps.Append(index, Patch{Op: PatchVNode, VNode: a, Node: b})
			applyClear = true
		}

	case *VText:
		prev, ok := a.(*VText)
		if !ok {
			ps.Append(index, Patch{Op: PatchVText, VNode: a, Node: b})
			applyClear = true
		} else if prev.text != next.text {
			ps.Append(index, Patch{Op: PatchVText, VNode: a, Node: b})
		}

	case *WidgetNode:
		if _, ok := a.(*WidgetNode); !ok {
			applyClear = true
		}
		ps.Append(index, Patch{Op: PatchWidget, VNode: a, Node: b})
	}

	if applyClear {
		return clearState(a, ps, index)
	}
	return nil
}

func diffChildren(a, b *VNode, ps *PatchSet, index int) error {
	parentIndex := index
	aChildren := a.children
	ordered, moves := Reorder(aChildren, b.children)

	n := max(len(aChildren), len(ordered))
	for i := 0; i < n; i++ {
		index++

		var left, right Node
		if i < len(aChildren) {
			left = aChildren[i]
		}
		if i < len(ordered) {
			right = ordered[i]
		}

		if left == nil {
			if right != nil {
				// Excess nodes in b are appended to the parent.
				ps.Append(parentIndex, Patch{Op: PatchInsert, Node: right})
			}
		} else if err := walk(left, right, ps, index); err != nil {
			return err
		}

		index += CountOf(left)
	}

	if moves != nil {
		ps.Append(parentIndex, Patch{Op: PatchOrder, VNode: a, Moves: moves})
	}
	return nil
}

// clearState emits teardown for a subtree that is being removed or
// replaced: an unhook PROPS patch for every element with unhookable
// properties, a REMOVE for every widget with teardown, and a nested THUNK
// set for every thunk. Subtrees without hooks, widgets or thunks are
// skipped using the flags computed at construction.
func clearState(n Node, ps *PatchSet, index int) error {
	switch v := n.(type) {
	case *VNode:
		if len(v.hooks) > 0 {
			ps.Append(index, Patch{Op: PatchProps, VNode: v, Props: undefinedKeys(v.hooks)})
		}
		if !v.descendantHooks && !v.hasWidgets && !v.hasThunks {
			return nil
		}
		for _, child := range v.children {
			index++
			if err := clearState(child, ps, index); err != nil {
				return err
			}
			index += CountOf(child)
		}

	case *WidgetNode:
		if _, ok := v.widget.(Destroyer); ok {
			ps.Append(index, Patch{Op: PatchRemove, VNode: v})
		}

	case *Thunk:
		return thunks(v, nil, ps, index)
	}
	return nil
}

// thunks resolves both sides and records their diff as a nested set. Nothing
// is recorded when the resolved subtrees produce no patches.
func thunks(a, b Node, ps *PatchSet, index int) error {
	ra, rb, err := handleThunk(a, b)
	if err != nil {
		return err
	}
	nested, err := Diff(ra, rb)
	if err != nil {
		return err
	}
	if !nested.Empty() {
		ps.set(index, Patch{Op: PatchThunk, VNode: a, Thunk: nested})
	}
	return nil
}

// handleThunk resolves b against a first, so a memoized b can reuse a's
// subtree, then resolves a.
func handleThunk(a, b Node) (Node, Node, error) {
	ra, rb := a, b
	if t, ok := b.(*Thunk); ok {
		n, err := t.Resolve(a)
		if err != nil {
			return nil, nil, err
		}
		rb = n
	}
	if t, ok := a.(*Thunk); ok {
		n, err := t.Resolve(nil)
		if err != nil {
			return nil, nil, err
		}
		ra = n
	}
	return ra, rb, nil
}

func undefinedKeys(hooks map[string]Unhooker) Props {
	out := make(Props, len(hooks))
	for name := range hooks {
		out[name] = Unset
	}
	return out
}

func isThunk(n Node) bool {
	_, ok := n.(*Thunk)
	return ok
}
