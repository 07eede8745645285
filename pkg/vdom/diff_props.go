package vdom

// DiffProps returns the property delta that turns a into b, or nil when they
// are equal. Removed keys map to Unset. When both sides of a key hold nested
// bags the delta recurses and only carries changed entries; a nested delta
// with no entries is omitted. Hooks and mismatched shapes are replaced
// wholesale.
func DiffProps(a, b Props) Props {
	var diff Props
	put := func(key string, value any) {
		if diff == nil {
			diff = make(Props)
		}
		diff[key] = value
	}

	for key, aValue := range a {
		bValue, ok := b[key]
		if !ok {
			put(key, Unset)
			continue
		}
		if sameValue(aValue, bValue) {
			continue
		}
		aBag, aNested := aValue.(Props)
		bBag, bNested := bValue.(Props)
		if aNested && bNested {
			if nested := DiffProps(aBag, bBag); nested != nil {
				put(key, nested)
			}
			continue
		}
		put(key, bValue)
	}

	for key, bValue := range b {
		if _, ok := a[key]; !ok {
			put(key, bValue)
		}
	}

	return diff
}
