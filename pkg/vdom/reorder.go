package vdom

// Reorder aligns the new child list with the old one for diffing.
//
// The returned list has one slot per old child: the new child with the same
// key, the next unkeyed new child for an unkeyed old child, or nil when the
// old child has no counterpart. New keyed children and leftover unkeyed ones
// follow. moves describes how to permute the live children into the order of
// next; it is nil when no keyed child moved.
//
// Sibling keys are expected to be unique.
func Reorder(prev, next []Node) (ordered []Node, moves *Moves) {
	nextKeys, nextFree := keyIndex(next)
	if len(nextFree) == len(next) {
		return next, nil
	}

	prevKeys, prevFree := keyIndex(prev)
	if len(prevFree) == len(prev) {
		return next, nil
	}

	ordered = make([]Node, 0, max(len(prev), len(next)))
	freeIndex := 0
	deletedItems := 0

	for _, item := range prev {
		if key := KeyOf(item); key != "" {
			if i, ok := nextKeys[key]; ok {
				ordered = append(ordered, next[i])
			} else {
				deletedItems++
				ordered = append(ordered, nil)
			}
			continue
		}
		if freeIndex < len(nextFree) {
			ordered = append(ordered, next[nextFree[freeIndex]])
			freeIndex++
		} else {
			deletedItems++
			ordered = append(ordered, nil)
		}
	}

	lastFreeIndex := len(next)
	if freeIndex < len(nextFree) {
		lastFreeIndex = nextFree[freeIndex]
	}

	for j, item := range next {
		if key := KeyOf(item); key != "" {
			if _, ok := prevKeys[key]; !ok {
				ordered = append(ordered, item)
			}
		} else if j >= lastFreeIndex {
			ordered = append(ordered, item)
		}
	}

	simulate := make([]Node, len(ordered))
	copy(simulate, ordered)
	simulateIndex := 0

	var removes []Remove
	var inserts []Insert

	for k := 0; k < len(next); {
		wanted := next[k]
		wantedKey := KeyOf(wanted)

		// Drop deleted slots in front of the cursor.
		for simulateIndex < len(simulate) && simulate[simulateIndex] == nil {
			removes = append(removes, removeAt(&simulate, simulateIndex, ""))
		}

		item := itemAt(simulate, simulateIndex)
		if item != nil && KeyOf(item) == wantedKey {
			simulateIndex++
			k++
			continue
		}

		if wantedKey != "" {
			if itemKey := KeyOf(item); itemKey != "" {
				// Remove the keyed item unless it is the one wanted next.
				if nextKeys[itemKey] != k+1 {
					removes = append(removes, removeAt(&simulate, simulateIndex, itemKey))
					item = itemAt(simulate, simulateIndex)
					if item == nil || KeyOf(item) != wantedKey {
						inserts = append(inserts, Insert{Key: wantedKey, To: k})
					} else {
						simulateIndex++
					}
				} else {
					inserts = append(inserts, Insert{Key: wantedKey, To: k})
				}
			} else {
				inserts = append(inserts, Insert{Key: wantedKey, To: k})
			}
			k++
		} else if itemKey := KeyOf(item); itemKey != "" {
			// An unkeyed item is wanted but a keyed one is in the way.
			removes = append(removes, removeAt(&simulate, simulateIndex, itemKey))
		}
	}

	// Everything past the cursor is surplus.
	for simulateIndex < len(simulate) {
		removes = append(removes, removeAt(&simulate, simulateIndex, KeyOf(simulate[simulateIndex])))
	}

	// Only deletions happened; the per-child REMOVE patches cover them.
	if len(removes) == deletedItems && len(inserts) == 0 {
		return ordered, nil
	}

	return ordered, &Moves{Removes: removes, Inserts: inserts}
}

func keyIndex(children []Node) (keys map[string]int, free []int) {
	keys = make(map[string]int)
	for i, child := range children {
		if key := KeyOf(child); key != "" {
			keys[key] = i
		} else {
			free = append(free, i)
		}
	}
	return keys, free
}

func removeAt(list *[]Node, index int, key string) Remove {
	s := *list
	copy(s[index:], s[index+1:])
	s[len(s)-1] = nil
	*list = s[:len(s)-1]
	return Remove{From: index, Key: key}
}

func itemAt(list []Node, index int) Node {
	if index < len(list) {
		return list[index]
	}
	return nil
}
