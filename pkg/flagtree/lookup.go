package flagtree

// Lookup searches the tree depth-first for the first occurrence of the scalar
// needle and returns the value positioned immediately after it: the next key
// in the same mapping, or the next element in the same sequence. This is a
// positional "next sibling" search, not an associative key/value lookup.
//
// Nested mappings and sequences are descended into before later siblings are
// considered, and the first match wins. Two edge cases deliberately yield
// not-found for their branch instead of widening the search:
//   - the needle is the last entry of its container, so nothing follows it
//     there (outer scopes are not resumed for the following position);
//   - the element following a matched needle is itself a container rather
//     than a scalar.
//
// In both cases traversal continues looking for another occurrence of the
// needle elsewhere in the tree. Lookup never mutates the tree.
func Lookup(root *Node, needle string) (string, bool) {
	if root == nil {
		return "", false
	}

	switch root.Kind {
	case Mapping:
		next := false
		for _, pair := range root.Pairs {
			if next {
				return pair.Key, true
			}
			switch {
			case pair.Value != nil && pair.Value.Kind != Scalar:
				if value, ok := Lookup(pair.Value, needle); ok {
					return value, true
				}
			case pair.Key == needle:
				next = true
			}
		}
		return "", false

	case Sequence:
		next := false
		for _, item := range root.Items {
			if item == nil {
				continue
			}
			if next {
				if item.Kind == Scalar {
					return item.Value, true
				}
				return "", false
			}
			if item.Kind != Scalar {
				if value, ok := Lookup(item, needle); ok {
					return value, true
				}
			} else if item.Value == needle {
				next = true
			}
		}
		return "", false
	}

	return "", false
}

// LookupOr is Lookup with the historical empty-string fallback for absent
// needles. Report fields use it so a missing key degrades to an empty field
// instead of failing the hook.
func LookupOr(root *Node, needle string) string {
	value, _ := Lookup(root, needle)
	return value
}
