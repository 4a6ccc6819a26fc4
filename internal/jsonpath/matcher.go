package jsonpath

import (
	"github.com/jacoelho/jx/internal/stack"
	"github.com/jacoelho/jx/internal/value"
)

// Select applies a compiled path to a document and returns the matched
// nodes in discovery order. Selection itself cannot fail; branches that do
// not apply are pruned.
func Select(root value.Value, path Path) []value.Value {
	current := []value.Value{root}
	for _, seg := range path.segments {
		current = applySegment(current, seg, root)
	}
	return current
}

// Query compiles and applies path text in one step. Matches come back as
// an Array, no matches as Null. Path text is data here, so a syntax error
// also degrades to Null instead of surfacing.
func Query(doc value.Value, pathText string) value.Value {
	path, err := Compile(pathText)
	if err != nil {
		return value.Null()
	}
	matches := Select(doc, path)
	if len(matches) == 0 {
		return value.Null()
	}
	return value.Array(matches)
}

func applySegment(current []value.Value, seg segment, root value.Value) []value.Value {
	switch seg.kind {
	case segRoot:
		return []value.Value{root}
	case segKey:
		return applyKey(current, seg.key)
	case segWildcard:
		return applyWildcard(current)
	case segDescendKey:
		return applyDescendKey(current, seg.key)
	case segDescendWildcard:
		return applyDescendWildcard(current)
	case segIndex:
		return applyIndex(current, seg.index)
	case segSlice:
		return applySlice(current, seg.slice)
	case segFilter:
		return applyFilter(current, seg.filter)
	default:
		return nil
	}
}

func applyKey(current []value.Value, key string) []value.Value {
	var out []value.Value
	for _, v := range current {
		if obj := v.Object(); obj != nil {
			if member, ok := obj.Get(key); ok {
				out = append(out, member)
			}
		}
	}
	return out
}

func applyWildcard(current []value.Value) []value.Value {
	var out []value.Value
	for _, v := range current {
		out = append(out, childValues(v)...)
	}
	return out
}

// applyDescendKey implements '..name': a pre-order walk of each current
// subtree, matching the named member's value of every visited object.
func applyDescendKey(current []value.Value, key string) []value.Value {
	var out []value.Value
	for _, v := range current {
		walkPreorder(v, func(node value.Value) {
			if obj := node.Object(); obj != nil {
				if member, ok := obj.Get(key); ok {
					out = append(out, member)
				}
			}
		})
	}
	return out
}

// applyDescendWildcard implements '..*': every node of each current
// subtree, the subtree root included, in pre-order.
func applyDescendWildcard(current []value.Value) []value.Value {
	var out []value.Value
	for _, v := range current {
		walkPreorder(v, func(node value.Value) {
			out = append(out, node)
		})
	}
	return out
}

func applyIndex(current []value.Value, index int64) []value.Value {
	var out []value.Value
	for _, v := range current {
		elems := v.Elems()
		idx := index
		if idx < 0 {
			idx += int64(len(elems))
		}
		if idx >= 0 && idx < int64(len(elems)) {
			out = append(out, elems[idx])
		}
	}
	return out
}

func applySlice(current []value.Value, bounds sliceBounds) []value.Value {
	var out []value.Value
	for _, v := range current {
		if v.Kind() != value.KindArray {
			continue
		}
		out = append(out, sliceElems(v.Elems(), bounds)...)
	}
	return out
}

// sliceElems applies Python slicing semantics: omitted bounds default to
// the array edge in the direction of step, negative indices count from the
// end, out-of-range bounds clamp, and a zero step selects nothing.
func sliceElems(elems []value.Value, bounds sliceBounds) []value.Value {
	n := int64(len(elems))

	step := int64(1)
	if bounds.hasStep {
		step = bounds.step
	}
	if step == 0 {
		return nil
	}

	var defStart, defEnd int64
	if step > 0 {
		defStart, defEnd = 0, n
	} else {
		defStart, defEnd = n-1, -1
	}

	start := adjustSliceBound(bounds.start, bounds.hasStart, defStart, n, step)
	end := adjustSliceBound(bounds.end, bounds.hasEnd, defEnd, n, step)

	var out []value.Value
	if step > 0 {
		for i := start; i < end; i += step {
			out = append(out, elems[i])
		}
	} else {
		for i := start; i > end; i += step {
			out = append(out, elems[i])
		}
	}
	return out
}

func adjustSliceBound(v int64, has bool, def, n, step int64) int64 {
	if !has {
		return def
	}
	if v < 0 {
		v += n
	}
	if v < 0 {
		if step < 0 {
			return -1
		}
		return 0
	}
	if v >= n {
		if step < 0 {
			return n - 1
		}
		return n
	}
	return v
}

// applyFilter binds each array element (or object member value) as the
// filter's current node and keeps the ones the predicate accepts, in
// original order. Scalar candidates are pruned.
func applyFilter(current []value.Value, filter filterNode) []value.Value {
	var out []value.Value
	for _, v := range current {
		for _, candidate := range childValues(v) {
			if evalFilter(filter, candidate) {
				out = append(out, candidate)
			}
		}
	}
	return out
}

// childValues returns the immediate children: array elements in index
// order, object member values in insertion order, nothing for scalars.
func childValues(v value.Value) []value.Value {
	switch v.Kind() {
	case value.KindArray:
		return v.Elems()
	case value.KindObject:
		obj := v.Object()
		keys := obj.Keys()
		out := make([]value.Value, 0, len(keys))
		for _, key := range keys {
			member, _ := obj.Get(key)
			out = append(out, member)
		}
		return out
	default:
		return nil
	}
}

// walkPreorder visits every node of the subtree rooted at v, parent before
// children, children in natural order. The traversal uses an explicit work
// list so document depth costs heap, not call stack.
func walkPreorder(v value.Value, visit func(value.Value)) {
	work := stack.NewWithCapacity[value.Value](16)
	work.Push(v)

	for {
		node, ok := work.Pop()
		if !ok {
			return
		}
		visit(node)

		children := childValues(node)
		for i := len(children) - 1; i >= 0; i-- {
			work.Push(children[i])
		}
	}
}
