package treectx

import (
	"math"
	"sort"
)

// AddLinesOfInterest accumulates lines that must appear in the rendered
// output. Indices are not validated here; anything out of range is clipped
// during expansion instead of failing.
func (tc *TreeContext) AddLinesOfInterest(lines []int) {
	for _, i := range lines {
		tc.loi[i] = struct{}{}
	}
}

// LinesOfInterest returns the accumulated interest set, sorted.
func (tc *TreeContext) LinesOfInterest() []int {
	return sortedKeys(tc.loi)
}

// ShowLines returns the current show set, sorted. Empty until
// ExpandContext has run with a non-empty interest set.
func (tc *TreeContext) ShowLines() []int {
	return sortedKeys(tc.show)
}

// ExpandContext recomputes the show set from the accumulated lines of
// interest: padding, the closing line of the file, enclosing scope headers,
// a bounded preview of child structure, the top margin, and finally gap
// closing. Calling it again with an unchanged interest set yields the same
// show set. With no lines of interest the show set stays empty.
func (tc *TreeContext) ExpandContext() {
	if len(tc.loi) == 0 {
		return
	}

	tc.show = make(map[int]struct{}, len(tc.loi))
	for i := range tc.loi {
		// Out-of-range interest lines are clipped, never an error.
		if i < 0 || i >= len(tc.lines) {
			continue
		}
		tc.show[i] = struct{}{}
	}

	// Memo of lines whose ancestor chain was already walked, shared by the
	// parent and child passes of this one call.
	done := make(map[int]struct{})

	if tc.opts.LOIPad > 0 {
		for _, line := range sortedKeys(tc.show) {
			for pad := line - tc.opts.LOIPad; pad <= line+tc.opts.LOIPad; pad++ {
				if pad < 0 || pad >= len(tc.lines) {
					continue
				}
				tc.show[pad] = struct{}{}
			}
		}
	}

	if tc.opts.LastLine {
		bottom := tc.numLines - 2
		if bottom >= 0 {
			tc.show[bottom] = struct{}{}
			tc.addParentScopes(bottom, done)
		}
	}

	if tc.opts.ParentContext {
		for _, i := range sortedKeys(tc.loi) {
			tc.addParentScopes(i, done)
		}
	}

	if tc.opts.ChildContext {
		for _, i := range sortedKeys(tc.loi) {
			tc.addChildContext(i, done)
		}
	}

	if tc.opts.Margin > 0 {
		for i := 0; i < tc.opts.Margin && i < len(tc.lines); i++ {
			tc.show[i] = struct{}{}
		}
	}

	tc.closeSmallGaps()
}

// addParentScopes reveals the header of every scope enclosing line i, then
// walks from each scope's closing line so the ancestors of the enclosing
// construct become visible too, transitively up to the file root.
func (tc *TreeContext) addParentScopes(i int, done map[int]struct{}) {
	if _, ok := done[i]; ok {
		return
	}
	done[i] = struct{}{}

	if i < 0 || i >= len(tc.scopes) {
		return
	}

	for scope := range tc.scopes[i] {
		header := tc.headers[scope]
		if header.Start > 0 || tc.opts.ShowTopOfFileParentScope {
			for line := header.Start; line < header.End; line++ {
				tc.show[line] = struct{}{}
			}
		}
		if tc.opts.LastLine {
			tc.addParentScopes(tc.scopeLastLine(int(scope)), done)
		}
	}
}

// addChildContext previews the structure of constructs starting on line i.
// Small constructs are revealed whole; large ones get the headers of their
// biggest nested blocks until the line budget for this preview runs out.
func (tc *TreeContext) addChildContext(i int, done map[int]struct{}) {
	if i < 0 || i >= tc.numLines || len(tc.nodes[i]) == 0 {
		return
	}

	last := tc.scopeLastLine(i)
	size := last - i
	if size < smallScopeMax {
		for line := i; line <= last; line++ {
			tc.show[line] = struct{}{}
		}
		return
	}

	var children []Node
	for _, node := range tc.nodes[i] {
		children = appendSubtree(children, node)
	}
	sort.SliceStable(children, func(a, b int) bool {
		spanA := children[a].EndLine() - children[a].StartLine()
		spanB := children[b].EndLine() - children[b].StartLine()
		return spanA > spanB
	})

	currentlyShowing := len(tc.show)
	budget := math.Max(math.Min(float64(size)*childBudgetFraction, childBudgetMax), childBudgetMin)

	for _, child := range children {
		if float64(len(tc.show)) > float64(currentlyShowing)+budget {
			break
		}
		tc.addParentScopes(child.StartLine(), done)
	}
}

// appendSubtree flattens the whole subtree rooted at node, node included.
func appendSubtree(dst []Node, node Node) []Node {
	dst = append(dst, node)
	for i := 0; i < node.ChildCount(); i++ {
		dst = appendSubtree(dst, node.Child(i))
	}
	return dst
}

// closeSmallGaps post-processes the show set: a hidden single line between
// two shown lines is revealed, and a blank line directly after a shown
// non-blank line is kept attached to it.
func (tc *TreeContext) closeSmallGaps() {
	shown := sortedKeys(tc.show)
	for idx := 0; idx+1 < len(shown); idx++ {
		if shown[idx+1]-shown[idx] == closableGap {
			tc.show[shown[idx]+1] = struct{}{}
		}
	}

	for i := range tc.lines {
		if _, ok := tc.show[i]; !ok {
			continue
		}
		if !isBlank(tc.lines[i]) && i < tc.numLines-2 && isBlank(tc.lines[i+1]) {
			tc.show[i+1] = struct{}{}
		}
	}
}

func isBlank(line string) bool {
	for _, r := range line {
		if r != ' ' && r != '\t' && r != '\r' {
			return false
		}
	}
	return true
}

func sortedKeys(set map[int]struct{}) []int {
	keys := make([]int, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}
