// Package treectx selects which lines of a source file to display so that a
// set of interesting lines stays understandable inside its enclosing code
// structure. It consumes a pre-built syntax tree through the Node interface
// and never parses anything itself.
package treectx

import (
	"fmt"
	"sort"
	"strings"

	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("grepast.treectx")

// SplitLines splits source text into lines. A trailing newline terminates
// the last line rather than starting an empty one, so line indices always
// address real source lines.
func SplitLines(code string) []string {
	lines := strings.Split(code, "\n")
	if n := len(lines); n > 0 && lines[n-1] == "" {
		lines = lines[:n-1]
	}
	return lines
}

// headerCandidate records one multi-line construct starting on a line, as a
// candidate for that line's scope header.
type headerCandidate struct {
	size  int
	bound LineRange
}

// TreeContext holds the per-line scope tables for one file plus the
// per-query expansion state. The tables are built once at construction and
// never change; lines of interest accumulate across AddLinesOfInterest
// calls and the show set is fully recomputed by each ExpandContext call.
type TreeContext struct {
	filename string
	opts     Options

	lines []string
	// numLines is len(lines)+1: one virtual line past the end keeps
	// bookkeeping for trees whose root ends on a trailing newline.
	numLines int

	// nodes[i] lists every node whose range starts on line i.
	nodes [][]Node
	// scopes[i] is the set of scope anchors enclosing line i.
	scopes []map[ScopeID]struct{}
	// headers[s] is the compact caption range for the scope anchored at s.
	headers []LineRange

	// highlighted holds pre-styled replacement text for rendered lines,
	// keyed by line index. Populated by the caller, consumed by Format.
	highlighted map[int]string

	loi  map[int]struct{}
	show map[int]struct{}
}

// New indexes the given syntax tree and returns a context engine for the
// file. The tree must cover the whole source text; root may be nil for an
// empty file, which leaves every line with only its identity header.
func New(filename, code string, root Node, opts Options) *TreeContext {
	lines := SplitLines(code)
	numLines := len(lines) + 1

	tc := &TreeContext{
		filename:    filename,
		opts:        opts,
		lines:       lines,
		numLines:    numLines,
		nodes:       make([][]Node, numLines),
		scopes:      make([]map[ScopeID]struct{}, numLines),
		headers:     make([]LineRange, numLines),
		highlighted: make(map[int]string),
		loi:         make(map[int]struct{}),
		show:        make(map[int]struct{}),
	}
	for i := range tc.scopes {
		tc.scopes[i] = make(map[ScopeID]struct{})
	}

	candidates := make([][]headerCandidate, numLines)
	if root != nil {
		tc.walkTree(root, 0, candidates)
	}
	tc.resolveHeaders(candidates)

	if opts.Verbose {
		tc.traceScopes()
	}

	return tc
}

// walkTree fills the node and scope tables in one pre-order traversal,
// recording a header candidate for every multi-line construct.
func (tc *TreeContext) walkTree(node Node, depth int, candidates [][]headerCandidate) {
	start, end := node.StartLine(), node.EndLine()
	if start < 0 || start >= tc.numLines {
		return
	}
	if end >= tc.numLines {
		end = tc.numLines - 1
	}

	tc.nodes[start] = append(tc.nodes[start], node)

	if tc.opts.Verbose && node.IsNamed() {
		log.Debugf("%s%s %d-%d=%d", strings.Repeat("   ", depth), node.Kind(), start, end, end-start+1)
	}

	if size := end - start; size > 0 {
		candidates[start] = append(candidates[start], headerCandidate{
			size:  size,
			bound: LineRange{Start: start, End: end + 1},
		})
	}

	for i := start; i <= end; i++ {
		tc.scopes[i][ScopeID(start)] = struct{}{}
	}

	for i := 0; i < node.ChildCount(); i++ {
		tc.walkTree(node.Child(i), depth+1, candidates)
	}
}

// resolveHeaders turns the per-line candidate lists into final header
// ranges. A line uses a construct-derived header only when several
// multi-line constructs start there; the largest one wins, first-recorded
// breaking ties, and the range is clamped to HeaderMax lines. Lines with
// fewer candidates keep their identity header of a single line.
func (tc *TreeContext) resolveHeaders(candidates [][]headerCandidate) {
	headerMax := tc.opts.HeaderMax
	if headerMax < 1 {
		headerMax = 1
	}

	for i := 0; i < tc.numLines; i++ {
		header := LineRange{Start: i, End: i + 1}
		if cands := candidates[i]; len(cands) > 1 {
			best := cands[0]
			for _, c := range cands[1:] {
				if c.size > best.size {
					best = c
				}
			}
			header = best.bound
		}
		if header.Len() > headerMax {
			header.End = header.Start + headerMax
		}
		tc.headers[i] = header
	}
}

// traceScopes dumps the scope set of every real line through the logger.
func (tc *TreeContext) traceScopes() {
	for i := 0; i < len(tc.lines); i++ {
		anchors := make([]int, 0, len(tc.scopes[i]))
		for s := range tc.scopes[i] {
			anchors = append(anchors, int(s))
		}
		sort.Ints(anchors)
		log.Debugf("%v %d %s", anchors, i, tc.lines[i])
	}
}

// Filename returns the file identifier the context was built for.
func (tc *TreeContext) Filename() string {
	return tc.filename
}

// LineCount returns the number of real source lines.
func (tc *TreeContext) LineCount() int {
	return len(tc.lines)
}

// Scopes returns the sorted scope anchors enclosing the given line.
func (tc *TreeContext) Scopes(i int) []ScopeID {
	if i < 0 || i >= tc.numLines {
		return nil
	}
	anchors := make([]ScopeID, 0, len(tc.scopes[i]))
	for s := range tc.scopes[i] {
		anchors = append(anchors, s)
	}
	sort.Slice(anchors, func(a, b int) bool { return anchors[a] < anchors[b] })
	return anchors
}

// Header returns the header range of the scope anchored at the given line.
func (tc *TreeContext) Header(s ScopeID) LineRange {
	i := int(s)
	if i < 0 || i >= tc.numLines {
		return LineRange{Start: i, End: i + 1}
	}
	return tc.headers[i]
}

// ScopeEnd returns the closing line of the scope anchored at s: the largest
// end line over the constructs starting there.
func (tc *TreeContext) ScopeEnd(s ScopeID) int {
	i := int(s)
	if i < 0 || i >= tc.numLines {
		return i
	}
	return tc.scopeLastLine(i)
}

// scopeLastLine returns the closing line of the scope anchored at i: the
// largest end line over the nodes starting there.
func (tc *TreeContext) scopeLastLine(i int) int {
	last := i
	for _, node := range tc.nodes[i] {
		if end := node.EndLine(); end > last {
			last = end
		}
	}
	return last
}

// String identifies the context in diagnostics.
func (tc *TreeContext) String() string {
	return fmt.Sprintf("TreeContext(%s, %d lines)", tc.filename, len(tc.lines))
}
