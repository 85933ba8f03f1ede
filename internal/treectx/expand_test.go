package treectx_test

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"grepast/internal/treectx"
)

func contains(lines []int, want int) bool {
	for _, l := range lines {
		if l == want {
			return true
		}
	}
	return false
}

// A 20-line file with one function spanning lines 2-18 holding a two-line
// block at 10-11. A match inside the block must reveal the block, the
// function header and the file top, and nothing of the function body.
func TestExpandRevealsEnclosingStructure(t *testing.T) {
	code := sourceLines(20)
	root := node("source_file", 0, 19,
		node("function", 2, 18,
			node("block", 10, 11)))

	opts := treectx.DefaultOptions()
	opts.LOIPad = 0
	opts.Margin = 0
	opts.LastLine = false

	tc := treectx.New("scenario.go", code, root, opts)
	tc.AddLinesOfInterest([]int{10})
	tc.ExpandContext()

	want := []int{0, 1, 2, 10, 11}
	if diff := cmp.Diff(want, tc.ShowLines()); diff != "" {
		t.Errorf("show set mismatch (-want +got):\n%s", diff)
	}
}

func TestExpandEmptyInterestIsNoOp(t *testing.T) {
	code, root := demoTree()
	tc := treectx.New("demo.go", code, root, treectx.DefaultOptions())

	tc.ExpandContext()

	if got := tc.ShowLines(); len(got) != 0 {
		t.Fatalf("expected empty show set, got %v", got)
	}
	if out := tc.Format(); out != "" {
		t.Fatalf("expected empty output, got %q", out)
	}
}

func TestExpandFileWithOnlyRootScope(t *testing.T) {
	tc := treectx.New("note.go", "// just a comment", node("source_file", 0, 0), treectx.DefaultOptions())
	tc.AddLinesOfInterest([]int{0})
	tc.ExpandContext()

	if diff := cmp.Diff([]int{0}, tc.ShowLines()); diff != "" {
		t.Errorf("show set mismatch (-want +got):\n%s", diff)
	}
}

func TestExpandMonotonicAndIdempotent(t *testing.T) {
	code, root := demoTree()
	tc := treectx.New("demo.go", code, root, treectx.DefaultOptions())
	loi := []int{5, 23}
	tc.AddLinesOfInterest(loi)

	tc.ExpandContext()
	first := tc.ShowLines()

	for _, l := range loi {
		if !contains(first, l) {
			t.Errorf("line of interest %d missing from show set %v", l, first)
		}
	}

	tc.ExpandContext()
	if diff := cmp.Diff(first, tc.ShowLines()); diff != "" {
		t.Errorf("second expansion differs (-first +second):\n%s", diff)
	}
}

func TestExpandClosesOneLineGaps(t *testing.T) {
	code, root := demoTree()
	tc := treectx.New("demo.go", code, root, treectx.DefaultOptions())
	tc.AddLinesOfInterest([]int{5, 9, 23})
	tc.ExpandContext()

	shown := tc.ShowLines()
	for i := 0; i+1 < len(shown); i++ {
		if shown[i+1]-shown[i] == 2 {
			t.Errorf("one-line gap left between %d and %d in %v", shown[i], shown[i+1], shown)
		}
	}
}

func TestExpandShowsSmallScopesWhole(t *testing.T) {
	code, root := demoTree()
	opts := treectx.DefaultOptions()
	opts.Margin = 0
	opts.LOIPad = 0

	// Line 4 starts a block spanning 4-6, smaller than the summarizing
	// threshold, so all of it is shown.
	tc := treectx.New("demo.go", code, root, opts)
	tc.AddLinesOfInterest([]int{4})
	tc.ExpandContext()

	shown := tc.ShowLines()
	for l := 4; l <= 6; l++ {
		if !contains(shown, l) {
			t.Errorf("line %d of the small block missing from %v", l, shown)
		}
	}
}

func TestExpandPreviewsLargeScopes(t *testing.T) {
	code, root := demoTree()
	tc := treectx.New("demo.go", code, root, treectx.DefaultOptions())

	// Line 14 starts a 20-line construct: its header is revealed but the
	// preview budget stops before the deep body.
	tc.AddLinesOfInterest([]int{14})
	tc.ExpandContext()

	shown := tc.ShowLines()
	for l := 14; l < 24; l++ {
		if !contains(shown, l) {
			t.Errorf("header line %d missing from %v", l, shown)
		}
	}
	for l := 25; l <= 33; l++ {
		if contains(shown, l) {
			t.Errorf("body line %d leaked into the preview %v", l, shown)
		}
	}
}

func TestExpandPadsAroundInterest(t *testing.T) {
	code, root := demoTree()
	opts := treectx.DefaultOptions()
	opts.Margin = 0
	opts.ParentContext = false
	opts.ChildContext = false
	opts.LastLine = false
	opts.LOIPad = 2

	tc := treectx.New("demo.go", code, root, opts)
	tc.AddLinesOfInterest([]int{20})
	tc.ExpandContext()

	want := []int{18, 19, 20, 21, 22}
	if diff := cmp.Diff(want, tc.ShowLines()); diff != "" {
		t.Errorf("show set mismatch (-want +got):\n%s", diff)
	}
}

func TestExpandClipsOutOfRangeInterest(t *testing.T) {
	code, root := demoTree()
	opts := treectx.DefaultOptions()
	opts.Margin = 0
	opts.ParentContext = false
	opts.ChildContext = false
	opts.LastLine = false
	opts.LOIPad = 0

	tc := treectx.New("demo.go", code, root, opts)
	tc.AddLinesOfInterest([]int{-7, 3, 400})
	tc.ExpandContext()

	if diff := cmp.Diff([]int{3}, tc.ShowLines()); diff != "" {
		t.Errorf("show set mismatch (-want +got):\n%s", diff)
	}
}

func TestExpandLastLineAndMargin(t *testing.T) {
	code, root := demoTree()
	opts := treectx.DefaultOptions()
	opts.ParentContext = false
	opts.ChildContext = false
	opts.LOIPad = 0

	tc := treectx.New("demo.go", code, root, opts)
	tc.AddLinesOfInterest([]int{20})
	tc.ExpandContext()

	shown := tc.ShowLines()
	for _, l := range []int{0, 1, 2} {
		if !contains(shown, l) {
			t.Errorf("margin line %d missing from %v", l, shown)
		}
	}
	if !contains(shown, 39) {
		t.Errorf("closing line missing from %v", shown)
	}
}

// A newline-terminated file must still reveal its real closing line: the
// trailing newline ends line 9, it does not start an empty line 10.
func TestExpandLastLineWithTrailingNewline(t *testing.T) {
	code := "l0\nl1\nl2\nl3\nl4\nl5\nl6\nl7\nl8\n}\n"
	root := node("source_file", 0, 9)

	opts := treectx.DefaultOptions()
	opts.ParentContext = false
	opts.ChildContext = false
	opts.Margin = 0
	opts.LOIPad = 0

	tc := treectx.New("demo.go", code, root, opts)
	if tc.LineCount() != 10 {
		t.Fatalf("LineCount() = %d, want 10", tc.LineCount())
	}

	tc.AddLinesOfInterest([]int{2})
	tc.ExpandContext()

	shown := tc.ShowLines()
	if !contains(shown, 9) {
		t.Fatalf("closing line 9 missing from show set %v", shown)
	}
	if diff := cmp.Diff([]int{0, 1, 2, 9}, shown); diff != "" {
		t.Errorf("show set mismatch (-want +got):\n%s", diff)
	}
	if out := tc.Format(); !strings.HasSuffix(out, "│}\n") {
		t.Errorf("output %q should end with the closing brace line", out)
	}
}

func TestExpandKeepsTrailingBlankAttached(t *testing.T) {
	// Line 3 is followed by a blank separator line.
	code := "package demo\n\nfunc a() {\n\tbody()\n\n\tmore()\n}\n"
	root := node("source_file", 0, 7,
		node("function", 2, 6))

	opts := treectx.DefaultOptions()
	opts.Margin = 0
	opts.LOIPad = 0
	opts.LastLine = false
	opts.ParentContext = false
	opts.ChildContext = false

	tc := treectx.New("demo.go", code, root, opts)
	tc.AddLinesOfInterest([]int{3})
	tc.ExpandContext()

	if !contains(tc.ShowLines(), 4) {
		t.Errorf("blank separator after line 3 not shown: %v", tc.ShowLines())
	}
}
