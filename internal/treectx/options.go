package treectx

// Heuristic policy constants of the expansion pass. They are empirically
// chosen, not derived from a model; tune them here, not inline.
const (
	// smallScopeMax is the span below which a construct starting on a line
	// of interest is shown in full instead of summarized.
	smallScopeMax = 5

	// childBudgetFraction, childBudgetMin and childBudgetMax bound how many
	// new lines the child-context preview may add on top of the show set:
	// max(min(size*childBudgetFraction, childBudgetMax), childBudgetMin).
	childBudgetFraction = 0.10
	childBudgetMin      = 5
	childBudgetMax      = 25

	// closableGap is the exact distance between two shown lines at which the
	// single line between them is shown too, since an ellipsis marker would
	// not save anything.
	closableGap = 2
)

// Options configures a TreeContext. The zero value is not useful; start from
// DefaultOptions.
type Options struct {
	// Color enables highlight styling in Format output.
	Color bool
	// Verbose traces indexing (per-node traversal, per-line scope sets)
	// through the package logger.
	Verbose bool
	// LineNumber prefixes rendered lines with 1-based line numbers.
	LineNumber bool

	// ParentContext reveals the headers of every scope enclosing a line of
	// interest, transitively up to the file root.
	ParentContext bool
	// ChildContext reveals a bounded preview of the nested structure of
	// large constructs starting on a line of interest.
	ChildContext bool
	// LastLine always reveals the final source line, so the closing
	// structure of the file stays visible.
	LastLine bool
	// Margin unconditionally reveals the first Margin lines of the file.
	Margin int
	// MarkLinesOfInterest renders lines of interest with a distinct marker.
	MarkLinesOfInterest bool
	// HeaderMax caps the number of lines a scope header may occupy.
	HeaderMax int
	// ShowTopOfFileParentScope includes parent headers that start on line 0.
	// When false those headers are suppressed.
	ShowTopOfFileParentScope bool
	// LOIPad reveals this many extra lines on each side of every line of
	// interest.
	LOIPad int
}

// DefaultOptions returns the option set a plain invocation uses.
func DefaultOptions() Options {
	return Options{
		ParentContext:            true,
		ChildContext:             true,
		LastLine:                 true,
		Margin:                   3,
		MarkLinesOfInterest:      true,
		HeaderMax:                10,
		ShowTopOfFileParentScope: true,
		LOIPad:                   1,
	}
}
