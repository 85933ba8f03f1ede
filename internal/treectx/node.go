package treectx

// Node is the read-only view of one syntax tree node. The tree is produced
// by an external parser; the only contract the context engine relies on is
// that a parent's line range fully contains the ranges of its children.
type Node interface {
	// StartLine returns the 0-indexed first line of the node.
	StartLine() int
	// EndLine returns the 0-indexed last line of the node, inclusive.
	EndLine() int
	// IsNamed reports whether the node is semantically meaningful in its
	// grammar, as opposed to an anonymous token.
	IsNamed() bool
	// Kind returns the grammar-specific node type, used for tracing only.
	Kind() string

	ChildCount() int
	Child(i int) Node
}

// ScopeID identifies a scope by the line its construct starts on. Keeping it
// a distinct type avoids mixing scope anchors with ordinary line indices.
type ScopeID int

// LineRange is a half-open range of line indices [Start, End).
type LineRange struct {
	Start int
	End   int
}

// Len returns the number of lines in the range.
func (r LineRange) Len() int {
	return r.End - r.Start
}
