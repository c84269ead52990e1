package ast

import "fmt"

// Position represents a position in source code.
type Position struct {
	Offset int // Byte offset from start of file
	Line   int // 1-indexed line number
	Column int // 1-indexed column number (in bytes)
}

// Range represents a span of source code. It is attached to every node
// so downstream diagnostics can map back to source.
type Range struct {
	Start Position
	End   Position
}

// NewRange creates a new Range from start and end positions.
func NewRange(start, end Position) Range {
	return Range{Start: start, End: end}
}

// IsValid returns true if the position has been set.
func (p Position) IsValid() bool {
	return p.Line > 0
}

// String returns the position as "line:column".
func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// IsValid returns true if the range has been set.
func (r Range) IsValid() bool {
	return r.Start.IsValid()
}

// Extend returns a range from r's start to other's end.
func (r Range) Extend(other Range) Range {
	return Range{Start: r.Start, End: other.End}
}
