// Package source provides span tracking and structured diagnostics anchored
// to positions within an XMILE source document: byte offsets into an
// equation or unit-expression string, lifted to file-level positions via the
// enclosing XML element's recorded offset.
package source

import "fmt"

// Span represents a contiguous slice of some original text (an <eqn> body, a
// units string, or a whole source file). Rather than storing a string slice
// directly, spans retain the physical indices so callers can recover
// surrounding context (the enclosing line, neighbouring tokens) on demand.
type Span struct {
	// start is the first byte of this span in the original text.
	start int
	// end is one past the final byte of this span in the original text.
	end int
}

// NewSpan constructs a new span, checking that start <= end.
func NewSpan(start, end int) Span {
	if start > end {
		panic("invalid span")
	}

	return Span{start, end}
}

// Start returns the starting byte offset of this span.
func (p Span) Start() int { return p.start }

// End returns one past the last byte offset of this span.
func (p Span) End() int { return p.end }

// Length returns the number of bytes covered by this span.
func (p Span) Length() int { return p.end - p.start }

// Contains checks whether q lies entirely within p.
func (p Span) Contains(q Span) bool {
	return p.start <= q.start && q.end <= p.end
}

// Offset shifts this span by delta bytes, used when a span local to some
// substring (e.g. an <eqn> body) must be lifted into file-absolute
// coordinates.
func (p Span) Offset(delta int) Span {
	return Span{p.start + delta, p.end + delta}
}

func (p Span) String() string {
	return fmt.Sprintf("%d:%d", p.start, p.end)
}
