// Package trivia keeps comments and irregular whitespace beside the syntax
// tree rather than inside it.
package trivia

import (
	"iter"
	"sort"

	"github.com/walteh/gosvelte/pkg/position"
)

// MarkerWidth is the number of bytes trimmed from each end of a
// marker-delimited comment ("/*" and "*/").
const MarkerWidth = 2

// Builder accumulates trivia during a single parse. It is not safe for
// concurrent use.
type Builder struct {
	comments   []position.Span
	whitespace []position.Span
}

func NewBuilder() *Builder {
	return &Builder{}
}

// AddComment records the comment occupying the raw range [start, end), with
// the opening and closing markers trimmed. A comment that does not start
// strictly after the last recorded one is dropped, which absorbs the
// duplicates produced when the parser rewinds and scans a region again.
//
// Comments shorter than both markers produce a span with Start > End; they
// are kept as is.
func (b *Builder) AddComment(start, end uint32) {
	b.add(position.Span{Start: start + MarkerWidth, End: trimEnd(end, MarkerWidth)})
}

func trimEnd(end, width uint32) uint32 {
	if end < width {
		return 0
	}
	return end - width
}

// AddLineComment records a comment that only has an opening marker ("//").
func (b *Builder) AddLineComment(start, end uint32) {
	b.add(position.Span{Start: start + MarkerWidth, End: end})
}

func (b *Builder) add(span position.Span) {
	if n := len(b.comments); n > 0 && b.comments[n-1].Start >= span.Start {
		return
	}
	b.comments = append(b.comments, span)
}

// AddIrregularWhitespace appends the span unconditionally.
func (b *Builder) AddIrregularWhitespace(start, end uint32) {
	b.whitespace = append(b.whitespace, position.Span{Start: start, End: end})
}

// Build finalizes the builder. The builder must not be used afterwards.
func (b *Builder) Build() *Trivia {
	t := &Trivia{comments: b.comments, whitespace: b.whitespace}
	b.comments, b.whitespace = nil, nil
	return t
}

// Trivia is the immutable result of a Builder. Comments are ordered by start
// offset and unique per start offset.
type Trivia struct {
	comments   []position.Span
	whitespace []position.Span
}

// Comments yields comment spans in ascending start order.
func (t *Trivia) Comments() iter.Seq[position.Span] {
	return func(yield func(position.Span) bool) {
		for _, c := range t.comments {
			if !yield(c) {
				return
			}
		}
	}
}

func (t *Trivia) Len() int {
	return len(t.comments)
}

// CommentsInRange returns the comments whose start lies within span.
func (t *Trivia) CommentsInRange(span position.Span) []position.Span {
	lo, hi := t.bounds(span)
	return t.comments[lo:hi]
}

// HasCommentsInRange reports whether any comment starts within span.
func (t *Trivia) HasCommentsInRange(span position.Span) bool {
	lo, hi := t.bounds(span)
	return hi > lo
}

func (t *Trivia) bounds(span position.Span) (int, int) {
	lo := sort.Search(len(t.comments), func(i int) bool {
		return t.comments[i].Start >= span.Start
	})
	hi := sort.Search(len(t.comments), func(i int) bool {
		return t.comments[i].Start >= span.End
	})
	if hi < lo {
		hi = lo
	}
	return lo, hi
}

// IrregularWhitespaces returns the recorded spans in insertion order.
func (t *Trivia) IrregularWhitespaces() []position.Span {
	return t.whitespace
}

// IsIrregularWhitespace reports whether r is a whitespace code point other
// than space, tab, line feed and carriage return.
func IsIrregularWhitespace(r rune) bool {
	switch r {
	case '\v', '\f', 0x85, 0xA0, 0x1680, 0x180E, 0x2028, 0x2029, 0x202F, 0x205F, 0x3000, 0xFEFF:
		return true
	}
	return r >= 0x2000 && r <= 0x200B
}
