package position

import (
	"fmt"
)

// Span is a half-open range of byte offsets into the original source text.
type Span struct {
	Start uint32
	End   uint32
}

// Place is a zero-based line and character position.
type Place struct {
	Line      int
	Character int
}

type Range struct {
	Start Place
	End   Place
}

func NewSpan(start, end int) Span {
	return Span{Start: uint32(start), End: uint32(end)}
}

// Len returns the number of bytes covered by the span. Degenerate spans
// (Start > End) have length zero.
func (s Span) Len() int {
	if s.Start > s.End {
		return 0
	}
	return int(s.End - s.Start)
}

func (s Span) IsEmpty() bool {
	return s.Len() == 0
}

// Text returns the slice of source covered by the span, clamped to the
// source bounds.
func (s Span) Text(source string) string {
	start, end := int(s.Start), int(s.End)
	if end > len(source) {
		end = len(source)
	}
	if start > end {
		return ""
	}
	return source[start:end]
}

// Expand returns the smallest span covering both s and other.
func (s Span) Expand(other Span) Span {
	out := s
	if other.Start < out.Start {
		out.Start = other.Start
	}
	if other.End > out.End {
		out.End = other.End
	}
	return out
}

func (s Span) String() string {
	return fmt.Sprintf("%d..%d", s.Start, s.End)
}

// GetLineAndColumn calculates the zero-based line and byte column of offset
// within text.
func GetLineAndColumn(text string, offset uint32) (line, col int) {
	if int(offset) > len(text) {
		offset = uint32(len(text))
	}

	lastNewline := -1
	for i := 0; i < int(offset); i++ {
		if text[i] == '\n' {
			line++
			lastNewline = i
		}
	}

	col = int(offset) - lastNewline - 1
	return line, col
}

// LineBounds returns the byte offsets of the start and end (exclusive, without
// the newline) of the line holding offset.
func LineBounds(text string, offset uint32) (start, end int) {
	if int(offset) > len(text) {
		offset = uint32(len(text))
	}
	start = int(offset)
	for start > 0 && text[start-1] != '\n' {
		start--
	}
	end = int(offset)
	for end < len(text) && text[end] != '\n' {
		end++
	}
	if end > start && text[end-1] == '\r' {
		end--
	}
	return start, end
}

// GetRange calculates the line/column range of the span.
func (s Span) GetRange(text string) Range {
	startLine, startCol := GetLineAndColumn(text, s.Start)
	endLine, endCol := GetLineAndColumn(text, s.End)
	return Range{
		Start: Place{Line: startLine, Character: startCol},
		End:   Place{Line: endLine, Character: endCol},
	}
}
