package template

import (
	"strings"
	"unicode"

	"github.com/walteh/gosvelte/pkg/position"
)

// readExpression scans an embedded expression starting at the cursor and
// stopping before the '}' that closes it. Brackets, string and template
// literals, and comments are skipped so braces inside them do not end the
// expression. Comments are recorded as trivia.
//
// It returns false when the input ends first; the cursor is then at the end
// of input and the caller is expected to rewind.
func (l *Lexer) readExpression() (Expression, bool) {
	start := l.pos
	if !l.scanUntilClose() {
		return Expression{}, false
	}
	raw := l.source[start:l.pos]
	trimmed := strings.TrimSpace(raw)
	lead := len(raw) - len(strings.TrimLeftFunc(raw, unicode.IsSpace))
	return Expression{
		Span: position.NewSpan(start+lead, start+lead+len(trimmed)),
		Raw:  trimmed,
	}, true
}

// scanUntilClose advances to the first '}' at bracket depth zero.
func (l *Lexer) scanUntilClose() bool {
	depth := 0
	for !l.eof() {
		c := l.peek()
		switch {
		case c == '}' && depth == 0:
			return true
		case c == '(' || c == '[' || c == '{':
			depth++
			l.advance(1)
		case c == ')' || c == ']' || c == '}':
			// a stray closer must not push the depth below zero
			if depth > 0 {
				depth--
			}
			l.advance(1)
		case c == '"' || c == '\'':
			if !l.skipString(c) {
				return false
			}
		case c == '`':
			if !l.skipTemplateLiteral() {
				return false
			}
		case l.startsWith("/*"):
			start := l.pos
			if !l.skipTo("*/") {
				l.diags.Errorf(position.NewSpan(start, l.pos), "comment_unclosed", "block comment was left open")
				return false
			}
			l.trivia.AddComment(uint32(start), uint32(l.pos))
		case l.startsWith("//"):
			start := l.pos
			end := strings.IndexByte(l.source[start:], '\n')
			if end < 0 {
				end = len(l.source) - start
			}
			l.advance(end)
			l.trivia.AddLineComment(uint32(start), uint32(l.pos))
		case c >= 0x80 || c == '\v' || c == '\f':
			l.advance(l.recordIrregularWhitespace())
		default:
			l.advance(1)
		}
	}
	return false
}

func (l *Lexer) skipString(quote byte) bool {
	l.advance(1)
	for !l.eof() {
		c := l.peek()
		switch c {
		case '\\':
			l.advance(2)
		case quote:
			l.advance(1)
			return true
		default:
			l.advance(1)
		}
	}
	return false
}

func (l *Lexer) skipTemplateLiteral() bool {
	l.advance(1)
	for !l.eof() {
		switch {
		case l.peek() == '\\':
			l.advance(2)
		case l.peek() == '`':
			l.advance(1)
			return true
		case l.startsWith("${"):
			l.advance(2)
			if !l.scanUntilClose() {
				return false
			}
			l.advance(1)
		default:
			l.advance(1)
		}
	}
	return false
}

// splitEachHeader splits "items as item, i (item.id)" into the collection and
// the context expression.
func splitEachHeader(expr Expression) (Expression, *Expression) {
	idx := topLevelIndex(expr.Raw, " as ")
	if idx < 0 {
		return expr, nil
	}
	collection := strings.TrimRight(expr.Raw[:idx], " \t\r\n")
	rest := expr.Raw[idx+len(" as "):]
	ctx := strings.TrimLeft(rest, " \t\r\n")
	ctxStart := int(expr.Span.Start) + idx + len(" as ") + (len(rest) - len(ctx))
	return Expression{
			Span: position.NewSpan(int(expr.Span.Start), int(expr.Span.Start)+len(collection)),
			Raw:  collection,
		}, &Expression{
			Span: position.NewSpan(ctxStart, ctxStart+len(ctx)),
			Raw:  ctx,
		}
}

// topLevelIndex finds the last occurrence of sep outside brackets and quotes.
func topLevelIndex(s, sep string) int {
	depth := 0
	var quote byte
	found := -1
	for i := 0; i < len(s); i++ {
		c := s[i]
		if quote != 0 {
			if c == '\\' {
				i++
			} else if c == quote {
				quote = 0
			}
			continue
		}
		switch c {
		case '"', '\'', '`':
			quote = c
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			if depth > 0 {
				depth--
			}
		default:
			if depth == 0 && strings.HasPrefix(s[i:], sep) {
				found = i
			}
		}
	}
	return found
}
