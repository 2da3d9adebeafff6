package template

import (
	"strings"
	"unicode/utf8"

	"github.com/walteh/gosvelte/pkg/diagnostic"
	"github.com/walteh/gosvelte/pkg/position"
	"github.com/walteh/gosvelte/pkg/trivia"
)

// Lexer is the cursor the markup parser drives. Tokens advance both the
// cursor and prevTokenEnd; comments only advance the cursor and are
// remembered through lastCommentEnd.
type Lexer struct {
	source string
	pos    int

	prevTokenEnd   int
	lastCommentEnd int

	trivia *trivia.Builder
	diags  diagnostic.List
}

func NewLexer(source string) *Lexer {
	return &Lexer{
		source: source,
		trivia: trivia.NewBuilder(),
	}
}

// Checkpoint captures the cursor so a speculative parse can be undone.
type Checkpoint struct {
	pos            int
	prevTokenEnd   int
	lastCommentEnd int
	diags          int
}

func (l *Lexer) Checkpoint() Checkpoint {
	return Checkpoint{
		pos:            l.pos,
		prevTokenEnd:   l.prevTokenEnd,
		lastCommentEnd: l.lastCommentEnd,
		diags:          len(l.diags),
	}
}

// Rewind restores the cursor and drops diagnostics reported since cp.
// Trivia is not rolled back: comments seen again after a rewind are
// deduplicated by the trivia builder.
func (l *Lexer) Rewind(cp Checkpoint) {
	l.pos = cp.pos
	l.prevTokenEnd = cp.prevTokenEnd
	l.lastCommentEnd = cp.lastCommentEnd
	l.diags = l.diags[:cp.diags]
}

func (l *Lexer) eof() bool {
	return l.pos >= len(l.source)
}

func (l *Lexer) peek() byte {
	return l.peekAt(0)
}

func (l *Lexer) peekAt(n int) byte {
	if l.pos+n >= len(l.source) {
		return 0
	}
	return l.source[l.pos+n]
}

func (l *Lexer) startsWith(s string) bool {
	return strings.HasPrefix(l.source[l.pos:], s)
}

// advance consumes n bytes as part of a token.
func (l *Lexer) advance(n int) {
	l.pos += n
	if l.pos > len(l.source) {
		l.pos = len(l.source)
	}
	l.prevTokenEnd = l.pos
}

func (l *Lexer) eat(s string) bool {
	if !l.startsWith(s) {
		return false
	}
	l.advance(len(s))
	return true
}

func (l *Lexer) skipWhitespace() {
	for !l.eof() && isWhitespace(l.peek()) {
		l.pos++
	}
}

// readWhile consumes bytes matching pred as one token.
func (l *Lexer) readWhile(pred func(byte) bool) (string, position.Span) {
	start := l.pos
	end := start
	for end < len(l.source) && pred(l.source[end]) {
		end++
	}
	l.advance(end - start)
	return l.source[start:end], position.NewSpan(start, end)
}

// readComment consumes an HTML comment at the cursor. The comment does not
// count as a token.
func (l *Lexer) readComment() (span position.Span, body string) {
	start := l.pos
	bodyStart := start + len("<!--")
	end := strings.Index(l.source[bodyStart:], "-->")
	if end < 0 {
		l.diags.Errorf(position.NewSpan(start, len(l.source)), "comment_unclosed", "comment was left open")
		l.pos = len(l.source)
		l.lastCommentEnd = l.pos
		return position.NewSpan(start, l.pos), l.source[bodyStart:]
	}
	body = l.source[bodyStart : bodyStart+end]
	l.pos = bodyStart + end + len("-->")
	l.lastCommentEnd = l.pos
	return position.NewSpan(start, l.pos), body
}

// textStart returns where a text run beginning at the cursor starts. It is
// the end of the previous token, unless a comment consumed since that token
// sits between it and the run, in which case it is the end of that comment.
// A comment that is still ahead of the cursor does not count.
func (l *Lexer) textStart() int {
	start := l.prevTokenEnd
	rest := strings.TrimLeft(l.source[start:], " \t\r\n")
	if strings.HasPrefix(rest, "<!--") && l.commentConsumedSince(start) {
		start = l.lastCommentEnd
	}
	return start
}

func (l *Lexer) commentConsumedSince(offset int) bool {
	return l.lastCommentEnd > offset && l.lastCommentEnd <= l.pos
}

// readText consumes a text run up to the next '{', '<' or end of input.
// With force set the byte at the cursor is always part of the run.
func (l *Lexer) readText(force bool) position.Span {
	start := l.textStart()
	end := l.pos
	if force && end < len(l.source) {
		end++
	}
	if i := strings.IndexAny(l.source[end:], "{<"); i >= 0 {
		end += i
	} else {
		end = len(l.source)
	}
	l.advance(end - l.pos)
	return position.NewSpan(start, end)
}

// skipTo consumes everything up to and including the next occurrence of s,
// or to the end of input.
func (l *Lexer) skipTo(s string) bool {
	i := strings.Index(l.source[l.pos:], s)
	if i < 0 {
		l.advance(len(l.source) - l.pos)
		return false
	}
	l.advance(i + len(s))
	return true
}

// recordIrregularWhitespace notes a non-standard whitespace rune at the
// cursor and returns its width.
func (l *Lexer) recordIrregularWhitespace() int {
	r, size := utf8.DecodeRuneInString(l.source[l.pos:])
	if trivia.IsIrregularWhitespace(r) {
		l.trivia.AddIrregularWhitespace(uint32(l.pos), uint32(l.pos+size))
	}
	return size
}

func isWhitespace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f'
}

func isTagStart(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isTagNameChar(c byte) bool {
	return isTagStart(c) || (c >= '0' && c <= '9') || c == '-' || c == ':' || c == '.' || c == '_'
}

func isAttributeNameChar(c byte) bool {
	return !isWhitespace(c) && c != '=' && c != '>' && c != '/' && c != '"' && c != '\'' && c != '{' && c != '}' && c != '<' && c != 0
}

func isIdentChar(c byte) bool {
	return isTagStart(c) || (c >= '0' && c <= '9') || c == '_' || c == '$'
}
