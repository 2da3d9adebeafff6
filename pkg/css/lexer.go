package css

import (
	"github.com/alecthomas/participle/v2/lexer"
	"github.com/walteh/gosvelte/pkg/position"
	"gitlab.com/tozd/go/errors"
)

const (
	nonASCII = `[^\x00-\x7f\x{85}\x{a0}\x{1680}\x{180e}\x{2000}-\x{200b}\x{2028}\x{2029}\x{202f}\x{205f}\x{3000}\x{feff}]`
	escape   = `\\[\s\S]`
	nameChar = `(?:[\w-]|` + nonASCII + `|` + escape + `)`
	nameHead = `(?:[a-zA-Z_]|` + nonASCII + `|` + escape + `)`
)

var (
	// LexerRules are tried in order; the first rule that matches wins.
	LexerRules = []lexer.SimpleRule{
		{Name: "Comment", Pattern: `/\*[\s\S]*?\*/`},
		{Name: "UnterminatedComment", Pattern: `/\*[\s\S]*`},
		{Name: "Whitespace", Pattern: `[ \t\r\n\f]+`},
		{Name: "Irregular", Pattern: `[\v\x{85}\x{a0}\x{1680}\x{180e}\x{2000}-\x{200b}\x{2028}\x{2029}\x{202f}\x{205f}\x{3000}\x{feff}]`},
		{Name: "String", Pattern: `"(?:\\[\s\S]|[^"\\\n])*"?|'(?:\\[\s\S]|[^'\\\n])*'?`},
		{Name: "AtKeyword", Pattern: `@-?` + nameHead + nameChar + `*`},
		{Name: "Hash", Pattern: `#` + nameChar + `+`},
		{Name: "Number", Pattern: `[+-]?(?:\d+(?:\.\d+)?|\.\d+)(?:[eE][+-]?\d+)?(?:%|[a-zA-Z]+)?`},
		{Name: "Ident", Pattern: `--` + nameChar + `*|-?` + nameHead + nameChar + `*`},
		{Name: "Punct", Pattern: `\|\||[{}()\[\];:,.>+~*|=^$!&%/]`},
		{Name: "Char", Pattern: `[\s\S]`},
	}

	// StyleLexer tokenizes style sheet source.
	StyleLexer = lexer.MustSimple(LexerRules)
)

type tokenKind uint8

const (
	tokEOF tokenKind = iota
	tokComment
	tokUnterminatedComment
	tokWhitespace
	tokIrregular
	tokString
	tokAtKeyword
	tokHash
	tokNumber
	tokIdent
	tokPunct
	tokChar
)

var tokenKinds = func() map[lexer.TokenType]tokenKind {
	symbols := StyleLexer.Symbols()
	return map[lexer.TokenType]tokenKind{
		lexer.EOF:                      tokEOF,
		symbols["Comment"]:             tokComment,
		symbols["UnterminatedComment"]: tokUnterminatedComment,
		symbols["Whitespace"]:          tokWhitespace,
		symbols["Irregular"]:           tokIrregular,
		symbols["String"]:              tokString,
		symbols["AtKeyword"]:           tokAtKeyword,
		symbols["Hash"]:                tokHash,
		symbols["Number"]:              tokNumber,
		symbols["Ident"]:               tokIdent,
		symbols["Punct"]:               tokPunct,
		symbols["Char"]:                tokChar,
	}
}()

type token struct {
	kind tokenKind
	text string
	span position.Span
}

func (t token) isTrivia() bool {
	switch t.kind {
	case tokComment, tokUnterminatedComment, tokWhitespace, tokIrregular:
		return true
	}
	return false
}

func (t token) is(punct string) bool {
	return t.kind == tokPunct && t.text == punct
}

// tokenize lexes source into tokens whose spans are shifted by base. The
// returned slice always ends with an EOF token, even when lexing stopped
// early with an error.
func tokenize(source string, base int) ([]token, error) {
	lex, err := StyleLexer.LexString("", source)
	if err != nil {
		return []token{eofToken(source, base)}, errors.Errorf("lexing style: %w", err)
	}

	raw, err := lexer.ConsumeAll(lex)
	tokens := make([]token, 0, len(raw))
	for _, tok := range raw {
		kind := tokenKinds[tok.Type]
		if kind == tokEOF {
			break
		}
		start := base + tok.Pos.Offset
		tokens = append(tokens, token{
			kind: kind,
			text: tok.Value,
			span: position.NewSpan(start, start+len(tok.Value)),
		})
	}

	if err != nil {
		end := len(source)
		if n := len(tokens); n > 0 {
			end = int(tokens[n-1].span.End) - base
		}
		tokens = append(tokens, eofToken(source[:end], base))
		return tokens, errors.Errorf("lexing style: %w", err)
	}
	return append(tokens, eofToken(source, base)), nil
}

func eofToken(source string, base int) token {
	return token{kind: tokEOF, span: position.NewSpan(base+len(source), base+len(source))}
}
