package css

import (
	"testing"

	"github.com/alecthomas/participle/v2/lexer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/gosvelte/pkg/position"
)

// Helper function to compare tokens ignoring positions
func compareTokens(t *testing.T, expected, actual []lexer.Token) {
	t.Helper()
	require.Equal(t, len(expected), len(actual), "number of tokens should match")
	for i := range expected {
		require.Equal(t, expected[i].Type, actual[i].Type, "token types should match at position %d (%q)", i, actual[i].Value)
		require.Equal(t, expected[i].Value, actual[i].Value, "token values should match at position %d", i)
	}
}

func sym(name string) lexer.TokenType {
	return StyleLexer.Symbols()[name]
}

func TestStyleLexer(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []lexer.Token
	}{
		{
			name:  "selector_and_block",
			input: ".a > b:hover{color:red}",
			expected: []lexer.Token{
				{Type: sym("Punct"), Value: "."},
				{Type: sym("Ident"), Value: "a"},
				{Type: sym("Whitespace"), Value: " "},
				{Type: sym("Punct"), Value: ">"},
				{Type: sym("Whitespace"), Value: " "},
				{Type: sym("Ident"), Value: "b"},
				{Type: sym("Punct"), Value: ":"},
				{Type: sym("Ident"), Value: "hover"},
				{Type: sym("Punct"), Value: "{"},
				{Type: sym("Ident"), Value: "color"},
				{Type: sym("Punct"), Value: ":"},
				{Type: sym("Ident"), Value: "red"},
				{Type: sym("Punct"), Value: "}"},
				{Type: lexer.EOF, Value: ""},
			},
		},
		{
			name:  "at_rule_prelude",
			input: "@media (min-width: 10px)",
			expected: []lexer.Token{
				{Type: sym("AtKeyword"), Value: "@media"},
				{Type: sym("Whitespace"), Value: " "},
				{Type: sym("Punct"), Value: "("},
				{Type: sym("Ident"), Value: "min-width"},
				{Type: sym("Punct"), Value: ":"},
				{Type: sym("Whitespace"), Value: " "},
				{Type: sym("Number"), Value: "10px"},
				{Type: sym("Punct"), Value: ")"},
				{Type: lexer.EOF, Value: ""},
			},
		},
		{
			name:  "comments",
			input: "/* x */a/* open",
			expected: []lexer.Token{
				{Type: sym("Comment"), Value: "/* x */"},
				{Type: sym("Ident"), Value: "a"},
				{Type: sym("UnterminatedComment"), Value: "/* open"},
				{Type: lexer.EOF, Value: ""},
			},
		},
		{
			name:  "strings",
			input: "\"a\\\"b\" 'open\n",
			expected: []lexer.Token{
				{Type: sym("String"), Value: "\"a\\\"b\""},
				{Type: sym("Whitespace"), Value: " "},
				{Type: sym("String"), Value: "'open"},
				{Type: sym("Whitespace"), Value: "\n"},
				{Type: lexer.EOF, Value: ""},
			},
		},
		{
			name:  "identifiers_and_numbers",
			input: "-webkit-box --gap -5px 50% .5em #main",
			expected: []lexer.Token{
				{Type: sym("Ident"), Value: "-webkit-box"},
				{Type: sym("Whitespace"), Value: " "},
				{Type: sym("Ident"), Value: "--gap"},
				{Type: sym("Whitespace"), Value: " "},
				{Type: sym("Number"), Value: "-5px"},
				{Type: sym("Whitespace"), Value: " "},
				{Type: sym("Number"), Value: "50%"},
				{Type: sym("Whitespace"), Value: " "},
				{Type: sym("Number"), Value: ".5em"},
				{Type: sym("Whitespace"), Value: " "},
				{Type: sym("Hash"), Value: "#main"},
				{Type: lexer.EOF, Value: ""},
			},
		},
		{
			name:  "important",
			input: "red!important",
			expected: []lexer.Token{
				{Type: sym("Ident"), Value: "red"},
				{Type: sym("Punct"), Value: "!"},
				{Type: sym("Ident"), Value: "important"},
				{Type: lexer.EOF, Value: ""},
			},
		},
		{
			name:  "irregular_whitespace",
			input: "a\u00a0b",
			expected: []lexer.Token{
				{Type: sym("Ident"), Value: "a"},
				{Type: sym("Irregular"), Value: "\u00a0"},
				{Type: sym("Ident"), Value: "b"},
				{Type: lexer.EOF, Value: ""},
			},
		},
		{
			name:  "non_ascii_identifier",
			input: ".café",
			expected: []lexer.Token{
				{Type: sym("Punct"), Value: "."},
				{Type: sym("Ident"), Value: "café"},
				{Type: lexer.EOF, Value: ""},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lex, err := StyleLexer.LexString("", tt.input)
			require.NoError(t, err)
			tokens, err := lexer.ConsumeAll(lex)
			require.NoError(t, err)
			compareTokens(t, tt.expected, tokens)
		})
	}
}

func TestTokenize_ShiftsSpans(t *testing.T) {
	tokens, err := tokenize("a {}", 100)
	require.NoError(t, err)
	require.Len(t, tokens, 5)

	assert.Equal(t, position.NewSpan(100, 101), tokens[0].span)
	assert.Equal(t, position.NewSpan(102, 103), tokens[2].span)
	assert.Equal(t, tokEOF, tokens[4].kind)
	assert.Equal(t, position.NewSpan(104, 104), tokens[4].span)
}
