package css_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/gosvelte/pkg/css"
)

func TestPrint(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "simple_rule",
			input:    "a{color:red}",
			expected: "a {\n\tcolor: red;\n}\n",
		},
		{
			name:     "important",
			input:    "a{color:red!important}",
			expected: "a {\n\tcolor: red !important;\n}\n",
		},
		{
			name:     "combinators_normalized",
			input:    "a  >  b ~ c + d   e{}",
			expected: "a > b ~ c + d e {\n}\n",
		},
		{
			name:     "attribute_selectors",
			input:    `input[type="text" i], a[href^='http']{}`,
			expected: "input[type=\"text\" i], a[href^='http'] {\n}\n",
		},
		{
			name:     "pseudo_selectors",
			input:    "li:nth-child(2n + 1)::marker, a:not(.b){}",
			expected: "li:nth-child(2n + 1)::marker, a:not(.b) {\n}\n",
		},
		{
			name:     "comments_dropped",
			input:    "a /* x */ { color: /* y */ red }",
			expected: "a {\n\tcolor: red;\n}\n",
		},
		{
			name:     "statement_at_rule",
			input:    "@import url(foo.css) screen;",
			expected: "@import url(foo.css) screen;\n",
		},
		{
			name:     "media",
			input:    "@media (min-width: 100px) and (max-width:200px){ .a { x: y } }",
			expected: "@media (min-width: 100px) and (max-width:200px) {\n\t.a {\n\t\tx: y;\n\t}\n}\n",
		},
		{
			name:     "keyframes",
			input:    "@keyframes spin { from { transform: rotate(0deg) } 50%, to { transform: rotate(360deg) } }",
			expected: "@keyframes spin {\n\tfrom {\n\t\ttransform: rotate(0deg);\n\t}\n\t50%, to {\n\t\ttransform: rotate(360deg);\n\t}\n}\n",
		},
		{
			name:     "font_face",
			input:    "@font-face { font-family: X; src: url(x.woff) }",
			expected: "@font-face {\n\tfont-family: X;\n\tsrc: url(x.woff);\n}\n",
		},
		{
			name:     "nesting",
			input:    ".card { padding: 1px; &:hover { color: red } > .title { x: y } }",
			expected: ".card {\n\tpadding: 1px;\n\t&:hover {\n\t\tcolor: red;\n\t}\n\t> .title {\n\t\tx: y;\n\t}\n}\n",
		},
		{
			name:     "custom_properties",
			input:    ":root { --gap: { a: b }; --empty:; }",
			expected: ":root {\n\t--gap: { a: b };\n\t--empty:;\n}\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := parse(t, tt.input, 0)
			require.Empty(t, res.Diagnostics)
			assert.Equal(t, tt.expected, css.Print(res.StyleSheet))
		})
	}
}

func TestPrint_RoundTrip(t *testing.T) {
	inputs := []string{
		"a{color:red}",
		"@media screen { .a > .b, c ~ d { x: y; z: w !important } }",
		"@keyframes k { 0% { a: b } to { a: c } }",
		"ul li:first-child::before { content: \"-\" }",
	}
	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			first := css.Print(parse(t, input, 0).StyleSheet)
			second := css.Print(parse(t, first, 0).StyleSheet)
			assert.Equal(t, first, second, "printing should be stable")
		})
	}
}
