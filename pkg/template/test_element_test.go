package template_test

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/gosvelte/pkg/position"
	"github.com/walteh/gosvelte/pkg/template"
)

func TestElement_Structure(t *testing.T) {
	input := `<div class="a"><p>hi <b>there</b></p><br><img src="x.png" /></div>`
	res := parse(t, input)
	require.Empty(t, res.Diagnostics)
	require.Len(t, res.Root.Fragment, 1)

	div := res.Arena.Element(res.Root.Fragment[0])
	assert.Equal(t, "div", div.Name)
	assert.Equal(t, position.NewSpan(0, len(input)), div.Span)
	require.Len(t, div.Children, 3)

	p := res.Arena.Element(div.Children[0])
	assert.Equal(t, "p", p.Name)
	require.Len(t, p.Children, 2)
	assert.Equal(t, "hi ", res.Arena.Text(p.Children[0]).Data)

	br := res.Arena.Element(div.Children[1])
	assert.Equal(t, "br", br.Name)
	assert.Empty(t, br.Children)

	img := res.Arena.Element(div.Children[2])
	assert.True(t, img.SelfClosing)
	src, ok := img.Attribute("src")
	require.True(t, ok)
	assert.Equal(t, "x.png", src.Value[0].Data)
}

func TestElement_Attributes(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		attrName  string
		kind      template.AttributeKind
		values    []string
		exprFlags []bool
		quoted    bool
	}{
		{
			name:     "test_boolean",
			input:    "<input disabled>",
			attrName: "disabled",
			kind:     template.AttributeNormal,
		},
		{
			name:      "test_double_quoted",
			input:     `<a href="/x?a=1&amp;b=2">`,
			attrName:  "href",
			kind:      template.AttributeNormal,
			values:    []string{"/x?a=1&b=2"},
			exprFlags: []bool{false},
			quoted:    true,
		},
		{
			name:      "test_unquoted",
			input:     "<a href=/home>",
			attrName:  "href",
			kind:      template.AttributeNormal,
			values:    []string{"/home"},
			exprFlags: []bool{false},
		},
		{
			name:      "test_spaces_around_equals",
			input:     "<a title = 'x'>",
			attrName:  "title",
			kind:      template.AttributeNormal,
			values:    []string{"x"},
			exprFlags: []bool{false},
			quoted:    true,
		},
		{
			name:      "test_expression_value",
			input:     "<button on:click={() => count++}>",
			attrName:  "on:click",
			kind:      template.AttributeNormal,
			values:    []string{"() => count++"},
			exprFlags: []bool{true},
		},
		{
			name:      "test_mixed_value",
			input:     `<div class="a {b} c">`,
			attrName:  "class",
			kind:      template.AttributeNormal,
			values:    []string{"a ", "b", " c"},
			exprFlags: []bool{false, true, false},
			quoted:    true,
		},
		{
			name:      "test_empty_quoted",
			input:     `<div class="">`,
			attrName:  "class",
			kind:      template.AttributeNormal,
			values:    []string{""},
			exprFlags: []bool{false},
			quoted:    true,
		},
		{
			name:      "test_shorthand",
			input:     "<img {src}>",
			attrName:  "src",
			kind:      template.AttributeShorthand,
			values:    []string{"src"},
			exprFlags: []bool{true},
		},
		{
			name:      "test_spread",
			input:     "<Comp {...props} />",
			attrName:  "",
			kind:      template.AttributeSpread,
			values:    []string{"...props"},
			exprFlags: []bool{true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := parse(t, tt.input)
			require.Len(t, res.Root.Fragment, 1)
			el := res.Arena.Element(res.Root.Fragment[0])
			require.Len(t, el.Attributes, 1)

			attr := el.Attributes[0]
			assert.Equal(t, tt.attrName, attr.Name)
			assert.Equal(t, tt.kind, attr.Kind)
			assert.Equal(t, tt.quoted, attr.Quoted)
			require.Len(t, attr.Value, len(tt.values))
			for i, v := range attr.Value {
				if v.IsExpression {
					assert.Equal(t, tt.values[i], v.Raw)
				} else {
					assert.Equal(t, tt.values[i], v.Data)
				}
				assert.Equal(t, tt.exprFlags[i], v.IsExpression)
				assert.Equal(t, v.Raw, v.Span.Text(tt.input))
			}
		})
	}
}

func TestElement_Recovery(t *testing.T) {
	tests := []struct {
		name  string
		input string
		codes []string
	}{
		{
			name:  "test_stray_closing_tag",
			input: "<p>a</p></div>",
			codes: []string{"element_invalid_closing_tag"},
		},
		{
			name:  "test_unclosed_at_eof",
			input: "<section><p>a",
			codes: []string{"element_unclosed", "element_unclosed"},
		},
		{
			name:  "test_implicitly_closed_by_parent",
			input: "<div><span>a</div>",
			codes: []string{"element_implicitly_closed"},
		},
		{
			name:  "test_unclosed_start_tag",
			input: `text <div class="a"`,
			codes: []string{"element_unclosed_start_tag"},
		},
		{
			name:  "test_invalid_attribute_character",
			input: `<div "oops">x</div>`,
			codes: []string{"attribute_invalid", "attribute_invalid"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := parse(t, tt.input)
			var codes []string
			for _, d := range res.Diagnostics {
				codes = append(codes, d.Code)
			}
			assert.Equal(t, tt.codes, codes)
			assert.NotEmpty(t, res.Root.Fragment, "a partial tree should still be produced")
		})
	}
}

func TestElement_UnclosedStartTagBecomesText(t *testing.T) {
	input := `text <div class="a"`
	res := parse(t, input)
	require.Len(t, res.Root.Fragment, 1)
	txt := res.Arena.Text(res.Root.Fragment[0])
	assert.Equal(t, input, txt.Raw)
}

func TestElement_RawText(t *testing.T) {
	res := parse(t, "<div><textarea>a &lt; <b></textarea><script>if (a < b) {}</script></div>")
	require.Empty(t, res.Diagnostics)
	div := res.Arena.Element(res.Root.Fragment[0])
	require.Len(t, div.Children, 2)

	textarea := res.Arena.Element(div.Children[0])
	require.Len(t, textarea.Children, 1)
	assert.Equal(t, "a < <b>", res.Arena.Text(textarea.Children[0]).Data)

	script := res.Arena.Element(div.Children[1])
	assert.Equal(t, "if (a < b) {}", res.Arena.Text(script.Children[0]).Data)
}

func TestElement_WalkOrder(t *testing.T) {
	res := parse(t, "<a><b></b><c><d></d></c></a><e></e>")
	var names []string
	res.Arena.Walk(res.Root.Fragment, func(n template.Node) bool {
		if n.Kind == template.KindElement {
			names = append(names, res.Arena.Element(n).Name)
		}
		return true
	})
	assert.Equal(t, []string{"a", "b", "c", "d", "e"}, names)

	var spans []position.Span
	res.Arena.Walk(res.Root.Fragment, func(n template.Node) bool {
		spans = append(spans, res.Arena.Span(n))
		return true
	})
	assert.True(t, slices.IsSortedFunc(spans, func(a, b position.Span) int {
		return int(a.Start) - int(b.Start)
	}), "nodes should be visited in document order")
}
