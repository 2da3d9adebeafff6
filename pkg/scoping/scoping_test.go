package scoping_test

import (
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/gosvelte/pkg/css"
	"github.com/walteh/gosvelte/pkg/scoping"
)

func parse(t *testing.T, input string) *css.StyleSheet {
	t.Helper()
	logger := zerolog.New(zerolog.NewTestWriter(t))
	res := css.Parse(logger.WithContext(context.Background()), input, 0)
	require.Empty(t, res.Diagnostics)
	return res.StyleSheet
}

func TestTransform(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		class    string
		expected string
		count    int
	}{
		{
			name:     "single_class",
			input:    ".foo {}",
			class:    "svelte-abc123",
			expected: ".foo.svelte-abc123 {\n}\n",
			count:    1,
		},
		{
			name:     "every_relative_selector",
			input:    "nav > ul li, p {}",
			class:    "svelte-x",
			expected: "nav.svelte-x > ul.svelte-x li.svelte-x, p.svelte-x {\n}\n",
			count:    4,
		},
		{
			name:     "appended_after_pseudo",
			input:    "a:hover::after {}",
			class:    "s",
			expected: "a:hover::after.s {\n}\n",
			count:    1,
		},
		{
			name:     "inside_at_rules",
			input:    "@media (x) { @supports (y) { b {} } }",
			class:    "s",
			expected: "@media (x) {\n\t@supports (y) {\n\t\tb.s {\n\t\t}\n\t}\n}\n",
			count:    1,
		},
		{
			name:     "keyframes_untouched",
			input:    "@keyframes k { from { a: b } }",
			class:    "s",
			expected: "@keyframes k {\n\tfrom {\n\t\ta: b;\n\t}\n}\n",
			count:    0,
		},
		{
			name:     "global_is_not_special",
			input:    ":global(.x) {}",
			class:    "s",
			expected: ":global(.x).s {\n}\n",
			count:    1,
		},
		{
			name:     "empty_sheet",
			input:    "",
			class:    "s",
			expected: "",
			count:    0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ss := parse(t, tt.input)
			assert.Equal(t, tt.count, scoping.Transform(ss, tt.class))
			assert.Equal(t, tt.expected, css.Print(ss))
		})
	}
}

func TestTransform_AppendsNode(t *testing.T) {
	ss := parse(t, ".foo {}")
	scoping.Transform(ss, "svelte-abc123")

	rel := ss.Rules[0].Selectors[0].Children[0]
	require.Len(t, rel.Selectors, 2)
	assert.Equal(t, css.SimpleSelector{Kind: css.KindClass, Name: "foo", Span: rel.Selectors[0].Span}, rel.Selectors[0])
	assert.Equal(t, css.SimpleSelector{Kind: css.KindClass, Name: "svelte-abc123"}, rel.Selectors[1])
}

func TestTransform_NotIdempotent(t *testing.T) {
	ss := parse(t, ".foo {}")
	scoping.Transform(ss, "svelte-xyz")
	scoping.Transform(ss, "svelte-xyz")
	assert.Equal(t, ".foo.svelte-xyz.svelte-xyz", ss.Rules[0].Selectors.String())
}

func TestTransform_OriginalIsPrefix(t *testing.T) {
	ss := parse(t, "a.b > c, d ~ e:first-child, [x=\"y\"] {}")

	var before []string
	css.WalkRelativeSelectors(ss, func(rel *css.RelativeSelector) {
		before = append(before, rel.String())
	})

	scoping.Transform(ss, "svelte-q")

	i := 0
	css.WalkRelativeSelectors(ss, func(rel *css.RelativeSelector) {
		after := rel.String()
		assert.True(t, strings.HasPrefix(after, before[i]), "%q should start with %q", after, before[i])
		assert.Greater(t, len(after), len(before[i]))
		i++
	})
	assert.Equal(t, len(before), i)
}
