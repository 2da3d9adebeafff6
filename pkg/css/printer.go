package css

import (
	"strings"
)

// Print serializes a style sheet, one declaration per line and tabs for
// nesting. Comments are not part of the tree and are not printed.
func Print(ss *StyleSheet) string {
	var b strings.Builder
	for i := range ss.Rules {
		printRule(&b, &ss.Rules[i], 0)
	}
	return b.String()
}

func printRule(b *strings.Builder, r *Rule, depth int) {
	indent := strings.Repeat("\t", depth)
	b.WriteString(indent)

	switch r.Kind {
	case RuleStyle:
		b.WriteString(r.Selectors.String())
	case RuleKeyframe:
		b.WriteString(strings.Join(r.KeyframeSelectors, ", "))
	case RuleAt:
		b.WriteByte('@')
		b.WriteString(r.Name)
		if r.Prelude != "" {
			b.WriteByte(' ')
			b.WriteString(r.Prelude)
		}
		if !r.HasBlock {
			b.WriteString(";\n")
			return
		}
	}

	b.WriteString(" {\n")
	for _, d := range r.Declarations {
		b.WriteString(indent)
		b.WriteByte('\t')
		printDeclaration(b, d)
	}
	for i := range r.Rules {
		printRule(b, &r.Rules[i], depth+1)
	}
	b.WriteString(indent)
	b.WriteString("}\n")
}

func printDeclaration(b *strings.Builder, d Declaration) {
	b.WriteString(d.Property)
	b.WriteByte(':')
	if d.Value != "" {
		b.WriteByte(' ')
		b.WriteString(d.Value)
	}
	if d.Important {
		b.WriteString(" !important")
	}
	b.WriteString(";\n")
}
