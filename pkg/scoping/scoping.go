// Package scoping rewrites a style sheet so its rules only match elements
// carrying the component's scoping class.
package scoping

import (
	"github.com/walteh/gosvelte/pkg/css"
)

// Transform appends a class selector named scopeClass to every relative
// selector in ss, in place, and returns how many selectors were changed.
//
// Transform is not idempotent: a second call appends the class again.
// Callers must run it exactly once per parsed style sheet.
func Transform(ss *css.StyleSheet, scopeClass string) int {
	n := 0
	css.WalkRelativeSelectors(ss, func(rel *css.RelativeSelector) {
		rel.Selectors = append(rel.Selectors, css.SimpleSelector{
			Kind: css.KindClass,
			Name: scopeClass,
		})
		n++
	})
	return n
}
