// Package diff renders readable differences between expected and actual
// syntax trees in test failures.
package diff

import (
	"strings"

	"github.com/k0kubun/pp/v3"
	"github.com/kylelemons/godebug/diff"
)

// Exported pretty prints both values, exported fields only, and returns a
// line diff from got to want. It returns "" when they print the same.
func Exported[T any](want T, got T) string {
	printer := pp.New()
	printer.SetExportedOnly(true)
	printer.SetColoringEnabled(false)

	a, b := printer.Sprint(got), printer.Sprint(want)
	if a == b {
		return ""
	}

	var out strings.Builder
	out.WriteString("\n\nto turn ACTUAL into EXPECTED:\n\n")
	out.WriteString("add:    +\n")
	out.WriteString("remove: -\n\n")
	out.WriteString(diff.Diff(a, b))
	return out.String()
}
