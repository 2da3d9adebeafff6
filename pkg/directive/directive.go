// Package directive extracts suppression directives from comment bodies.
package directive

import (
	"regexp"
	"strings"
)

// Keyword introduces a suppression directive inside a markup comment.
const Keyword = "svelte-ignore"

// The keyword may end its line; the identifiers are then read from the next
// non-blank line. The capture never extends past a line end.
var ignoreLine = regexp.MustCompile(`(?m)^[ \t]*` + regexp.QuoteMeta(Keyword) + `[ \t\r\n]+([^ \t\r\n][^\r\n]*?)[ \t]*\r?$`)

// Extract returns the identifiers named by the first directive line in body,
// in source order. Later lines, including further directives, are ignored.
// It returns an empty, non-nil slice when nothing matches.
func Extract(body string) []string {
	m := ignoreLine.FindStringSubmatch(body)
	if m == nil {
		return []string{}
	}

	fields := strings.FieldsFunc(m[1], isSeparator)
	ids := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.TrimSpace(f)
		if f == "" || f == Keyword {
			continue
		}
		ids = append(ids, f)
	}
	return ids
}

func isSeparator(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r'
}

// Suppresses reports whether ids contains code.
func Suppresses(ids []string, code string) bool {
	for _, id := range ids {
		if id == code {
			return true
		}
	}
	return false
}
