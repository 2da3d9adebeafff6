package diagnostic

import (
	"fmt"

	"github.com/walteh/gosvelte/pkg/position"
)

// Severity represents the severity level of a diagnostic
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Diagnostic is a single problem found while parsing, tied to the byte range
// that caused it.
type Diagnostic struct {
	Code     string
	Message  string
	Severity Severity
	Span     position.Span
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s[%s] %s (%s)", d.Severity, d.Code, d.Message, d.Span)
}

// List accumulates diagnostics in the order they were reported.
type List []Diagnostic

func (l *List) Errorf(span position.Span, code string, format string, args ...any) {
	*l = append(*l, Diagnostic{
		Code:     code,
		Message:  fmt.Sprintf(format, args...),
		Severity: SeverityError,
		Span:     span,
	})
}

func (l *List) Warnf(span position.Span, code string, format string, args ...any) {
	*l = append(*l, Diagnostic{
		Code:     code,
		Message:  fmt.Sprintf(format, args...),
		Severity: SeverityWarning,
		Span:     span,
	})
}

func (l List) HasErrors() bool {
	for _, d := range l {
		if d.Severity == SeverityError {
			return true
		}
	}
	return false
}

func (l List) Errors() List {
	return l.filter(SeverityError)
}

func (l List) Warnings() List {
	return l.filter(SeverityWarning)
}

func (l List) filter(sev Severity) List {
	var out List
	for _, d := range l {
		if d.Severity == sev {
			out = append(out, d)
		}
	}
	return out
}

