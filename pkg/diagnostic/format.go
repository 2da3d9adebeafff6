package diagnostic

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/apparentlymart/go-textseg/v13/textseg"
	"github.com/fatih/color"
	"github.com/walteh/gosvelte/pkg/position"
	"gitlab.com/tozd/go/errors"
)

// Formatter formats diagnostics for one source file
type Formatter interface {
	Format(filename, source string, diags List) ([]byte, error)
}

// NewFormatter returns the formatter registered under name.
func NewFormatter(name string, colorize bool) (Formatter, error) {
	switch name {
	case "", "text":
		return &TextFormatter{Color: colorize}, nil
	case "json":
		return &JSONFormatter{}, nil
	default:
		return nil, errors.Errorf("unknown diagnostic format %q", name)
	}
}

// TextFormatter renders a human readable report with a source excerpt and a
// caret line under the offending range.
type TextFormatter struct {
	Color bool
}

func (f *TextFormatter) Format(filename, source string, diags List) ([]byte, error) {
	var buf bytes.Buffer
	for _, d := range diags {
		f.render(&buf, filename, source, d)
	}
	return buf.Bytes(), nil
}

func (f *TextFormatter) render(buf *bytes.Buffer, filename, source string, d Diagnostic) {
	line, col := position.GetLineAndColumn(source, d.Span.Start)

	sev := string(d.Severity)
	loc := fmt.Sprintf("%s:%d:%d", filename, line+1, col+1)
	if f.Color {
		attr := color.FgHiRed
		if d.Severity == SeverityWarning {
			attr = color.FgHiYellow
		}
		sev = color.New(attr, color.Bold).Sprint(sev)
		loc = color.New(color.Faint).Sprint(loc)
	}
	fmt.Fprintf(buf, "%s: %s [%s] %s\n", loc, sev, d.Code, d.Message)

	excerpt, caret := Excerpt(source, d.Span)
	if excerpt == "" && caret == "" {
		return
	}
	if f.Color {
		caret = color.New(color.FgHiRed).Sprint(caret)
	}
	fmt.Fprintf(buf, "  %s\n  %s\n", excerpt, caret)
}

// Excerpt returns the source line holding span.Start and a caret line that
// underlines the part of span on that line. Columns are counted in grapheme
// clusters so the carets line up under multi-byte text.
func Excerpt(source string, span position.Span) (line string, caret string) {
	if int(span.Start) > len(source) {
		return "", ""
	}
	start, end := position.LineBounds(source, span.Start)
	line = source[start:end]

	col := int(span.Start) - start
	if col > len(line) {
		col = len(line)
	}
	stop := int(span.End) - start
	if stop > len(line) {
		stop = len(line)
	}
	if stop < col {
		stop = col
	}

	width := graphemes(line[col:stop])
	if width == 0 {
		width = 1
	}
	return line, padding(line[:col]) + strings.Repeat("^", width)
}

func graphemes(s string) int {
	n, err := textseg.TokenCount([]byte(s), textseg.ScanGraphemeClusters)
	if err != nil {
		return len(s)
	}
	return n
}

// padding returns one blank per grapheme cluster of s, keeping tabs so the
// caret lines up with the excerpt.
func padding(s string) string {
	var out strings.Builder
	data := []byte(s)
	for len(data) > 0 {
		adv, tok, err := textseg.ScanGraphemeClusters(data, true)
		if err != nil || adv == 0 {
			break
		}
		if tok[0] == '\t' {
			out.WriteByte('\t')
		} else {
			out.WriteByte(' ')
		}
		data = data[adv:]
	}
	return out.String()
}

// JSONFormatter emits editor-style diagnostics with zero-based ranges.
type JSONFormatter struct{}

type jsonPlace struct {
	Line      int `json:"line"`
	Character int `json:"character"`
}

type jsonRange struct {
	Start jsonPlace `json:"start"`
	End   jsonPlace `json:"end"`
}

type jsonDiagnostic struct {
	File     string    `json:"file"`
	Code     string    `json:"code"`
	Severity int       `json:"severity"`
	Message  string    `json:"message"`
	Offset   [2]uint32 `json:"offset"`
	Range    jsonRange `json:"range"`
}

func (f *JSONFormatter) Format(filename, source string, diags List) ([]byte, error) {
	result := make([]jsonDiagnostic, 0, len(diags))
	for _, d := range diags {
		r := d.Span.GetRange(source)
		sev := 1 // error
		if d.Severity == SeverityWarning {
			sev = 2
		}
		result = append(result, jsonDiagnostic{
			File:     filename,
			Code:     d.Code,
			Severity: sev,
			Message:  d.Message,
			Offset:   [2]uint32{d.Span.Start, d.Span.End},
			Range: jsonRange{
				Start: jsonPlace{Line: r.Start.Line, Character: r.Start.Character},
				End:   jsonPlace{Line: r.End.Line, Character: r.End.Character},
			},
		})
	}

	out, err := json.Marshal(result)
	if err != nil {
		return nil, errors.Errorf("marshaling diagnostics: %w", err)
	}
	return out, nil
}
