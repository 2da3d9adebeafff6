package logging_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/walteh/gosvelte/pkg/logging"
)

func TestSplitFuncName(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		pkg      string
		function string
	}{
		{
			name:     "function",
			input:    "github.com/walteh/gosvelte/pkg/css.Parse",
			pkg:      "github.com/walteh/gosvelte/pkg/css",
			function: "Parse",
		},
		{
			name:     "pointer_method",
			input:    "github.com/walteh/gosvelte/pkg/css.(*parser).next",
			pkg:      "github.com/walteh/gosvelte/pkg/css",
			function: "(*parser).next",
		},
		{
			name:     "closure",
			input:    "main.run.func1",
			pkg:      "main",
			function: "run.func1",
		},
		{
			name:     "no_dot",
			input:    "main",
			pkg:      "main",
			function: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pkg, function := logging.SplitFuncName(tt.input)
			assert.Equal(t, tt.pkg, pkg)
			assert.Equal(t, tt.function, function)
		})
	}
}

func TestFormatCaller(t *testing.T) {
	assert.Equal(t, "pkg/css:parser.go:42", logging.FormatCaller("pkg/css", "/src/pkg/css/parser.go", 42, false))
	assert.Equal(t, "main:main.go:7", logging.FormatCaller("main", "main.go", 7, false))
}

func TestNew(t *testing.T) {
	tests := []struct {
		name       string
		opts       logging.Options
		debugShown bool
	}{
		{name: "info", opts: logging.Options{}, debugShown: false},
		{name: "debug", opts: logging.Options{Debug: true}, debugShown: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := logging.New(&buf, tt.opts)

			logger.Debug().Msg("hidden unless debug")
			logger.Info().Str("file", "App.svelte").Msg("compiled")

			out := buf.String()
			assert.Contains(t, out, "compiled")
			assert.Contains(t, out, "file=App.svelte")
			assert.Equal(t, tt.debugShown, bytes.Contains(buf.Bytes(), []byte("hidden unless debug")))
			if tt.debugShown {
				assert.Contains(t, out, "logging_test.go:")
			}
		})
	}
}
