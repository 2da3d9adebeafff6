// Package logging builds the zerolog loggers used by the command line tools.
package logging

import (
	"context"
	"fmt"
	"io"
	"runtime"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
)

type Options struct {
	Debug bool
	Color bool
}

// New returns a console logger writing to w. Debug enables debug events
// and adds the caller to every event.
func New(w io.Writer, opts Options) zerolog.Logger {
	level := zerolog.InfoLevel
	if opts.Debug {
		level = zerolog.DebugLevel
	}

	logger := zerolog.New(zerolog.ConsoleWriter{
		Out:        w,
		NoColor:    !opts.Color,
		TimeFormat: time.TimeOnly,
	}).Level(level).With().Timestamp().Logger()

	if opts.Debug {
		logger = logger.Hook(CallerHook{WithColor: opts.Color})
	}
	return logger
}

// WithContext attaches a logger built by New to ctx.
func WithContext(ctx context.Context, w io.Writer, opts Options) context.Context {
	return New(w, opts).WithContext(ctx)
}

// CallerHook adds a "caller" field formatted as pkg:file:line.
type CallerHook struct {
	WithColor bool
}

// Run, Event.msg, Event.Msg, then the code that logged
const callerSkip = 3

func (c CallerHook) Run(e *zerolog.Event, _ zerolog.Level, _ string) {
	pc, file, line, ok := runtime.Caller(callerSkip)
	if !ok {
		return
	}

	pkg, _ := SplitFuncName(runtime.FuncForPC(pc).Name())

	e.Str("caller", FormatCaller(pkg, file, line, c.WithColor))
}

// SplitFuncName splits a fully qualified function name, as reported by
// runtime.FuncForPC, into its package path and function. Methods keep their
// receiver: "pkg.(*T).M" gives "(*T).M".
func SplitFuncName(name string) (pkg, function string) {
	lastSlash := strings.LastIndexByte(name, '/')
	if lastSlash < 0 {
		lastSlash = 0
	}

	firstDot := strings.IndexByte(name[lastSlash:], '.')
	if firstDot < 0 {
		return name, ""
	}
	firstDot += lastSlash

	return name[:firstDot], name[firstDot+1:]
}

func FormatCaller(pkg, path string, line int, colorize bool) string {
	file := fileName(path)
	if colorize {
		file = color.New(color.Bold).Sprint(file)
		num := color.New(color.FgHiRed, color.Bold).Sprintf("%d", line)
		sep := color.New(color.Faint).Sprint(":")

		return fmt.Sprintf("%s%s%s%s%s", pkg, sep, file, sep, num)
	}

	return fmt.Sprintf("%s:%s:%d", pkg, file, line)
}

func fileName(path string) string {
	if i := strings.LastIndexByte(path, '/'); i >= 0 {
		return path[i+1:]
	}
	return path
}
