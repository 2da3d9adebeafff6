// Package analysis runs every front end stage over one component source and
// collects the results the code generator needs.
package analysis

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/walteh/gosvelte/pkg/css"
	"github.com/walteh/gosvelte/pkg/csshash"
	"github.com/walteh/gosvelte/pkg/diagnostic"
	"github.com/walteh/gosvelte/pkg/scoping"
	"github.com/walteh/gosvelte/pkg/template"
	"github.com/walteh/gosvelte/pkg/trivia"
)

const DefaultScopePrefix = "svelte-"

type Options struct {
	// ScopePrefix is prepended to the style hash to form the scoping class.
	// Empty means DefaultScopePrefix.
	ScopePrefix string
}

func (o Options) scopePrefix() string {
	if o.ScopePrefix == "" {
		return DefaultScopePrefix
	}
	return o.ScopePrefix
}

type Result struct {
	Template *template.Result

	// CSS is nil when the component has no top-level <style>.
	CSS *CSSAnalysis

	// Diagnostics holds template diagnostics followed by style diagnostics.
	Diagnostics diagnostic.List
}

type CSSAnalysis struct {
	Hash       string
	ScopeClass string

	// StyleSheet has already been scoped with ScopeClass.
	StyleSheet  *css.StyleSheet
	Trivia      *trivia.Trivia
	Diagnostics diagnostic.List
}

// ScopeClass returns the class that scopes a component whose <style> block
// contains css.
func ScopeClass(prefix, css string) string {
	return prefix + csshash.Hash(css)
}

// Analyze parses source and, when it has a style block, parses, hashes and
// scopes it. It never fails: every problem is a diagnostic.
func Analyze(ctx context.Context, source string, opts Options) *Result {
	tmpl := template.Parse(ctx, source)

	res := &Result{
		Template: tmpl,
	}
	res.Diagnostics = append(res.Diagnostics, tmpl.Diagnostics...)

	if style := tmpl.Root.CSS; style != nil {
		res.CSS = analyzeStyle(ctx, style, opts.scopePrefix())
		res.Diagnostics = append(res.Diagnostics, res.CSS.Diagnostics...)
	}

	ev := zerolog.Ctx(ctx).Debug().
		Int("diagnostics", len(res.Diagnostics)).
		Bool("has_style", res.CSS != nil)
	if res.CSS != nil {
		ev = ev.Str("scope_class", res.CSS.ScopeClass)
	}
	ev.Msg("analyzed component")

	return res
}

func analyzeStyle(ctx context.Context, style *template.Style, prefix string) *CSSAnalysis {
	parsed := css.Parse(ctx, style.Content, int(style.ContentSpan.Start))

	hash := csshash.Hash(style.Content)
	class := prefix + hash

	scoped := scoping.Transform(parsed.StyleSheet, class)

	zerolog.Ctx(ctx).Debug().
		Str("hash", hash).
		Int("scoped_selectors", scoped).
		Msg("scoped style sheet")

	return &CSSAnalysis{
		Hash:        hash,
		ScopeClass:  class,
		StyleSheet:  parsed.StyleSheet,
		Trivia:      parsed.Trivia,
		Diagnostics: parsed.Diagnostics,
	}
}
