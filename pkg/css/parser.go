package css

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"github.com/walteh/gosvelte/pkg/diagnostic"
	"github.com/walteh/gosvelte/pkg/position"
	"github.com/walteh/gosvelte/pkg/trivia"
)

type atRuleCategory uint8

const (
	atRuleUnknown atRuleCategory = iota
	atRuleRules
	atRuleKeyframes
	atRuleDeclarations
	atRuleStatement
)

var atRuleCategories = map[string]atRuleCategory{
	"media":               atRuleRules,
	"supports":            atRuleRules,
	"container":           atRuleRules,
	"layer":               atRuleRules,
	"scope":               atRuleRules,
	"document":            atRuleRules,
	"starting-style":      atRuleRules,
	"font-face":           atRuleDeclarations,
	"page":                atRuleDeclarations,
	"property":            atRuleDeclarations,
	"counter-style":       atRuleDeclarations,
	"font-feature-values": atRuleDeclarations,
	"import":              atRuleStatement,
	"charset":             atRuleStatement,
	"namespace":           atRuleStatement,
}

func categorize(name string) atRuleCategory {
	if isKeyframesName(name) {
		return atRuleKeyframes
	}
	return atRuleCategories[strings.ToLower(name)]
}

// Result is the outcome of parsing one style sheet.
type Result struct {
	StyleSheet  *StyleSheet
	Trivia      *trivia.Trivia
	Diagnostics diagnostic.List
}

type parser struct {
	source  string
	base    int
	tokens  []token
	pos     int
	prevEnd uint32
	trivia  *trivia.Builder
	diags   diagnostic.List
	rewinds int
}

type checkpoint struct {
	pos     int
	prevEnd uint32
	diags   int
}

// Parse parses the style sheet in source. base is the offset of source
// inside the file it was taken from; every span in the result, trivia
// included, is relative to that file. Parse never fails: problems are
// reported as diagnostics and parsing resumes at the next ';' or '}'.
func Parse(ctx context.Context, source string, base int) *Result {
	p := &parser{
		source:  source,
		base:    base,
		prevEnd: uint32(base),
		trivia:  trivia.NewBuilder(),
	}

	tokens, err := tokenize(source, base)
	if err != nil {
		end := tokens[len(tokens)-1].span
		p.diags.Errorf(end, "css_invalid_token", "%s", err.Error())
	}
	p.tokens = tokens

	ss := &StyleSheet{Span: position.NewSpan(base, base+len(source))}
	ss.Rules = p.parseRuleList()

	res := &Result{
		StyleSheet:  ss,
		Trivia:      p.trivia.Build(),
		Diagnostics: p.diags,
	}

	zerolog.Ctx(ctx).Debug().
		Int("tokens", len(p.tokens)).
		Int("rules", len(ss.Rules)).
		Int("comments", res.Trivia.Len()).
		Int("diagnostics", len(res.Diagnostics)).
		Int("rewinds", p.rewinds).
		Msg("parsed style sheet")

	return res
}

func (p *parser) checkpoint() checkpoint {
	return checkpoint{pos: p.pos, prevEnd: p.prevEnd, diags: len(p.diags)}
}

// rewind restores the cursor. Comments passed again after a rewind are
// dropped by the trivia builder.
func (p *parser) rewind(cp checkpoint) {
	p.pos = cp.pos
	p.prevEnd = cp.prevEnd
	p.diags = p.diags[:cp.diags]
	p.rewinds++
}

func (p *parser) current() token {
	return p.tokens[p.pos]
}

// next consumes the current token. Every token the parser moves past goes
// through here, so this is where comments and irregular whitespace are
// recorded.
func (p *parser) next() token {
	tok := p.tokens[p.pos]
	if tok.kind == tokEOF {
		return tok
	}
	p.pos++

	switch tok.kind {
	case tokComment:
		p.trivia.AddComment(tok.span.Start, tok.span.End)
	case tokUnterminatedComment:
		p.trivia.AddLineComment(tok.span.Start, tok.span.End)
		p.diags.Errorf(tok.span, "css_unterminated_comment", "comment was left open")
	case tokIrregular:
		if r, _ := utf8.DecodeRuneInString(tok.text); trivia.IsIrregularWhitespace(r) {
			p.trivia.AddIrregularWhitespace(tok.span.Start, tok.span.End)
		}
	case tokWhitespace:
	default:
		p.prevEnd = tok.span.End
	}
	return tok
}

// skipTrivia consumes whitespace and comments and reports whether any were
// present.
func (p *parser) skipTrivia() bool {
	skipped := false
	for p.current().isTrivia() {
		p.next()
		skipped = true
	}
	return skipped
}

// peekPastTrivia returns the first significant token at or after the
// cursor without consuming anything.
func (p *parser) peekPastTrivia(from int) (token, int) {
	for i := from; i < len(p.tokens); i++ {
		if !p.tokens[i].isTrivia() {
			return p.tokens[i], i
		}
	}
	return p.tokens[len(p.tokens)-1], len(p.tokens) - 1
}

func (p *parser) eat(punct string) bool {
	if p.current().is(punct) {
		p.next()
		return true
	}
	return false
}

func (p *parser) spanFrom(start uint32) position.Span {
	end := p.prevEnd
	if end < start {
		end = start
	}
	return position.Span{Start: start, End: end}
}

// parseRuleList parses top-level rules until EOF.
func (p *parser) parseRuleList() []Rule {
	var rules []Rule
	for {
		p.skipTrivia()
		tok := p.current()
		switch {
		case tok.kind == tokEOF:
			return rules
		case tok.is("}"):
			p.next()
			p.diags.Errorf(tok.span, "css_unexpected_closing_brace", "unexpected '}'")
		case tok.is(";"):
			p.next()
		case tok.kind == tokAtKeyword:
			rules = append(rules, p.parseAtRule())
		default:
			rules = append(rules, p.parseStyleRule())
		}
	}
}

// parseBlock parses the contents of a {...} block after its opening brace,
// including the closing brace. Blocks may mix declarations and nested rules.
func (p *parser) parseBlock(owner position.Span) (decls []Declaration, rules []Rule) {
	for {
		p.skipTrivia()
		tok := p.current()
		switch {
		case tok.kind == tokEOF:
			p.diags.Errorf(owner, "css_unclosed_block", "block was not closed with '}'")
			return decls, rules
		case tok.is("}"):
			p.next()
			return decls, rules
		case tok.is(";"):
			p.next()
		case tok.kind == tokAtKeyword:
			rules = append(rules, p.parseAtRule())
		default:
			if p.looksLikeDeclaration() {
				cp := p.checkpoint()
				if decl, ok := p.parseDeclaration(); ok {
					decls = append(decls, decl)
					continue
				}
				p.rewind(cp)
			}
			rules = append(rules, p.parseStyleRule())
		}
	}
}

// looksLikeDeclaration reports whether the cursor is at "ident :". Nested
// rules such as "a:hover { }" look the same, which parseDeclaration resolves
// by giving up when it meets a '{'.
func (p *parser) looksLikeDeclaration() bool {
	if p.current().kind != tokIdent {
		return false
	}
	tok, _ := p.peekPastTrivia(p.pos + 1)
	return tok.is(":")
}

func (p *parser) parseDeclaration() (Declaration, bool) {
	name := p.next()
	p.skipTrivia()
	p.next() // ':'

	custom := strings.HasPrefix(name.text, "--")
	value, important, ok := p.readValue(custom)
	if !ok {
		return Declaration{}, false
	}

	decl := Declaration{
		Span:      p.spanFrom(name.span.Start),
		Property:  name.text,
		Value:     value,
		Important: important,
	}
	if value == "" && !custom {
		p.diags.Errorf(decl.Span, "css_expected_value", "declaration %q has no value", name.text)
	}
	p.eat(";")
	return decl, true
}

// readValue collects the tokens of a declaration value up to ';' or the
// closing '}' of the block. Runs of whitespace and comments collapse into a
// single space. It returns ok=false when it meets a '{' that is not part of a
// custom property value, meaning the "declaration" was really a nested rule.
func (p *parser) readValue(custom bool) (value string, important bool, ok bool) {
	var b strings.Builder
	depth := 0
	space := false
	for {
		tok := p.current()
		switch {
		case tok.kind == tokEOF:
			return strings.TrimSpace(b.String()), important, true
		case depth == 0 && (tok.is(";") || tok.is("}")):
			return strings.TrimSpace(b.String()), important, true
		case tok.is("{"):
			if !custom && depth == 0 {
				return "", false, false
			}
			depth++
		case tok.is("(") || tok.is("["):
			depth++
		case tok.is(")") || tok.is("]") || tok.is("}"):
			depth--
		case tok.is("!") && depth == 0:
			if next, idx := p.peekPastTrivia(p.pos + 1); next.kind == tokIdent && strings.EqualFold(next.text, "important") {
				for p.pos <= idx {
					p.next()
				}
				important = true
				continue
			}
		case tok.kind == tokString:
			p.checkString(tok)
		}

		p.next()
		if tok.isTrivia() {
			space = b.Len() > 0
			continue
		}
		if space {
			b.WriteByte(' ')
			space = false
		}
		b.WriteString(tok.text)
	}
}

func (p *parser) checkString(tok token) {
	if len(tok.text) < 2 || tok.text[len(tok.text)-1] != tok.text[0] {
		p.diags.Errorf(tok.span, "css_unterminated_string", "string was not closed")
	}
}

// readPrelude collects the tokens before an at-rule's block or terminating
// ';' the same way readValue does.
func (p *parser) readPrelude() string {
	var b strings.Builder
	depth := 0
	space := false
	for {
		tok := p.current()
		switch {
		case tok.kind == tokEOF:
			return b.String()
		case depth == 0 && (tok.is("{") || tok.is(";") || tok.is("}")):
			return b.String()
		case tok.is("(") || tok.is("["):
			depth++
		case tok.is(")") || tok.is("]"):
			depth--
		case tok.kind == tokString:
			p.checkString(tok)
		}

		p.next()
		if tok.isTrivia() {
			space = b.Len() > 0
			continue
		}
		if space {
			b.WriteByte(' ')
			space = false
		}
		b.WriteString(tok.text)
	}
}

func (p *parser) parseAtRule() Rule {
	keyword := p.next()
	rule := Rule{Kind: RuleAt, Name: keyword.text[1:]}
	category := categorize(rule.Name)

	p.skipTrivia()
	rule.Prelude = p.readPrelude()

	switch {
	case p.eat(";"):
		if category != atRuleStatement && category != atRuleUnknown && !isLayerStatement(rule) {
			p.diags.Errorf(keyword.span, "css_at_rule_missing_block", "@%s requires a block", rule.Name)
		}
	case p.current().is("{"):
		open := p.next()
		rule.HasBlock = true
		if category == atRuleStatement {
			p.diags.Warnf(keyword.span, "css_at_rule_unexpected_block", "@%s does not take a block", rule.Name)
		}
		if category == atRuleKeyframes {
			rule.Rules = p.parseKeyframesBlock(keyword.span.Expand(open.span))
		} else {
			rule.Declarations, rule.Rules = p.parseBlock(keyword.span.Expand(open.span))
		}
	default:
		// '}' of an enclosing block, or EOF
		if category != atRuleStatement && category != atRuleUnknown && !isLayerStatement(rule) {
			p.diags.Errorf(keyword.span, "css_at_rule_missing_block", "@%s requires a block", rule.Name)
		}
	}

	rule.Span = p.spanFrom(keyword.span.Start)
	return rule
}

// isLayerStatement reports whether r is "@layer a, b;", the statement form
// of a block at-rule.
func isLayerStatement(r Rule) bool {
	return strings.EqualFold(r.Name, "layer") && r.Prelude != ""
}

func (p *parser) parseKeyframesBlock(owner position.Span) []Rule {
	var rules []Rule
	for {
		p.skipTrivia()
		tok := p.current()
		switch {
		case tok.kind == tokEOF:
			p.diags.Errorf(owner, "css_unclosed_block", "block was not closed with '}'")
			return rules
		case tok.is("}"):
			p.next()
			return rules
		case tok.is(";"):
			p.next()
		default:
			rules = append(rules, p.parseKeyframe())
		}
	}
}

func (p *parser) parseKeyframe() Rule {
	start := p.current().span
	rule := Rule{Kind: RuleKeyframe}
	for {
		p.skipTrivia()
		tok := p.current()
		switch {
		case tok.kind == tokIdent || tok.kind == tokNumber:
			p.next()
			rule.KeyframeSelectors = append(rule.KeyframeSelectors, tok.text)
			continue
		case tok.is(","):
			p.next()
			continue
		case tok.is("{"):
			open := p.next()
			rule.Declarations, rule.Rules = p.parseBlock(start.Expand(open.span))
		case tok.is("}") || tok.kind == tokEOF:
			p.diags.Errorf(tok.span, "css_expected_block", "expected '{' after keyframe selector")
		default:
			p.next()
			p.diags.Errorf(tok.span, "css_invalid_keyframe_selector", "unexpected %q in keyframe selector", tok.text)
			continue
		}
		break
	}
	if len(rule.KeyframeSelectors) == 0 {
		p.diags.Errorf(start, "css_invalid_keyframe_selector", "keyframe rule has no selector")
	}
	rule.Span = p.spanFrom(start.Start)
	return rule
}

func (p *parser) parseStyleRule() Rule {
	start := p.current().span
	rule := Rule{Kind: RuleStyle}
	rule.Selectors = p.parseSelectorList()

	p.skipTrivia()
	tok := p.current()
	switch {
	case tok.is("{"):
		p.next()
		rule.Declarations, rule.Rules = p.parseBlock(start.Expand(tok.span))
	default:
		p.diags.Errorf(tok.span, "css_expected_block", "expected '{' after selector")
		p.recoverRule()
	}

	rule.Span = p.spanFrom(start.Start)
	return rule
}

// recoverRule skips a malformed rule: up to and including the next ';', a
// balanced {...} block, or up to (not including) the '}' that closes the
// enclosing block.
func (p *parser) recoverRule() {
	for {
		tok := p.current()
		switch {
		case tok.kind == tokEOF, tok.is("}"):
			return
		case tok.is(";"):
			p.next()
			return
		case tok.is("{"):
			p.next()
			p.skipBalanced()
			return
		}
		p.next()
	}
}

// skipBalanced consumes tokens through the '}' matching an already consumed
// '{'.
func (p *parser) skipBalanced() {
	depth := 1
	for depth > 0 {
		tok := p.current()
		if tok.kind == tokEOF {
			return
		}
		p.next()
		switch {
		case tok.is("{"):
			depth++
		case tok.is("}"):
			depth--
		}
	}
}
