package css

import (
	"github.com/walteh/gosvelte/pkg/position"
)

// parseSelectorList parses selectors up to the '{' that opens the rule's
// block, which is left unconsumed.
func (p *parser) parseSelectorList() SelectorList {
	var list SelectorList
	for {
		sel, ok := p.parseComplexSelector()
		if ok {
			list = append(list, sel)
		}
		p.skipTrivia()
		if !p.eat(",") {
			return list
		}
	}
}

func (p *parser) parseComplexSelector() (ComplexSelector, bool) {
	p.skipTrivia()
	start := p.current().span.Start
	var sel ComplexSelector
	combinator := CombinatorNone
	combinatorSpan := position.Span{}

	for {
		ws := p.skipTrivia()
		tok := p.current()
		if atSelectorEnd(tok) {
			break
		}

		if c, ok := p.readCombinator(); ok {
			if combinator != CombinatorNone && combinator != CombinatorDescendant {
				p.diags.Errorf(tok.span, "css_invalid_selector", "unexpected combinator %q", c)
			}
			combinator = c
			combinatorSpan = tok.span
			continue
		}
		if ws && combinator == CombinatorNone && len(sel.Children) > 0 {
			combinator = CombinatorDescendant
		}

		rel, ok := p.parseRelativeSelector(combinator)
		if !ok {
			if bad := p.current(); !atSelectorEnd(bad) {
				p.next()
				p.diags.Errorf(bad.span, "css_invalid_selector", "unexpected %q in selector", bad.text)
			}
			continue
		}
		sel.Children = append(sel.Children, rel)
		combinator = CombinatorNone
	}

	if combinator != CombinatorNone && combinator != CombinatorDescendant {
		p.diags.Errorf(combinatorSpan, "css_invalid_selector", "selector cannot end with a combinator")
	}
	if len(sel.Children) == 0 {
		p.diags.Errorf(p.current().span, "css_expected_selector", "expected a selector")
		return sel, false
	}
	sel.Span = p.spanFrom(start)
	return sel, true
}

func atSelectorEnd(tok token) bool {
	return tok.kind == tokEOF || tok.is("{") || tok.is(",") || tok.is("}") || tok.is(";")
}

func (p *parser) readCombinator() (Combinator, bool) {
	tok := p.current()
	var c Combinator
	switch {
	case tok.is(">"):
		c = CombinatorChild
	case tok.is("+"):
		c = CombinatorNextSibling
	case tok.is("~"):
		c = CombinatorSubsequentSibling
	case tok.is("||"):
		c = CombinatorColumn
	default:
		return CombinatorNone, false
	}
	p.next()
	return c, true
}

// parseRelativeSelector reads a compound selector: simple selectors with no
// whitespace between them.
func (p *parser) parseRelativeSelector(combinator Combinator) (RelativeSelector, bool) {
	rel := RelativeSelector{Combinator: combinator}
	start := p.current().span.Start
	for {
		simple, ok := p.parseSimpleSelector(len(rel.Selectors) == 0)
		if !ok {
			break
		}
		rel.Selectors = append(rel.Selectors, simple)
	}
	if len(rel.Selectors) == 0 {
		return rel, false
	}
	rel.Span = p.spanFrom(start)
	return rel, true
}

func (p *parser) parseSimpleSelector(first bool) (SimpleSelector, bool) {
	tok := p.current()
	start := tok.span.Start

	switch {
	case tok.kind == tokIdent && first:
		p.next()
		name := tok.text
		if p.current().is("|") {
			name += p.readNamespaced()
		}
		return SimpleSelector{Kind: KindType, Span: tok.span, Name: name}, true

	case tok.is("*") && first:
		p.next()
		if p.current().is("|") {
			name := "*" + p.readNamespaced()
			return SimpleSelector{Kind: KindType, Span: p.spanFrom(start), Name: name}, true
		}
		return SimpleSelector{Kind: KindUniversal, Span: tok.span}, true

	case tok.is("&"):
		p.next()
		return SimpleSelector{Kind: KindNesting, Span: tok.span}, true

	case tok.kind == tokHash:
		p.next()
		return SimpleSelector{Kind: KindID, Span: tok.span, Name: tok.text[1:]}, true

	case tok.is("."):
		p.next()
		name := p.current()
		if name.kind != tokIdent {
			p.diags.Errorf(name.span, "css_expected_identifier", "expected a class name after '.'")
			return SimpleSelector{}, false
		}
		p.next()
		return SimpleSelector{Kind: KindClass, Span: p.spanFrom(start), Name: name.text}, true

	case tok.is("["):
		return p.parseAttributeSelector(), true

	case tok.is(":"):
		p.next()
		kind := KindPseudoClass
		if p.eat(":") {
			kind = KindPseudoElement
		}
		name := p.current()
		if name.kind != tokIdent {
			p.diags.Errorf(name.span, "css_expected_identifier", "expected a pseudo selector name")
			return SimpleSelector{}, false
		}
		p.next()
		sel := SimpleSelector{Kind: kind, Name: name.text}
		if p.current().is("(") {
			sel.Args, sel.HasArgs = p.readArgs(), true
		}
		sel.Span = p.spanFrom(start)
		return sel, true
	}

	return SimpleSelector{}, false
}

// readNamespaced consumes "|name" after a namespace prefix.
func (p *parser) readNamespaced() string {
	p.next()
	tok := p.current()
	if tok.kind == tokIdent || tok.is("*") {
		p.next()
		return "|" + tok.text
	}
	p.diags.Errorf(tok.span, "css_expected_identifier", "expected a name after '|'")
	return "|"
}

// readArgs consumes a parenthesized argument list and returns the raw source
// between the parentheses.
func (p *parser) readArgs() string {
	open := p.next()
	depth := 1
	for {
		tok := p.current()
		if tok.kind == tokEOF {
			p.diags.Errorf(open.span, "css_unclosed_parenthesis", "expected ')'")
			return p.slice(open.span.End, tok.span.Start)
		}
		p.next()
		switch {
		case tok.is("("):
			depth++
		case tok.is(")"):
			depth--
			if depth == 0 {
				return p.slice(open.span.End, tok.span.Start)
			}
		}
	}
}

// slice returns the source between two absolute offsets.
func (p *parser) slice(start, end uint32) string {
	return p.source[int(start)-p.base : int(end)-p.base]
}

func (p *parser) parseAttributeSelector() SimpleSelector {
	open := p.next()
	sel := SimpleSelector{Kind: KindAttribute}

	p.skipTrivia()
	name := p.current()
	if name.kind != tokIdent && !name.is("*") && !name.is("|") {
		p.diags.Errorf(name.span, "css_invalid_attribute_selector", "expected an attribute name")
		p.skipAttribute()
		sel.Span = p.spanFrom(open.span.Start)
		return sel
	}
	if name.is("|") {
		sel.Name = p.readNamespaced()
	} else {
		p.next()
		sel.Name = name.text
		if p.current().is("|") && !p.tokens[p.pos+1].is("=") {
			sel.Name += p.readNamespaced()
		}
	}

	p.skipTrivia()
	if m, ok := p.readMatcher(); ok {
		sel.Matcher = m
		p.skipTrivia()
		value := p.current()
		switch value.kind {
		case tokString:
			p.checkString(value)
			p.next()
			sel.Value = value.text
		case tokIdent, tokNumber:
			p.next()
			sel.Value = value.text
		default:
			p.diags.Errorf(value.span, "css_invalid_attribute_selector", "expected an attribute value")
		}
		p.skipTrivia()
		if flag := p.current(); flag.kind == tokIdent {
			p.next()
			sel.Flags = flag.text
		}
		p.skipTrivia()
	}

	if !p.eat("]") {
		p.diags.Errorf(p.current().span, "css_invalid_attribute_selector", "expected ']'")
		p.skipAttribute()
	}
	sel.Span = p.spanFrom(open.span.Start)
	return sel
}

func (p *parser) readMatcher() (string, bool) {
	tok := p.current()
	if tok.is("=") {
		p.next()
		return "=", true
	}
	if tok.kind != tokPunct || !p.tokens[p.pos+1].is("=") {
		return "", false
	}
	switch tok.text {
	case "~", "|", "^", "$", "*":
		p.next()
		p.next()
		return tok.text + "=", true
	}
	return "", false
}

// skipAttribute recovers from a malformed attribute selector by consuming
// through the next ']' without leaving the rule's prelude.
func (p *parser) skipAttribute() {
	for {
		tok := p.current()
		if tok.kind == tokEOF || tok.is("{") || tok.is("}") {
			return
		}
		p.next()
		if tok.is("]") {
			return
		}
	}
}
