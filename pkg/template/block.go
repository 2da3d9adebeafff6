package template

import (
	"slices"

	"github.com/walteh/gosvelte/pkg/position"
)

// parseBlock parses {#kind ...}...{/kind}. Unknown block kinds and headers
// that never close rewind and return ok=false so the caller reads the
// brace as text.
func (p *parser) parseBlock() (Node, bool) {
	cp := p.Checkpoint()
	start := p.pos
	p.advance(len("{#"))

	keyword, kwSpan := p.readWhile(isIdentChar)
	kind, known := blockKinds[keyword]
	if !known {
		p.Rewind(cp)
		p.rewinds++
		p.diags.Errorf(position.NewSpan(start, int(kwSpan.End)), "block_unknown", "unknown block type {#%s}", keyword)
		return Node{}, false
	}

	header, ok := p.readBlockHeader()
	if !ok {
		p.Rewind(cp)
		p.rewinds++
		p.diags.Errorf(position.NewSpan(start, int(kwSpan.End)), "block_unclosed_header", "{#%s} was not closed with '}'", keyword)
		return Node{}, false
	}
	if header == nil {
		p.diags.Errorf(position.NewSpan(start, p.pos), "block_missing_expression", "{#%s} requires an expression", keyword)
	}

	block := Block{Kind: kind}
	branch := Branch{Span: position.NewSpan(start, p.pos), Keyword: keyword, Expression: header}
	if kind == BlockEach && header != nil {
		collection, context := splitEachHeader(*header)
		branch.Expression = &collection
		block.Context = context
	}

	p.open = append(p.open, openNode{kind: openBlock, name: keyword})
	for {
		branch.Fragment = append(branch.Fragment, p.parseFragment()...)

		if p.startsWith("{:") {
			block.Branches = append(block.Branches, branch)
			branch = p.parseContinuation(kind)
			continue
		}

		if p.startsWith("{/") {
			name := p.blockCloseName()
			if name == keyword {
				closeStart := p.pos
				p.advance(len("{/") + len(name))
				p.skipWhitespace()
				if !p.eat("}") {
					p.skipTo("}")
					p.diags.Errorf(position.NewSpan(closeStart, p.pos), "block_invalid_close", "{/%s} must be closed with '}'", keyword)
				}
				break
			}
			if p.isOpenBelowTop(name) {
				p.diags.Errorf(position.NewSpan(start, int(kwSpan.End)), "block_unclosed", "{#%s} block was left open", keyword)
				break
			}
			p.skipStrayBlockTag()
			continue
		}

		p.diags.Errorf(position.NewSpan(start, int(kwSpan.End)), "block_unclosed", "{#%s} block was left open", keyword)
		break
	}
	p.open = p.open[:len(p.open)-1]
	block.Branches = append(block.Branches, branch)

	block.Span = position.NewSpan(start, p.pos)
	return p.arena.addBlock(block), true
}

// isOpenBelowTop reports whether a block called name is open outside the
// innermost one.
func (p *parser) isOpenBelowTop(name string) bool {
	for i := len(p.open) - 2; i >= 0; i-- {
		if p.open[i].kind == openBlock && p.open[i].name == name {
			return true
		}
	}
	return false
}

func (p *parser) blockCloseName() string {
	start := p.pos + len("{/")
	end := start
	for end < len(p.source) && isIdentChar(p.source[end]) {
		end++
	}
	return p.source[start:end]
}

// readBlockHeader reads the optional expression of a block header and the
// closing '}'. A nil expression means the header was empty.
func (p *parser) readBlockHeader() (*Expression, bool) {
	p.skipWhitespace()
	if p.eat("}") {
		return nil, true
	}
	expr, ok := p.readExpression()
	if !ok {
		return nil, false
	}
	p.advance(1)
	if expr.Raw == "" {
		return nil, true
	}
	return &expr, true
}

func (p *parser) parseContinuation(kind BlockKind) Branch {
	start := p.pos
	p.advance(len("{:"))

	keyword, _ := p.readWhile(isIdentChar)
	if keyword == "else" {
		save := p.pos
		p.skipWhitespace()
		if p.startsWith("if") && !isIdentChar(p.peekAt(2)) {
			p.advance(len("if"))
			keyword = "else if"
		} else {
			p.pos = save
		}
	}
	if !slices.Contains(blockContinuations[kind], keyword) {
		p.diags.Errorf(position.NewSpan(start, p.pos), "block_invalid_continuation",
			"{:%s} is not valid inside {#%s}", keyword, kind)
	}

	expr, ok := p.readBlockHeader()
	if !ok {
		p.diags.Errorf(position.NewSpan(start, p.pos), "block_unclosed_header", "{:%s} was not closed with '}'", keyword)
	}
	if keyword == "else if" && expr == nil {
		p.diags.Errorf(position.NewSpan(start, p.pos), "block_missing_expression", "{:else if} requires an expression")
	}

	return Branch{Span: position.NewSpan(start, p.pos), Keyword: keyword, Expression: expr}
}

// parseTag parses {expression} and {@kind expression}. An expression that
// never closes rewinds and returns ok=false so the caller reads the brace
// as text.
func (p *parser) parseTag() (Node, bool) {
	cp := p.Checkpoint()
	start := p.pos
	p.advance(1)

	kind := TagExpression
	if p.peek() == '@' {
		p.advance(1)
		word, wordSpan := p.readWhile(isIdentChar)
		if k, ok := tagKinds[word]; ok {
			kind = k
		} else {
			p.diags.Errorf(position.NewSpan(start, int(wordSpan.End)), "tag_unknown", "unknown tag {@%s}", word)
		}
		p.skipWhitespace()
	}

	expr, ok := p.readExpression()
	if !ok {
		p.Rewind(cp)
		p.rewinds++
		p.diags.Errorf(position.NewSpan(start, start+1), "expression_unclosed", "expression tag was not closed with '}'")
		return Node{}, false
	}
	p.advance(1)

	if expr.Raw == "" && kind != TagDebug {
		p.diags.Errorf(position.NewSpan(start, p.pos), "expression_empty", "expected an expression")
	}

	return p.arena.addTag(Tag{
		Span:       position.NewSpan(start, p.pos),
		Kind:       kind,
		Expression: expr,
	}), true
}
