package template

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
	"github.com/walteh/gosvelte/pkg/charref"
	"github.com/walteh/gosvelte/pkg/diagnostic"
	"github.com/walteh/gosvelte/pkg/directive"
	"github.com/walteh/gosvelte/pkg/position"
	"github.com/walteh/gosvelte/pkg/trivia"
)

var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true, "hr": true,
	"img": true, "input": true, "link": true, "meta": true, "param": true,
	"source": true, "track": true, "wbr": true,
}

// elements whose content is not markup
var rawTextElements = map[string]bool{
	"script":   true,
	"style":    true,
	"textarea": true,
	"title":    true,
}

// Result is everything one parse produced. All nodes belong to Arena.
type Result struct {
	Source      string
	Arena       *Arena
	Root        Root
	Trivia      *trivia.Trivia
	Diagnostics diagnostic.List
}

type openKind uint8

const (
	openElement openKind = iota
	openBlock
)

type openNode struct {
	kind openKind
	name string
}

type parser struct {
	*Lexer
	arena   *Arena
	root    Root
	open    []openNode
	rewinds int
}

// Parse parses component markup. It never fails: problems are reported as
// diagnostics and parsing continues after them.
func Parse(ctx context.Context, source string) *Result {
	p := &parser{
		Lexer: NewLexer(source),
		arena: NewArena(),
	}

	p.root.Span = position.NewSpan(0, len(source))
	p.root.Fragment = p.parseFragment()

	res := &Result{
		Source:      source,
		Arena:       p.arena,
		Root:        p.root,
		Trivia:      p.trivia.Build(),
		Diagnostics: p.diags,
	}

	zerolog.Ctx(ctx).Debug().
		Int("nodes", p.arena.Len()).
		Int("comments", res.Trivia.Len()).
		Int("diagnostics", len(res.Diagnostics)).
		Int("rewinds", p.rewinds).
		Msg("parsed template")

	return res
}

func (p *parser) parseFragment() Fragment {
	var nodes Fragment
	for !p.eof() {
		switch {
		case p.startsWith("<!--"):
			nodes = append(nodes, p.parseComment())
		case p.startsWith("</"):
			if p.isOpen(openElement, p.closingTagName()) {
				return nodes
			}
			p.skipStrayClosingTag()
		case p.peek() == '<' && isTagStart(p.peekAt(1)):
			n, ok := p.parseElement()
			if !ok {
				nodes = p.pushText(nodes, true)
			} else if n.IsValid() {
				nodes = append(nodes, n)
			}
		case p.startsWith("{:") || p.startsWith("{/"):
			if p.inBlock() {
				return nodes
			}
			p.skipStrayBlockTag()
		case p.startsWith("{#"):
			n, ok := p.parseBlock()
			if !ok {
				nodes = p.pushText(nodes, true)
				continue
			}
			nodes = append(nodes, n)
		case p.peek() == '{':
			n, ok := p.parseTag()
			if !ok {
				nodes = p.pushText(nodes, true)
				continue
			}
			nodes = append(nodes, n)
		default:
			nodes = p.pushText(nodes, true)
		}
	}
	return nodes
}

// pushText reads a text run and appends it, merging with a text node that
// ends exactly where the run starts.
func (p *parser) pushText(nodes Fragment, force bool) Fragment {
	span := p.readText(force)
	if n := len(nodes); n > 0 && nodes[n-1].Kind == KindText {
		prev := p.arena.Text(nodes[n-1])
		if prev.Span.End == span.Start {
			prev.Span.End = span.End
			prev.Raw = prev.Span.Text(p.source)
			prev.Data = charref.Decode(prev.Raw)
			return nodes
		}
	}
	raw := span.Text(p.source)
	return append(nodes, p.arena.addText(Text{
		Span: span,
		Raw:  raw,
		Data: charref.Decode(raw),
	}))
}

func (p *parser) parseComment() Node {
	span, body := p.readComment()
	return p.arena.addComment(Comment{
		Span:    span,
		Data:    body,
		Ignores: directive.Extract(body),
	})
}

func (p *parser) isOpen(kind openKind, name string) bool {
	for i := len(p.open) - 1; i >= 0; i-- {
		if p.open[i].kind == kind && p.open[i].name == name {
			return true
		}
	}
	return false
}

func (p *parser) inBlock() bool {
	for _, o := range p.open {
		if o.kind == openBlock {
			return true
		}
	}
	return false
}

// closingTagName returns the name of the closing tag at the cursor.
func (p *parser) closingTagName() string {
	start := p.pos + len("</")
	end := start
	for end < len(p.source) && isTagNameChar(p.source[end]) {
		end++
	}
	return p.source[start:end]
}

func (p *parser) skipStrayClosingTag() {
	start := p.pos
	name := p.closingTagName()
	p.skipTo(">")
	p.diags.Errorf(position.NewSpan(start, p.pos), "element_invalid_closing_tag",
		"</%s> attempted to close an element that was not open", name)
}

func (p *parser) skipStrayBlockTag() {
	start := p.pos
	p.skipTo("}")
	p.diags.Errorf(position.NewSpan(start, p.pos), "block_invalid_placement",
		"%s cannot appear outside of a matching block", position.NewSpan(start, p.pos).Text(p.source))
}

// parseElement parses an element at '<'. It returns ok=false after rewinding
// when the start tag never closes; the caller then reads the '<' as text. A
// valid result with no node means the element was a top-level script or
// style, which is stored on the root instead.
func (p *parser) parseElement() (Node, bool) {
	cp := p.Checkpoint()
	start := p.pos
	p.advance(1)

	name, nameSpan := p.readWhile(isTagNameChar)
	el := Element{Name: name, NameSpan: nameSpan}

	for {
		p.skipWhitespace()
		if p.eof() {
			p.Rewind(cp)
			p.rewinds++
			p.diags.Errorf(position.NewSpan(start, int(nameSpan.End)), "element_unclosed_start_tag",
				"<%s> start tag was not closed", name)
			return Node{}, false
		}
		if p.eat("/>") {
			el.SelfClosing = true
			break
		}
		if p.eat(">") {
			break
		}
		attr, ok := p.parseAttribute()
		if !ok {
			if p.eof() {
				continue
			}
			bad := p.pos
			p.advance(1)
			p.diags.Errorf(position.NewSpan(bad, bad+1), "attribute_invalid",
				"unexpected character %q in <%s> start tag", p.source[bad], name)
			continue
		}
		el.Attributes = append(el.Attributes, attr)
	}

	topLevel := len(p.open) == 0
	switch {
	case topLevel && (name == "script" || name == "style"):
		p.parseTopLevelRaw(start, el)
		return Node{}, true
	case el.SelfClosing || voidElements[strings.ToLower(name)]:
	case rawTextElements[name]:
		el.Children = p.readRawText(el)
	default:
		p.open = append(p.open, openNode{kind: openElement, name: name})
		el.Children = p.parseFragment()
		p.open = p.open[:len(p.open)-1]
		p.closeElement(el)
	}

	el.Span = position.NewSpan(start, p.pos)
	return p.arena.addElement(el), true
}

func (p *parser) closeElement(el Element) {
	switch {
	case p.startsWith("</") && p.closingTagName() == el.Name:
		p.skipTo(">")
	case p.eof():
		p.diags.Errorf(el.NameSpan, "element_unclosed", "<%s> was left open", el.Name)
	default:
		p.diags.Errorf(el.NameSpan, "element_implicitly_closed", "<%s> was closed implicitly", el.Name)
	}
}

// readRawContent consumes everything up to the closing tag of name and the
// closing tag itself.
func (p *parser) readRawContent(el Element) position.Span {
	start := p.pos
	if el.SelfClosing {
		return position.NewSpan(start, start)
	}
	end := strings.Index(p.source[start:], "</"+el.Name)
	if end < 0 {
		p.advance(len(p.source) - start)
		p.diags.Errorf(el.NameSpan, "element_unclosed", "<%s> was left open", el.Name)
		return position.NewSpan(start, len(p.source))
	}
	p.advance(end)
	p.skipTo(">")
	return position.NewSpan(start, start+end)
}

func (p *parser) readRawText(el Element) Fragment {
	span := p.readRawContent(el)
	if span.IsEmpty() {
		return nil
	}
	raw := span.Text(p.source)
	data := raw
	if el.Name != "script" && el.Name != "style" {
		data = charref.Decode(raw)
	}
	return Fragment{p.arena.addText(Text{Span: span, Raw: raw, Data: data})}
}

func (p *parser) parseTopLevelRaw(start int, el Element) {
	content := p.readRawContent(el)
	span := position.NewSpan(start, p.pos)

	if el.Name == "style" {
		if p.root.CSS != nil {
			p.diags.Errorf(el.NameSpan, "style_duplicate", "a component can only have one <style> element")
			return
		}
		p.root.CSS = &Style{
			Span:        span,
			Attributes:  el.Attributes,
			ContentSpan: content,
			Content:     content.Text(p.source),
		}
		return
	}

	script := &Script{
		Span:        span,
		Module:      isModuleScript(el),
		Attributes:  el.Attributes,
		ContentSpan: content,
		Content:     content.Text(p.source),
	}
	target := &p.root.Instance
	if script.Module {
		target = &p.root.Module
	}
	if *target != nil {
		p.diags.Errorf(el.NameSpan, "script_duplicate", "a component can only have one instance-level and one module-level <script> element")
		return
	}
	*target = script
}

func isModuleScript(el Element) bool {
	if _, ok := el.Attribute("module"); ok {
		return true
	}
	ctx, ok := el.Attribute("context")
	return ok && len(ctx.Value) == 1 && !ctx.Value[0].IsExpression && ctx.Value[0].Data == "module"
}

func (p *parser) parseAttribute() (Attribute, bool) {
	start := p.pos

	if p.peek() == '{' {
		p.advance(1)
		expr, ok := p.readExpression()
		if !ok {
			return Attribute{}, false
		}
		p.advance(1)
		attr := Attribute{
			Span:  position.NewSpan(start, p.pos),
			Value: []AttributeValue{{Span: expr.Span, Raw: expr.Raw, IsExpression: true}},
		}
		if strings.HasPrefix(expr.Raw, "...") {
			attr.Kind = AttributeSpread
		} else {
			attr.Kind = AttributeShorthand
			attr.Name = expr.Raw
			attr.NameSpan = expr.Span
		}
		return attr, true
	}

	name, nameSpan := p.readWhile(isAttributeNameChar)
	if name == "" {
		return Attribute{}, false
	}
	attr := Attribute{Kind: AttributeNormal, Name: name, NameSpan: nameSpan}

	// whitespace is allowed around '='
	save := p.pos
	p.skipWhitespace()
	if p.eat("=") {
		p.skipWhitespace()
		value, quoted, ok := p.parseAttributeValue()
		if !ok {
			return Attribute{}, false
		}
		attr.Value, attr.Quoted = value, quoted
	} else {
		p.pos = save
	}

	attr.Span = position.NewSpan(start, p.pos)
	return attr, true
}

func (p *parser) parseAttributeValue() (values []AttributeValue, quoted bool, ok bool) {
	var quote byte
	if c := p.peek(); c == '"' || c == '\'' {
		quote = c
		p.advance(1)
	}

	stop := func(i int) bool {
		c := p.source[i]
		if quote != 0 {
			return c == quote
		}
		return isWhitespace(c) || c == '>' || strings.HasPrefix(p.source[i:], "/>")
	}

	for {
		if p.eof() {
			if quote != 0 {
				return nil, true, false
			}
			break
		}
		if stop(p.pos) {
			if quote != 0 {
				p.advance(1)
			}
			break
		}
		if p.peek() == '{' {
			p.advance(1)
			expr, ok := p.readExpression()
			if !ok {
				return nil, quote != 0, false
			}
			p.advance(1)
			values = append(values, AttributeValue{Span: expr.Span, Raw: expr.Raw, IsExpression: true})
			continue
		}

		start := p.pos
		end := start
		for end < len(p.source) && p.source[end] != '{' && !stop(end) {
			end++
		}
		p.advance(end - start)
		raw := p.source[start:end]
		values = append(values, AttributeValue{
			Span: position.NewSpan(start, end),
			Raw:  raw,
			Data: charref.Decode(raw),
		})
	}

	if len(values) == 0 {
		// a="" still has a value, unlike a bare boolean attribute
		at := p.pos
		if quote != 0 {
			at--
		}
		values = []AttributeValue{{Span: position.NewSpan(at, at)}}
	}
	return values, quote != 0, true
}
