// Package template parses component markup into an arena-owned syntax tree.
package template

import (
	"github.com/walteh/gosvelte/pkg/position"
)

// AST Structure
//
//	Root
//	 ├── Instance / Module *Script   (top-level <script>, kept raw)
//	 ├── CSS *Style                  (top-level <style>, kept raw)
//	 └── Fragment []Node
//	       ├── Text
//	       ├── Comment
//	       ├── Element ── Attributes, Fragment
//	       ├── Block   ── Branches ── Fragment
//	       └── Tag     ── Expression
//
// Every node lives in the Arena; a Fragment only holds (kind, index) pairs.

// NodeKind identifies which arena slice a Node points into.
type NodeKind uint8

const (
	KindText NodeKind = iota + 1
	KindComment
	KindElement
	KindBlock
	KindTag
)

func (k NodeKind) String() string {
	switch k {
	case KindText:
		return "Text"
	case KindComment:
		return "Comment"
	case KindElement:
		return "Element"
	case KindBlock:
		return "Block"
	case KindTag:
		return "Tag"
	}
	return "Invalid"
}

// Node references a node stored in an Arena.
type Node struct {
	Kind  NodeKind
	Index int32
}

func (n Node) IsValid() bool {
	return n.Kind != 0
}

// Fragment is an ordered list of sibling nodes.
type Fragment []Node

// Text is a run of character data.
type Text struct {
	Span position.Span
	// Data has character references decoded.
	Data string
	// Raw is the source slice covered by Span.
	Raw string
}

// Comment is an HTML comment. Ignores holds the identifiers named by a
// svelte-ignore directive in the comment body.
type Comment struct {
	Span    position.Span
	Data    string
	Ignores []string
}

// Expression is an embedded script expression. Its contents are handed to
// an external toolkit; the parser only records where it is.
type Expression struct {
	Span position.Span
	Raw  string
}

type AttributeKind uint8

const (
	AttributeNormal AttributeKind = iota
	// {name}
	AttributeShorthand
	// {...props}
	AttributeSpread
)

// AttributeValue is one chunk of an attribute value: either text or an
// expression.
type AttributeValue struct {
	Span         position.Span
	Raw          string
	Data         string
	IsExpression bool
}

type Attribute struct {
	Span     position.Span
	Kind     AttributeKind
	Name     string
	NameSpan position.Span
	// Value is nil for boolean attributes.
	Value  []AttributeValue
	Quoted bool
}

type Element struct {
	Span        position.Span
	Name        string
	NameSpan    position.Span
	Attributes  []Attribute
	Children    Fragment
	SelfClosing bool
}

// Attribute returns the first attribute called name.
func (e *Element) Attribute(name string) (*Attribute, bool) {
	for i := range e.Attributes {
		if e.Attributes[i].Name == name {
			return &e.Attributes[i], true
		}
	}
	return nil, false
}

type BlockKind uint8

const (
	BlockIf BlockKind = iota + 1
	BlockEach
	BlockAwait
	BlockKey
	BlockSnippet
)

var blockKinds = map[string]BlockKind{
	"if":      BlockIf,
	"each":    BlockEach,
	"await":   BlockAwait,
	"key":     BlockKey,
	"snippet": BlockSnippet,
}

var blockContinuations = map[BlockKind][]string{
	BlockIf:    {"else if", "else"},
	BlockEach:  {"else"},
	BlockAwait: {"then", "catch"},
}

func (k BlockKind) String() string {
	for name, kind := range blockKinds {
		if kind == k {
			return name
		}
	}
	return "invalid"
}

// Branch is one arm of a block: the opening arm or a {:...} continuation.
type Branch struct {
	Span       position.Span
	Keyword    string
	Expression *Expression
	Fragment   Fragment
}

type Block struct {
	Span     position.Span
	Kind     BlockKind
	Branches []Branch
	// Context is the binding after "as" in an each block.
	Context *Expression
}

type TagKind uint8

const (
	TagExpression TagKind = iota + 1
	TagHTML
	TagRender
	TagConst
	TagDebug
)

var tagKinds = map[string]TagKind{
	"html":   TagHTML,
	"render": TagRender,
	"const":  TagConst,
	"debug":  TagDebug,
}

type Tag struct {
	Span       position.Span
	Kind       TagKind
	Expression Expression
}

// Script is a top-level <script> element. Its content is not parsed.
type Script struct {
	Span        position.Span
	Module      bool
	Attributes  []Attribute
	ContentSpan position.Span
	Content     string
}

// Style is a top-level <style> element with its raw CSS.
type Style struct {
	Span        position.Span
	Attributes  []Attribute
	ContentSpan position.Span
	Content     string
}

type Root struct {
	Span     position.Span
	Fragment Fragment
	Instance *Script
	Module   *Script
	CSS      *Style
}

// Arena owns every node produced by one parse. Nodes reference each other
// by index, so the whole tree is released by dropping the arena.
type Arena struct {
	Texts    []Text
	Comments []Comment
	Elements []Element
	Blocks   []Block
	Tags     []Tag
}

func NewArena() *Arena {
	return &Arena{}
}

func (a *Arena) Text(n Node) *Text       { return &a.Texts[n.Index] }
func (a *Arena) Comment(n Node) *Comment { return &a.Comments[n.Index] }
func (a *Arena) Element(n Node) *Element { return &a.Elements[n.Index] }
func (a *Arena) Block(n Node) *Block     { return &a.Blocks[n.Index] }
func (a *Arena) Tag(n Node) *Tag         { return &a.Tags[n.Index] }

func (a *Arena) addText(t Text) Node {
	a.Texts = append(a.Texts, t)
	return Node{Kind: KindText, Index: int32(len(a.Texts) - 1)}
}

func (a *Arena) addComment(c Comment) Node {
	a.Comments = append(a.Comments, c)
	return Node{Kind: KindComment, Index: int32(len(a.Comments) - 1)}
}

func (a *Arena) addElement(e Element) Node {
	a.Elements = append(a.Elements, e)
	return Node{Kind: KindElement, Index: int32(len(a.Elements) - 1)}
}

func (a *Arena) addBlock(b Block) Node {
	a.Blocks = append(a.Blocks, b)
	return Node{Kind: KindBlock, Index: int32(len(a.Blocks) - 1)}
}

func (a *Arena) addTag(t Tag) Node {
	a.Tags = append(a.Tags, t)
	return Node{Kind: KindTag, Index: int32(len(a.Tags) - 1)}
}

// Span returns the source range of any node.
func (a *Arena) Span(n Node) position.Span {
	switch n.Kind {
	case KindText:
		return a.Text(n).Span
	case KindComment:
		return a.Comment(n).Span
	case KindElement:
		return a.Element(n).Span
	case KindBlock:
		return a.Block(n).Span
	case KindTag:
		return a.Tag(n).Span
	}
	return position.Span{}
}

// Len returns the number of nodes held by the arena.
func (a *Arena) Len() int {
	return len(a.Texts) + len(a.Comments) + len(a.Elements) + len(a.Blocks) + len(a.Tags)
}

// Release drops every node. Nodes and pointers obtained from the arena are
// invalid afterwards.
func (a *Arena) Release() {
	*a = Arena{}
}

// Walk visits the nodes of f depth first, in document order. Returning false
// from fn skips the children of that node.
func (a *Arena) Walk(f Fragment, fn func(Node) bool) {
	for _, n := range f {
		if !fn(n) {
			continue
		}
		switch n.Kind {
		case KindElement:
			a.Walk(a.Element(n).Children, fn)
		case KindBlock:
			for _, br := range a.Block(n).Branches {
				a.Walk(br.Fragment, fn)
			}
		}
	}
}
