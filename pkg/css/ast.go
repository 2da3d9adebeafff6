// Package css parses the contents of a component's <style> element into a
// rule and selector tree, prints it back, and exposes the traversal used to
// scope its selectors.
package css

import (
	"strings"

	"github.com/walteh/gosvelte/pkg/position"
)

type StyleSheet struct {
	Span  position.Span
	Rules []Rule
}

type RuleKind uint8

const (
	// RuleStyle is a selector list followed by a block.
	RuleStyle RuleKind = iota + 1
	// RuleAt is an at-rule, with or without a block.
	RuleAt
	// RuleKeyframe is one step inside @keyframes ("from", "50%").
	RuleKeyframe
)

func (k RuleKind) String() string {
	switch k {
	case RuleStyle:
		return "style"
	case RuleAt:
		return "at-rule"
	case RuleKeyframe:
		return "keyframe"
	}
	return "invalid"
}

// Rule is a closed variant over RuleKind. Fields that do not apply to the
// rule's kind are left empty.
type Rule struct {
	Kind RuleKind
	Span position.Span

	// RuleStyle
	Selectors SelectorList

	// RuleAt
	Name     string
	Prelude  string
	HasBlock bool

	// RuleKeyframe
	KeyframeSelectors []string

	Declarations []Declaration
	Rules        []Rule
}

// IsKeyframes reports whether r is a @keyframes rule, including vendor
// prefixed forms.
func (r *Rule) IsKeyframes() bool {
	return r.Kind == RuleAt && isKeyframesName(r.Name)
}

func isKeyframesName(name string) bool {
	name = strings.ToLower(name)
	return name == "keyframes" || strings.HasSuffix(name, "-keyframes")
}

type Declaration struct {
	Span      position.Span
	Property  string
	Value     string
	Important bool
}

// SelectorList is a comma separated list of complex selectors.
type SelectorList []ComplexSelector

func (l SelectorList) String() string {
	parts := make([]string, len(l))
	for i, c := range l {
		parts[i] = c.String()
	}
	return strings.Join(parts, ", ")
}

// ComplexSelector is a chain of relative selectors joined by combinators,
// such as "nav > ul li".
type ComplexSelector struct {
	Span     position.Span
	Children []RelativeSelector
}

func (c ComplexSelector) String() string {
	var b strings.Builder
	for i, rel := range c.Children {
		switch {
		case rel.Combinator == CombinatorDescendant:
			b.WriteByte(' ')
		case rel.Combinator != CombinatorNone && i == 0:
			b.WriteString(rel.Combinator.String())
			b.WriteByte(' ')
		case rel.Combinator != CombinatorNone:
			b.WriteByte(' ')
			b.WriteString(rel.Combinator.String())
			b.WriteByte(' ')
		}
		b.WriteString(rel.String())
	}
	return b.String()
}

type Combinator uint8

const (
	CombinatorNone Combinator = iota
	CombinatorDescendant
	CombinatorChild
	CombinatorNextSibling
	CombinatorSubsequentSibling
	CombinatorColumn
)

func (c Combinator) String() string {
	switch c {
	case CombinatorDescendant:
		return " "
	case CombinatorChild:
		return ">"
	case CombinatorNextSibling:
		return "+"
	case CombinatorSubsequentSibling:
		return "~"
	case CombinatorColumn:
		return "||"
	}
	return ""
}

// RelativeSelector is a compound selector together with the combinator that
// relates it to the selector before it.
type RelativeSelector struct {
	Span       position.Span
	Combinator Combinator
	Selectors  []SimpleSelector
}

func (r RelativeSelector) String() string {
	var b strings.Builder
	for _, s := range r.Selectors {
		b.WriteString(s.String())
	}
	return b.String()
}

type SimpleSelectorKind uint8

const (
	KindType SimpleSelectorKind = iota + 1
	KindUniversal
	KindClass
	KindID
	KindAttribute
	KindPseudoClass
	KindPseudoElement
	KindNesting
)

func (k SimpleSelectorKind) String() string {
	switch k {
	case KindType:
		return "type"
	case KindUniversal:
		return "universal"
	case KindClass:
		return "class"
	case KindID:
		return "id"
	case KindAttribute:
		return "attribute"
	case KindPseudoClass:
		return "pseudo-class"
	case KindPseudoElement:
		return "pseudo-element"
	case KindNesting:
		return "nesting"
	}
	return "invalid"
}

type SimpleSelector struct {
	Kind SimpleSelectorKind
	Span position.Span
	Name string

	// Args is the raw text between the parentheses of a functional pseudo
	// selector, e.g. "2n + 1" for :nth-child(2n + 1).
	Args    string
	HasArgs bool

	// attribute selectors
	Matcher string
	Value   string
	Flags   string
}

func (s SimpleSelector) String() string {
	switch s.Kind {
	case KindType:
		return s.Name
	case KindUniversal:
		return "*"
	case KindClass:
		return "." + s.Name
	case KindID:
		return "#" + s.Name
	case KindNesting:
		return "&"
	case KindAttribute:
		var b strings.Builder
		b.WriteByte('[')
		b.WriteString(s.Name)
		if s.Matcher != "" {
			b.WriteString(s.Matcher)
			b.WriteString(s.Value)
		}
		if s.Flags != "" {
			b.WriteByte(' ')
			b.WriteString(s.Flags)
		}
		b.WriteByte(']')
		return b.String()
	case KindPseudoClass, KindPseudoElement:
		prefix := ":"
		if s.Kind == KindPseudoElement {
			prefix = "::"
		}
		if !s.HasArgs {
			return prefix + s.Name
		}
		return prefix + s.Name + "(" + s.Args + ")"
	}
	return ""
}
