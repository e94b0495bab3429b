// Package ast defines the in-memory representation of a parsed wikitext
// localization message: an ordered sequence of nodes mixing plain text,
// numbered placeholders, links, and the PLURAL/GENDER magic words.
//
// The tree is produced by an external parser (see package wikiparse for a
// reference implementation) and is never mutated by the rest of this
// module; every node is a plain value or an immutable pointer to one.
package ast

import (
	"bytes"
	"fmt"
)

// Node is any single element of a message.
type Node interface {
	// String returns the wikitext source representation of this node.
	String() string
}

// Message is a whole localization message: an ordered sequence of nodes.
type Message []Node

func (m Message) String() string {
	var b bytes.Buffer
	for _, n := range m {
		b.WriteString(n.String())
	}
	return b.String()
}

// TextNode is a run of plain, unstructured text.
type TextNode struct {
	Text string
}

func (n *TextNode) String() string { return n.Text }

// PlaceholderNode is a numbered placeholder such as $1.
type PlaceholderNode struct {
	Index uint
}

func (n *PlaceholderNode) String() string { return fmt.Sprintf("$%d", n.Index) }

// InternalLinkNode is a MediaWiki-style internal link: [[target|display]].
type InternalLinkNode struct {
	Target  string
	Display *string // nil if the link has no explicit display text
}

func (n *InternalLinkNode) String() string {
	if n.Display == nil {
		return "[[" + n.Target + "]]"
	}
	return "[[" + n.Target + "|" + *n.Display + "]]"
}

// DisplayText returns the text a reader sees: Display if present, else Target.
func (n *InternalLinkNode) DisplayText() string {
	if n.Display != nil {
		return *n.Display
	}
	return n.Target
}

// ExternalLinkNode is a MediaWiki-style external link: [url display].
type ExternalLinkNode struct {
	URL     string
	Display *string
}

func (n *ExternalLinkNode) String() string {
	if n.Display == nil {
		return "[" + n.URL + "]"
	}
	return "[" + n.URL + " " + *n.Display + "]"
}

// DisplayText returns the text a reader sees: Display if present, else URL.
func (n *ExternalLinkNode) DisplayText() string {
	if n.Display != nil {
		return *n.Display
	}
	return n.URL
}

// Selector is the selector expression of a PLURAL or GENDER site: either a
// placeholder (binding an axis) or a literal integer (binding no axis).
type Selector struct {
	Placeholder *PlaceholderNode // non-nil for a placeholder selector
	Literal     *int             // non-nil for a literal selector
}

func (s Selector) String() string {
	if s.Placeholder != nil {
		return s.Placeholder.String()
	}
	if s.Literal != nil {
		return fmt.Sprintf("%d", *s.Literal)
	}
	return ""
}

// AxisIndex returns the placeholder index this selector binds as an axis,
// and whether it binds one at all (false for a literal selector).
func (s Selector) AxisIndex() (uint, bool) {
	if s.Placeholder != nil {
		return s.Placeholder.Index, true
	}
	return 0, false
}

// PluralNode is a {{PLURAL:selector|form1|form2|...}} magic word.
type PluralNode struct {
	Selector Selector
	Forms    []Message
}

func (n *PluralNode) String() string {
	var b bytes.Buffer
	b.WriteString("{{PLURAL:")
	b.WriteString(n.Selector.String())
	for _, f := range n.Forms {
		b.WriteByte('|')
		b.WriteString(f.String())
	}
	b.WriteString("}}")
	return b.String()
}

// GenderNode is a {{GENDER:selector|male|female|neutral}} magic word.
type GenderNode struct {
	Selector Selector
	Forms    []Message
}

func (n *GenderNode) String() string {
	var b bytes.Buffer
	b.WriteString("{{GENDER:")
	b.WriteString(n.Selector.String())
	for _, f := range n.Forms {
		b.WriteByte('|')
		b.WriteString(f.String())
	}
	b.WriteString("}}")
	return b.String()
}

// VariableKind distinguishes the two magic words that can bind an axis.
type VariableKind int

const (
	KindPlural VariableKind = iota
	KindGender
)

func (k VariableKind) String() string {
	if k == KindGender {
		return "gender"
	}
	return "plural"
}

// GenderFormCount is the fixed cardinality of a GENDER axis: male, female,
// neutral, in that order.
const GenderFormCount = 3
