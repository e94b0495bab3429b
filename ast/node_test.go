package ast

import "testing"

func ph(i uint) *PlaceholderNode { return &PlaceholderNode{Index: i} }

func text(s string) *TextNode { return &TextNode{Text: s} }

func TestMessageString(t *testing.T) {
	var tests = []struct {
		msg  Message
		want string
	}{
		{Message{text("Hello, "), ph(1), text("!")}, "Hello, $1!"},
		{Message{&InternalLinkNode{Target: "Foo"}}, "[[Foo]]"},
		{Message{&InternalLinkNode{Target: "Foo", Display: strptr("bar")}}, "[[Foo|bar]]"},
		{Message{&ExternalLinkNode{URL: "http://x"}}, "[http://x]"},
		{Message{&ExternalLinkNode{URL: "http://x", Display: strptr("x")}}, "[http://x x]"},
	}
	for _, test := range tests {
		if actual := test.msg.String(); actual != test.want {
			t.Errorf("(actual) %v != %v (expected)", actual, test.want)
		}
	}
}

func strptr(s string) *string { return &s }

func TestPluralGenderString(t *testing.T) {
	p := &PluralNode{
		Selector: Selector{Placeholder: ph(1)},
		Forms:    []Message{{text("is")}, {text("are")}},
	}
	if got, want := p.String(), "{{PLURAL:$1|is|are}}"; got != want {
		t.Errorf("(actual) %v != %v (expected)", got, want)
	}

	g := &GenderNode{
		Selector: Selector{Placeholder: ph(1)},
		Forms:    []Message{{text("He")}, {text("She")}, {text("They")}},
	}
	if got, want := g.String(), "{{GENDER:$1|He|She|They}}"; got != want {
		t.Errorf("(actual) %v != %v (expected)", got, want)
	}
}

func TestLiteralSelector(t *testing.T) {
	n := 5
	sel := Selector{Literal: &n}
	if _, ok := sel.AxisIndex(); ok {
		t.Error("literal selector should not bind an axis")
	}
	if got, want := sel.String(), "5"; got != want {
		t.Errorf("(actual) %v != %v (expected)", got, want)
	}
}
