package wikiparse

import (
	"testing"

	"github.com/translatewiki/mtsuggest/ast"
)

func TestParsePlainText(t *testing.T) {
	msg, err := Parse("Hello, world!")
	if err != nil {
		t.Fatal(err)
	}
	if got, want := msg.String(), "Hello, world!"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestParsePlaceholder(t *testing.T) {
	msg, err := Parse("Hello, $1!")
	if err != nil {
		t.Fatal(err)
	}
	if len(msg) != 3 {
		t.Fatalf("expected 3 nodes, got %d: %v", len(msg), msg)
	}
	ph, ok := msg[1].(*ast.PlaceholderNode)
	if !ok {
		t.Fatalf("msg[1] is %T, want *ast.PlaceholderNode", msg[1])
	}
	if ph.Index != 1 {
		t.Errorf("Index = %d, want 1", ph.Index)
	}
}

func TestParseInternalLinkNoDisplay(t *testing.T) {
	msg, err := Parse("See [[Help:Contents]] for more.")
	if err != nil {
		t.Fatal(err)
	}
	link, ok := msg[1].(*ast.InternalLinkNode)
	if !ok {
		t.Fatalf("msg[1] is %T, want *ast.InternalLinkNode", msg[1])
	}
	if link.Target != "Help:Contents" || link.Display != nil {
		t.Errorf("got Target=%q Display=%v", link.Target, link.Display)
	}
}

func TestParseInternalLinkWithDisplay(t *testing.T) {
	msg, err := Parse("[[Help:Contents|the manual]]")
	if err != nil {
		t.Fatal(err)
	}
	link := msg[0].(*ast.InternalLinkNode)
	if link.Target != "Help:Contents" || link.Display == nil || *link.Display != "the manual" {
		t.Errorf("got Target=%q Display=%v", link.Target, link.Display)
	}
}

func TestParseExternalLink(t *testing.T) {
	msg, err := Parse("[https://example.org visit us]")
	if err != nil {
		t.Fatal(err)
	}
	link := msg[0].(*ast.ExternalLinkNode)
	if link.URL != "https://example.org" || link.Display == nil || *link.Display != "visit us" {
		t.Errorf("got URL=%q Display=%v", link.URL, link.Display)
	}
}

func TestParseExternalLinkNoDisplay(t *testing.T) {
	msg, err := Parse("[https://example.org]")
	if err != nil {
		t.Fatal(err)
	}
	link := msg[0].(*ast.ExternalLinkNode)
	if link.URL != "https://example.org" || link.Display != nil {
		t.Errorf("got URL=%q Display=%v", link.URL, link.Display)
	}
}

func TestParsePluralMagicWord(t *testing.T) {
	msg, err := Parse("There {{PLURAL:$1|is|are}} $1 item")
	if err != nil {
		t.Fatal(err)
	}
	if got, want := msg.String(), "There {{PLURAL:$1|is|are}} $1 item"; got != want {
		t.Errorf("round trip: got %q, want %q", got, want)
	}
	var plural *ast.PluralNode
	for _, n := range msg {
		if p, ok := n.(*ast.PluralNode); ok {
			plural = p
		}
	}
	if plural == nil {
		t.Fatal("no PluralNode found")
	}
	idx, ok := plural.Selector.AxisIndex()
	if !ok || idx != 1 {
		t.Errorf("selector axis = (%d, %v), want (1, true)", idx, ok)
	}
	if len(plural.Forms) != 2 {
		t.Fatalf("expected 2 forms, got %d", len(plural.Forms))
	}
}

func TestParseGenderMagicWordCaseInsensitive(t *testing.T) {
	msg, err := Parse("{{gender:$1|He|She|They}} logged in")
	if err != nil {
		t.Fatal(err)
	}
	g, ok := msg[0].(*ast.GenderNode)
	if !ok {
		t.Fatalf("msg[0] is %T, want *ast.GenderNode", msg[0])
	}
	if len(g.Forms) != 3 {
		t.Fatalf("expected 3 forms, got %d", len(g.Forms))
	}
}

func TestParseNestedPlaceholderInsideForm(t *testing.T) {
	msg, err := Parse("{{PLURAL:$1|$1 file|$1 files}}")
	if err != nil {
		t.Fatal(err)
	}
	p := msg[0].(*ast.PluralNode)
	form0 := p.Forms[0]
	if _, ok := form0[0].(*ast.PlaceholderNode); !ok {
		t.Fatalf("form[0][0] is %T, want *ast.PlaceholderNode", form0[0])
	}
}

func TestParseLiteralSelector(t *testing.T) {
	msg, err := Parse("{{PLURAL:5|many}}")
	if err != nil {
		t.Fatal(err)
	}
	p := msg[0].(*ast.PluralNode)
	if _, ok := p.Selector.AxisIndex(); ok {
		t.Error("literal selector should not bind an axis")
	}
	if p.Selector.Literal == nil || *p.Selector.Literal != 5 {
		t.Errorf("Literal = %v, want 5", p.Selector.Literal)
	}
}

func TestParseUnknownBracesPassThroughAsText(t *testing.T) {
	msg, err := Parse("{{SITENAME}} is great")
	if err != nil {
		t.Fatal(err)
	}
	if len(msg) != 1 {
		t.Fatalf("expected a single text node, got %d nodes: %v", len(msg), msg)
	}
	text, ok := msg[0].(*ast.TextNode)
	if !ok {
		t.Fatalf("msg[0] is %T, want *ast.TextNode", msg[0])
	}
	if got, want := text.Text, "{{SITENAME}} is great"; got != want {
		t.Errorf("Text = %q, want %q", got, want)
	}
}

func TestParseUnterminatedLinkIsError(t *testing.T) {
	_, err := Parse("[[Unterminated")
	if err == nil {
		t.Fatal("expected an error")
	}
	if _, ok := err.(*Error); !ok {
		t.Fatalf("expected *Error, got %T", err)
	}
}

func TestParseUnterminatedMagicWordIsError(t *testing.T) {
	_, err := Parse("{{PLURAL:$1|one")
	if err == nil {
		t.Fatal("expected an error")
	}
}

func TestParseFullMessage(t *testing.T) {
	wikitext := "Hello $1, you have {{PLURAL:$2|1 message|$2 messages}} from [[User:$1|their profile]]."
	msg, err := Parse(wikitext)
	if err != nil {
		t.Fatal(err)
	}
	if got := msg.String(); got != wikitext {
		t.Errorf("round trip failed:\n got:  %q\n want: %q", got, wikitext)
	}
}
