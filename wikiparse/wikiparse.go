// Package wikiparse is a reference implementation of the external parser
// the core module depends on: it turns raw wikitext into an ast.Message.
// The scanning primitives (next/peek/backup) follow the shape of a classic
// hand-written lexer, collapsed to a single-goroutine scanner since this
// grammar's small token set needs no producer/consumer decoupling.
package wikiparse

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/translatewiki/mtsuggest/ast"
)

// Error is a parse failure, with the byte offset it occurred at.
type Error struct {
	Pos     int
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("wikiparse: at byte %d: %s", e.Pos, e.Message)
}

// Parse turns wikitext into an ast.Message: $N placeholders,
// [[target|display]] / [url display] links, and {{PLURAL:...}} /
// {{GENDER:...}} magic words. Any other brace construct passes through as
// literal text.
func Parse(wikitext string) (ast.Message, error) {
	p := &parser{sc: newScanner(wikitext)}
	msg, err := p.parseMessage(false)
	if err != nil {
		return nil, err
	}
	if !p.sc.eof() {
		return nil, p.errorf("unexpected trailing input")
	}
	return msg, nil
}

// scanner is a rune cursor over the input with one-rune backup, exposing
// the usual next/peek/backup trio of a hand-written lexer.
type scanner struct {
	input []rune
	pos   int
}

func newScanner(input string) *scanner {
	return &scanner{input: []rune(input)}
}

func (s *scanner) eof() bool { return s.pos >= len(s.input) }

func (s *scanner) next() rune {
	if s.eof() {
		return 0
	}
	r := s.input[s.pos]
	s.pos++
	return r
}

func (s *scanner) backup() { s.pos-- }

func (s *scanner) peek() rune {
	r := s.next()
	s.backup()
	return r
}

func (s *scanner) peekAt(offset int) rune {
	if s.pos+offset >= len(s.input) || s.pos+offset < 0 {
		return 0
	}
	return s.input[s.pos+offset]
}

// hasPrefix reports whether the upcoming runes spell lit exactly.
func (s *scanner) hasPrefix(lit string) bool {
	litRunes := []rune(lit)
	if s.pos+len(litRunes) > len(s.input) {
		return false
	}
	for i, r := range litRunes {
		if s.input[s.pos+i] != r {
			return false
		}
	}
	return true
}

// consume advances past lit, assumed already confirmed present via hasPrefix.
func (s *scanner) consume(lit string) {
	s.pos += len([]rune(lit))
}

func isDigit(r rune) bool { return r >= '0' && r <= '9' }

type parser struct {
	sc *scanner
}

func (p *parser) errorf(format string, args ...interface{}) *Error {
	return &Error{Pos: p.sc.pos, Message: fmt.Sprintf(format, args...)}
}

// parseMessage reads nodes until EOF, or — when insideForm is true — until
// a top-level '|' or "}}" closes the enclosing magic-word form. Those two
// delimiters are left unconsumed for the caller.
func (p *parser) parseMessage(insideForm bool) (ast.Message, error) {
	var msg ast.Message
	var textBuf strings.Builder

	flush := func() {
		if textBuf.Len() > 0 {
			msg = append(msg, &ast.TextNode{Text: textBuf.String()})
			textBuf.Reset()
		}
	}

	for {
		if p.sc.eof() {
			if insideForm {
				return nil, p.errorf("unterminated magic word: expected '|' or \"}}\"")
			}
			flush()
			return msg, nil
		}
		if insideForm && (p.sc.peek() == '|' || p.sc.hasPrefix("}}")) {
			flush()
			return msg, nil
		}

		switch {
		case p.sc.peek() == '$' && isDigit(p.sc.peekAt(1)):
			flush()
			node, err := p.parsePlaceholder()
			if err != nil {
				return nil, err
			}
			msg = append(msg, node)

		case p.sc.hasPrefix("[["):
			flush()
			node, err := p.parseInternalLink()
			if err != nil {
				return nil, err
			}
			msg = append(msg, node)

		case p.sc.peek() == '[':
			flush()
			node, err := p.parseExternalLink()
			if err != nil {
				return nil, err
			}
			msg = append(msg, node)

		case p.sc.hasPrefixFold("{{PLURAL:"):
			flush()
			node, err := p.parseMagicWord(ast.KindPlural)
			if err != nil {
				return nil, err
			}
			msg = append(msg, node)

		case p.sc.hasPrefixFold("{{GENDER:"):
			flush()
			node, err := p.parseMagicWord(ast.KindGender)
			if err != nil {
				return nil, err
			}
			msg = append(msg, node)

		default:
			textBuf.WriteRune(p.sc.next())
		}
	}
}

// hasPrefixFold is hasPrefix with an ASCII-case-insensitive comparison,
// for magic word names (MediaWiki tolerates {{plural:...}}).
func (s *scanner) hasPrefixFold(lit string) bool {
	litRunes := []rune(lit)
	if s.pos+len(litRunes) > len(s.input) {
		return false
	}
	for i, r := range litRunes {
		if foldASCII(s.input[s.pos+i]) != foldASCII(r) {
			return false
		}
	}
	return true
}

func foldASCII(r rune) rune {
	if r >= 'a' && r <= 'z' {
		return r - ('a' - 'A')
	}
	return r
}

func (p *parser) parsePlaceholder() (ast.Node, error) {
	p.sc.next() // '$'
	var digits strings.Builder
	for isDigit(p.sc.peek()) {
		digits.WriteRune(p.sc.next())
	}
	n, err := strconv.ParseUint(digits.String(), 10, 64)
	if err != nil {
		return nil, p.errorf("invalid placeholder index: %v", err)
	}
	return &ast.PlaceholderNode{Index: uint(n)}, nil
}

func (p *parser) parseInternalLink() (ast.Node, error) {
	p.sc.consume("[[")
	target, err := p.readUntilAny("|]")
	if err != nil {
		return nil, err
	}
	if p.sc.peek() == '|' {
		p.sc.next()
		display, err := p.readUntilLiteral("]]")
		if err != nil {
			return nil, err
		}
		if !p.sc.hasPrefix("]]") {
			return nil, p.errorf("unterminated internal link")
		}
		p.sc.consume("]]")
		return &ast.InternalLinkNode{Target: target, Display: &display}, nil
	}
	if !p.sc.hasPrefix("]]") {
		return nil, p.errorf("unterminated internal link")
	}
	p.sc.consume("]]")
	return &ast.InternalLinkNode{Target: target}, nil
}

func (p *parser) parseExternalLink() (ast.Node, error) {
	p.sc.next() // '['
	url, err := p.readUntilAny(" ]")
	if err != nil {
		return nil, err
	}
	if p.sc.peek() == ' ' {
		p.sc.next()
		display, err := p.readUntilLiteral("]")
		if err != nil {
			return nil, err
		}
		if p.sc.peek() != ']' {
			return nil, p.errorf("unterminated external link")
		}
		p.sc.next()
		return &ast.ExternalLinkNode{URL: url, Display: &display}, nil
	}
	if p.sc.peek() != ']' {
		return nil, p.errorf("unterminated external link")
	}
	p.sc.next()
	return &ast.ExternalLinkNode{URL: url}, nil
}

// readUntilAny reads raw runes up to (not including) the first rune in
// stopSet, or EOF, which is an error (the caller always expects a delimiter).
func (p *parser) readUntilAny(stopSet string) (string, error) {
	var b strings.Builder
	for {
		if p.sc.eof() {
			return "", p.errorf("unterminated construct: expected one of %q", stopSet)
		}
		r := p.sc.peek()
		if strings.ContainsRune(stopSet, r) {
			return b.String(), nil
		}
		b.WriteRune(p.sc.next())
	}
}

// readUntilLiteral reads raw runes up to (not including) the literal lit.
func (p *parser) readUntilLiteral(lit string) (string, error) {
	var b strings.Builder
	for {
		if p.sc.eof() {
			return "", p.errorf("unterminated construct: expected %q", lit)
		}
		if p.sc.hasPrefix(lit) {
			return b.String(), nil
		}
		b.WriteRune(p.sc.next())
	}
}

func (p *parser) parseSelector() (ast.Selector, error) {
	if p.sc.peek() == '$' && isDigit(p.sc.peekAt(1)) {
		node, err := p.parsePlaceholder()
		if err != nil {
			return ast.Selector{}, err
		}
		return ast.Selector{Placeholder: node.(*ast.PlaceholderNode)}, nil
	}
	if isDigit(p.sc.peek()) {
		var digits strings.Builder
		for isDigit(p.sc.peek()) {
			digits.WriteRune(p.sc.next())
		}
		n, err := strconv.Atoi(digits.String())
		if err != nil {
			return ast.Selector{}, p.errorf("invalid literal selector: %v", err)
		}
		return ast.Selector{Literal: &n}, nil
	}
	return ast.Selector{}, p.errorf("expected a placeholder or integer selector")
}

func (p *parser) parseMagicWord(kind ast.VariableKind) (ast.Node, error) {
	if kind == ast.KindPlural {
		p.sc.consume("{{PLURAL:")
	} else {
		p.sc.consume("{{GENDER:")
	}

	selector, err := p.parseSelector()
	if err != nil {
		return nil, err
	}

	var forms []ast.Message
	for {
		if p.sc.peek() != '|' {
			return nil, p.errorf("expected '|' before magic word form")
		}
		p.sc.next()
		form, err := p.parseMessage(true)
		if err != nil {
			return nil, err
		}
		forms = append(forms, form)
		if p.sc.hasPrefix("}}") {
			p.sc.consume("}}")
			break
		}
		if !p.sc.eof() && p.sc.peek() == '|' {
			continue
		}
		return nil, p.errorf("expected '|' or \"}}\" after magic word form")
	}

	if kind == ast.KindGender {
		return &ast.GenderNode{Selector: selector, Forms: forms}, nil
	}
	return &ast.PluralNode{Selector: selector, Forms: forms}, nil
}
