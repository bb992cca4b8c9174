// Package parser turns a token stream into LisPy forms: since LisPy is
// homoiconic, a parsed form IS the AST IS a first-class pkg/lispy/object
// value (spec.md §4.2), so this package has no separate ast.Node
// hierarchy, unlike pkg/parsley/ast's Statement/Expression split — there
// is no statement/expression distinction to make in a Lisp reader.
// Grounded on the recursive-descent, curToken/peekToken lookahead shape of
// pkg/parsley/parser/parser.go.
package parser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lispy-lang/lispy/pkg/lispy/lexer"
	"github.com/lispy-lang/lispy/pkg/lispy/object"
	"github.com/lispy-lang/lispy/pkg/lispy/token"
)

// Error is a structural parse failure: unexpected end-of-input, mismatched
// or missing delimiters, or odd-arity map literals (spec.md §4.2).
type Error struct {
	Message string
	Line    int
	Column  int
}

func (e *Error) Error() string {
	return fmt.Sprintf("line %d, column %d: %s", e.Line, e.Column, e.Message)
}

// Parser reads forms out of a Lexer one token of lookahead at a time.
type Parser struct {
	l *lexer.Lexer

	cur  token.Token
	peek token.Token
}

// New creates a Parser reading from l.
func New(l *lexer.Lexer) (*Parser, error) {
	p := &Parser{l: l}
	if err := p.advance(); err != nil {
		return nil, err
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Parser) advance() error {
	p.cur = p.peek
	tok, err := p.l.NextToken()
	if err != nil {
		return toParseError(err)
	}
	p.peek = tok
	return nil
}

func toParseError(err error) error {
	if le, ok := err.(*lexer.Error); ok {
		return &Error{Message: le.Message, Line: le.Line, Column: le.Column}
	}
	return err
}

// ParseProgram parses every top-level form until end-of-input, per
// spec.md §4.2: "A module source is parsed as an implicit sequence of
// top-level forms."
func ParseProgram(src string) ([]object.Value, error) {
	p, err := New(lexer.New(src))
	if err != nil {
		return nil, err
	}
	var forms []object.Value
	for p.cur.Kind != token.EOF {
		form, err := p.ParseForm()
		if err != nil {
			return nil, err
		}
		forms = append(forms, form)
	}
	return forms, nil
}

// ParseForm consumes and returns exactly one complete top-level form,
// advancing the parser past it. ParseProgram calls it once per top-level
// form.
func (p *Parser) ParseForm() (object.Value, error) {
	switch p.cur.Kind {
	case token.EOF:
		return nil, &Error{Message: "unexpected end of input", Line: p.cur.Line, Column: p.cur.Column}
	case token.LPAREN:
		return p.parseList()
	case token.LBRACKET:
		return p.parseVector()
	case token.LBRACE:
		return p.parseMap()
	case token.RPAREN:
		return nil, &Error{Message: "unexpected ')'", Line: p.cur.Line, Column: p.cur.Column}
	case token.RBRACKET:
		return nil, &Error{Message: "unexpected ']'", Line: p.cur.Line, Column: p.cur.Column}
	case token.RBRACE:
		return nil, &Error{Message: "unexpected '}'", Line: p.cur.Line, Column: p.cur.Column}
	case token.QUOTE:
		return p.parseQuote()
	case token.NUMBER:
		return p.parseNumber()
	case token.STRING:
		v := object.String{Value: p.cur.Literal}
		return v, p.advance()
	case token.BOOLEAN:
		v := object.BoolOf(p.cur.Literal == "true")
		return v, p.advance()
	case token.NIL:
		return object.NilValue, p.advance()
	case token.SYMBOL:
		v := object.Symbol{Name: p.cur.Literal}
		return v, p.advance()
	default:
		return nil, &Error{Message: fmt.Sprintf("unexpected token %q", p.cur.Literal), Line: p.cur.Line, Column: p.cur.Column}
	}
}

func (p *Parser) parseQuote() (object.Value, error) {
	if err := p.advance(); err != nil { // consume '
		return nil, err
	}
	inner, err := p.ParseForm()
	if err != nil {
		return nil, err
	}
	return &object.List{Elements: []object.Value{object.Symbol{Name: "quote"}, inner}}, nil
}

func (p *Parser) parseList() (object.Value, error) {
	startLine, startCol := p.cur.Line, p.cur.Column
	if err := p.advance(); err != nil { // consume (
		return nil, err
	}
	var elems []object.Value
	for p.cur.Kind != token.RPAREN {
		if p.cur.Kind == token.EOF {
			return nil, &Error{Message: "unexpected end of input: missing ')'", Line: startLine, Column: startCol}
		}
		form, err := p.ParseForm()
		if err != nil {
			return nil, err
		}
		elems = append(elems, form)
	}
	if err := p.advance(); err != nil { // consume )
		return nil, err
	}
	return &object.List{Elements: elems}, nil
}

func (p *Parser) parseVector() (object.Value, error) {
	startLine, startCol := p.cur.Line, p.cur.Column
	if err := p.advance(); err != nil { // consume [
		return nil, err
	}
	var elems []object.Value
	for p.cur.Kind != token.RBRACKET {
		if p.cur.Kind == token.EOF {
			return nil, &Error{Message: "unexpected end of input: missing ']'", Line: startLine, Column: startCol}
		}
		form, err := p.ParseForm()
		if err != nil {
			return nil, err
		}
		elems = append(elems, form)
	}
	if err := p.advance(); err != nil { // consume ]
		return nil, err
	}
	return &object.Vector{Elements: elems}, nil
}

func (p *Parser) parseMap() (object.Value, error) {
	startLine, startCol := p.cur.Line, p.cur.Column
	if err := p.advance(); err != nil { // consume {
		return nil, err
	}
	var flat []object.Value
	for p.cur.Kind != token.RBRACE {
		if p.cur.Kind == token.EOF {
			return nil, &Error{Message: "unexpected end of input: missing '}'", Line: startLine, Column: startCol}
		}
		form, err := p.ParseForm()
		if err != nil {
			return nil, err
		}
		flat = append(flat, form)
	}
	if err := p.advance(); err != nil { // consume }
		return nil, err
	}
	if len(flat)%2 != 0 {
		return nil, &Error{Message: "map literal requires an even number of forms (key/value pairs)", Line: startLine, Column: startCol}
	}
	m := object.NewMap()
	for i := 0; i < len(flat); i += 2 {
		key := flat[i]
		if !object.IsHashable(key) {
			return nil, &Error{Message: fmt.Sprintf("map literal key must be hashable, got %s", key.Kind()), Line: startLine, Column: startCol}
		}
		m.Set(key, flat[i+1])
	}
	return m, nil
}

func (p *Parser) parseNumber() (object.Value, error) {
	lit := p.cur.Literal
	if strings.Contains(lit, ".") {
		f, err := strconv.ParseFloat(lit, 64)
		if err != nil {
			return nil, &Error{Message: fmt.Sprintf("malformed float %q", lit), Line: p.cur.Line, Column: p.cur.Column}
		}
		return object.Float{Value: f}, p.advance()
	}
	n, err := strconv.ParseInt(lit, 10, 64)
	if err != nil {
		return nil, &Error{Message: fmt.Sprintf("malformed integer %q", lit), Line: p.cur.Line, Column: p.cur.Column}
	}
	return object.Integer{Value: n}, p.advance()
}
