// Package lexer tokenizes LisPy source text into a stream of pkg/lispy/token
// tokens, grounded on the character-at-a-time scanning shape of
// pkg/parsley/lexer/lexer.go (readChar/peekChar, line/column tracking)
// trimmed to the s-expression token set of spec.md §4.1.
package lexer

import (
	"fmt"

	"github.com/lispy-lang/lispy/pkg/lispy/token"
)

// Error reports a lexical failure. The parser copies its Message verbatim
// into a parser.Error.
type Error struct {
	Message string
	Line    int
	Column  int
}

func (e *Error) Error() string {
	return fmt.Sprintf("line %d, column %d: %s", e.Line, e.Column, e.Message)
}

const eof = 0

// symbolChars are the non-alphanumeric characters allowed inside a symbol,
// per spec.md §4.1.
const symbolChars = "+-*/=<>!?.:$%^&~_"

// Lexer scans one source string into tokens, one at a time.
type Lexer struct {
	input        string
	position     int
	readPosition int
	ch           byte
	line         int
	column       int
}

// New creates a Lexer over input.
func New(input string) *Lexer {
	l := &Lexer{input: input, line: 1, column: 0}
	l.readChar()
	return l
}

func (l *Lexer) readChar() {
	if l.readPosition >= len(l.input) {
		l.ch = eof
	} else {
		l.ch = l.input[l.readPosition]
	}
	l.position = l.readPosition
	l.readPosition++
	if l.ch == '\n' {
		l.line++
		l.column = 0
	} else {
		l.column++
	}
}

func (l *Lexer) peekChar() byte {
	if l.readPosition >= len(l.input) {
		return eof
	}
	return l.input[l.readPosition]
}

// NextToken scans and returns the next token, or an *Error on malformed
// input (unterminated string, unknown character, malformed number).
func (l *Lexer) NextToken() (token.Token, error) {
	l.skipWhitespaceAndComments()

	line, col := l.line, l.column

	switch {
	case l.ch == eof:
		return token.Token{Kind: token.EOF, Literal: "", Line: line, Column: col}, nil
	case l.ch == '(':
		l.readChar()
		return token.Token{Kind: token.LPAREN, Literal: "(", Line: line, Column: col}, nil
	case l.ch == ')':
		l.readChar()
		return token.Token{Kind: token.RPAREN, Literal: ")", Line: line, Column: col}, nil
	case l.ch == '[':
		l.readChar()
		return token.Token{Kind: token.LBRACKET, Literal: "[", Line: line, Column: col}, nil
	case l.ch == ']':
		l.readChar()
		return token.Token{Kind: token.RBRACKET, Literal: "]", Line: line, Column: col}, nil
	case l.ch == '{':
		l.readChar()
		return token.Token{Kind: token.LBRACE, Literal: "{", Line: line, Column: col}, nil
	case l.ch == '}':
		l.readChar()
		return token.Token{Kind: token.RBRACE, Literal: "}", Line: line, Column: col}, nil
	case l.ch == '\'':
		l.readChar()
		return token.Token{Kind: token.QUOTE, Literal: "'", Line: line, Column: col}, nil
	case l.ch == '"':
		lit, err := l.readString()
		if err != nil {
			return token.Token{}, err
		}
		return token.Token{Kind: token.STRING, Literal: lit, Line: line, Column: col}, nil
	case isDigit(l.ch) || (isSign(l.ch) && isDigit(l.peekChar())):
		lit, err := l.readNumber()
		if err != nil {
			return token.Token{}, err
		}
		return token.Token{Kind: token.NUMBER, Literal: lit, Line: line, Column: col}, nil
	case isSymbolStart(l.ch):
		lit := l.readSymbol()
		switch lit {
		case "true", "false":
			return token.Token{Kind: token.BOOLEAN, Literal: lit, Line: line, Column: col}, nil
		case "nil":
			return token.Token{Kind: token.NIL, Literal: lit, Line: line, Column: col}, nil
		default:
			return token.Token{Kind: token.SYMBOL, Literal: lit, Line: line, Column: col}, nil
		}
	default:
		ch := l.ch
		l.readChar()
		return token.Token{}, &Error{Message: fmt.Sprintf("unknown character %q", ch), Line: line, Column: col}
	}
}

// All tokenizes input completely, stopping at the first error.
func All(input string) ([]token.Token, error) {
	l := New(input)
	var toks []token.Token
	for {
		tok, err := l.NextToken()
		if err != nil {
			return toks, err
		}
		toks = append(toks, tok)
		if tok.Kind == token.EOF {
			return toks, nil
		}
	}
}

func (l *Lexer) skipWhitespaceAndComments() {
	for {
		switch {
		case isWhitespace(l.ch):
			l.readChar()
		case l.ch == ';':
			for l.ch != '\n' && l.ch != eof {
				l.readChar()
			}
		default:
			return
		}
	}
}

func isWhitespace(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r' || ch == ','
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isSign(ch byte) bool {
	return ch == '+' || ch == '-'
}

func isLetter(ch byte) bool {
	return ch >= 'a' && ch <= 'z' || ch >= 'A' && ch <= 'Z'
}

func isSymbolChar(ch byte) bool {
	if isLetter(ch) || isDigit(ch) {
		return true
	}
	for i := 0; i < len(symbolChars); i++ {
		if symbolChars[i] == ch {
			return true
		}
	}
	return false
}

func isSymbolStart(ch byte) bool {
	return isSymbolChar(ch) && !isDigit(ch)
}

func isDelimiter(ch byte) bool {
	switch ch {
	case eof, '(', ')', '[', ']', '{', '}', '"', '\'':
		return true
	}
	return isWhitespace(ch) || ch == ';'
}

func (l *Lexer) readSymbol() string {
	start := l.position
	for !isDelimiter(l.ch) {
		l.readChar()
	}
	return l.input[start:l.position]
}

// readNumber consumes an optionally-signed integer or float literal. A
// decimal point distinguishes float from integer per spec.md §4.1.
func (l *Lexer) readNumber() (string, error) {
	startLine, startCol := l.line, l.column
	start := l.position
	if isSign(l.ch) {
		l.readChar()
	}
	sawDigit := false
	for isDigit(l.ch) {
		l.readChar()
		sawDigit = true
	}
	if l.ch == '.' && isDigit(l.peekChar()) {
		l.readChar()
		for isDigit(l.ch) {
			l.readChar()
		}
	}
	if !sawDigit {
		return "", &Error{Message: "malformed number", Line: startLine, Column: startCol}
	}
	if !isDelimiter(l.ch) {
		// e.g. "1abc" - consume the rest so callers see the whole malformed token.
		for !isDelimiter(l.ch) {
			l.readChar()
		}
		return "", &Error{Message: fmt.Sprintf("malformed number %q", l.input[start:l.position]), Line: startLine, Column: startCol}
	}
	return l.input[start:l.position], nil
}

// readString consumes a double-quoted string literal with escapes \n \t \\ \".
func (l *Lexer) readString() (string, error) {
	startLine, startCol := l.line, l.column
	l.readChar() // consume opening quote
	var out []byte
	for {
		if l.ch == eof {
			return "", &Error{Message: "unterminated string", Line: startLine, Column: startCol}
		}
		if l.ch == '"' {
			l.readChar()
			return string(out), nil
		}
		if l.ch == '\\' {
			l.readChar()
			switch l.ch {
			case 'n':
				out = append(out, '\n')
			case 't':
				out = append(out, '\t')
			case '\\':
				out = append(out, '\\')
			case '"':
				out = append(out, '"')
			case eof:
				return "", &Error{Message: "unterminated string", Line: startLine, Column: startCol}
			default:
				out = append(out, '\\', l.ch)
			}
			l.readChar()
			continue
		}
		out = append(out, l.ch)
		l.readChar()
	}
}
