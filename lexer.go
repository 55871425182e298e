package cutlang

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"unicode"
)

// Names recognized as edit methods. A symbol equal to one of these, or
// starting with one of these plus the attribute separator, lexes as an
// array literal.
var editMethods = []string{"audio", "motion", "pixeldiff", "random", "none", "all"}

// Trailing units that mark a number as a seconds literal.
var secondUnits = []string{"s", "sec", "secs", "second", "seconds"}

const methodAttrsSep = ":"

type LexError struct {
	why string
}

func (self LexError) Error() string {
	return self.why
}

func newLexError(format string, args ...any) LexError {
	return LexError{fmt.Sprintf(format, args...)}
}

// Lexer walks source text one rune at a time with one rune of peek.
type Lexer struct {
	runes    []rune
	position int
}

func NewLexer(source string) Lexer {
	return Lexer{
		runes:    []rune(source),
		position: 0,
	}
}

func (self *Lexer) isEof() bool {
	return self.position >= len(self.runes)
}

func (self *Lexer) currentRune() rune {
	if self.isEof() {
		return rune(0)
	}
	return self.runes[self.position]
}

func (self *Lexer) peekRune() rune {
	if self.position+1 >= len(self.runes) {
		return rune(0)
	}
	return self.runes[self.position+1]
}

func (self *Lexer) advanceRune() {
	if self.isEof() {
		return
	}
	self.position += 1
}

// A normal rune may appear inside a symbol: anything except whitespace,
// brackets, string quotes, and the comment marker.
func isNormalRune(r rune) bool {
	switch r {
	case '(', ')', '[', ']', '{', '}', '"', ';', rune(0):
		return false
	}
	return !unicode.IsSpace(r)
}

func isDigitRune(r rune) bool {
	return r >= '0' && r <= '9'
}

func (self *Lexer) skipWhitespace() {
	for !self.isEof() && unicode.IsSpace(self.currentRune()) {
		self.advanceRune()
	}
}

func (self *Lexer) skipComment() {
	if self.currentRune() != ';' {
		return
	}
	for !self.isEof() && self.currentRune() != '\n' {
		self.advanceRune()
	}
	self.advanceRune()
}

func (self *Lexer) skipWhitespaceAndComments() {
	for !self.isEof() && (unicode.IsSpace(self.currentRune()) || self.currentRune() == ';') {
		self.skipWhitespace()
		self.skipComment()
	}
}

func (self *Lexer) lexString() (Token, error) {
	self.advanceRune() // opening quote
	var sb strings.Builder
	for {
		if self.isEof() {
			return Token{}, newLexError("unterminated string literal")
		}
		r := self.currentRune()
		if r == '"' {
			self.advanceRune()
			return Token{Kind: TOKEN_STRING, Literal: sb.String()}, nil
		}
		if r == '\\' {
			self.advanceRune()
			if self.isEof() {
				return Token{}, newLexError("unterminated string literal")
			}
			switch self.currentRune() {
			case 'n':
				sb.WriteRune('\n')
			case 't':
				sb.WriteRune('\t')
			case '"':
				sb.WriteRune('"')
			case '\\':
				sb.WriteRune('\\')
			default:
				return Token{}, newLexError("unknown escape sequence \\%c", self.currentRune())
			}
			self.advanceRune()
			continue
		}
		sb.WriteRune(r)
		self.advanceRune()
	}
}

func (self *Lexer) lexHash() (Token, error) {
	self.advanceRune() // '#'
	if self.currentRune() == '\\' {
		self.advanceRune()
		if self.isEof() {
			return Token{}, newLexError("expected character after #\\")
		}
		r := self.currentRune()
		self.advanceRune()
		return Token{Kind: TOKEN_CHARACTER, Literal: string(r), Rune: r}, nil
	}

	text := ""
	for isNormalRune(self.currentRune()) {
		text += string(self.currentRune())
		self.advanceRune()
	}
	switch text {
	case "t", "true":
		return Token{Kind: TOKEN_BOOLEAN, Literal: "#" + text, Boolean: true}, nil
	case "f", "false":
		return Token{Kind: TOKEN_BOOLEAN, Literal: "#" + text, Boolean: false}, nil
	}
	return Token{}, newLexError("unknown literal #%s", text)
}

func (self *Lexer) lexQuote() (Token, error) {
	self.advanceRune() // '\''
	if self.currentRune() == '(' && self.peekRune() == ')' {
		self.advanceRune()
		self.advanceRune()
		return Token{Kind: TOKEN_IDENTIFIER, Literal: "null"}, nil
	}
	return Token{}, newLexError("quoting is only permitted for '()")
}

// parseReal decodes a run of [0-9+-./] as an exact integer, an exact
// rational, or a float. Exact literals carry arbitrary magnitude. A nil
// result means the run is not a number and the caller should fall back to
// treating the source text as an identifier.
func parseReal(text string) Value {
	if strings.Contains(text, "/") {
		parts := strings.Split(text, "/")
		if len(parts) != 2 {
			return nil
		}
		num, ok := new(big.Int).SetString(parts[0], 10)
		if !ok {
			return nil
		}
		den, ok := new(big.Int).SetString(parts[1], 10)
		if !ok || den.Sign() == 0 {
			return nil
		}
		return newRatFromBig(new(big.Rat).SetFrac(num, den))
	}
	if strings.Contains(text, ".") {
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return nil
		}
		return NewFloat(f)
	}
	n, ok := new(big.Int).SetString(text, 10)
	if !ok {
		return nil
	}
	return newIntFromBig(n)
}

func (self *Lexer) lexNumberOrSymbol() (Token, error) {
	digits := ""
	for !self.isEof() && strings.ContainsRune("0123456789+-./", self.currentRune()) {
		digits += string(self.currentRune())
		self.advanceRune()
	}

	unit := ""
	for isNormalRune(self.currentRune()) {
		unit += string(self.currentRune())
		self.advanceRune()
	}

	if unit == "i" {
		magnitude := parseReal(digits)
		if f, ok := asFloat(magnitude); ok {
			return Token{
				Kind:    TOKEN_NUMBER,
				Literal: digits + unit,
				Number:  NewComplex(complex(0, f)),
			}, nil
		}
		// Not a complex literal after all; the whole run names a symbol.
		return self.symbolToken(digits + unit)
	}

	if unit != "" {
		for _, u := range secondUnits {
			if unit == u {
				number := parseReal(digits)
				if number == nil {
					return Token{}, newLexError("malformed seconds literal %s%s", digits, unit)
				}
				return Token{Kind: TOKEN_SECONDS, Literal: digits + unit, Number: number}, nil
			}
		}
		// Digits followed by a non-unit run is legal identifier syntax.
		return self.symbolToken(digits + unit)
	}

	number := parseReal(digits)
	if number == nil {
		return self.symbolToken(digits)
	}
	return Token{Kind: TOKEN_NUMBER, Literal: digits, Number: number}, nil
}

// symbolToken classifies accumulated symbol text as an array literal or a
// plain identifier, rejecting reserved characters.
func (self *Lexer) symbolToken(text string) (Token, error) {
	if strings.ContainsAny(text, "'`|\\") {
		return Token{}, newLexError("symbol %s contains a reserved character", text)
	}
	for _, method := range editMethods {
		if text == method || strings.HasPrefix(text, method+methodAttrsSep) {
			return Token{Kind: TOKEN_ARRAY, Literal: text}, nil
		}
	}
	return Token{Kind: TOKEN_IDENTIFIER, Literal: text}, nil
}

func (self *Lexer) lexSymbol() (Token, error) {
	text := ""
	for isNormalRune(self.currentRune()) {
		text += string(self.currentRune())
		self.advanceRune()
	}
	return self.symbolToken(text)
}

func (self *Lexer) NextToken() (Token, error) {
	self.skipWhitespaceAndComments()
	if self.isEof() {
		return Token{Kind: TOKEN_EOF}, nil
	}

	r := self.currentRune()

	if r == '"' {
		return self.lexString()
	}

	switch r {
	case '(', ')', '[', ']', '{', '}':
		self.advanceRune()
		return Token{Kind: string(r), Literal: string(r)}, nil
	}

	if (r == '+' || r == '-') && (isDigitRune(self.peekRune()) || self.peekRune() == '.') {
		return self.lexNumberOrSymbol()
	}
	if isDigitRune(r) || r == '.' {
		return self.lexNumberOrSymbol()
	}

	if r == '#' {
		return self.lexHash()
	}

	if r == '\'' {
		return self.lexQuote()
	}

	return self.lexSymbol()
}
