package cutlang

import "fmt"

type ParseError struct {
	why string
}

func (self ParseError) Error() string {
	return self.why
}

func newParseError(format string, args ...any) ParseError {
	return ParseError{fmt.Sprintf(format, args...)}
}

// The three bracket families are interchangeable, but an opened form must be
// closed by its own family.
var matchingBracket = map[string]string{
	TOKEN_LPAREN:   TOKEN_RPAREN,
	TOKEN_LBRACKET: TOKEN_RBRACKET,
	TOKEN_LBRACE:   TOKEN_RBRACE,
}

// Parser is recursive descent with one token of lookahead. Every non-atomic
// expression is bracket-delimited prefix notation.
type Parser struct {
	lexer        *Lexer
	currentToken Token
}

func NewParser(lexer *Lexer) (Parser, error) {
	self := Parser{lexer: lexer}
	token, err := lexer.NextToken()
	if err != nil {
		return Parser{}, err
	}
	self.currentToken = token
	return self, nil
}

func (self *Parser) advanceToken() (Token, error) {
	current := self.currentToken
	token, err := self.lexer.NextToken()
	if err != nil {
		return Token{}, err
	}
	self.currentToken = token
	return current, nil
}

func (self *Parser) checkCurrent(kind string) bool {
	return self.currentToken.Kind == kind
}

func (self *Parser) ParseProgram() (*Compound, error) {
	children := []Node{}
	for !self.checkCurrent(TOKEN_EOF) {
		child, err := self.parseExpression()
		if err != nil {
			return nil, err
		}
		children = append(children, child)
	}
	return &Compound{children}, nil
}

func (self *Parser) parseExpression() (Node, error) {
	token := self.currentToken

	switch token.Kind {
	case TOKEN_NUMBER:
		if _, err := self.advanceToken(); err != nil {
			return nil, err
		}
		return NumLit{token.Number}, nil
	case TOKEN_STRING:
		if _, err := self.advanceToken(); err != nil {
			return nil, err
		}
		return StrLit{token.Literal}, nil
	case TOKEN_BOOLEAN:
		if _, err := self.advanceToken(); err != nil {
			return nil, err
		}
		return BoolLit{token.Boolean}, nil
	case TOKEN_CHARACTER:
		if _, err := self.advanceToken(); err != nil {
			return nil, err
		}
		return CharLit{token.Rune}, nil
	case TOKEN_ARRAY:
		if _, err := self.advanceToken(); err != nil {
			return nil, err
		}
		return ArrLit{token.Literal}, nil
	case TOKEN_IDENTIFIER:
		if _, err := self.advanceToken(); err != nil {
			return nil, err
		}
		return Var{token.Literal}, nil
	case TOKEN_SECONDS:
		if _, err := self.advanceToken(); err != nil {
			return nil, err
		}
		// n seconds desugars to (exact-round (* n timebase)), yielding an
		// exact frame count relative to the active timebase.
		return ManyOp{
			Head: Var{"exact-round"},
			Operands: []Node{
				ManyOp{
					Head:     Var{"*"},
					Operands: []Node{NumLit{token.Number}, Var{"timebase"}},
				},
			},
		}, nil
	case TOKEN_LPAREN, TOKEN_LBRACKET, TOKEN_LBRACE:
		return self.parseForm()
	case TOKEN_RPAREN, TOKEN_RBRACKET, TOKEN_RBRACE:
		return nil, newParseError("unexpected %s", token.Kind)
	case TOKEN_EOF:
		return nil, newParseError("unexpected end of input")
	}
	return nil, newParseError("unexpected token %s", token)
}

func (self *Parser) parseForm() (Node, error) {
	open, err := self.advanceToken()
	if err != nil {
		return nil, err
	}
	closer := matchingBracket[open.Kind]

	if self.checkCurrent(TOKEN_EOF) {
		return nil, newParseError("unexpected end of input, expected %s", closer)
	}
	head, err := self.parseExpression()
	if err != nil {
		return nil, err
	}

	operands := []Node{}
	for {
		if self.checkCurrent(closer) {
			if _, err := self.advanceToken(); err != nil {
				return nil, err
			}
			return ManyOp{Head: head, Operands: operands}, nil
		}
		switch self.currentToken.Kind {
		case TOKEN_RPAREN, TOKEN_RBRACKET, TOKEN_RBRACE:
			return nil, newParseError("mismatched bracket, expected %s, found %s",
				closer, self.currentToken.Kind)
		case TOKEN_EOF:
			return nil, newParseError("unexpected end of input, expected %s", closer)
		}
		operand, err := self.parseExpression()
		if err != nil {
			return nil, err
		}
		operands = append(operands, operand)
	}
}
