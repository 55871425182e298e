package cutlang

import "fmt"

// Token Kinds
const (
	// Meta
	TOKEN_EOF = "end-of-file"
	// Identifiers and Literals
	TOKEN_IDENTIFIER = "identifier"
	TOKEN_NUMBER     = "number"
	TOKEN_STRING     = "string"
	TOKEN_CHARACTER  = "character"
	TOKEN_BOOLEAN    = "boolean"
	TOKEN_SECONDS    = "seconds"
	TOKEN_ARRAY      = "array"
	// Brackets
	TOKEN_LPAREN   = "("
	TOKEN_RPAREN   = ")"
	TOKEN_LBRACKET = "["
	TOKEN_RBRACKET = "]"
	TOKEN_LBRACE   = "{"
	TOKEN_RBRACE   = "}"
)

// Token carries a kind plus the payload decoded by the lexer. Exactly one
// payload field is populated for literal kinds; Literal always holds the
// matched source text.
type Token struct {
	Kind    string
	Literal string

	Number  Value // TOKEN_NUMBER and TOKEN_SECONDS
	Boolean bool  // TOKEN_BOOLEAN
	Rune    rune  // TOKEN_CHARACTER
}

func (self Token) String() string {
	if self.Kind == TOKEN_EOF {
		return self.Kind
	}
	return fmt.Sprintf("%s %s", self.Kind, self.Literal)
}
