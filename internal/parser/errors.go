package parser

import (
	"fmt"

	"github.com/aetherscript/aetherscript-lsp/internal/lexer"
)

// ParseError is captured at a statement boundary and appended to the
// parser's error list; it never escapes Parse as a Go error.
type ParseError struct {
	Token   lexer.Token
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s at %d:%d", e.Message, e.Token.Line, e.Token.Column)
}

func newParseError(tok lexer.Token, message string) *ParseError {
	return &ParseError{Token: tok, Message: message}
}
