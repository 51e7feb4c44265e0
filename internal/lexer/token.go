// Package lexer tokenizes AetherScript source text into a flat,
// positioned token stream.
package lexer

import "fmt"

// TokenType identifies the lexical category of a Token.
type TokenType int

const (
	EOF TokenType = iota
	ERROR

	IDENTIFIER
	INTEGER
	FLOAT
	STRING

	// Keywords
	IF
	ELSE
	ELIF
	WHILE
	FOR
	RETURN
	BREAK
	CONTINUE
	FUNCTION
	SPELL
	RITUAL
	CONJURE
	ENTITY
	REALM
	DIMENSION
	VAR
	TRUE
	FALSE

	// Type names
	TYPE_VOID
	TYPE_INT
	TYPE_FLOAT
	TYPE_STRING
	TYPE_BOOLEAN
	TYPE_ARRAY
	TYPE_MAP
	TYPE_ELEMENT
	TYPE_ENERGY
	TYPE_SPIRIT
	TYPE_MATTER

	// Operators
	PLUS
	MINUS
	STAR
	SLASH
	PERCENT
	EQUAL
	EQUAL_EQUAL
	BANG
	BANG_EQUAL
	LESS
	LESS_EQUAL
	GREATER
	GREATER_EQUAL
	AND_AND
	OR_OR
	ARROW

	// Delimiters
	LPAREN
	RPAREN
	LBRACE
	RBRACE
	LBRACKET
	RBRACKET
	COMMA
	DOT
	SEMICOLON
	COLON
)

var tokenTypeNames = map[TokenType]string{
	EOF:           "EOF",
	ERROR:         "ERROR",
	IDENTIFIER:    "IDENTIFIER",
	INTEGER:       "INTEGER",
	FLOAT:         "FLOAT",
	STRING:        "STRING",
	IF:            "IF",
	ELSE:          "ELSE",
	ELIF:          "ELIF",
	WHILE:         "WHILE",
	FOR:           "FOR",
	RETURN:        "RETURN",
	BREAK:         "BREAK",
	CONTINUE:      "CONTINUE",
	FUNCTION:      "FUNCTION",
	SPELL:         "SPELL",
	RITUAL:        "RITUAL",
	CONJURE:       "CONJURE",
	ENTITY:        "ENTITY",
	REALM:         "REALM",
	DIMENSION:     "DIMENSION",
	VAR:           "VAR",
	TRUE:          "TRUE",
	FALSE:         "FALSE",
	TYPE_VOID:     "TYPE_VOID",
	TYPE_INT:      "TYPE_INT",
	TYPE_FLOAT:    "TYPE_FLOAT",
	TYPE_STRING:   "TYPE_STRING",
	TYPE_BOOLEAN:  "TYPE_BOOLEAN",
	TYPE_ARRAY:    "TYPE_ARRAY",
	TYPE_MAP:      "TYPE_MAP",
	TYPE_ELEMENT:  "TYPE_ELEMENT",
	TYPE_ENERGY:   "TYPE_ENERGY",
	TYPE_SPIRIT:   "TYPE_SPIRIT",
	TYPE_MATTER:   "TYPE_MATTER",
	PLUS:          "PLUS",
	MINUS:         "MINUS",
	STAR:          "STAR",
	SLASH:         "SLASH",
	PERCENT:       "PERCENT",
	EQUAL:         "EQUAL",
	EQUAL_EQUAL:   "EQUAL_EQUAL",
	BANG:          "BANG",
	BANG_EQUAL:    "BANG_EQUAL",
	LESS:          "LESS",
	LESS_EQUAL:    "LESS_EQUAL",
	GREATER:       "GREATER",
	GREATER_EQUAL: "GREATER_EQUAL",
	AND_AND:       "AND_AND",
	OR_OR:         "OR_OR",
	ARROW:         "ARROW",
	LPAREN:        "LPAREN",
	RPAREN:        "RPAREN",
	LBRACE:        "LBRACE",
	RBRACE:        "RBRACE",
	LBRACKET:      "LBRACKET",
	RBRACKET:      "RBRACKET",
	COMMA:         "COMMA",
	DOT:           "DOT",
	SEMICOLON:     "SEMICOLON",
	COLON:         "COLON",
}

// String returns the canonical name of a TokenType, e.g. "IDENTIFIER".
func (t TokenType) String() string {
	if name, ok := tokenTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("TokenType(%d)", int(t))
}

// Keywords maps reserved words to their TokenType.
var Keywords = map[string]TokenType{
	"if":        IF,
	"else":      ELSE,
	"elif":      ELIF,
	"while":     WHILE,
	"for":       FOR,
	"return":    RETURN,
	"break":     BREAK,
	"continue":  CONTINUE,
	"function":  FUNCTION,
	"spell":     SPELL,
	"ritual":    RITUAL,
	"conjure":   CONJURE,
	"entity":    ENTITY,
	"realm":     REALM,
	"dimension": DIMENSION,
	"var":       VAR,
	"true":      TRUE,
	"false":     FALSE,
}

// Types maps the 11 built-in type names to their TokenType.
var Types = map[string]TokenType{
	"Void":    TYPE_VOID,
	"Int":     TYPE_INT,
	"Float":   TYPE_FLOAT,
	"String":  TYPE_STRING,
	"Boolean": TYPE_BOOLEAN,
	"Array":   TYPE_ARRAY,
	"Map":     TYPE_MAP,
	"Element": TYPE_ELEMENT,
	"Energy":  TYPE_ENERGY,
	"Spirit":  TYPE_SPIRIT,
	"Matter":  TYPE_MATTER,
}

// Token is a single positioned lexical atom.
type Token struct {
	Type    TokenType
	Lexeme  string
	Literal interface{}
	Line    int
	Column  int
}

// String renders a Token for debugging and test failure messages.
func (t Token) String() string {
	return fmt.Sprintf("%s(%q) at %d:%d", t.Type, t.Lexeme, t.Line, t.Column)
}

// IsKeyword reports whether name is a reserved keyword.
func IsKeyword(name string) bool {
	_, ok := Keywords[name]
	return ok
}

// IsTypeName reports whether name is one of the 11 built-in type names.
func IsTypeName(name string) bool {
	_, ok := Types[name]
	return ok
}
