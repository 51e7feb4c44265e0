package typechecker

import "fmt"

// TypeError is a single diagnostic produced while walking the AST.
type TypeError struct {
	Message string
	Line    int
	Column  int
}

func (e TypeError) Error() string {
	return fmt.Sprintf("%s at %d:%d", e.Message, e.Line, e.Column)
}
