package lex

import "fmt"

// Position identifies a single character's location within a source file:
// the file it came from, and a 1-based line and column.
type Position struct {
	File   string
	Line   int
	Column int
}

func (p Position) String() string {
	return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Column)
}
