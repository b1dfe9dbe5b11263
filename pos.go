package mcc

import "fmt"

// Pos is a source position: a borrowed filename plus a 1-based line
// number. It is attached to every token, every AST node and every
// diagnostic.
type Pos struct {
	Filename string
	Line     int
}

func (p Pos) String() string {
	return fmt.Sprintf("%s(%d)", p.Filename, p.Line)
}
