package mcc

import "fmt"

// Context is the single explicit value that carries every piece of
// state that is shared and mutable across one
// translation unit: the string interner, the symbol table's
// scope/function cursors, the code generator's label counter, and the
// debug-channel set. Nothing here is a package-level variable, so two
// Contexts never interfere with each other even if a caller chose to
// run two translation units back to back.
type Context struct {
	Interner *Interner
	Symbols  *SymbolTable
	Debug    *DebugConfig
	Warnings []Warning

	labelCounter int
}

// NewContext returns a fresh compiler context. Pass nil for debug to
// get an all-channels-off configuration.
func NewContext(debug *DebugConfig) *Context {
	if debug == nil {
		debug = NewDebugConfig()
	}
	return &Context{
		Interner: NewInterner(),
		Symbols:  NewSymbolTable(),
		Debug:    debug,
	}
}

// Warn records a non-fatal diagnostic; it never aborts the unit.
func (c *Context) Warn(pos Pos, format string, args ...any) {
	c.Warnings = append(c.Warnings, Warning{Pos: pos, Message: fmt.Sprintf(format, args...)})
}

// NewLabel allocates the next monotonically increasing code-generator
// label, starting at 0.
func (c *Context) NewLabel() int {
	n := c.labelCounter
	c.labelCounter++
	return n
}
