package compiler

import (
	"errors"
	"fmt"
)

// Code generation errors. They reach callers wrapped in a *CodegenError
// that names the offending statement.
var (
	ErrUndeclaredIdentifier = errors.New("undeclared identifier")
	ErrDuplicateDeclaration = errors.New("duplicate declaration")
	ErrUnsupportedConstruct = errors.New("unsupported construct")
)

// CodegenError reports a failure while generating one statement. Err is
// either one of the errors above or a backend error such as
// backend.ErrOutOfMemory.
type CodegenError struct {
	Pos    Position
	Source string
	Err    error
}

func (e *CodegenError) Error() string {
	return fmt.Sprintf("line %d: %q: %v", e.Pos.Line, e.Source, e.Err)
}

func (e *CodegenError) Unwrap() error {
	return e.Err
}
