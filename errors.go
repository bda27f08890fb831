package peg

import "fmt"

// UndefinedSymbolError reports a reference to a grammar rule that was
// never defined. Grammar.Validate returns it; evaluating such a reference
// panics with it, since a missing rule is a malformed grammar rather than
// a parse failure.
type UndefinedSymbolError struct {
	Symbol string
}

func (e *UndefinedSymbolError) Error() string {
	return fmt.Sprintf("grammar has no rule %q", e.Symbol)
}

// FactoryArgumentError reports a failed factory invocation inside a Make
// or Apply pattern.
type FactoryArgumentError struct {
	Err error
}

func (e *FactoryArgumentError) Error() string {
	return fmt.Sprintf("factory invocation: %v", e.Err)
}

func (e *FactoryArgumentError) Unwrap() error { return e.Err }
