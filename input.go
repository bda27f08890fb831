package peg

// Input is an indexable sequence. Parsing never mutates an Input; every
// combinator addresses it through a position index only.
type Input interface {
	Len() int
	At(i int) any
}

// Text adapts a string as rune-wise input. Elements are one-rune strings,
// so Item("a") matches the letter a.
func Text(s string) Input { return textInput([]rune(s)) }

type textInput []rune

func (t textInput) Len() int { return len(t) }

func (t textInput) At(i int) any { return string(t[i]) }

// Items adapts a fixed list of arbitrary values as input.
func Items(items ...any) Input { return itemsInput(items) }

type itemsInput []any

func (s itemsInput) Len() int { return len(s) }

func (s itemsInput) At(i int) any { return s[i] }

// Of adapts a typed slice as input.
func Of[T any](items []T) Input { return sliceInput[T](items) }

type sliceInput[T any] []T

func (s sliceInput[T]) Len() int { return len(s) }

func (s sliceInput[T]) At(i int) any { return s[i] }
