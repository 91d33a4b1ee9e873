package parser

import "io"

// SingleResultParser defines a generic interface for parsers that produce one value from a body
type SingleResultParser[T any] interface {
	Parse(body io.Reader) (T, error)
}
