package models

// StreamResult is one item of a channel stream such as a download's event stream.
// A non-nil Err is the last item sent before the channel closes.
type StreamResult[T any] struct {
	Value T
	Err   error
}
