package js

import "fmt"

var (
	ErrNotFound        = NewException("ReferenceError", "not found")
	ErrNoSys           = NewException("Error", "not implemented")
	ErrInvalidArgument = NewException("TypeError", "invalid argument")
)

// Exception is a host error value. Name is the constructor name of the
// error, such as RangeError.
type Exception struct {
	Name    string
	Message string
}

func NewException(name, msg string) error {
	return &Exception{
		Name:    name,
		Message: msg,
	}
}

// NewRangeError returns a RangeError with a formatted message.
func NewRangeError(format string, args ...interface{}) error {
	return NewException("RangeError", fmt.Sprintf(format, args...))
}

// NewTypeError returns a TypeError with a formatted message.
func NewTypeError(format string, args ...interface{}) error {
	return NewException("TypeError", fmt.Sprintf(format, args...))
}

func (e *Exception) Error() string {
	return e.Name + ": " + e.Message
}

// JSValue implements Wrapper.
func (e *Exception) JSValue() Value {
	return Value{x: e}
}

// ExceptionOf returns err as a host exception. Errors that are not already
// exceptions become an Error carrying err's message.
func ExceptionOf(err error) *Exception {
	if e, ok := err.(*Exception); ok {
		return e
	}
	return &Exception{Name: "Error", Message: err.Error()}
}
