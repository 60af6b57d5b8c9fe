package typedarray

import "errors"

// VariantError is returned when a TypedArray is extracted as a kind it does
// not hold.
type VariantError struct{}

func (VariantError) Error() string {
	return "could not convert TypedArray to typed array instance"
}

// ValueError is returned when a host value is not one of the nine typed
// array types.
type ValueError struct{}

func (ValueError) Error() string {
	return "could not convert value to TypedArray"
}

var ErrUnknownKind = errors.New("typedarray: unknown kind")
