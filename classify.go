package typedarray

import (
	"github.com/icexin/typedarray/js"
)

// ops instantiates the host operations of one element type.
type ops struct {
	as    func(v js.Value) (TypedArray, bool)
	alloc func(length int) (TypedArray, error)
	view  func(buf js.ArrayBuffer, byteOffset, length int) (TypedArray, error)
}

func opsOf[E js.Element]() ops {
	return ops{
		as: func(v js.Value) (TypedArray, bool) {
			a, ok := js.As[E](v)
			if !ok {
				return TypedArray{}, false
			}
			return From(a), true
		},
		alloc: func(length int) (TypedArray, error) {
			a, err := js.NewTypedArray[E](length)
			if err != nil {
				return TypedArray{}, err
			}
			return From(a), nil
		},
		view: func(buf js.ArrayBuffer, byteOffset, length int) (TypedArray, error) {
			a, err := js.NewTypedArrayFromBuffer[E](buf, byteOffset, length)
			if err != nil {
				return TypedArray{}, err
			}
			return From(a), nil
		},
	}
}

var kindOps = [...]ops{
	Int8:         opsOf[int8](),
	Uint8:        opsOf[uint8](),
	Uint8Clamped: opsOf[js.Uint8Clamped](),
	Int16:        opsOf[int16](),
	Uint16:       opsOf[uint16](),
	Int32:        opsOf[int32](),
	Uint32:       opsOf[uint32](),
	Float32:      opsOf[float32](),
	Float64:      opsOf[float64](),
}

// DynInto classifies v as one of the nine typed array types, trying them in
// the order of Kinds. It reports false if v is none of them; v itself is left
// untouched either way.
func DynInto(v js.Value) (TypedArray, bool) {
	for _, k := range Kinds {
		if t, ok := kindOps[k].as(v); ok {
			return t, true
		}
	}
	return TypedArray{}, false
}

// FromValue is DynInto returning ValueError on failure.
func FromValue(v js.Value) (TypedArray, error) {
	t, ok := DynInto(v)
	if !ok {
		return TypedArray{}, ValueError{}
	}
	return t, nil
}

// HasType reports whether v is one of the nine typed array types.
func HasType(v js.Value) bool {
	_, ok := DynInto(v)
	return ok
}
