package gowasm

import (
	"math"

	"github.com/icexin/typedarray"
	"github.com/icexin/typedarray/js"
)

// Typed arrays expose no dynamic properties on the host side, so guest
// access to them goes through the handle.

func typedArrayProperty(t typedarray.TypedArray, name string) js.Value {
	switch name {
	case "buffer":
		return t.Buffer().Value
	case "length":
		return js.ValueOf(t.Length())
	case "byteLength":
		return js.ValueOf(t.ByteLength())
	case "byteOffset":
		return js.ValueOf(t.ByteOffset())
	case "BYTES_PER_ELEMENT":
		return js.ValueOf(t.Kind().ElementSize())
	case "constructor":
		return js.Global().Get(t.Kind().String())
	}
	return js.Undefined()
}

func callTypedArray(t typedarray.TypedArray, method string, args []js.Value) (js.Value, error) {
	n := t.Length()
	arg := func(i int) js.Value {
		if i < len(args) {
			return args[i]
		}
		return js.Undefined()
	}
	switch method {
	case "subarray":
		begin := relativeIndex(arg(0), n, 0)
		end := relativeIndex(arg(1), n, n)
		return t.Subarray(begin, end).JSValue(), nil
	case "slice":
		begin := relativeIndex(arg(0), n, 0)
		end := relativeIndex(arg(1), n, n)
		return t.Slice(begin, end).JSValue(), nil
	case "set":
		offset := integer(arg(1))
		if offset < 0 || offset > math.MaxUint32 {
			return js.Undefined(), js.NewRangeError("offset is out of bounds")
		}
		return js.Undefined(), t.Set(arg(0), uint32(offset))
	case "toString":
		return js.ValueOf(t.String()), nil
	}
	return js.Undefined(), js.NewTypeError("%s.%s is not a function", t.Kind(), method)
}

// byteWindow returns the bytes viewed by a Uint8Array or Uint8ClampedArray.
func byteWindow(v js.Value) ([]byte, bool) {
	t, ok := typedarray.DynInto(v)
	if !ok || (t.Kind() != typedarray.Uint8 && t.Kind() != typedarray.Uint8Clamped) {
		return nil, false
	}
	off := t.ByteOffset()
	return t.Buffer().Bytes()[off : off+t.ByteLength()], true
}

// integer implements ToIntegerOrInfinity for numeric arguments. Other values
// count as zero.
func integer(v js.Value) float64 {
	if v.Type() != js.TypeNumber {
		return 0
	}
	f := v.Float()
	if math.IsNaN(f) {
		return 0
	}
	return math.Trunc(f)
}

// relativeIndex resolves a possibly negative index against length. An
// undefined index yields def.
func relativeIndex(v js.Value, length, def uint32) uint32 {
	if v.IsUndefined() {
		return def
	}
	f := integer(v)
	if f < 0 {
		f += float64(length)
		if f < 0 {
			return 0
		}
		return uint32(f)
	}
	if f > float64(length) {
		return length
	}
	return uint32(f)
}
