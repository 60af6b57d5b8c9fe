// Package typedarray provides TypedArray, a single handle over the nine host
// typed array types. It lets code that does not know an array's element type
// hold it, classify it and use the operations every typed array shares.
package typedarray

import (
	"math"

	"github.com/icexin/typedarray/js"
)

// TypedArray holds exactly one host typed array together with its Kind.
//
// Copying a TypedArray copies the reference, never the buffer. The zero
// TypedArray holds nothing; use one of the constructors.
type TypedArray struct {
	kind Kind
	v    view
}

// view is the operation set shared by the nine typed array types.
type view interface {
	object() js.Object
	buffer() js.ArrayBuffer
	length() int
	byteLength() int
	byteOffset() int
	subarray(begin, end int) view
	slice(begin, end int) view
	set(src js.Value, offset int) error
}

type variant[E js.Element] struct {
	a js.TypedArray[E]
}

func (v variant[E]) object() js.Object                  { return v.a.Object }
func (v variant[E]) buffer() js.ArrayBuffer             { return v.a.Buffer() }
func (v variant[E]) length() int                        { return v.a.Length() }
func (v variant[E]) byteLength() int                    { return v.a.ByteLength() }
func (v variant[E]) byteOffset() int                    { return v.a.ByteOffset() }
func (v variant[E]) subarray(begin, end int) view       { return variant[E]{v.a.Subarray(begin, end)} }
func (v variant[E]) slice(begin, end int) view          { return variant[E]{v.a.Slice(begin, end)} }
func (v variant[E]) set(src js.Value, offset int) error { return v.a.Set(src, offset) }

// From wraps a typed array of a statically known element type.
func From[E js.Element](a js.TypedArray[E]) TypedArray {
	return TypedArray{kind: kindOf[E](), v: variant[E]{a}}
}

func FromInt8Array(a js.Int8Array) TypedArray                 { return From(a) }
func FromUint8Array(a js.Uint8Array) TypedArray               { return From(a) }
func FromUint8ClampedArray(a js.Uint8ClampedArray) TypedArray { return From(a) }
func FromInt16Array(a js.Int16Array) TypedArray               { return From(a) }
func FromUint16Array(a js.Uint16Array) TypedArray             { return From(a) }
func FromInt32Array(a js.Int32Array) TypedArray               { return From(a) }
func FromUint32Array(a js.Uint32Array) TypedArray             { return From(a) }
func FromFloat32Array(a js.Float32Array) TypedArray           { return From(a) }
func FromFloat64Array(a js.Float64Array) TypedArray           { return From(a) }

// Into returns the typed array held by t if t holds element type E, and
// VariantError otherwise.
func Into[E js.Element](t TypedArray) (js.TypedArray[E], error) {
	v, ok := t.v.(variant[E])
	if !ok {
		return js.TypedArray[E]{}, VariantError{}
	}
	return v.a, nil
}

func (t TypedArray) Int8Array() (js.Int8Array, error)   { return Into[int8](t) }
func (t TypedArray) Uint8Array() (js.Uint8Array, error) { return Into[uint8](t) }
func (t TypedArray) Uint8ClampedArray() (js.Uint8ClampedArray, error) {
	return Into[js.Uint8Clamped](t)
}
func (t TypedArray) Int16Array() (js.Int16Array, error)     { return Into[int16](t) }
func (t TypedArray) Uint16Array() (js.Uint16Array, error)   { return Into[uint16](t) }
func (t TypedArray) Int32Array() (js.Int32Array, error)     { return Into[int32](t) }
func (t TypedArray) Uint32Array() (js.Uint32Array, error)   { return Into[uint32](t) }
func (t TypedArray) Float32Array() (js.Float32Array, error) { return Into[float32](t) }
func (t TypedArray) Float64Array() (js.Float64Array, error) { return Into[float64](t) }

// New allocates a zeroed typed array of the given kind.
func New(kind Kind, length uint32) (TypedArray, error) {
	if !kind.valid() {
		return TypedArray{}, ErrUnknownKind
	}
	return kindOps[kind].alloc(index(length))
}

// NewFromBuffer returns a typed array of the given kind viewing length
// elements of buf from byteOffset.
func NewFromBuffer(kind Kind, buf js.ArrayBuffer, byteOffset, length uint32) (TypedArray, error) {
	if !kind.valid() {
		return TypedArray{}, ErrUnknownKind
	}
	return kindOps[kind].view(buf, index(byteOffset), index(length))
}

func (t TypedArray) Kind() Kind {
	return t.kind
}

// Object returns t as a host object. It shares t's buffer.
func (t TypedArray) Object() js.Object {
	if t.v == nil {
		return js.Object{}
	}
	return t.v.object()
}

// JSValue implements js.Wrapper.
func (t TypedArray) JSValue() js.Value {
	return t.Object().Value
}

func (t TypedArray) Buffer() js.ArrayBuffer {
	return t.v.buffer()
}

func (t TypedArray) Length() uint32 {
	return uint32(t.v.length())
}

// ByteLength returns Length() * Kind().ElementSize().
func (t TypedArray) ByteLength() uint32 {
	return uint32(t.v.byteLength())
}

func (t TypedArray) ByteOffset() uint32 {
	return uint32(t.v.byteOffset())
}

// Subarray returns a view of the elements in [begin, end) over the same
// buffer. Indices past the end are clamped.
func (t TypedArray) Subarray(begin, end uint32) TypedArray {
	return TypedArray{kind: t.kind, v: t.v.subarray(index(begin), index(end))}
}

// Slice copies the elements in [begin, end) into a new buffer of the same
// kind.
func (t TypedArray) Slice(begin, end uint32) TypedArray {
	return TypedArray{kind: t.kind, v: t.v.slice(index(begin), index(end))}
}

// Set stores the elements of src into t from offset, converting each to t's
// element type. Host RangeError and TypeError exceptions are returned as is.
func (t TypedArray) Set(src js.Value, offset uint32) error {
	return t.v.set(src, index(offset))
}

// String returns the elements of t joined by commas.
func (t TypedArray) String() string {
	return t.JSValue().String()
}

// Equal reports whether t and u are the same host object.
func (t TypedArray) Equal(u TypedArray) bool {
	return t.JSValue().Equal(u.JSValue())
}

func index(i uint32) int {
	if uint64(i) > math.MaxInt {
		return math.MaxInt
	}
	return int(i)
}
