package js

import (
	"math"
)

// TypedArray is a view of elements of type E over an ArrayBuffer.
//
// The nine instantiations are distinct host types: a value is castable to at
// most one of them.
type TypedArray[E Element] struct {
	Object
}

type (
	Int8Array         = TypedArray[int8]
	Uint8Array        = TypedArray[uint8]
	Uint8ClampedArray = TypedArray[Uint8Clamped]
	Int16Array        = TypedArray[int16]
	Uint16Array       = TypedArray[uint16]
	Int32Array        = TypedArray[int32]
	Uint32Array       = TypedArray[uint32]
	Float32Array      = TypedArray[float32]
	Float64Array      = TypedArray[float64]
)

type typedArray struct {
	class  *class
	buf    *arrayBuffer
	offset int
	length int
}

// NewTypedArray allocates a zeroed typed array of length elements.
func NewTypedArray[E Element](length int) (TypedArray[E], error) {
	a, err := allocTypedArray(classOf[E](), length)
	if err != nil {
		return TypedArray[E]{}, err
	}
	return wrapTypedArray[E](a), nil
}

// TypedArrayOf returns a new typed array holding elems.
func TypedArrayOf[E Element](elems ...E) TypedArray[E] {
	a, err := allocTypedArray(classOf[E](), len(elems))
	if err != nil {
		panic(err)
	}
	t := wrapTypedArray[E](a)
	for i, e := range elems {
		t.SetIndex(i, e)
	}
	return t
}

// NewTypedArrayFromBuffer returns a view of length elements of buf starting
// at byteOffset. A negative length extends the view to the end of buf.
func NewTypedArrayFromBuffer[E Element](buf ArrayBuffer, byteOffset, length int) (TypedArray[E], error) {
	a, err := viewTypedArray(classOf[E](), buf.buf(), byteOffset, length)
	if err != nil {
		return TypedArray[E]{}, err
	}
	return wrapTypedArray[E](a), nil
}

// As reports whether v is a TypedArray of element type E and returns it.
func As[E Element](v Value) (TypedArray[E], bool) {
	a, ok := v.x.(*typedArray)
	if !ok || a.class != classOf[E]() {
		return TypedArray[E]{}, false
	}
	return TypedArray[E]{Object{v}}, true
}

func wrapTypedArray[E Element](a *typedArray) TypedArray[E] {
	return TypedArray[E]{Object{Value{x: a}}}
}

func (t TypedArray[E]) ta() *typedArray {
	return t.x.(*typedArray)
}

// Buffer returns the buffer t views.
func (t TypedArray[E]) Buffer() ArrayBuffer {
	return ArrayBuffer{Object{Value{x: t.ta().buf}}}
}

func (t TypedArray[E]) Length() int {
	return t.ta().length
}

func (t TypedArray[E]) ByteLength() int {
	a := t.ta()
	return a.length * a.class.size
}

func (t TypedArray[E]) ByteOffset() int {
	return t.ta().offset
}

// Subarray returns a view of the elements in [begin, end) sharing t's buffer.
// Negative indices count from the end and both are clamped to the length.
func (t TypedArray[E]) Subarray(begin, end int) TypedArray[E] {
	return wrapTypedArray[E](t.ta().subarray(begin, end))
}

// Slice copies the elements in [begin, end) into a typed array with a new
// buffer.
func (t TypedArray[E]) Slice(begin, end int) TypedArray[E] {
	return wrapTypedArray[E](t.ta().slice(begin, end))
}

// Set stores the elements of src into t starting at offset. src may be a
// typed array, an array, a string or any array-like object.
func (t TypedArray[E]) Set(src Value, offset int) error {
	return t.ta().set(src, offset)
}

// Index returns the element i. It panics if i is out of range.
func (t TypedArray[E]) Index(i int) E {
	a := t.ta()
	if i < 0 || i >= a.length {
		panic(NewRangeError("index %d out of range [0, %d)", i, a.length))
	}
	return E(a.get(i))
}

// SetIndex stores x at element i. It panics if i is out of range.
func (t TypedArray[E]) SetIndex(i int, x E) {
	a := t.ta()
	if i < 0 || i >= a.length {
		panic(NewRangeError("index %d out of range [0, %d)", i, a.length))
	}
	a.put(i, float64(x))
}

// Elements returns a copy of the elements of t.
func (t TypedArray[E]) Elements() []E {
	a := t.ta()
	elems := make([]E, a.length)
	for i := range elems {
		elems[i] = E(a.get(i))
	}
	return elems
}

func allocTypedArray(c *class, length int) (*typedArray, error) {
	if length < 0 || uint64(length)*uint64(c.size) > math.MaxUint32 {
		return nil, NewRangeError("Invalid typed array length: %d", length)
	}
	return &typedArray{
		class:  c,
		buf:    &arrayBuffer{data: make([]byte, length*c.size)},
		length: length,
	}, nil
}

func viewTypedArray(c *class, buf *arrayBuffer, byteOffset, length int) (*typedArray, error) {
	if byteOffset < 0 {
		return nil, NewRangeError("Start offset %d is outside the bounds of the buffer", byteOffset)
	}
	if byteOffset%c.size != 0 {
		return nil, NewRangeError("start offset of %s should be a multiple of %d", c.name, c.size)
	}
	size := len(buf.data)
	if length < 0 {
		if size%c.size != 0 {
			return nil, NewRangeError("byte length of %s should be a multiple of %d", c.name, c.size)
		}
		if byteOffset > size {
			return nil, NewRangeError("Start offset %d is outside the bounds of the buffer", byteOffset)
		}
		length = (size - byteOffset) / c.size
	} else if uint64(byteOffset)+uint64(length)*uint64(c.size) > uint64(size) {
		return nil, NewRangeError("Invalid typed array length: %d", length)
	}
	return &typedArray{class: c, buf: buf, offset: byteOffset, length: length}, nil
}

func (a *typedArray) bytes() []byte {
	return a.buf.data[a.offset : a.offset+a.length*a.class.size]
}

func (a *typedArray) get(i int) float64 {
	p := a.offset + i*a.class.size
	return a.class.get(a.buf.data[p : p+a.class.size])
}

func (a *typedArray) put(i int, f float64) {
	p := a.offset + i*a.class.size
	a.class.put(a.buf.data[p:p+a.class.size], f)
}

func (a *typedArray) window(begin, end int) (int, int) {
	first := relativeIndex(begin, a.length)
	final := relativeIndex(end, a.length)
	if final < first {
		final = first
	}
	return first, final - first
}

func (a *typedArray) subarray(begin, end int) *typedArray {
	first, n := a.window(begin, end)
	return &typedArray{
		class:  a.class,
		buf:    a.buf,
		offset: a.offset + first*a.class.size,
		length: n,
	}
}

func (a *typedArray) slice(begin, end int) *typedArray {
	first, n := a.window(begin, end)
	dst := &typedArray{
		class:  a.class,
		buf:    &arrayBuffer{data: make([]byte, n*a.class.size)},
		length: n,
	}
	copy(dst.buf.data, a.subarray(first, first+n).bytes())
	return dst
}

func (a *typedArray) set(src Value, offset int) error {
	if offset < 0 {
		return NewRangeError("offset is out of bounds")
	}
	if s, ok := src.x.(*typedArray); ok {
		return a.setTypedArray(s, offset)
	}
	switch src.x.(type) {
	case nil, null:
		return NewTypeError("Cannot convert %s to object", src.String())
	}
	n := src.Length()
	if n+offset > a.length {
		return NewRangeError("offset is out of bounds")
	}
	for i := 0; i < n; i++ {
		a.put(offset+i, toNumber(src.Index(i)))
	}
	return nil
}

func (a *typedArray) setTypedArray(s *typedArray, offset int) error {
	if s.length+offset > a.length {
		return NewRangeError("offset is out of bounds")
	}
	if s.class == a.class {
		copy(a.subarray(offset, offset+s.length).bytes(), s.bytes())
		return nil
	}
	if s.buf == a.buf {
		clone := s.slice(0, s.length)
		s = clone
	}
	for i := 0; i < s.length; i++ {
		a.put(offset+i, s.get(i))
	}
	return nil
}
