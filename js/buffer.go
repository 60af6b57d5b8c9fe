package js

import "math"

// ArrayBuffer is a fixed length raw byte buffer.
type ArrayBuffer struct {
	Object
}

type arrayBuffer struct {
	data []byte
}

// NewArrayBuffer allocates a zeroed buffer of n bytes.
func NewArrayBuffer(n int) (ArrayBuffer, error) {
	if n < 0 || uint64(n) > math.MaxUint32 {
		return ArrayBuffer{}, NewRangeError("Array buffer allocation failed: %d", n)
	}
	return ArrayBuffer{Object{Value{x: &arrayBuffer{data: make([]byte, n)}}}}, nil
}

// ArrayBufferOf returns a buffer backed by b. Writes through either side are
// visible to the other.
func ArrayBufferOf(b []byte) ArrayBuffer {
	return ArrayBuffer{Object{Value{x: &arrayBuffer{data: b}}}}
}

// AsArrayBuffer reports whether v is an ArrayBuffer.
func AsArrayBuffer(v Value) (ArrayBuffer, bool) {
	if _, ok := v.x.(*arrayBuffer); !ok {
		return ArrayBuffer{}, false
	}
	return ArrayBuffer{Object{v}}, true
}

func (b ArrayBuffer) buf() *arrayBuffer {
	return b.x.(*arrayBuffer)
}

func (b ArrayBuffer) ByteLength() int {
	return len(b.buf().data)
}

// Bytes returns the live contents of b.
func (b ArrayBuffer) Bytes() []byte {
	return b.buf().data
}

// Slice copies the bytes in [begin, end) into a new buffer. Negative indices
// count from the end.
func (b ArrayBuffer) Slice(begin, end int) ArrayBuffer {
	data := b.buf().data
	first := relativeIndex(begin, len(data))
	final := relativeIndex(end, len(data))
	n := final - first
	if n < 0 {
		n = 0
	}
	dst := make([]byte, n)
	copy(dst, data[first:first+n])
	return ArrayBufferOf(dst)
}

// relativeIndex resolves a possibly negative index against length and clamps
// it to [0, length].
func relativeIndex(i, length int) int {
	if i < 0 {
		i += length
		if i < 0 {
			return 0
		}
		return i
	}
	if i > length {
		return length
	}
	return i
}
