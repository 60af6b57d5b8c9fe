package typedarray

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/icexin/typedarray/js"
)

func newHandle[E js.Element](t *testing.T, length int) TypedArray {
	t.Helper()
	a, err := js.NewTypedArray[E](length)
	require.NoError(t, err)
	return From(a)
}

func TestAllKinds(t *testing.T) {
	for _, tc := range []struct {
		kind   Kind
		handle TypedArray
	}{
		{Int8, newHandle[int8](t, 10)},
		{Uint8, newHandle[uint8](t, 10)},
		{Uint8Clamped, newHandle[js.Uint8Clamped](t, 10)},
		{Int16, newHandle[int16](t, 10)},
		{Uint16, newHandle[uint16](t, 10)},
		{Int32, newHandle[int32](t, 10)},
		{Uint32, newHandle[uint32](t, 10)},
		{Float32, newHandle[float32](t, 10)},
		{Float64, newHandle[float64](t, 10)},
	} {
		t.Run(tc.kind.String(), func(t *testing.T) {
			h := tc.handle
			assert.Equal(t, tc.kind, h.Kind())
			assert.Equal(t, uint32(10), h.Length())
			assert.Equal(t, uint32(10*tc.kind.ElementSize()), h.ByteLength())
			assert.Equal(t, uint32(0), h.ByteOffset())

			back, ok := DynInto(h.JSValue())
			require.True(t, ok)
			assert.Equal(t, tc.kind, back.Kind())
			assert.True(t, back.Equal(h))

			for _, k := range Kinds {
				_, err := extract(h, k)
				if k == tc.kind {
					assert.NoError(t, err)
				} else {
					assert.ErrorIs(t, err, VariantError{})
				}
			}
		})
	}
}

// extract calls the named extractor for kind k.
func extract(t TypedArray, k Kind) (js.Object, error) {
	switch k {
	case Int8:
		a, err := t.Int8Array()
		return a.Object, err
	case Uint8:
		a, err := t.Uint8Array()
		return a.Object, err
	case Uint8Clamped:
		a, err := t.Uint8ClampedArray()
		return a.Object, err
	case Int16:
		a, err := t.Int16Array()
		return a.Object, err
	case Uint16:
		a, err := t.Uint16Array()
		return a.Object, err
	case Int32:
		a, err := t.Int32Array()
		return a.Object, err
	case Uint32:
		a, err := t.Uint32Array()
		return a.Object, err
	case Float32:
		a, err := t.Float32Array()
		return a.Object, err
	default:
		a, err := t.Float64Array()
		return a.Object, err
	}
}

func TestNamedPromotions(t *testing.T) {
	assert.Equal(t, Int8, FromInt8Array(js.TypedArrayOf[int8]()).Kind())
	assert.Equal(t, Uint8, FromUint8Array(js.TypedArrayOf[uint8]()).Kind())
	assert.Equal(t, Uint8Clamped, FromUint8ClampedArray(js.TypedArrayOf[js.Uint8Clamped]()).Kind())
	assert.Equal(t, Int16, FromInt16Array(js.TypedArrayOf[int16]()).Kind())
	assert.Equal(t, Uint16, FromUint16Array(js.TypedArrayOf[uint16]()).Kind())
	assert.Equal(t, Int32, FromInt32Array(js.TypedArrayOf[int32]()).Kind())
	assert.Equal(t, Uint32, FromUint32Array(js.TypedArrayOf[uint32]()).Kind())
	assert.Equal(t, Float32, FromFloat32Array(js.TypedArrayOf[float32]()).Kind())
	assert.Equal(t, Float64, FromFloat64Array(js.TypedArrayOf[float64]()).Kind())
}

func TestRoundTripKeepsWindow(t *testing.T) {
	a := js.TypedArrayOf[uint16](1, 2, 3, 4, 5, 6).Subarray(1, 4)
	h := FromUint16Array(a)

	b, err := h.Uint16Array()
	require.NoError(t, err)
	assert.True(t, b.Equal(a.Value))
	assert.True(t, b.Buffer().Equal(a.Buffer().Value))
	assert.Equal(t, a.ByteOffset(), b.ByteOffset())
	assert.Equal(t, a.Length(), b.Length())
}

func TestSubarrayThroughHandle(t *testing.T) {
	h := newHandle[uint16](t, 8)
	s := h.Subarray(2, 6)
	assert.Equal(t, Uint16, s.Kind())
	assert.Equal(t, uint32(4), s.Length())
	assert.Equal(t, uint32(8), s.ByteLength())
	assert.Equal(t, uint32(4), s.ByteOffset())
	assert.True(t, s.Buffer().Equal(h.Buffer().Value))

	clamped := h.Subarray(6, 100)
	assert.Equal(t, uint32(2), clamped.Length())
	assert.Equal(t, uint32(0), h.Subarray(5, 1).Length())
}

func TestSliceThroughHandle(t *testing.T) {
	h := FromInt32Array(js.TypedArrayOf[int32](10, 20, 30, 40))
	s := h.Slice(1, 3)
	assert.Equal(t, Int32, s.Kind())
	assert.Equal(t, uint32(2), s.Length())
	assert.False(t, s.Buffer().Equal(h.Buffer().Value))
	assert.Equal(t, "20,30", s.String())
}

func TestSetThroughHandle(t *testing.T) {
	h := newHandle[js.Uint8Clamped](t, 4)
	require.NoError(t, h.Set(js.NewArray(-1, 128.5, 999), 1))
	assert.Equal(t, "0,0,128,255", h.String())

	src := FromInt8Array(js.TypedArrayOf[int8](-1, -2))
	require.NoError(t, h.Set(src.JSValue(), 0))
	assert.Equal(t, "0,0,128,255", h.String())

	u := newHandle[uint8](t, 2)
	require.NoError(t, u.Set(src.JSValue(), 0))
	assert.Equal(t, "255,254", u.String())

	err := h.Set(js.NewArray(1, 2), 3)
	var e *js.Exception
	require.True(t, errors.As(err, &e))
	assert.Equal(t, "RangeError", e.Name)

	err = h.Set(js.Undefined(), 0)
	require.True(t, errors.As(err, &e))
	assert.Equal(t, "TypeError", e.Name)
}

func TestExtractWrongKind(t *testing.T) {
	h := newHandle[uint8](t, 3)
	_, err := h.Int8Array()
	assert.Equal(t, VariantError{}, err)
	assert.EqualError(t, err, "could not convert TypedArray to typed array instance")

	_, err = Into[js.Uint8Clamped](h)
	assert.ErrorIs(t, err, VariantError{})
}

func TestClassifyNonArray(t *testing.T) {
	n := js.ValueOf(42)

	_, err := FromValue(n)
	assert.Equal(t, ValueError{}, err)
	assert.EqualError(t, err, "could not convert value to TypedArray")

	_, ok := DynInto(n)
	assert.False(t, ok)
	assert.Equal(t, 42, n.Int())

	for _, v := range []js.Value{
		js.Undefined(),
		js.Null(),
		js.ValueOf("abc"),
		js.NewArray(1, 2),
		js.NewObject().Value,
		js.ArrayBufferOf(make([]byte, 4)).Value,
	} {
		assert.False(t, HasType(v), v.String())
	}
	assert.True(t, HasType(js.TypedArrayOf[float32](1).Value))
}

func TestHandleAsWrapper(t *testing.T) {
	h := newHandle[int16](t, 2)
	o := js.NewObject()
	o.Set("data", h)

	got, err := FromValue(o.Get("data"))
	require.NoError(t, err)
	assert.True(t, got.Equal(h))
	assert.True(t, js.ValueOf(h).Equal(h.JSValue()))
	assert.True(t, h.JSValue().InstanceOf(js.Global().Get("Int16Array")))
}

func TestNewByKind(t *testing.T) {
	for _, k := range Kinds {
		h, err := New(k, 3)
		require.NoError(t, err)
		assert.Equal(t, k, h.Kind())
		assert.Equal(t, uint32(3*k.ElementSize()), h.ByteLength())
	}

	_, err := New(Kind(9), 1)
	assert.ErrorIs(t, err, ErrUnknownKind)

	buf := js.ArrayBufferOf([]byte{1, 0, 2, 0, 3, 0, 4, 0})
	h, err := NewFromBuffer(Uint16, buf, 2, 3)
	require.NoError(t, err)
	assert.Equal(t, "2,3,4", h.String())
	assert.Equal(t, uint32(2), h.ByteOffset())

	_, err = NewFromBuffer(Uint32, buf, 2, 1)
	var e *js.Exception
	require.True(t, errors.As(err, &e))
	assert.Equal(t, "RangeError", e.Name)
}

func TestZeroHandle(t *testing.T) {
	var h TypedArray
	assert.True(t, h.JSValue().IsUndefined())
	assert.False(t, HasType(h.JSValue()))
	_, err := h.Uint8Array()
	assert.ErrorIs(t, err, VariantError{})
}
