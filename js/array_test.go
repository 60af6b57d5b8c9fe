package js

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requireException(t *testing.T, err error, name string) {
	t.Helper()
	var e *Exception
	require.True(t, errors.As(err, &e), "expected exception, got %v", err)
	require.Equal(t, name, e.Name)
}

func TestElementConversion(t *testing.T) {
	src := NewArray(200, 256, -1, 1.5, 2.5, math.NaN(), math.Inf(1), -129, "7", true)

	i8, err := NewTypedArray[int8](10)
	require.NoError(t, err)
	require.NoError(t, i8.Set(src, 0))
	if diff := cmp.Diff([]int8{-56, 0, -1, 1, 2, 0, 0, 127, 7, 1}, i8.Elements()); diff != "" {
		t.Errorf("Int8Array mismatch (-want +got):\n%s", diff)
	}

	u8, err := NewTypedArray[uint8](10)
	require.NoError(t, err)
	require.NoError(t, u8.Set(src, 0))
	if diff := cmp.Diff([]uint8{200, 0, 255, 1, 2, 0, 0, 127, 7, 1}, u8.Elements()); diff != "" {
		t.Errorf("Uint8Array mismatch (-want +got):\n%s", diff)
	}

	c8, err := NewTypedArray[Uint8Clamped](10)
	require.NoError(t, err)
	require.NoError(t, c8.Set(src, 0))
	if diff := cmp.Diff([]Uint8Clamped{200, 255, 0, 2, 2, 0, 255, 0, 7, 1}, c8.Elements()); diff != "" {
		t.Errorf("Uint8ClampedArray mismatch (-want +got):\n%s", diff)
	}

	i16 := TypedArrayOf[int16](0, 0)
	require.NoError(t, i16.Set(NewArray(40000, -40000), 0))
	assert.Equal(t, []int16{-25536, 25536}, i16.Elements())

	u32 := TypedArrayOf[uint32](0, 0)
	require.NoError(t, u32.Set(NewArray(-1, 4294967297), 0))
	assert.Equal(t, []uint32{4294967295, 1}, u32.Elements())

	f32 := TypedArrayOf[float32](0)
	require.NoError(t, f32.Set(NewArray(0.1), 0))
	assert.Equal(t, float32(0.1), f32.Index(0))
}

func TestTypedArrayLayout(t *testing.T) {
	a := TypedArrayOf[uint16](0x0102, 0x0304)
	assert.Equal(t, 2, a.Length())
	assert.Equal(t, 4, a.ByteLength())
	assert.Equal(t, 0, a.ByteOffset())
	assert.Equal(t, []byte{0x02, 0x01, 0x04, 0x03}, a.Buffer().Bytes())
}

func TestSubarraySharesBuffer(t *testing.T) {
	a := TypedArrayOf[int16](1, 2, 3, 4, 5)
	s := a.Subarray(1, -1)
	assert.Equal(t, []int16{2, 3, 4}, s.Elements())
	assert.Equal(t, 2, s.ByteOffset())
	assert.True(t, s.Buffer().Equal(a.Buffer().Value))

	s.SetIndex(0, 9)
	assert.Equal(t, int16(9), a.Index(1))

	assert.Equal(t, 0, a.Subarray(4, 2).Length())
	assert.Equal(t, 5, a.Subarray(-100, 100).Length())
}

func TestSliceCopies(t *testing.T) {
	a := TypedArrayOf[float64](1, 2, 3)
	s := a.Slice(1, 3)
	assert.Equal(t, []float64{2, 3}, s.Elements())
	assert.Equal(t, 0, s.ByteOffset())
	assert.False(t, s.Buffer().Equal(a.Buffer().Value))

	s.SetIndex(0, 7)
	assert.Equal(t, float64(2), a.Index(1))
}

func TestSetOverlappingViews(t *testing.T) {
	buf, err := NewArrayBuffer(8)
	require.NoError(t, err)
	src, err := NewTypedArrayFromBuffer[uint8](buf, 0, 4)
	require.NoError(t, err)
	require.NoError(t, src.Set(NewArray(1, 2, 3, 4), 0))

	dst, err := NewTypedArrayFromBuffer[uint16](buf, 0, -1)
	require.NoError(t, err)
	require.NoError(t, dst.Set(src.Value, 0))
	assert.Equal(t, []uint16{1, 2, 3, 4}, dst.Elements())
}

func TestSetSameKindCopiesBytes(t *testing.T) {
	a := TypedArrayOf[int32](1, 2, 3, 4)
	require.NoError(t, a.Set(a.Subarray(0, 2).Value, 2))
	assert.Equal(t, []int32{1, 2, 1, 2}, a.Elements())
}

func TestSetSources(t *testing.T) {
	a := TypedArrayOf[uint8](0, 0, 0)
	require.NoError(t, a.Set(ValueOf("12"), 1))
	assert.Equal(t, []uint8{0, 1, 2}, a.Elements())

	o := NewObject()
	o.Set("length", 2)
	o.Set("0", 5)
	o.Set("1", 6)
	require.NoError(t, a.Set(o.Value, 0))
	assert.Equal(t, []uint8{5, 6, 2}, a.Elements())

	require.NoError(t, a.Set(ValueOf(42), 0))
	assert.Equal(t, []uint8{5, 6, 2}, a.Elements())
}

func TestSetErrors(t *testing.T) {
	a := TypedArrayOf[uint8](0, 0, 0, 0)
	requireException(t, a.Set(Undefined(), 0), "TypeError")
	requireException(t, a.Set(Null(), 0), "TypeError")
	requireException(t, a.Set(NewArray(1, 2, 3), 2), "RangeError")
	requireException(t, a.Set(NewArray(), -1), "RangeError")
	requireException(t, a.Set(TypedArrayOf[int8](1, 2).Value, 3), "RangeError")
	assert.Equal(t, []uint8{0, 0, 0, 0}, a.Elements())
}

func TestNewTypedArrayFromBuffer(t *testing.T) {
	buf, err := NewArrayBuffer(6)
	require.NoError(t, err)

	_, err = NewTypedArrayFromBuffer[int32](buf, 2, 1)
	requireException(t, err, "RangeError")

	_, err = NewTypedArrayFromBuffer[int32](buf, 0, -1)
	requireException(t, err, "RangeError")

	_, err = NewTypedArrayFromBuffer[int16](buf, 2, 3)
	requireException(t, err, "RangeError")

	_, err = NewTypedArrayFromBuffer[uint8](buf, 7, -1)
	requireException(t, err, "RangeError")

	v, err := NewTypedArrayFromBuffer[int16](buf, 2, -1)
	require.NoError(t, err)
	assert.Equal(t, 2, v.Length())
	assert.Equal(t, 2, v.ByteOffset())

	_, err = NewTypedArray[float64](-1)
	requireException(t, err, "RangeError")
}

func TestAsIsExclusive(t *testing.T) {
	v := TypedArrayOf[uint8](1).Value

	_, ok := As[uint8](v)
	assert.True(t, ok)
	_, ok = As[Uint8Clamped](v)
	assert.False(t, ok)
	_, ok = As[int8](v)
	assert.False(t, ok)
	_, ok = As[uint8](NewArray(1))
	assert.False(t, ok)
	_, ok = As[uint8](Undefined())
	assert.False(t, ok)
}

func TestTypedArrayString(t *testing.T) {
	assert.Equal(t, "1,0.5,-2", TypedArrayOf[float64](1, 0.5, -2).String())
	assert.Equal(t, "", TypedArrayOf[int8]().String())
}

func TestIndexOutOfRangePanics(t *testing.T) {
	a := TypedArrayOf[uint8](1)
	assert.Panics(t, func() { a.Index(1) })
	assert.Panics(t, func() { a.SetIndex(-1, 0) })
	assert.True(t, a.Value.Index(1).IsUndefined())
}

func TestArrayBufferSlice(t *testing.T) {
	b := ArrayBufferOf([]byte{1, 2, 3, 4, 5})
	assert.Equal(t, []byte{2, 3, 4}, b.Slice(1, -1).Bytes())
	assert.Equal(t, []byte{}, b.Slice(3, 1).Bytes())
	assert.Equal(t, 5, b.ByteLength())

	_, err := NewArrayBuffer(-1)
	requireException(t, err, "RangeError")
}
