package js

import (
	"encoding/binary"
	"math"
)

// Uint8Clamped is the element type of Uint8ClampedArray. Stores saturate to
// [0, 255] instead of wrapping.
type Uint8Clamped uint8

// Element is the set of element types a TypedArray can hold.
type Element interface {
	int8 | uint8 | Uint8Clamped | int16 | uint16 | int32 | uint32 | float32 | float64
}

// class describes the element layout of one typed array constructor.
type class struct {
	name string
	size int
	get  func(b []byte) float64
	put  func(b []byte, f float64)
}

var le = binary.LittleEndian

var (
	int8Class = &class{
		name: "Int8Array",
		size: 1,
		get:  func(b []byte) float64 { return float64(int8(b[0])) },
		put:  func(b []byte, f float64) { b[0] = byte(toUint32(f)) },
	}
	uint8Class = &class{
		name: "Uint8Array",
		size: 1,
		get:  func(b []byte) float64 { return float64(b[0]) },
		put:  func(b []byte, f float64) { b[0] = byte(toUint32(f)) },
	}
	uint8ClampedClass = &class{
		name: "Uint8ClampedArray",
		size: 1,
		get:  func(b []byte) float64 { return float64(b[0]) },
		put:  func(b []byte, f float64) { b[0] = toUint8Clamp(f) },
	}
	int16Class = &class{
		name: "Int16Array",
		size: 2,
		get:  func(b []byte) float64 { return float64(int16(le.Uint16(b))) },
		put:  func(b []byte, f float64) { le.PutUint16(b, uint16(toUint32(f))) },
	}
	uint16Class = &class{
		name: "Uint16Array",
		size: 2,
		get:  func(b []byte) float64 { return float64(le.Uint16(b)) },
		put:  func(b []byte, f float64) { le.PutUint16(b, uint16(toUint32(f))) },
	}
	int32Class = &class{
		name: "Int32Array",
		size: 4,
		get:  func(b []byte) float64 { return float64(int32(le.Uint32(b))) },
		put:  func(b []byte, f float64) { le.PutUint32(b, toUint32(f)) },
	}
	uint32Class = &class{
		name: "Uint32Array",
		size: 4,
		get:  func(b []byte) float64 { return float64(le.Uint32(b)) },
		put:  func(b []byte, f float64) { le.PutUint32(b, toUint32(f)) },
	}
	float32Class = &class{
		name: "Float32Array",
		size: 4,
		get:  func(b []byte) float64 { return float64(math.Float32frombits(le.Uint32(b))) },
		put:  func(b []byte, f float64) { le.PutUint32(b, math.Float32bits(float32(f))) },
	}
	float64Class = &class{
		name: "Float64Array",
		size: 8,
		get:  func(b []byte) float64 { return math.Float64frombits(le.Uint64(b)) },
		put:  func(b []byte, f float64) { le.PutUint64(b, math.Float64bits(f)) },
	}
)

// classes in constructor registration order.
var classes = []*class{
	int8Class,
	uint8Class,
	uint8ClampedClass,
	int16Class,
	uint16Class,
	int32Class,
	uint32Class,
	float32Class,
	float64Class,
}

func classOf[E Element]() *class {
	var e E
	switch any(e).(type) {
	case int8:
		return int8Class
	case uint8:
		return uint8Class
	case Uint8Clamped:
		return uint8ClampedClass
	case int16:
		return int16Class
	case uint16:
		return uint16Class
	case int32:
		return int32Class
	case uint32:
		return uint32Class
	case float32:
		return float32Class
	default:
		return float64Class
	}
}

// toUint32 implements ECMAScript ToUint32. The narrower integer conversions
// are its low bits.
func toUint32(f float64) uint32 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	f = math.Mod(math.Trunc(f), 1<<32)
	if f < 0 {
		f += 1 << 32
	}
	return uint32(f)
}

func toUint8Clamp(f float64) uint8 {
	switch {
	case math.IsNaN(f), f <= 0:
		return 0
	case f >= 255:
		return 255
	}
	return uint8(math.RoundToEven(f))
}
