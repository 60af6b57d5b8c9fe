package typedarray

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/icexin/typedarray/js"
)

// Kind identifies which of the nine typed array types a TypedArray holds.
type Kind uint8

const (
	Int8 Kind = iota
	Uint8
	Uint8Clamped
	Int16
	Uint16
	Int32
	Uint32
	Float32
	Float64
)

// Kinds lists every kind in the order DynInto probes them.
var Kinds = []Kind{Int8, Uint8, Uint8Clamped, Int16, Uint16, Int32, Uint32, Float32, Float64}

var kindInfo = [...]struct {
	name string
	tag  string
	size int
}{
	Int8:         {"Int8Array", "i8", 1},
	Uint8:        {"Uint8Array", "u8", 1},
	Uint8Clamped: {"Uint8ClampedArray", "u8c", 1},
	Int16:        {"Int16Array", "i16", 2},
	Uint16:       {"Uint16Array", "u16", 2},
	Int32:        {"Int32Array", "i32", 4},
	Uint32:       {"Uint32Array", "u32", 4},
	Float32:      {"Float32Array", "f32", 4},
	Float64:      {"Float64Array", "f64", 8},
}

func (k Kind) valid() bool {
	return int(k) < len(kindInfo)
}

// String returns the host constructor name of k.
func (k Kind) String() string {
	if !k.valid() {
		return "Kind(" + strconv.Itoa(int(k)) + ")"
	}
	return kindInfo[k].name
}

// ElementSize returns the size in bytes of one element of k.
func (k Kind) ElementSize() int {
	if !k.valid() {
		return 0
	}
	return kindInfo[k].size
}

// ParseKind parses a constructor name such as "Uint16Array" or a short tag
// such as "u16".
func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds {
		info := kindInfo[k]
		if strings.EqualFold(s, info.name) || strings.EqualFold(s, info.tag) {
			return k, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

func kindOf[E js.Element]() Kind {
	var e E
	switch any(e).(type) {
	case int8:
		return Int8
	case uint8:
		return Uint8
	case js.Uint8Clamped:
		return Uint8Clamped
	case int16:
		return Int16
	case uint16:
		return Uint16
	case int32:
		return Int32
	case uint32:
		return Uint32
	case float32:
		return Float32
	default:
		return Float64
	}
}
