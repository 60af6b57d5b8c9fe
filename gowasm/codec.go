package gowasm

import (
	"encoding/binary"
	"fmt"
	"math"
	"reflect"
)

// slotSize is the stride of arguments and results on the guest stack.
const slotSize = 8

var le = binary.LittleEndian

// Decoder reads function arguments from guest memory. Every scalar takes one
// slot, a string two (ptr, len) and a slice three (ptr, len, cap).
type Decoder struct {
	mem []byte
	off int64
}

func NewDecoder(mem []byte, off int64) *Decoder {
	return &Decoder{mem: mem, off: off}
}

// Offset returns the offset of the next slot.
func (d *Decoder) Offset() int64 {
	return d.off
}

// Decode decodes the next argument into the value ptr points to.
func (d *Decoder) Decode(ptr reflect.Value) error {
	if ptr.Kind() != reflect.Ptr || ptr.IsNil() {
		return fmt.Errorf("decode into non-pointer %s", ptr.Type())
	}
	return d.decode(ptr.Elem())
}

func (d *Decoder) slot() ([]byte, error) {
	b, err := d.bytes(d.off, slotSize)
	if err != nil {
		return nil, err
	}
	d.off += slotSize
	return b, nil
}

func (d *Decoder) bytes(p, n int64) ([]byte, error) {
	if p < 0 || n < 0 || p+n > int64(len(d.mem)) {
		return nil, fmt.Errorf("memory access [%d, %d) out of range %d", p, p+n, len(d.mem))
	}
	return d.mem[p : p+n : p+n], nil
}

func (d *Decoder) int64() (int64, error) {
	b, err := d.slot()
	if err != nil {
		return 0, err
	}
	return int64(le.Uint64(b)), nil
}

func (d *Decoder) decode(v reflect.Value) error {
	switch v.Kind() {
	case reflect.Bool:
		b, err := d.slot()
		if err != nil {
			return err
		}
		v.SetBool(b[0] != 0)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		b, err := d.slot()
		if err != nil {
			return err
		}
		size := uint(v.Type().Size())
		shift := 64 - 8*size
		v.SetInt(int64(readUint(b, size)<<shift) >> shift)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		b, err := d.slot()
		if err != nil {
			return err
		}
		v.SetUint(readUint(b, uint(v.Type().Size())))
	case reflect.Float32:
		b, err := d.slot()
		if err != nil {
			return err
		}
		v.SetFloat(float64(math.Float32frombits(le.Uint32(b))))
	case reflect.Float64:
		b, err := d.slot()
		if err != nil {
			return err
		}
		v.SetFloat(math.Float64frombits(le.Uint64(b)))
	case reflect.String:
		p, err := d.int64()
		if err != nil {
			return err
		}
		n, err := d.int64()
		if err != nil {
			return err
		}
		b, err := d.bytes(p, n)
		if err != nil {
			return err
		}
		v.SetString(string(b))
	case reflect.Slice:
		return d.decodeSlice(v)
	default:
		return fmt.Errorf("unsupported argument type %s", v.Type())
	}
	return nil
}

func (d *Decoder) decodeSlice(v reflect.Value) error {
	p, err := d.int64()
	if err != nil {
		return err
	}
	n, err := d.int64()
	if err != nil {
		return err
	}
	// cap
	if _, err := d.slot(); err != nil {
		return err
	}

	elem := v.Type().Elem()
	if elem.Kind() == reflect.Uint8 {
		b, err := d.bytes(p, n)
		if err != nil {
			return err
		}
		v.SetBytes(b)
		return nil
	}
	if elem.Size() != slotSize {
		return fmt.Errorf("unsupported slice element type %s", elem)
	}
	if _, err := d.bytes(p, n*slotSize); err != nil {
		return err
	}
	s := reflect.MakeSlice(v.Type(), int(n), int(n))
	sub := NewDecoder(d.mem, p)
	for i := 0; i < int(n); i++ {
		if err := sub.decode(s.Index(i)); err != nil {
			return err
		}
	}
	v.Set(s)
	return nil
}

func readUint(b []byte, size uint) uint64 {
	switch size {
	case 1:
		return uint64(b[0])
	case 2:
		return uint64(le.Uint16(b))
	case 4:
		return uint64(le.Uint32(b))
	}
	return le.Uint64(b)
}

// Encoder writes function results to guest memory, one slot per value.
type Encoder struct {
	mem []byte
	off int64
}

func NewEncoder(mem []byte, off int64) *Encoder {
	return &Encoder{mem: mem, off: off}
}

func (e *Encoder) Offset() int64 {
	return e.off
}

// Encode writes v into the next slot.
func (e *Encoder) Encode(v reflect.Value) error {
	if e.off < 0 || e.off+slotSize > int64(len(e.mem)) {
		return fmt.Errorf("memory access [%d, %d) out of range %d", e.off, e.off+slotSize, len(e.mem))
	}
	b := e.mem[e.off : e.off+slotSize]
	switch v.Kind() {
	case reflect.Bool:
		if v.Bool() {
			b[0] = 1
		} else {
			b[0] = 0
		}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		writeUint(b, uint(v.Type().Size()), uint64(v.Int()))
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		writeUint(b, uint(v.Type().Size()), v.Uint())
	case reflect.Float32:
		le.PutUint32(b, math.Float32bits(float32(v.Float())))
	case reflect.Float64:
		le.PutUint64(b, math.Float64bits(v.Float()))
	default:
		return fmt.Errorf("unsupported result type %s", v.Type())
	}
	e.off += slotSize
	return nil
}

func writeUint(b []byte, size uint, x uint64) {
	switch size {
	case 1:
		b[0] = byte(x)
	case 2:
		le.PutUint16(b, uint16(x))
	case 4:
		le.PutUint32(b, uint32(x))
	default:
		le.PutUint64(b, x)
	}
}
