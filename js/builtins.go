package js

import (
	"math"
)

var (
	objectConstructor      = newObjectConstructor()
	arrayConstructor       = newArrayConstructor()
	arrayBufferConstructor = newArrayBufferConstructor()
)

func newObjectConstructor() Value {
	fn := func(args []Value) (Value, error) {
		if v := arg(args, 0); v.Type() == TypeObject || v.Type() == TypeFunction {
			return v, nil
		}
		return NewObject().Value, nil
	}
	ctor := constructorOf("Object", fn, func(x interface{}) bool {
		switch x.(type) {
		case nil, null, bool, float64, string:
			return false
		}
		return true
	})
	ctor.x.(*function).call = func(_ Value, args []Value) (Value, error) {
		return fn(args)
	}
	return ctor
}

func newArrayConstructor() Value {
	fn := func(args []Value) (Value, error) {
		if len(args) == 1 && args[0].Type() == TypeNumber {
			f := args[0].Float()
			if f < 0 || f != math.Trunc(f) || f > math.MaxUint32 {
				return Undefined(), NewRangeError("Invalid array length")
			}
			return Value{x: &arrayObject{elems: make([]Value, int(f))}}, nil
		}
		return Value{x: &arrayObject{elems: append([]Value(nil), args...)}}, nil
	}
	ctor := constructorOf("Array", fn, func(x interface{}) bool {
		_, ok := x.(*arrayObject)
		return ok
	})
	ctor.x.(*function).call = func(_ Value, args []Value) (Value, error) {
		return fn(args)
	}
	return ctor
}

func newArrayBufferConstructor() Value {
	return constructorOf("ArrayBuffer", func(args []Value) (Value, error) {
		n, err := toIndex(arg(args, 0), "Array buffer allocation failed")
		if err != nil {
			return Undefined(), err
		}
		b, err := NewArrayBuffer(n)
		if err != nil {
			return Undefined(), err
		}
		return b.Value, nil
	}, func(x interface{}) bool {
		_, ok := x.(*arrayBuffer)
		return ok
	})
}

func newTypedArrayConstructor(c *class) Value {
	ctor := constructorOf(c.name, func(args []Value) (Value, error) {
		a, err := constructTypedArray(c, args)
		if err != nil {
			return Undefined(), err
		}
		return Value{x: a}, nil
	}, func(x interface{}) bool {
		a, ok := x.(*typedArray)
		return ok && a.class == c
	})
	ctor.Set("BYTES_PER_ELEMENT", c.size)
	return ctor
}

func newErrorConstructor(name string) Value {
	return constructorOf(name, func(args []Value) (Value, error) {
		e := &Exception{Name: name}
		if m := arg(args, 0); !m.IsUndefined() {
			e.Message = m.String()
		}
		return Value{x: e}, nil
	}, func(x interface{}) bool {
		e, ok := x.(*Exception)
		return ok && (name == "Error" || e.Name == name)
	})
}

// constructTypedArray implements the typed array constructor overloads:
// (length), (typedArray), (arrayLike) and (buffer, byteOffset, length).
func constructTypedArray(c *class, args []Value) (*typedArray, error) {
	first := arg(args, 0)
	switch x := first.x.(type) {
	case *arrayBuffer:
		off, err := toIndex(arg(args, 1), "Start offset")
		if err != nil {
			return nil, err
		}
		length := -1
		if l := arg(args, 2); !l.IsUndefined() {
			if length, err = toIndex(l, "Invalid typed array length"); err != nil {
				return nil, err
			}
		}
		return viewTypedArray(c, x, off, length)
	case *typedArray:
		a, err := allocTypedArray(c, x.length)
		if err != nil {
			return nil, err
		}
		return a, a.setTypedArray(x, 0)
	case *arrayObject, *object, *function, *goObject, *Exception:
		a, err := allocTypedArray(c, first.Length())
		if err != nil {
			return nil, err
		}
		return a, a.set(first, 0)
	}
	n, err := toIndex(first, "Invalid typed array length")
	if err != nil {
		return nil, err
	}
	return allocTypedArray(c, n)
}

// toIndex implements ECMAScript ToIndex limited to the uint32 range.
func toIndex(v Value, what string) (int, error) {
	f := toIntegerOrInfinity(v)
	if f < 0 || f > math.MaxUint32 {
		return 0, NewRangeError("%s: %s", what, formatNumber(f))
	}
	return int(f), nil
}
