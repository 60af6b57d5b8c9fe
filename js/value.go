package js

import (
	"math"
	"reflect"
	"strconv"
	"strings"
	"unicode/utf16"
)

// Type represents the JavaScript type of a Value.
type Type int

const (
	TypeUndefined Type = iota
	TypeNull
	TypeBoolean
	TypeNumber
	TypeString
	TypeObject
	TypeFunction
)

func (t Type) String() string {
	switch t {
	case TypeUndefined:
		return "undefined"
	case TypeNull:
		return "null"
	case TypeBoolean:
		return "boolean"
	case TypeNumber:
		return "number"
	case TypeString:
		return "string"
	case TypeObject:
		return "object"
	case TypeFunction:
		return "function"
	}
	return "Type(" + strconv.Itoa(int(t)) + ")"
}

type null struct{}

// Value is an untyped host value. The zero Value is undefined.
//
// Values are references: copying a Value never copies the object behind it.
type Value struct {
	x interface{}
}

// Wrapper is implemented by types that are backed by a host Value.
type Wrapper interface {
	JSValue() Value
}

// ValueError is the panic value of an accessor called on a Value of the
// wrong type.
type ValueError struct {
	Method string
	Type   Type
}

func (e *ValueError) Error() string {
	return "js: call of " + e.Method + " on " + e.Type.String()
}

// Undefined returns the undefined value.
func Undefined() Value {
	return Value{}
}

// Null returns the null value.
func Null() Value {
	return Value{x: null{}}
}

// ValueOf returns x as a host value.
//
//	| Go                                          | host              |
//	| ------------------------------------------- | ----------------- |
//	| nil                                         | null              |
//	| Value, Wrapper                              | the wrapped value |
//	| bool                                        | boolean           |
//	| integers and floats                         | number            |
//	| string                                      | string            |
//	| []interface{}                               | new array         |
//	| map[string]interface{}                      | new object        |
//	| func(Value, []Value) (interface{}, error)   | function          |
//	| anything else                               | reflected object  |
func ValueOf(x interface{}) Value {
	switch x := x.(type) {
	case nil:
		return Null()
	case Value:
		return x
	case Wrapper:
		return x.JSValue()
	case bool:
		return Value{x: x}
	case int:
		return Value{x: float64(x)}
	case int8:
		return Value{x: float64(x)}
	case int16:
		return Value{x: float64(x)}
	case int32:
		return Value{x: float64(x)}
	case int64:
		return Value{x: float64(x)}
	case uint:
		return Value{x: float64(x)}
	case uint8:
		return Value{x: float64(x)}
	case uint16:
		return Value{x: float64(x)}
	case uint32:
		return Value{x: float64(x)}
	case uint64:
		return Value{x: float64(x)}
	case uintptr:
		return Value{x: float64(x)}
	case float32:
		return Value{x: float64(x)}
	case float64:
		return Value{x: x}
	case string:
		return Value{x: x}
	case []interface{}:
		return NewArray(x...)
	case map[string]interface{}:
		o := NewObject()
		for k, v := range x {
			o.Set(k, v)
		}
		return o.Value
	case func(this Value, args []Value) (interface{}, error):
		return FuncOf("", x)
	}
	return reflectValue(reflect.ValueOf(x))
}

// JSValue implements Wrapper.
func (v Value) JSValue() Value {
	return v
}

// Type returns the JavaScript type of v.
func (v Value) Type() Type {
	switch v.x.(type) {
	case nil:
		return TypeUndefined
	case null:
		return TypeNull
	case bool:
		return TypeBoolean
	case float64:
		return TypeNumber
	case string:
		return TypeString
	case *function:
		return TypeFunction
	}
	return TypeObject
}

func (v Value) IsUndefined() bool {
	return v.x == nil
}

func (v Value) IsNull() bool {
	_, ok := v.x.(null)
	return ok
}

// Equal reports whether v and w are strictly equal. Objects compare by
// identity.
func (v Value) Equal(w Value) bool {
	if f, ok := v.x.(float64); ok {
		g, ok := w.x.(float64)
		return ok && f == g
	}
	return v.x == w.x
}

// Bool returns the boolean held by v. It panics if v is not a boolean.
func (v Value) Bool() bool {
	b, ok := v.x.(bool)
	if !ok {
		panic(&ValueError{"Value.Bool", v.Type()})
	}
	return b
}

// Float returns the number held by v. It panics if v is not a number.
func (v Value) Float() float64 {
	f, ok := v.x.(float64)
	if !ok {
		panic(&ValueError{"Value.Float", v.Type()})
	}
	return f
}

// Int returns the number held by v truncated to an int. It panics if v is
// not a number.
func (v Value) Int() int {
	f, ok := v.x.(float64)
	if !ok {
		panic(&ValueError{"Value.Int", v.Type()})
	}
	return int(f)
}

// Truthy implements ECMAScript ToBoolean.
func (v Value) Truthy() bool {
	switch x := v.x.(type) {
	case nil, null:
		return false
	case bool:
		return x
	case float64:
		return x != 0 && !math.IsNaN(x)
	case string:
		return x != ""
	}
	return true
}

// String implements ECMAScript ToString.
func (v Value) String() string {
	switch x := v.x.(type) {
	case nil:
		return "undefined"
	case null:
		return "null"
	case bool:
		return strconv.FormatBool(x)
	case float64:
		return formatNumber(x)
	case string:
		return x
	case *arrayObject:
		parts := make([]string, len(x.elems))
		for i, e := range x.elems {
			if e.IsUndefined() || e.IsNull() {
				continue
			}
			parts[i] = e.String()
		}
		return strings.Join(parts, ",")
	case *typedArray:
		parts := make([]string, x.length)
		for i := range parts {
			parts[i] = formatNumber(x.get(i))
		}
		return strings.Join(parts, ",")
	case *arrayBuffer:
		return "[object ArrayBuffer]"
	case *function:
		return "function " + x.name + "() { [native code] }"
	case *Exception:
		return x.Name + ": " + x.Message
	case *goObject:
		return x.String()
	}
	return "[object Object]"
}

// Get returns the property name of v. Typed arrays expose their accessors
// only through their concrete types, so Get returns undefined for them.
func (v Value) Get(name string) Value {
	switch x := v.x.(type) {
	case string:
		if name == "length" {
			return Value{x: float64(utf16Len(x))}
		}
	case *object:
		return x.get(name)
	case *arrayObject:
		return x.get(name)
	case *function:
		if name == "name" {
			return Value{x: x.name}
		}
		return x.get(name)
	case *arrayBuffer:
		if name == "byteLength" {
			return Value{x: float64(len(x.data))}
		}
	case *Exception:
		switch name {
		case "name":
			return Value{x: x.Name}
		case "message":
			return Value{x: x.Message}
		}
	case *goObject:
		return x.get(name)
	}
	return Undefined()
}

// Set sets the property name of v to ValueOf(x). It is a no-op for
// primitives.
func (v Value) Set(name string, x interface{}) {
	switch o := v.x.(type) {
	case *object:
		o.set(name, ValueOf(x))
	case *function:
		o.set(name, ValueOf(x))
	case *arrayObject:
		o.set(name, ValueOf(x))
	case *goObject:
		o.set(name, ValueOf(x))
	}
}

// Delete removes the property name of v.
func (v Value) Delete(name string) {
	switch o := v.x.(type) {
	case *object:
		o.delete(name)
	case *function:
		o.delete(name)
	}
}

// Index returns the element i of v. Out of range reads yield undefined.
func (v Value) Index(i int) Value {
	switch x := v.x.(type) {
	case *arrayObject:
		if i >= 0 && i < len(x.elems) {
			return x.elems[i]
		}
		return Undefined()
	case *typedArray:
		if i >= 0 && i < x.length {
			return Value{x: x.get(i)}
		}
		return Undefined()
	case string:
		u := utf16.Encode([]rune(x))
		if i >= 0 && i < len(u) {
			return Value{x: string(utf16.Decode(u[i : i+1]))}
		}
		return Undefined()
	}
	return v.Get(strconv.Itoa(i))
}

// SetIndex sets the element i of v to ValueOf(x). Out of range writes to a
// typed array are ignored.
func (v Value) SetIndex(i int, x interface{}) {
	switch o := v.x.(type) {
	case *arrayObject:
		o.setIndex(i, ValueOf(x))
	case *typedArray:
		if i >= 0 && i < o.length {
			o.put(i, toNumber(ValueOf(x)))
		}
	default:
		v.Set(strconv.Itoa(i), x)
	}
}

// Length returns the length property of v as an int.
func (v Value) Length() int {
	switch x := v.x.(type) {
	case string:
		return utf16Len(x)
	case *arrayObject:
		return len(x.elems)
	}
	return toLength(v.Get("length"))
}

// Call calls the method name of v with the given arguments.
func (v Value) Call(name string, args ...interface{}) (Value, error) {
	m := v.Get(name)
	f, ok := m.x.(*function)
	if !ok {
		return Undefined(), NewTypeError("%s.%s is not a function", v.describe(), name)
	}
	return f.invoke(v, valuesOf(args))
}

// Invoke calls v as a function with an undefined receiver.
func (v Value) Invoke(args ...interface{}) (Value, error) {
	f, ok := v.x.(*function)
	if !ok {
		return Undefined(), NewTypeError("%s is not a function", v.describe())
	}
	return f.invoke(Undefined(), valuesOf(args))
}

// New calls v as a constructor.
func (v Value) New(args ...interface{}) (Value, error) {
	f, ok := v.x.(*function)
	if !ok || f.construct == nil {
		return Undefined(), NewTypeError("%s is not a constructor", v.describe())
	}
	return f.construct(valuesOf(args))
}

// InstanceOf reports whether v was created by the constructor t.
func (v Value) InstanceOf(t Value) bool {
	f, ok := t.x.(*function)
	if !ok || f.instance == nil {
		return false
	}
	return f.instance(v.x)
}

func (v Value) describe() string {
	switch x := v.x.(type) {
	case *function:
		return x.name
	case *typedArray:
		return x.class.name
	case string:
		return strconv.Quote(x)
	}
	if v.Type() == TypeObject {
		return "object"
	}
	return v.String()
}

func valuesOf(args []interface{}) []Value {
	vs := make([]Value, len(args))
	for i, a := range args {
		vs[i] = ValueOf(a)
	}
	return vs
}

func utf16Len(s string) int {
	n := 0
	for _, r := range s {
		n += utf16.RuneLen(r)
	}
	return n
}

// toNumber implements ECMAScript ToNumber for primitives. Objects other than
// single element arrays convert to NaN.
func toNumber(v Value) float64 {
	switch x := v.x.(type) {
	case nil:
		return math.NaN()
	case null:
		return 0
	case bool:
		if x {
			return 1
		}
		return 0
	case float64:
		return x
	case string:
		return stringToNumber(x)
	case *arrayObject:
		return stringToNumber(v.String())
	}
	return math.NaN()
}

// toIntegerOrInfinity implements ECMAScript ToIntegerOrInfinity.
func toIntegerOrInfinity(v Value) float64 {
	f := toNumber(v)
	if math.IsNaN(f) {
		return 0
	}
	return math.Trunc(f)
}

// toLength implements ECMAScript ToLength clamped to the int range.
func toLength(v Value) int {
	f := toIntegerOrInfinity(v)
	if f <= 0 {
		return 0
	}
	if f >= math.MaxInt32 {
		return math.MaxInt32
	}
	return int(f)
}

func stringToNumber(s string) float64 {
	s = strings.TrimSpace(s)
	switch s {
	case "":
		return 0
	case "Infinity", "+Infinity":
		return math.Inf(1)
	case "-Infinity":
		return math.Inf(-1)
	}
	if len(s) > 2 && s[0] == '0' {
		base := 0
		switch s[1] | 0x20 {
		case 'x':
			base = 16
		case 'o':
			base = 8
		case 'b':
			base = 2
		}
		if base != 0 {
			n, err := strconv.ParseUint(s[2:], base, 64)
			if err != nil {
				return math.NaN()
			}
			return float64(n)
		}
	}
	for _, c := range s {
		if (c < '0' || c > '9') && c != '.' && c != 'e' && c != 'E' && c != '+' && c != '-' {
			return math.NaN()
		}
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		if ne, ok := err.(*strconv.NumError); ok && ne.Err == strconv.ErrRange {
			return f
		}
		return math.NaN()
	}
	return f
}

// formatNumber implements ECMAScript Number::toString for radix 10.
func formatNumber(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case f == 0:
		return "0"
	}
	if a := math.Abs(f); a >= 1e-6 && a < 1e21 {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	s := strconv.FormatFloat(f, 'e', -1, 64)
	mant, exp, _ := strings.Cut(s, "e")
	sign := exp[:1]
	exp = strings.TrimLeft(exp[1:], "0")
	return mant + "e" + sign + exp
}
