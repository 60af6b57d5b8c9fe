package js

import (
	"fmt"
	"reflect"
	"unicode"
	"unicode/utf8"
)

// Getter lets a Go value exposed through ValueOf resolve its own properties.
type Getter interface {
	Get(property string) (interface{}, bool)
}

// goObject exposes a Go value to the host. Exported fields, methods and map
// entries are reachable by their lower camel case names.
type goObject struct {
	v reflect.Value
}

var (
	errorType = reflect.TypeOf((*error)(nil)).Elem()
	valueType = reflect.TypeOf(Value{})
)

func reflectValue(v reflect.Value) Value {
	if !v.IsValid() {
		return Null()
	}
	if v.Kind() == reflect.Func {
		if v.IsNil() {
			return Null()
		}
		return Value{x: &function{name: v.Type().String(), call: reflectCall(v)}}
	}
	return Value{x: &goObject{v: v}}
}

func (o *goObject) String() string {
	return fmt.Sprint(o.v.Interface())
}

func (o *goObject) get(name string) Value {
	prop, ok := o.property(name)
	if !ok {
		return Undefined()
	}
	return ValueOf(prop)
}

func (o *goObject) property(name string) (interface{}, bool) {
	p := o.v
	if g, ok := p.Interface().(Getter); ok {
		return g.Get(name)
	}

	if p.Kind() == reflect.Map {
		if p.Type().Key().Kind() != reflect.String {
			return nil, false
		}
		e := p.MapIndex(reflect.ValueOf(name).Convert(p.Type().Key()))
		if e.IsValid() {
			return e.Interface(), true
		}
		return nil, false
	}

	name = exportedName(name)
	if m := p.MethodByName(name); m.IsValid() {
		return reflectValue(m), true
	}

	// FieldByName must not be a ptr
	if p.Kind() == reflect.Ptr {
		if p.IsNil() {
			return nil, false
		}
		p = p.Elem()
	}
	if p.Kind() != reflect.Struct {
		return nil, false
	}
	f := p.FieldByName(name)
	if f.IsValid() && f.CanInterface() {
		return f.Interface(), true
	}
	return nil, false
}

func (o *goObject) set(name string, v Value) {
	p := o.v
	if p.Kind() == reflect.Map && p.Type().Key().Kind() == reflect.String {
		x, err := convertArg(v, p.Type().Elem())
		if err == nil {
			p.SetMapIndex(reflect.ValueOf(name).Convert(p.Type().Key()), x)
		}
		return
	}
	if p.Kind() != reflect.Ptr || p.IsNil() || p.Elem().Kind() != reflect.Struct {
		return
	}
	f := p.Elem().FieldByName(exportedName(name))
	if !f.IsValid() || !f.CanSet() {
		return
	}
	if x, err := convertArg(v, f.Type()); err == nil {
		f.Set(x)
	}
}

func exportedName(name string) string {
	r, n := utf8.DecodeRuneInString(name)
	if r == utf8.RuneError {
		return name
	}
	return string(unicode.ToUpper(r)) + name[n:]
}

func reflectCall(f reflect.Value) func(this Value, args []Value) (Value, error) {
	t := f.Type()
	return func(_ Value, args []Value) (Value, error) {
		if t.IsVariadic() || len(args) < t.NumIn() {
			return Undefined(), NewTypeError("%s expects %d arguments, got %d", t, t.NumIn(), len(args))
		}
		in := make([]reflect.Value, t.NumIn())
		for i := range in {
			x, err := convertArg(args[i], t.In(i))
			if err != nil {
				return Undefined(), err
			}
			in[i] = x
		}
		out := f.Call(in)
		if n := len(out); n > 0 && t.Out(n-1) == errorType {
			if err, _ := out[n-1].Interface().(error); err != nil {
				return Undefined(), err
			}
			out = out[:n-1]
		}
		if len(out) == 0 {
			return Undefined(), nil
		}
		return ValueOf(out[0].Interface()), nil
	}
}

// convertArg converts a host value to a Go value of type t.
func convertArg(v Value, t reflect.Type) (reflect.Value, error) {
	if t == valueType {
		return reflect.ValueOf(v), nil
	}
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return reflect.ValueOf(toNumber(v)).Convert(t), nil
	case reflect.String:
		return reflect.ValueOf(v.String()).Convert(t), nil
	case reflect.Bool:
		return reflect.ValueOf(v.Truthy()).Convert(t), nil
	case reflect.Interface:
		if o, ok := v.x.(*goObject); ok && o.v.Type().AssignableTo(t) {
			return o.v, nil
		}
		if reflect.TypeOf(v).AssignableTo(t) {
			return reflect.ValueOf(v), nil
		}
	default:
		if o, ok := v.x.(*goObject); ok && o.v.Type().AssignableTo(t) {
			return o.v, nil
		}
	}
	return reflect.Value{}, NewTypeError("cannot use %s as %s", v.Type(), t)
}
