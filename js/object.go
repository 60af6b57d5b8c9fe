package js

import (
	"strconv"
)

// Object is a host value of object type.
type Object struct {
	Value
}

// NewObject returns a new empty plain object.
func NewObject() Object {
	return Object{Value{x: newObject()}}
}

// NewArray returns a new array holding ValueOf of each element.
func NewArray(elems ...interface{}) Value {
	return Value{x: &arrayObject{elems: valuesOf(elems)}}
}

// Keys returns the own property names of o in insertion order.
func (o Object) Keys() []string {
	switch x := o.x.(type) {
	case *object:
		return append([]string(nil), x.keys...)
	case *function:
		return append([]string(nil), x.keys...)
	case *arrayObject:
		keys := make([]string, len(x.elems))
		for i := range keys {
			keys[i] = strconv.Itoa(i)
		}
		return keys
	}
	return nil
}

type object struct {
	props map[string]Value
	keys  []string
}

func newObject() *object {
	return &object{props: make(map[string]Value)}
}

func (o *object) get(name string) Value {
	return o.props[name]
}

func (o *object) set(name string, v Value) {
	if o.props == nil {
		o.props = make(map[string]Value)
	}
	if _, ok := o.props[name]; !ok {
		o.keys = append(o.keys, name)
	}
	o.props[name] = v
}

func (o *object) delete(name string) {
	if _, ok := o.props[name]; !ok {
		return
	}
	delete(o.props, name)
	for i, k := range o.keys {
		if k == name {
			o.keys = append(o.keys[:i], o.keys[i+1:]...)
			break
		}
	}
}

type arrayObject struct {
	elems []Value
}

func (a *arrayObject) get(name string) Value {
	if name == "length" {
		return Value{x: float64(len(a.elems))}
	}
	if i, err := strconv.Atoi(name); err == nil && i >= 0 && i < len(a.elems) {
		return a.elems[i]
	}
	return Undefined()
}

func (a *arrayObject) set(name string, v Value) {
	if name == "length" {
		n := toLength(v)
		if n < len(a.elems) {
			a.elems = a.elems[:n]
		} else {
			a.elems = append(a.elems, make([]Value, n-len(a.elems))...)
		}
		return
	}
	if i, err := strconv.Atoi(name); err == nil {
		a.setIndex(i, v)
	}
}

func (a *arrayObject) setIndex(i int, v Value) {
	if i < 0 {
		return
	}
	if i >= len(a.elems) {
		a.elems = append(a.elems, make([]Value, i+1-len(a.elems))...)
	}
	a.elems[i] = v
}
