package js

// function is a native host function. A function with a construct hook is a
// constructor; instance reports whether a payload was created by it.
type function struct {
	object
	name      string
	call      func(this Value, args []Value) (Value, error)
	construct func(args []Value) (Value, error)
	instance  func(x interface{}) bool
}

// FuncOf returns a host function named name that calls fn. The result of fn
// is converted with ValueOf.
func FuncOf(name string, fn func(this Value, args []Value) (interface{}, error)) Value {
	return Value{x: &function{
		name: name,
		call: func(this Value, args []Value) (Value, error) {
			ret, err := fn(this, args)
			if err != nil {
				return Undefined(), err
			}
			return ValueOf(ret), nil
		},
	}}
}

// constructorOf returns a constructor that is only callable with new.
func constructorOf(name string, construct func(args []Value) (Value, error), instance func(x interface{}) bool) Value {
	return Value{x: &function{
		name:      name,
		construct: construct,
		instance:  instance,
	}}
}

func (f *function) invoke(this Value, args []Value) (Value, error) {
	if f.call == nil {
		return Undefined(), NewTypeError("Constructor %s requires 'new'", f.name)
	}
	return f.call(this, args)
}

// arg returns args[i] or undefined.
func arg(args []Value, i int) Value {
	if i < len(args) {
		return args[i]
	}
	return Undefined()
}
