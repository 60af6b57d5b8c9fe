package js

// DefaultGlobal is the global object shared by every VM that is not given
// one explicitly.
var DefaultGlobal = NewGlobal()

// NewGlobal returns a global object holding the builtin constructors.
func NewGlobal() Object {
	g := NewObject()
	g.Set("Object", objectConstructor)
	g.Set("Array", arrayConstructor)
	g.Set("ArrayBuffer", arrayBufferConstructor)
	for _, c := range classes {
		g.Set(c.name, typedArrayConstructors[c])
	}
	for _, name := range []string{"Error", "RangeError", "TypeError"} {
		g.Set(name, errorConstructors[name])
	}
	g.Set("globalThis", g)
	return g
}

// Global returns DefaultGlobal.
func Global() Object {
	return DefaultGlobal
}

// Register sets the property name of DefaultGlobal.
func Register(name string, prop interface{}) {
	DefaultGlobal.Set(name, prop)
}

var (
	typedArrayConstructors = func() map[*class]Value {
		m := make(map[*class]Value, len(classes))
		for _, c := range classes {
			m[c] = newTypedArrayConstructor(c)
		}
		return m
	}()

	errorConstructors = map[string]Value{
		"Error":      newErrorConstructor("Error"),
		"RangeError": newErrorConstructor("RangeError"),
		"TypeError":  newErrorConstructor("TypeError"),
	}
)

// TypedArrayConstructor returns the host constructor of TypedArray[E].
func TypedArrayConstructor[E Element]() Value {
	return typedArrayConstructors[classOf[E]()]
}
