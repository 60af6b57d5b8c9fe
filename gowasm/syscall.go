package gowasm

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/icexin/typedarray"
	"github.com/icexin/typedarray/js"
)

func (rt *Runtime) load(ref js.Ref) js.Value {
	return rt.jsvm.Load(ref)
}

func (rt *Runtime) store(v js.Value) js.Ref {
	return rt.jsvm.Store(v)
}

func (rt *Runtime) loadValues(refs []js.Ref) []interface{} {
	args := make([]interface{}, len(refs))
	for i, ref := range refs {
		args[i] = rt.load(ref)
	}
	return args
}

// exception converts err to a guest value.
func (rt *Runtime) exception(err error) js.Ref {
	rt.logger.Debug("exception", zap.Error(err))
	return rt.store(js.ExceptionOf(err).JSValue())
}

// catch turns a panic raised by host code into a thrown exception.
func (rt *Runtime) catch(ret *js.Ref, ok *bool) {
	if r := recover(); r != nil {
		err, isErr := r.(error)
		if !isErr {
			err = fmt.Errorf("%v", r)
		}
		*ret = rt.exception(err)
		*ok = false
	}
}

func (rt *Runtime) result(v js.Value, err error) (js.Ref, bool) {
	if err != nil {
		return rt.exception(err), false
	}
	return rt.store(v), true
}

func (rt *Runtime) finalizeRef(id uint32) {
	rt.jsvm.Finalize(id)
}

func (rt *Runtime) stringVal(value string) js.Ref {
	return rt.store(js.ValueOf(value))
}

func (rt *Runtime) valueGet(ref js.Ref, name string) js.Ref {
	v := rt.load(ref)
	if t, ok := typedarray.DynInto(v); ok {
		return rt.store(typedArrayProperty(t, name))
	}
	return rt.store(v.Get(name))
}

func (rt *Runtime) valueSet(ref js.Ref, name string, x js.Ref) {
	rt.load(ref).Set(name, rt.load(x))
}

func (rt *Runtime) valueDelete(ref js.Ref, name string) {
	rt.load(ref).Delete(name)
}

func (rt *Runtime) valueIndex(ref js.Ref, i int64) js.Ref {
	return rt.store(rt.load(ref).Index(int(i)))
}

func (rt *Runtime) valueSetIndex(ref js.Ref, i int64, x js.Ref) {
	rt.load(ref).SetIndex(int(i), rt.load(x))
}

func (rt *Runtime) valueCall(ref js.Ref, method string, args []js.Ref) (ret js.Ref, ok bool) {
	defer rt.catch(&ret, &ok)

	v := rt.load(ref)
	if t, isTyped := typedarray.DynInto(v); isTyped {
		return rt.result(callTypedArray(t, method, rt.loadValuesOf(args)))
	}
	return rt.result(v.Call(method, rt.loadValues(args)...))
}

func (rt *Runtime) valueInvoke(ref js.Ref, args []js.Ref) (ret js.Ref, ok bool) {
	defer rt.catch(&ret, &ok)

	return rt.result(rt.load(ref).Invoke(rt.loadValues(args)...))
}

func (rt *Runtime) valueNew(ref js.Ref, args []js.Ref) (ret js.Ref, ok bool) {
	defer rt.catch(&ret, &ok)

	return rt.result(rt.load(ref).New(rt.loadValues(args)...))
}

func (rt *Runtime) valueLength(ref js.Ref) int64 {
	v := rt.load(ref)
	if t, ok := typedarray.DynInto(v); ok {
		return int64(t.Length())
	}
	return int64(v.Length())
}

func (rt *Runtime) valuePrepareString(ref js.Ref) (js.Ref, int64) {
	str := rt.load(ref).String()
	return rt.store(js.ValueOf(str)), int64(len(str))
}

func (rt *Runtime) valueLoadString(ref js.Ref, b []byte) {
	copy(b, rt.load(ref).String())
}

func (rt *Runtime) valueInstanceOf(ref js.Ref, t js.Ref) bool {
	return rt.load(ref).InstanceOf(rt.load(t))
}

func (rt *Runtime) copyBytesToGo(dst []byte, src js.Ref) (int64, bool) {
	b, ok := byteWindow(rt.load(src))
	if !ok {
		return 0, false
	}
	return int64(copy(dst, b)), true
}

func (rt *Runtime) copyBytesToJS(dst js.Ref, src []byte) (int64, bool) {
	b, ok := byteWindow(rt.load(dst))
	if !ok {
		return 0, false
	}
	return int64(copy(b, src)), true
}

func (rt *Runtime) loadValuesOf(refs []js.Ref) []js.Value {
	vs := make([]js.Value, len(refs))
	for i, ref := range refs {
		vs[i] = rt.load(ref)
	}
	return vs
}
