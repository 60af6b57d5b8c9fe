package gowasm

import (
	"fmt"
	"reflect"
	"sort"

	"go.uber.org/zap"
)

// Registry collects host functions by module and field name.
type Registry interface {
	Register(module, field string, f interface{})
}

type method struct {
	Type reflect.Type
	Func reflect.Value
}

// Resolver calls registered Go functions with arguments decoded from guest
// memory at sp+8 and writes their results right after the arguments.
type Resolver struct {
	mem     []byte
	modules map[string]*method
	logger  *zap.Logger
}

func NewResolver() *Resolver {
	return &Resolver{
		modules: make(map[string]*method),
		logger:  logger,
	}
}

// SetMemory sets the guest memory arguments are read from.
func (r *Resolver) SetMemory(b []byte) {
	r.mem = b
}

func (r *Resolver) Register(module, field string, f interface{}) {
	key := module + "." + field
	r.modules[key] = &method{
		Type: reflect.TypeOf(f),
		Func: reflect.ValueOf(f),
	}
}

// Fields returns the registered field names of module in sorted order.
func (r *Resolver) Fields(module string) []string {
	var fields []string
	prefix := module + "."
	for key := range r.modules {
		if len(key) > len(prefix) && key[:len(prefix)] == prefix {
			fields = append(fields, key[len(prefix):])
		}
	}
	sort.Strings(fields)
	return fields
}

func (r *Resolver) CallMethod(module, field string, sp int64) error {
	if field != "runtime.wasmWrite" {
		r.logger.Debug("call", zap.String("module", module), zap.String("field", field), zap.Int64("sp", sp))
	}
	m, ok := r.modules[module+"."+field]
	if !ok {
		return fmt.Errorf("%s.%s not found", module, field)
	}
	if err := r.callMethod(m, sp); err != nil {
		return fmt.Errorf("%s.%s: %w", module, field, err)
	}
	return nil
}

func (r *Resolver) callMethod(m *method, sp int64) error {
	mem := r.mem
	dec := NewDecoder(mem, sp+8)
	mtype := m.Type
	args := make([]reflect.Value, 0, mtype.NumIn())
	for i := 0; i < mtype.NumIn(); i++ {
		ref := reflect.New(mtype.In(i))
		if err := dec.Decode(ref); err != nil {
			return fmt.Errorf("argument %d: %w", i, err)
		}
		args = append(args, ref.Elem())
	}
	rets := m.Func.Call(args)
	enc := NewEncoder(mem, dec.Offset())
	for i, ret := range rets {
		if err := enc.Encode(ret); err != nil {
			return fmt.Errorf("result %d: %w", i, err)
		}
	}
	return nil
}
