package gowasm

import (
	"context"
	"fmt"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"github.com/tetratelabs/wazero/sys"
	"go.uber.org/zap"

	"github.com/icexin/typedarray/js"
)

// Instantiate builds the gojs host module in r. Every import takes the guest
// stack pointer as its only parameter.
func (rt *Runtime) Instantiate(ctx context.Context, r wazero.Runtime) (api.Module, error) {
	b := r.NewHostModuleBuilder(ModuleName)
	for _, field := range rt.resolver.Fields(ModuleName) {
		b.NewFunctionBuilder().
			WithGoModuleFunction(rt.hostFunc(field), []api.ValueType{api.ValueTypeI32}, []api.ValueType{}).
			WithParameterNames("sp").
			Export(field)
	}
	b.NewFunctionBuilder().
		WithGoModuleFunction(api.GoModuleFunc(func(ctx context.Context, mod api.Module, stack []uint64) {
			rt.logger.Info("debug", zap.Int32("value", int32(stack[0])))
		}), []api.ValueType{api.ValueTypeI32}, []api.ValueType{}).
		WithParameterNames("value").
		Export("debug")

	mod, err := b.Instantiate(ctx)
	if err != nil {
		return nil, fmt.Errorf("instantiate %s: %w", ModuleName, err)
	}
	return mod, nil
}

func (rt *Runtime) hostFunc(field string) api.GoModuleFunc {
	return func(ctx context.Context, mod api.Module, stack []uint64) {
		mem := mod.Memory()
		if mem == nil {
			panic(fmt.Errorf("%s.%s: module %s has no memory", ModuleName, field, mod.Name()))
		}
		b, ok := mem.Read(0, mem.Size())
		if !ok {
			panic(fmt.Errorf("%s.%s: read memory", ModuleName, field))
		}
		rt.SetMemory(b)

		sp := int64(api.DecodeU32(stack[0]))
		if err := rt.resolver.CallMethod(ModuleName, field, sp); err != nil {
			panic(err)
		}
		if rt.exited {
			code := uint32(rt.exitCode)
			_ = mod.CloseWithExitCode(ctx, code)
			panic(sys.NewExitError(code))
		}
	}
}

// MemoryBuffer returns an ArrayBuffer sharing the contents of mem. The buffer
// stops tracking mem once mem grows.
func MemoryBuffer(mem api.Memory) (js.ArrayBuffer, error) {
	if mem == nil {
		return js.ArrayBuffer{}, fmt.Errorf("nil memory")
	}
	b, ok := mem.Read(0, mem.Size())
	if !ok {
		return js.ArrayBuffer{}, fmt.Errorf("read memory of %d bytes", mem.Size())
	}
	return js.ArrayBufferOf(b), nil
}
