package gowasm

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"github.com/tetratelabs/wazero/sys"

	"github.com/icexin/typedarray"
	"github.com/icexin/typedarray/js"
)

// guestModule returns a wasm binary that imports gojs.<field>, exports its
// memory, and exports run, which calls the import with sp = 0. data is
// loaded at address 0.
func guestModule(field string, data []byte) []byte {
	section := func(id byte, content []byte) []byte {
		return append(append([]byte{id}, uleb(len(content))...), content...)
	}
	name := func(s string) []byte {
		return append(uleb(len(s)), s...)
	}

	var imports []byte
	imports = append(imports, 1)
	imports = append(imports, name(ModuleName)...)
	imports = append(imports, name(field)...)
	imports = append(imports, 0x00, 0x00)

	var exports []byte
	exports = append(exports, 2)
	exports = append(exports, name("memory")...)
	exports = append(exports, 0x02, 0x00)
	exports = append(exports, name("run")...)
	exports = append(exports, 0x00, 0x01)

	body := []byte{0x00, 0x41, 0x00, 0x10, 0x00, 0x0b}
	code := append([]byte{1}, uleb(len(body))...)
	code = append(code, body...)

	seg := []byte{1, 0x00, 0x41, 0x00, 0x0b}
	seg = append(seg, uleb(len(data))...)
	seg = append(seg, data...)

	bin := []byte{0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00}
	bin = append(bin, section(1, []byte{2, 0x60, 1, 0x7f, 0, 0x60, 0, 0})...)
	bin = append(bin, section(2, imports)...)
	bin = append(bin, section(3, []byte{1, 1})...)
	bin = append(bin, section(5, []byte{1, 0x00, 1})...)
	bin = append(bin, section(7, exports)...)
	bin = append(bin, section(10, code)...)
	bin = append(bin, section(11, seg)...)
	return bin
}

func uleb(n int) []byte {
	var b []byte
	for {
		c := byte(n & 0x7f)
		n >>= 7
		if n != 0 {
			c |= 0x80
		}
		b = append(b, c)
		if n == 0 {
			return b
		}
	}
}

func slots(vals ...uint64) []byte {
	b := make([]byte, 8*(len(vals)+1))
	for i, v := range vals {
		binary.LittleEndian.PutUint64(b[8*(i+1):], v)
	}
	return b
}

func instantiate(t *testing.T, rt *Runtime, bin []byte) (api.Module, func() error) {
	t.Helper()
	ctx := context.Background()
	r := wazero.NewRuntime(ctx)
	t.Cleanup(func() { r.Close(ctx) })

	_, err := rt.Instantiate(ctx, r)
	require.NoError(t, err)
	mod, err := r.Instantiate(ctx, bin)
	require.NoError(t, err)
	return mod, func() error {
		_, err := mod.ExportedFunction("run").Call(ctx)
		return err
	}
}

func TestHostWasmWrite(t *testing.T) {
	var out bytes.Buffer
	rt := NewRuntime(WithStdout(&out))
	defer rt.Close()

	data := append(slots(1, 32, 5), "hello"...)
	_, run := instantiate(t, rt, guestModule("runtime.wasmWrite", data))
	require.NoError(t, run())
	assert.Equal(t, "hello", out.String())
}

func TestHostWasmExit(t *testing.T) {
	rt := NewRuntime()
	defer rt.Close()

	_, run := instantiate(t, rt, guestModule("runtime.wasmExit", slots(3)))
	err := run()
	var exitErr *sys.ExitError
	require.True(t, errors.As(err, &exitErr), "got %v", err)
	assert.Equal(t, uint32(3), exitErr.ExitCode())
	assert.True(t, rt.Exited())
}

func TestHostValueLengthOfTypedArray(t *testing.T) {
	rt := NewRuntime()
	defer rt.Close()

	ref := rt.VM().Store(js.TypedArrayOf[float32](1, 2, 3).Value)
	mod, run := instantiate(t, rt, guestModule("syscall/js.valueLength", slots(uint64(ref))))
	require.NoError(t, run())

	n, ok := mod.Memory().ReadUint64Le(16)
	require.True(t, ok)
	assert.Equal(t, uint64(3), n)
}

func TestMemoryBuffer(t *testing.T) {
	rt := NewRuntime()
	defer rt.Close()

	mod, _ := instantiate(t, rt, guestModule("runtime.resetMemoryDataView", []byte{1, 0, 2, 0, 3, 0}))

	buf, err := MemoryBuffer(mod.Memory())
	require.NoError(t, err)
	assert.Equal(t, 65536, buf.ByteLength())

	h, err := typedarray.NewFromBuffer(typedarray.Uint16, buf, 0, 3)
	require.NoError(t, err)
	assert.Equal(t, "1,2,3", h.String())

	a, err := h.Uint16Array()
	require.NoError(t, err)
	a.SetIndex(0, 0x0A0B)
	b, ok := mod.Memory().Read(0, 2)
	require.True(t, ok)
	assert.Equal(t, []byte{0x0B, 0x0A}, b)

	_, err = MemoryBuffer(nil)
	assert.Error(t, err)
}
