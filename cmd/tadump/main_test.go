package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/icexin/typedarray"
)

// memoryModule returns a wasm binary exporting one page of memory named
// "memory" with data at address 0.
func memoryModule(data []byte) []byte {
	section := func(id byte, content []byte) []byte {
		return append([]byte{id, byte(len(content))}, content...)
	}
	bin := []byte{0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00}
	bin = append(bin, section(5, []byte{1, 0x00, 1})...)
	bin = append(bin, section(7, []byte{1, 6, 'm', 'e', 'm', 'o', 'r', 'y', 0x02, 0x00})...)
	seg := append([]byte{1, 0x00, 0x41, 0x00, 0x0b, byte(len(data))}, data...)
	bin = append(bin, section(11, seg)...)
	return bin
}

func writeModule(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "mem.wasm")
	require.NoError(t, os.WriteFile(path, memoryModule([]byte{1, 0, 2, 0, 3, 0, 0xff, 0xff}), 0o644))
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestDumpSingleView(t *testing.T) {
	path := writeModule(t)

	out, err := execute(t, "--kind", "u16", "--length", "4", path)
	require.NoError(t, err)
	assert.Equal(t, "memory Uint16Array offset=0 length=4 byteLength=8\n1,2,3,65535\n", out)

	out, err = execute(t, "--kind", "Int8Array", "--offset", "6", "--length", "2", path)
	require.NoError(t, err)
	assert.Equal(t, "memory Int8Array offset=6 length=2 byteLength=2\n-1,-1\n", out)
}

func TestDumpConfigViews(t *testing.T) {
	path := writeModule(t)
	cfg := filepath.Join(t.TempDir(), "views.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte(`views:
  - name: head
    kind: u8c
    offset: 0
    length: 3
  - name: tail
    kind: Uint16Array
    offset: 4
    length: 2
`), 0o644))

	out, err := execute(t, "--config", cfg, path)
	require.NoError(t, err)
	assert.Equal(t, "head Uint8ClampedArray offset=0 length=3 byteLength=3\n1,0,2\n"+
		"tail Uint16Array offset=4 length=2 byteLength=4\n3,65535\n", out)
}

func TestDumpErrors(t *testing.T) {
	path := writeModule(t)

	_, err := execute(t, "--kind", "i32", "--offset", "2", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "RangeError")

	_, err = execute(t, "--kind", "BigInt64Array", path)
	assert.ErrorIs(t, err, typedarray.ErrUnknownKind)

	_, err = execute(t, "--memory", "heap", path)
	assert.ErrorContains(t, err, `exports no memory "heap"`)

	_, err = execute(t, filepath.Join(t.TempDir(), "missing.wasm"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = execute(t)
	assert.Error(t, err)
}
