// Package gowasm exposes the js host to WebAssembly modules built with
// GOOS=js GOARCH=wasm, implementing the gojs imports on top of wazero.
package gowasm

import (
	"crypto/rand"
	"io"
	"os"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/icexin/typedarray/js"
)

// ModuleName is the import module of the Go wasm ABI.
const ModuleName = "gojs"

var (
	logger = zap.NewNop()
)

// SetLogger replaces the logger used by runtimes created afterwards.
func SetLogger(l *zap.Logger) {
	logger = l
}

// Option configures a Runtime.
type Option func(*Runtime)

func WithLogger(l *zap.Logger) Option {
	return func(rt *Runtime) {
		rt.logger = l
	}
}

// WithStdout sets the destination of guest writes to fd 1.
func WithStdout(w io.Writer) Option {
	return func(rt *Runtime) {
		rt.stdout = w
	}
}

// WithStderr sets the destination of guest writes to fd 2.
func WithStderr(w io.Writer) Option {
	return func(rt *Runtime) {
		rt.stderr = w
	}
}

// WithGlobal sets the object the guest sees as globalThis.
func WithGlobal(g js.Object) Option {
	return func(rt *Runtime) {
		rt.global = g
	}
}

// Runtime implements the runtime needed to run wasm code compiled by go
// toolchain. A Runtime serves one guest instance.
type Runtime struct {
	exited   bool
	exitCode int32
	mem      []byte
	jsvm     *js.VM
	resolver *Resolver
	global   js.Object
	goObj    js.Object

	logger *zap.Logger
	stdout io.Writer
	stderr io.Writer

	timeOrigin time.Time
	mu         sync.Mutex
	timerid    int32
	timers     map[int32]*time.Timer
	wakeupch   chan int32
}

func NewRuntime(opts ...Option) *Runtime {
	rt := &Runtime{
		global:     js.DefaultGlobal,
		goObj:      js.NewObject(),
		logger:     logger,
		stdout:     os.Stdout,
		stderr:     os.Stderr,
		timeOrigin: time.Now(),
		timers:     make(map[int32]*time.Timer),
		wakeupch:   make(chan int32, 1000),
	}
	for _, opt := range opts {
		opt(rt)
	}
	rt.jsvm = js.NewVM(rt.global, rt.goObj.Value)
	rt.resolver = NewResolver()
	rt.resolver.logger = rt.logger
	rt.Register(rt.resolver)
	return rt
}

// SetMemory sets the guest memory.
func (rt *Runtime) SetMemory(b []byte) {
	rt.mem = b
	rt.resolver.SetMemory(b)
}

// VM returns the value table shared with the guest.
func (rt *Runtime) VM() *js.VM {
	return rt.jsvm
}

// Exited will be true if runtime.wasmExit has been called
func (rt *Runtime) Exited() bool {
	return rt.exited
}

func (rt *Runtime) ExitCode() int32 {
	return rt.exitCode
}

// WaitTimer waits for a timer scheduled by the guest and returns its id.
func (rt *Runtime) WaitTimer() int32 {
	return <-rt.wakeupch
}

// Close stops every outstanding timer.
func (rt *Runtime) Close() error {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	for id, t := range rt.timers {
		t.Stop()
		delete(rt.timers, id)
	}
	return nil
}

func (rt *Runtime) wasmExit(code int32) {
	rt.exited = true
	rt.exitCode = code
	rt.logger.Debug("exit", zap.Int32("code", code))
}

func (rt *Runtime) wasmWrite(fd int64, p int64, n int32) {
	if p < 0 || n < 0 || p+int64(n) > int64(len(rt.mem)) {
		rt.logger.Warn("write out of range", zap.Int64("p", p), zap.Int32("n", n))
		return
	}
	w := rt.stderr
	if fd == 1 {
		w = rt.stdout
	}
	w.Write(rt.mem[p : p+int64(n)])
}

func (rt *Runtime) resetMemoryDataView() {
	rt.logger.Debug("memory grown", zap.Int("size", len(rt.mem)))
}

func (rt *Runtime) nanotime() int64 {
	return int64(time.Since(rt.timeOrigin).Nanoseconds())
}

func (rt *Runtime) walltime() (int64, int32) {
	nsec := time.Now().UnixNano()
	secs := nsec / 1e9
	nsec = nsec - (secs * 1e9)
	return secs, int32(nsec)
}

func (rt *Runtime) scheduleTimeoutEvent(delay int64) int32 {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	rt.timerid++
	id := rt.timerid
	rt.timers[id] = time.AfterFunc(time.Millisecond*time.Duration(delay+1), func() {
		rt.mu.Lock()
		_, ok := rt.timers[id]
		delete(rt.timers, id)
		rt.mu.Unlock()
		if ok {
			rt.wakeupch <- id
		}
	})
	return id
}

func (rt *Runtime) clearTimeoutEvent(id int32) {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	timer, ok := rt.timers[id]
	if !ok {
		return
	}
	timer.Stop()
	delete(rt.timers, id)
}

func (rt *Runtime) getRandomData(r []byte) {
	rand.Read(r)
}

// Register register the go runtime functions to Registry
func (rt *Runtime) Register(r Registry) {
	r.Register(ModuleName, "runtime.wasmExit", rt.wasmExit)
	r.Register(ModuleName, "runtime.wasmWrite", rt.wasmWrite)
	r.Register(ModuleName, "runtime.resetMemoryDataView", rt.resetMemoryDataView)
	r.Register(ModuleName, "runtime.nanotime1", rt.nanotime)
	r.Register(ModuleName, "runtime.walltime", rt.walltime)
	r.Register(ModuleName, "runtime.scheduleTimeoutEvent", rt.scheduleTimeoutEvent)
	r.Register(ModuleName, "runtime.clearTimeoutEvent", rt.clearTimeoutEvent)
	r.Register(ModuleName, "runtime.getRandomData", rt.getRandomData)
	r.Register(ModuleName, "syscall/js.finalizeRef", rt.finalizeRef)
	r.Register(ModuleName, "syscall/js.stringVal", rt.stringVal)
	r.Register(ModuleName, "syscall/js.valueGet", rt.valueGet)
	r.Register(ModuleName, "syscall/js.valueSet", rt.valueSet)
	r.Register(ModuleName, "syscall/js.valueDelete", rt.valueDelete)
	r.Register(ModuleName, "syscall/js.valueIndex", rt.valueIndex)
	r.Register(ModuleName, "syscall/js.valueSetIndex", rt.valueSetIndex)
	r.Register(ModuleName, "syscall/js.valueCall", rt.valueCall)
	r.Register(ModuleName, "syscall/js.valueInvoke", rt.valueInvoke)
	r.Register(ModuleName, "syscall/js.valueNew", rt.valueNew)
	r.Register(ModuleName, "syscall/js.valueLength", rt.valueLength)
	r.Register(ModuleName, "syscall/js.valuePrepareString", rt.valuePrepareString)
	r.Register(ModuleName, "syscall/js.valueLoadString", rt.valueLoadString)
	r.Register(ModuleName, "syscall/js.valueInstanceOf", rt.valueInstanceOf)
	r.Register(ModuleName, "syscall/js.copyBytesToGo", rt.copyBytesToGo)
	r.Register(ModuleName, "syscall/js.copyBytesToJS", rt.copyBytesToJS)
}
