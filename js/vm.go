package js

import (
	"fmt"
	"math"
)

// VM is the table of host values referenced by a wasm guest. Every Store
// takes a guest reference on the value; Finalize drops one.
type VM struct {
	values    []Value
	refcounts []int
	ids       map[Value]uint32
	idPool    []uint32
}

// NewVM returns a VM whose predefined global and go refs resolve to global
// and goObj.
func NewVM(global Object, goObj Value) *VM {
	vm := &VM{
		values: []Value{
			{x: math.NaN()},
			{x: float64(0)},
			Null(),
			{x: true},
			{x: false},
			global.Value,
			goObj,
		},
		ids: make(map[Value]uint32),
	}
	vm.refcounts = make([]int, len(vm.values))
	for id := uint32(2); id < predefinedIDs; id++ {
		vm.ids[vm.values[id]] = id
	}
	return vm
}

// Store interns v and returns its ref.
func (vm *VM) Store(v Value) Ref {
	switch x := v.x.(type) {
	case nil:
		return RefUndefined
	case float64:
		switch {
		case x != x:
			return RefNaN
		case x == 0:
			return RefZero
		}
		return Ref(math.Float64bits(x))
	}

	id, ok := vm.ids[v]
	if !ok {
		if n := len(vm.idPool); n > 0 {
			id = vm.idPool[n-1]
			vm.idPool = vm.idPool[:n-1]
			vm.values[id] = v
			vm.refcounts[id] = 0
		} else {
			id = uint32(len(vm.values))
			vm.values = append(vm.values, v)
			vm.refcounts = append(vm.refcounts, 0)
		}
		vm.ids[v] = id
	}
	vm.refcounts[id]++

	var flag uint32
	switch v.Type() {
	case TypeObject:
		flag = typeFlagObject
	case TypeString:
		flag = typeFlagString
	case TypeFunction:
		flag = typeFlagFunction
	}
	return makeRef(flag, id)
}

// Load resolves r. Unknown ids resolve to undefined.
func (vm *VM) Load(r Ref) Value {
	if f, ok := r.Number(); ok {
		return Value{x: f}
	}
	if r == RefUndefined {
		return Undefined()
	}
	id := r.ID()
	if int(id) >= len(vm.values) {
		return Undefined()
	}
	return vm.values[id]
}

// Finalize drops one guest reference on id and recycles the id once none
// remain.
func (vm *VM) Finalize(id uint32) {
	if id < predefinedIDs || int(id) >= len(vm.values) || vm.refcounts[id] == 0 {
		return
	}
	vm.refcounts[id]--
	if vm.refcounts[id] > 0 {
		return
	}
	delete(vm.ids, vm.values[id])
	vm.values[id] = Undefined()
	vm.idPool = append(vm.idPool, id)
}

// Len returns the number of live non-predefined values.
func (vm *VM) Len() int {
	return len(vm.values) - predefinedIDs - len(vm.idPool)
}

func (vm *VM) DebugStr(r Ref) string {
	v := vm.Load(r)
	return fmt.Sprintf("<%s,%s,%s>", r, v.Type(), v.describe())
}
