package js

import (
	"fmt"
	"math"
)

const (
	nanHead = 0x7FF80000
)

// type flags of boxed refs
const (
	typeFlagNone = iota
	typeFlagObject
	typeFlagString
	typeFlagSymbol
	typeFlagFunction
)

// Ref is a NaN-boxed reference to a host value as seen by a wasm guest.
// Numbers other than zero and NaN are stored as their float bits.
type Ref uint64

const (
	RefUndefined Ref = 0
	RefNaN       Ref = nanHead<<32 | 0
	RefZero      Ref = nanHead<<32 | 1
	RefNull      Ref = nanHead<<32 | 2
	RefTrue      Ref = nanHead<<32 | 3
	RefFalse     Ref = nanHead<<32 | 4
	RefGlobal    Ref = (nanHead|typeFlagObject)<<32 | 5
	RefGo        Ref = (nanHead|typeFlagObject)<<32 | 6
)

// predefined ids are never released
const predefinedIDs = 7

func makeRef(flag uint32, id uint32) Ref {
	return Ref(uint64(nanHead|flag)<<32 | uint64(id))
}

// Number returns the number r encodes.
func (r Ref) Number() (float64, bool) {
	if r == RefZero {
		return 0, true
	}
	f := math.Float64frombits(uint64(r))
	if f == f && r != RefUndefined {
		return f, true
	}
	return 0, false
}

// ID returns the value table id of a boxed ref.
func (r Ref) ID() uint32 {
	return uint32(r)
}

func (r Ref) String() string {
	if f, ok := r.Number(); ok {
		return formatNumber(f)
	}
	return fmt.Sprintf("0x%x", uint64(r))
}
