// Package addr defines the address-space capability shared by every clocked
// component on the CPU bus, and the addressing fault raised when a component
// is asked for a byte it does not own.
package addr

import (
	"errors"
	"fmt"
)

// Space is a region of the 16-bit CPU address space.
// Read and Write must only be called for addresses Accepts reports true for;
// anything else is a caller bug and raises a *Fault panic.
type Space interface {
	Accepts(a uint16) bool
	Read(a uint16) byte
	Write(a uint16, v byte)
}

// ErrInvalidAddress matches every *Fault via errors.Is.
var ErrInvalidAddress = errors.New("invalid address")

// Fault is an access to an address outside the component's accepted ranges.
type Fault struct {
	Unit  string // component that rejected the access
	Op    string // "read" or "write"
	Addr  uint16
	Value byte // written value, zero for reads
}

func (f *Fault) Error() string {
	if f.Op == "write" {
		return fmt.Sprintf("%s: invalid write $%04X <- %02X", f.Unit, f.Addr, f.Value)
	}
	return fmt.Sprintf("%s: invalid read $%04X", f.Unit, f.Addr)
}

func (f *Fault) Is(target error) bool { return target == ErrInvalidAddress }

// FaultRead aborts the current operation with a read fault.
func FaultRead(unit string, a uint16) {
	panic(&Fault{Unit: unit, Op: "read", Addr: a})
}

// FaultWrite aborts the current operation with a write fault.
func FaultWrite(unit string, a uint16, v byte) {
	panic(&Fault{Unit: unit, Op: "write", Addr: a, Value: v})
}

// Catch runs fn and returns the *Fault it raised, if any.
// Panics that are not addressing faults are re-raised.
func Catch(fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			f, ok := r.(*Fault)
			if !ok {
				panic(r)
			}
			err = f
		}
	}()
	fn()
	return nil
}
