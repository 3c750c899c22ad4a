package addr

import (
	"errors"
	"testing"
)

func TestRAM_ReadWriteAndBounds(t *testing.T) {
	r := NewRAM("hram", 0xFF80, 0x7F)
	if !r.Accepts(0xFF80) || !r.Accepts(0xFFFE) {
		t.Fatalf("expected HRAM bounds to be accepted")
	}
	if r.Accepts(0xFF7F) || r.Accepts(0xFFFF) {
		t.Fatalf("accepted address outside HRAM")
	}
	r.Write(0xFFFE, 0x5A)
	if got := r.Read(0xFFFE); got != 0x5A {
		t.Fatalf("read got %02X want 5A", got)
	}
}

func TestCatch_ReportsFault(t *testing.T) {
	r := NewRAM("wram", 0xC000, 0x2000)
	err := Catch(func() { r.Write(0xE000, 0x12) })
	if !errors.Is(err, ErrInvalidAddress) {
		t.Fatalf("expected ErrInvalidAddress, got %v", err)
	}
	var f *Fault
	if !errors.As(err, &f) || f.Addr != 0xE000 || f.Op != "write" || f.Value != 0x12 {
		t.Fatalf("unexpected fault %#v", err)
	}
	if err.Error() != "wram: invalid write $E000 <- 12" {
		t.Fatalf("fault message got %q", err.Error())
	}
}

func TestCatch_NoFault(t *testing.T) {
	if err := Catch(func() {}); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
}

func TestCatch_RepanicsForeignPanics(t *testing.T) {
	defer func() {
		if r := recover(); r != "boom" {
			t.Fatalf("expected foreign panic to propagate, got %v", r)
		}
	}()
	_ = Catch(func() { panic("boom") })
	t.Fatalf("Catch swallowed a non-fault panic")
}
