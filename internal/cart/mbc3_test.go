package cart

import (
	"errors"
	"testing"

	"github.com/FabianRolfMatthiasNoll/gbhw/internal/addr"
)

// bankedROM returns a ROM whose every bank starts with its own number.
func bankedROM(banks int) []byte {
	rom := make([]byte, banks*0x4000)
	for b := 0; b < banks; b++ {
		rom[b*0x4000] = byte(b)
	}
	return rom
}

func newTestMBC3(t *testing.T, b Battery, clk *fakeClock) *MBC3 {
	t.Helper()
	m, err := NewMBC3(bankedROM(8), 4, b, clk.now)
	if err != nil {
		t.Fatalf("NewMBC3: %v", err)
	}
	return m
}

func TestMBC3_ROMBankZeroSelectsOne(t *testing.T) {
	m := newTestMBC3(t, nil, &fakeClock{})
	if got := m.Read(0x0000); got != 0x00 {
		t.Fatalf("bank0 read got %02X want 00", got)
	}
	m.Write(0x2000, 0x00)
	if got := m.Read(0x4000); got != 0x01 {
		t.Fatalf("bank 0 write got %02X want 01", got)
	}
	m.Write(0x2000, 0x04)
	if got := m.Read(0x4000); got != 0x04 {
		t.Fatalf("bank4 read got %02X want 04", got)
	}
	// only the low 7 bits select
	m.Write(0x2000, 0x85)
	if got := m.Read(0x4000); got != 0x05 {
		t.Fatalf("masked bank got %02X want 05", got)
	}
}

func TestMBC3_ReadPastImage(t *testing.T) {
	m, err := NewMBC3(bankedROM(2), 1, nil, (&fakeClock{}).now)
	if err != nil {
		t.Fatalf("NewMBC3: %v", err)
	}
	m.Write(0x2000, 0x05)
	if got := m.Read(0x4000); got != 0xFF {
		t.Fatalf("past-image read got %02X want FF", got)
	}
	// bank 1 of 1 RAM bank is past capacity too
	m.Write(0x0000, 0x0A)
	m.Write(0x4000, 0x01)
	m.Write(0xA000, 0x12)
	if got := m.Read(0xA000); got != 0xFF {
		t.Fatalf("past-RAM read got %02X want FF", got)
	}
}

func TestMBC3_RTCWindowAndRAMRestore(t *testing.T) {
	m := newTestMBC3(t, nil, &fakeClock{sec: 1})
	m.Write(0x0000, 0x0A)
	m.Write(0x4000, 0x00)
	m.Write(0xA000, 0x42)

	m.Write(0x4000, rtcHours)
	m.Write(0xA000, 13)
	if got := m.Read(0xA000); got != 13 {
		t.Fatalf("hours register got %d want 13", got)
	}
	m.Write(0x4000, 0x0E)
	if got := m.Read(0xA000); got != 0xFF {
		t.Fatalf("unmapped selector got %02X want FF", got)
	}

	m.Write(0x4000, 0x00)
	if got := m.Read(0xA000); got != 0x42 {
		t.Fatalf("RAM after RTC select got %02X want 42", got)
	}
}

func TestMBC3_LatchOnRisingEdge(t *testing.T) {
	clk := &fakeClock{sec: 0}
	m := newTestMBC3(t, nil, clk)
	m.Write(0x0000, 0x0A)
	m.Write(0x4000, rtcSeconds)
	m.Write(0xA000, 5)

	// latchReg starts at FF, so a lone 01 is not an edge
	m.Write(0x6000, 0x01)
	if m.rtc.Latched() {
		t.Fatalf("latched without a 00->01 edge")
	}

	m.Write(0x6000, 0x00)
	m.Write(0x6000, 0x01)
	clk.sec = 10
	if got := m.Read(0xA000); got != 5 {
		t.Fatalf("latched sec got %d want 5", got)
	}
	m.Write(0x6000, 0x01)
	if got := m.Read(0xA000); got != 5 {
		t.Fatalf("repeated 01 changed latch: sec %d", got)
	}

	m.Write(0x6000, 0x00)
	m.Write(0x6000, 0x01)
	if got := m.Read(0xA000); got != 15 {
		t.Fatalf("unlatched sec got %d want 15", got)
	}
}

func TestMBC3_DayHighWrite(t *testing.T) {
	m := newTestMBC3(t, nil, &fakeClock{})
	m.rtc.live.Carry = true
	m.Write(0x0000, 0x0A)
	m.Write(0x4000, rtcDayHigh)
	m.Write(0xA000, 0x41)
	r := m.rtc.Regs()
	if r.Days != 0x100 || !r.Halted || r.Carry {
		t.Fatalf("day high write got day=%03X halt=%v carry=%v", r.Days, r.Halted, r.Carry)
	}
	if got := m.Read(0xA000); got != 0x41 {
		t.Fatalf("day high read got %02X want 41", got)
	}
}

func TestMBC3_WritesIgnoredWhileDisabled(t *testing.T) {
	m := newTestMBC3(t, nil, &fakeClock{})
	m.Write(0xA000, 0x33)
	if got := m.Read(0xA000); got != 0xFF {
		t.Fatalf("disabled write landed: got %02X", got)
	}
	m.Write(0x4000, rtcMinutes)
	m.Write(0xA000, 30)
	if got := m.Read(0xA000); got != 0 {
		t.Fatalf("disabled RTC write landed: got %d", got)
	}
}

func TestMBC3_DisableFlushesAndReloads(t *testing.T) {
	b := &memBattery{}
	clk := &fakeClock{sec: 777}
	m := newTestMBC3(t, b, clk)
	m.Write(0x0000, 0x0A)
	m.Write(0x4000, 0x02)
	m.Write(0xA010, 0x99)
	m.Write(0x4000, rtcMinutes)
	m.Write(0xA000, 7)
	m.Write(0x0000, 0x00)

	if b.saves != 1 {
		t.Fatalf("saves got %d want 1", b.saves)
	}
	if got := b.ram[2*0x2000+0x10]; got != 0x99 {
		t.Fatalf("saved ram got %02X want 99", got)
	}
	if b.clock[1] != 7 || b.clock[10] != 777 {
		t.Fatalf("saved clock got min=%d ts=%d", b.clock[1], b.clock[10])
	}

	n := newTestMBC3(t, b, clk)
	n.Write(0x4000, 0x02)
	if got := n.Read(0xA010); got != 0x99 {
		t.Fatalf("reloaded ram got %02X want 99", got)
	}
	if got := n.RTC().Regs().Minutes; got != 7 {
		t.Fatalf("reloaded minutes got %d want 7", got)
	}
}

func TestMBC3_BatteryErrors(t *testing.T) {
	boom := errors.New("boom")
	if _, err := NewMBC3(bankedROM(2), 1, &memBattery{loadErr: boom}, nil); !errors.Is(err, boom) {
		t.Fatalf("load error got %v want boom", err)
	}

	b := &memBattery{saveErr: boom}
	m := newTestMBC3(t, b, &fakeClock{})
	m.Write(0x0000, 0x00)
	if !errors.Is(m.Err(), boom) {
		t.Fatalf("flush error got %v want boom", m.Err())
	}
	if err := m.SaveRAM(); !errors.Is(err, boom) {
		t.Fatalf("SaveRAM got %v want boom", err)
	}
}

func TestMBC3_FaultsOutsideWindows(t *testing.T) {
	m := newTestMBC3(t, nil, &fakeClock{})
	for _, a := range []uint16{0x8000, 0x9FFF, 0xC000, 0xFF00} {
		if m.Accepts(a) {
			t.Fatalf("Accepts(%04X) = true", a)
		}
		if err := addr.Catch(func() { m.Read(a) }); !errors.Is(err, addr.ErrInvalidAddress) {
			t.Fatalf("read %04X got %v", a, err)
		}
		if err := addr.Catch(func() { m.Write(a, 0) }); !errors.Is(err, addr.ErrInvalidAddress) {
			t.Fatalf("write %04X got %v", a, err)
		}
	}
}
