package cart

import (
	"time"

	"github.com/FabianRolfMatthiasNoll/gbhw/internal/addr"
)

// RTC register selectors written to 4000–5FFF.
const (
	rtcSeconds = 0x08
	rtcMinutes = 0x09
	rtcHours   = 0x0A
	rtcDayLow  = 0x0B
	rtcDayHigh = 0x0C
)

// MBC3 banks up to 2 MiB of ROM and 4 RAM banks, and maps the RTC registers
// into the RAM window when a selector of 4 or more is written to 4000–5FFF.
type MBC3 struct {
	rom     []byte
	ram     []byte
	rtc     *RTC
	battery Battery

	romBank    int // never 0
	ramBank    int // <4 RAM bank, otherwise RTC register selector
	ramEnabled bool
	latchReg   byte
	err        error
}

func NewMBC3(rom []byte, ramBanks int, b Battery, now func() time.Time) (*MBC3, error) {
	if b == nil {
		b = noBattery{}
	}
	m := &MBC3{
		rom:      rom,
		ram:      newRAM(0x2000 * max(ramBanks, 1)),
		rtc:      NewRTC(now),
		battery:  b,
		romBank:  1,
		latchReg: 0xFF,
	}
	var clock [ClockFields]int64
	if err := b.LoadRAMWithClock(m.ram, &clock); err != nil {
		return nil, err
	}
	m.rtc.Deserialize(clock)
	return m, nil
}

func (m *MBC3) Accepts(a uint16) bool { return inROM(a) || inRAM(a) }

func (m *MBC3) Read(a uint16) byte {
	switch {
	case a < 0x4000:
		return romByte(m.rom, 0, int(a))
	case a < 0x8000:
		return romByte(m.rom, m.romBank, int(a-0x4000))
	case inRAM(a):
		if m.ramBank >= 4 {
			return m.readClock()
		}
		if off := m.ramOffset(a); off < len(m.ram) {
			return m.ram[off]
		}
		return 0xFF
	}
	addr.FaultRead("mbc3", a)
	return 0
}

func (m *MBC3) Write(a uint16, v byte) {
	switch {
	case a < 0x2000:
		m.ramEnabled = v&0b1010 != 0
		if !m.ramEnabled {
			flushed("mbc3", &m.err, m.SaveRAM())
		}
	case a < 0x4000:
		m.romBank = int(v & 0x7F)
		if m.romBank == 0 {
			m.romBank = 1
		}
	case a < 0x6000:
		m.ramBank = int(v)
	case a < 0x8000:
		if m.latchReg == 0x00 && v == 0x01 {
			if m.rtc.Latched() {
				m.rtc.Unlatch()
			} else {
				m.rtc.Latch()
			}
		}
		m.latchReg = v
	case inRAM(a):
		if !m.ramEnabled {
			return
		}
		if m.ramBank >= 4 {
			m.writeClock(v)
			return
		}
		if off := m.ramOffset(a); off < len(m.ram) {
			m.ram[off] = v
		}
	default:
		addr.FaultWrite("mbc3", a, v)
	}
}

func (m *MBC3) ramOffset(a uint16) int {
	return m.ramBank*0x2000 + int(a-0xA000)
}

func (m *MBC3) readClock() byte {
	r := m.rtc.Regs()
	switch m.ramBank {
	case rtcSeconds:
		return r.Seconds
	case rtcMinutes:
		return r.Minutes
	case rtcHours:
		return r.Hours
	case rtcDayLow:
		return byte(r.Days)
	case rtcDayHigh:
		return byte(r.dayHigh())
	}
	return 0xFF
}

func (m *MBC3) writeClock(v byte) {
	m.rtc.update()
	switch m.ramBank {
	case rtcSeconds:
		m.rtc.SetSeconds(v)
	case rtcMinutes:
		m.rtc.SetMinutes(v)
	case rtcHours:
		m.rtc.SetHours(v)
	case rtcDayLow:
		d := m.rtc.live.Days
		m.rtc.SetDayCounter(d&0x100 | uint16(v))
	case rtcDayHigh:
		d := m.rtc.live.Days
		m.rtc.SetDayCounter(d&0xFF | uint16(v&1)<<8)
		m.rtc.SetHalt(v&(1<<6) != 0)
		if v&(1<<7) == 0 {
			m.rtc.ClearCarry()
		}
	}
}

// SaveRAM writes RAM and the clock through the battery.
func (m *MBC3) SaveRAM() error {
	return m.battery.SaveRAMWithClock(m.ram, m.rtc.Serialize())
}

func (m *MBC3) RTC() *RTC { return m.rtc }

// Err returns the last error from a flush triggered by disabling RAM.
func (m *MBC3) Err() error { return m.err }
