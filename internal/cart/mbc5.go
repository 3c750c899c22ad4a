package cart

import "github.com/FabianRolfMatthiasNoll/gbhw/internal/addr"

// MBC5 supports up to 8 MiB of ROM and 128 KiB of RAM.
type MBC5 struct {
	rom     []byte
	ram     []byte
	battery Battery

	romBank    uint16 // 9 bits; bank 0 is selectable here
	ramBank    byte   // 0..15
	ramEnabled bool
	err        error
}

func NewMBC5(rom []byte, ramSize int, b Battery) (*MBC5, error) {
	if b == nil {
		b = noBattery{}
	}
	m := &MBC5{rom: rom, battery: b, romBank: 1}
	if ramSize > 0 {
		m.ram = newRAM(ramSize)
		if err := b.LoadRAM(m.ram); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *MBC5) Accepts(a uint16) bool { return inROM(a) || inRAM(a) }

func (m *MBC5) Read(a uint16) byte {
	switch {
	case a < 0x4000:
		return romByte(m.rom, 0, int(a))
	case a < 0x8000:
		return romByte(m.rom, int(m.romBank), int(a-0x4000))
	case inRAM(a):
		if off, ok := m.ramOffset(a); ok {
			return m.ram[off]
		}
		return 0xFF
	}
	addr.FaultRead("mbc5", a)
	return 0
}

func (m *MBC5) Write(a uint16, v byte) {
	switch {
	case a < 0x2000:
		was := m.ramEnabled
		m.ramEnabled = v&0x0F == 0x0A
		if was && !m.ramEnabled {
			flushed("mbc5", &m.err, m.SaveRAM())
		}
	case a < 0x3000:
		m.romBank = m.romBank&0x100 | uint16(v)
	case a < 0x4000:
		m.romBank = m.romBank&0xFF | uint16(v&1)<<8
	case a < 0x6000:
		m.ramBank = v & 0x0F
	case a < 0x8000:
		// unused on MBC5
	case inRAM(a):
		if off, ok := m.ramOffset(a); ok {
			m.ram[off] = v
		}
	default:
		addr.FaultWrite("mbc5", a, v)
	}
}

func (m *MBC5) ramOffset(a uint16) (int, bool) {
	if !m.ramEnabled || len(m.ram) == 0 {
		return 0, false
	}
	off := int(m.ramBank)*0x2000 + int(a-0xA000)
	return off, off < len(m.ram)
}

func (m *MBC5) SaveRAM() error {
	if len(m.ram) == 0 {
		return nil
	}
	return m.battery.SaveRAM(m.ram)
}

func (m *MBC5) Err() error { return m.err }
