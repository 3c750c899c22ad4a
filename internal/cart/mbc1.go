package cart

import "github.com/FabianRolfMatthiasNoll/gbhw/internal/addr"

// MBC1 banks up to 2 MiB of ROM and 32 KiB of RAM.
type MBC1 struct {
	rom     []byte
	ram     []byte
	battery Battery

	romBankLow5       byte // lower 5 bits of ROM bank number (0->1 remapped)
	ramBankOrRomHigh2 byte // RAM bank (mode 1) or ROM bank high bits
	ramEnabled        bool
	modeSelect        byte // 0: ROM banking, 1: RAM banking
	err               error
}

func NewMBC1(rom []byte, ramSize int, b Battery) (*MBC1, error) {
	if b == nil {
		b = noBattery{}
	}
	m := &MBC1{rom: rom, battery: b, romBankLow5: 1}
	if ramSize > 0 {
		m.ram = newRAM(ramSize)
		if err := b.LoadRAM(m.ram); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *MBC1) Accepts(a uint16) bool { return inROM(a) || inRAM(a) }

func (m *MBC1) Read(a uint16) byte {
	switch {
	case a < 0x4000:
		bank := 0
		if m.modeSelect == 1 {
			bank = int(m.ramBankOrRomHigh2&0x03) << 5
		}
		return romByte(m.rom, bank, int(a))
	case a < 0x8000:
		bank := int(m.romBankLow5 | (m.ramBankOrRomHigh2&0x03)<<5)
		return romByte(m.rom, bank, int(a-0x4000))
	case inRAM(a):
		if off, ok := m.ramOffset(a); ok {
			return m.ram[off]
		}
		return 0xFF
	}
	addr.FaultRead("mbc1", a)
	return 0
}

func (m *MBC1) Write(a uint16, v byte) {
	switch {
	case a < 0x2000:
		was := m.ramEnabled
		m.ramEnabled = v&0x0F == 0x0A
		if was && !m.ramEnabled {
			flushed("mbc1", &m.err, m.SaveRAM())
		}
	case a < 0x4000:
		m.romBankLow5 = v & 0x1F
		if m.romBankLow5 == 0 {
			m.romBankLow5 = 1
		}
	case a < 0x6000:
		m.ramBankOrRomHigh2 = v & 0x03
	case a < 0x8000:
		m.modeSelect = v & 0x01
	case inRAM(a):
		if off, ok := m.ramOffset(a); ok {
			m.ram[off] = v
		}
	default:
		addr.FaultWrite("mbc1", a, v)
	}
}

func (m *MBC1) ramOffset(a uint16) (int, bool) {
	if !m.ramEnabled || len(m.ram) == 0 {
		return 0, false
	}
	bank := 0
	if m.modeSelect == 1 {
		bank = int(m.ramBankOrRomHigh2 & 0x03)
	}
	off := bank*0x2000 + int(a-0xA000)
	return off, off < len(m.ram)
}

func (m *MBC1) SaveRAM() error {
	if len(m.ram) == 0 {
		return nil
	}
	return m.battery.SaveRAM(m.ram)
}

func (m *MBC1) Err() error { return m.err }
