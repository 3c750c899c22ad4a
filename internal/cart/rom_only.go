package cart

import "github.com/FabianRolfMatthiasNoll/gbhw/internal/addr"

// ROMOnly is a 32 KiB cartridge without a controller or external RAM.
type ROMOnly struct {
	rom []byte
}

func NewROMOnly(rom []byte) *ROMOnly {
	return &ROMOnly{rom: rom}
}

func (c *ROMOnly) Accepts(a uint16) bool { return inROM(a) || inRAM(a) }

func (c *ROMOnly) Read(a uint16) byte {
	switch {
	case inROM(a):
		return romByte(c.rom, 0, int(a))
	case inRAM(a):
		return 0xFF
	}
	addr.FaultRead("rom", a)
	return 0
}

// Write drops everything in range; there is nothing to bank.
func (c *ROMOnly) Write(a uint16, v byte) {
	if !c.Accepts(a) {
		addr.FaultWrite("rom", a, v)
	}
}

func (c *ROMOnly) SaveRAM() error { return nil }
