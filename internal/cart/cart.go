package cart

import (
	"fmt"
	"log"
	"time"

	"github.com/FabianRolfMatthiasNoll/gbhw/internal/addr"
)

// Cartridge is what the bus sees of a plugged-in cart: ROM at 0000–7FFF,
// external RAM at A000–BFFF, and a way to flush battery-backed state.
type Cartridge interface {
	addr.Space
	SaveRAM() error
}

// New picks a controller from the ROM header. Images without a readable
// header, and controllers that are not emulated, fall back to ROM-only so
// homebrew and test ROMs still run. A nil battery disables persistence; a
// nil clock uses the wall clock.
func New(rom []byte, b Battery, now func() time.Time) (Cartridge, *Header, error) {
	if b == nil {
		b = noBattery{}
	}
	h, err := ParseHeader(rom)
	if err != nil {
		return NewROMOnly(rom), nil, nil
	}
	if !h.HasBattery {
		b = noBattery{}
	}
	var c Cartridge
	switch h.Controller {
	case ControllerMBC1:
		c, err = NewMBC1(rom, h.RAMSizeBytes, b)
	case ControllerMBC3:
		c, err = NewMBC3(rom, h.RAMBanks(), b, now)
	case ControllerMBC5:
		c, err = NewMBC5(rom, h.RAMSizeBytes, b)
	default:
		c = NewROMOnly(rom)
	}
	if err != nil {
		return nil, h, fmt.Errorf("cart: %s: %w", h.Controller, err)
	}
	return c, h, nil
}

func inROM(a uint16) bool { return a < 0x8000 }
func inRAM(a uint16) bool { return a >= 0xA000 && a < 0xC000 }

// romByte reads off within bank, 0xFF past the end of the image.
func romByte(rom []byte, bank, off int) byte {
	i := bank*0x4000 + off
	if i < len(rom) {
		return rom[i]
	}
	return 0xFF
}

func newRAM(size int) []byte {
	ram := make([]byte, size)
	for i := range ram {
		ram[i] = 0xFF
	}
	return ram
}

// flushed is called from inside a bus write, where an error cannot be
// returned; it is logged and kept for Err.
func flushed(unit string, last *error, err error) {
	if err == nil {
		return
	}
	log.Printf("%s: save ram: %v", unit, err)
	*last = err
}
