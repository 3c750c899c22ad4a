// Package bus routes host-processor accesses to the mapped subsystems.
package bus

import "github.com/FabianRolfMatthiasNoll/gbhw/internal/addr"

const (
	regIF  = 0xFF0F
	regDMA = 0xFF46
	regIE  = 0xFFFF
)

// Bus owns work RAM, VRAM, HRAM and the interrupt registers and dispatches
// everything else to the first space that accepts the address. Unmapped
// reads return 0xFF and unmapped writes are dropped.
type Bus struct {
	spaces []addr.Space
	wram   *addr.RAM // C000–DFFF, echoed at E000–FDFF
	vram   *addr.RAM // 8000–9FFF
	hram   *addr.RAM // FF80–FFFE
	dmaDst addr.Space
	iflag  byte
	ie     byte
}

func New(spaces ...addr.Space) *Bus {
	return &Bus{
		spaces: spaces,
		wram:   addr.NewRAM("wram", 0xC000, 0x2000),
		vram:   addr.NewRAM("vram", 0x8000, 0x2000),
		hram:   addr.NewRAM("hram", 0xFF80, 0x7F),
	}
}

// SetDMATarget sets where FF46 transfers land. The target is written
// directly, bypassing any CPU access lock on OAM.
func (b *Bus) SetDMATarget(oam addr.Space) { b.dmaDst = oam }

// RequestInterrupt sets bit in IF.
func (b *Bus) RequestInterrupt(bit int) { b.iflag |= 1 << bit }

func (b *Bus) IF() byte { return b.iflag }

func (b *Bus) space(a uint16) addr.Space {
	switch {
	case b.wram.Accepts(a):
		return b.wram
	case b.vram.Accepts(a):
		return b.vram
	case b.hram.Accepts(a):
		return b.hram
	}
	for _, s := range b.spaces {
		if s.Accepts(a) {
			return s
		}
	}
	return nil
}

func echo(a uint16) uint16 {
	if a >= 0xE000 && a < 0xFE00 {
		return a - 0x2000
	}
	return a
}

func (b *Bus) Read(a uint16) byte {
	switch a {
	case regIF:
		return 0xE0 | b.iflag
	case regIE:
		return b.ie
	}
	a = echo(a)
	if s := b.space(a); s != nil {
		return s.Read(a)
	}
	return 0xFF
}

func (b *Bus) Write(a uint16, v byte) {
	switch a {
	case regIF:
		b.iflag = v & 0x1F
		return
	case regIE:
		b.ie = v
		return
	case regDMA:
		b.dma(v)
	}
	a = echo(a)
	if s := b.space(a); s != nil {
		s.Write(a, v)
	}
}

// dma copies 160 bytes from v<<8 into OAM at once.
func (b *Bus) dma(v byte) {
	if b.dmaDst == nil {
		return
	}
	src := uint16(v) << 8
	for i := uint16(0); i < 0xA0; i++ {
		b.dmaDst.Write(0xFE00+i, b.Read(src+i))
	}
}
