package emu

import (
	"fmt"

	"github.com/FabianRolfMatthiasNoll/gbhw/internal/addr"
	"github.com/FabianRolfMatthiasNoll/gbhw/internal/apu"
	"github.com/FabianRolfMatthiasNoll/gbhw/internal/bus"
	"github.com/FabianRolfMatthiasNoll/gbhw/internal/cart"
	"github.com/FabianRolfMatthiasNoll/gbhw/internal/ppu"
)

// CyclesPerFrame is one full LCD frame: 154 lines of 456 dots.
const CyclesPerFrame = 70224

// Machine is the master clock. Every Tick advances the GPU and the APU by
// one cycle; the host processor talks to the hardware through Read and Write.
type Machine struct {
	cfg Config

	bus    *bus.Bus
	gpu    *ppu.GPU
	apu    *apu.APU
	cart   cart.Cartridge
	header *cart.Header

	cycles uint64
}

// New builds a machine around rom. A nil battery keeps cartridge RAM for
// this run only; a nil out discards audio.
func New(cfg Config, rom []byte, b cart.Battery, out apu.Output) (*Machine, error) {
	cfg.Defaults()
	if out == nil {
		out = apu.NullOutput{}
	}
	c, h, err := cart.New(rom, b, cfg.Now)
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}
	m := &Machine{cfg: cfg, cart: c, header: h}
	m.gpu = ppu.New(cfg.Display, m.requestInterrupt)
	m.apu = apu.New(out, cfg.CGB)
	m.bus = bus.New(c, m.gpu, m.apu)
	m.bus.SetDMATarget(m.gpu.OAM())
	if cfg.PostBoot {
		m.applyPostBootIO()
	}
	return m, nil
}

func (m *Machine) requestInterrupt(bit int) { m.bus.RequestInterrupt(bit) }

// applyPostBootIO writes the register state the DMG boot ROM hands over.
func (m *Machine) applyPostBootIO() {
	b := m.bus
	b.Write(0xFF40, 0x91) // LCDC: LCD on, BG on, tile data 8000, BG map 9800
	b.Write(0xFF42, 0x00) // SCY
	b.Write(0xFF43, 0x00) // SCX
	b.Write(0xFF45, 0x00) // LYC
	b.Write(0xFF47, 0xFC) // BGP
	b.Write(0xFF48, 0xFF) // OBP0
	b.Write(0xFF49, 0xFF) // OBP1
	b.Write(0xFF4A, 0x00) // WY
	b.Write(0xFF4B, 0x00) // WX
	b.Write(0xFFFF, 0x00) // IE
	b.Write(0xFF26, 0x80) // NR52 power
	b.Write(0xFF24, 0x77) // NR50: L=7, R=7
	b.Write(0xFF25, 0xF3) // NR51
}

// Tick advances the GPU and the APU by one cycle.
func (m *Machine) Tick() {
	m.gpu.Tick()
	m.apu.Tick()
	m.cycles++
}

// StepFrame runs one frame worth of cycles. An addressing fault raised by
// any unit stops the frame and is returned.
func (m *Machine) StepFrame() error {
	return addr.Catch(func() {
		for i := 0; i < CyclesPerFrame; i++ {
			m.Tick()
		}
	})
}

func (m *Machine) Read(a uint16) byte     { return m.bus.Read(a) }
func (m *Machine) Write(a uint16, v byte) { m.bus.Write(a, v) }

// SaveRAM flushes battery-backed cartridge state.
func (m *Machine) SaveRAM() error { return m.cart.SaveRAM() }

// ToggleChannel mutes or unmutes one sound channel (0-3) in the mix.
// Other indexes are ignored.
func (m *Machine) ToggleChannel(i int) { m.apu.ToggleChannel(i) }

// Sprites returns the sprites found by the last OAM search.
func (m *Machine) Sprites() []ppu.SpritePosition { return m.gpu.Sprites() }

// RTC returns the cartridge clock, or nil when the cartridge has none.
func (m *Machine) RTC() *cart.RTC {
	if mbc, ok := m.cart.(*cart.MBC3); ok && m.header != nil && m.header.HasRTC {
		return mbc.RTC()
	}
	return nil
}

// Header is nil when the ROM carries no parseable header.
func (m *Machine) Header() *cart.Header { return m.header }

func (m *Machine) Config() Config       { return m.cfg }
func (m *Machine) Frames() uint64       { return m.gpu.Frames() }
func (m *Machine) Cycles() uint64       { return m.cycles }
func (m *Machine) GPU() *ppu.GPU        { return m.gpu }
func (m *Machine) APU() *apu.APU        { return m.apu }
func (m *Machine) Cart() cart.Cartridge { return m.cart }
