// Package apu is the DMG/CGB sound engine: four channel generators mixed
// through NR50/NR51 once per CPU cycle.
package apu

import "github.com/FabianRolfMatthiasNoll/gbhw/internal/addr"

const (
	regNR50 = 0xFF24 // master volume
	regNR51 = 0xFF25 // panning
	regNR52 = 0xFF26 // power and channel status
)

// Bits that always read back as 1, FF10–FF3F.
var readMasks = [0x30]byte{
	0x80, 0x3F, 0x00, 0xFF, 0xBF, // NR10–NR14
	0xFF, 0x3F, 0x00, 0xFF, 0xBF, // NR20–NR24
	0x7F, 0xFF, 0x9F, 0xFF, 0xBF, // NR30–NR34
	0xFF, 0xFF, 0x00, 0x00, 0xBF, // NR40–NR44
	0x00, 0x00, 0x70,             // NR50–NR52
	0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF,
	// wave RAM
}

// Output receives one stereo sample per engine tick. Levels are
// unsigned, 0 up to 15*4*7 per side.
type Output interface {
	Play(left, right int)
	Start()
	Stop()
}

// NullOutput drops everything.
type NullOutput struct{}

func (NullOutput) Play(int, int) {}
func (NullOutput) Start()        {}
func (NullOutput) Stop()         {}

type APU struct {
	channels [4]Channel
	levels   [4]int
	unmuted  [4]bool
	control  *addr.RAM // NR50–NR52
	out      Output
	enabled  bool
}

func New(out Output, cgb bool) *APU {
	if out == nil {
		out = NullOutput{}
	}
	return &APU{
		channels: [4]Channel{newSquare1(cgb), newSquare2(cgb), newWave(cgb), newNoise(cgb)},
		unmuted:  [4]bool{true, true, true, true},
		control:  addr.NewRAM("nr5x", regNR50, 3),
		out:      out,
	}
}

// Tick advances every channel by one CPU cycle and emits a sample.
// Nothing happens while powered off.
func (a *APU) Tick() {
	if !a.enabled {
		return
	}
	for i, c := range a.channels {
		a.levels[i] = c.tick()
	}
	pan := a.control.Read(regNR51)
	left, right := 0, 0
	for i, v := range a.levels {
		if !a.unmuted[i] {
			continue
		}
		if pan&(1<<(i+4)) != 0 {
			left += v
		}
		if pan&(1<<i) != 0 {
			right += v
		}
	}
	vol := a.control.Read(regNR50)
	left *= int(vol>>4) & 0b111
	right *= int(vol) & 0b111
	a.out.Play(left, right)
}

func (a *APU) space(x uint16) addr.Space {
	for _, c := range a.channels {
		if c.Accepts(x) {
			return c
		}
	}
	if a.control.Accepts(x) {
		return a.control
	}
	return nil
}

func (a *APU) Accepts(x uint16) bool { return a.space(x) != nil }

func (a *APU) Read(x uint16) byte {
	if x == regNR52 {
		var v byte
		for i, c := range a.channels {
			if c.Enabled() {
				v |= 1 << i
			}
		}
		if a.enabled {
			v |= 1 << 7
		}
		return v | readMasks[x-0xFF10]
	}
	v := a.raw(x)
	return v | readMasks[x-0xFF10]
}

func (a *APU) raw(x uint16) byte {
	s := a.space(x)
	if s == nil {
		addr.FaultRead("apu", x)
	}
	return s.Read(x)
}

func (a *APU) Write(x uint16, v byte) {
	if x == regNR52 {
		switch on := v&(1<<7) != 0; {
		case !on && a.enabled:
			a.enabled = false
			a.stop()
		case on && !a.enabled:
			a.enabled = true
			a.start()
		}
		return
	}
	s := a.space(x)
	if s == nil {
		addr.FaultWrite("apu", x, v)
	}
	s.Write(x, v)
}

// start clears FF10–FF25 on power-on. Length loads survive: NR11, NR21 and
// NR41 keep their low 6 bits and NR31 its full value.
func (a *APU) start() {
	for x := uint16(0xFF10); x <= regNR51; x++ {
		var v byte
		switch x {
		case 0xFF11, 0xFF16, 0xFF20:
			v = a.raw(x) & 0b00111111
		case 0xFF1B:
			v = a.raw(x)
		}
		a.Write(x, v)
	}
	for _, c := range a.channels {
		c.start()
	}
	a.out.Start()
}

func (a *APU) stop() {
	a.out.Stop()
	for _, c := range a.channels {
		c.stop()
	}
}

// ToggleChannel mutes or unmutes channel i (0–3) in the mix. The channel
// keeps running either way. Other indexes are ignored.
func (a *APU) ToggleChannel(i int) {
	if i < 0 || i >= len(a.unmuted) {
		return
	}
	a.unmuted[i] = !a.unmuted[i]
}

// Muted reports whether ToggleChannel has muted channel i.
func (a *APU) Muted(i int) bool {
	return i >= 0 && i < len(a.unmuted) && !a.unmuted[i]
}

func (a *APU) Enabled() bool { return a.enabled }
