package apu

const waveRAMStart = 0xFF30

// power-on wave RAM contents
var (
	dmgWave = [16]byte{0x84, 0x40, 0x43, 0xAA, 0x2D, 0x78, 0x92, 0x3C, 0x60, 0x59, 0x59, 0xB0, 0x34, 0xB8, 0x2E, 0xDA}
	cgbWave = [16]byte{0x00, 0xFF, 0x00, 0xFF, 0x00, 0xFF, 0x00, 0xFF, 0x00, 0xFF, 0x00, 0xFF, 0x00, 0xFF, 0x00, 0xFF}
)

// wave is channel 3: 32 4-bit samples from FF30–FF3F.
type wave struct {
	voice
	ram [16]byte

	divider   int
	pos       int // 0..31
	out       int
	buffer    byte
	lastRead  int // wave RAM index of the last sample fetch, -1 if none
	sinceRead int
	triggered bool
}

func newWave(cgb bool) *wave {
	c := &wave{voice: newVoice("nr3x", 0xFF1A, 256, cgb), lastRead: -1, sinceRead: 65536}
	c.ram = dmgWave
	if cgb {
		c.ram = cgbWave
	}
	return c
}

func inWaveRAM(a uint16) bool { return a >= waveRAMStart && a < waveRAMStart+16 }

func (c *wave) Accepts(a uint16) bool { return inWaveRAM(a) || c.voice.Accepts(a) }

// waveIndex is the wave RAM byte the CPU actually reaches while the channel
// plays: the one being fetched, and on DMG only right at the fetch.
func (c *wave) waveIndex(a uint16) (int, bool) {
	if !c.Enabled() {
		return int(a - waveRAMStart), true
	}
	if c.lastRead >= 0 && (c.cgb || c.sinceRead < 2) {
		return c.lastRead, true
	}
	return 0, false
}

func (c *wave) Read(a uint16) byte {
	if !inWaveRAM(a) {
		return c.nr[c.reg(a)]
	}
	if i, ok := c.waveIndex(a); ok {
		return c.ram[i]
	}
	return 0xFF
}

func (c *wave) Write(a uint16, v byte) {
	if inWaveRAM(a) {
		if i, ok := c.waveIndex(a); ok {
			c.ram[i] = v
		}
		return
	}
	r := c.regW(a, v)
	switch r {
	case 0:
		c.nr[0] = v
		c.setDAC(v&(1<<7) != 0)
	case 1:
		c.nr[1] = v
		c.length.setLength(256 - int(v))
	case 4:
		if !c.cgb && v&(1<<7) != 0 {
			c.corruptOnRetrigger()
		}
		c.setNR4(v, c.trigger)
	default:
		c.nr[r] = v
	}
}

// corruptOnRetrigger reproduces the DMG bug where retriggering right as a
// sample is fetched overwrites the first bytes of wave RAM.
func (c *wave) corruptOnRetrigger() {
	if !c.Enabled() || c.divider != 2 {
		return
	}
	p := c.pos / 2
	if p < 4 {
		c.ram[0] = c.ram[p]
		return
	}
	p &^= 3
	for j := 0; j < 4; j++ {
		c.ram[j] = c.ram[(p+j)%16]
	}
}

func (c *wave) start() {
	c.pos = 0
	c.buffer = 0
	c.startLength()
}

func (c *wave) trigger() {
	c.pos = 0
	c.divider = 6
	c.triggered = !c.cgb
	if c.cgb {
		c.fetch()
	}
}

func (c *wave) tick() int {
	c.sinceRead++
	if !c.updateLength() || !c.dac || c.nr[0]&(1<<7) == 0 {
		return 0
	}
	c.divider--
	if c.divider == 0 {
		c.divider = period(c.nr[3], c.nr[4]) * 2
		if c.triggered {
			// first sample after a DMG trigger comes from the stale buffer
			c.out = int(c.buffer>>4) & 0x0F
			c.triggered = false
		} else {
			c.out = c.fetch()
		}
		c.pos = (c.pos + 1) % 32
	}
	return c.out
}

// fetch loads the byte under pos and returns its nibble after the NR32
// output-level shift.
func (c *wave) fetch() int {
	c.sinceRead = 0
	c.lastRead = c.pos / 2
	c.buffer = c.ram[c.lastRead]
	s := c.buffer & 0x0F
	if c.pos%2 == 0 {
		s = c.buffer >> 4
	}
	switch (c.nr[2] >> 5) & 0b11 {
	case 0:
		return 0
	case 1:
		return int(s)
	case 2:
		return int(s >> 1)
	default:
		return int(s >> 2)
	}
}
