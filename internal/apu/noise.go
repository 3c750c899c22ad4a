package apu

// noise is channel 4.
type noise struct {
	voice
	envelope volumeEnvelope
	poly     polynomialCounter
	lfsr     lfsr
	out      int
}

func newNoise(cgb bool) *noise {
	c := &noise{voice: newVoice("nr4x", 0xFF1F, 64, cgb)}
	c.lfsr.reset()
	return c
}

func (c *noise) Read(a uint16) byte { return c.nr[c.reg(a)] }

func (c *noise) Write(a uint16, v byte) {
	r := c.regW(a, v)
	c.nr[r] = v
	switch r {
	case 1:
		c.length.setLength(64 - int(v&0b00111111))
	case 2:
		c.envelope.setNR2(v)
		c.setDAC(v&0b11111000 != 0)
	case 3:
		c.poly.setNR43(v)
	case 4:
		c.setNR4(v, c.trigger)
	}
}

func (c *noise) start() {
	c.startLength()
	c.lfsr.reset()
	c.envelope.start()
}

func (c *noise) trigger() {
	c.lfsr.reset()
	c.envelope.trigger()
}

func (c *noise) tick() int {
	c.envelope.tick()
	if !c.updateLength() || !c.dac {
		return 0
	}
	if c.poly.tick() {
		c.out = c.lfsr.next(c.nr[3]&(1<<3) != 0)
	}
	return c.out * c.envelope.level()
}
