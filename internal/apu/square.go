package apu

// duty patterns for NRx1 bits 7–6, read LSB first
var dutyPatterns = [4]byte{0b00000001, 0b10000001, 0b10000111, 0b01111110}

// square is channels 1 and 2. Channel 1 adds the frequency sweep, which
// also takes over the frequency registers.
type square struct {
	voice
	sweep    *frequencySweep
	envelope volumeEnvelope
	divider  int
	step     int
	out      int
}

func newSquare1(cgb bool) *square {
	return &square{voice: newVoice("nr1x", 0xFF10, 64, cgb), sweep: &frequencySweep{}}
}

func newSquare2(cgb bool) *square {
	return &square{voice: newVoice("nr2x", 0xFF15, 64, cgb)}
}

func (c *square) Read(a uint16) byte {
	r := c.reg(a)
	if c.sweep != nil {
		switch r {
		case 3:
			return c.sweep.nr13
		case 4:
			return c.nr[4]&0b11111000 | c.sweep.nr14&0b111
		}
	}
	return c.nr[r]
}

func (c *square) Write(a uint16, v byte) {
	r := c.regW(a, v)
	c.nr[r] = v
	switch r {
	case 0:
		if c.sweep != nil {
			c.sweep.setNR10(v)
		}
	case 1:
		c.length.setLength(64 - int(v&0b00111111))
	case 2:
		c.envelope.setNR2(v)
		c.setDAC(v&0b11111000 != 0)
	case 3:
		if c.sweep != nil {
			c.sweep.setNR13(v)
		}
	case 4:
		c.setNR4(v, c.trigger)
		if c.sweep != nil {
			c.sweep.setNR14(v)
		}
	}
}

func (c *square) start() {
	c.step = 0
	c.startLength()
	if c.sweep != nil {
		c.sweep.start()
	}
	c.envelope.start()
}

func (c *square) trigger() {
	c.step = 0
	c.divider = 1
	c.envelope.trigger()
}

func (c *square) tick() int {
	c.envelope.tick()
	on := c.updateLength()
	if c.sweep != nil {
		c.sweep.tick()
		if c.enabled && !c.sweep.ok() {
			c.enabled = false
		}
		on = c.enabled
	}
	if !on || !c.dac {
		return 0
	}
	c.divider--
	if c.divider == 0 {
		c.divider = c.frequency() * 4
		duty := dutyPatterns[c.nr[1]>>6]
		c.out = int(duty>>c.step) & 1
		c.step = (c.step + 1) % 8
	}
	return c.out * c.envelope.level()
}

func (c *square) frequency() int {
	if c.sweep != nil {
		return period(c.sweep.nr13, c.sweep.nr14)
	}
	return period(c.nr[3], c.nr[4])
}
