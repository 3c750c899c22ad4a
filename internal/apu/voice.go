package apu

import "github.com/FabianRolfMatthiasNoll/gbhw/internal/addr"

// Channel is one of the four sound generators. The set is closed: only the
// square, wave and noise voices in this package implement it.
type Channel interface {
	addr.Space
	// Enabled is the NR52 status bit: triggered, length not expired, DAC on.
	Enabled() bool

	tick() int
	start()
	stop()
}

// voice holds what every channel shares: five NRx0–NRx4 registers at
// offset, a length counter and the enable/DAC state.
type voice struct {
	name    string
	offset  uint16
	cgb     bool
	nr      [5]byte
	length  lengthCounter
	enabled bool
	dac     bool
}

func newVoice(name string, offset uint16, length int, cgb bool) voice {
	return voice{name: name, offset: offset, cgb: cgb, length: newLengthCounter(length)}
}

func (v *voice) Accepts(a uint16) bool { return a >= v.offset && a < v.offset+5 }

func (v *voice) Enabled() bool { return v.enabled && v.dac }

func (v *voice) stop() { v.enabled = false }

// reg returns the register index for a, faulting outside the voice.
func (v *voice) reg(a uint16) int {
	if !v.Accepts(a) {
		addr.FaultRead(v.name, a)
	}
	return int(a - v.offset)
}

func (v *voice) regW(a uint16, val byte) int {
	if !v.Accepts(a) {
		addr.FaultWrite(v.name, a, val)
	}
	return int(a - v.offset)
}

func (v *voice) setDAC(on bool) {
	v.dac = on
	v.enabled = v.enabled && on
}

// setNR4 stores NRx4 and, on bit 7, enables the channel if its DAC is on
// and calls trigger.
func (v *voice) setNR4(val byte, trigger func()) {
	v.nr[4] = val
	v.length.setNR4(val)
	if val&(1<<7) != 0 {
		v.enabled = v.dac
		trigger()
	}
}

// period is the timer reload derived from the 11-bit frequency in NRx3/NRx4.
func period(lo, hi byte) int {
	return 2048 - (int(lo) | int(hi&0b111)<<8)
}

func (v *voice) updateLength() bool {
	v.length.tick()
	if v.length.enabled && v.enabled && v.length.length == 0 {
		v.enabled = false
	}
	return v.enabled
}

func (v *voice) startLength() {
	if v.cgb {
		v.length.reset()
	}
	v.length.start()
}
