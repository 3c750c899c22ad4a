package apu

// TicksPerSec is the engine clock: one Tick per CPU cycle.
const TicksPerSec = 4194304

// lengthCounter silences a channel after 64 (or 256) steps of 1/256 s.
type lengthCounter struct {
	full    int
	length  int
	i       int
	enabled bool
}

const lengthDivider = TicksPerSec / 256

func newLengthCounter(full int) lengthCounter {
	return lengthCounter{full: full}
}

func (l *lengthCounter) start() { l.i = 8192 }

func (l *lengthCounter) tick() {
	l.i++
	if l.i == lengthDivider {
		l.i = 0
		if l.enabled && l.length > 0 {
			l.length--
		}
	}
}

func (l *lengthCounter) setLength(n int) {
	if n == 0 {
		n = l.full
	}
	l.length = n
}

// setNR4 applies the length-enable and trigger bits, including the extra
// clock the hardware gives when enabling in the first half of a period.
func (l *lengthCounter) setNR4(v byte) {
	enable := v&(1<<6) != 0
	trigger := v&(1<<7) != 0
	firstHalf := l.i < lengthDivider/2
	switch {
	case l.enabled:
		if l.length == 0 && trigger {
			if enable && firstHalf {
				l.setLength(l.full - 1)
			} else {
				l.setLength(l.full)
			}
		}
	case enable:
		if l.length > 0 && firstHalf {
			l.length--
		}
		if l.length == 0 && trigger && firstHalf {
			l.setLength(l.full - 1)
		}
	default:
		if l.length == 0 && trigger {
			l.setLength(l.full)
		}
	}
	l.enabled = enable
}

// reset is the CGB power-on behaviour: lengths do not survive.
func (l *lengthCounter) reset() {
	l.enabled = true
	l.i = 0
	l.length = 0
}

type volumeEnvelope struct {
	initial   int
	direction int
	period    int
	volume    int
	i         int
	finished  bool
}

func (e *volumeEnvelope) setNR2(v byte) {
	e.initial = int(v >> 4)
	e.direction = -1
	if v&(1<<3) != 0 {
		e.direction = 1
	}
	e.period = int(v & 0b111)
}

func (e *volumeEnvelope) start() {
	e.finished = true
	e.i = 8192
}

func (e *volumeEnvelope) trigger() {
	e.volume = e.initial
	e.i = 0
	e.finished = false
}

func (e *volumeEnvelope) tick() {
	if e.finished {
		return
	}
	if (e.volume == 0 && e.direction < 0) || (e.volume == 15 && e.direction > 0) {
		e.finished = true
		return
	}
	e.i++
	if e.i == e.period*TicksPerSec/64 {
		e.i = 0
		e.volume += e.direction
	}
}

func (e *volumeEnvelope) level() int {
	if e.period > 0 {
		return e.volume
	}
	return e.initial
}

const sweepDivider = TicksPerSec / 128

// frequencySweep owns channel 1's frequency (NR13/NR14 low bits) because
// the sweep writes it back.
type frequencySweep struct {
	period  int
	negate  bool
	shift   int
	timer   int
	shadow  int
	nr13    byte
	nr14    byte
	i       int
	enabled bool

	overflow bool
	negging  bool // a negate calculation happened since trigger
}

func (s *frequencySweep) start() {
	s.enabled = false
	s.i = 8192
}

func (s *frequencySweep) trigger() {
	s.negging = false
	s.overflow = false
	s.shadow = int(s.nr13) | int(s.nr14&0b111)<<8
	s.timer = s.reload()
	s.enabled = s.period != 0 || s.shift != 0
	if s.shift > 0 {
		s.calculate()
	}
}

func (s *frequencySweep) reload() int {
	if s.period == 0 {
		return 8
	}
	return s.period
}

func (s *frequencySweep) setNR10(v byte) {
	s.period = int(v>>4) & 0b111
	s.negate = v&(1<<3) != 0
	s.shift = int(v & 0b111)
	// leaving negate mode after using it disables the channel
	if s.negging && !s.negate {
		s.overflow = true
	}
}

func (s *frequencySweep) setNR13(v byte) { s.nr13 = v }

func (s *frequencySweep) setNR14(v byte) {
	s.nr14 = v
	if v&(1<<7) != 0 {
		s.trigger()
	}
}

func (s *frequencySweep) tick() {
	s.i++
	if s.i != sweepDivider {
		return
	}
	s.i = 0
	if !s.enabled {
		return
	}
	s.timer--
	if s.timer != 0 {
		return
	}
	s.timer = s.reload()
	if s.period == 0 {
		return
	}
	f := s.calculate()
	if !s.overflow && s.shift != 0 {
		s.shadow = f
		s.nr13 = byte(f)
		s.nr14 = byte(f>>8) & 0b111
		s.calculate()
	}
}

func (s *frequencySweep) calculate() int {
	d := s.shadow >> s.shift
	f := s.shadow + d
	if s.negate {
		f = s.shadow - d
		s.negging = true
	}
	if f > 2047 {
		s.overflow = true
	}
	return f
}

func (s *frequencySweep) ok() bool { return !s.overflow }

var noiseDivisors = [8]int{8, 16, 32, 48, 64, 80, 96, 112}

// polynomialCounter clocks the LFSR every divisor<<shift ticks.
type polynomialCounter struct {
	i       int
	divisor int
}

func (p *polynomialCounter) setNR43(v byte) {
	p.divisor = noiseDivisors[v&0b111] << (v >> 4)
	p.i = 1
}

func (p *polynomialCounter) tick() bool {
	p.i--
	if p.i == 0 {
		p.i = p.divisor
		return true
	}
	return false
}

type lfsr uint16

func (l *lfsr) reset() { *l = 0x7FFF }

// next shifts once and returns the output bit (inverted bit 0).
func (l *lfsr) next(width7 bool) int {
	v := uint16(*l)
	x := (v ^ v>>1) & 1
	v = v>>1 | x<<14
	if width7 {
		v = v&^(1<<6) | x<<6
	}
	*l = lfsr(v)
	return int(^v & 1)
}
