package cart

import "time"

// RTCRegs is one view of the MBC3 clock registers.
type RTCRegs struct {
	Seconds byte
	Minutes byte
	Hours   byte
	Days    uint16 // 9 bits
	Halted  bool
	Carry   bool // day counter overflowed past 511; sticky until cleared
}

func (r RTCRegs) dayHigh() int64 {
	v := int64(r.Days>>8) & 1
	if r.Halted {
		v |= 1 << 6
	}
	if r.Carry {
		v |= 1 << 7
	}
	return v
}

func (r *RTCRegs) setDayHigh(v int64) {
	r.Days = (r.Days & 0xFF) | uint16(v&1)<<8
	r.Halted = v&(1<<6) != 0
	r.Carry = v&(1<<7) != 0
}

// RTC is the MBC3 real-time clock. It advances from wall-clock time whenever
// it is observed, and keeps advancing while latched; latching only freezes
// what the registers read back.
type RTC struct {
	now func() time.Time

	live     RTCRegs
	snapshot RTCRegs
	latched  bool

	last     int64 // unix seconds the live registers are current to
	reserved int64
}

func NewRTC(now func() time.Time) *RTC {
	if now == nil {
		now = time.Now
	}
	return &RTC{now: now, last: now().Unix()}
}

// update folds the wall-clock time elapsed since the last observation into
// the live registers. Time spent halted is dropped.
func (c *RTC) update() {
	now := c.now().Unix()
	delta := now - c.last
	c.last = now
	if c.live.Halted || delta <= 0 {
		return
	}
	c.advance(delta)
}

func (c *RTC) advance(secs int64) {
	r := &c.live
	t := int64(r.Seconds) + secs
	r.Seconds = byte(t % 60)
	t = int64(r.Minutes) + t/60
	r.Minutes = byte(t % 60)
	t = int64(r.Hours) + t/60
	r.Hours = byte(t % 24)
	t = int64(r.Days) + t/24
	if t >= 512 {
		r.Carry = true
		t %= 512
	}
	r.Days = uint16(t)
}

// Regs returns the registers as the CPU sees them: the snapshot while
// latched, the live clock otherwise.
func (c *RTC) Regs() RTCRegs {
	if c.latched {
		return c.snapshot
	}
	c.update()
	return c.live
}

func (c *RTC) Latch() {
	c.update()
	c.snapshot = c.live
	c.latched = true
}

func (c *RTC) Unlatch() { c.latched = false }

func (c *RTC) Latched() bool { return c.latched }

func (c *RTC) SetSeconds(v byte) {
	c.update()
	c.live.Seconds = v & 0x3F
}

func (c *RTC) SetMinutes(v byte) {
	c.update()
	c.live.Minutes = v & 0x3F
}

func (c *RTC) SetHours(v byte) {
	c.update()
	c.live.Hours = v & 0x1F
}

func (c *RTC) SetDayCounter(v uint16) {
	c.update()
	c.live.Days = v & 0x1FF
}

// SetHalt stops or restarts the clock. Elapsed time is accounted up to the
// call in both directions.
func (c *RTC) SetHalt(halt bool) {
	c.update()
	c.live.Halted = halt
}

func (c *RTC) ClearCarry() {
	c.update()
	c.live.Carry = false
}

// Serialize returns the clock in battery-file order.
func (c *RTC) Serialize() [ClockFields]int64 {
	c.update()
	var d [ClockFields]int64
	put := func(base int, r RTCRegs) {
		d[base+0] = int64(r.Seconds)
		d[base+1] = int64(r.Minutes)
		d[base+2] = int64(r.Hours)
		d[base+3] = int64(r.Days & 0xFF)
		d[base+4] = r.dayHigh()
	}
	put(0, c.live)
	if c.latched {
		put(5, c.snapshot)
	} else {
		put(5, c.live)
	}
	d[10] = c.last
	d[11] = c.reserved
	return d
}

// Deserialize restores a clock saved by Serialize and catches it up with
// the wall time that passed since the save. A zero timestamp means no clock
// was ever saved.
func (c *RTC) Deserialize(d [ClockFields]int64) {
	get := func(base int) RTCRegs {
		r := RTCRegs{
			Seconds: byte(d[base+0]),
			Minutes: byte(d[base+1]),
			Hours:   byte(d[base+2]),
			Days:    uint16(d[base+3] & 0xFF),
		}
		r.setDayHigh(d[base+4])
		return r
	}
	c.live = get(0)
	c.snapshot = get(5)
	c.latched = false
	c.reserved = d[11]
	c.last = d[10]
	if c.last == 0 {
		c.last = c.now().Unix()
	}
	c.update()
}
