package cart

// ClockFields is the number of int64 slots an RTC cartridge stores next to
// its RAM. Only 0–4 (live registers), 5–9 (latched copies) and 10 (save
// timestamp) carry meaning; slot 11 is kept for format compatibility.
const ClockFields = 12

// Battery persists cartridge RAM, and for RTC carts the clock state, across
// runs. Loading from a battery that has nothing saved yet is not an error and
// leaves the buffers untouched.
type Battery interface {
	LoadRAM(ram []byte) error
	SaveRAM(ram []byte) error
	LoadRAMWithClock(ram []byte, clock *[ClockFields]int64) error
	SaveRAMWithClock(ram []byte, clock [ClockFields]int64) error
}

type noBattery struct{}

func (noBattery) LoadRAM([]byte) error                               { return nil }
func (noBattery) SaveRAM([]byte) error                               { return nil }
func (noBattery) LoadRAMWithClock([]byte, *[ClockFields]int64) error { return nil }
func (noBattery) SaveRAMWithClock([]byte, [ClockFields]int64) error  { return nil }
