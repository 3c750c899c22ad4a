package cart

import "time"

// memBattery is an in-package Battery for controller tests.
type memBattery struct {
	ram     []byte
	clock   [ClockFields]int64
	saves   int
	loadErr error
	saveErr error
}

func (b *memBattery) LoadRAM(ram []byte) error {
	if b.loadErr != nil {
		return b.loadErr
	}
	copy(ram, b.ram)
	return nil
}

func (b *memBattery) SaveRAM(ram []byte) error {
	if b.saveErr != nil {
		return b.saveErr
	}
	b.saves++
	b.ram = append([]byte(nil), ram...)
	return nil
}

func (b *memBattery) LoadRAMWithClock(ram []byte, clock *[ClockFields]int64) error {
	if err := b.LoadRAM(ram); err != nil {
		return err
	}
	*clock = b.clock
	return nil
}

func (b *memBattery) SaveRAMWithClock(ram []byte, clock [ClockFields]int64) error {
	if err := b.SaveRAM(ram); err != nil {
		return err
	}
	b.clock = clock
	return nil
}

type fakeClock struct{ sec int64 }

func (c *fakeClock) now() time.Time { return time.Unix(c.sec, 0) }
