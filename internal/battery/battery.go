// Package battery stores cartridge RAM and RTC state between runs.
package battery

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/FabianRolfMatthiasNoll/gbhw/internal/cart"
)

var (
	_ cart.Battery = (*File)(nil)
	_ cart.Battery = (*Memory)(nil)
	_ cart.Battery = Null{}
)

// clockBytes is the size of the RTC trailer: 12 little-endian int64.
const clockBytes = cart.ClockFields * 8

// File is a .sav file: the RAM image, followed for RTC carts by the clock.
// A missing file loads as a fresh cartridge.
type File struct {
	path string
}

func NewFile(path string) *File { return &File{path: path} }

func (f *File) Path() string { return f.path }

func (f *File) read() ([]byte, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("battery: %w", err)
	}
	return data, nil
}

func (f *File) LoadRAM(ram []byte) error {
	data, err := f.read()
	if err != nil {
		return err
	}
	copy(ram, data)
	return nil
}

func (f *File) LoadRAMWithClock(ram []byte, clock *[cart.ClockFields]int64) error {
	data, err := f.read()
	if err != nil || data == nil {
		return err
	}
	copy(ram, data)
	if len(data) < len(ram)+clockBytes {
		// RAM-only save from an older run; the clock starts fresh
		return nil
	}
	return binary.Read(bytes.NewReader(data[len(ram):]), binary.LittleEndian, clock)
}

func (f *File) SaveRAM(ram []byte) error {
	return f.write(ram)
}

func (f *File) SaveRAMWithClock(ram []byte, clock [cart.ClockFields]int64) error {
	var buf bytes.Buffer
	buf.Grow(len(ram) + clockBytes)
	buf.Write(ram)
	if err := binary.Write(&buf, binary.LittleEndian, clock); err != nil {
		return fmt.Errorf("battery: %w", err)
	}
	return f.write(buf.Bytes())
}

// write replaces the file through a rename so a crash mid-write keeps the
// previous save.
func (f *File) write(data []byte) error {
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("battery: %w", err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		return fmt.Errorf("battery: %w", err)
	}
	return nil
}

// Memory keeps the last save in memory.
type Memory struct {
	RAM   []byte
	Clock [cart.ClockFields]int64
	Saves int
}

func (m *Memory) LoadRAM(ram []byte) error {
	copy(ram, m.RAM)
	return nil
}

func (m *Memory) LoadRAMWithClock(ram []byte, clock *[cart.ClockFields]int64) error {
	copy(ram, m.RAM)
	*clock = m.Clock
	return nil
}

func (m *Memory) SaveRAM(ram []byte) error {
	m.RAM = append(m.RAM[:0], ram...)
	m.Saves++
	return nil
}

func (m *Memory) SaveRAMWithClock(ram []byte, clock [cart.ClockFields]int64) error {
	m.Clock = clock
	return m.SaveRAM(ram)
}

// Null discards saves and loads nothing.
type Null struct{}

func (Null) LoadRAM([]byte) error                                    { return nil }
func (Null) SaveRAM([]byte) error                                    { return nil }
func (Null) LoadRAMWithClock([]byte, *[cart.ClockFields]int64) error { return nil }
func (Null) SaveRAMWithClock([]byte, [cart.ClockFields]int64) error  { return nil }
