package emu

import (
	"time"

	"github.com/FabianRolfMatthiasNoll/gbhw/internal/audio"
	"github.com/FabianRolfMatthiasNoll/gbhw/internal/cart"
	"github.com/FabianRolfMatthiasNoll/gbhw/internal/ppu"
)

// Config contains settings that affect emulation behavior.
type Config struct {
	CGB        bool // color hardware: wave RAM always readable, lengths reset on power-on
	SampleRate int  // host audio rate in Hz
	BufferMs   int  // ring buffer capacity in milliseconds of audio
	LimitFPS   bool // throttle StepFrame callers to ~60 Hz
	PostBoot   bool // load the register values the boot ROM leaves behind

	Display ppu.Display      // frame boundary sink; nil means none
	Now     func() time.Time // wall clock for the cartridge RTC; nil means time.Now
}

// Defaults fills zero values.
func (c *Config) Defaults() {
	if c.SampleRate <= 0 {
		c.SampleRate = 48000
	}
	if c.BufferMs <= 0 {
		c.BufferMs = 5000
	}
}

// RingBytes is the ring buffer capacity for BufferMs of 16-bit stereo audio.
// It is always a whole number of frames.
func (c Config) RingBytes() int {
	frames := c.SampleRate * c.BufferMs / 1000
	if frames < 1 {
		frames = 1
	}
	return frames * audio.BytesPerFrame
}

// CGBDefault reports whether rom's header asks for Color hardware. ROMs
// without a readable header run as DMG.
func CGBDefault(rom []byte) bool {
	h, err := cart.ParseHeader(rom)
	return err == nil && h.CGB()
}
