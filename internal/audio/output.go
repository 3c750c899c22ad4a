package audio

import (
	"encoding/binary"
	"math"
)

const (
	engineHz = 4194304
	// BytesPerFrame is one signed 16-bit little-endian stereo frame.
	BytesPerFrame = 4
	// levelGain maps the engine's 0..420 mix level onto int16.
	levelGain = 64
)

// Output turns the engine's per-cycle stereo levels into PCM at the host
// rate and pushes it into a RingBuffer in chunks of about a video frame.
// It implements apu.Output and belongs to the emulation goroutine.
type Output struct {
	ring    *RingBuffer
	rate    int
	phase   int // accumulates rate per engine tick; a frame is due at engineHz
	chunk   []byte
	n       int
	dropped int
}

func NewOutput(ring *RingBuffer, sampleRate int) *Output {
	sampleRate = min(max(sampleRate, 1), engineHz)
	perChunk := max(sampleRate/60, 1)
	return &Output{
		ring:    ring,
		rate:    sampleRate,
		chunk:   make([]byte, perChunk*BytesPerFrame),
	}
}

// Play keeps exactly rate of every engineHz samples, spread evenly.
func (o *Output) Play(left, right int) {
	o.phase += o.rate
	if o.phase < engineHz {
		return
	}
	o.phase -= engineHz
	binary.LittleEndian.PutUint16(o.chunk[o.n:], uint16(pcm(left)))
	binary.LittleEndian.PutUint16(o.chunk[o.n+2:], uint16(pcm(right)))
	o.n += BytesPerFrame
	if o.n == len(o.chunk) {
		o.Flush()
	}
}

func pcm(level int) int16 {
	v := level * levelGain
	if v > math.MaxInt16 {
		return math.MaxInt16
	}
	if v < math.MinInt16 {
		return math.MinInt16
	}
	return int16(v)
}

// Flush pushes the partial chunk. Frames that do not fit in the ring are
// counted as dropped.
func (o *Output) Flush() {
	if o.n == 0 {
		return
	}
	w := o.ring.Write(o.chunk[:o.n])
	o.dropped += (o.n - w) / BytesPerFrame
	o.n = 0
}

func (o *Output) Start() {
	o.phase = 0
	o.n = 0
}

// Stop flushes what was produced before power-off.
func (o *Output) Stop() {
	o.Flush()
	o.phase = 0
}

// Dropped is the number of frames lost to a full ring.
func (o *Output) Dropped() int { return o.dropped }
