package audio

import (
	"encoding/binary"
	"sync/atomic"
)

// Stream is the io.Reader a host audio player pulls from. It never blocks
// and never returns short: missing frames are padded with silence and
// counted as an underrun. A trailing partial frame is always silence.
type Stream struct {
	ring      *RingBuffer
	mono      bool
	muted     atomic.Bool
	underruns atomic.Int64
}

func NewStream(ring *RingBuffer, mono bool) *Stream {
	return &Stream{ring: ring, mono: mono}
}

func (s *Stream) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	whole := len(p) &^ (BytesPerFrame - 1)
	n := 0
	if whole > 0 {
		n = s.ring.Read(p[:whole])
	}
	if s.muted.Load() {
		n = 0
	} else if n < whole {
		s.underruns.Add(1)
	}
	if s.mono {
		foldMono(p[:n])
	}
	clear(p[n:])
	return len(p), nil
}

// foldMono replaces each stereo frame with the average of its sides.
func foldMono(p []byte) {
	for i := 0; i+3 < len(p); i += BytesPerFrame {
		l := int16(binary.LittleEndian.Uint16(p[i:]))
		r := int16(binary.LittleEndian.Uint16(p[i+2:]))
		m := uint16(int16((int32(l) + int32(r)) / 2))
		binary.LittleEndian.PutUint16(p[i:], m)
		binary.LittleEndian.PutUint16(p[i+2:], m)
	}
}

// SetMuted silences the stream while still draining the ring.
func (s *Stream) SetMuted(m bool) { s.muted.Store(m) }

func (s *Stream) Underruns() int64 { return s.underruns.Load() }
