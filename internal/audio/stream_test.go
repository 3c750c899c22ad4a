package audio

import (
	"encoding/binary"
	"testing"
)

func frame(l, r int16) []byte {
	p := make([]byte, BytesPerFrame)
	binary.LittleEndian.PutUint16(p, uint16(l))
	binary.LittleEndian.PutUint16(p[2:], uint16(r))
	return p
}

func TestStream_PadsUnderrunWithSilence(t *testing.T) {
	ring := NewRingBuffer(64)
	ring.Write(frame(100, -100))
	s := NewStream(ring, false)
	p := make([]byte, 16)
	for i := range p {
		p[i] = 0xAA
	}
	n, err := s.Read(p)
	if n != 16 || err != nil {
		t.Fatalf("Read got %d, %v", n, err)
	}
	if l := int16(binary.LittleEndian.Uint16(p)); l != 100 {
		t.Fatalf("left got %d want 100", l)
	}
	for i := 4; i < 16; i++ {
		if p[i] != 0 {
			t.Fatalf("padding byte %d got %02X", i, p[i])
		}
	}
	if s.Underruns() != 1 {
		t.Fatalf("underruns got %d want 1", s.Underruns())
	}
}

func TestStream_MonoAndMute(t *testing.T) {
	ring := NewRingBuffer(64)
	ring.Write(frame(100, 300))
	ring.Write(frame(1, 1))
	s := NewStream(ring, true)
	p := make([]byte, 4)
	s.Read(p)
	if l, r := int16(binary.LittleEndian.Uint16(p)), int16(binary.LittleEndian.Uint16(p[2:])); l != 200 || r != 200 {
		t.Fatalf("mono got %d/%d want 200/200", l, r)
	}

	s.SetMuted(true)
	s.Read(p)
	if p[0] != 0 || p[2] != 0 || ring.Len() != 0 {
		t.Fatalf("muted read got %v, ring %d", p, ring.Len())
	}
	if s.Underruns() != 0 {
		t.Fatalf("underruns got %d want 0", s.Underruns())
	}
}

func TestStream_PartialFrameIsNotAnUnderrun(t *testing.T) {
	ring := NewRingBuffer(64)
	for i := 0; i < 16; i++ {
		ring.Write(frame(int16(i+1), 7))
	}
	s := NewStream(ring, false)
	p := make([]byte, 6)
	for i := range p {
		p[i] = 0xAA
	}
	if n, err := s.Read(p); n != 6 || err != nil {
		t.Fatalf("Read got %d, %v", n, err)
	}
	if s.Underruns() != 0 {
		t.Fatalf("underruns got %d want 0", s.Underruns())
	}
	if ring.Len() != 60 {
		t.Fatalf("ring left %d bytes want 60", ring.Len())
	}
	if l := int16(binary.LittleEndian.Uint16(p)); l != 1 {
		t.Fatalf("left got %d want 1", l)
	}
	if p[4] != 0 || p[5] != 0 {
		t.Fatalf("partial frame got %02X %02X want 00 00", p[4], p[5])
	}
}
