// Package audio carries engine samples to host consumers: a fixed-size byte
// ring between the emulation goroutine and whoever plays or records.
package audio

import "sync"

// RingBuffer is a fixed-capacity byte FIFO safe for one producer and any
// number of consumers. Writes past capacity are dropped, never blocked.
type RingBuffer struct {
	mu  sync.Mutex
	buf []byte
	w   int
	r   int
	n   int
}

func NewRingBuffer(capacity int) *RingBuffer {
	return &RingBuffer{buf: make([]byte, capacity)}
}

// Write copies as much of p as fits and returns the count stored.
func (b *RingBuffer) Write(p []byte) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := min(len(p), len(b.buf)-b.n)
	for i := 0; i < n; {
		c := copy(b.buf[b.w:], p[i:n])
		i += c
		b.w = (b.w + c) % len(b.buf)
	}
	b.n += n
	return n
}

// Read fills p with up to Len bytes and returns the count read.
func (b *RingBuffer) Read(p []byte) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := min(len(p), b.n)
	for i := 0; i < n; {
		end := min(len(b.buf), b.r+n-i)
		c := copy(p[i:], b.buf[b.r:end])
		i += c
		b.r = (b.r + c) % len(b.buf)
	}
	b.n -= n
	return n
}

func (b *RingBuffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.n
}

func (b *RingBuffer) Cap() int { return len(b.buf) }
