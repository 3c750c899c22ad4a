package audio

import (
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"sync/atomic"
	"time"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"gopkg.in/tomb.v2"
)

// DrainInterval is how often a Recorder empties the ring.
const DrainInterval = 20 * time.Millisecond

// Recorder drains a RingBuffer into a 16-bit stereo WAV file from its own
// goroutine until Close.
type Recorder struct {
	t      tomb.Tomb
	ring   *RingBuffer
	f      *os.File
	enc    *wav.Encoder
	format *goaudio.Format
	raw    []byte
	frames atomic.Int64
}

func NewRecorder(path string, ring *RingBuffer, sampleRate int) (*Recorder, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("recorder: %w", err)
	}
	r := &Recorder{
		ring:   ring,
		f:      f,
		enc:    wav.NewEncoder(f, sampleRate, 16, 2, 1),
		format: &goaudio.Format{NumChannels: 2, SampleRate: sampleRate},
		raw:    make([]byte, ring.Cap()&^(BytesPerFrame-1)),
	}
	r.t.Go(r.loop)
	return r, nil
}

func (r *Recorder) loop() error {
	tick := time.NewTicker(DrainInterval)
	defer tick.Stop()
	for {
		select {
		case <-r.t.Dying():
			return r.drain()
		case <-tick.C:
			if err := r.drain(); err != nil {
				return err
			}
		}
	}
}

func (r *Recorder) drain() error {
	n := r.ring.Read(r.raw)
	n &^= BytesPerFrame - 1
	if n == 0 {
		return nil
	}
	buf := &goaudio.IntBuffer{
		Format:         r.format,
		Data:           make([]int, n/2),
		SourceBitDepth: 16,
	}
	for i := range buf.Data {
		buf.Data[i] = int(int16(binary.LittleEndian.Uint16(r.raw[i*2:])))
	}
	if err := r.enc.Write(buf); err != nil {
		return fmt.Errorf("recorder: %w", err)
	}
	r.frames.Add(int64(n / BytesPerFrame))
	return nil
}

// Frames is the number of stereo frames written so far.
func (r *Recorder) Frames() int64 { return r.frames.Load() }

// Close stops the goroutine after a final drain and finalises the WAV
// header.
func (r *Recorder) Close() error {
	r.t.Kill(nil)
	err := r.t.Wait()
	if cerr := r.enc.Close(); cerr != nil {
		err = errors.Join(err, fmt.Errorf("recorder: %w", cerr))
	}
	if cerr := r.f.Close(); cerr != nil {
		err = errors.Join(err, fmt.Errorf("recorder: %w", cerr))
	}
	return err
}
