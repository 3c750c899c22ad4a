package host

import (
	"fmt"
	"io"
	"time"

	"github.com/hajimehoshi/ebiten/v2/audio"
)

// EbitenPlayer plays 16-bit stereo PCM through ebiten's audio context.
// Only one context may exist per process.
type EbitenPlayer struct {
	player *audio.Player
}

func NewEbitenPlayer(src io.Reader, sampleRate int, buffer time.Duration) (*EbitenPlayer, error) {
	ctx := audio.CurrentContext()
	if ctx == nil {
		ctx = audio.NewContext(sampleRate)
	} else if ctx.SampleRate() != sampleRate {
		return nil, fmt.Errorf("ebiten: audio context already running at %d Hz", ctx.SampleRate())
	}
	p, err := ctx.NewPlayer(src)
	if err != nil {
		return nil, fmt.Errorf("ebiten: %w", err)
	}
	p.SetBufferSize(buffer)
	p.Play()
	return &EbitenPlayer{player: p}, nil
}

func (p *EbitenPlayer) Close() error {
	return p.player.Close()
}
