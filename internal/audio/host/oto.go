package host

import (
	"fmt"
	"io"
	"time"

	"github.com/ebitengine/oto/v3"
)

// OtoPlayer plays 16-bit stereo PCM through oto.
type OtoPlayer struct {
	ctx    *oto.Context
	player *oto.Player
}

func NewOtoPlayer(src io.Reader, sampleRate int, buffer time.Duration) (*OtoPlayer, error) {
	op := &oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: 2,
		Format:       oto.FormatSignedInt16LE,
		BufferSize:   buffer,
	}
	ctx, ready, err := oto.NewContext(op)
	if err != nil {
		return nil, fmt.Errorf("oto: %w", err)
	}
	<-ready
	p := &OtoPlayer{ctx: ctx, player: ctx.NewPlayer(src)}
	p.player.Play()
	return p, nil
}

func (p *OtoPlayer) Close() error {
	return p.player.Close()
}
