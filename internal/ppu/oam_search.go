package ppu

import "github.com/FabianRolfMatthiasNoll/gbhw/internal/addr"

const (
	oamBase       = 0xFE00
	oamSlots      = 40
	maxLineSprite = 10
)

// SpritePosition is one OAM entry found visible on the current line.
// Address is the CPU address of the entry's Y byte.
type SpritePosition struct {
	X, Y    int
	Address int
}

type scanState int

const (
	readingY scanState = iota
	readingX
)

// OAMSearch is the mode 2 phase: two dots per OAM slot, Y first then X.
// Only the first ten matching slots are kept; the rest are still read so
// the phase always lasts 80 dots.
type OAMSearch struct {
	oam  addr.Space
	regs *Registers

	sprites [maxLineSprite]SpritePosition
	count   int

	state scanState
	y     int
	i     int
}

func NewOAMSearch(oam addr.Space, regs *Registers) *OAMSearch {
	return &OAMSearch{oam: oam, regs: regs}
}

// Start resets the scan for a new line.
func (s *OAMSearch) Start() *OAMSearch {
	s.count = 0
	s.state = readingY
	s.y = 0
	s.i = 0
	s.sprites = [maxLineSprite]SpritePosition{}
	return s
}

// Tick performs one OAM read and reports whether slots remain.
func (s *OAMSearch) Tick() bool {
	a := oamBase + 4*s.i
	switch s.state {
	case readingY:
		s.y = int(s.oam.Read(uint16(a)))
		s.state = readingX
	case readingX:
		x := int(s.oam.Read(uint16(a + 1)))
		line := int(s.regs.LY()) + 16
		if s.count < maxLineSprite && s.y <= line && line < s.y+s.regs.SpriteHeight() {
			s.sprites[s.count] = SpritePosition{X: x, Y: s.y, Address: a}
			s.count++
		}
		s.i++
		s.state = readingY
	}
	return s.i < oamSlots
}

// Sprites returns the entries found so far, in OAM order. The slice is
// only valid until the next Start.
func (s *OAMSearch) Sprites() []SpritePosition {
	return s.sprites[:s.count:s.count]
}
