package ppu

// LCD register addresses (FF40–FF4B).
const (
	regLCDC = 0xFF40
	regSTAT = 0xFF41
	regLY   = 0xFF44
	regLYC  = 0xFF45
	regWX   = 0xFF4B
)

// LCDC bits.
const (
	lcdcObjSize = 1 << 2 // 0: 8x8, 1: 8x16
	lcdcEnable  = 1 << 7
)

// STAT interrupt enables.
const (
	statHBlankInt = 1 << 3
	statVBlankInt = 1 << 4
	statOAMInt    = 1 << 5
	statLYCInt    = 1 << 6
	statLYCFlag   = 1 << 2
)

// Registers holds the LCD register file at FF40–FF4B as raw bytes.
// CPU-visible masking lives in GPU.Read/Write; the sprite scan reads the
// raw values through the accessors.
type Registers struct {
	r [regWX - regLCDC + 1]byte
}

func (r *Registers) get(a uint16) byte    { return r.r[a-regLCDC] }
func (r *Registers) set(a uint16, v byte) { r.r[a-regLCDC] = v }

func (r *Registers) LCDC() byte { return r.get(regLCDC) }
func (r *Registers) STAT() byte { return r.get(regSTAT) }
func (r *Registers) LY() byte   { return r.get(regLY) }
func (r *Registers) LYC() byte  { return r.get(regLYC) }

// SetLCDC and SetLY write the raw register without any side effects.
// They exist for hosts and tests that drive the scan directly.
func (r *Registers) SetLCDC(v byte) { r.set(regLCDC, v) }
func (r *Registers) SetLY(v byte)   { r.set(regLY, v) }

// SpriteHeight returns 8 or 16 depending on LCDC bit 2.
func (r *Registers) SpriteHeight() int {
	if r.LCDC()&lcdcObjSize != 0 {
		return 16
	}
	return 8
}

func (r *Registers) lcdOn() bool { return r.LCDC()&lcdcEnable != 0 }
