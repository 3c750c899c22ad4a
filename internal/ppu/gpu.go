package ppu

import "github.com/FabianRolfMatthiasNoll/gbhw/internal/addr"

// Mode is the STAT mode number.
type Mode byte

const (
	ModeHBlank        Mode = 0
	ModeVBlank        Mode = 1
	ModeOAMSearch     Mode = 2
	ModePixelTransfer Mode = 3
)

// Line timing in dots.
const (
	oamDots      = 80
	transferDots = 172
	lineDots     = 456
	visibleLines = 144
	totalLines   = 154
)

// Interrupt bits passed to the InterruptRequester.
const (
	IntVBlank = 0
	IntSTAT   = 1
)

// InterruptRequester is a callback signature to request IF bits (0:VBlank, 1:STAT).
type InterruptRequester func(bit int)

// GPU sequences the per-line phases and owns OAM and the LCD registers.
// Only the OAM search does real work; pixel transfer, HBlank and VBlank are
// timed but produce no pixels here.
type GPU struct {
	regs    Registers
	oam     *addr.RAM
	search  *OAMSearch
	display Display
	req     InterruptRequester

	dot    int
	frames uint64
}

func New(display Display, req InterruptRequester) *GPU {
	if display == nil {
		display = NullDisplay{}
	}
	g := &GPU{
		oam:     addr.NewRAM("oam", oamBase, 0xA0),
		display: display,
		req:     req,
	}
	g.search = NewOAMSearch(g.oam, &g.regs)
	return g
}

// OAM returns the sprite attribute table without the CPU access lock,
// for DMA and for the renderer.
func (g *GPU) OAM() *addr.RAM { return g.oam }

// Sprites returns the descriptors selected for the current (or last) line.
func (g *GPU) Sprites() []SpritePosition { return g.search.Sprites() }

// Frames counts VBlank entries since power-on.
func (g *GPU) Frames() uint64 { return g.frames }

func (g *GPU) Mode() Mode { return Mode(g.regs.STAT() & 0x03) }

func (g *GPU) Accepts(a uint16) bool {
	return (a >= oamBase && a < oamBase+0xA0) || (a >= regLCDC && a <= regWX)
}

func (g *GPU) Read(a uint16) byte {
	switch {
	case a >= oamBase && a < oamBase+0xA0:
		// OAM is inaccessible during modes 2 and 3
		if m := g.Mode(); m == ModeOAMSearch || m == ModePixelTransfer {
			return 0xFF
		}
		return g.oam.Read(a)
	case a == regSTAT:
		// bit7 reads as 1
		return 0x80 | (g.regs.STAT() & 0x7F)
	case a >= regLCDC && a <= regWX:
		return g.regs.get(a)
	}
	addr.FaultRead("gpu", a)
	return 0
}

func (g *GPU) Write(a uint16, v byte) {
	switch {
	case a >= oamBase && a < oamBase+0xA0:
		if m := g.Mode(); m == ModeOAMSearch || m == ModePixelTransfer {
			return
		}
		g.oam.Write(a, v)
	case a == regLCDC:
		prev := g.regs.LCDC()
		g.regs.set(regLCDC, v)
		switch {
		case v&lcdcEnable == 0 && prev&lcdcEnable != 0:
			g.regs.SetLY(0)
			g.dot = 0
			g.setMode(ModeHBlank)
			g.compareLYC()
		case v&lcdcEnable != 0 && prev&lcdcEnable == 0:
			g.regs.SetLY(0)
			g.dot = 0
			g.setMode(ModeOAMSearch)
			g.compareLYC()
		}
	case a == regSTAT:
		g.regs.set(regSTAT, (g.regs.STAT()&0x07)|(v&0x78))
	case a == regLY:
		// LY is read-only; a write restarts the frame
		g.regs.SetLY(0)
		g.dot = 0
		g.compareLYC()
		if g.regs.lcdOn() {
			g.setMode(ModeOAMSearch)
			g.search.Start()
		}
	case a == regLYC:
		g.regs.set(regLYC, v)
		g.compareLYC()
	case a >= regLCDC && a <= regWX:
		g.regs.set(a, v)
	default:
		addr.FaultWrite("gpu", a, v)
	}
}

// Tick advances the GPU by one dot.
func (g *GPU) Tick() {
	if !g.regs.lcdOn() {
		return
	}
	if g.Mode() == ModeOAMSearch && !g.search.Tick() {
		g.setMode(ModePixelTransfer)
	}
	g.dot++
	switch {
	case g.dot == lineDots:
		g.dot = 0
		g.nextLine()
	case g.dot == oamDots+transferDots && g.Mode() == ModePixelTransfer:
		g.setMode(ModeHBlank)
	}
}

func (g *GPU) nextLine() {
	ly := g.regs.LY() + 1
	if ly == totalLines {
		ly = 0
	}
	g.regs.SetLY(ly)
	g.compareLYC()
	switch {
	case ly == visibleLines:
		g.setMode(ModeVBlank)
		g.frames++
		g.request(IntVBlank)
		g.display.RequestRefresh()
	case ly < visibleLines:
		g.setMode(ModeOAMSearch)
	}
}

func (g *GPU) setMode(m Mode) {
	stat := g.regs.STAT()
	if Mode(stat&0x03) == m {
		return
	}
	g.regs.set(regSTAT, (stat&^0x03)|byte(m))
	switch m {
	case ModeHBlank:
		if stat&statHBlankInt != 0 {
			g.request(IntSTAT)
		}
	case ModeVBlank:
		if stat&statVBlankInt != 0 {
			g.request(IntSTAT)
		}
	case ModeOAMSearch:
		g.search.Start()
		if stat&statOAMInt != 0 {
			g.request(IntSTAT)
		}
	}
}

func (g *GPU) compareLYC() {
	stat := g.regs.STAT()
	if g.regs.LY() != g.regs.LYC() {
		g.regs.set(regSTAT, stat&^statLYCFlag)
		return
	}
	g.regs.set(regSTAT, stat|statLYCFlag)
	if stat&statLYCInt != 0 {
		g.request(IntSTAT)
	}
}

func (g *GPU) request(bit int) {
	if g.req != nil {
		g.req(bit)
	}
}
