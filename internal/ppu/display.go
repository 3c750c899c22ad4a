package ppu

// Display receives the GPU output. Pixels arrive in scan order during mode 3;
// RequestRefresh marks the start of VBlank, i.e. a completed frame.
type Display interface {
	PutDMGPixel(color int)
	PutColorPixel(rgb int)
	RequestRefresh()
}

// NullDisplay discards everything.
type NullDisplay struct{}

func (NullDisplay) PutDMGPixel(int)   {}
func (NullDisplay) PutColorPixel(int) {}
func (NullDisplay) RequestRefresh()   {}
