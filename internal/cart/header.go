package cart

import (
	"encoding/binary"
	"errors"
	"fmt"
	"strings"
)

const (
	headerStart = 0x0100
	headerEnd   = 0x014F
)

// ErrROMTooSmall is returned when an image ends before the header does.
var ErrROMTooSmall = errors.New("cart: ROM too small to contain header")

var nintendoLogo = [48]byte{
	0xCE, 0xED, 0x66, 0x66, 0xCC, 0x0D, 0x00, 0x0B, 0x03, 0x73, 0x00, 0x83, 0x00, 0x0C, 0x00, 0x0D,
	0x00, 0x08, 0x11, 0x1F, 0x88, 0x89, 0x00, 0x0E, 0xDC, 0xCC, 0x6E, 0xE6, 0xDD, 0xDD, 0xD9, 0x99,
	0xBB, 0xBB, 0x67, 0x63, 0x6E, 0x0E, 0xEC, 0xCC, 0xDD, 0xDC, 0x99, 0x9F, 0xBB, 0xB9, 0x33, 0x3E,
}

// Controller identifies the banking hardware on a cartridge.
type Controller int

const (
	ControllerNone Controller = iota
	ControllerMBC1
	ControllerMBC2
	ControllerMBC3
	ControllerMBC5
	ControllerUnknown
)

func (c Controller) String() string {
	switch c {
	case ControllerNone:
		return "ROM ONLY"
	case ControllerMBC1:
		return "MBC1"
	case ControllerMBC2:
		return "MBC2"
	case ControllerMBC3:
		return "MBC3"
	case ControllerMBC5:
		return "MBC5"
	}
	return "unknown"
}

type Header struct {
	Title          string // trimmed ASCII
	CGBFlag        byte   // 0x0143
	CartType       byte   // 0x0147
	ROMSizeCode    byte   // 0x0148
	RAMSizeCode    byte   // 0x0149
	HeaderChecksum byte   // 0x014D
	GlobalChecksum uint16 // 0x014E-0x014F

	ROMBanks     int
	RAMSizeBytes int
	Controller   Controller
	HasBattery   bool
	HasRTC       bool
	LogoOK       bool
}

// RAMBanks is the number of 8 KiB external RAM banks.
func (h *Header) RAMBanks() int { return h.RAMSizeBytes / 0x2000 }

// CGB reports whether the cartridge asks for Color hardware.
func (h *Header) CGB() bool { return h.CGBFlag&0x80 != 0 }

func (h *Header) String() string {
	s := fmt.Sprintf("%q %s rom=%d banks ram=%d KiB", h.Title, h.Controller, h.ROMBanks, h.RAMSizeBytes/1024)
	if h.HasBattery {
		s += " +battery"
	}
	if h.HasRTC {
		s += " +rtc"
	}
	return s
}

func ParseHeader(rom []byte) (*Header, error) {
	if len(rom) < headerEnd+1 {
		return nil, fmt.Errorf("%w: %d bytes", ErrROMTooSmall, len(rom))
	}

	// Title region overlaps the CGB flag on newer carts.
	title := strings.TrimRight(string(rom[0x0134:0x0144]), "\x00")
	if rom[0x0143]&0x80 != 0 {
		title = strings.TrimRight(string(rom[0x0134:0x0143]), "\x00")
	}

	h := &Header{
		Title:          title,
		CGBFlag:        rom[0x0143],
		CartType:       rom[0x0147],
		ROMSizeCode:    rom[0x0148],
		RAMSizeCode:    rom[0x0149],
		HeaderChecksum: rom[0x014D],
		GlobalChecksum: binary.BigEndian.Uint16(rom[0x014E:0x0150]),
		LogoOK:         [48]byte(rom[0x0104:0x0134]) == nintendoLogo,
	}
	h.ROMBanks = decodeROMBanks(h.ROMSizeCode)
	h.RAMSizeBytes = decodeRAMSize(h.RAMSizeCode)
	h.Controller, h.HasBattery, h.HasRTC = decodeCartType(h.CartType)
	return h, nil
}

func HeaderChecksumOK(rom []byte) bool {
	if len(rom) < 0x014E {
		return false
	}
	var sum byte
	for a := 0x0134; a <= 0x014C; a++ {
		sum = sum - rom[a] - 1
	}
	return sum == rom[0x014D]
}

func decodeROMBanks(code byte) int {
	switch code {
	case 0x52:
		return 72
	case 0x53:
		return 80
	case 0x54:
		return 96
	}
	if code <= 0x08 {
		return 2 << code
	}
	return 0
}

func decodeRAMSize(code byte) int {
	switch code {
	case 0x02:
		return 8 * 1024
	case 0x03:
		return 32 * 1024
	case 0x04:
		return 128 * 1024
	case 0x05:
		return 64 * 1024
	default:
		return 0
	}
}

func decodeCartType(code byte) (c Controller, battery, rtc bool) {
	switch code {
	case 0x00, 0x08:
		return ControllerNone, false, false
	case 0x09:
		return ControllerNone, true, false
	case 0x01, 0x02:
		return ControllerMBC1, false, false
	case 0x03:
		return ControllerMBC1, true, false
	case 0x05:
		return ControllerMBC2, false, false
	case 0x06:
		return ControllerMBC2, true, false
	case 0x0F, 0x10:
		return ControllerMBC3, true, true
	case 0x11, 0x12:
		return ControllerMBC3, false, false
	case 0x13:
		return ControllerMBC3, true, false
	case 0x19, 0x1A, 0x1C, 0x1D:
		return ControllerMBC5, false, false
	case 0x1B, 0x1E:
		return ControllerMBC5, true, false
	}
	return ControllerUnknown, false, false
}
