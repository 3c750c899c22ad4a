package apu

import (
	"errors"
	"testing"

	"github.com/FabianRolfMatthiasNoll/gbhw/internal/addr"
)

type recordingOutput struct {
	plays  [][2]int
	starts int
	stops  int
}

func (o *recordingOutput) Play(l, r int) { o.plays = append(o.plays, [2]int{l, r}) }
func (o *recordingOutput) Start()        { o.starts++ }
func (o *recordingOutput) Stop()         { o.stops++ }

func powered(t *testing.T, cgb bool) (*APU, *recordingOutput) {
	t.Helper()
	out := &recordingOutput{}
	a := New(out, cgb)
	a.Write(regNR52, 0x80)
	return a, out
}

// constChannel stands in for a generator with a fixed level.
type constChannel struct{ level int }

func (c *constChannel) Accepts(uint16) bool { return false }
func (c *constChannel) Read(uint16) byte    { return 0 }
func (c *constChannel) Write(uint16, byte)  {}
func (c *constChannel) Enabled() bool       { return true }
func (c *constChannel) tick() int           { return c.level }
func (c *constChannel) start()              {}
func (c *constChannel) stop()               {}

func TestAPU_PoweredOffIsSilent(t *testing.T) {
	out := &recordingOutput{}
	a := New(out, false)
	for i := 0; i < 100; i++ {
		a.Tick()
	}
	if len(out.plays) != 0 || out.starts != 0 {
		t.Fatalf("powered-off APU played %d samples, %d starts", len(out.plays), out.starts)
	}
	if got := a.Read(regNR52); got != 0x70 {
		t.Fatalf("NR52 got %02X want 70", got)
	}
}

func TestAPU_PowerCycleKeepsLengths(t *testing.T) {
	a, out := powered(t, false)
	a.Write(0xFF11, 0b11100101)
	a.Write(0xFF12, 0xF3)
	a.Write(0xFF16, 0x8A)
	a.Write(0xFF1B, 0x77)
	a.Write(0xFF20, 0xFF)
	a.Write(regNR50, 0x77)

	a.Write(regNR52, 0x00)
	a.Write(regNR52, 0x80)
	if out.starts != 2 || out.stops != 1 {
		t.Fatalf("output starts=%d stops=%d want 2/1", out.starts, out.stops)
	}

	ch1 := a.channels[0].(*square)
	if got := ch1.nr[1]; got != 0b00100101 {
		t.Fatalf("NR11 raw got %08b want 00100101", got)
	}
	if got := ch1.length.length; got != 64-0b100101 {
		t.Fatalf("ch1 length got %d want %d", got, 64-0b100101)
	}
	if got := a.channels[1].(*square).nr[1]; got != 0x0A {
		t.Fatalf("NR21 raw got %02X want 0A", got)
	}
	if got := a.channels[2].(*wave).nr[1]; got != 0x77 {
		t.Fatalf("NR31 raw got %02X want 77", got)
	}
	if got := a.channels[3].(*noise).nr[1]; got != 0x3F {
		t.Fatalf("NR41 raw got %02X want 3F", got)
	}
	if got := a.Read(0xFF12); got != 0x00 {
		t.Fatalf("NR12 got %02X want 00", got)
	}
	if got := a.Read(regNR50); got != 0x00 {
		t.Fatalf("NR50 got %02X want 00", got)
	}
}

func TestAPU_ReadMasks(t *testing.T) {
	a, _ := powered(t, false)
	cases := []struct {
		a    uint16
		want byte
	}{
		{0xFF10, 0x80},
		{0xFF11, 0x3F},
		{0xFF13, 0xFF},
		{0xFF14, 0xBF},
		{0xFF15, 0xFF},
		{0xFF1A, 0x7F},
		{0xFF1C, 0x9F},
		{0xFF1F, 0xFF},
		{0xFF23, 0xBF},
		{0xFF30, dmgWave[0]},
		{0xFF3F, dmgWave[15]},
	}
	for _, tc := range cases {
		if got := a.Read(tc.a); got != tc.want {
			t.Fatalf("read %04X got %02X want %02X", tc.a, got, tc.want)
		}
	}
}

func TestAPU_StatusBits(t *testing.T) {
	a, out := powered(t, false)
	a.Write(0xFF12, 0xF0)
	a.Write(0xFF14, 0x80)
	if got := a.Read(regNR52); got != 0xF1 {
		t.Fatalf("NR52 after trigger got %02X want F1", got)
	}
	// DAC off kills the channel
	a.Write(0xFF12, 0x00)
	if got := a.Read(regNR52); got != 0xF0 {
		t.Fatalf("NR52 after DAC off got %02X want F0", got)
	}
	a.Write(0xFF12, 0xF0)
	a.Write(0xFF14, 0x80)
	a.Write(regNR52, 0x00)
	if got := a.Read(regNR52); got != 0x70 {
		t.Fatalf("NR52 after power off got %02X want 70", got)
	}
	if out.stops != 1 {
		t.Fatalf("stops got %d want 1", out.stops)
	}
}

func TestAPU_MixRoutesAndScales(t *testing.T) {
	out := &recordingOutput{}
	a := New(out, false)
	a.Write(regNR52, 0x80)
	a.channels = [4]Channel{&constChannel{5}, &constChannel{6}, &constChannel{7}, &constChannel{8}}
	a.Write(regNR51, 0b0001_0010) // ch1 left, ch2 right
	a.Write(regNR50, 0x73)
	a.Tick()
	a.ToggleChannel(0)
	a.Tick()
	a.ToggleChannel(0)
	a.Write(regNR51, 0xFF)
	a.Tick()

	want := [][2]int{{35, 18}, {0, 18}, {(5 + 6 + 7 + 8) * 7, (5 + 6 + 7 + 8) * 3}}
	if len(out.plays) != len(want) {
		t.Fatalf("plays got %d want %d", len(out.plays), len(want))
	}
	for i := range want {
		if out.plays[i] != want[i] {
			t.Fatalf("sample %d got %v want %v", i, out.plays[i], want[i])
		}
	}
}

func TestAPU_SquareDuty(t *testing.T) {
	a, out := powered(t, false)
	a.Write(regNR50, 0x77)
	a.Write(regNR51, 0x11)
	a.Write(0xFF11, 0x80) // 50% duty
	a.Write(0xFF12, 0xF0)
	a.Write(0xFF13, 0xFF)
	a.Write(0xFF14, 0x87)
	for i := 0; i < 32; i++ {
		a.Tick()
	}
	high := 0
	for _, p := range out.plays {
		switch p[0] {
		case 15 * 7:
			high++
		case 0:
		default:
			t.Fatalf("unexpected level %d", p[0])
		}
	}
	if high != 16 {
		t.Fatalf("high samples got %d want 16", high)
	}
}

func TestAPU_LengthExpiry(t *testing.T) {
	a, _ := powered(t, false)
	a.Write(0xFF11, 0x3F) // one step left
	a.Write(0xFF12, 0xF0)
	a.Write(0xFF14, 0xC0)
	for i := 0; i < lengthDivider/2-1; i++ {
		a.Tick()
	}
	if a.Read(regNR52)&1 == 0 {
		t.Fatalf("channel 1 stopped early")
	}
	a.Tick()
	if a.Read(regNR52)&1 != 0 {
		t.Fatalf("channel 1 still running after length expired")
	}
}

func TestAPU_WaveRAMWhilePlaying(t *testing.T) {
	a, _ := powered(t, false)
	a.Write(0xFF30, 0x12)
	a.Write(0xFF1A, 0x80)
	a.Write(0xFF1C, 0x20)
	a.Write(0xFF1E, 0x80)
	if got := a.Read(0xFF30); got != 0xFF {
		t.Fatalf("DMG wave read while playing got %02X want FF", got)
	}
	a.Write(0xFF1A, 0x00)
	if got := a.Read(0xFF30); got != 0x12 {
		t.Fatalf("wave read after DAC off got %02X want 12", got)
	}

	c, _ := powered(t, true)
	c.Write(0xFF30, 0x34)
	c.Write(0xFF1A, 0x80)
	c.Write(0xFF1E, 0x80)
	if got := c.Read(0xFF3A); got != 0x34 {
		t.Fatalf("CGB wave read while playing got %02X want 34", got)
	}
}

func TestAPU_FaultsOutsideRegisters(t *testing.T) {
	a, _ := powered(t, false)
	for _, x := range []uint16{0xFF0F, 0xFF27, 0xFF2F, 0xFF40} {
		if a.Accepts(x) {
			t.Fatalf("Accepts(%04X) = true", x)
		}
		if err := addr.Catch(func() { a.Read(x) }); !errors.Is(err, addr.ErrInvalidAddress) {
			t.Fatalf("read %04X got %v", x, err)
		}
		if err := addr.Catch(func() { a.Write(x, 0) }); !errors.Is(err, addr.ErrInvalidAddress) {
			t.Fatalf("write %04X got %v", x, err)
		}
	}
}

func TestLFSR_Periods(t *testing.T) {
	var l lfsr
	l.reset()
	for i := 1; i <= 32767; i++ {
		l.next(false)
		if l == 0x7FFF && i != 32767 {
			t.Fatalf("15-bit LFSR repeated after %d steps", i)
		}
	}
	if l != 0x7FFF {
		t.Fatalf("15-bit LFSR got %04X after full period", uint16(l))
	}

	l.reset()
	var bits [600]int
	for i := range bits {
		bits[i] = l.next(true)
	}
	for i := 200; i < 400; i++ {
		if bits[i] != bits[i+127] {
			t.Fatalf("7-bit LFSR bit %d differs from %d", i, i+127)
		}
	}
}

func TestAPU_ToggleChannelIgnoresBadIndex(t *testing.T) {
	a := New(nil, false)
	for _, i := range []int{-1, 4, 100} {
		a.ToggleChannel(i)
		if a.Muted(i) {
			t.Fatalf("channel %d reported muted", i)
		}
	}
	for i := 0; i < 4; i++ {
		if a.Muted(i) {
			t.Fatalf("channel %d muted by an out-of-range toggle", i)
		}
	}
}
