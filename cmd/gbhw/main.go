// Command gbhw runs the clocked handheld hardware (graphics timing, cartridge
// controller with its clock, sound) without a processor, playing or recording
// whatever the sound registers are programmed to produce.
package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"time"

	"github.com/retroenv/retrogolib/buildinfo"

	"github.com/FabianRolfMatthiasNoll/gbhw/internal/apu"
	"github.com/FabianRolfMatthiasNoll/gbhw/internal/audio"
	"github.com/FabianRolfMatthiasNoll/gbhw/internal/audio/host"
	"github.com/FabianRolfMatthiasNoll/gbhw/internal/battery"
	"github.com/FabianRolfMatthiasNoll/gbhw/internal/emu"
)

var (
	version = "0.1.0"
	commit  = ""
	date    = ""
)

type CLIFlags struct {
	ROMPath  string
	SavePath string // battery file; defaults to ROM path with .sav
	Frames   int    // 0 runs until interrupted
	Audio    string // none, oto or ebiten
	WAVOut   string
	Rate     int
	BufferMs int
	CGB      bool
	CGBSet   bool // -cgb given explicitly; otherwise the ROM header decides
	Chime    bool
	RTC      bool
	Mute     string // comma separated channel numbers
	Version  bool
}

func parseFlags() CLIFlags {
	var f CLIFlags
	flag.StringVar(&f.ROMPath, "rom", "", "path to ROM (.gb)")
	flag.StringVar(&f.SavePath, "save", "", "battery save file (default: ROM path with .sav)")
	flag.IntVar(&f.Frames, "frames", 300, "frames to run, 0 runs until interrupted")
	flag.StringVar(&f.Audio, "audio", "none", "audio device: none, oto or ebiten")
	flag.StringVar(&f.WAVOut, "wav", "", "record audio to a WAV file")
	flag.IntVar(&f.Rate, "rate", 48000, "output sample rate in Hz")
	flag.IntVar(&f.BufferMs, "buffer", 5000, "audio ring buffer in milliseconds")
	flag.BoolVar(&f.CGB, "cgb", false, "color hardware sound quirks (default: from ROM header)")
	flag.BoolVar(&f.Chime, "chime", false, "play the power-on sound")
	flag.BoolVar(&f.RTC, "rtc", false, "print the cartridge clock on exit")
	flag.StringVar(&f.Mute, "mute", "", "channels to mute, e.g. 2,3")
	flag.BoolVar(&f.Version, "version", false, "print version and exit")
	flag.Parse()
	flag.Visit(func(fl *flag.Flag) {
		if fl.Name == "cgb" {
			f.CGBSet = true
		}
	})
	return f
}

func savePath(f CLIFlags) string {
	if f.SavePath != "" {
		return f.SavePath
	}
	for _, ext := range []string{".gb", ".gbc"} {
		if strings.HasSuffix(strings.ToLower(f.ROMPath), ext) {
			return f.ROMPath[:len(f.ROMPath)-len(ext)] + ".sav"
		}
	}
	return f.ROMPath + ".sav"
}

func parseChannels(s string) ([]int, error) {
	var out []int
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p == "" {
			continue
		}
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 || n > 3 {
			return nil, fmt.Errorf("bad channel %q", p)
		}
		out = append(out, n)
	}
	return out, nil
}

// sink is whatever consumes the ring: a device player or the WAV recorder.
func openSink(f CLIFlags, ring *audio.RingBuffer) (func() error, error) {
	if f.Audio != "none" && f.WAVOut != "" {
		return nil, errors.New("-audio and -wav are exclusive")
	}
	if f.WAVOut != "" {
		rec, err := audio.NewRecorder(f.WAVOut, ring, f.Rate)
		if err != nil {
			return nil, err
		}
		return func() error {
			err := rec.Close()
			log.Printf("wav: wrote %s (%d frames)", f.WAVOut, rec.Frames())
			return err
		}, nil
	}

	var (
		p   host.Player
		err error
	)
	stream := audio.NewStream(ring, false)
	latency := 100 * time.Millisecond
	switch f.Audio {
	case "none":
		return func() error { return nil }, nil
	case "oto":
		p, err = host.NewOtoPlayer(stream, f.Rate, latency)
	case "ebiten":
		p, err = host.NewEbitenPlayer(stream, f.Rate, latency)
	default:
		return nil, fmt.Errorf("unknown audio device %q", f.Audio)
	}
	if err != nil {
		return nil, err
	}
	return func() error {
		if n := stream.Underruns(); n > 0 {
			log.Printf("audio: %d underruns", n)
		}
		return p.Close()
	}, nil
}

func run(f CLIFlags) error {
	rom, err := os.ReadFile(f.ROMPath)
	if err != nil {
		return fmt.Errorf("read %s: %w", f.ROMPath, err)
	}
	mute, err := parseChannels(f.Mute)
	if err != nil {
		return err
	}

	if !f.CGBSet {
		f.CGB = emu.CGBDefault(rom)
	}
	cfg := emu.Config{
		CGB:        f.CGB,
		SampleRate: f.Rate,
		BufferMs:   f.BufferMs,
		LimitFPS:   f.Audio != "none" || f.WAVOut != "",
		PostBoot:   true,
	}
	cfg.Defaults()
	f.Rate = cfg.SampleRate

	ring := audio.NewRingBuffer(cfg.RingBytes())
	out := audio.NewOutput(ring, cfg.SampleRate)
	sav := battery.NewFile(savePath(f))
	m, err := emu.New(cfg, rom, sav, out)
	if err != nil {
		return err
	}
	if h := m.Header(); h != nil {
		log.Printf("ROM: %s", h)
		if h.HasBattery {
			log.Printf("save: %s", sav.Path())
		}
	} else {
		log.Printf("ROM: no header, running as ROM only")
	}
	for _, ch := range mute {
		m.ToggleChannel(ch)
	}

	closeSink, err := openSink(f, ring)
	if err != nil {
		return err
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt)
	defer signal.Stop(stop)

	var pace <-chan time.Time
	if cfg.LimitFPS {
		t := time.NewTicker(time.Second * emu.CyclesPerFrame / apu.TicksPerSec)
		defer t.Stop()
		pace = t.C
	}

	start := time.Now()
	frames := 0
loop:
	for f.Frames == 0 || frames < f.Frames {
		if f.Chime {
			switch frames {
			case 0:
				m.Chime(0)
			case emu.ChimeGap:
				m.Chime(1)
			}
		}
		if err = m.StepFrame(); err != nil {
			break
		}
		frames++
		out.Flush()
		if pace != nil {
			select {
			case <-pace:
			case <-stop:
				break loop
			}
			continue
		}
		select {
		case <-stop:
			break loop
		default:
		}
	}
	dur := time.Since(start)
	log.Printf("run: frames=%d elapsed=%s fps=%.2f dropped=%d",
		frames, dur.Truncate(time.Millisecond), float64(frames)/dur.Seconds(), out.Dropped())

	err = errors.Join(err, closeSink())
	if serr := m.SaveRAM(); serr != nil {
		err = errors.Join(err, serr)
	}
	if f.RTC {
		if c := m.RTC(); c != nil {
			r := c.Regs()
			fmt.Printf("rtc: day=%d %02d:%02d:%02d halted=%t carry=%t\n",
				r.Days, r.Hours, r.Minutes, r.Seconds, r.Halted, r.Carry)
		} else {
			fmt.Println("rtc: cartridge has no clock")
		}
	}
	return err
}

func main() {
	f := parseFlags()
	if f.Version {
		fmt.Printf("gbhw version: %s\n", buildinfo.Version(version, commit, date))
		return
	}
	if f.ROMPath == "" {
		flag.Usage()
		os.Exit(2)
	}
	if err := run(f); err != nil {
		log.Fatal(err)
	}
}
