package emu

// chimeNotes are the channel 1 periods of the two-note power-on sound.
var chimeNotes = [...]uint16{0x783, 0x7C1}

// ChimeGap is the number of frames between the two notes.
const ChimeGap = 6

// Chime plays note i (0 or 1) of the power-on sound on channel 1 by
// programming the sound registers the way the boot ROM does.
func (m *Machine) Chime(i int) {
	if i < 0 || i >= len(chimeNotes) {
		return
	}
	p := chimeNotes[i]
	if m.Read(0xFF26)&0x80 == 0 {
		m.Write(0xFF26, 0x80)
		m.Write(0xFF24, 0x77)
		m.Write(0xFF25, 0xF3)
	}
	m.Write(0xFF10, 0x00) // no sweep
	m.Write(0xFF11, 0x80) // 50% duty
	m.Write(0xFF12, 0xF3) // volume 15, fade out
	m.Write(0xFF13, byte(p))
	m.Write(0xFF14, 0x80|byte(p>>8)) // trigger
}
