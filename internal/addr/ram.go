package addr

// RAM is a flat block of bytes mapped at [Offset, Offset+len).
type RAM struct {
	name   string
	offset uint16
	mem    []byte
}

func NewRAM(name string, offset uint16, length int) *RAM {
	return &RAM{name: name, offset: offset, mem: make([]byte, length)}
}

func (r *RAM) Accepts(a uint16) bool {
	return a >= r.offset && int(a)-int(r.offset) < len(r.mem)
}

func (r *RAM) Read(a uint16) byte {
	if !r.Accepts(a) {
		FaultRead(r.name, a)
	}
	return r.mem[a-r.offset]
}

func (r *RAM) Write(a uint16, v byte) {
	if !r.Accepts(a) {
		FaultWrite(r.name, a, v)
	}
	r.mem[a-r.offset] = v
}

// Len returns the size of the block in bytes.
func (r *RAM) Len() int { return len(r.mem) }
