package cpu

const (
	MEMORY_SIZE = 1 << 16 // Bytes of addressable memory.
)

// Memory is the byte-addressable store shared by instructions and data.
// Words are stored little-endian; a word at 0xffff wraps its high byte to 0x0000.
type Memory struct {
	Data [MEMORY_SIZE]byte
}

// Read16 reads the 16-bit word at addr.
func (mem *Memory) Read16(addr uint16) uint16 {
	return uint16(mem.Data[addr]) | uint16(mem.Data[addr+1])<<8
}

// Write16 writes the 16-bit word at addr.
func (mem *Memory) Write16(addr uint16, value uint16) {
	mem.Data[addr] = byte(value)
	mem.Data[addr+1] = byte(value >> 8)
}

// Load copies words into memory, starting at addr.
func (mem *Memory) Load(addr uint16, words []uint16) {
	for _, word := range words {
		mem.Write16(addr, word)
		addr += 2
	}
}

// Reset zeroes the memory.
func (mem *Memory) Reset() {
	clear(mem.Data[:])
}
