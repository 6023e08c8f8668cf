package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMemory(t *testing.T) {
	assert := assert.New(t)

	mem := &Memory{}

	mem.Write16(0x100, 0xabcd)
	assert.Equal(byte(0xcd), mem.Data[0x100])
	assert.Equal(byte(0xab), mem.Data[0x101])
	assert.Equal(uint16(0xabcd), mem.Read16(0x100))

	// Unaligned access.
	assert.Equal(uint16(0x00ab), mem.Read16(0x101))

	// High byte wraps to address 0.
	mem.Write16(0xffff, 0x1234)
	assert.Equal(byte(0x34), mem.Data[0xffff])
	assert.Equal(byte(0x12), mem.Data[0])
	assert.Equal(uint16(0x1234), mem.Read16(0xffff))

	mem.Load(0x10, []uint16{1, 2, 3})
	assert.Equal(uint16(1), mem.Read16(0x10))
	assert.Equal(uint16(2), mem.Read16(0x12))
	assert.Equal(uint16(3), mem.Read16(0x14))

	mem.Reset()
	assert.Equal(uint16(0), mem.Read16(0x100))
	assert.Equal(uint16(0), mem.Read16(0x12))
}
