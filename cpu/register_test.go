package cpu

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseRegister(t *testing.T) {
	assert := assert.New(t)

	table := [...]struct {
		word  string
		index int
	}{
		{"x0", 0},
		{"x1", 1},
		{"ra", 2},
		{"sp", 3},
		{"a0", 4},
		{"a2", 6},
		{"s0", 7},
		{"s3", 10},
		{"t0", 11},
		{"t3", 14},
		{"x15", 15},
		{"x4", 4},
		{"x10", 10},
	}

	for _, entry := range table {
		index, err := ParseRegister(entry.word)
		assert.NoError(err, entry.word)
		assert.Equal(entry.index, index, entry.word)
	}

	for _, word := range []string{"", "x", "x16", "a3", "s4", "t4", "r0", "xa", "a-1", "SP", "x015", "a00", "t01"} {
		_, err := ParseRegister(word)
		assert.True(errors.Is(err, ErrRegisterInvalid), word)
	}
}

func TestRegisterName(t *testing.T) {
	assert := assert.New(t)

	for index := range REGISTER_COUNT {
		name := RegisterName(index)
		parsed, err := ParseRegister(name)
		assert.NoError(err)
		assert.Equal(index, parsed, name)
	}

	assert.Equal("x0", RegisterName(REG_ZERO))
	assert.Equal("sp", RegisterName(REG_SP))
	assert.Equal("t0", RegisterName(REG_T0))
}
