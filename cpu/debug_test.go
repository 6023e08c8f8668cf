package cpu

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseTemplate(t *testing.T) {
	assert := assert.New(t)

	msg, err := ParseTemplate("a0=%d a1=%04x 100%%")
	assert.NoError(err)
	assert.Equal([]string{"a0=", " a1=", " 100%"}, msg.Text)
	assert.Equal([]string{"%d", "%04x"}, msg.Verb)

	msg, err = ParseTemplate("no verbs")
	assert.NoError(err)
	assert.Equal([]string{"no verbs"}, msg.Text)
	assert.Equal(0, len(msg.Verb))

	msg, err = ParseTemplate("%i %hu %ld %-5X")
	assert.NoError(err)
	assert.Equal([]string{"%d", "%u", "%d", "%-5X"}, msg.Verb)

	_, err = ParseTemplate("%s")
	var verr ErrDebugVerb
	assert.True(errors.As(err, &verr))
	assert.Equal(ErrDebugVerb("%s"), verr)

	_, err = ParseTemplate("trailing %")
	assert.True(errors.As(err, &verr))

	_, err = ParseTemplate("%d %d %d %d %d %d")
	assert.NoError(err)

	_, err = ParseTemplate("%d %d %d %d %d %d %d")
	assert.ErrorIs(err, ErrDebugRegisters)
}

func TestMessage_Render(t *testing.T) {
	assert := assert.New(t)

	var regs [REGISTER_COUNT]int16
	regs[REG_A0] = -1
	regs[5] = 65
	regs[6] = 0x1f

	table := [...]struct {
		template string
		register []int
		expect   string
	}{
		{"plain", nil, "plain"},
		{"a0=%d", []int{REG_A0}, "a0=-1"},
		{"a0=%u", []int{REG_A0}, "a0=65535"},
		{"a0=%x", []int{REG_A0}, "a0=ffffffff"},
		{"a2=%04X", []int{6}, "a2=001F"},
		{"%c%c", []int{5, 5}, "AA"},
		{"%d+%d", []int{6, REG_A0}, "31+-1"},
		{"%5d|", []int{5}, "   65|"},
		{"%%%d%%", []int{6}, "%31%"},
	}

	for _, entry := range table {
		msg, err := ParseTemplate(entry.template)
		assert.NoError(err, entry.template)
		msg.Register = entry.register
		assert.Equal(entry.expect, msg.Render(regs), entry.template)
	}
}
