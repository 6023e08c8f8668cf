package io

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConsoleInput_Load(t *testing.T) {
	assert := assert.New(t)

	prompt := &bytes.Buffer{}
	ci := &ConsoleInput{
		Input:  strings.NewReader("12 -3\n0x7fff 0b101\n077 40000\n"),
		Prompt: prompt,
	}

	for _, expect := range []int16{12, -3, 0x7fff, 5, 63, -25536} {
		value, err := ci.Load()
		assert.NoError(err)
		assert.Equal(expect, value)
	}
	assert.Equal(strings.Repeat(DEFAULT_PROMPT, 6), prompt.String())

	_, err := ci.Load()
	assert.True(errors.Is(err, ErrInput))
}

func TestConsoleInput_Invalid(t *testing.T) {
	assert := assert.New(t)

	ci := &ConsoleInput{Input: strings.NewReader("abc")}
	_, err := ci.Load()
	assert.True(errors.Is(err, ErrInput))

	ci = &ConsoleInput{}
	_, err = ci.Load()
	assert.ErrorIs(err, ErrInput)

	assert.ErrorIs(ci.Store(1, 0), ErrPortIgnored)
}

func TestConsoleInput_Wait(t *testing.T) {
	assert := assert.New(t)

	ci := &ConsoleInput{Input: strings.NewReader("1\n\n2\n")}

	value, err := ci.Load()
	assert.NoError(err)
	assert.Equal(int16(1), value)

	// Rest of the first line.
	err = ci.Wait()
	assert.NoError(err)
	// The empty line.
	err = ci.Wait()
	assert.NoError(err)

	value, err = ci.Load()
	assert.NoError(err)
	assert.Equal(int16(2), value)

	ci.Rewind()
	ci.Input = strings.NewReader("7")
	value, err = ci.Load()
	assert.NoError(err)
	assert.Equal(int16(7), value)
}

func TestConsoleOutput(t *testing.T) {
	assert := assert.New(t)

	out := &bytes.Buffer{}
	co := &ConsoleOutput{Output: out}

	_, err := co.Load()
	assert.ErrorIs(err, ErrPortIgnored)

	err = co.Store(-12, 9)
	assert.ErrorIs(err, ErrExit)
	assert.Equal("-12\ncycles: 9\n", out.String())

	// Without a writer the text is discarded.
	co = &ConsoleOutput{}
	err = co.Store(3, 1)
	assert.ErrorIs(err, ErrExit)
	assert.NoError(co.Printf("%d", 1))

	co = &ConsoleOutput{Output: out}
	out.Reset()
	err = co.Printf("%d-%d", 1, 2)
	assert.NoError(err)
	assert.Equal("1-2", out.String())
}
