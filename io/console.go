package io

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
)

const (
	DEFAULT_PROMPT = "input: "
)

// ConsoleInput is the blocking integer input port.
// Each load prompts on Prompt and reads one integer from Input.
type ConsoleInput struct {
	Input  io.Reader
	Prompt io.Writer // If nil, no prompt is written.

	reader *bufio.Reader
	source io.Reader
}

var _ Port = (*ConsoleInput)(nil)

// Rewind drops any buffered input.
func (ci *ConsoleInput) Rewind() {
	ci.reader = nil
	ci.source = nil
}

// Load prompts for and reads one integer. Decimal, 0x hex, 0o/leading-0
// octal, and 0b binary are accepted; the value is truncated to 16 bits.
func (ci *ConsoleInput) Load() (value int16, err error) {
	if ci.Input == nil {
		err = ErrInput
		return
	}

	reader := ci.buffered()

	if ci.Prompt != nil {
		_, err = io.WriteString(ci.Prompt, DEFAULT_PROMPT)
		if err != nil {
			err = errors.Join(ErrInput, err)
			return
		}
	}

	var word string
	_, err = fmt.Fscan(reader, &word)
	if err != nil {
		err = errors.Join(ErrInput, err)
		return
	}

	v64, err := strconv.ParseInt(word, 0, 64)
	if err != nil {
		err = errors.Join(ErrInput, err)
		return
	}

	value = int16(v64)
	return
}

// Wait blocks until the rest of the current input line has been read.
func (ci *ConsoleInput) Wait() (err error) {
	if ci.Input == nil {
		err = ErrInput
		return
	}

	_, err = ci.buffered().ReadString('\n')
	if err != nil {
		err = errors.Join(ErrInput, err)
	}

	return
}

// buffered returns the reader over Input, shared by Load and Wait.
func (ci *ConsoleInput) buffered() *bufio.Reader {
	if ci.reader == nil || ci.source != ci.Input {
		ci.reader = bufio.NewReader(ci.Input)
		ci.source = ci.Input
	}
	return ci.reader
}

// Store is a plain memory write.
func (ci *ConsoleInput) Store(value int16, ticks int) (err error) {
	return ErrPortIgnored
}

// ConsoleOutput is the integer output port. A store prints the value and
// the cycle count, then ends the program.
type ConsoleOutput struct {
	Output io.Writer // If nil, output is discarded.
}

var _ Port = (*ConsoleOutput)(nil)

// Rewind is not possible on a console.
func (co *ConsoleOutput) Rewind() {
}

// Load is a plain memory read.
func (co *ConsoleOutput) Load() (value int16, err error) {
	err = ErrPortIgnored
	return
}

// writer returns Output, or a discarding writer if there is none.
func (co *ConsoleOutput) writer() io.Writer {
	if co.Output == nil {
		return io.Discard
	}
	return co.Output
}

// Store prints the value and cycle count, and returns ErrExit.
func (co *ConsoleOutput) Store(value int16, ticks int) (err error) {
	_, err = fmt.Fprintf(co.writer(), "%d\ncycles: %d\n", value, ticks)
	if err != nil {
		return
	}

	err = ErrExit
	return
}

// Printf writes formatted diagnostic text.
func (co *ConsoleOutput) Printf(format string, args ...any) (err error) {
	_, err = fmt.Fprintf(co.writer(), format, args...)
	return
}
