package io

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWriteHex(t *testing.T) {
	assert := assert.New(t)

	out := &bytes.Buffer{}
	err := WriteHex(out, []uint16{0xa403, 0x0001, 0xe4fe})
	assert.NoError(err)
	assert.Equal("A403\n0001\nE4FE\n", out.String())

	words, err := ReadHex(out)
	assert.NoError(err)
	assert.Equal([]uint16{0xa403, 0x0001, 0xe4fe}, words)
}

func TestReadHex(t *testing.T) {
	assert := assert.New(t)

	text := strings.Join([]string{
		"# image",
		"",
		"0xa403  // li a0, 3",
		"  e4fe",
		"FFFF # end",
	}, "\n")

	words, err := ReadHex(strings.NewReader(text))
	assert.NoError(err)
	assert.Equal([]uint16{0xa403, 0xe4fe, 0xffff}, words)

	_, err = ReadHex(strings.NewReader("0001\n10000\n"))
	var herr ErrHexSyntax
	if assert.True(errors.As(err, &herr)) {
		assert.Equal(2, herr.LineNo)
		assert.Equal("10000", herr.Line)
	}

	_, err = ReadHex(strings.NewReader("zz"))
	assert.True(errors.As(err, &herr))
}
