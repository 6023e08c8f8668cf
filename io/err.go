package io

import (
	"errors"

	"github.com/ezrec/dp16/translate"
)

var f = translate.From

var (
	// Port errors
	ErrPortIgnored = errors.New(f("port ignored"))
	ErrExit        = errors.New(f("program exit"))
	ErrInput       = errors.New(f("console input"))
)

// ErrHexSyntax is a malformed line in a hex image.
type ErrHexSyntax struct {
	LineNo int
	Line   string
}

func (err ErrHexSyntax) Error() string {
	return f("hex line %d '%v' is not a 16-bit word", err.LineNo, err.Line)
}
