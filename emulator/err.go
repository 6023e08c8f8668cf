package emulator

import (
	"errors"

	"github.com/ezrec/dp16/translate"
)

var f = translate.From

var (
	ErrTooManyArgs = errors.New(f("at most 3 register arguments"))
	ErrNoProgram   = errors.New(f("no program loaded"))
)

// ErrRuntime indicates the location of a runtime error.
type ErrRuntime struct {
	Pc     uint16
	LineNo int
	Err    error
}

func (err *ErrRuntime) Error() string {
	return f("pc 0x%04x line %d %v", err.Pc, err.LineNo, err.Err)
}

func (err *ErrRuntime) Unwrap() error {
	return err.Err
}
