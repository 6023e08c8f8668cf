package cpu

import (
	"errors"
	"strings"

	"github.com/ezrec/dp16/translate"
)

var f = translate.From

var (
	// Assembler errors
	ErrEquateSyntax       = errors.New(f(".equ syntax"))
	ErrEquateDuplicate    = errors.New(f(".equ duplicated"))
	ErrLabelDuplicate     = errors.New(f("label duplicated"))
	ErrLabelInvalid       = errors.New(f("label name invalid"))
	ErrOpcodeExtraArgs    = errors.New(f("excessive arguments"))
	ErrOpcodeValueMissing = errors.New(f("value missing"))
	ErrCommaMissing       = errors.New(f("expected comma"))
	ErrOffsetMissing      = errors.New(f("expected +offset or -offset after register"))
	ErrRegisterInvalid    = errors.New(f("register invalid"))
	ErrInstructionInvalid = errors.New(f("instruction invalid"))
	ErrDebugString        = errors.New(f("expected quoted debug string"))
	ErrDebugRegisters     = errors.New(f("too many debug substitutions"))
	ErrProgramTooLarge    = errors.New(f("program exceeds memory"))
)

// ErrLabelMissing is a label that was referenced but never defined.
type ErrLabelMissing string

func (el ErrLabelMissing) Error() string {
	return f("label %v missing", string(el))
}

// ErrSyntax is an assembly error on a single source line.
type ErrSyntax struct {
	LineNo int
	Line   string
	Err    error
}

func (err ErrSyntax) Error() string {
	return f("line %d '%v' %v", err.LineNo, err.Line, err.Err)
}

func (err ErrSyntax) Unwrap() error {
	return err.Err
}

// ErrAssembly collects every line error of an assembly pass.
type ErrAssembly []error

func (err ErrAssembly) Error() string {
	lines := make([]string, 0, len(err)+1)
	for _, e := range err {
		lines = append(lines, e.Error())
	}
	lines = append(lines, f("assembly failed with %d errors", len(err)))
	return strings.Join(lines, "\n")
}

func (err ErrAssembly) Unwrap() []error {
	return err
}

// Count returns the number of line errors.
func (err ErrAssembly) Count() int {
	return len(err)
}

type ErrParseNumber string

func (err ErrParseNumber) Error() string {
	return f("'%v' is not a number", string(err))
}

type ErrParseRegister string

func (err ErrParseRegister) Error() string {
	return f("'%v' is not a register", string(err))
}

func (err ErrParseRegister) Unwrap() error {
	return ErrRegisterInvalid
}

type ErrParseExpression string

func (err ErrParseExpression) Error() string {
	return f("$(%v) is not a valid expression", string(err))
}

type ErrDebugVerb string

func (err ErrDebugVerb) Error() string {
	return f("'%v' is not a supported debug substitution", string(err))
}

// ErrImmediateRange is an immediate that does not fit its field.
type ErrImmediateRange struct {
	Value int64
	Min   int
	Max   int
}

func (err ErrImmediateRange) Error() string {
	return f("immediate %v is out of range [%v..%v]", err.Value, err.Min, err.Max)
}
