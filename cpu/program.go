package cpu

import (
	"fmt"
	"io"
	"iter"
	"slices"
	"sort"
)

// Instruction is an assembled word together with its source location.
type Instruction struct {
	LineNo int    // Source line number, 0 if unknown.
	Pc     uint16 // Address of the word.
	Text   string // Source text.
	Code   Code   // Encoded word.
}

// Reference is a use of a label that was not yet defined when parsed.
type Reference struct {
	Pc     uint16 // Address of the referencing instruction.
	Name   string // Label name.
	LineNo int    // Source line of the referencing instruction.
}

// Program is the output of the assembler: a memory image plus the
// label, label reference, and breakpoint tables.
type Program struct {
	Instructions []Instruction
	Label        map[string]uint16
	Reference    []Reference
	Breakpoint   []Breakpoint // Ordered by address.
}

// ProgramFromWords creates a program with no tables from raw instruction words.
func ProgramFromWords(words []uint16) (prog *Program) {
	prog = &Program{}
	for n, word := range words {
		prog.Instructions = append(prog.Instructions, Instruction{
			Pc:   uint16(n * 2),
			Text: Code(word).String(),
			Code: Code(word),
		})
	}
	return
}

// Count returns the number of instruction words.
func (prog *Program) Count() int {
	return len(prog.Instructions)
}

// Codes returns an iterator over the address and word of every instruction.
func (prog *Program) Codes() iter.Seq2[uint16, Code] {
	return func(yield func(pc uint16, code Code) bool) {
		for _, ins := range prog.Instructions {
			if !yield(ins.Pc, ins.Code) {
				return
			}
		}
	}
}

// Words returns the program image as 16-bit words.
func (prog *Program) Words() (words []uint16) {
	words = make([]uint16, 0, len(prog.Instructions))
	for _, code := range prog.Codes() {
		words = append(words, uint16(code))
	}
	return
}

// Debug returns the instruction at pc, or nil if pc is outside the program.
func (prog *Program) Debug(pc uint16) (ins *Instruction) {
	index := int(pc / 2)
	if pc&1 != 0 || index >= len(prog.Instructions) {
		return
	}
	return &prog.Instructions[index]
}

// AddBreakpoint inserts a breakpoint, keeping the table ordered by address.
// Breakpoints at the same address keep their insertion order.
func (prog *Program) AddBreakpoint(bp Breakpoint) {
	index := sort.Search(len(prog.Breakpoint), func(n int) bool {
		return prog.Breakpoint[n].Pc > bp.Pc
	})
	prog.Breakpoint = slices.Insert(prog.Breakpoint, index, bp)
}

// SeekBreakpoint returns the index of the first breakpoint at or after pc.
func (prog *Program) SeekBreakpoint(pc uint16) int {
	return sort.Search(len(prog.Breakpoint), func(n int) bool {
		return prog.Breakpoint[n].Pc >= pc
	})
}

// WriteListing writes an address listing of the program, with the
// disassembly if 'raw' is set and the binary word if 'machine' is set.
func (prog *Program) WriteListing(w io.Writer, raw, machine bool) (err error) {
	header := "addr   "
	if raw {
		header += "| instruction       "
	}
	if machine {
		header += "| machine code"
	}
	_, err = fmt.Fprintln(w, header)
	if err != nil {
		return
	}

	for pc, code := range prog.Codes() {
		line := fmt.Sprintf("0x%04X", pc)
		if raw {
			line += " | " + code.String()
		}
		if machine {
			line += " | " + code.Binary()
		}
		_, err = fmt.Fprintln(w, line)
		if err != nil {
			return
		}
	}

	return
}
