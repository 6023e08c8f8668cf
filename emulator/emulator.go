// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package emulator runs assembled programs on the dp16 datapath, with the
// console ports mapped and the program's breakpoints dispatched.
package emulator

import (
	"errors"
	"fmt"
	goio "io"

	"github.com/k0kubun/pp/v3"
	"github.com/sirupsen/logrus"

	"github.com/ezrec/dp16/cpu"
	"github.com/ezrec/dp16/io"
)

const (
	ARGS_MAX = 3 // Register arguments, loaded into a0..a2.
)

// Emulator state. CPU + program + console ports.
type Emulator struct {
	Verbose  bool         // If set, enables verbose logging.
	Debug    bool         // If set, traces every executed instruction.
	*cpu.Cpu              // Reference to the CPU simulation.
	Program  *cpu.Program // Reference to the currently running program listing.

	Input  io.ConsoleInput  // Input port.
	Output io.ConsoleOutput // Output port.

	Trace goio.Writer              // Trace and debug messages. Output is used if nil.
	Pause func(bp *cpu.Breakpoint) // Called at pause breakpoints, if set.

	cursor int  // Next candidate breakpoint.
	exited bool // Program wrote to the output port.
	halted bool // Program stopped in a self-loop.
}

// NewEmulator creates a new emulator.
func NewEmulator() (emu *Emulator) {
	emu = &Emulator{
		Cpu:     cpu.NewCpu(),
		Program: &cpu.Program{},
	}

	emu.Cpu.SetPort(cpu.PORT_INPUT, &emu.Input)
	emu.Cpu.SetPort(cpu.PORT_OUTPUT, &emu.Output)

	return
}

// trace returns the writer for trace and debug output.
func (emu *Emulator) trace() goio.Writer {
	switch {
	case emu.Trace != nil:
		return emu.Trace
	case emu.Output.Output != nil:
		return emu.Output.Output
	default:
		return goio.Discard
	}
}

// Reset loads the program into memory, resets the CPU, and places up to
// three arguments in a0, a1 and a2.
func (emu *Emulator) Reset(args ...int16) (err error) {
	if emu.Program == nil {
		err = ErrNoProgram
		return
	}

	if len(args) > ARGS_MAX {
		err = ErrTooManyArgs
		return
	}

	emu.Cpu.Verbose = emu.Verbose
	emu.Cpu.Reset()
	emu.Cpu.Memory.Load(0, emu.Program.Words())

	for n, arg := range args {
		emu.Cpu.Register[cpu.REG_A0+n] = arg
	}

	emu.cursor = 0
	emu.exited = false
	emu.halted = false

	if emu.Verbose {
		logrus.Debugf("emulator: breakpoints %v", pp.Sprint(emu.Program.Breakpoint))
	}

	if emu.Debug {
		_, err = fmt.Fprintln(emu.trace(), "addr   | instruction")
		if err != nil {
			return
		}
	}

	return
}

// Ticks returns the total ticks since a reset.
func (emu *Emulator) Ticks() int {
	return emu.Cpu.Ticks
}

// Halted returns true once the program has stopped in a self-loop.
func (emu *Emulator) Halted() bool {
	return emu.halted
}

// Exited returns true once the program has written to the output port.
func (emu *Emulator) Exited() bool {
	return emu.exited
}

// LineNo returns the source line number of the instruction at the pc,
// or 0 if there is none.
func (emu *Emulator) LineNo() int {
	ins := emu.Program.Debug(emu.Cpu.Pc)
	if ins == nil {
		return 0
	}

	return ins.LineNo
}

// Tick performs a single tick of the emulator. It returns done when the
// program has exited through the output port or halted in a self-loop.
func (emu *Emulator) Tick() (done bool, err error) {
	if emu.exited || emu.halted {
		done = true
		return
	}

	// Set CPU verbosity
	emu.Cpu.Verbose = emu.Verbose

	pc := emu.Cpu.Pc
	lineno := emu.LineNo()
	defer func() {
		if err != nil {
			err = &ErrRuntime{Pc: pc, LineNo: lineno, Err: err}
		}
	}()

	if emu.Debug {
		_, err = fmt.Fprintf(emu.trace(), "0x%04X | %v\n", pc, emu.Cpu.FetchCode())
		if err != nil {
			return
		}
	}

	halted, err := emu.Cpu.Tick()
	if errors.Is(err, io.ErrExit) {
		err = nil
		emu.exited = true
		done = true
		return
	}
	if err != nil {
		return
	}

	if halted {
		emu.halted = true
		done = true
		return
	}

	err = emu.dispatch()

	return
}

// dispatch fires every breakpoint at the new pc.
func (emu *Emulator) dispatch() (err error) {
	table := emu.Program.Breakpoint
	pc := emu.Cpu.Pc

	if emu.Cpu.Last.Branch() {
		emu.cursor = emu.Program.SeekBreakpoint(pc)
	} else {
		for emu.cursor < len(table) && table[emu.cursor].Pc < pc {
			emu.cursor++
		}
	}

	for emu.cursor < len(table) && table[emu.cursor].Pc == pc {
		bp := &table[emu.cursor]
		emu.cursor++

		if emu.Verbose {
			logrus.WithFields(logrus.Fields{
				"pc":   fmt.Sprintf("0x%04x", pc),
				"line": bp.LineNo,
			}).Debug("emulator: breakpoint")
		}

		if bp.Message == nil {
			if emu.Pause != nil {
				emu.Pause(bp)
			}
			continue
		}

		_, err = fmt.Fprintln(emu.trace(), bp.Message.Render(emu.Cpu.Register))
		if err != nil {
			return
		}
	}

	return
}

// Run ticks the emulator until the program exits or halts.
func (emu *Emulator) Run() (err error) {
	for {
		var done bool
		done, err = emu.Tick()
		if err != nil || done {
			break
		}
	}

	if emu.Verbose {
		logrus.Debugf("emulator: state\n%v", pp.Sprint(emu.Cpu.Register))
	}

	return
}
