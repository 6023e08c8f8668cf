package cpu

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/ezrec/dp16/io"
)

// Port is a memory-mapped I/O port.
type Port io.Port

// Reserved addresses and reset values.
const (
	PORT_INPUT  = uint16(0x400) // Blocking integer input.
	PORT_OUTPUT = uint16(0x402) // Integer output and program exit.

	SP_INIT = int16(0x7fff) // Initial stack pointer.
)

// Cycle holds the datapath values of the most recently executed cycle.
type Cycle struct {
	Pc      uint16  // Address the instruction was fetched from.
	Code    Code    // Fetched instruction.
	Control Control // Decoded control signals.
	Imm     int16   // Sign-extended immediate.
	Rd      int16   // rd value before write-back.
	Rs1     int16   // rs1 value.
	Rs2     int16   // rs2 value.
	AluOut  int16   // ALU result.
	MemOut  int16   // Loaded value, if Control.MemRead.
	Data    int16   // Value presented for write-back.
	NextPc  uint16  // Output of the PC mux.
}

// Branch returns true if the cycle could move the pc non-sequentially.
func (cycle Cycle) Branch() bool {
	op := cycle.Code.Opcode()
	return op == OP_BNZ || op == OP_JAL
}

// Cpu is the simulation context of the single-cycle datapath.
type Cpu struct {
	Verbose bool // Set to enable verbose logging.

	Memory   Memory                // Byte-addressable memory.
	Register [REGISTER_COUNT]int16 // Register file.
	Pc       uint16                // Address of the next instruction.
	Ticks    int                   // Completed cycles since reset.
	Last     Cycle                 // Datapath values of the last cycle.

	port map[uint16]Port // Memory-mapped ports.
}

// NewCpu creates a new CPU in its reset state.
func NewCpu() (cpu *Cpu) {
	cpu = &Cpu{}
	cpu.Reset()
	return
}

// Reset clears registers, memory, and counters, and rewinds all ports.
func (cpu *Cpu) Reset() {
	if cpu.Verbose {
		logrus.Debug("cpu: reset")
	}

	cpu.Memory.Reset()
	clear(cpu.Register[:])
	cpu.Register[REG_ONES] = -1
	cpu.Register[REG_SP] = SP_INIT
	cpu.Pc = 0
	cpu.Ticks = 0
	cpu.Last = Cycle{}

	for _, port := range cpu.port {
		port.Rewind()
	}
}

// SetPort maps a port at an address. A nil port removes the mapping.
func (cpu *Cpu) SetPort(addr uint16, port Port) {
	if port == nil {
		delete(cpu.port, addr)
		return
	}

	if cpu.port == nil {
		cpu.port = make(map[uint16]Port)
	}
	cpu.port[addr] = port
}

// GetPort returns the port mapped at an address.
func (cpu *Cpu) GetPort(addr uint16) (port Port, ok bool) {
	port, ok = cpu.port[addr]
	return
}

// String returns the current CPU state as a string.
func (cpu *Cpu) String() (text string) {
	text += fmt.Sprintf("% 5s: 0x%04X\n", "pc", cpu.Pc)
	for n, value := range cpu.Register {
		text += fmt.Sprintf("% 5s: 0x%04X %d\n", RegisterName(n), uint16(value), value)
	}
	text += fmt.Sprintf("% 5s: %d\n", "ticks", cpu.Ticks)

	return
}

// FetchCode reads the instruction at the pc.
func (cpu *Cpu) FetchCode() Code {
	return Code(cpu.Memory.Read16(cpu.Pc))
}

// Tick executes a single datapath cycle. It returns halted when the
// instruction's next address is its own address; the pc is then unchanged.
// A port store may return io.ErrExit, which ends the program.
func (cpu *Cpu) Tick() (halted bool, err error) {
	code := cpu.FetchCode()

	cycle, err := cpu.Execute(code)
	cpu.Last = cycle
	if err != nil {
		return
	}

	cpu.Ticks++

	if cycle.NextPc == cpu.Pc {
		halted = true
		if cpu.Verbose {
			logrus.WithField("pc", fmt.Sprintf("0x%04x", cpu.Pc)).Debug("cpu: halt")
		}
		return
	}

	cpu.Pc = cycle.NextPc

	return
}

// Execute runs one instruction through the datapath at the current pc,
// updating registers and memory, and returns the cycle's datapath values.
// The pc itself is not updated.
func (cpu *Cpu) Execute(code Code) (cycle Cycle, err error) {
	op := code.Opcode()

	cycle.Pc = cpu.Pc
	cycle.Code = code

	if cpu.Verbose {
		logrus.WithFields(logrus.Fields{
			"pc":   fmt.Sprintf("0x%04x", cpu.Pc),
			"code": fmt.Sprintf("0x%04x", uint16(code)),
		}).Debugf("cpu: %v", code)
	}

	// Control
	ctl := op.Control()
	cycle.Control = ctl
	bnz := op == OP_BNZ
	jal := op == OP_JAL

	// ImmGen
	cycle.Imm = code.Immediate()

	// Register file read, before any write-back.
	rd := code.Rd()
	cycle.Rd = cpu.Register[rd]
	cycle.Rs1 = cpu.Register[code.Rs1()]
	cycle.Rs2 = cpu.Register[code.Rs2()]

	// ALU
	a := cycle.Rs1
	if ctl.UseRd {
		a = cycle.Rd
	}
	b := cycle.Rs2
	if ctl.UseImm {
		b = cycle.Imm
	}
	cycle.AluOut = doAlu(ctl.AluOp, a, b)

	// Memory
	addr := uint16(cycle.AluOut)
	store := !ctl.RegWrite && !bnz
	if ctl.MemRead {
		if port, ok := cpu.port[addr]; ok {
			var value int16
			value, err = port.Load()
			switch {
			case err == nil:
				cpu.Memory.Write16(addr, uint16(value))
			case errors.Is(err, io.ErrPortIgnored):
				err = nil
			default:
				return
			}
		}
		cycle.MemOut = int16(cpu.Memory.Read16(addr))
	}
	if store {
		cpu.Memory.Write16(addr, uint16(cycle.Rd))
		if port, ok := cpu.port[addr]; ok {
			err = port.Store(cycle.Rd, cpu.Ticks)
			if errors.Is(err, io.ErrPortIgnored) {
				err = nil
			}
			if err != nil {
				return
			}
		}
	}

	// PC mux
	result := cycle.AluOut
	if ctl.MemRead {
		result = cycle.MemOut
	}
	offset := int16(2)
	if bnz && cycle.Rd != 0 {
		offset = result
	}
	sequential := cpu.Pc + uint16(offset)

	cycle.NextPc = sequential
	cycle.Data = result
	if jal {
		cycle.NextPc = uint16(result)
		cycle.Data = int16(cpu.Pc + 2)
	}

	// Register file write. x0 and x1 are read-only.
	if ctl.RegWrite && rd > REG_ONES {
		cpu.Register[rd] = cycle.Data
	}

	return
}

// doAlu performs the requested ALU operation on 16-bit two's complement values.
func doAlu(op CodeAluOp, a, b int16) (out int16) {
	switch op {
	case ALU_OP_ADD:
		out = a + b
	case ALU_OP_SUB:
		out = a - b
	case ALU_OP_SHL:
		// Shift amount is unsigned; 16 or more shifts everything out.
		out = int16(uint16(a) << uint16(b))
	case ALU_OP_AND:
		out = a & b
	case ALU_OP_OR:
		out = a | b
	case ALU_OP_XOR:
		out = a ^ b
	case ALU_OP_EQ:
		if a == b {
			out = 1
		}
	case ALU_OP_LT:
		if a < b {
			out = 1
		}
	case ALU_OP_PASS:
		out = b
	case ALU_OP_LUI:
		out = int16(uint16(b) << 8)
	}

	return
}
