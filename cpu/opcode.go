package cpu

import (
	"fmt"
)

// Opcode is the operation selector held in bits [15:12] of a Code.
type Opcode int

const (
	OP_ADD  = Opcode(0)  // add
	OP_ADDI = Opcode(1)  // addi
	OP_INC  = Opcode(2)  // inc
	OP_SUB  = Opcode(3)  // sub
	OP_SHL  = Opcode(4)  // shl
	OP_AND  = Opcode(5)  // and
	OP_OR   = Opcode(6)  // or
	OP_XOR  = Opcode(7)  // xor
	OP_LW   = Opcode(8)  // lw
	OP_SW   = Opcode(9)  // sw
	OP_LI   = Opcode(10) // li
	OP_LUI  = Opcode(11) // lui
	OP_EQ   = Opcode(12) // eq
	OP_LT   = Opcode(13) // lt
	OP_BNZ  = Opcode(14) // bnz
	OP_JAL  = Opcode(15) // jal
)

// CodeFormat is one of the three physical instruction encodings.
type CodeFormat int

const (
	FORMAT_A = CodeFormat(0) // rd, rs1, rs2
	FORMAT_B = CodeFormat(1) // rd, imm[7:0]
	FORMAT_C = CodeFormat(2) // rd, rs1, imm[3:0]
)

// String returns the format letter.
func (format CodeFormat) String() string {
	return string(rune('A' + int(format)))
}

// CodeAluOp selects the ALU operation.
type CodeAluOp int

const (
	ALU_OP_ADD  = CodeAluOp(0) // A + B
	ALU_OP_SUB  = CodeAluOp(1) // A - B
	ALU_OP_SHL  = CodeAluOp(2) // A << B
	ALU_OP_AND  = CodeAluOp(3) // A & B
	ALU_OP_OR   = CodeAluOp(4) // A | B
	ALU_OP_XOR  = CodeAluOp(5) // A ^ B
	ALU_OP_EQ   = CodeAluOp(6) // A == B
	ALU_OP_LT   = CodeAluOp(7) // A < B
	ALU_OP_PASS = CodeAluOp(8) // B
	ALU_OP_LUI  = CodeAluOp(9) // B << 8
)

// Control is the set of control signals the control unit derives from an opcode.
type Control struct {
	MemRead  bool      // Load from memory at the ALU result address.
	AluOp    CodeAluOp // ALU operation.
	UseImm   bool      // ALU operand B is the immediate, not rs2.
	UseRd    bool      // ALU operand A is the rd value, not rs1.
	RegWrite bool      // Commit the result to rd.
}

type opcodeInfo struct {
	name    string
	format  CodeFormat
	control Control
}

var opcodeTable = [16]opcodeInfo{
	OP_ADD:  {"add", FORMAT_A, Control{false, ALU_OP_ADD, false, false, true}},
	OP_ADDI: {"addi", FORMAT_C, Control{false, ALU_OP_ADD, true, false, true}},
	OP_INC:  {"inc", FORMAT_B, Control{false, ALU_OP_ADD, true, true, true}},
	OP_SUB:  {"sub", FORMAT_A, Control{false, ALU_OP_SUB, false, false, true}},
	OP_SHL:  {"shl", FORMAT_A, Control{false, ALU_OP_SHL, false, false, true}},
	OP_AND:  {"and", FORMAT_A, Control{false, ALU_OP_AND, false, false, true}},
	OP_OR:   {"or", FORMAT_A, Control{false, ALU_OP_OR, false, false, true}},
	OP_XOR:  {"xor", FORMAT_A, Control{false, ALU_OP_XOR, false, false, true}},
	OP_LW:   {"lw", FORMAT_C, Control{true, ALU_OP_ADD, true, false, true}},
	OP_SW:   {"sw", FORMAT_C, Control{false, ALU_OP_ADD, true, false, false}},
	OP_LI:   {"li", FORMAT_B, Control{false, ALU_OP_PASS, true, true, true}},
	OP_LUI:  {"lui", FORMAT_B, Control{false, ALU_OP_LUI, true, true, true}},
	OP_EQ:   {"eq", FORMAT_A, Control{false, ALU_OP_EQ, false, false, true}},
	OP_LT:   {"lt", FORMAT_A, Control{false, ALU_OP_LT, false, false, true}},
	OP_BNZ:  {"bnz", FORMAT_B, Control{false, ALU_OP_PASS, true, true, false}},
	OP_JAL:  {"jal", FORMAT_C, Control{false, ALU_OP_ADD, true, false, true}},
}

var opcodeByName = func() (names map[string]Opcode) {
	names = make(map[string]Opcode, len(opcodeTable))
	for op, info := range opcodeTable {
		names[info.name] = Opcode(op)
	}
	return
}()

// LookupOpcode finds the opcode for a mnemonic.
func LookupOpcode(name string) (op Opcode, ok bool) {
	op, ok = opcodeByName[name]
	return
}

// String returns the mnemonic of the opcode.
func (op Opcode) String() string {
	return opcodeTable[op&0xf].name
}

// Format returns the encoding used by the opcode.
func (op Opcode) Format() CodeFormat {
	return opcodeTable[op&0xf].format
}

// Control returns the control signals of the opcode.
func (op Opcode) Control() Control {
	return opcodeTable[op&0xf].control
}

// Immediate ranges of the narrow and wide immediate fields.
const (
	IMM_B_MIN = -128
	IMM_B_MAX = 127
	IMM_C_MIN = -8
	IMM_C_MAX = 7
)

// SignExtend interprets the low 'width' bits of value as a two's complement number.
func SignExtend(value uint16, width int) int16 {
	mask := uint16(1)<<width - 1
	value &= mask
	sign := uint16(1) << (width - 1)
	if value&sign != 0 {
		return int16(value) - int16(sign<<1)
	}
	return int16(value)
}

// Code is a single encoded instruction word.
type Code uint16

// MakeCodeA encodes a register-register instruction.
func MakeCodeA(op Opcode, rd, rs1, rs2 int) Code {
	return Code(uint16(op&0xf)<<12 | uint16(rd&0xf)<<8 | uint16(rs1&0xf)<<4 | uint16(rs2&0xf))
}

// MakeCodeB encodes a register-wide-immediate instruction.
func MakeCodeB(op Opcode, rd int, imm int) Code {
	return Code(uint16(op&0xf)<<12 | uint16(rd&0xf)<<8 | uint16(imm&0xff))
}

// MakeCodeC encodes a register-register-narrow-immediate instruction.
func MakeCodeC(op Opcode, rd, rs1 int, imm int) Code {
	return Code(uint16(op&0xf)<<12 | uint16(rd&0xf)<<8 | uint16(rs1&0xf)<<4 | uint16(imm&0xf))
}

// Opcode returns the opcode field.
func (code Code) Opcode() Opcode {
	return Opcode((code >> 12) & 0xf)
}

// Rd returns the destination register field.
func (code Code) Rd() int {
	return int((code >> 8) & 0xf)
}

// Rs1 returns the first source register field.
func (code Code) Rs1() int {
	return int((code >> 4) & 0xf)
}

// Rs2 returns the second source register field.
func (code Code) Rs2() int {
	return int(code & 0xf)
}

// Immediate returns the sign-extended immediate of the instruction's format.
// Format A instructions carry no immediate.
func (code Code) Immediate() (imm int16) {
	switch code.Opcode().Format() {
	case FORMAT_B:
		imm = SignExtend(uint16(code), 8)
	case FORMAT_C:
		imm = SignExtend(uint16(code), 4)
	}
	return
}

// WithImmediate replaces the 8-bit immediate field of a format B instruction.
func (code Code) WithImmediate(imm int) Code {
	return (code &^ 0xff) | Code(imm&0xff)
}

// DecodeA decodes a register-register instruction.
func (code Code) DecodeA() (op Opcode, rd, rs1, rs2 int) {
	return code.Opcode(), code.Rd(), code.Rs1(), code.Rs2()
}

// DecodeB decodes a register-wide-immediate instruction.
func (code Code) DecodeB() (op Opcode, rd int, imm int16) {
	return code.Opcode(), code.Rd(), SignExtend(uint16(code), 8)
}

// DecodeC decodes a register-register-narrow-immediate instruction.
func (code Code) DecodeC() (op Opcode, rd, rs1 int, imm int16) {
	return code.Opcode(), code.Rd(), code.Rs1(), SignExtend(uint16(code), 4)
}

// String returns the assembly language representation of this instruction.
func (code Code) String() (out string) {
	op := code.Opcode()

	switch op.Format() {
	case FORMAT_A:
		_, rd, rs1, rs2 := code.DecodeA()
		out = fmt.Sprintf("%-4s%3s, %3s, %3s", op, RegisterName(rd), RegisterName(rs1), RegisterName(rs2))
	case FORMAT_B:
		_, rd, imm := code.DecodeB()
		out = fmt.Sprintf("%-4s%3s, %8d", op, RegisterName(rd), imm)
	case FORMAT_C:
		_, rd, rs1, imm := code.DecodeC()
		offset := fmt.Sprintf("%s%+d", RegisterName(rs1), imm)
		out = fmt.Sprintf("%-4s%3s, %8s", op, RegisterName(rd), offset)
	}

	return
}

// Binary returns the instruction as 16 binary digits, MSB first.
func (code Code) Binary() string {
	return fmt.Sprintf("%016b", uint16(code))
}
