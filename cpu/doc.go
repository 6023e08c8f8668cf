// Package cpu implements the datapath simulator and assembler for the dp16 machine.
//
// The machine has sixteen 16-bit registers (x0 reads as 0, x1 reads as -1),
// 64KiB of byte-addressed little-endian memory, and sixteen opcodes in three
// encodings. Each Tick models one cycle of a single cycle datapath: control
// decode, immediate generation, register read, ALU, memory stage with
// memory-mapped ports, PC mux, and register write-back.
//
// The assembler is single pass. Labels used before they are defined are
// patched in place when the definition is reached.
package cpu
