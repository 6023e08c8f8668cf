package cpu

import (
	"strconv"
)

// Register indices with a fixed role.
const (
	REG_ZERO = 0  // Always 0.
	REG_ONES = 1  // Always -1.
	REG_RA   = 2  // Return address.
	REG_SP   = 3  // Stack pointer.
	REG_A0   = 4  // First argument.
	REG_S0   = 7  // First saved register.
	REG_T0   = 11 // First temporary.

	REGISTER_COUNT = 16
)

// Canonical register names, indexed by register number.
var registerName = [REGISTER_COUNT]string{
	"x0", "x1", "ra", "sp",
	"a0", "a1", "a2",
	"s0", "s1", "s2", "s3",
	"t0", "t1", "t2", "t3",
	"x15",
}

// RegisterName returns the canonical name of a register.
func RegisterName(index int) string {
	return registerName[index&0xf]
}

// registerBank maps a register prefix letter to its first index and bank size.
var registerBank = map[byte]struct{ base, count int }{
	'a': {REG_A0, 3},
	's': {REG_S0, 4},
	't': {REG_T0, 4},
	'x': {0, REGISTER_COUNT},
}

// ParseRegister parses a symbolic register name into its index.
func ParseRegister(word string) (index int, err error) {
	switch word {
	case "ra":
		index = REG_RA
		return
	case "sp":
		index = REG_SP
		return
	}

	if len(word) < 2 {
		err = ErrParseRegister(word)
		return
	}

	bank, ok := registerBank[word[0]]
	if !ok {
		err = ErrParseRegister(word)
		return
	}

	digits := word[1:]
	if len(digits) > 1 && digits[0] == '0' {
		err = ErrParseRegister(word)
		return
	}
	for _, c := range []byte(digits) {
		if c < '0' || c > '9' {
			err = ErrParseRegister(word)
			return
		}
	}

	n, perr := strconv.Atoi(digits)
	if perr != nil || n >= bank.count {
		err = ErrParseRegister(word)
		return
	}

	index = bank.base + n
	return
}
