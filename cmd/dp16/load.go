package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ezrec/dp16/cpu"
	"github.com/ezrec/dp16/io"
)

// loadProgram assembles a source file, or reads a .hex image.
func loadProgram(path string) (prog *cpu.Program, err error) {
	inf, err := os.Open(path)
	if err != nil {
		return
	}
	defer inf.Close()

	if strings.EqualFold(filepath.Ext(path), ".hex") {
		var words []uint16
		words, err = io.ReadHex(inf)
		if err != nil {
			err = fmt.Errorf("%v: %w", path, err)
			return
		}
		prog = cpu.ProgramFromWords(words)
		return
	}

	asm := &cpu.Assembler{Verbose: verbose}
	prog, err = asm.Parse(inf)
	if err != nil {
		err = fmt.Errorf("%v: %w", path, err)
		return
	}

	return
}
