package main

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/dp16/cpu"
)

func TestLoadProgram(t *testing.T) {
	assert := assert.New(t)

	dir := t.TempDir()

	source := filepath.Join(dir, "prog.s")
	err := os.WriteFile(source, []byte("li a0, 3\n:end\nbnz x1, end\n"), 0o644)
	assert.NoError(err)

	prog, err := loadProgram(source)
	assert.NoError(err)
	assert.Equal([]uint16{0xa403, 0xe100}, prog.Words())

	rootCmd.SetArgs([]string{"hex", source})
	err = rootCmd.Execute()
	assert.NoError(err)

	image := filepath.Join(dir, "prog.hex")
	data, err := os.ReadFile(image)
	assert.NoError(err)
	assert.Equal("A403\nE100\n", string(data))

	prog, err = loadProgram(image)
	assert.NoError(err)
	assert.Equal([]uint16{0xa403, 0xe100}, prog.Words())
	assert.Equal(0, prog.Instructions[0].LineNo)
}

func TestLoadProgram_Errors(t *testing.T) {
	assert := assert.New(t)

	dir := t.TempDir()

	_, err := loadProgram(filepath.Join(dir, "missing.s"))
	assert.True(errors.Is(err, os.ErrNotExist))

	source := filepath.Join(dir, "bad.s")
	err = os.WriteFile(source, []byte("li a0\nfrob\n"), 0o644)
	assert.NoError(err)

	_, err = loadProgram(source)
	var asmErr cpu.ErrAssembly
	if assert.True(errors.As(err, &asmErr)) {
		assert.Equal(2, asmErr.Count())
	}
}

func TestRunCommand(t *testing.T) {
	assert := assert.New(t)

	dir := t.TempDir()

	source := filepath.Join(dir, "halt.s")
	err := os.WriteFile(source, []byte("li a0, 3\n:end\nbnz x1, end\n"), 0o644)
	assert.NoError(err)

	rootCmd.SetArgs([]string{"run", source, "1", "0x2"})
	err = rootCmd.Execute()
	assert.NoError(err)

	rootCmd.SetArgs([]string{"run", source, "1", "2", "3", "4"})
	err = rootCmd.Execute()
	assert.Error(err)

	rootCmd.SetArgs([]string{"run", source, "nope"})
	err = rootCmd.Execute()
	assert.Error(err)
}
