// Package io provides the memory-mapped I/O ports of the dp16 machine and
// the hex image format used to export and reload assembled programs.
package io

// Port is a memory-mapped I/O device consulted by the memory stage.
type Port interface {
	// Rewind resets the port to its initial state.
	Rewind()
	// Load is called when an instruction loads from the port address.
	// The returned value is written to memory before the load completes.
	// ErrPortIgnored leaves memory untouched.
	Load() (value int16, err error)
	// Store is called after an instruction stores value to the port
	// address; ticks is the count of cycles completed so far.
	// ErrPortIgnored is treated as success.
	Store(value int16, ticks int) (err error)
}
