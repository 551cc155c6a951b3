// Package memory defines the flat 64 KiB address space the CPU executes
// against. It is a dumb byte-addressable store: all instruction timing is
// the CPU's concern, which keeps this package reusable by tests that
// prepopulate memory directly before a run.
package memory

import (
	"math/rand"
	"time"
)

// Size is the fixed size of a 6502 address space. There is no aliasing
// and no bank switching; every 16-bit address is always readable and
// writable.
const Size = 1 << 16

// Ram is the interface the CPU depends on for all bus access. Image
// below is the only implementation this module ships, but callers may
// substitute their own (e.g. a test double that records every access).
type Ram interface {
	// Read returns the data byte stored at addr.
	Read(addr uint16) uint8
	// Write updates addr with val.
	Write(addr uint16, val uint8)
	// PowerOn resets the backing store to its power-on state.
	PowerOn()
}

// Image is a flat 64 KiB byte-addressable memory implementing Ram.
type Image struct {
	ram [Size]uint8
}

// New returns a freshly allocated, zeroed 64 KiB memory image.
func New() *Image {
	return &Image{}
}

// Read implements Ram.
func (m *Image) Read(addr uint16) uint8 {
	return m.ram[addr]
}

// Write implements Ram.
func (m *Image) Write(addr uint16, val uint8) {
	m.ram[addr] = val
}

// WriteWord stores the 16-bit value w in little-endian order: the low
// byte at addr, the high byte at addr+1 (wrapping modulo 65536).
func (m *Image) WriteWord(addr uint16, w uint16) {
	m.Write(addr, uint8(w&0xFF))
	m.Write(addr+1, uint8(w>>8))
}

// ReadWord reads a little-endian 16-bit value starting at addr, wrapping
// modulo 65536 for the high byte the same way WriteWord does.
func (m *Image) ReadWord(addr uint16) uint16 {
	lo := m.Read(addr)
	hi := m.Read(addr + 1)
	return (uint16(hi) << 8) | uint16(lo)
}

// PowerOn implements Ram. It fills the image with pseudo-random bytes,
// simulating the undefined contents of RAM immediately after power-up.
// Tests that need deterministic contents should Write over the region
// they use after calling PowerOn.
func (m *Image) PowerOn() {
	src := rand.New(rand.NewSource(time.Now().UnixNano()))
	for i := range m.ram {
		m.ram[i] = uint8(src.Intn(256))
	}
}

// Fill overwrites every byte of the image with val. Test harnesses use
// this to preload memory with a known opcode (commonly NOP) so that
// un-stepped-on addresses behave predictably instead of executing
// whatever PowerOn happened to randomize.
func (m *Image) Fill(val uint8) {
	for i := range m.ram {
		m.ram[i] = val
	}
}
