// Package testsupport provides small assertion helpers for driving a
// cpu.CPU from table-driven tests without repeating register/flag
// boilerplate at every call site.
package testsupport

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nrgallagher/sixtwofour/cpu"
	"github.com/nrgallagher/sixtwofour/memory"
)

// NewFilledMemory returns a 64 KiB image preloaded with fill at every
// address, so any PC excursion outside the bytes a test explicitly wrote
// lands on a predictable instruction (commonly 0xEA, a two-cycle NOP)
// rather than whatever PowerOn randomized.
func NewFilledMemory(fill uint8) *memory.Image {
	m := memory.New()
	m.Fill(fill)
	return m
}

// LoadAt copies program into mem starting at addr.
func LoadAt(mem *memory.Image, addr uint16, program []uint8) {
	for i, b := range program {
		mem.Write(addr+uint16(i), b)
	}
}

// SetVector writes target as a little-endian word at vector, the
// pattern every reset/IRQ/NMI vector test needs before constructing a CPU.
func SetVector(mem *memory.Image, vector, target uint16) {
	mem.WriteWord(vector, target)
}

// NewCPUAt builds a CPU whose reset vector points at start, already
// reset and ready to Step.
func NewCPUAt(t *testing.T, mem *memory.Image, start uint16, cfg cpu.Config) *cpu.CPU {
	t.Helper()
	SetVector(mem, cpu.ResetVector, start)
	cfg.Ram = mem
	c, err := cpu.New(cfg)
	if err != nil {
		t.Fatalf("cpu.New: %v", err)
	}
	return c
}

// Registers is the subset of CPU state a scenario test typically wants
// to assert in one call instead of five.
type Registers struct {
	A, X, Y uint8
	SP      uint8
	PC      uint16
}

// AssertRegisters compares c's register file against want field by field,
// reporting every mismatch rather than stopping at the first.
func AssertRegisters(t *testing.T, c *cpu.CPU, want Registers) {
	t.Helper()
	assert.Equal(t, want.A, c.A, "A")
	assert.Equal(t, want.X, c.X, "X")
	assert.Equal(t, want.Y, c.Y, "Y")
	assert.Equal(t, want.SP, c.SP, "SP")
	assert.Equal(t, want.PC, c.PC, "PC")
}

// AssertFlags checks that each named flag matches the expected state,
// stopping at and naming the first mismatch rather than flooding the
// test log with every flag that happened to differ. Flags absent from
// want are not checked, so callers only need to spell out what a
// scenario actually claims to affect.
func AssertFlags(t *testing.T, c *cpu.CPU, want map[cpu.Flag]bool) {
	t.Helper()
	for f, expect := range want {
		if !assert.Equalf(t, expect, c.Test(f), "flag %v", f) {
			return
		}
	}
}
