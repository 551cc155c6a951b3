package testsupport

import (
	"testing"

	"github.com/nrgallagher/sixtwofour/cpu"
)

func TestNewCPUAtStartsAtGivenAddress(t *testing.T) {
	mem := NewFilledMemory(0xEA)
	LoadAt(mem, 0x0300, []uint8{0xA9, 0x42}) // LDA #$42
	c := NewCPUAt(t, mem, 0x0300, cpu.Config{})

	if _, err := c.Step(); err != nil {
		t.Fatalf("Step: %v", err)
	}
	AssertRegisters(t, c, Registers{A: 0x42, X: 0, Y: 0, SP: 0xFD, PC: 0x0302})
	AssertFlags(t, c, map[cpu.Flag]bool{
		cpu.FlagZero:     false,
		cpu.FlagNegative: false,
	})
}

func TestAssertFlagsOnlyChecksNamedFlags(t *testing.T) {
	mem := NewFilledMemory(0xEA)
	c := NewCPUAt(t, mem, 0x0200, cpu.Config{})
	c.Set(cpu.FlagCarry)
	AssertFlags(t, c, map[cpu.Flag]bool{cpu.FlagCarry: true})
}
