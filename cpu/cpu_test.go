package cpu

import (
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/nrgallagher/sixtwofour/memory"
)

// newTestCPU builds a CPU over a memory image filled with NOP so that
// any address the program counter wanders into behaves predictably,
// and points the reset vector at start before constructing the CPU, so
// the reset that New performs leaves PC there.
func newTestCPU(t *testing.T, start uint16) (*CPU, *memory.Image) {
	t.Helper()
	mem := memory.New()
	mem.Fill(0xEA)
	mem.WriteWord(ResetVector, start)
	c, err := New(Config{Ram: mem})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c, mem
}

func dump(t *testing.T, c *CPU) {
	t.Helper()
	t.Logf("cpu state:\n%s", spew.Sdump(c))
}

func TestResetSetsDocumentedState(t *testing.T) {
	c, _ := newTestCPU(t, 0x1234)
	if c.A != 0 || c.X != 0 || c.Y != 0 {
		dump(t, c)
		t.Fatalf("registers not zeroed after reset")
	}
	if c.SP != 0xFD {
		dump(t, c)
		t.Fatalf("SP = %.2X, want FD", c.SP)
	}
	if c.PC != 0x1234 {
		dump(t, c)
		t.Fatalf("PC = %.4X, want 1234", c.PC)
	}
	if !c.Test(FlagInterrupt) || !c.Test(FlagUnused) {
		dump(t, c)
		t.Fatalf("I/U flags not set after reset")
	}
	if c.Cycles() != 0 {
		t.Fatalf("Cycles() = %d, want 0 immediately after reset", c.Cycles())
	}
}

func TestLDAImmediateSetsFlags(t *testing.T) {
	c, mem := newTestCPU(t, 0x0200)
	mem.Write(0x0200, 0xA9) // LDA #$00
	mem.Write(0x0201, 0x00)
	if _, err := c.Step(); err != nil {
		t.Fatalf("Step: %v", err)
	}
	if c.A != 0 || !c.Test(FlagZero) || c.Test(FlagNegative) {
		dump(t, c)
		t.Fatalf("LDA #$00 flags wrong: A=%.2X Z=%v N=%v", c.A, c.Test(FlagZero), c.Test(FlagNegative))
	}
	if c.Cycles() != 2 {
		t.Fatalf("Cycles() = %d, want 2", c.Cycles())
	}
}

func TestLDAAbsoluteXPageCrossChargesExtraCycle(t *testing.T) {
	c, mem := newTestCPU(t, 0x0200)
	mem.Write(0x0200, 0xBD) // LDA $20FF,X
	mem.WriteWord(0x0201, 0x20FF)
	mem.Write(0x2101, 0x77) // 0x20FF + X(2) = 0x2101, crosses page
	c.X = 2
	if _, err := c.Step(); err != nil {
		t.Fatalf("Step: %v", err)
	}
	if c.A != 0x77 {
		dump(t, c)
		t.Fatalf("A = %.2X, want 77", c.A)
	}
	if c.Cycles() != 5 {
		t.Fatalf("Cycles() = %d, want 5 (4 base + 1 page cross)", c.Cycles())
	}
}

func TestSTAAbsoluteXNeverDiscountsPageCross(t *testing.T) {
	c, mem := newTestCPU(t, 0x0200)
	mem.Write(0x0200, 0x9D) // STA $2000,X
	mem.WriteWord(0x0201, 0x2000)
	c.X = 1
	c.A = 0x42
	if _, err := c.Step(); err != nil {
		t.Fatalf("Step: %v", err)
	}
	if mem.Read(0x2001) != 0x42 {
		t.Fatalf("store landed wrong")
	}
	if c.Cycles() != 5 {
		t.Fatalf("Cycles() = %d, want 5 regardless of page cross", c.Cycles())
	}
}

func TestBranchTakenAcrossPageChargesTwoExtraCycles(t *testing.T) {
	c, mem := newTestCPU(t, 0x20F0)
	mem.Write(0x20F0, 0xF0) // BEQ +20, target 0x2112 crosses page from 0x20F2
	mem.Write(0x20F1, 0x20)
	c.Set(FlagZero)
	if _, err := c.Step(); err != nil {
		t.Fatalf("Step: %v", err)
	}
	if c.PC != 0x2112 {
		dump(t, c)
		t.Fatalf("PC = %.4X, want 2112", c.PC)
	}
	if c.Cycles() != 4 {
		t.Fatalf("Cycles() = %d, want 4 (2 base + 1 taken + 1 page cross)", c.Cycles())
	}
}

func TestBranchNotTakenChargesBaseOnly(t *testing.T) {
	c, mem := newTestCPU(t, 0x0200)
	mem.Write(0x0200, 0xF0) // BEQ, Z clear
	mem.Write(0x0201, 0x10)
	if _, err := c.Step(); err != nil {
		t.Fatalf("Step: %v", err)
	}
	if c.PC != 0x0202 {
		t.Fatalf("PC = %.4X, want 0202 (fallthrough)", c.PC)
	}
	if c.Cycles() != 2 {
		t.Fatalf("Cycles() = %d, want 2", c.Cycles())
	}
}

func TestJSRRTSRoundTrip(t *testing.T) {
	c, mem := newTestCPU(t, 0x0300)
	mem.Write(0x0300, 0x20) // JSR $0400
	mem.WriteWord(0x0301, 0x0400)
	mem.Write(0x0400, 0x60) // RTS
	if _, err := c.Step(); err != nil {
		t.Fatalf("JSR Step: %v", err)
	}
	if c.PC != 0x0400 {
		dump(t, c)
		t.Fatalf("PC after JSR = %.4X, want 0400", c.PC)
	}
	if _, err := c.Step(); err != nil {
		t.Fatalf("RTS Step: %v", err)
	}
	if c.PC != 0x0303 {
		dump(t, c)
		t.Fatalf("PC after RTS = %.4X, want 0303", c.PC)
	}
}

func TestJMPIndirectPageWrapBug(t *testing.T) {
	c, mem := newTestCPU(t, 0x0200)
	mem.Write(0x0200, 0x6C) // JMP ($30FF)
	mem.WriteWord(0x0201, 0x30FF)
	mem.Write(0x30FF, 0x80)
	mem.Write(0x3000, 0x50) // hardware bug: high byte comes from 0x3000, not 0x3100
	mem.Write(0x3100, 0x99)
	if _, err := c.Step(); err != nil {
		t.Fatalf("Step: %v", err)
	}
	if c.PC != 0x5080 {
		dump(t, c)
		t.Fatalf("PC = %.4X, want 5080 (page-wrap bug)", c.PC)
	}
}

func TestADCBinaryOverflowAndCarry(t *testing.T) {
	c, mem := newTestCPU(t, 0x0200)
	mem.Write(0x0200, 0x69) // ADC #$50
	mem.Write(0x0201, 0x50)
	c.A = 0x50
	if _, err := c.Step(); err != nil {
		t.Fatalf("Step: %v", err)
	}
	if c.A != 0xA0 {
		dump(t, c)
		t.Fatalf("A = %.2X, want A0", c.A)
	}
	if !c.Test(FlagOverflow) {
		t.Fatalf("expected V set for 0x50+0x50 signed overflow")
	}
	if c.Test(FlagCarry) {
		t.Fatalf("expected C clear, no unsigned carry")
	}
}

func TestADCDecimalMode(t *testing.T) {
	c, mem := newTestCPU(t, 0x0200)
	mem.Write(0x0200, 0x69) // ADC #$15 (BCD) with A=$26, expect $41
	mem.Write(0x0201, 0x15)
	c.A = 0x26
	c.Set(FlagDecimal)
	if _, err := c.Step(); err != nil {
		t.Fatalf("Step: %v", err)
	}
	if c.A != 0x41 {
		dump(t, c)
		t.Fatalf("A = %.2X, want 41 (26 + 15 BCD)", c.A)
	}
	if c.Test(FlagCarry) {
		t.Fatalf("unexpected decimal carry")
	}
}

func TestSBCDecimalMode(t *testing.T) {
	c, mem := newTestCPU(t, 0x0200)
	mem.Write(0x0200, 0xE9) // SBC #$15, A=$41, carry set (no borrow), expect $26
	mem.Write(0x0201, 0x15)
	c.A = 0x41
	c.Set(FlagDecimal)
	c.Set(FlagCarry)
	if _, err := c.Step(); err != nil {
		t.Fatalf("Step: %v", err)
	}
	if c.A != 0x26 {
		dump(t, c)
		t.Fatalf("A = %.2X, want 26 (41 - 15 BCD)", c.A)
	}
	if !c.Test(FlagCarry) {
		t.Fatalf("expected carry set, no borrow occurred")
	}
}

func TestPHPSetsBAndUOnStack(t *testing.T) {
	c, mem := newTestCPU(t, 0x0200)
	mem.Write(0x0200, 0x08) // PHP
	c.P = 0
	if _, err := c.Step(); err != nil {
		t.Fatalf("Step: %v", err)
	}
	pushed := mem.Read(0x01FD)
	if pushed&uint8(FlagBreak) == 0 || pushed&uint8(FlagUnused) == 0 {
		t.Fatalf("pushed status %.2X missing B/U", pushed)
	}
}

func TestBRKPushesPCPlusTwoAndSetsI(t *testing.T) {
	c, mem := newTestCPU(t, 0x0200)
	mem.WriteWord(IRQVector, 0x9000)
	mem.Write(0x0200, 0x00) // BRK
	mem.Write(0x0201, 0x00) // padding byte
	result, err := c.Step()
	if err != nil {
		t.Fatalf("Step: %v", err)
	}
	if result != RunHaltedBRK {
		t.Fatalf("result = %v, want RunHaltedBRK", result)
	}
	if c.PC != 0x9000 {
		dump(t, c)
		t.Fatalf("PC after BRK = %.4X, want 9000", c.PC)
	}
	if !c.Test(FlagInterrupt) {
		t.Fatalf("I flag not set after BRK")
	}
	returnAddr := uint16(mem.Read(0x01FC)) | uint16(mem.Read(0x01FD))<<8
	if returnAddr != 0x0202 {
		t.Fatalf("pushed return address = %.4X, want 0202", returnAddr)
	}
}

func TestIllegalOpcodeHaltsByDefault(t *testing.T) {
	c, mem := newTestCPU(t, 0x0200)
	mem.Write(0x0200, 0x02) // undocumented
	result, err := c.Step()
	if result != RunHaltedIllegal {
		t.Fatalf("result = %v, want RunHaltedIllegal", result)
	}
	if err == nil {
		t.Fatalf("expected error for illegal opcode")
	}
	if !c.Halted() || c.HaltOpcode() != 0x02 || c.HaltPC() != 0x0200 {
		dump(t, c)
		t.Fatalf("halt bookkeeping wrong")
	}
}

func TestIllegalOpcodeTreatedAsNOPWhenConfigured(t *testing.T) {
	mem := memory.New()
	mem.Fill(0xEA)
	mem.WriteWord(ResetVector, 0x0200)
	mem.Write(0x0200, 0x02)
	c, err := New(Config{Ram: mem, IllegalPolicy: IllegalTreatAsNOP})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	result, err := c.Step()
	if err != nil || result != RunCompleted {
		t.Fatalf("Step = (%v, %v), want (RunCompleted, nil)", result, err)
	}
	if c.Cycles() != 2 {
		t.Fatalf("Cycles() = %d, want 2", c.Cycles())
	}
}

func TestRunStopsAtBudget(t *testing.T) {
	c, mem := newTestCPU(t, 0x0200)
	for i := uint16(0); i < 10; i++ {
		mem.Write(0x0200+i, 0xEA) // NOP
	}
	result, err := c.Run(6)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result != RunCompleted {
		t.Fatalf("result = %v, want RunCompleted", result)
	}
	if c.Cycles() < 6 {
		t.Fatalf("Cycles() = %d, want >= 6", c.Cycles())
	}
}

func TestNewRejectsNilMemory(t *testing.T) {
	if _, err := New(Config{}); err == nil {
		t.Fatalf("expected error constructing CPU without memory")
	}
}
