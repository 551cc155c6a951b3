package cpu

// Flag identifies a single bit of the processor status register P, named
// by its conventional letter rather than its bit position so call sites
// read as intent ("c.Set(FlagCarry)") instead of raw bit arithmetic.
type Flag uint8

// Processor status bits, ordered by bit position (0 = least significant).
const (
	FlagCarry     Flag = 0x01 // C
	FlagZero      Flag = 0x02 // Z
	FlagInterrupt Flag = 0x04 // I
	FlagDecimal   Flag = 0x08 // D
	FlagBreak     Flag = 0x10 // B
	FlagUnused    Flag = 0x20 // U, always 1 when pushed to the stack
	FlagOverflow  Flag = 0x40 // V
	FlagNegative  Flag = 0x80 // N
)

// Set turns the given flag on in P.
func (c *CPU) Set(f Flag) {
	c.P |= uint8(f)
}

// Clear turns the given flag off in P.
func (c *CPU) Clear(f Flag) {
	c.P &^= uint8(f)
}

// Test reports whether the given flag is currently on in P.
func (c *CPU) Test(f Flag) bool {
	return c.P&uint8(f) != 0
}

// assign sets or clears f depending on cond, avoiding a branch at each
// call site that would otherwise just wrap Set/Clear.
func (c *CPU) assign(f Flag, cond bool) {
	if cond {
		c.Set(f)
	} else {
		c.Clear(f)
	}
}

// updateNZ sets N to bit 7 of val and Z to whether val is zero. This is
// the single largest source of transcription bugs in 6502 emulators, so
// every load/transfer/ALU op that touches N and Z routes through here
// rather than poking P directly.
func (c *CPU) updateNZ(val uint8) uint8 {
	c.assign(FlagNegative, val&0x80 != 0)
	c.assign(FlagZero, val == 0)
	return val
}

// updateCarryAdd sets C from a 9-bit-or-wider addition result: true if the
// result overflowed out of the low 8 bits.
func (c *CPU) updateCarryAdd(res uint16) {
	c.assign(FlagCarry, res > 0xFF)
}

// updateOverflow sets V from the signed-overflow predicate for an 8 bit
// ALU operation: true if the operands share a sign that differs from the
// result's sign. See http://www.righto.com/2012/12/the-6502-overflow-flag-explained.html
func (c *CPU) updateOverflow(a, m, res uint8) {
	c.assign(FlagOverflow, (a^res)&(m^res)&0x80 != 0)
}
