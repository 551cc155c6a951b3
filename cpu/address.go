package cpu

// AddrMode names one of the thirteen 6502 addressing modes. The dispatch
// table in opcodes.go pairs every documented opcode with exactly one of
// these.
type AddrMode int

const (
	ModeImplied AddrMode = iota
	ModeAccumulator
	ModeImmediate
	ModeZeroPage
	ModeZeroPageX
	ModeZeroPageY
	ModeAbsolute
	ModeAbsoluteX
	ModeAbsoluteY
	ModeIndirect
	ModeIndirectX
	ModeIndirectY
	ModeRelative
)

// fetchByte reads the byte at PC and advances PC past it.
func (c *CPU) fetchByte() uint8 {
	b := c.mem.Read(c.PC)
	c.PC++
	return b
}

// fetchWord reads a little-endian word at PC and advances PC past both bytes.
func (c *CPU) fetchWord() uint16 {
	lo := c.fetchByte()
	hi := c.fetchByte()
	return (uint16(hi) << 8) | uint16(lo)
}

// samePage reports whether a and b share a 256-byte page, the predicate
// behind every page-cross cycle penalty.
func samePage(a, b uint16) bool {
	return a&0xFF00 == b&0xFF00
}

// operandAddress resolves the effective address for mode, consuming
// whatever operand bytes follow the opcode at PC. store indicates an RMW
// or store instruction is using the address: those pay the indexed
// penalty unconditionally rather than only on an actual page cross,
// matching real hardware's extra dummy read. It returns the resolved
// address and whether an indexed access crossed a page boundary (used by
// loads to decide the dynamic one-cycle bonus).
func (c *CPU) operandAddress(mode AddrMode, store bool) (addr uint16, crossed bool) {
	switch mode {
	case ModeZeroPage:
		return uint16(c.fetchByte()), false

	case ModeZeroPageX:
		base := c.fetchByte()
		return uint16(base + c.X), false

	case ModeZeroPageY:
		base := c.fetchByte()
		return uint16(base + c.Y), false

	case ModeAbsolute:
		return c.fetchWord(), false

	case ModeAbsoluteX:
		base := c.fetchWord()
		addr = base + uint16(c.X)
		return addr, store || !samePage(base, addr)

	case ModeAbsoluteY:
		base := c.fetchWord()
		addr = base + uint16(c.Y)
		return addr, store || !samePage(base, addr)

	case ModeIndirect:
		ptr := c.fetchWord()
		// The indirect-JMP page-wrap bug: if the low byte of ptr is 0xFF,
		// the high byte of the target is fetched from ptr with its low
		// byte wrapped to 0x00 rather than from ptr+1.
		lo := c.mem.Read(ptr)
		hiAddr := (ptr & 0xFF00) | uint16(uint8(ptr)+1)
		hi := c.mem.Read(hiAddr)
		return (uint16(hi) << 8) | uint16(lo), false

	case ModeIndirectX:
		zp := c.fetchByte() + c.X
		lo := c.mem.Read(uint16(zp))
		hi := c.mem.Read(uint16(zp + 1))
		return (uint16(hi) << 8) | uint16(lo), false

	case ModeIndirectY:
		zp := c.fetchByte()
		lo := c.mem.Read(uint16(zp))
		hi := c.mem.Read(uint16(zp + 1))
		base := (uint16(hi) << 8) | uint16(lo)
		addr = base + uint16(c.Y)
		return addr, store || !samePage(base, addr)

	default:
		panic("operandAddress: unsupported mode")
	}
}

// loadOperand fetches the operand value for mode, consuming the bytes
// that follow the opcode and charging the page-cross bonus onto
// extraCycles when the access is a load (store is false).
func (c *CPU) loadOperand(mode AddrMode) uint8 {
	if mode == ModeImmediate {
		return c.fetchByte()
	}
	addr, crossed := c.operandAddress(mode, false)
	if crossed {
		c.extraCycles++
	}
	return c.mem.Read(addr)
}
