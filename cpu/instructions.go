package cpu

// execFn implements one mnemonic's behavior for a single addressing
// mode. Operand bytes for mode are not yet consumed when it's called;
// each handler pulls what it needs via loadOperand/operandAddress so
// that load-vs-store page-cross accounting stays correct per mode.
type execFn func(c *CPU, mode AddrMode)

// --- stack helpers -------------------------------------------------------

func (c *CPU) push(v uint8) {
	c.mem.Write(0x0100|uint16(c.SP), v)
	c.SP--
}

func (c *CPU) pop() uint8 {
	c.SP++
	return c.mem.Read(0x0100 | uint16(c.SP))
}

func (c *CPU) pushWord(w uint16) {
	c.push(uint8(w >> 8))
	c.push(uint8(w & 0xFF))
}

func (c *CPU) popWord() uint16 {
	lo := c.pop()
	hi := c.pop()
	return (uint16(hi) << 8) | uint16(lo)
}

// --- loads / stores -------------------------------------------------------

func execLDA(c *CPU, mode AddrMode) { c.A = c.updateNZ(c.loadOperand(mode)) }
func execLDX(c *CPU, mode AddrMode) { c.X = c.updateNZ(c.loadOperand(mode)) }
func execLDY(c *CPU, mode AddrMode) { c.Y = c.updateNZ(c.loadOperand(mode)) }

func execSTA(c *CPU, mode AddrMode) {
	addr, _ := c.operandAddress(mode, true)
	c.mem.Write(addr, c.A)
}
func execSTX(c *CPU, mode AddrMode) {
	addr, _ := c.operandAddress(mode, true)
	c.mem.Write(addr, c.X)
}
func execSTY(c *CPU, mode AddrMode) {
	addr, _ := c.operandAddress(mode, true)
	c.mem.Write(addr, c.Y)
}

// --- register transfers ---------------------------------------------------

func execTAX(c *CPU, _ AddrMode) { c.X = c.updateNZ(c.A) }
func execTAY(c *CPU, _ AddrMode) { c.Y = c.updateNZ(c.A) }
func execTXA(c *CPU, _ AddrMode) { c.A = c.updateNZ(c.X) }
func execTYA(c *CPU, _ AddrMode) { c.A = c.updateNZ(c.Y) }
func execTSX(c *CPU, _ AddrMode) { c.X = c.updateNZ(c.SP) }
func execTXS(c *CPU, _ AddrMode) { c.SP = c.X } // does not touch N/Z

// --- stack instructions ----------------------------------------------------

func execPHA(c *CPU, _ AddrMode) { c.push(c.A) }
func execPHP(c *CPU, _ AddrMode) {
	// B and U are forced set in the byte that hits the stack, per the
	// documented behavior of a software-initiated push.
	c.push(c.P | uint8(FlagBreak) | uint8(FlagUnused))
}
func execPLA(c *CPU, _ AddrMode) { c.A = c.updateNZ(c.pop()) }
func execPLP(c *CPU, _ AddrMode) {
	// B and U are not taken from the pulled byte: both keep the values
	// they had in P before the pull.
	const bu = uint8(FlagBreak) | uint8(FlagUnused)
	c.P = (c.pop() &^ bu) | (c.P & bu)
}

// --- logical ---------------------------------------------------------------

func execAND(c *CPU, mode AddrMode) { c.A = c.updateNZ(c.A & c.loadOperand(mode)) }
func execORA(c *CPU, mode AddrMode) { c.A = c.updateNZ(c.A | c.loadOperand(mode)) }
func execEOR(c *CPU, mode AddrMode) { c.A = c.updateNZ(c.A ^ c.loadOperand(mode)) }

func execBIT(c *CPU, mode AddrMode) {
	v := c.loadOperand(mode)
	c.assign(FlagZero, c.A&v == 0)
	c.assign(FlagNegative, v&0x80 != 0)
	c.assign(FlagOverflow, v&0x40 != 0)
}

// --- shifts and rotates ------------------------------------------------

func execASL(c *CPU, mode AddrMode) {
	if mode == ModeAccumulator {
		c.assign(FlagCarry, c.A&0x80 != 0)
		c.A = c.updateNZ(c.A << 1)
		return
	}
	addr, _ := c.operandAddress(mode, true)
	v := c.mem.Read(addr)
	c.assign(FlagCarry, v&0x80 != 0)
	c.mem.Write(addr, c.updateNZ(v<<1))
}

func execLSR(c *CPU, mode AddrMode) {
	if mode == ModeAccumulator {
		c.assign(FlagCarry, c.A&0x01 != 0)
		c.A = c.updateNZ(c.A >> 1)
		return
	}
	addr, _ := c.operandAddress(mode, true)
	v := c.mem.Read(addr)
	c.assign(FlagCarry, v&0x01 != 0)
	c.mem.Write(addr, c.updateNZ(v>>1))
}

func execROL(c *CPU, mode AddrMode) {
	var oldCarry uint8
	if c.Test(FlagCarry) {
		oldCarry = 1
	}
	if mode == ModeAccumulator {
		c.assign(FlagCarry, c.A&0x80 != 0)
		c.A = c.updateNZ(c.A<<1 | oldCarry)
		return
	}
	addr, _ := c.operandAddress(mode, true)
	v := c.mem.Read(addr)
	c.assign(FlagCarry, v&0x80 != 0)
	c.mem.Write(addr, c.updateNZ(v<<1|oldCarry))
}

func execROR(c *CPU, mode AddrMode) {
	var oldCarry uint8
	if c.Test(FlagCarry) {
		oldCarry = 0x80
	}
	if mode == ModeAccumulator {
		c.assign(FlagCarry, c.A&0x01 != 0)
		c.A = c.updateNZ(c.A>>1 | oldCarry)
		return
	}
	addr, _ := c.operandAddress(mode, true)
	v := c.mem.Read(addr)
	c.assign(FlagCarry, v&0x01 != 0)
	c.mem.Write(addr, c.updateNZ(v>>1|oldCarry))
}

// --- arithmetic, with NMOS/CMOS decimal-mode N/Z policy --------------------

func (c *CPU) adcBinary(m uint8) {
	var carryIn uint16
	if c.Test(FlagCarry) {
		carryIn = 1
	}
	sum := uint16(c.A) + uint16(m) + carryIn
	res := uint8(sum)
	c.updateOverflow(c.A, m, res)
	c.updateCarryAdd(sum)
	c.A = c.updateNZ(res)
}

func (c *CPU) adcDecimal(m uint8) {
	var carryIn uint8
	if c.Test(FlagCarry) {
		carryIn = 1
	}
	a := c.A
	lo := (a & 0x0F) + (m & 0x0F) + carryIn
	hi := (a >> 4) + (m >> 4)
	if lo > 9 {
		lo += 6
		hi++
	}
	binSum := uint16(a) + uint16(m) + uint16(carryIn)
	binRes := uint8(binSum)
	c.updateOverflow(a, m, binRes)
	if hi > 9 {
		hi += 6
	}
	c.assign(FlagCarry, hi > 15)
	decRes := (hi&0x0F)<<4 | (lo & 0x0F)
	if c.decimalPolicy == DecimalCMOS {
		c.assign(FlagNegative, decRes&0x80 != 0)
		c.assign(FlagZero, decRes == 0)
	} else {
		c.assign(FlagNegative, binRes&0x80 != 0)
		c.assign(FlagZero, binRes == 0)
	}
	c.A = decRes
}

func execADC(c *CPU, mode AddrMode) {
	m := c.loadOperand(mode)
	if c.Test(FlagDecimal) {
		c.adcDecimal(m)
		return
	}
	c.adcBinary(m)
}

func execSBC(c *CPU, mode AddrMode) {
	m := c.loadOperand(mode)
	if c.Test(FlagDecimal) {
		c.sbcDecimal(m)
		return
	}
	// SBC in binary mode is ADC of the bitwise complement.
	c.adcBinary(^m)
}

func (c *CPU) sbcDecimal(m uint8) {
	var borrow uint8
	if !c.Test(FlagCarry) {
		borrow = 1
	}
	a := c.A
	// N, V, Z and C all follow the binary result even in decimal mode,
	// regardless of policy: only ADC's N/Z are documented as ambiguous
	// across NMOS/CMOS parts.
	binResFull := uint16(a) - uint16(m) - uint16(borrow)
	binRes := uint8(binResFull)
	c.updateOverflow(a, ^m, binRes)
	c.assign(FlagCarry, binResFull < 0x100)
	c.assign(FlagNegative, binRes&0x80 != 0)
	c.assign(FlagZero, binRes == 0)

	lo := int16(a&0x0F) - int16(m&0x0F) - int16(borrow)
	hi := int16(a>>4) - int16(m>>4)
	if lo < 0 {
		lo -= 6
		hi--
	}
	if hi < 0 {
		hi -= 6
	}
	c.A = uint8(hi<<4) | uint8(lo&0x0F)
}

// --- compares ----------------------------------------------------------

func (c *CPU) compare(reg, m uint8) {
	res := uint16(reg) - uint16(m)
	c.assign(FlagCarry, reg >= m)
	c.assign(FlagZero, reg == m)
	c.assign(FlagNegative, uint8(res)&0x80 != 0)
}

func execCMP(c *CPU, mode AddrMode) { c.compare(c.A, c.loadOperand(mode)) }
func execCPX(c *CPU, mode AddrMode) { c.compare(c.X, c.loadOperand(mode)) }
func execCPY(c *CPU, mode AddrMode) { c.compare(c.Y, c.loadOperand(mode)) }

// --- increment / decrement ----------------------------------------------

func execINC(c *CPU, mode AddrMode) {
	addr, _ := c.operandAddress(mode, true)
	c.mem.Write(addr, c.updateNZ(c.mem.Read(addr)+1))
}
func execDEC(c *CPU, mode AddrMode) {
	addr, _ := c.operandAddress(mode, true)
	c.mem.Write(addr, c.updateNZ(c.mem.Read(addr)-1))
}
func execINX(c *CPU, _ AddrMode) { c.X = c.updateNZ(c.X + 1) }
func execINY(c *CPU, _ AddrMode) { c.Y = c.updateNZ(c.Y + 1) }
func execDEX(c *CPU, _ AddrMode) { c.X = c.updateNZ(c.X - 1) }
func execDEY(c *CPU, _ AddrMode) { c.Y = c.updateNZ(c.Y - 1) }

// --- flag instructions ---------------------------------------------------

func execCLC(c *CPU, _ AddrMode) { c.Clear(FlagCarry) }
func execSEC(c *CPU, _ AddrMode) { c.Set(FlagCarry) }
func execCLI(c *CPU, _ AddrMode) { c.Clear(FlagInterrupt) }
func execSEI(c *CPU, _ AddrMode) { c.Set(FlagInterrupt) }
func execCLD(c *CPU, _ AddrMode) { c.Clear(FlagDecimal) }
func execSED(c *CPU, _ AddrMode) { c.Set(FlagDecimal) }
func execCLV(c *CPU, _ AddrMode) { c.Clear(FlagOverflow) }

// --- branches -------------------------------------------------------------

// branch consumes the relative offset byte unconditionally (every branch
// opcode is two bytes) and, if taken, adjusts PC and charges the dynamic
// taken/page-cross bonus onto extraCycles.
func (c *CPU) branch(taken bool) {
	offset := int8(c.fetchByte())
	if !taken {
		return
	}
	old := c.PC
	c.PC = uint16(int32(c.PC) + int32(offset))
	c.extraCycles++
	if !samePage(old, c.PC) {
		c.extraCycles++
	}
}

func execBCC(c *CPU, _ AddrMode) { c.branch(!c.Test(FlagCarry)) }
func execBCS(c *CPU, _ AddrMode) { c.branch(c.Test(FlagCarry)) }
func execBEQ(c *CPU, _ AddrMode) { c.branch(c.Test(FlagZero)) }
func execBNE(c *CPU, _ AddrMode) { c.branch(!c.Test(FlagZero)) }
func execBPL(c *CPU, _ AddrMode) { c.branch(!c.Test(FlagNegative)) }
func execBMI(c *CPU, _ AddrMode) { c.branch(c.Test(FlagNegative)) }
func execBVC(c *CPU, _ AddrMode) { c.branch(!c.Test(FlagOverflow)) }
func execBVS(c *CPU, _ AddrMode) { c.branch(c.Test(FlagOverflow)) }

// --- jumps, subroutines, interrupts ----------------------------------------

func execJMP(c *CPU, mode AddrMode) {
	addr, _ := c.operandAddress(mode, true)
	c.PC = addr
}

func execJSR(c *CPU, _ AddrMode) {
	target := c.fetchWord()
	// The pushed return address is the address of the last byte of the
	// JSR instruction, not the next instruction: RTS adds one back.
	c.pushWord(c.PC - 1)
	c.PC = target
}

func execRTS(c *CPU, _ AddrMode) {
	c.PC = c.popWord() + 1
}

func execBRK(c *CPU, _ AddrMode) {
	c.fetchByte() // BRK's second byte is a padding byte, conventionally a signature for the handler.
	c.pushWord(c.PC)
	c.push(c.P | uint8(FlagBreak) | uint8(FlagUnused))
	c.Set(FlagInterrupt)
	lo := c.mem.Read(IRQVector)
	hi := c.mem.Read(IRQVector + 1)
	c.PC = (uint16(hi) << 8) | uint16(lo)
	c.lastWasBRK = true
}

func execRTI(c *CPU, _ AddrMode) {
	// As with PLP, B and U keep their current values in P.
	const bu = uint8(FlagBreak) | uint8(FlagUnused)
	c.P = (c.pop() &^ bu) | (c.P & bu)
	c.PC = c.popWord()
}

// --- no-op ------------------------------------------------------------

func execNOP(c *CPU, _ AddrMode) {}
