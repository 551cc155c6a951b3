// Package cpu implements the MOS 6502 instruction set: register and
// status-flag semantics, the thirteen addressing modes, and the
// fetch-decode-execute loop that ties them to a 64 KiB memory image.
package cpu

import (
	"fmt"

	"github.com/nrgallagher/sixtwofour/memory"
)

// Interrupt and reset vector addresses, little-endian words.
const (
	NMIVector   = uint16(0xFFFA) // not driven by this emulator; reserved so a handler may still live here.
	ResetVector = uint16(0xFFFC)
	IRQVector   = uint16(0xFFFE)
)

// IllegalPolicy selects how the dispatch loop reacts to an opcode byte
// that isn't one of the 151 documented instructions.
type IllegalPolicy int

const (
	// IllegalHalt stops the run and reports the offending opcode and PC. Default.
	IllegalHalt IllegalPolicy = iota
	// IllegalTreatAsNOP consumes two cycles and continues, as if the byte were 0xEA.
	IllegalTreatAsNOP
	// IllegalPanic terminates the process with a diagnostic. Intended for
	// fuzzing/corpus runs where an illegal opcode indicates a test-generator bug.
	IllegalPanic
)

// DecimalPolicy selects how ADC computes N and Z when the D flag is set.
// Real NMOS 6502 parts derive N/Z from the binary result even in decimal
// mode; some documented CMOS parts instead derive them from the decimal
// result. V always follows the binary result, and SBC's flags follow the
// binary result under either policy. See SPEC_FULL.md §9.
type DecimalPolicy int

const (
	// DecimalNMOS computes N/Z from the binary result (default, documented NMOS behavior).
	DecimalNMOS DecimalPolicy = iota
	// DecimalCMOS computes N/Z from the decimal result.
	DecimalCMOS
)

// InvalidState represents a precondition failure: the harness used the
// CPU incorrectly. New returns it when Config.Ram is nil.
type InvalidState struct {
	Reason string
}

// Error implements error.
func (e InvalidState) Error() string {
	return fmt.Sprintf("invalid CPU state: %s", e.Reason)
}

// IllegalOpcode is returned by Step/Run when an undocumented opcode byte
// is fetched under IllegalHalt policy.
type IllegalOpcode struct {
	Opcode uint8
	PC     uint16
}

// Error implements error.
func (e IllegalOpcode) Error() string {
	return fmt.Sprintf("illegal opcode 0x%.2X at PC 0x%.4X", e.Opcode, e.PC)
}

// RunResult names why Run stopped, per the Design Notes' preference for
// an explicit result variant over relying solely on sentinel errors for
// control flow that isn't truly exceptional.
type RunResult int

const (
	// RunCompleted means the cycle budget was reached without a halt.
	RunCompleted RunResult = iota
	// RunHaltedIllegal means an illegal opcode halted the CPU under IllegalHalt policy.
	RunHaltedIllegal
	// RunHaltedBRK means a BRK instruction executed and Run treated it as a stopping point.
	RunHaltedBRK
)

func (r RunResult) String() string {
	switch r {
	case RunCompleted:
		return "completed"
	case RunHaltedIllegal:
		return "halted-illegal"
	case RunHaltedBRK:
		return "halted-brk"
	default:
		return "unknown"
	}
}

// CPU is the register and execution state of a single MOS 6502. It owns
// no resources beyond the memory.Ram it was constructed with.
type CPU struct {
	A, X, Y uint8
	SP      uint8
	PC      uint16
	P       uint8
	cycles  uint64

	mem memory.Ram

	illegalPolicy IllegalPolicy
	decimalPolicy DecimalPolicy

	halted      bool
	haltOpcode  uint8
	haltPC      uint16
	lastWasBRK  bool
	extraCycles int
}

// Config parameterizes New.
type Config struct {
	// Ram is the memory image the CPU executes against. Required.
	Ram memory.Ram
	// IllegalPolicy selects the reaction to an undocumented opcode. Zero value is IllegalHalt.
	IllegalPolicy IllegalPolicy
	// DecimalPolicy selects NMOS vs CMOS decimal-mode flag semantics. Zero value is DecimalNMOS.
	DecimalPolicy DecimalPolicy
}

// New constructs a CPU bound to cfg.Ram and performs the reset sequence
// so it is immediately ready to Step/Run. Returns an error if no memory
// was supplied.
func New(cfg Config) (*CPU, error) {
	if cfg.Ram == nil {
		return nil, InvalidState{"Config.Ram must not be nil"}
	}
	c := &CPU{
		mem:           cfg.Ram,
		illegalPolicy: cfg.IllegalPolicy,
		decimalPolicy: cfg.DecimalPolicy,
	}
	c.Reset()
	return c, nil
}

// Reset performs the documented power-up/reset sequence: A, X and Y go to
// zero, SP goes to the documented 0xFD, P is cleared except I and U, PC
// is loaded from the reset vector, and the cycle counter is zeroed so
// tests can assert exact per-opcode costs for everything that follows.
func (c *CPU) Reset() {
	c.A, c.X, c.Y = 0, 0, 0
	c.SP = 0xFD
	c.P = uint8(FlagInterrupt) | uint8(FlagUnused)
	lo := c.mem.Read(ResetVector)
	hi := c.mem.Read(ResetVector + 1)
	c.PC = (uint16(hi) << 8) | uint16(lo)
	c.cycles = 0
	c.halted = false
	c.haltOpcode = 0
	c.haltPC = 0
	c.lastWasBRK = false
	c.extraCycles = 0
}

// Cycles returns the number of machine cycles charged since the last Reset.
func (c *CPU) Cycles() uint64 {
	return c.cycles
}

// Halted reports whether the CPU has stopped on an illegal opcode under IllegalHalt policy.
func (c *CPU) Halted() bool {
	return c.halted
}

// HaltOpcode returns the opcode byte that caused a halt, valid only when Halted() is true.
func (c *CPU) HaltOpcode() uint8 {
	return c.haltOpcode
}

// HaltPC returns the PC at which the halting opcode was fetched, valid only when Halted() is true.
func (c *CPU) HaltPC() uint16 {
	return c.haltPC
}

// Status returns the packed processor status byte.
func (c *CPU) Status() uint8 {
	return c.P
}

// SetStatus overwrites the packed processor status byte. Test-only: production
// code should never need to poke P directly outside of instruction semantics.
func (c *CPU) SetStatus(p uint8) {
	c.P = p
}

// Mem returns the memory.Ram this CPU is bound to, for harnesses that need
// to inspect or mutate memory between Steps.
func (c *CPU) Mem() memory.Ram {
	return c.mem
}
