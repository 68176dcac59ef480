// core/regfile/regfile.go

// Package regfile models the per-engine register window of the SHA-256
// accelerator: the GO/DONE control register, the message and input-state
// write windows, and the latched output window a caller polls and reads.
package regfile

import "shaccel-core/engine"

// Register offsets within one instance window, byte-addressed and
// word-aligned. The layout matches the hardware decode:
//
//	0x00        control (bit 0 GO, bit 31 DONE)
//	0x04..0x40  message words 0..15
//	0x44..0x60  input state words 0..7
//	0x64..0x80  latched output words 0..7 (read-only)
//	0x84        status (reserved, reads 0)
const (
	RegControl  = 0x00
	RegMessage  = 0x04
	RegStateIn  = 0x44
	RegStateOut = 0x64
	RegStatus   = 0x84
)

// Control register bits. GO is settable only by the caller and cleared by
// hardware on completion; DONE is set only by hardware and cleared by any
// caller write to the control register.
const (
	CtrlGo   uint32 = 1 << 0
	CtrlDone uint32 = 1 << 31
)

// StatusOverflow is reserved. It always reads 0 in this design.
const StatusOverflow uint32 = 1 << 0

// File owns one engine's caller-visible registers and the pairing with the
// engine itself. Registers are mutated only by the owning caller's writes
// and by the engine's own completion, so a File needs no locking as long as
// a single goroutine drives it.
type File struct {
	eng     *engine.Engine
	goBit   bool
	doneBit bool
	msg     [16]uint32
	stateIn [8]uint32
	out     [8]uint32

	ticks       uint64
	completions uint64
}

// New pairs a register file with its engine.
func New(eng *engine.Engine) *File {
	return &File{eng: eng}
}

// Read returns the register at off. It is a pure projection of current
// contents: no side effects, and unmapped or unaligned offsets read as 0.
func (f *File) Read(off uint32) uint32 {
	if off%4 != 0 {
		return 0
	}
	switch {
	case off == RegControl:
		var v uint32
		if f.goBit {
			v |= CtrlGo
		}
		if f.doneBit {
			v |= CtrlDone
		}
		return v
	case off >= RegMessage && off < RegMessage+16*4:
		return f.msg[(off-RegMessage)/4]
	case off >= RegStateIn && off < RegStateIn+8*4:
		return f.stateIn[(off-RegStateIn)/4]
	case off >= RegStateOut && off < RegStateOut+8*4:
		return f.out[(off-RegStateOut)/4]
	case off == RegStatus:
		return 0 // overflow bit reserved, not yet used
	}
	return 0
}

// Write stores v at off when enable is set. A control write latches GO from
// bit 0 and unconditionally clears DONE, whatever bit 31 of v says. Writes
// to the output window, the status register, or unmapped offsets have no
// effect. Writing message or state words while the engine is busy is a
// caller-contract violation: it is not detected, the run simply keeps the
// inputs it latched at load time.
func (f *File) Write(off, v uint32, enable bool) {
	if !enable || off%4 != 0 {
		return
	}
	switch {
	case off == RegControl:
		f.goBit = v&CtrlGo != 0
		f.doneBit = false
	case off >= RegMessage && off < RegMessage+16*4:
		f.msg[(off-RegMessage)/4] = v
	case off >= RegStateIn && off < RegStateIn+8*4:
		f.stateIn[(off-RegStateIn)/4] = v
	}
}

// Tick advances one clock: it starts the engine when GO is pending and the
// engine is idle, steps the engine once, and on completion latches the
// result into the output window, sets DONE and clears GO in the same tick.
// The previous latched output is overwritten whether or not it was read.
//
// A caller write and an engine completion can land on the same tick; the
// completion latch wins, so DONE=1/GO=0 is what the next read observes.
// That precedence is guaranteed here, not left to assignment order.
func (f *File) Tick() {
	f.ticks++
	if f.goBit && f.eng.Idle() {
		f.eng.Start(f.msg, f.stateIn)
	}
	if f.eng.Step() {
		f.out = f.eng.Result()
		f.doneBit = true
		f.goBit = false
		f.completions++
	}
}

// Retire ticks the clock until the pending run has completed and GO is
// clear. With no run pending it returns immediately. This is the
// free-running mode: timing collapses, observables do not.
func (f *File) Retire() {
	for f.goBit {
		f.Tick()
	}
}

// Reset returns every register to zero and resets the paired engine in
// lockstep, discarding any in-flight run. Counters are cleared too.
func (f *File) Reset() {
	eng := f.eng
	*f = File{eng: eng}
	eng.Reset()
}

// Ticks reports how many clock ticks this instance has consumed.
func (f *File) Ticks() uint64 { return f.ticks }

// Completions reports how many runs this instance has retired.
func (f *File) Completions() uint64 { return f.completions }
