// core/engine/engine.go
package engine

import "math/bits"

// Engine is one SHA-256 block-compression engine: given a 512-bit message
// block and an 8-word running state, it produces the updated state after a
// fixed number of steps. It mirrors the hardware pipeline, so progress is
// explicit: Start latches the inputs and each Step advances exactly one unit
// of work. A full run is 114 steps (1 load + 48 expand + 64 compress +
// 1 finalize); there is no branching and no stalls.
//
// An Engine is owned by exactly one register-file slot and must not be
// shared. The zero value is an idle engine.
type Engine struct {
	fsm   state
	t     int // expansion / round counter
	block [16]uint32
	init  [8]uint32
	w     [64]uint32 // message schedule
	v     [8]uint32  // working variables a..h
	done  bool
	out   [8]uint32
}

type state uint8

const (
	stateIdle state = iota
	stateLoad
	stateExpand
	stateCompress
	stateDone
)

// Reset forces the engine to IDLE and clears all internal state, discarding
// any in-flight run. It cannot fail.
func (e *Engine) Reset() {
	*e = Engine{}
}

// Start latches a block and input state and begins a run. It is valid only
// while the engine is IDLE; Start against a busy engine is silently
// ignored — the start latch is only sampled in IDLE, matching the hardware.
func (e *Engine) Start(block [16]uint32, state [8]uint32) {
	if e.fsm != stateIdle {
		return
	}
	e.block = block
	e.init = state
	e.done = false
	e.t = 0
	e.fsm = stateLoad
}

// Idle reports whether the engine is waiting for a start request.
func (e *Engine) Idle() bool { return e.fsm == stateIdle }

// Done reports whether a result has been produced since the last Start.
// It stays set after the engine returns to IDLE.
func (e *Engine) Done() bool { return e.done }

// Result returns the output state. It is defined only once Done reports
// true for the current run; until then it holds the previous run's output.
func (e *Engine) Result() [8]uint32 { return e.out }

// Step advances one unit of internal progress and reports whether this step
// completed a run. Stepping an idle engine is a no-op.
func (e *Engine) Step() bool {
	switch e.fsm {
	case stateLoad:
		copy(e.w[:16], e.block[:])
		for i := 16; i < 64; i++ {
			e.w[i] = 0
		}
		e.v = e.init
		e.t = 16
		e.fsm = stateExpand

	case stateExpand:
		t := e.t
		e.w[t] = sig1(e.w[t-2]) + e.w[t-7] + sig0(e.w[t-15]) + e.w[t-16]
		e.t++
		if e.t == 64 {
			e.t = 0
			e.fsm = stateCompress
		}

	case stateCompress:
		a, b, c, d := e.v[0], e.v[1], e.v[2], e.v[3]
		ee, f, g, h := e.v[4], e.v[5], e.v[6], e.v[7]
		t1 := h + ep1(ee) + ch(ee, f, g) + k[e.t] + e.w[e.t]
		t2 := ep0(a) + maj(a, b, c)
		e.v = [8]uint32{t1 + t2, a, b, c, d + t1, ee, f, g}
		e.t++
		if e.t == 64 {
			e.fsm = stateDone
		}

	case stateDone:
		for i := range e.out {
			e.out[i] = e.v[i] + e.init[i]
		}
		e.done = true
		e.fsm = stateIdle
		return true
	}
	return false
}

// Run steps a started engine to completion. It is the synchronous
// equivalent of ticking the hardware until DONE; on an idle engine it is a
// no-op.
func (e *Engine) Run() {
	for e.fsm != stateIdle {
		e.Step()
	}
}

func rotr(x uint32, n int) uint32 { return bits.RotateLeft32(x, -n) }

func ep0(x uint32) uint32 { return rotr(x, 2) ^ rotr(x, 13) ^ rotr(x, 22) }
func ep1(x uint32) uint32 { return rotr(x, 6) ^ rotr(x, 11) ^ rotr(x, 25) }
func sig0(x uint32) uint32 { return rotr(x, 7) ^ rotr(x, 18) ^ (x >> 3) }
func sig1(x uint32) uint32 { return rotr(x, 17) ^ rotr(x, 19) ^ (x >> 10) }

func ch(x, y, z uint32) uint32  { return (x & y) ^ (^x & z) }
func maj(x, y, z uint32) uint32 { return (x & y) ^ (x & z) ^ (y & z) }
