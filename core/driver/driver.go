// core/driver/driver.go

// Package driver is the embedded-style SHA-256 driver for the dual-engine
// accelerator. It owns the block buffering and padding on the processor
// side and speaks the register protocol for each 512-bit block: write the
// 16 message words and 8 state words, pulse GO, busy-poll DONE, read back
// the 8 output words. Completion is poll-only; the spin-wait is deliberate
// and must not be replaced with a blocking primitive.
package driver

import (
	"encoding/binary"
	"encoding/hex"
	"hash"

	"shaccel-core/regfile"
)

// Bus is the word-granular register access surface the bus-transaction
// adapter provides. Addresses are absolute; the driver adds its instance
// base itself.
type Bus interface {
	Read(addr uint32) uint32
	Write(addr, v uint32)
}

// The digest and block geometry of SHA-256.
const (
	Size      = 32
	BlockSize = 64
)

// FIPS 180-4 §5.3.3 initial hash value.
var iv = [8]uint32{
	0x6a09e667, 0xbb67ae85, 0x3c6ef372, 0xa54ff53a,
	0x510e527f, 0x9b05688c, 0x1f83d9ab, 0x5be0cd19,
}

// Digest accumulates bytes into 64-byte blocks and offloads each full block
// to one accelerator instance. It also satisfies hash.Hash so it can stand
// in for crypto/sha256 wherever a hash.Hash is expected.
//
// A Digest drives exactly one instance and must not be shared between
// goroutines; two Digests on different instance bases may run concurrently.
type Digest struct {
	bus  Bus
	base uint32

	buf    [BlockSize]byte
	n      int
	length uint64 // message length in bits
	state  [8]uint32
	blocks uint64
}

var _ hash.Hash = (*Digest)(nil)

// New returns an initialized Digest driving the instance at base.
func New(bus Bus, base uint32) *Digest {
	d := &Digest{bus: bus, base: base}
	d.Init()
	return d
}

// Init zeroes the block buffer and bit counter and loads the standard
// SHA-256 initial state words.
func (d *Digest) Init() {
	d.buf = [BlockSize]byte{}
	d.n = 0
	d.length = 0
	d.state = iv
	d.blocks = 0
}

// Update accumulates p, running one hardware block per filled 64 bytes.
func (d *Digest) Update(p []byte) {
	for _, b := range p {
		d.buf[d.n] = b
		d.n++
		if d.n == BlockSize {
			d.transform()
			d.length += BlockSize * 8
			d.n = 0
		}
	}
}

// Final appends the 0x80 terminator, zero-pads to the 56-byte boundary
// (spilling into an extra hardware run when the terminator does not fit),
// appends the 64-bit big-endian bit length, runs the last block, and
// serializes the state big-endian, word 0 first. The Digest is consumed;
// call Init (or Reset) before reuse.
func (d *Digest) Final() [Size]byte {
	d.length += uint64(d.n) * 8

	i := d.n
	d.buf[i] = 0x80
	i++
	if i > BlockSize-8 {
		for i < BlockSize {
			d.buf[i] = 0
			i++
		}
		d.transform()
		i = 0
	}
	for i < BlockSize-8 {
		d.buf[i] = 0
		i++
	}
	binary.BigEndian.PutUint64(d.buf[BlockSize-8:], d.length)
	d.transform()

	var out [Size]byte
	for i, w := range d.state {
		binary.BigEndian.PutUint32(out[i*4:], w)
	}
	return out
}

// transform offloads the buffered block, reproducing the driver protocol
// register for register.
func (d *Digest) transform() {
	for i := 0; i < 16; i++ {
		w := binary.BigEndian.Uint32(d.buf[i*4:])
		d.bus.Write(d.base+regfile.RegMessage+uint32(i)*4, w)
	}
	for i, w := range d.state {
		d.bus.Write(d.base+regfile.RegStateIn+uint32(i)*4, w)
	}
	d.bus.Write(d.base+regfile.RegControl, 0)
	d.bus.Write(d.base+regfile.RegControl, regfile.CtrlGo)

	for d.bus.Read(d.base+regfile.RegControl)&regfile.CtrlDone == 0 {
	}

	for i := range d.state {
		d.state[i] = d.bus.Read(d.base + regfile.RegStateOut + uint32(i)*4)
	}
	d.blocks++
}

// Blocks reports how many hardware runs this digest has issued, padding
// runs included.
func (d *Digest) Blocks() uint64 { return d.blocks }

// Write implements hash.Hash.
func (d *Digest) Write(p []byte) (int, error) {
	d.Update(p)
	return len(p), nil
}

// Sum appends the digest of the bytes written so far to in, without
// consuming the running state: the finalization runs on a copy.
func (d *Digest) Sum(in []byte) []byte {
	d2 := *d
	h := d2.Final()
	return append(in, h[:]...)
}

// Reset implements hash.Hash.
func (d *Digest) Reset() { d.Init() }

// Size implements hash.Hash.
func (d *Digest) Size() int { return Size }

// BlockSize implements hash.Hash.
func (d *Digest) BlockSize() int { return BlockSize }

// Sum hashes data in one shot through the instance at base.
func Sum(bus Bus, base uint32, data []byte) [Size]byte {
	d := New(bus, base)
	d.Update(data)
	return d.Final()
}

// HexSum is Sum with the digest rendered as lowercase hex.
func HexSum(bus Bus, base uint32, data []byte) string {
	h := Sum(bus, base, data)
	return hex.EncodeToString(h[:])
}
