// core/accel/accel_test.go
package accel

import (
	"testing"

	"shaccel-core/regfile"
)

var (
	testBlock = [16]uint32{
		0x49207573, 0x65642074, 0x6f20706c, 0x61792070,
		0x69616e6f, 0x20627920, 0x6561722c, 0x20627574,
		0x206e6f77, 0x20492075, 0x7365206d, 0x79206861,
		0x6e64732e, 0x80000000, 0x00000000, 0x000001a0,
	}
	testInit = [8]uint32{
		0x6a09e667, 0xbb67ae85, 0x3c6ef372, 0xa54ff53a,
		0x510e527f, 0x9b05688c, 0x1f83d9ab, 0x5be0cd19,
	}
	testOut = [8]uint32{
		0x233b5713, 0xd3f244af, 0xf9055b5d, 0xf200cd6d,
		0x62a55ffa, 0x81a04e93, 0x26541bc9, 0x51fe5ae6,
	}
)

func submit(d *Dispatcher, base uint32) {
	for i, w := range testBlock {
		d.Write(base+regfile.RegMessage+uint32(i)*4, w)
	}
	for i, w := range testInit {
		d.Write(base+regfile.RegStateIn+uint32(i)*4, w)
	}
	d.Write(base+regfile.RegControl, 0)
	d.Write(base+regfile.RegControl, regfile.CtrlGo)
}

func TestFreeRunningPoll(t *testing.T) {
	d := New(Config{})
	submit(d, Instance0Base)

	// Free-running: the first poll already observes DONE.
	if d.Read(Instance0Base+regfile.RegControl)&regfile.CtrlDone == 0 {
		t.Fatal("DONE not set after free-running GO write")
	}
	for i := range testOut {
		got := d.Read(Instance0Base + regfile.RegStateOut + uint32(i)*4)
		if got != testOut[i] {
			t.Errorf("out[%d] = %08x, want %08x", i, got, testOut[i])
		}
	}
}

func TestStepClockedPoll(t *testing.T) {
	d := New(Config{StepClocked: true})
	submit(d, Instance1Base)

	polls := 0
	for d.Read(Instance1Base+regfile.RegControl)&regfile.CtrlDone == 0 {
		d.Tick()
		polls++
		if polls > 200 {
			t.Fatal("DONE never observed")
		}
	}
	if polls != 114 {
		t.Errorf("polled %d ticks, want 114", polls)
	}
	if got := d.Read(Instance1Base + regfile.RegStateOut); got != testOut[0] {
		t.Errorf("out[0] = %08x, want %08x", got, testOut[0])
	}
}

// Same job submitted to both instances on the same tick must retire on the
// same tick with identical results.
func TestInstancesIndependentAndEqual(t *testing.T) {
	d := New(Config{StepClocked: true})
	for _, base := range []uint32{Instance0Base, Instance1Base} {
		submit(d, base)
	}

	for i := 0; i < 114; i++ {
		c0 := d.Read(Instance0Base + regfile.RegControl)
		c1 := d.Read(Instance1Base + regfile.RegControl)
		if c0 != c1 {
			t.Fatalf("tick %d: control registers diverged: %08x vs %08x", i, c0, c1)
		}
		d.Tick()
	}
	for i := 0; i < 8; i++ {
		o0 := d.Read(Instance0Base + regfile.RegStateOut + uint32(i)*4)
		o1 := d.Read(Instance1Base + regfile.RegStateOut + uint32(i)*4)
		if o0 != o1 || o0 != testOut[i] {
			t.Errorf("out[%d]: instance0=%08x instance1=%08x want %08x", i, o0, o1, testOut[i])
		}
	}
}

// Writing one instance's registers must never disturb the other's.
func TestNoCrossInstanceState(t *testing.T) {
	d := New(Config{})
	submit(d, Instance0Base)
	before := d.Read(Instance0Base + regfile.RegStateOut)

	for i := 0; i < 16; i++ {
		d.Write(Instance1Base+regfile.RegMessage+uint32(i)*4, 0xffffffff)
	}
	d.Write(Instance1Base+regfile.RegControl, regfile.CtrlGo)

	if got := d.Read(Instance0Base + regfile.RegStateOut); got != before {
		t.Errorf("instance 0 output changed: %08x -> %08x", before, got)
	}
	if got := d.Read(Instance0Base + regfile.RegMessage); got != testBlock[0] {
		t.Errorf("instance 0 message changed: %08x", got)
	}
}

func TestOutOfRangeAccess(t *testing.T) {
	d := New(Config{})
	d.Write(0x400, 0xdeadbeef) // beyond instance 1
	if got := d.Read(0x400); got != 0 {
		t.Errorf("read past decode range = %08x, want 0", got)
	}
	if got := d.Read(0xfffffffc); got != 0 {
		t.Errorf("read at top of address space = %08x, want 0", got)
	}
}

func TestResetBothInstances(t *testing.T) {
	d := New(Config{})
	submit(d, Instance0Base)
	submit(d, Instance1Base)
	d.Reset()

	for i := 0; i < InstanceCount; i++ {
		base := Base(i)
		for off := uint32(0); off <= regfile.RegStatus; off += 4 {
			if got := d.Read(base + off); got != 0 {
				t.Errorf("instance %d read 0x%02x = %08x after reset", i, off, got)
			}
		}
	}
}
