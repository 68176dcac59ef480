// core/driver/clockedbus.go
package driver

// Clock is anything that can advance the accelerator by one step.
type Clock interface {
	Tick()
}

// ClockedBus adapts a step-clocked accelerator to the Bus surface by
// ticking the clock before each access, the way a cycle-stepped
// co-simulation harness interleaves bus transactions with hardware time.
// Register reads themselves stay pure; time passes between transactions,
// so the driver's DONE spin-wait makes progress one step per poll.
type ClockedBus struct {
	Bus   Bus
	Clock Clock
}

func (c ClockedBus) Read(addr uint32) uint32 {
	c.Clock.Tick()
	return c.Bus.Read(addr)
}

func (c ClockedBus) Write(addr, v uint32) {
	c.Clock.Tick()
	c.Bus.Write(addr, v)
}
