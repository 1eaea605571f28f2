// Package crossbar provides a single-stage packet switch that connects every
// processing element of a grid to every other one.
package crossbar

import (
	"github.com/sarchlab/nocsim/noc/messaging"
	"github.com/sarchlab/nocsim/noc/networking/arbitration"
	"github.com/sarchlab/nocsim/sim"
)

// Comp is a crossbar. It runs one arbitration round per clock tick and
// sleeps while no packet can move.
type Comp struct {
	sim.HookableBase

	name    string
	engine  sim.Engine
	freq    sim.Freq
	rows    int
	cols    int
	ports   []*Port
	arbiter arbitration.Arbiter
	process *sim.Process

	roundStarted bool
	lastRound    sim.VTimeInPs
	numRounds    uint64
	numExchanged uint64
}

// Name returns the name of the crossbar.
func (c *Comp) Name() string {
	return c.name
}

// Port returns the port of the processing element at the coordinate.
func (c *Comp) Port(coord messaging.Coord) *Port {
	return c.ports[c.indexOf(coord)]
}

// Ports returns all ports in row-major order.
func (c *Comp) Ports() []*Port {
	return c.ports
}

// Arbiter returns the arbiter that the crossbar uses.
func (c *Comp) Arbiter() arbitration.Arbiter {
	return c.arbiter
}

// NumExchanged returns the number of packets delivered so far.
func (c *Comp) NumExchanged() uint64 {
	return c.numExchanged
}

// NumRounds returns the number of arbitration rounds run so far.
func (c *Comp) NumRounds() uint64 {
	return c.numRounds
}

// NumInFlight returns the number of packets waiting in input buffers.
func (c *Comp) NumInFlight() int {
	n := 0
	for _, p := range c.ports {
		n += p.NumPending()
	}

	return n
}

func (c *Comp) indexOf(coord messaging.Coord) int {
	if !coord.InGrid(c.rows, c.cols) {
		panic("coordinate " + coord.String() + " is outside the grid")
	}

	return coord.Index(c.cols)
}

// NumInputs returns the number of input ports.
func (c *Comp) NumInputs() int {
	return len(c.ports)
}

// Head returns the packet at the front of an input buffer.
func (c *Comp) Head(input int) *messaging.Packet {
	item := c.ports[input].input.Peek()
	if item == nil {
		return nil
	}

	return item.(*messaging.Packet)
}

// CanDeliver tells if the head packet of the input can move this round.
func (c *Comp) CanDeliver(input int) bool {
	pkt := c.Head(input)
	if pkt == nil {
		return false
	}

	return c.ports[c.indexOf(pkt.Dst)].output.CanPush()
}

// Deliver moves the head packet of the input to its destination.
func (c *Comp) Deliver(input int) {
	src := c.ports[input]
	pkt := src.input.Pop().(*messaging.Packet)
	dst := c.ports[c.indexOf(pkt.Dst)]

	pkt.DeliverTime = c.engine.CurrentTime()
	dst.output.Push(pkt)
	c.numExchanged++

	if c.NumHooks() > 0 {
		c.InvokeHook(sim.HookCtx{
			Domain: c,
			Pos:    messaging.HookPosPacketDeliver,
			Item:   pkt,
		})
	}

	src.inputFreed.Notify()
	dst.outputWritten.Notify()
}

type arbitrationActivity struct {
	*Comp
}

func (a arbitrationActivity) Resume(now sim.VTimeInPs) (sim.Yield, error) {
	c := a.Comp

	if wait := c.untilRoundTime(now); wait > 0 {
		return sim.WaitFor(wait), nil
	}

	if c.NumInFlight() == 0 {
		return sim.WaitOn(c.inputConditions()...), nil
	}

	c.roundStarted = true
	c.lastRound = now
	c.numRounds++

	delivered := c.arbiter.Arbitrate(c)

	switch {
	case c.NumInFlight() == 0:
		return sim.WaitOn(c.inputConditions()...), nil
	case delivered == 0:
		return sim.WaitOn(c.blockedConditions()...), nil
	default:
		return sim.WaitFor(c.freq.Period()), nil
	}
}

// untilRoundTime returns how long to wait before the next round can run. A
// round runs on a tick and at most once per tick.
func (c *Comp) untilRoundTime(now sim.VTimeInPs) sim.VTimeInPs {
	target := c.freq.ThisTick(now)
	if c.roundStarted && target <= c.lastRound {
		target = c.lastRound + c.freq.Period()
	}

	return target - now
}

func (c *Comp) inputConditions() []*sim.Condition {
	conds := make([]*sim.Condition, 0, len(c.ports))
	for _, p := range c.ports {
		conds = append(conds, p.inputWritten)
	}

	return conds
}

func (c *Comp) blockedConditions() []*sim.Condition {
	conds := make([]*sim.Condition, 0, 2*len(c.ports))
	for _, p := range c.ports {
		conds = append(conds, p.inputWritten, p.outputFreed)
	}

	return conds
}
