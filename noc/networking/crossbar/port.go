package crossbar

import (
	"fmt"
	"log"

	"github.com/sarchlab/nocsim/noc/messaging"
	"github.com/sarchlab/nocsim/sim"
)

// A Port connects one processing element to the crossbar. The input buffer
// holds packets waiting to cross the switch and the output buffer holds
// packets delivered to the processing element.
type Port struct {
	sim.HookableBase

	name   string
	coord  messaging.Coord
	index  int
	engine sim.TimeTeller

	input  sim.Buffer
	output sim.Buffer

	inputWritten  *sim.Condition
	inputFreed    *sim.Condition
	outputWritten *sim.Condition
	outputFreed   *sim.Condition
}

func newPort(
	name string,
	coord messaging.Coord,
	index int,
	engine sim.TimeTeller,
	bufferSize int,
) *Port {
	portName := fmt.Sprintf("%s.Port[%d][%d]", name, coord.Row, coord.Col)

	return &Port{
		name:          portName,
		coord:         coord,
		index:         index,
		engine:        engine,
		input:         sim.NewBuffer(portName+".In", bufferSize),
		output:        sim.NewBuffer(portName+".Out", bufferSize),
		inputWritten:  sim.NewCondition(portName + ".InWritten"),
		inputFreed:    sim.NewCondition(portName + ".InFreed"),
		outputWritten: sim.NewCondition(portName + ".OutWritten"),
		outputFreed:   sim.NewCondition(portName + ".OutFreed"),
	}
}

// Name returns the name of the port.
func (p *Port) Name() string {
	return p.name
}

// Index returns the row-major index of the port.
func (p *Port) Index() int {
	return p.index
}

// Coord returns the address of the processing element on the port.
func (p *Port) Coord() messaging.Coord {
	return p.coord
}

// CanSend tells if the input buffer can take another packet.
func (p *Port) CanSend() bool {
	return p.input.CanPush()
}

// Send injects a packet into the crossbar. The caller must check CanSend
// first, and wait on SpaceFreed otherwise.
func (p *Port) Send(pkt *messaging.Packet) {
	if !p.input.CanPush() {
		log.Panicf("port %s: input buffer full", p.Name())
	}

	if pkt.Src != p.coord {
		log.Panicf("port %s: sending packet from %s", p.Name(), pkt.Src)
	}

	pkt.InjectTime = p.engine.CurrentTime()
	p.input.Push(pkt)

	if p.NumHooks() > 0 {
		p.InvokeHook(sim.HookCtx{
			Domain: p,
			Pos:    messaging.HookPosPacketInject,
			Item:   pkt,
		})
	}

	p.inputWritten.Notify()
}

// SpaceFreed is notified when a packet leaves the input buffer.
func (p *Port) SpaceFreed() *sim.Condition {
	return p.inputFreed
}

// PacketArrived is notified when a packet is delivered to the port.
func (p *Port) PacketArrived() *sim.Condition {
	return p.outputWritten
}

// Peek returns the first delivered packet without removing it, or nil.
func (p *Port) Peek() *messaging.Packet {
	item := p.output.Peek()
	if item == nil {
		return nil
	}

	return item.(*messaging.Packet)
}

// Retrieve removes and returns the first delivered packet, or nil.
func (p *Port) Retrieve() *messaging.Packet {
	item := p.output.Pop()
	if item == nil {
		return nil
	}

	p.outputFreed.Notify()

	return item.(*messaging.Packet)
}

// NumPending returns the number of packets waiting to cross the switch.
func (p *Port) NumPending() int {
	return p.input.Size()
}

// NumDelivered returns the number of packets waiting to be retrieved.
func (p *Port) NumDelivered() int {
	return p.output.Size()
}

// Buffers returns the input and the output buffer of the port.
func (p *Port) Buffers() []sim.Buffer {
	return []sim.Buffer{p.input, p.output}
}
