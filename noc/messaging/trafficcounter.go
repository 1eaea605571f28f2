package messaging

import "github.com/sarchlab/nocsim/sim"

// HookPosPacketDeliver marks when a packet is moved to its destination port.
var HookPosPacketDeliver = &sim.HookPos{Name: "Packet Deliver"}

// HookPosPacketInject marks when a packet enters the network.
var HookPosPacketInject = &sim.HookPos{Name: "Packet Inject"}

// A TrafficCounter counts the packets and bytes delivered by the network.
type TrafficCounter struct {
	TotalPackets uint64
	TotalData    uint64
	ByKind       map[PacketKind]uint64
}

// NewTrafficCounter creates a zeroed TrafficCounter.
func NewTrafficCounter() *TrafficCounter {
	return &TrafficCounter{ByKind: make(map[PacketKind]uint64)}
}

// Func adds the delivered traffic to the counter
func (c *TrafficCounter) Func(ctx sim.HookCtx) {
	if ctx.Pos != HookPosPacketDeliver {
		return
	}

	pkt := ctx.Item.(*Packet)
	c.TotalPackets++
	c.TotalData += uint64(pkt.Size)
	c.ByKind[pkt.Kind]++
}
