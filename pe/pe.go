// Package pe models the processing elements of the platform. Each one runs
// the runnable instances mapped to it instruction by instruction and talks
// to the other processing elements through the crossbar.
package pe

import (
	"fmt"
	"log"

	"github.com/sarchlab/nocsim/app"
	"github.com/sarchlab/nocsim/noc/messaging"
	"github.com/sarchlab/nocsim/noc/networking/crossbar"
	"github.com/sarchlab/nocsim/sim"
)

// Scheduling selects the key of the ready queue.
type Scheduling int

// The scheduling policies.
const (
	// FCFS runs the instance mapped first.
	FCFS Scheduling = iota

	// PriorityScheduling runs the instance with the lowest priority value.
	PriorityScheduling
)

func (s Scheduling) String() string {
	if s == PriorityScheduling {
		return "prio"
	}

	return "fcfs"
}

// ParseScheduling converts "fcfs" or "prio".
func ParseScheduling(name string) (Scheduling, error) {
	switch name {
	case "fcfs":
		return FCFS, nil
	case "prio":
		return PriorityScheduling, nil
	default:
		return FCFS, fmt.Errorf("unknown scheduling policy %q", name)
	}
}

// A CompletionSink is told about every completed instance.
type CompletionSink interface {
	RunnableCompleted(now sim.VTimeInPs, inst *app.Instance)
}

// Stats are the counters of a processing element.
type Stats struct {
	Admitted         uint64
	Completed        uint64
	DeadlineMisses   uint64
	LocalReads       uint64
	LocalReadBytes   uint64
	LocalWrites      uint64
	LocalWriteBytes  uint64
	RemoteReads      uint64
	RemoteReadBytes  uint64
	RemoteWrites     uint64
	RemoteWriteBytes uint64
	ReadsServed      uint64
	WritesReceived   uint64
	PacketsSent      uint64
	PacketsReceived  uint64
	ComputationTime  sim.VTimeInPs
}

type peerKey struct {
	peer messaging.Coord
	id   uint64
}

type blockedRead struct {
	inst     *app.Instance
	expected int
	received int
}

type writeTx struct {
	expected int
	received int
}

// Comp is a processing element.
type Comp struct {
	sim.HookableBase

	name   string
	coord  messaging.Coord
	engine sim.Engine
	port   *crossbar.Port
	graph  *app.Graph
	labels *LabelTable
	timing Timing

	sampler        Sampler
	packetIDs      sim.IDGenerator
	correlationIDs *sim.Sequence
	sink           CompletionSink

	inbox        *app.Instance
	newWork      *sim.Condition
	ready        readyQueue
	blockedReads map[peerKey]*blockedRead
	writeTxs     map[peerKey]*writeTx
	stats        Stats

	responses *responder

	executor  *sim.Process
	receiver  *sim.Process
	responder *sim.Process
}

// Name returns the name of the processing element.
func (c *Comp) Name() string {
	return c.name
}

// Coord returns the address of the processing element.
func (c *Comp) Coord() messaging.Coord {
	return c.coord
}

// Stats returns a copy of the counters.
func (c *Comp) Stats() Stats {
	return c.stats
}

// SetCompletionSink sets who is told about completed instances.
func (c *Comp) SetCompletionSink(s CompletionSink) {
	c.sink = s
}

// CanAccept tells if the single-slot inbox is free.
func (c *Comp) CanAccept() bool {
	return c.inbox == nil
}

// Accept hands a mapped instance to the processing element. The instance
// enters the ready queue at the next instruction boundary.
func (c *Comp) Accept(inst *app.Instance) {
	if c.inbox != nil {
		log.Panicf("%s: inbox is full", c.name)
	}

	c.inbox = inst
	c.newWork.Notify()
}

// NumReady returns the number of ready or running instances.
func (c *Comp) NumReady() int {
	return c.ready.len()
}

// ReadyInstances returns the ready queue, front first.
func (c *Comp) ReadyInstances() []*app.Instance {
	return c.ready.instances()
}

// NumBlocked returns the number of instances waiting for a remote read.
func (c *Comp) NumBlocked() int {
	return len(c.blockedReads)
}

// NumOpenWrites returns the number of incoming writes not fully received.
func (c *Comp) NumOpenWrites() int {
	return len(c.writeTxs)
}

// Idle tells if the processing element has nothing to run.
func (c *Comp) Idle() bool {
	return c.inbox == nil && c.ready.len() == 0 && len(c.blockedReads) == 0
}

func (c *Comp) key(inst *app.Instance) int64 {
	if c.timing.Scheduling == PriorityScheduling {
		return int64(inst.Call.Priority)
	}

	return int64(inst.MappingTime)
}

func (c *Comp) makeReady(inst *app.Instance) {
	inst.State = app.StateReady
	c.ready.insert(c.key(inst), inst)
}

func (c *Comp) protocolError(inst *app.Instance, format string, args ...any) error {
	e := &ProtocolError{
		PE:     c.name,
		Reason: fmt.Sprintf(format, args...),
	}

	if inst != nil {
		e.Instance = inst.String()
	}

	return e
}

func (c *Comp) invoke(pos *sim.HookPos, item, detail any) {
	if c.NumHooks() == 0 {
		return
	}

	c.InvokeHook(sim.HookCtx{
		Domain: c,
		Pos:    pos,
		Item:   item,
		Detail: detail,
	})
}

func (c *Comp) newPacket(
	kind messaging.PacketKind,
	dst messaging.Coord,
	priority int,
) *messaging.Packet {
	return &messaging.Packet{
		ID:       c.packetIDs.Generate(),
		Src:      c.coord,
		Dst:      dst,
		Kind:     kind,
		Priority: priority,
		Size:     c.timing.FragmentBytes,
	}
}

// fragments returns the number of transport units needed to carry a label.
// Empty labels still take one unit.
func (c *Comp) fragments(label *app.Label) int {
	unitBits := 8 * c.timing.FragmentBytes
	n := (label.SizeBits + unitBits - 1) / unitBits

	return max(n, 1)
}
