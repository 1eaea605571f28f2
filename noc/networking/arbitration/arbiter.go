// Package arbitration provides the policies that decide which packets a
// crossbar moves in an arbitration round.
package arbitration

import (
	"errors"
	"fmt"

	"github.com/sarchlab/nocsim/noc/messaging"
)

// A Switchboard is the view that an arbiter has of a switch during one
// round.
type Switchboard interface {
	// NumInputs returns the number of input ports.
	NumInputs() int

	// Head returns the packet at the front of the input, or nil.
	Head(input int) *messaging.Packet

	// CanDeliver tells if the input holds a packet and the packet's
	// destination port has free space.
	CanDeliver(input int) bool

	// Deliver moves the head packet of the input to its destination.
	Deliver(input int)
}

// An Arbiter runs one arbitration round and returns the number of delivered
// packets.
type Arbiter interface {
	Arbitrate(sb Switchboard) int
}

// Policy names an arbitration policy.
type Policy string

// The supported arbitration policies.
const (
	PolicyFull       Policy = "Full"
	PolicyRoundRobin Policy = "RoundRobin"
	PolicyPriority   Policy = "Priority"
)

// ErrUnknownPolicy is returned for policy names that are not supported.
var ErrUnknownPolicy = errors.New("unknown arbitration policy")

// ParsePolicy converts a policy name.
func ParsePolicy(name string) (Policy, error) {
	switch p := Policy(name); p {
	case PolicyFull, PolicyRoundRobin, PolicyPriority:
		return p, nil
	default:
		return "", fmt.Errorf("%w %q", ErrUnknownPolicy, name)
	}
}

// NewArbiter creates an arbiter that implements the policy.
func NewArbiter(p Policy) (Arbiter, error) {
	switch p {
	case PolicyFull:
		return NewFullArbiter(), nil
	case PolicyRoundRobin:
		return NewRoundRobinArbiter(), nil
	case PolicyPriority:
		return NewPriorityArbiter(), nil
	default:
		return nil, fmt.Errorf("%w %q", ErrUnknownPolicy, string(p))
	}
}
