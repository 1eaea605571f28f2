package pe

import (
	"github.com/sarchlab/nocsim/noc/messaging"
	"github.com/sarchlab/nocsim/sim"
)

// receiver takes packets out of the network and serves them: it counts
// the fragments of incoming writes, queues the answers to read requests and
// wakes up the instances whose reads are complete. It never sends, so the
// input buffer keeps draining while responses wait for room.
type receiver struct {
	*Comp
}

func (r *receiver) Name() string {
	return r.Comp.name + ".Receiver"
}

func (r *receiver) Resume(_ sim.VTimeInPs) (sim.Yield, error) {
	for {
		pkt := r.Comp.port.Retrieve()
		if pkt == nil {
			return sim.WaitOn(r.Comp.port.PacketArrived()), nil
		}

		r.stats.PacketsReceived++
		r.invoke(HookPosPacketReceived, pkt, nil)

		if err := r.handle(pkt); err != nil {
			return sim.Yield{}, err
		}
	}
}

func (r *receiver) handle(pkt *messaging.Packet) error {
	if pkt.Dst != r.coord {
		return r.protocolError(nil, "received packet %s for %s", pkt, pkt.Dst)
	}

	switch pkt.Kind {
	case messaging.WriteRequest:
		return r.handleWriteFragment(pkt)
	case messaging.ReadRequest:
		r.handleReadRequest(pkt)
		return nil
	case messaging.ReadResponse:
		return r.handleReadResponse(pkt)
	default:
		return r.protocolError(nil, "unknown packet kind %s", pkt.Kind)
	}
}

// handleWriteFragment accepts fragments in any order. The transaction is
// complete once the count carried by fragment 0 is reached.
func (r *receiver) handleWriteFragment(pkt *messaging.Packet) error {
	key := peerKey{peer: pkt.Src, id: pkt.CorrelationID}

	tx, ok := r.writeTxs[key]
	if !ok {
		tx = &writeTx{}
		r.writeTxs[key] = tx
	}

	tx.received++

	if pkt.FragmentIndex == 0 {
		if pkt.FragmentCount <= 0 {
			return r.protocolError(nil,
				"write %d from %s declares %d fragments",
				pkt.CorrelationID, pkt.Src, pkt.FragmentCount)
		}

		tx.expected = pkt.FragmentCount
	}

	if tx.expected == 0 {
		return nil
	}

	if tx.received > tx.expected {
		return r.protocolError(nil,
			"write %d from %s received %d of %d fragments",
			pkt.CorrelationID, pkt.Src, tx.received, tx.expected)
	}

	if tx.received == tx.expected {
		delete(r.writeTxs, key)
		r.stats.WritesReceived++
		r.invoke(HookPosWriteCompleted, pkt, nil)
	}

	return nil
}

func (r *receiver) handleReadRequest(req *messaging.Packet) {
	r.stats.ReadsServed++

	for i := 0; i < req.FragmentCount; i++ {
		rsp := r.newPacket(messaging.ReadResponse, req.Src, req.Priority)
		rsp.CorrelationID = req.CorrelationID
		rsp.FragmentIndex = i
		rsp.FragmentCount = req.FragmentCount
		rsp.LabelID = req.LabelID

		r.responses.push(step{wait: r.timing.RemoteReadCost, packet: rsp})
	}

	r.responses.pending.Notify()
}

func (r *receiver) handleReadResponse(pkt *messaging.Packet) error {
	key := peerKey{peer: pkt.Src, id: pkt.CorrelationID}

	b, ok := r.blockedReads[key]
	if !ok {
		return r.protocolError(nil,
			"read response %d from %s matches no outstanding read",
			pkt.CorrelationID, pkt.Src)
	}

	b.received++
	if b.received < b.expected {
		return nil
	}

	delete(r.blockedReads, key)
	r.makeReady(b.inst)
	r.invoke(HookPosUnblocked, b.inst, pkt)
	r.newWork.Notify()

	return nil
}

// responder sends the responses queued by the receiver, one fragment per
// read cost.
type responder struct {
	*Comp
	stepper

	pending *sim.Condition
}

func (r *responder) Name() string {
	return r.Comp.name + ".Responder"
}

func (r *responder) Resume(_ sim.VTimeInPs) (sim.Yield, error) {
	if y, suspended := r.run(); suspended {
		return y, nil
	}

	return sim.WaitOn(r.pending), nil
}
