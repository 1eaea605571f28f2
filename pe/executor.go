package pe

import (
	"github.com/sarchlab/nocsim/app"
	"github.com/sarchlab/nocsim/noc/messaging"
	"github.com/sarchlab/nocsim/sim"
)

// executor runs the instances of the ready queue. It only switches between
// instances, and only admits new ones, between two instructions.
type executor struct {
	*Comp
	stepper

	admitting  *app.Instance
	current    *app.Instance
	instrIndex int
	blocked    bool
	inProgress bool
}

func (x *executor) Name() string {
	return x.Comp.name + ".Executor"
}

func (x *executor) Resume(now sim.VTimeInPs) (sim.Yield, error) {
	for {
		if y, suspended := x.run(); suspended {
			return y, nil
		}

		admitted := x.admitting != nil
		if admitted {
			x.admitting.CoreReceiveTime = now
			x.invoke(HookPosAdmitted, x.admitting, nil)
			x.admitting = nil
		}

		if x.inProgress {
			x.inProgress = false
			if err := x.finishInstruction(now); err != nil {
				return sim.Yield{}, err
			}
		}

		// At most one admission per instruction boundary. A runnable mapped
		// during the admission waits for the next boundary.
		if x.inbox != nil && !admitted {
			x.admit()
			continue
		}

		inst := x.ready.front()
		if inst == nil {
			return sim.WaitOn(x.newWork), nil
		}

		if err := x.startInstruction(now, inst); err != nil {
			return sim.Yield{}, err
		}
	}
}

func (x *executor) admit() {
	inst := x.inbox
	x.inbox = nil

	x.stats.Admitted++
	x.makeReady(inst)
	x.admitting = inst
	x.push(step{cost: x.timing.AdmissionCost})
}

func (x *executor) startInstruction(now sim.VTimeInPs, inst *app.Instance) error {
	idx := inst.NextInstr
	inst.NextInstr++

	x.current = inst
	x.instrIndex = idx
	x.blocked = false
	x.inProgress = true

	if idx == 0 {
		inst.StartTime = now
		inst.Started = true
	}

	instructions := inst.Call.Instructions
	if idx >= len(instructions) {
		return nil
	}

	inst.State = app.StateRunning

	switch in := instructions[idx].(type) {
	case *app.Constant:
		x.compute(inst, idx, in.Kind(), int64(in.Cycles), x.timing.cycles(in.Cycles))
	case *app.Deviation:
		n := x.sampler.Uniform(in.Lower, in.Upper)
		x.compute(inst, idx, in.Kind(), n, x.timing.cycles(float64(n)))
	case *app.LabelAccess:
		return x.accessLabel(inst, idx, in)
	default:
		return x.protocolError(inst, "unknown instruction %T", in)
	}

	return nil
}

func (x *executor) compute(
	inst *app.Instance,
	idx int,
	kind app.InstructionKind,
	cycles int64,
	d sim.VTimeInPs,
) {
	x.stats.ComputationTime += d
	x.push(step{cost: d})

	x.invoke(HookPosInstruction, inst, InstructionDetail{
		Index:    idx,
		Kind:     kind.String(),
		Cycles:   cycles,
		Duration: d,
	})
}

func (x *executor) accessLabel(
	inst *app.Instance,
	idx int,
	in *app.LabelAccess,
) error {
	home, ok := x.labels.Home(in.Label)
	if !ok {
		return x.protocolError(inst, "label %d has no home", in.Label)
	}

	lbl := x.graph.Label(in.Label)
	detail := InstructionDetail{Index: idx, Kind: in.Kind().String()}

	switch {
	case home == x.coord && in.Write:
		d := sim.VTimeInPs(lbl.SizeBytes()) * x.timing.LocalWriteCost
		x.stats.LocalWrites++
		x.stats.LocalWriteBytes += uint64(lbl.SizeBytes())
		x.push(step{cost: d})
		detail.Duration = d
	case home == x.coord:
		d := sim.VTimeInPs(lbl.SizeBytes()) * x.timing.LocalReadCost
		x.stats.LocalReads++
		x.stats.LocalReadBytes += uint64(lbl.SizeBytes())
		x.push(step{cost: d})
		detail.Duration = d
	case in.Write:
		x.remoteWrite(inst, lbl, home)
		detail.Remote = true
	default:
		if err := x.remoteRead(inst, lbl, home); err != nil {
			return err
		}

		detail.Remote = true
	}

	x.invoke(HookPosInstruction, inst, detail)

	return nil
}

func (x *executor) remoteWrite(
	inst *app.Instance,
	lbl *app.Label,
	home messaging.Coord,
) {
	n := x.fragments(lbl)
	tx := x.correlationIDs.Next()

	x.stats.RemoteWrites++
	x.stats.RemoteWriteBytes += uint64(lbl.SizeBytes())

	for i := 0; i < n; i++ {
		pkt := x.newPacket(messaging.WriteRequest, home, inst.Call.Priority)
		pkt.CorrelationID = tx
		pkt.FragmentIndex = i
		pkt.LabelID = int(lbl.ID)

		if i == 0 {
			pkt.FragmentCount = n
		}

		x.push(step{packet: pkt, cost: x.timing.RemoteWriteCost})
	}
}

func (x *executor) remoteRead(
	inst *app.Instance,
	lbl *app.Label,
	home messaging.Coord,
) error {
	n := x.fragments(lbl)

	pkt := x.newPacket(messaging.ReadRequest, home, inst.Call.Priority)
	pkt.CorrelationID = x.correlationIDs.Next()
	pkt.FragmentCount = n
	pkt.LabelID = int(lbl.ID)

	x.stats.RemoteReads++
	x.stats.RemoteReadBytes += uint64(lbl.SizeBytes())

	x.blockedReads[peerKey{peer: home, id: pkt.CorrelationID}] = &blockedRead{
		inst:     inst,
		expected: n,
	}

	if !x.ready.remove(inst) {
		return x.protocolError(inst, "blocking an instance that is not ready")
	}

	inst.State = app.StateBlocked
	x.blocked = true
	x.invoke(HookPosBlocked, inst, pkt)

	x.push(step{packet: pkt, cost: x.timing.readRequestCost()})

	return nil
}

func (x *executor) finishInstruction(now sim.VTimeInPs) error {
	inst := x.current
	x.current = nil

	if x.blocked {
		return nil
	}

	n := len(inst.Call.Instructions)
	if x.instrIndex < n-1 && n != 0 {
		inst.State = app.StateReady
		return nil
	}

	return x.complete(now, inst)
}

func (x *executor) complete(now sim.VTimeInPs, inst *app.Instance) error {
	inst.CompletionTime = now
	inst.State = app.StateCompleted

	if !x.ready.remove(inst) {
		return x.protocolError(inst, "completed instance not found in ready queue")
	}

	x.stats.Completed++
	x.invoke(HookPosCompleted, inst, nil)

	if inst.MissedDeadline() {
		x.stats.DeadlineMisses++
		x.invoke(HookPosDeadlineMissed, inst, nil)
	}

	if x.sink != nil {
		x.sink.RunnableCompleted(now, inst)
	}

	return nil
}
