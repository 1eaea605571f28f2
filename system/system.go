// Package system releases runnable instances, maps them onto processing
// elements and decides when the simulation ends.
package system

import (
	"fmt"
	"log/slog"

	"github.com/sarchlab/nocsim/app"
	"github.com/sarchlab/nocsim/mapping"
	"github.com/sarchlab/nocsim/noc/messaging"
	"github.com/sarchlab/nocsim/pe"
	"github.com/sarchlab/nocsim/sim"
)

// A Core is a processing element as seen by the release manager.
type Core interface {
	CanAccept() bool
	Accept(inst *app.Instance)
}

// Comp is the release manager.
type Comp struct {
	sim.HookableBase

	name      string
	engine    sim.Engine
	graph     *app.Graph
	loader    app.Loader
	heuristic mapping.Heuristic
	grid      mapping.Grid
	cores     []Core
	labels    *pe.LabelTable
	ids       sim.IDGenerator

	ignorePeriodics bool
	iterations      int
	simulationEnd   sim.VTimeInPs
	modes           []Mode
	mapCost         sim.VTimeInPs
	hyperperiod     sim.VTimeInPs

	queue     []*app.Instance
	released  *sim.Condition
	iteration *sim.Condition
	completed *sim.Condition
	stopCond  *sim.Condition

	numReleased  uint64
	numMapped    uint64
	numCompleted uint64
	numRotations uint64

	stopReason StopReason
	stopTime   sim.VTimeInPs
	finished   bool
}

// Name returns the name of the release manager.
func (c *Comp) Name() string {
	return c.name
}

// NumReleased returns the number of released instances.
func (c *Comp) NumReleased() uint64 {
	return c.numReleased
}

// NumMapped returns the number of instances handed to processing elements.
func (c *Comp) NumMapped() uint64 {
	return c.numMapped
}

// NumCompleted returns the number of completed instances.
func (c *Comp) NumCompleted() uint64 {
	return c.numCompleted
}

// NumRotations returns how many times the mapper found the chosen inbox
// busy.
func (c *Comp) NumRotations() uint64 {
	return c.numRotations
}

// NumPending returns the number of released instances not mapped yet.
func (c *Comp) NumPending() int {
	return len(c.queue)
}

// RunnablesPerIteration returns the number of instances in one iteration
// of the application.
func (c *Comp) RunnablesPerIteration() int {
	return len(c.graph.Calls)
}

// Iterations returns the number of full iterations completed.
func (c *Comp) Iterations() uint64 {
	return c.numCompleted / uint64(c.RunnablesPerIteration())
}

// Hyperperiod returns the least common multiple of the periods.
func (c *Comp) Hyperperiod() sim.VTimeInPs {
	return c.hyperperiod
}

// StopReason returns why the simulation stopped.
func (c *Comp) StopReason() StopReason {
	return c.stopReason
}

// Finished tells if the stop took effect.
func (c *Comp) Finished() bool {
	return c.finished
}

// StopTime returns the time at which the simulation stopped.
func (c *Comp) StopTime() sim.VTimeInPs {
	return c.stopTime
}

// modeEnd returns the time of the last mode entry, or 0 without schedule.
func (c *Comp) modeEnd() sim.VTimeInPs {
	if len(c.modes) == 0 {
		return 0
	}

	return c.modes[len(c.modes)-1].Time
}

// countsIterations tells if the iteration target ends the simulation.
func (c *Comp) countsIterations() bool {
	return c.simulationEnd == 0 && c.modeEnd() == 0 &&
		(c.ignorePeriodics || c.hyperperiod == 0)
}

// drainsOnStop tells if a stop waits for the mapped instances to complete.
func (c *Comp) drainsOnStop() bool {
	return c.simulationEnd == 0 && !c.ignorePeriodics
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

func (c *Comp) release(now sim.VTimeInPs, call *app.RunnableCall) {
	inst := app.NewInstance(c.ids.Generate(), call, now)

	c.queue = append(c.queue, inst)
	c.numReleased++

	sim.Trace("released", "time", now, "instance", inst.String())
	c.invoke(HookPosReleased, inst, nil)
	c.released.Notify()
}

func (c *Comp) releaseIndependents(now sim.VTimeInPs) error {
	var calls []app.CallID
	if c.ignorePeriodics {
		calls = c.graph.IndependentCalls()
	} else {
		calls = c.graph.IndependentNonRecurringCalls()
	}

	if c.ignorePeriodics && len(calls) == 0 {
		return &DataError{
			Name:   c.graph.Name,
			Reason: "no independent runnable to start",
		}
	}

	for _, id := range calls {
		c.release(now, c.graph.Call(id))
	}

	return nil
}

// mapLabels asks the heuristic for the home of every label.
func (c *Comp) mapLabels(now sim.VTimeInPs) error {
	for _, lbl := range c.graph.Labels {
		home := c.heuristic.MapLabel(lbl.ID, now, lbl.Name)
		if !c.grid.Contains(home) {
			return fmt.Errorf("%w: label %s at %s", ErrOutOfGrid, lbl.Name, home)
		}

		c.labels.Place(lbl.ID, home)
		c.invoke(HookPosLabelMapped, lbl, home)
	}

	return nil
}

func (c *Comp) core(coord messaging.Coord) Core {
	return c.cores[coord.Index(c.grid.Cols)]
}

// RunnableCompleted counts the completion, starts a new iteration when one
// is over and releases the dependents whose predecessors all completed.
func (c *Comp) RunnableCompleted(now sim.VTimeInPs, inst *app.Instance) {
	c.numCompleted++
	c.completed.Notify()

	perIteration := uint64(c.RunnablesPerIteration())
	if c.numCompleted%perIteration == 0 {
		c.invoke(HookPosIterationDone, c.numCompleted/perIteration, nil)
	}

	if c.countsIterations() {
		if c.numCompleted/perIteration >= uint64(c.iterations) {
			c.requestStop(now, StopIterationsReached)
			return
		}

		if c.numCompleted%perIteration == 0 {
			c.iteration.Notify()
		}
	}

	for _, id := range inst.Call.Successors {
		succ := c.graph.Call(id)
		if succ.SatisfyOne() {
			c.release(now, succ)
		}
	}
}

func (c *Comp) requestStop(now sim.VTimeInPs, reason StopReason) {
	if c.stopReason != StopNotRequested {
		return
	}

	c.stopReason = reason
	slog.Info("stop requested",
		"time", now.String(),
		"reason", reason.String(),
		"completed", c.numCompleted,
		"mapped", c.numMapped)

	c.stopCond.Notify()
}
