package system

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/sarchlab/nocsim/mapping"
	"github.com/sarchlab/nocsim/sim"
)

// mapper hands released instances to processing elements in release order.
// An instance whose processing element has a busy inbox goes to the back of
// the queue. Both outcomes cost one mapping step.
type mapper struct {
	*Comp
}

func (m mapper) Name() string {
	return m.Comp.name + ".Mapper"
}

func (m mapper) Resume(now sim.VTimeInPs) (sim.Yield, error) {
	if len(m.queue) == 0 {
		return sim.WaitOn(m.released), nil
	}

	inst := m.queue[0]
	call := inst.Call
	task := m.graph.TaskOf(call)

	coord := m.heuristic.MapRunnable(now, mapping.RunnableRequest{
		ClassID:   call.ClassID,
		ClassName: call.ClassName,
		TaskName:  task.Name,
		TaskID:    task.ID,
		CallIndex: call.IndexInTask,
		PeriodID:  inst.PeriodID,
	})
	if !m.grid.Contains(coord) {
		return sim.Yield{}, fmt.Errorf("%w: runnable %s at %s",
			ErrOutOfGrid, inst, coord)
	}

	m.queue = m.queue[1:]

	core := m.core(coord)
	if !core.CanAccept() {
		m.queue = append(m.queue, inst)
		m.numRotations++

		return sim.WaitFor(m.mapCost), nil
	}

	inst.MappingTime = now
	m.numMapped++
	core.Accept(inst)

	sim.Trace("mapped", "time", now, "instance", inst.String(), "pe", coord)
	m.invoke(HookPosMapped, inst, coord)

	return sim.WaitFor(m.mapCost), nil
}

// iterationReleaser maps the labels once, then releases the independent
// runnables at start and at the beginning of every iteration.
type iterationReleaser struct {
	*Comp
	labelsMapped bool
}

func (r *iterationReleaser) Name() string {
	return r.Comp.name + ".IterationReleaser"
}

func (r *iterationReleaser) Resume(now sim.VTimeInPs) (sim.Yield, error) {
	if !r.labelsMapped {
		r.labelsMapped = true
		if err := r.mapLabels(now); err != nil {
			return sim.Yield{}, err
		}
	}

	if r.stopReason != StopNotRequested {
		return sim.Exit(), nil
	}

	if err := r.releaseIndependents(now); err != nil {
		return sim.Yield{}, err
	}

	return sim.WaitOn(r.iteration), nil
}

// periodicReleaser releases periodic and sporadic runnables. Each call
// counts down the time to its next release, starting from its offset.
type periodicReleaser struct {
	*Comp
	remaining []sim.VTimeInPs
	started   bool
}

func (r *periodicReleaser) Name() string {
	return r.Comp.name + ".PeriodicReleaser"
}

func (r *periodicReleaser) Resume(now sim.VTimeInPs) (sim.Yield, error) {
	calls := r.graph.RecurringCalls()

	if !r.started {
		r.started = true
		r.remaining = make([]sim.VTimeInPs, len(calls))
		for i, id := range calls {
			r.remaining[i] = r.graph.TaskOf(r.graph.Call(id)).Activation.Offset
		}
	}

	if r.simulationEnd == 0 && r.modeEnd() == 0 &&
		r.hyperperiod > 0 && now >= r.hyperperiod {
		r.requestStop(now, StopHyperperiodElapsed)
		return sim.Exit(), nil
	}

	if r.simulationEnd != 0 && now >= r.simulationEnd {
		return sim.Exit(), nil
	}

	if r.stopReason != StopNotRequested || len(calls) == 0 {
		return sim.Exit(), nil
	}

	wait := sim.VTimeInPs(math.MaxUint64)
	for i, id := range calls {
		if r.remaining[i] == 0 {
			call := r.graph.Call(id)
			r.release(now, call)
			r.remaining[i] = r.graph.TaskOf(call).Activation.Interval()
		}

		wait = min(wait, r.remaining[i])
	}

	for i := range r.remaining {
		r.remaining[i] -= wait
	}

	if r.simulationEnd != 0 {
		wait = min(wait, r.simulationEnd-now)
	}

	return sim.WaitFor(wait), nil
}

// modeSwitcher walks the mode schedule. Reaching the last entry stops the
// simulation.
type modeSwitcher struct {
	*Comp
	next int
}

func (s *modeSwitcher) Name() string {
	return s.Comp.name + ".ModeSwitcher"
}

func (s *modeSwitcher) Resume(now sim.VTimeInPs) (sim.Yield, error) {
	if s.stopReason != StopNotRequested {
		return sim.Exit(), nil
	}

	mode := s.modes[s.next]
	if now < mode.Time {
		return sim.WaitFor(mode.Time - now), nil
	}

	if mode.Name != ModeEnd {
		if err := s.switchMode(now, mode); err != nil {
			return sim.Yield{}, err
		}
	}

	s.next++
	if s.next < len(s.modes) {
		return sim.WaitFor(s.modes[s.next].Time - now), nil
	}

	s.requestStop(now, StopModeScheduleEnded)

	return sim.Exit(), nil
}

func (s *modeSwitcher) switchMode(now sim.VTimeInPs, mode Mode) error {
	if err := s.heuristic.SwitchMode(now, mode.File, mode.Name); err != nil {
		return fmt.Errorf("switching to mode %s: %w", mode.Name, err)
	}

	if err := s.mapLabels(now); err != nil {
		return err
	}

	next, err := s.loader.Load(mode.File)
	if err != nil {
		return &DataError{File: mode.File, Name: mode.Name, Reason: err.Error()}
	}

	if err := next.Validate(); err != nil {
		return &DataError{File: mode.File, Name: mode.Name, Reason: err.Error()}
	}

	if err := s.graph.PatchBounds(next); err != nil {
		return &DataError{File: mode.File, Name: mode.Name, Reason: err.Error()}
	}

	slog.Info("mode switched", "time", now.String(), "mode", mode.Name)
	s.invoke(HookPosModeSwitched, mode, nil)

	return nil
}

// durationLimiter stops the simulation at the explicit end time.
type durationLimiter struct {
	*Comp
}

func (d durationLimiter) Name() string {
	return d.Comp.name + ".DurationLimiter"
}

func (d durationLimiter) Resume(now sim.VTimeInPs) (sim.Yield, error) {
	if now < d.simulationEnd {
		return sim.WaitFor(d.simulationEnd - now), nil
	}

	d.requestStop(now, StopDurationReached)

	return sim.Exit(), nil
}

// stopper ends the run once a stop is requested. In periodic mode without
// an explicit end, it first waits for every mapped instance to complete.
type stopper struct {
	*Comp
}

func (s stopper) Name() string {
	return s.Comp.name + ".Stopper"
}

func (s stopper) Resume(now sim.VTimeInPs) (sim.Yield, error) {
	if s.stopReason == StopNotRequested {
		return sim.WaitOn(s.stopCond), nil
	}

	if s.drainsOnStop() && s.numCompleted < s.numMapped {
		return sim.WaitOn(s.completed), nil
	}

	s.finished = true
	s.stopTime = now
	s.engine.Stop()

	slog.Info("simulation stopped",
		"time", now.String(),
		"reason", s.stopReason.String(),
		"completed", s.numCompleted)
	s.invoke(HookPosStopped, s.stopReason, nil)

	return sim.Exit(), nil
}
