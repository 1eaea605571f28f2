package sim

import (
	"fmt"
	"log"
)

// An Activity is a piece of simulated behavior. The engine calls Resume when
// the activity is due; the activity does its work for the current instant and
// yields to tell when it wants to run again.
type Activity interface {
	Name() string
	Resume(now VTimeInPs) (Yield, error)
}

type yieldKind int

const (
	yieldWait yieldKind = iota
	yieldCondition
	yieldExit
)

// A Yield is the token an activity hands back to the engine when it
// suspends.
type Yield struct {
	kind  yieldKind
	delay VTimeInPs
	conds []*Condition
}

// WaitFor suspends the activity for the given duration. A zero duration
// resumes the activity at the current time after the events already
// scheduled for it.
func WaitFor(d VTimeInPs) Yield {
	return Yield{kind: yieldWait, delay: d}
}

// WaitOn suspends the activity until any of the conditions is notified.
func WaitOn(conds ...*Condition) Yield {
	if len(conds) == 0 {
		log.Panic("waiting on no condition")
	}

	return Yield{kind: yieldCondition, conds: conds}
}

// Exit ends the activity.
func Exit() Yield {
	return Yield{kind: yieldExit}
}

// HookPosProcessResume marks when a process is resumed.
var HookPosProcessResume = &HookPos{Name: "ProcessResume"}

// A Process drives an Activity on an Engine.
type Process struct {
	HookableBase

	activity  Activity
	engine    Engine
	waitingOn []*Condition
	scheduled bool
	finished  bool
}

type resumeEvent struct {
	*EventBase
}

// Spawn creates a process for the activity. The activity is first resumed at
// the current time of the engine.
func Spawn(engine Engine, activity Activity) *Process {
	p := &Process{
		activity: activity,
		engine:   engine,
	}

	p.scheduleAt(engine.CurrentTime())

	return p
}

// Name returns the name of the activity.
func (p *Process) Name() string {
	return p.activity.Name()
}

// Finished tells if the activity has exited or failed.
func (p *Process) Finished() bool {
	return p.finished
}

// Waiting tells if the process is waiting on any condition.
func (p *Process) Waiting() bool {
	return len(p.waitingOn) > 0
}

// Handle resumes the activity.
func (p *Process) Handle(e Event) error {
	p.scheduled = false
	if p.finished {
		return nil
	}

	now := e.Time()

	if p.NumHooks() > 0 {
		p.InvokeHook(HookCtx{
			Domain: p,
			Pos:    HookPosProcessResume,
			Item:   now,
		})
	}

	y, err := p.activity.Resume(now)
	if err != nil {
		p.finished = true
		return fmt.Errorf("%s: %w", p.activity.Name(), err)
	}

	switch y.kind {
	case yieldWait:
		p.scheduleAt(now + y.delay)
	case yieldCondition:
		p.waitingOn = y.conds
		for _, c := range y.conds {
			c.add(p)
		}
	case yieldExit:
		p.finished = true
	default:
		log.Panicf("unknown yield kind %d", y.kind)
	}

	return nil
}

func (p *Process) wake() {
	for _, c := range p.waitingOn {
		c.remove(p)
	}

	p.waitingOn = nil
	p.scheduleAt(p.engine.CurrentTime())
}

func (p *Process) scheduleAt(t VTimeInPs) {
	if p.scheduled {
		log.Panicf("process %s scheduled twice", p.Name())
	}

	p.scheduled = true
	p.engine.Schedule(resumeEvent{NewEventBase(t, p)})
}
