// Package app models the application that runs on the platform: tasks,
// runnable calls with their instructions and dependencies, and labels.
package app

import (
	"errors"
	"fmt"

	"github.com/sarchlab/nocsim/sim"
)

// ErrInvalidGraph is wrapped by all graph consistency errors.
var ErrInvalidGraph = errors.New("invalid application graph")

// A Graph is the arena that owns all the tasks, runnable calls and labels of
// an application. Everything else refers to them by ID.
type Graph struct {
	Name   string
	Tasks  []*Task
	Calls  []*RunnableCall
	Labels []*Label
}

// NewGraph creates an empty graph.
func NewGraph(name string) *Graph {
	return &Graph{Name: name}
}

// AddTask appends a task with no call.
func (g *Graph) AddTask(name string, activation Activation) *Task {
	t := &Task{
		ID:         TaskID(len(g.Tasks)),
		Name:       name,
		Activation: activation,
	}
	g.Tasks = append(g.Tasks, t)

	return t
}

// AddCall appends a runnable call to a task.
func (g *Graph) AddCall(task TaskID, className string) *RunnableCall {
	t := g.Task(task)
	c := &RunnableCall{
		ID:          CallID(len(g.Calls)),
		Task:        task,
		IndexInTask: len(t.Calls),
		ClassID:     len(g.Calls),
		ClassName:   className,
	}
	g.Calls = append(g.Calls, c)
	t.Calls = append(t.Calls, c.ID)

	return c
}

// AddLabel appends a label.
func (g *Graph) AddLabel(name string, sizeBits int) *Label {
	l := &Label{
		ID:       LabelID(len(g.Labels)),
		Name:     name,
		SizeBits: sizeBits,
	}
	g.Labels = append(g.Labels, l)

	return l
}

// Link makes the completion of from a prerequisite of to.
func (g *Graph) Link(from, to CallID) {
	f := g.Call(from)
	t := g.Call(to)

	for _, s := range f.Successors {
		if s == to {
			return
		}
	}

	f.Successors = append(f.Successors, to)
	t.Predecessors = append(t.Predecessors, from)
}

// Task returns the task with the ID.
func (g *Graph) Task(id TaskID) *Task {
	return g.Tasks[id]
}

// Call returns the runnable call with the ID.
func (g *Graph) Call(id CallID) *RunnableCall {
	return g.Calls[id]
}

// Label returns the label with the ID.
func (g *Graph) Label(id LabelID) *Label {
	return g.Labels[id]
}

// TaskOf returns the task that a call belongs to.
func (g *Graph) TaskOf(c *RunnableCall) *Task {
	return g.Tasks[c.Task]
}

// IndependentCalls returns every call that has no predecessor.
func (g *Graph) IndependentCalls() []CallID {
	return g.selectCalls(func(c *RunnableCall) bool {
		return c.NumPredecessors() == 0
	})
}

// IndependentNonRecurringCalls returns the calls without predecessor whose
// task has no periodic or sporadic stimulus.
func (g *Graph) IndependentNonRecurringCalls() []CallID {
	return g.selectCalls(func(c *RunnableCall) bool {
		return c.NumPredecessors() == 0 &&
			!g.TaskOf(c).Activation.Recurring()
	})
}

// RecurringCalls returns the calls without predecessor whose task has a
// periodic or sporadic stimulus.
func (g *Graph) RecurringCalls() []CallID {
	return g.selectCalls(func(c *RunnableCall) bool {
		return c.NumPredecessors() == 0 &&
			g.TaskOf(c).Activation.Recurring()
	})
}

func (g *Graph) selectCalls(pred func(c *RunnableCall) bool) []CallID {
	ids := make([]CallID, 0)
	for _, c := range g.Calls {
		if pred(c) {
			ids = append(ids, c.ID)
		}
	}

	return ids
}

// Hyperperiod returns the least common multiple of the periods of all the
// periodic tasks, or 0 if there is no periodic task.
func (g *Graph) Hyperperiod() sim.VTimeInPs {
	var h uint64

	for _, t := range g.Tasks {
		if t.Activation.Kind != ActivationPeriodic || t.Activation.Period == 0 {
			continue
		}

		p := uint64(t.Activation.Period)
		if h == 0 {
			h = p
			continue
		}

		h = h / gcd(h, p) * p
	}

	return sim.VTimeInPs(h)
}

func gcd(a, b uint64) uint64 {
	for b != 0 {
		a, b = b, a%b
	}

	return a
}

// Instructions returns all the instructions of the graph, call by call.
func (g *Graph) Instructions() []Instruction {
	all := make([]Instruction, 0)
	for _, c := range g.Calls {
		all = append(all, c.Instructions...)
	}

	return all
}

// Validate checks the references between the entities of the graph.
func (g *Graph) Validate() error {
	for i, t := range g.Tasks {
		if t.ID != TaskID(i) {
			return fmt.Errorf("%w: task %s has ID %d at position %d",
				ErrInvalidGraph, t.Name, t.ID, i)
		}

		if t.Activation.Kind == ActivationPeriodic && t.Activation.Period == 0 {
			return fmt.Errorf("%w: periodic task %s has no period",
				ErrInvalidGraph, t.Name)
		}

		if t.Activation.Kind == ActivationSporadic &&
			t.Activation.MinInterArrival == 0 {
			return fmt.Errorf("%w: sporadic task %s has no inter-arrival time",
				ErrInvalidGraph, t.Name)
		}
	}

	for i, c := range g.Calls {
		if err := g.validateCall(i, c); err != nil {
			return err
		}
	}

	return nil
}

func (g *Graph) validateCall(i int, c *RunnableCall) error {
	if c.ID != CallID(i) {
		return fmt.Errorf("%w: runnable %s has ID %d at position %d",
			ErrInvalidGraph, c.ClassName, c.ID, i)
	}

	if int(c.Task) < 0 || int(c.Task) >= len(g.Tasks) {
		return fmt.Errorf("%w: runnable %s belongs to unknown task %d",
			ErrInvalidGraph, c.ClassName, c.Task)
	}

	for _, p := range c.Predecessors {
		if int(p) < 0 || int(p) >= len(g.Calls) || p == c.ID {
			return fmt.Errorf("%w: runnable %s has invalid predecessor %d",
				ErrInvalidGraph, c.ClassName, p)
		}
	}

	for _, inst := range c.Instructions {
		switch in := inst.(type) {
		case *Constant:
			if in.Cycles < 0 {
				return fmt.Errorf("%w: runnable %s has a negative cost",
					ErrInvalidGraph, c.ClassName)
			}
		case *Deviation:
			if in.Lower < 0 || in.Upper < in.Lower {
				return fmt.Errorf("%w: runnable %s has bounds [%d,%d]",
					ErrInvalidGraph, c.ClassName, in.Lower, in.Upper)
			}
		case *LabelAccess:
			if int(in.Label) < 0 || int(in.Label) >= len(g.Labels) {
				return fmt.Errorf("%w: runnable %s accesses unknown label %d",
					ErrInvalidGraph, c.ClassName, in.Label)
			}
		default:
			return fmt.Errorf("%w: runnable %s has instruction %T",
				ErrInvalidGraph, c.ClassName, inst)
		}
	}

	return nil
}
