package app

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/sarchlab/nocsim/sim"
)

// A Loader produces the application graph stored in a file.
type Loader interface {
	Load(path string) (*Graph, error)
}

// YAMLLoader reads applications described in YAML.
//
//	name: demo
//	labels:
//	  - {name: speed, size: 64}
//	tasks:
//	  - name: Sense
//	    period: 10us
//	    sequential: true
//	    runnables:
//	      - name: Read
//	        priority: 1
//	        deadline: 2us
//	        instructions:
//	          - constant: 100
//	          - read: speed
//	      - name: Filter
//	        after: [Other/Init]
//	        instructions:
//	          - deviation: {lower: 10, upper: 20}
//	          - write: speed
type YAMLLoader struct{}

// Load reads and parses the file.
func (YAMLLoader) Load(path string) (*Graph, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	g, err := ParseYAML(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return g, nil
}

type yamlApp struct {
	Name   string      `yaml:"name"`
	Labels []yamlLabel `yaml:"labels"`
	Tasks  []yamlTask  `yaml:"tasks"`
}

type yamlLabel struct {
	Name string `yaml:"name"`
	Size int    `yaml:"size"`
}

type yamlSporadic struct {
	Min string `yaml:"min"`
	Max string `yaml:"max"`
}

type yamlTask struct {
	Name       string         `yaml:"name"`
	Period     string         `yaml:"period"`
	Offset     string         `yaml:"offset"`
	Sporadic   *yamlSporadic  `yaml:"sporadic"`
	Sequential bool           `yaml:"sequential"`
	Runnables  []yamlRunnable `yaml:"runnables"`
}

type yamlRunnable struct {
	Name         string            `yaml:"name"`
	ClassID      *int              `yaml:"class_id"`
	Priority     int               `yaml:"priority"`
	Deadline     string            `yaml:"deadline"`
	After        []string          `yaml:"after"`
	Instructions []yamlInstruction `yaml:"instructions"`
}

type yamlBounds struct {
	Lower int64 `yaml:"lower"`
	Upper int64 `yaml:"upper"`
}

type yamlInstruction struct {
	Constant  *float64    `yaml:"constant"`
	Deviation *yamlBounds `yaml:"deviation"`
	Read      string      `yaml:"read"`
	Write     string      `yaml:"write"`
}

// ParseYAML builds a graph from a YAML document.
func ParseYAML(data []byte) (*Graph, error) {
	var doc yamlApp
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}

	p := &yamlParser{
		g:         NewGraph(doc.Name),
		labels:    make(map[string]LabelID),
		calls:     make(map[string]CallID),
		callCount: make(map[string]int),
		classIDs:  make(map[string]int),
	}

	if err := p.parse(&doc); err != nil {
		return nil, err
	}

	if err := p.g.Validate(); err != nil {
		return nil, err
	}

	return p.g, nil
}

type yamlParser struct {
	g         *Graph
	labels    map[string]LabelID
	calls     map[string]CallID
	callCount map[string]int
	classIDs  map[string]int
}

func (p *yamlParser) parse(doc *yamlApp) error {
	for _, l := range doc.Labels {
		if _, dup := p.labels[l.Name]; dup {
			return fmt.Errorf("%w: duplicated label %s", ErrInvalidGraph, l.Name)
		}

		if l.Size < 0 {
			return fmt.Errorf("%w: label %s has a negative size",
				ErrInvalidGraph, l.Name)
		}

		p.labels[l.Name] = p.g.AddLabel(l.Name, l.Size).ID
	}

	for i := range doc.Tasks {
		if err := p.parseTask(&doc.Tasks[i]); err != nil {
			return err
		}
	}

	for i := range doc.Tasks {
		if err := p.linkTask(&doc.Tasks[i]); err != nil {
			return err
		}
	}

	return nil
}

func (p *yamlParser) parseTask(t *yamlTask) error {
	activation, err := parseActivation(t)
	if err != nil {
		return fmt.Errorf("task %s: %w", t.Name, err)
	}

	task := p.g.AddTask(t.Name, activation)

	for i := range t.Runnables {
		r := &t.Runnables[i]

		call := p.g.AddCall(task.ID, r.Name)
		call.ClassID = p.classID(r)
		call.Priority = r.Priority

		call.Deadline, err = parseTime(r.Deadline)
		if err != nil {
			return fmt.Errorf("runnable %s: %w", r.Name, err)
		}

		for j, in := range r.Instructions {
			inst, err := p.parseInstruction(in)
			if err != nil {
				return fmt.Errorf("runnable %s instruction %d: %w", r.Name, j, err)
			}

			call.Instructions = append(call.Instructions, inst)
		}

		p.calls[t.Name+"/"+r.Name] = call.ID
		p.calls[r.Name] = call.ID
		p.callCount[r.Name]++
	}

	return nil
}

func (p *yamlParser) classID(r *yamlRunnable) int {
	if r.ClassID != nil {
		return *r.ClassID
	}

	if id, ok := p.classIDs[r.Name]; ok {
		return id
	}

	id := len(p.classIDs)
	p.classIDs[r.Name] = id

	return id
}

func (p *yamlParser) linkTask(t *yamlTask) error {
	var prev *CallID

	for i := range t.Runnables {
		r := &t.Runnables[i]
		id := p.calls[t.Name+"/"+r.Name]

		if t.Sequential && prev != nil {
			p.g.Link(*prev, id)
		}

		for _, ref := range r.After {
			from, err := p.resolve(ref)
			if err != nil {
				return fmt.Errorf("runnable %s: %w", r.Name, err)
			}

			p.g.Link(from, id)
		}

		prev = &id
	}

	return nil
}

func (p *yamlParser) resolve(ref string) (CallID, error) {
	if !strings.Contains(ref, "/") && p.callCount[ref] > 1 {
		return 0, fmt.Errorf("%w: ambiguous runnable reference %s",
			ErrInvalidGraph, ref)
	}

	id, ok := p.calls[ref]
	if !ok {
		return 0, fmt.Errorf("%w: unknown runnable %s", ErrInvalidGraph, ref)
	}

	return id, nil
}

func (p *yamlParser) parseInstruction(in yamlInstruction) (Instruction, error) {
	set := 0
	var inst Instruction

	if in.Constant != nil {
		set++
		inst = &Constant{Cycles: *in.Constant}
	}

	if in.Deviation != nil {
		set++
		inst = &Deviation{Lower: in.Deviation.Lower, Upper: in.Deviation.Upper}
	}

	for _, access := range []struct {
		name  string
		write bool
	}{{in.Read, false}, {in.Write, true}} {
		if access.name == "" {
			continue
		}

		set++

		label, ok := p.labels[access.name]
		if !ok {
			return nil, fmt.Errorf("%w: unknown label %s",
				ErrInvalidGraph, access.name)
		}

		inst = &LabelAccess{Label: label, Write: access.write}
	}

	if set != 1 {
		return nil, fmt.Errorf("%w: an instruction needs exactly one of "+
			"constant, deviation, read or write", ErrInvalidGraph)
	}

	return inst, nil
}

func parseActivation(t *yamlTask) (Activation, error) {
	var (
		a   Activation
		err error
	)

	if t.Period != "" && t.Sporadic != nil {
		return a, fmt.Errorf("%w: both periodic and sporadic", ErrInvalidGraph)
	}

	a.Offset, err = parseTime(t.Offset)
	if err != nil {
		return a, err
	}

	switch {
	case t.Period != "":
		a.Kind = ActivationPeriodic
		a.Period, err = parseTime(t.Period)
	case t.Sporadic != nil:
		a.Kind = ActivationSporadic
		a.MinInterArrival, err = parseTime(t.Sporadic.Min)
		if err == nil {
			a.MaxInterArrival, err = parseTime(t.Sporadic.Max)
		}
	}

	return a, err
}

// parseTime converts a Go duration string, like "10us", to simulated time.
// An empty string is zero.
func parseTime(s string) (sim.VTimeInPs, error) {
	if s == "" {
		return 0, nil
	}

	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, err
	}

	if d < 0 {
		return 0, fmt.Errorf("negative duration %s", s)
	}

	return sim.VTimeInPs(d.Nanoseconds()) * sim.Ns, nil
}
