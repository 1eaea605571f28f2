package app_test

import (
	"bytes"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/nocsim/app"
	"github.com/sarchlab/nocsim/sim"
)

var _ = Describe("Graph", func() {
	var (
		g        *app.Graph
		periodic *app.Task
		sporadic *app.Task
		plain    *app.Task
	)

	BeforeEach(func() {
		g = app.NewGraph("test")
		periodic = g.AddTask("P", app.Activation{
			Kind:   app.ActivationPeriodic,
			Period: 4 * sim.Us,
		})
		sporadic = g.AddTask("S", app.Activation{
			Kind:            app.ActivationSporadic,
			MinInterArrival: 3 * sim.Us,
			MaxInterArrival: 5 * sim.Us,
		})
		plain = g.AddTask("N", app.Activation{})
	})

	It("should select calls by how they are released", func() {
		p0 := g.AddCall(periodic.ID, "p0")
		p1 := g.AddCall(periodic.ID, "p1")
		s0 := g.AddCall(sporadic.ID, "s0")
		n0 := g.AddCall(plain.ID, "n0")
		n1 := g.AddCall(plain.ID, "n1")
		g.Link(p0.ID, p1.ID)
		g.Link(n0.ID, n1.ID)

		Expect(g.IndependentCalls()).To(Equal([]app.CallID{p0.ID, s0.ID, n0.ID}))
		Expect(g.IndependentNonRecurringCalls()).To(Equal([]app.CallID{n0.ID}))
		Expect(g.RecurringCalls()).To(Equal([]app.CallID{p0.ID, s0.ID}))
		Expect(p1.IndexInTask).To(Equal(1))
		Expect(g.TaskOf(n1)).To(BeIdenticalTo(plain))
	})

	It("should not duplicate edges", func() {
		a := g.AddCall(plain.ID, "a")
		b := g.AddCall(plain.ID, "b")
		g.Link(a.ID, b.ID)
		g.Link(a.ID, b.ID)

		Expect(a.Successors).To(Equal([]app.CallID{b.ID}))
		Expect(b.NumPredecessors()).To(Equal(1))
	})

	It("should compute the hyperperiod of periodic tasks", func() {
		g.AddTask("P2", app.Activation{Kind: app.ActivationPeriodic, Period: 6 * sim.Us})

		Expect(g.Hyperperiod()).To(Equal(12 * sim.Us))
	})

	It("should have no hyperperiod without periodic tasks", func() {
		empty := app.NewGraph("empty")
		empty.AddTask("S", app.Activation{Kind: app.ActivationSporadic})

		Expect(empty.Hyperperiod()).To(Equal(sim.VTimeInPs(0)))
	})

	It("should count satisfied predecessors per epoch", func() {
		a := g.AddCall(plain.ID, "a")
		b := g.AddCall(plain.ID, "b")
		c := g.AddCall(plain.ID, "c")
		g.Link(a.ID, c.ID)
		g.Link(b.ID, c.ID)

		Expect(c.SatisfyOne()).To(BeFalse())
		Expect(c.Satisfied()).To(Equal(1))
		Expect(c.SatisfyOne()).To(BeTrue())
		Expect(c.Satisfied()).To(Equal(0))
		Expect(c.SatisfyOne()).To(BeFalse())
		Expect(func() { a.SatisfyOne() }).To(Panic())
	})

	It("should validate label references", func() {
		c := g.AddCall(plain.ID, "c")
		c.Instructions = []app.Instruction{&app.LabelAccess{Label: 3}}

		Expect(g.Validate()).To(MatchError(app.ErrInvalidGraph))

		g.AddLabel("l0", 8)
		g.AddLabel("l1", 8)
		g.AddLabel("l2", 8)
		g.AddLabel("l3", 8)

		Expect(g.Validate()).To(Succeed())
	})

	It("should reject inverted deviation bounds", func() {
		c := g.AddCall(plain.ID, "c")
		c.Instructions = []app.Instruction{&app.Deviation{Lower: 5, Upper: 2}}

		Expect(g.Validate()).To(MatchError(app.ErrInvalidGraph))
	})

	It("should reject periodic tasks without period", func() {
		g.AddTask("Broken", app.Activation{Kind: app.ActivationPeriodic})

		Expect(g.Validate()).To(MatchError(app.ErrInvalidGraph))
	})

	It("should write a dot graph", func() {
		a := g.AddCall(plain.ID, "a")
		b := g.AddCall(plain.ID, "b")
		g.Link(a.ID, b.ID)

		buf := new(bytes.Buffer)
		Expect(g.WriteDOT(buf)).To(Succeed())

		Expect(buf.String()).To(HavePrefix("digraph Runnable {"))
		Expect(buf.String()).To(ContainSubstring("c0 -> c1;"))
		Expect(buf.String()).To(ContainSubstring("subgraph cluster2"))
	})
})

var _ = Describe("Instance", func() {
	It("should account execution time and deadline", func() {
		g := app.NewGraph("test")
		t := g.AddTask("T", app.Activation{})
		c := g.AddCall(t.ID, "r")
		c.Deadline = 10 * sim.Ns

		first := app.NewInstance("1", c, 0)
		second := app.NewInstance("2", c, 0)
		Expect(first.PeriodID).To(Equal(0))
		Expect(second.PeriodID).To(Equal(1))

		first.CoreReceiveTime = 5 * sim.Ns
		first.CompletionTime = 15 * sim.Ns
		Expect(first.ExecutionTime()).To(Equal(10 * sim.Ns))
		Expect(first.MissedDeadline()).To(BeFalse())
		Expect(first.Slack()).To(Equal(int64(0)))

		first.CompletionTime = 16 * sim.Ns
		Expect(first.MissedDeadline()).To(BeTrue())
		Expect(first.Slack()).To(Equal(-int64(sim.Ns)))
	})

	It("should never miss without a deadline", func() {
		g := app.NewGraph("test")
		t := g.AddTask("T", app.Activation{})
		c := g.AddCall(t.ID, "r")

		i := app.NewInstance("1", c, 0)
		i.CompletionTime = sim.Sec

		Expect(i.MissedDeadline()).To(BeFalse())
		Expect(i.Done()).To(BeTrue())
	})
})
