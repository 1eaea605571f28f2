package tracing

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/sarchlab/nocsim/app"
	"github.com/sarchlab/nocsim/pe"
	"github.com/sarchlab/nocsim/sim"
)

var _ = Describe("ClassTimeTracer", func() {
	var (
		graph  *app.Graph
		a, b   *app.RunnableCall
		tracer *ClassTimeTracer
	)

	complete := func(call *app.RunnableCall, recv, done sim.VTimeInPs) {
		inst := app.NewInstance("i", call, 0)
		inst.CoreReceiveTime = recv
		inst.CompletionTime = done

		tracer.Func(sim.HookCtx{Pos: pe.HookPosCompleted, Item: inst})
	}

	BeforeEach(func() {
		graph = app.NewGraph("g")
		task := graph.AddTask("t", app.Activation{})
		a = graph.AddCall(task.ID, "A")
		a.Deadline = 5 * sim.Ns
		b = graph.AddCall(task.ID, "B")
		tracer = NewClassTimeTracer()
	})

	It("should summarize each class", func() {
		complete(a, 0, 4*sim.Ns)
		complete(a, 10*sim.Ns, 18*sim.Ns)
		complete(b, 0, 2*sim.Ns)

		classes := tracer.Classes()

		Expect(classes).To(HaveLen(2))
		Expect(classes[0].Class).To(Equal("A"))
		Expect(classes[0].Count).To(Equal(uint64(2)))
		Expect(classes[0].TotalTime).To(Equal(12 * sim.Ns))
		Expect(classes[0].MaxTime).To(Equal(8 * sim.Ns))
		Expect(classes[0].AverageTime()).To(Equal(6 * sim.Ns))
		Expect(classes[0].DeadlineMisses).To(Equal(uint64(1)))
		Expect(classes[1].Class).To(Equal("B"))
		Expect(classes[1].DeadlineMisses).To(BeZero())
	})

	It("should ignore other hook positions", func() {
		inst := app.NewInstance("i", a, 0)

		tracer.Func(sim.HookCtx{Pos: pe.HookPosAdmitted, Item: inst})

		Expect(tracer.Classes()).To(BeEmpty())
	})

	It("should report a zero average for an empty class", func() {
		Expect(ClassTime{}.AverageTime()).To(BeZero())
	})
})
