package tracing

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/sarchlab/nocsim/app"
	"github.com/sarchlab/nocsim/pe"
	"github.com/sarchlab/nocsim/sim"
)

var _ = Describe("BusyTimeTracer", func() {
	var (
		timeTeller *testTimeTeller
		call       *app.RunnableCall
		tracer     *BusyTimeTracer
	)

	at := func(t sim.VTimeInPs, pos *sim.HookPos, id string) {
		timeTeller.currentTime = t
		tracer.Func(sim.HookCtx{
			Pos:  pos,
			Item: &app.Instance{ID: id, Call: call},
		})
	}

	BeforeEach(func() {
		g := app.NewGraph("g")
		task := g.AddTask("t", app.Activation{})
		call = g.AddCall(task.ID, "A")
		timeTeller = &testTimeTeller{}
		tracer = NewBusyTimeTracer(timeTeller)
	})

	It("should measure a single instance", func() {
		at(2*sim.Ns, pe.HookPosAdmitted, "a")
		at(7*sim.Ns, pe.HookPosCompleted, "a")

		Expect(tracer.BusyTime()).To(Equal(5 * sim.Ns))
	})

	It("should count overlapping instances once", func() {
		at(0, pe.HookPosAdmitted, "a")
		at(5*sim.Ns, pe.HookPosAdmitted, "b")
		at(10*sim.Ns, pe.HookPosCompleted, "a")

		Expect(tracer.BusyTime()).To(BeZero())

		at(20*sim.Ns, pe.HookPosCompleted, "b")
		at(30*sim.Ns, pe.HookPosAdmitted, "c")
		at(35*sim.Ns, pe.HookPosCompleted, "c")

		Expect(tracer.BusyTime()).To(Equal(25 * sim.Ns))
	})

	It("should close open instances on termination", func() {
		at(0, pe.HookPosAdmitted, "a")
		at(3*sim.Ns, pe.HookPosAdmitted, "b")
		at(4*sim.Ns, pe.HookPosCompleted, "b")

		tracer.TerminateAll(9 * sim.Ns)

		Expect(tracer.BusyTime()).To(Equal(9 * sim.Ns))
	})

	It("should ignore unknown completions", func() {
		at(4*sim.Ns, pe.HookPosCompleted, "x")

		Expect(tracer.BusyTime()).To(BeZero())
	})
})
