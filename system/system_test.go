package system

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"

	"github.com/sarchlab/nocsim/app"
	"github.com/sarchlab/nocsim/mapping"
	"github.com/sarchlab/nocsim/noc/messaging"
	"github.com/sarchlab/nocsim/noc/networking/arbitration"
	"github.com/sarchlab/nocsim/noc/networking/crossbar"
	"github.com/sarchlab/nocsim/pe"
	"github.com/sarchlab/nocsim/sim"
)

type releaseRecorder struct {
	released []*app.Instance
	mapped   map[*app.Instance]messaging.Coord
}

func newReleaseRecorder() *releaseRecorder {
	return &releaseRecorder{mapped: make(map[*app.Instance]messaging.Coord)}
}

func (r *releaseRecorder) Func(ctx sim.HookCtx) {
	switch ctx.Pos {
	case HookPosReleased:
		r.released = append(r.released, ctx.Item.(*app.Instance))
	case HookPosMapped:
		r.mapped[ctx.Item.(*app.Instance)] = ctx.Detail.(messaging.Coord)
	}
}

type platform struct {
	engine *sim.SerialEngine
	grid   mapping.Grid
	labels *pe.LabelTable
	pes    []*pe.Comp
	cores  []Core
}

func newPlatform(rows, cols int, g *app.Graph) *platform {
	p := &platform{
		engine: sim.NewSerialEngine(),
		grid:   mapping.Grid{Rows: rows, Cols: cols},
		labels: pe.NewLabelTable(),
	}

	arbiter, err := arbitration.NewArbiter(arbitration.PolicyFull)
	Expect(err).NotTo(HaveOccurred())

	xbar := crossbar.MakeBuilder().
		WithEngine(p.engine).
		WithGrid(rows, cols).
		WithArbiter(arbiter).
		Build("Xbar")

	builder := pe.MakeBuilder().
		WithEngine(p.engine).
		WithGraph(g).
		WithLabelTable(p.labels).
		WithCrossbar(xbar)

	for i := 0; i < rows*cols; i++ {
		coord := messaging.CoordOf(i, cols)
		c := builder.Build("PE"+coord.String(), coord)
		p.pes = append(p.pes, c)
		p.cores = append(p.cores, c)
	}

	return p
}

func (p *platform) builder(g *app.Graph, h mapping.Heuristic) Builder {
	return MakeBuilder().
		WithEngine(p.engine).
		WithGraph(g).
		WithHeuristic(h).
		WithCores(p.grid, p.cores).
		WithLabelTable(p.labels)
}

func (p *platform) connect(s *Comp) {
	for _, c := range p.pes {
		c.SetCompletionSink(s)
	}
}

func constantCall(g *app.Graph, task app.TaskID, name string, cycles float64) *app.RunnableCall {
	call := g.AddCall(task, name)
	call.Instructions = []app.Instruction{&app.Constant{Cycles: cycles}}

	return call
}

var _ = Describe("Release Manager", func() {
	var (
		g        *app.Graph
		recorder *releaseRecorder
	)

	BeforeEach(func() {
		g = app.NewGraph("test")
		recorder = newReleaseRecorder()
	})

	It("should complete a single runnable after its admission", func() {
		t := g.AddTask("T", app.Activation{})
		call := constantCall(g, t.ID, "r", 10)
		call.Deadline = 10 * sim.Ns

		p := newPlatform(2, 2, g)
		s := p.builder(g, mapping.NewZigZag(p.grid)).Build("System")
		s.AcceptHook(recorder)
		p.connect(s)

		Expect(p.engine.Run()).To(Succeed())

		Expect(recorder.released).To(HaveLen(1))
		inst := recorder.released[0]
		Expect(inst.CoreReceiveTime).To(Equal(1 * sim.Ns))
		Expect(inst.CompletionTime).To(Equal(11 * sim.Ns))
		Expect(inst.ExecutionTime()).To(Equal(10 * sim.Ns))
		Expect(p.pes[0].Stats().DeadlineMisses).To(BeZero())
		Expect(s.NumCompleted()).To(Equal(uint64(1)))
		Expect(s.StopReason()).To(Equal(StopIterationsReached))
		Expect(s.Finished()).To(BeTrue())
		Expect(s.StopTime()).To(Equal(11 * sim.Ns))
	})

	It("should release a runnable once all its predecessors completed", func() {
		t := g.AddTask("T", app.Activation{})
		a := constantCall(g, t.ID, "a", 10)
		b := constantCall(g, t.ID, "b", 20)
		c := constantCall(g, t.ID, "c", 5)
		g.Link(a.ID, c.ID)
		g.Link(b.ID, c.ID)

		p := newPlatform(1, 2, g)
		s := p.builder(g, mapping.NewZigZag(p.grid)).
			WithIgnorePeriodics(true).
			Build("System")
		s.AcceptHook(recorder)
		p.connect(s)

		Expect(p.engine.Run()).To(Succeed())

		Expect(recorder.released).To(HaveLen(3))
		last := recorder.released[2]
		Expect(last.Call).To(BeIdenticalTo(c))
		Expect(last.ReleaseTime).To(Equal(22 * sim.Ns))
		Expect(recorder.mapped[last]).To(Equal(messaging.Coord{Row: 0, Col: 0}))
		Expect(last.CompletionTime).To(Equal(28 * sim.Ns))
		Expect(c.Satisfied()).To(BeZero())
		Expect(s.StopTime()).To(Equal(28 * sim.Ns))
	})

	It("should stop after exactly N iterations", func() {
		t := g.AddTask("T", app.Activation{})
		constantCall(g, t.ID, "a", 1)
		constantCall(g, t.ID, "b", 3)

		p := newPlatform(2, 2, g)
		s := p.builder(g, mapping.NewZigZag(p.grid)).
			WithIgnorePeriodics(true).
			WithIterations(3).
			Build("System")
		p.connect(s)

		Expect(p.engine.Run()).To(Succeed())

		Expect(s.NumCompleted()).To(Equal(uint64(6)))
		Expect(s.NumReleased()).To(Equal(uint64(6)))
		Expect(s.Iterations()).To(Equal(uint64(3)))
		Expect(s.StopReason()).To(Equal(StopIterationsReached))
	})

	It("should rotate instances whose processing element is busy", func() {
		t := g.AddTask("T", app.Activation{})
		constantCall(g, t.ID, "a", 10)
		constantCall(g, t.ID, "b", 10)
		constantCall(g, t.ID, "c", 10)

		p := newPlatform(1, 1, g)
		s := p.builder(g, mapping.NewZigZag(p.grid)).
			WithIgnorePeriodics(true).
			Build("System")
		p.connect(s)

		Expect(p.engine.Run()).To(Succeed())

		Expect(s.NumRotations()).To(BeNumerically(">", 0))
		Expect(s.NumMapped()).To(Equal(uint64(3)))
		Expect(s.NumCompleted()).To(Equal(uint64(3)))
	})

	Context("with periodic tasks", func() {
		BeforeEach(func() {
			fast := g.AddTask("Fast", app.Activation{
				Kind:   app.ActivationPeriodic,
				Period: 10 * sim.Ns,
			})
			slow := g.AddTask("Slow", app.Activation{
				Kind:   app.ActivationPeriodic,
				Period: 15 * sim.Ns,
			})
			constantCall(g, fast.ID, "f", 1)
			constantCall(g, slow.ID, "s", 1)
		})

		It("should release until the hyperperiod", func() {
			p := newPlatform(2, 2, g)
			s := p.builder(g, mapping.NewZigZag(p.grid)).Build("System")
			s.AcceptHook(recorder)
			p.connect(s)

			Expect(p.engine.Run()).To(Succeed())

			Expect(s.Hyperperiod()).To(Equal(30 * sim.Ns))
			Expect(s.StopReason()).To(Equal(StopHyperperiodElapsed))
			Expect(s.NumReleased()).To(Equal(uint64(5)))
			Expect(s.NumCompleted()).To(Equal(uint64(5)))
			Expect(s.StopTime()).To(Equal(30 * sim.Ns))

			var times []sim.VTimeInPs
			for _, inst := range recorder.released {
				times = append(times, inst.ReleaseTime)
			}
			Expect(times).To(Equal([]sim.VTimeInPs{
				0, 0, 10 * sim.Ns, 15 * sim.Ns, 20 * sim.Ns,
			}))
			Expect(recorder.released[2].PeriodID).To(Equal(1))
		})

		It("should stop at the explicit end", func() {
			p := newPlatform(2, 2, g)
			s := p.builder(g, mapping.NewZigZag(p.grid)).
				WithSimulationEnd(25 * sim.Ns).
				Build("System")
			p.connect(s)

			Expect(p.engine.Run()).To(Succeed())

			Expect(s.StopReason()).To(Equal(StopDurationReached))
			Expect(s.NumReleased()).To(Equal(uint64(5)))
			Expect(s.StopTime()).To(Equal(25 * sim.Ns))
		})

		It("should run periodic tasks once per iteration when ignored", func() {
			p := newPlatform(2, 2, g)
			s := p.builder(g, mapping.NewZigZag(p.grid)).
				WithIgnorePeriodics(true).
				WithIterations(2).
				Build("System")
			p.connect(s)

			Expect(p.engine.Run()).To(Succeed())

			Expect(s.StopReason()).To(Equal(StopIterationsReached))
			Expect(s.NumReleased()).To(Equal(uint64(4)))
		})
	})

	It("should fail when nothing can start while periodics are ignored", func() {
		t := g.AddTask("T", app.Activation{})
		a := constantCall(g, t.ID, "a", 1)
		b := constantCall(g, t.ID, "b", 1)
		g.Link(a.ID, b.ID)
		g.Link(b.ID, a.ID)

		p := newPlatform(1, 1, g)
		s := p.builder(g, mapping.NewZigZag(p.grid)).
			WithIgnorePeriodics(true).
			Build("System")
		p.connect(s)

		err := p.engine.Run()

		Expect(errors.Is(err, ErrData)).To(BeTrue())
	})

	Context("with a mocked heuristic", func() {
		var (
			mockCtrl  *gomock.Controller
			heuristic *MockHeuristic
			loader    *MockLoader
			call      *app.RunnableCall
			label     *app.Label
		)

		BeforeEach(func() {
			mockCtrl = gomock.NewController(GinkgoT())
			heuristic = NewMockHeuristic(mockCtrl)
			loader = NewMockLoader(mockCtrl)

			t := g.AddTask("T", app.Activation{})
			call = constantCall(g, t.ID, "r", 10)
			label = g.AddLabel("L", 8)
		})

		AfterEach(func() {
			mockCtrl.Finish()
		})

		It("should place labels where the heuristic says", func() {
			heuristic.EXPECT().
				MapLabel(label.ID, sim.VTimeInPs(0), "L").
				Return(messaging.Coord{Row: 0, Col: 1})
			heuristic.EXPECT().
				MapRunnable(sim.VTimeInPs(0), mapping.RunnableRequest{
					ClassID:   call.ClassID,
					ClassName: "r",
					TaskName:  "T",
				}).
				Return(messaging.Coord{Row: 0, Col: 1})

			p := newPlatform(1, 2, g)
			s := p.builder(g, heuristic).Build("System")
			p.connect(s)

			Expect(p.engine.Run()).To(Succeed())

			home, ok := p.labels.Home(label.ID)
			Expect(ok).To(BeTrue())
			Expect(home).To(Equal(messaging.Coord{Row: 0, Col: 1}))
			Expect(p.pes[1].Stats().Completed).To(Equal(uint64(1)))
		})

		It("should fail on placements outside of the grid", func() {
			heuristic.EXPECT().MapLabel(gomock.Any(), gomock.Any(), gomock.Any()).
				Return(messaging.Coord{})
			heuristic.EXPECT().MapRunnable(gomock.Any(), gomock.Any()).
				Return(messaging.Coord{Row: 3, Col: 3})

			p := newPlatform(1, 2, g)
			s := p.builder(g, heuristic).Build("System")
			p.connect(s)

			err := p.engine.Run()

			Expect(errors.Is(err, ErrOutOfGrid)).To(BeTrue())
		})

		It("should patch costs when the mode switches", func() {
			next := app.NewGraph("fast")
			nt := next.AddTask("T", app.Activation{})
			constantCall(next, nt.ID, "r", 3)

			heuristic.EXPECT().MapLabel(gomock.Any(), gomock.Any(), gomock.Any()).
				Return(messaging.Coord{}).Times(3)
			heuristic.EXPECT().MapRunnable(gomock.Any(), gomock.Any()).
				Return(messaging.Coord{})
			heuristic.EXPECT().SwitchMode(sim.VTimeInPs(0), "normal.yaml", "normal")
			heuristic.EXPECT().SwitchMode(5*sim.Ns, "fast.yaml", "fast")
			loader.EXPECT().Load("normal.yaml").Return(g, nil)
			loader.EXPECT().Load("fast.yaml").Return(next, nil)

			p := newPlatform(1, 1, g)
			s := p.builder(g, heuristic).
				WithLoader(loader).
				WithModes([]Mode{
					{Time: 0, Name: "normal", File: "normal.yaml"},
					{Time: 5 * sim.Ns, Name: "fast", File: "fast.yaml"},
					{Time: 50 * sim.Ns, Name: ModeEnd},
				}).
				Build("System")
			p.connect(s)

			Expect(p.engine.Run()).To(Succeed())

			Expect(call.Instructions[0].(*app.Constant).Cycles).To(Equal(3.0))
			Expect(s.StopReason()).To(Equal(StopModeScheduleEnded))
			Expect(s.StopTime()).To(Equal(50 * sim.Ns))
		})

		It("should fail when a mode changes the instruction kinds", func() {
			next := app.NewGraph("broken")
			nt := next.AddTask("T", app.Activation{})
			broken := next.AddCall(nt.ID, "r")
			broken.Instructions = []app.Instruction{&app.Deviation{Lower: 1, Upper: 2}}

			heuristic.EXPECT().MapLabel(gomock.Any(), gomock.Any(), gomock.Any()).
				Return(messaging.Coord{}).AnyTimes()
			heuristic.EXPECT().MapRunnable(gomock.Any(), gomock.Any()).
				Return(messaging.Coord{}).AnyTimes()
			heuristic.EXPECT().SwitchMode(gomock.Any(), gomock.Any(), gomock.Any())
			loader.EXPECT().Load("broken.yaml").Return(next, nil)

			p := newPlatform(1, 1, g)
			s := p.builder(g, heuristic).
				WithLoader(loader).
				WithModes([]Mode{
					{Time: 2 * sim.Ns, Name: "broken", File: "broken.yaml"},
					{Time: 50 * sim.Ns, Name: ModeEnd},
				}).
				Build("System")
			p.connect(s)

			err := p.engine.Run()

			var dataErr *DataError
			Expect(errors.As(err, &dataErr)).To(BeTrue())
			Expect(dataErr.File).To(Equal("broken.yaml"))
			Expect(errors.Is(err, ErrData)).To(BeTrue())
			Expect(call.Instructions[0].(*app.Constant).Cycles).To(Equal(10.0))
		})

		It("should reject a mode with inverted deviation bounds", func() {
			deviation := &app.Deviation{Lower: 1, Upper: 2}
			call.Instructions = []app.Instruction{deviation}

			next := app.NewGraph("inverted")
			nt := next.AddTask("T", app.Activation{})
			inverted := next.AddCall(nt.ID, "r")
			inverted.Instructions = []app.Instruction{&app.Deviation{Lower: 5, Upper: 2}}

			heuristic.EXPECT().MapLabel(gomock.Any(), gomock.Any(), gomock.Any()).
				Return(messaging.Coord{}).AnyTimes()
			heuristic.EXPECT().MapRunnable(gomock.Any(), gomock.Any()).
				Return(messaging.Coord{}).AnyTimes()
			heuristic.EXPECT().SwitchMode(gomock.Any(), gomock.Any(), gomock.Any())
			loader.EXPECT().Load("inverted.yaml").Return(next, nil)

			p := newPlatform(1, 1, g)
			s := p.builder(g, heuristic).
				WithLoader(loader).
				WithModes([]Mode{
					{Time: 2 * sim.Ns, Name: "inverted", File: "inverted.yaml"},
					{Time: 50 * sim.Ns, Name: ModeEnd},
				}).
				Build("System")
			p.connect(s)

			err := p.engine.Run()

			var dataErr *DataError
			Expect(errors.As(err, &dataErr)).To(BeTrue())
			Expect(dataErr.Name).To(Equal("inverted"))
			Expect(dataErr.Reason).To(ContainSubstring("bounds [5,2]"))
			Expect(deviation.Lower).To(Equal(int64(1)))
			Expect(deviation.Upper).To(Equal(int64(2)))
		})
	})
})
