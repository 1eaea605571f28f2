package sim

import (
	"errors"
	"fmt"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type scriptedActivity struct {
	name  string
	steps []func(now VTimeInPs) (Yield, error)
	trace *[]string
}

func (a *scriptedActivity) Name() string {
	return a.name
}

func (a *scriptedActivity) Resume(now VTimeInPs) (Yield, error) {
	*a.trace = append(*a.trace, fmt.Sprintf("%s@%s", a.name, now))

	if len(a.steps) == 0 {
		return Exit(), nil
	}

	step := a.steps[0]
	a.steps = a.steps[1:]

	return step(now)
}

var _ = Describe("Process", func() {
	var (
		engine *SerialEngine
		trace  []string
	)

	BeforeEach(func() {
		engine = NewSerialEngine()
		trace = nil
	})

	activity := func(
		name string,
		steps ...func(now VTimeInPs) (Yield, error),
	) *scriptedActivity {
		return &scriptedActivity{name: name, steps: steps, trace: &trace}
	}

	waitFor := func(d VTimeInPs) func(VTimeInPs) (Yield, error) {
		return func(VTimeInPs) (Yield, error) { return WaitFor(d), nil }
	}

	It("should resume after timed waits", func() {
		p := Spawn(engine, activity("a", waitFor(3*Ns), waitFor(2*Ns)))

		Expect(engine.Run()).To(Succeed())

		Expect(trace).To(Equal([]string{"a@0ns", "a@3ns", "a@5ns"}))
		Expect(p.Finished()).To(BeTrue())
	})

	It("should interleave same-time resumptions in spawn order", func() {
		Spawn(engine, activity("a", waitFor(0), waitFor(1*Ns)))
		Spawn(engine, activity("b", waitFor(1*Ns)))

		Expect(engine.Run()).To(Succeed())

		Expect(trace).To(Equal([]string{
			"a@0ns", "b@0ns", "a@0ns", "b@1ns", "a@1ns",
		}))
	})

	It("should settle zero-delay notifications before time advances", func() {
		cond := NewCondition("released")
		released := false

		Spawn(engine, activity("consumer",
			func(VTimeInPs) (Yield, error) { return WaitOn(cond), nil },
			func(now VTimeInPs) (Yield, error) {
				Expect(released).To(BeTrue())
				Expect(now).To(Equal(4 * Ns))
				return Exit(), nil
			},
		))
		Spawn(engine, activity("producer",
			waitFor(4*Ns),
			func(VTimeInPs) (Yield, error) {
				released = true
				cond.Notify()
				return WaitFor(1 * Ns), nil
			},
		))

		Expect(engine.Run()).To(Succeed())
		Expect(trace).To(Equal([]string{
			"consumer@0ns", "producer@0ns",
			"producer@4ns", "consumer@4ns", "producer@5ns",
		}))
	})

	It("should wake once when waiting on several conditions", func() {
		c1 := NewCondition("c1")
		c2 := NewCondition("c2")

		p := Spawn(engine, activity("waiter",
			func(VTimeInPs) (Yield, error) { return WaitOn(c1, c2), nil },
		))
		Spawn(engine, activity("notifier",
			waitFor(1*Ns),
			func(VTimeInPs) (Yield, error) {
				c2.Notify()
				c1.Notify()
				return Exit(), nil
			},
		))

		Expect(engine.Run()).To(Succeed())

		Expect(trace).To(Equal([]string{
			"waiter@0ns", "notifier@0ns", "notifier@1ns", "waiter@1ns",
		}))
		Expect(c1.NumWaiters()).To(Equal(0))
		Expect(c2.NumWaiters()).To(Equal(0))
		Expect(p.Waiting()).To(BeFalse())
	})

	It("should return the activity error from Run", func() {
		failure := errors.New("broken invariant")

		Spawn(engine, activity("a",
			waitFor(2*Ns),
			func(VTimeInPs) (Yield, error) { return Yield{}, failure },
		))
		Spawn(engine, activity("b", waitFor(10*Ns)))

		err := engine.Run()

		Expect(errors.Is(err, failure)).To(BeTrue())
		Expect(err.Error()).To(ContainSubstring("a: "))
		Expect(engine.CurrentTime()).To(Equal(2 * Ns))
	})

	It("should panic when waiting on nothing", func() {
		Expect(func() { WaitOn() }).To(Panic())
	})
})
