package sim

import (
	"math/rand/v2"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	gomock "go.uber.org/mock/gomock"
)

var _ = Describe("HeapEventQueue", func() {
	var (
		mockCtrl *gomock.Controller
		queue    *HeapEventQueue
	)

	event := func(t VTimeInPs, secondary bool) *MockEvent {
		evt := NewMockEvent(mockCtrl)
		evt.EXPECT().Time().Return(t).AnyTimes()
		evt.EXPECT().IsSecondary().Return(secondary).AnyTimes()

		return evt
	}

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		queue = NewEventQueue()
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	It("should pop in time order", func() {
		rng := rand.New(rand.NewPCG(1, 2))
		for i := 0; i < 100; i++ {
			queue.Push(event(VTimeInPs(rng.Uint64N(100000)), false))
		}

		now := VTimeInPs(0)
		for queue.Len() > 0 {
			evt := queue.Pop()
			Expect(evt.Time()).To(BeNumerically(">=", now))
			now = evt.Time()
		}
	})

	It("should keep push order for events of the same time", func() {
		events := make([]*MockEvent, 0)
		for i := 0; i < 20; i++ {
			evt := event(VTimeInPs(i%2)*Ns, false)
			events = append(events, evt)
			queue.Push(evt)
		}

		for i := 0; i < 20; i += 2 {
			Expect(queue.Pop()).To(BeIdenticalTo(events[i]))
		}

		Expect(queue.Peek()).To(BeIdenticalTo(events[1]))

		for i := 1; i < 20; i += 2 {
			Expect(queue.Pop()).To(BeIdenticalTo(events[i]))
		}
	})

	It("should put secondary events after the primary ones", func() {
		late := event(2*Ns, false)
		secondary := event(1*Ns, true)
		primary := event(1*Ns, false)

		queue.Push(late)
		queue.Push(secondary)
		queue.Push(primary)

		Expect(queue.Pop()).To(BeIdenticalTo(primary))
		Expect(queue.Pop()).To(BeIdenticalTo(secondary))
		Expect(queue.Pop()).To(BeIdenticalTo(late))
	})

	It("should return nil when empty", func() {
		Expect(queue.Len()).To(BeZero())
		Expect(queue.Peek()).To(BeNil())
		Expect(queue.Pop()).To(BeNil())
	})
})
