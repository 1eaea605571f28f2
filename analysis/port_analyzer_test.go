package analysis

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"

	"github.com/sarchlab/nocsim/noc/messaging"
	"github.com/sarchlab/nocsim/sim"
)

type fakePort struct {
	coord messaging.Coord
}

func (p fakePort) Name() string {
	return "Xbar.Port[0][0]"
}

func (p fakePort) Coord() messaging.Coord {
	return p.coord
}

var _ = Describe("PortAnalyzer", func() {
	var (
		mockCtrl   *gomock.Controller
		timeTeller *MockTimeTeller
		logger     *MockPerfLogger
		analyzer   *PortAnalyzer
		here       messaging.Coord
		right      messaging.Coord
		below      messaging.Coord
	)

	deliver := func(t sim.VTimeInPs, src, dst messaging.Coord, size int) {
		timeTeller.EXPECT().CurrentTime().Return(t)
		analyzer.Func(sim.HookCtx{
			Pos:  messaging.HookPosPacketDeliver,
			Item: &messaging.Packet{Src: src, Dst: dst, Size: size},
		})
	}

	traffic := func(
		start, end float64,
		remote messaging.Coord,
		what, unit string,
		value float64,
	) PerfAnalyzerEntry {
		return PerfAnalyzerEntry{
			Start:       start,
			End:         end,
			Where:       "Xbar.Port[0][0]",
			WhereRemote: remote.String(),
			What:        what,
			EntryType:   "Traffic",
			Value:       value,
			Unit:        unit,
		}
	}

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		timeTeller = NewMockTimeTeller(mockCtrl)
		logger = NewMockPerfLogger(mockCtrl)
		here = messaging.Coord{Row: 0, Col: 0}
		right = messaging.Coord{Row: 0, Col: 1}
		below = messaging.Coord{Row: 1, Col: 0}

		analyzer = MakePortAnalyzerBuilder().
			WithPerfLogger(logger).
			WithTimeTeller(timeTeller).
			WithPeriod(1 * sim.Ns).
			WithPort(fakePort{coord: here}).
			Build()
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	It("should ignore other hook positions and unrelated packets", func() {
		analyzer.Func(sim.HookCtx{
			Pos:  messaging.HookPosPacketInject,
			Item: &messaging.Packet{Src: here, Dst: right},
		})
		analyzer.Func(sim.HookCtx{
			Pos:  messaging.HookPosPacketDeliver,
			Item: &messaging.Packet{Src: below, Dst: right},
		})

		inMsg, _, outMsg, _ := analyzer.Totals()
		Expect(inMsg).To(BeZero())
		Expect(outMsg).To(BeZero())
	})

	It("should report traffic per remote port and period", func() {
		deliver(100, here, right, 32)
		deliver(200, below, here, 16)

		gomock.InOrder(
			logger.EXPECT().AddDataEntry(
				traffic(0, 1, right, "Outgoing", "Byte", 32)),
			logger.EXPECT().AddDataEntry(
				traffic(0, 1, right, "Outgoing", "Msg", 1)),
			logger.EXPECT().AddDataEntry(
				traffic(0, 1, below, "Incoming", "Byte", 16)),
			logger.EXPECT().AddDataEntry(
				traffic(0, 1, below, "Incoming", "Msg", 1)),
		)
		deliver(1200, here, right, 32)

		gomock.InOrder(
			logger.EXPECT().AddDataEntry(
				traffic(1, 1.5, right, "Outgoing", "Byte", 32)),
			logger.EXPECT().AddDataEntry(
				traffic(1, 1.5, right, "Outgoing", "Msg", 1)),
		)
		analyzer.Terminate(1500)

		inMsg, inBytes, outMsg, outBytes := analyzer.Totals()
		Expect(inMsg).To(Equal(int64(1)))
		Expect(inBytes).To(Equal(int64(16)))
		Expect(outMsg).To(Equal(int64(2)))
		Expect(outBytes).To(Equal(int64(64)))
	})
})
