package sim

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Freq", func() {
	It("should get period", func() {
		Expect((1 * GHz).Period()).To(Equal(1 * Ns))
		Expect((500 * MHz).Period()).To(Equal(2 * Ns))
	})

	It("should panic on a zero frequency", func() {
		Expect(func() { Freq(0).Period() }).To(Panic())
	})

	It("should get this tick", func() {
		f := 1 * GHz
		Expect(f.ThisTick(3 * Ns)).To(Equal(3 * Ns))
		Expect(f.ThisTick(3*Ns + 1)).To(Equal(4 * Ns))
	})

	It("should get the next tick", func() {
		f := 1 * GHz
		Expect(f.NextTick(3 * Ns)).To(Equal(4 * Ns))
		Expect(f.NextTick(3*Ns + 500)).To(Equal(4 * Ns))
	})

	It("should get the n cycles later", func() {
		f := 1 * GHz
		Expect(f.NCyclesLater(12, 102*Ns)).To(Equal(114 * Ns))
		Expect(f.NCyclesLater(12, 102*Ns+1)).To(Equal(115 * Ns))
	})

	It("should convert cycles to time", func() {
		Expect((1 * GHz).CyclesToTime(10)).To(Equal(10 * Ns))
		Expect((2 * GHz).CyclesToTime(3)).To(Equal(1500 * Ps))
		Expect((1 * GHz).CyclesToTime(0)).To(Equal(VTimeInPs(0)))
	})

	It("should count cycles", func() {
		Expect((1 * GHz).Cycle(10*Ns + 300)).To(Equal(uint64(10)))
	})
})

var _ = Describe("VTimeInPs", func() {
	It("should convert units", func() {
		Expect((1500 * Ps).InNs()).To(BeNumerically("~", 1.5, 1e-12))
		Expect((2 * Sec).InSec()).To(BeNumerically("~", 2.0, 1e-12))
		Expect(NsToTime(2.5)).To(Equal(2500 * Ps))
		Expect(NsToTime(-1)).To(Equal(VTimeInPs(0)))
	})

	It("should print", func() {
		Expect((3 * Ns).String()).To(Equal("3ns"))
		Expect((3*Ns + 1).String()).To(Equal("3001ps"))
	})
})
